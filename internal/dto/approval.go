package dto

import (
	"time"

	"github.com/yukikurage/meeting-action-api/internal/constants"
	"github.com/yukikurage/meeting-action-api/internal/models"
)

// ExtensionRequestDTO represents an extension request
type ExtensionRequestDTO struct {
	ID              uint64                 `json:"id"`
	ResponsibleID   uint64                 `json:"responsibleId"`
	RequesterID     uint64                 `json:"requesterId"`
	Requester       *UserSummaryDTO        `json:"requester,omitempty"`
	NewDate         string                 `json:"newDate"`
	RequestComment  string                 `json:"requestComment"`
	Status          models.ExtensionStatus `json:"status"`
	ResponderID     *uint64                `json:"responderId"`
	ResponseComment *string                `json:"responseComment"`
	RequestedAt     time.Time              `json:"requestedAt"`
	RespondedAt     *time.Time             `json:"respondedAt"`
}

// InboxActionDTO is the action context shown with inbox items
type InboxActionDTO struct {
	ID       uint64              `json:"id"`
	Title    string              `json:"title"`
	Status   models.ActionStatus `json:"status"`
	Priority models.Priority     `json:"priority"`
}

// ExtensionInboxItem is a pending extension request with its context
type ExtensionInboxItem struct {
	ExtensionRequestDTO
	CurrentEndDate *string            `json:"currentEndDate"`
	Action         *InboxActionDTO    `json:"action,omitempty"`
	Meeting        *MeetingSummaryDTO `json:"meeting,omitempty"`
}

// ApprovalInboxItem is an assignment reported completed but not yet ratified
type ApprovalInboxItem struct {
	ResponsibleDTO
	Action  *InboxActionDTO    `json:"action,omitempty"`
	Meeting *MeetingSummaryDTO `json:"meeting,omitempty"`
}

// PendingApprovalsResponse is the authority inbox
type PendingApprovalsResponse struct {
	ExtensionRequests []ExtensionInboxItem `json:"extensionRequests"`
	ActionApprovals   []ApprovalInboxItem  `json:"actionApprovals"`
}

// OverdueItemDTO is one late assignment
type OverdueItemDTO struct {
	ResponsibleID uint64             `json:"responsibleId"`
	User          *UserSummaryDTO    `json:"user,omitempty"`
	Action        *InboxActionDTO    `json:"action,omitempty"`
	Meeting       *MeetingSummaryDTO `json:"meeting,omitempty"`
	EndDate       *string            `json:"endDate"`
	DelayDays     int                `json:"delayDays"`
	Status        string             `json:"status"`
}

// OverdueResponse is the overdue list with summary counts
type OverdueResponse struct {
	Items             []OverdueItemDTO        `json:"items"`
	TotalCount        int                     `json:"totalCount"`
	CriticalCount     int                     `json:"criticalCount"`
	HighPriorityCount int                     `json:"highPriorityCount"`
	ByPriority        map[models.Priority]int `json:"byPriority"`
}

// ToExtensionRequestDTO converts an ExtensionRequest model
func ToExtensionRequestDTO(r models.ExtensionRequest) ExtensionRequestDTO {
	return ExtensionRequestDTO{
		ID:              r.ID,
		ResponsibleID:   r.ResponsibleID,
		RequesterID:     r.RequesterID,
		Requester:       toUserSummary(r.Requester),
		NewDate:         r.NewDate.UTC().Format(constants.DateLayout),
		RequestComment:  r.RequestComment,
		Status:          r.Status,
		ResponderID:     r.ResponderID,
		ResponseComment: r.ResponseComment,
		RequestedAt:     r.RequestedAt,
		RespondedAt:     r.RespondedAt,
	}
}

func toInboxAction(action *models.Action) *InboxActionDTO {
	if action == nil || action.ID == 0 {
		return nil
	}
	return &InboxActionDTO{ID: action.ID, Title: action.Title, Status: action.Status, Priority: action.Priority}
}

func meetingOf(action *models.Action) *MeetingSummaryDTO {
	if action == nil {
		return nil
	}
	return ToMeetingSummary(action.Meeting)
}

// ToPendingApprovalsResponse converts the authority inbox
func ToPendingApprovalsResponse(extensions []models.ExtensionRequest, awaiting []models.ActionResponsible) PendingApprovalsResponse {
	resp := PendingApprovalsResponse{
		ExtensionRequests: make([]ExtensionInboxItem, len(extensions)),
		ActionApprovals:   make([]ApprovalInboxItem, len(awaiting)),
	}

	for i, e := range extensions {
		item := ExtensionInboxItem{ExtensionRequestDTO: ToExtensionRequestDTO(e)}
		if e.Responsible != nil {
			item.CurrentEndDate = FormatDate(e.Responsible.EndDate)
			item.Action = toInboxAction(e.Responsible.Action)
			item.Meeting = meetingOf(e.Responsible.Action)
		}
		resp.ExtensionRequests[i] = item
	}

	for i, r := range awaiting {
		resp.ActionApprovals[i] = ApprovalInboxItem{
			ResponsibleDTO: ToResponsibleDTO(r),
			Action:         toInboxAction(r.Action),
			Meeting:        meetingOf(r.Action),
		}
	}

	return resp
}

// OverdueEntry is the input for ToOverdueResponse.
type OverdueEntry struct {
	Responsible models.ActionResponsible
	DelayDays   int
}

// ToOverdueResponse converts an overdue report
func ToOverdueResponse(entries []OverdueEntry, total, critical, high int, byPriority map[models.Priority]int) OverdueResponse {
	resp := OverdueResponse{
		Items:             make([]OverdueItemDTO, len(entries)),
		TotalCount:        total,
		CriticalCount:     critical,
		HighPriorityCount: high,
		ByPriority:        byPriority,
	}
	for i, e := range entries {
		r := e.Responsible
		resp.Items[i] = OverdueItemDTO{
			ResponsibleID: r.ID,
			User:          toUserSummary(r.User),
			Action:        toInboxAction(r.Action),
			Meeting:       meetingOf(r.Action),
			EndDate:       FormatDate(r.EndDate),
			DelayDays:     e.DelayDays,
			Status:        "overdue",
		}
	}
	return resp
}
