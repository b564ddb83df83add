package dto

import (
	"time"

	"github.com/yukikurage/meeting-action-api/internal/models"
)

// ResponsibleDTO represents one assignment
type ResponsibleDTO struct {
	ID         uint64                   `json:"id"`
	ActionID   uint64                   `json:"actionId"`
	UserID     uint64                   `json:"userId"`
	User       *UserSummaryDTO          `json:"user,omitempty"`
	Role       string                   `json:"role"`
	Status     models.ResponsibleStatus `json:"status"`
	StartDate  *string                  `json:"startDate"`
	EndDate    *string                  `json:"endDate"`
	Approved   bool                     `json:"approved"`
	ApprovedAt *time.Time               `json:"approvedAt"`
	Comment    *string                  `json:"comment"`
}

// ActionDTO represents an action in API responses
type ActionDTO struct {
	ID           uint64              `json:"id"`
	MeetingID    uint64              `json:"meetingId"`
	Meeting      *MeetingSummaryDTO  `json:"meeting,omitempty"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       models.ActionStatus `json:"status"`
	Priority     models.Priority     `json:"priority"`
	StartDate    *string             `json:"startDate"`
	EndDate      *string             `json:"endDate"`
	Responsibles []ResponsibleDTO    `json:"responsibles"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// ApprovalResultDTO is returned by both approval endpoints
type ApprovalResultDTO struct {
	Action      ActionDTO      `json:"action"`
	Responsible ResponsibleDTO `json:"responsible"`
	Completed   bool           `json:"completed"`
}

// ToResponsibleDTO converts an ActionResponsible model to ResponsibleDTO
func ToResponsibleDTO(r models.ActionResponsible) ResponsibleDTO {
	return ResponsibleDTO{
		ID:         r.ID,
		ActionID:   r.ActionID,
		UserID:     r.UserID,
		User:       toUserSummary(r.User),
		Role:       r.Role,
		Status:     r.Status,
		StartDate:  FormatDate(r.StartDate),
		EndDate:    FormatDate(r.EndDate),
		Approved:   r.Approved,
		ApprovedAt: r.ApprovedAt,
		Comment:    r.Comment,
	}
}

// ToActionDTO converts an Action model to ActionDTO
func ToActionDTO(action models.Action) ActionDTO {
	dto := ActionDTO{
		ID:           action.ID,
		MeetingID:    action.MeetingID,
		Meeting:      ToMeetingSummary(action.Meeting),
		Title:        action.Title,
		Description:  action.Description,
		Status:       action.Status,
		Priority:     action.Priority,
		StartDate:    FormatDate(action.StartDate),
		EndDate:      FormatDate(action.EndDate),
		Responsibles: make([]ResponsibleDTO, len(action.Responsibles)),
		CreatedAt:    action.CreatedAt,
		UpdatedAt:    action.UpdatedAt,
	}
	for i, r := range action.Responsibles {
		dto.Responsibles[i] = ToResponsibleDTO(r)
	}
	return dto
}

// ToActionDTOs converts a slice of actions
func ToActionDTOs(actions []models.Action) []ActionDTO {
	items := make([]ActionDTO, len(actions))
	for i, a := range actions {
		items[i] = ToActionDTO(a)
	}
	return items
}
