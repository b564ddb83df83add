package dto

import (
	"time"

	"github.com/yukikurage/meeting-action-api/internal/constants"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"github.com/yukikurage/meeting-action-api/internal/utils"
)

// MeetingSummaryDTO is the short meeting form embedded in actions and inbox items
type MeetingSummaryDTO struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// MeetingDTO represents a meeting in API responses
type MeetingDTO struct {
	ID           uint64               `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Date         string               `json:"date"`
	Time         string               `json:"time"`
	Duration     int                  `json:"duration"`
	Location     *string              `json:"location"`
	OnlineLink   *string              `json:"onlineLink"`
	Status       models.MeetingStatus `json:"status"`
	CreatorID    uint64               `json:"creatorId"`
	Creator      *UserSummaryDTO      `json:"creator,omitempty"`
	Participants []ParticipantDTO     `json:"participants,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// ParticipantDTO is an invited user and their answer
type ParticipantDTO struct {
	UserID      uint64                     `json:"userId"`
	User        *UserSummaryDTO            `json:"user,omitempty"`
	Response    models.ParticipantResponse `json:"response"`
	RespondedAt *time.Time                 `json:"respondedAt"`
}

// MeetingListResponse represents a paginated list of meetings
type MeetingListResponse struct {
	Meetings   []MeetingDTO             `json:"meetings"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToMeetingSummary converts a Meeting model to MeetingSummaryDTO
func ToMeetingSummary(meeting *models.Meeting) *MeetingSummaryDTO {
	if meeting == nil || meeting.ID == 0 {
		return nil
	}
	return &MeetingSummaryDTO{
		ID:    meeting.ID,
		Title: meeting.Title,
		Date:  meeting.Date.UTC().Format(constants.DateLayout),
	}
}

// ToMeetingDTO converts a Meeting model to MeetingDTO
func ToMeetingDTO(meeting models.Meeting) MeetingDTO {
	dto := MeetingDTO{
		ID:          meeting.ID,
		Title:       meeting.Title,
		Description: meeting.Description,
		Date:        meeting.Date.UTC().Format(constants.DateLayout),
		Time:        meeting.Time,
		Duration:    meeting.Duration,
		Location:    meeting.Location,
		OnlineLink:  meeting.OnlineLink,
		Status:      meeting.Status,
		CreatorID:   meeting.CreatorID,
		Creator:     toUserSummary(meeting.Creator),
		CreatedAt:   meeting.CreatedAt,
	}

	for _, p := range meeting.Participants {
		dto.Participants = append(dto.Participants, ToParticipantDTO(p))
	}

	return dto
}

// ToParticipantDTO converts a MeetingParticipant model
func ToParticipantDTO(p models.MeetingParticipant) ParticipantDTO {
	return ParticipantDTO{
		UserID:      p.UserID,
		User:        toUserSummary(p.User),
		Response:    p.Response,
		RespondedAt: p.RespondedAt,
	}
}

// ToMeetingListResponse converts a page of meetings
func ToMeetingListResponse(meetings []models.Meeting, params utils.PaginationParams, total int64) MeetingListResponse {
	items := make([]MeetingDTO, len(meetings))
	for i, m := range meetings {
		items[i] = ToMeetingDTO(m)
	}
	return MeetingListResponse{
		Meetings:   items,
		Pagination: params.Meta(total),
	}
}
