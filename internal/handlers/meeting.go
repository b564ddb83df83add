package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-action-api/internal/dto"
	apierrors "github.com/yukikurage/meeting-action-api/internal/errors"
	"github.com/yukikurage/meeting-action-api/internal/middleware"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"github.com/yukikurage/meeting-action-api/internal/services"
	"github.com/yukikurage/meeting-action-api/internal/utils"
)

type MeetingHandler struct {
	meetingService *services.MeetingService
}

func NewMeetingHandler(meetingService *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService}
}

// CreateMeeting creates a meeting owned by the caller
func (h *MeetingHandler) CreateMeeting(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type CreateMeetingRequest struct {
		Title          string   `json:"title" binding:"required"`
		Description    string   `json:"description"`
		Date           string   `json:"date" binding:"required"`
		Time           string   `json:"time"`
		Duration       int      `json:"duration"`
		Location       *string  `json:"location"`
		OnlineLink     *string  `json:"onlineLink"`
		ParticipantIDs []uint64 `json:"participantIds"`
	}

	var req CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	meeting, err := h.meetingService.CreateMeeting(c.Request.Context(), actor, services.CreateMeetingInput{
		Title:          req.Title,
		Description:    req.Description,
		Date:           date,
		Time:           req.Time,
		Duration:       req.Duration,
		Location:       req.Location,
		OnlineLink:     req.OnlineLink,
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, dto.ToMeetingDTO(*meeting), "Meeting created")
}

// ListMeetings returns the caller's company meetings, newest first
func (h *MeetingHandler) ListMeetings(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	params := utils.PaginationFromQuery(c)
	input := services.ListMeetingsInput{Pagination: params}
	if status := c.Query("status"); status != "" {
		s := models.MeetingStatus(status)
		input.Status = &s
	}

	meetings, total, err := h.meetingService.ListMeetings(c.Request.Context(), actor, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, dto.ToMeetingListResponse(meetings, params, total), "")
}

// GetMeeting returns the meeting loaded by RequireMeetingAccess
func (h *MeetingHandler) GetMeeting(c *gin.Context) {
	meeting, ok := middleware.GetMeeting(c)
	if !ok {
		apierrors.InternalError(c, "Meeting not found in context")
		return
	}

	respondOK(c, dto.ToMeetingDTO(*meeting), "")
}

// AddParticipant invites a company user to the meeting
func (h *MeetingHandler) AddParticipant(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	meetingID, ok := pathID(c, "id", "meeting")
	if !ok {
		return
	}

	var req struct {
		UserID uint64 `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "userId is required")
		return
	}

	participant, err := h.meetingService.AddParticipant(c.Request.Context(), actor, meetingID, req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, dto.ToParticipantDTO(*participant), "Participant added")
}

// RespondToInvitation records an answer to the meeting invitation
func (h *MeetingHandler) RespondToInvitation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	meetingID, ok := pathID(c, "id", "meeting")
	if !ok {
		return
	}

	var req struct {
		UserID   *uint64 `json:"userId"`
		Response string  `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "response is required")
		return
	}

	participant, err := h.meetingService.RespondToInvitation(c.Request.Context(), actor, services.RespondInvitationInput{
		MeetingID: meetingID,
		UserID:    req.UserID,
		Response:  models.ParticipantResponse(req.Response),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, dto.ToParticipantDTO(*participant), "Response recorded")
}
