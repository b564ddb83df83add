package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-action-api/internal/dto"
	apierrors "github.com/yukikurage/meeting-action-api/internal/errors"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"github.com/yukikurage/meeting-action-api/internal/services"
	"github.com/yukikurage/meeting-action-api/internal/utils"
)

type ActionHandler struct {
	actionService *services.ActionService
}

func NewActionHandler(actionService *services.ActionService) *ActionHandler {
	return &ActionHandler{actionService: actionService}
}

type responsibleRequest struct {
	UserID    uint64  `json:"userId" binding:"required"`
	Role      string  `json:"role"`
	Status    string  `json:"status"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

func (r responsibleRequest) toInput() (services.ResponsibleInput, error) {
	start, err := utils.ParseOptionalDate(r.StartDate)
	if err != nil {
		return services.ResponsibleInput{}, err
	}
	end, err := utils.ParseOptionalDate(r.EndDate)
	if err != nil {
		return services.ResponsibleInput{}, err
	}
	return services.ResponsibleInput{
		UserID:    r.UserID,
		Role:      r.Role,
		Status:    models.ResponsibleStatus(r.Status),
		StartDate: start,
		EndDate:   end,
	}, nil
}

func toResponsibleInputs(reqs []responsibleRequest) ([]services.ResponsibleInput, error) {
	inputs := make([]services.ResponsibleInput, len(reqs))
	for i, r := range reqs {
		in, err := r.toInput()
		if err != nil {
			return nil, err
		}
		inputs[i] = in
	}
	return inputs, nil
}

// ListActions returns the actions of the meeting given by ?meeting_id
func (h *ActionHandler) ListActions(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	meetingID, err := strconv.ParseUint(c.Query("meeting_id"), 10, 64)
	if err != nil || meetingID == 0 {
		apierrors.BadRequest(c, "meeting_id query parameter is required")
		return
	}

	actions, err := h.actionService.ListActions(c.Request.Context(), actor, meetingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, dto.ToActionDTOs(actions), "")
}

// CreateAction creates an action with its assignments
func (h *ActionHandler) CreateAction(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type CreateActionRequest struct {
		MeetingID    uint64               `json:"meetingId" binding:"required"`
		Title        string               `json:"title" binding:"required"`
		Description  string               `json:"description"`
		Status       string               `json:"status"`
		Priority     string               `json:"priority"`
		StartDate    *string              `json:"startDate"`
		EndDate      *string              `json:"endDate"`
		Responsibles []responsibleRequest `json:"responsibles" binding:"required,min=1,dive"`
	}

	var req CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	start, err := utils.ParseOptionalDate(req.StartDate)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	end, err := utils.ParseOptionalDate(req.EndDate)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	responsibles, err := toResponsibleInputs(req.Responsibles)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	action, err := h.actionService.CreateAction(c.Request.Context(), actor, services.CreateActionInput{
		MeetingID:    req.MeetingID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.ActionStatus(req.Status),
		Priority:     models.Priority(req.Priority),
		StartDate:    start,
		EndDate:      end,
		Responsibles: responsibles,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, dto.ToActionDTO(*action), "Action created")
}

// GetAction returns one action with its assignments
func (h *ActionHandler) GetAction(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	actionID, ok := pathID(c, "id", "action")
	if !ok {
		return
	}

	action, err := h.actionService.GetAction(c.Request.Context(), actor, actionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, dto.ToActionDTO(*action), "")
}

// AddResponsibles assigns more users to an action
func (h *ActionHandler) AddResponsibles(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	actionID, ok := pathID(c, "id", "action")
	if !ok {
		return
	}

	type AddResponsiblesRequest struct {
		Responsibles []responsibleRequest `json:"responsibles" binding:"required,min=1,dive"`
	}

	var req AddResponsiblesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	responsibles, err := toResponsibleInputs(req.Responsibles)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	action, err := h.actionService.AddResponsibles(c.Request.Context(), actor, actionID, responsibles)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, dto.ToActionDTO(*action), "Responsibles added")
}
