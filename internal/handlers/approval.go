package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-action-api/internal/dto"
	apierrors "github.com/yukikurage/meeting-action-api/internal/errors"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"github.com/yukikurage/meeting-action-api/internal/services"
	"github.com/yukikurage/meeting-action-api/internal/utils"
)

type ApprovalHandler struct {
	approvalService *services.ApprovalService
}

func NewApprovalHandler(approvalService *services.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func toApprovalResult(res *services.ApprovalResult) dto.ApprovalResultDTO {
	return dto.ApprovalResultDTO{
		Action:      dto.ToActionDTO(*res.Action),
		Responsible: dto.ToResponsibleDTO(res.Responsible),
		Completed:   res.Completed,
	}
}

// Approve records the caller's own approval or rejection
func (h *ApprovalHandler) Approve(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type ApproveRequest struct {
		ActionID      uint64  `json:"actionId" binding:"required"`
		ResponsibleID *uint64 `json:"responsibleId"`
		UserID        *uint64 `json:"userId"`
		Approved      *bool   `json:"approved" binding:"required"`
		Comment       *string `json:"comment"`
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "actionId and approved are required")
		return
	}

	// Without an explicit target the caller approves their own assignment
	userID := req.UserID
	if req.ResponsibleID == nil && userID == nil {
		userID = &actor.UserID
	}

	res, err := h.approvalService.RecordIndividualApproval(c.Request.Context(), actor, services.RecordApprovalInput{
		ActionID:      req.ActionID,
		ResponsibleID: req.ResponsibleID,
		UserID:        userID,
		Approved:      *req.Approved,
		Comment:       req.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toApprovalResult(res), res.Message)
}

// Ratify lets the meeting authority approve or reject an assignment
func (h *ApprovalHandler) Ratify(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	actionID, ok := pathID(c, "id", "action")
	if !ok {
		return
	}

	type RatifyRequest struct {
		ResponsibleID uint64  `json:"responsibleId" binding:"required"`
		Approved      *bool   `json:"approved"`
		Onaylandi     *bool   `json:"onaylandi"`
		Comment       *string `json:"comment"`
	}

	var req RatifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "responsibleId is required")
		return
	}
	approved := req.Approved
	if approved == nil {
		approved = req.Onaylandi
	}
	if approved == nil {
		apierrors.BadRequest(c, "approved is required")
		return
	}

	res, err := h.approvalService.ApproveAsAuthority(c.Request.Context(), actor, actionID, req.ResponsibleID, *approved, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toApprovalResult(res), res.Message)
}

// UpdateProgress records self-reported progress on an assignment
func (h *ApprovalHandler) UpdateProgress(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	responsibleID, ok := pathID(c, "id", "responsible")
	if !ok {
		return
	}

	type UpdateProgressRequest struct {
		Status    *string `json:"status"`
		StartDate *string `json:"startDate"`
		EndDate   *string `json:"endDate"`
		Comment   *string `json:"comment"`
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateProgressInput{Comment: req.Comment}
	if req.Status != nil {
		status := models.ResponsibleStatus(*req.Status)
		input.Status = &status
	}
	var err error
	if input.StartDate, err = utils.ParseOptionalDate(req.StartDate); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.EndDate, err = utils.ParseOptionalDate(req.EndDate); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	responsible, err := h.approvalService.UpdateResponsibleProgress(c.Request.Context(), actor, responsibleID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, dto.ToResponsibleDTO(*responsible), "Progress updated")
}

// ListPendingApprovals returns the authority inbox
func (h *ApprovalHandler) ListPendingApprovals(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	inbox, err := h.approvalService.ListPendingApprovalsForAuthority(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, dto.ToPendingApprovalsResponse(inbox.ExtensionRequests, inbox.ActionApprovals), "")
}
