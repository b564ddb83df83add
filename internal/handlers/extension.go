package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-action-api/internal/dto"
	apierrors "github.com/yukikurage/meeting-action-api/internal/errors"
	"github.com/yukikurage/meeting-action-api/internal/services"
	"github.com/yukikurage/meeting-action-api/internal/utils"
)

type ExtensionHandler struct {
	extensionService *services.ExtensionService
}

func NewExtensionHandler(extensionService *services.ExtensionService) *ExtensionHandler {
	return &ExtensionHandler{extensionService: extensionService}
}

// RequestExtension files an extension request on the caller's assignment
func (h *ExtensionHandler) RequestExtension(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	responsibleID, ok := pathID(c, "id", "responsible")
	if !ok {
		return
	}

	type ExtensionRequest struct {
		NewDate string `json:"newDate" binding:"required"`
		Comment string `json:"comment"`
	}

	var req ExtensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, services.ErrNewDateRequired.Error())
		return
	}
	newDate, err := utils.ParseDate(req.NewDate)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	request, err := h.extensionService.RequestExtension(c.Request.Context(), actor, services.RequestExtensionInput{
		ResponsibleID: responsibleID,
		NewDate:       newDate,
		Comment:       req.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, dto.ToExtensionRequestDTO(*request), "Extension request submitted")
}

// RespondToExtension accepts or rejects a pending request
func (h *ExtensionHandler) RespondToExtension(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	requestID, ok := pathID(c, "id", "extension request")
	if !ok {
		return
	}

	type RespondRequest struct {
		Accepted        *bool   `json:"accepted" binding:"required"`
		ResponseComment *string `json:"responseComment"`
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "accepted is required")
		return
	}

	request, err := h.extensionService.RespondToExtension(c.Request.Context(), actor, services.RespondExtensionInput{
		RequestID: requestID,
		Accepted:  *req.Accepted,
		Comment:   req.ResponseComment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Extension request rejected"
	if *req.Accepted {
		message = "Extension request accepted"
	}
	respondOK(c, dto.ToExtensionRequestDTO(*request), message)
}
