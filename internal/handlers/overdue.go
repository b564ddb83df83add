package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-action-api/internal/dto"
	"github.com/yukikurage/meeting-action-api/internal/services"
)

type OverdueHandler struct {
	overdueService *services.OverdueService
}

func NewOverdueHandler(overdueService *services.OverdueService) *OverdueHandler {
	return &OverdueHandler{overdueService: overdueService}
}

// ListOverdue returns late assignments, most urgent first
func (h *OverdueHandler) ListOverdue(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	report, err := h.overdueService.ListOverdue(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	entries := make([]dto.OverdueEntry, len(report.Entries))
	for i, e := range report.Entries {
		entries[i] = dto.OverdueEntry{Responsible: e.Responsible, DelayDays: e.DelayDays}
	}

	respondOK(c, dto.ToOverdueResponse(entries, report.TotalCount, report.CriticalCount, report.HighPriorityCount, report.ByPriority), "")
}
