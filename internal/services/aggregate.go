package services

import "github.com/yukikurage/meeting-action-api/internal/models"

// DeriveActionStatus decides an action's status from its assignments. It
// promotes to completed once there is at least one assignment and all are
// approved. It never demotes: a completed action stays completed even after
// a later rejection. promoted is true only when the status changes.
func DeriveActionStatus(current models.ActionStatus, responsibles []models.ActionResponsible) (models.ActionStatus, bool) {
	if current == models.ActionStatusCompleted {
		return current, false
	}
	if !AllApproved(responsibles) {
		return current, false
	}
	return models.ActionStatusCompleted, true
}

// AllApproved reports whether the set is non-empty and every assignment is approved.
func AllApproved(responsibles []models.ActionResponsible) bool {
	if len(responsibles) == 0 {
		return false
	}
	for _, r := range responsibles {
		if !r.Approved {
			return false
		}
	}
	return true
}
