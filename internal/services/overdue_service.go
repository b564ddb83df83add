package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yukikurage/meeting-action-api/internal/clock"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"github.com/yukikurage/meeting-action-api/internal/repository"
	"github.com/yukikurage/meeting-action-api/internal/utils"
)

// OverdueEntry is one late assignment and how many days it is late.
type OverdueEntry struct {
	Responsible models.ActionResponsible
	DelayDays   int
}

// OverdueReport is the overdue list with its summary counts.
type OverdueReport struct {
	Entries           []OverdueEntry
	TotalCount        int
	CriticalCount     int
	HighPriorityCount int
	ByPriority        map[models.Priority]int
}

// OverdueService derives the overdue list for an actor
type OverdueService struct {
	actionRepo repository.ActionRepository
}

// NewOverdueService creates a new OverdueService
func NewOverdueService(actionRepo repository.ActionRepository) *OverdueService {
	return &OverdueService{actionRepo: actionRepo}
}

// ListOverdue returns assignments whose end date is before today on actions
// that are not completed. Administrators see the whole company; other users
// see every overdue assignment in meetings they created or hold an assignment in.
func (s *OverdueService) ListOverdue(ctx context.Context, actor Actor) (*OverdueReport, error) {
	today := clock.Today()
	scope := repository.OverdueScope{CompanyID: actor.CompanyID, Today: today}
	if !actor.IsAdmin() {
		userID := actor.UserID
		scope.UserID = &userID
	}

	responsibles, err := s.actionRepo.ListOverdue(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue actions: %w", err)
	}

	return BuildOverdueReport(responsibles, today), nil
}

// BuildOverdueReport computes delays, sorts by priority rank then delay (both
// descending) and tallies the counts.
func BuildOverdueReport(responsibles []models.ActionResponsible, today time.Time) *OverdueReport {
	report := &OverdueReport{
		Entries:    make([]OverdueEntry, 0, len(responsibles)),
		ByPriority: map[models.Priority]int{},
	}

	for _, r := range responsibles {
		if r.EndDate == nil {
			continue
		}
		report.Entries = append(report.Entries, OverdueEntry{
			Responsible: r,
			DelayDays:   utils.DaysBetween(*r.EndDate, today),
		})
	}

	sort.SliceStable(report.Entries, func(i, j int) bool {
		pi, pj := entryPriority(report.Entries[i]).Rank(), entryPriority(report.Entries[j]).Rank()
		if pi != pj {
			return pi > pj
		}
		return report.Entries[i].DelayDays > report.Entries[j].DelayDays
	})

	for _, e := range report.Entries {
		p := entryPriority(e)
		report.ByPriority[p]++
		switch p {
		case models.PriorityCritical:
			report.CriticalCount++
		case models.PriorityHigh:
			report.HighPriorityCount++
		}
	}
	report.TotalCount = len(report.Entries)

	return report
}

func entryPriority(e OverdueEntry) models.Priority {
	if e.Responsible.Action == nil {
		return ""
	}
	return e.Responsible.Action.Priority
}
