package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/meeting-action-api/internal/models"
)

func TestBuildOverdueReport(t *testing.T) {
	today := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	daysAgo := func(n int) *time.Time {
		d := today.AddDate(0, 0, -n)
		return &d
	}
	entry := func(id uint64, p models.Priority, end *time.Time) models.ActionResponsible {
		return models.ActionResponsible{ID: id, EndDate: end, Action: &models.Action{Priority: p}}
	}

	report := BuildOverdueReport([]models.ActionResponsible{
		entry(1, models.PriorityLow, daysAgo(30)),
		entry(2, models.PriorityCritical, daysAgo(1)),
		entry(3, models.PriorityHigh, daysAgo(5)),
		entry(4, models.PriorityCritical, daysAgo(4)),
		entry(5, models.PriorityHigh, nil),
	}, today)

	require.Len(t, report.Entries, 4)
	var order []uint64
	for _, e := range report.Entries {
		order = append(order, e.Responsible.ID)
	}
	assert.Equal(t, []uint64{4, 2, 3, 1}, order)
	assert.Equal(t, 4, report.Entries[0].DelayDays)
	assert.Equal(t, 30, report.Entries[3].DelayDays)

	assert.Equal(t, 4, report.TotalCount)
	assert.Equal(t, 2, report.CriticalCount)
	assert.Equal(t, 1, report.HighPriorityCount)
	assert.Equal(t, map[models.Priority]int{
		models.PriorityCritical: 2,
		models.PriorityHigh:     1,
		models.PriorityLow:      1,
	}, report.ByPriority)
}

func TestBuildOverdueReport_Empty(t *testing.T) {
	report := BuildOverdueReport(nil, time.Now())
	assert.NotNil(t, report.Entries)
	assert.Zero(t, report.TotalCount)
}

func TestListOverdue(t *testing.T) {
	h := newHarness(t)

	late := h.createAction(t, models.PriorityCritical, daysFromToday(h, -3), h.alice, h.bob)
	h.createAction(t, models.PriorityLow, daysFromToday(h, 0), h.alice)
	done := h.createAction(t, models.PriorityHigh, daysFromToday(h, -10), h.bob)

	_, err := h.approvals.RecordIndividualApproval(h.ctx, actorOf(h.bob), RecordApprovalInput{
		ActionID: done.ID,
		UserID:   uint64Ptr(h.bob.ID),
		Approved: true,
	})
	require.NoError(t, err)

	report, err := h.overdue.ListOverdue(h.ctx, actorOf(h.admin))
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalCount)
	assert.Equal(t, 2, report.CriticalCount)
	for _, e := range report.Entries {
		assert.Equal(t, late.ID, e.Responsible.ActionID)
		assert.Equal(t, 3, e.DelayDays)
	}

	report, err = h.overdue.ListOverdue(h.ctx, actorOf(h.alice))
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalCount)

	report, err = h.overdue.ListOverdue(h.ctx, actorOf(h.creator))
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalCount)

	report, err = h.overdue.ListOverdue(h.ctx, actorOf(h.outsider))
	require.NoError(t, err)
	assert.Zero(t, report.TotalCount)
}

func TestListOverdue_ColleagueInSameMeeting(t *testing.T) {
	h := newHarness(t)

	h.createAction(t, models.PriorityLow, daysFromToday(h, 5), h.alice)
	late := h.createAction(t, models.PriorityCritical, daysFromToday(h, -3), h.bob)

	report, err := h.overdue.ListOverdue(h.ctx, actorOf(h.alice))
	require.NoError(t, err)
	require.Equal(t, 1, report.TotalCount)
	assert.Equal(t, h.bob.ID, report.Entries[0].Responsible.UserID)
	assert.Equal(t, late.ID, report.Entries[0].Responsible.ActionID)
	assert.Equal(t, 1, report.CriticalCount)

	carol := h.createUser(t, "carol@workcube.test", models.RoleMember, h.company.ID)
	report, err = h.overdue.ListOverdue(h.ctx, actorOf(carol))
	require.NoError(t, err)
	assert.Zero(t, report.TotalCount)
}
