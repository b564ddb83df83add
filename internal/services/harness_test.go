package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/meeting-action-api/internal/clock"
	"github.com/yukikurage/meeting-action-api/internal/database"
	"github.com/yukikurage/meeting-action-api/internal/events"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"github.com/yukikurage/meeting-action-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

type harness struct {
	db       *gorm.DB
	ctx      context.Context
	recorder *events.Recorder
	today    time.Time

	approvals  *ApprovalService
	extensions *ExtensionService
	actions    *ActionService
	meetings   *MeetingService
	overdue    *OverdueService
	actionRepo repository.ActionRepository

	company  models.Company
	other    models.Company
	admin    models.User
	creator  models.User
	alice    models.User
	bob      models.User
	outsider models.User
	meeting  models.Meeting
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clock.NowFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() { clock.NowFunc = time.Now })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	h := &harness{
		db:       db,
		ctx:      context.Background(),
		recorder: &events.Recorder{},
		today:    clock.StartOfDay(fixedNow),
	}

	userRepo := repository.NewUserRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	h.actionRepo = repository.NewActionRepository(db)
	extensionRepo := repository.NewExtensionRepository(db)

	h.approvals = NewApprovalService(h.actionRepo, extensionRepo, meetingRepo, h.recorder, zap.NewNop())
	h.extensions = NewExtensionService(h.actionRepo, extensionRepo, false, h.recorder, zap.NewNop())
	h.actions = NewActionService(h.actionRepo, meetingRepo, userRepo)
	h.meetings = NewMeetingService(meetingRepo, userRepo)
	h.overdue = NewOverdueService(h.actionRepo)

	h.company = models.Company{Name: "WorkCube"}
	h.other = models.Company{Name: "TechCorp"}
	require.NoError(t, db.Create(&h.company).Error)
	require.NoError(t, db.Create(&h.other).Error)

	h.admin = h.createUser(t, "admin@workcube.test", models.RoleAdmin, h.company.ID)
	h.creator = h.createUser(t, "creator@workcube.test", models.RoleMember, h.company.ID)
	h.alice = h.createUser(t, "alice@workcube.test", models.RoleMember, h.company.ID)
	h.bob = h.createUser(t, "bob@workcube.test", models.RoleMember, h.company.ID)
	h.outsider = h.createUser(t, "root@techcorp.test", models.RoleAdmin, h.other.ID)

	meeting, err := h.meetings.CreateMeeting(h.ctx, actorOf(h.creator), CreateMeetingInput{
		Title:          "Quarterly planning",
		Date:           h.today.AddDate(0, 0, -14),
		Time:           "10:00",
		ParticipantIDs: []uint64{h.alice.ID, h.bob.ID},
	})
	require.NoError(t, err)
	h.meeting = *meeting

	return h
}

func (h *harness) createUser(t *testing.T, email string, role models.Role, companyID uint64) models.User {
	t.Helper()
	u := models.User{FullName: email, Email: email, PasswordHash: "x", Role: role, CompanyID: companyID}
	require.NoError(t, h.db.Create(&u).Error)
	return u
}

func actorOf(u models.User) Actor {
	return Actor{UserID: u.ID, CompanyID: u.CompanyID, Role: u.Role, Email: u.Email}
}

// createAction creates an action on the harness meeting with one assignment per user.
func (h *harness) createAction(t *testing.T, priority models.Priority, endDate *time.Time, users ...models.User) *models.Action {
	t.Helper()
	inputs := make([]ResponsibleInput, len(users))
	for i, u := range users {
		inputs[i] = ResponsibleInput{UserID: u.ID, EndDate: endDate}
	}
	action, err := h.actions.CreateAction(h.ctx, actorOf(h.creator), CreateActionInput{
		MeetingID:    h.meeting.ID,
		Title:        "Prepare budget",
		Priority:     priority,
		Responsibles: inputs,
	})
	require.NoError(t, err)
	return action
}

func (h *harness) responsibleOf(action *models.Action, user models.User) models.ActionResponsible {
	for _, r := range action.Responsibles {
		if r.UserID == user.ID {
			return r
		}
	}
	return models.ActionResponsible{}
}

func (h *harness) reloadAction(t *testing.T, id uint64) *models.Action {
	t.Helper()
	action, err := h.actionRepo.FindByID(h.ctx, id, "Responsibles")
	require.NoError(t, err)
	return action
}

func daysFromToday(h *harness, days int) *time.Time {
	d := h.today.AddDate(0, 0, days)
	return &d
}

func uint64Ptr(v uint64) *uint64 { return &v }

func strPtr(v string) *string { return &v }
