package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/meeting-action-api/internal/database"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	ctx     context.Context
	company models.Company
	other   models.Company
	admin   models.User
	creator models.User
	alice   models.User
	bob     models.User
	meeting models.Meeting
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	f := &fixture{db: db, ctx: context.Background()}
	f.company = models.Company{Name: "WorkCube"}
	f.other = models.Company{Name: "TechCorp"}
	require.NoError(t, db.Create(&f.company).Error)
	require.NoError(t, db.Create(&f.other).Error)

	f.admin = f.user(t, "admin@workcube.test", models.RoleAdmin, f.company.ID)
	f.creator = f.user(t, "creator@workcube.test", models.RoleMember, f.company.ID)
	f.alice = f.user(t, "alice@workcube.test", models.RoleMember, f.company.ID)
	f.bob = f.user(t, "bob@workcube.test", models.RoleMember, f.company.ID)

	f.meeting = models.Meeting{
		Title:     "Weekly sync",
		Date:      time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		CompanyID: f.company.ID,
		CreatorID: f.creator.ID,
	}
	require.NoError(t, db.Create(&f.meeting).Error)
	return f
}

func (f *fixture) user(t *testing.T, email string, role models.Role, companyID uint64) models.User {
	t.Helper()
	u := models.User{FullName: email, Email: email, PasswordHash: "x", Role: role, CompanyID: companyID}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) action(t *testing.T, meeting models.Meeting, priority models.Priority, responsibles ...models.ActionResponsible) *models.Action {
	t.Helper()
	a := &models.Action{MeetingID: meeting.ID, Title: "Follow up", Status: models.ActionStatusPending, Priority: priority}
	require.NoError(t, NewActionRepository(f.db).CreateWithResponsibles(f.ctx, a, responsibles))
	return a
}

func assign(userID uint64) models.ActionResponsible {
	return models.ActionResponsible{UserID: userID, Role: "primary", Status: models.ResponsibleStatusPending}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func allApproved(current models.ActionStatus, responsibles []models.ActionResponsible) (models.ActionStatus, bool) {
	if current == models.ActionStatusCompleted || len(responsibles) == 0 {
		return current, false
	}
	for _, r := range responsibles {
		if !r.Approved {
			return current, false
		}
	}
	return models.ActionStatusCompleted, true
}
