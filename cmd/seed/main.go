package main

import (
	"log"
	"time"

	"github.com/yukikurage/meeting-action-api/internal/clock"
	"github.com/yukikurage/meeting-action-api/internal/config"
	"github.com/yukikurage/meeting-action-api/internal/constants"
	"github.com/yukikurage/meeting-action-api/internal/database"
	"github.com/yukikurage/meeting-action-api/internal/logger"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPassword = "123456"

type seedUser struct {
	FullName   string
	Email      string
	Role       models.Role
	Department string
	Position   string
}

// seedCompanies maps each demo company to its users. The first user of each
// company is its administrator.
var seedCompanies = []struct {
	Name  string
	Users []seedUser
}{
	{
		Name: "WorkCube",
		Users: []seedUser{
			{"Ayşe Yılmaz", "admin@workcube.com", models.RoleAdmin, "Management", "General Manager"},
			{"Mehmet Demir", "mehmet@workcube.com", models.RoleMember, "Engineering", "Team Lead"},
			{"Zeynep Kaya", "zeynep@workcube.com", models.RoleMember, "Engineering", "Developer"},
			{"Can Öztürk", "can@workcube.com", models.RoleMember, "Finance", "Analyst"},
		},
	},
	{
		Name: "TechCorp",
		Users: []seedUser{
			{"Elif Şahin", "admin@techcorp.com", models.RoleAdmin, "Management", "CEO"},
			{"Burak Arslan", "burak@techcorp.com", models.RoleMember, "Sales", "Account Manager"},
		},
	},
}

func main() {
	cfg := config.Load()

	appLogger, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	db, err := database.Connect(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	if _, err := database.MigrateDatabase(db); err != nil {
		appLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		appLogger.Fatal("failed to hash password", zap.Error(err))
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, sc := range seedCompanies {
			company := models.Company{Name: sc.Name}
			if err := tx.Where(models.Company{Name: sc.Name}).FirstOrCreate(&company).Error; err != nil {
				return err
			}

			users := make([]models.User, len(sc.Users))
			for i, su := range sc.Users {
				users[i] = models.User{
					FullName:     su.FullName,
					Email:        su.Email,
					PasswordHash: string(hash),
					Role:         su.Role,
					Department:   su.Department,
					Position:     su.Position,
					CompanyID:    company.ID,
				}
				if err := tx.Where(models.User{Email: su.Email}).FirstOrCreate(&users[i]).Error; err != nil {
					return err
				}
			}

			if err := seedMeeting(tx, company, users); err != nil {
				return err
			}
			appLogger.Info("seeded company", zap.String("company", company.Name), zap.Int("users", len(users)))
		}
		return nil
	})
	if err != nil {
		appLogger.Fatal("failed to seed database", zap.Error(err))
	}

	appLogger.Info("seed complete", zap.String("password", demoPassword))
}

// seedMeeting creates one kickoff meeting with a few actions unless the
// company already has meetings.
func seedMeeting(tx *gorm.DB, company models.Company, users []models.User) error {
	var count int64
	if err := tx.Model(&models.Meeting{}).Where("company_id = ?", company.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || len(users) < 2 {
		return nil
	}

	today := clock.Today()
	daysFromToday := func(n int) *time.Time {
		d := today.AddDate(0, 0, n)
		return &d
	}

	admin := users[0]
	meeting := models.Meeting{
		Title:     "Quarterly kickoff",
		Date:      today.AddDate(0, 0, -7),
		Time:      "10:00",
		Duration:  90,
		CompanyID: company.ID,
		CreatorID: admin.ID,
		Status:    models.MeetingStatusActive,
	}
	if err := tx.Create(&meeting).Error; err != nil {
		return err
	}

	for _, u := range users[1:] {
		p := models.MeetingParticipant{MeetingID: meeting.ID, UserID: u.ID, Response: models.ParticipantAccepted}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
	}

	members := users[1:]
	actions := []struct {
		title    string
		priority models.Priority
		endDate  *time.Time
		assign   []models.User
	}{
		{"Finalize release plan", models.PriorityCritical, daysFromToday(-2), members},
		{"Update budget forecast", models.PriorityHigh, daysFromToday(5), members[:1]},
		{"Collect customer feedback", models.PriorityLow, daysFromToday(14), members[len(members)-1:]},
	}

	for _, a := range actions {
		action := models.Action{
			MeetingID: meeting.ID,
			Title:     a.title,
			Status:    models.ActionStatusPending,
			Priority:  a.priority,
			EndDate:   a.endDate,
		}
		if err := tx.Create(&action).Error; err != nil {
			return err
		}
		for _, u := range a.assign {
			r := models.ActionResponsible{
				ActionID: action.ID,
				UserID:   u.ID,
				Role:     constants.DefaultResponsibleRole,
				Status:   models.ResponsibleStatusPending,
				EndDate:  a.endDate,
			}
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
