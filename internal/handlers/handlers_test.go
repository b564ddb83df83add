package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/meeting-action-api/internal/clock"
	"github.com/yukikurage/meeting-action-api/internal/database"
	"github.com/yukikurage/meeting-action-api/internal/events"
	"github.com/yukikurage/meeting-action-api/internal/metrics"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"github.com/yukikurage/meeting-action-api/internal/repository"
	"github.com/yukikurage/meeting-action-api/internal/services"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// APITestSuite drives the full router against an in-memory database
type APITestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	tokens   *services.TokenManager
	recorder *events.Recorder

	creator  models.User
	alice    models.User
	bob      models.User
	admin    models.User
	outsider models.User
}

func (suite *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	clock.NowFunc = func() time.Time { return fixedNow }

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	suite.Require().NoError(database.Migrate(db))
	suite.db = db

	userRepo := repository.NewUserRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	actionRepo := repository.NewActionRepository(db)
	extensionRepo := repository.NewExtensionRepository(db)

	suite.recorder = &events.Recorder{}
	suite.tokens = services.NewTokenManager("test-secret", time.Hour)
	log := zap.NewNop()

	suite.router = NewRouter(RouterDeps{
		Logger:    log,
		Metrics:   metrics.New("test"),
		Tokens:    suite.tokens,
		Meetings:  meetingRepo,
		Auth:      NewAuthHandler(services.NewAuthService(userRepo, suite.tokens)),
		Meeting:   NewMeetingHandler(services.NewMeetingService(meetingRepo, userRepo)),
		Action:    NewActionHandler(services.NewActionService(actionRepo, meetingRepo, userRepo)),
		Approval:  NewApprovalHandler(services.NewApprovalService(actionRepo, extensionRepo, meetingRepo, suite.recorder, log)),
		Extension: NewExtensionHandler(services.NewExtensionService(actionRepo, extensionRepo, false, suite.recorder, log)),
		Overdue:   NewOverdueHandler(services.NewOverdueService(actionRepo)),
	})

	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	suite.Require().NoError(err)

	workcube := models.Company{Name: "WorkCube"}
	techcorp := models.Company{Name: "TechCorp"}
	suite.Require().NoError(db.Create(&workcube).Error)
	suite.Require().NoError(db.Create(&techcorp).Error)

	newUser := func(email string, role models.Role, companyID uint64) models.User {
		u := models.User{FullName: email, Email: email, PasswordHash: string(hash), Role: role, CompanyID: companyID}
		suite.Require().NoError(db.Create(&u).Error)
		return u
	}
	suite.admin = newUser("admin@workcube.test", models.RoleAdmin, workcube.ID)
	suite.creator = newUser("creator@workcube.test", models.RoleMember, workcube.ID)
	suite.alice = newUser("alice@workcube.test", models.RoleMember, workcube.ID)
	suite.bob = newUser("bob@workcube.test", models.RoleMember, workcube.ID)
	suite.outsider = newUser("admin@techcorp.test", models.RoleAdmin, techcorp.ID)
}

func (suite *APITestSuite) TearDownTest() {
	clock.NowFunc = time.Now
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *APITestSuite) do(user *models.User, method, path string, body interface{}) (int, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, _, err := suite.tokens.Issue(user)
		suite.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (suite *APITestSuite) decode(env envelope, out interface{}) {
	suite.Require().NoError(json.Unmarshal(env.Data, out))
}

type actionBody struct {
	ID           uint64 `json:"id"`
	Status       string `json:"status"`
	Responsibles []struct {
		ID       uint64  `json:"id"`
		UserID   uint64  `json:"userId"`
		Approved bool    `json:"approved"`
		EndDate  *string `json:"endDate"`
	} `json:"responsibles"`
}

func (a actionBody) responsibleFor(userID uint64) uint64 {
	for _, r := range a.Responsibles {
		if r.UserID == userID {
			return r.ID
		}
	}
	return 0
}

// setupAction creates a meeting by the creator and an action assigned to alice and bob.
func (suite *APITestSuite) setupAction(priority, endDate string) actionBody {
	status, env := suite.do(&suite.creator, http.MethodPost, "/api/meetings", map[string]interface{}{
		"title":          "Weekly sync",
		"date":           "2026-10-01",
		"time":           "10:00",
		"participantIds": []uint64{suite.alice.ID, suite.bob.ID},
	})
	suite.Require().Equal(http.StatusCreated, status, env.Error)
	var meeting struct {
		ID uint64 `json:"id"`
	}
	suite.decode(env, &meeting)

	status, env = suite.do(&suite.creator, http.MethodPost, "/api/actions", map[string]interface{}{
		"meetingId": meeting.ID,
		"title":     "Prepare budget",
		"priority":  priority,
		"responsibles": []map[string]interface{}{
			{"userId": suite.alice.ID, "endDate": endDate},
			{"userId": suite.bob.ID, "endDate": endDate},
		},
	})
	suite.Require().Equal(http.StatusCreated, status, env.Error)

	var action actionBody
	suite.decode(env, &action)
	suite.Require().Len(action.Responsibles, 2)
	return action
}

func (suite *APITestSuite) TestHealthAndMetrics() {
	status, _ := suite.do(nil, http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "test_http_requests_total")
}

func (suite *APITestSuite) TestLoginAndMe() {
	status, env := suite.do(nil, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "alice@workcube.test",
		"password": "123456",
	})
	suite.Require().Equal(http.StatusOK, status)
	suite.True(env.Success)

	var login struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	suite.decode(env, &login)
	suite.NotEmpty(login.Token)
	suite.Equal("alice@workcube.test", login.User.Email)

	status, env = suite.do(nil, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "alice@workcube.test",
		"password": "wrong",
	})
	suite.Equal(http.StatusUnauthorized, status)
	suite.False(env.Success)
	suite.Equal("INVALID_CREDENTIALS", env.Error.Code)

	status, _ = suite.do(nil, http.MethodPost, "/api/auth/login", map[string]string{"email": "x"})
	suite.Equal(http.StatusBadRequest, status)

	status, env = suite.do(&suite.alice, http.MethodGet, "/api/auth/me", nil)
	suite.Require().Equal(http.StatusOK, status)
	suite.Contains(string(env.Data), "alice@workcube.test")

	status, env = suite.do(nil, http.MethodGet, "/api/auth/me", nil)
	suite.Equal(http.StatusUnauthorized, status)
	suite.Equal("UNAUTHORIZED", env.Error.Code)
}

func (suite *APITestSuite) TestApproveThenRejectScenario() {
	action := suite.setupAction("medium", "")

	status, env := suite.do(&suite.alice, http.MethodPost, "/api/actions/approve", map[string]interface{}{
		"actionId": action.ID,
		"approved": true,
	})
	suite.Require().Equal(http.StatusOK, status, env.Error)
	suite.Equal(services.MessageApprovalRecorded, env.Message)
	var body struct {
		Action    actionBody `json:"action"`
		Completed bool       `json:"completed"`
	}
	suite.decode(env, &body)
	suite.Equal("pending", body.Action.Status)
	suite.False(body.Completed)

	status, env = suite.do(&suite.bob, http.MethodPost, "/api/actions/approve", map[string]interface{}{
		"actionId":      action.ID,
		"responsibleId": action.responsibleFor(suite.bob.ID),
		"approved":      true,
	})
	suite.Require().Equal(http.StatusOK, status, env.Error)
	suite.Equal(services.MessageActionCompleted, env.Message)
	suite.decode(env, &body)
	suite.Equal("completed", body.Action.Status)
	suite.True(body.Completed)

	status, env = suite.do(&suite.alice, http.MethodPost, "/api/actions/approve", map[string]interface{}{
		"actionId": action.ID,
		"approved": false,
		"comment":  "found an issue",
	})
	suite.Require().Equal(http.StatusOK, status, env.Error)
	suite.Equal(services.MessageRejectRecorded, env.Message)
	suite.decode(env, &body)
	suite.Equal("completed", body.Action.Status)

	status, env = suite.do(&suite.bob, http.MethodGet, fmt.Sprintf("/api/actions/%d", action.ID), nil)
	suite.Require().Equal(http.StatusOK, status)
	var fetched actionBody
	suite.decode(env, &fetched)
	suite.Equal("completed", fetched.Status)
}

func (suite *APITestSuite) TestOwnershipAndTenancy() {
	action := suite.setupAction("medium", "")
	aliceResp := action.responsibleFor(suite.alice.ID)

	status, env := suite.do(&suite.bob, http.MethodPost, "/api/actions/approve", map[string]interface{}{
		"actionId":      action.ID,
		"responsibleId": aliceResp,
		"approved":      true,
	})
	suite.Equal(http.StatusForbidden, status)
	suite.Equal("FORBIDDEN", env.Error.Code)

	status, _ = suite.do(&suite.bob, http.MethodPost, fmt.Sprintf("/api/actions/%d/ratify", action.ID), map[string]interface{}{
		"responsibleId": aliceResp,
		"approved":      true,
	})
	suite.Equal(http.StatusForbidden, status)

	status, env = suite.do(&suite.outsider, http.MethodGet, fmt.Sprintf("/api/actions/%d", action.ID), nil)
	suite.Equal(http.StatusNotFound, status)
	suite.Equal("NOT_FOUND", env.Error.Code)

	status, _ = suite.do(&suite.outsider, http.MethodPost, fmt.Sprintf("/api/actions/%d/ratify", action.ID), map[string]interface{}{
		"responsibleId": aliceResp,
		"approved":      true,
	})
	suite.Equal(http.StatusNotFound, status)

	status, env = suite.do(&suite.admin, http.MethodPost, fmt.Sprintf("/api/actions/%d/ratify", action.ID), map[string]interface{}{
		"responsibleId": aliceResp,
		"onaylandi":     true,
	})
	suite.Require().Equal(http.StatusOK, status, env.Error)

	status, _ = suite.do(&suite.alice, http.MethodPost, "/api/actions/approve", map[string]interface{}{
		"actionId": action.ID,
	})
	suite.Equal(http.StatusBadRequest, status)
}

func (suite *APITestSuite) TestExtensionRoundTrip() {
	action := suite.setupAction("high", "2026-10-15")
	aliceResp := action.responsibleFor(suite.alice.ID)

	status, env := suite.do(&suite.alice, http.MethodPost, fmt.Sprintf("/api/responsibles/%d/extension-requests", aliceResp), map[string]string{
		"newDate": "2026-10-24",
		"comment": "waiting on vendor",
	})
	suite.Require().Equal(http.StatusCreated, status, env.Error)
	var request struct {
		ID     uint64 `json:"id"`
		Status string `json:"status"`
	}
	suite.decode(env, &request)
	suite.Equal("pending", request.Status)

	status, env = suite.do(&suite.creator, http.MethodGet, "/api/approvals", nil)
	suite.Require().Equal(http.StatusOK, status)
	var inbox struct {
		ExtensionRequests []struct {
			ID             uint64  `json:"id"`
			CurrentEndDate *string `json:"currentEndDate"`
			NewDate        string  `json:"newDate"`
		} `json:"extensionRequests"`
		ActionApprovals []json.RawMessage `json:"actionApprovals"`
	}
	suite.decode(env, &inbox)
	suite.Require().Len(inbox.ExtensionRequests, 1)
	suite.Equal("2026-10-15", *inbox.ExtensionRequests[0].CurrentEndDate)
	suite.Equal("2026-10-24", inbox.ExtensionRequests[0].NewDate)
	suite.NotNil(inbox.ActionApprovals)

	status, _ = suite.do(&suite.alice, http.MethodPost, fmt.Sprintf("/api/extension-requests/%d/respond", request.ID), map[string]interface{}{
		"accepted": true,
	})
	suite.Equal(http.StatusForbidden, status)

	status, env = suite.do(&suite.creator, http.MethodPost, fmt.Sprintf("/api/extension-requests/%d/respond", request.ID), map[string]interface{}{
		"accepted":        true,
		"responseComment": "approved, final date",
	})
	suite.Require().Equal(http.StatusOK, status, env.Error)
	suite.Equal("Extension request accepted", env.Message)

	status, env = suite.do(&suite.admin, http.MethodPost, fmt.Sprintf("/api/extension-requests/%d/respond", request.ID), map[string]interface{}{
		"accepted": false,
	})
	suite.Equal(http.StatusConflict, status)
	suite.Equal("CONFLICT", env.Error.Code)

	status, env = suite.do(&suite.alice, http.MethodGet, fmt.Sprintf("/api/actions/%d", action.ID), nil)
	suite.Require().Equal(http.StatusOK, status)
	var fetched actionBody
	suite.decode(env, &fetched)
	for _, r := range fetched.Responsibles {
		suite.Require().NotNil(r.EndDate)
		if r.UserID == suite.alice.ID {
			suite.Equal("2026-10-24", *r.EndDate)
			suite.False(r.Approved)
		} else {
			suite.Equal("2026-10-15", *r.EndDate)
		}
	}
	suite.Equal("pending", fetched.Status)
}

func (suite *APITestSuite) TestProgressAndOverdue() {
	action := suite.setupAction("critical", "2026-10-14")
	aliceResp := action.responsibleFor(suite.alice.ID)

	status, env := suite.do(&suite.alice, http.MethodPut, fmt.Sprintf("/api/responsibles/%d", aliceResp), map[string]string{
		"status":  "completed",
		"comment": "done",
	})
	suite.Require().Equal(http.StatusOK, status, env.Error)

	status, env = suite.do(&suite.bob, http.MethodPut, fmt.Sprintf("/api/responsibles/%d", aliceResp), map[string]string{"comment": "x"})
	suite.Equal(http.StatusForbidden, status)

	status, env = suite.do(&suite.alice, http.MethodPut, fmt.Sprintf("/api/responsibles/%d", aliceResp), map[string]string{"status": "approved"})
	suite.Equal(http.StatusBadRequest, status)

	status, env = suite.do(&suite.creator, http.MethodGet, "/api/approvals", nil)
	suite.Require().Equal(http.StatusOK, status)
	var inbox struct {
		ActionApprovals []struct {
			ID      uint64 `json:"id"`
			Meeting struct {
				Title string `json:"title"`
			} `json:"meeting"`
		} `json:"actionApprovals"`
	}
	suite.decode(env, &inbox)
	suite.Require().Len(inbox.ActionApprovals, 1)
	suite.Equal(aliceResp, inbox.ActionApprovals[0].ID)
	suite.Equal("Weekly sync", inbox.ActionApprovals[0].Meeting.Title)

	status, env = suite.do(&suite.admin, http.MethodGet, "/api/overdue-actions", nil)
	suite.Require().Equal(http.StatusOK, status)
	var overdue struct {
		Items []struct {
			DelayDays int    `json:"delayDays"`
			Status    string `json:"status"`
		} `json:"items"`
		TotalCount    int `json:"totalCount"`
		CriticalCount int `json:"criticalCount"`
	}
	suite.decode(env, &overdue)
	suite.Equal(2, overdue.TotalCount)
	suite.Equal(2, overdue.CriticalCount)
	suite.Require().Len(overdue.Items, 2)
	suite.Equal(3, overdue.Items[0].DelayDays)
	suite.Equal("overdue", overdue.Items[0].Status)

	status, env = suite.do(&suite.outsider, http.MethodGet, "/api/overdue-actions", nil)
	suite.Require().Equal(http.StatusOK, status)
	suite.decode(env, &overdue)
	suite.Zero(overdue.TotalCount)
}

func (suite *APITestSuite) TestMeetingsAndActionsListing() {
	action := suite.setupAction("low", "")

	status, env := suite.do(&suite.bob, http.MethodGet, "/api/meetings?page=1&limit=10", nil)
	suite.Require().Equal(http.StatusOK, status)
	var list struct {
		Meetings []struct {
			ID uint64 `json:"id"`
		} `json:"meetings"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	suite.decode(env, &list)
	suite.Equal(int64(1), list.Pagination.Total)
	suite.Require().Len(list.Meetings, 1)
	meetingID := list.Meetings[0].ID

	status, _ = suite.do(&suite.bob, http.MethodGet, fmt.Sprintf("/api/meetings/%d", meetingID), nil)
	suite.Equal(http.StatusOK, status)
	status, _ = suite.do(&suite.outsider, http.MethodGet, fmt.Sprintf("/api/meetings/%d", meetingID), nil)
	suite.Equal(http.StatusNotFound, status)

	status, env = suite.do(&suite.bob, http.MethodGet, fmt.Sprintf("/api/actions?meeting_id=%d", meetingID), nil)
	suite.Require().Equal(http.StatusOK, status)
	var actions []actionBody
	suite.decode(env, &actions)
	suite.Require().Len(actions, 1)
	suite.Equal(action.ID, actions[0].ID)

	status, _ = suite.do(&suite.bob, http.MethodGet, "/api/actions", nil)
	suite.Equal(http.StatusBadRequest, status)

	status, _ = suite.do(&suite.alice, http.MethodPost, "/api/actions", map[string]interface{}{
		"meetingId":    meetingID,
		"title":        "Not mine",
		"responsibles": []map[string]interface{}{{"userId": suite.alice.ID}},
	})
	suite.Equal(http.StatusForbidden, status)

	status, env = suite.do(&suite.creator, http.MethodPost, fmt.Sprintf("/api/actions/%d/responsibles", action.ID), map[string]interface{}{
		"responsibles": []map[string]interface{}{{"userId": suite.creator.ID}},
	})
	suite.Require().Equal(http.StatusOK, status, env.Error)
	var updated actionBody
	suite.decode(env, &updated)
	suite.Len(updated.Responsibles, 3)
}

func (suite *APITestSuite) TestMeetingParticipants() {
	status, env := suite.do(&suite.creator, http.MethodPost, "/api/meetings", map[string]interface{}{
		"title":          "Design review",
		"date":           "2026-10-20",
		"participantIds": []uint64{suite.alice.ID},
	})
	suite.Require().Equal(http.StatusCreated, status, env.Error)
	var meeting struct {
		ID uint64 `json:"id"`
	}
	suite.decode(env, &meeting)
	participantsPath := fmt.Sprintf("/api/meetings/%d/participants", meeting.ID)
	responsePath := fmt.Sprintf("/api/meetings/%d/participant-response", meeting.ID)

	status, _ = suite.do(&suite.alice, http.MethodPost, participantsPath, map[string]uint64{"userId": suite.bob.ID})
	suite.Equal(http.StatusForbidden, status)

	status, _ = suite.do(&suite.creator, http.MethodPost, participantsPath, map[string]uint64{"userId": suite.outsider.ID})
	suite.Equal(http.StatusBadRequest, status)

	status, _ = suite.do(&suite.outsider, http.MethodPost, participantsPath, map[string]uint64{"userId": suite.bob.ID})
	suite.Equal(http.StatusNotFound, status)

	status, env = suite.do(&suite.creator, http.MethodPost, participantsPath, map[string]uint64{"userId": suite.bob.ID})
	suite.Require().Equal(http.StatusCreated, status, env.Error)
	var added struct {
		UserID   uint64 `json:"userId"`
		Response string `json:"response"`
	}
	suite.decode(env, &added)
	suite.Equal(suite.bob.ID, added.UserID)
	suite.Equal("pending", added.Response)

	status, env = suite.do(&suite.admin, http.MethodPost, participantsPath, map[string]uint64{"userId": suite.bob.ID})
	suite.Equal(http.StatusConflict, status)
	suite.Equal("CONFLICT", env.Error.Code)

	status, env = suite.do(&suite.bob, http.MethodPost, responsePath, map[string]string{"response": "accepted"})
	suite.Require().Equal(http.StatusOK, status, env.Error)
	var answered struct {
		Response    string  `json:"response"`
		RespondedAt *string `json:"respondedAt"`
	}
	suite.decode(env, &answered)
	suite.Equal("accepted", answered.Response)
	suite.NotNil(answered.RespondedAt)

	status, _ = suite.do(&suite.bob, http.MethodPost, responsePath, map[string]interface{}{"userId": suite.alice.ID, "response": "declined"})
	suite.Equal(http.StatusForbidden, status)

	status, _ = suite.do(&suite.alice, http.MethodPost, responsePath, map[string]string{"response": "later"})
	suite.Equal(http.StatusBadRequest, status)

	status, _ = suite.do(&suite.admin, http.MethodPost, responsePath, map[string]string{"response": "accepted"})
	suite.Equal(http.StatusNotFound, status)

	status, env = suite.do(&suite.alice, http.MethodGet, fmt.Sprintf("/api/meetings/%d", meeting.ID), nil)
	suite.Require().Equal(http.StatusOK, status)
	var detail struct {
		Participants []struct {
			UserID   uint64 `json:"userId"`
			Response string `json:"response"`
		} `json:"participants"`
	}
	suite.decode(env, &detail)
	suite.Require().Len(detail.Participants, 2)
	responses := map[uint64]string{}
	for _, p := range detail.Participants {
		responses[p.UserID] = p.Response
	}
	suite.Equal("pending", responses[suite.alice.ID])
	suite.Equal("accepted", responses[suite.bob.ID])
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
