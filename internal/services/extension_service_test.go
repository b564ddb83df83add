package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/meeting-action-api/internal/events"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"github.com/yukikurage/meeting-action-api/internal/repository"
	"go.uber.org/zap"
)

type ExtensionServiceTestSuite struct {
	suite.Suite
	h      *harness
	action *models.Action
	resp   models.ActionResponsible
}

func (suite *ExtensionServiceTestSuite) SetupTest() {
	suite.h = newHarness(suite.T())
	suite.action = suite.h.createAction(suite.T(), models.PriorityHigh, daysFromToday(suite.h, -2), suite.h.alice, suite.h.bob)
	suite.resp = suite.h.responsibleOf(suite.action, suite.h.alice)
}

func (suite *ExtensionServiceTestSuite) request() *models.ExtensionRequest {
	h := suite.h
	req, err := h.extensions.RequestExtension(h.ctx, actorOf(h.alice), RequestExtensionInput{
		ResponsibleID: suite.resp.ID,
		NewDate:       *daysFromToday(h, 7),
		Comment:       "  blocked on legal review ",
	})
	suite.Require().NoError(err)
	return req
}

func (suite *ExtensionServiceTestSuite) TestRequestCreatesPending() {
	req := suite.request()

	suite.Equal(models.ExtensionStatusPending, req.Status)
	suite.Equal("blocked on legal review", req.RequestComment)
	suite.Equal(suite.h.alice.ID, req.RequesterID)
	suite.True(req.RequestedAt.Equal(fixedNow))
	suite.Nil(req.ResponderID)
	suite.Equal([]events.Topic{events.TopicExtensionRequested}, suite.h.recorder.Topics())
}

func (suite *ExtensionServiceTestSuite) TestAcceptMovesEndDateOnly() {
	h := suite.h
	req := suite.request()

	resolved, err := h.extensions.RespondToExtension(h.ctx, actorOf(h.creator), RespondExtensionInput{
		RequestID: req.ID,
		Accepted:  true,
		Comment:   strPtr("fine"),
	})
	suite.Require().NoError(err)
	suite.Equal(models.ExtensionStatusAccepted, resolved.Status)
	suite.Require().NotNil(resolved.ResponderID)
	suite.Equal(h.creator.ID, *resolved.ResponderID)
	suite.Require().NotNil(resolved.RespondedAt)

	stored := h.reloadAction(suite.T(), suite.action.ID)
	alice := h.responsibleOf(stored, h.alice)
	suite.Require().NotNil(alice.EndDate)
	suite.Equal(daysFromToday(h, 7).Format("2006-01-02"), alice.EndDate.UTC().Format("2006-01-02"))
	suite.False(alice.Approved)
	suite.Equal(models.ResponsibleStatusPending, alice.Status)
	suite.Equal(models.ActionStatusPending, stored.Status)

	bob := h.responsibleOf(stored, h.bob)
	suite.Equal(daysFromToday(h, -2).Format("2006-01-02"), bob.EndDate.UTC().Format("2006-01-02"))

	suite.Equal([]events.Topic{events.TopicExtensionRequested, events.TopicExtensionResolved}, h.recorder.Topics())
}

func (suite *ExtensionServiceTestSuite) TestRejectKeepsEndDate() {
	h := suite.h
	req := suite.request()

	resolved, err := h.extensions.RespondToExtension(h.ctx, actorOf(h.admin), RespondExtensionInput{RequestID: req.ID})
	suite.Require().NoError(err)
	suite.Equal(models.ExtensionStatusRejected, resolved.Status)

	stored := h.reloadAction(suite.T(), suite.action.ID)
	alice := h.responsibleOf(stored, h.alice)
	suite.Equal(daysFromToday(h, -2).Format("2006-01-02"), alice.EndDate.UTC().Format("2006-01-02"))
}

func (suite *ExtensionServiceTestSuite) TestResolveTwice() {
	h := suite.h
	req := suite.request()

	_, err := h.extensions.RespondToExtension(h.ctx, actorOf(h.creator), RespondExtensionInput{RequestID: req.ID, Accepted: true})
	suite.Require().NoError(err)

	_, err = h.extensions.RespondToExtension(h.ctx, actorOf(h.admin), RespondExtensionInput{RequestID: req.ID})
	suite.ErrorIs(err, ErrExtensionAlreadyResolved)

	stored, err := h.extensions.findRequest(h.ctx, req.ID)
	suite.Require().NoError(err)
	suite.Equal(models.ExtensionStatusAccepted, stored.Status)
}

func (suite *ExtensionServiceTestSuite) TestRoleGates() {
	h := suite.h

	for _, user := range []models.User{h.bob, h.creator, h.admin} {
		_, err := h.extensions.RequestExtension(h.ctx, actorOf(user), RequestExtensionInput{
			ResponsibleID: suite.resp.ID,
			NewDate:       *daysFromToday(h, 3),
		})
		suite.ErrorIs(err, ErrNotAssignee, user.Email)
	}

	_, err := h.extensions.RequestExtension(h.ctx, actorOf(h.outsider), RequestExtensionInput{
		ResponsibleID: suite.resp.ID,
		NewDate:       *daysFromToday(h, 3),
	})
	suite.ErrorIs(err, ErrResponsibleNotFound)

	req := suite.request()

	for _, user := range []models.User{h.alice, h.bob} {
		_, err := h.extensions.RespondToExtension(h.ctx, actorOf(user), RespondExtensionInput{RequestID: req.ID, Accepted: true})
		suite.ErrorIs(err, ErrNotMeetingAuthority, user.Email)
	}

	_, err = h.extensions.RespondToExtension(h.ctx, actorOf(h.outsider), RespondExtensionInput{RequestID: req.ID, Accepted: true})
	suite.ErrorIs(err, ErrExtensionNotFound)

	stored, err := h.extensions.findRequest(h.ctx, req.ID)
	suite.Require().NoError(err)
	suite.True(stored.IsPending())
}

func (suite *ExtensionServiceTestSuite) TestValidation() {
	h := suite.h

	_, err := h.extensions.RequestExtension(h.ctx, actorOf(h.alice), RequestExtensionInput{ResponsibleID: suite.resp.ID})
	suite.ErrorIs(err, ErrNewDateRequired)

	_, err = h.extensions.RequestExtension(h.ctx, actorOf(h.alice), RequestExtensionInput{ResponsibleID: 9999, NewDate: h.today})
	suite.ErrorIs(err, ErrResponsibleNotFound)

	_, err = h.extensions.RespondToExtension(h.ctx, actorOf(h.admin), RespondExtensionInput{RequestID: 9999})
	suite.ErrorIs(err, ErrExtensionNotFound)
}

func (suite *ExtensionServiceTestSuite) TestDuplicatePending() {
	h := suite.h
	suite.request()

	_, err := h.extensions.RequestExtension(h.ctx, actorOf(h.alice), RequestExtensionInput{
		ResponsibleID: suite.resp.ID,
		NewDate:       *daysFromToday(h, 14),
	})
	suite.ErrorIs(err, ErrExtensionAlreadyPending)

	parallel := NewExtensionService(h.actionRepo, repository.NewExtensionRepository(h.db), true, h.recorder, zap.NewNop())
	second, err := parallel.RequestExtension(h.ctx, actorOf(h.alice), RequestExtensionInput{
		ResponsibleID: suite.resp.ID,
		NewDate:       *daysFromToday(h, 14),
	})
	suite.Require().NoError(err)
	suite.True(second.IsPending())
}

func TestExtensionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExtensionServiceTestSuite))
}
