package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/meeting-action-api/internal/models"
)

type MeetingServiceTestSuite struct {
	suite.Suite
	h *harness
}

func (suite *MeetingServiceTestSuite) SetupTest() {
	suite.h = newHarness(suite.T())
}

func (suite *MeetingServiceTestSuite) TestAddParticipant() {
	h := suite.h
	carol := h.createUser(suite.T(), "carol@workcube.test", models.RoleMember, h.company.ID)

	p, err := h.meetings.AddParticipant(h.ctx, actorOf(h.creator), h.meeting.ID, carol.ID)
	suite.Require().NoError(err)
	suite.Equal(carol.ID, p.UserID)
	suite.Equal(models.ParticipantPending, p.Response)
	suite.Require().NotNil(p.User)
	suite.Equal(carol.Email, p.User.Email)

	meeting, err := h.meetings.GetMeeting(h.ctx, actorOf(h.alice), h.meeting.ID)
	suite.Require().NoError(err)
	suite.Len(meeting.Participants, 3)

	_, err = h.meetings.AddParticipant(h.ctx, actorOf(h.admin), h.meeting.ID, carol.ID)
	suite.ErrorIs(err, ErrParticipantExists)
}

func (suite *MeetingServiceTestSuite) TestAddParticipantRules() {
	h := suite.h
	carol := h.createUser(suite.T(), "carol@workcube.test", models.RoleMember, h.company.ID)

	_, err := h.meetings.AddParticipant(h.ctx, actorOf(h.alice), h.meeting.ID, carol.ID)
	suite.ErrorIs(err, ErrNotMeetingAuthority)

	_, err = h.meetings.AddParticipant(h.ctx, actorOf(h.creator), h.meeting.ID, h.outsider.ID)
	suite.ErrorIs(err, ErrInvalidParticipant)

	_, err = h.meetings.AddParticipant(h.ctx, actorOf(h.creator), h.meeting.ID, 0)
	suite.ErrorIs(err, ErrParticipantRequired)

	_, err = h.meetings.AddParticipant(h.ctx, actorOf(h.outsider), h.meeting.ID, carol.ID)
	suite.ErrorIs(err, ErrMeetingNotFound)

	_, err = h.meetings.AddParticipant(h.ctx, actorOf(h.creator), h.meeting.ID+100, carol.ID)
	suite.ErrorIs(err, ErrMeetingNotFound)

	// admin may invite on a meeting they did not create
	p, err := h.meetings.AddParticipant(h.ctx, actorOf(h.admin), h.meeting.ID, carol.ID)
	suite.Require().NoError(err)
	suite.Equal(carol.ID, p.UserID)
}

func (suite *MeetingServiceTestSuite) TestRespondToInvitation() {
	h := suite.h

	p, err := h.meetings.RespondToInvitation(h.ctx, actorOf(h.alice), RespondInvitationInput{
		MeetingID: h.meeting.ID,
		Response:  models.ParticipantAccepted,
	})
	suite.Require().NoError(err)
	suite.Equal(h.alice.ID, p.UserID)
	suite.Equal(models.ParticipantAccepted, p.Response)
	suite.Require().NotNil(p.RespondedAt)
	suite.True(fixedNow.Equal(*p.RespondedAt))

	p, err = h.meetings.RespondToInvitation(h.ctx, actorOf(h.alice), RespondInvitationInput{
		MeetingID: h.meeting.ID,
		Response:  models.ParticipantDeclined,
	})
	suite.Require().NoError(err)
	suite.Equal(models.ParticipantDeclined, p.Response)

	bob, err := h.meetings.RespondToInvitation(h.ctx, actorOf(h.creator), RespondInvitationInput{
		MeetingID: h.meeting.ID,
		UserID:    uint64Ptr(h.bob.ID),
		Response:  models.ParticipantAccepted,
	})
	suite.Require().NoError(err)
	suite.Equal(h.bob.ID, bob.UserID)
	suite.Equal(models.ParticipantAccepted, bob.Response)
}

func (suite *MeetingServiceTestSuite) TestRespondToInvitationRules() {
	h := suite.h

	_, err := h.meetings.RespondToInvitation(h.ctx, actorOf(h.alice), RespondInvitationInput{
		MeetingID: h.meeting.ID,
		Response:  "maybe",
	})
	suite.ErrorIs(err, ErrInvalidParticipantResponse)

	_, err = h.meetings.RespondToInvitation(h.ctx, actorOf(h.alice), RespondInvitationInput{
		MeetingID: h.meeting.ID,
		UserID:    uint64Ptr(h.bob.ID),
		Response:  models.ParticipantAccepted,
	})
	suite.ErrorIs(err, ErrNotAssigneeOrAuthority)

	_, err = h.meetings.RespondToInvitation(h.ctx, actorOf(h.admin), RespondInvitationInput{
		MeetingID: h.meeting.ID,
		Response:  models.ParticipantAccepted,
	})
	suite.ErrorIs(err, ErrParticipantNotFound)

	_, err = h.meetings.RespondToInvitation(h.ctx, actorOf(h.outsider), RespondInvitationInput{
		MeetingID: h.meeting.ID,
		UserID:    uint64Ptr(h.alice.ID),
		Response:  models.ParticipantAccepted,
	})
	suite.ErrorIs(err, ErrMeetingNotFound)

	meeting, err := h.meetings.GetMeeting(h.ctx, actorOf(h.creator), h.meeting.ID)
	suite.Require().NoError(err)
	for _, p := range meeting.Participants {
		suite.Equal(models.ParticipantPending, p.Response)
	}
}

func TestMeetingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MeetingServiceTestSuite))
}
