package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/meeting-action-api/internal/clock"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"github.com/yukikurage/meeting-action-api/internal/repository"
	"github.com/yukikurage/meeting-action-api/internal/utils"
)

var (
	ErrMeetingNotFound      = errors.New("meeting not found")
	ErrMeetingTitleRequired = errors.New("meeting title is required")
	ErrMeetingDateRequired  = errors.New("meeting date is required")
	ErrInvalidParticipant   = errors.New("one or more participants do not exist in the company")
	ErrInvalidMeetingStatus = errors.New("invalid meeting status")
	ErrInvalidMeetingLength = errors.New("meeting duration must be positive")

	ErrParticipantRequired        = errors.New("userId is required")
	ErrParticipantExists          = errors.New("user is already a participant of this meeting")
	ErrParticipantNotFound        = errors.New("participant not found")
	ErrInvalidParticipantResponse = errors.New("response must be one of pending, accepted, declined")
)

// MeetingService handles meeting business logic
type MeetingService struct {
	meetingRepo repository.MeetingRepository
	userRepo    repository.UserRepository
}

// NewMeetingService creates a new MeetingService
func NewMeetingService(meetingRepo repository.MeetingRepository, userRepo repository.UserRepository) *MeetingService {
	return &MeetingService{
		meetingRepo: meetingRepo,
		userRepo:    userRepo,
	}
}

// CreateMeetingInput represents input for creating a meeting
type CreateMeetingInput struct {
	Title          string
	Description    string
	Date           time.Time
	Time           string
	Duration       int
	Location       *string
	OnlineLink     *string
	ParticipantIDs []uint64
}

// CreateMeeting creates a meeting in the actor's company with the actor as creator.
func (s *MeetingService) CreateMeeting(ctx context.Context, actor Actor, input CreateMeetingInput) (*models.Meeting, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrMeetingTitleRequired
	}
	if input.Date.IsZero() {
		return nil, ErrMeetingDateRequired
	}
	if input.Duration < 0 {
		return nil, ErrInvalidMeetingLength
	}
	if input.Duration == 0 {
		input.Duration = 60
	}

	participants := uniqueUint64(input.ParticipantIDs)
	if len(participants) > 0 {
		count, err := s.userRepo.CountInCompany(ctx, actor.CompanyID, participants)
		if err != nil {
			return nil, fmt.Errorf("failed to verify participants: %w", err)
		}
		if int(count) != len(participants) {
			return nil, ErrInvalidParticipant
		}
	}

	meeting := &models.Meeting{
		Title:       title,
		Description: input.Description,
		Date:        input.Date,
		Time:        input.Time,
		Duration:    input.Duration,
		Location:    input.Location,
		OnlineLink:  input.OnlineLink,
		CompanyID:   actor.CompanyID,
		CreatorID:   actor.UserID,
		Status:      models.MeetingStatusActive,
	}
	if err := s.meetingRepo.Create(ctx, meeting, participants); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	return s.meetingRepo.FindByID(ctx, meeting.ID, "Creator", "Participants", "Participants.User")
}

// ListMeetingsInput represents filters for listing meetings
type ListMeetingsInput struct {
	Status     *models.MeetingStatus
	Pagination utils.PaginationParams
}

// ListMeetings returns the meetings of the actor's company.
func (s *MeetingService) ListMeetings(ctx context.Context, actor Actor, input ListMeetingsInput) ([]models.Meeting, int64, error) {
	if input.Status != nil {
		switch *input.Status {
		case models.MeetingStatusActive, models.MeetingStatusCancelled, models.MeetingStatusCompleted:
		default:
			return nil, 0, ErrInvalidMeetingStatus
		}
	}

	meetings, total, err := s.meetingRepo.List(ctx, repository.MeetingFilter{
		CompanyID:  actor.CompanyID,
		Status:     input.Status,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, total, nil
}

// GetMeeting loads a meeting visible to the actor.
func (s *MeetingService) GetMeeting(ctx context.Context, actor Actor, meetingID uint64) (*models.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID, "Creator", "Participants", "Participants.User")
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	if err := Authorize(actor, meeting, 0, PermissionTenantMember); err != nil {
		return nil, ErrMeetingNotFound
	}
	return meeting, nil
}

// AddParticipant invites a user of the same company. Only the meeting
// creator or an administrator may invite.
func (s *MeetingService) AddParticipant(ctx context.Context, actor Actor, meetingID, userID uint64) (*models.MeetingParticipant, error) {
	if userID == 0 {
		return nil, ErrParticipantRequired
	}

	meeting, err := s.GetMeeting(ctx, actor, meetingID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, meeting, 0, PermissionAuthority); err != nil {
		return nil, err
	}

	count, err := s.userRepo.CountInCompany(ctx, actor.CompanyID, []uint64{userID})
	if err != nil {
		return nil, fmt.Errorf("failed to verify participant: %w", err)
	}
	if count != 1 {
		return nil, ErrInvalidParticipant
	}

	added, err := s.meetingRepo.AddParticipant(ctx, meeting.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}
	if !added {
		return nil, ErrParticipantExists
	}

	return s.meetingRepo.FindParticipant(ctx, meeting.ID, userID)
}

// RespondInvitationInput represents a participant's answer. UserID defaults
// to the actor.
type RespondInvitationInput struct {
	MeetingID uint64
	UserID    *uint64
	Response  models.ParticipantResponse
}

// RespondToInvitation records a participant's answer. Participants answer for
// themselves; the meeting creator or an administrator may answer for anyone.
func (s *MeetingService) RespondToInvitation(ctx context.Context, actor Actor, input RespondInvitationInput) (*models.MeetingParticipant, error) {
	if !input.Response.Valid() {
		return nil, ErrInvalidParticipantResponse
	}

	meeting, err := s.GetMeeting(ctx, actor, input.MeetingID)
	if err != nil {
		return nil, err
	}

	userID := actor.UserID
	if input.UserID != nil {
		userID = *input.UserID
	}
	if err := Authorize(actor, meeting, userID, PermissionAssigneeOrAuthority); err != nil {
		return nil, err
	}

	if _, err := s.meetingRepo.FindParticipant(ctx, meeting.ID, userID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}

	if err := s.meetingRepo.SetParticipantResponse(ctx, meeting.ID, userID, input.Response, clock.Now()); err != nil {
		return nil, fmt.Errorf("failed to record response: %w", err)
	}
	return s.meetingRepo.FindParticipant(ctx, meeting.ID, userID)
}

func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))
	for _, v := range values {
		if v == 0 {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
