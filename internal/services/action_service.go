package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/meeting-action-api/internal/constants"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"github.com/yukikurage/meeting-action-api/internal/repository"
)

var (
	ErrActionNotFound         = errors.New("action not found")
	ErrActionTitleRequired    = errors.New("action title is required")
	ErrResponsiblesRequired   = errors.New("at least one responsible is required")
	ErrInvalidResponsibleUser = errors.New("one or more responsibles do not exist in the company")
	ErrInvalidActionStatus    = errors.New("invalid action status")
	ErrInvalidPriority        = errors.New("invalid priority")
	ErrInvalidResponsibleStat = errors.New("invalid responsible status")
	ErrInvalidDateRange       = errors.New("start date must not be after end date")
)

// actionDetail is the preload set used whenever an action is returned to a client.
var actionDetail = []string{"Meeting", "Responsibles", "Responsibles.User"}

// ActionService handles action and assignment lifecycle outside of approvals
type ActionService struct {
	actionRepo  repository.ActionRepository
	meetingRepo repository.MeetingRepository
	userRepo    repository.UserRepository
}

// NewActionService creates a new ActionService
func NewActionService(actionRepo repository.ActionRepository, meetingRepo repository.MeetingRepository, userRepo repository.UserRepository) *ActionService {
	return &ActionService{
		actionRepo:  actionRepo,
		meetingRepo: meetingRepo,
		userRepo:    userRepo,
	}
}

// ResponsibleInput describes one assignment to create.
type ResponsibleInput struct {
	UserID    uint64
	Role      string
	Status    models.ResponsibleStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// CreateActionInput represents input for creating an action
type CreateActionInput struct {
	MeetingID    uint64
	Title        string
	Description  string
	Status       models.ActionStatus
	Priority     models.Priority
	StartDate    *time.Time
	EndDate      *time.Time
	Responsibles []ResponsibleInput
}

// CreateAction creates an action and its assignments. Only the meeting
// creator or an administrator may add actions to a meeting.
func (s *ActionService) CreateAction(ctx context.Context, actor Actor, input CreateActionInput) (*models.Action, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrActionTitleRequired
	}
	if input.Status == "" {
		input.Status = models.ActionStatusPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidActionStatus
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if err := checkDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	meeting, err := s.loadMeeting(ctx, input.MeetingID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, meeting, 0, PermissionAuthority); err != nil {
		return nil, err
	}

	responsibles, err := s.buildResponsibles(ctx, actor, input.Responsibles)
	if err != nil {
		return nil, err
	}

	action := &models.Action{
		MeetingID:   meeting.ID,
		Title:       title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := s.actionRepo.CreateWithResponsibles(ctx, action, responsibles); err != nil {
		return nil, fmt.Errorf("failed to create action: %w", err)
	}

	return s.actionRepo.FindByID(ctx, action.ID, actionDetail...)
}

// ListActions returns a meeting's actions, oldest first.
func (s *ActionService) ListActions(ctx context.Context, actor Actor, meetingID uint64) ([]models.Action, error) {
	meeting, err := s.loadMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, meeting, 0, PermissionTenantMember); err != nil {
		return nil, ErrMeetingNotFound
	}

	actions, err := s.actionRepo.ListByMeeting(ctx, meeting.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	return actions, nil
}

// GetAction returns an action with its meeting and assignments.
func (s *ActionService) GetAction(ctx context.Context, actor Actor, actionID uint64) (*models.Action, error) {
	action, err := s.actionRepo.FindByID(ctx, actionID, actionDetail...)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrActionNotFound
		}
		return nil, fmt.Errorf("failed to find action: %w", err)
	}
	if err := Authorize(actor, action.Meeting, 0, PermissionTenantMember); err != nil {
		return nil, ErrActionNotFound
	}
	return action, nil
}

// AddResponsibles assigns more users to an existing action. Users that are
// already assigned are skipped. A completed action stays completed.
func (s *ActionService) AddResponsibles(ctx context.Context, actor Actor, actionID uint64, inputs []ResponsibleInput) (*models.Action, error) {
	action, err := s.actionRepo.FindByID(ctx, actionID, "Meeting")
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrActionNotFound
		}
		return nil, fmt.Errorf("failed to find action: %w", err)
	}
	if err := Authorize(actor, action.Meeting, 0, PermissionAuthority); err != nil {
		return nil, err
	}

	responsibles, err := s.buildResponsibles(ctx, actor, inputs)
	if err != nil {
		return nil, err
	}
	if _, err := s.actionRepo.AddResponsibles(ctx, action.ID, responsibles); err != nil {
		return nil, fmt.Errorf("failed to add responsibles: %w", err)
	}

	return s.actionRepo.FindByID(ctx, action.ID, actionDetail...)
}

func (s *ActionService) loadMeeting(ctx context.Context, meetingID uint64) (*models.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	return meeting, nil
}

// buildResponsibles validates inputs and fills defaults. The first entry wins
// when a user is listed twice.
func (s *ActionService) buildResponsibles(ctx context.Context, actor Actor, inputs []ResponsibleInput) ([]models.ActionResponsible, error) {
	if len(inputs) == 0 {
		return nil, ErrResponsiblesRequired
	}

	seen := make(map[uint64]struct{}, len(inputs))
	responsibles := make([]models.ActionResponsible, 0, len(inputs))
	userIDs := make([]uint64, 0, len(inputs))
	for _, in := range inputs {
		if in.UserID == 0 {
			return nil, ErrInvalidResponsibleUser
		}
		if _, dup := seen[in.UserID]; dup {
			continue
		}
		seen[in.UserID] = struct{}{}

		status := in.Status
		if status == "" {
			status = models.ResponsibleStatusPending
		}
		if !status.Valid() {
			return nil, ErrInvalidResponsibleStat
		}
		if err := checkDateRange(in.StartDate, in.EndDate); err != nil {
			return nil, err
		}
		role := strings.TrimSpace(in.Role)
		if role == "" {
			role = constants.DefaultResponsibleRole
		}

		responsibles = append(responsibles, models.ActionResponsible{
			UserID:    in.UserID,
			Role:      role,
			Status:    status,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
		})
		userIDs = append(userIDs, in.UserID)
	}

	count, err := s.userRepo.CountInCompany(ctx, actor.CompanyID, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to verify responsibles: %w", err)
	}
	if int(count) != len(userIDs) {
		return nil, ErrInvalidResponsibleUser
	}

	return responsibles, nil
}

func checkDateRange(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return ErrInvalidDateRange
	}
	return nil
}
