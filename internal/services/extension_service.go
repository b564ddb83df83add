package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/meeting-action-api/internal/clock"
	"github.com/yukikurage/meeting-action-api/internal/events"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"github.com/yukikurage/meeting-action-api/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrExtensionNotFound        = errors.New("extension request not found")
	ErrExtensionAlreadyResolved = errors.New("extension request has already been resolved")
	ErrExtensionAlreadyPending  = errors.New("a pending extension request already exists for this assignment")
	ErrNewDateRequired          = errors.New("newDate is required")
)

// ExtensionService negotiates deadline extensions between an assignee and
// the meeting authority.
type ExtensionService struct {
	actionRepo    repository.ActionRepository
	extensionRepo repository.ExtensionRepository
	allowParallel bool
	notify        notifier
}

// NewExtensionService creates a new ExtensionService
func NewExtensionService(
	actionRepo repository.ActionRepository,
	extensionRepo repository.ExtensionRepository,
	allowParallel bool,
	publisher events.Publisher,
	log *zap.Logger,
) *ExtensionService {
	return &ExtensionService{
		actionRepo:    actionRepo,
		extensionRepo: extensionRepo,
		allowParallel: allowParallel,
		notify:        newNotifier(publisher, log),
	}
}

// RequestExtensionInput represents input for filing an extension request
type RequestExtensionInput struct {
	ResponsibleID uint64
	NewDate       time.Time
	Comment       string
}

// RequestExtension files a pending request on the actor's own assignment.
// The new date is not checked against today or the current end date.
func (s *ExtensionService) RequestExtension(ctx context.Context, actor Actor, input RequestExtensionInput) (*models.ExtensionRequest, error) {
	if input.NewDate.IsZero() {
		return nil, ErrNewDateRequired
	}

	responsible, err := s.actionRepo.FindResponsible(ctx, input.ResponsibleID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrResponsibleNotFound
		}
		return nil, fmt.Errorf("failed to find responsible: %w", err)
	}
	if responsible.Action == nil {
		return nil, ErrResponsibleNotFound
	}
	if err := Authorize(actor, responsible.Action.Meeting, responsible.UserID, PermissionAssignee); err != nil {
		if errors.Is(err, ErrCrossTenant) {
			return nil, ErrResponsibleNotFound
		}
		return nil, err
	}

	request := &models.ExtensionRequest{
		ResponsibleID:  responsible.ID,
		RequesterID:    actor.UserID,
		NewDate:        clock.StartOfDay(input.NewDate),
		RequestComment: strings.TrimSpace(input.Comment),
		Status:         models.ExtensionStatusPending,
		RequestedAt:    clock.Now(),
	}
	if err := s.extensionRepo.Create(ctx, request, s.allowParallel); err != nil {
		if errors.Is(err, repository.ErrPendingExtensionExists) {
			return nil, ErrExtensionAlreadyPending
		}
		return nil, fmt.Errorf("failed to create extension request: %w", err)
	}

	s.notify.emit(ctx, events.Event{
		Topic:              events.TopicExtensionRequested,
		CompanyID:          actor.CompanyID,
		ActorID:            actor.UserID,
		ActionID:           responsible.ActionID,
		ResponsibleID:      responsible.ID,
		ExtensionRequestID: request.ID,
		Attributes: map[string]interface{}{
			"newDate": request.NewDate.Format("2006-01-02"),
		},
	})

	return s.findRequest(ctx, request.ID)
}

// RespondExtensionInput represents the authority's answer
type RespondExtensionInput struct {
	RequestID uint64
	Accepted  bool
	Comment   *string
}

// RespondToExtension accepts or rejects a pending request. Accepting moves
// the assignment's end date to the requested date and leaves approval state
// and action status untouched.
func (s *ExtensionService) RespondToExtension(ctx context.Context, actor Actor, input RespondExtensionInput) (*models.ExtensionRequest, error) {
	request, err := s.findRequest(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	var meeting *models.Meeting
	if request.Responsible != nil && request.Responsible.Action != nil {
		meeting = request.Responsible.Action.Meeting
	}
	if err := Authorize(actor, meeting, 0, PermissionAuthority); err != nil {
		if errors.Is(err, ErrCrossTenant) {
			return nil, ErrExtensionNotFound
		}
		return nil, err
	}
	if !request.IsPending() {
		return nil, ErrExtensionAlreadyResolved
	}

	status := models.ExtensionStatusRejected
	if input.Accepted {
		status = models.ExtensionStatusAccepted
	}

	err = s.extensionRepo.Resolve(ctx, repository.ExtensionResolution{
		RequestID:       request.ID,
		Status:          status,
		ResponderID:     actor.UserID,
		ResponseComment: input.Comment,
		RespondedAt:     clock.Now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrExtensionAlreadyResolved):
			return nil, ErrExtensionAlreadyResolved
		case repository.IsNotFound(err):
			return nil, ErrExtensionNotFound
		default:
			return nil, fmt.Errorf("failed to resolve extension request: %w", err)
		}
	}

	s.notify.emit(ctx, events.Event{
		Topic:              events.TopicExtensionResolved,
		CompanyID:          actor.CompanyID,
		ActorID:            actor.UserID,
		ActionID:           request.Responsible.ActionID,
		ResponsibleID:      request.ResponsibleID,
		ExtensionRequestID: request.ID,
		Attributes: map[string]interface{}{
			"status":  string(status),
			"newDate": request.NewDate.Format("2006-01-02"),
		},
	})

	return s.findRequest(ctx, request.ID)
}

func (s *ExtensionService) findRequest(ctx context.Context, id uint64) (*models.ExtensionRequest, error) {
	request, err := s.extensionRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrExtensionNotFound
		}
		return nil, fmt.Errorf("failed to find extension request: %w", err)
	}
	return request, nil
}
