package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/meeting-action-api/internal/clock"
	"github.com/yukikurage/meeting-action-api/internal/events"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"github.com/yukikurage/meeting-action-api/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrResponsibleNotFound = errors.New("responsible not found")
	ErrResponsibleRequired = errors.New("responsibleId or userId is required")
	ErrStaleAction         = errors.New("action was modified concurrently, retry the request")
	ErrNoProgressChange    = errors.New("no progress fields to update")
)

// Result messages returned with approval writes.
const (
	MessageActionCompleted  = "All responsibles approved; action completed"
	MessageApprovalRecorded = "Approval recorded; waiting for remaining responsibles"
	MessageRejectRecorded   = "Rejection recorded"
)

// ApprovalService is the approval engine: it records individual and
// authority approvals and keeps the aggregate action status in step.
type ApprovalService struct {
	actionRepo    repository.ActionRepository
	extensionRepo repository.ExtensionRepository
	meetingRepo   repository.MeetingRepository
	notify        notifier
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	actionRepo repository.ActionRepository,
	extensionRepo repository.ExtensionRepository,
	meetingRepo repository.MeetingRepository,
	publisher events.Publisher,
	log *zap.Logger,
) *ApprovalService {
	return &ApprovalService{
		actionRepo:    actionRepo,
		extensionRepo: extensionRepo,
		meetingRepo:   meetingRepo,
		notify:        newNotifier(publisher, log),
	}
}

// RecordApprovalInput identifies the assignment either by ResponsibleID or by
// UserID on the action. ResponsibleID wins when both are set.
type RecordApprovalInput struct {
	ActionID      uint64
	ResponsibleID *uint64
	UserID        *uint64
	Approved      bool
	Comment       *string
}

// ApprovalResult is the committed state after an approval write.
type ApprovalResult struct {
	Action      *models.Action
	Responsible models.ActionResponsible
	Completed   bool
	Promoted    bool
	Message     string
}

// RecordIndividualApproval lets an assignee approve or reject their own part
// of an action.
func (s *ApprovalService) RecordIndividualApproval(ctx context.Context, actor Actor, input RecordApprovalInput) (*ApprovalResult, error) {
	action, err := s.loadAction(ctx, actor, input.ActionID)
	if err != nil {
		return nil, err
	}

	responsible, err := s.resolveResponsible(ctx, action.ID, input.ResponsibleID, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, action.Meeting, responsible.UserID, PermissionAssignee); err != nil {
		return nil, err
	}

	return s.record(ctx, actor, action, responsible.ID, input.Approved, input.Comment)
}

// ApproveAsAuthority lets the meeting creator or an administrator ratify or
// reject an assignment on the assignee's behalf.
func (s *ApprovalService) ApproveAsAuthority(ctx context.Context, actor Actor, actionID, responsibleID uint64, approved bool, comment *string) (*ApprovalResult, error) {
	action, err := s.loadAction(ctx, actor, actionID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, action.Meeting, 0, PermissionAuthority); err != nil {
		return nil, err
	}

	responsible, err := s.resolveResponsible(ctx, action.ID, &responsibleID, nil)
	if err != nil {
		return nil, err
	}

	return s.record(ctx, actor, action, responsible.ID, approved, comment)
}

func (s *ApprovalService) record(ctx context.Context, actor Actor, action *models.Action, responsibleID uint64, approved bool, comment *string) (*ApprovalResult, error) {
	var approvedAt *time.Time
	if approved {
		now := clock.Now()
		approvedAt = &now
	}

	outcome, err := s.actionRepo.RecordApproval(ctx, repository.ApprovalRecord{
		ActionID:      action.ID,
		ResponsibleID: responsibleID,
		Approved:      approved,
		ApprovedAt:    approvedAt,
		Comment:       comment,
	}, DeriveActionStatus)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleAction):
			return nil, ErrStaleAction
		case repository.IsNotFound(err):
			return nil, ErrResponsibleNotFound
		default:
			return nil, fmt.Errorf("failed to record approval: %w", err)
		}
	}

	updated, err := s.actionRepo.FindByID(ctx, action.ID, actionDetail...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload action: %w", err)
	}

	s.notify.emit(ctx, events.Event{
		Topic:         events.TopicApprovalRecorded,
		CompanyID:     actor.CompanyID,
		ActorID:       actor.UserID,
		ActionID:      action.ID,
		ResponsibleID: responsibleID,
		Attributes: map[string]interface{}{
			"approved": approved,
			"userId":   outcome.Responsible.UserID,
		},
	})
	if outcome.Promoted {
		s.notify.emit(ctx, events.Event{
			Topic:     events.TopicActionCompleted,
			CompanyID: actor.CompanyID,
			ActorID:   actor.UserID,
			ActionID:  action.ID,
		})
	}

	return &ApprovalResult{
		Action:      updated,
		Responsible: outcome.Responsible,
		Completed:   outcome.AllApproved,
		Promoted:    outcome.Promoted,
		Message:     approvalMessage(approved, outcome.AllApproved),
	}, nil
}

func approvalMessage(approved, allApproved bool) string {
	switch {
	case allApproved:
		return MessageActionCompleted
	case approved:
		return MessageApprovalRecorded
	default:
		return MessageRejectRecorded
	}
}

// PendingApprovals is the authority inbox.
type PendingApprovals struct {
	ExtensionRequests []models.ExtensionRequest
	ActionApprovals   []models.ActionResponsible
}

// ListPendingApprovalsForAuthority returns pending extension requests and
// assignments awaiting ratification on meetings the actor is authority for.
func (s *ApprovalService) ListPendingApprovalsForAuthority(ctx context.Context, actor Actor) (*PendingApprovals, error) {
	inbox := &PendingApprovals{
		ExtensionRequests: []models.ExtensionRequest{},
		ActionApprovals:   []models.ActionResponsible{},
	}

	scope := repository.AuthorityScope{CompanyID: actor.CompanyID}
	if !actor.IsAdmin() {
		owns, err := s.meetingRepo.HasOwnedMeetings(ctx, actor.CompanyID, actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check meeting ownership: %w", err)
		}
		if !owns {
			return inbox, nil
		}
		userID := actor.UserID
		scope.CreatorID = &userID
	}

	extensions, err := s.extensionRepo.ListPending(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list extension requests: %w", err)
	}
	awaiting, err := s.actionRepo.ListAwaitingRatification(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list awaiting approvals: %w", err)
	}

	if len(extensions) > 0 {
		inbox.ExtensionRequests = extensions
	}
	if len(awaiting) > 0 {
		inbox.ActionApprovals = awaiting
	}
	return inbox, nil
}

// UpdateProgressInput carries self-reported progress. Nil fields are left unchanged.
type UpdateProgressInput struct {
	Status    *models.ResponsibleStatus
	StartDate *time.Time
	EndDate   *time.Time
	Comment   *string
}

// UpdateResponsibleProgress records the assignee's own progress report. It
// never changes the approval flag or the action status. Reporting a status
// stamps approvedAt, which orders the authority inbox.
func (s *ApprovalService) UpdateResponsibleProgress(ctx context.Context, actor Actor, responsibleID uint64, input UpdateProgressInput) (*models.ActionResponsible, error) {
	if input.Status == nil && input.StartDate == nil && input.EndDate == nil && input.Comment == nil {
		return nil, ErrNoProgressChange
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidResponsibleStat
	}

	responsible, err := s.actionRepo.FindResponsible(ctx, responsibleID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrResponsibleNotFound
		}
		return nil, fmt.Errorf("failed to find responsible: %w", err)
	}
	if responsible.Action == nil {
		return nil, ErrResponsibleNotFound
	}
	if err := Authorize(actor, responsible.Action.Meeting, responsible.UserID, PermissionAssigneeOrAuthority); err != nil {
		if errors.Is(err, ErrCrossTenant) {
			return nil, ErrResponsibleNotFound
		}
		return nil, err
	}

	start, end := responsible.StartDate, responsible.EndDate
	if input.StartDate != nil {
		start = input.StartDate
	}
	if input.EndDate != nil {
		end = input.EndDate
	}
	if err := checkDateRange(start, end); err != nil {
		return nil, err
	}

	progress := repository.ResponsibleProgress{
		Status:    input.Status,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Comment:   input.Comment,
	}
	if input.Status != nil {
		now := clock.Now()
		progress.ReportedAt = &now
	}
	if err := s.actionRepo.UpdateProgress(ctx, responsible.ID, progress); err != nil {
		return nil, fmt.Errorf("failed to update responsible: %w", err)
	}

	return s.actionRepo.FindResponsible(ctx, responsible.ID)
}

// loadAction fetches the action with its meeting and hides other tenants' actions.
func (s *ApprovalService) loadAction(ctx context.Context, actor Actor, actionID uint64) (*models.Action, error) {
	action, err := s.actionRepo.FindByID(ctx, actionID, "Meeting")
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

func (s *ApprovalService) resolveResponsible(ctx context.Context, actionID uint64, responsibleID, userID *uint64) (*models.ActionResponsible, error) {
	var (
		responsible *models.ActionResponsible
		err         error
	)
	switch {
	case responsibleID != nil && *responsibleID != 0:
		responsible, err = s.actionRepo.FindResponsible(ctx, *responsibleID)
	case userID != nil && *userID != 0:
		responsible, err = s.actionRepo.FindResponsibleByUser(ctx, actionID, *userID)
	default:
		return nil, ErrResponsibleRequired
	}
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrResponsibleNotFound
		}
		return nil, fmt.Errorf("failed to find responsible: %w", err)
	}
	if responsible.ActionID != actionID {
		return nil, ErrResponsibleNotFound
	}
	return responsible, nil
}
