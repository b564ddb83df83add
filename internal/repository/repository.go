package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/meeting-action-api/internal/models"
	"github.com/yukikurage/meeting-action-api/internal/utils"
)

var (
	// ErrStaleAction is returned when an action changed between read and write
	// inside an approval transaction.
	ErrStaleAction = errors.New("action repository: action was modified concurrently")
	// ErrResponsibleMismatch is returned when a responsible does not belong to the action.
	ErrResponsibleMismatch = errors.New("action repository: responsible does not belong to action")
	// ErrExtensionAlreadyResolved is returned when resolving a request that is no longer pending.
	ErrExtensionAlreadyResolved = errors.New("extension repository: request already resolved")
	// ErrPendingExtensionExists is returned when an assignment already has a pending request.
	ErrPendingExtensionExists = errors.New("extension repository: pending request already exists")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email with the company preloaded
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// CountInCompany counts how many of the given user IDs are active users of the company
	CountInCompany(ctx context.Context, companyID uint64, userIDs []uint64) (int64, error)
}

// MeetingFilter holds filtering options for listing meetings
type MeetingFilter struct {
	CompanyID  uint64
	Status     *models.MeetingStatus
	Pagination utils.PaginationParams
}

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create creates a meeting and its participants atomically
	Create(ctx context.Context, meeting *models.Meeting, participantIDs []uint64) error

	// FindByID finds a meeting by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Meeting, error)

	// List retrieves tenant meetings, newest first
	List(ctx context.Context, filter MeetingFilter) ([]models.Meeting, int64, error)

	// HasOwnedMeetings reports whether the user created any meeting in the company
	HasOwnedMeetings(ctx context.Context, companyID, creatorID uint64) (bool, error)

	// AddParticipant invites a user; it reports false when the user was already invited
	AddParticipant(ctx context.Context, meetingID, userID uint64) (bool, error)

	FindParticipant(ctx context.Context, meetingID, userID uint64) (*models.MeetingParticipant, error)

	// SetParticipantResponse records a participant's answer to the invitation
	SetParticipantResponse(ctx context.Context, meetingID, userID uint64, response models.ParticipantResponse, at time.Time) error
}

// StatusDecider derives an action's status from its assignments.
type StatusDecider func(current models.ActionStatus, responsibles []models.ActionResponsible) (models.ActionStatus, bool)

// ApprovalRecord is one approval write on one assignment.
type ApprovalRecord struct {
	ActionID      uint64
	ResponsibleID uint64
	Approved      bool
	ApprovedAt    *time.Time
	Comment       *string
}

// ApprovalOutcome describes the state committed by RecordApproval.
type ApprovalOutcome struct {
	Responsible models.ActionResponsible
	Status      models.ActionStatus
	Promoted    bool
	AllApproved bool
	Version     uint64
}

// ResponsibleProgress holds self-reported progress fields; nil fields are left untouched.
type ResponsibleProgress struct {
	Status     *models.ResponsibleStatus
	StartDate  *time.Time
	EndDate    *time.Time
	Comment    *string
	ReportedAt *time.Time
}

// AuthorityScope restricts inbox queries to one tenant and, for non-admins,
// to meetings the actor created.
type AuthorityScope struct {
	CompanyID uint64
	CreatorID *uint64
}

// OverdueScope restricts the overdue query. A non-nil UserID limits results
// to meetings the user created or holds any assignment in.
type OverdueScope struct {
	CompanyID uint64
	UserID    *uint64
	Today     time.Time
}

// ActionRepository defines the interface for action and assignment data access
type ActionRepository interface {
	// CreateWithResponsibles creates an action and its assignments atomically
	CreateWithResponsibles(ctx context.Context, action *models.Action, responsibles []models.ActionResponsible) error

	// FindByID finds an action by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Action, error)

	// ListByMeeting lists a meeting's actions oldest first with assignments preloaded
	ListByMeeting(ctx context.Context, meetingID uint64) ([]models.Action, error)

	// AddResponsibles adds assignments, skipping users already assigned
	AddResponsibles(ctx context.Context, actionID uint64, responsibles []models.ActionResponsible) (int64, error)

	// FindResponsible finds an assignment by ID with its action and meeting
	FindResponsible(ctx context.Context, id uint64) (*models.ActionResponsible, error)

	// FindResponsibleByUser finds the assignment of a user on an action
	FindResponsibleByUser(ctx context.Context, actionID, userID uint64) (*models.ActionResponsible, error)

	// UpdateProgress applies self-reported progress to an assignment
	UpdateProgress(ctx context.Context, responsibleID uint64, progress ResponsibleProgress) error

	// RecordApproval writes an approval and re-derives the action status in one transaction
	RecordApproval(ctx context.Context, record ApprovalRecord, decide StatusDecider) (*ApprovalOutcome, error)

	// ListAwaitingRatification lists assignments reported completed but not yet approved
	ListAwaitingRatification(ctx context.Context, scope AuthorityScope) ([]models.ActionResponsible, error)

	// ListOverdue lists assignments past their end date on actions that are not completed
	ListOverdue(ctx context.Context, scope OverdueScope) ([]models.ActionResponsible, error)
}

// ExtensionResolution is the authority's answer to a pending request.
type ExtensionResolution struct {
	RequestID       uint64
	Status          models.ExtensionStatus
	ResponderID     uint64
	ResponseComment *string
	RespondedAt     time.Time
}

// ExtensionRepository defines the interface for extension request data access
type ExtensionRepository interface {
	// Create files a new pending request; unless allowParallel is set it
	// refuses when the assignment already has one
	Create(ctx context.Context, request *models.ExtensionRequest, allowParallel bool) error

	// FindByID finds a request with its assignment, action and meeting
	FindByID(ctx context.Context, id uint64) (*models.ExtensionRequest, error)

	// Resolve moves a pending request to accepted or rejected and, when
	// accepted, copies the new date onto the assignment
	Resolve(ctx context.Context, resolution ExtensionResolution) error

	// ListPending lists pending requests oldest first
	ListPending(ctx context.Context, scope AuthorityScope) ([]models.ExtensionRequest, error)
}
