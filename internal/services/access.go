package services

import (
	"errors"

	"github.com/yukikurage/meeting-action-api/internal/models"
)

var (
	// ErrCrossTenant is reported to clients as not found so that resources of
	// other companies stay invisible.
	ErrCrossTenant            = errors.New("resource not found")
	ErrNotAssignee            = errors.New("only the assigned user can perform this action")
	ErrNotMeetingAuthority    = errors.New("only the meeting creator or an administrator can perform this action")
	ErrNotAssigneeOrAuthority = errors.New("only the assigned user, the meeting creator or an administrator can perform this action")
)

// Actor is the authenticated caller as resolved from the bearer token.
type Actor struct {
	UserID    uint64
	CompanyID uint64
	Role      models.Role
	Email     string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

type Permission int

const (
	// PermissionTenantMember requires only that the actor belongs to the meeting's company.
	PermissionTenantMember Permission = iota
	// PermissionAssignee requires the actor to be the assignment's user.
	PermissionAssignee
	// PermissionAuthority requires the meeting creator or a company administrator.
	PermissionAuthority
	// PermissionAssigneeOrAuthority accepts either of the above.
	PermissionAssigneeOrAuthority
)

// Authorize is the single access predicate for every workflow operation.
// assigneeID is ignored for permissions that do not involve an assignment.
func Authorize(actor Actor, meeting *models.Meeting, assigneeID uint64, perm Permission) error {
	if meeting == nil || actor.CompanyID == 0 || meeting.CompanyID != actor.CompanyID {
		return ErrCrossTenant
	}

	isAssignee := assigneeID != 0 && actor.UserID == assigneeID
	isAuthority := actor.IsAdmin() || meeting.CreatorID == actor.UserID

	switch perm {
	case PermissionTenantMember:
		return nil
	case PermissionAssignee:
		if !isAssignee {
			return ErrNotAssignee
		}
	case PermissionAuthority:
		if !isAuthority {
			return ErrNotMeetingAuthority
		}
	case PermissionAssigneeOrAuthority:
		if !isAssignee && !isAuthority {
			return ErrNotAssigneeOrAuthority
		}
	default:
		return ErrNotMeetingAuthority
	}
	return nil
}
