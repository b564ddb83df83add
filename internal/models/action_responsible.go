package models

import "time"

type ResponsibleStatus string

const (
	ResponsibleStatusPending    ResponsibleStatus = "pending"
	ResponsibleStatusInProgress ResponsibleStatus = "in_progress"
	ResponsibleStatusCompleted  ResponsibleStatus = "completed"
)

func (s ResponsibleStatus) Valid() bool {
	switch s {
	case ResponsibleStatusPending, ResponsibleStatusInProgress, ResponsibleStatusCompleted:
		return true
	}
	return false
}

// ActionResponsible assigns one user to one action. Status is the assignee's
// self-reported progress and is independent of Approved.
type ActionResponsible struct {
	ID         uint64            `gorm:"primarykey" json:"id"`
	ActionID   uint64            `gorm:"not null;uniqueIndex:idx_action_user" json:"actionId"`
	UserID     uint64            `gorm:"not null;uniqueIndex:idx_action_user;index" json:"userId"`
	Role       string            `gorm:"type:varchar(50);not null;default:'primary'" json:"role"`
	Status     ResponsibleStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	StartDate  *time.Time        `json:"startDate"`
	EndDate    *time.Time        `json:"endDate"`
	Approved   bool              `gorm:"not null;default:false" json:"approved"`
	ApprovedAt *time.Time        `json:"approvedAt"`
	Comment    *string           `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`

	// Relations
	Action *Action `gorm:"foreignKey:ActionID" json:"action,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
