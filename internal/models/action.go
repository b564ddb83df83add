package models

import "time"

type ActionStatus string

const (
	ActionStatusPending    ActionStatus = "pending"
	ActionStatusInProgress ActionStatus = "in_progress"
	ActionStatusCompleted  ActionStatus = "completed"
	ActionStatusCancelled  ActionStatus = "cancelled"
)

func (s ActionStatus) Valid() bool {
	switch s {
	case ActionStatusPending, ActionStatusInProgress, ActionStatusCompleted, ActionStatusCancelled:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank orders priorities from low (1) to critical (4). Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Action is a follow-up item produced by a meeting. Version is bumped on every
// approval write and guards the aggregate status against concurrent writers.
type Action struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	MeetingID   uint64       `gorm:"not null;index" json:"meetingId"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      ActionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority    Priority     `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	StartDate   *time.Time   `json:"startDate"`
	EndDate     *time.Time   `json:"endDate"`
	Version     uint64       `gorm:"not null;default:0" json:"version"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	// Relations
	Meeting      *Meeting            `gorm:"foreignKey:MeetingID" json:"meeting,omitempty"`
	Responsibles []ActionResponsible `gorm:"foreignKey:ActionID" json:"responsibles,omitempty"`
}
