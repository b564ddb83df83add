package models

import (
	"time"

	"gorm.io/gorm"
)

type MeetingStatus string

const (
	MeetingStatusActive    MeetingStatus = "active"
	MeetingStatusCancelled MeetingStatus = "cancelled"
	MeetingStatusCompleted MeetingStatus = "completed"
)

type Meeting struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Date        time.Time      `gorm:"not null" json:"date"`
	Time        string         `gorm:"type:varchar(5)" json:"time"`
	Duration    int            `gorm:"not null;default:60" json:"duration"`
	CompanyID   uint64         `gorm:"not null;index" json:"companyId"`
	CreatorID   uint64         `gorm:"not null;index" json:"creatorId"`
	Location    *string        `gorm:"type:varchar(255)" json:"location"`
	OnlineLink  *string        `gorm:"type:varchar(500)" json:"onlineLink"`
	Status      MeetingStatus  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator      *User                `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Participants []MeetingParticipant `gorm:"foreignKey:MeetingID" json:"participants,omitempty"`
	Actions      []Action             `gorm:"foreignKey:MeetingID" json:"actions,omitempty"`
}

type ParticipantResponse string

const (
	ParticipantPending  ParticipantResponse = "pending"
	ParticipantAccepted ParticipantResponse = "accepted"
	ParticipantDeclined ParticipantResponse = "declined"
)

func (r ParticipantResponse) Valid() bool {
	switch r {
	case ParticipantPending, ParticipantAccepted, ParticipantDeclined:
		return true
	}
	return false
}

// MeetingParticipant is informational; it grants no workflow permissions.
type MeetingParticipant struct {
	MeetingID   uint64              `gorm:"primarykey" json:"meetingId"`
	UserID      uint64              `gorm:"primarykey" json:"userId"`
	Response    ParticipantResponse `gorm:"type:varchar(20);not null;default:'pending'" json:"response"`
	RespondedAt *time.Time          `json:"respondedAt"`
	CreatedAt   time.Time           `json:"createdAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
