package models

import "time"

type ExtensionStatus string

const (
	ExtensionStatusPending  ExtensionStatus = "pending"
	ExtensionStatusAccepted ExtensionStatus = "accepted"
	ExtensionStatusRejected ExtensionStatus = "rejected"
)

// ExtensionRequest asks the meeting authority to move an assignment's end
// date. Only pending requests can be resolved; accepted and rejected are final.
type ExtensionRequest struct {
	ID              uint64          `gorm:"primarykey" json:"id"`
	ResponsibleID   uint64          `gorm:"not null;index" json:"responsibleId"`
	RequesterID     uint64          `gorm:"not null;index" json:"requesterId"`
	NewDate         time.Time       `gorm:"not null" json:"newDate"`
	RequestComment  string          `gorm:"type:text" json:"requestComment"`
	Status          ExtensionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ResponderID     *uint64         `json:"responderId"`
	ResponseComment *string         `gorm:"type:text" json:"responseComment"`
	RequestedAt     time.Time       `gorm:"not null" json:"requestedAt"`
	RespondedAt     *time.Time      `json:"respondedAt"`

	// Relations
	Responsible *ActionResponsible `gorm:"foreignKey:ResponsibleID" json:"responsible,omitempty"`
	Requester   *User              `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
}

func (r ExtensionRequest) IsPending() bool {
	return r.Status == ExtensionStatusPending
}
