package models

import (
	"time"

	"gorm.io/gorm"
)

// Company is a tenant. Every user and meeting belongs to exactly one.
type Company struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Website     string         `gorm:"type:varchar(255)" json:"website"`
	Active      bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Users    []User    `gorm:"foreignKey:CompanyID" json:"-"`
	Meetings []Meeting `gorm:"foreignKey:CompanyID" json:"-"`
}
