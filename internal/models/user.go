package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	FullName     string         `gorm:"type:varchar(255);not null" json:"fullName"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role           `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"role"`
	Department   string         `gorm:"type:varchar(255)" json:"department"`
	Position     string         `gorm:"type:varchar(255)" json:"position"`
	CompanyID    uint64         `gorm:"not null;index" json:"companyId"`
	Active       bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Company          *Company            `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Responsibilities []ActionResponsible `gorm:"foreignKey:UserID" json:"-"`
}

// IsAdmin reports whether the user holds the tenant administrator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
