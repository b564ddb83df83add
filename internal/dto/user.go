package dto

import (
	"time"

	"github.com/yukikurage/meeting-action-api/internal/constants"
	"github.com/yukikurage/meeting-action-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         uint64      `json:"id"`
	FullName   string      `json:"fullName"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	Department string      `json:"department,omitempty"`
	Position   string      `json:"position,omitempty"`
	CompanyID  uint64      `json:"companyId"`
}

// UserSummaryDTO is the short user form embedded in other resources
type UserSummaryDTO struct {
	ID       uint64 `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// LoginResponse is returned by the login endpoint
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserDTO   `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		FullName:   user.FullName,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
		Position:   user.Position,
		CompanyID:  user.CompanyID,
	}
}

func toUserSummary(user *models.User) *UserSummaryDTO {
	if user == nil || user.ID == 0 {
		return nil
	}
	return &UserSummaryDTO{ID: user.ID, FullName: user.FullName, Email: user.Email}
}

// FormatDate renders a calendar date, or nil when unset.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(constants.DateLayout)
	return &s
}
