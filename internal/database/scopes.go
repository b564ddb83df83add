package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/meeting-action-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset()).Limit(params.PageSize())
	}
}

// ForCompany restricts a meetings query to one tenant.
func ForCompany(companyID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("meetings.company_id = ?", companyID)
	}
}
