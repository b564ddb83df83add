package database

import (
	"fmt"

	"gorm.io/gorm"
)

type secondaryIndex struct {
	table   string
	name    string
	columns string
}

// secondaryIndexes back the approval inbox and overdue queries.
var secondaryIndexes = []secondaryIndex{
	{"meetings", "idx_meetings_company_creator", "company_id, creator_id"},
	{"actions", "idx_actions_meeting_status", "meeting_id, status"},
	{"action_responsibles", "idx_responsibles_status_approved", "status, approved"},
	{"action_responsibles", "idx_responsibles_end_date", "end_date"},
	{"extension_requests", "idx_extension_requests_status", "status, requested_at"},
}

// AddIndexes creates the secondary indexes that are missing. It is safe to
// call on every start.
func AddIndexes(db *gorm.DB) ([]string, error) {
	var created []string
	for _, idx := range secondaryIndexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return created, fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		created = append(created, idx.name)
	}

	return created, nil
}

// MigrateDatabase runs AutoMigrate and then adds secondary indexes.
func MigrateDatabase(db *gorm.DB) ([]string, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}

	created, err := AddIndexes(db)
	if err != nil {
		return created, fmt.Errorf("failed to add indexes: %w", err)
	}

	return created, nil
}
