package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/meeting-action-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormActionRepository is a GORM implementation of ActionRepository
type GormActionRepository struct {
	db *gorm.DB
}

// NewActionRepository creates a new ActionRepository
func NewActionRepository(db *gorm.DB) ActionRepository {
	return &GormActionRepository{db: db}
}

func (r *GormActionRepository) CreateWithResponsibles(ctx context.Context, action *models.Action, responsibles []models.ActionResponsible) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(action).Error; err != nil {
			return err
		}
		if len(responsibles) == 0 {
			return nil
		}

		for i := range responsibles {
			responsibles[i].ActionID = action.ID
		}
		if err := tx.Create(&responsibles).Error; err != nil {
			return err
		}
		action.Responsibles = responsibles
		return nil
	})
}

func (r *GormActionRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Action, error) {
	var action models.Action
	query := r.db.WithContext(ctx)
	for _, p := range preload {
		query = query.Preload(p, orderedPreload(p))
	}
	if err := query.First(&action, id).Error; err != nil {
		return nil, err
	}
	return &action, nil
}

// orderedPreload keeps assignment lists in insertion order.
func orderedPreload(name string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if name == "Responsibles" {
			return db.Order("action_responsibles.id ASC")
		}
		return db
	}
}

func (r *GormActionRepository) ListByMeeting(ctx context.Context, meetingID uint64) ([]models.Action, error) {
	var actions []models.Action
	err := r.db.WithContext(ctx).
		Preload("Responsibles", orderedPreload("Responsibles")).
		Preload("Responsibles.User").
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC, id ASC").
		Find(&actions).Error
	return actions, err
}

// AddResponsibles bumps the action version in the same transaction so that
// an approval racing with the insert cannot promote against the old set.
func (r *GormActionRepository) AddResponsibles(ctx context.Context, actionID uint64, responsibles []models.ActionResponsible) (int64, error) {
	var added int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range responsibles {
			responsibles[i].ActionID = actionID
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&responsibles)
		if result.Error != nil {
			return result.Error
		}
		added = result.RowsAffected

		return tx.Model(&models.Action{}).
			Where("id = ?", actionID).
			Update("version", gorm.Expr("version + 1")).Error
	})
	return added, err
}

func (r *GormActionRepository) FindResponsible(ctx context.Context, id uint64) (*models.ActionResponsible, error) {
	var responsible models.ActionResponsible
	err := r.db.WithContext(ctx).
		Preload("Action").
		Preload("Action.Meeting").
		First(&responsible, id).Error
	if err != nil {
		return nil, err
	}
	return &responsible, nil
}

func (r *GormActionRepository) FindResponsibleByUser(ctx context.Context, actionID, userID uint64) (*models.ActionResponsible, error) {
	var responsible models.ActionResponsible
	err := r.db.WithContext(ctx).
		Where("action_id = ? AND user_id = ?", actionID, userID).
		First(&responsible).Error
	if err != nil {
		return nil, err
	}
	return &responsible, nil
}

func (r *GormActionRepository) UpdateProgress(ctx context.Context, responsibleID uint64, progress ResponsibleProgress) error {
	updates := map[string]interface{}{}
	if progress.Status != nil {
		updates["status"] = *progress.Status
		updates["approved_at"] = progress.ReportedAt
	}
	if progress.StartDate != nil {
		updates["start_date"] = *progress.StartDate
	}
	if progress.EndDate != nil {
		updates["end_date"] = *progress.EndDate
	}
	if progress.Comment != nil {
		updates["comment"] = *progress.Comment
	}
	if len(updates) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Model(&models.ActionResponsible{}).
		Where("id = ?", responsibleID).
		Updates(updates).Error
}

// RecordApproval updates one assignment, re-reads its siblings, derives the
// action status and commits it with a version check. Zero rows on the version
// check means another writer committed first; the whole write is rolled back.
func (r *GormActionRepository) RecordApproval(ctx context.Context, record ApprovalRecord, decide StatusDecider) (*ApprovalOutcome, error) {
	var outcome ApprovalOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var action models.Action
		if err := tx.First(&action, record.ActionID).Error; err != nil {
			return err
		}

		var responsible models.ActionResponsible
		if err := tx.Where("id = ? AND action_id = ?", record.ResponsibleID, record.ActionID).First(&responsible).Error; err != nil {
			return err
		}

		err := tx.Model(&models.ActionResponsible{}).
			Where("id = ?", responsible.ID).
			Updates(map[string]interface{}{
				"approved":    record.Approved,
				"approved_at": record.ApprovedAt,
				"comment":     record.Comment,
			}).Error
		if err != nil {
			return fmt.Errorf("update responsible: %w", err)
		}

		var responsibles []models.ActionResponsible
		if err := tx.Where("action_id = ?", action.ID).Order("id ASC").Find(&responsibles).Error; err != nil {
			return fmt.Errorf("load responsibles: %w", err)
		}

		status, promoted := decide(action.Status, responsibles)

		changes := map[string]interface{}{"version": gorm.Expr("version + 1")}
		if promoted {
			changes["status"] = status
		}
		result := tx.Model(&models.Action{}).
			Where("id = ? AND version = ?", action.ID, action.Version).
			Updates(changes)
		if result.Error != nil {
			return fmt.Errorf("update action: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrStaleAction
		}

		allApproved := len(responsibles) > 0
		for _, resp := range responsibles {
			if resp.ID == responsible.ID {
				responsible = resp
			}
			if !resp.Approved {
				allApproved = false
			}
		}

		outcome = ApprovalOutcome{
			Responsible: responsible,
			Status:      status,
			Promoted:    promoted,
			AllApproved: allApproved,
			Version:     action.Version + 1,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &outcome, nil
}

// authorityJoins joins assignments to their action and live meeting.
func authorityJoins(db *gorm.DB, companyID uint64) *gorm.DB {
	return db.
		Joins("JOIN actions ON actions.id = action_responsibles.action_id").
		Joins("JOIN meetings ON meetings.id = actions.meeting_id AND meetings.deleted_at IS NULL").
		Where("meetings.company_id = ?", companyID)
}

func (r *GormActionRepository) ListAwaitingRatification(ctx context.Context, scope AuthorityScope) ([]models.ActionResponsible, error) {
	query := authorityJoins(r.db.WithContext(ctx).Model(&models.ActionResponsible{}), scope.CompanyID).
		Select("action_responsibles.*").
		Where("action_responsibles.status = ? AND action_responsibles.approved = ?", models.ResponsibleStatusCompleted, false)
	if scope.CreatorID != nil {
		query = query.Where("meetings.creator_id = ?", *scope.CreatorID)
	}

	var responsibles []models.ActionResponsible
	err := query.
		Preload("User").
		Preload("Action").
		Preload("Action.Meeting").
		Order("CASE WHEN action_responsibles.approved_at IS NULL THEN 0 ELSE 1 END, action_responsibles.approved_at ASC, action_responsibles.id ASC").
		Find(&responsibles).Error
	return responsibles, err
}

func (r *GormActionRepository) ListOverdue(ctx context.Context, scope OverdueScope) ([]models.ActionResponsible, error) {
	query := authorityJoins(r.db.WithContext(ctx).Model(&models.ActionResponsible{}), scope.CompanyID).
		Select("action_responsibles.*").
		Where("action_responsibles.end_date IS NOT NULL AND action_responsibles.end_date < ?", scope.Today).
		Where("actions.status <> ?", models.ActionStatusCompleted)
	if scope.UserID != nil {
		query = query.Where(
			"(meetings.creator_id = ? OR EXISTS (SELECT 1 FROM actions a2 JOIN action_responsibles r2 ON r2.action_id = a2.id WHERE a2.meeting_id = meetings.id AND r2.user_id = ?))",
			*scope.UserID, *scope.UserID,
		)
	}

	var responsibles []models.ActionResponsible
	err := query.
		Preload("User").
		Preload("Action").
		Preload("Action.Meeting").
		Order("action_responsibles.end_date ASC, action_responsibles.id ASC").
		Find(&responsibles).Error
	return responsibles, err
}
