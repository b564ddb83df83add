package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/meeting-action-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormExtensionRepository is a GORM implementation of ExtensionRepository
type GormExtensionRepository struct {
	db *gorm.DB
}

// NewExtensionRepository creates a new ExtensionRepository
func NewExtensionRepository(db *gorm.DB) ExtensionRepository {
	return &GormExtensionRepository{db: db}
}

func (r *GormExtensionRepository) Create(ctx context.Context, request *models.ExtensionRequest, allowParallel bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !allowParallel {
			// Serialises concurrent requests for the same assignment.
			var responsible models.ActionResponsible
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").
				First(&responsible, request.ResponsibleID).Error
			if err != nil {
				return err
			}

			var pending int64
			err = tx.Model(&models.ExtensionRequest{}).
				Where("responsible_id = ? AND status = ?", request.ResponsibleID, models.ExtensionStatusPending).
				Count(&pending).Error
			if err != nil {
				return err
			}
			if pending > 0 {
				return ErrPendingExtensionExists
			}
		}
		return tx.Create(request).Error
	})
}

func (r *GormExtensionRepository) FindByID(ctx context.Context, id uint64) (*models.ExtensionRequest, error) {
	var request models.ExtensionRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Responsible").
		Preload("Responsible.Action").
		Preload("Responsible.Action.Meeting").
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Resolve only touches rows still pending, so two concurrent responders
// cannot both succeed.
func (r *GormExtensionRepository) Resolve(ctx context.Context, resolution ExtensionResolution) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ExtensionRequest{}).
			Where("id = ? AND status = ?", resolution.RequestID, models.ExtensionStatusPending).
			Updates(map[string]interface{}{
				"status":           resolution.Status,
				"responder_id":     resolution.ResponderID,
				"response_comment": resolution.ResponseComment,
				"responded_at":     resolution.RespondedAt,
			})
		if result.Error != nil {
			return result.Error
		}

		var request models.ExtensionRequest
		if err := tx.First(&request, resolution.RequestID).Error; err != nil {
			return err
		}
		if result.RowsAffected == 0 {
			return ErrExtensionAlreadyResolved
		}

		if resolution.Status != models.ExtensionStatusAccepted {
			return nil
		}
		return tx.Model(&models.ActionResponsible{}).
			Where("id = ?", request.ResponsibleID).
			Update("end_date", request.NewDate).Error
	})
}

func (r *GormExtensionRepository) ListPending(ctx context.Context, scope AuthorityScope) ([]models.ExtensionRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.ExtensionRequest{}).
		Select("extension_requests.*").
		Joins("JOIN action_responsibles ON action_responsibles.id = extension_requests.responsible_id").
		Joins("JOIN actions ON actions.id = action_responsibles.action_id").
		Joins("JOIN meetings ON meetings.id = actions.meeting_id AND meetings.deleted_at IS NULL").
		Where("meetings.company_id = ?", scope.CompanyID).
		Where("extension_requests.status = ?", models.ExtensionStatusPending)
	if scope.CreatorID != nil {
		query = query.Where("meetings.creator_id = ?", *scope.CreatorID)
	}

	var requests []models.ExtensionRequest
	err := query.
		Preload("Requester").
		Preload("Responsible").
		Preload("Responsible.Action").
		Preload("Responsible.Action.Meeting").
		Order("extension_requests.requested_at ASC, extension_requests.id ASC").
		Find(&requests).Error
	return requests, err
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
