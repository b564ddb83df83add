package repository

import (
	"context"
	"time"

	"github.com/yukikurage/meeting-action-api/internal/database"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMeetingRepository is a GORM implementation of MeetingRepository
type GormMeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new MeetingRepository
func NewMeetingRepository(db *gorm.DB) MeetingRepository {
	return &GormMeetingRepository{db: db}
}

func (r *GormMeetingRepository) Create(ctx context.Context, meeting *models.Meeting, participantIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(meeting).Error; err != nil {
			return err
		}
		if len(participantIDs) == 0 {
			return nil
		}

		participants := make([]models.MeetingParticipant, len(participantIDs))
		for i, userID := range participantIDs {
			participants[i] = models.MeetingParticipant{
				MeetingID: meeting.ID,
				UserID:    userID,
				Response:  models.ParticipantPending,
			}
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&participants).Error
	})
}

func (r *GormMeetingRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Meeting, error) {
	var meeting models.Meeting
	query := r.db.WithContext(ctx)
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&meeting, id).Error; err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (r *GormMeetingRepository) List(ctx context.Context, filter MeetingFilter) ([]models.Meeting, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Meeting{}).Scopes(database.ForCompany(filter.CompanyID))
	if filter.Status != nil {
		query = query.Where("meetings.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var meetings []models.Meeting
	err := query.
		Preload("Creator").
		Order("meetings.date DESC, meetings.id DESC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&meetings).Error
	if err != nil {
		return nil, 0, err
	}

	return meetings, total, nil
}

func (r *GormMeetingRepository) HasOwnedMeetings(ctx context.Context, companyID, creatorID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Meeting{}).
		Scopes(database.ForCompany(companyID)).
		Where("meetings.creator_id = ?", creatorID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormMeetingRepository) AddParticipant(ctx context.Context, meetingID, userID uint64) (bool, error) {
	participant := models.MeetingParticipant{
		MeetingID: meetingID,
		UserID:    userID,
		Response:  models.ParticipantPending,
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&participant)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormMeetingRepository) FindParticipant(ctx context.Context, meetingID, userID uint64) (*models.MeetingParticipant, error) {
	var participant models.MeetingParticipant
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *GormMeetingRepository) SetParticipantResponse(ctx context.Context, meetingID, userID uint64, response models.ParticipantResponse, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.MeetingParticipant{}).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		Updates(map[string]interface{}{
			"response":     response,
			"responded_at": at,
		}).Error
}
