package repository

import (
	"context"

	"github.com/communityarts/raffle-service/internal/models"
	"gorm.io/gorm"
)

type RSVPRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rsvp *models.RSVP) error
	FindByID(ctx context.Context, id uint) (*models.RSVP, error)
	FindByEventID(ctx context.Context, eventID uint, status *models.RSVPStatus) ([]models.RSVP, error)
	FindActiveByAccountAndEvent(ctx context.Context, tx *gorm.DB, accountID string, eventID uint) (*models.RSVP, error)
	CountConfirmed(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, rsvpID uint, status models.RSVPStatus) error
	GetDB() *gorm.DB
}

type rsvpRepository struct {
	db *gorm.DB
}

func NewRSVPRepository(db *gorm.DB) RSVPRepository {
	return &rsvpRepository{db: db}
}

func (r *rsvpRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *rsvpRepository) Create(ctx context.Context, tx *gorm.DB, rsvp *models.RSVP) error {
	return tx.WithContext(ctx).Create(rsvp).Error
}

func (r *rsvpRepository) FindByID(ctx context.Context, id uint) (*models.RSVP, error) {
	var rsvp models.RSVP
	if err := r.db.WithContext(ctx).First(&rsvp, id).Error; err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *rsvpRepository) FindByEventID(ctx context.Context, eventID uint, status *models.RSVPStatus) ([]models.RSVP, error) {
	var rsvps []models.RSVP
	q := r.db.WithContext(ctx).Where("event_id = ?", eventID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("id ASC").Find(&rsvps).Error; err != nil {
		return nil, err
	}
	return rsvps, nil
}

func (r *rsvpRepository) FindActiveByAccountAndEvent(ctx context.Context, tx *gorm.DB, accountID string, eventID uint) (*models.RSVP, error) {
	var rsvp models.RSVP
	err := tx.WithContext(ctx).
		Where("account_id = ? AND event_id = ? AND status <> ?", accountID, eventID, models.RSVPCancelled).
		First(&rsvp).Error
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *rsvpRepository) CountConfirmed(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.RSVP{}).
		Where("event_id = ? AND status = ?", eventID, models.RSVPConfirmed).
		Count(&count).Error
	return count, err
}

func (r *rsvpRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, rsvpID uint, status models.RSVPStatus) error {
	return tx.WithContext(ctx).
		Model(&models.RSVP{}).
		Where("id = ?", rsvpID).
		Update("status", status).Error
}
