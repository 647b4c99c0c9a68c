package repository

import (
	"context"

	"github.com/communityarts/raffle-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ParticipantRepository interface {
	Upsert(ctx context.Context, participant *models.Participant) error
	FindByAccount(ctx context.Context, accountID string) (*models.Participant, error)
	FindByAccounts(ctx context.Context, accountIDs []string) ([]models.Participant, error)
}

type participantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

// Upsert inserts or refreshes contact details keyed on account_id.
func (r *participantRepository) Upsert(ctx context.Context, participant *models.Participant) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "phone", "instagram", "updated_at"}),
	}).Create(participant).Error
}

func (r *participantRepository) FindByAccount(ctx context.Context, accountID string) (*models.Participant, error) {
	var participant models.Participant
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) FindByAccounts(ctx context.Context, accountIDs []string) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.WithContext(ctx).
		Where("account_id IN ?", accountIDs).
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}
