package repository

import (
	"context"

	"github.com/communityarts/raffle-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RaffleRepository interface {
	Create(ctx context.Context, raffle *models.Raffle) error
	FindByID(ctx context.Context, id uint) (*models.Raffle, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Raffle, error)
	FindAll(ctx context.Context) ([]models.Raffle, error)
	UpdateStatus(ctx context.Context, id uint, status models.RaffleStatus) error
	UpdateNextTicketNumber(ctx context.Context, tx *gorm.DB, id uint, next int) error

	AddArtist(ctx context.Context, raffleID, artistID uint) (*models.RaffleArtist, error)
	Roster(ctx context.Context, raffleID uint) ([]models.RaffleArtist, error)
	RosterArtistIDs(ctx context.Context, tx *gorm.DB, raffleID uint) ([]uint, error)
	FindRosterEntry(ctx context.Context, tx *gorm.DB, raffleID, artistID uint) (*models.RaffleArtist, error)
	SetWinner(ctx context.Context, tx *gorm.DB, rosterEntryID, ticketID uint) error
}

type raffleRepository struct {
	db *gorm.DB
}

func NewRaffleRepository(db *gorm.DB) RaffleRepository {
	return &raffleRepository{db: db}
}

func (r *raffleRepository) Create(ctx context.Context, raffle *models.Raffle) error {
	return r.db.WithContext(ctx).Create(raffle).Error
}

func (r *raffleRepository) FindByID(ctx context.Context, id uint) (*models.Raffle, error) {
	var raffle models.Raffle
	if err := r.db.WithContext(ctx).First(&raffle, id).Error; err != nil {
		return nil, err
	}
	return &raffle, nil
}

// FindByIDForUpdate locks the raffle row. The assignment transaction holds
// this lock while reading and advancing the ticket-number counter.
func (r *raffleRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Raffle, error) {
	var raffle models.Raffle
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&raffle, id).Error
	if err != nil {
		return nil, err
	}
	return &raffle, nil
}

func (r *raffleRepository) FindAll(ctx context.Context) ([]models.Raffle, error) {
	var raffles []models.Raffle
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&raffles).Error; err != nil {
		return nil, err
	}
	return raffles, nil
}

func (r *raffleRepository) UpdateStatus(ctx context.Context, id uint, status models.RaffleStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Raffle{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *raffleRepository) UpdateNextTicketNumber(ctx context.Context, tx *gorm.DB, id uint, next int) error {
	return tx.WithContext(ctx).
		Model(&models.Raffle{}).
		Where("id = ?", id).
		Update("next_ticket_number", next).Error
}

func (r *raffleRepository) AddArtist(ctx context.Context, raffleID, artistID uint) (*models.RaffleArtist, error) {
	entry := &models.RaffleArtist{RaffleID: raffleID, ArtistID: artistID}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *raffleRepository) Roster(ctx context.Context, raffleID uint) ([]models.RaffleArtist, error) {
	var entries []models.RaffleArtist
	err := r.db.WithContext(ctx).
		Preload("Artist").
		Where("raffle_id = ?", raffleID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *raffleRepository) RosterArtistIDs(ctx context.Context, tx *gorm.DB, raffleID uint) ([]uint, error) {
	var ids []uint
	err := tx.WithContext(ctx).
		Model(&models.RaffleArtist{}).
		Where("raffle_id = ?", raffleID).
		Pluck("artist_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *raffleRepository) FindRosterEntry(ctx context.Context, tx *gorm.DB, raffleID, artistID uint) (*models.RaffleArtist, error) {
	var entry models.RaffleArtist
	err := tx.WithContext(ctx).
		Where("raffle_id = ? AND artist_id = ?", raffleID, artistID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *raffleRepository) SetWinner(ctx context.Context, tx *gorm.DB, rosterEntryID, ticketID uint) error {
	return tx.WithContext(ctx).
		Model(&models.RaffleArtist{}).
		Where("id = ?", rosterEntryID).
		Update("winner_ticket_id", ticketID).Error
}
