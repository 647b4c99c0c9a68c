package repository

import (
	"context"
	"time"

	"github.com/communityarts/raffle-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArtistTicketCount is a grouped aggregation row: tickets per artist
// within a raffle.
type ArtistTicketCount struct {
	ArtistID uint
	Count    int64
}

type TicketRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, tickets []*models.Ticket) error
	FindByID(ctx context.Context, id uint) (*models.Ticket, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Ticket, error)
	FindByAccount(ctx context.Context, accountID string) ([]models.Ticket, error)
	FindBySession(ctx context.Context, sessionID string) ([]models.Ticket, error)
	FindUnassignedByAccount(ctx context.Context, accountID string) ([]models.Ticket, error)
	FindUnassignedByAccountForUpdate(ctx context.Context, tx *gorm.DB, accountID string) ([]models.Ticket, error)
	Claim(ctx context.Context, tx *gorm.DB, ticketID, raffleID, artistID uint, number int, purchasedAt time.Time) (bool, error)
	CountByArtist(ctx context.Context, raffleID uint) ([]ArtistTicketCount, error)
	CountByArtistForAccount(ctx context.Context, raffleID uint, accountID string) ([]ArtistTicketCount, error)
	GetDB() *gorm.DB
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *ticketRepository) CreateBatch(ctx context.Context, tx *gorm.DB, tickets []*models.Ticket) error {
	return tx.WithContext(ctx).Create(tickets).Error
}

func (r *ticketRepository) FindByID(ctx context.Context, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).First(&ticket, id).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Ticket, error) {
	var tickets []models.Ticket
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *ticketRepository) FindByAccount(ctx context.Context, accountID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *ticketRepository) FindBySession(ctx context.Context, sessionID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.WithContext(ctx).
		Where("payment_session_id = ?", sessionID).
		Order("id ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *ticketRepository) FindUnassignedByAccount(ctx context.Context, accountID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND raffle_id IS NULL AND status = ?", accountID, models.TicketActive).
		Order("id ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// FindUnassignedByAccountForUpdate locks the account's pool rows so a
// concurrent assignment transaction blocks until this one commits.
func (r *ticketRepository) FindUnassignedByAccountForUpdate(ctx context.Context, tx *gorm.DB, accountID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ? AND raffle_id IS NULL AND status = ?", accountID, models.TicketActive).
		Order("id ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// Claim conditionally assigns a pool ticket to an artist. The WHERE clause
// only matches while the ticket is still unassigned, so a ticket taken by
// a concurrent transaction reports a lost claim instead of double-spending.
func (r *ticketRepository) Claim(ctx context.Context, tx *gorm.DB, ticketID, raffleID, artistID uint, number int, purchasedAt time.Time) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND raffle_id IS NULL AND status = ?", ticketID, models.TicketActive).
		Updates(map[string]any{
			"raffle_id":     raffleID,
			"artist_id":     artistID,
			"ticket_number": number,
			"purchased_at":  gorm.Expr("COALESCE(purchased_at, ?)", purchasedAt),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ticketRepository) CountByArtist(ctx context.Context, raffleID uint) ([]ArtistTicketCount, error) {
	var counts []ArtistTicketCount
	err := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Select("artist_id, COUNT(*) AS count").
		Where("raffle_id = ? AND status = ?", raffleID, models.TicketActive).
		Group("artist_id").
		Scan(&counts).Error
	return counts, err
}

func (r *ticketRepository) CountByArtistForAccount(ctx context.Context, raffleID uint, accountID string) ([]ArtistTicketCount, error) {
	var counts []ArtistTicketCount
	err := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Select("artist_id, COUNT(*) AS count").
		Where("raffle_id = ? AND account_id = ? AND status = ?", raffleID, accountID, models.TicketActive).
		Group("artist_id").
		Scan(&counts).Error
	return counts, err
}
