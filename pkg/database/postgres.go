package database

import (
	"log"
	"time"

	"github.com/communityarts/raffle-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := db.AutoMigrate(
		&models.Event{},
		&models.RSVP{},
		&models.Raffle{},
		&models.Artist{},
		&models.ArtistAlias{},
		&models.RaffleArtist{},
		&models.Ticket{},
		&models.Participant{},
		&models.PaymentSession{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial unique index: ticket numbers are unique per raffle; pool
	// tickets (raffle_id NULL) stay outside the constraint
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_ticket_number_per_raffle
		ON tickets (raffle_id, ticket_number)
		WHERE raffle_id IS NOT NULL
	`)

	// Partial unique index: one active RSVP per account per event
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_rsvp_active
		ON rsvps (event_id, account_id)
		WHERE status <> 'cancelled'
	`)

	return db
}
