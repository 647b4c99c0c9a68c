package models

import "time"

type RaffleStatus string

const (
	RaffleDraft     RaffleStatus = "draft"
	RaffleActive    RaffleStatus = "active"
	RaffleEnded     RaffleStatus = "ended"
	RaffleCancelled RaffleStatus = "cancelled"
)

type Raffle struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"not null" json:"name"`
	Description string       `json:"description"`
	TicketPrice float64      `gorm:"not null" json:"ticket_price"`
	Status      RaffleStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	StartAt     time.Time    `json:"start_at"`
	EndAt       *time.Time   `json:"end_at,omitempty"`

	// Next sequential ticket number for this raffle. Read and advanced
	// only under the raffle row lock taken by the assignment transaction.
	NextTicketNumber int `gorm:"not null;default:1" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RaffleArtist attaches an artist to a raffle's roster. The winning ticket,
// drawn outside the system, is recorded here by an administrator.
type RaffleArtist struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RaffleID       uint      `gorm:"not null;uniqueIndex:idx_raffle_artist" json:"raffle_id"`
	ArtistID       uint      `gorm:"not null;uniqueIndex:idx_raffle_artist" json:"artist_id"`
	WinnerTicketID *uint     `json:"winner_ticket_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	Artist *Artist `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
}
