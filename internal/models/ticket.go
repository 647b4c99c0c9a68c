package models

import "time"

type TicketStatus string

const (
	TicketActive    TicketStatus = "active"
	TicketUsed      TicketStatus = "used"
	TicketCancelled TicketStatus = "cancelled"
)

// Ticket starts life unassigned: minted at payment confirmation with no
// raffle and no artist. The assignment reconciler later sets both at once.
// An assigned ticket always has both raffle_id and artist_id; tickets are
// never hard-deleted, only cancelled via status.
type Ticket struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	AccountID    string       `gorm:"not null;index" json:"account_id"`
	RaffleID     *uint        `gorm:"index" json:"raffle_id,omitempty"`
	ArtistID     *uint        `gorm:"index" json:"artist_id,omitempty"`
	TicketNumber *int         `json:"ticket_number,omitempty"`
	Status       TicketStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	// Payment session that minted this ticket; issuance idempotency key.
	PaymentSessionID string `gorm:"index" json:"payment_session_id,omitempty"`

	PurchasedAt *time.Time `json:"purchased_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
