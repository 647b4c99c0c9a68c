package models

import "time"

type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionPaid      SessionStatus = "paid"
	SessionCancelled SessionStatus = "cancelled"
)

// PaymentSession records a checkout session created with the payment
// provider. Its id is the idempotency key for ticket issuance: the
// pending→paid transition happens at most once, so webhook retries and
// double success-page verifies cannot mint duplicate tickets.
type PaymentSession struct {
	ID        string        `gorm:"primaryKey" json:"id"`
	AccountID string        `gorm:"not null;index" json:"account_id"`
	Quantity  int           `gorm:"not null" json:"quantity"`
	Amount    float64       `gorm:"not null" json:"amount"`
	Status    SessionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Invoice   string        `json:"invoice,omitempty"`
	ExpiresAt time.Time     `json:"expires_at"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
