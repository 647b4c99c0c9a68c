package models

import "time"

// Participant holds contact details for a ticket-owning account, captured
// at checkout time. AccountID may belong to an authenticated profile or an
// anonymous claim; either way it is the join key from tickets.
type Participant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID string    `gorm:"not null;uniqueIndex" json:"account_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Instagram string    `json:"instagram"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
