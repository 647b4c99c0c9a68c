package models

import "time"

type RSVPStatus string

const (
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPCancelled RSVPStatus = "cancelled"
)

type RSVP struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	EventID   uint       `gorm:"not null" json:"event_id"`
	AccountID string     `gorm:"not null" json:"account_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Status    RSVPStatus `gorm:"type:varchar(20);not null;default:'confirmed'" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}
