package models

import "time"

type Artist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Bio       string    `json:"bio"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ArtistAlias maps an externally sourced free-text name to an artist.
// Curated by administrators; lookups are exact after case folding.
type ArtistAlias struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArtistID  uint      `gorm:"not null;index" json:"artist_id"`
	Alias     string    `gorm:"not null;uniqueIndex" json:"alias"`
	CreatedAt time.Time `json:"created_at"`
}
