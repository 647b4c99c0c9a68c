package dto

import "time"

type CreateEventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	Capacity    int       `json:"capacity"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
}

type CreateRSVPRequest struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

type CreateRaffleRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	TicketPrice float64    `json:"ticket_price"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       *time.Time `json:"end_at,omitempty"`
}

type UpdateRaffleStatusRequest struct {
	Status string `json:"status"`
}

type AddRaffleArtistRequest struct {
	ArtistID uint `json:"artist_id"`
}

// SubmitTicketsRequest carries the desired distribution of the account's
// unassigned pool tickets across roster artists.
type SubmitTicketsRequest struct {
	AccountID    string       `json:"account_id"`
	Distribution map[uint]int `json:"distribution"`
}

type RecordWinnerRequest struct {
	ArtistID uint `json:"artist_id"`
	TicketID uint `json:"ticket_id"`
}

type CreateSessionRequest struct {
	AccountID string `json:"account_id"`
	Quantity  int    `json:"quantity"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Instagram string `json:"instagram"`
	ReturnURL string `json:"return_url"`
}

type VerifyPaymentRequest struct {
	SessionID string `json:"session_id"`
}

type CreateArtistRequest struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	ImageURL string `json:"image_url"`
}

type CreateAliasRequest struct {
	Alias string `json:"alias"`
}
