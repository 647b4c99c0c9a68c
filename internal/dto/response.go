package dto

import (
	"time"

	"github.com/communityarts/raffle-service/internal/models"
	"github.com/communityarts/raffle-service/internal/service"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type EventResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	Capacity    int       `json:"capacity"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToEventResponse(e *models.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Venue:       e.Venue,
		Capacity:    e.Capacity,
		StartAt:     e.StartAt,
		EndAt:       e.EndAt,
		CreatedAt:   e.CreatedAt,
	}
}

type RSVPResponse struct {
	ID        uint              `json:"id"`
	EventID   uint              `json:"event_id"`
	AccountID string            `json:"account_id"`
	Name      string            `json:"name,omitempty"`
	Status    models.RSVPStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

func ToRSVPResponse(r *models.RSVP) RSVPResponse {
	return RSVPResponse{
		ID:        r.ID,
		EventID:   r.EventID,
		AccountID: r.AccountID,
		Name:      r.Name,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

type RaffleResponse struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	TicketPrice float64             `json:"ticket_price"`
	Status      models.RaffleStatus `json:"status"`
	StartAt     time.Time           `json:"start_at"`
	EndAt       *time.Time          `json:"end_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func ToRaffleResponse(r *models.Raffle) RaffleResponse {
	return RaffleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		TicketPrice: r.TicketPrice,
		Status:      r.Status,
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		CreatedAt:   r.CreatedAt,
	}
}

type ArtistResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Bio      string `json:"bio,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

func ToArtistResponse(a *models.Artist) ArtistResponse {
	return ArtistResponse{ID: a.ID, Name: a.Name, Bio: a.Bio, ImageURL: a.ImageURL}
}

type ArtistStandingResponse struct {
	Artist       ArtistResponse `json:"artist"`
	TotalTickets int64          `json:"total_tickets"`
	UserTickets  int64          `json:"user_tickets"`
}

type RosterResponse struct {
	Raffle    RaffleResponse           `json:"raffle"`
	Artists   []ArtistStandingResponse `json:"artists"`
	PoolCount int                      `json:"pool_count"`
}

func ToRosterResponse(v *service.RosterView) RosterResponse {
	artists := make([]ArtistStandingResponse, len(v.Artists))
	for i, st := range v.Artists {
		artists[i] = ArtistStandingResponse{
			Artist:       ToArtistResponse(&st.Artist),
			TotalTickets: st.TotalTickets,
			UserTickets:  st.UserTickets,
		}
	}
	return RosterResponse{
		Raffle:    ToRaffleResponse(v.Raffle),
		Artists:   artists,
		PoolCount: v.PoolCount,
	}
}

type AssignmentResponse struct {
	Assigned      int `json:"assigned"`
	PoolRemaining int `json:"pool_remaining"`
}

type TicketResponse struct {
	ID           uint                `json:"id"`
	AccountID    string              `json:"account_id"`
	RaffleID     *uint               `json:"raffle_id,omitempty"`
	ArtistID     *uint               `json:"artist_id,omitempty"`
	TicketNumber *int                `json:"ticket_number,omitempty"`
	Status       models.TicketStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
}

func ToTicketResponse(t *models.Ticket) TicketResponse {
	return TicketResponse{
		ID:           t.ID,
		AccountID:    t.AccountID,
		RaffleID:     t.RaffleID,
		ArtistID:     t.ArtistID,
		TicketNumber: t.TicketNumber,
		Status:       t.Status,
		CreatedAt:    t.CreatedAt,
	}
}

func ToTicketResponses(tickets []models.Ticket) []TicketResponse {
	resp := make([]TicketResponse, len(tickets))
	for i, t := range tickets {
		resp[i] = ToTicketResponse(&t)
	}
	return resp
}

type SessionResponse struct {
	SessionID string    `json:"session_id"`
	PayURL    string    `json:"pay_url"`
	Quantity  int       `json:"quantity"`
	Amount    float64   `json:"amount"`
	ExpiresAt time.Time `json:"expires_at"`
}

type WinnerResponse struct {
	ArtistID     uint   `json:"artist_id"`
	ArtistName   string `json:"artist_name"`
	TicketID     uint   `json:"ticket_id"`
	TicketNumber int    `json:"ticket_number"`
	AccountID    string `json:"account_id"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Instagram    string `json:"instagram,omitempty"`
}

func ToWinnerResponse(w *service.WinnerEntry) WinnerResponse {
	return WinnerResponse{
		ArtistID:     w.ArtistID,
		ArtistName:   w.ArtistName,
		TicketID:     w.TicketID,
		TicketNumber: w.TicketNumber,
		AccountID:    w.AccountID,
		Name:         w.Name,
		Email:        w.Email,
		Phone:        w.Phone,
		Instagram:    w.Instagram,
	}
}
