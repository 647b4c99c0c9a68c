package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/communityarts/raffle-service/internal/models"
	"github.com/communityarts/raffle-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type mockRaffleService struct {
	submitTicketsFn func(ctx context.Context, raffleID uint, accountID string, distribution map[uint]int) (*service.AssignmentResult, error)
	rosterFn        func(ctx context.Context, raffleID uint, accountID string) (*service.RosterView, error)
	recordWinnerFn  func(ctx context.Context, raffleID, artistID, ticketID uint) error
}

func (m *mockRaffleService) CreateRaffle(ctx context.Context, raffle *models.Raffle) error {
	raffle.ID = 1
	return nil
}
func (m *mockRaffleService) GetRaffle(ctx context.Context, id uint) (*models.Raffle, error) {
	return nil, service.ErrRaffleNotFound
}
func (m *mockRaffleService) ListRaffles(ctx context.Context) ([]models.Raffle, error) {
	return nil, nil
}
func (m *mockRaffleService) UpdateStatus(ctx context.Context, id uint, status models.RaffleStatus) error {
	return nil
}
func (m *mockRaffleService) AddArtist(ctx context.Context, raffleID, artistID uint) (*models.RaffleArtist, error) {
	return &models.RaffleArtist{RaffleID: raffleID, ArtistID: artistID}, nil
}
func (m *mockRaffleService) Roster(ctx context.Context, raffleID uint, accountID string) (*service.RosterView, error) {
	if m.rosterFn != nil {
		return m.rosterFn(ctx, raffleID, accountID)
	}
	return nil, service.ErrRaffleNotFound
}
func (m *mockRaffleService) SubmitTickets(ctx context.Context, raffleID uint, accountID string, distribution map[uint]int) (*service.AssignmentResult, error) {
	return m.submitTicketsFn(ctx, raffleID, accountID, distribution)
}
func (m *mockRaffleService) RecordWinner(ctx context.Context, raffleID, artistID, ticketID uint) error {
	if m.recordWinnerFn != nil {
		return m.recordWinnerFn(ctx, raffleID, artistID, ticketID)
	}
	return nil
}
func (m *mockRaffleService) WinnerReport(ctx context.Context, raffleID uint) ([]service.WinnerEntry, error) {
	return nil, nil
}

func submitRequest(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/raffles/1/submit-tickets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/raffles/:id/submit-tickets")
	c.SetParamNames("id")
	c.SetParamValues("1")
	return c, rec
}

func TestSubmitTickets_OK(t *testing.T) {
	svc := &mockRaffleService{
		submitTicketsFn: func(ctx context.Context, raffleID uint, accountID string, distribution map[uint]int) (*service.AssignmentResult, error) {
			assert.Equal(t, uint(1), raffleID)
			assert.Equal(t, "acct-1", accountID)
			assert.Equal(t, map[uint]int{10: 3, 11: 2}, distribution)
			return &service.AssignmentResult{Assigned: 5, PoolRemaining: 0}, nil
		},
	}
	h := NewRaffleHandler(svc)

	c, rec := submitRequest(`{"account_id":"acct-1","distribution":{"10":3,"11":2}}`)
	err := h.SubmitTickets(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"assigned":5`)
	assert.Contains(t, rec.Body.String(), `"pool_remaining":0`)
}

func TestSubmitTickets_MissingAccount(t *testing.T) {
	h := NewRaffleHandler(&mockRaffleService{})

	c, _ := submitRequest(`{"distribution":{"10":1}}`)
	err := h.SubmitTickets(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestSubmitTickets_InsufficientIsConflict(t *testing.T) {
	svc := &mockRaffleService{
		submitTicketsFn: func(ctx context.Context, raffleID uint, accountID string, distribution map[uint]int) (*service.AssignmentResult, error) {
			return nil, service.ErrInsufficientTickets
		},
	}
	h := NewRaffleHandler(svc)

	c, _ := submitRequest(`{"account_id":"acct-1","distribution":{"10":9}}`)
	err := h.SubmitTickets(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestSubmitTickets_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		svcErr   error
		wantCode int
	}{
		{"raffle not found", service.ErrRaffleNotFound, http.StatusNotFound},
		{"raffle not active", service.ErrRaffleNotActive, http.StatusBadRequest},
		{"artist not in raffle", service.ErrArtistNotInRaffle, http.StatusBadRequest},
		{"negative count", service.ErrInvalidDistribution, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockRaffleService{
				submitTicketsFn: func(ctx context.Context, raffleID uint, accountID string, distribution map[uint]int) (*service.AssignmentResult, error) {
					return nil, tc.svcErr
				},
			}
			h := NewRaffleHandler(svc)

			c, _ := submitRequest(`{"account_id":"acct-1","distribution":{"10":1}}`)
			err := h.SubmitTickets(c)

			httpErr, ok := err.(*echo.HTTPError)
			assert.True(t, ok)
			assert.Equal(t, tc.wantCode, httpErr.Code)
		})
	}
}

func TestGetRaffle_RosterPayload(t *testing.T) {
	svc := &mockRaffleService{
		rosterFn: func(ctx context.Context, raffleID uint, accountID string) (*service.RosterView, error) {
			assert.Equal(t, "acct-1", accountID)
			return &service.RosterView{
				Raffle: &models.Raffle{ID: raffleID, Name: "Spring Fundraiser", Status: models.RaffleActive},
				Artists: []service.ArtistStanding{
					{Artist: models.Artist{ID: 10, Name: "Mural Collective"}, TotalTickets: 7, UserTickets: 3},
				},
				PoolCount: 2,
			}, nil
		},
	}
	h := NewRaffleHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/raffles/1?account_id=acct-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/raffles/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.GetRaffle(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mural Collective")
	assert.Contains(t, rec.Body.String(), `"pool_count":2`)
}

func TestGetRaffle_NotFound(t *testing.T) {
	h := NewRaffleHandler(&mockRaffleService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/raffles/999", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/raffles/:id")
	c.SetParamNames("id")
	c.SetParamValues("999")

	err := h.GetRaffle(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestRecordWinner_InvalidTicket(t *testing.T) {
	svc := &mockRaffleService{
		recordWinnerFn: func(ctx context.Context, raffleID, artistID, ticketID uint) error {
			return service.ErrWinnerTicketInvalid
		},
	}
	h := NewRaffleHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/raffles/1/winners",
		strings.NewReader(`{"artist_id":10,"ticket_id":42}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/raffles/:id/winners")
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.RecordWinner(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCreateRaffle_Validation(t *testing.T) {
	h := NewRaffleHandler(&mockRaffleService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/raffles",
		strings.NewReader(`{"ticket_price":10}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateRaffle(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
