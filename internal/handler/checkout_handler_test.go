package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/communityarts/raffle-service/internal/models"
	"github.com/communityarts/raffle-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type mockCheckoutService struct {
	createSessionFn   func(ctx context.Context, accountID string, quantity int, contact service.ContactInfo, returnURL string) (*service.CheckoutResult, error)
	completeSessionFn func(ctx context.Context, sessionID string) ([]models.Ticket, error)
	handleWebhookFn   func(ctx context.Context, body []byte, headers map[string]string) ([]models.Ticket, error)
}

func (m *mockCheckoutService) CreateSession(ctx context.Context, accountID string, quantity int, contact service.ContactInfo, returnURL string) (*service.CheckoutResult, error) {
	return m.createSessionFn(ctx, accountID, quantity, contact, returnURL)
}
func (m *mockCheckoutService) CompleteSession(ctx context.Context, sessionID string) ([]models.Ticket, error) {
	return m.completeSessionFn(ctx, sessionID)
}
func (m *mockCheckoutService) HandleWebhook(ctx context.Context, body []byte, headers map[string]string) ([]models.Ticket, error) {
	return m.handleWebhookFn(ctx, body, headers)
}

func TestCreateSessionHandler_OK(t *testing.T) {
	svc := &mockCheckoutService{
		createSessionFn: func(ctx context.Context, accountID string, quantity int, contact service.ContactInfo, returnURL string) (*service.CheckoutResult, error) {
			assert.Equal(t, "acct-1", accountID)
			assert.Equal(t, 5, quantity)
			assert.Equal(t, "Sam Ortiz", contact.Name)
			return &service.CheckoutResult{
				Session: &models.PaymentSession{
					ID:        "sess-1",
					AccountID: accountID,
					Quantity:  quantity,
					Amount:    50,
					Status:    models.SessionPending,
					ExpiresAt: time.Now().Add(time.Hour),
				},
				PayURL: "https://pay.example.com/inv-1",
			}, nil
		},
	}
	h := NewCheckoutHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/session",
		strings.NewReader(`{"account_id":"acct-1","quantity":5,"name":"Sam Ortiz"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateSession(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"session_id":"sess-1"`)
	assert.Contains(t, rec.Body.String(), "pay.example.com")
}

func TestCreateSessionHandler_InvalidQuantity(t *testing.T) {
	svc := &mockCheckoutService{
		createSessionFn: func(ctx context.Context, accountID string, quantity int, contact service.ContactInfo, returnURL string) (*service.CheckoutResult, error) {
			return nil, service.ErrInvalidQuantity
		},
	}
	h := NewCheckoutHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/session",
		strings.NewReader(`{"account_id":"acct-1","quantity":0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateSession(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCreateSessionHandler_ProviderDown(t *testing.T) {
	svc := &mockCheckoutService{
		createSessionFn: func(ctx context.Context, accountID string, quantity int, contact service.ContactInfo, returnURL string) (*service.CheckoutResult, error) {
			return nil, service.ErrPaymentProvider
		},
	}
	h := NewCheckoutHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/session",
		strings.NewReader(`{"account_id":"acct-1","quantity":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateSession(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, httpErr.Code)
}

func TestVerifyPayment_ReturnsTickets(t *testing.T) {
	svc := &mockCheckoutService{
		completeSessionFn: func(ctx context.Context, sessionID string) ([]models.Ticket, error) {
			assert.Equal(t, "sess-1", sessionID)
			return []models.Ticket{
				{ID: 1, AccountID: "acct-1", Status: models.TicketActive, PaymentSessionID: sessionID},
				{ID: 2, AccountID: "acct-1", Status: models.TicketActive, PaymentSessionID: sessionID},
			}, nil
		},
	}
	h := NewCheckoutHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/verify",
		strings.NewReader(`{"session_id":"sess-1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.VerifyPayment(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"account_id":"acct-1"`)
}

func TestVerifyPayment_MissingSession(t *testing.T) {
	h := NewCheckoutHandler(&mockCheckoutService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/verify", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.VerifyPayment(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestVerifyPayment_SessionNotFound(t *testing.T) {
	svc := &mockCheckoutService{
		completeSessionFn: func(ctx context.Context, sessionID string) ([]models.Ticket, error) {
			return nil, service.ErrSessionNotFound
		},
	}
	h := NewCheckoutHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/verify",
		strings.NewReader(`{"session_id":"missing"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.VerifyPayment(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestPaymentWebhook_LowercasesHeaders(t *testing.T) {
	svc := &mockCheckoutService{
		handleWebhookFn: func(ctx context.Context, body []byte, headers map[string]string) ([]models.Ticket, error) {
			assert.Equal(t, "abc123", headers["x-signature"])
			return []models.Ticket{{ID: 1}}, nil
		},
	}
	h := NewCheckoutHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment",
		strings.NewReader(`{"session_id":"sess-1","status":"paid"}`))
	req.Header.Set("X-Signature", "abc123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.PaymentWebhook(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tickets_issued":1`)
}

func TestPaymentWebhook_BadSignature(t *testing.T) {
	svc := &mockCheckoutService{
		handleWebhookFn: func(ctx context.Context, body []byte, headers map[string]string) ([]models.Ticket, error) {
			return nil, service.ErrInvalidWebhook
		},
	}
	h := NewCheckoutHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.PaymentWebhook(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
