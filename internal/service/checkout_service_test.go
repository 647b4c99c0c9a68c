package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/communityarts/raffle-service/internal/models"
	"github.com/communityarts/raffle-service/pkg/payments"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// --- Mock PaymentSessionRepository ---

type mockSessionRepo struct {
	createFn        func(ctx context.Context, session *models.PaymentSession) error
	setInvoiceFn    func(ctx context.Context, id, invoice string) error
	markCancelledFn func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.PaymentSession) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}
func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*models.PaymentSession, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockSessionRepo) SetInvoice(ctx context.Context, id, invoice string) error {
	if m.setInvoiceFn != nil {
		return m.setInvoiceFn(ctx, id, invoice)
	}
	return nil
}
func (m *mockSessionRepo) MarkPaid(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	return false, nil
}
func (m *mockSessionRepo) MarkCancelled(ctx context.Context, id string) error {
	if m.markCancelledFn != nil {
		return m.markCancelledFn(ctx, id)
	}
	return nil
}
func (m *mockSessionRepo) GetDB() *gorm.DB { return nil }

// --- Mock payment provider ---

type mockProvider struct {
	createPaymentFn func(ctx context.Context, sessionID, accountID string, amount float64, returnURL string) (string, string, error)
	handleWebhookFn func(ctx context.Context, body []byte, headers map[string]string) (string, string, error)
}

func (m *mockProvider) Name() string { return "mock" }
func (m *mockProvider) CreatePayment(ctx context.Context, sessionID, accountID string, amount float64, returnURL string) (string, string, error) {
	if m.createPaymentFn != nil {
		return m.createPaymentFn(ctx, sessionID, accountID, amount, returnURL)
	}
	return "https://pay.example.com/inv-1", "inv-1", nil
}
func (m *mockProvider) HandleWebhook(ctx context.Context, body []byte, headers map[string]string) (string, string, error) {
	if m.handleWebhookFn != nil {
		return m.handleWebhookFn(ctx, body, headers)
	}
	return "", "", errors.New("not implemented")
}

func newCheckoutForTest(sessionRepo *mockSessionRepo, participantRepo *mockParticipantRepo, provider *mockProvider) CheckoutService {
	return NewCheckoutService(sessionRepo, &mockTicketRepo{}, participantRepo, provider, nil, 10, 50, time.Hour)
}

func TestCreateSession_OK(t *testing.T) {
	var created *models.PaymentSession
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *models.PaymentSession) error {
			created = session
			return nil
		},
	}
	svc := newCheckoutForTest(sessionRepo, &mockParticipantRepo{}, &mockProvider{})

	result, err := svc.CreateSession(context.Background(), "acct-1", 5, ContactInfo{}, "https://shop.example.com/return")

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "acct-1", created.AccountID)
	assert.Equal(t, 5, created.Quantity)
	assert.Equal(t, 50.0, created.Amount)
	assert.Equal(t, models.SessionPending, created.Status)
	assert.Equal(t, "https://pay.example.com/inv-1", result.PayURL)
	assert.Equal(t, "inv-1", result.Session.Invoice)
}

func TestCreateSession_MissingAccount(t *testing.T) {
	svc := newCheckoutForTest(&mockSessionRepo{}, &mockParticipantRepo{}, &mockProvider{})

	_, err := svc.CreateSession(context.Background(), "", 1, ContactInfo{}, "")

	assert.ErrorIs(t, err, ErrMissingAccountID)
}

func TestCreateSession_QuantityOutOfRange(t *testing.T) {
	svc := newCheckoutForTest(&mockSessionRepo{}, &mockParticipantRepo{}, &mockProvider{})

	_, err := svc.CreateSession(context.Background(), "acct-1", 0, ContactInfo{}, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.CreateSession(context.Background(), "acct-1", 51, ContactInfo{}, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCreateSession_ProviderFailure(t *testing.T) {
	provider := &mockProvider{
		createPaymentFn: func(ctx context.Context, sessionID, accountID string, amount float64, returnURL string) (string, string, error) {
			return "", "", errors.New("gateway timeout")
		},
	}
	svc := newCheckoutForTest(&mockSessionRepo{}, &mockParticipantRepo{}, provider)

	_, err := svc.CreateSession(context.Background(), "acct-1", 2, ContactInfo{}, "")

	assert.ErrorIs(t, err, ErrPaymentProvider)
}

func TestCreateSession_ContactUpserted(t *testing.T) {
	participantRepo := &mockParticipantRepo{}
	upserted := 0
	participantRepo.upsertFn = func(ctx context.Context, p *models.Participant) error {
		upserted++
		assert.Equal(t, "acct-1", p.AccountID)
		assert.Equal(t, "Sam Ortiz", p.Name)
		return nil
	}
	svc := newCheckoutForTest(&mockSessionRepo{}, participantRepo, &mockProvider{})

	_, err := svc.CreateSession(context.Background(), "acct-1", 1, ContactInfo{Name: "Sam Ortiz", Email: "sam@example.com"}, "")

	assert.NoError(t, err)
	assert.Equal(t, 1, upserted)
}

func TestCreateSession_EmptyContactSkipsUpsert(t *testing.T) {
	participantRepo := &mockParticipantRepo{}
	participantRepo.upsertFn = func(ctx context.Context, p *models.Participant) error {
		t.Fatal("empty contact should not be upserted")
		return nil
	}
	svc := newCheckoutForTest(&mockSessionRepo{}, participantRepo, &mockProvider{})

	_, err := svc.CreateSession(context.Background(), "acct-1", 1, ContactInfo{}, "")

	assert.NoError(t, err)
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	provider := &mockProvider{
		handleWebhookFn: func(ctx context.Context, body []byte, headers map[string]string) (string, string, error) {
			return "", "", errors.New("signature mismatch")
		},
	}
	svc := newCheckoutForTest(&mockSessionRepo{}, &mockParticipantRepo{}, provider)

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), nil)

	assert.ErrorIs(t, err, ErrInvalidWebhook)
}

func TestHandleWebhook_CancelledMarksSession(t *testing.T) {
	cancelled := ""
	sessionRepo := &mockSessionRepo{
		markCancelledFn: func(ctx context.Context, id string) error {
			cancelled = id
			return nil
		},
	}
	provider := &mockProvider{
		handleWebhookFn: func(ctx context.Context, body []byte, headers map[string]string) (string, string, error) {
			return "sess-1", payments.StatusCancelled, nil
		},
	}
	svc := newCheckoutForTest(sessionRepo, &mockParticipantRepo{}, provider)

	tickets, err := svc.HandleWebhook(context.Background(), []byte(`{}`), nil)

	assert.NoError(t, err)
	assert.Nil(t, tickets)
	assert.Equal(t, "sess-1", cancelled)
}

func TestHandleWebhook_UnknownStatus(t *testing.T) {
	provider := &mockProvider{
		handleWebhookFn: func(ctx context.Context, body []byte, headers map[string]string) (string, string, error) {
			return "sess-1", "refunded", nil
		},
	}
	svc := newCheckoutForTest(&mockSessionRepo{}, &mockParticipantRepo{}, provider)

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), nil)

	assert.ErrorIs(t, err, ErrUnknownPayStatus)
}
