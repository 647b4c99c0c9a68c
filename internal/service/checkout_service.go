package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/communityarts/raffle-service/internal/models"
	"github.com/communityarts/raffle-service/internal/repository"
	"github.com/communityarts/raffle-service/internal/sessioncache"
	"github.com/communityarts/raffle-service/pkg/payments"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidQuantity  = errors.New("quantity is out of range")
	ErrSessionNotFound  = errors.New("payment session not found")
	ErrSessionExpired   = errors.New("payment session has expired")
	ErrSessionCancelled = errors.New("payment session was cancelled")
	ErrPaymentProvider  = errors.New("payment provider request failed")
	ErrInvalidWebhook   = errors.New("webhook verification failed")
	ErrUnknownPayStatus = errors.New("unknown payment status")
	ErrMissingAccountID = errors.New("account_id is required")
)

// ContactInfo is the participant contact captured at checkout.
type ContactInfo struct {
	Name      string
	Email     string
	Phone     string
	Instagram string
}

// CheckoutResult is a created session plus the hosted pay URL.
type CheckoutResult struct {
	Session *models.PaymentSession
	PayURL  string
}

type CheckoutService interface {
	CreateSession(ctx context.Context, accountID string, quantity int, contact ContactInfo, returnURL string) (*CheckoutResult, error)
	CompleteSession(ctx context.Context, sessionID string) ([]models.Ticket, error)
	HandleWebhook(ctx context.Context, body []byte, headers map[string]string) ([]models.Ticket, error)
}

type checkoutService struct {
	sessionRepo     repository.PaymentSessionRepository
	ticketRepo      repository.TicketRepository
	participantRepo repository.ParticipantRepository
	provider        payments.Provider
	cache           *sessioncache.Cache

	ticketPrice float64
	maxPerOrder int
	sessionTTL  time.Duration
}

func NewCheckoutService(
	sessionRepo repository.PaymentSessionRepository,
	ticketRepo repository.TicketRepository,
	participantRepo repository.ParticipantRepository,
	provider payments.Provider,
	cache *sessioncache.Cache,
	ticketPrice float64,
	maxPerOrder int,
	sessionTTL time.Duration,
) CheckoutService {
	return &checkoutService{
		sessionRepo:     sessionRepo,
		ticketRepo:      ticketRepo,
		participantRepo: participantRepo,
		provider:        provider,
		cache:           cache,
		ticketPrice:     ticketPrice,
		maxPerOrder:     maxPerOrder,
		sessionTTL:      sessionTTL,
	}
}

func (s *checkoutService) CreateSession(ctx context.Context, accountID string, quantity int, contact ContactInfo, returnURL string) (*CheckoutResult, error) {
	if accountID == "" {
		return nil, ErrMissingAccountID
	}
	if quantity < 1 || quantity > s.maxPerOrder {
		return nil, ErrInvalidQuantity
	}

	if contact != (ContactInfo{}) {
		participant := &models.Participant{
			AccountID: accountID,
			Name:      contact.Name,
			Email:     contact.Email,
			Phone:     contact.Phone,
			Instagram: contact.Instagram,
		}
		if err := s.participantRepo.Upsert(ctx, participant); err != nil {
			return nil, fmt.Errorf("upsert participant: %w", err)
		}
	}

	session := &models.PaymentSession{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Quantity:  quantity,
		Amount:    float64(quantity) * s.ticketPrice,
		Status:    models.SessionPending,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create payment session: %w", err)
	}

	payURL, invoice, err := s.provider.CreatePayment(ctx, session.ID, accountID, session.Amount, returnURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	session.Invoice = invoice
	if err := s.sessionRepo.SetInvoice(ctx, session.ID, invoice); err != nil {
		return nil, fmt.Errorf("store invoice: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, session, s.sessionTTL); err != nil {
			log.Printf("failed to cache payment session %s: %v", session.ID, err)
		}
	}

	return &CheckoutResult{Session: session, PayURL: payURL}, nil
}

// CompleteSession issues the session's tickets. The pending→paid flip is a
// conditional update inside the transaction, so a replayed confirmation
// (webhook retry, double verify, duplicated gateway event) returns the
// tickets issued the first time instead of minting more.
func (s *checkoutService) CompleteSession(ctx context.Context, sessionID string) ([]models.Ticket, error) {
	session, err := s.lookupSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case models.SessionCancelled:
		return nil, ErrSessionCancelled
	case models.SessionPending:
		if time.Now().After(session.ExpiresAt) {
			return nil, ErrSessionExpired
		}
	}

	var issued []models.Ticket
	err = s.sessionRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flipped, err := s.sessionRepo.MarkPaid(ctx, tx, session.ID)
		if err != nil {
			return err
		}
		if !flipped {
			// Already paid: idempotent replay, return the existing batch.
			return nil
		}

		tickets := make([]*models.Ticket, 0, session.Quantity)
		for i := 0; i < session.Quantity; i++ {
			tickets = append(tickets, &models.Ticket{
				AccountID:        session.AccountID,
				Status:           models.TicketActive,
				PaymentSessionID: session.ID,
			})
		}
		return s.ticketRepo.CreateBatch(ctx, tx, tickets)
	})
	if err != nil {
		return nil, err
	}

	issued, err = s.ticketRepo.FindBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, session.ID); err != nil {
			log.Printf("failed to evict payment session %s: %v", session.ID, err)
		}
	}

	return issued, nil
}

func (s *checkoutService) HandleWebhook(ctx context.Context, body []byte, headers map[string]string) ([]models.Ticket, error) {
	sessionID, status, err := s.provider.HandleWebhook(ctx, body, headers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}

	switch status {
	case payments.StatusPaid:
		return s.CompleteSession(ctx, sessionID)
	case payments.StatusCancelled:
		if err := s.sessionRepo.MarkCancelled(ctx, sessionID); err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Delete(ctx, sessionID); err != nil {
				log.Printf("failed to evict payment session %s: %v", sessionID, err)
			}
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPayStatus, status)
	}
}

// lookupSession tries the cache first and falls back to the database.
func (s *checkoutService) lookupSession(ctx context.Context, sessionID string) (*models.PaymentSession, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, sessionID)
		if err != nil {
			log.Printf("session cache lookup for %s failed, falling back to DB: %v", sessionID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}
