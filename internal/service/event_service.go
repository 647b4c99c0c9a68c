package service

import (
	"context"
	"errors"
	"time"

	"github.com/communityarts/raffle-service/internal/models"
	"github.com/communityarts/raffle-service/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrEventFull     = errors.New("event is at capacity")
	ErrEventOver     = errors.New("event has already ended")
	ErrAlreadyRSVPed = errors.New("account already has an active rsvp for this event")
	ErrRSVPNotFound  = errors.New("rsvp not found")
	ErrRSVPCancelled = errors.New("rsvp is already cancelled")
)

type EventService interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	CreateRSVP(ctx context.Context, eventID uint, accountID, name, email string) (*models.RSVP, error)
	CancelRSVP(ctx context.Context, rsvpID uint) (*models.RSVP, error)
	ListRSVPs(ctx context.Context, eventID uint, status *models.RSVPStatus) ([]models.RSVP, error)
}

type eventService struct {
	eventRepo repository.EventRepository
	rsvpRepo  repository.RSVPRepository
}

func NewEventService(eventRepo repository.EventRepository, rsvpRepo repository.RSVPRepository) EventService {
	return &eventService{eventRepo: eventRepo, rsvpRepo: rsvpRepo}
}

func (s *eventService) CreateEvent(ctx context.Context, event *models.Event) error {
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.eventRepo.FindAll(ctx)
}

func (s *eventService) CreateRSVP(ctx context.Context, eventID uint, accountID, name, email string) (*models.RSVP, error) {
	var result *models.RSVP

	err := s.rsvpRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the event row — serializes concurrent RSVPs against capacity
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return ErrEventNotFound
		}

		if time.Now().After(event.EndAt) {
			return ErrEventOver
		}

		_, err = s.rsvpRepo.FindActiveByAccountAndEvent(ctx, tx, accountID, eventID)
		if err == nil {
			return ErrAlreadyRSVPed
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		confirmed, err := s.rsvpRepo.CountConfirmed(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if event.Capacity > 0 && int(confirmed) >= event.Capacity {
			return ErrEventFull
		}

		rsvp := &models.RSVP{
			EventID:   eventID,
			AccountID: accountID,
			Name:      name,
			Email:     email,
			Status:    models.RSVPConfirmed,
		}
		if err := s.rsvpRepo.Create(ctx, tx, rsvp); err != nil {
			return err
		}
		result = rsvp
		return nil
	})

	return result, err
}

func (s *eventService) CancelRSVP(ctx context.Context, rsvpID uint) (*models.RSVP, error) {
	rsvp, err := s.rsvpRepo.FindByID(ctx, rsvpID)
	if err != nil {
		return nil, ErrRSVPNotFound
	}
	if rsvp.Status == models.RSVPCancelled {
		return nil, ErrRSVPCancelled
	}

	if err := s.rsvpRepo.UpdateStatus(ctx, s.rsvpRepo.GetDB(), rsvpID, models.RSVPCancelled); err != nil {
		return nil, err
	}
	rsvp.Status = models.RSVPCancelled
	return rsvp, nil
}

func (s *eventService) ListRSVPs(ctx context.Context, eventID uint, status *models.RSVPStatus) ([]models.RSVP, error) {
	return s.rsvpRepo.FindByEventID(ctx, eventID, status)
}
