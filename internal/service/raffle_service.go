package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/communityarts/raffle-service/internal/models"
	"github.com/communityarts/raffle-service/internal/repository"
	"github.com/communityarts/raffle-service/pkg/rabbitmq"
	"gorm.io/gorm"
)

var (
	ErrRaffleNotFound      = errors.New("raffle not found")
	ErrRaffleNotActive     = errors.New("raffle is not open for ticket assignment")
	ErrArtistNotInRaffle   = errors.New("artist is not part of this raffle")
	ErrInvalidDistribution = errors.New("ticket counts must not be negative")
	ErrInsufficientTickets = errors.New("not enough unassigned tickets, please retry")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrWinnerTicketInvalid = errors.New("ticket is not assigned to this artist in this raffle")
	ErrArtistNotFound      = errors.New("artist not found")
)

// ArtistStanding is one roster row: the artist plus the overall and
// per-caller assigned-ticket tallies, recomputed from ticket rows on every
// read.
type ArtistStanding struct {
	Artist       models.Artist
	TotalTickets int64
	UserTickets  int64
}

// RosterView is the raffle detail page payload: roster standings plus the
// caller's unassigned pool size.
type RosterView struct {
	Raffle    *models.Raffle
	Artists   []ArtistStanding
	PoolCount int
}

// AssignmentResult reports a completed distribution.
type AssignmentResult struct {
	Assigned      int
	PoolRemaining int
}

// WinnerEntry joins a recorded winning ticket to the owning participant's
// contact details for the notification pipeline.
type WinnerEntry struct {
	ArtistID     uint
	ArtistName   string
	TicketID     uint
	TicketNumber int
	AccountID    string
	Name         string
	Email        string
	Phone        string
	Instagram    string
}

type RaffleService interface {
	CreateRaffle(ctx context.Context, raffle *models.Raffle) error
	GetRaffle(ctx context.Context, id uint) (*models.Raffle, error)
	ListRaffles(ctx context.Context) ([]models.Raffle, error)
	UpdateStatus(ctx context.Context, id uint, status models.RaffleStatus) error
	AddArtist(ctx context.Context, raffleID, artistID uint) (*models.RaffleArtist, error)
	Roster(ctx context.Context, raffleID uint, accountID string) (*RosterView, error)
	SubmitTickets(ctx context.Context, raffleID uint, accountID string, distribution map[uint]int) (*AssignmentResult, error)
	RecordWinner(ctx context.Context, raffleID, artistID, ticketID uint) error
	WinnerReport(ctx context.Context, raffleID uint) ([]WinnerEntry, error)
}

type raffleService struct {
	raffleRepo      repository.RaffleRepository
	ticketRepo      repository.TicketRepository
	artistRepo      repository.ArtistRepository
	participantRepo repository.ParticipantRepository
	publisher       *rabbitmq.Publisher
}

func NewRaffleService(
	raffleRepo repository.RaffleRepository,
	ticketRepo repository.TicketRepository,
	artistRepo repository.ArtistRepository,
	participantRepo repository.ParticipantRepository,
	publisher *rabbitmq.Publisher,
) RaffleService {
	return &raffleService{
		raffleRepo:      raffleRepo,
		ticketRepo:      ticketRepo,
		artistRepo:      artistRepo,
		participantRepo: participantRepo,
		publisher:       publisher,
	}
}

func (s *raffleService) CreateRaffle(ctx context.Context, raffle *models.Raffle) error {
	if raffle.Status == "" {
		raffle.Status = models.RaffleDraft
	}
	return s.raffleRepo.Create(ctx, raffle)
}

func (s *raffleService) GetRaffle(ctx context.Context, id uint) (*models.Raffle, error) {
	raffle, err := s.raffleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRaffleNotFound
		}
		return nil, err
	}
	return raffle, nil
}

func (s *raffleService) ListRaffles(ctx context.Context) ([]models.Raffle, error) {
	return s.raffleRepo.FindAll(ctx)
}

func (s *raffleService) UpdateStatus(ctx context.Context, id uint, status models.RaffleStatus) error {
	if _, err := s.GetRaffle(ctx, id); err != nil {
		return err
	}
	return s.raffleRepo.UpdateStatus(ctx, id, status)
}

func (s *raffleService) AddArtist(ctx context.Context, raffleID, artistID uint) (*models.RaffleArtist, error) {
	if _, err := s.GetRaffle(ctx, raffleID); err != nil {
		return nil, err
	}
	if _, err := s.artistRepo.FindByID(ctx, artistID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	return s.raffleRepo.AddArtist(ctx, raffleID, artistID)
}

func (s *raffleService) Roster(ctx context.Context, raffleID uint, accountID string) (*RosterView, error) {
	raffle, err := s.GetRaffle(ctx, raffleID)
	if err != nil {
		return nil, err
	}

	entries, err := s.raffleRepo.Roster(ctx, raffleID)
	if err != nil {
		return nil, err
	}

	totals, err := s.ticketRepo.CountByArtist(ctx, raffleID)
	if err != nil {
		return nil, err
	}
	totalByArtist := make(map[uint]int64, len(totals))
	for _, c := range totals {
		totalByArtist[c.ArtistID] = c.Count
	}

	userByArtist := make(map[uint]int64)
	poolCount := 0
	if accountID != "" {
		userCounts, err := s.ticketRepo.CountByArtistForAccount(ctx, raffleID, accountID)
		if err != nil {
			return nil, err
		}
		for _, c := range userCounts {
			userByArtist[c.ArtistID] = c.Count
		}

		pool, err := s.ticketRepo.FindUnassignedByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		poolCount = len(pool)
	}

	standings := make([]ArtistStanding, 0, len(entries))
	for _, entry := range entries {
		standing := ArtistStanding{
			TotalTickets: totalByArtist[entry.ArtistID],
			UserTickets:  userByArtist[entry.ArtistID],
		}
		if entry.Artist != nil {
			standing.Artist = *entry.Artist
		} else {
			standing.Artist = models.Artist{ID: entry.ArtistID}
		}
		standings = append(standings, standing)
	}

	return &RosterView{Raffle: raffle, Artists: standings, PoolCount: poolCount}, nil
}

// validateDistribution checks a requested distribution against the raffle
// state, roster, and pool size. Returns the total requested count.
func validateDistribution(raffle *models.Raffle, rosterIDs []uint, poolSize int, distribution map[uint]int, now time.Time) (int, error) {
	if raffle.Status != models.RaffleActive {
		return 0, ErrRaffleNotActive
	}
	if raffle.EndAt != nil && now.After(*raffle.EndAt) {
		return 0, ErrRaffleNotActive
	}

	roster := make(map[uint]bool, len(rosterIDs))
	for _, id := range rosterIDs {
		roster[id] = true
	}

	total := 0
	for artistID, count := range distribution {
		if count < 0 {
			return 0, ErrInvalidDistribution
		}
		if !roster[artistID] {
			return 0, ErrArtistNotInRaffle
		}
		total += count
	}

	if total > poolSize {
		return 0, ErrInsufficientTickets
	}
	return total, nil
}

// SubmitTickets converts unassigned pool tickets into artist-assigned
// tickets per the requested distribution. The whole distribution runs in a
// single transaction: the raffle row is locked (serializing the per-raffle
// ticket-number counter), the account's pool rows are locked, and each
// ticket is claimed with a conditional update. Any lost claim aborts the
// transaction, so no partial assignment ever survives a failure.
func (s *raffleService) SubmitTickets(ctx context.Context, raffleID uint, accountID string, distribution map[uint]int) (*AssignmentResult, error) {
	var result *AssignmentResult

	err := s.ticketRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		raffle, err := s.raffleRepo.FindByIDForUpdate(ctx, tx, raffleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRaffleNotFound
			}
			return err
		}

		rosterIDs, err := s.raffleRepo.RosterArtistIDs(ctx, tx, raffleID)
		if err != nil {
			return err
		}

		pool, err := s.ticketRepo.FindUnassignedByAccountForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		total, err := validateDistribution(raffle, rosterIDs, len(pool), distribution, time.Now())
		if err != nil {
			return err
		}

		if total == 0 {
			result = &AssignmentResult{Assigned: 0, PoolRemaining: len(pool)}
			return nil
		}

		// Deterministic artist order keeps ticket numbering stable.
		artistIDs := make([]uint, 0, len(distribution))
		for artistID := range distribution {
			artistIDs = append(artistIDs, artistID)
		}
		sort.Slice(artistIDs, func(i, j int) bool { return artistIDs[i] < artistIDs[j] })

		now := time.Now()
		next := raffle.NextTicketNumber
		idx := 0
		for _, artistID := range artistIDs {
			for i := 0; i < distribution[artistID]; i++ {
				claimed, err := s.ticketRepo.Claim(ctx, tx, pool[idx].ID, raffleID, artistID, next, now)
				if err != nil {
					return err
				}
				if !claimed {
					return ErrInsufficientTickets
				}
				idx++
				next++
			}
		}

		if err := s.raffleRepo.UpdateNextTicketNumber(ctx, tx, raffleID, next); err != nil {
			return err
		}

		result = &AssignmentResult{Assigned: total, PoolRemaining: len(pool) - total}
		return nil
	})

	return result, err
}

// RecordWinner stores an externally drawn winning ticket on the roster
// entry. The draw itself happens outside the system; this only validates
// and records the result.
func (s *raffleService) RecordWinner(ctx context.Context, raffleID, artistID, ticketID uint) error {
	var winner *models.Ticket

	err := s.ticketRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.raffleRepo.FindRosterEntry(ctx, tx, raffleID, artistID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrArtistNotInRaffle
			}
			return err
		}

		ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return err
		}
		if ticket.RaffleID == nil || *ticket.RaffleID != raffleID ||
			ticket.ArtistID == nil || *ticket.ArtistID != artistID {
			return ErrWinnerTicketInvalid
		}

		if err := s.raffleRepo.SetWinner(ctx, tx, entry.ID, ticketID); err != nil {
			return err
		}
		winner = ticket
		return nil
	})
	if err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish("raffle.winner.selected", map[string]any{
			"raffle_id":  raffleID,
			"artist_id":  artistID,
			"ticket_id":  winner.ID,
			"account_id": winner.AccountID,
		}); err != nil {
			log.Printf("failed to publish winner event for raffle %d: %v", raffleID, err)
		}
	}

	return nil
}

func (s *raffleService) WinnerReport(ctx context.Context, raffleID uint) ([]WinnerEntry, error) {
	if _, err := s.GetRaffle(ctx, raffleID); err != nil {
		return nil, err
	}

	entries, err := s.raffleRepo.Roster(ctx, raffleID)
	if err != nil {
		return nil, err
	}

	ticketIDs := make([]uint, 0, len(entries))
	for _, entry := range entries {
		if entry.WinnerTicketID != nil {
			ticketIDs = append(ticketIDs, *entry.WinnerTicketID)
		}
	}
	if len(ticketIDs) == 0 {
		return []WinnerEntry{}, nil
	}

	tickets, err := s.ticketRepo.FindByIDs(ctx, ticketIDs)
	if err != nil {
		return nil, err
	}
	ticketByID := make(map[uint]models.Ticket, len(tickets))
	accountIDs := make([]string, 0, len(tickets))
	for _, t := range tickets {
		ticketByID[t.ID] = t
		accountIDs = append(accountIDs, t.AccountID)
	}

	participants, err := s.participantRepo.FindByAccounts(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	contactByAccount := make(map[string]models.Participant, len(participants))
	for _, p := range participants {
		contactByAccount[p.AccountID] = p
	}

	report := make([]WinnerEntry, 0, len(ticketIDs))
	for _, entry := range entries {
		if entry.WinnerTicketID == nil {
			continue
		}
		ticket, ok := ticketByID[*entry.WinnerTicketID]
		if !ok {
			continue
		}

		row := WinnerEntry{
			ArtistID:  entry.ArtistID,
			TicketID:  ticket.ID,
			AccountID: ticket.AccountID,
		}
		if entry.Artist != nil {
			row.ArtistName = entry.Artist.Name
		}
		if ticket.TicketNumber != nil {
			row.TicketNumber = *ticket.TicketNumber
		}
		if contact, ok := contactByAccount[ticket.AccountID]; ok {
			row.Name = contact.Name
			row.Email = contact.Email
			row.Phone = contact.Phone
			row.Instagram = contact.Instagram
		}
		report = append(report, row)
	}

	return report, nil
}
