package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/communityarts/raffle-service/internal/dto"
	"github.com/communityarts/raffle-service/internal/models"
	"github.com/communityarts/raffle-service/internal/service"
	"github.com/labstack/echo/v4"
)

type RaffleHandler struct {
	svc service.RaffleService
}

func NewRaffleHandler(svc service.RaffleService) *RaffleHandler {
	return &RaffleHandler{svc: svc}
}

func (h *RaffleHandler) RegisterRoutes(e *echo.Echo, admin echo.MiddlewareFunc) {
	raffles := e.Group("/api/v1/raffles")
	raffles.GET("", h.ListRaffles)
	raffles.GET("/:id", h.GetRaffle)
	raffles.POST("/:id/submit-tickets", h.SubmitTickets)

	raffles.POST("", h.CreateRaffle, admin)
	raffles.PATCH("/:id/status", h.UpdateStatus, admin)
	raffles.POST("/:id/artists", h.AddArtist, admin)
	raffles.POST("/:id/winners", h.RecordWinner, admin)
	raffles.GET("/:id/winners", h.WinnerReport, admin)
}

func (h *RaffleHandler) CreateRaffle(c echo.Context) error {
	var req dto.CreateRaffleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.TicketPrice < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "ticket_price must not be negative")
	}
	if req.EndAt != nil && !req.EndAt.After(req.StartAt) {
		return echo.NewHTTPError(http.StatusBadRequest, "end_at must be after start_at")
	}

	raffle := &models.Raffle{
		Name:        req.Name,
		Description: req.Description,
		TicketPrice: req.TicketPrice,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	}
	if err := h.svc.CreateRaffle(c.Request().Context(), raffle); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, dto.ToRaffleResponse(raffle))
}

func (h *RaffleHandler) ListRaffles(c echo.Context) error {
	raffles, err := h.svc.ListRaffles(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.RaffleResponse, len(raffles))
	for i, r := range raffles {
		resp[i] = dto.ToRaffleResponse(&r)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetRaffle serves the raffle detail page: roster with per-artist tallies
// plus the caller's unassigned pool (account_id query param).
func (h *RaffleHandler) GetRaffle(c echo.Context) error {
	raffleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid raffle id")
	}

	view, err := h.svc.Roster(c.Request().Context(), uint(raffleID), c.QueryParam("account_id"))
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToRosterResponse(view))
}

func (h *RaffleHandler) UpdateStatus(c echo.Context) error {
	raffleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid raffle id")
	}

	var req dto.UpdateRaffleStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	status := models.RaffleStatus(req.Status)
	switch status {
	case models.RaffleDraft, models.RaffleActive, models.RaffleEnded, models.RaffleCancelled:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	if err := h.svc.UpdateStatus(c.Request().Context(), uint(raffleID), status); err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *RaffleHandler) AddArtist(c echo.Context) error {
	raffleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid raffle id")
	}

	var req dto.AddRaffleArtistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ArtistID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "artist_id is required")
	}

	entry, err := h.svc.AddArtist(c.Request().Context(), uint(raffleID), req.ArtistID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRaffleNotFound), errors.Is(err, service.ErrArtistNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, entry)
}

func (h *RaffleHandler) SubmitTickets(c echo.Context) error {
	raffleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid raffle id")
	}

	var req dto.SubmitTicketsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.AccountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account_id is required")
	}

	result, err := h.svc.SubmitTickets(c.Request().Context(), uint(raffleID), req.AccountID, req.Distribution)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRaffleNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRaffleNotActive),
			errors.Is(err, service.ErrInvalidDistribution),
			errors.Is(err, service.ErrArtistNotInRaffle):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInsufficientTickets):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.AssignmentResponse{
		Assigned:      result.Assigned,
		PoolRemaining: result.PoolRemaining,
	})
}

func (h *RaffleHandler) RecordWinner(c echo.Context) error {
	raffleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid raffle id")
	}

	var req dto.RecordWinnerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ArtistID == 0 || req.TicketID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "artist_id and ticket_id are required")
	}

	err = h.svc.RecordWinner(c.Request().Context(), uint(raffleID), req.ArtistID, req.TicketID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrArtistNotInRaffle), errors.Is(err, service.ErrTicketNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrWinnerTicketInvalid):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *RaffleHandler) WinnerReport(c echo.Context) error {
	raffleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid raffle id")
	}

	report, err := h.svc.WinnerReport(c.Request().Context(), uint(raffleID))
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.WinnerResponse, len(report))
	for i, w := range report {
		resp[i] = dto.ToWinnerResponse(&w)
	}
	return c.JSON(http.StatusOK, resp)
}
