package handler

import (
	"net/http"

	"github.com/communityarts/raffle-service/internal/dto"
	"github.com/communityarts/raffle-service/internal/repository"
	"github.com/labstack/echo/v4"
)

type TicketHandler struct {
	repo repository.TicketRepository
}

func NewTicketHandler(repo repository.TicketRepository) *TicketHandler {
	return &TicketHandler{repo: repo}
}

func (h *TicketHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/accounts/:account_id/tickets", h.ListTickets)
}

// ListTickets returns an account's tickets; ?unassigned=true restricts to
// the pool of tickets not yet committed to a raffle.
func (h *TicketHandler) ListTickets(c echo.Context) error {
	accountID := c.Param("account_id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account id is required")
	}

	var err error
	var tickets []dto.TicketResponse
	if c.QueryParam("unassigned") == "true" {
		pool, ferr := h.repo.FindUnassignedByAccount(c.Request().Context(), accountID)
		err = ferr
		tickets = dto.ToTicketResponses(pool)
	} else {
		all, ferr := h.repo.FindByAccount(c.Request().Context(), accountID)
		err = ferr
		tickets = dto.ToTicketResponses(all)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, tickets)
}
