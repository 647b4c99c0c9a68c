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

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) RegisterRoutes(e *echo.Echo, admin echo.MiddlewareFunc) {
	events := e.Group("/api/v1/events")
	events.GET("", h.ListEvents)
	events.GET("/:id", h.GetEvent)
	events.POST("/:id/rsvps", h.CreateRSVP)

	events.POST("", h.CreateEvent, admin)
	events.GET("/:id/rsvps", h.ListRSVPs, admin)

	e.DELETE("/api/v1/rsvps/:id", h.CancelRSVP)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req dto.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if !req.EndAt.After(req.StartAt) {
		return echo.NewHTTPError(http.StatusBadRequest, "end_at must be after start_at")
	}
	if req.Capacity < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "capacity must not be negative")
	}

	event := &models.Event{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		Capacity:    req.Capacity,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	}
	if err := h.svc.CreateEvent(c.Request().Context(), event); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	event, err := h.svc.GetEvent(c.Request().Context(), uint(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.svc.ListEvents(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.EventResponse, len(events))
	for i, e := range events {
		resp[i] = dto.ToEventResponse(&e)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) CreateRSVP(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var req dto.CreateRSVPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.AccountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account_id is required")
	}

	rsvp, err := h.svc.CreateRSVP(c.Request().Context(), uint(eventID), req.AccountID, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrEventOver):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAlreadyRSVPed), errors.Is(err, service.ErrEventFull):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToRSVPResponse(rsvp))
}

func (h *EventHandler) CancelRSVP(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid rsvp id")
	}

	rsvp, err := h.svc.CancelRSVP(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrRSVPNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToRSVPResponse(rsvp))
}

func (h *EventHandler) ListRSVPs(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var status *models.RSVPStatus
	if s := c.QueryParam("status"); s != "" {
		rs := models.RSVPStatus(s)
		status = &rs
	}

	rsvps, err := h.svc.ListRSVPs(c.Request().Context(), uint(eventID), status)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.RSVPResponse, len(rsvps))
	for i, r := range rsvps {
		resp[i] = dto.ToRSVPResponse(&r)
	}
	return c.JSON(http.StatusOK, resp)
}
