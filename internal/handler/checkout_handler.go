package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/communityarts/raffle-service/internal/dto"
	"github.com/communityarts/raffle-service/internal/service"
	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	svc service.CheckoutService
}

func NewCheckoutHandler(svc service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/checkout/session", h.CreateSession)
	e.POST("/api/v1/checkout/verify", h.VerifyPayment)
	e.POST("/webhooks/payment", h.PaymentWebhook)
}

func (h *CheckoutHandler) CreateSession(c echo.Context) error {
	var req dto.CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	contact := service.ContactInfo{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Instagram: req.Instagram,
	}
	result, err := h.svc.CreateSession(c.Request().Context(), req.AccountID, req.Quantity, contact, req.ReturnURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingAccountID), errors.Is(err, service.ErrInvalidQuantity):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPaymentProvider):
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.SessionResponse{
		SessionID: result.Session.ID,
		PayURL:    result.PayURL,
		Quantity:  result.Session.Quantity,
		Amount:    result.Session.Amount,
		ExpiresAt: result.Session.ExpiresAt,
	})
}

// VerifyPayment is the success-page callback. Replays are safe: issuance is
// idempotent per session, so a second verify returns the same tickets.
func (h *CheckoutHandler) VerifyPayment(c echo.Context) error {
	var req dto.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.SessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_id is required")
	}

	tickets, err := h.svc.CompleteSession(c.Request().Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSessionExpired), errors.Is(err, service.ErrSessionCancelled):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToTicketResponses(tickets))
}

func (h *CheckoutHandler) PaymentWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body")
	}

	headers := make(map[string]string)
	for name, values := range c.Request().Header {
		if len(values) > 0 {
			headers[strings.ToLower(name)] = values[0]
		}
	}

	tickets, err := h.svc.HandleWebhook(c.Request().Context(), body, headers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidWebhook):
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrSessionNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSessionExpired),
			errors.Is(err, service.ErrSessionCancelled),
			errors.Is(err, service.ErrUnknownPayStatus):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, map[string]int{"tickets_issued": len(tickets)})
}
