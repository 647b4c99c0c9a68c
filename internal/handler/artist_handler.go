package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/communityarts/raffle-service/internal/dto"
	"github.com/communityarts/raffle-service/internal/models"
	"github.com/communityarts/raffle-service/internal/repository"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type ArtistHandler struct {
	repo repository.ArtistRepository
}

func NewArtistHandler(repo repository.ArtistRepository) *ArtistHandler {
	return &ArtistHandler{repo: repo}
}

func (h *ArtistHandler) RegisterRoutes(e *echo.Echo, admin echo.MiddlewareFunc) {
	artists := e.Group("/api/v1/artists")
	artists.GET("", h.ListArtists)
	artists.GET("/resolve", h.ResolveName)
	artists.GET("/:id", h.GetArtist)

	artists.POST("", h.CreateArtist, admin)
	artists.POST("/:id/aliases", h.CreateAlias, admin)
	artists.GET("/:id/aliases", h.ListAliases, admin)
}

func (h *ArtistHandler) CreateArtist(c echo.Context) error {
	var req dto.CreateArtistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	artist := &models.Artist{Name: req.Name, Bio: req.Bio, ImageURL: req.ImageURL}
	if err := h.repo.Create(c.Request().Context(), artist); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, dto.ToArtistResponse(artist))
}

func (h *ArtistHandler) GetArtist(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid artist id")
	}

	artist, err := h.repo.FindByID(c.Request().Context(), uint(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "artist not found")
	}

	return c.JSON(http.StatusOK, dto.ToArtistResponse(artist))
}

func (h *ArtistHandler) ListArtists(c echo.Context) error {
	artists, err := h.repo.FindAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.ArtistResponse, len(artists))
	for i, a := range artists {
		resp[i] = dto.ToArtistResponse(&a)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ArtistHandler) CreateAlias(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid artist id")
	}

	var req dto.CreateAliasRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Alias == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "alias is required")
	}

	if _, err := h.repo.FindByID(c.Request().Context(), uint(id)); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "artist not found")
	}

	alias := &models.ArtistAlias{ArtistID: uint(id), Alias: req.Alias}
	if err := h.repo.CreateAlias(c.Request().Context(), alias); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "alias already exists")
	}

	return c.JSON(http.StatusCreated, alias)
}

func (h *ArtistHandler) ListAliases(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid artist id")
	}

	aliases, err := h.repo.FindAliases(c.Request().Context(), uint(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, aliases)
}

// ResolveName maps a free-text artist name to an artist via the curated
// alias table. Replaces the substring heuristics the old import tool used.
func (h *ArtistHandler) ResolveName(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	artist, err := h.repo.ResolveName(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no artist matches this name")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToArtistResponse(artist))
}
