package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/song-request-queue/internal/model"
	"github.com/iliyamo/song-request-queue/internal/repository"
	"github.com/iliyamo/song-request-queue/pkg/logger"
)

// PricingWriter persists operator pricing changes.  The cached
// repository satisfies it and drops the Redis entry on write.
type PricingWriter interface {
	Upsert(ctx context.Context, cfg *model.PricingConfig) error
}

// AdminHandler groups the streamer-only management endpoints: pricing
// changes, spot provisioning and queue review.
type AdminHandler struct {
	Pricing PricingWriter
	Spots   *repository.SpotRepo
	Subs    *repository.SubmissionRepo
	Log     *logger.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(pricing PricingWriter, spots *repository.SpotRepo, subs *repository.SubmissionRepo, log *logger.Logger) *AdminHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &AdminHandler{Pricing: pricing, Spots: spots, Subs: subs, Log: log}
}

// UpsertPricing handles PUT /v1/admin/pricing/:type.  Each type has at
// most one row; writing replaces it and invalidates the cache.
func (h *AdminHandler) UpsertPricing(c echo.Context) error {
	configType := c.Param("type")
	switch configType {
	case model.ConfigSkipLine, model.ConfigSubmission, model.ConfigBidIncrement:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown pricing type"})
	}

	var body struct {
		MinAmountCents int64  `json:"minAmountCents"`
		MaxAmountCents int64  `json:"maxAmountCents"`
		StepCents      int64  `json:"stepCents"`
		Percent        uint32 `json:"percent"`
		IsActive       *bool  `json:"isActive"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MinAmountCents < 0 || body.MaxAmountCents < 0 || body.StepCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amounts must not be negative"})
	}
	if configType == model.ConfigBidIncrement && (body.Percent < 5 || body.Percent > 100) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "percent must be between 5 and 100"})
	}

	cfg := &model.PricingConfig{
		ConfigType:     configType,
		MinAmountCents: body.MinAmountCents,
		MaxAmountCents: body.MaxAmountCents,
		StepCents:      body.StepCents,
		Percent:        body.Percent,
		IsActive:       true,
	}
	if body.IsActive != nil {
		cfg.IsActive = *body.IsActive
	}

	if err := h.Pricing.Upsert(c.Request().Context(), cfg); err != nil {
		h.Log.Errorw("upsert pricing config", "type", configType, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, cfg)
}

// CreateSpots handles POST /v1/admin/spots.  The streamer provisions a
// batch of numbered spots for the upcoming stream in one call.
func (h *AdminHandler) CreateSpots(c echo.Context) error {
	var body struct {
		Spots []struct {
			SpotNumber uint32 `json:"spotNumber"`
			PriceCents int64  `json:"priceCents"`
		} `json:"spots"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Spots) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "spots must not be empty"})
	}

	spots := make([]model.PreStreamSpot, 0, len(body.Spots))
	for _, s := range body.Spots {
		if s.SpotNumber == 0 || s.PriceCents <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "each spot needs a positive number and price"})
		}
		spots = append(spots, model.PreStreamSpot{
			SpotNumber:  s.SpotNumber,
			PriceCents:  s.PriceCents,
			IsAvailable: true,
		})
	}

	if err := h.Spots.CreateBulk(c.Request().Context(), spots); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "a spot with one of those numbers already exists"})
		}
		h.Log.Errorw("create spots", "count", len(spots), "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": len(spots)})
}

// UpdateSubmissionStatus handles PATCH /v1/admin/submissions/:id/status,
// moving a request through pending → reviewing → reviewed as the
// streamer works the queue.
func (h *AdminHandler) UpdateSubmissionStatus(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	switch body.Status {
	case model.StatusPending, model.StatusReviewing, model.StatusReviewed:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	id := c.Param("id")
	if err := h.Subs.UpdateStatus(c.Request().Context(), id, body.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "submission not found"})
		}
		h.Log.Errorw("update submission status", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": body.Status})
}
