package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/song-request-queue/internal/service"
	"github.com/iliyamo/song-request-queue/internal/utils"
)

// PaymentHandler exposes the checkout creation and verification
// endpoints for all three paid purchase variants.  The heavy lifting —
// price resolution, session metadata, idempotent application — lives in
// the engine; handlers only bind, translate and shape responses.
type PaymentHandler struct {
	Engine *service.Engine
}

// NewPaymentHandler constructs a PaymentHandler.  The engine must be non-nil.
func NewPaymentHandler(engine *service.Engine) *PaymentHandler {
	if engine == nil {
		panic("nil engine passed to NewPaymentHandler")
	}
	return &PaymentHandler{Engine: engine}
}

// CreatePriorityPayment handles POST /v1/payments/priority.  The body
// declares an amount in major currency units; the engine checks it
// against the live pricing floor before any session exists.  Returns
// 200 with the checkout url and session id.
func (h *PaymentHandler) CreatePriorityPayment(c echo.Context) error {
	var body struct {
		Amount       float64 `json:"amount"`
		SongURL      string  `json:"songUrl"`
		ArtistName   string  `json:"artistName"`
		SongTitle    string  `json:"songTitle"`
		Message      string  `json:"message"`
		Email        string  `json:"email"`
		Platform     string  `json:"platform"`
		AudioFileURL string  `json:"audioFileUrl"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	userID, authEmail := identity(c)
	if body.Email == "" {
		body.Email = authEmail
	}

	ref, err := h.Engine.CreatePrioritySession(c.Request().Context(), service.PriorityRequest{
		SongRequest: service.SongRequest{
			SongURL:      body.SongURL,
			Platform:     body.Platform,
			ArtistName:   body.ArtistName,
			SongTitle:    body.SongTitle,
			Message:      body.Message,
			Email:        body.Email,
			AudioFileURL: body.AudioFileURL,
			UserID:       userID,
		},
		AmountCents: utils.ToCents(body.Amount),
	})
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"url":       ref.URL,
		"sessionId": ref.SessionID,
	})
}

// VerifyPriorityPayment handles POST /v1/payments/priority/verify.  It
// applies a paid session and returns the created submission.  Safe to
// call repeatedly for the same session.
func (h *PaymentHandler) VerifyPriorityPayment(c echo.Context) error {
	var body struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	sub, err := h.Engine.VerifyPrioritySession(c.Request().Context(), body.SessionID)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"message":      "payment verified, song added to the priority queue",
		"submissionId": sub.ID,
	})
}
