package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/song-request-queue/internal/service"
)

// CreateSpotPayment handles POST /v1/payments/spot.  The client names
// the spot it wants; the authoritative price is read from the spot row
// at session-creation time, so a stale price in the body cannot change
// what gets charged.
func (h *PaymentHandler) CreateSpotPayment(c echo.Context) error {
	var body struct {
		SpotID       uint64  `json:"spotId"`
		SpotNumber   uint32  `json:"spotNumber"`
		PriceCents   int64   `json:"priceCents"`
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

	ref, err := h.Engine.CreateSpotSession(c.Request().Context(), service.SpotRequest{
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
		SpotID: body.SpotID,
	})
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"url": ref.URL})
}

// VerifySpotPayment handles POST /v1/payments/spot/verify.  When the
// claim race was lost the payment is still honoured as a regular
// priority submission, and spotClaimed tells the client which outcome
// it got.
func (h *PaymentHandler) VerifySpotPayment(c echo.Context) error {
	var body struct {
		SessionID string `json:"sessionId"`
		SpotID    uint64 `json:"spotId"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	res, err := h.Engine.VerifySpotSession(c.Request().Context(), body.SessionID)
	if err != nil {
		return writeEngineError(c, err)
	}
	msg := "payment verified, spot secured"
	if !res.SpotClaimed {
		msg = "payment verified, spot was already taken; song added to the priority queue"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"message":      msg,
		"spotNumber":   res.SpotNumber,
		"spotClaimed":  res.SpotClaimed,
		"submissionId": res.Submission.ID,
	})
}
