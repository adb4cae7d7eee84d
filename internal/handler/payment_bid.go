package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/song-request-queue/internal/service"
	"github.com/iliyamo/song-request-queue/internal/utils"
)

// CreateBidPayment handles POST /v1/payments/bid.  Bids target an
// existing submission; range checks happen before any checkout session
// is opened so an off-range amount never reaches the provider.
func (h *PaymentHandler) CreateBidPayment(c echo.Context) error {
	var body struct {
		SubmissionID string  `json:"submissionId"`
		BidAmount    float64 `json:"bidAmount"`
		Email        string  `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	userID, authEmail := identity(c)
	if body.Email == "" {
		body.Email = authEmail
	}

	ref, err := h.Engine.CreateBidSession(c.Request().Context(), service.BidRequest{
		SubmissionID: body.SubmissionID,
		AmountCents:  utils.ToCents(body.BidAmount),
		Email:        body.Email,
		UserID:       userID,
	})
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"url": ref.URL})
}

// VerifyBidPayment handles POST /v1/payments/bid/verify.  Applying the
// same session twice leaves the ledger untouched and reports the
// current total.
func (h *PaymentHandler) VerifyBidPayment(c echo.Context) error {
	var body struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	res, err := h.Engine.VerifyBidSession(c.Request().Context(), body.SessionID)
	if err != nil {
		return writeEngineError(c, err)
	}
	msg := "bid applied"
	if !res.Applied {
		msg = "bid already applied"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"message":        msg,
		"submissionId":   res.SubmissionID,
		"totalPaidCents": res.TotalPaidCents,
	})
}
