package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/iliyamo/song-request-queue/internal/payment"
	"github.com/iliyamo/song-request-queue/internal/repository"
)

// Bid amounts are validated against fixed bounds in minor units,
// independent of the bid_increment suggestion percentage.
const (
	minBidCents = 50     // 0.50 currency units
	maxBidCents = 100000 // 1000.00 currency units
)

// BidRequest raises a submission's cumulative stake.
type BidRequest struct {
	SubmissionID string
	AmountCents  int64
	Email        string
	UserID       *string
}

// BidVerifyResult reports the ledger state after a bid verification.
// Applied is false when the session had already been counted.
type BidVerifyResult struct {
	SubmissionID   string
	TotalPaidCents int64
	Applied        bool
}

// CreateBidSession validates a bid against the referenced submission
// and the allowed range, then opens a checkout session for it.
func (e *Engine) CreateBidSession(ctx context.Context, req BidRequest) (*CheckoutRef, error) {
	if req.SubmissionID == "" {
		return nil, fmt.Errorf("%w: submissionId is required", ErrInvalidInput)
	}
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if req.AmountCents < minBidCents || req.AmountCents > maxBidCents {
		return nil, fmt.Errorf("%w: bid must be between %d and %d cents", ErrInvalidAmount, minBidCents, maxBidCents)
	}
	sub, err := e.subs.GetByID(ctx, req.SubmissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: submission does not exist", ErrNotFound)
		}
		return nil, err
	}

	md := map[string]string{
		metaKind:         kindBid,
		metaSubmissionID: sub.ID,
		metaBidCents:     strconv.FormatInt(req.AmountCents, 10),
		metaEmail:        req.Email,
	}
	if req.UserID != nil {
		md[metaUserID] = *req.UserID
	}
	sess, err := e.pay.CreateSession(ctx, payment.SessionParams{
		AmountCents:        req.AmountCents,
		Currency:           e.currency,
		ProductName:        "Queue Boost Bid",
		ProductDescription: fmt.Sprintf("%s — %s", sub.ArtistName, sub.SongTitle),
		CustomerEmail:      req.Email,
		SuccessURL:         e.successURL,
		CancelURL:          e.cancelURL,
		Metadata:           md,
	})
	if err != nil {
		return nil, err
	}
	return &CheckoutRef{URL: sess.URL, SessionID: sess.ID}, nil
}

// VerifyBidSession applies a paid bid session to the ledger.  The
// increment is computed by the store against the freshly read stored
// total; a replayed session id is detected there and applied exactly
// once.  A newly applied bid triggers the outbid notifier, whose
// failures never surface to the payer.
func (e *Engine) VerifyBidSession(ctx context.Context, sessionID string) (*BidVerifyResult, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}

	sess, err := e.pay.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.PaymentStatus != payment.StatusPaid {
		return nil, ErrPaymentIncomplete
	}
	if sess.Metadata[metaKind] != kindBid {
		return nil, fmt.Errorf("%w: session is not a bid payment", ErrInvalidInput)
	}
	submissionID := sess.Metadata[metaSubmissionID]
	if submissionID == "" {
		return nil, fmt.Errorf("%w: session metadata has no submission id", ErrInvalidInput)
	}
	amount, err := strconv.ParseInt(sess.Metadata[metaBidCents], 10, 64)
	if err != nil || amount <= 0 {
		return nil, fmt.Errorf("%w: session metadata has no valid bid amount", ErrInvalidInput)
	}
	email := sess.Metadata[metaEmail]
	var userID *string
	if v, ok := sess.Metadata[metaUserID]; ok && v != "" {
		userID = &v
	}

	total, applied, err := e.bids.ApplyPayment(ctx, sessionID, submissionID, amount, email, userID)
	if err != nil {
		return nil, err
	}
	if applied {
		e.log.Infow("bid applied",
			"session_id", sessionID, "submission_id", submissionID,
			"bid_cents", amount, "total_cents", total)
		e.notifyOutbid(ctx, submissionID, total)
	} else {
		e.log.Infow("bid session already applied, skipping",
			"session_id", sessionID, "submission_id", submissionID, "total_cents", total)
	}
	return &BidVerifyResult{SubmissionID: submissionID, TotalPaidCents: total, Applied: applied}, nil
}
