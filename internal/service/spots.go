package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/iliyamo/song-request-queue/internal/model"
	"github.com/iliyamo/song-request-queue/internal/payment"
	"github.com/iliyamo/song-request-queue/internal/repository"
)

// SpotRequest purchases a specific numbered pre-stream spot.  The
// client may echo a price alongside the id; it is ignored — the spot
// row holds the authoritative price.
type SpotRequest struct {
	SongRequest
	SpotID uint64
}

// SpotVerifyResult reports the outcome of a spot payment verification.
// SpotClaimed is false when another buyer won the claim race; the
// submission still stands because the money already moved.
type SpotVerifyResult struct {
	Submission  *model.Submission
	SpotNumber  uint32
	SpotClaimed bool
}

// CreateSpotSession re-reads the spot's availability and price and
// opens a checkout session for it.  The charged amount always comes
// from the spot row, never from the client.
func (e *Engine) CreateSpotSession(ctx context.Context, req SpotRequest) (*CheckoutRef, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if req.SpotID == 0 {
		return nil, fmt.Errorf("%w: spot_id is required", ErrInvalidInput)
	}
	spot, err := e.spots.GetByID(ctx, req.SpotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: spot does not exist", ErrNotFound)
		}
		return nil, err
	}
	if !spot.IsAvailable {
		return nil, ErrSpotUnavailable
	}

	md := req.metadata(map[string]string{
		metaKind:       kindSpot,
		metaSpotID:     strconv.FormatUint(spot.ID, 10),
		metaSpotNumber: strconv.FormatUint(uint64(spot.SpotNumber), 10),
		metaPriceCents: strconv.FormatInt(spot.PriceCents, 10),
	})
	sess, err := e.pay.CreateSession(ctx, payment.SessionParams{
		AmountCents:        spot.PriceCents,
		Currency:           e.currency,
		ProductName:        fmt.Sprintf("Pre-Stream Spot #%d", spot.SpotNumber),
		ProductDescription: fmt.Sprintf("%s — %s", req.ArtistName, req.SongTitle),
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

// VerifySpotSession applies a paid spot session.  The submission is
// inserted first, then the conditional spot claim is attempted.  A
// lost claim race is reported but never fails the operation: the
// payer's submission must survive.  Re-verifying the same session
// returns the original outcome without new writes.
func (e *Engine) VerifySpotSession(ctx context.Context, sessionID string) (*SpotVerifyResult, error) {
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
	if sess.Metadata[metaKind] != kindSpot {
		return nil, fmt.Errorf("%w: session is not a spot purchase", ErrInvalidInput)
	}
	spotID, err := strconv.ParseUint(sess.Metadata[metaSpotID], 10, 64)
	if err != nil || spotID == 0 {
		return nil, fmt.Errorf("%w: session metadata has no valid spot id", ErrInvalidInput)
	}
	price, err := strconv.ParseInt(sess.Metadata[metaPriceCents], 10, 64)
	if err != nil || price <= 0 {
		return nil, fmt.Errorf("%w: session metadata has no valid price", ErrInvalidInput)
	}
	spotNumber64, _ := strconv.ParseUint(sess.Metadata[metaSpotNumber], 10, 32)
	spotNumber := uint32(spotNumber64)

	// Idempotency: if this session already produced a submission, report
	// the recorded outcome instead of re-applying anything.
	if existing, err := e.subs.GetBySessionID(ctx, sessionID); err == nil {
		return &SpotVerifyResult{
			Submission:  existing,
			SpotNumber:  spotNumber,
			SpotClaimed: e.spotClaimedBy(ctx, spotID, existing.ID),
		}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	sub := submissionFromMetadata(sess.Metadata, price, sessionID)
	if err := e.subs.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			existing, gerr := e.subs.GetBySessionID(ctx, sessionID)
			if gerr != nil {
				return nil, gerr
			}
			return &SpotVerifyResult{
				Submission:  existing,
				SpotNumber:  spotNumber,
				SpotClaimed: e.spotClaimedBy(ctx, spotID, existing.ID),
			}, nil
		}
		return nil, err
	}

	email := ""
	if sub.Email != nil {
		email = *sub.Email
	}
	claimed, err := e.spots.Claim(ctx, spotID, email, sub.ID)
	if err != nil {
		// The payment landed and the submission exists; the claim failure
		// is a partial failure, logged for support follow-up.
		e.log.Errorw("spot claim failed after paid submission",
			"session_id", sessionID, "spot_id", spotID, "submission_id", sub.ID, "error", err)
		claimed = false
	} else if !claimed {
		e.log.Warnw("spot already claimed by another buyer, submission kept",
			"session_id", sessionID, "spot_id", spotID, "submission_id", sub.ID)
	} else {
		e.log.Infow("spot claimed",
			"session_id", sessionID, "spot_id", spotID, "spot_number", spotNumber, "submission_id", sub.ID)
	}

	return &SpotVerifyResult{Submission: sub, SpotNumber: spotNumber, SpotClaimed: claimed}, nil
}

// spotClaimedBy reports whether the spot's recorded winner is the given
// submission.  Errors degrade to false; this only affects the reported
// flag on an idempotent re-verification, not any write.
func (e *Engine) spotClaimedBy(ctx context.Context, spotID uint64, submissionID string) bool {
	spot, err := e.spots.GetByID(ctx, spotID)
	if err != nil {
		return false
	}
	return spot.SubmissionID != nil && *spot.SubmissionID == submissionID
}
