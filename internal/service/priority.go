package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/iliyamo/song-request-queue/internal/model"
	"github.com/iliyamo/song-request-queue/internal/payment"
	"github.com/iliyamo/song-request-queue/internal/repository"
)

// Metadata keys embedded into checkout sessions.  Verification rebuilds
// the whole submission from these; the original request is never
// consulted again.
const (
	metaKind         = "kind"
	metaSongURL      = "song_url"
	metaPlatform     = "platform"
	metaArtistName   = "artist_name"
	metaSongTitle    = "song_title"
	metaMessage      = "message"
	metaEmail        = "email"
	metaUserID       = "user_id"
	metaAudioFileURL = "audio_file_url"
	metaAmountCents  = "amount_cents"
	metaSpotID       = "spot_id"
	metaSpotNumber   = "spot_number"
	metaPriceCents   = "price_cents"
	metaSubmissionID = "submission_id"
	metaBidCents     = "bid_amount_cents"
)

const (
	kindPriority = "priority"
	kindSpot     = "spot"
	kindBid      = "bid"
)

const (
	defaultArtistName = "Unknown Artist"
	defaultSongTitle  = "Untitled"
)

// SongRequest carries the request fields shared by every paid purchase
// variant.
type SongRequest struct {
	SongURL      string
	Platform     string
	ArtistName   string
	SongTitle    string
	Message      string
	Email        string
	AudioFileURL string
	UserID       *string
}

// PriorityRequest is an arbitrary-amount priority purchase.
type PriorityRequest struct {
	SongRequest
	AmountCents int64
}

// CheckoutRef points the client at the provider's hosted payment page.
type CheckoutRef struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

func (r *SongRequest) normalize() error {
	if r.SongURL == "" {
		return fmt.Errorf("%w: song_url is required", ErrInvalidInput)
	}
	if r.ArtistName == "" {
		r.ArtistName = defaultArtistName
	}
	if r.SongTitle == "" {
		r.SongTitle = defaultSongTitle
	}
	return nil
}

func (r *SongRequest) metadata(md map[string]string) map[string]string {
	md[metaSongURL] = r.SongURL
	md[metaPlatform] = r.Platform
	md[metaArtistName] = r.ArtistName
	md[metaSongTitle] = r.SongTitle
	if r.Message != "" {
		md[metaMessage] = r.Message
	}
	if r.Email != "" {
		md[metaEmail] = r.Email
	}
	if r.UserID != nil {
		md[metaUserID] = *r.UserID
	}
	if r.AudioFileURL != "" {
		md[metaAudioFileURL] = r.AudioFileURL
	}
	return md
}

// submissionFromMetadata rebuilds the submission fields embedded at
// session-creation time.
func submissionFromMetadata(md map[string]string, amountCents int64, sessionID string) *model.Submission {
	s := &model.Submission{
		ID:              uuid.NewString(),
		SongURL:         md[metaSongURL],
		Platform:        md[metaPlatform],
		ArtistName:      md[metaArtistName],
		SongTitle:       md[metaSongTitle],
		AmountPaidCents: amountCents,
		IsPriority:      true,
		Status:          model.StatusPending,
	}
	if s.ArtistName == "" {
		s.ArtistName = defaultArtistName
	}
	if s.SongTitle == "" {
		s.SongTitle = defaultSongTitle
	}
	if v, ok := md[metaMessage]; ok && v != "" {
		s.Message = &v
	}
	if v, ok := md[metaEmail]; ok && v != "" {
		s.Email = &v
	}
	if v, ok := md[metaUserID]; ok && v != "" {
		s.UserID = &v
	}
	if v, ok := md[metaAudioFileURL]; ok && v != "" {
		s.AudioFileURL = &v
	}
	s.PaymentSessionID = &sessionID
	return s
}

// CreatePrioritySession validates an arbitrary-amount priority purchase
// against the live pricing floor and opens a checkout session for it.
func (e *Engine) CreatePrioritySession(ctx context.Context, req PriorityRequest) (*CheckoutRef, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}
	floor, err := e.priorityFloorCents(ctx)
	if err != nil {
		return nil, err
	}
	if req.AmountCents < floor {
		return nil, fmt.Errorf("%w: minimum is %d cents", ErrAmountTooLow, floor)
	}

	md := req.metadata(map[string]string{
		metaKind:        kindPriority,
		metaAmountCents: strconv.FormatInt(req.AmountCents, 10),
	})
	sess, err := e.pay.CreateSession(ctx, payment.SessionParams{
		AmountCents:        req.AmountCents,
		Currency:           e.currency,
		ProductName:        "Priority Song Request",
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

// VerifyPrioritySession applies a paid priority session: it inserts the
// prioritized submission rebuilt from session metadata.  Verifying the
// same session twice returns the originally created submission without
// inserting a second row.
func (e *Engine) VerifyPrioritySession(ctx context.Context, sessionID string) (*model.Submission, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}
	if existing, err := e.subs.GetBySessionID(ctx, sessionID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	sess, err := e.pay.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.PaymentStatus != payment.StatusPaid {
		return nil, ErrPaymentIncomplete
	}
	if sess.Metadata[metaKind] != kindPriority {
		return nil, fmt.Errorf("%w: session is not a priority purchase", ErrInvalidInput)
	}
	amount, err := strconv.ParseInt(sess.Metadata[metaAmountCents], 10, 64)
	if err != nil || amount <= 0 {
		return nil, fmt.Errorf("%w: session metadata has no valid amount", ErrInvalidInput)
	}

	sub := submissionFromMetadata(sess.Metadata, amount, sessionID)
	if err := e.subs.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// A concurrent verification of the same session inserted first.
			return e.subs.GetBySessionID(ctx, sessionID)
		}
		return nil, err
	}
	e.log.Infow("priority submission created",
		"submission_id", sub.ID, "session_id", sessionID, "amount_cents", amount)
	return sub, nil
}
