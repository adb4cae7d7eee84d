package service

import (
	"context"

	"github.com/iliyamo/song-request-queue/internal/model"
	"github.com/iliyamo/song-request-queue/internal/payment"
	"github.com/iliyamo/song-request-queue/internal/queue"
	"github.com/iliyamo/song-request-queue/pkg/logger"
)

// ConfigStore reads active pricing configuration.  Implemented by the
// pricing repositories (plain and Redis-cached).
type ConfigStore interface {
	GetActive(ctx context.Context, configType string) (*model.PricingConfig, error)
}

// SubmissionStore persists queue submissions.
type SubmissionStore interface {
	Create(ctx context.Context, s *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.Submission, error)
}

// SpotStore persists pre-stream spots.  Claim must be a conditional
// write: it returns false without error when another buyer already
// claimed the spot.
type SpotStore interface {
	GetByID(ctx context.Context, id uint64) (*model.PreStreamSpot, error)
	Claim(ctx context.Context, spotID uint64, buyerEmail, submissionID string) (bool, error)
}

// BidStore persists the bid ledger.  ApplyPayment must be atomic and
// idempotent per session id: a replayed session returns the current
// total with applied=false and changes nothing.
type BidStore interface {
	ApplyPayment(ctx context.Context, sessionID, submissionID string, amountCents int64, email string, userID *string) (total int64, applied bool, err error)
	TrailingBids(ctx context.Context, belowCents int64, excludeSubmissionID string) ([]model.TrailingBid, error)
}

// NotificationStore appends outbid notification records.
type NotificationStore interface {
	Create(ctx context.Context, n *model.BidNotification) error
}

// EventPublisher pushes outbid events to the message broker for
// asynchronous delivery.  Publishing is best-effort.
type EventPublisher interface {
	PublishOutbid(ctx context.Context, ev queue.OutbidEvent) error
}

// Engine coordinates the payment provider and the persistence stores.
// It is safe for concurrent use; all mutable state lives in the stores.
type Engine struct {
	configs ConfigStore
	subs    SubmissionStore
	spots   SpotStore
	bids    BidStore
	notes   NotificationStore
	pay     payment.Provider
	events  EventPublisher
	log     *logger.Logger

	successURL string
	cancelURL  string
	currency   string
}

// Options carries the checkout redirect targets and currency used when
// building payment sessions.
type Options struct {
	SuccessURL string
	CancelURL  string
	Currency   string
}

// NewEngine constructs the engine.  Stores and the payment provider are
// required; events may be nil to disable broker publishing.
func NewEngine(configs ConfigStore, subs SubmissionStore, spots SpotStore, bids BidStore, notes NotificationStore, pay payment.Provider, events EventPublisher, log *logger.Logger, opts Options) *Engine {
	if configs == nil || subs == nil || spots == nil || bids == nil || notes == nil || pay == nil {
		panic("nil dependency passed to NewEngine")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Currency == "" {
		opts.Currency = "eur"
	}
	return &Engine{
		configs:    configs,
		subs:       subs,
		spots:      spots,
		bids:       bids,
		notes:      notes,
		pay:        pay,
		events:     events,
		log:        log,
		successURL: opts.SuccessURL,
		cancelURL:  opts.CancelURL,
		currency:   opts.Currency,
	}
}
