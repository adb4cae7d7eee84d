package service

import (
	"context"
	"errors"

	"github.com/iliyamo/song-request-queue/internal/model"
	"github.com/iliyamo/song-request-queue/internal/repository"
)

// GetPricing returns the active pricing config for a type.  The value
// it returns is authoritative: money-moving operations re-fetch it
// server-side and never trust a client-echoed price.
func (e *Engine) GetPricing(ctx context.Context, configType string) (*model.PricingConfig, error) {
	switch configType {
	case model.ConfigSkipLine, model.ConfigSubmission, model.ConfigBidIncrement:
	default:
		return nil, ErrInvalidInput
	}
	cfg, err := e.configs.GetActive(ctx, configType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cfg, nil
}

// priorityFloorCents resolves the minimum accepted priority amount.
func (e *Engine) priorityFloorCents(ctx context.Context) (int64, error) {
	cfg, err := e.configs.GetActive(ctx, model.ConfigSkipLine)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return defaultPriorityFloorCents, nil
		}
		return 0, err
	}
	return cfg.MinAmountCents, nil
}

// bidIncrementPercent resolves the percentage used to compute suggested
// counter-bids.  It is only ever a suggestion input; bid validation has
// its own fixed bounds.
func (e *Engine) bidIncrementPercent(ctx context.Context) uint32 {
	cfg, err := e.configs.GetActive(ctx, model.ConfigBidIncrement)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			e.log.Warnw("bid increment config read failed, using default", "error", err)
		}
		return defaultBidIncrementPercent
	}
	if cfg.Percent < 5 || cfg.Percent > 100 {
		return defaultBidIncrementPercent
	}
	return cfg.Percent
}

const (
	// Applied when the operator has not configured a skip_line floor.
	defaultPriorityFloorCents = 500
	// Applied when the operator has not configured bid_increment.
	defaultBidIncrementPercent = 10
)
