package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/song-request-queue/internal/model"
)

// CachedPricingConfigRepo layers a short-lived Redis cache over
// PricingConfigRepo.  Pricing is read on every quote and every payment
// verification, while operators change it rarely; a small TTL keeps the
// hot path off the database without making stale floors last long.
// When the Redis client is nil or unreachable, all reads fall through
// to the database.
type CachedPricingConfigRepo struct {
	repo *PricingConfigRepo
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCachedPricingConfigRepo wraps repo with a Redis cache.  A nil rdb
// disables caching entirely.  A non-positive ttl defaults to 30 seconds.
func NewCachedPricingConfigRepo(repo *PricingConfigRepo, rdb *redis.Client, ttl time.Duration) *CachedPricingConfigRepo {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedPricingConfigRepo{repo: repo, rdb: rdb, ttl: ttl}
}

func pricingKey(configType string) string { return "pricing:" + configType }

// GetActive returns the active config for a type, consulting the cache
// first.  Cache errors are ignored; the database remains the source of
// truth.  ErrNotFound results are not cached so a newly activated config
// becomes visible immediately.
func (r *CachedPricingConfigRepo) GetActive(ctx context.Context, configType string) (*model.PricingConfig, error) {
	if r.rdb != nil {
		if bs, err := r.rdb.Get(ctx, pricingKey(configType)).Bytes(); err == nil {
			var cfg model.PricingConfig
			if err := json.Unmarshal(bs, &cfg); err == nil {
				return &cfg, nil
			}
		}
	}
	cfg, err := r.repo.GetActive(ctx, configType)
	if err != nil {
		return nil, err
	}
	if r.rdb != nil {
		if bs, err := json.Marshal(cfg); err == nil {
			_ = r.rdb.SetEx(ctx, pricingKey(configType), bs, r.ttl).Err()
		}
	}
	return cfg, nil
}

// Upsert writes through to the database and drops the cached entry so
// the next read observes the operator's change.
func (r *CachedPricingConfigRepo) Upsert(ctx context.Context, cfg *model.PricingConfig) error {
	if err := r.repo.Upsert(ctx, cfg); err != nil {
		return err
	}
	if r.rdb != nil {
		_ = r.rdb.Del(ctx, pricingKey(cfg.ConfigType)).Err()
	}
	return nil
}
