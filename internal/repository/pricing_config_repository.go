package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/song-request-queue/internal/model"
)

// PricingConfigRepo provides access to the pricing_configs table.  Every
// money-moving operation re-reads its floor through this repository so
// client-declared amounts are never authoritative.
type PricingConfigRepo struct {
	db *sql.DB
}

// NewPricingConfigRepo returns a new PricingConfigRepo bound to the given database.
func NewPricingConfigRepo(db *sql.DB) *PricingConfigRepo { return &PricingConfigRepo{db: db} }

// GetActive returns the single active config row for a type.  It returns
// ErrNotFound when no active row exists for the type.
func (r *PricingConfigRepo) GetActive(ctx context.Context, configType string) (*model.PricingConfig, error) {
	const q = `SELECT id, config_type, min_amount_cents, max_amount_cents, step_cents, percent, is_active, updated_at
	           FROM pricing_configs
	           WHERE config_type = ? AND is_active = 1`
	var cfg model.PricingConfig
	err := r.db.QueryRowContext(ctx, q, configType).Scan(
		&cfg.ID, &cfg.ConfigType, &cfg.MinAmountCents, &cfg.MaxAmountCents,
		&cfg.StepCents, &cfg.Percent, &cfg.IsActive, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// Upsert inserts a config row for a type or updates the existing one.
// The unique key on config_type guarantees a single row per type, so an
// operator update can never create a competing active config.
func (r *PricingConfigRepo) Upsert(ctx context.Context, cfg *model.PricingConfig) error {
	const q = `INSERT INTO pricing_configs (config_type, min_amount_cents, max_amount_cents, step_cents, percent, is_active)
	           VALUES (?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	             min_amount_cents = VALUES(min_amount_cents),
	             max_amount_cents = VALUES(max_amount_cents),
	             step_cents = VALUES(step_cents),
	             percent = VALUES(percent),
	             is_active = VALUES(is_active)`
	_, err := r.db.ExecContext(ctx, q,
		cfg.ConfigType, cfg.MinAmountCents, cfg.MaxAmountCents,
		cfg.StepCents, cfg.Percent, cfg.IsActive,
	)
	return err
}
