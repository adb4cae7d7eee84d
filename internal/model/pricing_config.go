package model

import "time"

// Pricing config types. There is exactly one active row per type,
// enforced by a unique key on config_type.
const (
	ConfigSkipLine     = "skip_line"     // floor for arbitrary-amount priority purchases
	ConfigSubmission   = "submission"    // pricing shown for plain paid submissions
	ConfigBidIncrement = "bid_increment" // percentage used to suggest counter-bids
)

// PricingConfig holds operator-tunable pricing for one config type.
// Amount bounds are stored in minor currency units.  The bid_increment
// variant carries its percentage in the Percent field rather than
// overloading an amount column.
//
// Fields:
//  ID             – primary key identifier.
//  ConfigType     – one of the Config* constants, unique.
//  MinAmountCents – floor enforced server-side on paid operations.
//  MaxAmountCents – informational ceiling shown to clients.
//  StepCents      – increment step shown to clients.
//  Percent        – counter-bid suggestion percentage (bid_increment only, 5–100).
//  IsActive       – whether this row is served to clients.
//  UpdatedAt      – timestamp of the last operator change.
type PricingConfig struct {
	ID             uint64    `json:"id"`
	ConfigType     string    `json:"config_type"`
	MinAmountCents int64     `json:"min_amount_cents"`
	MaxAmountCents int64     `json:"max_amount_cents"`
	StepCents      int64     `json:"step_cents"`
	Percent        uint32    `json:"percent,omitempty"`
	IsActive       bool      `json:"is_active"`
	UpdatedAt      time.Time `json:"updated_at"`
}
