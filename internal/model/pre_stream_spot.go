package model

import "time"

// PreStreamSpot is a numbered priority slot sold before a stream.  The
// price on the row is authoritative; client-echoed prices are ignored.
// A spot transitions is_available true→false exactly once, guarded by a
// conditional update so two buyers can never both claim it.
//
// Fields:
//  ID           – primary key identifier.
//  SpotNumber   – position shown to viewers, unique per stream window.
//  PriceCents   – operator-set price in cents.
//  IsAvailable  – false once claimed.
//  PurchasedBy  – buyer email once claimed.
//  PurchasedAt  – claim timestamp.
//  SubmissionID – submission created by the winning purchase.
//  CreatedAt    – creation timestamp.
type PreStreamSpot struct {
	ID           uint64     `json:"id"`
	SpotNumber   uint32     `json:"spot_number"`
	PriceCents   int64      `json:"price_cents"`
	IsAvailable  bool       `json:"is_available"`
	PurchasedBy  *string    `json:"purchased_by,omitempty"`
	PurchasedAt  *time.Time `json:"purchased_at,omitempty"`
	SubmissionID *string    `json:"submission_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
