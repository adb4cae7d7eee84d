package model

import "time"

// SubmissionBid is the ledger row for one submission.  At most one row
// exists per submission; every verified payment raises TotalPaidCents,
// which is monotonically non-decreasing.
//
// Fields:
//  ID            – primary key identifier.
//  SubmissionID  – submission backed by this ledger row, unique.
//  UserID        – latest authenticated contributor, if any.
//  Email         – latest contributor email.
//  BidAmountCents – amount of the latest contribution.
//  TotalPaidCents – cumulative sum of all contributions.
//  CreatedAt     – first contribution timestamp.
//  UpdatedAt     – latest contribution timestamp.
type SubmissionBid struct {
	ID             uint64    `json:"id"`
	SubmissionID   string    `json:"submission_id"`
	UserID         *string   `json:"user_id,omitempty"`
	Email          string    `json:"email"`
	BidAmountCents int64     `json:"bid_amount_cents"`
	TotalPaidCents int64     `json:"total_paid_cents"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TrailingBid is a projection of a ledger row that has fallen behind the
// current leading total, joined to a still-pending submission.  It carries
// just enough to address an outbid notification.
type TrailingBid struct {
	SubmissionID   string `json:"submission_id"`
	Email          string `json:"email"`
	TotalPaidCents int64  `json:"total_paid_cents"`
}
