// Package service implements the queue and bidding engine: pricing
// policy, priority purchases, the per-submission bid ledger and the
// outbid notifier.  The engine holds no in-process state; every
// operation re-reads current truth from the stores before acting,
// because payment confirmations arrive asynchronously and race with
// each other.
package service

import "errors"

// ErrInvalidInput is returned when a required field is missing or
// malformed. Handlers translate this into HTTP 400.
var ErrInvalidInput = errors.New("invalid input")

// ErrAmountTooLow is returned when a client-declared amount is below
// the server-side pricing floor.
var ErrAmountTooLow = errors.New("amount below minimum")

// ErrInvalidAmount is returned when a bid amount falls outside the
// allowed bid range.
var ErrInvalidAmount = errors.New("bid amount out of range")

// ErrSpotUnavailable is returned when the requested spot has already
// been claimed. Handlers translate this into HTTP 409.
var ErrSpotUnavailable = errors.New("spot unavailable")

// ErrPaymentIncomplete is returned when a session is verified before
// the provider reports it as paid.
var ErrPaymentIncomplete = errors.New("payment not completed")

// ErrNotFound is returned when a referenced submission, spot or config
// row does not exist.
var ErrNotFound = errors.New("not found")
