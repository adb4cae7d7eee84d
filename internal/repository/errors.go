// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// the engine and handlers to distinguish between different failure
// scenarios without inspecting driver-specific errors.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist. It
// stands in for sql.ErrNoRows at the store boundary so callers do
// not depend on database/sql directly.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a conditional write loses to a
// concurrent writer, such as claiming a spot that was just taken or
// recording a payment session that was already applied.
var ErrConflict = errors.New("conflict")
