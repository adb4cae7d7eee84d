// Package payment models the hosted-checkout payment collaborator.  The
// engine only ever creates a session before payment and retrieves it
// afterwards; everything in between (card entry, 3DS, webhooks on the
// provider side) is the provider's business.
package payment

import "context"

// Payment status values reported by the provider on a retrieved session.
const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// SessionParams describes one checkout session to create.  Metadata must
// be self-contained: verification reconstructs the whole effect from it
// and never consults state held between create and verify.
type SessionParams struct {
	AmountCents        int64
	Currency           string
	ProductName        string
	ProductDescription string
	CustomerEmail      string
	SuccessURL         string
	CancelURL          string
	Metadata           map[string]string
}

// Session is the provider's view of a checkout transaction.  ID is the
// opaque handle clients hand back for verification; URL is where the
// payer is redirected to complete payment.
type Session struct {
	ID               string
	URL              string
	PaymentStatus    string
	AmountTotalCents int64
	Metadata         map[string]string
}

// Provider is the contract consumed by the engine.  Both calls are
// blocking I/O and must respect the context deadline.
type Provider interface {
	CreateSession(ctx context.Context, p SessionParams) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}
