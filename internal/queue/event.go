// Package queue defines message payloads exchanged over the message broker,
// the publisher that emits them, and the background consumer that drains them.
package queue

// OutbidEvent is published when a new leading bid pushes another paying
// backer's total below the front of the queue.  It carries enough for
// downstream delivery channels to build a message without querying the
// primary database.
type OutbidEvent struct {
	SubmissionID       string `json:"submission_id"`
	Email              string `json:"email"`
	LeaderTotalCents   int64  `json:"leader_total_cents"`
	PreviousTotalCents int64  `json:"previous_total_cents"`
	OfferAmountCents   int64  `json:"offer_amount_cents"`
	OccurredAt         string `json:"occurred_at"`
}
