package model

import "time"

// NotificationOutbid is currently the only notification type recorded.
const NotificationOutbid = "outbid"

// BidNotification is an append-only "you've been outbid" record queued
// for delivery.  One row is written per affected submission per
// triggering bid event; repeats across events are allowed.
//
// Fields:
//  ID               – primary key identifier.
//  SubmissionID     – submission whose backer fell behind.
//  Email            – address the notification is for.
//  NotificationType – always "outbid" today.
//  OfferAmountCents – suggested counter-bid in cents.
//  CreatedAt        – creation timestamp.
type BidNotification struct {
	ID               uint64    `json:"id"`
	SubmissionID     string    `json:"submission_id"`
	Email            string    `json:"email"`
	NotificationType string    `json:"notification_type"`
	OfferAmountCents int64     `json:"offer_amount_cents"`
	CreatedAt        time.Time `json:"created_at"`
}
