package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/song-request-queue/internal/model"
)

// NotificationRepo provides append-only access to the bid_notifications
// table.  Rows are written by the outbid notifier after a new leading
// bid and drained by the delivery consumer.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create appends one notification row.  There is no dedup key: the
// notifier intentionally re-notifies trailing backers on every new
// leading bid.
func (r *NotificationRepo) Create(ctx context.Context, n *model.BidNotification) error {
	const q = `INSERT INTO bid_notifications (submission_id, email, notification_type, offer_amount_cents)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, n.SubmissionID, n.Email, n.NotificationType, n.OfferAmountCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// ListBySubmission returns all notifications recorded for a submission,
// newest first.  Exposed for the operator view of notification history.
func (r *NotificationRepo) ListBySubmission(ctx context.Context, submissionID string) ([]model.BidNotification, error) {
	const q = `SELECT id, submission_id, email, notification_type, offer_amount_cents, created_at
	           FROM bid_notifications
	           WHERE submission_id = ?
	           ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.BidNotification, 0)
	for rows.Next() {
		var n model.BidNotification
		if err := rows.Scan(&n.ID, &n.SubmissionID, &n.Email, &n.NotificationType, &n.OfferAmountCents, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
