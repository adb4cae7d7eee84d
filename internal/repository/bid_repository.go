package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/song-request-queue/internal/model"
)

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (unique key violation).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// BidRepo provides data access to the submission_bids ledger and the
// bid_payments dedup table.  Applying a payment touches three tables
// (bid_payments, submission_bids, submissions) and therefore runs in a
// single transaction: either the whole effect lands or none of it does.
type BidRepo struct {
	db *sql.DB
}

// NewBidRepo returns a new BidRepo bound to the given database.
func NewBidRepo(db *sql.DB) *BidRepo { return &BidRepo{db: db} }

// GetBySubmission returns the ledger row for a submission or ErrNotFound.
func (r *BidRepo) GetBySubmission(ctx context.Context, submissionID string) (*model.SubmissionBid, error) {
	const q = `SELECT id, submission_id, user_id, email, bid_amount_cents, total_paid_cents, created_at, updated_at
	           FROM submission_bids WHERE submission_id = ?`
	var b model.SubmissionBid
	var userID sql.NullString
	err := r.db.QueryRowContext(ctx, q, submissionID).Scan(
		&b.ID, &b.SubmissionID, &userID, &b.Email, &b.BidAmountCents, &b.TotalPaidCents,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if userID.Valid {
		v := userID.String
		b.UserID = &v
	}
	return &b, nil
}

// ApplyPayment records one verified checkout session against a
// submission's ledger row and returns the resulting cumulative total.
//
// The sequence inside the transaction is:
//  1. insert the session id into bid_payments (unique key); a duplicate
//     means this session was already applied, so the current total is
//     returned with applied=false and nothing changes;
//  2. lock the ledger row with SELECT ... FOR UPDATE and compute
//     newTotal = stored total + amountCents against the freshly read
//     value, never a caller-supplied running total;
//  3. write the ledger row (insert on first bid) and raise the
//     submission to priority with boost_amount_cents = newTotal.
//
// Two concurrent payments for the same submission serialize on the row
// lock and both land additively.
func (r *BidRepo) ApplyPayment(ctx context.Context, sessionID, submissionID string, amountCents int64, email string, userID *string) (int64, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const insPay = `INSERT INTO bid_payments (session_id, submission_id, amount_cents) VALUES (?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insPay, sessionID, submissionID, amountCents); err != nil {
		if isDuplicateKey(err) {
			_ = tx.Rollback()
			total, terr := r.currentTotal(ctx, submissionID)
			if terr != nil {
				return 0, false, terr
			}
			return total, false, nil
		}
		return 0, false, err
	}

	const lock = `SELECT total_paid_cents FROM submission_bids WHERE submission_id = ? FOR UPDATE`
	var newTotal int64
	var prior int64
	err = tx.QueryRowContext(ctx, lock, submissionID).Scan(&prior)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		newTotal = amountCents
		const ins = `INSERT INTO submission_bids (submission_id, user_id, email, bid_amount_cents, total_paid_cents)
		             VALUES (?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, ins, submissionID, userID, email, amountCents, newTotal); err != nil {
			return 0, false, err
		}
	case err != nil:
		return 0, false, err
	default:
		newTotal = prior + amountCents
		const upd = `UPDATE submission_bids
		             SET bid_amount_cents = ?, total_paid_cents = ?, email = ?, user_id = COALESCE(?, user_id)
		             WHERE submission_id = ?`
		if _, err := tx.ExecContext(ctx, upd, amountCents, newTotal, email, userID, submissionID); err != nil {
			return 0, false, err
		}
	}

	const updSub = `UPDATE submissions SET is_priority = 1, boost_amount_cents = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, updSub, newTotal, submissionID); err != nil {
		return 0, false, err
	}

	if err := tx.Commit(); err != nil {
		return 0, false, err
	}
	committed = true
	return newTotal, true, nil
}

// currentTotal reads the stored cumulative total outside any transaction.
// Used on the duplicate-session path where nothing will be written.
func (r *BidRepo) currentTotal(ctx context.Context, submissionID string) (int64, error) {
	const q = `SELECT total_paid_cents FROM submission_bids WHERE submission_id = ?`
	var total int64
	err := r.db.QueryRowContext(ctx, q, submissionID).Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return total, nil
}

// TrailingBids returns every ledger row, other than the leader's, whose
// total is strictly below the given amount and whose submission is still
// pending review.  These are the backers owed an outbid notification.
func (r *BidRepo) TrailingBids(ctx context.Context, belowCents int64, excludeSubmissionID string) ([]model.TrailingBid, error) {
	const q = `SELECT b.submission_id, b.email, b.total_paid_cents
	           FROM submission_bids b
	           JOIN submissions s ON s.id = b.submission_id
	           WHERE s.status = ? AND b.submission_id <> ? AND b.total_paid_cents < ?`
	rows, err := r.db.QueryContext(ctx, q, model.StatusPending, excludeSubmissionID, belowCents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	trailing := make([]model.TrailingBid, 0)
	for rows.Next() {
		var t model.TrailingBid
		if err := rows.Scan(&t.SubmissionID, &t.Email, &t.TotalPaidCents); err != nil {
			return nil, err
		}
		trailing = append(trailing, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trailing, nil
}
