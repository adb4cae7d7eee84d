package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/song-request-queue/internal/model"
)

// SubmissionRepo provides data access to the submissions table.  Rows are
// created by the free submission path and by payment verification; the
// bid ledger updates priority/boost fields through its own transaction.
// All timestamps are stored in UTC.
type SubmissionRepo struct {
	db *sql.DB
}

// NewSubmissionRepo returns a new SubmissionRepo bound to the provided database.
func NewSubmissionRepo(db *sql.DB) *SubmissionRepo { return &SubmissionRepo{db: db} }

const submissionColumns = `id, song_url, platform, artist_name, song_title, message, email,
	user_id, audio_file_url, amount_paid_cents, is_priority, boost_amount_cents,
	status, payment_session_id, created_at`

func scanSubmission(row interface{ Scan(...interface{}) error }) (*model.Submission, error) {
	var s model.Submission
	var message, email, userID, audioURL, sessionID sql.NullString
	err := row.Scan(
		&s.ID, &s.SongURL, &s.Platform, &s.ArtistName, &s.SongTitle, &message, &email,
		&userID, &audioURL, &s.AmountPaidCents, &s.IsPriority, &s.BoostAmountCents,
		&s.Status, &sessionID, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if message.Valid {
		v := message.String
		s.Message = &v
	}
	if email.Valid {
		v := email.String
		s.Email = &v
	}
	if userID.Valid {
		v := userID.String
		s.UserID = &v
	}
	if audioURL.Valid {
		v := audioURL.String
		s.AudioFileURL = &v
	}
	if sessionID.Valid {
		v := sessionID.String
		s.PaymentSessionID = &v
	}
	return &s, nil
}

// Create inserts a new submission.  The caller supplies the uuid primary
// key.  A duplicate payment_session_id (concurrent re-verification of
// the same checkout session) is reported as ErrConflict; callers then
// fetch the existing row instead of creating a second one.
func (r *SubmissionRepo) Create(ctx context.Context, s *model.Submission) error {
	const q = `INSERT INTO submissions
	             (id, song_url, platform, artist_name, song_title, message, email,
	              user_id, audio_file_url, amount_paid_cents, is_priority, boost_amount_cents,
	              status, payment_session_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		s.ID, s.SongURL, s.Platform, s.ArtistName, s.SongTitle, s.Message, s.Email,
		s.UserID, s.AudioFileURL, s.AmountPaidCents, s.IsPriority, s.BoostAmountCents,
		s.Status, s.PaymentSessionID,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	// Query back to populate the DB-side creation timestamp.
	const sel = `SELECT created_at FROM submissions WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, s.ID).Scan(&s.CreatedAt)
}

// GetByID returns a single submission or ErrNotFound.
func (r *SubmissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	const q = `SELECT ` + submissionColumns + ` FROM submissions WHERE id = ?`
	s, err := scanSubmission(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// GetBySessionID returns the submission created by a checkout session,
// or ErrNotFound when that session has not produced one yet.  This is
// the idempotency check for payment re-verification.
func (r *SubmissionRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.Submission, error) {
	const q = `SELECT ` + submissionColumns + ` FROM submissions WHERE payment_session_id = ?`
	s, err := scanSubmission(r.db.QueryRowContext(ctx, q, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListPending returns pending submissions in queue order: prioritized
// requests first, higher bid totals ahead of lower ones, then oldest
// first.  The limit caps page size; zero means a default of 100.
func (r *SubmissionRepo) ListPending(ctx context.Context, limit int) ([]model.Submission, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + submissionColumns + `
	           FROM submissions
	           WHERE status = ?
	           ORDER BY is_priority DESC, boost_amount_cents DESC, amount_paid_cents DESC, created_at ASC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, model.StatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Submission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus advances the review state of a submission.  It returns
// ErrNotFound when the submission does not exist.
func (r *SubmissionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	const q = `UPDATE submissions SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing row from a no-op status write.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM submissions WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}
