package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/song-request-queue/internal/model"
)

// SpotRepo provides data access to the pre_stream_spots table.  The
// claim operation is a single conditional update so that two buyers
// racing for the same spot can never both succeed.
type SpotRepo struct {
	db *sql.DB
}

// NewSpotRepo returns a new SpotRepo bound to the given database.
func NewSpotRepo(db *sql.DB) *SpotRepo { return &SpotRepo{db: db} }

func scanSpot(row interface{ Scan(...interface{}) error }) (*model.PreStreamSpot, error) {
	var sp model.PreStreamSpot
	var purchasedBy, submissionID sql.NullString
	var purchasedAt sql.NullTime
	err := row.Scan(
		&sp.ID, &sp.SpotNumber, &sp.PriceCents, &sp.IsAvailable,
		&purchasedBy, &purchasedAt, &submissionID, &sp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if purchasedBy.Valid {
		v := purchasedBy.String
		sp.PurchasedBy = &v
	}
	if purchasedAt.Valid {
		v := purchasedAt.Time
		sp.PurchasedAt = &v
	}
	if submissionID.Valid {
		v := submissionID.String
		sp.SubmissionID = &v
	}
	return &sp, nil
}

const spotColumns = `id, spot_number, price_cents, is_available, purchased_by, purchased_at, submission_id, created_at`

// GetByID returns a single spot or ErrNotFound.  The returned price and
// availability are the authoritative values for session creation.
func (r *SpotRepo) GetByID(ctx context.Context, id uint64) (*model.PreStreamSpot, error) {
	const q = `SELECT ` + spotColumns + ` FROM pre_stream_spots WHERE id = ?`
	sp, err := scanSpot(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sp, nil
}

// ListAvailable returns all unclaimed spots ordered by spot number.
func (r *SpotRepo) ListAvailable(ctx context.Context) ([]model.PreStreamSpot, error) {
	const q = `SELECT ` + spotColumns + `
	           FROM pre_stream_spots
	           WHERE is_available = 1
	           ORDER BY spot_number ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	spots := make([]model.PreStreamSpot, 0)
	for rows.Next() {
		sp, err := scanSpot(rows)
		if err != nil {
			return nil, err
		}
		spots = append(spots, *sp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return spots, nil
}

// Claim marks a spot as purchased.  The update is guarded on
// is_available = 1, making it a compare-and-swap: exactly one of any
// number of concurrent claimers observes a single affected row.  It
// returns false (and no error) when another buyer won the race.
func (r *SpotRepo) Claim(ctx context.Context, spotID uint64, buyerEmail, submissionID string) (bool, error) {
	const q = `UPDATE pre_stream_spots
	           SET is_available = 0, purchased_by = ?, purchased_at = UTC_TIMESTAMP(), submission_id = ?
	           WHERE id = ? AND is_available = 1`
	res, err := r.db.ExecContext(ctx, q, buyerEmail, submissionID, spotID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// CreateBulk inserts multiple spots in one statement.  Only spot_number
// and price_cents are supplied; availability defaults to true and
// timestamps default in the DB.  The ID fields of the passed structures
// are not populated.
func (r *SpotRepo) CreateBulk(ctx context.Context, spots []model.PreStreamSpot) error {
	if len(spots) == 0 {
		return nil
	}
	query := `INSERT INTO pre_stream_spots (spot_number, price_cents, is_available) VALUES `
	args := make([]interface{}, 0, len(spots)*3)
	for i, sp := range spots {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, 1)"
		args = append(args, sp.SpotNumber, sp.PriceCents)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	if isDuplicateKey(err) {
		return ErrConflict
	}
	return err
}
