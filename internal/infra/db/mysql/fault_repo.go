package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/inspection-ai/internal/domain/faults"
)

type FaultRepository struct {
	db *sql.DB
}

func NewFaultRepository(db *sql.DB) *FaultRepository {
	return &FaultRepository{db: db}
}

// Save append-only: one row per skipped asset
func (r *FaultRepository) Save(ctx context.Context, f *domain.AssetFault) error {
	const q = `
INSERT INTO asset_faults (session_id, asset_id, phase, reason, created_at)
VALUES (?,?,?,?,?);
`
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := r.db.ExecContext(ctx, q,
		stringOrDash(f.SessionID), f.AssetID, stringOrDash(f.Phase), f.Reason, created,
	)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		f.ID = id
	}
	return nil
}

// ListBySession newest first
func (r *FaultRepository) ListBySession(ctx context.Context, session string, limit int) ([]*domain.AssetFault, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, session_id, asset_id, phase, reason, created_at
FROM asset_faults
WHERE session_id=?
ORDER BY created_at DESC
LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, session, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AssetFault
	for rows.Next() {
		var f domain.AssetFault
		if err := rows.Scan(&f.ID, &f.SessionID, &f.AssetID, &f.Phase, &f.Reason, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
