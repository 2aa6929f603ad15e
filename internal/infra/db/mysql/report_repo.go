package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/inspection-ai/internal/domain/report"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save insert/update report record
func (r *ReportRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO inspection_reports
(id, session_id, created_at, overall_condition,
 findings_total, critical_issues,
 json_url, pdf_url, report_json)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 overall_condition=VALUES(overall_condition),
 findings_total=VALUES(findings_total), critical_issues=VALUES(critical_issues),
 json_url=VALUES(json_url), pdf_url=VALUES(pdf_url), report_json=VALUES(report_json);
`
	session := stringOrDash(rec.SessionID)
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		rec.ID, session, created, rec.OverallCondition,
		rec.FindingsTotal, rec.CriticalIssues,
		rec.JSONURL, rec.PDFURL, rec.ReportJSON,
	)
	return err
}

// Get by ID + session
func (r *ReportRepository) Get(ctx context.Context, session string, id domain.RecordID) (*domain.Record, error) {
	const q = `
SELECT id, session_id, created_at, overall_condition,
       findings_total, critical_issues,
       json_url, pdf_url, report_json
FROM inspection_reports
WHERE session_id=? AND id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, session, id)

	var rec domain.Record
	if err := row.Scan(
		&rec.ID, &rec.SessionID, &rec.CreatedAt, &rec.OverallCondition,
		&rec.FindingsTotal, &rec.CriticalIssues,
		&rec.JSONURL, &rec.PDFURL, &rec.ReportJSON,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Latest reports per session
func (r *ReportRepository) Latest(ctx context.Context, session string, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
SELECT id, session_id, created_at, overall_condition,
       findings_total, critical_issues,
       json_url, pdf_url, report_json
FROM inspection_reports
WHERE session_id=?
ORDER BY created_at DESC
LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, session, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.CreatedAt, &rec.OverallCondition,
			&rec.FindingsTotal, &rec.CriticalIssues,
			&rec.JSONURL, &rec.PDFURL, &rec.ReportJSON,
		); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
