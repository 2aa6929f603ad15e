package report

import (
	"context"
	"time"
)

// RecordID identifier type
type RecordID string

// Record is the persisted row for one generated report.
type Record struct {
	ID               RecordID  `json:"id"`
	SessionID        string    `json:"session_id"`
	CreatedAt        time.Time `json:"created_at"`
	OverallCondition string    `json:"overall_condition"`
	FindingsTotal    int       `json:"findings_total"`
	CriticalIssues   int       `json:"critical_issues"`
	JSONURL          string    `json:"json_url,omitempty"`
	PDFURL           string    `json:"pdf_url,omitempty"`
	ReportJSON       string    `json:"report_json,omitempty"`
}

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, session string, id RecordID) (*Record, error)
	Latest(ctx context.Context, session string, limit int) ([]*Record, error)
}

// ArtifactStore port (interface untuk penyimpanan artefak render)
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
