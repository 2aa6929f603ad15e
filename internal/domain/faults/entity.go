package faults

import "time"

// AssetFault represents a persisted per-item failure entry. Batch
// operations skip the failing item but the skip is recorded here so it
// stays diagnosable after the fact.
type AssetFault struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	AssetID   string    `json:"asset_id"`
	Phase     string    `json:"phase,omitempty"` // sample | upload | remote | corpus
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
