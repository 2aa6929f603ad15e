package faults

import (
	"context"
)

// Repository defines persistence for asset faults
type Repository interface {
	Save(ctx context.Context, f *AssetFault) error
	ListBySession(ctx context.Context, session string, limit int) ([]*AssetFault, error)
}
