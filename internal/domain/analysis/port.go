package analysis

import (
	"context"

	"github.com/bryanwahyu/inspection-ai/internal/domain/corpus"
	"github.com/bryanwahyu/inspection-ai/internal/domain/media"
)

// AssetRef pairs an asset id with its remote handle so the service can
// label each piece of user media in the request.
type AssetRef struct {
	ID     string
	Handle media.Handle
}

// Request is the single composed analysis request: reference corpus as
// background context plus the full list of ready user assets. The fixed
// instruction prompt is owned by the client implementation.
type Request struct {
	Context []corpus.Entry
	Assets  []AssetRef
}

// Client port (interface ke external analysis service)
type Client interface {
	RunAnalysis(ctx context.Context, req Request) (string, error)
}
