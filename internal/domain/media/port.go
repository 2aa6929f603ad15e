package media

import "context"

// ProcessingState status asset di sisi remote
type ProcessingState string

const (
	ProcessingStatePending ProcessingState = "processing"
	ProcessingStateReady   ProcessingState = "ready"
	ProcessingStateFailed  ProcessingState = "failed"
)

// RemoteStatus hasil satu poll ke ingestion endpoint
type RemoteStatus struct {
	State  ProcessingState
	Reason string // filled only on failure, kept verbatim
}

// Ingestor port (interface ke remote ingestion endpoint). Reference
// documents and user media go through the same implementation.
type Ingestor interface {
	Upload(ctx context.Context, localPath string) (Handle, error)
	Status(ctx context.Context, h Handle) (RemoteStatus, error)
}
