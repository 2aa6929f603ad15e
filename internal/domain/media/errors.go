package media

import (
	"errors"
	"fmt"
)

// ErrAwaitTimeout indicates maxWait elapsed while the asset was still in
// remote processing. The asset itself stays RemoteProcessing and the wait
// may be retried.
var ErrAwaitTimeout = errors.New("timed out waiting for remote processing")

// UploadError transport failure on the synchronous upload call.
type UploadError struct {
	AssetID string
	Err     error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed for asset %s: %v", e.AssetID, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// ProcessingFailure remote side reported a terminal failure for the asset.
type ProcessingFailure struct {
	AssetID string
	Reason  string
}

func (e *ProcessingFailure) Error() string {
	return fmt.Sprintf("remote processing failed for asset %s: %s", e.AssetID, e.Reason)
}
