package analysis

import (
	"errors"
	"fmt"
)

// ErrInvalidState indicates a non-ready asset was passed into synthesis.
// Programming error on the caller's side, not a recoverable runtime one.
var ErrInvalidState = errors.New("asset is not in ready state")

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// SynthesisError fails the whole report attempt. Raw carries the
// unmodified response text for diagnostics; no partial report exists.
type SynthesisError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *SynthesisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("synthesis failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("synthesis failed: %s", e.Reason)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
