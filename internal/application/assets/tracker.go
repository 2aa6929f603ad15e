package assets

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bryanwahyu/inspection-ai/internal/domain/faults"
	"github.com/bryanwahyu/inspection-ai/internal/domain/media"
)

// DefaultPollInterval matches the remote service's processing cadence.
const DefaultPollInterval = 10 * time.Second

// Tracker drives each asset through the remote ingestion lifecycle:
// Local -> Uploading -> RemoteProcessing -> Ready/Failed. Independent
// assets may be submitted and awaited concurrently; state per asset is
// private so there is no cross-asset locking.
type Tracker struct {
	Ingest media.Ingestor
	Faults faults.Repository // optional audit trail, may be nil
	Clock  Clock
	Log    zerolog.Logger

	mu      sync.Mutex
	session string // stamped on fault rows
}

// SetSession sets the session id stamped on subsequent fault rows. Safe
// while per-asset goroutines are still submitting or awaiting.
func (t *Tracker) SetSession(id string) {
	t.mu.Lock()
	t.session = id
	t.mu.Unlock()
}

// Session returns the session id fault rows are currently stamped with.
func (t *Tracker) Session() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

// Submit uploads the asset synchronously. Videos come back in
// RemoteProcessing and must be awaited; images, documents and frames do
// not need asynchronous remote processing and go straight to Ready.
// Transport failure moves the asset to terminal Failed.
func (t *Tracker) Submit(ctx context.Context, a *media.Asset) error {
	a.MarkUploading()

	h, err := t.Ingest.Upload(ctx, a.LocalPath)
	if err != nil {
		a.MarkFailed(err.Error())
		t.recordFault(ctx, a, "upload", err.Error())
		return &media.UploadError{AssetID: a.ID, Err: err}
	}

	if a.Kind == media.KindVideo {
		a.MarkRemoteProcessing(h)
		t.Log.Info().Str("asset", a.ID).Str("handle", string(h)).Msg("asset accepted, remote processing")
		return nil
	}

	a.MarkReady(h)
	t.Log.Info().Str("asset", a.ID).Str("handle", string(h)).Msg("asset uploaded")
	return nil
}

// AwaitReady polls the remote status every pollInterval until the asset
// is ready, failed, maxWait elapses or ctx is cancelled. On timeout the
// asset stays RemoteProcessing (it may still complete later) and the
// caller decides whether to re-await or abandon. Cancellation simply
// stops polling; the last observed state stays intact.
func (t *Tracker) AwaitReady(ctx context.Context, a *media.Asset, pollInterval, maxWait time.Duration) (*media.Asset, error) {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	for {
		switch a.State() {
		case media.StateReady:
			return a, nil
		case media.StateFailed:
			return nil, &media.ProcessingFailure{AssetID: a.ID, Reason: a.FailReason()}
		}

		st, err := t.Ingest.Status(ctx, a.RemoteHandle())
		if err == nil {
			switch st.State {
			case media.ProcessingStateReady:
				a.MarkReady("")
				t.Log.Info().Str("asset", a.ID).Msg("remote processing complete")
				return a, nil
			case media.ProcessingStateFailed:
				a.MarkFailed(st.Reason)
				t.recordFault(ctx, a, "remote", st.Reason)
				return nil, &media.ProcessingFailure{AssetID: a.ID, Reason: st.Reason}
			}
		} else {
			// transient poll error: keep polling until the deadline
			t.Log.Warn().Err(err).Str("asset", a.ID).Msg("status poll failed")
		}

		if maxWait <= 0 {
			return nil, media.ErrAwaitTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
			maxWait -= pollInterval
		}
	}
}

func (t *Tracker) recordFault(ctx context.Context, a *media.Asset, phase, reason string) {
	if t.Faults == nil {
		return
	}
	f := &faults.AssetFault{
		SessionID: t.Session(),
		AssetID:   a.ID,
		Phase:     phase,
		Reason:    reason,
		CreatedAt: t.Clock.Now(),
	}
	if err := t.Faults.Save(ctx, f); err != nil {
		t.Log.Warn().Err(err).Str("asset", a.ID).Msg("could not persist asset fault")
	}
}
