package synthesis

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bryanwahyu/inspection-ai/internal/domain/analysis"
	"github.com/bryanwahyu/inspection-ai/internal/domain/corpus"
	"github.com/bryanwahyu/inspection-ai/internal/domain/media"
	"github.com/bryanwahyu/inspection-ai/internal/domain/report"
)

// Orchestrator assembles one analysis request from the cached corpus plus
// the ready user assets, issues exactly one call to the analysis service,
// and turns the response into a validated Report. No caching of its own:
// two Synthesize calls mean two remote calls. A malformed response is
// never retried automatically.
type Orchestrator struct {
	Client analysis.Client
	Log    zerolog.Logger
}

// Synthesize requires every asset to be Ready; anything else is the
// caller's bug and comes back as ErrInvalidState immediately, before any
// remote call is made.
func (o *Orchestrator) Synthesize(ctx context.Context, snap *corpus.Snapshot, readyAssets []*media.Asset) (*report.Report, error) {
	req := analysis.Request{Context: snap.Entries}
	knownFrames := make(map[string]bool)

	for _, a := range readyAssets {
		if st := a.State(); st != media.StateReady {
			return nil, fmt.Errorf("asset %s is %s: %w", a.ID, st, analysis.ErrInvalidState)
		}
		req.Assets = append(req.Assets, analysis.AssetRef{ID: a.ID, Handle: a.RemoteHandle()})
		if a.Kind == media.KindFrame {
			knownFrames[a.ID] = true
		}
	}

	o.Log.Info().Int("assets", len(req.Assets)).Int("context", len(req.Context)).Msg("running analysis")

	raw, err := o.Client.RunAnalysis(ctx, req)
	if err != nil {
		return nil, &analysis.SynthesisError{Reason: "analysis call failed", Err: err}
	}

	rep, err := report.Parse([]byte(raw))
	if err != nil {
		return nil, &analysis.SynthesisError{Reason: "unparseable response", Raw: raw, Err: err}
	}

	if err := rep.Validate(knownFrames); err != nil {
		return nil, &analysis.SynthesisError{Reason: "response failed validation", Raw: raw, Err: err}
	}

	o.Log.Info().Int("findings", len(rep.DetailedInspection)).Msg("report synthesized")
	return rep, nil
}
