package inspection

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bryanwahyu/inspection-ai/internal/application/assets"
	"github.com/bryanwahyu/inspection-ai/internal/application/corpuscache"
	"github.com/bryanwahyu/inspection-ai/internal/application/frames"
	"github.com/bryanwahyu/inspection-ai/internal/application/synthesis"
	"github.com/bryanwahyu/inspection-ai/internal/domain/media"
	"github.com/bryanwahyu/inspection-ai/internal/domain/report"
	"github.com/bryanwahyu/inspection-ai/internal/render"
)

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

// Service implements the session surface: one inspection session holding
// the corpus cache, the tracked assets and the last report. Lifecycle is
// explicit New/Reset, no ambient globals.
type Service struct {
	Sampler   *frames.Sampler
	Tracker   *assets.Tracker
	Corpus    *corpuscache.Cache
	Synth     *synthesis.Orchestrator
	Reports   report.Repository    // optional, may be nil
	Artifacts report.ArtifactStore // optional, may be nil
	Clock     Clock
	Log       zerolog.Logger

	FramesDir      string
	SampleInterval time.Duration
	PollInterval   time.Duration
	MaxWait        time.Duration

	mu         sync.Mutex
	sessionID  string
	assets     map[string]*media.Asset
	lastReport *report.Report
	lastJSON   []byte
	lastPDF    []byte
}

// Start opens the first session.
func (s *Service) Start() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetLocked()
}

// SessionID of the active session, empty before Start.
func (s *Service) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Reset destroys local session state: tracked assets, last report and the
// extracted frame files. Returns the new session id.
func (s *Service) Reset() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.RemoveAll(s.FramesDir); err != nil {
		s.Log.Warn().Err(err).Str("dir", s.FramesDir).Msg("could not remove frame files")
	}
	return s.resetLocked()
}

func (s *Service) resetLocked() string {
	s.sessionID = uuid.New().String()
	s.assets = make(map[string]*media.Asset)
	s.lastReport = nil
	s.lastJSON = nil
	s.lastPDF = nil
	s.Tracker.SetSession(s.sessionID)
	s.Log.Info().Str("session", s.sessionID).Msg("session opened")
	return s.sessionID
}

// ProcessVideo samples the walkthrough video into frames and drives the
// video plus every frame through the upload lifecycle. Independent assets
// are submitted and awaited concurrently; a failed asset is logged and
// excluded, it never aborts its siblings.
func (s *Service) ProcessVideo(ctx context.Context, videoPath string) ([]string, error) {
	frameAssets, err := s.Sampler.Sample(ctx, videoPath, s.SampleInterval)
	if err != nil {
		return nil, err
	}
	if len(frameAssets) == 0 {
		return nil, fmt.Errorf("no frames could be extracted from %s", videoPath)
	}

	now := s.Clock.Now()
	videoAsset := media.NewAsset(videoAssetID(videoPath), media.KindVideo, videoPath, now)

	batch := make([]*media.Asset, 0, len(frameAssets)+1)
	batch = append(batch, videoAsset)
	for _, a := range frameAssets {
		batch = append(batch, a)
	}

	var wg sync.WaitGroup
	for _, a := range batch {
		wg.Add(1)
		go func(a *media.Asset) {
			defer wg.Done()
			if err := s.Tracker.Submit(ctx, a); err != nil {
				s.Log.Warn().Err(err).Str("asset", a.ID).Msg("asset submission failed")
				return
			}
			if a.State() == media.StateRemoteProcessing {
				if _, err := s.Tracker.AwaitReady(ctx, a, s.PollInterval, s.MaxWait); err != nil {
					s.Log.Warn().Err(err).Str("asset", a.ID).Msg("asset did not become ready")
				}
			}
		}(a)
	}
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(batch))
	for _, a := range batch {
		s.assets[a.ID] = a
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// GenerateReport runs one full synthesis over the ready assets of this
// session, renders both exports and archives/persists them. A failed or
// still-processing asset is skipped; synthesis proceeds with the rest.
func (s *Service) GenerateReport(ctx context.Context) (*report.Report, error) {
	snap, err := s.Corpus.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("reference corpus: %w", err)
	}

	s.mu.Lock()
	session := s.sessionID
	ready := make([]*media.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		if a.State() == media.StateReady {
			ready = append(ready, a)
		} else {
			s.Log.Warn().Str("asset", a.ID).Str("state", string(a.State())).Msg("asset excluded from synthesis")
		}
	}
	s.mu.Unlock()

	if len(ready) == 0 {
		return nil, fmt.Errorf("no ready assets in session %s", session)
	}

	rep, err := s.Synth.Synthesize(ctx, snap, ready)
	if err != nil {
		return nil, err
	}

	jsonBytes, pdfBytes, rec := s.renderAndArchive(ctx, session, rep)

	s.mu.Lock()
	s.lastReport = rep
	s.lastJSON = jsonBytes
	s.lastPDF = pdfBytes
	s.mu.Unlock()

	if s.Reports != nil {
		if err := s.Reports.Save(ctx, rec); err != nil {
			s.Log.Warn().Err(err).Str("report", string(rec.ID)).Msg("could not persist report record")
		}
	}
	return rep, nil
}

// renderAndArchive produces both exports and uploads them to the
// artifact store when one is configured. Render or archive trouble is
// logged, not fatal: the validated report itself already exists.
func (s *Service) renderAndArchive(ctx context.Context, session string, rep *report.Report) ([]byte, []byte, *report.Record) {
	now := s.Clock.Now()
	rec := &report.Record{
		ID:               report.RecordID(uuid.New().String()),
		SessionID:        session,
		CreatedAt:        now,
		OverallCondition: rep.ExecutiveSummary.OverallCondition,
		FindingsTotal:    len(rep.DetailedInspection),
		CriticalIssues:   rep.CriticalCount(),
	}

	jsonBytes, err := render.JSON(rep)
	if err != nil {
		s.Log.Error().Err(err).Msg("json export failed")
	} else {
		rec.ReportJSON = string(jsonBytes)
	}

	pdfBytes, err := render.PDF(rep, s.FramesDir, now)
	if err != nil {
		s.Log.Error().Err(err).Msg("pdf export failed")
	}

	if s.Artifacts != nil {
		if jsonBytes != nil {
			key := fmt.Sprintf("%s/%s/report.json", session, rec.ID)
			if url, err := s.Artifacts.Put(ctx, key, jsonBytes, "application/json"); err != nil {
				s.Log.Warn().Err(err).Str("key", key).Msg("could not archive json export")
			} else {
				rec.JSONURL = url
			}
		}
		if pdfBytes != nil {
			key := fmt.Sprintf("%s/%s/report.pdf", session, rec.ID)
			if url, err := s.Artifacts.Put(ctx, key, pdfBytes, "application/pdf"); err != nil {
				s.Log.Warn().Err(err).Str("key", key).Msg("could not archive pdf export")
			} else {
				rec.PDFURL = url
			}
		}
	}

	return jsonBytes, pdfBytes, rec
}

func videoAssetID(videoPath string) string {
	return filepath.Base(videoPath)
}

// ReportJSON returns the structured-data export of the last report.
func (s *Service) ReportJSON() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastJSON, s.lastJSON != nil
}

// ReportPDF returns the formatted-document export of the last report.
func (s *Service) ReportPDF() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPDF, s.lastPDF != nil
}
