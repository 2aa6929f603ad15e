package inspection

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bryanwahyu/inspection-ai/internal/application/assets"
	"github.com/bryanwahyu/inspection-ai/internal/application/corpuscache"
	"github.com/bryanwahyu/inspection-ai/internal/application/frames"
	"github.com/bryanwahyu/inspection-ai/internal/application/synthesis"
	"github.com/bryanwahyu/inspection-ai/internal/domain/analysis"
	"github.com/bryanwahyu/inspection-ai/internal/domain/media"
	"github.com/bryanwahyu/inspection-ai/internal/domain/report"
	"github.com/bryanwahyu/inspection-ai/internal/domain/video"
)

const analysisResponse = `{
  "detailedInspection": [
    {
      "area": "Living Room",
      "mediaReference": "frame_0",
      "condition": "Cracked window pane",
      "complianceStatus": "Non-compliant",
      "issuesFound": ["Broken glazing"]
    }
  ],
  "executiveSummary": {
    "overallCondition": "Fair",
    "criticalIssues": ["Broken glazing"],
    "recommendedActions": ["Replace pane"]
  },
  "maintenanceNotes": {
    "recurringIssues": [],
    "preventiveRecommendations": [],
    "maintenanceSchedule": [],
    "costConsiderations": []
  }
}`

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeStream struct{ duration float64 }

func (s *fakeStream) Duration() float64         { return s.duration }
func (s *fakeStream) FPS() float64              { return 30 }
func (s *fakeStream) Seek(offsetMS int64) error { return nil }
func (s *fakeStream) ReadFrame() ([]byte, error) {
	// A real (tiny) JPEG: the frames end up embedded in the PDF export,
	// which fails on bytes gofpdf cannot decode.
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
func (s *fakeStream) Close() error { return nil }

type fakeDecoder struct{ duration float64 }

func (d *fakeDecoder) Open(path string) (video.Stream, error) {
	return &fakeStream{duration: d.duration}, nil
}

type fakeIngestor struct {
	mu      sync.Mutex
	uploads int
}

func (f *fakeIngestor) Upload(ctx context.Context, localPath string) (media.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	return media.Handle("file-" + filepath.Base(localPath)), nil
}

func (f *fakeIngestor) Status(ctx context.Context, h media.Handle) (media.RemoteStatus, error) {
	return media.RemoteStatus{State: media.ProcessingStateReady}, nil
}

type fakeAnalysisClient struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeAnalysisClient) RunAnalysis(ctx context.Context, r analysis.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return analysisResponse, nil
}

type fakeReportRepo struct {
	mu    sync.Mutex
	saved []*report.Record
}

func (f *fakeReportRepo) Save(ctx context.Context, rec *report.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeReportRepo) Get(ctx context.Context, session string, id report.RecordID) (*report.Record, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeReportRepo) Latest(ctx context.Context, session string, limit int) ([]*report.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved, nil
}

type fakeArtifactStore struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeArtifactStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return "https://artifacts.local/" + key, nil
}

func writeCorpus(t *testing.T) (standards, examples string) {
	t.Helper()
	root := t.TempDir()
	standards = filepath.Join(root, "standards")
	examples = filepath.Join(root, "examples", "example1")
	for _, dir := range []string{standards, examples} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(standards, "code.pdf"), []byte("pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	return standards, filepath.Dir(examples)
}

func newService(t *testing.T, client *fakeAnalysisClient, repo *fakeReportRepo, store *fakeArtifactStore) *Service {
	t.Helper()
	clk := fixedClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	ing := &fakeIngestor{}
	standards, examples := writeCorpus(t)
	framesDir := filepath.Join(t.TempDir(), "extracted_frames")

	// Assign the optional interfaces only from non-nil pointers so the
	// service's nil checks see a nil interface, not a typed-nil pointer.
	var reports report.Repository
	if repo != nil {
		reports = repo
	}
	var artifacts report.ArtifactStore
	if store != nil {
		artifacts = store
	}

	svc := &Service{
		Sampler: &frames.Sampler{
			Decoder: &fakeDecoder{duration: 12},
			Dir:     framesDir,
			Clock:   clk,
			Log:     zerolog.Nop(),
		},
		Tracker: &assets.Tracker{Ingest: ing, Clock: clk, Log: zerolog.Nop()},
		Corpus: &corpuscache.Cache{
			Ingest:       ing,
			StandardsDir: standards,
			ExamplesDir:  examples,
			TTL:          time.Hour,
			Clock:        clk,
			Log:          zerolog.Nop(),
		},
		Synth:          &synthesis.Orchestrator{Client: client, Log: zerolog.Nop()},
		Reports:        reports,
		Artifacts:      artifacts,
		Clock:          clk,
		Log:            zerolog.Nop(),
		FramesDir:      framesDir,
		SampleInterval: 5 * time.Second,
		PollInterval:   time.Millisecond,
		MaxWait:        time.Second,
	}
	svc.Start()
	return svc
}

func TestProcessVideoTracksVideoAndFrames(t *testing.T) {
	svc := newService(t, &fakeAnalysisClient{}, nil, nil)

	ids, err := svc.ProcessVideo(context.Background(), filepath.Join(t.TempDir(), "walkthrough.mp4"))
	if err != nil {
		t.Fatalf("ProcessVideo: %v", err)
	}
	// 12s at 5s interval: video asset plus frames 0, 5, 10
	if len(ids) != 4 {
		t.Fatalf("asset ids = %v, want 4", ids)
	}
	found := map[string]bool{}
	for _, id := range ids {
		found[id] = true
	}
	for _, want := range []string{"walkthrough.mp4", "frame_0", "frame_5", "frame_10"} {
		if !found[want] {
			t.Errorf("missing asset %s in %v", want, ids)
		}
	}
}

func TestGenerateReportEndToEnd(t *testing.T) {
	client := &fakeAnalysisClient{}
	repo := &fakeReportRepo{}
	store := &fakeArtifactStore{}
	svc := newService(t, client, repo, store)

	if _, err := svc.ProcessVideo(context.Background(), "walkthrough.mp4"); err != nil {
		t.Fatalf("ProcessVideo: %v", err)
	}

	rep, err := svc.GenerateReport(context.Background())
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if rep.ExecutiveSummary.OverallCondition != "Fair" {
		t.Errorf("overallCondition = %q", rep.ExecutiveSummary.OverallCondition)
	}
	if client.calls != 1 {
		t.Errorf("analysis calls = %d, want 1", client.calls)
	}

	jsonData, ok := svc.ReportJSON()
	if !ok || len(jsonData) == 0 {
		t.Error("json export missing")
	}
	pdfData, ok := svc.ReportPDF()
	if !ok || string(pdfData[:4]) != "%PDF" {
		t.Error("pdf export missing or malformed")
	}

	if len(repo.saved) != 1 {
		t.Fatalf("persisted records = %d, want 1", len(repo.saved))
	}
	rec := repo.saved[0]
	if rec.SessionID != svc.SessionID() {
		t.Errorf("record session = %q, want %q", rec.SessionID, svc.SessionID())
	}
	if rec.CriticalIssues != 1 || rec.FindingsTotal != 1 {
		t.Errorf("record counters = %+v", rec)
	}
	if len(store.keys) != 2 {
		t.Errorf("archived artifacts = %v, want json and pdf", store.keys)
	}
}

func TestGenerateReportWithoutAssets(t *testing.T) {
	svc := newService(t, &fakeAnalysisClient{}, nil, nil)
	if _, err := svc.GenerateReport(context.Background()); err == nil {
		t.Fatal("report without any ready assets should fail")
	}
}

func TestGenerateReportTwiceCallsAnalysisTwice(t *testing.T) {
	client := &fakeAnalysisClient{}
	svc := newService(t, client, nil, nil)
	if _, err := svc.ProcessVideo(context.Background(), "walkthrough.mp4"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.GenerateReport(context.Background()); err != nil {
			t.Fatalf("GenerateReport #%d: %v", i+1, err)
		}
	}
	if client.calls != 2 {
		t.Errorf("analysis calls = %d, reports are never served from cache", client.calls)
	}
}

func TestResetClearsSessionState(t *testing.T) {
	svc := newService(t, &fakeAnalysisClient{}, nil, nil)
	first := svc.SessionID()

	if _, err := svc.ProcessVideo(context.Background(), "walkthrough.mp4"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GenerateReport(context.Background()); err != nil {
		t.Fatal(err)
	}

	second := svc.Reset()
	if second == first {
		t.Error("reset must open a fresh session id")
	}
	if _, ok := svc.ReportJSON(); ok {
		t.Error("reset must drop the last report")
	}
	if _, err := os.Stat(svc.FramesDir); !os.IsNotExist(err) {
		t.Errorf("frames dir should be removed, stat err = %v", err)
	}
	if _, err := svc.GenerateReport(context.Background()); err == nil {
		t.Error("assets must not survive a reset")
	}
	if got := svc.Tracker.Session(); got != second {
		t.Errorf("tracker session = %q, want %q", got, second)
	}
}

func TestResetKeepsCorpusCache(t *testing.T) {
	svc := newService(t, &fakeAnalysisClient{}, nil, nil)
	ing := svc.Corpus.Ingest.(*fakeIngestor)

	if _, err := svc.Corpus.Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := ing.uploads
	svc.Reset()
	if _, err := svc.Corpus.Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	if ing.uploads != before {
		t.Errorf("uploads = %d, corpus cache must survive a session reset", ing.uploads)
	}
}
