package corpuscache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bryanwahyu/inspection-ai/internal/domain/corpus"
	"github.com/bryanwahyu/inspection-ai/internal/domain/media"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeIngestor struct {
	mu      sync.Mutex
	failFor map[string]bool // base name -> fail upload
	uploads int
}

func (f *fakeIngestor) Upload(ctx context.Context, localPath string) (media.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.failFor[filepath.Base(localPath)] {
		return "", errors.New("upload rejected")
	}
	return media.Handle("file-" + filepath.Base(localPath)), nil
}

func (f *fakeIngestor) Status(ctx context.Context, h media.Handle) (media.RemoteStatus, error) {
	return media.RemoteStatus{State: media.ProcessingStateReady}, nil
}

// writeCorpusDirs lays out a standards dir plus an examples dir with the
// two recognized subfolders and one stray folder.
func writeCorpusDirs(t *testing.T) (standards, examples string) {
	t.Helper()
	root := t.TempDir()
	standards = filepath.Join(root, "building_standards")
	examples = filepath.Join(root, "examples")

	files := map[string]string{
		filepath.Join(standards, "code.pdf"):                "pdf",
		filepath.Join(standards, "electrical.txt"):          "txt",
		filepath.Join(standards, "notes.csv"):               "unsupported",
		filepath.Join(examples, "example1", "report1.docx"): "docx",
		filepath.Join(examples, "example2", "photo.jpg"):    "jpg",
		filepath.Join(examples, "scratch", "leftover.txt"):  "stray subfolder",
	}
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return standards, examples
}

func newCache(t *testing.T, ing *fakeIngestor, clk *fakeClock) *Cache {
	t.Helper()
	standards, examples := writeCorpusDirs(t)
	return &Cache{
		Ingest:       ing,
		StandardsDir: standards,
		ExamplesDir:  examples,
		TTL:          time.Hour,
		Clock:        clk,
		Log:          zerolog.Nop(),
	}
}

func TestLoadCategorizesEntries(t *testing.T) {
	c := newCache(t, &fakeIngestor{}, &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)})

	snap, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// csv and the stray subfolder file are skipped
	if len(snap.Entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(snap.Entries))
	}

	if got := snap.ByCategory(corpus.CategoryStandard); len(got) != 2 {
		t.Errorf("standards = %d, want 2", len(got))
	}
	if got := snap.ByCategory(corpus.CategoryExample1); len(got) != 1 || got[0].Name != "report1.docx" {
		t.Errorf("example1 = %v", got)
	}
	if got := snap.ByCategory(corpus.CategoryExample2); len(got) != 1 || got[0].Name != "photo.jpg" {
		t.Errorf("example2 = %v", got)
	}
}

func TestGetReusesSnapshotWithinTTL(t *testing.T) {
	ing := &fakeIngestor{}
	clk := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := newCache(t, ing, clk)

	first, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	uploadsAfterFirst := ing.uploads

	clk.Advance(59 * time.Minute)
	second, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first != second {
		t.Error("within TTL the exact same snapshot must be returned")
	}
	if ing.uploads != uploadsAfterFirst {
		t.Errorf("uploads = %d, want no re-upload within TTL", ing.uploads)
	}
}

func TestGetReloadsAfterExpiry(t *testing.T) {
	ing := &fakeIngestor{}
	clk := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := newCache(t, ing, clk)

	first, _ := c.Get(context.Background())
	clk.Advance(time.Hour) // elapsed == TTL counts as expired

	second, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get after expiry: %v", err)
	}
	if first == second {
		t.Error("expired snapshot must be replaced")
	}
	if !second.CreatedAt.After(first.CreatedAt) {
		t.Errorf("new snapshot CreatedAt %v not after %v", second.CreatedAt, first.CreatedAt)
	}
}

func TestLoadPartialFailure(t *testing.T) {
	ing := &fakeIngestor{failFor: map[string]bool{"code.pdf": true}}
	c := newCache(t, ing, &fakeClock{t: time.Now()})

	snap, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("one bad document should not fail the load: %v", err)
	}
	if len(snap.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(snap.Entries))
	}
	for _, e := range snap.Entries {
		if e.Name == "code.pdf" {
			t.Error("failed document should be omitted")
		}
	}
}

func TestLoadAllFailed(t *testing.T) {
	ing := &fakeIngestor{failFor: map[string]bool{
		"code.pdf": true, "electrical.txt": true, "report1.docx": true, "photo.jpg": true,
	}}
	c := newCache(t, ing, &fakeClock{t: time.Now()})

	_, err := c.Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to upload") {
		t.Fatalf("all-failed load should error, got %v", err)
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	ing := &fakeIngestor{}
	c := newCache(t, ing, &fakeClock{t: time.Now()})

	first, _ := c.Get(context.Background())
	c.Invalidate()
	second, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get after invalidate: %v", err)
	}
	if first == second {
		t.Error("invalidate must drop the cached snapshot")
	}
}
