package corpuscache

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/bryanwahyu/inspection-ai/internal/domain/corpus"
	"github.com/bryanwahyu/inspection-ai/internal/domain/media"
)

// DefaultTTL after which the corpus must be reloaded.
const DefaultTTL = 60 * time.Minute

// supported reference document extensions, same set as user media
var supportedExtensions = map[string]bool{
	".txt": true, ".pdf": true, ".doc": true, ".docx": true,
	".jpg": true, ".jpeg": true, ".png": true,
}

// exampleCategories maps the immediate parent directory name of an
// example file to its corpus category. Files in other subfolders are
// skipped, not errored.
var exampleCategories = map[string]corpus.Category{
	"example1": corpus.CategoryExample1,
	"example2": corpus.CategoryExample2,
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

// Cache loads the two fixed reference corpora (building standards, worked
// examples) through the same ingestion primitive as user media and keeps
// the result for TTL. Readers always see either the old complete snapshot
// or the new complete one, never a mix: the snapshot pointer is swapped
// whole.
type Cache struct {
	Ingest       media.Ingestor
	StandardsDir string
	ExamplesDir  string
	TTL          time.Duration
	Clock        Clock
	Log          zerolog.Logger

	cur      atomic.Pointer[corpus.Snapshot]
	reloadMu sync.Mutex
}

// Get returns the current snapshot, reloading transparently when the TTL
// has elapsed. Expiry is only ever checked here, lazily; idle periods
// cost nothing. Concurrent callers during a refresh trigger one reload.
func (c *Cache) Get(ctx context.Context) (*corpus.Snapshot, error) {
	if s := c.cur.Load(); s != nil && !s.Expired(c.Clock.Now()) {
		return s, nil
	}

	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	// another caller may have finished the reload while we waited
	if s := c.cur.Load(); s != nil && !s.Expired(c.Clock.Now()) {
		return s, nil
	}
	return c.Load(ctx)
}

// Load walks both directory trees, uploads every supported file and
// replaces the snapshot atomically. One failing document is logged and
// omitted; the load as a whole only fails when nothing could be uploaded.
func (c *Cache) Load(ctx context.Context) (*corpus.Snapshot, error) {
	var entries []corpus.Entry
	var candidates, failed int

	collect := func(path string, cat corpus.Category) {
		candidates++
		h, err := c.Ingest.Upload(ctx, path)
		if err != nil {
			failed++
			c.Log.Warn().Err(err).Str("file", filepath.Base(path)).Str("category", string(cat)).
				Msg("reference document upload failed, omitting")
			return
		}
		entries = append(entries, corpus.Entry{
			Name:     filepath.Base(path),
			Handle:   h,
			Category: cat,
		})
	}

	if err := walkSupported(c.StandardsDir, func(path string) {
		collect(path, corpus.CategoryStandard)
	}); err != nil {
		return nil, fmt.Errorf("walk standards dir: %w", err)
	}

	if err := walkSupported(c.ExamplesDir, func(path string) {
		cat, ok := exampleCategories[filepath.Base(filepath.Dir(path))]
		if !ok {
			c.Log.Debug().Str("file", filepath.Base(path)).Msg("example in unrecognized subfolder, skipping")
			return
		}
		collect(path, cat)
	}); err != nil {
		return nil, fmt.Errorf("walk examples dir: %w", err)
	}

	if candidates > 0 && len(entries) == 0 {
		return nil, fmt.Errorf("corpus load: all %d reference documents failed to upload", candidates)
	}

	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	snap := &corpus.Snapshot{
		Entries:   entries,
		CreatedAt: c.Clock.Now(),
		TTL:       ttl,
	}
	c.cur.Store(snap)

	c.Log.Info().Int("entries", len(entries)).Int("failed", failed).Msg("reference corpus loaded")
	return snap, nil
}

// Invalidate drops the snapshot so the next Get reloads.
func (c *Cache) Invalidate() {
	c.cur.Store(nil)
}

func walkSupported(root string, fn func(path string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			fn(path)
		}
		return nil
	})
}
