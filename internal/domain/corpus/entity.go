package corpus

import (
	"time"

	"github.com/bryanwahyu/inspection-ai/internal/domain/media"
)

// Category enum
type Category string

const (
	CategoryStandard Category = "standard"
	CategoryExample1 Category = "example1"
	CategoryExample2 Category = "example2"
)

// Entry is one uploaded reference document. Immutable once loaded.
type Entry struct {
	Name     string       `json:"name"`
	Handle   media.Handle `json:"handle"`
	Category Category     `json:"category"`
}

// Snapshot is the whole corpus at one point in time. It is replaced
// atomically on refresh, never mutated entry-by-entry, so a synthesis in
// flight always sees a consistent set.
type Snapshot struct {
	Entries   []Entry       `json:"entries"`
	CreatedAt time.Time     `json:"created_at"`
	TTL       time.Duration `json:"ttl"`
}

// Expired lazy TTL check, dipanggil saat Get()
func (s *Snapshot) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) >= s.TTL
}

// ByCategory filters entries without copying handles.
func (s *Snapshot) ByCategory(c Category) []Entry {
	var out []Entry
	for _, e := range s.Entries {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}
