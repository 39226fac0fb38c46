// Package dedupe remembers the sale ids earlier refresh cycles have shown, so
// a cycle can flag the listings that just appeared.
package dedupe

import (
	"sync"

	"github.com/okian/tavern/internal/domain/model"
)

// DefaultMaxSize bounds the seen set unless WithMaxSize says otherwise.
const DefaultMaxSize = 50000

// Tracker records seen sale ids.
type Tracker interface {
	// SeenAndRecord reports whether id was already recorded and records it
	// if not.
	SeenAndRecord(id string) bool

	Size() int
}

// seenSet is a bounded set of ids. When full, the oldest recorded id is
// evicted first. maxSize <= 0 means unbounded.
type seenSet struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // ring of recorded ids, oldest at head, bounded mode only
	head    int
	maxSize int
}

// NewTracker creates an in-memory Tracker.
func NewTracker(opts ...Option) Tracker {
	s := &seenSet{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(s)
	}
	s.seen = make(map[string]struct{})
	if s.maxSize > 0 {
		s.order = make([]string, 0, min(s.maxSize, 1024))
	}
	return s
}

func (s *seenSet) SeenAndRecord(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[id]; ok {
		return true
	}
	if s.maxSize > 0 {
		if len(s.order) < s.maxSize {
			s.order = append(s.order, id)
		} else {
			delete(s.seen, s.order[s.head])
			s.order[s.head] = id
			s.head = (s.head + 1) % s.maxSize
		}
	}
	s.seen[id] = struct{}{}
	return false
}

func (s *seenSet) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// MarkNew sets New on every listing whose sale id t had not recorded yet,
// records those ids, and returns how many were new.
func MarkNew(t Tracker, listings []model.Listing) int {
	n := 0
	for i := range listings {
		listings[i].New = !t.SeenAndRecord(listings[i].SaleID)
		if listings[i].New {
			n++
		}
	}
	return n
}
