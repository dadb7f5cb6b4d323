package directory

import (
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/ytheys/agency-radar/internal/model"
	"github.com/ytheys/agency-radar/internal/rank"
)

// DefaultDebounce is how long a filter session waits for criteria to
// settle before recomputing, so a keystroke burst triggers one pass.
const DefaultDebounce = 300 * time.Millisecond

// FilterSession coalesces rapid criteria updates from one client and
// emits the re-filtered trending list once input settles. It is
// transport-agnostic; the HTTP layer feeds it from a websocket.
type FilterSession struct {
	svc       *Service
	debounced func(func())
	results   chan []model.TrendingEntry

	mu       sync.Mutex
	criteria rank.FilterCriteria
	closed   bool
}

// NewFilterSession opens a session over the service's trending view.
// A zero interval falls back to DefaultDebounce.
func NewFilterSession(svc *Service, interval time.Duration) *FilterSession {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &FilterSession{
		svc:       svc,
		debounced: debounce.New(interval),
		results:   make(chan []model.TrendingEntry, 1),
	}
}

// Update records the latest criteria and schedules a recompute. Calls
// landing within the debounce window replace the pending criteria, so
// only the last one is evaluated.
func (s *FilterSession) Update(c rank.FilterCriteria) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.criteria = c
	s.mu.Unlock()

	s.debounced(s.flush)
}

func (s *FilterSession) flush() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	criteria := s.criteria
	s.mu.Unlock()

	entries := s.svc.Filter(criteria)

	// Keep only the freshest result if the reader is slow.
	select {
	case <-s.results:
	default:
	}
	select {
	case s.results <- entries:
	default:
	}
}

// Results delivers one filtered list per settled criteria change. A
// stale unread result is replaced, never queued.
func (s *FilterSession) Results() <-chan []model.TrendingEntry {
	return s.results
}

// Close stops the session. Pending debounced flushes become no-ops;
// the results channel stays open but receives nothing further.
func (s *FilterSession) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
