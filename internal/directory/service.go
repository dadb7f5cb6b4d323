// Package directory holds the enriched working set and exposes the
// query operations the HTTP and CLI surfaces are built on: conversational
// matching, trending ranking and filtered views.
package directory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ytheys/agency-radar/internal/enrich"
	"github.com/ytheys/agency-radar/internal/model"
	"github.com/ytheys/agency-radar/internal/rank"
)

// Assistant messages returned by Match. The found message is completed
// with the match count.
const (
	msgFound      = "Based on your project requirements, I've found %d highly suitable agencies for you:"
	msgNoMatch    = "I couldn't find any agencies that closely match your requirements. Try being more specific about the technologies or services you need."
	msgStillEmpty = "The agency directory is still loading. Please try again in a moment."
)

// MatchResult is one assistant turn of the conversational matcher.
type MatchResult struct {
	ID      string               `json:"id"`
	Message string               `json:"message"`
	Matches []model.ScoredAgency `json:"matches,omitempty"`
}

// Snapshot describes the state of the working set for health reporting.
type Snapshot struct {
	SeedCount    int           `json:"seed_count"`
	AgencyCount  int           `json:"agency_count"`
	LoadedAt     time.Time     `json:"loaded_at"`
	LoadDuration time.Duration `json:"load_duration"`
}

// Service owns the in-memory agency working set. Load builds the set
// from the seeds via the enrichment loader; every read operation works
// on an immutable snapshot so queries never observe a partial reload.
type Service struct {
	loader *enrich.Loader
	seeds  []model.SeedRecord

	mu           sync.RWMutex
	agencies     []model.Agency
	loadedAt     time.Time
	loadDuration time.Duration
}

// NewService wires a service around its seed dataset and loader. The
// working set is empty until Load runs.
func NewService(loader *enrich.Loader, seeds []model.SeedRecord) *Service {
	return &Service{loader: loader, seeds: seeds}
}

// Load enriches the seed dataset and swaps in the new working set. It
// can be called again to refresh; readers keep the previous set until
// the swap.
func (s *Service) Load(ctx context.Context) error {
	start := time.Now()
	agencies, err := s.loader.Enrich(ctx, s.seeds)
	if err != nil {
		return eris.Wrap(err, "directory: enrich seeds")
	}

	s.mu.Lock()
	s.agencies = agencies
	s.loadedAt = time.Now()
	s.loadDuration = time.Since(start)
	s.mu.Unlock()

	zap.S().Infow("directory loaded",
		"seeds", len(s.seeds),
		"agencies", len(agencies),
		"duration", time.Since(start))
	return nil
}

// Agencies returns a copy of the current working set in seed order.
func (s *Service) Agencies() []model.Agency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Agency, len(s.agencies))
	copy(out, s.agencies)
	return out
}

// Ready reports whether the working set has been loaded at least once.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loadedAt.IsZero()
}

// Match runs the relevance scorer for one prompt and wraps the result
// in an assistant message. An unloaded directory and an unmatched
// prompt produce distinct messages; neither is an error.
func (s *Service) Match(prompt string) MatchResult {
	res := MatchResult{ID: uuid.NewString()}

	if !s.Ready() {
		res.Message = msgStillEmpty
		return res
	}

	// A blank prompt never matches; popularity bonuses only apply once
	// there is something to score against.
	if strings.TrimSpace(prompt) == "" {
		res.Message = msgNoMatch
		return res
	}

	matches := rank.Relevance(prompt, s.Agencies())
	if len(matches) == 0 {
		res.Message = msgNoMatch
		return res
	}

	res.Message = fmt.Sprintf(msgFound, len(matches))
	res.Matches = matches
	return res
}

// Trending returns the full working set ranked by trending score.
func (s *Service) Trending() []model.TrendingEntry {
	return rank.Trending(s.Agencies())
}

// Filter returns the ranked trending list narrowed by the criteria.
func (s *Service) Filter(c rank.FilterCriteria) []model.TrendingEntry {
	return rank.Filter(s.Trending(), c)
}

// Stats returns a point-in-time view of the working set.
func (s *Service) Stats() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		SeedCount:    len(s.seeds),
		AgencyCount:  len(s.agencies),
		LoadedAt:     s.loadedAt,
		LoadDuration: s.loadDuration,
	}
}
