package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/ytheys/agency-radar/internal/model"
)

// Trending score composition. Portfolio size dominates, rating is a
// secondary signal, and rising agencies get a fixed visibility boost.
const (
	portfolioWeight = 0.6
	ratingWeight    = 0.3
	risingBoost     = 0.1

	portfolioScale = 5.0
	ratingScale    = 5.0
)

// TrendingScore computes the composite trending score for one agency.
// The portfolio component is log-scaled so a ten-thousand-project shop
// does not drown out everything else.
func TrendingScore(a model.Agency) float64 {
	portfolio := math.Log10(float64(a.ProjectCount)+1) / portfolioScale
	score := portfolio*portfolioWeight + a.Rating/ratingScale*ratingWeight
	if a.Popularity == model.TierRising {
		score += risingBoost
	}
	return score
}

// Trending scores every agency and returns them best first. Ties keep
// the input order.
func Trending(agencies []model.Agency) []model.TrendingEntry {
	entries := make([]model.TrendingEntry, len(agencies))
	for i, a := range agencies {
		entries[i] = model.TrendingEntry{Agency: a, Score: TrendingScore(a)}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

// FilterCriteria narrows a ranked trending list. Zero-valued fields
// match everything, so the zero criteria is a no-op filter.
type FilterCriteria struct {
	// Query is matched as a case-insensitive substring of the agency
	// name, domain, or any service.
	Query string
	// Domain requires an exact, case-insensitive domain match.
	Domain string
	// Popularity requires an exact tier match.
	Popularity model.PopularityTier
}

// Filter applies the criteria to an already ranked list, keeping the
// incoming order. All set criteria must match.
func Filter(entries []model.TrendingEntry, c FilterCriteria) []model.TrendingEntry {
	query := fold(c.Query)
	domain := fold(c.Domain)

	out := make([]model.TrendingEntry, 0, len(entries))
	for _, e := range entries {
		if matches(e.Agency, query, domain, c.Popularity) {
			out = append(out, e)
		}
	}
	return out
}

func matches(a model.Agency, query, domain string, tier model.PopularityTier) bool {
	if query != "" && !matchesQuery(a, query) {
		return false
	}
	if domain != "" && fold(a.Domain) != domain {
		return false
	}
	if tier != "" && a.Popularity != tier {
		return false
	}
	return true
}

func matchesQuery(a model.Agency, query string) bool {
	if strings.Contains(fold(a.Name), query) || strings.Contains(fold(a.Domain), query) {
		return true
	}
	for _, svc := range a.Services {
		if strings.Contains(fold(svc), query) {
			return true
		}
	}
	return false
}
