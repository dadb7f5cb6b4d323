package classify

import "github.com/ytheys/agency-radar/internal/model"

// Popularity maps a rating to its tier. Boundaries are inclusive on the
// lower bound, so a rating of exactly 4.8 is legendary, not famous.
func Popularity(rating float64) model.PopularityTier {
	switch {
	case rating >= 4.8:
		return model.TierLegendary
	case rating >= 4.5:
		return model.TierFamous
	case rating >= 4.0:
		return model.TierPopular
	default:
		return model.TierRising
	}
}
