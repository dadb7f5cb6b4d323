package model

// PopularityTier is an ordinal label derived from an agency's rating.
type PopularityTier string

const (
	TierLegendary PopularityTier = "legendary"
	TierFamous    PopularityTier = "famous"
	TierPopular   PopularityTier = "popular"
	TierRising    PopularityTier = "rising"
)

// Rank returns the ordinal position of the tier, rising lowest.
func (t PopularityTier) Rank() int {
	switch t {
	case TierLegendary:
		return 3
	case TierFamous:
		return 2
	case TierPopular:
		return 1
	default:
		return 0
	}
}

// SeedRecord is one hand-curated directory entry before enrichment.
// RatingCount and ProjectsCount are pointers so an absent value can be
// told apart from an explicit zero when applying override precedence.
type SeedRecord struct {
	Company       string   `json:"company" yaml:"company"`
	Repo          string   `json:"repo" yaml:"repo"`
	Logo          string   `json:"logo,omitempty" yaml:"logo,omitempty"`
	RatingCount   *float64 `json:"rating_count,omitempty" yaml:"rating_count,omitempty"`
	ProjectsCount *int     `json:"projects_count,omitempty" yaml:"projects_count,omitempty"`
	Website       string   `json:"website,omitempty" yaml:"website,omitempty"`
}

// RepoOverview holds the externally fetched repository attributes for a
// seed's repo. The zero value means "not found": every consumer must
// tolerate all fields being absent.
type RepoOverview struct {
	Language    string `json:"language,omitempty"`
	Description string `json:"description,omitempty"`
	ForksCount  int    `json:"forks_count,omitempty"`
	HTMLURL     string `json:"html_url,omitempty"`
}

// Agency is the canonical enriched directory entry. It is immutable once
// constructed by the enrichment loader; per-query scores live on the
// ScoredAgency and TrendingEntry wrappers, never on the Agency itself.
type Agency struct {
	Name         string         `json:"agency_name"`
	Domain       string         `json:"domain"`
	Services     []string       `json:"services,omitempty"`
	Rating       float64        `json:"rating_count"`
	ProjectCount int            `json:"projects_count"`
	ImageURL     string         `json:"img_url,omitempty"`
	Repo         string         `json:"repo_link,omitempty"`
	WebsiteURL   string         `json:"website_url,omitempty"`
	Description  string         `json:"description"`
	Popularity   PopularityTier `json:"popularity"`
	CanonicalURL string         `json:"html_url"`
}

// ScoredAgency pairs an agency with its relevance score for one query.
type ScoredAgency struct {
	Agency Agency  `json:"agency"`
	Score  float64 `json:"match_score"`
}

// TrendingEntry pairs an agency with its composite trending score.
type TrendingEntry struct {
	Agency Agency  `json:"agency"`
	Score  float64 `json:"trending_score"`
}
