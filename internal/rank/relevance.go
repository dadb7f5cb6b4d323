// Package rank implements the two read-time scoring passes: the
// relevance scorer behind the conversational matcher and the composite
// trending scorer behind the trending view. Both are deterministic pure
// functions over the enriched working set.
package rank

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/ytheys/agency-radar/internal/model"
)

// Relevance scoring weights. Matching is additive: every satisfied rule
// contributes its points independently.
const (
	domainInPromptPoints  = 30
	serviceInPromptPoints = 20
	keywordInDescPoints   = 5
	keywordInDomainPoints = 10
	keywordInSvcPoints    = 8
	legendaryBonus        = 5
	famousBonus           = 3
	bigPortfolioBonus     = 5
	bigPortfolioThreshold = 1000

	// minKeywordLen excludes short tokens, which are mostly stopwords.
	minKeywordLen = 4

	// MaxMatches caps how many agencies the matcher returns.
	MaxMatches = 3
)

// fold lowercases s with full Unicode case folding so substring checks
// are case-insensitive.
func fold(s string) string {
	return cases.Fold().String(s)
}

// keywordsOf tokenizes a prompt into match keywords: whitespace-separated
// tokens longer than three characters.
func keywordsOf(prompt string) []string {
	var keywords []string
	for _, tok := range strings.Fields(prompt) {
		if utf8.RuneCountInString(tok) >= minKeywordLen {
			keywords = append(keywords, tok)
		}
	}
	return keywords
}

// Relevance scores every agency against the prompt and returns up to
// MaxMatches agencies with a positive score, best first. Ties keep the
// input order. An empty or all-stopword prompt matches nothing.
func Relevance(prompt string, agencies []model.Agency) []model.ScoredAgency {
	folded := fold(prompt)
	keywords := keywordsOf(folded)

	var scored []model.ScoredAgency
	for _, a := range agencies {
		if s := relevanceScore(folded, keywords, a); s > 0 {
			scored = append(scored, model.ScoredAgency{Agency: a, Score: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > MaxMatches {
		scored = scored[:MaxMatches]
	}
	return scored
}

func relevanceScore(prompt string, keywords []string, a model.Agency) float64 {
	domain := fold(a.Domain)
	desc := fold(a.Description)
	services := make([]string, len(a.Services))
	for i, s := range a.Services {
		services[i] = fold(s)
	}

	var score float64

	if strings.Contains(prompt, domain) {
		score += domainInPromptPoints
	}
	for _, svc := range services {
		if strings.Contains(prompt, svc) {
			score += serviceInPromptPoints
		}
	}

	for _, kw := range keywords {
		if desc != "" && strings.Contains(desc, kw) {
			score += keywordInDescPoints
		}
		if strings.Contains(domain, kw) {
			score += keywordInDomainPoints
		}
		for _, svc := range services {
			if strings.Contains(svc, kw) {
				score += keywordInSvcPoints
			}
		}
	}

	switch a.Popularity {
	case model.TierLegendary:
		score += legendaryBonus
	case model.TierFamous:
		score += famousBonus
	}

	if a.ProjectCount > bigPortfolioThreshold {
		score += bigPortfolioBonus
	}

	return score
}
