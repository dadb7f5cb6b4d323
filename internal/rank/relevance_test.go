package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytheys/agency-radar/internal/classify"
	"github.com/ytheys/agency-radar/internal/model"
)

func webAgency(name string) model.Agency {
	return model.Agency{
		Name:        name,
		Domain:      classify.DomainWeb,
		Services:    classify.ServicesFor(classify.DomainWeb),
		Rating:      4.2,
		Description: "Full-stack web development and modern frontend engineering.",
		Popularity:  model.TierPopular,
	}
}

func TestKeywordsOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prompt string
		want   []string
	}{
		{"drops short tokens", "go do it now cloud", []string{"cloud"}},
		{"keeps four char tokens", "need apps", []string{"need", "apps"}},
		{"empty prompt", "", nil},
		{"only whitespace", "   \t\n", nil},
		{"all short", "a an it go", nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, keywordsOf(tt.prompt))
		})
	}
}

func TestRelevance_DomainAndServiceMatches(t *testing.T) {
	t.Parallel()

	devops := model.Agency{
		Name:       "Cloudsmiths",
		Domain:     classify.DomainDevOps,
		Services:   []string{"Cloud Migration (AWS/Azure)", "CI/CD Pipeline Setup", "Kubernetes Orchestration"},
		Rating:     4.6,
		Popularity: model.TierFamous,
	}

	// "cloud infrastructure" does not contain the full domain string, but
	// the keyword "cloud" hits both the domain and the first service.
	got := Relevance("I need help with cloud infrastructure", []model.Agency{devops, webAgency("Webworks")})

	require.Len(t, got, 1)
	assert.Equal(t, "Cloudsmiths", got[0].Agency.Name)
	// +10 keyword in domain, +8 keyword in service, +3 famous.
	assert.InDelta(t, 21.0, got[0].Score, 1e-9)
}

func TestRelevance_FullDomainInPrompt(t *testing.T) {
	t.Parallel()

	a := webAgency("Webworks")
	got := Relevance("looking for a web development partner", []model.Agency{a})

	require.Len(t, got, 1)
	// +30 full domain, +10 keyword "development" in domain, +5 keyword
	// "development" in description.
	assert.InDelta(t, 45.0, got[0].Score, 1e-9)
}

func TestRelevance_ShortPromptMatchesNothing(t *testing.T) {
	t.Parallel()

	got := Relevance("go do it", []model.Agency{webAgency("Webworks")})
	assert.Empty(t, got)
}

func TestRelevance_TopThreeCap(t *testing.T) {
	t.Parallel()

	agencies := []model.Agency{
		webAgency("A"), webAgency("B"), webAgency("C"), webAgency("D"), webAgency("E"),
	}
	got := Relevance("web development", agencies)

	require.Len(t, got, MaxMatches)
	// Equal scores keep input order.
	assert.Equal(t, "A", got[0].Agency.Name)
	assert.Equal(t, "B", got[1].Agency.Name)
	assert.Equal(t, "C", got[2].Agency.Name)
}

func TestRelevance_PopularityAndPortfolioBonuses(t *testing.T) {
	t.Parallel()

	base := webAgency("Base")
	legendary := webAgency("Legendary")
	legendary.Popularity = model.TierLegendary
	famous := webAgency("Famous")
	famous.Popularity = model.TierFamous
	big := webAgency("Big")
	big.ProjectCount = 1001
	atThreshold := webAgency("AtThreshold")
	atThreshold.ProjectCount = 1000

	score := func(a model.Agency) float64 {
		got := Relevance("web development", []model.Agency{a})
		require.Len(t, got, 1)
		return got[0].Score
	}

	baseScore := score(base)
	assert.InDelta(t, baseScore+legendaryBonus, score(legendary), 1e-9)
	assert.InDelta(t, baseScore+famousBonus, score(famous), 1e-9)
	assert.InDelta(t, baseScore+bigPortfolioBonus, score(big), 1e-9)
	// The portfolio bonus requires strictly more than the threshold.
	assert.InDelta(t, baseScore, score(atThreshold), 1e-9)
}

func TestRelevance_CaseInsensitive(t *testing.T) {
	t.Parallel()

	a := webAgency("Webworks")
	lower := Relevance("web development", []model.Agency{a})
	upper := Relevance("WEB DEVELOPMENT", []model.Agency{a})

	require.Len(t, lower, 1)
	require.Len(t, upper, 1)
	assert.Equal(t, lower[0].Score, upper[0].Score)
}

func TestRelevance_Deterministic(t *testing.T) {
	t.Parallel()

	agencies := []model.Agency{webAgency("A"), webAgency("B")}
	first := Relevance("modern frontend engineering", agencies)
	second := Relevance("modern frontend engineering", agencies)
	assert.Equal(t, first, second)
}

func TestRelevance_OrderInvariantResultSet(t *testing.T) {
	t.Parallel()

	strong := webAgency("Strong")
	strong.Popularity = model.TierLegendary
	weak := webAgency("Weak")

	forward := Relevance("web development", []model.Agency{strong, weak})
	reversed := Relevance("web development", []model.Agency{weak, strong})

	require.Len(t, forward, 2)
	require.Len(t, reversed, 2)
	assert.Equal(t, "Strong", forward[0].Agency.Name)
	assert.Equal(t, "Strong", reversed[0].Agency.Name)
}

func TestRelevance_EmptyInputs(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Relevance("", []model.Agency{webAgency("A")}))
	assert.Empty(t, Relevance("web development", nil))
}
