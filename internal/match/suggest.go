package match

import (
	"sort"
	"strings"
)

const (
	// DefaultMinScore is the minimum similarity a known name needs to be suggested.
	DefaultMinScore = 0.6
	// DefaultSuggestionLimit caps the number of suggestions attached to errors.
	DefaultSuggestionLimit = 3
)

// Suggestion is a known name together with its similarity to the query.
type Suggestion struct {
	Name  string
	Score float64
}

// Rank scores every candidate against query and returns the ones reaching
// minScore, best first. Ties are ordered by name so results are stable.
func Rank(query string, candidates []string, minScore float64) []Suggestion {
	seen := make(map[string]struct{}, len(candidates))
	ranked := make([]Suggestion, 0, len(candidates))

	for _, c := range candidates {
		if c == query {
			continue
		}

		if _, ok := seen[c]; ok {
			continue
		}

		seen[c] = struct{}{}

		score := Score(query, c)
		if score < minScore {
			continue
		}

		ranked = append(ranked, Suggestion{Name: c, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}

		return ranked[i].Name < ranked[j].Name
	})

	return ranked
}

// Score is the best of the case-folded and the fully normalized similarity.
func Score(a, b string) float64 {
	folded := LevenshteinNormalized(strings.ToLower(a), strings.ToLower(b))

	return max(folded, NormalizedLevenshteinScore(a, b))
}

// Suggest returns up to limit candidate names close to query.
// A non-positive limit returns every name above DefaultMinScore.
func Suggest(query string, candidates []string, limit int) []string {
	ranked := Rank(query, candidates, DefaultMinScore)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	if len(ranked) == 0 {
		return nil
	}

	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Name
	}

	return names
}
