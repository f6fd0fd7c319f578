package shotindex

import (
	"cmp"
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"
)

// minSuggestScore drops candidates that share little more than the ep/sq/sh
// scaffolding with the query.
const minSuggestScore = 0.85

// Suggestion is a shot name close to an unknown query.
type Suggestion struct {
	Name  string
	Score float64 // Jaro-Winkler similarity, 0.0-1.0

	distance int
}

// Suggest returns up to n shot names most similar to query, best first.
// Useful when a user mistypes a shot name.
func (x *Index) Suggest(query string, n int) []Suggestion {
	if n <= 0 || len(x.flat) == 0 {
		return nil
	}
	q := strings.ToLower(strings.TrimSpace(query))

	var out []Suggestion
	for _, id := range x.flat {
		name := id.String()
		score := float64(edlib.JaroWinklerSimilarity(q, name))
		if score < minSuggestScore {
			continue
		}
		out = append(out, Suggestion{
			Name:     name,
			Score:    score,
			distance: edlib.LevenshteinDistance(q, name),
		})
	}

	// Names differing only in shot digits often tie on Jaro-Winkler.
	slices.SortStableFunc(out, func(a, b Suggestion) int {
		return cmp.Or(
			cmp.Compare(b.Score, a.Score),
			cmp.Compare(a.distance, b.distance),
		)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
