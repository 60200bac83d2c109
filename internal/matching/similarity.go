package matching

import (
	"math"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// similarityScorer computes token-aware fuzzy similarity in [0, 100]. The
// score is the better of two signals: Jaro-Winkler over alphabetically sorted
// token strings (order tolerance) and the Dice coefficient over the token sets
// (partial-overlap tolerance). Both are deceived by token-subset candidates;
// that is what the subset guard exists for.
type similarityScorer struct {
	jw *metrics.JaroWinkler
}

func newSimilarityScorer() *similarityScorer {
	return &similarityScorer{jw: metrics.NewJaroWinkler()}
}

func (s *similarityScorer) similarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	sortedA := sortedJoin(tokensA)
	sortedB := sortedJoin(tokensB)
	if sortedA == sortedB {
		return 100
	}
	jw := strutil.Similarity(sortedA, sortedB, s.jw)
	dice := tokenDice(tokensA, tokensB)
	return clampScore(math.Max(jw, dice) * 100)
}

// tokenDice is the Sorensen-Dice coefficient over unique token sets.
func tokenDice(a, b []string) float64 {
	uniqueA := uniqueTokens(a)
	uniqueB := uniqueTokens(b)
	if len(uniqueA) == 0 || len(uniqueB) == 0 {
		return 0
	}
	shared := sharedTokenCount(uniqueA, uniqueB)
	return 2 * float64(shared) / float64(len(uniqueA)+len(uniqueB))
}

func clampScore(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
