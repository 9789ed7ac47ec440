package ingest

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// DefaultSimilarityThreshold is the minimum rating for merging two names
const DefaultSimilarityThreshold = 0.8

// Matcher resolves an incoming model name to an existing canonical name
type Matcher interface {
	// Match returns the best candidate and true, or "" and false when no
	// candidate is close enough
	Match(name string, candidates []string) (string, bool)
}

// DiceMatcher rates candidates by Sørensen–Dice similarity over character
// bigrams, ignoring case and whitespace
type DiceMatcher struct {
	Threshold float64
	metric    *metrics.SorensenDice
}

// NewDiceMatcher returns a matcher that merges names rated above threshold
func NewDiceMatcher(threshold float64) *DiceMatcher {
	metric := metrics.NewSorensenDice()
	metric.CaseSensitive = false
	metric.NgramSize = 2
	return &DiceMatcher{Threshold: threshold, metric: metric}
}

// Match implements Matcher. Ties keep the earliest candidate.
func (m *DiceMatcher) Match(name string, candidates []string) (string, bool) {
	target := stripSpaces(name)

	best, bestRating := "", -1.0
	for _, c := range candidates {
		if c == name {
			return c, true
		}
		rating := strutil.Similarity(target, stripSpaces(c), m.metric)
		if rating > bestRating {
			best, bestRating = c, rating
		}
	}

	if bestRating > m.Threshold {
		return best, true
	}
	return "", false
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
