package dedup

import (
	"math"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// TokenSetRatio scores the similarity of two strings 0-100 using a token-set
// comparison: the sorted token intersection and each side's sorted remainder
// are compared pairwise with a Levenshtein ratio and the best score wins.
// Word order is irrelevant, and a name whose tokens are a subset of the
// other's scores 100.
func TokenSetRatio(a, b string) int {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var common, onlyA, onlyB []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	combinedA := joinNonEmpty(base, strings.Join(onlyA, " "))
	combinedB := joinNonEmpty(base, strings.Join(onlyB, " "))

	best := ratio(base, combinedA)
	if s := ratio(base, combinedB); s > best {
		best = s
	}
	if s := ratio(combinedA, combinedB); s > best {
		best = s
	}
	return best
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		out[tok] = struct{}{}
	}
	return out
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

// ratio is a 0-100 Levenshtein similarity. Two empty strings score 0 so that
// blank names never match each other.
func ratio(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	return int(math.Round(levenshtein.Similarity(a, b, nil) * 100))
}
