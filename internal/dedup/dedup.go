package dedup

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// DefaultThreshold is the fuzzy name-similarity cutoff used when none is
// configured.
const DefaultThreshold = 85

// Deduplicator clusters raw records into equivalence classes and keeps the
// first-encountered record of each cluster.
type Deduplicator struct {
	// Threshold is the minimum token-set ratio (0-100) for two same-city
	// company names to be considered the same business.
	Threshold int
}

// New creates a Deduplicator, falling back to DefaultThreshold for
// non-positive thresholds.
func New(threshold int) *Deduplicator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Deduplicator{Threshold: threshold}
}

// Run removes duplicates in a single greedy pass. Each surviving record
// suppresses every later record it directly matches; suppressed records are
// never used as comparison anchors, so matching does not chain transitively.
// The input is not mutated and relative order is preserved.
func (d *Deduplicator) Run(records []model.Record) []model.Record {
	suppressed := make([]bool, len(records))
	unique := make([]model.Record, 0, len(records))

	for i := range records {
		if suppressed[i] {
			continue
		}
		unique = append(unique, records[i])

		for j := i + 1; j < len(records); j++ {
			if suppressed[j] {
				continue
			}
			if d.isDuplicate(&records[i], &records[j]) {
				suppressed[j] = true
			}
		}
	}

	zap.L().Info("deduplication complete",
		zap.Int("input", len(records)),
		zap.Int("output", len(unique)),
		zap.Int("removed", len(records)-len(unique)),
	)

	return unique
}

// isDuplicate reports whether two records denote the same business. Any one
// signal suffices: equal provider IDs, equal raw website strings, equal
// normalized phones, or same city plus a fuzzy name match.
func (d *Deduplicator) isDuplicate(a, b *model.Record) bool {
	if a.ID != "" && b.ID != "" && a.ID == b.ID {
		return true
	}

	// Websites compare raw and case-sensitive; URL normalization is out of
	// scope for the matcher.
	if a.Website != "" && b.Website != "" && a.Website == b.Website {
		return true
	}

	if a.Phone != "" && b.Phone != "" {
		pa, pb := NormalizePhone(a.Phone), NormalizePhone(b.Phone)
		if pa != "" && pb != "" && pa == pb {
			return true
		}
	}

	if a.City != "" && b.City != "" && strings.EqualFold(a.City, b.City) {
		sim := TokenSetRatio(NormalizeName(a.CompanyName), NormalizeName(b.CompanyName))
		if sim >= d.Threshold {
			return true
		}
	}

	return false
}
