package pipeline

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Report writes the end-of-run summary: totals, per-city counts, and the
// top five prospects by priority score.
func Report(w io.Writer, records []model.Record) {
	line := strings.Repeat("=", 70)
	fmt.Fprintf(w, "\n%s\nFINAL SUMMARY REPORT\n%s\n\n", line, line)
	fmt.Fprintf(w, "Total prospects: %d\n", len(records))
	if len(records) == 0 {
		return
	}

	byCity := make(map[string]int)
	for i := range records {
		city := records[i].City
		if city == "" {
			city = "Unknown"
		}
		byCity[city]++
	}
	cities := make([]string, 0, len(byCity))
	for c := range byCity {
		cities = append(cities, c)
	}
	sort.Slice(cities, func(i, j int) bool {
		if byCity[cities[i]] != byCity[cities[j]] {
			return byCity[cities[i]] > byCity[cities[j]]
		}
		return cities[i] < cities[j]
	})
	fmt.Fprintf(w, "\nBy city:\n")
	for _, c := range cities {
		fmt.Fprintf(w, "  %s: %d\n", c, byCity[c])
	}

	top := topProspects(records, 5)
	if len(top) > 0 {
		fmt.Fprintf(w, "\nTop %d prospects:\n", len(top))
		for i, r := range top {
			score, _ := r.PriorityScore()
			fmt.Fprintf(w, "  %d. %s (%s) - Score: %d/10\n", i+1, r.CompanyName, r.City, score)
		}
	}
}

// topProspects returns up to n scored records, highest first, ties in
// incoming order.
func topProspects(records []model.Record, n int) []model.Record {
	var scored []model.Record
	for i := range records {
		if _, ok := records[i].PriorityScore(); ok {
			scored = append(scored, records[i])
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		si, _ := scored[i].PriorityScore()
		sj, _ := scored[j].PriorityScore()
		return si > sj
	})
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}
