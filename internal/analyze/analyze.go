// Package analyze computes summary statistics and filters over a prospects
// CSV after a run.
package analyze

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Summary aggregates the headline stats of a prospect list.
type Summary struct {
	Total       int
	ByCountry   map[string]int
	ByCity      map[string]int
	WithWebsite int
	WithPhone   int
	RatedCount  int
	AvgRating   float64
	MinRating   float64
	MaxRating   float64
}

// Summarize computes summary stats. Country and city are taken from the last
// two comma-separated parts of the full address.
func Summarize(records []model.Record) Summary {
	s := Summary{
		Total:     len(records),
		ByCountry: make(map[string]int),
		ByCity:    make(map[string]int),
	}

	var ratingSum float64
	for i := range records {
		r := &records[i]
		if parts := strings.Split(r.FullAddress, ","); len(parts) > 1 {
			city := strings.TrimSpace(parts[len(parts)-2])
			country := strings.TrimSpace(parts[len(parts)-1])
			if city != "" {
				s.ByCity[city]++
			}
			if country != "" {
				s.ByCountry[country]++
			}
		}
		if r.Website != "" {
			s.WithWebsite++
		}
		if r.Phone != "" {
			s.WithPhone++
		}
		if r.Rating != nil {
			rating := *r.Rating
			if s.RatedCount == 0 || rating < s.MinRating {
				s.MinRating = rating
			}
			if rating > s.MaxRating {
				s.MaxRating = rating
			}
			ratingSum += rating
			s.RatedCount++
		}
	}
	if s.RatedCount > 0 {
		s.AvgRating = ratingSum / float64(s.RatedCount)
	}
	return s
}

// Write renders the summary as the text report.
func (s Summary) Write(w io.Writer) {
	line := strings.Repeat("=", 70)
	fmt.Fprintf(w, "\n%s\nPROSPECT SUMMARY\n%s\n\n", line, line)
	fmt.Fprintf(w, "Total prospects: %d\n", s.Total)
	if s.Total == 0 {
		return
	}

	fmt.Fprintf(w, "\nBy country:\n")
	for _, kv := range sortedCounts(s.ByCountry, 0) {
		pct := float64(kv.count) / float64(s.Total) * 100
		fmt.Fprintf(w, "  %s: %d (%.1f%%)\n", kv.key, kv.count, pct)
	}

	fmt.Fprintf(w, "\nTop 10 cities:\n")
	for _, kv := range sortedCounts(s.ByCity, 10) {
		fmt.Fprintf(w, "  %s: %d\n", kv.key, kv.count)
	}

	fmt.Fprintf(w, "\nWith website: %d (%.1f%%)\n", s.WithWebsite, float64(s.WithWebsite)/float64(s.Total)*100)
	fmt.Fprintf(w, "With phone: %d (%.1f%%)\n", s.WithPhone, float64(s.WithPhone)/float64(s.Total)*100)

	if s.RatedCount > 0 {
		fmt.Fprintf(w, "\nAverage rating: %.2f\n", s.AvgRating)
		fmt.Fprintf(w, "Rating range: %.1f - %.1f\n", s.MinRating, s.MaxRating)
	}
}

type keyCount struct {
	key   string
	count int
}

func sortedCounts(m map[string]int, limit int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, v := range m {
		out = append(out, keyCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Filter narrows a prospect list. Zero values leave a criterion off.
type Filter struct {
	MinRating      float64
	CountryKeyword string
	RequirePhone   bool
	RequireWebsite bool
	NameKeyword    string
}

// Apply returns the records matching every active criterion, in input order.
func (f Filter) Apply(records []model.Record) []model.Record {
	var out []model.Record
	for i := range records {
		r := &records[i]
		if f.MinRating > 0 && (r.Rating == nil || *r.Rating < f.MinRating) {
			continue
		}
		if f.CountryKeyword != "" && !strings.Contains(strings.ToLower(r.FullAddress), strings.ToLower(f.CountryKeyword)) {
			continue
		}
		if f.RequirePhone && r.Phone == "" {
			continue
		}
		if f.RequireWebsite && r.Website == "" {
			continue
		}
		if f.NameKeyword != "" && !strings.Contains(strings.ToLower(r.CompanyName), strings.ToLower(f.NameKeyword)) {
			continue
		}
		out = append(out, records[i])
	}
	return out
}

// TopByRating returns up to n rated records, best first. Ties keep their
// incoming order.
func TopByRating(records []model.Record, n int) []model.Record {
	var rated []model.Record
	for i := range records {
		if records[i].Rating != nil {
			rated = append(rated, records[i])
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return *rated[i].Rating > *rated[j].Rating
	})
	if len(rated) > n {
		rated = rated[:n]
	}
	return rated
}
