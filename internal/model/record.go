// Package model defines the lead record and run bookkeeping types shared
// across the pipeline.
package model

import (
	"fmt"
	"sort"
	"strconv"
)

// Core column names, in the order they are written to stage CSVs.
const (
	ColID              = "id"
	ColCompanyName     = "company_name"
	ColStreetAddress   = "street_address"
	ColCity            = "city"
	ColPostalCode      = "postal_code"
	ColFullAddress     = "full_address"
	ColLatitude        = "latitude"
	ColLongitude       = "longitude"
	ColPhone           = "phone"
	ColWebsite         = "website"
	ColRating          = "rating"
	ColReviewCount     = "review_count"
	ColTypes           = "types"
	ColSource          = "source"
	ColSearchQuery     = "search_query"
	ColScrapeTimestamp = "scrape_timestamp"
)

// CoreColumns lists the fixed columns every record carries, in write order.
var CoreColumns = []string{
	ColID,
	ColCompanyName,
	ColStreetAddress,
	ColCity,
	ColPostalCode,
	ColFullAddress,
	ColLatitude,
	ColLongitude,
	ColPhone,
	ColWebsite,
	ColRating,
	ColReviewCount,
	ColTypes,
	ColSource,
	ColSearchQuery,
	ColScrapeTimestamp,
}

// PriorityScoreKey is the enrichment field holding the oracle's 1-10 fit score.
const PriorityScoreKey = "priority_score"

// ContactRecommendationKey is the enrichment field holding the oracle's
// free-text contact advice.
const ContactRecommendationKey = "contact_recommendation"

// Record is one business listing. The fixed fields are what the scrape
// collaborator produces; Extra holds open enrichment fields added by the
// classification oracle. A missing field and an empty string are equivalent
// everywhere downstream.
type Record struct {
	ID              string
	CompanyName     string
	StreetAddress   string
	City            string
	PostalCode      string
	FullAddress     string
	Latitude        *float64
	Longitude       *float64
	Phone           string
	Website         string
	Rating          *float64
	ReviewCount     int
	Types           string
	Source          string
	SearchQuery     string
	ScrapeTimestamp string
	Extra           map[string]string
}

// UID derives the resume-bookkeeping key: the provider ID when present,
// otherwise "{company_name}_{city}". Distinct from dedup matching, which
// uses richer heuristics.
func (r *Record) UID() string {
	if r.ID != "" {
		return r.ID
	}
	return r.CompanyName + "_" + r.City
}

// Fields returns the record's column names in write order: core columns
// first, then any Extra keys sorted for deterministic output.
func (r *Record) Fields() []string {
	out := make([]string, 0, len(CoreColumns)+len(r.Extra))
	out = append(out, CoreColumns...)
	extra := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Get returns the record's value for a column name, serialized as a string.
// Unknown columns fall through to Extra; absent values are empty strings.
func (r *Record) Get(key string) string {
	switch key {
	case ColID:
		return r.ID
	case ColCompanyName:
		return r.CompanyName
	case ColStreetAddress:
		return r.StreetAddress
	case ColCity:
		return r.City
	case ColPostalCode:
		return r.PostalCode
	case ColFullAddress:
		return r.FullAddress
	case ColLatitude:
		return formatFloat(r.Latitude)
	case ColLongitude:
		return formatFloat(r.Longitude)
	case ColPhone:
		return r.Phone
	case ColWebsite:
		return r.Website
	case ColRating:
		return formatFloat(r.Rating)
	case ColReviewCount:
		if r.ReviewCount == 0 {
			return "0"
		}
		return strconv.Itoa(r.ReviewCount)
	case ColTypes:
		return r.Types
	case ColSource:
		return r.Source
	case ColSearchQuery:
		return r.SearchQuery
	case ColScrapeTimestamp:
		return r.ScrapeTimestamp
	}
	return r.Extra[key]
}

// Set assigns a column value from its string form. Unknown columns land in
// Extra. Malformed numerics are treated as absent, never an error.
func (r *Record) Set(key, value string) {
	switch key {
	case ColID:
		r.ID = value
	case ColCompanyName:
		r.CompanyName = value
	case ColStreetAddress:
		r.StreetAddress = value
	case ColCity:
		r.City = value
	case ColPostalCode:
		r.PostalCode = value
	case ColFullAddress:
		r.FullAddress = value
	case ColLatitude:
		r.Latitude = parseFloat(value)
	case ColLongitude:
		r.Longitude = parseFloat(value)
	case ColPhone:
		r.Phone = value
	case ColWebsite:
		r.Website = value
	case ColRating:
		r.Rating = parseFloat(value)
	case ColReviewCount:
		if n, err := strconv.Atoi(value); err == nil {
			r.ReviewCount = n
		}
	case ColTypes:
		r.Types = value
	case ColSource:
		r.Source = value
	case ColSearchQuery:
		r.SearchQuery = value
	case ColScrapeTimestamp:
		r.ScrapeTimestamp = value
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[key] = value
	}
}

// Merge overlays oracle enrichment fields onto the record, overwriting on
// conflict. Booleans serialize as "true"/"false", numbers in minimal form.
func (r *Record) Merge(fields map[string]any) {
	for k, v := range fields {
		r.Set(k, stringify(v))
	}
}

// PriorityScore parses the oracle-assigned priority score. The second return
// is false when the score is absent or unparseable.
func (r *Record) PriorityScore() (int, bool) {
	raw, ok := r.Extra[PriorityScoreKey]
	if !ok || raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

// Clone returns a deep copy; the Extra map is not shared.
func (r *Record) Clone() Record {
	out := *r
	if r.Extra != nil {
		out.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}
