package scrape

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/google"
)

// DefaultMaxPages bounds pagination per search; the Places API returns at
// most 60 results over three pages anyway.
const DefaultMaxPages = 3

// Config controls an Engine.
type Config struct {
	// MaxPages caps pagination per query/location pair.
	MaxPages int
	// Concurrency is the number of searches in flight; requests still share
	// one rate limiter. Defaults to 1.
	Concurrency int
	// RequestsPerSecond paces API calls across all workers. Defaults to 1.
	RequestsPerSecond float64
}

// Engine fans a plan's searches out over the Places API and flattens the
// results into records. Individual search failures are logged and skipped;
// the engine only fails on context cancellation.
type Engine struct {
	client google.Client
	cfg    Config

	limiter *rate.Limiter
	calls   atomic.Int64
	now     func() time.Time
}

// New creates an Engine over a Places client.
func New(client google.Client, cfg Config) *Engine {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	return &Engine{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		now:     time.Now,
	}
}

// Run executes every search in the plan and returns the raw records in plan
// declaration order, duplicates and all.
func (e *Engine) Run(ctx context.Context, plan *Plan) ([]model.Record, error) {
	searches := plan.Searches()
	log := zap.L().With(zap.String("plan", plan.Name))
	log.Info("starting scrape",
		zap.Int("searches", len(searches)),
		zap.Int("concurrency", e.cfg.Concurrency),
	)

	// Results are bucketed per search so concurrency never reorders output.
	buckets := make([][]model.Record, len(searches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	for i, s := range searches {
		g.Go(func() error {
			records, err := e.runSearch(gctx, plan.Source, s)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn("search failed, skipping",
					zap.String("query", s.Query),
					zap.String("location", s.Location.Name),
					zap.Error(err),
				)
				return nil
			}
			buckets[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.Record
	for _, b := range buckets {
		out = append(out, b...)
	}
	log.Info("scrape complete",
		zap.Int("records", len(out)),
		zap.Int64("api_calls", e.calls.Load()),
	)
	return out, nil
}

// runSearch pages through one query/location pair. A failed page ends the
// pair but keeps the pages already collected.
func (e *Engine) runSearch(ctx context.Context, source string, s Search) ([]model.Record, error) {
	var records []model.Record
	pageToken := ""

	for page := 0; page < e.cfg.MaxPages; page++ {
		if err := e.limiter.Wait(ctx); err != nil {
			return records, err
		}

		resp, err := e.client.TextSearch(ctx, google.TextSearchRequest{
			Query:     s.Query,
			Latitude:  s.Location.Latitude,
			Longitude: s.Location.Longitude,
			RadiusKM:  s.Location.RadiusKM,
			PageToken: pageToken,
		})
		if err != nil {
			if len(records) > 0 {
				zap.L().Warn("pagination aborted, keeping earlier pages",
					zap.String("query", s.Query),
					zap.String("location", s.Location.Name),
					zap.Int("kept", len(records)),
					zap.Error(err),
				)
				return records, nil
			}
			return nil, err
		}
		e.calls.Add(1)

		for _, p := range resp.Places {
			records = append(records, e.parsePlace(p, source, s.Query))
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return records, nil
}

// Calls returns the number of successful API requests made so far.
func (e *Engine) Calls() int {
	return int(e.calls.Load())
}

// parsePlace flattens one API place into a record. Structured address
// components win; missing pieces fall back to splitting the formatted
// address on commas.
func (e *Engine) parsePlace(p google.Place, source, query string) model.Record {
	var street, city, postalCode string
	for _, c := range p.AddressComponents {
		for _, t := range c.Types {
			switch t {
			case "route":
				street = c.LongText
			case "locality":
				city = c.LongText
			case "postal_code":
				postalCode = c.LongText
			}
		}
	}
	if city == "" || postalCode == "" {
		parts := strings.Split(p.FormattedAddress, ",")
		if street == "" && len(parts) > 0 {
			street = strings.TrimSpace(parts[0])
		}
		if city == "" && len(parts) > 1 {
			city = strings.TrimSpace(parts[1])
		}
		if postalCode == "" && len(parts) > 2 {
			postalCode = strings.TrimSpace(parts[2])
		}
	}

	r := model.Record{
		ID:              p.ID,
		CompanyName:     p.DisplayName.Text,
		StreetAddress:   street,
		City:            city,
		PostalCode:      postalCode,
		FullAddress:     p.FormattedAddress,
		Phone:           p.InternationalPhoneNumber,
		Website:         p.WebsiteURI,
		ReviewCount:     p.UserRatingCount,
		Types:           strings.Join(p.Types, ","),
		Source:          source,
		SearchQuery:     query,
		ScrapeTimestamp: e.now().Format(time.RFC3339),
	}
	if p.Location.Latitude != 0 || p.Location.Longitude != 0 {
		lat, lng := p.Location.Latitude, p.Location.Longitude
		r.Latitude = &lat
		r.Longitude = &lng
	}
	if p.Rating > 0 {
		rating := p.Rating
		r.Rating = &rating
	}
	return r
}
