package main

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/classify"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/internal/scrape"
	"github.com/sells-group/prospect-cli/internal/store"
	"github.com/sells-group/prospect-cli/pkg/anthropic"
)

// initStore opens the run-history store selected by config.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.SQLitePath
		if path == "" {
			path = "prospects.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// loadPlan resolves a --plan value: a built-in plan name, or a path to a
// YAML plan file.
func loadPlan(name string) (*scrape.Plan, error) {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return scrape.LoadPlan(name)
	}
	return scrape.DefaultPlan(name)
}

// initClassifier builds the batch classifier for a plan's prompt, returning
// it alongside the oracle so callers can read call counts and token usage.
func initClassifier(planName, checkpointPath string, batchSize int, resume bool) (*classify.BatchClassifier, *classify.ClaudeOracle, error) {
	builder, err := classify.BuilderFor(planName)
	if err != nil {
		return nil, nil, err
	}

	oracle := classify.NewClaudeOracle(
		anthropic.NewClient(cfg.Anthropic.Key),
		cfg.Anthropic.Model,
		cfg.Anthropic.MaxTokens,
	)

	if batchSize <= 0 {
		batchSize = cfg.Classify.BatchSize
	}
	classifier := classify.New(oracle, builder, classify.Config{
		CheckpointPath: checkpointPath,
		BatchSize:      batchSize,
		Resume:         resume,
		Delay:          time.Duration(cfg.Classify.DelaySecs) * time.Second,
		Retry:          resilience.RetryConfig{MaxAttempts: cfg.Classify.MaxRetries},
	})
	return classifier, oracle, nil
}
