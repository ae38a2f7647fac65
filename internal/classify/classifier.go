package classify

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/internal/store"
)

// SentinelRecommendation marks records the oracle did not cover in a batch,
// either because the response list was short or the whole call failed.
const SentinelRecommendation = "Error/Skipped in batch"

// DefaultBatchSize is the number of records per oracle call.
const DefaultBatchSize = 10

// DefaultDelay is the pause between oracle calls, sized for a 3-4
// requests-per-minute rate limit.
const DefaultDelay = 10 * time.Second

// Config controls a classification run.
type Config struct {
	// CheckpointPath is the classified-leads CSV rewritten after every batch.
	CheckpointPath string
	// BatchSize is the records-per-call partition size; DefaultBatchSize
	// when non-positive.
	BatchSize int
	// Resume loads the checkpoint and skips records whose UID is already in
	// it. A missing checkpoint is not an error; an unreadable one is fatal.
	Resume bool
	// Delay is the inter-batch throttle; DefaultDelay when zero, negative
	// disables.
	Delay time.Duration
	// Retry bounds transparent retries around each oracle call.
	Retry resilience.RetryConfig
}

// BatchClassifier partitions unclassified records into fixed-size batches,
// invokes the oracle once per batch, merges results back by position, and
// checkpoints the full accumulator after every batch.
//
// One run owns the checkpoint file exclusively; concurrent runs against the
// same file are undefined behavior.
type BatchClassifier struct {
	oracle  Oracle
	builder PromptBuilder
	cfg     Config
}

// New creates a BatchClassifier.
func New(oracle Oracle, builder PromptBuilder, cfg Config) *BatchClassifier {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Delay == 0 {
		cfg.Delay = DefaultDelay
	}
	return &BatchClassifier{oracle: oracle, builder: builder, cfg: cfg}
}

// Run classifies all records not already present in the checkpoint and
// returns the full accumulator. Oracle failures degrade to sentinel-marked
// records and never abort the run; only a corrupt checkpoint on resume is
// fatal, and it is detected before any oracle call is made.
func (c *BatchClassifier) Run(ctx context.Context, records []model.Record) ([]model.Record, error) {
	log := zap.L().With(zap.String("builder", c.builder.Name()))

	accumulator, processed, err := c.loadCheckpoint()
	if err != nil {
		return nil, err
	}
	if len(processed) > 0 {
		log.Info("resuming from checkpoint",
			zap.String("path", c.cfg.CheckpointPath),
			zap.Int("already_classified", len(processed)),
		)
	}

	var remaining []model.Record
	for i := range records {
		if _, ok := processed[records[i].UID()]; !ok {
			remaining = append(remaining, records[i])
		}
	}

	if len(remaining) == 0 {
		log.Info("all records already classified")
		return accumulator, nil
	}

	totalBatches := (len(remaining) + c.cfg.BatchSize - 1) / c.cfg.BatchSize
	log.Info("classifying",
		zap.Int("remaining", len(remaining)),
		zap.Int("batch_size", c.cfg.BatchSize),
		zap.Int("batches", totalBatches),
	)

	for start := 0; start < len(remaining); start += c.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return accumulator, eris.Wrap(err, "classify: cancelled")
		}

		end := start + c.cfg.BatchSize
		if end > len(remaining) {
			end = len(remaining)
		}
		batchNum := start/c.cfg.BatchSize + 1

		batch := make([]model.Record, end-start)
		for i := range batch {
			batch[i] = remaining[start+i].Clone()
		}

		results := c.classifyBatch(ctx, batch, log.With(zap.Int("batch", batchNum)))

		merged := 0
		for j := range batch {
			if j < len(results) && len(results[j]) > 0 {
				fields := results[j]
				delete(fields, "record_index")
				batch[j].Merge(fields)
				merged++
			} else {
				batch[j].Merge(map[string]any{
					model.ContactRecommendationKey: SentinelRecommendation,
				})
			}
			accumulator = append(accumulator, batch[j])
		}

		log.Info("batch classified",
			zap.Int("batch", batchNum),
			zap.Int("of", totalBatches),
			zap.Int("merged", merged),
			zap.Int("sentinel", len(batch)-merged),
		)

		if err := store.SaveCSV(accumulator, c.cfg.CheckpointPath); err != nil {
			return accumulator, eris.Wrap(err, "classify: checkpoint")
		}

		if end < len(remaining) {
			if err := c.throttle(ctx); err != nil {
				return accumulator, err
			}
		}
	}

	return accumulator, nil
}

// classifyBatch calls the oracle with bounded retries. Any terminal failure
// degrades to an empty result list so the batch receives sentinels.
func (c *BatchClassifier) classifyBatch(ctx context.Context, batch []model.Record, log *zap.Logger) []map[string]any {
	prompt := c.builder.Build(batch)

	results, err := resilience.DoVal(ctx, c.cfg.Retry, func(ctx context.Context) ([]map[string]any, error) {
		return c.oracle.Classify(ctx, prompt)
	})
	if err != nil {
		log.Warn("batch classification failed, marking batch as skipped", zap.Error(err))
		return nil
	}
	if len(results) > len(batch) {
		// Never let an over-long response shift later positions.
		results = results[:len(batch)]
	}
	return results
}

// loadCheckpoint seeds the accumulator and processed-UID set from a prior
// run's checkpoint file.
func (c *BatchClassifier) loadCheckpoint() ([]model.Record, map[string]struct{}, error) {
	processed := make(map[string]struct{})
	if !c.cfg.Resume {
		return nil, processed, nil
	}

	if _, err := os.Stat(c.cfg.CheckpointPath); err != nil {
		if os.IsNotExist(err) {
			return nil, processed, nil
		}
		return nil, nil, eris.Wrap(err, "classify: stat checkpoint")
	}

	accumulator, err := store.LoadCSV(c.cfg.CheckpointPath)
	if err != nil {
		// An unreadable checkpoint under resume is ambiguous state; stop
		// before spending oracle calls that may double-bill.
		return nil, nil, eris.Wrap(err, "classify: load checkpoint")
	}
	for i := range accumulator {
		processed[accumulator[i].UID()] = struct{}{}
	}
	return accumulator, processed, nil
}

func (c *BatchClassifier) throttle(ctx context.Context) error {
	if c.cfg.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.cfg.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "classify: cancelled during throttle")
	case <-timer.C:
		return nil
	}
}
