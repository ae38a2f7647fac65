// Package pipeline orchestrates the full prospect run: scrape, dedupe,
// classify, filter, report. Each phase writes a numbered stage CSV so a run
// can be inspected or resumed midway.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/classify"
	"github.com/sells-group/prospect-cli/internal/dedup"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/scrape"
	"github.com/sells-group/prospect-cli/internal/store"
)

// Stage file names inside the output directory.
const (
	RawLeadsFile        = "1_raw_leads.csv"
	DedupedLeadsFile    = "2_deduped_leads.csv"
	ClassifiedLeadsFile = "3_classified_leads.csv"
	FinalProspectsFile  = "FINAL_PROSPECTS.csv"
)

// Config controls a pipeline run.
type Config struct {
	// OutputDir receives the stage CSVs. Created if missing.
	OutputDir string
	// Resume skips scrape and dedup, loading the deduped stage CSV instead.
	// A missing file is a hard error.
	Resume bool
	// MinimumScore is the final-filter cutoff (inclusive) on priority score.
	MinimumScore int
}

// Pipeline wires the phase collaborators together.
type Pipeline struct {
	engine      *scrape.Engine
	deduper     *dedup.Deduplicator
	classifier  *classify.BatchClassifier
	oracleCalls func() int
	runs        store.Store
	cfg         Config
}

// New creates a pipeline that scrapes and dedupes. Classification and run
// history are opt-in via the With methods.
func New(engine *scrape.Engine, deduper *dedup.Deduplicator, cfg Config) *Pipeline {
	if cfg.MinimumScore <= 0 {
		cfg.MinimumScore = 7
	}
	return &Pipeline{engine: engine, deduper: deduper, cfg: cfg}
}

// WithClassifier enables the enrichment phase. calls reports oracle
// invocations for the run record and may be nil.
func (p *Pipeline) WithClassifier(c *classify.BatchClassifier, calls func() int) *Pipeline {
	p.classifier = c
	p.oracleCalls = calls
	return p
}

// WithRunStore records run history rows in the given store.
func (p *Pipeline) WithRunStore(s store.Store) *Pipeline {
	p.runs = s
	return p
}

// StagePath returns the path of a stage file inside the output directory.
func (p *Pipeline) StagePath(name string) string {
	return filepath.Join(p.cfg.OutputDir, name)
}

// Run executes the pipeline for a plan and returns the run result. The final
// prospects CSV and summary report are produced even when classification is
// disabled, in which case the deduped set passes through unfiltered.
func (p *Pipeline) Run(ctx context.Context, plan *scrape.Plan) (*model.RunResult, error) {
	start := time.Now()
	log := zap.L().With(zap.String("plan", plan.Name), zap.String("output_dir", p.cfg.OutputDir))

	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "pipeline: create output dir %s", p.cfg.OutputDir)
	}

	var run *model.Run
	if p.runs != nil {
		var err error
		run, err = p.runs.CreateRun(ctx, plan.Name, p.cfg.OutputDir)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run record")
		}
	}

	result, err := p.execute(ctx, plan, log)
	if result == nil {
		result = &model.RunResult{}
	}
	result.DurationSecs = time.Since(start).Seconds()

	if run != nil {
		if err != nil {
			result.Error = err.Error()
			if sErr := p.runs.FailRun(ctx, run.ID, result); sErr != nil {
				log.Warn("failed to record run failure", zap.Error(sErr))
			}
		} else if sErr := p.runs.CompleteRun(ctx, run.ID, result); sErr != nil {
			log.Warn("failed to record run completion", zap.Error(sErr))
		}
	}
	if err != nil {
		return result, err
	}

	log.Info("pipeline complete",
		zap.Int("raw", result.RawCount),
		zap.Int("deduped", result.DedupedCount),
		zap.Int("final", result.FinalCount),
		zap.Float64("duration_secs", result.DurationSecs),
	)
	return result, nil
}

func (p *Pipeline) execute(ctx context.Context, plan *scrape.Plan, log *zap.Logger) (*model.RunResult, error) {
	result := &model.RunResult{}

	var deduped []model.Record
	if p.cfg.Resume {
		log.Info("resuming, skipping scrape and dedup")
		dedupedPath := p.StagePath(DedupedLeadsFile)
		if _, err := os.Stat(dedupedPath); err != nil {
			return result, eris.Wrapf(err, "pipeline: cannot resume without %s", dedupedPath)
		}
		var err error
		deduped, err = store.LoadCSV(dedupedPath)
		if err != nil {
			return result, eris.Wrap(err, "pipeline: load deduped leads")
		}
		result.DedupedCount = len(deduped)
	} else {
		raw, err := p.engine.Run(ctx, plan)
		if err != nil {
			return result, eris.Wrap(err, "pipeline: scrape")
		}
		result.RawCount = len(raw)
		result.SearchCalls = p.engine.Calls()
		if err := store.SaveCSV(raw, p.StagePath(RawLeadsFile)); err != nil {
			return result, err
		}

		deduped = p.deduper.Run(raw)
		result.DedupedCount = len(deduped)
		if err := store.SaveCSV(deduped, p.StagePath(DedupedLeadsFile)); err != nil {
			return result, err
		}
	}

	final := deduped
	if p.classifier != nil {
		classified, err := p.classifier.Run(ctx, deduped)
		if err != nil {
			return result, eris.Wrap(err, "pipeline: classify")
		}
		result.ClassifiedCount = len(classified)
		if p.oracleCalls != nil {
			result.OracleCalls = p.oracleCalls()
		}
		final = FilterProspects(classified, p.cfg.MinimumScore)
	}
	result.FinalCount = len(final)

	if err := store.SaveCSV(final, p.StagePath(FinalProspectsFile)); err != nil {
		return result, err
	}

	Report(os.Stdout, final)
	return result, nil
}

// FilterProspects keeps records whose priority score meets the cutoff and
// orders them by score descending. The sort is stable so ties keep their
// incoming order. Records without a parseable score are dropped.
func FilterProspects(records []model.Record, minScore int) []model.Record {
	var out []model.Record
	for i := range records {
		if s, ok := records[i].PriorityScore(); ok && s >= minScore {
			out = append(out, records[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, _ := out[i].PriorityScore()
		sj, _ := out[j].PriorityScore()
		return si > sj
	})
	return out
}
