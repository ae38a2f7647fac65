package main

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/dedup"
	"github.com/sells-group/prospect-cli/internal/pipeline"
	"github.com/sells-group/prospect-cli/internal/scrape"
	"github.com/sells-group/prospect-cli/pkg/google"
)

var (
	runOut       string
	runPlan      string
	runResume    bool
	runClassify  bool
	runBatchSize int
	runThreshold int
	runCutoff    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full prospect pipeline",
	Long:  "Scrapes the plan's searches, dedupes the results, optionally classifies them, and writes the ranked prospect list.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Resume skips scraping, so the Places key is only needed fresh.
		if !runResume {
			if err := cfg.Validate("scrape"); err != nil {
				return err
			}
		}
		if runClassify {
			if err := cfg.Validate("classify"); err != nil {
				return err
			}
		}

		plan, err := loadPlan(runPlan)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		outDir := runOut
		if outDir == "" {
			outDir = cfg.Pipeline.OutputDir
		}
		threshold := runThreshold
		if threshold == 0 {
			threshold = cfg.Dedup.SimilarityThreshold
		}
		cutoff := runCutoff
		if cutoff == 0 {
			cutoff = cfg.Pipeline.MinimumScore
		}

		engine := scrape.New(
			google.NewClient(cfg.Google.Key, google.WithBaseURL(cfg.Google.BaseURL)),
			scrape.Config{
				MaxPages:          cfg.Scrape.MaxPages,
				Concurrency:       cfg.Scrape.Concurrency,
				RequestsPerSecond: cfg.Scrape.RequestsPerSecond,
			},
		)

		p := pipeline.New(engine, dedup.New(threshold), pipeline.Config{
			OutputDir:    outDir,
			Resume:       runResume,
			MinimumScore: cutoff,
		}).WithRunStore(st)

		if runClassify {
			checkpoint := filepath.Join(outDir, pipeline.ClassifiedLeadsFile)
			classifier, oracle, err := initClassifier(plan.Name, checkpoint, runBatchSize, runResume)
			if err != nil {
				return err
			}
			p.WithClassifier(classifier, oracle.Calls)
			defer func() {
				oracle.Usage().LogCost(cfg.Anthropic.Model, "classify")
			}()
		}

		result, err := p.Run(ctx, plan)
		if err != nil {
			return eris.Wrap(err, "run")
		}

		zap.L().Info("run finished",
			zap.Int("raw", result.RawCount),
			zap.Int("deduped", result.DedupedCount),
			zap.Int("final", result.FinalCount),
		)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runOut, "out", "", "output directory for stage CSVs (default from config)")
	runCmd.Flags().StringVar(&runPlan, "plan", "horeca", "built-in plan name (horeca, warehouse) or path to a plan YAML")
	runCmd.Flags().BoolVar(&runResume, "resume", false, "skip scraping and deduping, resume from the deduped stage file")
	runCmd.Flags().BoolVar(&runClassify, "classify", false, "enable LLM classification")
	runCmd.Flags().IntVar(&runBatchSize, "batch-size", 0, "records per classification batch (default from config)")
	runCmd.Flags().IntVar(&runThreshold, "threshold", 0, "name similarity threshold for dedup (default from config)")
	runCmd.Flags().IntVar(&runCutoff, "cutoff", 0, "minimum priority score for the final list (default from config)")
	rootCmd.AddCommand(runCmd)
}
