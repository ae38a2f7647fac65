package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/store"
)

var (
	classifyPlan      string
	classifyResume    bool
	classifyBatchSize int
)

var classifyCmd = &cobra.Command{
	Use:   "classify <deduped.csv> <classified.csv>",
	Short: "Classify a deduped leads CSV in batches",
	Long:  "Enriches every record through the LLM oracle. The output file doubles as the checkpoint, so an interrupted run picks up where it left off.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("classify"); err != nil {
			return err
		}

		records, err := store.LoadCSV(args[0])
		if err != nil {
			return eris.Wrap(err, "classify")
		}

		classifier, oracle, err := initClassifier(classifyPlan, args[1], classifyBatchSize, classifyResume)
		if err != nil {
			return err
		}

		classified, err := classifier.Run(ctx, records)
		if err != nil {
			return eris.Wrap(err, "classify")
		}
		oracle.Usage().LogCost(cfg.Anthropic.Model, "classify")

		zap.L().Info("classification finished",
			zap.Int("records", len(classified)),
			zap.Int("oracle_calls", oracle.Calls()),
		)
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyPlan, "plan", "horeca", "prompt to classify with (horeca, warehouse)")
	classifyCmd.Flags().BoolVar(&classifyResume, "resume", true, "skip records already present in the output file")
	classifyCmd.Flags().IntVar(&classifyBatchSize, "batch-size", 0, "records per batch (default from config)")
	rootCmd.AddCommand(classifyCmd)
}
