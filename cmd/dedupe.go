package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/dedup"
	"github.com/sells-group/prospect-cli/internal/store"
)

var dedupeThreshold int

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <input.csv> <output.csv>",
	Short: "Deduplicate a leads CSV",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := store.LoadCSV(args[0])
		if err != nil {
			return eris.Wrap(err, "dedupe")
		}

		threshold := dedupeThreshold
		if threshold == 0 {
			threshold = cfg.Dedup.SimilarityThreshold
		}

		deduped := dedup.New(threshold).Run(records)
		if err := store.SaveCSV(deduped, args[1]); err != nil {
			return eris.Wrap(err, "dedupe")
		}

		zap.L().Info("dedupe finished",
			zap.Int("in", len(records)),
			zap.Int("out", len(deduped)),
			zap.Int("removed", len(records)-len(deduped)),
		)
		return nil
	},
}

func init() {
	dedupeCmd.Flags().IntVar(&dedupeThreshold, "threshold", 0, "name similarity threshold (default from config)")
	rootCmd.AddCommand(dedupeCmd)
}
