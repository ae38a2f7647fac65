package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-cli/internal/store"
)

var exportSheet string

var exportCmd = &cobra.Command{
	Use:   "export <prospects.csv> <prospects.xlsx>",
	Short: "Export a prospects CSV as an XLSX workbook",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := store.LoadCSV(args[0])
		if err != nil {
			return eris.Wrap(err, "export")
		}
		if err := store.SaveXLSX(records, args[1], exportSheet); err != nil {
			return eris.Wrap(err, "export")
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportSheet, "sheet", "Prospects", "worksheet name")
	rootCmd.AddCommand(exportCmd)
}
