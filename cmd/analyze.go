package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-cli/internal/analyze"
	"github.com/sells-group/prospect-cli/internal/store"
)

var (
	analyzeMinRating      float64
	analyzeCountry        string
	analyzeRequirePhone   bool
	analyzeRequireWebsite bool
	analyzeName           string
	analyzeTop            int
	analyzeOut            string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <prospects.csv>",
	Short: "Summarize and filter a prospects CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := store.LoadCSV(args[0])
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		analyze.Summarize(records).Write(os.Stdout)

		filter := analyze.Filter{
			MinRating:      analyzeMinRating,
			CountryKeyword: analyzeCountry,
			RequirePhone:   analyzeRequirePhone,
			RequireWebsite: analyzeRequireWebsite,
			NameKeyword:    analyzeName,
		}
		filtered := filter.Apply(records)
		if filter != (analyze.Filter{}) {
			fmt.Printf("\nFiltered: %d of %d prospects match\n", len(filtered), len(records))
		}

		if analyzeTop > 0 {
			top := analyze.TopByRating(filtered, analyzeTop)
			fmt.Printf("\nTop %d prospects by rating:\n", len(top))
			for i, r := range top {
				rating := 0.0
				if r.Rating != nil {
					rating = *r.Rating
				}
				fmt.Printf("%2d. %s (%s)\n    Rating: %.1f (%d reviews)\n    Phone: %s\n",
					i+1, r.CompanyName, r.City, rating, r.ReviewCount, r.Phone)
			}
		}

		if analyzeOut != "" {
			if err := store.SaveCSV(filtered, analyzeOut); err != nil {
				return eris.Wrap(err, "analyze")
			}
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Float64Var(&analyzeMinRating, "min-rating", 0, "keep prospects rated at least this")
	analyzeCmd.Flags().StringVar(&analyzeCountry, "country", "", "keep prospects whose address contains this keyword")
	analyzeCmd.Flags().BoolVar(&analyzeRequirePhone, "require-phone", false, "keep only prospects with a phone number")
	analyzeCmd.Flags().BoolVar(&analyzeRequireWebsite, "require-website", false, "keep only prospects with a website")
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "keep prospects whose company name contains this keyword")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 0, "print the top N filtered prospects by rating")
	analyzeCmd.Flags().StringVar(&analyzeOut, "export", "", "write filtered prospects to this CSV")
	rootCmd.AddCommand(analyzeCmd)
}
