package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/acdh-oeaw/transkribus-utils/internal/config"
	"github.com/acdh-oeaw/transkribus-utils/internal/report"
	"github.com/acdh-oeaw/transkribus-utils/internal/transkribus"
)

func newStatusReportCmd() *cobra.Command {
	var settings config.Settings
	var filter string
	var threshold int
	var outputPath string

	cmd := &cobra.Command{
		Use:   "status-report",
		Short: "Report transcription progress of matching collections",
		Long: `Lists the documents of every collection whose name contains --filter with
their page counts and the number of pages that are no longer NEW. Documents
with at least --threshold such pages are flagged.`,
		Example: `  transkribus-utils status-report --filter acdh --threshold 5
  transkribus-utils status-report --filter acdh -o status.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := transkribus.NewClient(cmd.Context(), settings)
			if err != nil {
				return err
			}

			rows, err := client.StatusReport(cmd.Context(), filter, threshold)
			if err != nil {
				return err
			}

			done := 0
			for _, r := range rows {
				if r.MeetsThreshold {
					done++
				}
			}

			if outputPath == "" {
				fmt.Printf("%-10s %-10s %-6s %-6s %s\n", "COL", "DOC", "PAGES", "DONE", "TITLE")
				for _, r := range rows {
					fmt.Printf("%-10d %-10d %-6d %-6d %s\n", r.ColID, r.DocID, r.Pages, r.TranscribedPages, r.Title)
				}
				fmt.Printf("\n%d of %d documents meet the threshold of %d pages\n", done, len(rows), threshold)
				return nil
			}

			header := report.NewHeader("status-report", map[string]string{
				"filter":    filter,
				"threshold": fmt.Sprint(threshold),
			})
			summary := map[string]int{"documents": len(rows), "meets_threshold": done}
			return report.Write(afero.NewOsFs(), outputPath, header, summary, rows)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Substring of the collection names to include (required)")
	cmd.Flags().IntVar(&threshold, "threshold", 1, "Pages that must have left status NEW")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file (.yaml, .jsonl or .parquet)")
	addSettingsFlags(cmd, &settings)

	_ = cmd.MarkFlagRequired("filter")
	return cmd
}
