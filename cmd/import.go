package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/acdh-oeaw/transkribus-utils/internal/config"
	"github.com/acdh-oeaw/transkribus-utils/internal/errs"
	"github.com/acdh-oeaw/transkribus-utils/internal/importer"
	"github.com/acdh-oeaw/transkribus-utils/internal/report"
	"github.com/acdh-oeaw/transkribus-utils/internal/transkribus"
)

func newImportCmd() *cobra.Command {
	var settings config.Settings
	var filePath string
	var colRegex string
	var colID int
	var skipDuplicateCheck bool
	var reportPath string

	cmd := &cobra.Command{
		Use:     "import-goobi-mets",
		Aliases: []string{"import"},
		Short:   "Upload METS files from a Goobi viewer into Transkribus",
		Long: `Reads one Goobi record identifier per line and asks Transkribus to create a
document from <goobi-base-url><identifier> for each of them.

The target collection is either fixed (--colid) or derived from the part of the
identifier matched by --regex; missing collections are created. Identifiers that
already exist as a document title in the target collection are skipped unless
--skip-duplicate-check is given.`,
		Example: `  # Upload everything into collection 190357
  transkribus-utils import-goobi-mets -f ids.txt -c 190357

  # One collection per record prefix, e.g. AC16292422_0001 -> AC16292422
  transkribus-utils import-goobi-mets -f ids.txt -r '^AC\d+' --report import.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := importMode(cmd, colRegex, colID)
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			titles, err := importer.LoadTitles(fs, filePath)
			if err != nil {
				return err
			}

			client, err := transkribus.NewClient(cmd.Context(), settings)
			if err != nil {
				return err
			}

			im := importer.New(client, client.GoobiBaseURL())
			im.CheckDuplicates = !skipDuplicateCheck

			summary, err := im.Run(cmd.Context(), titles, mode)
			if err != nil {
				return err
			}

			fmt.Printf("\nImport complete!\n")
			fmt.Printf("  Uploaded: %d\n", summary.Uploaded)
			fmt.Printf("  Skipped (already in collection): %d\n", summary.Duplicates)
			fmt.Printf("  Failed: %d\n", summary.Failed)

			if reportPath != "" {
				header := report.NewHeader("import-goobi-mets", map[string]string{
					"file":  filePath,
					"regex": colRegex,
					"colid": fmt.Sprint(colID),
				})
				counts := map[string]int{"uploaded": summary.Uploaded, "duplicates": summary.Duplicates, "failed": summary.Failed}
				if err := report.Write(fs, reportPath, header, counts, summary.Results); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file-path", "f", "", "Path of the file containing the file titles (required)")
	cmd.Flags().StringVarP(&colRegex, "regex", "r", "", "Regex for creation of collections")
	cmd.Flags().IntVarP(&colID, "colid", "c", 0, "Collection id for uploading the docs")
	cmd.Flags().BoolVar(&skipDuplicateCheck, "skip-duplicate-check", false, "Upload even if a document with the same title exists")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write a per-title report (.yaml, .jsonl or .parquet)")
	addSettingsFlags(cmd, &settings)

	_ = cmd.MarkFlagRequired("file-path")
	cmd.MarkFlagsMutuallyExclusive("regex", "colid")
	return cmd
}

func importMode(cmd *cobra.Command, colRegex string, colID int) (importer.Mode, error) {
	switch {
	case colRegex != "":
		re, err := regexp.Compile(colRegex)
		if err != nil {
			return importer.Mode{}, errs.Config("invalid --regex: %v", err)
		}
		return importer.ByRegex(re), nil
	case cmd.Flags().Changed("colid"):
		return importer.ByCollection(colID), nil
	default:
		return importer.Mode{}, errs.Config("you need to either specify a regex or a collection id")
	}
}
