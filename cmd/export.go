package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acdh-oeaw/transkribus-utils/internal/config"
	"github.com/acdh-oeaw/transkribus-utils/internal/transkribus"
)

func newExportCmd() *cobra.Command {
	var settings config.Settings
	var colID int
	var outputDir string
	var docIDs []string

	cmd := &cobra.Command{
		Use:   "export-mets",
		Short: "Save the METS and image names of every document in a collection",
		Long: `Writes <output>/<colid>/<docid>_mets.xml and <output>/<colid>/<docid>_image_name.xml
for each document of the collection. Failed documents are reported at the end;
the export carries on past them.`,
		Example: `  transkribus-utils export-mets -c 190357 -o ./export
  transkribus-utils export-mets -c 190357 --doc-id 101 --doc-id 102`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := transkribus.NewClient(cmd.Context(), settings)
			if err != nil {
				return err
			}

			exported, err := client.CollectionToMETS(cmd.Context(), colID, outputDir, docIDs)
			fmt.Printf("Exported %d documents of collection %d to %s\n", len(exported), colID, outputDir)
			return err
		},
	}

	cmd.Flags().IntVarP(&colID, "colid", "c", 0, "Collection id to export (required)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory the collection folder is created in")
	cmd.Flags().StringSliceVar(&docIDs, "doc-id", nil, "Only export these document ids")
	addSettingsFlags(cmd, &settings)

	_ = cmd.MarkFlagRequired("colid")
	return cmd
}
