package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/acdh-oeaw/transkribus-utils/internal/iiif"
	"github.com/acdh-oeaw/transkribus-utils/internal/mets"
)

func newFixMETSCmd() *cobra.Command {
	var source string
	var pattern string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "fix-mets",
		Short: "Point DEFAULT image locations of a METS file at full-size images",
		Long: `Loads a METS document from a URL or a file, replaces every DEFAULT file
location with --pattern rendered from the matching PRESENTATION location and
drops fptr references to files that do not exist.`,
		Example: `  transkribus-utils fix-mets --source https://viewer.example.org/sourcefile?id=AC16292422 -o fixed.xml
  transkribus-utils fix-mets --source ./mets.xml --pattern 'https://iiif.example.org/%s/%s/full/max/0/default.jpg'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := mets.NewLoader()
			doc, err := loader.Load(cmd.Context(), source)
			if err != nil {
				return err
			}

			result, err := mets.RewriteImageLocations(doc, pattern, mets.DefaultNamespaces())
			if err != nil {
				return err
			}

			out, err := mets.Serialize(doc)
			if err != nil {
				return err
			}

			if outputPath == "" {
				_, err = fmt.Fprint(os.Stdout, out)
				return err
			}
			if err := afero.WriteFile(loader.Fs, outputPath, []byte(out), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputPath, err)
			}
			fmt.Fprintf(os.Stderr, "Rewrote %d locations, removed %d dangling fptrs, saved to %s\n",
				result.Rewritten, result.RemovedFptrs, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "METS URL or file path (required)")
	cmd.Flags().StringVar(&pattern, "pattern", mets.DefaultImagePattern, "Image URL template with two %s verbs")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")

	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func newTitleCmd() *cobra.Command {
	var metsSource string
	var manifestURL string
	var labelKey string

	cmd := &cobra.Command{
		Use:   "title",
		Short: "Print the title of a METS file or IIIF manifest",
		Example: `  transkribus-utils title --mets ./mets.xml
  transkribus-utils title --iiif https://iiif.example.org/manifest.json --label-key label`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if manifestURL != "" {
				fmt.Println(iiif.Title(cmd.Context(), nil, manifestURL, labelKey))
				return nil
			}

			doc, err := mets.NewLoader().Load(cmd.Context(), metsSource)
			if err != nil {
				return err
			}
			title, err := mets.Title(doc, mets.DefaultNamespaces())
			if err != nil {
				return err
			}
			fmt.Println(title)
			return nil
		},
	}

	cmd.Flags().StringVar(&metsSource, "mets", "", "METS URL or file path")
	cmd.Flags().StringVar(&manifestURL, "iiif", "", "IIIF manifest URL")
	cmd.Flags().StringVar(&labelKey, "label-key", iiif.DefaultLabelKey, "Manifest field holding the title")

	cmd.MarkFlagsMutuallyExclusive("mets", "iiif")
	cmd.MarkFlagsOneRequired("mets", "iiif")
	return cmd
}
