package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "transkribus-utils",
		Short: "Utilities for the Transkribus REST API and Goobi METS files",
		Long: `transkribus-utils talks to the Transkribus REST API on behalf of a single user.

It imports METS files served by a Goobi viewer into Transkribus collections,
exports collections back to METS, reports transcription progress and fixes up
METS image locations.

Credentials are read from flags or from TRANSKRIBUS_USER, TRANSKRIBUS_PASSWORD,
TRANSKRIBUS_BASE_URL and GOOBI_BASE_URL. A .env file in the working directory
is loaded first.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newStatusReportCmd())
	cmd.AddCommand(newFixMETSCmd())
	cmd.AddCommand(newTitleCmd())

	return cmd
}
