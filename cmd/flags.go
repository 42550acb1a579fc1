package cmd

import (
	"github.com/spf13/cobra"

	"github.com/acdh-oeaw/transkribus-utils/internal/config"
	"github.com/acdh-oeaw/transkribus-utils/internal/transkribus"
)

// addSettingsFlags registers the overrides for the environment-sourced
// settings.
func addSettingsFlags(cmd *cobra.Command, s *config.Settings) {
	cmd.Flags().StringVar(&s.User, "user", "", "Transkribus user if not specified in env ("+config.EnvUser+")")
	cmd.Flags().StringVar(&s.Password, "password", "", "Transkribus password if not specified in env ("+config.EnvPassword+")")
	cmd.Flags().StringVar(&s.BaseURL, "transkribus-base-url", "", "Transkribus base URL if not specified in env ("+config.EnvBaseURL+"), e.g. "+transkribus.DefaultBaseURL)
	cmd.Flags().StringVar(&s.GoobiBaseURL, "goobi-base-url", "", "Goobi viewer base URL if not specified in env ("+config.EnvGoobiBaseURL+")")
}
