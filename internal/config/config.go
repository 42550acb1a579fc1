package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/acdh-oeaw/transkribus-utils/internal/errs"
)

// Environment variables consulted when a value is not given explicitly.
const (
	EnvUser         = "TRANSKRIBUS_USER"
	EnvPassword     = "TRANSKRIBUS_PASSWORD"
	EnvBaseURL      = "TRANSKRIBUS_BASE_URL"
	EnvGoobiBaseURL = "GOOBI_BASE_URL"
)

// Settings holds the values needed to talk to Transkribus and, optionally,
// the Goobi viewer that serves METS files for upload.
type Settings struct {
	User         string
	Password     string
	BaseURL      string
	GoobiBaseURL string
}

// Resolve fills every empty field of explicit from the environment.
func Resolve(explicit Settings) (Settings, error) {
	return ResolveWith(explicit, os.Getenv)
}

// ResolveWith is Resolve with a custom environment lookup.
func ResolveWith(explicit Settings, getenv func(string) string) (Settings, error) {
	s := Settings{
		User:         pick(explicit.User, getenv(EnvUser)),
		Password:     pick(explicit.Password, getenv(EnvPassword)),
		BaseURL:      strings.TrimRight(pick(explicit.BaseURL, getenv(EnvBaseURL)), "/"),
		GoobiBaseURL: pick(explicit.GoobiBaseURL, getenv(EnvGoobiBaseURL)),
	}

	var missing []string
	if s.User == "" {
		missing = append(missing, EnvUser)
	}
	if s.Password == "" {
		missing = append(missing, EnvPassword)
	}
	if s.BaseURL == "" {
		missing = append(missing, EnvBaseURL)
	}
	if len(missing) > 0 {
		return Settings{}, errs.Config("missing %s (set the flag or the environment variable)", strings.Join(missing, ", "))
	}

	if s.GoobiBaseURL == "" {
		slog.Warn("Goobi base URL not configured, uploads from Goobi are disabled", "env", EnvGoobiBaseURL)
	}

	return s, nil
}

func pick(explicit, fallback string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	return strings.TrimSpace(fallback)
}
