package iiif

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// DefaultLabelKey is the manifest field holding its title.
const DefaultLabelKey = "label"

// Title fetches the manifest at manifestURL and returns its label. Any
// failure, including a missing or empty label, returns manifestURL itself.
func Title(ctx context.Context, hc *http.Client, manifestURL, labelKey string) string {
	if hc == nil {
		hc = http.DefaultClient
	}
	if labelKey == "" {
		labelKey = DefaultLabelKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		slog.Warn("Invalid IIIF manifest URL", "url", manifestURL, "error", err)
		return manifestURL
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		slog.Warn("Failed to fetch IIIF manifest", "url", manifestURL, "error", err)
		return manifestURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("IIIF manifest not available", "url", manifestURL, "status", resp.StatusCode)
		return manifestURL
	}

	var manifest map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		slog.Warn("IIIF manifest is not JSON", "url", manifestURL, "error", err)
		return manifestURL
	}

	if label := labelText(manifest[labelKey]); label != "" {
		return label
	}
	return manifestURL
}

// labelText understands the Presentation 2 plain string, the 2.x
// @value list and the Presentation 3 language map.
func labelText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var values []struct {
		Value string `json:"@value"`
	}
	if err := json.Unmarshal(raw, &values); err == nil {
		for _, v := range values {
			if v.Value != "" {
				return v.Value
			}
		}
	}

	var langMap map[string][]string
	if err := json.Unmarshal(raw, &langMap); err == nil {
		for _, lang := range []string{"none", "en", "de"} {
			if vs := langMap[lang]; len(vs) > 0 {
				return vs[0]
			}
		}
		for _, vs := range langMap {
			if len(vs) > 0 {
				return vs[0]
			}
		}
	}
	return ""
}
