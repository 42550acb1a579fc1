// Package importer uploads METS files served by a Goobi viewer into
// Transkribus collections.
package importer

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/acdh-oeaw/transkribus-utils/internal/errs"
	"github.com/acdh-oeaw/transkribus-utils/internal/transkribus"
)

// Transkribus is the part of the Transkribus client the importer needs.
type Transkribus interface {
	GetOrCreateCollection(ctx context.Context, name string) (int, error)
	UploadMETSFromURL(ctx context.Context, metsURL string, colID int) error
	SearchForDocument(ctx context.Context, title string, colID int) ([]transkribus.DocumentSummary, error)
}

// Mode selects the target collection of each title. Build it with
// ByRegex or ByCollection; the zero Mode is invalid.
type Mode struct {
	pattern *regexp.Regexp
	colID   int
	set     bool
}

// ByRegex sends each title to the collection named by the part of the
// title that pattern matches, creating the collection when needed.
func ByRegex(pattern *regexp.Regexp) Mode {
	return Mode{pattern: pattern, set: pattern != nil}
}

// ByCollection sends every title to collection colID.
func ByCollection(colID int) Mode {
	return Mode{colID: colID, set: true}
}

// Importer runs bulk uploads. CheckDuplicates is on by default.
type Importer struct {
	client          Transkribus
	goobiBaseURL    string
	CheckDuplicates bool
}

// New creates an importer that composes upload URLs as goobiBaseURL+title.
func New(client Transkribus, goobiBaseURL string) *Importer {
	return &Importer{
		client:          client,
		goobiBaseURL:    goobiBaseURL,
		CheckDuplicates: true,
	}
}

// TitleResult records what happened to one title.
type TitleResult struct {
	Title   string `yaml:"title" json:"title" parquet:"title"`
	ColID   int    `yaml:"col_id,omitempty" json:"col_id,omitempty" parquet:"col_id"`
	MetsURL string `yaml:"mets_url,omitempty" json:"mets_url,omitempty" parquet:"mets_url"`
	Status  string `yaml:"status" json:"status" parquet:"status"`
	Error   string `yaml:"error,omitempty" json:"error,omitempty" parquet:"error"`
}

// Title outcomes.
const (
	StatusUploaded  = "uploaded"
	StatusDuplicate = "duplicate"
	StatusFailed    = "failed"
)

// Summary aggregates a run.
type Summary struct {
	Uploaded   int           `yaml:"uploaded"`
	Duplicates int           `yaml:"duplicates"`
	Failed     int           `yaml:"failed"`
	Results    []TitleResult `yaml:"results"`
}

func (s *Summary) add(r TitleResult) {
	switch r.Status {
	case StatusUploaded:
		s.Uploaded++
	case StatusDuplicate:
		s.Duplicates++
	default:
		s.Failed++
	}
	s.Results = append(s.Results, r)
}

// Run uploads every title. Only configuration problems stop the run; a
// failing title is logged and recorded in the summary. Prior uploads are
// never rolled back.
func (im *Importer) Run(ctx context.Context, titles []string, mode Mode) (Summary, error) {
	if !mode.set {
		return Summary{}, errs.Config("either a collection regex or a collection id is required")
	}
	if im.goobiBaseURL == "" {
		return Summary{}, errs.Config("Goobi base URL is required to compose METS source URLs")
	}

	slog.Info("Starting import", "titles", len(titles), "check_duplicates", im.CheckDuplicates)

	var summary Summary
	for i, title := range titles {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result := im.importTitle(ctx, title, mode)
		slog.Info("Processed title", "title", title, "status", result.Status, "col_id", result.ColID, "progress", i+1, "total", len(titles))
		summary.add(result)
	}

	slog.Info("Import finished", "uploaded", summary.Uploaded, "duplicates", summary.Duplicates, "failed", summary.Failed)
	return summary, nil
}

func (im *Importer) importTitle(ctx context.Context, title string, mode Mode) TitleResult {
	result := TitleResult{Title: title}

	colID, err := im.targetCollection(ctx, title, mode)
	if err != nil {
		slog.Warn("No target collection for title", "title", title, "error", err)
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}
	result.ColID = colID

	if im.CheckDuplicates {
		existing, err := im.client.SearchForDocument(ctx, title, colID)
		if err != nil {
			result.Status = StatusFailed
			result.Error = err.Error()
			return result
		}
		if len(existing) > 0 {
			slog.Info("Document already in collection, skipping", "title", title, "col_id", colID, "doc_id", existing[0].DocID)
			result.Status = StatusDuplicate
			return result
		}
	}

	result.MetsURL = im.goobiBaseURL + title
	if err := im.client.UploadMETSFromURL(ctx, result.MetsURL, colID); err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}
	result.Status = StatusUploaded
	return result
}

func (im *Importer) targetCollection(ctx context.Context, title string, mode Mode) (int, error) {
	if mode.pattern == nil {
		return mode.colID, nil
	}
	name := mode.pattern.FindString(title)
	if name == "" {
		return 0, errs.Data("title %q does not match %s", title, mode.pattern)
	}
	return im.client.GetOrCreateCollection(ctx, name)
}
