// Package report writes tabular results of the CLI commands to YAML,
// JSONL or Parquet, chosen by file extension.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Header describes the run a report belongs to.
type Header struct {
	Command   string            `yaml:"command"`
	Timestamp string            `yaml:"timestamp"`
	Params    map[string]string `yaml:"params,omitempty"`
}

// NewHeader stamps a header with the current time.
func NewHeader(command string, params map[string]string) Header {
	return Header{
		Command:   command,
		Timestamp: time.Now().Format("2006-01-02_15-04-05"),
		Params:    params,
	}
}

// Document is the YAML layout: the run header followed by the rows.
type Document[T any] struct {
	Config  Header `yaml:"config"`
	Summary any    `yaml:"summary,omitempty"`
	Results []T    `yaml:"results"`
}

// Write stores rows under path. The extension selects the format:
// .yaml/.yml (with header and summary), .jsonl/.json (one row per line)
// or .parquet (rows only).
func Write[T any](fs afero.Fs, path string, header Header, summary any, rows []T) error {
	ext := strings.ToLower(filepath.Ext(path))

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	var err error
	switch ext {
	case ".yaml", ".yml":
		err = writeYAML(fs, path, Document[T]{Config: header, Summary: summary, Results: rows})
	case ".jsonl", ".json":
		err = writeJSONL(fs, path, rows)
	case ".parquet":
		err = writeParquet(fs, path, rows)
	default:
		return fmt.Errorf("unsupported report format: %s (supported: .yaml, .jsonl, .parquet)", ext)
	}
	if err != nil {
		return err
	}

	slog.Info("Report written", "path", path, "rows", len(rows))
	return nil
}

func writeYAML(fs afero.Fs, path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

func writeJSONL[T any](fs afero.Fs, path string, rows []T) error {
	file, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for i, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to encode row %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

func writeParquet[T any](fs afero.Fs, path string, rows []T) error {
	file, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	if err := parquet.Write(file, rows); err != nil {
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	return nil
}
