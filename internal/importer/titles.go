package importer

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/afero"
)

// LoadTitles reads one external document title per line. Surrounding
// whitespace is trimmed and blank lines are skipped.
func LoadTitles(fs afero.Fs, path string) ([]string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open title file: %w", err)
	}
	defer file.Close()

	var titles []string
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		title := strings.TrimSpace(scanner.Text())
		if title == "" {
			continue
		}
		titles = append(titles, title)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading title file at line %d: %w", lineNum, err)
	}

	slog.Debug("Loaded titles", "path", path, "titles", len(titles), "lines", lineNum)
	return titles, nil
}
