package transkribus

import (
	"context"
	"fmt"
	"log/slog"
)

// StatusReport lists every document of the collections whose name
// contains filter, together with its page progress. A document meets the
// threshold when at least threshold of its pages have left status NEW.
func (c *Client) StatusReport(ctx context.Context, filter string, threshold int) ([]DocumentStatus, error) {
	cols, err := c.FilterCollectionsByName(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("status report: %w", err)
	}

	rows := []DocumentStatus{}
	for _, col := range cols {
		docs, err := c.ListDocuments(ctx, col.ID)
		if err != nil {
			slog.Warn("Skipping collection in status report", "col_id", col.ID, "error", err)
			continue
		}
		for _, d := range docs {
			transcribed := d.TranscribedPages()
			rows = append(rows, DocumentStatus{
				ColID:            col.ID,
				ColName:          col.Name,
				DocID:            d.DocID,
				Title:            d.Title,
				Pages:            d.NrOfPages,
				TranscribedPages: transcribed,
				MeetsThreshold:   transcribed >= threshold,
			})
		}
	}

	slog.Debug("Built status report", "filter", filter, "collections", len(cols), "documents", len(rows))
	return rows, nil
}
