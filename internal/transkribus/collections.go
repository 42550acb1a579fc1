package transkribus

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/acdh-oeaw/transkribus-utils/internal/errs"
)

// ListCollections returns every collection visible to the session.
func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	var cols []Collection
	if err := c.getJSON(ctx, "list collections", c.endpoint("/collections/list", nil), &cols); err != nil {
		slog.Error("Failed to list collections", "status", errs.StatusCode(err), "error", err)
		return nil, err
	}
	return cols, nil
}

// FilterCollectionsByName returns the collections whose name contains substr.
func (c *Client) FilterCollectionsByName(ctx context.Context, substr string) ([]Collection, error) {
	cols, err := c.ListCollections(ctx)
	if err != nil {
		return nil, err
	}

	var matches []Collection
	for _, col := range cols {
		if strings.Contains(col.Name, substr) {
			matches = append(matches, col)
		}
	}
	return matches, nil
}

// FindCollectionsByName looks up collections by exact name. Names are not
// unique, so zero or more collections come back in server order.
func (c *Client) FindCollectionsByName(ctx context.Context, name string) ([]Collection, error) {
	q := url.Values{}
	q.Set("name", name)

	var cols []Collection
	if err := c.getJSON(ctx, "find collection", c.endpoint("/collections/listByName", q), &cols); err != nil {
		slog.Error("Failed to look up collection", "name", name, "status", errs.StatusCode(err), "error", err)
		return nil, err
	}
	return cols, nil
}

// CreateCollection always creates a new collection named name.
func (c *Client) CreateCollection(ctx context.Context, name string) (Collection, error) {
	q := url.Values{}
	q.Set("collName", name)

	body, err := c.do(ctx, "create collection", http.MethodPost, c.endpoint("/collections/createCollection", q))
	if err != nil {
		slog.Error("Failed to create collection", "name", name, "status", errs.StatusCode(err), "error", err)
		return Collection{}, err
	}

	id, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil {
		return Collection{}, errs.Data("create collection %q: response %q is not a collection id", name, string(body))
	}

	slog.Info("Created collection", "name", name, "col_id", id)
	return Collection{ID: id, Name: name}, nil
}

// GetOrCreateCollection returns the id of the first collection named name,
// creating one when none exists. Two callers racing on an absent name may
// both create a collection.
func (c *Client) GetOrCreateCollection(ctx context.Context, name string) (int, error) {
	cols, err := c.FindCollectionsByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("get or create collection %q: %w", name, err)
	}

	if len(cols) > 0 {
		if len(cols) > 1 {
			slog.Warn("Collection name is ambiguous, using first match", "name", name, "matches", len(cols), "col_id", cols[0].ID)
		}
		return cols[0].ID, nil
	}

	col, err := c.CreateCollection(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("get or create collection %q: %w", name, err)
	}
	return col.ID, nil
}
