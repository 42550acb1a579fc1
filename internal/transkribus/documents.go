package transkribus

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/acdh-oeaw/transkribus-utils/internal/errs"
)

// ListDocuments returns the document list of a collection.
func (c *Client) ListDocuments(ctx context.Context, colID int) ([]DocumentSummary, error) {
	var docs []DocumentSummary
	path := fmt.Sprintf("/collections/%d/list", colID)
	if err := c.getJSON(ctx, "list documents", c.endpoint(path, nil), &docs); err != nil {
		slog.Error("Failed to list documents", "col_id", colID, "status", errs.StatusCode(err), "error", err)
		return nil, err
	}
	return docs, nil
}

// GetDocumentMetadata returns the metadata record of a document.
func (c *Client) GetDocumentMetadata(ctx context.Context, docID, colID int) (map[string]any, error) {
	var md map[string]any
	path := fmt.Sprintf("/collections/%d/%d/metadata", colID, docID)
	if err := c.getJSON(ctx, "get document metadata", c.endpoint(path, nil), &md); err != nil {
		slog.Error("Failed to fetch document metadata", "col_id", colID, "doc_id", docID, "status", errs.StatusCode(err), "error", err)
		return nil, err
	}
	return md, nil
}

// GetDocumentOverview returns the full document record and its pages in
// server order.
func (c *Client) GetDocumentOverview(ctx context.Context, docID, colID int) (DocumentOverview, error) {
	var raw map[string]any
	path := fmt.Sprintf("/collections/%d/%d/fulldoc", colID, docID)
	if err := c.getJSON(ctx, "get document overview", c.endpoint(path, nil), &raw); err != nil {
		slog.Error("Failed to fetch document", "col_id", colID, "doc_id", docID, "status", errs.StatusCode(err), "error", err)
		return DocumentOverview{}, err
	}

	pages, err := projectPages(raw)
	if err != nil {
		slog.Error("Unexpected fulldoc layout", "col_id", colID, "doc_id", docID, "error", err)
		return DocumentOverview{}, err
	}

	return DocumentOverview{Raw: raw, Pages: pages}, nil
}

func projectPages(raw map[string]any) ([]Page, error) {
	pageList, ok := raw["pageList"].(map[string]any)
	if !ok {
		return nil, errs.Data("fulldoc has no pageList")
	}
	entries, ok := pageList["pages"].([]any)
	if !ok {
		return nil, errs.Data("fulldoc pageList has no pages")
	}

	pages := make([]Page, 0, len(entries))
	if err := mapstructure.Decode(entries, &pages); err != nil {
		return nil, errs.Data("fulldoc pages: %v", err)
	}
	return pages, nil
}

// SearchForDocument searches a collection for documents with the given title.
func (c *Client) SearchForDocument(ctx context.Context, title string, colID int) ([]DocumentSummary, error) {
	q := url.Values{}
	q.Set("collId", strconv.Itoa(colID))
	q.Set("title", title)
	q.Set("exactMatch", "true")
	q.Set("caseSensitive", "true")

	var docs []DocumentSummary
	if err := c.getJSON(ctx, "search documents", c.endpoint("/collections/findDocuments", q), &docs); err != nil {
		slog.Error("Failed to search for document", "col_id", colID, "title", title, "status", errs.StatusCode(err), "error", err)
		return nil, err
	}
	return docs, nil
}

// UploadMETSFromURL asks Transkribus to create a document from the METS
// file at metsURL. The server fetches the file itself.
func (c *Client) UploadMETSFromURL(ctx context.Context, metsURL string, colID int) error {
	q := url.Values{}
	q.Set("fileName", metsURL)
	path := fmt.Sprintf("/collections/%d/createDocFromMetsUrl", colID)

	if _, err := c.do(ctx, "upload mets", http.MethodPost, c.endpoint(path, q)); err != nil {
		var body string
		if apiErr, ok := asAPIError(err); ok {
			body = apiErr.Body
		}
		slog.Error("Failed to upload METS", "col_id", colID, "mets_url", metsURL, "status", errs.StatusCode(err), "body", body, "error", err)
		return err
	}

	slog.Info("Uploaded METS", "col_id", colID, "mets_url", metsURL)
	return nil
}

// SearchFulltext queries the full-text index on line level. Extra params
// such as "start" or "rows" are passed through.
func (c *Client) SearchFulltext(ctx context.Context, query string, params url.Values) (map[string]any, error) {
	if query == "" {
		return nil, errs.Config("full-text search needs a query")
	}
	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("query", query)
	q.Set("type", "LinesLc")

	var result map[string]any
	if err := c.getJSON(ctx, "full-text search", c.endpoint("/search/fulltext", q), &result); err != nil {
		slog.Error("Full-text search failed", "query", query, "status", errs.StatusCode(err), "error", err)
		return nil, err
	}
	return result, nil
}
