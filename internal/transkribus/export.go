package transkribus

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/acdh-oeaw/transkribus-utils/internal/errs"
)

// GetMETS returns the METS export of a document, or nil and an error.
func (c *Client) GetMETS(ctx context.Context, docID, colID int) (*etree.Document, error) {
	path := fmt.Sprintf("/collections/%d/%d/mets", colID, docID)
	body, err := c.do(ctx, "get mets", http.MethodGet, c.endpoint(path, nil))
	if err != nil {
		slog.Error("Failed to fetch METS", "col_id", colID, "doc_id", docID, "status", errs.StatusCode(err), "error", err)
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		slog.Error("METS response is not XML", "col_id", colID, "doc_id", docID, "error", err)
		return nil, errs.Data("mets of document %d: %v", docID, err)
	}
	return doc, nil
}

// SaveMETSToFile writes the METS export of a document to
// <dir>/<docID>_mets.xml and returns that path. An absent dir yields an
// empty path and an ErrIO error before any request is made.
func (c *Client) SaveMETSToFile(ctx context.Context, docID, colID int, dir string) (string, error) {
	if err := c.requireDir(dir); err != nil {
		return "", err
	}

	doc, err := c.GetMETS(ctx, docID, colID)
	if err != nil {
		return "", err
	}

	data, err := doc.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("failed to serialize METS of document %d: %w", docID, err)
	}

	fileName := filepath.Join(dir, fmt.Sprintf("%d_mets.xml", docID))
	if err := afero.WriteFile(c.fs, fileName, data, 0644); err != nil {
		slog.Error("Failed to write METS file", "path", fileName, "error", err)
		return "", errs.IO("write %s: %v", fileName, err)
	}
	return fileName, nil
}

// GetImageNames returns the image file names of a document in page order.
// The slice is empty, never nil, when the call fails.
func (c *Client) GetImageNames(ctx context.Context, docID, colID int) ([]string, error) {
	path := fmt.Sprintf("/collections/%d/%d/imageNames", colID, docID)
	body, err := c.do(ctx, "get image names", http.MethodGet, c.endpoint(path, nil))
	if err != nil {
		slog.Error("Failed to fetch image names", "col_id", colID, "doc_id", docID, "status", errs.StatusCode(err), "error", err)
		return []string{}, err
	}

	names := []string{}
	for _, line := range strings.Split(string(body), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// SaveImageNamesToFile writes the image names of a document to
// <dir>/<docID>_image_name.xml and returns that path.
func (c *Client) SaveImageNamesToFile(ctx context.Context, docID, colID int, dir string) (string, error) {
	if err := c.requireDir(dir); err != nil {
		return "", err
	}

	names, err := c.GetImageNames(ctx, docID, colID)
	if err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("imageNames")
	root.CreateAttr("docId", strconv.Itoa(docID))
	for _, name := range names {
		root.CreateElement("imageName").SetText(name)
	}
	doc.Indent(2)

	data, err := doc.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("failed to serialize image names of document %d: %w", docID, err)
	}

	fileName := filepath.Join(dir, fmt.Sprintf("%d_image_name.xml", docID))
	if err := afero.WriteFile(c.fs, fileName, data, 0644); err != nil {
		slog.Error("Failed to write image name file", "path", fileName, "error", err)
		return "", errs.IO("write %s: %v", fileName, err)
	}
	return fileName, nil
}

// CollectionToMETS saves METS and image names of every document in a
// collection under <dir>/<colID>. A non-empty filter restricts the export
// to those document ids. Failures of single documents do not stop the
// export; they are returned together once every document was tried.
func (c *Client) CollectionToMETS(ctx context.Context, colID int, dir string, filterDocIDs []string) ([]int, error) {
	colDir := filepath.Join(dir, strconv.Itoa(colID))
	if err := c.fs.MkdirAll(colDir, 0755); err != nil {
		return nil, errs.IO("create %s: %v", colDir, err)
	}

	docs, err := c.ListDocuments(ctx, colID)
	if err != nil {
		return nil, fmt.Errorf("export collection %d: %w", colID, err)
	}

	wanted := parseDocIDs(filterDocIDs)
	var docIDs []int
	for _, d := range docs {
		if len(filterDocIDs) > 0 {
			if _, ok := wanted[d.DocID]; !ok {
				continue
			}
		}
		docIDs = append(docIDs, d.DocID)
	}

	slog.Info("Exporting collection", "col_id", colID, "documents", len(docIDs), "dir", colDir)

	var result *multierror.Error
	for i, docID := range docIDs {
		metsPath, err := c.SaveMETSToFile(ctx, docID, colID, colDir)
		if err != nil {
			slog.Warn("Skipping METS of document", "col_id", colID, "doc_id", docID, "error", err)
			result = multierror.Append(result, fmt.Errorf("document %d: mets: %w", docID, err))
		}

		namesPath, err := c.SaveImageNamesToFile(ctx, docID, colID, colDir)
		if err != nil {
			slog.Warn("Skipping image names of document", "col_id", colID, "doc_id", docID, "error", err)
			result = multierror.Append(result, fmt.Errorf("document %d: image names: %w", docID, err))
		}

		slog.Info("Saved document", "doc_id", docID, "mets", metsPath, "image_names", namesPath, "progress", fmt.Sprintf("%d/%d", i+1, len(docIDs)))
	}

	return docIDs, result.ErrorOrNil()
}

func (c *Client) requireDir(dir string) error {
	exists, err := afero.DirExists(c.fs, dir)
	if err != nil || !exists {
		slog.Error("Target directory does not exist", "dir", dir)
		return errs.IO("%s does not exist", dir)
	}
	return nil
}

// parseDocIDs turns filter entries into a set of document ids. Entries that
// are not integers are ignored.
func parseDocIDs(raw []string) map[int]struct{} {
	ids := make(map[int]struct{}, len(raw))
	for _, r := range raw {
		id, err := strconv.Atoi(strings.TrimSpace(r))
		if err != nil {
			slog.Warn("Ignoring non-numeric document id in filter", "value", r)
			continue
		}
		ids[id] = struct{}{}
	}
	return ids
}
