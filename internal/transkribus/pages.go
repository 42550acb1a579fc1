package transkribus

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/beevik/etree"

	"github.com/acdh-oeaw/transkribus-utils/internal/errs"
)

// pageNSPrefix is common to every PAGE content schema version.
const pageNSPrefix = "http://schema.primaresearch.org/PAGE/gts/pagecontent/"

type trpPage struct {
	PageID      int    `xml:"pageId"`
	DocID       int    `xml:"docId"`
	PageNr      int    `xml:"pageNr"`
	URL         string `xml:"url"`
	ThumbURL    string `xml:"thumbUrl"`
	Transcripts []struct {
		URL string `xml:"url"`
	} `xml:"tsList>transcripts"`
}

// GetPageDetail fetches one page of a document. An empty pageNumber means
// the first page. A page without any transcript yields an ErrData error.
func (c *Client) GetPageDetail(ctx context.Context, docID, colID int, pageNumber string) (PageDetail, error) {
	if pageNumber == "" {
		pageNumber = "1"
	}
	docURL := c.endpoint(fmt.Sprintf("/collections/%d/%d/%s", colID, docID, pageNumber), nil)

	body, err := c.do(ctx, "get page", http.MethodGet, docURL)
	if err != nil {
		slog.Error("Failed to fetch page", "col_id", colID, "doc_id", docID, "page", pageNumber, "status", errs.StatusCode(err), "error", err)
		return PageDetail{}, err
	}

	var page trpPage
	if err := xml.Unmarshal(body, &page); err != nil {
		return PageDetail{}, errs.Data("page %s of document %d: %v", pageNumber, docID, err)
	}
	if len(page.Transcripts) == 0 {
		slog.Warn("Page has no transcript yet", "col_id", colID, "doc_id", docID, "page", pageNumber)
		return PageDetail{}, errs.Data("page %s of document %d has no transcript", pageNumber, docID)
	}

	return PageDetail{
		ColID:         colID,
		DocID:         docID,
		PageNumber:    pageNumber,
		DocURL:        docURL,
		PageID:        page.PageID,
		ImageURL:      strings.TrimSpace(page.URL),
		ThumbURL:      strings.TrimSpace(page.ThumbURL),
		TranscriptURL: strings.TrimSpace(page.Transcripts[0].URL),
	}, nil
}

// GetTranscript fetches the latest transcript of a page and extracts its
// text lines in document order.
func (c *Client) GetTranscript(ctx context.Context, detail PageDetail) (Transcript, error) {
	if detail.TranscriptURL == "" {
		return Transcript{}, errs.Data("page %s of document %d has no transcript url", detail.PageNumber, detail.DocID)
	}

	body, err := c.do(ctx, "get transcript", http.MethodGet, detail.TranscriptURL)
	if err != nil {
		slog.Error("Failed to fetch transcript", "doc_id", detail.DocID, "page", detail.PageNumber, "status", errs.StatusCode(err), "error", err)
		return Transcript{}, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return Transcript{}, errs.Data("transcript of document %d page %s: %v", detail.DocID, detail.PageNumber, err)
	}

	return Transcript{
		Page:         detail,
		PageDocument: doc,
		Lines:        TextLines(doc),
	}, nil
}

// TextLines returns the Unicode text below every PAGE TextLine.
func TextLines(doc *etree.Document) []string {
	lines := []string{}
	var walk func(e *etree.Element, inLine bool)
	walk = func(e *etree.Element, inLine bool) {
		isPage := strings.HasPrefix(e.NamespaceURI(), pageNSPrefix)
		if isPage && inLine && e.Tag == "Unicode" {
			if text := e.Text(); text != "" {
				lines = append(lines, text)
			}
		}
		childInLine := inLine || (isPage && e.Tag == "TextLine")
		for _, child := range e.ChildElements() {
			walk(child, childInLine)
		}
	}
	if root := doc.Root(); root != nil {
		walk(root, false)
	}
	return lines
}
