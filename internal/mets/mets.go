// Package mets reads and rewrites METS documents as exported by Goobi
// and Transkribus.
package mets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/spf13/afero"

	"github.com/acdh-oeaw/transkribus-utils/internal/errs"
)

// Namespaces names the namespace URIs used to address METS elements.
type Namespaces struct {
	METS  string
	MODS  string
	XLink string
}

// DefaultNamespaces returns the standard METS, MODS and XLink namespaces.
func DefaultNamespaces() Namespaces {
	return Namespaces{
		METS:  "http://www.loc.gov/METS/",
		MODS:  "http://www.loc.gov/mods/v3",
		XLink: "http://www.w3.org/1999/xlink",
	}
}

// Loader opens METS documents from URLs or local files.
type Loader struct {
	HTTPClient *http.Client
	Fs         afero.Fs
}

// NewLoader creates a loader backed by the OS filesystem.
func NewLoader() *Loader {
	return &Loader{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Fs: afero.NewOsFs(),
	}
}

// Load parses the METS document at source, an http(s) URL or a file path.
func (l *Loader) Load(ctx context.Context, source string) (*etree.Document, error) {
	var data []byte
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = l.fetch(ctx, source)
	} else {
		data, err = afero.ReadFile(l.Fs, source)
		if err != nil {
			err = errs.IO("read %s: %v", source, err)
		}
	}
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errs.Data("%s is not XML: %v", source, err)
	}
	slog.Debug("Loaded METS", "source", source, "bytes", len(data))
	return doc, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch METS: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read METS: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &errs.APIError{Op: "fetch mets", URL: source, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// Title returns the text of the first mods:title in doc.
func Title(doc *etree.Document, ns Namespaces) (string, error) {
	for _, el := range descendants(doc.Root(), ns.MODS, "title") {
		if text := el.Text(); text != "" {
			return text, nil
		}
	}
	return "", errs.Data("document has no mods:title")
}

// Serialize renders doc as XML.
func Serialize(doc *etree.Document) (string, error) {
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to serialize METS: %w", err)
	}
	return out, nil
}

// descendants returns the elements below root (root included) with the
// given namespace URI and local name, in document order.
func descendants(root *etree.Element, space, tag string) []*etree.Element {
	var found []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if e.Tag == tag && e.NamespaceURI() == space {
			found = append(found, e)
		}
		for _, child := range e.ChildElements() {
			walk(child)
		}
	}
	if root != nil {
		walk(root)
	}
	return found
}

// attrNS returns the attribute key in namespace space, or nil.
func attrNS(e *etree.Element, space, key string) *etree.Attr {
	for i := range e.Attr {
		if e.Attr[i].Key == key && e.Attr[i].NamespaceURI() == space {
			return &e.Attr[i]
		}
	}
	return nil
}
