package mets

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/beevik/etree"

	"github.com/acdh-oeaw/transkribus-utils/internal/errs"
)

// DefaultImagePattern points DEFAULT file locations at full-size images on
// the ACDH Goobi viewer. The verbs receive the record and image segments.
const DefaultImagePattern = "https://viewer.acdh.oeaw.ac.at/viewer/api/v1/records/%s/files/images/%s/full/full/0/default.jpg"

const (
	groupPresentation = "PRESENTATION"
	groupDefault      = "DEFAULT"
)

// RewriteResult reports what RewriteImageLocations changed.
type RewriteResult struct {
	Rewritten    int
	RemovedFptrs int
}

// RewriteImageLocations replaces the href of every DEFAULT file location
// with pattern rendered from the last two path segments of the
// PRESENTATION location at the same index. The groups are paired by
// position only, so they must have the same length; otherwise the document
// is left untouched and an ErrData error is returned. Afterwards every
// fptr whose FILEID names no file is removed.
func RewriteImageLocations(doc *etree.Document, pattern string, ns Namespaces) (RewriteResult, error) {
	if n := strings.Count(pattern, "%s"); n != 2 {
		return RewriteResult{}, errs.Data("image pattern needs exactly two %%s verbs, got %d", n)
	}

	presentation := locationHrefs(doc, groupPresentation, ns)
	defaults := locationHrefs(doc, groupDefault, ns)
	if len(presentation) != len(defaults) {
		return RewriteResult{}, errs.Data("PRESENTATION group has %d locations, DEFAULT group has %d", len(presentation), len(defaults))
	}

	replacements := make([]string, len(presentation))
	for i, href := range presentation {
		record, image, err := lastTwoSegments(href.Value)
		if err != nil {
			return RewriteResult{}, err
		}
		replacements[i] = fmt.Sprintf(pattern, record, image)
	}
	for i, href := range defaults {
		href.Value = replacements[i]
	}

	removed := removeDanglingFptrs(doc, ns)
	slog.Debug("Rewrote METS image locations", "rewritten", len(defaults), "removed_fptrs", removed)

	return RewriteResult{Rewritten: len(defaults), RemovedFptrs: removed}, nil
}

// locationHrefs returns the xlink:href attributes of every FLocat in the
// file groups whose USE equals use, in document order.
func locationHrefs(doc *etree.Document, use string, ns Namespaces) []*etree.Attr {
	var hrefs []*etree.Attr
	for _, grp := range descendants(doc.Root(), ns.METS, "fileGrp") {
		if grp.SelectAttrValue("USE", "") != use {
			continue
		}
		for _, loc := range descendants(grp, ns.METS, "FLocat") {
			if href := attrNS(loc, ns.XLink, "href"); href != nil {
				hrefs = append(hrefs, href)
			}
		}
	}
	return hrefs
}

func lastTwoSegments(href string) (string, string, error) {
	parts := strings.Split(strings.TrimRight(href, "/"), "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", errs.Data("file location %q has fewer than two path segments", href)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}

func removeDanglingFptrs(doc *etree.Document, ns Namespaces) int {
	ids := map[string]struct{}{}
	for _, f := range descendants(doc.Root(), ns.METS, "file") {
		if id := f.SelectAttrValue("ID", ""); id != "" {
			ids[id] = struct{}{}
		}
	}

	removed := 0
	for _, fptr := range descendants(doc.Root(), ns.METS, "fptr") {
		if _, ok := ids[fptr.SelectAttrValue("FILEID", "")]; ok {
			continue
		}
		if parent := fptr.Parent(); parent != nil {
			parent.RemoveChild(fptr)
			removed++
		}
	}
	return removed
}
