// Package scrape extracts financial data from a Fundamentus detail page.
//
// The page has no stable schema: cells are identified only by the rendered
// label text and CSS roles (td.label / td.data / span.txt). Document wraps a
// parsed tree behind a label index so extraction policy stays independent of
// the markup shape.
package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is an immutable parsed detail page queryable by label text.
type Document struct {
	doc *goquery.Document
}

// NewDocument parses the page HTML. The caller is responsible for charset
// decoding (the site serves ISO-8859-1).
func NewDocument(html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// IsDetailPage reports whether the document carries the "Papel" marker cell
// present on every valid detail page. Used to distinguish a real quote page
// from an error or search page returned under HTTP 200.
func (d *Document) IsDetailPage() bool {
	_, ok := d.IndicatorText("Papel")
	return ok
}

// IndicatorText locates label in the flat key-value region by exact text match
// scoped to a td.label cell and returns the adjacent value cell's text.
// The second return is false when the label or its value cell is missing.
func (d *Document) IndicatorText(label string) (string, bool) {
	text := ""
	found := false

	d.doc.Find("td.label span.txt").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if strings.TrimSpace(span.Text()) != label {
			return true
		}
		labelTd := span.Closest("td")
		valueTd := labelTd.NextFiltered("td.data")
		if valueTd.Length() == 0 {
			valueTd = labelTd.Next()
		}
		if valueTd.Length() == 0 {
			return true // keep looking, another row may carry the value
		}
		valueSpan := valueTd.Find("span.txt").First()
		v := strings.TrimSpace(valueSpan.Text())
		if v == "" {
			return true
		}
		text = v
		found = true
		return false
	})

	return text, found
}

// findSection tries each candidate title in order and returns the enclosing
// table of the first heading that matches, plus the title that won.
func (d *Document) findSection(titles []string) (*goquery.Selection, string) {
	for _, title := range titles {
		var table *goquery.Selection
		d.doc.Find("span.txt").EachWithBreak(func(_ int, span *goquery.Selection) bool {
			if strings.TrimSpace(span.Text()) != title {
				return true
			}
			t := span.Closest("table")
			if t.Length() > 0 {
				table = t
				return false
			}
			return true
		})
		if table != nil {
			return table, title
		}
	}
	return nil, ""
}
