// Package scrape holds the helpers shared by the per-tour extractors.
// Extractors never fail a whole page for one bad record; they return the
// records they could build and a Skip for each one they could not.
package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Skip records why one item of a page was not turned into a record.
type Skip struct {
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
}

// Skipf builds a Skip with a formatted reason.
func Skipf(ref, format string, args ...any) Skip {
	return Skip{Ref: ref, Reason: fmt.Sprintf(format, args...)}
}

// Parse loads an HTML fragment captured by the browser.
func Parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// Text returns the text of sel with runs of whitespace collapsed to single
// spaces.
func Text(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// Attr returns the trimmed value of attribute name on the first element of
// sel, or "" when absent.
func Attr(sel *goquery.Selection, name string) string {
	v, _ := sel.Attr(name)
	return strings.TrimSpace(v)
}

// LinkWithText returns the href of the first anchor under sel whose text is
// exactly label.
func LinkWithText(sel *goquery.Selection, label string) (string, bool) {
	a := sel.Find("a").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return Text(s) == label
	}).First()
	if a.Length() == 0 {
		return "", false
	}
	return a.Attr("href")
}
