// Package scoring computes the individual quality sub-scores: readability, SEO
// compliance, engagement and duplicate similarity.
package scoring

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// clamp bounds a score to [0,100]
func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// parse builds a goquery document from an HTML fragment. The html parser
// recovers from any malformed input, so an error only comes from the reader;
// an empty document is returned in that case.
func parse(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}
	return doc
}

// nonEmptyAttr counts elements in sel whose attr is present and not blank
func nonEmptyAttr(sel *goquery.Selection, attr string) int {
	count := 0
	sel.Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			count++
		}
	})
	return count
}
