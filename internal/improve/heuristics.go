package improve

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/content-quality/internal/textutil"
)

const (
	// maxHeadingWords and maxHeadingRunes bound an opening paragraph that may become a heading
	maxHeadingWords = 10
	maxHeadingRunes = 80
	// maxParagraphSentences is the most sentences a paragraph keeps before it is split
	maxParagraphSentences = 5
	// sentencesPerParagraph is the size of each piece of a split paragraph
	sentencesPerParagraph = 3
)

var (
	anyHeadingRe     = regexp.MustCompile(`(?i)<h[1-6][\s>]`)
	firstParagraphRe = regexp.MustCompile(`^\s*<p>([^<>]+)</p>`)
	plainParagraphRe = regexp.MustCompile(`<p>([^<>]*)</p>`)
)

// PromoteHeading turns a short opening paragraph into an <h2> when the content
// has no heading at all and more content follows the paragraph
func PromoteHeading(html string) (string, bool) {
	if anyHeadingRe.MatchString(html) {
		return html, false
	}
	loc := firstParagraphRe.FindStringSubmatchIndex(html)
	if loc == nil {
		return html, false
	}
	text := strings.TrimSpace(html[loc[2]:loc[3]])
	rest := html[loc[1]:]
	if text == "" || strings.TrimSpace(rest) == "" {
		return html, false
	}
	if utf8.RuneCountInString(text) > maxHeadingRunes || len(textutil.Words(text)) > maxHeadingWords {
		return html, false
	}
	if strings.HasSuffix(text, ".") {
		return html, false
	}
	return "<h2>" + text + "</h2>" + rest, true
}

// SplitLongParagraphs breaks text-only paragraphs of more than five sentences
// into paragraphs of three and returns how many paragraphs were split
func SplitLongParagraphs(html string) (string, int) {
	split := 0
	out := plainParagraphRe.ReplaceAllStringFunc(html, func(p string) string {
		body := p[len("<p>") : len(p)-len("</p>")]
		var sentences []string
		for _, seg := range textutil.Segments(body) {
			if seg = strings.TrimSpace(seg); seg != "" {
				sentences = append(sentences, seg)
			}
		}
		if len(sentences) <= maxParagraphSentences {
			return p
		}

		split++
		var sb strings.Builder
		for start := 0; start < len(sentences); start += sentencesPerParagraph {
			end := min(start+sentencesPerParagraph, len(sentences))
			sb.WriteString("<p>")
			sb.WriteString(strings.Join(sentences[start:end], " "))
			sb.WriteString("</p>")
		}
		return sb.String()
	})
	return out, split
}
