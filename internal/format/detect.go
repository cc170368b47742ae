// Package format classifies raw article text and reverses entity escaping before rendering.
package format

import (
	"regexp"
	"strings"

	"github.com/jonathan/content-quality/internal/types"
)

var (
	escapedTagRe = regexp.MustCompile(`(?s)&lt;/?[a-zA-Z][a-zA-Z0-9]*(?:\s.*?)?/?&gt;`)
	rawTagRe     = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(?:\s[^<>]*)?/?>`)

	tableSeparatorRe = regexp.MustCompile(`^\s*\|?\s*:?-{3,}:?\s*(?:\|\s*:?-{3,}:?\s*)*\|?\s*$`)
)

// markdownSignals are checked in order; any match classifies the text as Markdown
var markdownSignals = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^#{1,6}\s+\S`),                   // ATX heading
	regexp.MustCompile(`(?m)^\s*[-*+]\s+\S`),                 // bullet list
	regexp.MustCompile(`(?m)^\s*\d+\.\s+\S`),                 // numbered list
	regexp.MustCompile(`\*\*[^*\n]+\*\*|__[^_\n]+__`),        // bold
	regexp.MustCompile(`(?:^|[\s(])\*[^*\s][^*\n]*\*`),       // italic (*)
	regexp.MustCompile(`(?:^|[\s(])_[^_\s][^_\n]*_(?:$|\W)`), // italic (_)
	regexp.MustCompile(`\[[^\]\n]+\]\([^)\s]+\)`),            // link
}

// Detect classifies text. Escaped HTML is checked before raw HTML, and both before
// Markdown, so "&lt;h2&gt;" is never taken for Markdown.
func Detect(text string) types.ContentFormat {
	if strings.TrimSpace(text) == "" {
		return types.FormatPlain
	}

	if hasEscapeEntity(text) && escapedTagRe.MatchString(text) {
		return types.FormatHTMLEscaped
	}

	if rawTagRe.MatchString(text) {
		return types.FormatHTML
	}

	if IsMarkdown(text) {
		return types.FormatMarkdown
	}

	return types.FormatPlain
}

// IsMarkdown reports whether text carries any Markdown signal, pipe tables included
func IsMarkdown(text string) bool {
	for _, re := range markdownSignals {
		if re.MatchString(text) {
			return true
		}
	}
	return hasPipeTable(text)
}

// hasPipeTable looks for a pipe-delimited row immediately followed by a separator row
func hasPipeTable(text string) bool {
	lines := strings.Split(text, "\n")
	for i := 0; i+1 < len(lines); i++ {
		if strings.Contains(lines[i], "|") && strings.Contains(lines[i+1], "|") && tableSeparatorRe.MatchString(lines[i+1]) {
			return true
		}
	}
	return false
}

// IsTableSeparator reports whether line is a Markdown table header separator row
func IsTableSeparator(line string) bool {
	return strings.Contains(line, "-") && tableSeparatorRe.MatchString(line)
}

func hasEscapeEntity(text string) bool {
	return strings.Contains(text, "&lt;") || strings.Contains(text, "&gt;") || strings.Contains(text, "&amp;")
}
