// Package textutil provides the shared text primitives used by the cleaning and scoring passes:
// tag stripping, sentence and word splitting, word sets and Jaccard similarity.
package textutil

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	sentenceRe   = regexp.MustCompile(`[.!?]+`)
	// segmentRe matches a sentence together with its terminator and any leading whitespace
	segmentRe = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// MinWordLength is the length a token must exceed to count as a significant word
const MinWordLength = 2

// StripTags removes markup and decodes entities, leaving single-spaced text
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Lower lowercases using Turkish casing rules (I -> ı, İ -> i) so that listings
// written in the site's language produce stable word sets.
// A Caser is stateful, so one is built per call.
func Lower(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// Words splits text on whitespace
func Words(s string) []string {
	return strings.Fields(s)
}

// CountWords counts whitespace-separated words in the text content of s
func CountWords(s string) int {
	return len(Words(StripTags(s)))
}

// Sentences splits text on runs of sentence terminators and drops empty pieces
func Sentences(s string) []string {
	parts := sentenceRe.Split(s, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// Segments splits s into consecutive pieces that concatenate back to s exactly.
// Each piece except possibly the last ends with its sentence terminator.
func Segments(s string) []string {
	if s == "" {
		return nil
	}
	locs := segmentRe.FindAllStringIndex(s, -1)
	segments := make([]string, 0, len(locs)+1)
	last := 0
	for _, loc := range locs {
		segments = append(segments, s[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(s) {
		segments = append(segments, s[last:])
	}
	return segments
}

// WordSet returns the set of lowercase tokens longer than MinWordLength runes.
// Tokens are runs of letters and digits.
func WordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	tokens := strings.FieldsFunc(Lower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) > MinWordLength {
			set[tok] = struct{}{}
		}
	}
	return set
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both sets are empty
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	intersection := 0
	for w := range small {
		if _, ok := large[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// Tags returns every tag token in s, in order
func Tags(s string) []string {
	return tagRe.FindAllString(s, -1)
}
