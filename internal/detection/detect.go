// Package detection scans text for phrasing typical of machine-generated content.
package detection

import (
	"math"
	"unicode/utf8"

	"github.com/jonathan/content-quality/internal/textutil"
	"github.com/jonathan/content-quality/internal/types"
)

const (
	// prefixLength is the number of leading characters sentences are grouped by
	prefixLength = 50
	// repeatLimit is how often a sentence prefix may occur before it counts as repetition
	repeatLimit = 2
	// HighConfidence is the confidence above which a match is reported as an issue
	HighConfidence = 0.7
)

// Detector runs a rule table plus the sentence-repetition check
type Detector struct {
	Rules []Rule
}

// NewDetector returns a detector over DefaultRules
func NewDetector() *Detector {
	return &Detector{Rules: DefaultRules}
}

// Detect runs the default rule table over text
func Detect(text string) []types.AIPatternMatch {
	return NewDetector().Detect(text)
}

// Detect returns one match per rule hit, in rule order, followed by one
// repetitive match per sentence prefix that occurs more than twice
func (d *Detector) Detect(text string) []types.AIPatternMatch {
	if text == "" {
		return nil
	}

	var matches []types.AIPatternMatch
	for _, r := range d.Rules {
		for _, loc := range r.Matcher.FindAllStringIndex(text, -1) {
			offset := loc[0]
			matches = append(matches, types.AIPatternMatch{
				Pattern:    text[loc[0]:loc[1]],
				Category:   r.Category,
				Confidence: r.Confidence,
				Offset:     &offset,
			})
		}
	}
	return append(matches, DetectRepetition(text)...)
}

// DetectRepetition groups sentences by their lowercase 50-character prefix and
// reports each group seen more than twice, with confidence min(0.9, count*0.3).
// Groups are reported in order of first appearance.
func DetectRepetition(text string) []types.AIPatternMatch {
	counts := make(map[string]int)
	var order []string
	for _, sentence := range textutil.Sentences(textutil.StripTags(text)) {
		key := prefix(textutil.Lower(sentence), prefixLength)
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	var matches []types.AIPatternMatch
	for _, key := range order {
		count := counts[key]
		if count <= repeatLimit {
			continue
		}
		matches = append(matches, types.AIPatternMatch{
			Pattern:    key,
			Category:   types.CategoryRepetitive,
			Confidence: math.Min(0.9, float64(count)*0.3),
		})
	}
	return matches
}

// Probability is the mean confidence of matches, 0 when there are none
func Probability(matches []types.AIPatternMatch) float64 {
	if len(matches) == 0 {
		return 0
	}
	var sum float64
	for _, m := range matches {
		sum += m.Confidence
	}
	return sum / float64(len(matches))
}

// Confident returns the matches whose confidence exceeds HighConfidence
func Confident(matches []types.AIPatternMatch) []types.AIPatternMatch {
	var out []types.AIPatternMatch
	for _, m := range matches {
		if m.Confidence > HighConfidence {
			out = append(out, m)
		}
	}
	return out
}

// prefix returns the first n runes of s
func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
