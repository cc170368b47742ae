// Package clean removes placeholder tokens, AI marker text and author notes from
// generated content and collapses repeated sentences and stock phrases.
package clean

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/content-quality/internal/textutil"
)

const (
	// minSentenceLength is the trimmed length a sentence must exceed to be deduplicated
	minSentenceLength = 10
	// duplicateThreshold is the Jaccard similarity above which a sentence repeats an earlier one
	duplicateThreshold = 0.8
)

// placeholderPatterns match bracketed tokens a generator leaves in place of real content
var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[(?:image|img|photo|picture|görsel|resim|fotoğraf)(?:\s*[:\-][^\]]*)?\]`),
	regexp.MustCompile(`(?i)\[(?:alt text|alt|caption|açıklama)\]`),
	regexp.MustCompile(`(?i)\[(?:placeholder|insert [^\]]*|your [^\]]*|add [^\]]*|company name|location|link|url|buraya [^\]]*)\]`),
	regexp.MustCompile(`\{\{\s*[^{}]*\s*\}\}`),
}

// markerPatterns match self-references and wrapper text added by language models
var markerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bas an ai\b(?: language model)?,?\s*`),
	regexp.MustCompile(`(?i)\bbir yapay zek[aâ](?: dil modeli)? olarak,?\s*`),
	regexp.MustCompile(`(?i)[\[(]ai[- ]generated(?: content)?[\])]:?\s*`),
	regexp.MustCompile(`(?im)^[ \t]*ai[- ]generated(?: content)?:\s*`),
	regexp.MustCompile(`(?im)^[ \t]*(?:here is|here's|işte)[^\n]{0,80}:[ \t]*$\n?`),
	regexp.MustCompile("(?m)^[ \\t]*```[a-zA-Z]*[ \\t]*$\\n?"),
}

// notePatterns match author notes. Bracketed notes go entirely, bare ones lose the marker only.
var notePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[(?:TODO|FIXME|NOTE)\b[^\]]*\]`),
	regexp.MustCompile(`\b(?:TODO|FIXME|NOTE)(?:\([^)]*\))?:\s*`),
}

// StockPhrases are openers and fillers that may appear once per text
var StockPhrases = []string{
	"in recent years",
	"in today's world",
	"in today's fast-paced world",
	"it is important to note that",
	"it's worth noting that",
	"when it comes to",
	"son yıllarda",
	"günümüzde",
	"şunu belirtmek gerekir ki",
	"unutulmamalıdır ki",
}

var (
	stockPhraseRes   = compileStockPhrases(StockPhrases)
	tagRe            = regexp.MustCompile(`<[^<>]*>`)
	multiSpaceRe     = regexp.MustCompile(`[ \t]{2,}`)
	spaceBeforePunct = regexp.MustCompile(`[ \t]+([.,!?;:])`)
)

// Report counts what a cleaning pass removed
type Report struct {
	Placeholders       int
	Markers            int
	Notes              int
	DuplicateSentences int
	StockPhrases       int
}

// Changed reports whether anything was removed
func (r Report) Changed() bool {
	return r.Placeholders+r.Markers+r.Notes+r.DuplicateSentences+r.StockPhrases > 0
}

// Clean removes placeholders, markers and repetition from text
func Clean(text string) string {
	out, _ := CleanWithReport(text)
	return out
}

// CleanWithReport is Clean plus a count of each kind of removal
func CleanWithReport(text string) (string, Report) {
	var report Report
	if strings.TrimSpace(text) == "" {
		return "", report
	}

	// 1. Placeholder bracket tokens
	text, report.Placeholders = removeAll(text, placeholderPatterns)

	// 2. AI marker sequences and code fences
	text, report.Markers = removeAll(text, markerPatterns)

	// 3. TODO / FIXME / NOTE markers
	text, report.Notes = removeAll(text, notePatterns)

	// 4. Near-duplicate sentences
	text, report.DuplicateSentences = RemoveDuplicateSentences(text)

	// 5. Repeated stock phrases
	text, report.StockPhrases = CollapseStockPhrases(text)

	// 6. Tidy the whitespace left behind
	text = multiSpaceRe.ReplaceAllString(text, " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text), report
}

// removeAll deletes every match of every pattern and returns the match count
func removeAll(text string, patterns []*regexp.Regexp) (string, int) {
	count := 0
	for _, re := range patterns {
		count += len(re.FindAllStringIndex(text, -1))
		text = re.ReplaceAllString(text, "")
	}
	return text, count
}

// RemoveDuplicateSentences drops every sentence whose word set is more than 80%
// similar to a sentence kept earlier. First occurrences keep their position.
// Markup inside a dropped sentence is kept so the surrounding structure survives.
func RemoveDuplicateSentences(text string) (string, int) {
	var sb strings.Builder
	var kept []map[string]struct{}
	removed := 0

	for _, seg := range segments(text) {
		plain := textutil.StripTags(seg)
		if utf8.RuneCountInString(plain) <= minSentenceLength {
			sb.WriteString(seg)
			continue
		}

		words := textutil.WordSet(plain)
		if isDuplicate(words, kept) {
			removed++
			sb.WriteString(strings.Join(tagRe.FindAllString(seg, -1), ""))
			continue
		}
		kept = append(kept, words)
		sb.WriteString(seg)
	}
	return sb.String(), removed
}

func isDuplicate(words map[string]struct{}, kept []map[string]struct{}) bool {
	for _, k := range kept {
		if textutil.Jaccard(words, k) > duplicateThreshold {
			return true
		}
	}
	return false
}

// segments splits text into sentence pieces without ever cutting through a tag.
// Terminators inside tags are masked before splitting, then the pieces are taken
// from the original text at the same offsets.
func segments(text string) []string {
	masked := tagRe.ReplaceAllStringFunc(text, func(tag string) string {
		return strings.NewReplacer(".", "_", "!", "_", "?", "_").Replace(tag)
	})

	pieces := textutil.Segments(masked)
	out := make([]string, 0, len(pieces))
	offset := 0
	for _, p := range pieces {
		out = append(out, text[offset:offset+len(p)])
		offset += len(p)
	}
	return out
}

// CollapseStockPhrases keeps the first occurrence of each stock phrase and removes
// the rest, capitalizing the following word when a removal starts a sentence
func CollapseStockPhrases(text string) (string, int) {
	removed := 0
	for _, re := range stockPhraseRes {
		locs := re.FindAllStringIndex(text, -1)
		if len(locs) < 2 {
			continue
		}

		var sb strings.Builder
		last := 0
		capNext := false
		for _, loc := range locs[1:] {
			sb.WriteString(chunk(text[last:loc[0]], capNext))
			capNext = startsSentence(text[:loc[0]])
			last = loc[1]
			removed++
		}
		sb.WriteString(chunk(text[last:], capNext))
		text = sb.String()
	}
	return text, removed
}

func chunk(s string, capitalize bool) string {
	if capitalize {
		return capitalizeFirst(s)
	}
	return s
}

// startsSentence reports whether the text before a position ends a sentence or block
func startsSentence(before string) bool {
	trimmed := strings.TrimRight(before, " \t\n")
	if trimmed == "" {
		return true
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?', '>':
		return true
	}
	return false
}

// capitalizeFirst uppercases the first rune of s with Turkish casing rules
func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return s
	}
	return string(unicode.TurkishCase.ToUpper(r)) + s[size:]
}

func compileStockPhrases(phrases []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		res = append(res, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(p)+`,?[ \t]*`))
	}
	return res
}
