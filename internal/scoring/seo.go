package scoring

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/content-quality/internal/textutil"
	"github.com/jonathan/content-quality/internal/types"
)

const (
	seoBaseScore  = 50
	seoPassScore  = 70
	minTitleLen   = 30
	maxTitleLen   = 60
	minMetaLen    = 120
	maxMetaLen    = 155
	minH2         = 2
	maxH2         = 8
	minBodyWords  = 300
	maxBodyWords  = 2000
	minKeywordPct = 50.0
)

// SEO checks content against title, meta, heading, keyword, image and link
// conventions. Scoring starts at 50 and is clamped to [0,100].
func SEO(html, title string, meta types.Meta) types.SEOReport {
	report := types.SEOReport{Issues: []string{}, Suggestions: []string{}}
	score := seoBaseScore

	report.TitleLength = utf8.RuneCountInString(strings.TrimSpace(title))
	switch {
	case report.TitleLength < minTitleLen:
		report.Issues = append(report.Issues, fmt.Sprintf("Title too short (%d characters, recommended %d-%d)", report.TitleLength, minTitleLen, maxTitleLen))
	case report.TitleLength > maxTitleLen:
		report.Issues = append(report.Issues, fmt.Sprintf("Title too long (%d characters, recommended %d-%d)", report.TitleLength, minTitleLen, maxTitleLen))
	default:
		score += 10
	}

	report.MetaDescriptionLength = utf8.RuneCountInString(strings.TrimSpace(meta.Description))
	switch {
	case report.MetaDescriptionLength == 0:
		report.Issues = append(report.Issues, "Meta description missing")
	case report.MetaDescriptionLength < minMetaLen:
		report.Issues = append(report.Issues, fmt.Sprintf("Meta description too short (%d characters, recommended %d-%d)", report.MetaDescriptionLength, minMetaLen, maxMetaLen))
	case report.MetaDescriptionLength > maxMetaLen:
		report.Issues = append(report.Issues, fmt.Sprintf("Meta description too long (%d characters, recommended %d-%d)", report.MetaDescriptionLength, minMetaLen, maxMetaLen))
	default:
		score += 10
	}

	plain := textutil.StripTags(html)
	score += checkKeywords(&report, title, plain, meta.Keywords)

	doc := parse(html)

	h2 := doc.Find("h2").Length()
	switch {
	case h2 == 0:
		report.Issues = append(report.Issues, "Missing H2 headings: structure the content with subheadings")
	case h2 >= minH2 && h2 <= maxH2:
		score += 5
	default:
		report.Suggestions = append(report.Suggestions, fmt.Sprintf("Use between %d and %d H2 headings (found %d)", minH2, maxH2, h2))
	}
	if doc.Find("h3").Length() > 0 {
		score += 5
	}

	words := len(textutil.Words(plain))
	switch {
	case words < minBodyWords:
		report.Issues = append(report.Issues, fmt.Sprintf("Content too short (%d words, minimum %d)", words, minBodyWords))
	case words <= maxBodyWords:
		score += 10
	default:
		report.Suggestions = append(report.Suggestions, fmt.Sprintf("Content is long (%d words); consider splitting it", words))
	}

	images := doc.Find("img")
	if missing := images.Length() - nonEmptyAttr(images, "alt"); missing > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("%d image(s) missing alt text", missing))
	} else {
		score += 5
	}

	if nonEmptyAttr(doc.Find("a"), "href") > 0 {
		score += 5
	} else {
		report.Suggestions = append(report.Suggestions, "Add internal links to related listings or articles")
	}

	report.Score = clamp(score)
	report.Passed = report.Score >= seoPassScore
	return report
}

// checkKeywords scores keyword use in the title and body. KeywordDensity is the
// percentage of supplied keywords that appear in the body.
func checkKeywords(report *types.SEOReport, title, body string, keywords []string) int {
	var cleaned []string
	for _, k := range keywords {
		if k = strings.TrimSpace(textutil.Lower(k)); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		report.Suggestions = append(report.Suggestions, "Define target keywords for this content")
		return 0
	}

	add := 0
	lowerTitle := textutil.Lower(title)
	lowerBody := textutil.Lower(body)

	inTitle := false
	present := 0
	for _, k := range cleaned {
		if strings.Contains(lowerTitle, k) {
			inTitle = true
		}
		if strings.Contains(lowerBody, k) {
			present++
		}
	}

	if inTitle {
		add += 10
	} else {
		report.Issues = append(report.Issues, "Title does not contain a target keyword")
	}

	report.KeywordDensity = float64(present) / float64(len(cleaned)) * 100
	if report.KeywordDensity >= minKeywordPct {
		add += 10
	} else {
		report.Issues = append(report.Issues, fmt.Sprintf("Only %d of %d keywords appear in the content", present, len(cleaned)))
	}
	return add
}
