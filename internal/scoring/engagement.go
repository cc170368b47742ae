package scoring

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/content-quality/internal/textutil"
)

const engagementBaseScore = 50

// Engagement scores structural richness: questions, lists, images, quotes,
// tables, length and internal links
func Engagement(html string, wordCount int) int {
	score, _ := EngagementWithSuggestions(html, wordCount)
	return score
}

// EngagementWithSuggestions is Engagement plus a suggestion for each missing signal
func EngagementWithSuggestions(html string, wordCount int) (int, []string) {
	score := engagementBaseScore
	var suggestions []string
	doc := parse(html)

	if strings.Contains(textutil.StripTags(html), "?") {
		score += 10
	} else {
		suggestions = append(suggestions, "Ask the reader a question to invite engagement")
	}
	if doc.Find("ul, ol").Length() > 0 {
		score += 10
	} else {
		suggestions = append(suggestions, "Use a list to break up key details")
	}
	if doc.Find("img").Length() > 0 {
		score += 10
	} else {
		suggestions = append(suggestions, "Add at least one image")
	}
	if doc.Find("blockquote").Length() > 0 {
		score += 5
	}
	if doc.Find("table").Length() > 0 {
		score += 5
	}

	switch {
	case wordCount >= 800 && wordCount <= 2000:
		score += 10
	case wordCount >= 300 && wordCount < 800:
		score += 5
	}

	internal := false
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		internal = isInternalLink(href)
		return !internal
	})
	if internal {
		score += 5
	} else {
		suggestions = append(suggestions, "Link to related content on the site")
	}

	return clamp(score), suggestions
}

// isInternalLink reports whether href points within the site: a relative path or fragment
func isInternalLink(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" || strings.HasPrefix(href, "//") {
		return false
	}
	if strings.HasPrefix(href, "/") || strings.HasPrefix(href, "#") {
		return true
	}
	return !strings.Contains(href, ":")
}
