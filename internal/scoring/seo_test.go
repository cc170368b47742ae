package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/content-quality/internal/types"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func containsIssue(issues []string, substr string) bool {
	for _, i := range issues {
		if strings.Contains(i, substr) {
			return true
		}
	}
	return false
}

func TestSEO_ShortTitleNoHeadings(t *testing.T) {
	html := "<p>" + words(120) + "</p>"
	report := SEO(html, "Cozy Studio Apt", types.Meta{})

	assert.Equal(t, 15, report.TitleLength)
	assert.Equal(t, 0, report.MetaDescriptionLength)
	assert.Less(t, report.Score, 70)
	assert.False(t, report.Passed)
	assert.True(t, containsIssue(report.Issues, "Title too short"))
	assert.True(t, containsIssue(report.Issues, "Missing H2"))
	assert.True(t, containsIssue(report.Issues, "Meta description missing"))
	assert.True(t, containsIssue(report.Issues, "Content too short"))
}

func TestSEO_FullyCompliant(t *testing.T) {
	html := "<h2>Garden</h2><p>" + words(200) + " garden home</p>" +
		"<h2>Rooms</h2><h3>Kitchen</h3><p>" + words(150) + "</p>" +
		`<img src="/a.jpg" alt="garden"><a href="/listings">more listings</a>`
	meta := types.Meta{
		Description: strings.Repeat("a", 130),
		Keywords:    []string{"Garden", "home"},
	}

	report := SEO(html, "Spacious Family Home With A Large Garden", meta)

	assert.Equal(t, 100, report.Score)
	assert.True(t, report.Passed)
	assert.Empty(t, report.Issues)
	assert.InDelta(t, 100.0, report.KeywordDensity, 1e-9)
}

func TestSEO_Deficits(t *testing.T) {
	html := "<h2>Only one</h2><p>" + words(350) + `</p><img src="/a.jpg"><img src="/b.jpg" alt=" ">`
	meta := types.Meta{Description: strings.Repeat("b", 200), Keywords: []string{"sea", "balcony"}}

	report := SEO(html, strings.Repeat("t", 70), meta)

	assert.True(t, containsIssue(report.Issues, "Title too long"))
	assert.True(t, containsIssue(report.Issues, "Meta description too long"))
	assert.True(t, containsIssue(report.Issues, "2 image(s) missing alt text"))
	assert.True(t, containsIssue(report.Issues, "Title does not contain a target keyword"))
	assert.True(t, containsIssue(report.Issues, "Only 0 of 2 keywords"))
	assert.True(t, containsIssue(report.Suggestions, "H2 headings"))
	assert.True(t, containsIssue(report.Suggestions, "internal links"))
	// base 50 plus 10 for body length
	assert.Equal(t, 60, report.Score)
	assert.Equal(t, 0.0, report.KeywordDensity)
}

func TestSEO_NoKeywordsSuggestion(t *testing.T) {
	report := SEO("<p>text</p>", "", types.Meta{})
	assert.True(t, containsIssue(report.Suggestions, "Define target keywords"))
	assert.GreaterOrEqual(t, report.Score, 0)
	assert.LessOrEqual(t, report.Score, 100)
}
