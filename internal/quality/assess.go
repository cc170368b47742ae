// Package quality combines the individual scorers into one 0-100 quality score
// with issues and suggestions, optionally deferring to the remote enhancer.
package quality

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/content-quality/internal/detection"
	"github.com/jonathan/content-quality/internal/repair"
	"github.com/jonathan/content-quality/internal/scoring"
	"github.com/jonathan/content-quality/internal/textutil"
	"github.com/jonathan/content-quality/internal/types"
)

// Sub-score weights in the overall score
const (
	WeightReadability = 0.25
	WeightSEO         = 0.30
	WeightEngagement  = 0.20
	WeightUniqueness  = 0.15
	WeightHumanLike   = 0.10
)

// Uniqueness bands
const (
	UniquenessUnique    = 100
	UniquenessSimilar   = 50
	UniquenessDuplicate = 0
)

// Issue thresholds
const (
	lowReadability = 30
	lowSEO         = 50
	lowEngagement  = 50
)

// Assess scores content on readability, SEO, engagement, uniqueness against
// corpus and AI-likeness. A nil or empty corpus counts as unique. Empty content
// scores 0 on every axis.
func Assess(content, title string, meta types.Meta, corpus []types.CorpusItem) types.QualityScore {
	if strings.TrimSpace(textutil.StripTags(content)) == "" {
		return emptyScore()
	}

	readability := scoring.Readability(content)
	seo := scoring.SEO(content, title, meta)
	engagement, engagementSuggestions := scoring.EngagementWithSuggestions(content, textutil.CountWords(content))
	uniqueness, duplicates := Uniqueness(content, corpus)

	matches := detection.Detect(textutil.StripTags(content))
	aiProbability := detection.Probability(matches)

	score := types.QualityScore{
		Readability:   readability.Score,
		SEO:           seo.Score,
		Engagement:    engagement,
		Uniqueness:    uniqueness,
		AIProbability: aiProbability,
		Issues:        []types.QualityIssue{},
	}
	score.Overall = Overall(score)

	if confident := detection.Confident(matches); len(confident) > 0 {
		score.Issues = append(score.Issues, aiIssue(confident))
	}
	if readability.Score < lowReadability {
		score.Issues = append(score.Issues, types.QualityIssue{
			Type:       types.IssueReadability,
			Severity:   types.SeverityMedium,
			Message:    fmt.Sprintf("Readability is %s (%d/100)", readability.Grade, readability.Score),
			Suggestion: "Use shorter sentences and simpler words",
		})
	}
	if seo.Score < lowSEO {
		score.Issues = append(score.Issues, types.QualityIssue{
			Type:       types.IssueSEO,
			Severity:   types.SeverityHigh,
			Message:    fmt.Sprintf("SEO score is %d/100: %s", seo.Score, strings.Join(seo.Issues, "; ")),
			Suggestion: "Fix the title, meta description and heading structure",
		})
	}
	if engagement < lowEngagement {
		score.Issues = append(score.Issues, types.QualityIssue{
			Type:       types.IssueEngagement,
			Severity:   types.SeverityMedium,
			Message:    fmt.Sprintf("Engagement score is %d/100", engagement),
			Suggestion: "Add lists, images or questions for the reader",
		})
	}
	if !repair.IsBalanced(content) {
		unclosed, orphans := repair.Imbalance(content)
		score.Issues = append(score.Issues, types.QualityIssue{
			Type:       types.IssueHTMLStructure,
			Severity:   types.SeverityMedium,
			Message:    fmt.Sprintf("Markup is unbalanced: %d unclosed and %d orphaned tags", unclosed, orphans),
			Suggestion: "Repair the HTML so every tag is closed",
		})
	}
	if uniqueness < UniquenessUnique {
		score.Issues = append(score.Issues, uniquenessIssue(duplicates))
	}

	suggestions := append([]string{}, readability.Issues...)
	suggestions = append(suggestions, seo.Suggestions...)
	suggestions = append(suggestions, engagementSuggestions...)
	for _, issue := range score.Issues {
		if issue.Suggestion != "" {
			suggestions = append(suggestions, issue.Suggestion)
		}
	}
	score.Suggestions = dedupe(suggestions)
	return score
}

// Overall combines the sub-scores with the fixed weights, rounded and clamped
func Overall(s types.QualityScore) int {
	raw := WeightReadability*float64(s.Readability) +
		WeightSEO*float64(s.SEO) +
		WeightEngagement*float64(s.Engagement) +
		WeightUniqueness*float64(s.Uniqueness) +
		WeightHumanLike*(1-s.AIProbability)*100
	return int(math.Max(0, math.Min(100, math.Round(raw))))
}

// Uniqueness bands the duplicate report: 100 with no corpus or no similar item,
// 0 for a duplicate, 50 when similar items exist
func Uniqueness(content string, corpus []types.CorpusItem) (int, types.DuplicateReport) {
	if len(corpus) == 0 {
		return UniquenessUnique, types.DuplicateReport{SimilarArticles: []types.SimilarArticle{}}
	}
	report := scoring.Duplicates(content, corpus)
	switch {
	case report.IsDuplicate:
		return UniquenessDuplicate, report
	case report.Similarity > 0:
		return UniquenessSimilar, report
	default:
		return UniquenessUnique, report
	}
}

func emptyScore() types.QualityScore {
	return types.QualityScore{
		Issues: []types.QualityIssue{{
			Type:       types.IssueStructure,
			Severity:   types.SeverityHigh,
			Message:    "Content is empty",
			Suggestion: "Write the article body",
		}},
		Suggestions: []string{"Write the article body"},
	}
}

func aiIssue(confident []types.AIPatternMatch) types.QualityIssue {
	patterns := make([]string, 0, len(confident))
	for _, m := range confident {
		patterns = append(patterns, fmt.Sprintf("%q", m.Pattern))
	}
	severity := types.SeverityMedium
	if len(confident) >= 3 {
		severity = types.SeverityHigh
	}
	issue := types.QualityIssue{
		Type:       types.IssueAIPattern,
		Severity:   severity,
		Message:    fmt.Sprintf("Found %d high-confidence AI patterns: %s", len(confident), strings.Join(dedupe(patterns), ", ")),
		Suggestion: "Replace generic phrasing with specific details about the property",
	}
	if confident[0].Offset != nil {
		issue.Location = fmt.Sprintf("offset %d", *confident[0].Offset)
	}
	return issue
}

func uniquenessIssue(report types.DuplicateReport) types.QualityIssue {
	issue := types.QualityIssue{
		Type:       types.IssueUniqueness,
		Severity:   types.SeverityMedium,
		Message:    fmt.Sprintf("Content is %.0f%% similar to existing content", report.Similarity*100),
		Suggestion: "Differentiate the content from similar articles",
	}
	if report.IsDuplicate {
		issue.Severity = types.SeverityHigh
	}
	if len(report.SimilarArticles) > 0 {
		issue.Location = report.SimilarArticles[0].Slug
	}
	return issue
}

// dedupe keeps the first occurrence of each string, preserving order
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
