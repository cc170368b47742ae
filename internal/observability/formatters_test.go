package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/content-quality/internal/types"
)

func TestPrintQualityScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	score := &types.QualityScore{
		Overall:       64,
		Readability:   72,
		SEO:           55,
		Engagement:    70,
		Uniqueness:    100,
		AIProbability: 0.25,
		Issues:        []types.QualityIssue{{Type: types.IssueSEO, Severity: types.SeverityHigh, Message: "Title too short"}},
		Suggestions:   []string{"Add internal links"},
	}

	p.PrintQualityScore(score, true)
	output := buf.String()

	assert.Contains(t, output, "QUALITY SCORE")
	assert.Contains(t, output, "64/100 (remote)")
	assert.Contains(t, output, "AI-likeness:  25%")
	assert.Contains(t, output, "[high] Title too short")
	assert.Contains(t, output, "Add internal links")
}

func TestPrintQualityScore_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQualityScore(nil, false)

	assert.Empty(t, buf.String())
}

func TestPrintImprovement(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintImprovement(&types.ImprovedContent{
		OriginalScore:      31,
		ImprovedScore:      58,
		Improvements:       []string{"Removed 2 placeholder token(s)"},
		UsedRemoteEnhancer: true,
	})
	output := buf.String()

	assert.Contains(t, output, "31 -> 58")
	assert.Contains(t, output, "remote rewrite")
	assert.Contains(t, output, "Removed 2 placeholder token(s)")

	buf.Reset()
	p.PrintImprovement(&types.ImprovedContent{OriginalScore: 80, ImprovedScore: 80})
	assert.Contains(t, buf.String(), "unchanged")
}

func TestPrintDuplicates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDuplicates(&types.DuplicateReport{
		IsDuplicate:     true,
		Similarity:      0.82,
		SimilarArticles: []types.SimilarArticle{{ID: "b", Title: "Sea View Flat", Score: 0.82}},
	})
	output := buf.String()

	assert.Contains(t, output, "Duplicate:   true")
	assert.Contains(t, output, "82%  Sea View Flat")
}

func TestPrintMonitorReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var low []types.ItemResult
	for i := 0; i < 7; i++ {
		low = append(low, types.ItemResult{ArticleID: fmt.Sprint(i), Title: fmt.Sprintf("Article %d", i), Score: 20 + i})
	}
	report := &types.MonitorReport{
		RunID:        uuid.New(),
		Total:        10,
		Average:      48.25,
		Distribution: types.ScoreDistribution{Good: 3, Poor: 7},
		LowQuality:   low,
		Alerts:       []types.Alert{{Kind: "low_average", Severity: types.SeverityMedium, Message: "Average quality 48.2 is below 50"}},
		Trend:        types.TrendDeclining,
		Errors:       []string{"article 9: timeout"},
	}

	p.PrintMonitorReport(report)
	output := buf.String()

	assert.Contains(t, output, "QUALITY MONITOR REPORT")
	assert.Contains(t, output, "48.2 (declining)")
	assert.Contains(t, output, "3 good")
	assert.Contains(t, output, "Article 0")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "[medium] Average quality")
	assert.Contains(t, output, "article 9: timeout")
}

func TestPrintBox_TruncatesByRune(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("ğ", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), "line %q", line)
	}
	assert.Contains(t, buf.String(), "...")
}
