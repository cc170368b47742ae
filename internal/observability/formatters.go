// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/content-quality/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes, ending in "..." when cut
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// writeList writes up to maxItemsToShow items as bullets with an overflow note
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintQualityScore outputs the sub-scores, issues and suggestions of an assessment
func (p *Printer) PrintQualityScore(score *types.QualityScore, remote bool) {
	if score == nil {
		return
	}

	var sb strings.Builder
	source := "local"
	if remote {
		source = "remote"
	}
	sb.WriteString(fmt.Sprintf("Overall:      %d/100 (%s)\n", score.Overall, source))
	sb.WriteString(fmt.Sprintf("Readability:  %d\n", score.Readability))
	sb.WriteString(fmt.Sprintf("SEO:          %d\n", score.SEO))
	sb.WriteString(fmt.Sprintf("Engagement:   %d\n", score.Engagement))
	sb.WriteString(fmt.Sprintf("Uniqueness:   %d\n", score.Uniqueness))
	sb.WriteString(fmt.Sprintf("AI-likeness:  %.0f%%\n", score.AIProbability*100))

	if len(score.Issues) > 0 {
		sb.WriteString("\n")
		issues := make([]string, len(score.Issues))
		for i, issue := range score.Issues {
			issues[i] = fmt.Sprintf("[%s] %s", issue.Severity, issue.Message)
		}
		writeList(&sb, "Issues", issues)
	}
	if len(score.Suggestions) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Suggestions", score.Suggestions)
	}

	p.printBox("QUALITY SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImprovement outputs the score change and the applied improvements
func (p *Printer) PrintImprovement(result *types.ImprovedContent) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:   %d -> %d\n", result.OriginalScore, result.ImprovedScore))
	path := "local fixes"
	if result.UsedRemoteEnhancer {
		path = "remote rewrite"
	}
	if len(result.Improvements) == 0 {
		path = "unchanged"
	}
	sb.WriteString(fmt.Sprintf("Path:    %s\n", path))
	if len(result.Improvements) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Improvements", result.Improvements)
	}

	p.printBox("CONTENT IMPROVEMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDuplicates outputs the most similar corpus items
func (p *Printer) PrintDuplicates(report *types.DuplicateReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Duplicate:   %t\n", report.IsDuplicate))
	sb.WriteString(fmt.Sprintf("Similarity:  %.0f%%\n", report.Similarity*100))
	similar := make([]string, len(report.SimilarArticles))
	for i, a := range report.SimilarArticles {
		similar[i] = fmt.Sprintf("%.0f%%  %s", a.Score*100, a.Title)
	}
	if len(similar) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Similar", similar)
	}

	p.printBox("DUPLICATE CHECK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMonitorReport outputs the summary of a monitor run
func (p *Printer) PrintMonitorReport(report *types.MonitorReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:       %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Assessed:  %d\n", report.Total))
	sb.WriteString(fmt.Sprintf("Average:   %.1f (%s)\n", report.Average, report.Trend))
	d := report.Distribution
	sb.WriteString(fmt.Sprintf("Spread:    %d excellent, %d good, %d fair, %d poor\n", d.Excellent, d.Good, d.Fair, d.Poor))

	if len(report.LowQuality) > 0 {
		sb.WriteString("\n")
		low := make([]string, len(report.LowQuality))
		for i, item := range report.LowQuality {
			low[i] = fmt.Sprintf("%3d  %s", item.Score, item.Title)
		}
		writeList(&sb, "Low quality", low)
	}
	if len(report.Alerts) > 0 {
		sb.WriteString("\n")
		alerts := make([]string, len(report.Alerts))
		for i, a := range report.Alerts {
			alerts[i] = fmt.Sprintf("[%s] %s", a.Severity, a.Message)
		}
		writeList(&sb, "Alerts", alerts)
	}
	if len(report.Errors) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Errors", report.Errors)
	}

	p.printBox("QUALITY MONITOR REPORT", strings.TrimSuffix(sb.String(), "\n"))
}
