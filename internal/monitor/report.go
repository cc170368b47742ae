package monitor

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/jonathan/content-quality/internal/types"
)

// Alert kinds
const (
	AlertLowAverage     = "low_average"
	AlertScoreDrop      = "score_drop"
	AlertLowQualityItem = "low_quality_item"
)

// trendBand is the change in average that counts as movement
const trendBand = 2.0

// Distribution band lower bounds
const (
	excellentMin = 80
	goodMin      = 60
	fairMin      = 40
)

// Average returns the mean score rounded to two decimals, 0 for no scores
func Average(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return math.Round(float64(sum)/float64(len(scores))*100) / 100
}

// Distribute buckets scores into excellent, good, fair and poor
func Distribute(scores []int) types.ScoreDistribution {
	var d types.ScoreDistribution
	for _, s := range scores {
		switch {
		case s >= excellentMin:
			d.Excellent++
		case s >= goodMin:
			d.Good++
		case s >= fairMin:
			d.Fair++
		default:
			d.Poor++
		}
	}
	return d
}

// TrendOf compares average with the previous report. Without history, or
// with nothing assessed, there is nothing to compare.
func TrendOf(total int, average float64, previous *types.MonitorReport) types.Trend {
	if previous == nil || previous.Total == 0 {
		return types.TrendBaseline
	}
	if total == 0 {
		return types.TrendStable
	}
	switch diff := average - previous.Average; {
	case diff > trendBand:
		return types.TrendImproving
	case diff < -trendBand:
		return types.TrendDeclining
	default:
		return types.TrendStable
	}
}

// aggregateAlerts raises the batch-level alerts for report
func aggregateAlerts(report *types.MonitorReport, previous *types.MonitorReport, cfg Config) []types.Alert {
	var alerts []types.Alert
	if report.Total == 0 {
		return alerts
	}
	if report.Average < cfg.AlertThreshold {
		alerts = append(alerts, newAlert(AlertLowAverage, types.SeverityMedium,
			fmt.Sprintf("Average quality %.1f is below %.0f", report.Average, cfg.AlertThreshold), ""))
	}
	if previous != nil && previous.Total > 0 && previous.Average-report.Average >= cfg.AlertDrop {
		alerts = append(alerts, newAlert(AlertScoreDrop, types.SeverityHigh,
			fmt.Sprintf("Average quality dropped from %.1f to %.1f", previous.Average, report.Average), ""))
	}
	return alerts
}

func newAlert(kind string, severity types.Severity, message, articleID string) types.Alert {
	return types.Alert{
		ID:        uuid.New(),
		Kind:      kind,
		Severity:  severity,
		Message:   message,
		ArticleID: articleID,
	}
}
