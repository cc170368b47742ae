package types

import (
	"time"

	"github.com/google/uuid"
)

// ArticleRecord is the persisted shape read and written by batch drivers
type ArticleRecord struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Content       string         `json:"content"`
	QualityScore  *int           `json:"quality_score,omitempty"`
	QualityIssues []QualityIssue `json:"quality_issues,omitempty"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
}

// Trend describes how a batch average moved relative to the previous report
type Trend string

// Trend values
const (
	TrendBaseline  Trend = "baseline"
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// ScoreDistribution buckets item scores
type ScoreDistribution struct {
	Excellent int `json:"excellent"` // >= 80
	Good      int `json:"good"`      // 60-79
	Fair      int `json:"fair"`      // 40-59
	Poor      int `json:"poor"`      // < 40
}

// Alert is raised by the monitor when quality crosses a threshold
type Alert struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	ArticleID string    `json:"article_id,omitempty"`
}

// ItemResult is the per-record outcome of a monitor run
type ItemResult struct {
	ArticleID string   `json:"article_id"`
	Title     string   `json:"title"`
	Score     int      `json:"score"`
	Improved  bool     `json:"improved"`
	NewScore  int      `json:"new_score,omitempty"`
	Issues    []string `json:"issues,omitempty"`
}

// MonitorReport summarizes one batch run of the quality monitor
type MonitorReport struct {
	RunID        uuid.UUID         `json:"run_id"`
	StartedAt    time.Time         `json:"started_at"`
	FinishedAt   time.Time         `json:"finished_at"`
	Total        int               `json:"total"`
	Average      float64           `json:"average"`
	Distribution ScoreDistribution `json:"distribution"`
	Items        []ItemResult      `json:"items"`
	LowQuality   []ItemResult      `json:"low_quality"`
	Alerts       []Alert           `json:"alerts"`
	Trend        Trend             `json:"trend"`
	Errors       []string          `json:"errors,omitempty"`
}
