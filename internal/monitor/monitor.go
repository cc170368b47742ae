// Package monitor batch-assesses stored articles, optionally improves the
// weak ones, and reports score trends and alerts across runs.
package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jonathan/content-quality/internal/improve"
	"github.com/jonathan/content-quality/internal/types"
)

// Store reads articles and records quality results.
// LatestReport returns nil, nil when no report has been saved yet.
type Store interface {
	ListArticles(ctx context.Context, limit int) ([]types.ArticleRecord, error)
	UpdateQuality(ctx context.Context, id string, score int, issues []types.QualityIssue, content *string) error
	SaveReport(ctx context.Context, report *types.MonitorReport) error
	LatestReport(ctx context.Context) (*types.MonitorReport, error)
}

// Assessor scores one piece of content; *quality.Checker implements it
type Assessor interface {
	Check(ctx context.Context, content, title string, meta types.Meta, corpus []types.CorpusItem) (types.QualityScore, bool)
}

// Improver rewrites low-scoring content; *improve.Improver implements it
type Improver interface {
	Improve(ctx context.Context, content, title string, opts improve.Options) types.ImprovedContent
}

// Clock returns the current time
type Clock func() time.Time

// Defaults
const (
	DefaultConcurrency    = 4
	DefaultAlertThreshold = 50
	DefaultAlertDrop      = 10
	DefaultBatchLimit     = 100
	// LowItemScore is the score below which an item raises its own alert
	LowItemScore = 30
)

// Config tunes a Monitor. Zero fields take the defaults.
type Config struct {
	Concurrency int
	// RemoteDelay is the minimum spacing between calls that may reach the
	// remote enhancer; zero disables pacing
	RemoteDelay    time.Duration
	AlertThreshold float64
	AlertDrop      float64
	MinScore       int
	ImproveOptions improve.Options
}

func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.AlertThreshold <= 0 {
		c.AlertThreshold = DefaultAlertThreshold
	}
	if c.AlertDrop <= 0 {
		c.AlertDrop = DefaultAlertDrop
	}
	if c.MinScore <= 0 {
		c.MinScore = improve.DefaultMinScore
	}
	if c.ImproveOptions.MinScore <= 0 {
		c.ImproveOptions.MinScore = c.MinScore
	}
	return c
}

// RunOptions select what one run does
type RunOptions struct {
	Limit   int
	Improve bool
	Persist bool
}

// Monitor runs quality batches. Improver may be nil.
type Monitor struct {
	Store    Store
	Assessor Assessor
	Improver Improver
	Clock    Clock
	Logger   *log.Logger
	config   Config
	limiter  *rate.Limiter
}

// New returns a Monitor using the wall clock
func New(store Store, assessor Assessor, improver Improver, cfg Config, logger *log.Logger) *Monitor {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = log.Default()
	}
	m := &Monitor{
		Store:    store,
		Assessor: assessor,
		Improver: improver,
		Clock:    time.Now,
		Logger:   logger,
		config:   cfg,
	}
	if cfg.RemoteDelay > 0 {
		m.limiter = rate.NewLimiter(rate.Every(cfg.RemoteDelay), 1)
	}
	return m
}

// itemOutcome is the result of processing one record
type itemOutcome struct {
	result types.ItemResult
	final  int
	err    error
}

// Run assesses up to opts.Limit articles and returns the run's report.
// Per-item failures are recorded in the report and never stop the batch;
// only a failure to list articles or a cancelled context returns an error.
func (m *Monitor) Run(ctx context.Context, opts RunOptions) (*types.MonitorReport, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultBatchLimit
	}

	report := &types.MonitorReport{
		RunID:      uuid.New(),
		StartedAt:  m.now(),
		Items:      []types.ItemResult{},
		LowQuality: []types.ItemResult{},
		Alerts:     []types.Alert{},
	}

	records, err := m.Store.ListArticles(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	previous, err := m.Store.LatestReport(ctx)
	if err != nil {
		m.Logger.Printf("[monitor] could not load previous report: %v", err)
		report.Errors = append(report.Errors, fmt.Sprintf("previous report: %v", err))
		previous = nil
	}

	m.Logger.Printf("[monitor] run %s: assessing %d articles", report.RunID, len(records))
	corpus := toCorpus(records)
	outcomes := make([]itemOutcome, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.config.Concurrency)
	for i := range records {
		g.Go(func() error {
			outcomes[i] = m.processItem(gctx, records[i], corpusExcept(corpus, i), opts)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	finals := make([]int, 0, len(outcomes))
	for _, o := range outcomes {
		if o.err != nil {
			report.Errors = append(report.Errors, o.err.Error())
			continue
		}
		report.Items = append(report.Items, o.result)
		finals = append(finals, o.final)
		if o.final < m.config.MinScore {
			report.LowQuality = append(report.LowQuality, o.result)
		}
		if o.final < LowItemScore {
			report.Alerts = append(report.Alerts, newAlert(AlertLowQualityItem, types.SeverityHigh,
				fmt.Sprintf("%q scored %d", o.result.Title, o.final), o.result.ArticleID))
		}
	}

	report.Total = len(report.Items)
	report.Average = Average(finals)
	report.Distribution = Distribute(finals)
	report.Trend = TrendOf(report.Total, report.Average, previous)
	report.Alerts = append(aggregateAlerts(report, previous, m.config), report.Alerts...)
	report.FinishedAt = m.now()

	if opts.Persist {
		if err := m.Store.SaveReport(ctx, report); err != nil {
			m.Logger.Printf("[monitor] failed to save report: %v", err)
			report.Errors = append(report.Errors, fmt.Sprintf("save report: %v", err))
		}
	}

	m.Logger.Printf("[monitor] run %s: %d assessed, average %.1f, trend %s, %d alerts, %d errors",
		report.RunID, report.Total, report.Average, report.Trend, len(report.Alerts), len(report.Errors))
	return report, nil
}

// processItem assesses one record, improves it when asked and persists the result
func (m *Monitor) processItem(ctx context.Context, rec types.ArticleRecord, corpus []types.CorpusItem, opts RunOptions) itemOutcome {
	if err := m.pace(ctx); err != nil {
		return itemOutcome{err: fmt.Errorf("article %s: %w", rec.ID, err)}
	}
	score, _ := m.Assessor.Check(ctx, rec.Content, rec.Title, types.Meta{}, corpus)

	result := types.ItemResult{
		ArticleID: rec.ID,
		Title:     rec.Title,
		Score:     score.Overall,
		Issues:    issueMessages(score.Issues),
	}
	final, issues := score.Overall, score.Issues
	var newContent *string

	if opts.Improve && m.Improver != nil && score.Overall < m.config.MinScore {
		if err := m.pace(ctx); err != nil {
			return itemOutcome{err: fmt.Errorf("article %s: %w", rec.ID, err)}
		}
		improved := m.Improver.Improve(ctx, rec.Content, rec.Title, m.config.ImproveOptions)
		if improved.Content != rec.Content && improved.ImprovedScore > score.Overall {
			rescored, _ := m.Assessor.Check(ctx, improved.Content, rec.Title, types.Meta{}, corpus)
			result.Improved = true
			result.NewScore = rescored.Overall
			final, issues = rescored.Overall, rescored.Issues
			newContent = &improved.Content
		}
	}

	if opts.Persist {
		if err := m.Store.UpdateQuality(ctx, rec.ID, final, issues, newContent); err != nil {
			return itemOutcome{err: fmt.Errorf("article %s: failed to save quality: %w", rec.ID, err)}
		}
	}
	return itemOutcome{result: result, final: final}
}

// pace waits for the remote call budget when pacing is configured
func (m *Monitor) pace(ctx context.Context) error {
	if m.limiter == nil {
		return nil
	}
	return m.limiter.Wait(ctx)
}

func (m *Monitor) now() time.Time {
	if m.Clock == nil {
		return time.Now()
	}
	return m.Clock()
}

func toCorpus(records []types.ArticleRecord) []types.CorpusItem {
	corpus := make([]types.CorpusItem, len(records))
	for i, r := range records {
		corpus[i] = types.CorpusItem{ID: r.ID, Title: r.Title, Slug: r.Slug, Content: r.Content}
	}
	return corpus
}

// corpusExcept returns the corpus without item i
func corpusExcept(corpus []types.CorpusItem, i int) []types.CorpusItem {
	out := make([]types.CorpusItem, 0, len(corpus)-1)
	out = append(out, corpus[:i]...)
	return append(out, corpus[i+1:]...)
}

func issueMessages(issues []types.QualityIssue) []string {
	if len(issues) == 0 {
		return nil
	}
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Message
	}
	return out
}
