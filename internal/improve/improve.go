// Package improve raises the quality of low-scoring content: a deterministic
// local pass first, then an optional remote rewrite that falls back to the
// local result on any failure.
package improve

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/content-quality/internal/clean"
	"github.com/jonathan/content-quality/internal/enhancer"
	"github.com/jonathan/content-quality/internal/metrics"
	"github.com/jonathan/content-quality/internal/quality"
	"github.com/jonathan/content-quality/internal/repair"
	"github.com/jonathan/content-quality/internal/sanitize"
	"github.com/jonathan/content-quality/internal/textutil"
	"github.com/jonathan/content-quality/internal/types"
)

// DefaultMinScore is the overall score at or above which content is left alone
const DefaultMinScore = 50

// DefaultRemoteTimeout bounds one remote rewrite
const DefaultRemoteTimeout = 60 * time.Second

// Options control one improvement call. MinScore is the score at or above
// which content is returned unchanged; zero means DefaultMinScore, so pass 1
// to leave everything but zero-scoring content alone.
type Options struct {
	UseRemote        bool     `json:"use_remote"`
	MinScore         int      `json:"min_score,omitempty" validate:"gte=0,lte=100"`
	FixReadability   bool     `json:"fix_readability"`
	FixSEO           bool     `json:"fix_seo"`
	RemoveAIPatterns bool     `json:"remove_ai_patterns"`
	Category         string   `json:"category,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
}

// DefaultOptions enables every local fix and leaves the remote rewrite off
func DefaultOptions() Options {
	return Options{
		MinScore:         DefaultMinScore,
		FixReadability:   true,
		FixSEO:           true,
		RemoveAIPatterns: true,
	}
}

func (o Options) minScore() int {
	if o.MinScore <= 0 {
		return DefaultMinScore
	}
	return o.MinScore
}

// Improver runs the improvement state machine. A nil Enhancer disables the
// remote rewrite regardless of Options.UseRemote.
type Improver struct {
	Enhancer enhancer.Enhancer
	Timeout  time.Duration
	Logger   *log.Logger
	Metrics  *metrics.Collector
}

// NewImprover returns an Improver with defaults filled in
func NewImprover(e enhancer.Enhancer, timeout time.Duration, logger *log.Logger, m *metrics.Collector) *Improver {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Improver{Enhancer: e, Timeout: timeout, Logger: logger, Metrics: m}
}

// Improve returns content unchanged when it already scores at least the
// minimum. Otherwise it applies the local fixes and, when still below the
// minimum and a remote enhancer is available, asks for a rewrite. Each path
// runs at most once and remote failures only ever fall back to the local result.
func (i *Improver) Improve(ctx context.Context, content, title string, opts Options) types.ImprovedContent {
	minScore := opts.minScore()
	original := quality.Assess(content, title, types.Meta{}, nil).Overall

	// 1. Already good
	if original >= minScore {
		i.Metrics.ObserveImprovement(metrics.PathNoop)
		return types.ImprovedContent{
			Content:       content,
			OriginalScore: original,
			ImprovedScore: original,
			Improvements:  []string{},
		}
	}

	// 2. Local pass
	local, improvements := LocalPass(content, opts)
	localScore := quality.Assess(local, title, types.Meta{}, nil).Overall
	result := types.ImprovedContent{
		Content:       local,
		OriginalScore: original,
		ImprovedScore: localScore,
		Improvements:  improvements,
	}
	if localScore >= minScore || !opts.UseRemote || i.Enhancer == nil {
		i.Metrics.ObserveImprovement(metrics.PathLocal)
		return result
	}

	// 3. Remote rewrite of the locally fixed content
	req := enhancer.Request{
		Content: local,
		Title:   title,
		Context: enhancer.Context{Category: opts.Category, Keywords: opts.Keywords},
	}
	rewritten, remote, err := enhancer.WithFallback(ctx, i.timeout(), func(ctx context.Context) (string, error) {
		out, err := i.Enhancer.Rewrite(ctx, req)
		if err != nil {
			return "", err
		}
		out = finish(out)
		if textutil.StripTags(out) == "" {
			return "", &enhancer.ResponseError{Operation: "rewrite", Message: "empty content after sanitizing"}
		}
		return out, nil
	}, func() string {
		return local
	})
	if !remote {
		i.logger().Printf("[improve] remote rewrite failed, keeping local result: %v", err)
		i.Metrics.ObserveFallback("rewrite")
		i.Metrics.ObserveImprovement(metrics.PathLocal)
		return result
	}

	// 4. Rescore
	result.Content = rewritten
	result.ImprovedScore = quality.Assess(rewritten, title, types.Meta{}, nil).Overall
	result.UsedRemoteEnhancer = true
	result.Improvements = append(result.Improvements,
		fmt.Sprintf("Rewrote content with the remote enhancer (score %d -> %d)", localScore, result.ImprovedScore))
	i.Metrics.ObserveImprovement(metrics.PathRemote)
	return result
}

func (i *Improver) timeout() time.Duration {
	if i.Timeout <= 0 {
		return DefaultRemoteTimeout
	}
	return i.Timeout
}

func (i *Improver) logger() *log.Logger {
	if i.Logger == nil {
		return log.Default()
	}
	return i.Logger
}

// LocalPass applies the deterministic fixes selected by opts and returns the
// result with one human-readable note per change. Markup repair and
// sanitizing always run.
func LocalPass(content string, opts Options) (string, []string) {
	var notes []string
	text := content

	if opts.RemoveAIPatterns {
		var report clean.Report
		text, report = clean.CleanWithReport(text)
		notes = append(notes, cleanNotes(report)...)
	}

	if repaired := repair.Repair(text); repaired != text {
		text = repaired
		notes = append(notes, "Repaired malformed HTML tags")
	}
	if normalized := repair.Normalize(text); normalized != text {
		text = normalized
		notes = append(notes, "Normalized paragraphs, headings and whitespace")
	}

	if opts.FixSEO {
		if promoted, ok := PromoteHeading(text); ok {
			text = promoted
			notes = append(notes, "Promoted the opening line to an H2 heading")
		}
	}
	if opts.FixReadability {
		if split, n := SplitLongParagraphs(text); n > 0 {
			text = split
			notes = append(notes, fmt.Sprintf("Split %d long paragraph(s)", n))
		}
	}

	if safe := sanitize.Sanitize(text, sanitize.DefaultOptions()); safe != text {
		text = repair.Normalize(safe)
		notes = append(notes, "Removed unsafe or disallowed markup")
	}
	if notes == nil {
		notes = []string{}
	}
	return text, notes
}

// finish makes remote output safe and well formed before it is scored.
// Blocks left empty by sanitizing are dropped.
func finish(html string) string {
	html = repair.Normalize(repair.Repair(html))
	return repair.Normalize(sanitize.Sanitize(html, sanitize.DefaultOptions()))
}

func cleanNotes(r clean.Report) []string {
	var notes []string
	add := func(n int, format string) {
		if n > 0 {
			notes = append(notes, fmt.Sprintf(format, n))
		}
	}
	add(r.Placeholders, "Removed %d placeholder token(s)")
	add(r.Markers, "Removed %d AI marker(s)")
	add(r.Notes, "Removed %d TODO/FIXME/NOTE marker(s)")
	add(r.DuplicateSentences, "Removed %d duplicate sentence(s)")
	add(r.StockPhrases, "Collapsed %d repeated stock phrase(s)")
	return notes
}
