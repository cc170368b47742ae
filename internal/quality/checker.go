package quality

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/jonathan/content-quality/internal/enhancer"
	"github.com/jonathan/content-quality/internal/metrics"
	"github.com/jonathan/content-quality/internal/types"
)

// DefaultRemoteTimeout bounds one remote quality check
const DefaultRemoteTimeout = 30 * time.Second

// Checker assesses content remotely when an enhancer is configured and falls
// back to the local Assess result on any remote failure
type Checker struct {
	Enhancer enhancer.Enhancer
	Timeout  time.Duration
	Logger   *log.Logger
	Metrics  *metrics.Collector
	Category string
}

// NewChecker returns a Checker. A nil enhancer makes every check local.
func NewChecker(e enhancer.Enhancer, timeout time.Duration, logger *log.Logger, m *metrics.Collector) *Checker {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Checker{Enhancer: e, Timeout: timeout, Logger: logger, Metrics: m}
}

// Check returns the quality score and whether the remote verdict was used.
// Remote errors never reach the caller.
func (c *Checker) Check(ctx context.Context, content, title string, meta types.Meta, corpus []types.CorpusItem) (types.QualityScore, bool) {
	local := Assess(content, title, meta, corpus)
	if c.Enhancer == nil {
		c.Metrics.ObserveAssessment(metrics.SourceLocal, local.Overall)
		return local, false
	}

	req := enhancer.Request{
		Content: content,
		Title:   title,
		Context: enhancer.Context{Category: c.Category, Keywords: meta.Keywords},
	}
	score, remote, err := enhancer.WithFallback(ctx, c.Timeout, func(ctx context.Context) (types.QualityScore, error) {
		resp, err := c.Enhancer.CheckQuality(ctx, req)
		if err != nil {
			return types.QualityScore{}, err
		}
		return Merge(local, resp), nil
	}, func() types.QualityScore {
		return local
	})

	if err != nil && !errors.Is(err, enhancer.ErrDisabled) {
		c.logger().Printf("[quality] remote check failed, using local score: %v", err)
		c.Metrics.ObserveFallback("check")
	}

	source := metrics.SourceLocal
	if remote {
		source = metrics.SourceRemote
	}
	c.Metrics.ObserveAssessment(source, score.Overall)
	return score, remote
}

func (c *Checker) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

// Merge overlays a remote verdict on the local score: seoScore replaces SEO,
// humanLikeScore sets the AI probability and overall is recomputed from the
// merged sub-scores. The remote overall score is not used.
// Local issues are kept and remote issues and suggestions are appended.
func Merge(local types.QualityScore, resp *enhancer.QualityResponse) types.QualityScore {
	merged := local
	merged.SEO = clampScore(resp.SEOScore)
	merged.AIProbability = 1 - float64(clampScore(resp.HumanLikeScore))/100
	merged.Overall = Overall(merged)

	merged.Issues = append([]types.QualityIssue{}, local.Issues...)
	hasAIIssue := false
	for _, issue := range local.Issues {
		if issue.Type == types.IssueAIPattern {
			hasAIIssue = true
		}
	}
	for _, msg := range resp.Issues {
		if strings.TrimSpace(msg) == "" {
			continue
		}
		merged.Issues = append(merged.Issues, types.QualityIssue{
			Type:     remoteIssueType(msg),
			Severity: types.SeverityMedium,
			Message:  msg,
			Location: "remote",
		})
	}
	if resp.AIGenerated && !hasAIIssue {
		merged.Issues = append(merged.Issues, types.QualityIssue{
			Type:       types.IssueAIPattern,
			Severity:   types.SeverityHigh,
			Message:    "Remote check judged the content machine-generated",
			Suggestion: "Rewrite with specific, first-hand details",
			Location:   "remote",
		})
	}

	merged.Suggestions = dedupe(append(append([]string{}, local.Suggestions...), resp.Suggestions...))
	return merged
}

// remoteIssueType guesses the issue category of a free-text remote issue
func remoteIssueType(msg string) types.IssueType {
	lower := strings.ToLower(msg)
	switch {
	case containsAny(lower, "seo", "keyword", "meta", "title", "heading"):
		return types.IssueSEO
	case containsAny(lower, "readab", "sentence", "jargon"):
		return types.IssueReadability
	case containsAny(lower, "generic", "ai-", "ai ", "robotic", "template"):
		return types.IssueAIPattern
	case containsAny(lower, "duplicate", "similar", "copied"):
		return types.IssueUniqueness
	case containsAny(lower, "engag", "boring", "image", "list"):
		return types.IssueEngagement
	default:
		return types.IssueStructure
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clampScore(v int) int {
	return max(0, min(100, v))
}
