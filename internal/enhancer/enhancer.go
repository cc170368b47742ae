// Package enhancer defines the optional remote service that checks and rewrites
// content, together with the fallback combinator every remote-backed operation
// goes through. A nil Enhancer means remote enhancement is disabled.
package enhancer

import "context"

// Context carries optional hints about the content being checked or rewritten
type Context struct {
	Category string   `json:"category,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Request is sent to the enhancer for both checks and rewrites
type Request struct {
	Content string  `json:"content"`
	Title   string  `json:"title"`
	Context Context `json:"context"`
}

// QualityResponse is the enhancer's verdict on a piece of content
type QualityResponse struct {
	Score          int      `json:"score"`
	Passed         bool     `json:"passed"`
	Issues         []string `json:"issues"`
	Suggestions    []string `json:"suggestions"`
	AIGenerated    bool     `json:"aiGenerated"`
	HumanLikeScore int      `json:"humanLikeScore"`
	SEOScore       int      `json:"seoScore"`
}

// Enhancer is a remote service that can score content and rewrite it.
// Implementations must honor ctx cancellation and deadlines.
type Enhancer interface {
	// CheckQuality returns the remote quality verdict for req
	CheckQuality(ctx context.Context, req Request) (*QualityResponse, error)
	// Rewrite returns an improved HTML version of req.Content
	Rewrite(ctx context.Context, req Request) (string, error)
}
