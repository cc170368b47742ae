package enhancer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/content-quality/internal/llm"
	"github.com/jonathan/content-quality/internal/prompts"
	"github.com/jonathan/content-quality/internal/schemas"
)

const promptFile = "enhancer.json"

// LLMEnhancer implements Enhancer on top of an llm.Client
type LLMEnhancer struct {
	client      llm.Client
	checkTier   llm.ModelTier
	rewriteTier llm.ModelTier
}

// NewLLMEnhancer returns an enhancer that checks with the standard tier and
// rewrites with the advanced tier. A nil client yields a nil Enhancer, which
// disables remote enhancement.
func NewLLMEnhancer(client llm.Client) Enhancer {
	if client == nil {
		return nil
	}
	return &LLMEnhancer{
		client:      client,
		checkTier:   llm.TierStandard,
		rewriteTier: llm.TierAdvanced,
	}
}

// CheckQuality asks the model for a JSON verdict and validates it against the
// remote_quality schema before decoding
func (e *LLMEnhancer) CheckQuality(ctx context.Context, req Request) (*QualityResponse, error) {
	prompt, err := prompts.Render(promptFile, "quality-check", promptData(req))
	if err != nil {
		return nil, &RemoteError{Operation: "check", Message: "failed to build prompt", Cause: err}
	}

	raw, err := e.client.GenerateJSON(ctx, prompt, e.checkTier)
	if err != nil {
		return nil, &RemoteError{Operation: "check", Message: "generation failed", Cause: err}
	}

	body := []byte(llm.CleanJSONBlock(raw))
	if err := schemas.Validate(schemas.RemoteQuality, body); err != nil {
		return nil, &ResponseError{Operation: "check", Message: "response does not match schema", Cause: err}
	}

	var resp QualityResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ResponseError{Operation: "check", Message: "failed to decode response", Cause: err}
	}
	return &resp, nil
}

// Rewrite asks the model for an improved HTML fragment
func (e *LLMEnhancer) Rewrite(ctx context.Context, req Request) (string, error) {
	prompt, err := prompts.Render(promptFile, "rewrite", promptData(req))
	if err != nil {
		return "", &RemoteError{Operation: "rewrite", Message: "failed to build prompt", Cause: err}
	}

	raw, err := e.client.GenerateContent(ctx, prompt, e.rewriteTier)
	if err != nil {
		return "", &RemoteError{Operation: "rewrite", Message: "generation failed", Cause: err}
	}

	html := llm.CleanHTMLBlock(raw)
	if strings.TrimSpace(html) == "" {
		return "", &ResponseError{Operation: "rewrite", Message: "empty content"}
	}
	return html, nil
}

func promptData(req Request) map[string]string {
	category := req.Context.Category
	if category == "" {
		category = "article"
	}
	keywords := strings.Join(req.Context.Keywords, ", ")
	if keywords == "" {
		keywords = "none"
	}
	return map[string]string{
		"Title":    req.Title,
		"Category": category,
		"Keywords": keywords,
		"Content":  req.Content,
	}
}
