// Package pipeline runs raw content through the normalization chain: format
// detection, entity decoding, conversion to HTML, tag repair, structure
// normalization, sanitizing and table wrapping.
package pipeline

import (
	"strings"

	"github.com/jonathan/content-quality/internal/convert"
	"github.com/jonathan/content-quality/internal/format"
	"github.com/jonathan/content-quality/internal/pipeline/steps"
	"github.com/jonathan/content-quality/internal/repair"
	"github.com/jonathan/content-quality/internal/sanitize"
	"github.com/jonathan/content-quality/internal/types"
)

// ProgressEvent represents a completed pipeline step
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// ProgressCallback is called after each step runs
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for one pipeline run. Nil allowances default to
// true so that an empty Options renders with the permissive-but-safe policy.
type Options struct {
	// Format overrides detection; empty or auto detects
	Format types.ContentFormat `json:"format,omitempty"`
	// Sanitize=false skips the sanitizer for trusted previews; output is still repaired
	Sanitize    *bool            `json:"sanitize,omitempty"`
	AllowImages *bool            `json:"allow_images,omitempty"`
	AllowTables *bool            `json:"allow_tables,omitempty"`
	AllowCode   *bool            `json:"allow_code,omitempty"`
	Strict      bool             `json:"strict,omitempty"`
	OnProgress  ProgressCallback `json:"-"`
}

// Result is the processed HTML and the format the input was read as
type Result struct {
	Format types.ContentFormat `json:"format"`
	HTML   string              `json:"html"`
	Steps  []string            `json:"steps,omitempty"`
}

// SanitizeOptions maps the allowances onto sanitizer options
func (o Options) SanitizeOptions() sanitize.Options {
	opts := sanitize.DefaultOptions()
	opts.AllowImages = boolOr(o.AllowImages, true)
	opts.AllowTables = boolOr(o.AllowTables, true)
	opts.AllowCode = boolOr(o.AllowCode, true)
	opts.Strict = o.Strict
	return opts
}

func (o Options) sanitizeEnabled() bool {
	return boolOr(o.Sanitize, true)
}

// Bool returns a pointer to b, for building Options literals
func Bool(b bool) *bool {
	return &b
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Process runs detection, decoding, conversion, repair, normalization and
// sanitizing. It never fails; empty input yields empty plain output.
func Process(raw string, opts Options) Result {
	return run(raw, opts, false)
}

// RenderContent is Process plus wrapping every table in a scroll container
func RenderContent(raw string, opts Options) Result {
	return run(raw, opts, true)
}

func run(raw string, opts Options, wrapTables bool) Result {
	if strings.TrimSpace(raw) == "" {
		return Result{Format: types.FormatPlain, HTML: ""}
	}

	detected := opts.Format
	if detected == "" || detected == types.FormatAuto || !detected.Valid() {
		detected = format.Detect(raw)
	}

	enabled := map[string]bool{
		steps.StepDecode:     detected == types.FormatHTMLEscaped,
		steps.StepConvert:    true,
		steps.StepRepair:     true,
		steps.StepNormalize:  true,
		steps.StepSanitize:   opts.sanitizeEnabled(),
		steps.StepWrapTables: wrapTables,
	}
	plan := mustPlan(enabled)

	text := raw
	inputFormat := detected
	for _, name := range plan {
		switch name {
		case steps.StepDecode:
			text = format.DecodeEntities(text)
			inputFormat = types.FormatHTML
		case steps.StepConvert:
			text = convert.ToHTML(text, inputFormat)
		case steps.StepRepair:
			text = repair.Repair(text)
		case steps.StepNormalize:
			text = repair.Normalize(text)
		case steps.StepSanitize:
			text = sanitize.Sanitize(text, opts.SanitizeOptions())
		case steps.StepWrapTables:
			text = sanitize.WrapTables(text)
		}
		emitProgress(opts, name)
	}

	return Result{Format: detected, HTML: text, Steps: plan}
}

// mustPlan panics on an invalid step set; the sets above are built from
// constants so a failure is a programming error
func mustPlan(enabled map[string]bool) []string {
	plan, err := steps.Plan(enabled)
	if err != nil {
		panic(err)
	}
	return plan
}

// emitProgress calls the progress callback if configured
func emitProgress(opts Options, step string) {
	if opts.OnProgress == nil {
		return
	}
	opts.OnProgress(ProgressEvent{
		Step:     step,
		Category: steps.StepRegistry[step].Category,
		Message:  "completed " + step,
	})
}
