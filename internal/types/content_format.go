// Package types provides type definitions for structured data used throughout the content quality system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ContentFormat classifies raw content before it enters the rendering pipeline
type ContentFormat string

// ContentFormat values
const (
	FormatHTML        ContentFormat = "html"
	FormatHTMLEscaped ContentFormat = "html_escaped"
	FormatMarkdown    ContentFormat = "markdown"
	FormatPlain       ContentFormat = "plain"
	// FormatAuto asks the pipeline to detect the format itself
	FormatAuto ContentFormat = "auto"
)

// Valid reports whether f is one of the known formats (auto included)
func (f ContentFormat) Valid() bool {
	switch f {
	case FormatHTML, FormatHTMLEscaped, FormatMarkdown, FormatPlain, FormatAuto:
		return true
	}
	return false
}
