// Package sanitize strips unsafe markup from HTML against an allow-list policy.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TableWrapperClass is the class of the scroll container placed around tables
const TableWrapperClass = "table-responsive"

// Options select which optional element groups survive sanitizing.
// Strict keeps only text formatting, headings, lists and links and ignores the
// other allowances.
type Options struct {
	AllowImages      bool `json:"allow_images"`
	AllowTables      bool `json:"allow_tables"`
	AllowBlockquotes bool `json:"allow_blockquotes"`
	AllowCode        bool `json:"allow_code"`
	Strict           bool `json:"strict"`
}

// DefaultOptions returns the permissive-but-safe defaults: images, tables,
// blockquotes and code all allowed
func DefaultOptions() Options {
	return Options{
		AllowImages:      true,
		AllowTables:      true,
		AllowBlockquotes: true,
		AllowCode:        true,
	}
}

var tableWrapperRe = regexp.MustCompile(`^` + TableWrapperClass + `$`)

// Sanitize returns html with every element and attribute outside the policy
// removed. Scripts, inline event handlers and javascript: URLs never survive.
// The output depends only on html and opts, and sanitizing it again is a no-op.
func Sanitize(html string, opts Options) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	return strings.TrimSpace(NewPolicy(opts).Sanitize(html))
}

// NewPolicy builds the bluemonday policy for opts. Policies are built per
// call and never shared, so no sanitizer state lives between calls.
func NewPolicy(opts Options) *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	// Links: http, https, mailto and relative only
	p.AllowStandardURLs()
	p.AllowAttrs("href", "title").OnElements("a")

	// Text formatting and lists
	p.AllowElements("p", "br", "strong", "b", "em", "i", "u")
	p.AllowLists()

	if opts.Strict {
		p.AllowElements("h2", "h3")
		return withoutNoFollow(p)
	}

	p.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowElements("span", "div", "hr", "sub", "sup", "section", "figure", "figcaption")
	p.AllowAttrs("class").Matching(tableWrapperRe).OnElements("div")

	if opts.AllowImages {
		p.AllowImages()
	}
	if opts.AllowTables {
		p.AllowTables()
	}
	if opts.AllowBlockquotes {
		p.AllowElements("blockquote")
	}
	if opts.AllowCode {
		p.AllowElements("pre", "code")
	}
	return withoutNoFollow(p)
}

// withoutNoFollow keeps links as written. AllowImages re-enables rel="nofollow"
// through AllowStandardURLs, so this runs after every other rule.
func withoutNoFollow(p *bluemonday.Policy) *bluemonday.Policy {
	p.RequireNoFollowOnLinks(false)
	return p
}
