package repair

import (
	"regexp"
	"strings"
)

// trailingFragmentRe matches a tag cut off by the end of the string, e.g. "<stro"
var trailingFragmentRe = regexp.MustCompile(`<[a-zA-Z/][^<>]*$`)

// Repair balances unclosed and orphaned tags, fixes malformed image and link
// attributes and wraps orphan list items. It never fails: every opened non-void
// tag in the result is closed.
func Repair(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	html = trailingFragmentRe.ReplaceAllString(html, "")
	html = FixImages(html)
	html = FixLinks(html)
	html = WrapOrphanListItems(html)
	return Balance(html)
}

// Balance closes every unclosed tag and drops closers with no matching opener.
// A closer pops the stack through its last matching opener, closing the entries
// above it first. Whatever remains open at the end is closed in LIFO order.
func Balance(html string) string {
	tokens := scan(html)
	if len(tokens) == 0 {
		return html
	}

	var sb strings.Builder
	sb.Grow(len(html) + 32)
	var stack []string
	last := 0

	for _, tok := range tokens {
		sb.WriteString(html[last:tok.start])
		last = tok.end

		if tok.isVoid() {
			sb.WriteString(html[tok.start:tok.end])
			continue
		}

		if !tok.closing {
			stack = append(stack, tok.name)
			sb.WriteString(html[tok.start:tok.end])
			continue
		}

		idx := lastIndex(stack, tok.name)
		if idx < 0 {
			// orphan closer
			continue
		}
		for i := len(stack) - 1; i > idx; i-- {
			sb.WriteString("</" + stack[i] + ">")
		}
		sb.WriteString(html[tok.start:tok.end])
		stack = stack[:idx]
	}
	sb.WriteString(html[last:])

	for i := len(stack) - 1; i >= 0; i-- {
		sb.WriteString("</" + stack[i] + ">")
	}
	return sb.String()
}

// Imbalance counts the tags Balance would have to add or drop:
// openers never closed and closers never opened
func Imbalance(html string) (unclosed int, orphans int) {
	var stack []string
	for _, tok := range scan(html) {
		if tok.isVoid() {
			continue
		}
		if !tok.closing {
			stack = append(stack, tok.name)
			continue
		}
		idx := lastIndex(stack, tok.name)
		if idx < 0 {
			orphans++
			continue
		}
		unclosed += len(stack) - 1 - idx
		stack = stack[:idx]
	}
	return unclosed + len(stack), orphans
}

// OpenTagCount returns the number of non-void tags left open in html
func OpenTagCount(html string) int {
	unclosed, _ := Imbalance(html)
	return unclosed
}

// IsBalanced reports whether every non-void tag in html is properly closed
func IsBalanced(html string) bool {
	unclosed, orphans := Imbalance(html)
	return unclosed == 0 && orphans == 0
}

// WrapOrphanListItems inserts a synthetic <ul> around runs of <li> elements that
// appear outside any <ul> or <ol>
func WrapOrphanListItems(html string) string {
	tokens := scan(html)
	if len(tokens) == 0 || !strings.Contains(strings.ToLower(html), "<li") {
		return html
	}

	var sb strings.Builder
	listDepth := 0
	synthetic := false
	liDepth := 0
	last := 0

	for _, tok := range tokens {
		between := html[last:tok.start]
		if synthetic && liDepth == 0 && strings.TrimSpace(between) != "" {
			sb.WriteString("</ul>")
			synthetic = false
		}
		sb.WriteString(between)
		last = tok.end

		switch {
		case (tok.name == "ul" || tok.name == "ol") && !tok.closing:
			if synthetic && liDepth == 0 {
				sb.WriteString("</ul>")
				synthetic = false
			}
			listDepth++
		case (tok.name == "ul" || tok.name == "ol") && tok.closing:
			if listDepth > 0 {
				listDepth--
			}
		case tok.name == "li" && !tok.closing && listDepth == 0:
			switch {
			case !synthetic:
				sb.WriteString("<ul>")
				synthetic = true
				liDepth++
			case liDepth > 0:
				// a new item implicitly ends the previous unclosed one
				sb.WriteString("</li>")
			default:
				liDepth++
			}
		case tok.name == "li" && tok.closing && synthetic && listDepth == 0:
			if liDepth > 0 {
				liDepth--
			}
		default:
			if synthetic && liDepth == 0 {
				sb.WriteString("</ul>")
				synthetic = false
			}
		}
		sb.WriteString(html[tok.start:tok.end])
	}

	rest := html[last:]
	if synthetic && liDepth == 0 && strings.TrimSpace(rest) != "" {
		sb.WriteString("</ul>")
		synthetic = false
	}
	sb.WriteString(rest)
	if synthetic {
		// an unclosed trailing <li> is closed by Balance before this </ul> is reached
		sb.WriteString("</ul>")
	}
	return sb.String()
}
