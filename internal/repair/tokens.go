// Package repair balances and normalizes HTML produced by editors, converters and
// language models, without building a DOM.
package repair

import (
	"regexp"
	"strings"
)

// tagRe is the single tag-matching pattern every pass walks with.
// Groups: 1 closing slash, 2 tag name, 3 self-closing slash.
var tagRe = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9]*)\b[^<>]*?(/?)>`)

// voidElements never take a closing tag
var voidElements = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "meta": true, "link": true,
	"area": true, "base": true, "col": true, "embed": true, "source": true,
	"track": true, "wbr": true,
}

// blockElements start a new block; text before the first one is a leading text run
var blockElements = map[string]bool{
	"p": true, "div": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "table": true, "blockquote": true, "pre": true,
	"hr": true, "section": true, "figure": true,
}

// token is one matched tag in the source string
type token struct {
	start, end  int
	name        string
	closing     bool
	selfClosing bool
}

// isVoid reports whether the token never needs a closer
func (t token) isVoid() bool {
	return t.selfClosing || voidElements[t.name]
}

// scan returns every tag token in s, in order
func scan(s string) []token {
	matches := tagRe.FindAllStringSubmatchIndex(s, -1)
	tokens := make([]token, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, token{
			start:       m[0],
			end:         m[1],
			closing:     m[3] > m[2],
			name:        strings.ToLower(s[m[4]:m[5]]),
			selfClosing: m[7] > m[6],
		})
	}
	return tokens
}

// lastIndex returns the index of the last occurrence of name in stack, or -1
func lastIndex(stack []string, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == name {
			return i
		}
	}
	return -1
}
