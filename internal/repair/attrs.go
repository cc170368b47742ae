package repair

import (
	"regexp"
	"strings"
)

// PlaceholderImage is injected into <img> tags that arrive without a usable src
const PlaceholderImage = "/images/placeholder.jpg"

// DefaultAltText is added alongside the placeholder when alt is also missing
const DefaultAltText = "image"

var (
	imgTagRe    = regexp.MustCompile(`(?i)<img\b[^<>]*>`)
	srcAttrRe   = regexp.MustCompile(`(?i)\ssrc\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))?`)
	altAttrRe   = regexp.MustCompile(`(?i)\salt\s*=`)
	anchorTagRe = regexp.MustCompile(`(?i)<a\b[^<>]*>`)
	hrefAttrRe  = regexp.MustCompile(`(?i)(\shref)(\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))?)?`)
)

// FixImages gives every <img> missing a src (or with an empty one) the
// placeholder source, plus an alt attribute when that is absent too.
// Images with a real src are left untouched.
func FixImages(html string) string {
	return imgTagRe.ReplaceAllStringFunc(html, func(tag string) string {
		m := srcAttrRe.FindStringSubmatchIndex(tag)
		if m != nil && attrValue(tag, m, 1) != "" {
			return tag
		}
		if m != nil {
			// drop the empty src before inserting the placeholder
			tag = tag[:m[0]] + tag[m[1]:]
		}

		insert := ` src="` + PlaceholderImage + `"`
		if !altAttrRe.MatchString(tag) {
			insert += ` alt="` + DefaultAltText + `"`
		}
		return insertAttrs(tag, "<img", insert)
	})
}

// FixLinks double-quotes every href value, escaping any '"' a single-quoted
// value carried, and replaces missing or empty ones with "#"
func FixLinks(html string) string {
	return anchorTagRe.ReplaceAllStringFunc(html, func(tag string) string {
		m := hrefAttrRe.FindStringSubmatchIndex(tag)
		if m == nil {
			return tag
		}
		value := attrValue(tag, m, 3)
		if value == "" {
			value = "#"
		}
		value = strings.ReplaceAll(value, `"`, "&quot;")
		return tag[:m[0]] + tag[m[2]:m[3]] + `="` + value + `"` + tag[m[1]:]
	})
}

// attrValue returns the first non-empty capture among the three alternative
// value groups starting at group first
func attrValue(tag string, m []int, first int) string {
	for g := first; g < first+3; g++ {
		if i := 2 * g; i+1 < len(m) && m[i] >= 0 {
			if v := strings.TrimSpace(tag[m[i]:m[i+1]]); v != "" {
				return v
			}
		}
	}
	return ""
}

// insertAttrs places attrs right after the tag's opening name
func insertAttrs(tag, opener, attrs string) string {
	n := len(opener)
	if len(tag) < n {
		return tag
	}
	return tag[:n] + attrs + tag[n:]
}
