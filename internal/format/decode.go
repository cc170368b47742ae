package format

import (
	"html"
	"strings"
)

// maxDecodePasses bounds decoding of multiply-escaped content (&amp;lt; -> &lt; -> <)
const maxDecodePasses = 3

// DecodeEntities reverses HTML entity escaping. It is total: text without entities,
// or with unknown entities, comes back unchanged.
func DecodeEntities(text string) string {
	if !strings.Contains(text, "&") {
		return text
	}

	decoded := text
	for i := 0; i < maxDecodePasses; i++ {
		next := html.UnescapeString(decoded)
		if next == decoded {
			break
		}
		decoded = next
		// Stop once the markup is real; further passes would decode literal text like "&amp;" in prose
		if !strings.Contains(decoded, "&lt;") && !strings.Contains(decoded, "&amp;lt;") {
			break
		}
	}
	return decoded
}
