package sanitize

import (
	"regexp"
	"strings"
)

var tableBlockRe = regexp.MustCompile(`(?is)<table\b.*?</table>`)

const tableWrapperOpen = `<div class="` + TableWrapperClass + `">`

// WrapTables places every top-level table inside a horizontal scroll container.
// Tables already wrapped are left alone.
func WrapTables(html string) string {
	matches := tableBlockRe.FindAllStringIndex(html, -1)
	if len(matches) == 0 {
		return html
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(html[last:m[0]])
		table := html[m[0]:m[1]]
		if strings.HasSuffix(strings.TrimRight(html[:m[0]], " \t\r\n"), tableWrapperOpen) {
			sb.WriteString(table)
		} else {
			sb.WriteString(tableWrapperOpen + table + "</div>")
		}
		last = m[1]
	}
	sb.WriteString(html[last:])
	return sb.String()
}
