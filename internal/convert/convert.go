// Package convert promotes Markdown and plain text to the HTML shape the repair and
// sanitize passes expect.
package convert

import (
	"html"
	"regexp"
	"strings"

	"github.com/jonathan/content-quality/internal/format"
	"github.com/jonathan/content-quality/internal/types"
)

var (
	blankLineRe = regexp.MustCompile(`\n[ \t]*\n`)

	h1Re = regexp.MustCompile(`^#[ \t]+(.+?)[ \t#]*$`)
	h2Re = regexp.MustCompile(`^##[ \t]+(.+?)[ \t#]*$`)
	// levels 4-6 collapse into h3; the content system only styles three levels
	h3Re = regexp.MustCompile(`^#{3,6}[ \t]+(.+?)[ \t#]*$`)

	boldStarRe        = regexp.MustCompile(`\*\*([^*\n]+?)\*\*`)
	boldUnderRe       = regexp.MustCompile(`__([^_\n]+?)__`)
	italicStarRe      = regexp.MustCompile(`\*([^*\s][^*\n]*?)\*`)
	italicUnderRe     = regexp.MustCompile(`(^|[^\w])_([^_\s][^_\n]*?)_([^\w]|$)`)
	imageRe           = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	linkRe            = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	bulletItemRe      = regexp.MustCompile(`^\s*[-*+][ \t]+(.+)$`)
	numberedItemRe    = regexp.MustCompile(`^\s*\d+\.[ \t]+(.+)$`)
	startsWithBlockRe = regexp.MustCompile(`^</?(?:h[1-6]|ul|ol|li|table|thead|tbody|tr|p|div|blockquote|pre|hr|section|figure)\b`)
)

// ToHTML converts text of the given format to HTML. HTML input passes through
// unchanged; escaped HTML is decoded.
func ToHTML(text string, f types.ContentFormat) string {
	if f == types.FormatAuto || f == "" {
		f = format.Detect(text)
	}

	switch f {
	case types.FormatMarkdown:
		return MarkdownToHTML(text)
	case types.FormatPlain:
		return PlainToHTML(text)
	case types.FormatHTMLEscaped:
		return format.DecodeEntities(text)
	default:
		return text
	}
}

// PlainToHTML splits text on blank lines into paragraphs; single newlines become <br>
func PlainToHTML(text string) string {
	text = normalizeNewlines(text)
	if strings.TrimSpace(text) == "" {
		return ""
	}

	blocks := blankLineRe.Split(text, -1)
	paragraphs := make([]string, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		for i, line := range lines {
			lines[i] = html.EscapeString(strings.TrimSpace(line))
		}
		paragraphs = append(paragraphs, "<p>"+strings.Join(lines, "<br>")+"</p>")
	}
	return strings.Join(paragraphs, "\n")
}

// MarkdownToHTML converts the Markdown subset used by the content system.
// Tables are converted first so their rows are never mistaken for list items.
func MarkdownToHTML(text string) string {
	text = normalizeNewlines(text)
	if strings.TrimSpace(text) == "" {
		return ""
	}

	lines := convertTables(strings.Split(text, "\n"))

	for i, line := range lines {
		line = convertHeading(line)
		line = convertInline(line)
		lines[i] = line
	}

	return strings.Join(wrapListsAndParagraphs(lines), "\n")
}

// convertTables replaces every header/separator/body run with a single <table> line
func convertTables(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if i+1 < len(lines) && strings.Contains(line, "|") && strings.Contains(lines[i+1], "|") && format.IsTableSeparator(lines[i+1]) {
			var sb strings.Builder
			sb.WriteString("<table><thead><tr>")
			for _, cell := range splitRow(line) {
				sb.WriteString("<th>" + cell + "</th>")
			}
			sb.WriteString("</tr></thead><tbody>")

			j := i + 2
			for ; j < len(lines) && strings.Contains(lines[j], "|") && strings.TrimSpace(lines[j]) != ""; j++ {
				sb.WriteString("<tr>")
				for _, cell := range splitRow(lines[j]) {
					sb.WriteString("<td>" + cell + "</td>")
				}
				sb.WriteString("</tr>")
			}
			sb.WriteString("</tbody></table>")

			out = append(out, sb.String())
			i = j - 1
			continue
		}
		out = append(out, line)
	}
	return out
}

// splitRow splits a pipe row into trimmed cells, ignoring the optional outer pipes
func splitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	cells := strings.Split(line, "|")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

func convertHeading(line string) string {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return line
	}
	if m := h3Re.FindStringSubmatch(trimmed); m != nil {
		return "<h3>" + m[1] + "</h3>"
	}
	if m := h2Re.FindStringSubmatch(trimmed); m != nil {
		return "<h2>" + m[1] + "</h2>"
	}
	if m := h1Re.FindStringSubmatch(trimmed); m != nil {
		return "<h1>" + m[1] + "</h1>"
	}
	return line
}

func convertInline(line string) string {
	line = boldStarRe.ReplaceAllString(line, "<strong>$1</strong>")
	line = boldUnderRe.ReplaceAllString(line, "<strong>$1</strong>")
	line = italicStarRe.ReplaceAllString(line, "<em>$1</em>")
	line = italicUnderRe.ReplaceAllString(line, "$1<em>$2</em>$3")
	line = imageRe.ReplaceAllString(line, `<img src="$2" alt="$1">`)
	line = linkRe.ReplaceAllString(line, `<a href="$2">$1</a>`)
	return line
}

// wrapListsAndParagraphs turns list lines into <li> runs inside <ul>/<ol> and wraps
// remaining lines that do not open a block element in <p>. Blank lines end a list and are dropped.
func wrapListsAndParagraphs(lines []string) []string {
	out := make([]string, 0, len(lines))
	openList := ""

	closeList := func() {
		if openList != "" {
			out = append(out, "</"+openList+">")
			openList = ""
		}
	}
	openAs := func(tag string) {
		if openList != tag {
			closeList()
			out = append(out, "<"+tag+">")
			openList = tag
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			closeList()
		case bulletItemRe.MatchString(line):
			openAs("ul")
			out = append(out, "<li>"+strings.TrimSpace(bulletItemRe.FindStringSubmatch(line)[1])+"</li>")
		case numberedItemRe.MatchString(line):
			openAs("ol")
			out = append(out, "<li>"+strings.TrimSpace(numberedItemRe.FindStringSubmatch(line)[1])+"</li>")
		case startsWithBlockRe.MatchString(trimmed):
			closeList()
			out = append(out, trimmed)
		default:
			closeList()
			out = append(out, "<p>"+trimmed+"</p>")
		}
	}
	closeList()
	return out
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
