package repair

import (
	"regexp"
	"strconv"
	"strings"
)

var emptyBlockRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<p(?:\s[^<>]*)?>(?:\s|&nbsp;)*</p>`),
	regexp.MustCompile(`(?i)<div(?:\s[^<>]*)?>(?:\s|&nbsp;)*</div>`),
	regexp.MustCompile(`(?i)<li(?:\s[^<>]*)?>(?:\s|&nbsp;)*</li>`),
}

var (
	excessNewlinesRe   = regexp.MustCompile(`\n{3,}`)
	spaceBeforeCloseRe = regexp.MustCompile(`(<[a-zA-Z/][^<>]*?)\s+(/?>)`)
	headingNameRe      = regexp.MustCompile(`^h([1-6])$`)
)

// Normalize cleans up the block structure of already balanced HTML: it removes
// empty paragraphs, divs and list items, collapses runs of blank lines, strips
// whitespace before tag ends, wraps leading bare text in a paragraph when the
// content does not start with a tag, flattens
// nested paragraphs and keeps a single <h1> with no skipped heading levels.
func Normalize(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	html = spaceBeforeCloseRe.ReplaceAllString(html, "$1$2")
	html = FlattenParagraphs(html)
	html = NormalizeHeadings(html)
	html = removeEmptyBlocks(html)
	html = wrapLeadingText(html)
	html = excessNewlinesRe.ReplaceAllString(html, "\n\n")
	return strings.TrimSpace(html)
}

// removeEmptyBlocks repeats until nested empties such as <div><p></p></div> are gone
func removeEmptyBlocks(html string) string {
	for {
		before := html
		for _, re := range emptyBlockRes {
			html = re.ReplaceAllString(html, "")
		}
		if html == before {
			return html
		}
	}
}

// wrapLeadingText wraps the text run that precedes the first block element in
// <p>. Content that already starts with a tag is left alone.
func wrapLeadingText(html string) string {
	trimmed := strings.TrimLeft(html, " \t\r\n")
	if trimmed == "" {
		return html
	}

	tokens := scan(trimmed)
	if len(tokens) > 0 && tokens[0].start == 0 {
		return trimmed
	}
	end := len(trimmed)
	for _, tok := range tokens {
		if blockElements[tok.name] {
			end = tok.start
			break
		}
	}
	lead := trimmed[:end]
	if end == 0 || strings.TrimSpace(lead) == "" {
		return trimmed
	}
	return "<p>" + strings.TrimSpace(lead) + "</p>" + trimmed[end:]
}

// FlattenParagraphs removes a <p> opened inside another <p> along with its
// matching closer, keeping the outer paragraph
func FlattenParagraphs(html string) string {
	tokens := scan(html)
	var sb strings.Builder
	depth, dropped := 0, 0
	last := 0

	for _, tok := range tokens {
		if tok.name != "p" {
			continue
		}
		sb.WriteString(html[last:tok.start])
		last = tok.end

		switch {
		case !tok.closing && depth > 0:
			dropped++
			continue
		case !tok.closing:
			depth++
		case dropped > 0:
			dropped--
			continue
		case depth > 0:
			depth--
		}
		sb.WriteString(html[tok.start:tok.end])
	}
	sb.WriteString(html[last:])
	return sb.String()
}

// NormalizeHeadings demotes every <h1> after the first to <h2> and lifts
// headings that skip a level so each is at most one deeper than the one before
func NormalizeHeadings(html string) string {
	type open struct{ from, to int }

	tokens := scan(html)
	var sb strings.Builder
	var stack []open
	seenH1 := false
	prev := 0
	last := 0

	for _, tok := range tokens {
		m := headingNameRe.FindStringSubmatch(tok.name)
		if m == nil {
			continue
		}
		level, _ := strconv.Atoi(m[1])
		sb.WriteString(html[last:tok.start])
		last = tok.end

		if tok.closing {
			to := level
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].from == level {
					to = stack[i].to
					stack = append(stack[:i], stack[i+1:]...)
					break
				}
			}
			sb.WriteString("</h" + strconv.Itoa(to) + ">")
			continue
		}

		to := level
		if level == 1 {
			if seenH1 {
				to = 2
			}
			seenH1 = true
		}
		if prev > 0 && to > prev+1 {
			to = prev + 1
		}
		prev = to
		stack = append(stack, open{from: level, to: to})

		// keep the original attributes, swap only the level digit
		tag := html[tok.start:tok.end]
		sb.WriteString(tag[:2] + strconv.Itoa(to) + tag[3:])
	}
	sb.WriteString(html[last:])
	return sb.String()
}
