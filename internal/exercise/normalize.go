package exercise

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Mogikan/Interactivebook/internal/markup"
)

// normalizeOrder lists the tags whose bodies are flattened before
// compiling, outermost containers first.
var normalizeOrder = []string{
	string(KindInteractiveMedia),
	string(KindCheckpoint),
	string(KindQuiz),
	tagOption,
	string(KindFillBlanks),
	string(KindInlineBlanks),
	string(KindOrdering),
	string(KindMatching),
	string(KindGrouping),
	string(KindDialogue),
}

// tableSeparator matches a Markdown table separator row such as
// "| --- | :-: |".
var tableSeparator = regexp.MustCompile(`(?m)^\s*\|[\s\-:|]+\|\s*$`)

// NormalizeForCompile returns a copy of text prepared for the document
// compiler. Inside exercise blocks every line is trimmed and blank lines
// dropped; the lines are joined by a space unless the block holds a
// Markdown table, in which case newlines are kept.
//
// The result is for rendering only and must not replace the edited text.
func NormalizeForCompile(text string) string {
	for _, name := range normalizeOrder {
		text = normalizeTag(text, name)
	}
	return text
}

func normalizeTag(text, name string) string {
	spans := outermost(markup.ScanTags(text, name))
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		if s.SelfClosing {
			continue
		}
		text = text[:s.InnerStart] + flattenBody(s.Inner) + text[s.InnerEnd:]
	}
	return text
}

func flattenBody(inner string) string {
	var lines []string
	for _, line := range strings.Split(inner, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lines = append(lines, l)
		}
	}
	if tableSeparator.MatchString(inner) {
		return "\n" + strings.Join(lines, "\n") + "\n"
	}
	return strings.Join(lines, " ")
}

// outermost drops spans that lie inside an earlier span.
func outermost(spans []markup.Span) []markup.Span {
	out := spans[:0:0]
	end := -1
	for _, s := range spans {
		if s.Start < end {
			continue
		}
		out = append(out, s)
		end = s.End
	}
	return out
}

// IndexAttr marks a rendered exercise with its position in the extraction
// list.
const IndexAttr = "data-index"

// InjectIndexes adds data-index="i" to the opening tag of every top-level
// exercise, numbering them in document order.
func InjectIndexes(text string) string {
	recs := Extract(text)
	for i := len(recs) - 1; i >= 0; i-- {
		r := recs[i]
		attr := " " + IndexAttr + `="` + strconv.Itoa(i) + `"`
		// The opening tag ends where its attribute region does, followed by
		// "/>" or ">".
		at := r.AttrsStart + len(r.Attrs)
		if r.SelfClosing {
			attr += " "
			if at > 0 && text[at-1] == ' ' {
				attr = attr[1:]
			}
		}
		text = text[:at] + attr + text[at:]
	}
	return text
}

// IndexOf reads the data-index of a rendered record, or -1.
func IndexOf(c Component) int {
	switch v := c.Props[IndexAttr].(type) {
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	case float64:
		return int(v)
	}
	return -1
}
