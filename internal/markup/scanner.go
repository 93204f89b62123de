// Package markup scans custom component tags embedded in prose and decodes
// their attribute lists.
//
// All functions are pure over an immutable string; offsets are byte offsets
// into the text they were computed from.
package markup

import "strings"

// Span is one occurrence of a tag in a document.
//
// Start and End delimit the whole occurrence (opening tag through closing
// tag) as a half-open byte range. InnerStart and InnerEnd delimit the
// content between the tags; for self-closing tags both equal End. Attrs is
// the untrimmed attribute region of the opening tag, beginning at AttrsStart.
type Span struct {
	Name        string
	OpenTag     string
	Inner       string
	CloseTag    string
	Attrs       string
	AttrsStart  int
	Start       int
	End         int
	InnerStart  int
	InnerEnd    int
	SelfClosing bool
}

// Raw returns the source text of the span.
func (s Span) Raw(text string) string {
	return text[s.Start:s.End]
}

// ScanTags returns every occurrence of the tag name in text at any nesting
// depth, ordered by Start.
//
// Malformed occurrences (an opening tag that never terminates, a paired tag
// without a matching close) are skipped and scanning resumes just after
// their '<'.
func ScanTags(text, name string) []Span {
	if name == "" {
		return nil
	}
	var spans []Span
	pos := 0
	for pos < len(text) {
		at := findOpen(text, name, pos)
		if at < 0 {
			break
		}
		span, ok := scanOccurrence(text, name, at)
		if ok {
			spans = append(spans, span)
		}
		pos = at + 1
	}
	return spans
}

// scanOccurrence parses the tag whose '<' sits at offset at.
func scanOccurrence(text, name string, at int) (Span, bool) {
	tagEnd, selfClosing, ok := openTagEnd(text, at+1+len(name))
	if !ok {
		return Span{}, false
	}

	attrsStart := at + 1 + len(name)
	attrsEnd := tagEnd - 1
	if selfClosing {
		attrsEnd = tagEnd - 2
	}
	span := Span{
		Name:        name,
		OpenTag:     text[at:tagEnd],
		Attrs:       text[attrsStart:attrsEnd],
		AttrsStart:  attrsStart,
		Start:       at,
		SelfClosing: selfClosing,
	}
	if selfClosing {
		span.End = tagEnd
		span.InnerStart = tagEnd
		span.InnerEnd = tagEnd
		return span, true
	}

	closeStart, closeEnd, ok := matchClose(text, name, tagEnd)
	if !ok {
		return Span{}, false
	}
	span.InnerStart = tagEnd
	span.InnerEnd = closeStart
	span.Inner = text[tagEnd:closeStart]
	span.CloseTag = text[closeStart:closeEnd]
	span.End = closeEnd
	return span, true
}

// findOpen returns the offset of the next "<name" with a tag boundary after
// the name, or -1.
func findOpen(text, name string, from int) int {
	needle := "<" + name
	for from < len(text) {
		i := strings.Index(text[from:], needle)
		if i < 0 {
			return -1
		}
		i += from
		if isBoundary(text, i+len(needle)) {
			return i
		}
		from = i + 1
	}
	return -1
}

// isBoundary reports whether the byte at i may follow a tag name.
func isBoundary(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	switch text[i] {
	case ' ', '\t', '\n', '\r', '>', '/':
		return true
	}
	return false
}

// scanner states for the opening tag.
const (
	stateAttrs = iota
	stateDouble
	stateSingle
	stateBrace
)

// openTagEnd walks an opening tag starting right after its name and returns
// the offset just past the terminating '>'. Quotes and brace literals are
// opaque, so a '>' inside them does not end the tag.
func openTagEnd(text string, from int) (end int, selfClosing bool, ok bool) {
	state := stateAttrs
	depth := 0
	// braceQuote tracks string literals inside a brace expression.
	var braceQuote byte
	for i := from; i < len(text); i++ {
		c := text[i]
		switch state {
		case stateAttrs:
			switch c {
			case '"':
				state = stateDouble
			case '\'':
				state = stateSingle
			case '{':
				state = stateBrace
				depth = 1
			case '<':
				// A new tag starts before this one closed.
				return 0, false, false
			case '>':
				return i + 1, i > from && text[i-1] == '/', true
			}
		case stateDouble:
			if c == '"' {
				state = stateAttrs
			}
		case stateSingle:
			if c == '\'' {
				state = stateAttrs
			}
		case stateBrace:
			if braceQuote != 0 {
				switch c {
				case '\\':
					i++
				case braceQuote:
					braceQuote = 0
				}
				continue
			}
			switch c {
			case '"', '\'', '`':
				braceQuote = c
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					state = stateAttrs
				}
			}
		}
	}
	return 0, false, false
}

// matchClose finds the close tag that balances an opening tag ending at
// from. Nested same-name opening tags increase the depth; self-closing ones
// do not.
func matchClose(text, name string, from int) (closeStart, closeEnd int, ok bool) {
	depth := 1
	pos := from
	for pos < len(text) {
		lt := strings.IndexByte(text[pos:], '<')
		if lt < 0 {
			return 0, 0, false
		}
		lt += pos

		if end, ok := closeTagAt(text, name, lt); ok {
			depth--
			if depth == 0 {
				return lt, end, true
			}
			pos = end
			continue
		}

		if strings.HasPrefix(text[lt:], "<"+name) && isBoundary(text, lt+1+len(name)) {
			end, selfClosing, ok := openTagEnd(text, lt+1+len(name))
			if ok {
				if !selfClosing {
					depth++
				}
				pos = end
				continue
			}
		}
		pos = lt + 1
	}
	return 0, 0, false
}

// closeTagAt matches "</ name >" (whitespace optional) at offset i.
func closeTagAt(text, name string, i int) (int, bool) {
	if !strings.HasPrefix(text[i:], "</") {
		return 0, false
	}
	j := skipSpace(text, i+2)
	if !strings.HasPrefix(text[j:], name) {
		return 0, false
	}
	j = skipSpace(text, j+len(name))
	if j < len(text) && text[j] == '>' {
		return j + 1, true
	}
	return 0, false
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}
