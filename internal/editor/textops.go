package editor

import (
	"fmt"
	"strings"
)

// Selection is a byte range in the document; Start == End is a cursor.
type Selection struct {
	Start int
	End   int
}

func (s *Session) normalize(sel Selection) Selection {
	sel.Start = clamp(sel.Start, len(s.text))
	sel.End = clamp(sel.End, len(s.text))
	if sel.End < sel.Start {
		sel.Start, sel.End = sel.End, sel.Start
	}
	return sel
}

// Replace substitutes the selected text and returns the cursor after it.
func (s *Session) Replace(sel Selection, text string) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel = s.normalize(sel)
	s.splice(sel.Start, sel.End, text)
	end := sel.Start + len(text)
	return Selection{Start: end, End: end}
}

// Wrap surrounds the selection with prefix and suffix, as the bold or
// code buttons do, and returns the selection of the wrapped text.
func (s *Session) Wrap(sel Selection, prefix, suffix string) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel = s.normalize(sel)
	s.splice(sel.Start, sel.End, prefix+s.text[sel.Start:sel.End]+suffix)
	return Selection{Start: sel.Start + len(prefix), End: sel.End + len(prefix)}
}

// PrefixLine inserts prefix at the start of the line holding the selection
// start, as heading and list buttons do.
func (s *Session) PrefixLine(sel Selection, prefix string) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel = s.normalize(sel)
	lineStart := strings.LastIndexByte(s.text[:sel.Start], '\n') + 1
	s.splice(lineStart, lineStart, prefix)
	return Selection{Start: sel.Start + len(prefix), End: sel.End + len(prefix)}
}

// Table returns a Markdown table skeleton with a header row and rows body
// rows.
func Table(rows, cols int) string {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}

	var b strings.Builder
	b.WriteString("|")
	for c := 0; c < cols; c++ {
		fmt.Fprintf(&b, " Header %d |", c+1)
	}
	b.WriteString("\n|")
	for c := 0; c < cols; c++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for r := 0; r < rows; r++ {
		b.WriteString("|")
		for c := 0; c < cols; c++ {
			fmt.Fprintf(&b, " Cell %d-%d |", r+1, c+1)
		}
		b.WriteString("\n")
	}
	return b.String()
}
