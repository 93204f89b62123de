package exercise

import (
	"sort"
	"strings"

	"github.com/Mogikan/Interactivebook/internal/markup"
)

// Component is one exercise occurrence extracted from a document.
//
// Raw, Start and End describe the source as it was when Extract ran; any
// change to the document invalidates them.
type Component struct {
	Type        Kind
	Props       markup.Props
	Children    string
	Raw         string
	Start       int
	End         int
	SelfClosing bool

	// Attrs is the raw attribute region of the opening tag, starting at
	// byte offset AttrsStart in the document.
	Attrs      string
	AttrsStart int
}

// Prop returns a prop value.
func (c Component) Prop(name string) (markup.Value, bool) {
	v, ok := c.Props[name]
	return v, ok
}

// Extract returns every top-level exercise in text ordered by Start. Tags
// nested inside an earlier record belong to that record and are not
// reported on their own.
func Extract(text string) []Component {
	var all []Component
	for _, k := range Kinds {
		for _, s := range markup.ScanTags(text, string(k)) {
			all = append(all, fromSpan(k, s))
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Start < all[j].Start })

	out := all[:0]
	end := -1
	for _, c := range all {
		if c.Start < end {
			continue
		}
		out = append(out, c)
		end = c.End
	}
	return out
}

// ExtractOne extracts the first top-level record from a markup fragment.
func ExtractOne(fragment string) (Component, bool) {
	recs := Extract(fragment)
	if len(recs) == 0 {
		return Component{}, false
	}
	return recs[0], true
}

func fromSpan(k Kind, s markup.Span) Component {
	return Component{
		Type:        k,
		Props:       markup.DecodeAttributes(s.Attrs),
		Children:    s.Inner,
		Raw:         s.OpenTag + s.Inner + s.CloseTag,
		Start:       s.Start,
		End:         s.End,
		SelfClosing: s.SelfClosing,
		Attrs:       s.Attrs,
		AttrsStart:  s.AttrsStart,
	}
}

// Segment is a piece of a document: either plain text or one exercise.
type Segment struct {
	Text      string
	Component *Component
}

// Split cuts text into alternating prose and exercise segments whose
// concatenation is text.
func Split(text string) []Segment {
	var segs []Segment
	pos := 0
	for _, c := range Extract(text) {
		if c.Start > pos {
			segs = append(segs, Segment{Text: text[pos:c.Start]})
		}
		rec := c
		segs = append(segs, Segment{Text: c.Raw, Component: &rec})
		pos = c.End
	}
	if pos < len(text) {
		segs = append(segs, Segment{Text: text[pos:]})
	}
	return segs
}

// Join concatenates segments back into a document.
func Join(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}
