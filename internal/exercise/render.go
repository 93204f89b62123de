package exercise

import (
	"fmt"
	"sort"
	"strings"
)

// Render replaces every exercise in a lesson with a plain Markdown
// rendition, for compilers that know nothing about exercise tags. With
// showHints the correct answers are marked.
func Render(text string, showHints bool) string {
	var b strings.Builder
	for _, seg := range Split(text) {
		if seg.Component == nil {
			b.WriteString(seg.Text)
			continue
		}
		e, err := Decode(*seg.Component)
		if err != nil {
			b.WriteString("\n```\n" + seg.Text + "\n```\n")
			continue
		}
		b.WriteString("\n" + Summarize(e, showHints) + "\n")
	}
	return b.String()
}

// Summarize renders one exercise as Markdown.
func Summarize(e Exercise, showHints bool) string {
	var b strings.Builder
	switch x := e.(type) {
	case Quiz:
		title := "Quiz"
		if x.Multiple {
			title = "Quiz (several answers)"
		}
		fmt.Fprintf(&b, "**%s**\n\n", title)
		if x.Question != "" {
			b.WriteString(x.Question + "\n\n")
		}
		answers, _ := ParseAnswer(x.Answer)
		correct := map[int]bool{}
		for _, n := range answers {
			correct[n] = true
		}
		for i, o := range x.Options {
			box := "[ ]"
			if showHints && correct[i+1] {
				box = "[x]"
			}
			fmt.Fprintf(&b, "- %s %s\n", box, o.Text)
		}
	case Ordering:
		b.WriteString("**Put in order**\n\n")
		writeText(&b, x.Text)
		items := x.Items
		if !showHints {
			items = sortedCopy(items)
		}
		for i, item := range items {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item)
		}
	case Matching:
		b.WriteString("**Match the pairs**\n\n")
		writeText(&b, x.Text)
		b.WriteString("| | |\n| --- | --- |\n")
		rights := make([]string, len(x.Pairs))
		for i, p := range x.Pairs {
			rights[i] = p.Right
		}
		if !showHints {
			rights = sortedCopy(rights)
		}
		for i, p := range x.Pairs {
			fmt.Fprintf(&b, "| %s | %s |\n", p.Left, rights[i])
		}
	case Grouping:
		b.WriteString("**Sort into groups**\n\n")
		writeText(&b, x.Text)
		if showHints {
			for _, g := range x.Groups {
				fmt.Fprintf(&b, "- **%s**: %s\n", g.Name, strings.Join(g.Items, ", "))
			}
			break
		}
		var names, items []string
		for _, g := range x.Groups {
			names = append(names, g.Name)
			items = append(items, g.Items...)
		}
		fmt.Fprintf(&b, "Groups: %s\n\nItems: %s\n", strings.Join(names, ", "), strings.Join(sortedCopy(items), ", "))
	case Media:
		kind := x.Type
		if kind == "" {
			kind = "media"
		}
		fmt.Fprintf(&b, "**%s**: <%s>\n", capitalize(kind), x.Src)
		if x.Caption != "" {
			fmt.Fprintf(&b, "\n_%s_\n", x.Caption)
		}
	case FillBlanks:
		b.WriteString("**Fill in the blanks**\n\n")
		b.WriteString(renderBlanks(x.Text, showHints) + "\n")
		writeOptions(&b, x.Options)
	case InlineBlanks:
		b.WriteString(renderBlanks(x.Text, showHints) + "\n")
		writeOptions(&b, x.Options)
	case Dialogue:
		for _, l := range x.Lines {
			fmt.Fprintf(&b, "> **%s:** %s\n>\n", l.Speaker, strings.ReplaceAll(l.Text, "\n", " "))
		}
	case InteractiveMedia:
		title := x.Title
		if title == "" {
			title = "Interactive " + x.Type
		}
		fmt.Fprintf(&b, "**%s**: <%s>\n", title, x.Src)
		for _, cp := range x.Checkpoints {
			b.WriteString("\n" + Summarize(cp, showHints))
		}
	case Checkpoint:
		fmt.Fprintf(&b, "#### At %s\n\n", x.Time)
		b.WriteString(strings.TrimSpace(Render(x.Content, showHints)) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderBlanks shows gaps as inline code: the answer with hints, a line
// otherwise. Picker options are listed in the gap.
func renderBlanks(text string, showHints bool) string {
	blanks := ParseBlanks(text)
	var b strings.Builder
	pos := 0
	for _, bl := range blanks {
		b.WriteString(text[pos:bl.Start])
		switch {
		case showHints:
			b.WriteString("`" + bl.Answer + "`")
		case len(bl.Options) > 0:
			choices := sortedCopy(append([]string{bl.Answer}, bl.Options...))
			b.WriteString("`" + strings.Join(choices, " / ") + "`")
		default:
			b.WriteString("`_____`")
		}
		pos = bl.End
	}
	b.WriteString(text[pos:])
	return b.String()
}

func writeText(b *strings.Builder, text string) {
	if text != "" {
		b.WriteString(text + "\n\n")
	}
}

func writeOptions(b *strings.Builder, options []string) {
	if len(options) > 0 {
		fmt.Fprintf(b, "\nWord bank: %s\n", strings.Join(sortedCopy(options), ", "))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
