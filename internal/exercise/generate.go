package exercise

import (
	"fmt"
	"strings"

	"github.com/Mogikan/Interactivebook/internal/markup"
)

// IDAttr is the hidden attribute that carries a record's stable id.
const IDAttr = "uid"

// layout is the serialization convention of one kind.
type layout struct {
	order    []string
	defaults map[string]any
	// form decides between self-closing and paired output.
	form form
}

type form int

const (
	formPaired form = iota
	formSelfClosing
	// formBodyOptional is self-closing unless the record has body text.
	formBodyOptional
)

var layouts = map[Kind]layout{
	KindQuiz: {
		order:    []string{"answer", "multiple", "direction", "mode"},
		defaults: map[string]any{"multiple": false, "direction": "vertical", "mode": "normal"},
	},
	KindOrdering: {
		order:    []string{"items", "direction", "mode"},
		defaults: map[string]any{"direction": "vertical", "mode": "list"},
		form:     formBodyOptional,
	},
	KindMatching: {
		order:    []string{"pairs", "direction"},
		defaults: map[string]any{"direction": "right"},
		form:     formBodyOptional,
	},
	KindGrouping: {
		order: []string{"groups"},
		form:  formBodyOptional,
	},
	KindMedia: {
		order: []string{"src", "type", "caption"},
		form:  formSelfClosing,
	},
	KindFillBlanks: {
		order:    []string{"mode", "options"},
		defaults: map[string]any{"mode": "input"},
	},
	KindInlineBlanks: {
		order:    []string{"mode", "options"},
		defaults: map[string]any{"mode": "type"},
	},
	KindDialogue: {
		order:    []string{"autoPlay"},
		defaults: map[string]any{"autoPlay": false},
	},
	KindInteractiveMedia: {
		order:    []string{"src", "type", "title"},
		defaults: map[string]any{"type": "video"},
	},
	KindCheckpoint: {
		order: []string{"time"},
	},
}

func (l layout) selfClosing(body string) bool {
	return l.form == formSelfClosing || (l.form == formBodyOptional && body == "")
}

// omitEmpty props are dropped when they hold an empty value.
var omitEmpty = map[string]bool{"options": true, "caption": true}

// Generate serializes a record as canonical markup. Attributes follow the
// kind's fixed order, then any remaining props sorted by name; props equal
// to their default are left out.
func Generate(c Component) string {
	l := layouts[c.Type]
	name := string(c.Type)

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(name)
	for _, attr := range orderedAttrs(c.Props, l) {
		b.WriteByte(' ')
		b.WriteString(markup.FormatAttribute(attr, c.Props[attr]))
	}

	body := Body(c.Children)
	if l.selfClosing(body) {
		b.WriteString(" />")
		return b.String()
	}

	b.WriteString(">\n")
	if body != "" {
		b.WriteString(Indent(body, "  "))
		b.WriteByte('\n')
	}
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">")
	return b.String()
}

func orderedAttrs(props markup.Props, l layout) []string {
	var out []string
	seen := make(map[string]bool, len(props))
	emit := func(name string) {
		seen[name] = true
		v, ok := props[name]
		if !ok {
			return
		}
		if def, ok := l.defaults[name]; ok && isDefault(v, def) {
			return
		}
		if omitEmpty[name] && isEmpty(v) {
			return
		}
		out = append(out, name)
	}

	emit(IDAttr)
	for _, name := range l.order {
		emit(name)
	}
	for _, name := range props.Keys() {
		if !seen[name] {
			emit(name)
		}
	}
	return out
}

func isDefault(v, def any) bool {
	if markup.EqualValues(v, def) {
		return true
	}
	if s, ok := v.(string); ok {
		return s == fmt.Sprint(def)
	}
	return false
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case *markup.Object:
		return x.Len() == 0
	}
	return false
}

// Body canonicalizes paired-tag content: surrounding blank lines are
// dropped, whitespace-only lines emptied and the common indentation
// removed. Body is idempotent.
func Body(children string) string {
	lines := strings.Split(strings.ReplaceAll(children, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
		}
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	prefix := ""
	first := true
	for _, line := range lines {
		if line == "" {
			continue
		}
		ws := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix = ws
			first = false
			continue
		}
		prefix = commonPrefix(prefix, ws)
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

// Indent prefixes every non-empty line.
func Indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
