package exercise

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Mogikan/Interactivebook/internal/markup"
)

// Exercise is the typed payload of one exercise kind.
type Exercise interface {
	Kind() Kind
}

// Option is one answer line of a quiz.
type Option struct {
	Text       string `yaml:"text"`
	Color      string `yaml:"color,omitempty"`
	Background string `yaml:"background,omitempty"`
}

type Quiz struct {
	Question  string       `yaml:"question"`
	Options   []Option     `yaml:"options"`
	Answer    string       `yaml:"answer"`
	Multiple  bool         `yaml:"multiple,omitempty"`
	Direction string       `yaml:"direction,omitempty"`
	Mode      string       `yaml:"mode,omitempty"`
	Extra     markup.Props `yaml:"-"`
}

type Ordering struct {
	Items     []string     `yaml:"items"`
	Direction string       `yaml:"direction,omitempty"`
	Mode      string       `yaml:"mode,omitempty"`
	Text      string       `yaml:"text,omitempty"`
	Extra     markup.Props `yaml:"-"`
}

// Pair is one left/right match.
type Pair struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

type Matching struct {
	Pairs     []Pair       `yaml:"pairs"`
	Direction string       `yaml:"direction,omitempty"`
	Text      string       `yaml:"text,omitempty"`
	Extra     markup.Props `yaml:"-"`
}

// Group is a named bucket of items. Group order is preserved.
type Group struct {
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

type Grouping struct {
	Groups []Group      `yaml:"groups"`
	Text   string       `yaml:"text,omitempty"`
	Extra  markup.Props `yaml:"-"`
}

type Media struct {
	Src     string       `yaml:"src"`
	Type    string       `yaml:"type,omitempty"`
	Caption string       `yaml:"caption,omitempty"`
	Extra   markup.Props `yaml:"-"`
}

// FillBlanks is prose with [answer] or [answer|opt1|opt2] gaps.
type FillBlanks struct {
	Text    string       `yaml:"text"`
	Mode    string       `yaml:"mode,omitempty"`
	Options []string     `yaml:"options"`
	Extra   markup.Props `yaml:"-"`
}

// InlineBlanks is like FillBlanks but renders its gaps inside the running
// text, tables included.
type InlineBlanks struct {
	Text    string       `yaml:"text"`
	Mode    string       `yaml:"mode,omitempty"`
	Options []string     `yaml:"options"`
	Extra   markup.Props `yaml:"-"`
}

// Line is one utterance of a dialogue.
type Line struct {
	Speaker string `yaml:"speaker"`
	Text    string `yaml:"text"`
	Side    string `yaml:"side,omitempty"`
	Voice   string `yaml:"voice,omitempty"`
}

type Dialogue struct {
	Lines    []Line       `yaml:"lines"`
	AutoPlay bool         `yaml:"auto_play,omitempty"`
	Extra    markup.Props `yaml:"-"`
}

type InteractiveMedia struct {
	Src         string       `yaml:"src"`
	Type        string       `yaml:"type,omitempty"`
	Title       string       `yaml:"title,omitempty"`
	Checkpoints []Checkpoint `yaml:"checkpoints"`
	Extra       markup.Props `yaml:"-"`
}

// Checkpoint pauses interactive media at Time and shows Content, usually
// another exercise.
type Checkpoint struct {
	Time    string       `yaml:"time"`
	Content string       `yaml:"content"`
	Extra   markup.Props `yaml:"-"`
}

func (Quiz) Kind() Kind             { return KindQuiz }
func (Ordering) Kind() Kind         { return KindOrdering }
func (Matching) Kind() Kind         { return KindMatching }
func (Grouping) Kind() Kind         { return KindGrouping }
func (Media) Kind() Kind            { return KindMedia }
func (FillBlanks) Kind() Kind       { return KindFillBlanks }
func (InlineBlanks) Kind() Kind     { return KindInlineBlanks }
func (Dialogue) Kind() Kind         { return KindDialogue }
func (InteractiveMedia) Kind() Kind { return KindInteractiveMedia }
func (Checkpoint) Kind() Kind       { return KindCheckpoint }

// Seconds returns the checkpoint time in seconds.
func (c Checkpoint) Seconds() (float64, error) {
	return ParseTimecode(c.Time)
}

// Decode turns an extracted record into its typed payload. Missing props
// take their documented defaults.
func Decode(c Component) (Exercise, error) {
	p := c.Props
	if p == nil {
		p = markup.Props{}
	}
	extra := extraProps(c.Type, p)

	switch c.Type {
	case KindQuiz:
		question, options := decodeQuizBody(Body(c.Children))
		multiple, _ := p.Bool("multiple")
		return Quiz{
			Question:  question,
			Options:   options,
			Answer:    str(p, "answer", ""),
			Multiple:  multiple,
			Direction: str(p, "direction", "vertical"),
			Mode:      str(p, "mode", "normal"),
			Extra:     extra,
		}, nil
	case KindOrdering:
		return Ordering{
			Items:     strs(p["items"]),
			Direction: str(p, "direction", "vertical"),
			Mode:      str(p, "mode", "list"),
			Text:      Body(c.Children),
			Extra:     extra,
		}, nil
	case KindMatching:
		return Matching{
			Pairs:     pairs(p["pairs"]),
			Direction: str(p, "direction", "right"),
			Text:      Body(c.Children),
			Extra:     extra,
		}, nil
	case KindGrouping:
		return Grouping{
			Groups: groups(p["groups"]),
			Text:   Body(c.Children),
			Extra:  extra,
		}, nil
	case KindMedia:
		return Media{
			Src:     str(p, "src", ""),
			Type:    str(p, "type", ""),
			Caption: str(p, "caption", ""),
			Extra:   extra,
		}, nil
	case KindFillBlanks:
		return FillBlanks{
			Text:    Body(c.Children),
			Mode:    str(p, "mode", "input"),
			Options: strs(p["options"]),
			Extra:   extra,
		}, nil
	case KindInlineBlanks:
		return InlineBlanks{
			Text:    Body(c.Children),
			Mode:    str(p, "mode", "type"),
			Options: strs(p["options"]),
			Extra:   extra,
		}, nil
	case KindDialogue:
		lines := dialogueLines(p["lines"])
		if lines == nil {
			lines = decodeMessages(c.Children)
		}
		autoPlay, _ := p.Bool("autoPlay")
		return Dialogue{Lines: lines, AutoPlay: autoPlay, Extra: extra}, nil
	case KindInteractiveMedia:
		return InteractiveMedia{
			Src:         str(p, "src", ""),
			Type:        str(p, "type", "video"),
			Title:       str(p, "title", ""),
			Checkpoints: decodeCheckpoints(c.Children),
			Extra:       extra,
		}, nil
	case KindCheckpoint:
		return Checkpoint{
			Time:    str(p, "time", ""),
			Content: Body(c.Children),
			Extra:   extra,
		}, nil
	default:
		return nil, fmt.Errorf("decode %q: %w", c.Type, ErrUnknownKind)
	}
}

// Encode builds the record for a typed payload. The result has no source
// position; pass it to Generate or to an edit session.
func Encode(e Exercise) (Component, error) {
	var (
		props    markup.Props
		children string
		extra    markup.Props
	)

	switch x := e.(type) {
	case Quiz:
		props = markup.Props{
			"answer":    x.Answer,
			"multiple":  x.Multiple,
			"direction": x.Direction,
			"mode":      x.Mode,
		}
		children = encodeQuizBody(x.Question, x.Options)
		extra = x.Extra
	case Ordering:
		props = markup.Props{"items": anyStrings(x.Items), "direction": x.Direction, "mode": x.Mode}
		children = x.Text
		extra = x.Extra
	case Matching:
		list := make([]any, 0, len(x.Pairs))
		for _, pr := range x.Pairs {
			o := markup.NewObject()
			o.Set("left", pr.Left)
			o.Set("right", pr.Right)
			list = append(list, o)
		}
		props = markup.Props{"pairs": list, "direction": x.Direction}
		children = x.Text
		extra = x.Extra
	case Grouping:
		o := markup.NewObject()
		for _, g := range x.Groups {
			name := strings.TrimSpace(g.Name)
			if name == "" {
				continue
			}
			o.Set(name, anyStrings(g.Items))
		}
		props = markup.Props{"groups": o}
		children = x.Text
		extra = x.Extra
	case Media:
		props = markup.Props{"src": x.Src, "type": x.Type, "caption": x.Caption}
		extra = x.Extra
	case FillBlanks:
		props = markup.Props{"mode": x.Mode, "options": anyStrings(x.Options)}
		children = x.Text
		extra = x.Extra
	case InlineBlanks:
		props = markup.Props{"mode": x.Mode, "options": anyStrings(x.Options)}
		children = x.Text
		extra = x.Extra
	case Dialogue:
		props = markup.Props{"autoPlay": x.AutoPlay}
		children = encodeMessages(x.Lines)
		extra = x.Extra
	case InteractiveMedia:
		props = markup.Props{"src": x.Src, "type": x.Type}
		if x.Title != "" {
			props["title"] = x.Title
		}
		children = encodeCheckpoints(x.Checkpoints)
		extra = x.Extra
	case Checkpoint:
		props = markup.Props{"time": x.Time}
		children = x.Content
		extra = x.Extra
	default:
		return Component{}, fmt.Errorf("encode %T: %w", e, ErrUnknownKind)
	}

	// Empty mode/direction strings mean "default".
	for k, v := range props {
		if s, ok := v.(string); ok && s == "" && k != "answer" {
			delete(props, k)
		}
	}
	for k, v := range extra {
		if _, taken := props[k]; !taken {
			props[k] = v
		}
	}

	c := Component{Type: e.Kind(), Props: props, Children: children}
	if layouts[c.Type].selfClosing(Body(children)) {
		c.SelfClosing = true
		c.Children = ""
	}
	return c, nil
}

// GenerateExercise encodes and serializes a typed payload.
func GenerateExercise(e Exercise) (string, error) {
	c, err := Encode(e)
	if err != nil {
		return "", err
	}
	return Generate(c), nil
}

// known props per kind; everything else is carried in Extra.
var knownProps = map[Kind][]string{
	KindDialogue:         {"autoPlay", "lines"},
}

func extraProps(k Kind, p markup.Props) markup.Props {
	known := map[string]bool{}
	for _, name := range layouts[k].order {
		known[name] = true
	}
	for _, name := range knownProps[k] {
		known[name] = true
	}
	var extra markup.Props
	for name, v := range p {
		if known[name] {
			continue
		}
		if extra == nil {
			extra = markup.Props{}
		}
		extra[name] = v
	}
	return extra
}

func decodeQuizBody(body string) (string, []Option) {
	question := body
	if i := strings.Index(body, "<"+tagOption); i >= 0 {
		question = body[:i]
	}
	var options []Option
	for _, s := range markup.ScanTags(body, tagOption) {
		attrs := markup.DecodeAttributes(s.Attrs)
		options = append(options, Option{
			Text:       strings.TrimSpace(s.Inner),
			Color:      str(attrs, "color", ""),
			Background: str(attrs, "backgroundColor", ""),
		})
	}
	return strings.TrimSpace(question), options
}

func encodeQuizBody(question string, options []Option) string {
	lines := []string{}
	if q := strings.TrimSpace(question); q != "" {
		lines = append(lines, q)
	}
	for _, o := range options {
		var b strings.Builder
		b.WriteString("<" + tagOption)
		if o.Color != "" {
			b.WriteString(" " + markup.FormatAttribute("color", o.Color))
		}
		if o.Background != "" {
			b.WriteString(" " + markup.FormatAttribute("backgroundColor", o.Background))
		}
		b.WriteString(">" + o.Text + "</" + tagOption + ">")
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func decodeMessages(children string) []Line {
	var lines []Line
	for _, s := range markup.ScanTags(children, tagMessage) {
		attrs := markup.DecodeAttributes(s.Attrs)
		lines = append(lines, Line{
			Speaker: str(attrs, "speaker", ""),
			Text:    trimLines(s.Inner),
			Side:    str(attrs, "side", "left"),
			Voice:   str(attrs, "voice", ""),
		})
	}
	return lines
}

func encodeMessages(lines []Line) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		side := l.Side
		if side == "" {
			side = "left"
		}
		var b strings.Builder
		b.WriteString("<" + tagMessage)
		b.WriteString(" " + markup.FormatAttribute("speaker", l.Speaker))
		b.WriteString(" " + markup.FormatAttribute("side", side))
		if l.Voice != "" {
			b.WriteString(" " + markup.FormatAttribute("voice", l.Voice))
		}
		b.WriteString(">" + l.Text + "</" + tagMessage + ">")
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

func dialogueLines(v any) []Line {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	lines := make([]Line, 0, len(list))
	for _, item := range list {
		get := fieldGetter(item)
		if get == nil {
			continue
		}
		side := get("side")
		if side == "" {
			side = "left"
		}
		lines = append(lines, Line{
			Speaker: get("speaker"),
			Text:    get("text"),
			Side:    side,
			Voice:   get("voice"),
		})
	}
	return lines
}

func decodeCheckpoints(children string) []Checkpoint {
	var cps []Checkpoint
	end := -1
	for _, s := range markup.ScanTags(children, string(KindCheckpoint)) {
		if s.Start < end {
			continue
		}
		end = s.End
		attrs := markup.DecodeAttributes(s.Attrs)
		cps = append(cps, Checkpoint{
			Time:    str(attrs, "time", ""),
			Content: Body(s.Inner),
			Extra:   extraProps(KindCheckpoint, attrs),
		})
	}
	SortCheckpoints(cps)
	return cps
}

func encodeCheckpoints(cps []Checkpoint) string {
	sorted := make([]Checkpoint, len(cps))
	copy(sorted, cps)
	SortCheckpoints(sorted)

	blocks := make([]string, 0, len(sorted))
	for _, cp := range sorted {
		c, _ := Encode(cp)
		blocks = append(blocks, Generate(c))
	}
	return strings.Join(blocks, "\n")
}

// SortCheckpoints orders checkpoints by time. Unparseable times sort last
// and keep their relative order.
func SortCheckpoints(cps []Checkpoint) {
	sort.SliceStable(cps, func(i, j int) bool {
		a, errA := cps[i].Seconds()
		b, errB := cps[j].Seconds()
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		}
		return a < b
	})
}

// str reads a prop as text. Numbers and booleans are formatted.
func str(p markup.Props, key, def string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case float64:
		return markup.FormatNumber(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return def
}

// strs reads a list prop. A plain string is split on commas.
func strs(v any) []string {
	switch x := v.(type) {
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, scalarString(e))
		}
		return out
	case []string:
		return append([]string(nil), x...)
	case string:
		var out []string
		for _, part := range strings.Split(x, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func pairs(v any) []Pair {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Pair, 0, len(list))
	for _, item := range list {
		get := fieldGetter(item)
		if get == nil {
			continue
		}
		out = append(out, Pair{Left: get("left"), Right: get("right")})
	}
	return out
}

func groups(v any) []Group {
	switch x := v.(type) {
	case *markup.Object:
		out := make([]Group, 0, x.Len())
		for _, name := range x.Keys() {
			items, _ := x.Get(name)
			out = append(out, Group{Name: name, Items: strs(items)})
		}
		return out
	case map[string]any:
		names := make([]string, 0, len(x))
		for name := range x {
			names = append(names, name)
		}
		sort.Strings(names)
		out := make([]Group, 0, len(names))
		for _, name := range names {
			out = append(out, Group{Name: name, Items: strs(x[name])})
		}
		return out
	case []any:
		// [{name: "A", items: [...]}, ...]
		out := make([]Group, 0, len(x))
		for _, item := range x {
			obj, ok := item.(*markup.Object)
			if !ok {
				continue
			}
			name, _ := obj.Get("name")
			items, _ := obj.Get("items")
			out = append(out, Group{Name: scalarString(name), Items: strs(items)})
		}
		return out
	}
	return nil
}

// fieldGetter returns a string accessor for an object-like value.
func fieldGetter(item any) func(string) string {
	switch o := item.(type) {
	case *markup.Object:
		return func(k string) string {
			v, _ := o.Get(k)
			return scalarString(v)
		}
	case map[string]any:
		return func(k string) string { return scalarString(o[k]) }
	}
	return nil
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return markup.FormatNumber(x)
	case bool:
		return strconv.FormatBool(x)
	}
	return markup.FormatValue(v)
}

func anyStrings(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}

func trimLines(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}
