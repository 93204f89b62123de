package exercise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mogikan/Interactivebook/internal/markup"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		in   Component
		want string
	}{
		{
			name: "quiz omits defaults",
			in: Component{
				Type:     KindQuiz,
				Props:    markup.Props{"answer": "1", "multiple": false, "direction": "horizontal", "mode": "normal"},
				Children: "Question?\n<Option>A</Option>\n<Option>B</Option>",
			},
			want: "<Quiz answer=\"1\" direction=\"horizontal\">\n  Question?\n  <Option>A</Option>\n  <Option>B</Option>\n</Quiz>",
		},
		{
			name: "media is self-closing",
			in:   Component{Type: KindMedia, Props: markup.Props{"type": "video", "src": "a.mp4", "caption": ""}},
			want: `<Media src="a.mp4" type="video" />`,
		},
		{
			name: "ordering without body",
			in:   Component{Type: KindOrdering, Props: markup.Props{"items": []any{"a", "b"}, "mode": "list"}},
			want: `<Ordering items={["a", "b"]} />`,
		},
		{
			name: "ordering with body",
			in:   Component{Type: KindOrdering, Props: markup.Props{"items": []any{"a"}}, Children: "Sort these:"},
			want: "<Ordering items={[\"a\"]}>\n  Sort these:\n</Ordering>",
		},
		{
			name: "unknown props sorted after fixed ones",
			in:   Component{Type: KindMedia, Props: markup.Props{"zeta": "1", "src": "x", "alpha": true}},
			want: `<Media src="x" alpha={true} zeta="1" />`,
		},
		{
			name: "uid leads",
			in:   Component{Type: KindMedia, Props: markup.Props{"src": "x", IDAttr: "abc"}},
			want: `<Media uid="abc" src="x" />`,
		},
		{
			name: "quote in string switches to literal",
			in:   Component{Type: KindMedia, Props: markup.Props{"src": "x", "caption": `say "hi"`}},
			want: `<Media src="x" caption={"say \"hi\""} />`,
		},
		{
			name: "empty paired body",
			in:   Component{Type: KindFillBlanks, Props: markup.Props{"mode": "drag"}},
			want: "<FillBlanks mode=\"drag\">\n</FillBlanks>",
		},
		{
			name: "checkpoint time number",
			in:   Component{Type: KindCheckpoint, Props: markup.Props{"time": 14.5}, Children: "\n\n    text\n      more\n"},
			want: "<Checkpoint time={14.5}>\n  text\n    more\n</Checkpoint>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.in))
		})
	}
}

func TestBody(t *testing.T) {
	assert.Equal(t, "", Body("\n  \n\t\n"))
	assert.Equal(t, "a\n\n  b", Body("\n    a\n   \n      b\n  "))
	assert.Equal(t, "one line", Body("one line"))

	in := "\n  x\n    y\n"
	assert.Equal(t, Body(in), Body(Body(in)))
}

func TestGenerate_Idempotent(t *testing.T) {
	for _, k := range Kinds {
		t.Run(string(k), func(t *testing.T) {
			first, err := TemplateMarkup(k)
			require.NoError(t, err)

			rec, ok := ExtractOne(first)
			require.True(t, ok, first)
			assert.Equal(t, k, rec.Type)

			second := Generate(rec)
			assert.Equal(t, first, second)

			again, ok := ExtractOne(second)
			require.True(t, ok)
			assert.Equal(t, Body(rec.Children), Body(again.Children))
		})
	}
}

func TestGenerateExtract_InverseLaw(t *testing.T) {
	for _, k := range Kinds {
		t.Run(string(k), func(t *testing.T) {
			want, err := Template(k)
			require.NoError(t, err)

			text, err := GenerateExercise(want)
			require.NoError(t, err)

			rec, ok := ExtractOne(text)
			require.True(t, ok, text)

			got, err := Decode(rec)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDecode_DialogueFromLinesProp(t *testing.T) {
	rec, ok := ExtractOne(`<Dialogue lines={[{speaker: "Anna", text: "Hallo!", side: "left"}, {speaker: "Markus", text: "Hi!", side: "right", voice: "de-DE"}]}></Dialogue>`)
	require.True(t, ok)

	e, err := Decode(rec)
	require.NoError(t, err)
	d := e.(Dialogue)
	require.Len(t, d.Lines, 2)
	assert.Equal(t, Line{Speaker: "Markus", Text: "Hi!", Side: "right", Voice: "de-DE"}, d.Lines[1])

	out, err := GenerateExercise(d)
	require.NoError(t, err)
	assert.Equal(t, "<Dialogue>\n"+
		"  <Message speaker=\"Anna\" side=\"left\">Hallo!</Message>\n"+
		"  <Message speaker=\"Markus\" side=\"right\" voice=\"de-DE\">Hi!</Message>\n"+
		"</Dialogue>", out)
}

func TestDecode_GroupingKeepsOrder(t *testing.T) {
	rec, ok := ExtractOne(`<Grouping groups={{Tiere: ["Hund", "Katze"], "Farben": ["rot"]}} />`)
	require.True(t, ok)

	e, err := Decode(rec)
	require.NoError(t, err)
	assert.Equal(t, []Group{
		{Name: "Tiere", Items: []string{"Hund", "Katze"}},
		{Name: "Farben", Items: []string{"rot"}},
	}, e.(Grouping).Groups)
}

func TestDecode_CheckpointsSortedByTime(t *testing.T) {
	rec, ok := ExtractOne(`<InteractiveMedia src="v.mp4" type="audio">
  <Checkpoint time="01:10,000">late</Checkpoint>
  <Checkpoint time="00:05,500">early</Checkpoint>
</InteractiveMedia>`)
	require.True(t, ok)

	e, err := Decode(rec)
	require.NoError(t, err)
	im := e.(InteractiveMedia)
	assert.Equal(t, "audio", im.Type)
	require.Len(t, im.Checkpoints, 2)
	assert.Equal(t, "early", im.Checkpoints[0].Content)
	assert.Equal(t, "late", im.Checkpoints[1].Content)
}

func TestDecode_KeepsExtraProps(t *testing.T) {
	rec, ok := ExtractOne(`<Media uid="id-1" src="a.mp4" type="video" loop />`)
	require.True(t, ok)

	e, err := Decode(rec)
	require.NoError(t, err)
	assert.Equal(t, markup.Props{IDAttr: "id-1", "loop": true}, e.(Media).Extra)

	out, err := GenerateExercise(e)
	require.NoError(t, err)
	assert.Equal(t, `<Media uid="id-1" src="a.mp4" type="video" loop={true} />`, out)
}

func TestDecode_UnknownKind(t *testing.T) {
	_, err := Decode(Component{Type: "Callout"})
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Encode(nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
}
