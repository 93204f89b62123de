package exercise

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lesson = `# Lektion 1

Hör zu:

<Media src="intro.mp3" type="audio" />

<Quiz answer="1,3" multiple={true}>
  Welche Wörter sind Nomen?
  <Option>Haus</Option>
  <Option>laufen</Option>
  <Option>Baum</Option>
</Quiz>

Text between.

<Dialogue>
  <Message speaker="Anna" side="left">Hallo!</Message>
  <Message speaker="Markus" side="right">Hi!</Message>
</Dialogue>

<Ordering items={["eins", "zwei", "drei"]} />
`

func TestExtract_RawMatchesSource(t *testing.T) {
	recs := Extract(lesson)
	require.Len(t, recs, 4)

	for _, r := range recs {
		assert.Less(t, r.Start, r.End)
		assert.Equal(t, lesson[r.Start:r.End], r.Raw)
	}
	assert.Equal(t, []Kind{KindMedia, KindQuiz, KindDialogue, KindOrdering},
		[]Kind{recs[0].Type, recs[1].Type, recs[2].Type, recs[3].Type})
}

func TestExtract_Reconstruction(t *testing.T) {
	recs := Extract(lesson)

	var b strings.Builder
	pos := 0
	for _, r := range recs {
		b.WriteString(lesson[pos:r.Start])
		b.WriteString(r.Raw)
		pos = r.End
	}
	b.WriteString(lesson[pos:])
	assert.Equal(t, lesson, b.String())
	assert.Equal(t, lesson, Join(Split(lesson)))
}

func TestExtract_SortedByPosition(t *testing.T) {
	text := strings.Repeat(" ", 10) + `<Quiz answer="1">Q<Option>A</Option></Quiz>`
	text += strings.Repeat(" ", 60-len(text)) + `<Matching pairs={[{left: "a", right: "b"}]} />`

	recs := Extract(text)
	require.Len(t, recs, 2)
	assert.Equal(t, KindQuiz, recs[0].Type)
	assert.Equal(t, 10, recs[0].Start)
	assert.Equal(t, KindMatching, recs[1].Type)
	assert.Equal(t, 60, recs[1].Start)
}

func TestExtract_SelfClosingAndPaired(t *testing.T) {
	media, ok := ExtractOne(`<Media src="a.mp4" type="video" />`)
	require.True(t, ok)
	assert.True(t, media.SelfClosing)
	assert.Equal(t, "", media.Children)
	assert.Equal(t, "a.mp4", media.Props["src"])

	quiz, ok := ExtractOne(`<Quiz answer="1">Q<Option>A</Option></Quiz>`)
	require.True(t, ok)
	assert.False(t, quiz.SelfClosing)
	assert.Contains(t, quiz.Children, "<Option>A</Option>")
}

func TestExtract_DecodesTypedProps(t *testing.T) {
	recs := Extract(`<Quiz answer="1" multiple={true}>Q</Quiz><Ordering items={["a","b"]} />`)
	require.Len(t, recs, 2)

	assert.Equal(t, true, recs[0].Props["multiple"])
	assert.Equal(t, []any{"a", "b"}, recs[1].Props["items"])
}

func TestExtract_MalformedIsSkipped(t *testing.T) {
	text := `<Quiz answer="1">never closed

<Media src="ok.mp4" type="video" />

<Matching pairs={[]}>
  body
</Matching>`

	var recs []Component
	require.NotPanics(t, func() { recs = Extract(text) })
	require.Len(t, recs, 2)
	assert.Equal(t, KindMedia, recs[0].Type)
	assert.Equal(t, KindMatching, recs[1].Type)
}

func TestExtract_StrayOption(t *testing.T) {
	assert.Empty(t, Extract("A <Option>X</Option> B"))
}

func TestExtract_OutermostOnly(t *testing.T) {
	text := `<InteractiveMedia src="v.mp4">
  <Checkpoint time="00:05,000">
    <Quiz answer="1">
      Q
      <Option>A</Option>
    </Quiz>
  </Checkpoint>
</InteractiveMedia>
<Quiz answer="2">after<Option>x</Option><Option>y</Option></Quiz>`

	recs := Extract(text)
	require.Len(t, recs, 2)
	assert.Equal(t, KindInteractiveMedia, recs[0].Type)
	assert.Equal(t, KindQuiz, recs[1].Type)
	assert.Equal(t, "2", recs[1].Props["answer"])
}

func TestExtract_UnknownTagsIgnored(t *testing.T) {
	assert.Empty(t, Extract(`<Callout type="info">x</Callout> <quiz answer="1">lower</quiz>`))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("fillblanks")
	require.NoError(t, err)
	assert.Equal(t, KindFillBlanks, k)

	_, err = ParseKind("Option")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
