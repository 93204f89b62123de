package exercise

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mogikan/Interactivebook/internal/markup"
)

func TestForm_RoundTrip(t *testing.T) {
	q := Quiz{
		Question: "Which are colors?",
		Options:  []Option{{Text: "Red", Color: "#f00"}, {Text: "Dog"}, {Text: "Blue"}},
		Answer:   "1,3",
		Multiple: true,
		Extra:    markup.Props{"data-level": "a1"},
	}

	form, err := MarshalForm(q)
	require.NoError(t, err)
	assert.Contains(t, form, "question: Which are colors?")
	assert.Contains(t, form, "multiple: true")
	assert.NotContains(t, form, "data-level")

	got, err := UnmarshalForm(q, form)
	require.NoError(t, err)
	assert.Equal(t, q, got)
}

func TestForm_Edit(t *testing.T) {
	prev := InteractiveMedia{
		Src:  "v.mp4",
		Type: "video",
		Checkpoints: []Checkpoint{
			{Time: "00:05,000", Content: "<Quiz answer=\"1\">\n  Q\n  <Option>A</Option>\n</Quiz>", Extra: markup.Props{"note": "x"}},
		},
	}
	form, err := MarshalForm(prev)
	require.NoError(t, err)
	assert.Contains(t, form, "content: |")

	edited := strings.Replace(form, "00:05,000", "00:07,500", 1)
	got, err := UnmarshalForm(prev, edited)
	require.NoError(t, err)
	im := got.(InteractiveMedia)
	assert.Equal(t, "00:07,500", im.Checkpoints[0].Time)
	assert.Equal(t, prev.Checkpoints[0].Content, im.Checkpoints[0].Content)
	assert.Equal(t, markup.Props{"note": "x"}, im.Checkpoints[0].Extra)

	c, err := Encode(got)
	require.NoError(t, err)
	assert.Contains(t, Generate(c), `<Checkpoint time="00:07,500" note="x">`)
}

func TestForm_Errors(t *testing.T) {
	_, err := UnmarshalForm(Media{}, "src: a.mp3\nbogus: 1\n")
	assert.ErrorIs(t, err, ErrForm)

	_, err = UnmarshalForm(Checkpoint{}, "time: soon\ncontent: x\n")
	assert.ErrorIs(t, err, ErrForm)

	_, err = UnmarshalForm(Media{}, "src: [unclosed\n")
	assert.ErrorIs(t, err, ErrForm)

	got, err := UnmarshalForm(Media{Src: "old"}, "")
	require.NoError(t, err)
	assert.Equal(t, Media{}, got)
}
