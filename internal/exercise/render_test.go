package exercise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_QuizHints(t *testing.T) {
	q := Quiz{Question: "Welche?", Answer: "2", Options: []Option{{Text: "a"}, {Text: "b"}}}

	assert.Equal(t, "**Quiz**\n\nWelche?\n\n- [ ] a\n- [ ] b", Summarize(q, false))
	assert.Equal(t, "**Quiz**\n\nWelche?\n\n- [ ] a\n- [x] b", Summarize(q, true))
}

func TestSummarize_Blanks(t *testing.T) {
	f := FillBlanks{Text: "Ich [bin|ist] müde.", Options: []string{"z", "a"}}

	assert.Contains(t, Summarize(f, false), "Ich `bin / ist` müde.")
	assert.Contains(t, Summarize(f, false), "Word bank: a, z")
	assert.Contains(t, Summarize(f, true), "Ich `bin` müde.")
}

func TestRender_ReplacesExercisesOnly(t *testing.T) {
	text := "# Title\n\n<Dialogue>\n  <Message speaker=\"Anna\">Hallo!</Message>\n</Dialogue>\n\nEnd."
	out := Render(text, false)

	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "> **Anna:** Hallo!")
	assert.Contains(t, out, "End.")
	assert.NotContains(t, out, "<Dialogue")
}

func TestRender_CheckpointContent(t *testing.T) {
	e, _ := Template(KindInteractiveMedia)
	text, err := GenerateExercise(e)
	assert.NoError(t, err)

	out := Render(text, true)
	assert.Contains(t, out, "#### At 00:00,000")
	assert.Contains(t, out, "- [x] Answer")
}
