package exercise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeForCompile_JoinsLines(t *testing.T) {
	in := "Intro\n\n<Quiz answer=\"1\">\n  Question?\n\n  <Option>A</Option>\n  <Option>B</Option>\n</Quiz>\n\nOutro\n"
	want := "Intro\n\n<Quiz answer=\"1\">Question? <Option>A</Option> <Option>B</Option></Quiz>\n\nOutro\n"
	assert.Equal(t, want, NormalizeForCompile(in))
}

func TestNormalizeForCompile_KeepsTableLines(t *testing.T) {
	in := "<InlineBlanks>\n    | Person | Verb |\n    | --- | :-: |\n\n    | ich | [bin] |\n</InlineBlanks>"
	want := "<InlineBlanks>\n| Person | Verb |\n| --- | :-: |\n| ich | [bin] |\n</InlineBlanks>"
	assert.Equal(t, want, NormalizeForCompile(in))
}

func TestNormalizeForCompile_NestedBlocks(t *testing.T) {
	in := "<InteractiveMedia src=\"v.mp4\">\n  <Checkpoint time=\"00:01,000\">\n    <Quiz answer=\"1\">\n      Q\n      <Option>A</Option>\n    </Quiz>\n  </Checkpoint>\n</InteractiveMedia>"
	want := "<InteractiveMedia src=\"v.mp4\"><Checkpoint time=\"00:01,000\"><Quiz answer=\"1\">Q <Option>A</Option></Quiz></Checkpoint></InteractiveMedia>"
	got := NormalizeForCompile(in)
	assert.Equal(t, want, got)

	// Flattening never changes which exercises are found.
	recs := Extract(got)
	require.Len(t, recs, 1)
	assert.Equal(t, KindInteractiveMedia, recs[0].Type)
}

func TestNormalizeForCompile_LeavesSelfClosingAndProse(t *testing.T) {
	in := "a\n\n<Media src=\"x\" />\n\nb\n"
	assert.Equal(t, in, NormalizeForCompile(in))
}

func TestInjectIndexes(t *testing.T) {
	in := `A <Media src="x" /> B <Quiz answer="1">Q<Option>o</Option></Quiz> C <Media src="y"/>`
	want := `A <Media src="x" data-index="0" /> B <Quiz answer="1" data-index="1">Q<Option>o</Option></Quiz> C <Media src="y" data-index="2" />`

	got := InjectIndexes(in)
	assert.Equal(t, want, got)

	recs := Extract(got)
	require.Len(t, recs, 3)
	for i, r := range recs {
		assert.Equal(t, i, IndexOf(r))
	}
}

func TestIndexOf_Missing(t *testing.T) {
	assert.Equal(t, -1, IndexOf(Component{Type: KindMedia}))
}
