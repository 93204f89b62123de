package course

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const courseYAML = `title: Spanish A1
structure:
  - title: Introduction
    items:
      - title: Greetings
        path: /intro/greetings
      - title: Numbers
        path: /intro/numbers
  - title: Verbs
    items:
      - title: Present tense
        path: /verbs/present
      - title: Irregular
        items:
          - title: Ser and estar
            path: /verbs/irregular/ser-estar
  - title: Final test
    path: /final
`

func TestParseAndLessons(t *testing.T) {
	c, err := Parse([]byte(courseYAML))
	require.NoError(t, err)
	assert.Equal(t, "Spanish A1", c.Title)

	lessons := c.Lessons()
	require.Len(t, lessons, 5)
	assert.Equal(t, Lesson{Title: "Greetings", Route: "/intro/greetings", Section: "Introduction", Depth: 1}, lessons[0])
	assert.Equal(t, "Ser and estar", lessons[3].Title)
	assert.Equal(t, "Irregular", lessons[3].Section)
	assert.Equal(t, 2, lessons[3].Depth)
	assert.Equal(t, Lesson{Title: "Final test", Route: "/final"}, lessons[4])
}

func TestParseRequiresTitle(t *testing.T) {
	_, err := Parse([]byte("structure: []\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("title: [unclosed\n"))
	assert.Error(t, err)
}

func TestLookupNextPrev(t *testing.T) {
	c, err := Parse([]byte(courseYAML))
	require.NoError(t, err)

	i, l, err := c.Lookup("verbs/present/")
	require.NoError(t, err)
	assert.Equal(t, 2, i)
	assert.Equal(t, "Present tense", l.Title)

	next, ok := c.Next(i)
	require.True(t, ok)
	assert.Equal(t, "/verbs/irregular/ser-estar", next.Route)

	prev, ok := c.Prev(i)
	require.True(t, ok)
	assert.Equal(t, "/intro/numbers", prev.Route)

	_, ok = c.Prev(0)
	assert.False(t, ok)
	_, ok = c.Next(4)
	assert.False(t, ok)

	_, _, err = c.Lookup("/missing")
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestLoadAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "course.yaml")
	require.NoError(t, os.WriteFile(path, []byte(courseYAML), 0644))

	c, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, dir, c.Root)
	assert.Equal(t, filepath.Join(dir, "intro", "greetings.mdx"), c.File("/intro/greetings"))
	assert.Equal(t, filepath.Join(dir, "notes.md"), c.File("notes.md"))

	c, err = Load(path, "/content")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/content", "final.mdx"), c.File("/final"))

	_, err = Load(filepath.Join(dir, "missing.yaml"), "")
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	c, err := Parse([]byte(courseYAML))
	require.NoError(t, err)

	matches := c.Find("ser est")
	require.NotEmpty(t, matches)
	assert.Equal(t, "Ser and estar", matches[0].Lesson.Title)
	assert.Equal(t, 3, matches[0].Index)

	assert.Empty(t, c.Find("   "))
	assert.Empty(t, c.Find("zzzzzz"))
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantTitle string
		wantBody  string
	}{
		{
			name:      "header and body",
			in:        "---\ntitle: Greetings\ndescription: Say hi\n---\n# Hola\n",
			wantTitle: "Greetings",
			wantBody:  "# Hola\n",
		},
		{
			name:     "no header",
			in:       "# Hola\n---\n",
			wantBody: "# Hola\n---\n",
		},
		{
			name:     "empty header",
			in:       "---\n---\nbody",
			wantBody: "body",
		},
		{
			name:      "header only",
			in:        "---\ntitle: T\n---",
			wantTitle: "T",
			wantBody:  "",
		},
		{
			name:     "unterminated header",
			in:       "---\ntitle: T\nbody",
			wantBody: "---\ntitle: T\nbody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := SplitFrontMatter(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, fm.Title)
			assert.Equal(t, tt.wantBody, body)
		})
	}

	fm, _, err := SplitFrontMatter("---\ntitle: T\nlevel: 2\n---\n")
	require.NoError(t, err)
	assert.Equal(t, 2, fm.Extra["level"])

	_, _, err = SplitFrontMatter("---\ntitle: [x\n---\n")
	assert.Error(t, err)
}
