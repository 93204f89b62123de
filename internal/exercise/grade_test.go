package exercise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlanks(t *testing.T) {
	text := "Ich [bin|ist|sind] müde und [habe] Hunger."
	blanks := ParseBlanks(text)
	require.Len(t, blanks, 2)

	assert.Equal(t, "bin", blanks[0].Answer)
	assert.Equal(t, []string{"ist", "sind"}, blanks[0].Options)
	assert.Equal(t, "[bin|ist|sind]", text[blanks[0].Start:blanks[0].End])
	assert.Equal(t, "habe", blanks[1].Answer)
	assert.Nil(t, blanks[1].Options)
}

func TestCheckBlanks(t *testing.T) {
	text := "Ich [bin] müde und [habe] Hunger."

	res := CheckBlanks(text, "input", []string{"  BIN ", "habe"})
	assert.True(t, res.Correct)
	assert.Equal(t, 2, res.Score())

	res = CheckBlanks(text, "drag", []string{"Bin", "habe"})
	assert.False(t, res.Correct)
	assert.Equal(t, []bool{false, true}, res.Marks)

	res = CheckBlanks(text, "input", []string{"bin"})
	assert.False(t, res.Correct)
	assert.Equal(t, []bool{true, false}, res.Marks)
}

func TestParseAnswer(t *testing.T) {
	got, err := ParseAnswer("3, 1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, got)
	assert.Equal(t, "1,3", FormatAnswer(got))

	_, err = ParseAnswer("a")
	assert.Error(t, err)
	_, err = ParseAnswer("0")
	assert.Error(t, err)
}

func TestCheckQuiz(t *testing.T) {
	q := Quiz{Answer: "1,3", Options: []Option{{Text: "Haus"}, {Text: "laufen"}, {Text: "Baum"}}}

	res, err := CheckQuiz(q, []int{3, 1})
	require.NoError(t, err)
	assert.True(t, res.Correct)

	res, err = CheckQuiz(q, []int{1})
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, []bool{true, true, false}, res.Marks)

	_, err = CheckQuiz(Quiz{Answer: "x"}, nil)
	assert.Error(t, err)
}

func TestCheckOrdering(t *testing.T) {
	o := Ordering{Items: []string{"a", "b", "c"}}
	assert.True(t, CheckOrdering(o, []string{"a", "b", "c"}).Correct)

	res := CheckOrdering(o, []string{"b", "a", "c"})
	assert.False(t, res.Correct)
	assert.Equal(t, []bool{false, false, true}, res.Marks)
}

func TestCheckMatching(t *testing.T) {
	m := Matching{Pairs: []Pair{{"Hund", "dog"}, {"Katze", "cat"}}}
	assert.True(t, CheckMatching(m, map[string]string{"Hund": "dog", "Katze": "cat"}).Correct)
	assert.Equal(t, 1, CheckMatching(m, map[string]string{"Hund": "dog", "Katze": "dog"}).Score())
}

func TestCheckGrouping(t *testing.T) {
	g := Grouping{Groups: []Group{{Name: "Tiere", Items: []string{"Hund"}}, {Name: "Farben", Items: []string{"rot", "blau"}}}}
	res := CheckGrouping(g, map[string]string{"Hund": "Tiere", "rot": "Farben", "blau": "Tiere"})
	assert.False(t, res.Correct)
	assert.Equal(t, []bool{true, true, false}, res.Marks)
}

func TestTimecode(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"00:14,480", 14.48},
		{"00:14.480", 14.48},
		{"01:00:00", 3600},
		{"1:05", 65},
		{"90", 90},
		{"00:00:14,480", 14.48},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimecode(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	for _, bad := range []string{"", "a:b", "1:2:3:4", "-5"} {
		_, err := ParseTimecode(bad)
		assert.ErrorIs(t, err, ErrTimecode, bad)
	}

	assert.Equal(t, "00:14,480", FormatTimecode(14.48))
	assert.Equal(t, "01:15,500", FormatTimecode(75.5))
	assert.Equal(t, "00:00,000", FormatTimecode(-1))
}
