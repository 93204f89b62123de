package course

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Match is a fuzzy search hit.
type Match struct {
	Lesson       Lesson
	Index        int
	Score        int
	MatchedChars []int
}

// lessonSource matches against "section title route".
type lessonSource []Lesson

func (s lessonSource) String(i int) string {
	l := s[i]
	return strings.ToLower(strings.TrimSpace(l.Section + " " + l.Title + " " + l.Route))
}

func (s lessonSource) Len() int {
	return len(s)
}

// Find fuzzy-matches query against lesson titles, sections and routes, best
// match first. Index is the lesson's position in Lessons.
func (c *Course) Find(query string) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	lessons := c.Lessons()
	matches := fuzzy.FindFrom(strings.ToLower(query), lessonSource(lessons))

	results := make([]Match, len(matches))
	for i, m := range matches {
		results[i] = Match{
			Lesson:       lessons[m.Index],
			Index:        m.Index,
			Score:        m.Score,
			MatchedChars: m.MatchedIndexes,
		}
	}
	return results
}
