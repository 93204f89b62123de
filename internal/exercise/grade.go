package exercise

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Blank is one gap of a FillBlanks or InlineBlanks text.
type Blank struct {
	Answer  string
	Options []string
	// Start and End locate the bracketed gap in the text.
	Start int
	End   int
}

var blankPattern = regexp.MustCompile(`\[[^\[\]]*\]`)

// ParseBlanks finds the [answer] and [answer|opt1|opt2] gaps in text.
func ParseBlanks(text string) []Blank {
	var out []Blank
	for _, loc := range blankPattern.FindAllStringIndex(text, -1) {
		parts := strings.Split(text[loc[0]+1:loc[1]-1], "|")
		b := Blank{Answer: parts[0], Start: loc[0], End: loc[1]}
		if len(parts) > 1 {
			b.Options = parts[1:]
		}
		out = append(out, b)
	}
	return out
}

// Result is the outcome of checking a learner's response.
type Result struct {
	Correct bool
	// Marks holds per-item correctness where the exercise has items.
	Marks []bool
}

// Score returns the number of correct items.
func (r Result) Score() int {
	n := 0
	for _, m := range r.Marks {
		if m {
			n++
		}
	}
	return n
}

// CheckBlanks compares inputs to the blank answers. Typed answers are
// trimmed and compared case-insensitively; dragged answers must match
// exactly.
func CheckBlanks(text, mode string, inputs []string) Result {
	blanks := ParseBlanks(text)
	res := Result{Correct: len(inputs) == len(blanks), Marks: make([]bool, len(blanks))}
	for i, b := range blanks {
		if i >= len(inputs) {
			res.Correct = false
			continue
		}
		var ok bool
		if mode == "drag" {
			ok = inputs[i] == b.Answer
		} else {
			ok = strings.EqualFold(strings.TrimSpace(inputs[i]), b.Answer)
		}
		res.Marks[i] = ok
		if !ok {
			res.Correct = false
		}
	}
	return res
}

// ParseAnswer splits a quiz answer such as "1,3" into sorted 1-based option
// numbers.
func ParseAnswer(answer string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(answer, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("quiz answer %q: bad option number %q", answer, part)
		}
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

// FormatAnswer is the inverse of ParseAnswer.
func FormatAnswer(options []int) string {
	sorted := append([]int(nil), options...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// CheckQuiz reports whether the selected 1-based options are exactly the
// correct ones.
func CheckQuiz(q Quiz, selected []int) (Result, error) {
	want, err := ParseAnswer(q.Answer)
	if err != nil {
		return Result{}, err
	}
	correct := make(map[int]bool, len(want))
	for _, n := range want {
		correct[n] = true
	}

	res := Result{Correct: true, Marks: make([]bool, len(q.Options))}
	picked := make(map[int]bool, len(selected))
	for _, n := range selected {
		picked[n] = true
	}
	for i := range q.Options {
		res.Marks[i] = correct[i+1] == picked[i+1]
		if !res.Marks[i] {
			res.Correct = false
		}
	}
	if len(picked) != len(correct) {
		res.Correct = false
	}
	return res, nil
}

// CheckOrdering compares an arrangement with the authored item order.
func CheckOrdering(o Ordering, arranged []string) Result {
	res := Result{Correct: len(arranged) == len(o.Items), Marks: make([]bool, len(o.Items))}
	for i, item := range o.Items {
		res.Marks[i] = i < len(arranged) && arranged[i] == item
		if !res.Marks[i] {
			res.Correct = false
		}
	}
	return res
}

// CheckMatching checks a left to right assignment.
func CheckMatching(m Matching, assigned map[string]string) Result {
	res := Result{Correct: true, Marks: make([]bool, len(m.Pairs))}
	for i, p := range m.Pairs {
		res.Marks[i] = assigned[p.Left] == p.Right
		if !res.Marks[i] {
			res.Correct = false
		}
	}
	return res
}

// CheckGrouping checks an item to group-name assignment. Marks follow the
// groups' items in order.
func CheckGrouping(g Grouping, placed map[string]string) Result {
	res := Result{Correct: true}
	for _, grp := range g.Groups {
		for _, item := range grp.Items {
			ok := placed[item] == grp.Name
			res.Marks = append(res.Marks, ok)
			if !ok {
				res.Correct = false
			}
		}
	}
	return res
}
