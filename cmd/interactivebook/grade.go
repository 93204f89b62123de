package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mogikan/Interactivebook/internal/exercise"
)

// grade checks command line answers against an exercise.
func grade(e exercise.Exercise, answers []string) (exercise.Result, error) {
	switch x := e.(type) {
	case exercise.Quiz:
		selected, err := optionNumbers(answers)
		if err != nil {
			return exercise.Result{}, err
		}
		return exercise.CheckQuiz(x, selected)
	case exercise.FillBlanks:
		return exercise.CheckBlanks(x.Text, x.Mode, answers), nil
	case exercise.InlineBlanks:
		return exercise.CheckBlanks(x.Text, x.Mode, answers), nil
	case exercise.Ordering:
		return exercise.CheckOrdering(x, answers), nil
	case exercise.Matching:
		pairs, err := assignments(answers)
		if err != nil {
			return exercise.Result{}, err
		}
		return exercise.CheckMatching(x, pairs), nil
	case exercise.Grouping:
		placed, err := assignments(answers)
		if err != nil {
			return exercise.Result{}, err
		}
		return exercise.CheckGrouping(x, placed), nil
	}
	return exercise.Result{}, fmt.Errorf("%s exercises have no answer to check", e.Kind())
}

// optionNumbers accepts "1 3" as well as "1,3".
func optionNumbers(answers []string) ([]int, error) {
	var out []int
	for _, a := range answers {
		for _, part := range strings.Split(a, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("bad option number %q", part)
			}
			out = append(out, n)
		}
	}
	return out, nil
}

// assignments parses key=value answers.
func assignments(answers []string) (map[string]string, error) {
	out := make(map[string]string, len(answers))
	for _, a := range answers {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("answer %q is not key=value", a)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}
