package exercise

// Template returns the starting payload for a new exercise of kind k.
func Template(k Kind) (Exercise, error) {
	switch k {
	case KindQuiz:
		return Quiz{
			Question:  "Question?",
			Options:   []Option{{Text: "Answer"}},
			Answer:    "1",
			Direction: "vertical",
			Mode:      "normal",
		}, nil
	case KindOrdering:
		return Ordering{Items: []string{"First", "Second", "Third"}, Direction: "vertical", Mode: "list"}, nil
	case KindMatching:
		return Matching{
			Pairs:     []Pair{{Left: "Hund", Right: "dog"}, {Left: "Katze", Right: "cat"}},
			Direction: "right",
		}, nil
	case KindGrouping:
		return Grouping{Groups: []Group{{Name: "Group 1", Items: []string{}}, {Name: "Group 2", Items: []string{}}}}, nil
	case KindMedia:
		return Media{Src: "", Type: "youtube"}, nil
	case KindFillBlanks:
		return FillBlanks{Text: "Ich [bin] müde.", Mode: "input"}, nil
	case KindInlineBlanks:
		return InlineBlanks{Text: "Das ist [mein|dein|sein] Buch.", Mode: "type"}, nil
	case KindDialogue:
		return Dialogue{Lines: []Line{
			{Speaker: "Anna", Text: "Hallo!", Side: "left"},
			{Speaker: "Markus", Text: "Hi! Wie geht es dir?", Side: "right"},
		}}, nil
	case KindInteractiveMedia:
		return InteractiveMedia{Type: "video", Checkpoints: []Checkpoint{checkpointTemplate(0)}}, nil
	case KindCheckpoint:
		return checkpointTemplate(0), nil
	}
	return nil, ErrUnknownKind
}

// TemplateMarkup returns the canonical markup of Template(k).
func TemplateMarkup(k Kind) (string, error) {
	e, err := Template(k)
	if err != nil {
		return "", err
	}
	return GenerateExercise(e)
}

func checkpointTemplate(seconds float64) Checkpoint {
	return Checkpoint{
		Time:    FormatTimecode(seconds),
		Content: "<Quiz answer=\"1\">\n  Question?\n  <Option>Answer</Option>\n</Quiz>",
	}
}
