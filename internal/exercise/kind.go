// Package exercise extracts exercise components from lesson markup,
// regenerates their canonical markup and models each kind as a typed
// variant.
package exercise

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the tag name of an exercise component.
type Kind string

const (
	KindQuiz             Kind = "Quiz"
	KindOrdering         Kind = "Ordering"
	KindMatching         Kind = "Matching"
	KindFillBlanks       Kind = "FillBlanks"
	KindInlineBlanks     Kind = "InlineBlanks"
	KindGrouping         Kind = "Grouping"
	KindMedia            Kind = "Media"
	KindDialogue         Kind = "Dialogue"
	KindInteractiveMedia Kind = "InteractiveMedia"
	KindCheckpoint       Kind = "Checkpoint"
)

// Child tag names that only appear inside a container kind.
const (
	tagOption  = "Option"
	tagMessage = "Message"
)

// ErrUnknownKind is returned for a tag name outside the closed set.
var ErrUnknownKind = errors.New("unknown exercise kind")

// Kinds lists every recognized kind.
var Kinds = []Kind{
	KindQuiz,
	KindOrdering,
	KindMatching,
	KindFillBlanks,
	KindInlineBlanks,
	KindGrouping,
	KindMedia,
	KindDialogue,
	KindInteractiveMedia,
	KindCheckpoint,
}

// Valid reports whether k is in the closed set.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k Kind) String() string { return string(k) }

// ParseKind resolves a kind name case-insensitively, so the CLI can accept
// "quiz" or "fillblanks".
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
