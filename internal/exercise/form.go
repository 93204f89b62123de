package exercise

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrForm is returned when an edited form does not decode.
var ErrForm = errors.New("invalid exercise form")

// MarshalForm renders an exercise as an editable YAML form. Props without
// a field are not part of the form; UnmarshalForm carries them over.
func MarshalForm(e Exercise) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(e); err != nil {
		return "", fmt.Errorf("encode %s form: %w", e.Kind(), err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// UnmarshalForm decodes an edited form back into an exercise of the same
// kind as prev, keeping prev's extra props. Unknown form fields are
// rejected.
func UnmarshalForm(prev Exercise, form string) (Exercise, error) {
	dec := yaml.NewDecoder(bytes.NewBufferString(form))
	dec.KnownFields(true)

	decode := func(v any) error {
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %v", ErrForm, err)
		}
		return nil
	}

	switch p := prev.(type) {
	case Quiz:
		var x Quiz
		if err := decode(&x); err != nil {
			return nil, err
		}
		x.Extra = p.Extra
		return x, nil
	case Ordering:
		var x Ordering
		if err := decode(&x); err != nil {
			return nil, err
		}
		x.Extra = p.Extra
		return x, nil
	case Matching:
		var x Matching
		if err := decode(&x); err != nil {
			return nil, err
		}
		x.Extra = p.Extra
		return x, nil
	case Grouping:
		var x Grouping
		if err := decode(&x); err != nil {
			return nil, err
		}
		x.Extra = p.Extra
		return x, nil
	case Media:
		var x Media
		if err := decode(&x); err != nil {
			return nil, err
		}
		x.Extra = p.Extra
		return x, nil
	case FillBlanks:
		var x FillBlanks
		if err := decode(&x); err != nil {
			return nil, err
		}
		x.Extra = p.Extra
		return x, nil
	case InlineBlanks:
		var x InlineBlanks
		if err := decode(&x); err != nil {
			return nil, err
		}
		x.Extra = p.Extra
		return x, nil
	case Dialogue:
		var x Dialogue
		if err := decode(&x); err != nil {
			return nil, err
		}
		x.Extra = p.Extra
		return x, nil
	case InteractiveMedia:
		var x InteractiveMedia
		if err := decode(&x); err != nil {
			return nil, err
		}
		x.Extra = p.Extra
		for i := range x.Checkpoints {
			if i < len(p.Checkpoints) {
				x.Checkpoints[i].Extra = p.Checkpoints[i].Extra
			}
			if _, err := x.Checkpoints[i].Seconds(); err != nil {
				return nil, fmt.Errorf("%w: checkpoint %d: %v", ErrForm, i+1, err)
			}
		}
		return x, nil
	case Checkpoint:
		var x Checkpoint
		if err := decode(&x); err != nil {
			return nil, err
		}
		if _, err := x.Seconds(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrForm, err)
		}
		x.Extra = p.Extra
		return x, nil
	}
	return nil, ErrUnknownKind
}
