package editor

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Mogikan/Interactivebook/internal/exercise"
	"github.com/Mogikan/Interactivebook/internal/markup"
)

// IDOf returns the stable id of a record, if it has one.
func IDOf(c exercise.Component) (string, bool) {
	id, ok := c.Props[exercise.IDAttr].(string)
	return id, ok && id != ""
}

// AssignIDs gives every top-level record without an id a fresh uuid, so
// later edits can correlate by id instead of position. It returns the ids
// in document order, existing ones included.
func (s *Session) AssignIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := exercise.Extract(s.text)
	ids := make([]string, len(recs))
	text := s.text
	added := 0
	for i := len(recs) - 1; i >= 0; i-- {
		r := recs[i]
		if id, ok := IDOf(r); ok {
			ids[i] = id
			continue
		}
		id := uuid.NewString()
		ids[i] = id
		at := r.Start + 1 + len(r.Type)
		text = text[:at] + " " + markup.FormatAttribute(exercise.IDAttr, id) + text[at:]
		added++
	}
	if added > 0 {
		s.text = text
		s.version++
		log.Debug().Int("added", added).Msg("exercise ids assigned")
	}
	return ids
}

// FindByID returns the record carrying id and its ordinal.
func (s *Session) FindByID(id string) (exercise.Component, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range exercise.Extract(s.text) {
		if rid, ok := IDOf(r); ok && rid == id {
			return r, i, true
		}
	}
	return exercise.Component{}, -1, false
}

// ReplaceByID regenerates c over the record carrying id. The id is kept on
// the new markup.
func (s *Session) ReplaceByID(c exercise.Component, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := exercise.Extract(s.text)
	for _, r := range recs {
		if rid, ok := IDOf(r); !ok || rid != id {
			continue
		}
		props := c.Props.Clone()
		props[exercise.IDAttr] = id
		c.Props = props
		s.splice(r.Start, r.End, exercise.Generate(c))
		log.Debug().Str("id", id).Str("kind", c.Type.String()).Uint64("version", s.version).Msg("exercise replaced")
		return nil
	}

	err := &CorrelationError{Ordinal: -1, ID: id, Count: len(recs)}
	log.Warn().Err(err).Str("id", id).Str("kind", c.Type.String()).Msg("edit dropped")
	return err
}

// StripIDs removes the id attributes of top-level records, with the
// whitespace before them, for display and export.
func StripIDs(text string) string {
	recs := exercise.Extract(text)
	for i := len(recs) - 1; i >= 0; i-- {
		r := recs[i]
		attrs := markup.ScanAttributes(r.Attrs)
		for j := len(attrs) - 1; j >= 0; j-- {
			a := attrs[j]
			if a.Name != exercise.IDAttr {
				continue
			}
			start := r.AttrsStart + a.Start
			for start > r.AttrsStart && isBlank(text[start-1]) {
				start--
			}
			text = text[:start] + text[r.AttrsStart+a.End:]
		}
	}
	return text
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
