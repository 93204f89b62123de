// Package editor owns the document being edited and splices regenerated
// exercise markup back into it.
package editor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Mogikan/Interactivebook/internal/exercise"
)

var (
	// ErrCorrelation is returned when an edit cannot be matched to a record
	// in the current text.
	ErrCorrelation = errors.New("edit does not correlate with the current document")

	// ErrStale is returned when a snapshot was taken from an older version
	// of the text.
	ErrStale = errors.New("snapshot is stale")
)

// CorrelationError describes a failed ordinal or id lookup.
type CorrelationError struct {
	Ordinal int
	ID      string
	Count   int
}

func (e *CorrelationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("no exercise with id %q among %d records", e.ID, e.Count)
	}
	return fmt.Sprintf("no exercise at position %d, document has %d", e.Ordinal, e.Count)
}

func (e *CorrelationError) Unwrap() error { return ErrCorrelation }

// Snapshot is an extraction result tied to the version it was taken from.
type Snapshot struct {
	Version uint64
	Records []exercise.Component
}

// Session holds the authoritative document text. All mutations go through
// it and bump the version, which invalidates earlier snapshots.
type Session struct {
	mu      sync.Mutex
	text    string
	version uint64
}

// NewSession starts a session on text.
func NewSession(text string) *Session {
	return &Session{text: text}
}

// Text returns the current document.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Version returns the mutation counter.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// SetText replaces the whole document.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if text == s.text {
		return
	}
	s.text = text
	s.version++
}

// ExtractAll extracts the current records.
func (s *Session) ExtractAll() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Version: s.version, Records: exercise.Extract(s.text)}
}

// Validate reports ErrStale if the text changed since snap was taken.
func (s *Session) Validate(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Version != s.version {
		return fmt.Errorf("%w: taken at version %d, now %d", ErrStale, snap.Version, s.version)
	}
	return nil
}

// ReplaceAt regenerates c over the record at ordinal in a fresh extraction.
// An ordinal that no longer exists leaves the text untouched and returns a
// *CorrelationError.
func (s *Session) ReplaceAt(c exercise.Component, ordinal int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := exercise.Extract(s.text)
	if ordinal < 0 || ordinal >= len(recs) {
		err := &CorrelationError{Ordinal: ordinal, Count: len(recs)}
		log.Warn().Err(err).Int("ordinal", ordinal).Str("kind", c.Type.String()).Msg("edit dropped")
		return err
	}

	target := recs[ordinal]
	s.splice(target.Start, target.End, exercise.Generate(c))
	log.Debug().Int("ordinal", ordinal).Str("kind", c.Type.String()).Uint64("version", s.version).Msg("exercise replaced")
	return nil
}

// DeleteAt removes the record at ordinal.
func (s *Session) DeleteAt(ordinal int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := exercise.Extract(s.text)
	if ordinal < 0 || ordinal >= len(recs) {
		err := &CorrelationError{Ordinal: ordinal, Count: len(recs)}
		log.Warn().Err(err).Int("ordinal", ordinal).Msg("delete dropped")
		return err
	}
	s.splice(recs[ordinal].Start, recs[ordinal].End, "")
	return nil
}

// InsertAt inserts the markup for c at pos, clamped to the document, and
// returns the inserted range.
func (s *Session) InsertAt(pos int, c exercise.Component) (start, end int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos = clamp(pos, len(s.text))
	code := exercise.Generate(c)
	s.splice(pos, pos, code)
	log.Debug().Int("pos", pos).Str("kind", c.Type.String()).Msg("exercise inserted")
	return pos, pos + len(code)
}

// splice replaces text[start:end]. Callers hold mu.
func (s *Session) splice(start, end int, repl string) {
	s.text = s.text[:start] + repl + s.text[end:]
	s.version++
}

func clamp(pos, n int) int {
	if pos < 0 {
		return 0
	}
	if pos > n {
		return n
	}
	return pos
}
