package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Keys of the persisted editor state.
const (
	KeyEditorContent = "editor_content"
	KeyShowHints     = "settings_show_hints"
)

// MaxRevisions is the number of draft revisions kept per document.
const MaxRevisions = 50

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("not found")

// Revision is one saved state of a draft.
type Revision struct {
	ID        int64
	DocKey    string
	Content   string
	Bytes     int
	CreatedAt time.Time
}

// Progress is the graded state of one exercise in a lesson.
type Progress struct {
	LessonPath string
	Index      int
	Kind       string
	Correct    bool
	Score      int
	Attempts   int
	UpdatedAt  time.Time
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Put stores value under key.
func (s *Store) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, now())
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// SaveDraft persists the editor content. A revision is recorded when the
// content differs from the previous draft, and old revisions beyond
// MaxRevisions are pruned. It reports whether anything changed.
func (s *Store) SaveDraft(ctx context.Context, text string) (bool, error) {
	changed := false
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		var prev string
		err := tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, KeyEditorContent).Scan(&prev)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("read draft: %w", err)
		case prev == text:
			return nil
		}

		ts := now()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, KeyEditorContent, text, ts); err != nil {
			return fmt.Errorf("write draft: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO revisions (doc_key, content, bytes, created_at) VALUES (?, ?, ?, ?)
		`, KeyEditorContent, text, len(text), ts); err != nil {
			return fmt.Errorf("record revision: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM revisions WHERE doc_key = ? AND id NOT IN (
				SELECT id FROM revisions WHERE doc_key = ? ORDER BY id DESC LIMIT ?
			)
		`, KeyEditorContent, KeyEditorContent, MaxRevisions); err != nil {
			return fmt.Errorf("prune revisions: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if changed {
		log.Debug().Int("bytes", len(text)).Msg("draft saved")
	}
	return changed, nil
}

// LoadDraft returns the saved editor content, or ErrNotFound.
func (s *Store) LoadDraft(ctx context.Context) (string, error) {
	return s.Get(ctx, KeyEditorContent)
}

// ClearDraft removes the draft and its revision history.
func (s *Store) ClearDraft(ctx context.Context) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, KeyEditorContent); err != nil {
			return fmt.Errorf("clear draft: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM revisions WHERE doc_key = ?`, KeyEditorContent); err != nil {
			return fmt.Errorf("clear revisions: %w", err)
		}
		return nil
	})
}

// Revisions returns up to limit draft revisions, newest first.
func (s *Store) Revisions(ctx context.Context, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = MaxRevisions
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, doc_key, content, bytes, created_at FROM revisions
		WHERE doc_key = ? ORDER BY id DESC LIMIT ?
	`, KeyEditorContent, limit)
	if err != nil {
		return nil, fmt.Errorf("query revisions: %w", err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var r Revision
		var created string
		if err := rows.Scan(&r.ID, &r.DocKey, &r.Content, &r.Bytes, &created); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		r.CreatedAt = parseTime(created)
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

// ShowHints returns the persisted hints setting, or def when unset.
func (s *Store) ShowHints(ctx context.Context, def bool) (bool, error) {
	v, err := s.Get(ctx, KeyShowHints)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("value", v).Msg("ignoring malformed hints setting")
		return def, nil
	}
	return b, nil
}

// SetShowHints persists the hints setting.
func (s *Store) SetShowHints(ctx context.Context, show bool) error {
	return s.Put(ctx, KeyShowHints, strconv.FormatBool(show))
}

// RecordResult stores a graded attempt for an exercise and returns the
// updated progress. Attempts accumulate; correctness and score reflect the
// latest attempt.
func (s *Store) RecordResult(ctx context.Context, lesson string, index int, kind string, correct bool, score int) (Progress, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (lesson_path, exercise_index, kind, correct, score, attempts, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT(lesson_path, exercise_index) DO UPDATE SET
			kind = excluded.kind,
			correct = excluded.correct,
			score = excluded.score,
			attempts = progress.attempts + 1,
			updated_at = excluded.updated_at
	`, lesson, index, kind, correct, score, now())
	if err != nil {
		return Progress{}, fmt.Errorf("record result: %w", err)
	}

	log.Debug().Str("lesson", lesson).Int("index", index).Bool("correct", correct).Msg("result recorded")

	all, err := s.Progress(ctx, lesson)
	if err != nil {
		return Progress{}, err
	}
	for _, p := range all {
		if p.Index == index {
			return p, nil
		}
	}
	return Progress{}, ErrNotFound
}

// Progress returns the graded exercises of a lesson in index order.
func (s *Store) Progress(ctx context.Context, lesson string) ([]Progress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT lesson_path, exercise_index, kind, correct, score, attempts, updated_at
		FROM progress WHERE lesson_path = ? ORDER BY exercise_index
	`, lesson)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var out []Progress
	for rows.Next() {
		var p Progress
		var updated string
		if err := rows.Scan(&p.LessonPath, &p.Index, &p.Kind, &p.Correct, &p.Score, &p.Attempts, &updated); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		p.UpdatedAt = parseTime(updated)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ResetProgress forgets all graded results of a lesson.
func (s *Store) ResetProgress(ctx context.Context, lesson string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM progress WHERE lesson_path = ?`, lesson); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}
