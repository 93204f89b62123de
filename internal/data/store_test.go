package data

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, DBFileName))
	assert.NoError(t, s.Health())

	// Migrations are idempotent.
	assert.NoError(t, s.Migrate())
	require.NoError(t, s.Close())

	path := filepath.Join(t.TempDir(), "custom.db")
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.FileExists(t, path)
}

func TestKV(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "k", "v1"))
	require.NoError(t, s.Put(ctx, "k", "v2"))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Delete(ctx, "k"))
}

func TestDrafts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.LoadDraft(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	changed, err := s.SaveDraft(ctx, "one")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.SaveDraft(ctx, "one")
	require.NoError(t, err)
	assert.False(t, changed, "unchanged content records no revision")

	_, err = s.SaveDraft(ctx, "two")
	require.NoError(t, err)

	text, err := s.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", text)

	revs, err := s.Revisions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, "two", revs[0].Content)
	assert.Equal(t, 3, revs[0].Bytes)
	assert.Equal(t, "one", revs[1].Content)
	assert.False(t, revs[0].CreatedAt.IsZero())

	require.NoError(t, s.ClearDraft(ctx))
	_, err = s.LoadDraft(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	revs, err = s.Revisions(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, revs)
}

func TestDraftsPruned(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < MaxRevisions+5; i++ {
		_, err := s.SaveDraft(ctx, fmt.Sprintf("draft %d", i))
		require.NoError(t, err)
	}
	revs, err := s.Revisions(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, revs, MaxRevisions)
	assert.Equal(t, fmt.Sprintf("draft %d", MaxRevisions+4), revs[0].Content)
}

func TestShowHints(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	show, err := s.ShowHints(ctx, true)
	require.NoError(t, err)
	assert.True(t, show)

	require.NoError(t, s.SetShowHints(ctx, false))
	show, err = s.ShowHints(ctx, true)
	require.NoError(t, err)
	assert.False(t, show)

	require.NoError(t, s.Put(ctx, KeyShowHints, "maybe"))
	show, err = s.ShowHints(ctx, true)
	require.NoError(t, err)
	assert.True(t, show)
}

func TestProgress(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, err := s.RecordResult(ctx, "lessons/a.mdx", 1, "Quiz", false, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Attempts)
	assert.False(t, p.Correct)

	p, err = s.RecordResult(ctx, "lessons/a.mdx", 1, "Quiz", true, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Attempts)
	assert.True(t, p.Correct)
	assert.Equal(t, 100, p.Score)

	_, err = s.RecordResult(ctx, "lessons/a.mdx", 0, "Ordering", true, 100)
	require.NoError(t, err)
	_, err = s.RecordResult(ctx, "lessons/b.mdx", 0, "Media", true, 100)
	require.NoError(t, err)

	all, err := s.Progress(ctx, "lessons/a.mdx")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 0, all[0].Index)
	assert.Equal(t, "Ordering", all[0].Kind)

	require.NoError(t, s.ResetProgress(ctx, "lessons/a.mdx"))
	all, err = s.Progress(ctx, "lessons/a.mdx")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSplitSQL(t *testing.T) {
	src := "-- comment\nCREATE TABLE a (x TEXT DEFAULT ';');\n\nCREATE INDEX i ON a(x);\nSELECT 1"
	got := splitSQL(src)
	require.Len(t, got, 3)
	assert.Equal(t, "CREATE TABLE a (x TEXT DEFAULT ';');", got[0])
	assert.Equal(t, "CREATE INDEX i ON a(x);", got[1])
	assert.Equal(t, "SELECT 1", got[2])
}
