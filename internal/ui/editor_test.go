package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mogikan/Interactivebook/internal/data"
	"github.com/Mogikan/Interactivebook/internal/editor"
	"github.com/Mogikan/Interactivebook/internal/exercise"
)

// echoCompiler renders its input verbatim and records the hints setting.
type echoCompiler struct {
	mu    sync.Mutex
	hints bool
}

func (c *echoCompiler) Compile(_ context.Context, text string) (string, error) {
	return "rendered:" + text, nil
}

func (c *echoCompiler) SetShowHints(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hints = show
}

func (c *echoCompiler) Hints() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hints
}

type fakeStore struct {
	mu       sync.Mutex
	drafts   []string
	hints    []bool
	progress map[string][]data.Progress
}

func (s *fakeStore) SaveDraft(_ context.Context, text string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = append(s.drafts, text)
	return true, nil
}

func (s *fakeStore) SetShowHints(_ context.Context, show bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hints = append(s.hints, show)
	return nil
}

func (s *fakeStore) Progress(_ context.Context, lesson string) ([]data.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress[lesson], nil
}

const quizDoc = "Intro\n\n<Quiz answer=\"1\">\n  Q?\n  <Option>A</Option>\n</Quiz>\n"

func newTestEditor(t *testing.T, cfg EditorConfig) *EditorModel {
	t.Helper()
	if cfg.Compiler == nil {
		cfg.Compiler = &echoCompiler{}
	}
	m := NewEditor(cfg)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func press(m tea.Model, msgs ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEditor_AssignsIDs(t *testing.T) {
	m := newTestEditor(t, EditorConfig{Text: quizDoc, IDMode: IDModeUID})

	recs := m.Session().ExtractAll().Records
	require.Len(t, recs, 1)
	_, ok := editor.IDOf(recs[0])
	assert.True(t, ok)
	assert.Equal(t, m.Session().Text(), m.text.Value())
	assert.False(t, m.dirty(), "ids alone are not unsaved edits")
}

func TestEditor_OrdinalModeKeepsText(t *testing.T) {
	m := newTestEditor(t, EditorConfig{Text: quizDoc, IDMode: IDModeOrdinal})
	assert.Equal(t, quizDoc, m.Session().Text())
}

func TestEditor_EditThroughForm(t *testing.T) {
	for _, mode := range []string{IDModeUID, IDModeOrdinal} {
		t.Run(mode, func(t *testing.T) {
			m := newTestEditor(t, EditorConfig{Text: quizDoc, IDMode: mode})
			before, _ := editor.IDOf(m.Session().ExtractAll().Records[0])

			press(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEnter})
			require.Equal(t, paneForm, m.focus)
			assert.Contains(t, m.form.Value(), "question: Q?")

			q := m.editing.prev.(exercise.Quiz)
			q.Answer = "2"
			q.Options = append(q.Options, exercise.Option{Text: "B"})
			form, err := exercise.MarshalForm(q)
			require.NoError(t, err)
			m.form.SetValue(form)

			press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
			assert.Equal(t, paneList, m.focus)
			assert.Nil(t, m.editing)

			text := m.Session().Text()
			assert.True(t, strings.HasPrefix(text, "Intro\n\n<Quiz"))
			assert.Contains(t, text, `answer="2"`)
			assert.Contains(t, text, "<Option>B</Option>")
			assert.Equal(t, text, m.text.Value())

			after, _ := editor.IDOf(m.Session().ExtractAll().Records[0])
			assert.Equal(t, before, after)
		})
	}
}

func TestEditor_FormRejectsUnknownField(t *testing.T) {
	m := newTestEditor(t, EditorConfig{Text: quizDoc, IDMode: IDModeUID})
	text := m.Session().Text()

	press(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEnter})
	m.form.SetValue("bogus: 1\n")
	press(m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, paneForm, m.focus)
	assert.Equal(t, statusError, m.statusKind)
	assert.Equal(t, text, m.Session().Text())

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, paneList, m.focus)
	assert.Nil(t, m.editing)
}

func TestEditor_StaleOrdinalEditDropped(t *testing.T) {
	m := newTestEditor(t, EditorConfig{Text: quizDoc, IDMode: IDModeOrdinal})

	press(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, paneForm, m.focus)

	m.Session().SetText("<Media src=\"a.mp3\" />\n" + quizDoc)
	q := m.editing.prev.(exercise.Quiz)
	q.Answer = "2"
	form, err := exercise.MarshalForm(q)
	require.NoError(t, err)
	m.form.SetValue(form)
	press(m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, statusError, m.statusKind)
	assert.Contains(t, m.status, "Edit not applied")
	assert.NotContains(t, m.Session().Text(), `answer="2"`)
}

func TestEditor_InsertFromPicker(t *testing.T) {
	m := newTestEditor(t, EditorConfig{Text: "Intro", IDMode: IDModeUID})

	press(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	require.Equal(t, panePicker, m.focus)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, paneText, m.focus)
	recs := m.Session().ExtractAll().Records
	require.Len(t, recs, 1)
	assert.Equal(t, exercise.KindQuiz, recs[0].Type)
	_, ok := editor.IDOf(recs[0])
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(m.Session().Text(), "Intro\n<Quiz"))
}

func TestEditor_Delete(t *testing.T) {
	m := newTestEditor(t, EditorConfig{Text: quizDoc, IDMode: IDModeOrdinal})

	press(m, tea.KeyMsg{Type: tea.KeyTab}, runes("x"))
	assert.Empty(t, m.Session().ExtractAll().Records)
	assert.Equal(t, statusSuccess, m.statusKind)
	assert.Contains(t, m.Session().Text(), "Intro")
}

func TestEditor_Typing(t *testing.T) {
	m := newTestEditor(t, EditorConfig{Text: "Hello", IDMode: IDModeOrdinal})
	seq := m.seq

	cmd := press(m, runes("!"))
	assert.Equal(t, "Hello!", m.Session().Text())
	assert.NotNil(t, cmd)
	assert.Equal(t, seq+1, m.seq)
	assert.True(t, m.dirty())

	// Only the latest tick triggers a compile.
	_, cmd = m.Update(previewTickMsg{seq: seq})
	assert.Nil(t, cmd)
}

func TestEditor_Toolbar(t *testing.T) {
	m := newTestEditor(t, EditorConfig{Text: "Title", IDMode: IDModeOrdinal})

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}, Alt: true})
	assert.Equal(t, "## Title", m.Session().Text())

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}, Alt: true})
	assert.Contains(t, m.Session().Text(), "## Title\n\n|")
}

func TestEditor_Preview(t *testing.T) {
	m := newTestEditor(t, EditorConfig{Text: quizDoc, IDMode: IDModeUID})

	msg := m.compile()()
	pm, ok := msg.(previewMsg)
	require.True(t, ok)
	require.True(t, pm.ok)
	require.NoError(t, pm.res.Err)
	assert.Equal(t, m.previewer.Generation(), pm.res.Generation)

	m.Update(pm)
	assert.Contains(t, m.preview.View(), "rendered:")
}

func TestEditor_AutosaveAndHints(t *testing.T) {
	store := &fakeStore{}
	comp := &echoCompiler{}
	m := newTestEditor(t, EditorConfig{Text: "Hello", IDMode: IDModeOrdinal, Store: store, Compiler: comp, Autosave: true})

	msg := m.autosave()()
	assert.Equal(t, draftSavedMsg{changed: true}, msg)
	assert.Equal(t, []string{"Hello"}, store.drafts)

	press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.True(t, comp.Hints())
	assert.True(t, m.showHints)

	m.cfg.Autosave = false
	assert.Nil(t, m.autosave())
}

func TestEditor_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesson.mdx")
	m := newTestEditor(t, EditorConfig{Path: path, Text: quizDoc, Saved: quizDoc, IDMode: IDModeUID})

	press(m, runes("x"))
	require.True(t, m.dirty())
	press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.False(t, m.dirty())

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(onDisk), "uid=")
	assert.True(t, strings.HasSuffix(string(onDisk), "x"))

	require.NoError(t, os.WriteFile(path, []byte("Replaced <Media src=\"b.mp4\" />"), 0644))
	m.Update(fileChangedMsg{})
	assert.Contains(t, m.Session().Text(), "Replaced")
	assert.Len(t, m.Session().ExtractAll().Records, 1)
	assert.False(t, m.dirty())

	// Unsaved edits survive an external change.
	press(m, runes("y"))
	require.NoError(t, os.WriteFile(path, []byte("Other"), 0644))
	m.Update(fileChangedMsg{})
	assert.NotContains(t, m.Session().Text(), "Other")
	assert.Equal(t, statusWarning, m.statusKind)
}

func TestEditor_View(t *testing.T) {
	m := newTestEditor(t, EditorConfig{Path: "lesson.mdx", Text: quizDoc, IDMode: IDModeUID})

	view := m.View()
	assert.Contains(t, view, "INTERACTIVEBOOK")
	assert.Contains(t, view, "1 exercises")
	assert.Contains(t, view, "Quiz")

	empty := NewEditor(EditorConfig{})
	assert.Equal(t, "Loading editor...", empty.View())
}
