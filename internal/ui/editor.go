package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/Mogikan/Interactivebook/internal/data"
	"github.com/Mogikan/Interactivebook/internal/editor"
	"github.com/Mogikan/Interactivebook/internal/exercise"
	"github.com/Mogikan/Interactivebook/internal/preview"
)

// Store is the persisted state the TUI reads and writes. *data.Store
// implements it.
type Store interface {
	SaveDraft(ctx context.Context, text string) (bool, error)
	SetShowHints(ctx context.Context, show bool) error
	Progress(ctx context.Context, lesson string) ([]data.Progress, error)
}

// hintSetter is implemented by compilers that can mark answers.
type hintSetter interface {
	SetShowHints(show bool)
}

// Correlation modes, matching the editor.id_mode setting.
const (
	IDModeOrdinal = "ordinal"
	IDModeUID     = "uid"
)

const previewDelay = 150 * time.Millisecond

// pane identifies the focused region of the editor.
type pane int

const (
	paneText pane = iota
	paneList
	paneForm
	panePicker
)

// statusKind colors the status line.
type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// ═══════════════════════════════════════════════════════════════════════════════
// MESSAGES
// ═══════════════════════════════════════════════════════════════════════════════

type previewTickMsg struct{ seq int }

type previewMsg struct {
	res preview.Result
	ok  bool
}

type draftSavedMsg struct {
	changed bool
	err     error
}

type fileChangedMsg struct{}

// ═══════════════════════════════════════════════════════════════════════════════
// EDITOR MODEL
// ═══════════════════════════════════════════════════════════════════════════════

// EditorConfig configures the editor.
type EditorConfig struct {
	Context      context.Context
	Path         string // file saved by ctrl+s
	Text         string // initial document
	Saved        string // file content the document was loaded from
	Store        Store  // optional draft store
	Compiler     preview.Compiler
	IDMode       string
	Autosave     bool
	ShowHints    bool
	Theme        Theme
	SidebarWidth int
	Changes      <-chan struct{} // external writes to Path
}

// formState tracks the exercise open in the form pane.
type formState struct {
	ordinal int
	id      string
	prev    exercise.Exercise
	snap    editor.Snapshot
}

// EditorModel is the Bubble Tea model of the exercise editor: the raw
// document on the left, its exercises in a sidebar and the rendered
// preview on the right. Exercises are edited through YAML forms and
// regenerated into the document.
type EditorModel struct {
	cfg       EditorConfig
	ctx       context.Context
	session   *editor.Session
	previewer *preview.Previewer

	keys   KeyMap
	styles Styles
	help   help.Model

	text    textarea.Model
	form    textarea.Model
	picker  list.Model
	preview viewport.Model

	focus   pane
	snap    editor.Snapshot
	cursor  int
	editing *formState

	saved      string
	status     string
	statusKind statusKind
	seq        int
	showHints  bool

	width  int
	height int
	ready  bool
}

// kindItem is a picker entry.
type kindItem exercise.Kind

func (k kindItem) Title() string       { return string(k) }
func (k kindItem) Description() string { return kindDescriptions[exercise.Kind(k)] }
func (k kindItem) FilterValue() string { return string(k) }

var kindDescriptions = map[exercise.Kind]string{
	exercise.KindQuiz:             "single or multiple choice question",
	exercise.KindOrdering:         "put items in order",
	exercise.KindMatching:         "match left items to right items",
	exercise.KindGrouping:         "sort items into groups",
	exercise.KindMedia:            "audio, video or image",
	exercise.KindFillBlanks:       "text with [answer] gaps",
	exercise.KindInlineBlanks:     "gaps inside running text or tables",
	exercise.KindDialogue:         "conversation between speakers",
	exercise.KindInteractiveMedia: "video with timed checkpoints",
	exercise.KindCheckpoint:       "timed pause inside interactive media",
}

// NewEditor creates the editor model.
func NewEditor(cfg EditorConfig) *EditorModel {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.IDMode == "" {
		cfg.IDMode = IDModeUID
	}
	if cfg.SidebarWidth <= 0 {
		cfg.SidebarWidth = 28
	}
	if cfg.Theme.Name == "" {
		cfg.Theme = ThemeDark
	}

	m := &EditorModel{
		cfg:       cfg,
		ctx:       cfg.Context,
		session:   editor.NewSession(cfg.Text),
		keys:      DefaultKeyMap(),
		styles:    NewStyles(cfg.Theme),
		help:      help.New(),
		saved:     cfg.Saved,
		showHints: cfg.ShowHints,
	}
	if cfg.Compiler != nil {
		m.previewer = preview.NewPreviewer(cfg.Compiler)
	}

	m.text = newTextarea()
	m.form = newTextarea()

	items := make([]list.Item, 0, len(exercise.Kinds))
	for _, k := range exercise.Kinds {
		items = append(items, kindItem(k))
	}
	m.picker = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.picker.Title = "New exercise"
	m.picker.SetShowHelp(false)

	m.preview = viewport.New(0, 0)

	if cfg.IDMode == IDModeUID {
		m.session.AssignIDs()
	}
	m.text.SetValue(m.session.Text())
	m.text.Focus()
	m.refresh()
	return m
}

func newTextarea() textarea.Model {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	return ta
}

// Session returns the edit session behind the model.
func (m *EditorModel) Session() *editor.Session {
	return m.session
}

// Init starts the first preview and the file watcher listener.
func (m *EditorModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.compile()}
	if m.cfg.Changes != nil {
		cmds = append(cmds, waitForChange(m.cfg.Changes))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages.
func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case previewTickMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m, tea.Batch(m.compile(), m.autosave())

	case previewMsg:
		if !msg.ok {
			return m, nil
		}
		if msg.res.Err != nil {
			m.preview.SetContent(m.styles.Error.Render("Preview failed: " + msg.res.Err.Error()))
			return m, nil
		}
		m.preview.SetContent(msg.res.Output)
		return m, nil

	case draftSavedMsg:
		if msg.err != nil {
			m.setStatus(statusError, "Draft not saved: "+msg.err.Error())
		}
		return m, nil

	case fileChangedMsg:
		m.reloadFromDisk()
		return m, tea.Batch(waitForChange(m.cfg.Changes), m.schedule())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch m.focus {
	case paneText:
		m.text, cmd = m.text.Update(msg)
	case paneForm:
		m.form, cmd = m.form.Update(msg)
	case panePicker:
		m.picker, cmd = m.picker.Update(msg)
	}
	return m, cmd
}

func (m *EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Sequence(m.autosave(), tea.Quit)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Hints):
		return m, m.toggleHints()
	}

	switch m.focus {
	case paneList:
		return m.handleListKey(msg)
	case paneForm:
		return m.handleFormKey(msg)
	case panePicker:
		return m.handlePickerKey(msg)
	}
	return m.handleTextKey(msg)
}

func (m *EditorModel) handleTextKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Focus):
		m.setFocus(paneList)
		return m, nil
	case key.Matches(msg, m.keys.Save):
		m.saveFile()
		return m, nil
	case key.Matches(msg, m.keys.Insert):
		m.setFocus(panePicker)
		return m, nil
	case key.Matches(msg, m.keys.Heading):
		return m, m.prefixLine("## ")
	case key.Matches(msg, m.keys.Bullet):
		return m, m.prefixLine("- ")
	case key.Matches(msg, m.keys.Table):
		at := m.lineEnd()
		m.session.Replace(editor.Selection{Start: at, End: at}, "\n\n"+editor.Table(2, 2))
		return m, m.afterMutation()
	}

	var cmd tea.Cmd
	m.text, cmd = m.text.Update(msg)
	return m, tea.Batch(cmd, m.syncFromText())
}

func (m *EditorModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Cancel):
		m.setFocus(paneText)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Records)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Edit):
		m.openForm()
	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteSelected()
	case key.Matches(msg, m.keys.Insert):
		m.setFocus(panePicker)
	case key.Matches(msg, m.keys.Save):
		m.saveFile()
	}
	return m, nil
}

func (m *EditorModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Apply):
		return m, m.applyForm()
	case key.Matches(msg, m.keys.Cancel):
		m.editing = nil
		m.setFocus(paneList)
		m.setStatus(statusInfo, "Edit cancelled")
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m *EditorModel) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.setFocus(paneText)
			return m, nil
		case msg.Type == tea.KeyEnter:
			item, ok := m.picker.SelectedItem().(kindItem)
			if !ok {
				return m, nil
			}
			return m, m.insert(exercise.Kind(item))
		}
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// ═══════════════════════════════════════════════════════════════════════════════
// DOCUMENT OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════════

// syncFromText pushes textarea edits into the session.
func (m *EditorModel) syncFromText() tea.Cmd {
	v := m.text.Value()
	if v == m.session.Text() {
		return nil
	}
	m.session.SetText(v)
	m.refresh()
	return m.schedule()
}

// afterMutation pulls a session change into the textarea, keeping the
// cursor row.
func (m *EditorModel) afterMutation() tea.Cmd {
	row := m.text.Line()
	m.text.SetValue(m.session.Text())
	for m.text.Line() > row {
		m.text.CursorUp()
	}
	m.text.CursorEnd()
	m.refresh()
	return m.schedule()
}

func (m *EditorModel) refresh() {
	m.snap = m.session.ExtractAll()
	if m.cursor >= len(m.snap.Records) {
		m.cursor = max(len(m.snap.Records)-1, 0)
	}
}

// lineEnd is the byte offset of the end of the cursor's line.
func (m *EditorModel) lineEnd() int {
	lines := strings.Split(m.session.Text(), "\n")
	row := min(m.text.Line(), len(lines)-1)
	at := 0
	for i := 0; i < row; i++ {
		at += len(lines[i]) + 1
	}
	return at + len(lines[row])
}

func (m *EditorModel) prefixLine(prefix string) tea.Cmd {
	at := m.lineEnd()
	m.session.PrefixLine(editor.Selection{Start: at, End: at}, prefix)
	return m.afterMutation()
}

func (m *EditorModel) insert(k exercise.Kind) tea.Cmd {
	e, err := exercise.Template(k)
	if err != nil {
		m.setStatus(statusError, err.Error())
		return nil
	}
	c, err := exercise.Encode(e)
	if err != nil {
		m.setStatus(statusError, err.Error())
		return nil
	}

	at := m.lineEnd()
	if at > 0 {
		m.session.Replace(editor.Selection{Start: at, End: at}, "\n")
		at++
	}
	m.session.InsertAt(at, c)
	if m.cfg.IDMode == IDModeUID {
		m.session.AssignIDs()
	}
	m.setFocus(paneText)
	m.setStatus(statusSuccess, fmt.Sprintf("%s inserted", k))
	return m.afterMutation()
}

func (m *EditorModel) openForm() {
	if len(m.snap.Records) == 0 {
		return
	}
	if m.cfg.IDMode == IDModeUID {
		before := m.session.Version()
		m.session.AssignIDs()
		if m.session.Version() != before {
			m.afterMutation()
		}
	}

	rec := m.snap.Records[m.cursor]
	e, err := exercise.Decode(rec)
	if err != nil {
		m.setStatus(statusError, err.Error())
		return
	}
	form, err := exercise.MarshalForm(e)
	if err != nil {
		m.setStatus(statusError, err.Error())
		return
	}

	st := &formState{ordinal: m.cursor, prev: e, snap: m.snap}
	if id, ok := editor.IDOf(rec); ok {
		st.id = id
	}
	m.editing = st
	m.form.SetValue(form)
	m.setFocus(paneForm)
	m.setStatus(statusInfo, fmt.Sprintf("Editing %s %d (ctrl+s applies, esc cancels)", rec.Type, m.cursor+1))
}

func (m *EditorModel) applyForm() tea.Cmd {
	st := m.editing
	if st == nil {
		return nil
	}
	e, err := exercise.UnmarshalForm(st.prev, m.form.Value())
	if err != nil {
		m.setStatus(statusError, err.Error())
		return nil
	}
	c, err := exercise.Encode(e)
	if err != nil {
		m.setStatus(statusError, err.Error())
		return nil
	}

	if m.cfg.IDMode == IDModeUID && st.id != "" {
		err = m.session.ReplaceByID(c, st.id)
	} else if err = m.session.Validate(st.snap); err == nil {
		err = m.session.ReplaceAt(c, st.ordinal)
	}
	if err != nil {
		m.setStatus(statusError, "Edit not applied: "+err.Error())
		return nil
	}

	m.editing = nil
	m.setFocus(paneList)
	m.setStatus(statusSuccess, fmt.Sprintf("%s updated", c.Type))
	return m.afterMutation()
}

func (m *EditorModel) deleteSelected() tea.Cmd {
	if len(m.snap.Records) == 0 {
		return nil
	}
	if err := m.session.Validate(m.snap); err != nil {
		m.refresh()
		m.setStatus(statusWarning, "Document changed, selection refreshed")
		return nil
	}
	kind := m.snap.Records[m.cursor].Type
	if err := m.session.DeleteAt(m.cursor); err != nil {
		m.setStatus(statusError, err.Error())
		return nil
	}
	m.setStatus(statusSuccess, fmt.Sprintf("%s deleted", kind))
	return m.afterMutation()
}

func (m *EditorModel) saveFile() {
	path, err := editor.SaveFile(m.cfg.Path, m.session.Text())
	if err != nil {
		m.setStatus(statusError, err.Error())
		return
	}
	m.cfg.Path = path
	m.saved = editor.StripIDs(m.session.Text())
	m.setStatus(statusSuccess, "Saved "+path)
}

// dirty reports unsaved edits. Ids are not content.
func (m *EditorModel) dirty() bool {
	return editor.StripIDs(m.session.Text()) != m.saved
}

func (m *EditorModel) reloadFromDisk() {
	if m.cfg.Path == "" {
		return
	}
	if m.dirty() {
		m.setStatus(statusWarning, "File changed on disk; keeping unsaved edits")
		return
	}
	text, err := editor.LoadFile(m.cfg.Path)
	if err != nil {
		m.setStatus(statusError, err.Error())
		return
	}
	if text == m.saved {
		return
	}
	m.session.SetText(text)
	m.saved = text
	if m.cfg.IDMode == IDModeUID {
		m.session.AssignIDs()
	}
	m.editing = nil
	if m.focus == paneForm {
		m.setFocus(paneList)
	}
	m.afterMutation()
	m.setStatus(statusWarning, "Reloaded from disk")
	log.Info().Str("path", m.cfg.Path).Msg("lesson reloaded after external change")
}

func (m *EditorModel) toggleHints() tea.Cmd {
	m.showHints = !m.showHints
	if hs, ok := m.cfg.Compiler.(hintSetter); ok {
		hs.SetShowHints(m.showHints)
	}
	state := "hidden"
	if m.showHints {
		state = "shown"
	}
	m.setStatus(statusInfo, "Hints "+state)

	cmds := []tea.Cmd{m.compile()}
	if m.cfg.Store != nil {
		store, ctx, show := m.cfg.Store, m.ctx, m.showHints
		cmds = append(cmds, func() tea.Msg {
			if err := store.SetShowHints(ctx, show); err != nil {
				log.Warn().Err(err).Msg("hints setting not saved")
			}
			return nil
		})
	}
	return tea.Batch(cmds...)
}

// ═══════════════════════════════════════════════════════════════════════════════
// COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

// schedule debounces preview and autosave after an edit.
func (m *EditorModel) schedule() tea.Cmd {
	m.seq++
	seq := m.seq
	return tea.Tick(previewDelay, func(time.Time) tea.Msg { return previewTickMsg{seq: seq} })
}

func (m *EditorModel) compile() tea.Cmd {
	if m.previewer == nil {
		return nil
	}
	p, ctx, text := m.previewer, m.ctx, m.session.Text()
	return func() tea.Msg {
		res, ok := p.Compile(ctx, text)
		return previewMsg{res: res, ok: ok}
	}
}

func (m *EditorModel) autosave() tea.Cmd {
	if !m.cfg.Autosave || m.cfg.Store == nil {
		return nil
	}
	store, ctx, text := m.cfg.Store, m.ctx, m.session.Text()
	return func() tea.Msg {
		changed, err := store.SaveDraft(ctx, text)
		return draftSavedMsg{changed: changed, err: err}
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// LAYOUT AND VIEW
// ═══════════════════════════════════════════════════════════════════════════════

func (m *EditorModel) setFocus(p pane) {
	m.focus = p
	m.text.Blur()
	m.form.Blur()
	switch p {
	case paneText:
		m.text.Focus()
	case paneForm:
		m.form.Focus()
	}
}

func (m *EditorModel) setStatus(kind statusKind, text string) {
	m.status = text
	m.statusKind = kind
}

func (m *EditorModel) resize(width, height int) {
	m.width, m.height = width, height
	m.ready = true

	body := m.bodyHeight()
	rest := max(width-m.cfg.SidebarWidth, 2)
	center := rest / 2

	m.text.SetWidth(max(center-2, 1))
	m.text.SetHeight(max(body-2, 1))
	m.form.SetWidth(max(center-2, 1))
	m.form.SetHeight(max(body-2, 1))
	m.picker.SetSize(max(center-2, 1), max(body-2, 1))
	m.preview.Width = max(rest-center-2, 1)
	m.preview.Height = max(body-2, 1)
}

func (m *EditorModel) bodyHeight() int {
	return max(m.height-3, 3)
}

// View renders the editor.
func (m *EditorModel) View() string {
	if !m.ready {
		return "Loading editor..."
	}

	body := m.bodyHeight()
	rest := max(m.width-m.cfg.SidebarWidth, 2)
	center := rest / 2

	sidebar := m.styles.pane(m.focus == paneList, m.cfg.SidebarWidth, body).Render(m.viewSidebar())

	var middle string
	switch m.focus {
	case paneForm:
		middle = m.form.View()
	case panePicker:
		middle = m.picker.View()
	default:
		middle = m.text.View()
	}
	centerFocused := m.focus == paneText || m.focus == paneForm || m.focus == panePicker
	middle = m.styles.pane(centerFocused, center, body).Render(middle)
	right := m.styles.pane(false, rest-center, body).Render(m.preview.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, sidebar, middle, right),
		m.viewStatus(),
		m.styles.Footer.Render(m.help.View(m.keys)),
	)
}

func (m *EditorModel) viewHeader() string {
	name := m.cfg.Path
	if name == "" {
		name = "untitled"
	}
	if m.dirty() {
		name += " •"
	}
	left := m.styles.Logo.Render("INTERACTIVEBOOK") + m.styles.HeaderContext.Render(name)
	right := m.styles.Badge.Render(fmt.Sprintf("%d exercises", len(m.snap.Records)))
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return m.styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m *EditorModel) viewSidebar() string {
	if len(m.snap.Records) == 0 {
		return m.styles.Muted.Render("No exercises.\nctrl+n inserts one.")
	}
	text := m.session.Text()
	var b strings.Builder
	for i, r := range m.snap.Records {
		line := 1
		if r.Start <= len(text) {
			line = strings.Count(text[:r.Start], "\n") + 1
		}
		label := fmt.Sprintf("%2d %s", i+1, m.styles.Kind.Render(string(r.Type)))
		label += m.styles.Muted.Render(fmt.Sprintf(" L%d", line))
		if i == m.cursor {
			b.WriteString(m.styles.SelectedItem.Render("▸" + label))
		} else {
			b.WriteString(m.styles.Item.Render(" " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *EditorModel) viewStatus() string {
	style := m.styles.Status
	switch m.statusKind {
	case statusSuccess:
		style = m.styles.Success
	case statusWarning:
		style = m.styles.Warning
	case statusError:
		style = m.styles.Error
	}
	return m.styles.Footer.Render(style.Render(m.status))
}
