package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/Mogikan/Interactivebook/internal/course"
	"github.com/Mogikan/Interactivebook/internal/data"
	"github.com/Mogikan/Interactivebook/internal/editor"
	"github.com/Mogikan/Interactivebook/internal/exercise"
	"github.com/Mogikan/Interactivebook/internal/preview"
)

// ReaderConfig configures the lesson reader.
type ReaderConfig struct {
	Context      context.Context
	Course       *course.Course
	Start        int
	Compiler     preview.Compiler
	Store        Store // optional
	ShowHints    bool
	Theme        Theme
	SidebarWidth int
}

// lessonMsg carries a loaded and compiled lesson.
type lessonMsg struct {
	index     int
	title     string
	output    string
	exercises int
	progress  []data.Progress
	err       error
}

// ReaderModel browses the lessons of a course with rendered exercises.
type ReaderModel struct {
	cfg       ReaderConfig
	ctx       context.Context
	lessons   []course.Lesson
	previewer *preview.Previewer

	keys   KeyMap
	styles Styles
	help   help.Model

	view   viewport.Model
	search textinput.Model

	searching bool
	index     int
	loaded    lessonMsg
	showHints bool
	status    string

	width  int
	height int
	ready  bool
}

// NewReader creates the reader model positioned at cfg.Start.
func NewReader(cfg ReaderConfig) *ReaderModel {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.SidebarWidth <= 0 {
		cfg.SidebarWidth = 28
	}
	if cfg.Theme.Name == "" {
		cfg.Theme = ThemeDark
	}

	m := &ReaderModel{
		cfg:       cfg,
		ctx:       cfg.Context,
		lessons:   cfg.Course.Lessons(),
		keys:      DefaultKeyMap(),
		styles:    NewStyles(cfg.Theme),
		help:      help.New(),
		view:      viewport.New(0, 0),
		showHints: cfg.ShowHints,
	}
	if cfg.Compiler != nil {
		m.previewer = preview.NewPreviewer(cfg.Compiler)
	}

	m.search = textinput.New()
	m.search.Placeholder = "find lesson"
	m.search.Prompt = "/ "

	if cfg.Start >= 0 && cfg.Start < len(m.lessons) {
		m.index = cfg.Start
	}
	return m
}

// Index returns the position of the shown lesson.
func (m *ReaderModel) Index() int {
	return m.index
}

// Init loads the first lesson.
func (m *ReaderModel) Init() tea.Cmd {
	return m.load(m.index)
}

// Update handles all messages.
func (m *ReaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case lessonMsg:
		if msg.index != m.index {
			return m, nil
		}
		m.loaded = msg
		if msg.err != nil {
			m.view.SetContent(m.styles.Error.Render(msg.err.Error()))
		} else {
			m.view.SetContent(msg.output)
		}
		m.view.GotoTop()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m *ReaderModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), msg.String() == "q":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Next):
		if m.index < len(m.lessons)-1 {
			return m, m.goTo(m.index + 1)
		}
		m.status = "Last lesson"
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		if m.index > 0 {
			return m, m.goTo(m.index - 1)
		}
		m.status = "First lesson"
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue("")
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Hints):
		return m, m.toggleHints()
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m *ReaderModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		matches := m.cfg.Course.Find(m.search.Value())
		if len(matches) == 0 {
			m.status = fmt.Sprintf("No lesson matches %q", m.search.Value())
			return m, nil
		}
		return m, m.goTo(matches[0].Index)
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *ReaderModel) goTo(i int) tea.Cmd {
	m.index = i
	m.status = ""
	return m.load(i)
}

func (m *ReaderModel) toggleHints() tea.Cmd {
	m.showHints = !m.showHints
	if hs, ok := m.cfg.Compiler.(hintSetter); ok {
		hs.SetShowHints(m.showHints)
	}
	cmds := []tea.Cmd{m.load(m.index)}
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

// load reads, compiles and grades the lesson at i off the UI loop.
func (m *ReaderModel) load(i int) tea.Cmd {
	if i < 0 || i >= len(m.lessons) {
		return nil
	}
	lesson := m.lessons[i]
	path := m.cfg.Course.File(lesson.Route)
	p, store, ctx := m.previewer, m.cfg.Store, m.ctx

	return func() tea.Msg {
		msg := lessonMsg{index: i, title: lesson.Title}

		text, err := editor.LoadFile(path)
		if err != nil {
			msg.err = err
			return msg
		}
		fm, body, err := course.SplitFrontMatter(text)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("ignoring malformed front matter")
			body = text
		}
		if fm.Title != "" {
			msg.title = fm.Title
		}
		msg.exercises = len(exercise.Extract(body))

		if p != nil {
			res, ok := p.Compile(ctx, body)
			if !ok {
				return nil
			}
			msg.output, msg.err = res.Output, res.Err
		} else {
			msg.output = body
		}

		if store != nil {
			progress, err := store.Progress(ctx, path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("progress unavailable")
			}
			msg.progress = progress
		}
		return msg
	}
}

func (m *ReaderModel) resize(width, height int) {
	m.width, m.height = width, height
	m.ready = true
	m.view.Width = max(width-m.cfg.SidebarWidth-2, 1)
	m.view.Height = max(height-5, 1)
	m.search.Width = max(width-6, 10)
}

// View renders the reader.
func (m *ReaderModel) View() string {
	if !m.ready {
		return "Loading lesson..."
	}

	body := max(m.height-3, 3)
	sidebar := m.styles.pane(false, m.cfg.SidebarWidth, body).Render(m.viewSidebar())
	content := m.styles.pane(true, m.width-m.cfg.SidebarWidth, body).Render(m.view.View())

	bottom := m.styles.Footer.Render(m.help.View(readerKeys(m.keys)))
	if m.searching {
		bottom = m.styles.Footer.Render(m.search.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content),
		m.styles.Footer.Render(m.styles.Status.Render(m.status)),
		bottom,
	)
}

func (m *ReaderModel) viewHeader() string {
	title := m.loaded.title
	if title == "" && m.index < len(m.lessons) {
		title = m.lessons[m.index].Title
	}
	left := m.styles.Logo.Render(m.cfg.Course.Title) + m.styles.HeaderContext.Render(title)
	right := m.styles.Badge.Render(progressBadge(m.loaded.progress, m.loaded.exercises))
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return m.styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m *ReaderModel) viewSidebar() string {
	var b strings.Builder
	section := ""
	for i, l := range m.lessons {
		if l.Section != section {
			section = l.Section
			b.WriteString(m.styles.Section.Render(section) + "\n")
		}
		indent := strings.Repeat(" ", l.Depth)
		if i == m.index {
			b.WriteString(m.styles.SelectedItem.Render("▸" + indent + l.Title))
		} else {
			b.WriteString(m.styles.Item.Render(" " + indent + l.Title))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// progressBadge summarizes graded exercises, e.g. "2/5 correct".
func progressBadge(progress []data.Progress, total int) string {
	if total == 0 {
		return "no exercises"
	}
	correct := 0
	for _, p := range progress {
		if p.Correct {
			correct++
		}
	}
	return fmt.Sprintf("%d/%d correct", correct, total)
}
