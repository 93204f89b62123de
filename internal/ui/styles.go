package ui

import "github.com/charmbracelet/lipgloss"

// Styles contains pre-computed lipgloss styles for all UI regions.
type Styles struct {
	theme Theme

	// Layout
	Header      lipgloss.Style
	Footer      lipgloss.Style
	Pane        lipgloss.Style
	FocusedPane lipgloss.Style

	// Header parts
	Logo          lipgloss.Style
	HeaderContext lipgloss.Style

	// Sidebar entries
	Item         lipgloss.Style
	SelectedItem lipgloss.Style
	Kind         lipgloss.Style
	Section      lipgloss.Style

	// Status line
	Status  lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Badge   lipgloss.Style
}

// NewStyles builds the styles of a theme.
func NewStyles(theme Theme) Styles {
	s := Styles{theme: theme}

	s.Header = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Foreground)).
		Background(lipgloss.Color(theme.HeaderBg)).
		Bold(true).
		Padding(0, 1)

	s.Footer = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Muted)).
		Padding(0, 1)

	s.Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Border))

	s.FocusedPane = s.Pane.
		BorderForeground(lipgloss.Color(theme.Primary))

	s.Logo = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Primary)).
		Background(lipgloss.Color(theme.HeaderBg)).
		Bold(true)

	s.HeaderContext = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Secondary)).
		Background(lipgloss.Color(theme.HeaderBg)).
		Italic(true).
		MarginLeft(2)

	s.Item = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Foreground)).
		PaddingLeft(1)

	s.SelectedItem = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Primary)).
		Bold(true).
		PaddingLeft(1)

	s.Kind = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Secondary))

	s.Section = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Muted)).
		Bold(true)

	s.Status = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Foreground))

	s.Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Error)).
		Bold(true)

	s.Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Success))

	s.Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Warning))

	s.Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Muted))

	s.Badge = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Background)).
		Background(lipgloss.Color(theme.Secondary)).
		Padding(0, 1)

	return s
}

// Theme returns the theme the styles were built from.
func (s Styles) Theme() Theme {
	return s.theme
}

// pane returns the border style for a pane with the given focus.
func (s Styles) pane(focused bool, width, height int) lipgloss.Style {
	st := s.Pane
	if focused {
		st = s.FocusedPane
	}
	return st.Width(max(width-2, 1)).Height(max(height-2, 1))
}
