// Package ui provides the terminal editor and reader built on Bubble Tea.
package ui

// ═══════════════════════════════════════════════════════════════════════════════
// THEME DEFINITION
// ═══════════════════════════════════════════════════════════════════════════════

// Theme is the color palette of the TUI. Colors are hex strings for
// lipgloss.Color.
type Theme struct {
	Name string

	Background string
	Foreground string
	Border     string

	Primary   string // focus, selection
	Secondary string // exercise kinds, section names
	Success   string // saved, correct
	Warning   string // stale edits, external changes
	Error     string // failed edits and compiles
	Muted     string // hints, help text

	HeaderBg string
	FooterBg string
}

// ThemeDark is the default palette.
var ThemeDark = Theme{
	Name: "dark",

	Background: "#1e1e1e",
	Foreground: "#d4d4d4",
	Border:     "#3e3e42",

	Primary:   "#007acc",
	Secondary: "#4ec9b0",
	Success:   "#89d185",
	Warning:   "#cca700",
	Error:     "#f48771",
	Muted:     "#808080",

	HeaderBg: "#252526",
	FooterBg: "#007acc",
}

// ThemeLight is a palette for light terminals.
var ThemeLight = Theme{
	Name: "light",

	Background: "#ffffff",
	Foreground: "#333333",
	Border:     "#d0d0d0",

	Primary:   "#005fb8",
	Secondary: "#267f99",
	Success:   "#388a34",
	Warning:   "#bf8803",
	Error:     "#cd3131",
	Muted:     "#6e6e6e",

	HeaderBg: "#f3f3f3",
	FooterBg: "#005fb8",
}

// GetTheme returns the theme named id, or ThemeDark.
func GetTheme(id string) Theme {
	if id == ThemeLight.Name {
		return ThemeLight
	}
	return ThemeDark
}
