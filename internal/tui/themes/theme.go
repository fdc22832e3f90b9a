// Package themes holds the console's lipgloss styles.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the console.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Faint         lipgloss.Style
	Selected      lipgloss.Style
	HeaderBar     lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	MenuTrigger   lipgloss.Style
	MenuBody      lipgloss.Style
	MenuItem      lipgloss.Style
	MenuCursor    lipgloss.Style
	MenuSection   lipgloss.Style
	Modal         lipgloss.Style
	DangerModal   lipgloss.Style
	FieldLabel    lipgloss.Style
	FieldFocused  lipgloss.Style
	FieldDisabled lipgloss.Style
	TableHeader   lipgloss.Style
	TableSelected lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Error         lipgloss.Color
	Success       lipgloss.Color
	Info          lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	// Colors
	Primary:    lipgloss.Color("#7c3aed"),
	Muted:      lipgloss.Color("#737373"),
	Border:     lipgloss.Color("#404040"),
	Foreground: lipgloss.Color("#fafafa"),
	Error:      lipgloss.Color("#ef4444"),
	Success:    lipgloss.Color("#10b981"),
	Info:       lipgloss.Color("#3b82f6"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Faint: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),

	// Header
	HeaderBar: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#262626")),
	Tab: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")).
		Padding(0, 1),
	ActiveTab: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#7c3aed")).
		Bold(true).
		Padding(0, 1),

	// Menus
	MenuTrigger: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	MenuBody: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7c3aed")),
	MenuItem: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	MenuCursor: lipgloss.NewStyle().
		Background(lipgloss.Color("#404040")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	MenuSection: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a78bfa")).
		Italic(true),

	// Modals
	Modal: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(1, 2),
	DangerModal: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#ef4444")).
		Padding(1, 2),
	FieldLabel: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")).
		Width(14),
	FieldFocused: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a78bfa")).
		Bold(true).
		Width(14),
	FieldDisabled: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#525252")),

	// Tables
	TableHeader: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#a78bfa")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		BorderBottom(true),
	TableSelected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")),

	// Status styles
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3b82f6")),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")),
}
