package main

import "github.com/charmbracelet/lipgloss"

var (
	successColor = lipgloss.Color("#4ECDC4")
	errorColor   = lipgloss.Color("#FF6B6B")
	infoColor    = lipgloss.Color("#95E1D3")
	subtleColor  = lipgloss.Color("#666666")

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().Foreground(successColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().Foreground(errorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().Foreground(infoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().Foreground(subtleColor)

	// HeaderStyle formats table headers.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)
