package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spice-console/internal/common"
	"github.com/Veraticus/spice-console/internal/tui/components"
	"github.com/charmbracelet/lipgloss"
)

var screenTitles = map[string]string{
	components.RouteGroups:     "Category groups",
	components.RouteCategories: "Categories",
	components.RouteCurrencies: "Currencies",
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return m.renderLoading()
	}

	header := m.header.View()
	status := m.renderStatus()
	footer := m.help.View(m.keymap)

	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(status)-lipgloss.Height(footer)-1, 3)

	var body string
	switch {
	case m.confirm != nil:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.confirm.View())
	case m.form != nil:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.form.View())
	default:
		body = m.renderScreen()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, status, footer)
}

// renderLoading shows the spinner until the first collection arrives.
func (m Model) renderLoading() string {
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		m.spinner.View()+" Loading taxonomy…",
	)
}

// renderScreen renders the active table with its title.
func (m Model) renderScreen() string {
	title := m.theme.Title.Render(screenTitles[m.screen])
	t := m.tables[m.screen]
	count := m.theme.Faint.Render(pluralize(t.Len(), "record"))
	return lipgloss.JoinVertical(lipgloss.Left,
		title+"  "+count,
		"",
		t.View(),
	)
}

// renderStatus shows the last error, the last success or the busy spinner.
func (m Model) renderStatus() string {
	var parts []string
	if m.busy() {
		parts = append(parts, m.spinner.View())
	}
	switch {
	case m.lastError != nil:
		parts = append(parts, m.theme.StatusError.Render("Error: "+common.UserMessage(m.lastError)))
	case m.status != "":
		parts = append(parts, m.theme.StatusSuccess.Render(m.status))
	}
	return strings.Join(parts, " ")
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
