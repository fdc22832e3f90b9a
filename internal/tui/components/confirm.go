package components

import (
	"fmt"

	"github.com/Veraticus/spice-console/internal/admin"
	"github.com/Veraticus/spice-console/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModel is the delete confirmation modal.
type ConfirmModel struct {
	theme  themes.Theme
	target admin.PendingDelete
}

// NewConfirmModel creates the modal for target.
func NewConfirmModel(target admin.PendingDelete, theme themes.Theme) ConfirmModel {
	return ConfirmModel{target: target, theme: theme}
}

// Target is the record awaiting confirmation.
func (m ConfirmModel) Target() admin.PendingDelete {
	return m.target
}

// Update turns y/n into ConfirmDeleteMsg or CancelDeleteMsg.
func (m ConfirmModel) Update(msg tea.Msg) (ConfirmModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			return m, emit(ConfirmDeleteMsg{})
		case "n", "N", "esc", "q":
			return m, emit(CancelDeleteMsg{})
		}
	}
	return m, nil
}

// View renders the prompt.
func (m ConfirmModel) View() string {
	prompt := fmt.Sprintf("Delete %s %q?", m.target.Kind, m.target.Label)
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Bold.Render(prompt),
		"",
		m.theme.Faint.Render("This cannot be undone."),
		"",
		"[y] delete  [n] keep",
	)
	return m.theme.DangerModal.Render(body)
}
