package components

import (
	"testing"

	"github.com/Veraticus/spice-console/internal/admin"
	tuitest "github.com/Veraticus/spice-console/internal/tui/testing"
	"github.com/Veraticus/spice-console/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestConfirmModel(t *testing.T) {
	target := admin.PendingDelete{Kind: admin.KindCategory, ID: "c1", Label: "Groceries"}
	m := NewConfirmModel(target, themes.Default)
	assert.Equal(t, target, m.Target())
	assert.Contains(t, tuitest.StripANSI(m.View()), `Delete category "Groceries"?`)

	tests := []struct {
		name string
		key  tea.KeyMsg
		want []tea.Msg
	}{
		{"y confirms", tuitest.KeyPress("y"), []tea.Msg{ConfirmDeleteMsg{}}},
		{"Y confirms", tuitest.KeyPress("Y"), []tea.Msg{ConfirmDeleteMsg{}}},
		{"n cancels", tuitest.KeyPress("n"), []tea.Msg{CancelDeleteMsg{}}},
		{"esc cancels", tuitest.KeyEsc(), []tea.Msg{CancelDeleteMsg{}}},
		{"other keys are ignored", tuitest.KeyPress("d"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd := m.Update(tt.key)
			assert.Equal(t, tt.want, tuitest.Collect(cmd))
		})
	}
}
