package components

import (
	"testing"

	tuitest "github.com/Veraticus/spice-console/internal/tui/testing"
	"github.com/Veraticus/spice-console/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingMsg struct{ label string }

func testMenu(opts ...MenuOption) (MenuModel, *[]string) {
	ran := &[]string{}
	item := func(label string) MenuItem {
		return MenuItem{
			Label: label,
			Action: func() tea.Cmd {
				*ran = append(*ran, label)
				return emit(pingMsg{label: label})
			},
		}
	}
	m := NewMenuModel("Menu", []MenuItem{item("One"), item("Two"), item("Three")}, themes.Default, opts...)
	m.SetAnchor(0, 0)
	m.SetViewport(80, 24)
	return m, ran
}

func TestMenu_ToggleAndClose(t *testing.T) {
	m, _ := testMenu()
	assert.False(t, m.Open())

	m.Toggle()
	assert.True(t, m.Open())
	m.Toggle()
	assert.False(t, m.Open())

	m.Toggle()
	m.Close()
	assert.False(t, m.Open())
	m.Close()
	assert.False(t, m.Open())
}

func TestMenu_KeysIgnoredWhileClosed(t *testing.T) {
	m, ran := testMenu()
	m, cmd := m.Update(tuitest.KeyEnter())
	assert.Nil(t, cmd)
	assert.False(t, m.Open())
	assert.Empty(t, *ran)
}

func TestMenu_KeyboardActivationCloses(t *testing.T) {
	m, ran := testMenu()
	m.Toggle()

	m, _ = m.Update(tuitest.KeyDown())
	m, _ = m.Update(tuitest.KeyDown())
	m, _ = m.Update(tuitest.KeyUp())
	assert.Equal(t, 1, m.Cursor())

	m, cmd := m.Update(tuitest.KeyEnter())
	assert.False(t, m.Open())
	assert.Equal(t, []string{"Two"}, *ran)
	assert.Equal(t, []tea.Msg{pingMsg{label: "Two"}}, tuitest.Collect(cmd))
}

func TestMenu_CursorWraps(t *testing.T) {
	m, _ := testMenu()
	m.Toggle()
	m, _ = m.Update(tuitest.KeyUp())
	assert.Equal(t, 2, m.Cursor())
	m, _ = m.Update(tuitest.KeyDown())
	assert.Equal(t, 0, m.Cursor())
}

func TestMenu_EscCloses(t *testing.T) {
	m, ran := testMenu()
	m.Toggle()
	m, _ = m.Update(tuitest.KeyEsc())
	assert.False(t, m.Open())
	assert.Empty(t, *ran)
}

func TestMenu_LogoutDelegatesThenNavigates(t *testing.T) {
	loggedOut := 0
	m := NewMenuModel("me", []MenuItem{{Label: "Log out", Logout: true}}, themes.Default,
		WithLogout(func() { loggedOut++ }))
	m.SetViewport(80, 24)
	m.Toggle()

	m, cmd := m.Update(tuitest.KeyEnter())
	assert.Equal(t, 1, loggedOut)
	assert.False(t, m.Open())
	assert.Equal(t, []tea.Msg{NavigateMsg{Route: RouteLogout}}, tuitest.Collect(cmd))
}

func TestMenu_MouseTriggerToggles(t *testing.T) {
	m, _ := testMenu()
	trigger := m.TriggerRect()

	m, _ = m.Update(tuitest.MouseClick(trigger.X, trigger.Y))
	assert.True(t, m.Open())
	m, _ = m.Update(tuitest.MouseClick(trigger.X, trigger.Y))
	assert.False(t, m.Open())

	m, _ = m.Update(tuitest.MouseRelease(trigger.X, trigger.Y))
	assert.False(t, m.Open())
}

func TestMenu_MouseItemActivation(t *testing.T) {
	m, ran := testMenu()
	m.Toggle()
	body := m.BodyRect()

	// Row 0 inside the border is the first item.
	m, cmd := m.Update(tuitest.MouseClick(body.X+2, body.Y+1+2))
	assert.False(t, m.Open())
	assert.Equal(t, []string{"Three"}, *ran)
	assert.Len(t, tuitest.Collect(cmd), 1)
}

func TestMenu_BodyBorderPressKeepsOpen(t *testing.T) {
	m, ran := testMenu()
	m.Toggle()
	body := m.BodyRect()

	m, _ = m.Update(tuitest.MouseClick(body.X, body.Y))
	assert.True(t, m.Open())
	assert.Empty(t, *ran)
}

func TestMenu_BackdropDismisses(t *testing.T) {
	m, ran := testMenu()
	m.Toggle()

	m, _ = m.Update(tuitest.MouseClick(70, 20))
	assert.False(t, m.Open())
	assert.Empty(t, *ran)
}

func TestMenu_PressWhileClosedHasNoEffect(t *testing.T) {
	m, ran := testMenu()
	for _, p := range [][2]int{{70, 20}, {1, 2}, {0, 23}} {
		var cmd tea.Cmd
		m, cmd = m.Update(tuitest.MouseClick(p[0], p[1]))
		assert.Nil(t, cmd)
		assert.False(t, m.Open())
	}
	assert.Empty(t, *ran)
}

func TestMenu_NarrowedBackdrop(t *testing.T) {
	m, _ := testMenu(WithBackdrop(Rect{X: 0, Y: 0, Width: 40, Height: 24}))
	m.Toggle()

	m, _ = m.Update(tuitest.MouseClick(60, 10))
	assert.True(t, m.Open(), "press outside the backdrop must not close the menu")

	m, _ = m.Update(tuitest.MouseClick(30, 10))
	assert.False(t, m.Open())
}

func TestMenu_InstancesAreIndependent(t *testing.T) {
	a, _ := testMenu(WithBackdrop(Rect{X: 0, Y: 0, Width: 40, Height: 24}))
	b, _ := testMenu(WithBackdrop(Rect{X: 40, Y: 0, Width: 40, Height: 24}))
	b.SetAnchor(60, 0)

	a.Toggle()
	assert.True(t, a.Open())
	assert.False(t, b.Open())

	b.Toggle()
	assert.True(t, a.Open())
	assert.True(t, b.Open())

	// A press on a's backdrop reaches both menus; only a closes.
	press := tuitest.MouseClick(20, 15)
	a, _ = a.Update(press)
	b, _ = b.Update(press)
	assert.False(t, a.Open())
	assert.True(t, b.Open())

	a.Close()
	assert.True(t, b.Open())
}

func TestMenu_View(t *testing.T) {
	m, _ := testMenu()
	assert.Empty(t, m.View())

	m.Toggle()
	view := tuitest.StripANSI(m.View())
	assert.True(t, tuitest.ContainsInOrder(view, "One", "Two", "Three"))
	assert.Contains(t, tuitest.StripANSI(m.TriggerView()), "Menu ▴")
}

func TestMenu_LongLabelsTruncate(t *testing.T) {
	m := NewMenuModel("M", []MenuItem{{Label: "An extremely long menu label that never ends"}}, themes.Default, WithMenuWidth(12))
	m.Toggle()

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "…")
	assert.NotContains(t, view, "never ends")
	assert.Equal(t, 14, m.BodyRect().Width)
}

func TestMenu_Sections(t *testing.T) {
	m := NewMenuModel("M", []MenuItem{
		{Label: "Reload"},
		{Label: "New group", Section: "Admin"},
		{Label: "New category", Section: "Admin"},
	}, themes.Default)
	m.SetViewport(80, 24)
	m.Toggle()

	body := m.BodyRect()
	require.Equal(t, 4+2, body.Height)

	// The heading row is not an item.
	m, cmd := m.Update(tuitest.MouseClick(body.X+1, body.Y+2))
	assert.Nil(t, cmd)
	assert.True(t, m.Open())
}

func TestRect(t *testing.T) {
	r := Rect{X: 2, Y: 3, Width: 4, Height: 2}
	assert.True(t, r.Contains(2, 3))
	assert.True(t, r.Contains(5, 4))
	assert.False(t, r.Contains(6, 4))
	assert.False(t, r.Contains(2, 5))
	assert.True(t, Rect{}.Empty())
}
