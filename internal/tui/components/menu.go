package components

import (
	"strings"

	"github.com/Veraticus/spice-console/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

const defaultMenuWidth = 28

// Rect is a screen region in cells.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// MenuItem is one entry of an overlay menu.
type MenuItem struct {
	// Action runs when the item is activated. The menu closes afterwards.
	Action func() tea.Cmd
	Label  string
	// Section groups items under a heading.
	Section string
	// Logout items call the menu's logout callback and navigate to
	// RouteLogout.
	Logout bool
}

// MenuOption configures a MenuModel.
type MenuOption func(*MenuModel)

// WithBackdrop narrows the region whose presses dismiss the menu. By default
// the backdrop is the whole viewport.
func WithBackdrop(r Rect) MenuOption {
	return func(m *MenuModel) {
		m.backdrop = r
	}
}

// WithLogout sets the callback logout items delegate to.
func WithLogout(fn func()) MenuOption {
	return func(m *MenuModel) {
		m.onLogout = fn
	}
}

// WithMenuWidth caps the body width; longer labels are truncated.
func WithMenuWidth(width int) MenuOption {
	return func(m *MenuModel) {
		m.maxWidth = width
	}
}

// AlignRight anchors the body's right edge to the trigger's right edge.
func AlignRight() MenuOption {
	return func(m *MenuModel) {
		m.alignRight = true
	}
}

// MenuModel is an open/closed pop-over with a trigger, a body of items and a
// backdrop that dismisses it. It performs no I/O; item actions return
// commands for the caller to run.
type MenuModel struct {
	theme      themes.Theme
	onLogout   func()
	trigger    string
	items      []MenuItem
	backdrop   Rect
	x          int
	y          int
	viewWidth  int
	viewHeight int
	maxWidth   int
	cursor     int
	alignRight bool
	open       bool
}

// NewMenuModel creates a closed menu.
func NewMenuModel(trigger string, items []MenuItem, theme themes.Theme, opts ...MenuOption) MenuModel {
	m := MenuModel{
		theme:    theme,
		trigger:  trigger,
		items:    items,
		maxWidth: defaultMenuWidth,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Open reports whether the menu is open.
func (m MenuModel) Open() bool {
	return m.open
}

// Toggle flips the menu between open and closed.
func (m *MenuModel) Toggle() {
	m.open = !m.open
	m.cursor = 0
}

// Close forces the menu closed.
func (m *MenuModel) Close() {
	m.open = false
	m.cursor = 0
}

// Cursor is the index of the focused item.
func (m MenuModel) Cursor() int {
	return m.cursor
}

// Items returns the menu entries.
func (m MenuModel) Items() []MenuItem {
	return m.items
}

// SetItems replaces the menu entries.
func (m *MenuModel) SetItems(items []MenuItem) {
	m.items = items
	if m.cursor >= len(items) {
		m.cursor = 0
	}
}

// SetTrigger changes the trigger label.
func (m *MenuModel) SetTrigger(label string) {
	m.trigger = label
}

// SetAnchor places the trigger at (x, y).
func (m *MenuModel) SetAnchor(x, y int) {
	m.x = x
	m.y = y
}

// SetViewport records the terminal size used for the default backdrop.
func (m *MenuModel) SetViewport(width, height int) {
	m.viewWidth = width
	m.viewHeight = height
}

// SetBackdrop narrows the backdrop. A zero Rect restores the full viewport.
func (m *MenuModel) SetBackdrop(r Rect) {
	m.backdrop = r
}

// TriggerRect is where the trigger is drawn.
func (m MenuModel) TriggerRect() Rect {
	return Rect{X: m.x, Y: m.y, Width: ansi.StringWidth(m.triggerLabel()), Height: 1}
}

// BodyRect is where the open body is drawn, border included.
func (m MenuModel) BodyRect() Rect {
	width := m.bodyWidth() + 2
	x := m.x
	if m.alignRight {
		x = m.x + m.TriggerRect().Width - width
	}
	return Rect{X: max(x, 0), Y: m.y + 1, Width: width, Height: len(m.lines()) + 2}
}

// BackdropRect is the dismiss region while open; it excludes the body.
func (m MenuModel) BackdropRect() Rect {
	if m.backdrop.Empty() {
		return Rect{Width: m.viewWidth, Height: m.viewHeight}
	}
	return m.backdrop
}

// Update handles keys while open and mouse presses on the trigger, body and
// backdrop.
func (m MenuModel) Update(msg tea.Msg) (MenuModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.open {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.Close()
		case "up", "k":
			if len(m.items) > 0 {
				m.cursor = (m.cursor + len(m.items) - 1) % len(m.items)
			}
		case "down", "j":
			if len(m.items) > 0 {
				m.cursor = (m.cursor + 1) % len(m.items)
			}
		case "enter":
			return m, m.activate(m.cursor)
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if m.TriggerRect().Contains(msg.X, msg.Y) {
			m.Toggle()
			return m, nil
		}
		if !m.open {
			return m, nil
		}
		body := m.BodyRect()
		if body.Contains(msg.X, msg.Y) {
			row := msg.Y - body.Y - 1
			lines := m.lines()
			if row >= 0 && row < len(lines) && lines[row].item >= 0 {
				return m, m.activate(lines[row].item)
			}
			return m, nil
		}
		if m.BackdropRect().Contains(msg.X, msg.Y) {
			m.Close()
		}
	}

	return m, nil
}

// activate runs item i and closes the menu.
func (m *MenuModel) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.items) {
		return nil
	}
	item := m.items[i]

	var cmds []tea.Cmd
	if item.Action != nil {
		cmds = append(cmds, item.Action())
	}
	if item.Logout {
		if m.onLogout != nil {
			m.onLogout()
		}
		cmds = append(cmds, emit(NavigateMsg{Route: RouteLogout}))
	}
	m.Close()
	return tea.Batch(cmds...)
}

// TriggerView renders the trigger.
func (m MenuModel) TriggerView() string {
	return m.theme.MenuTrigger.Render(m.triggerLabel())
}

// View renders the body while open and nothing while closed.
func (m MenuModel) View() string {
	if !m.open {
		return ""
	}

	width := m.bodyWidth()
	lines := m.lines()
	rendered := make([]string, len(lines))
	for i, line := range lines {
		text := ansi.Truncate(line.text, width, "…")
		text += strings.Repeat(" ", max(width-ansi.StringWidth(text), 0))
		switch {
		case line.item < 0:
			rendered[i] = m.theme.MenuSection.Render(text)
		case line.item == m.cursor:
			rendered[i] = m.theme.MenuCursor.Render(text)
		default:
			rendered[i] = m.theme.MenuItem.Render(text)
		}
	}
	return m.theme.MenuBody.Render(strings.Join(rendered, "\n"))
}

func (m MenuModel) triggerLabel() string {
	if m.open {
		return m.trigger + " ▴"
	}
	return m.trigger + " ▾"
}

type menuLine struct {
	text string
	item int
}

// lines lays out section headings and items; headings have item -1.
func (m MenuModel) lines() []menuLine {
	lines := make([]menuLine, 0, len(m.items))
	section := ""
	for i, item := range m.items {
		if item.Section != "" && item.Section != section {
			lines = append(lines, menuLine{text: item.Section, item: -1})
		}
		section = item.Section
		lines = append(lines, menuLine{text: " " + item.Label, item: i})
	}
	return lines
}

func (m MenuModel) bodyWidth() int {
	width := ansi.StringWidth(m.triggerLabel())
	for _, line := range m.lines() {
		width = max(width, ansi.StringWidth(line.text)+1)
	}
	if m.maxWidth > 0 {
		width = min(width, m.maxWidth)
	}
	return width
}
