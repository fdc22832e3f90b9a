package components

import (
	"strings"

	"github.com/Veraticus/spice-console/internal/admin"
	"github.com/Veraticus/spice-console/internal/model"
	"github.com/Veraticus/spice-console/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Header hotkeys.
const (
	NavMenuKey  = "m"
	UserMenuKey = "u"
)

var tabs = []struct {
	route string
	label string
}{
	{RouteGroups, "Groups"},
	{RouteCategories, "Categories"},
	{RouteCurrencies, "Currencies"},
}

// HeaderModel is the console chrome: a navigation menu, the screen tabs and
// a user menu whose admin section depends on the identity's roles. Keys go
// to the most recently opened menu.
type HeaderModel struct {
	theme       themes.Theme
	identity    model.Identity
	nav         MenuModel
	user        MenuModel
	active      string
	width       int
	height      int
	userFocused bool
}

// NewHeaderModel creates the header. onLogout runs when the user picks
// "Log out".
func NewHeaderModel(theme themes.Theme, onLogout func()) HeaderModel {
	h := HeaderModel{
		theme:  theme,
		active: RouteGroups,
		nav:    NewMenuModel("≡ Menu", navItems(), theme),
		user:   NewMenuModel("guest", nil, theme, AlignRight(), WithLogout(onLogout)),
	}
	h.user.SetItems(userItems(h.identity))
	return h
}

// Nav returns the navigation menu.
func (h *HeaderModel) Nav() *MenuModel {
	return &h.nav
}

// User returns the user menu.
func (h *HeaderModel) User() *MenuModel {
	return &h.user
}

// AnyOpen reports whether either menu is open.
func (h HeaderModel) AnyOpen() bool {
	return h.nav.Open() || h.user.Open()
}

// Active returns the highlighted route.
func (h HeaderModel) Active() string {
	return h.active
}

// SetActive highlights route.
func (h *HeaderModel) SetActive(route string) {
	h.active = route
}

// SetIdentity rebuilds the user menu for identity.
func (h *HeaderModel) SetIdentity(identity model.Identity) {
	h.identity = identity
	name := identity.DisplayName
	if name == "" {
		name = identity.Subject
	}
	if name == "" {
		name = "guest"
	}
	h.user.SetTrigger(name)
	h.user.SetItems(userItems(identity))
	h.layout()
}

// SetSize lays the menus out for a width x height terminal. Each menu's
// backdrop is its own half of the screen so both can be open at once.
func (h *HeaderModel) SetSize(width, height int) {
	h.width = width
	h.height = height
	h.layout()
}

func (h *HeaderModel) layout() {
	half := h.width / 2
	h.nav.SetAnchor(0, 0)
	h.nav.SetViewport(h.width, h.height)
	h.nav.SetBackdrop(Rect{X: 0, Y: 0, Width: half, Height: h.height})

	h.user.SetAnchor(max(h.width-h.user.TriggerRect().Width, 0), 0)
	h.user.SetViewport(h.width, h.height)
	h.user.SetBackdrop(Rect{X: half, Y: 0, Width: h.width - half, Height: h.height})
}

// Captures reports whether msg belongs to the header: any key while a menu
// is open, or a menu hotkey.
func (h HeaderModel) Captures(msg tea.KeyMsg) bool {
	if h.AnyOpen() {
		return true
	}
	switch msg.String() {
	case NavMenuKey, UserMenuKey:
		return true
	}
	return false
}

// Update routes keys to the focused open menu and mouse presses to both
// menus; each menu decides from its own geometry.
func (h HeaderModel) Update(msg tea.Msg) (HeaderModel, tea.Cmd) {
	navWasOpen, userWasOpen := h.nav.Open(), h.user.Open()
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case h.AnyOpen():
			target := h.focusedMenu()
			var cmd tea.Cmd
			*target, cmd = target.Update(msg)
			cmds = append(cmds, cmd)
		case msg.String() == NavMenuKey:
			h.nav.Toggle()
		case msg.String() == UserMenuKey:
			h.user.Toggle()
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		h.nav, cmd = h.nav.Update(msg)
		cmds = append(cmds, cmd)
		h.user, cmd = h.user.Update(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		h.SetSize(msg.Width, msg.Height)
	}

	switch {
	case h.nav.Open() && !navWasOpen:
		h.userFocused = false
	case h.user.Open() && !userWasOpen:
		h.userFocused = true
	}

	return h, tea.Batch(cmds...)
}

// focusedMenu is the most recently opened menu that is still open.
func (h *HeaderModel) focusedMenu() *MenuModel {
	if h.userFocused && h.user.Open() {
		return &h.user
	}
	if h.nav.Open() {
		return &h.nav
	}
	return &h.user
}

// View renders the header bar and any open menu bodies beneath it.
func (h HeaderModel) View() string {
	left := h.nav.TriggerView() + "  " + h.renderTabs()
	right := h.user.TriggerView()
	gap := max(h.width-ansi.StringWidth(left)-ansi.StringWidth(right), 1)
	bar := h.theme.HeaderBar.Render(left + strings.Repeat(" ", gap) + right)

	navBody, userBody := h.nav.View(), h.user.View()
	if navBody == "" && userBody == "" {
		return bar
	}

	spacer := max(h.width-lipgloss.Width(navBody)-lipgloss.Width(userBody), 0)
	bodies := lipgloss.JoinHorizontal(lipgloss.Top, navBody, strings.Repeat(" ", spacer), userBody)
	return lipgloss.JoinVertical(lipgloss.Left, bar, bodies)
}

func (h HeaderModel) renderTabs() string {
	parts := make([]string, len(tabs))
	for i, tab := range tabs {
		if tab.route == h.active {
			parts[i] = h.theme.ActiveTab.Render(tab.label)
		} else {
			parts[i] = h.theme.Tab.Render(tab.label)
		}
	}
	return strings.Join(parts, "")
}

func navItems() []MenuItem {
	items := make([]MenuItem, 0, len(tabs)+2)
	for _, tab := range tabs {
		route := tab.route
		items = append(items, MenuItem{
			Label:  tab.label,
			Action: func() tea.Cmd { return emit(NavigateMsg{Route: route}) },
		})
	}
	items = append(items,
		MenuItem{Label: "Help", Action: func() tea.Cmd { return emit(ShowHelpMsg{}) }},
		MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	)
	return items
}

func userItems(identity model.Identity) []MenuItem {
	items := []MenuItem{
		{Label: "Reload", Action: func() tea.Cmd { return emit(ReloadRequestMsg{}) }},
		{Label: "Log out", Logout: true},
	}
	if !identity.IsAdmin() {
		return items
	}
	for _, kind := range []struct {
		kind  admin.EntityKind
		label string
	}{
		{admin.KindGroup, "New group"},
		{admin.KindCategory, "New category"},
		{admin.KindCurrency, "New currency"},
	} {
		kind := kind
		items = append(items, MenuItem{
			Label:   kind.label,
			Section: "Admin",
			Action:  func() tea.Cmd { return emit(OpenCreateMsg{Kind: kind.kind}) },
		})
	}
	return items
}
