package tui

import (
	"errors"
	"fmt"

	"github.com/Veraticus/spice-console/internal/admin"
	"github.com/Veraticus/spice-console/internal/common"
	"github.com/Veraticus/spice-console/internal/model"
	"github.com/Veraticus/spice-console/internal/tui/components"
	"github.com/Veraticus/spice-console/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

var screens = []string{
	components.RouteGroups,
	components.RouteCategories,
	components.RouteCurrencies,
}

var screenKinds = map[string]admin.EntityKind{
	components.RouteGroups:     admin.KindGroup,
	components.RouteCategories: admin.KindCategory,
	components.RouteCurrencies: admin.KindCurrency,
}

var errReadOnly = errors.New("read-only: the admin role is required to edit")

// Model holds the console screen state.
type Model struct {
	theme        themes.Theme
	lastError    error
	config       Config
	coord        *admin.Coordinator
	groupForm    *admin.FormController[model.CategoryGroup]
	categoryForm *admin.FormController[model.Category]
	currencyForm *admin.FormController[model.Currency]
	deletes      *admin.DeleteWorkflow
	form         *components.FormModel
	confirm      *components.ConfirmModel
	tables       map[string]components.TableModel
	header       components.HeaderModel
	identity     model.Identity
	help         help.Model
	spinner      spinner.Model
	keymap       KeyMap
	status       string
	screen       string
	loading      int
	width        int
	height       int
	showHelp     bool
	quitting     bool
	ready        bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	coord := admin.NewCoordinator(cfg.Backend, nil)

	m := Model{
		theme:        cfg.Theme,
		config:       cfg,
		coord:        coord,
		groupForm:    admin.NewFormController(admin.GroupKind(coord)),
		categoryForm: admin.NewFormController(admin.CategoryKind(coord)),
		currencyForm: admin.NewFormController(admin.CurrencyKind(coord)),
		deletes:      admin.NewDeleteWorkflow(coord),
		header:       components.NewHeaderModel(cfg.Theme, cfg.OnLogout),
		help:         help.New(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		keymap:       DefaultKeyMap(),
		screen:       components.RouteGroups,
		width:        cfg.Width,
		height:       cfg.Height,
		tables: map[string]components.TableModel{
			components.RouteGroups: components.NewTableModel([]table.Column{
				{Title: "", Width: 3},
				{Title: "Name", Width: 24},
				{Title: "Color", Width: 9},
				{Title: "Active", Width: 6},
			}, cfg.PageSize, cfg.Theme),
			components.RouteCategories: components.NewTableModel([]table.Column{
				{Title: "Name", Width: 24},
				{Title: "Group", Width: 24},
				{Title: "Description", Width: 32},
			}, cfg.PageSize, cfg.Theme),
			components.RouteCurrencies: components.NewTableModel([]table.Column{
				{Title: "Code", Width: 5},
				{Title: "Name", Width: 20},
				{Title: "Symbol", Width: 10},
				{Title: "Active", Width: 6},
				{Title: "Default", Width: 7},
				{Title: "Created", Width: 10},
			}, cfg.PageSize, cfg.Theme),
		},
	}
	m.header.SetSize(cfg.Width, cfg.Height)
	if cfg.Backend != nil {
		m.loading = len(screens)
	}
	return m
}

// Init loads every collection and the identity.
func (m Model) Init() tea.Cmd {
	if m.config.Backend == nil {
		return nil
	}
	return tea.Batch(
		m.load(admin.KindGroup),
		m.load(admin.KindCategory),
		m.load(admin.KindCurrency),
		m.loadIdentity(),
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		if m.form != nil && m.form.Form().Submitting() {
			form, cmd := m.form.Update(msg)
			m.form = &form
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case collectionLoadedMsg:
		m.loading = max(m.loading-1, 0)
		m.ready = true
		if msg.err != nil {
			m.setError(msg.err)
		}
		m.refreshTables()
		return m, nil

	case identityLoadedMsg:
		if msg.err != nil {
			m.setError(common.NewUserError("could not determine the signed-in user", msg.err))
			return m, nil
		}
		m.identity = msg.identity
		m.header.SetIdentity(msg.identity)
		return m, nil

	case formSubmittedMsg:
		return m.handleSubmitted(msg), nil

	case deleteDoneMsg:
		m.refreshTables()
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Deleted %s %s", msg.target.Kind, msg.target.Label))
		return m, nil

	case components.NavigateMsg:
		if msg.Route == components.RouteLogout {
			return m.quit()
		}
		m.switchScreen(msg.Route)
		return m, nil

	case components.ReloadRequestMsg:
		cmd := m.loadAll()
		return m, cmd

	case components.OpenCreateMsg:
		m.openCreate(msg.Kind)
		return m, nil

	case components.ShowHelpMsg:
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case components.SubmitFormMsg:
		if m.form == nil {
			return m, nil
		}
		return m, m.submit(m.form.Form())

	case components.FormCanceledMsg:
		m.form = nil
		return m, nil

	case components.ConfirmDeleteMsg:
		m.confirm = nil
		return m, m.confirmDelete()

	case components.CancelDeleteMsg:
		m.deletes.Cancel()
		m.confirm = nil
		return m, nil

	case tea.MouseMsg:
		if m.form != nil || m.confirm != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.header, cmd = m.header.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes a key to the modal, the header menus or the screen, in
// that order.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return m.quit()
	}

	if m.confirm != nil {
		confirm, cmd := m.confirm.Update(msg)
		m.confirm = &confirm
		return m, cmd
	}

	if m.form != nil {
		form, cmd := m.form.Update(msg)
		m.form = &form
		return m, cmd
	}

	if m.header.Captures(msg) {
		var cmd tea.Cmd
		m.header, cmd = m.header.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m.quit()
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keymap.NextTab):
		m.switchScreen(m.adjacentScreen(1))
	case key.Matches(msg, m.keymap.PrevTab):
		m.switchScreen(m.adjacentScreen(-1))
	case key.Matches(msg, m.keymap.Reload):
		cmd := m.loadAll()
		return m, cmd
	case key.Matches(msg, m.keymap.New):
		m.openCreate(screenKinds[m.screen])
	case key.Matches(msg, m.keymap.Edit):
		m.openEdit()
	case key.Matches(msg, m.keymap.Delete):
		m.requestDelete()
	default:
		t, cmd := m.tables[m.screen].Update(msg)
		m.tables[m.screen] = t
		return m, cmd
	}
	return m, nil
}

func (m Model) handleSubmitted(msg formSubmittedMsg) Model {
	m.refreshTables()

	// A result from an earlier session never touches the form now on screen.
	active := m.form != nil && m.form.Form().Kind() == msg.kind &&
		m.form.Form().Session() == msg.session
	if active && !m.form.Form().IsOpen() {
		m.form = nil
		active = false
	}

	if msg.err != nil {
		if active {
			m.form.SetErr(msg.err)
		} else {
			m.setError(msg.err)
		}
		return m
	}
	m.setStatus(fmt.Sprintf("Saved %s", msg.kind))
	return m
}

func (m *Model) formFor(kind admin.EntityKind) admin.Form {
	switch kind {
	case admin.KindGroup:
		return m.groupForm
	case admin.KindCategory:
		return m.categoryForm
	case admin.KindCurrency:
		return m.currencyForm
	}
	return nil
}

func (m *Model) openCreate(kind admin.EntityKind) {
	if !m.identity.IsAdmin() {
		m.setError(errReadOnly)
		return
	}
	switch kind {
	case admin.KindGroup:
		m.groupForm.OpenForCreate()
	case admin.KindCategory:
		m.categoryForm.OpenForCreate()
	case admin.KindCurrency:
		m.currencyForm.OpenForCreate()
	default:
		return
	}
	m.switchScreen(routeFor(kind))
	form := components.NewFormModel(m.formFor(kind), m.theme)
	m.form = &form
}

func (m *Model) openEdit() {
	if !m.identity.IsAdmin() {
		m.setError(errReadOnly)
		return
	}
	idx := m.tables[m.screen].Selected()
	if idx < 0 {
		return
	}

	snap := m.coord.Snapshot()
	kind := screenKinds[m.screen]
	switch kind {
	case admin.KindGroup:
		if idx >= len(snap.Groups) {
			return
		}
		m.groupForm.OpenForEdit(snap.Groups[idx])
	case admin.KindCategory:
		if idx >= len(snap.Categories) {
			return
		}
		m.categoryForm.OpenForEdit(snap.Categories[idx])
	case admin.KindCurrency:
		if idx >= len(snap.Currencies) {
			return
		}
		m.currencyForm.OpenForEdit(snap.Currencies[idx])
	}
	form := components.NewFormModel(m.formFor(kind), m.theme)
	m.form = &form
}

func (m *Model) requestDelete() {
	if !m.identity.IsAdmin() {
		m.setError(errReadOnly)
		return
	}
	idx := m.tables[m.screen].Selected()
	if idx < 0 {
		return
	}
	kind := screenKinds[m.screen]
	id, label, ok := deleteLabel(kind, m.coord.Snapshot(), idx)
	if !ok {
		return
	}
	m.deletes.Request(kind, id, label)
	pending, _ := m.deletes.Pending()
	confirm := components.NewConfirmModel(pending, m.theme)
	m.confirm = &confirm
}

// refreshTables rebuilds every table from the coordinator's snapshot.
func (m *Model) refreshTables() {
	snap := m.coord.Snapshot()

	groups := make([]table.Row, len(snap.Groups))
	for i, g := range snap.Groups {
		groups[i] = table.Row{g.Emoji, g.Name, g.Color, yesNo(g.IsActive)}
	}

	categories := make([]table.Row, len(snap.Categories))
	for i, c := range snap.Categories {
		categories[i] = table.Row{c.Name, m.coord.GroupLabel(c), c.Description}
	}

	currencies := make([]table.Row, len(snap.Currencies))
	for i, c := range snap.Currencies {
		def := ""
		if c.IsDefault {
			def = "★"
		}
		created := ""
		if !c.CreatedAt.IsZero() {
			created = c.CreatedAt.Format("2006-01-02")
		}
		currencies[i] = table.Row{c.Code, c.Name, c.Symbol, yesNo(c.IsActive), def, created}
	}

	for route, rows := range map[string][]table.Row{
		components.RouteGroups:     groups,
		components.RouteCategories: categories,
		components.RouteCurrencies: currencies,
	} {
		t := m.tables[route]
		t.SetRows(rows)
		m.tables[route] = t
	}
}

func (m *Model) switchScreen(route string) {
	if _, ok := screenKinds[route]; !ok {
		return
	}
	m.screen = route
	m.header.SetActive(route)
}

func (m Model) adjacentScreen(delta int) string {
	for i, s := range screens {
		if s == m.screen {
			n := len(screens)
			return screens[((i+delta)%n+n)%n]
		}
	}
	return screens[0]
}

func (m *Model) setError(err error) {
	m.lastError = err
	m.status = ""
}

func (m *Model) setStatus(status string) {
	m.status = status
	m.lastError = nil
}

func (m Model) busy() bool {
	return m.loading > 0 || (m.form != nil && m.form.Form().Submitting())
}

// quit detaches every controller so late results are dropped.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.shutdown()
	return m, tea.Quit
}

func (m Model) shutdown() {
	m.groupForm.Detach()
	m.categoryForm.Detach()
	m.currencyForm.Detach()
	m.coord.Store().Close()
}

func routeFor(kind admin.EntityKind) string {
	for route, k := range screenKinds {
		if k == kind {
			return route
		}
	}
	return components.RouteGroups
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
