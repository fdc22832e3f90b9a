package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/spice-console/internal/admin"
	"github.com/Veraticus/spice-console/internal/model"
	"github.com/Veraticus/spice-console/internal/storage"
	"github.com/Veraticus/spice-console/internal/tui/components"
	tuitest "github.com/Veraticus/spice-console/internal/tui/testing"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminUser  = model.Identity{Subject: "ada", DisplayName: "Ada", Roles: []string{model.RoleAdmin}}
	viewerUser = model.Identity{Subject: "bob", DisplayName: "Bob"}
)

func newTestBackend(t *testing.T, identity model.Identity) *storage.Backend {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	backend := storage.NewBackend(store, identity)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func startConsole(t *testing.T, backend *storage.Backend, opts ...Option) *tuitest.Driver {
	t.Helper()
	cfg := defaultConfig()
	cfg.Backend = backend
	for _, opt := range opts {
		opt(&cfg)
	}
	m := newModel(cfg)

	d := tuitest.NewDriver(m, spinner.TickMsg{})
	d.Run(m.Init())
	return d
}

func consoleModel(t *testing.T, d *tuitest.Driver) Model {
	t.Helper()
	m, ok := d.Model.(Model)
	require.True(t, ok)
	return m
}

func TestConsole_Startup(t *testing.T) {
	d := startConsole(t, newTestBackend(t, adminUser))
	m := consoleModel(t, d)

	assert.True(t, m.ready)
	assert.Equal(t, 0, m.loading)
	assert.Equal(t, adminUser, m.identity)

	view := d.Plain()
	assert.Contains(t, view, "Category groups")
	assert.Contains(t, view, "0 records")
	assert.Contains(t, view, "Ada")
}

func TestConsole_LoadingView(t *testing.T) {
	cfg := defaultConfig()
	cfg.Backend = newTestBackend(t, adminUser)
	m := newModel(cfg)
	assert.Contains(t, m.View(), "Loading taxonomy")
}

func TestConsole_CreateTaxonomyAndCurrency(t *testing.T) {
	d := startConsole(t, newTestBackend(t, adminUser))

	// Group.
	d.Send(tuitest.KeyPress("n"))
	require.NotNil(t, consoleModel(t, d).form)
	d.Send(tuitest.KeyPress("Food"), tuitest.KeyEnter())

	m := consoleModel(t, d)
	require.Nil(t, m.form)
	require.Len(t, m.coord.Snapshot().Groups, 1)
	assert.Contains(t, d.Plain(), "Food")
	assert.Contains(t, d.Plain(), "Saved group")

	// Category in that group.
	d.Send(tuitest.KeyTab())
	assert.Equal(t, components.RouteCategories, consoleModel(t, d).screen)
	d.Send(
		tuitest.KeyPress("n"),
		tuitest.KeyPress("Groceries"),
		tuitest.KeyTab(),
		tuitest.KeyRight(),
		tuitest.KeyEnter(),
	)

	m = consoleModel(t, d)
	require.Nil(t, m.form)
	snap := m.coord.Snapshot()
	require.Len(t, snap.Categories, 1)
	require.NotNil(t, snap.Categories[0].GroupID)
	assert.Equal(t, snap.Groups[0].ID, *snap.Categories[0].GroupID)
	assert.True(t, tuitest.ContainsInOrder(d.Plain(), "Groceries", "Food"))

	// Currency.
	d.Send(tuitest.KeyTab())
	d.Send(
		tuitest.KeyPress("n"),
		tuitest.KeyPress("usd"),
		tuitest.KeyTab(),
		tuitest.KeyPress("US Dollar"),
		tuitest.KeyTab(),
		tuitest.KeyPress("$"),
		tuitest.KeyEnter(),
	)

	m = consoleModel(t, d)
	require.Nil(t, m.form)
	require.Len(t, m.coord.Snapshot().Currencies, 1)
	assert.Equal(t, "USD", m.coord.Snapshot().Currencies[0].Code)
	assert.True(t, tuitest.ContainsInOrder(d.Plain(), "USD", "US Dollar", "$"))
}

func TestConsole_InvalidSubmitKeepsForm(t *testing.T) {
	d := startConsole(t, newTestBackend(t, adminUser))

	d.Send(tuitest.KeyPress("n"), tuitest.KeyEnter())

	m := consoleModel(t, d)
	require.NotNil(t, m.form)
	assert.Contains(t, d.Plain(), "name is required")
	assert.Empty(t, m.coord.Snapshot().Groups)

	d.Send(tuitest.KeyEsc())
	assert.Nil(t, consoleModel(t, d).form)
}

func TestConsole_StaleSubmitResultSparesReopenedForm(t *testing.T) {
	d := startConsole(t, newTestBackend(t, adminUser))
	d.Send(tuitest.KeyPress("n"), tuitest.KeyPress("Rent"))

	m := consoleModel(t, d)
	require.NotNil(t, m.form)
	current := m.form.Form().Session()

	d.Send(formSubmittedMsg{kind: admin.KindGroup, session: current - 1, err: errors.New("create timed out")})

	m = consoleModel(t, d)
	require.NotNil(t, m.form)
	assert.True(t, m.form.Form().IsOpen())
	assert.NoError(t, m.form.Err())
	assert.EqualError(t, m.lastError, "create timed out")
	assert.Contains(t, d.Plain(), "Rent")
}

func TestConsole_EditGroup(t *testing.T) {
	d := startConsole(t, newTestBackend(t, adminUser))
	d.Send(tuitest.KeyPress("n"), tuitest.KeyPress("Food"), tuitest.KeyEnter())

	d.Send(tuitest.KeyPress("e"))
	require.NotNil(t, consoleModel(t, d).form)
	assert.Contains(t, d.Plain(), "Edit group")

	d.Send(tuitest.KeyPress(" & Drink"), tuitest.KeyEnter())
	groups := consoleModel(t, d).coord.Snapshot().Groups
	require.Len(t, groups, 1)
	assert.Equal(t, "Food & Drink", groups[0].Name)
}

func TestConsole_DeleteNeedsConfirmation(t *testing.T) {
	d := startConsole(t, newTestBackend(t, adminUser))
	d.Send(tuitest.KeyPress("n"), tuitest.KeyPress("Food"), tuitest.KeyEnter())

	d.Send(tuitest.KeyPress("d"))
	assert.Contains(t, d.Plain(), `Delete group "🍔 Food"?`)

	d.Send(tuitest.KeyPress("n"))
	m := consoleModel(t, d)
	assert.Nil(t, m.confirm)
	assert.Len(t, m.coord.Snapshot().Groups, 1)

	d.Send(tuitest.KeyPress("d"), tuitest.KeyPress("y"))
	m = consoleModel(t, d)
	assert.Nil(t, m.confirm)
	assert.Empty(t, m.coord.Snapshot().Groups)
	assert.Contains(t, d.Plain(), "Deleted group")
	_, pending := m.deletes.Pending()
	assert.False(t, pending)
}

func TestConsole_ReadOnlyForViewers(t *testing.T) {
	d := startConsole(t, newTestBackend(t, viewerUser))

	for _, k := range []string{"n", "e", "d"} {
		d.Send(tuitest.KeyPress(k))
		m := consoleModel(t, d)
		assert.Nil(t, m.form)
		assert.Nil(t, m.confirm)
	}
	assert.Contains(t, d.Plain(), "read-only")

	d.Send(components.OpenCreateMsg{Kind: admin.KindCurrency})
	assert.Nil(t, consoleModel(t, d).form)
}

func TestConsole_UserMenuCreate(t *testing.T) {
	d := startConsole(t, newTestBackend(t, adminUser))

	d.Send(tuitest.KeyPress("u"))
	for range 3 {
		d.Send(tuitest.KeyDown())
	}
	d.Send(tuitest.KeyEnter())

	m := consoleModel(t, d)
	require.NotNil(t, m.form)
	assert.Equal(t, admin.KindCategory, m.form.Form().Kind())
	assert.Equal(t, components.RouteCategories, m.screen)
}

func TestConsole_NavigationMenu(t *testing.T) {
	d := startConsole(t, newTestBackend(t, adminUser))

	d.Send(tuitest.KeyPress("m"), tuitest.KeyDown(), tuitest.KeyDown(), tuitest.KeyEnter())
	m := consoleModel(t, d)
	assert.Equal(t, components.RouteCurrencies, m.screen)
	assert.False(t, m.header.AnyOpen())
}

func TestConsole_LogoutQuits(t *testing.T) {
	logouts := 0
	d := startConsole(t, newTestBackend(t, adminUser), WithLogout(func() { logouts++ }))

	d.Send(tuitest.KeyPress("u"), tuitest.KeyDown(), tuitest.KeyEnter())

	assert.Equal(t, 1, logouts)
	assert.True(t, d.Quit)
	assert.Empty(t, d.View())
	assert.True(t, consoleModel(t, d).coord.Store().Closed())
}

func TestConsole_LoadFailureIsShown(t *testing.T) {
	backend := newTestBackend(t, adminUser)
	require.NoError(t, backend.Close())

	d := startConsole(t, backend)
	m := consoleModel(t, d)
	assert.True(t, m.ready)
	require.Error(t, m.lastError)
	assert.Contains(t, d.Plain(), "Error: failed to list")
}

func TestConsole_ReloadPicksUpExternalChanges(t *testing.T) {
	backend := newTestBackend(t, adminUser)
	d := startConsole(t, backend)

	_, err := backend.Currencies().Create(context.Background(), model.Currency{Code: "EUR", Name: "Euro", Symbol: "€", IsActive: true})
	require.NoError(t, err)
	assert.Empty(t, consoleModel(t, d).coord.Snapshot().Currencies)

	d.Send(tuitest.KeyPress("r"))
	assert.Len(t, consoleModel(t, d).coord.Snapshot().Currencies, 1)
	assert.Equal(t, 0, consoleModel(t, d).loading)
}
