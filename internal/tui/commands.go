package tui

import (
	"context"

	"github.com/Veraticus/spice-console/internal/admin"
	"github.com/Veraticus/spice-console/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// load reloads one collection through the coordinator.
func (m Model) load(kind admin.EntityKind) tea.Cmd {
	coord, timeout := m.coord, m.config.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return collectionLoadedMsg{kind: kind, err: coord.Reload(ctx, kind)}
	}
}

// loadAll reloads every collection. The loads run independently.
func (m *Model) loadAll() tea.Cmd {
	kinds := []admin.EntityKind{admin.KindGroup, admin.KindCategory, admin.KindCurrency}
	cmds := make([]tea.Cmd, 0, len(kinds)+1)
	for _, kind := range kinds {
		cmds = append(cmds, m.load(kind))
	}
	m.loading += len(kinds)
	cmds = append(cmds, m.spinner.Tick)
	return tea.Batch(cmds...)
}

// loadIdentity asks the collaborator who the credential belongs to.
func (m Model) loadIdentity() tea.Cmd {
	if m.config.Backend == nil {
		return nil
	}
	identity, timeout := m.config.Backend.Identity(), m.config.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		who, err := identity.WhoAmI(ctx)
		if err != nil {
			return identityLoadedMsg{err: err}
		}
		return identityLoadedMsg{identity: who}
	}
}

// submit runs the form's submit off the update loop.
func (m Model) submit(form admin.Form) tea.Cmd {
	timeout, session := m.config.RequestTimeout, form.Session()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return formSubmittedMsg{kind: form.Kind(), session: session, err: form.Submit(ctx)}
	}
}

// confirmDelete runs the pending delete.
func (m Model) confirmDelete() tea.Cmd {
	deletes, timeout := m.deletes, m.config.RequestTimeout
	if _, ok := deletes.Pending(); !ok {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		target, err := deletes.Confirm(ctx)
		return deleteDoneMsg{target: target, err: err}
	}
}

func deleteLabel(kind admin.EntityKind, snap admin.Snapshot, idx int) (string, string, bool) {
	switch kind {
	case admin.KindGroup:
		if idx < len(snap.Groups) {
			g := snap.Groups[idx]
			return g.ID, g.Label(), true
		}
	case admin.KindCategory:
		if idx < len(snap.Categories) {
			c := snap.Categories[idx]
			return c.ID, c.Name, true
		}
	case admin.KindCurrency:
		if idx < len(snap.Currencies) {
			c := snap.Currencies[idx]
			return c.ID, currencyLabel(c), true
		}
	}
	return "", "", false
}

func currencyLabel(c model.Currency) string {
	return c.Code + " " + c.Name
}
