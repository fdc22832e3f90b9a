package components

import (
	"github.com/Veraticus/spice-console/internal/admin"
	tea "github.com/charmbracelet/bubbletea"
)

// Routes the header navigates between.
const (
	RouteGroups     = "groups"
	RouteCategories = "categories"
	RouteCurrencies = "currencies"
	RouteLogout     = "logout"
)

// NavigateMsg asks the console to switch to Route.
type NavigateMsg struct {
	Route string
}

// ReloadRequestMsg asks the console to reload every collection.
type ReloadRequestMsg struct{}

// OpenCreateMsg asks the console to open the create form of Kind.
type OpenCreateMsg struct {
	Kind admin.EntityKind
}

// ShowHelpMsg toggles the full key help.
type ShowHelpMsg struct{}

// SubmitFormMsg asks the console to submit the open form.
type SubmitFormMsg struct{}

// FormCanceledMsg reports that the open form was canceled.
type FormCanceledMsg struct{}

// ConfirmDeleteMsg confirms the pending delete.
type ConfirmDeleteMsg struct{}

// CancelDeleteMsg abandons the pending delete.
type CancelDeleteMsg struct{}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
