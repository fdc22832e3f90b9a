package components

import (
	"github.com/Veraticus/spice-console/internal/admin"
	"github.com/Veraticus/spice-console/internal/tui/themes"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TableModel shows one page of rows at a time. Rows keep the collaborator's
// order; paging only slices it.
type TableModel struct {
	theme     themes.Theme
	rows      []table.Row
	table     table.Model
	paginator paginator.Model
	empty     string
}

// NewTableModel creates a table with perPage rows per page.
func NewTableModel(columns []table.Column, perPage int, theme themes.Theme) TableModel {
	if perPage <= 0 {
		perPage = 10
	}

	styles := table.DefaultStyles()
	styles.Header = theme.TableHeader
	styles.Selected = theme.TableSelected

	p := paginator.New()
	p.Type = paginator.Dots
	p.PerPage = perPage
	p.ActiveDot = lipgloss.NewStyle().Foreground(theme.Primary).Render("•")
	p.InactiveDot = lipgloss.NewStyle().Foreground(theme.Muted).Render("•")

	return TableModel{
		theme: theme,
		table: table.New(
			table.WithColumns(columns),
			table.WithFocused(true),
			table.WithHeight(perPage+2),
			table.WithStyles(styles),
		),
		paginator: p,
		empty:     "Nothing here yet. Press n to add one.",
	}
}

// SetRows replaces every row and keeps the page and cursor in range.
func (m *TableModel) SetRows(rows []table.Row) {
	m.rows = rows
	if len(rows) == 0 {
		m.paginator.TotalPages = 1
	} else {
		m.paginator.SetTotalPages(len(rows))
	}
	if m.paginator.Page >= m.paginator.TotalPages {
		m.paginator.Page = max(m.paginator.TotalPages-1, 0)
	}
	m.refresh()
}

// Len is the total number of rows across pages.
func (m TableModel) Len() int {
	return len(m.rows)
}

// Page is the zero-based current page.
func (m TableModel) Page() int {
	return m.paginator.Page
}

// Selected is the index of the selected row across all pages, or -1.
func (m TableModel) Selected() int {
	if len(m.rows) == 0 {
		return -1
	}
	idx := m.paginator.Page*m.paginator.PerPage + m.table.Cursor()
	if idx >= len(m.rows) {
		return -1
	}
	return idx
}

// Update moves the cursor and pages.
func (m TableModel) Update(msg tea.Msg) (TableModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.table.MoveUp(1)
	case "down", "j":
		m.table.MoveDown(1)
	case "right", "l", "pgdown":
		if !m.paginator.OnLastPage() {
			m.paginator.NextPage()
			m.refresh()
			m.table.GotoTop()
		}
	case "left", "h", "pgup":
		if m.paginator.Page > 0 {
			m.paginator.PrevPage()
			m.refresh()
			m.table.GotoTop()
		}
	}
	return m, nil
}

func (m *TableModel) refresh() {
	page := admin.Paginate(m.rows, m.paginator.Page, m.paginator.PerPage)
	m.table.SetRows(page)
	if m.table.Cursor() >= len(page) {
		m.table.SetCursor(max(len(page)-1, 0))
	}
}

// View renders the table and, with more than one page, the page dots.
func (m TableModel) View() string {
	if len(m.rows) == 0 {
		return m.theme.Faint.Render(m.empty)
	}
	if m.paginator.TotalPages <= 1 {
		return m.table.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.table.View(), "", m.paginator.View())
}
