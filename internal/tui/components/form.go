package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/spice-console/internal/admin"
	"github.com/Veraticus/spice-console/internal/tui/themes"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FormModel renders an admin.Form as a modal and turns keys into field
// edits. Submission is requested with SubmitFormMsg; the console runs it.
type FormModel struct {
	form    admin.Form
	err     error
	theme   themes.Theme
	inputs  map[string]textinput.Model
	spinner spinner.Model
	focus   int
	width   int
}

// NewFormModel creates the view of form, focused on the first editable field.
func NewFormModel(form admin.Form, theme themes.Theme) FormModel {
	m := FormModel{
		form:    form,
		theme:   theme,
		inputs:  make(map[string]textinput.Model),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:   48,
	}
	for _, field := range form.Fields() {
		if field.Type != admin.FieldText {
			continue
		}
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = field.MaxRunes
		input.SetValue(field.Value)
		m.inputs[field.Name] = input
	}
	m.focus = m.nextEditable(-1, 1)
	m.focusInput()
	return m
}

// Form returns the controller behind the view.
func (m FormModel) Form() admin.Form {
	return m.form
}

// FocusedField names the field receiving input.
func (m FormModel) FocusedField() string {
	fields := m.form.Fields()
	if m.focus < 0 || m.focus >= len(fields) {
		return ""
	}
	return fields[m.focus].Name
}

// Err is the last error shown in the modal.
func (m FormModel) Err() error {
	return m.err
}

// SetErr shows err in the modal. nil clears it.
func (m *FormModel) SetErr(err error) {
	m.err = err
}

// Update handles field navigation, edits, submit and cancel.
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.form.Cancel()
			return m, emit(FormCanceledMsg{})
		case "enter", "ctrl+s":
			return m, tea.Batch(emit(SubmitFormMsg{}), m.spinner.Tick)
		case "tab", "down":
			m.focus = m.nextEditable(m.focus, 1)
			m.focusInput()
			return m, nil
		case "shift+tab", "up":
			m.focus = m.nextEditable(m.focus, -1)
			m.focusInput()
			return m, nil
		}
		return m.editFocused(msg)
	}
	return m, nil
}

func (m FormModel) editFocused(msg tea.KeyMsg) (FormModel, tea.Cmd) {
	fields := m.form.Fields()
	if m.focus < 0 || m.focus >= len(fields) {
		return m, nil
	}
	field := fields[m.focus]
	if field.Disabled {
		return m, nil
	}

	switch field.Type {
	case admin.FieldText:
		input := m.inputs[field.Name]
		var cmd tea.Cmd
		input, cmd = input.Update(msg)
		if input.Value() != field.Value {
			m.err = m.form.SetField(field.Name, input.Value())
			m.syncInput(input, field.Name)
		} else {
			m.inputs[field.Name] = input
		}
		return m, cmd

	case admin.FieldToggle:
		switch msg.String() {
		case " ", "space", "left", "right", "h", "l":
			on, _ := strconv.ParseBool(field.Value)
			m.err = m.form.SetField(field.Name, strconv.FormatBool(!on))
		}

	case admin.FieldChoice:
		delta := 0
		switch msg.String() {
		case "right", "l", " ", "space":
			delta = 1
		case "left", "h":
			delta = -1
		}
		if delta != 0 && field.Options != nil {
			m.err = m.form.SetField(field.Name, admin.CycleOption(field.Options(), field.Value, delta))
		}
	}
	return m, nil
}

// syncInput shows the normalized draft value, e.g. an upper-cased code.
func (m *FormModel) syncInput(input textinput.Model, name string) {
	for _, f := range m.form.Fields() {
		if f.Name == name && input.Value() != f.Value {
			input.SetValue(f.Value)
			input.CursorEnd()
		}
	}
	m.inputs[name] = input
}

func (m *FormModel) focusInput() {
	name := m.FocusedField()
	for key, input := range m.inputs {
		if key == name {
			input.Focus()
		} else {
			input.Blur()
		}
		m.inputs[key] = input
	}
}

// nextEditable steps from i in direction dir, skipping disabled fields.
func (m FormModel) nextEditable(i, dir int) int {
	fields := m.form.Fields()
	n := len(fields)
	if n == 0 {
		return -1
	}
	for step := 1; step <= n; step++ {
		j := ((i+dir*step)%n + n) % n
		if !fields[j].Disabled {
			return j
		}
	}
	return i
}

// View renders the modal.
func (m FormModel) View() string {
	verb := "New"
	if m.form.Mode() == admin.ModeEdit {
		verb = "Edit"
	}
	title := m.theme.Title.Render(fmt.Sprintf("%s %s", verb, m.form.Kind()))

	fields := m.form.Fields()
	rows := make([]string, 0, len(fields))
	for i, field := range fields {
		rows = append(rows, m.renderField(i, field))
	}

	footer := m.theme.Faint.Render("[Tab] next  [←/→] change  [Enter] save  [Esc] cancel")
	if m.form.Submitting() {
		footer = m.spinner.View() + " saving…"
	}

	sections := []string{title, "", strings.Join(rows, "\n"), ""}
	if m.err != nil {
		sections = append(sections, m.theme.StatusError.Render(m.err.Error()), "")
	}
	sections = append(sections, footer)

	return m.theme.Modal.Width(m.width).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m FormModel) renderField(i int, field admin.FieldState) string {
	labelStyle := m.theme.FieldLabel
	if i == m.focus {
		labelStyle = m.theme.FieldFocused
	}
	label := labelStyle.Render(field.Label)

	var value string
	switch field.Type {
	case admin.FieldText:
		if input, ok := m.inputs[field.Name]; ok && !field.Disabled {
			value = input.View()
		} else {
			value = field.Value
		}
	case admin.FieldToggle:
		if on, _ := strconv.ParseBool(field.Value); on {
			value = "[x]"
		} else {
			value = "[ ]"
		}
	case admin.FieldChoice:
		current := field.Value
		if field.Options != nil {
			current = admin.OptionLabel(field.Options(), field.Value)
		}
		value = "‹ " + current + " ›"
	}

	if field.Disabled {
		return label + m.theme.FieldDisabled.Render(value+" (locked)")
	}
	return label + value
}
