package components

import (
	"testing"

	"github.com/Veraticus/spice-console/internal/admin"
	"github.com/Veraticus/spice-console/internal/model"
	tuitest "github.com/Veraticus/spice-console/internal/tui/testing"
	"github.com/Veraticus/spice-console/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldValue(t *testing.T, form admin.Form, name string) string {
	t.Helper()
	for _, f := range form.Fields() {
		if f.Name == name {
			return f.Value
		}
	}
	t.Fatalf("no field %q", name)
	return ""
}

func typeInto(m FormModel, text string) FormModel {
	for _, msg := range tuitest.Type(text) {
		m, _ = m.Update(msg)
	}
	return m
}

func newCurrencyForm() *admin.FormController[model.Currency] {
	return admin.NewFormController(admin.CurrencyKind(admin.NewCoordinator(nil, nil)))
}

func TestFormModel_CodeIsNormalizedWhileTyping(t *testing.T) {
	ctrl := newCurrencyForm()
	ctrl.OpenForCreate()
	m := NewFormModel(ctrl, themes.Default)
	require.Equal(t, admin.FieldCode, m.FocusedField())

	m = typeInto(m, "usdx")

	assert.Equal(t, "USD", fieldValue(t, ctrl, admin.FieldCode))
	assert.Contains(t, tuitest.StripANSI(m.View()), "USD")
}

func TestFormModel_FocusCycles(t *testing.T) {
	ctrl := newCurrencyForm()
	ctrl.OpenForCreate()
	m := NewFormModel(ctrl, themes.Default)

	m, _ = m.Update(tuitest.KeyTab())
	assert.Equal(t, admin.FieldName, m.FocusedField())
	m = typeInto(m, "US Dollar")
	assert.Equal(t, "US Dollar", fieldValue(t, ctrl, admin.FieldName))

	m, _ = m.Update(tuitest.KeyUp())
	m, _ = m.Update(tuitest.KeyUp())
	assert.Equal(t, admin.FieldDefault, m.FocusedField(), "focus wraps backwards")
}

func TestFormModel_EditLocksCode(t *testing.T) {
	ctrl := newCurrencyForm()
	ctrl.OpenForEdit(model.Currency{ID: "c1", Code: "EUR", Name: "Euro", Symbol: "€", IsActive: true})
	m := NewFormModel(ctrl, themes.Default)

	assert.Equal(t, admin.FieldName, m.FocusedField(), "the locked code is skipped")
	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "Edit currency")
	assert.Contains(t, view, "EUR (locked)")

	for range 5 {
		m, _ = m.Update(tuitest.KeyTab())
		assert.NotEqual(t, admin.FieldCode, m.FocusedField())
	}
}

func TestFormModel_Toggle(t *testing.T) {
	ctrl := newCurrencyForm()
	ctrl.OpenForCreate()
	m := NewFormModel(ctrl, themes.Default)
	for range 3 {
		m, _ = m.Update(tuitest.KeyTab())
	}
	require.Equal(t, admin.FieldActive, m.FocusedField())

	m, _ = m.Update(tuitest.KeySpace())
	assert.Equal(t, "false", fieldValue(t, ctrl, admin.FieldActive))
	m, _ = m.Update(tuitest.KeyRight())
	assert.Equal(t, "true", fieldValue(t, ctrl, admin.FieldActive))
}

func TestFormModel_ChoiceCycles(t *testing.T) {
	ctrl := admin.NewFormController(admin.GroupKind(admin.NewCoordinator(nil, nil)))
	ctrl.OpenForCreate()
	m := NewFormModel(ctrl, themes.Default)
	m, _ = m.Update(tuitest.KeyTab())
	require.Equal(t, admin.FieldColor, m.FocusedField())

	m, _ = m.Update(tuitest.KeyRight())
	assert.Equal(t, model.GroupColors[1], fieldValue(t, ctrl, admin.FieldColor))
	m, _ = m.Update(tuitest.KeyLeft())
	m, _ = m.Update(tuitest.KeyLeft())
	assert.Equal(t, model.GroupColors[len(model.GroupColors)-1], fieldValue(t, ctrl, admin.FieldColor))
	assert.Contains(t, tuitest.StripANSI(m.View()), "New group")
}

func TestFormModel_EscCancels(t *testing.T) {
	ctrl := newCurrencyForm()
	ctrl.OpenForCreate()
	m := NewFormModel(ctrl, themes.Default)
	m = typeInto(m, "jpy")

	_, cmd := m.Update(tuitest.KeyEsc())
	assert.False(t, ctrl.IsOpen())
	assert.Equal(t, []tea.Msg{FormCanceledMsg{}}, tuitest.Collect(cmd))
}

func TestFormModel_EnterRequestsSubmit(t *testing.T) {
	ctrl := newCurrencyForm()
	ctrl.OpenForCreate()
	m := NewFormModel(ctrl, themes.Default)

	_, cmd := m.Update(tuitest.KeyEnter())
	require.NotNil(t, cmd)
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)
	assert.Equal(t, SubmitFormMsg{}, batch[0]())
	assert.True(t, ctrl.IsOpen(), "submission is left to the console")
}

func TestFormModel_ShowsError(t *testing.T) {
	ctrl := newCurrencyForm()
	ctrl.OpenForCreate()
	m := NewFormModel(ctrl, themes.Default)

	m.SetErr(&admin.ValidationError{Field: admin.FieldName, Reason: "is required"})
	assert.Contains(t, tuitest.StripANSI(m.View()), "name is required")

	m.SetErr(nil)
	assert.NotContains(t, tuitest.StripANSI(m.View()), "is required")
}
