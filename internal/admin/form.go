package admin

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/spice-console/internal/common"
)

// Mode is whether a form creates a record or edits an existing one.
type Mode int

// Form modes.
const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Form is the kind-independent view of a FormController.
type Form interface {
	Kind() EntityKind
	IsOpen() bool
	Mode() Mode
	Fields() []FieldState
	SetField(name, value string) error
	Submit(ctx context.Context) error
	Cancel()
	Submitting() bool
	Session() uint64
}

// FormController runs the create/edit lifecycle of one entity kind. It owns
// only its draft; committed records change through the kind's reload.
type FormController[T any] struct {
	kind       Kind[T]
	draft      T
	editID     string
	mu         sync.Mutex
	mode       Mode
	session    uint64
	open       bool
	submitting bool
	detached   bool
}

var _ Form = (*FormController[struct{}])(nil)

// NewFormController creates a closed controller for kind.
func NewFormController[T any](kind Kind[T]) *FormController[T] {
	return &FormController[T]{
		kind:  kind,
		draft: kind.Defaults(),
	}
}

// Kind returns the entity kind tag.
func (f *FormController[T]) Kind() EntityKind {
	return f.kind.Tag
}

// OpenForCreate shows the form with the kind's defaults.
func (f *FormController[T]) OpenForCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = f.kind.Defaults()
	f.editID = ""
	f.mode = ModeCreate
	f.open = true
	f.session++
}

// OpenForEdit shows the form seeded with a copy of record. Category drafts
// whose group is no longer loaded start out ungrouped.
func (f *FormController[T]) OpenForEdit(record T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = f.kind.seed(record)
	f.editID = f.kind.ID(record)
	f.mode = ModeEdit
	f.open = true
	f.session++
}

// IsOpen reports whether the form is visible.
func (f *FormController[T]) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Mode reports create or edit.
func (f *FormController[T]) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// EditID is the id of the record being edited, or "".
func (f *FormController[T]) EditID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editID
}

// Submitting reports whether a submit is outstanding.
func (f *FormController[T]) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Session identifies the current open/cancel cycle. It changes on every
// OpenForCreate, OpenForEdit and Cancel.
func (f *FormController[T]) Session() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

// Draft returns a copy of the current draft.
func (f *FormController[T]) Draft() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kind.clone(f.draft)
}

// Fields returns every field with its draft value.
func (f *FormController[T]) Fields() []FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()

	states := make([]FieldState, len(f.kind.Fields))
	for i, field := range f.kind.Fields {
		states[i] = FieldState{
			Field:    field,
			Value:    f.kind.Get(f.draft, field.Name),
			Disabled: field.ImmutableOnEdit && f.mode == ModeEdit,
		}
	}
	return states
}

// SetField writes an input-layer edit into the draft.
func (f *FormController[T]) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, ok := f.kind.field(name)
	if !ok {
		return fmt.Errorf("%w: %s %q", ErrUnknownField, f.kind.Tag, name)
	}
	if field.ImmutableOnEdit && f.mode == ModeEdit {
		return fmt.Errorf("%w: %s cannot change after creation", ErrFieldDisabled, name)
	}
	return f.kind.Set(&f.draft, name, field.Normalize(value))
}

// Submit validates the draft and sends it to the collaborator. On success
// the form closes, the draft resets and the kind's collection is reloaded;
// a failed reload is reported as a "reload" CollaboratorError after the form
// has closed. On failure the form stays open with the draft untouched. A
// submit that outlives its session (the form was cancelled or reopened
// meanwhile) still triggers the reload but leaves the new session alone.
func (f *FormController[T]) Submit(ctx context.Context) error {
	f.mu.Lock()
	switch {
	case f.detached:
		f.mu.Unlock()
		return ErrDetached
	case !f.open:
		f.mu.Unlock()
		return ErrFormClosed
	case f.submitting:
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	if err := f.kind.Validate(f.draft, f.mode); err != nil {
		f.mu.Unlock()
		return err
	}
	f.submitting = true
	draft := f.kind.clone(f.draft)
	mode, id, session := f.mode, f.editID, f.session
	f.mu.Unlock()

	var err error
	op := "create"
	if mode == ModeEdit {
		op = "update"
		_, err = f.kind.Collection().Update(ctx, id, draft)
	} else {
		_, err = f.kind.Collection().Create(ctx, draft)
	}

	f.mu.Lock()
	f.submitting = false
	if f.detached {
		f.mu.Unlock()
		return ErrDetached
	}
	if err != nil {
		f.mu.Unlock()
		collabErr := collaboratorError(op, f.kind.Tag, err)
		common.LogError(err, "submit failed", common.Fields{
			"kind": string(f.kind.Tag),
			"op":   op,
			"id":   id,
		})
		return collabErr
	}
	if f.session == session {
		f.open = false
		f.editID = ""
		f.mode = ModeCreate
		f.draft = f.kind.Defaults()
	}
	f.mu.Unlock()

	common.LogInfo("record saved", common.Fields{"kind": string(f.kind.Tag), "op": op, "id": id})

	if f.kind.Reload == nil {
		return nil
	}
	if err := reloadError(f.kind.Tag, f.kind.Reload(ctx)); err != nil {
		common.LogError(err, "reload after submit failed", common.Fields{"kind": string(f.kind.Tag)})
		return err
	}
	return nil
}

// Cancel discards the draft and closes the form.
func (f *FormController[T]) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = f.kind.Defaults()
	f.editID = ""
	f.mode = ModeCreate
	f.open = false
	f.session++
}

// Detach marks the owning view as gone. A submit that completes later is
// not applied.
func (f *FormController[T]) Detach() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detached = true
	f.open = false
}
