package admin

import (
	"context"
	"sync"

	"github.com/Veraticus/spice-console/internal/common"
)

// Deleter deletes a record of any kind and reloads its collection.
type Deleter interface {
	Delete(ctx context.Context, kind EntityKind, id string) error
}

// PendingDelete is the target awaiting confirmation.
type PendingDelete struct {
	Kind  EntityKind
	ID    string
	Label string
}

// DeleteWorkflow gates destructive actions behind a confirmation step. At
// most one target is pending.
type DeleteWorkflow struct {
	deleter Deleter
	pending *PendingDelete
	mu      sync.Mutex
}

// NewDeleteWorkflow creates an idle workflow.
func NewDeleteWorkflow(deleter Deleter) *DeleteWorkflow {
	return &DeleteWorkflow{deleter: deleter}
}

// Request asks for confirmation of a delete, replacing any pending target.
func (w *DeleteWorkflow) Request(kind EntityKind, id, label string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = &PendingDelete{Kind: kind, ID: id, Label: label}
}

// Pending returns the target awaiting confirmation.
func (w *DeleteWorkflow) Pending() (PendingDelete, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return PendingDelete{}, false
	}
	return *w.pending, true
}

// Cancel abandons the pending target.
func (w *DeleteWorkflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = nil
}

// Confirm deletes the pending target and returns it. The workflow is idle
// afterwards whether or not the delete succeeded.
func (w *DeleteWorkflow) Confirm(ctx context.Context) (PendingDelete, error) {
	w.mu.Lock()
	target := w.pending
	w.pending = nil
	w.mu.Unlock()

	if target == nil {
		return PendingDelete{}, ErrNothingPending
	}

	if err := w.deleter.Delete(ctx, target.Kind, target.ID); err != nil {
		common.LogError(err, "delete failed", common.Fields{
			"kind": string(target.Kind),
			"id":   target.ID,
		})
		return *target, err
	}
	common.LogInfo("record deleted", common.Fields{"kind": string(target.Kind), "id": target.ID})
	return *target, nil
}
