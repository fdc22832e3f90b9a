package tui

import (
	"github.com/Veraticus/spice-console/internal/admin"
	"github.com/Veraticus/spice-console/internal/model"
)

// Data loading messages.
type collectionLoadedMsg struct {
	err  error
	kind admin.EntityKind
}

type identityLoadedMsg struct {
	err      error
	identity model.Identity
}

// Write completion messages.
type formSubmittedMsg struct {
	err     error
	kind    admin.EntityKind
	session uint64
}

type deleteDoneMsg struct {
	err    error
	target admin.PendingDelete
}
