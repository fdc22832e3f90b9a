// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/spice-console/internal/model"
)

// Collection is the CRUD contract of one collaborator resource.
// List returns records in the collaborator's order; the console never re-sorts.
type Collection[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id string, record T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Groups is the category group resource.
type Groups = Collection[model.CategoryGroup]

// Categories is the category resource. List may embed group snapshots.
type Categories = Collection[model.Category]

// Currencies is the currency resource. Update ignores the code field.
type Currencies = Collection[model.Currency]

// IdentityService answers "who am I" for the current credential.
type IdentityService interface {
	WhoAmI(ctx context.Context) (model.Identity, error)
}

// Backend bundles every resource the console talks to.
type Backend interface {
	Groups() Groups
	Categories() Categories
	Currencies() Currencies
	Identity() IdentityService
	Close() error
}
