package storage

import (
	"context"

	"github.com/Veraticus/spice-console/internal/model"
	"github.com/Veraticus/spice-console/internal/service"
)

// Backend adapts SQLiteStorage to the collaborator contracts the console uses.
type Backend struct {
	store    *SQLiteStorage
	identity model.Identity
}

// Ensure we implement the interface.
var _ service.Backend = (*Backend)(nil)

// NewBackend wraps store. identity answers WhoAmI for local sessions.
func NewBackend(store *SQLiteStorage, identity model.Identity) *Backend {
	return &Backend{store: store, identity: identity}
}

// Storage exposes the wrapped store.
func (b *Backend) Storage() *SQLiteStorage { return b.store }

// Groups returns the category group resource.
func (b *Backend) Groups() service.Groups { return groupCollection{b.store} }

// Categories returns the category resource.
func (b *Backend) Categories() service.Categories { return categoryCollection{b.store} }

// Currencies returns the currency resource.
func (b *Backend) Currencies() service.Currencies { return currencyCollection{b.store} }

// Identity returns the fixed local identity.
func (b *Backend) Identity() service.IdentityService { return staticIdentity(b.identity) }

// Close closes the underlying database.
func (b *Backend) Close() error { return b.store.Close() }

type groupCollection struct{ s *SQLiteStorage }

func (c groupCollection) List(ctx context.Context) ([]model.CategoryGroup, error) {
	return c.s.ListGroups(ctx)
}

func (c groupCollection) Create(ctx context.Context, g model.CategoryGroup) (model.CategoryGroup, error) {
	return c.s.CreateGroup(ctx, g)
}

func (c groupCollection) Update(ctx context.Context, id string, g model.CategoryGroup) (model.CategoryGroup, error) {
	return c.s.UpdateGroup(ctx, id, g)
}

func (c groupCollection) Delete(ctx context.Context, id string) error {
	return c.s.DeleteGroup(ctx, id)
}

type categoryCollection struct{ s *SQLiteStorage }

func (c categoryCollection) List(ctx context.Context) ([]model.Category, error) {
	return c.s.ListCategories(ctx)
}

func (c categoryCollection) Create(ctx context.Context, cat model.Category) (model.Category, error) {
	return c.s.CreateCategory(ctx, cat)
}

func (c categoryCollection) Update(ctx context.Context, id string, cat model.Category) (model.Category, error) {
	return c.s.UpdateCategory(ctx, id, cat)
}

func (c categoryCollection) Delete(ctx context.Context, id string) error {
	return c.s.DeleteCategory(ctx, id)
}

type currencyCollection struct{ s *SQLiteStorage }

func (c currencyCollection) List(ctx context.Context) ([]model.Currency, error) {
	return c.s.ListCurrencies(ctx)
}

func (c currencyCollection) Create(ctx context.Context, cur model.Currency) (model.Currency, error) {
	return c.s.CreateCurrency(ctx, cur)
}

func (c currencyCollection) Update(ctx context.Context, id string, cur model.Currency) (model.Currency, error) {
	return c.s.UpdateCurrency(ctx, id, cur)
}

func (c currencyCollection) Delete(ctx context.Context, id string) error {
	return c.s.DeleteCurrency(ctx, id)
}

type staticIdentity model.Identity

func (i staticIdentity) WhoAmI(context.Context) (model.Identity, error) {
	return model.Identity(i), nil
}
