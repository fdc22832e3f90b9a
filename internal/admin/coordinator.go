package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/spice-console/internal/common"
	"github.com/Veraticus/spice-console/internal/model"
	"github.com/Veraticus/spice-console/internal/service"
)

// UnresolvedLabel is rendered for a category whose group cannot be resolved.
const UnresolvedLabel = "-"

// UngroupedLabel is the selector label for "no group".
const UngroupedLabel = "(ungrouped)"

// Option is one choice of a selector field.
type Option struct {
	Value string
	Label string
}

// Source is the subset of the collaborator the coordinator needs.
type Source interface {
	Groups() service.Groups
	Categories() service.Categories
	Currencies() service.Currencies
}

// Coordinator owns the committed taxonomy and currency collections through a
// Store and keeps the category editor consistent with the live groups.
type Coordinator struct {
	source Source
	store  *Store
}

// NewCoordinator creates a coordinator over source. A nil store gets a fresh
// one.
func NewCoordinator(source Source, store *Store) *Coordinator {
	if store == nil {
		store = NewStore()
	}
	return &Coordinator{source: source, store: store}
}

// Store returns the state container the coordinator writes.
func (c *Coordinator) Store() *Store {
	return c.store
}

// LoadGroups replaces the group collection with the collaborator's view.
// On failure the collection is left alone.
func (c *Coordinator) LoadGroups(ctx context.Context) error {
	groups, err := c.source.Groups().List(ctx)
	if err != nil {
		return collaboratorError("list", KindGroup, err)
	}
	if !c.store.replaceGroups(groups) {
		return ErrDetached
	}
	common.LogDebug("groups loaded", common.Fields{"count": len(groups)})
	return nil
}

// LoadCategories replaces the category collection.
func (c *Coordinator) LoadCategories(ctx context.Context) error {
	categories, err := c.source.Categories().List(ctx)
	if err != nil {
		return collaboratorError("list", KindCategory, err)
	}
	if !c.store.replaceCategories(categories) {
		return ErrDetached
	}
	common.LogDebug("categories loaded", common.Fields{"count": len(categories)})
	return nil
}

// LoadCurrencies replaces the currency collection.
func (c *Coordinator) LoadCurrencies(ctx context.Context) error {
	currencies, err := c.source.Currencies().List(ctx)
	if err != nil {
		return collaboratorError("list", KindCurrency, err)
	}
	if !c.store.replaceCurrencies(currencies) {
		return ErrDetached
	}
	common.LogDebug("currencies loaded", common.Fields{"count": len(currencies)})
	return nil
}

// Reload re-fetches the collection of one kind.
func (c *Coordinator) Reload(ctx context.Context, kind EntityKind) error {
	switch kind {
	case KindGroup:
		return c.LoadGroups(ctx)
	case KindCategory:
		return c.LoadCategories(ctx)
	case KindCurrency:
		return c.LoadCurrencies(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// LoadAll loads every collection. Each load is independent; a failing one
// does not stop the others.
func (c *Coordinator) LoadAll(ctx context.Context) error {
	return errors.Join(
		c.LoadGroups(ctx),
		c.LoadCategories(ctx),
		c.LoadCurrencies(ctx),
	)
}

// ResolveGroup returns the group category refers to. The embedded snapshot
// wins while its group is still loaded; otherwise the id is looked up. A
// category without a group, or whose group is not loaded, is unresolved.
func (c *Coordinator) ResolveGroup(category model.Category) (model.CategoryGroup, bool) {
	if !category.HasGroup() {
		return model.CategoryGroup{}, false
	}
	id := category.GroupRef()

	live, ok := c.store.group(id)
	if !ok {
		return model.CategoryGroup{}, false
	}
	if category.Group != nil && category.Group.ID == id {
		return *category.Group, true
	}
	return live, true
}

// GroupLabel renders the group cell of a category row.
func (c *Coordinator) GroupLabel(category model.Category) string {
	group, ok := c.ResolveGroup(category)
	if !ok {
		return UnresolvedLabel
	}
	return group.Label()
}

// GroupOptions lists the category editor's group choices, read from the
// current group collection every call.
func (c *Coordinator) GroupOptions() []Option {
	groups := c.store.Groups()
	options := make([]Option, 0, len(groups)+1)
	options = append(options, Option{Value: "", Label: UngroupedLabel})
	for _, g := range groups {
		options = append(options, Option{Value: g.ID, Label: g.Label()})
	}
	return options
}

// dropMissingGroup clears a category's group reference when the group is not
// in the live collection, so the editor never submits a dangling id.
func (c *Coordinator) dropMissingGroup(category model.Category) model.Category {
	if !category.HasGroup() {
		return category
	}
	if _, ok := c.store.group(category.GroupRef()); !ok {
		category.GroupID = nil
		category.Group = nil
	}
	return category
}

// Snapshot returns copies of the committed collections.
func (c *Coordinator) Snapshot() Snapshot {
	return c.store.Snapshot()
}

// DeleteGroup deletes a group and reloads groups only. Categories that
// referenced it keep the reference and render unresolved.
func (c *Coordinator) DeleteGroup(ctx context.Context, id string) error {
	if err := c.source.Groups().Delete(ctx, id); err != nil {
		return collaboratorError("delete", KindGroup, err)
	}
	return reloadError(KindGroup, c.LoadGroups(ctx))
}

// DeleteCategory deletes a category and reloads categories.
func (c *Coordinator) DeleteCategory(ctx context.Context, id string) error {
	if err := c.source.Categories().Delete(ctx, id); err != nil {
		return collaboratorError("delete", KindCategory, err)
	}
	return reloadError(KindCategory, c.LoadCategories(ctx))
}

// DeleteCurrency deletes a currency and reloads currencies.
func (c *Coordinator) DeleteCurrency(ctx context.Context, id string) error {
	if err := c.source.Currencies().Delete(ctx, id); err != nil {
		return collaboratorError("delete", KindCurrency, err)
	}
	return reloadError(KindCurrency, c.LoadCurrencies(ctx))
}

// Delete dispatches to the delete of kind.
func (c *Coordinator) Delete(ctx context.Context, kind EntityKind, id string) error {
	switch kind {
	case KindGroup:
		return c.DeleteGroup(ctx, id)
	case KindCategory:
		return c.DeleteCategory(ctx, id)
	case KindCurrency:
		return c.DeleteCurrency(ctx, id)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
