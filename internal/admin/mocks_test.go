package admin

import (
	"context"
	"testing"

	"github.com/Veraticus/spice-console/internal/model"
	"github.com/Veraticus/spice-console/internal/service"
	"github.com/Veraticus/spice-console/internal/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCollection[T any] struct {
	mock.Mock
}

func (m *mockCollection[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if records, ok := args.Get(0).([]T); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCollection[T]) Create(ctx context.Context, record T) (T, error) {
	args := m.Called(ctx, record)
	created, _ := args.Get(0).(T)
	return created, args.Error(1)
}

func (m *mockCollection[T]) Update(ctx context.Context, id string, record T) (T, error) {
	args := m.Called(ctx, id, record)
	updated, _ := args.Get(0).(T)
	return updated, args.Error(1)
}

func (m *mockCollection[T]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockSource struct {
	groups     *mockCollection[model.CategoryGroup]
	categories *mockCollection[model.Category]
	currencies *mockCollection[model.Currency]
}

func newMockSource() *mockSource {
	return &mockSource{
		groups:     &mockCollection[model.CategoryGroup]{},
		categories: &mockCollection[model.Category]{},
		currencies: &mockCollection[model.Currency]{},
	}
}

func (s *mockSource) Groups() service.Groups         { return s.groups }
func (s *mockSource) Categories() service.Categories { return s.categories }
func (s *mockSource) Currencies() service.Currencies { return s.currencies }

// newSQLiteCoordinator returns a coordinator over a migrated in-memory store.
func newSQLiteCoordinator(t *testing.T) (*Coordinator, *storage.Backend) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	backend := storage.NewBackend(store, model.Identity{Subject: "test", Roles: []string{model.RoleAdmin}})
	t.Cleanup(func() { _ = backend.Close() })
	return NewCoordinator(backend, nil), backend
}
