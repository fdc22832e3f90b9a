package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/spice-console/internal/api"
	"github.com/Veraticus/spice-console/internal/config"
	"github.com/Veraticus/spice-console/internal/remote"
	"github.com/Veraticus/spice-console/internal/service"
	"github.com/Veraticus/spice-console/internal/storage"
)

// initStorage opens the local database and brings its schema up to date.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Database)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initBackend connects to the configured collaborator.
func initBackend(ctx context.Context, cfg *config.Config) (service.Backend, error) {
	switch cfg.Backend {
	case config.BackendRemote:
		return remote.NewClient(remote.Config{
			BaseURL: cfg.Remote.URL,
			Token:   cfg.Remote.Token,
			Timeout: cfg.Remote.Timeout,
		})
	default:
		store, err := initStorage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewBackend(store, api.LocalIdentity), nil
	}
}
