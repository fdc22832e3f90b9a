package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-console/internal/api"
	"github.com/Veraticus/spice-console/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local database over HTTP",
		Long: `Expose the local SQLite taxonomy as the JSON API remote consoles talk to.

Callers authenticate with the bearer tokens listed under server.tokens. With
no tokens configured every request acts as the local operator.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default: server.addr)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	backend := storage.NewBackend(store, api.LocalIdentity)
	defer func() { _ = backend.Close() }()

	slog.Info("Starting API server",
		"database", cfg.Database,
		"addr", cfg.Server.Addr,
		"tokens", len(cfg.Server.Tokens))

	return api.NewServer(backend, cfg.Server.Tokens).ListenAndServe(ctx, cfg.Server.Addr)
}
