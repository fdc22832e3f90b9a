package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-console/internal/common"
	"github.com/Veraticus/spice-console/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func consoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Open the interactive admin console",
		Long: `Browse and edit category groups, categories and currencies.

Press m for the navigation menu, u for the user menu, n to create, e to edit
and d to delete. Logs are written to logging.file while the console runs.`,
		RunE: runConsole,
	}

	cmd.Flags().Bool("no-mouse", false, "Disable mouse support")

	return cmd
}

func runConsole(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}
	logFile, err := common.RedirectToFile(cfg.LogFile, level, viper.GetString("logging.format"))
	if err != nil {
		return err
	}
	defer func() {
		_ = logFile.Close()
		_ = setupLogging()
	}()

	ctx := cmd.Context()
	backend, err := initBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to %s backend: %w", cfg.Backend, err)
	}
	defer func() { _ = backend.Close() }()

	// The root command runs the console too and has no such flag.
	noMouse, _ := cmd.Flags().GetBool("no-mouse")

	slog.Info("console starting", "backend", cfg.Backend)

	return tui.Run(ctx,
		tui.WithBackend(backend),
		tui.WithPageSize(cfg.Console.PageSize),
		tui.WithRequestTimeout(cfg.Console.RequestTimeout),
		tui.WithMouse(!noMouse),
		tui.WithLogout(func() {
			slog.Info("operator logged out", "backend", cfg.Backend)
		}),
	)
}
