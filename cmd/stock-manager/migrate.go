package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aaravmahajanofficial/stock-manager/internal/config"
	"github.com/aaravmahajanofficial/stock-manager/internal/migrations"
	repository "github.com/aaravmahajanofficial/stock-manager/internal/repositories"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(m *migrations.Migrator) error {
			return m.Up()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(m *migrations.Migrator) error {
			return m.Down()
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(m *migrations.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

func withMigrator(ctx context.Context, run func(m *migrations.Migrator) error) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.MustLoad(configPath)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := repository.OpenPostgres(connectCtx, &cfg.Database)
	if err != nil {
		return err
	}

	m, err := migrations.New(db)
	if err != nil {
		db.Close()
		return err
	}
	// closing the migrator closes db as well
	defer func() {
		if err := m.Close(); err != nil {
			slog.Warn("⚠️ Error closing migrator", slog.String("error", err.Error()))
		}
	}()

	return run(m)
}
