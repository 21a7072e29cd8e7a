// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/canonical/db-federation-service/internal/config"
	"github.com/canonical/db-federation-service/internal/db"
	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring/prometheus"
	"github.com/canonical/db-federation-service/internal/tracing"
	"github.com/canonical/db-federation-service/migrations"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply the local store schema migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMigrate(cmd, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	migrateCmd.Flags().String("dsn", "", "Local store DSN, defaults to DSN")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, direction string) error {
	dsn, _ := cmd.Flags().GetString("dsn")

	specs := new(config.EnvSpec)
	// best-effort env loading, flags take precedence
	_ = envconfig.Process("", specs)

	if dsn == "" {
		dsn = specs.DSN
	}

	if dsn == "" {
		return fmt.Errorf("--dsn or DSN is required")
	}

	logger := logging.NewLogger(specs.LogLevel)
	defer logger.Sync()

	monitor := prometheus.NewMonitor(serviceName, logger)
	tracer := tracing.NewTracer(tracing.NewConfig(false, "", "", logger))

	dbClient, err := db.NewDBClient(db.Config{DSN: dsn}, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}
	defer dbClient.Close()

	goose.SetBaseFS(migrations.EmbedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	ctx := context.Background()

	switch direction {
	case "up":
		return goose.UpContext(ctx, dbClient.DB(), ".")
	case "down":
		return goose.DownContext(ctx, dbClient.DB(), ".")
	case "status":
		return goose.StatusContext(ctx, dbClient.DB(), ".")
	default:
		return fmt.Errorf("unsupported migration direction %q", direction)
	}
}
