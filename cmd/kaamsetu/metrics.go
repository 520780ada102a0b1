package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kaamsetu/kaamsetu/internal/config"
	"github.com/kaamsetu/kaamsetu/internal/db"
	"github.com/kaamsetu/kaamsetu/internal/metrics"
	"github.com/kaamsetu/kaamsetu/internal/observability"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print a marketplace metrics snapshot",
	RunE:  runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	snapshot, err := metrics.NewCollector(database).Snapshot(ctx)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintMetrics(snapshot)
	return nil
}
