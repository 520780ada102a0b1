package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kaamsetu/kaamsetu/internal/config"
	"github.com/kaamsetu/kaamsetu/internal/db"
	"github.com/kaamsetu/kaamsetu/internal/ingest"
	"github.com/kaamsetu/kaamsetu/internal/observability"
)

var (
	ingestFile       string
	ingestEmployerID string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Bulk-load job postings from a JSON batch file",
	Long: `Validates a batch document of job rows and creates a posting for every
valid row. Invalid rows are reported individually and never block the
rest of the batch.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "Path to the JSON batch file")
	ingestCmd.Flags().StringVarP(&ingestEmployerID, "employer-id", "e", "", "Employer UUID to stamp on created postings")
	_ = ingestCmd.MarkFlagRequired("file")
	_ = ingestCmd.MarkFlagRequired("employer-id")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	employerID, err := uuid.Parse(ingestEmployerID)
	if err != nil {
		return fmt.Errorf("invalid employer id %q: %w", ingestEmployerID, err)
	}

	raw, err := os.ReadFile(ingestFile)
	if err != nil {
		return fmt.Errorf("failed to read batch file: %w", err)
	}
	if err := ingest.ValidateBatchDocument(raw); err != nil {
		return err
	}

	var batch struct {
		Jobs []ingest.JobRow `json:"jobs"`
	}
	if err := json.Unmarshal(raw, &batch); err != nil {
		return fmt.Errorf("failed to parse batch file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()
	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	result, err := ingest.New(database).Ingest(ctx, employerID, batch.Jobs)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintIngestResult(result)
	return nil
}
