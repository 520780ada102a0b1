package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kaamsetu/kaamsetu/internal/config"
	"github.com/kaamsetu/kaamsetu/internal/db"
	"github.com/kaamsetu/kaamsetu/internal/matching"
	"github.com/kaamsetu/kaamsetu/internal/observability"
	"github.com/kaamsetu/kaamsetu/internal/types"
)

var (
	candidatesJobID string
	candidatesLimit int
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Rank available workers for a job posting",
	RunE:  runCandidates,
}

func init() {
	candidatesCmd.Flags().StringVarP(&candidatesJobID, "job-id", "j", "", "Job posting UUID")
	candidatesCmd.Flags().IntVarP(&candidatesLimit, "limit", "l", 10, "Maximum candidates to show")
	_ = candidatesCmd.MarkFlagRequired("job-id")
	rootCmd.AddCommand(candidatesCmd)
}

func runCandidates(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	jobID, err := uuid.Parse(candidatesJobID)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", candidatesJobID, err)
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

	job, err := database.GetJobPosting(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job %s not found", jobID)
	}

	workers, err := database.ListWorkerProfiles(ctx, true)
	if err != nil {
		return err
	}

	pool := make([]*types.WorkerProfile, len(workers))
	for i := range workers {
		pool[i] = &workers[i]
	}

	candidates := matching.RankCandidates(job, pool, matching.DefaultWeights())
	if len(candidates) > candidatesLimit {
		candidates = candidates[:candidatesLimit]
	}

	observability.NewPrinter(os.Stdout).PrintCandidates(job, candidates)
	return nil
}
