package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// Creator persists a validated posting and fills in its id.
type Creator interface {
	CreateJobPosting(ctx context.Context, job *types.JobPosting) error
}

// Ingestor runs batches of job rows through validation and creation.
type Ingestor struct {
	creator Creator
}

// New creates an Ingestor over the given store.
func New(creator Creator) *Ingestor {
	return &Ingestor{creator: creator}
}

// maxValidationConcurrency bounds the validation fan-out per batch.
const maxValidationConcurrency = 8

// Ingest validates every row independently, creates postings for the valid
// ones and reports the batch outcome. Rows are validated concurrently but
// results keep input order, so output is deterministic for a fixed batch.
// The method never fails the batch as a whole: a storage error on one
// creation retroactively marks that row invalid and processing continues.
func (i *Ingestor) Ingest(ctx context.Context, employerID uuid.UUID, rows []JobRow) (*Result, error) {
	result := &Result{
		ValidJobs:               []types.JobPosting{},
		SuccessfullyCreatedJobs: []uuid.UUID{},
		InvalidEntries:          []string{},
	}
	if len(rows) == 0 {
		return result, nil
	}

	reasons := make([][]string, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxValidationConcurrency)
	for idx := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reasons[idx] = validateRow(rows[idx])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("bulk validation interrupted: %w", err)
	}

	for idx, row := range rows {
		if len(reasons[idx]) > 0 {
			result.InvalidEntries = append(result.InvalidEntries,
				fmt.Sprintf("%s: %s", rowLabel(idx, row), strings.Join(reasons[idx], "; ")))
			continue
		}

		posting := toPosting(employerID, row)
		posting.ID = uuid.New()
		result.ValidJobs = append(result.ValidJobs, posting)

		if err := i.creator.CreateJobPosting(ctx, &posting); err != nil {
			// Storage failure on one row must not raise for the batch.
			log.Printf("bulk ingest: create failed for %s: %v", rowLabel(idx, row), err)
			result.InvalidEntries = append(result.InvalidEntries,
				fmt.Sprintf("%s: creation failed", rowLabel(idx, row)))
			continue
		}
		result.SuccessfullyCreatedJobs = append(result.SuccessfullyCreatedJobs, posting.ID)
	}

	return result, nil
}
