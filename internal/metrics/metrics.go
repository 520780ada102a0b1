// Package metrics computes marketplace-wide health numbers from stored
// jobs, workers and employers. Everything here is derived on demand; no
// counters are persisted.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// Source supplies the raw rows the snapshot is derived from.
type Source interface {
	ListJobPostings(ctx context.Context) ([]types.JobPosting, error)
	CountWorkers(ctx context.Context) (int, error)
	CountActiveEmployers(ctx context.Context) (int, error)
	CountRepeatWorkers(ctx context.Context) (int, error)
	CountRepeatEmployers(ctx context.Context) (int, error)
}

// Collector builds SystemMetrics snapshots.
type Collector struct {
	source Source
	now    func() time.Time
}

func NewCollector(source Source) *Collector {
	return &Collector{source: source, now: time.Now}
}

// Snapshot derives the current marketplace metrics.
//
// Fill rate counts a job as filled once every slot is assigned; cancelled
// jobs are excluded from the denominator. Time-to-fill is approximated by
// the gap between posting and last update for filled jobs. Retention is
// the share of workers (employers) with more than one completed job
// (posting).
func (c *Collector) Snapshot(ctx context.Context) (*types.SystemMetrics, error) {
	jobs, err := c.source.ListJobPostings(ctx)
	if err != nil {
		return nil, fmt.Errorf("metrics: list jobs: %w", err)
	}
	workerCount, err := c.source.CountWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("metrics: count workers: %w", err)
	}
	employerCount, err := c.source.CountActiveEmployers(ctx)
	if err != nil {
		return nil, fmt.Errorf("metrics: count employers: %w", err)
	}
	repeatWorkers, err := c.source.CountRepeatWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("metrics: count repeat workers: %w", err)
	}
	repeatEmployers, err := c.source.CountRepeatEmployers(ctx)
	if err != nil {
		return nil, fmt.Errorf("metrics: count repeat employers: %w", err)
	}

	m := &types.SystemMetrics{
		TotalJobsPosted:        len(jobs),
		TotalWorkersRegistered: workerCount,
		ActiveEmployersCount:   employerCount,
	}

	active := 0
	filled := 0
	var fillHours float64
	for i := range jobs {
		job := &jobs[i]
		if job.IsCancelled {
			continue
		}
		active++
		if len(job.AssignedWorkers) >= job.WorkerCount {
			filled++
			fillHours += job.UpdatedAt.Sub(job.CreatedAt).Hours()
		}
	}
	if active > 0 {
		m.JobFillRate = float64(filled) / float64(active)
	}
	if filled > 0 {
		m.AverageTimeToFillHours = fillHours / float64(filled)
	}
	if workerCount > 0 {
		m.WorkerRetentionRate = float64(repeatWorkers) / float64(workerCount)
	}
	if employerCount > 0 {
		m.EmployerRetentionRate = float64(repeatEmployers) / float64(employerCount)
	}
	return m, nil
}
