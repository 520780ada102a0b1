// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/kaamsetu/kaamsetu/internal/ingest"
	"github.com/kaamsetu/kaamsetu/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCandidates outputs a ranked candidate list for a posting.
func (p *Printer) PrintCandidates(job *types.JobPosting, candidates []types.CandidateMatch) {
	if job == nil {
		return
	}

	var sb strings.Builder

	desc := job.Description
	if len(desc) > 40 {
		desc = desc[:37] + "..."
	}
	sb.WriteString(fmt.Sprintf("Job:      %s\n", desc))
	sb.WriteString(fmt.Sprintf("Slots:    %d/%d filled\n", len(job.AssignedWorkers), job.WorkerCount))
	sb.WriteString("\n")

	if len(candidates) == 0 {
		sb.WriteString("No available candidates.\n")
	} else {
		count := min(len(candidates), maxItemsToShow)
		for i := 0; i < count; i++ {
			c := candidates[i]
			name := c.WorkerName
			if name == "" {
				name = c.WorkerID.String()[:8]
			}
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
			sb.WriteString(fmt.Sprintf("   score %.2f  skills %.0f%%  %.1f km\n",
				c.MatchScore, c.SkillsMatchPercentage, c.DistanceKm))
		}
		if len(candidates) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(candidates)-maxItemsToShow))
		}
	}

	p.printBox("RANKED CANDIDATES", strings.TrimRight(sb.String(), "\n"))
}

// PrintIngestResult outputs a bulk ingestion summary with per-row
// diagnostics for rejected rows.
func (p *Printer) PrintIngestResult(result *ingest.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Created:  %d\n", len(result.ValidJobs)))
	sb.WriteString(fmt.Sprintf("Rejected: %d\n", len(result.InvalidEntries)))

	if len(result.InvalidEntries) > 0 {
		sb.WriteString("\n")
		count := min(len(result.InvalidEntries), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.InvalidEntries[i]))
		}
		if len(result.InvalidEntries) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.InvalidEntries)-maxItemsToShow))
		}
	}

	p.printBox("BULK INGESTION", strings.TrimRight(sb.String(), "\n"))
}

// PrintMetrics outputs a marketplace metrics snapshot.
func (p *Printer) PrintMetrics(m *types.SystemMetrics) {
	if m == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Jobs posted:        %d\n", m.TotalJobsPosted))
	sb.WriteString(fmt.Sprintf("Workers registered: %d\n", m.TotalWorkersRegistered))
	sb.WriteString(fmt.Sprintf("Active employers:   %d\n", m.ActiveEmployersCount))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Fill rate:          %.0f%%\n", m.JobFillRate*100))
	sb.WriteString(fmt.Sprintf("Avg time to fill:   %.1f h\n", m.AverageTimeToFillHours))
	sb.WriteString(fmt.Sprintf("Worker retention:   %.0f%%\n", m.WorkerRetentionRate*100))
	sb.WriteString(fmt.Sprintf("Employer retention: %.0f%%\n", m.EmployerRetentionRate*100))

	p.printBox("MARKETPLACE METRICS", strings.TrimRight(sb.String(), "\n"))
}
