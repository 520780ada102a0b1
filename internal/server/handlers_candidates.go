package server

import (
	"net/http"

	"github.com/kaamsetu/kaamsetu/internal/matching"
	"github.com/kaamsetu/kaamsetu/internal/types"
)

func workerPointers(workers []types.WorkerProfile) []*types.WorkerProfile {
	pool := make([]*types.WorkerProfile, len(workers))
	for i := range workers {
		pool[i] = &workers[i]
	}
	return pool
}

// handleListCandidates ranks available workers for a posting
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := s.store.GetJobPosting(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	workers, err := s.store.ListWorkerProfiles(r.Context(), true)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	limit := parseQueryInt(r, "limit", 20, 100)

	candidates := matching.RankCandidates(job, workerPointers(workers), matching.DefaultWeights())
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":     jobID,
		"candidates": candidates,
		"total":      len(candidates),
	})
}
