package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/kaamsetu/kaamsetu/internal/ingest"
)

// maxBulkBodyBytes caps the bulk upload body size.
const maxBulkBodyBytes = 2 << 20

// handleBulkJobs ingests a batch of job rows with per-row validation.
// Structural problems reject the whole request; row-level problems only
// reject their row.
func (s *Server) handleBulkJobs(w http.ResponseWriter, r *http.Request) {
	employerID, err := uuid.Parse(r.URL.Query().Get("employer_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid employer ID")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBulkBodyBytes+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(body) > maxBulkBodyBytes {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "Batch too large")
		return
	}

	if err := ingest.ValidateBatchDocument(body); err != nil {
		var schemaErr *ingest.SchemaError
		if errors.As(err, &schemaErr) {
			s.jsonResponse(w, http.StatusBadRequest, map[string]any{
				"error":   "batch document invalid",
				"details": schemaErr.Messages,
			})
			return
		}
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var batch struct {
		Jobs []ingest.JobRow `json:"jobs"`
	}
	if err := json.Unmarshal(body, &batch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.ingestor.Ingest(r.Context(), employerID, batch.Jobs)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}
