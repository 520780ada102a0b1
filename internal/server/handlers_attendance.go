package server

import (
	"net/http"

	"github.com/google/uuid"
)

// handleCheckIn opens today's attendance record for an assigned worker
func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req struct {
		WorkerID uuid.UUID `json:"worker_id" validate:"required"`
	}
	if err := s.decodeValid(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.engine.CheckIn(r.Context(), jobID, req.WorkerID); err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":    jobID,
		"worker_id": req.WorkerID,
		"status":    "checked_in",
	})
}

// handleCheckOut closes today's open attendance record
func (s *Server) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req struct {
		WorkerID uuid.UUID `json:"worker_id" validate:"required"`
	}
	if err := s.decodeValid(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.engine.CheckOut(r.Context(), jobID, req.WorkerID); err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":    jobID,
		"worker_id": req.WorkerID,
		"status":    "checked_out",
	})
}

// handleListAttendance returns every attendance record for a posting
func (s *Server) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	records, err := s.store.ListJobAttendance(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":     jobID,
		"attendance": records,
		"total":      len(records),
	})
}

// handleAttendancePass renders a signed QR pass binding a worker to a job
func (s *Server) handleAttendancePass(w http.ResponseWriter, r *http.Request) {
	if s.signer == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Attendance passes are not configured")
		return
	}

	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}
	workerID, err := uuid.Parse(r.URL.Query().Get("worker_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid worker ID")
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
	if !job.HasWorker(workerID) {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Worker is not assigned to this job")
		return
	}

	size := parseQueryInt(r, "size", 256, 1024)
	png, err := s.signer.PNG(jobID, workerID, size)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// handleScanPass resolves a scanned pass payload into a check-in or
// check-out, whichever the worker's day is waiting on
func (s *Server) handleScanPass(w http.ResponseWriter, r *http.Request) {
	if s.signer == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Attendance passes are not configured")
		return
	}

	var req struct {
		Payload string `json:"payload" validate:"required"`
	}
	if err := s.decodeValid(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	pass, err := s.signer.Decode(req.Payload)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Try check-in first; an already-open day means this scan closes it.
	status := "checked_in"
	if err := s.engine.CheckIn(r.Context(), pass.JobID, pass.WorkerID); err != nil {
		if HTTPStatus(err) != http.StatusConflict {
			s.domainError(w, err)
			return
		}
		if err := s.engine.CheckOut(r.Context(), pass.JobID, pass.WorkerID); err != nil {
			s.domainError(w, err)
			return
		}
		status = "checked_out"
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":    pass.JobID,
		"worker_id": pass.WorkerID,
		"status":    status,
	})
}
