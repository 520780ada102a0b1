package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// jobRequest is the create payload for a job posting.
type jobRequest struct {
	EmployerID   uuid.UUID           `json:"employer_id" validate:"required"`
	Description  string              `json:"description" validate:"required,max=2000"`
	Skills       []types.SkillRecord `json:"required_skills" validate:"dive"`
	WageAmount   float64             `json:"wage_amount" validate:"required,gt=0"`
	DurationDays float64             `json:"duration_days" validate:"required,gt=0"`
	ShiftTiming  string              `json:"shift_timing" validate:"omitempty,max=60"`
	WorkerCount  int                 `json:"worker_count" validate:"required,gte=1"`
	Coordinates  types.Coordinates   `json:"coordinates"`
}

// jobView decorates a posting with its derived state.
type jobView struct {
	types.JobPosting
	State types.JobState `json:"state"`
}

func (s *Server) jobWithState(r *http.Request, job *types.JobPosting) jobView {
	state, err := s.engine.JobState(r.Context(), job.ID)
	if err != nil {
		// Fall back to the stateless derivation.
		state = job.State(false)
	}
	return jobView{JobPosting: *job, State: state}
}

// handleCreateJob creates a job posting
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	job := &types.JobPosting{
		EmployerID:     req.EmployerID,
		Description:    req.Description,
		RequiredSkills: req.Skills,
		WageAmount:     req.WageAmount,
		DurationDays:   req.DurationDays,
		ShiftTiming:    req.ShiftTiming,
		WorkerCount:    req.WorkerCount,
		Coordinates:    req.Coordinates,
	}
	if err := job.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateJobPosting(r.Context(), job); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, jobView{JobPosting: *job, State: types.JobOpen})
}

// handleListJobs lists all job postings with their derived states
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.ListJobPostings(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	views := make([]jobView, 0, len(jobs))
	for i := range jobs {
		views = append(views, s.jobWithState(r, &jobs[i]))
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":  views,
		"total": len(views),
	})
}

// handleGetJob retrieves a job posting by ID
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
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

	s.jsonResponse(w, http.StatusOK, s.jobWithState(r, job))
}

// handleAssignWorker assigns a worker to a posting
func (s *Server) handleAssignWorker(w http.ResponseWriter, r *http.Request) {
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

	if err := s.engine.AssignWorker(r.Context(), jobID, req.WorkerID); err != nil {
		s.domainError(w, err)
		return
	}

	job, err := s.store.GetJobPosting(r.Context(), jobID)
	if err != nil || job == nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to reload job after assignment")
		return
	}

	s.jsonResponse(w, http.StatusOK, s.jobWithState(r, job))
}

// handleCancelJob cancels a posting
func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	if err := s.engine.CancelJob(r.Context(), jobID); err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id": jobID,
		"state":  types.JobCancelled,
	})
}

// handleCompleteJob marks a posting completed
func (s *Server) handleCompleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	if err := s.engine.CompleteJob(r.Context(), jobID); err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id": jobID,
		"state":  types.JobCompleted,
	})
}

// handleRemind sends a work-day reminder to every assigned worker that
// has not yet received one
func (s *Server) handleRemind(w http.ResponseWriter, r *http.Request) {
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

	sent, err := s.tracker.SendReminders(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":         jobID,
		"reminders_sent": sent,
	})
}
