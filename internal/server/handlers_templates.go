package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// templateRequest is the create payload for a job template.
type templateRequest struct {
	EmployerID   uuid.UUID           `json:"employer_id" validate:"required"`
	Name         string              `json:"name" validate:"required,max=120"`
	Description  string              `json:"description" validate:"required,max=2000"`
	Skills       []types.SkillRecord `json:"required_skills" validate:"dive"`
	WageAmount   float64             `json:"wage_amount" validate:"required,gt=0"`
	DurationDays float64             `json:"duration_days" validate:"required,gt=0"`
	ShiftTiming  string              `json:"shift_timing" validate:"omitempty,max=60"`
	WorkerCount  int                 `json:"worker_count" validate:"required,gte=1"`
	Coordinates  types.Coordinates   `json:"coordinates"`
}

// handleCreateTemplate saves a reusable posting template
func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	template := &types.JobTemplate{
		EmployerID:     req.EmployerID,
		Name:           req.Name,
		Description:    req.Description,
		RequiredSkills: req.Skills,
		WageAmount:     req.WageAmount,
		DurationDays:   req.DurationDays,
		ShiftTiming:    req.ShiftTiming,
		WorkerCount:    req.WorkerCount,
		Coordinates:    req.Coordinates,
	}

	if err := s.store.CreateJobTemplate(r.Context(), template); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, template)
}

// handleListTemplates lists an employer's templates
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	employerID, err := uuid.Parse(r.URL.Query().Get("employer_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid employer ID")
		return
	}

	templates, err := s.store.ListEmployerTemplates(r.Context(), employerID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"templates": templates,
		"total":     len(templates),
	})
}

// handleGetTemplate retrieves a template by ID
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid template ID")
		return
	}

	template, err := s.store.GetJobTemplate(r.Context(), templateID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if template == nil {
		s.errorResponse(w, http.StatusNotFound, "Template not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, template)
}

// handleDeleteTemplate removes a template
func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid template ID")
		return
	}

	if err := s.store.DeleteJobTemplate(r.Context(), templateID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"deleted": templateID})
}

// handlePostFromTemplate instantiates a posting from a saved template
func (s *Server) handlePostFromTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid template ID")
		return
	}

	template, err := s.store.GetJobTemplate(r.Context(), templateID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if template == nil {
		s.errorResponse(w, http.StatusNotFound, "Template not found")
		return
	}

	job := template.NewPosting()
	if err := job.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Template is not postable: "+err.Error())
		return
	}

	if err := s.store.CreateJobPosting(r.Context(), job); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, jobView{JobPosting: *job, State: types.JobOpen})
}
