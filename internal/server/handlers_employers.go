package server

import (
	"net/http"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// employerRequest is the upsert payload for an employer profile.
type employerRequest struct {
	CompanyName   string            `json:"company_name" validate:"required,max=200"`
	CompanyType   string            `json:"company_type" validate:"omitempty,max=60"`
	ContactPerson string            `json:"contact_person" validate:"omitempty,max=120"`
	MobileNumber  string            `json:"mobile_number" validate:"omitempty,min=6,max=20"`
	Coordinates   types.Coordinates `json:"coordinates"`
}

// handleUpsertEmployer creates or replaces an employer profile
func (s *Server) handleUpsertEmployer(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid employer ID")
		return
	}

	var req employerRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	employer := &types.EmployerProfile{
		AccountID:     accountID,
		CompanyName:   req.CompanyName,
		CompanyType:   req.CompanyType,
		ContactPerson: req.ContactPerson,
		MobileNumber:  req.MobileNumber,
		Coordinates:   req.Coordinates,
	}

	if err := s.store.UpsertEmployerProfile(r.Context(), employer); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, employer)
}

// handleGetEmployer retrieves an employer profile
func (s *Server) handleGetEmployer(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid employer ID")
		return
	}

	employer, err := s.store.GetEmployerProfile(r.Context(), accountID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if employer == nil {
		s.errorResponse(w, http.StatusNotFound, "Employer not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, employer)
}

// handleListEmployerJobs lists an employer's postings
func (s *Server) handleListEmployerJobs(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid employer ID")
		return
	}

	jobs, err := s.store.ListEmployerJobPostings(r.Context(), accountID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	views := make([]jobView, 0, len(jobs))
	for i := range jobs {
		views = append(views, s.jobWithState(r, &jobs[i]))
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"employer_id": accountID,
		"jobs":        views,
		"total":       len(views),
	})
}
