package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// workerRequest is the create/update payload for a worker profile.
type workerRequest struct {
	AccountID    uuid.UUID                 `json:"account_id"`
	Name         string                    `json:"name" validate:"required,max=120"`
	MobileNumber string                    `json:"mobile_number" validate:"omitempty,min=6,max=20"`
	Skills       []types.SkillRecord       `json:"skills" validate:"required,min=1,dive"`
	WageRange    types.WageRange           `json:"wage_range"`
	Coordinates  types.Coordinates         `json:"coordinates"`
	IsAvailable  *bool                     `json:"is_available"`
	Weekly       *types.WeeklyAvailability `json:"weekly_availability"`
}

func (req *workerRequest) apply(w *types.WorkerProfile) {
	w.AccountID = req.AccountID
	w.Name = req.Name
	w.MobileNumber = req.MobileNumber
	w.Skills = req.Skills
	w.WageRange = req.WageRange
	w.Coordinates = req.Coordinates
	if req.IsAvailable != nil {
		w.IsAvailable = *req.IsAvailable
	}
	if req.Weekly != nil {
		w.Weekly = *req.Weekly
	}
}

// handleCreateWorker registers a worker profile
func (s *Server) handleCreateWorker(w http.ResponseWriter, r *http.Request) {
	var req workerRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	worker := &types.WorkerProfile{IsAvailable: true}
	req.apply(worker)
	if err := worker.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateWorkerProfile(r.Context(), worker); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, worker)
}

// handleListWorkers lists worker profiles, optionally only available ones
func (s *Server) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	onlyAvailable := r.URL.Query().Get("available") == "true"

	workers, err := s.store.ListWorkerProfiles(r.Context(), onlyAvailable)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"workers": workers,
		"total":   len(workers),
	})
}

// handleGetWorker retrieves a worker profile by ID
func (s *Server) handleGetWorker(w http.ResponseWriter, r *http.Request) {
	workerID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid worker ID")
		return
	}

	worker, err := s.store.GetWorkerProfile(r.Context(), workerID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if worker == nil {
		s.errorResponse(w, http.StatusNotFound, "Worker not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, worker)
}

// handleUpdateWorker replaces a worker's editable profile fields
func (s *Server) handleUpdateWorker(w http.ResponseWriter, r *http.Request) {
	workerID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid worker ID")
		return
	}

	var req workerRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	worker, err := s.store.GetWorkerProfile(r.Context(), workerID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if worker == nil {
		s.errorResponse(w, http.StatusNotFound, "Worker not found")
		return
	}

	req.apply(worker)
	if err := worker.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateWorkerProfile(r.Context(), worker); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, worker)
}

// handleSetAvailability toggles the worker's availability flag
func (s *Server) handleSetAvailability(w http.ResponseWriter, r *http.Request) {
	workerID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid worker ID")
		return
	}

	var req struct {
		Available *bool `json:"available" validate:"required"`
	}
	if err := s.decodeValid(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SetWorkerAvailability(r.Context(), workerID, *req.Available); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"worker_id": workerID,
		"available": *req.Available,
	})
}

// handleListWorkerRatings returns the worker's rating history
func (s *Server) handleListWorkerRatings(w http.ResponseWriter, r *http.Request) {
	workerID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid worker ID")
		return
	}

	ratings, err := s.store.ListWorkerRatings(r.Context(), workerID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"ratings": ratings,
		"total":   len(ratings),
	})
}
