package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// handleRateWorker records an employer's rating for a worker on a job
func (s *Server) handleRateWorker(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req struct {
		WorkerID uuid.UUID `json:"worker_id" validate:"required"`
		Rating   int       `json:"rating" validate:"required"`
		Remarks  string    `json:"remarks" validate:"omitempty,max=500"`
	}
	if err := s.decodeValid(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.engine.RateWorker(r.Context(), jobID, req.WorkerID, req.Rating, req.Remarks); err != nil {
		s.domainError(w, err)
		return
	}

	worker, err := s.store.GetWorkerProfile(r.Context(), req.WorkerID)
	if err != nil || worker == nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to reload worker after rating")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":            jobID,
		"worker_id":         req.WorkerID,
		"rating":            worker.Rating,
		"rating_count":      worker.RatingCount,
		"reliability_score": worker.ReliabilityScore,
		"completed_jobs":    worker.CompletedJobs,
	})
}

// handleRecordPayment appends a payment for a worker on a job
func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req struct {
		WorkerID uuid.UUID           `json:"worker_id" validate:"required"`
		Amount   float64             `json:"amount" validate:"required"`
		Method   types.PaymentMethod `json:"payment_method" validate:"required"`
	}
	if err := s.decodeValid(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := s.engine.RecordPayment(r.Context(), jobID, req.WorkerID, req.Amount, req.Method)
	if err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, payment)
}

// handleSetPaymentStatus moves a ledger entry between settlement states
func (s *Server) handleSetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	paymentID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	var req struct {
		Status types.PaymentStatus `json:"status" validate:"required"`
	}
	if err := s.decodeValid(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Status.Valid() {
		s.errorResponse(w, http.StatusBadRequest, "Unknown payment status")
		return
	}

	if err := s.store.SetPaymentStatus(r.Context(), paymentID, req.Status); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"payment_id": paymentID,
		"status":     req.Status,
	})
}

// handleListJobPayments returns payments recorded against a posting
func (s *Server) handleListJobPayments(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	payments, err := s.store.ListJobPayments(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":   jobID,
		"payments": payments,
		"total":    len(payments),
	})
}

// handleListWorkerPayments returns a worker's payment history and current
// running balance
func (s *Server) handleListWorkerPayments(w http.ResponseWriter, r *http.Request) {
	workerID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid worker ID")
		return
	}

	payments, err := s.store.ListWorkerPayments(r.Context(), workerID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	balance, err := s.store.LastRunningBalance(r.Context(), workerID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	var totalCompleted, totalPending float64
	for i := range payments {
		switch payments[i].Status {
		case types.PaymentCompleted:
			totalCompleted += payments[i].Amount
		case types.PaymentPending:
			totalPending += payments[i].Amount
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"worker_id":       workerID,
		"payments":        payments,
		"running_balance": balance,
		"total_completed": totalCompleted,
		"total_pending":   totalPending,
		"total":           len(payments),
	})
}
