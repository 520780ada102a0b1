package server

import "net/http"

// handleMetrics returns the marketplace health snapshot
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.collector.Snapshot(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, snapshot)
}
