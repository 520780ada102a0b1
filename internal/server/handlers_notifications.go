package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// notificationView decorates a record with its display kind.
type notificationView struct {
	types.JobNotification
	Kind   string `json:"kind"`
	Unread bool   `json:"unread"`
}

func notificationViews(records []types.JobNotification) []notificationView {
	views := make([]notificationView, 0, len(records))
	for i := range records {
		views = append(views, notificationView{
			JobNotification: records[i],
			Kind:            records[i].Kind(),
			Unread:          records[i].Unread(),
		})
	}
	return views
}

// handleListNotifications returns a worker's notifications with the
// unread count
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	workerID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid worker ID")
		return
	}

	records, err := s.tracker.ListForWorker(r.Context(), workerID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	unread, err := s.tracker.UnreadCount(r.Context(), workerID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"worker_id":     workerID,
		"notifications": notificationViews(records),
		"unread":        unread,
		"total":         len(records),
	})
}

// handleMarkNotificationRead acknowledges a worker's assignment
// notification
func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	workerID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid worker ID")
		return
	}

	var req struct {
		JobID uuid.UUID `json:"job_id" validate:"required"`
	}
	if err := s.decodeValid(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.tracker.MarkRead(r.Context(), req.JobID, workerID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	unread, err := s.tracker.UnreadCount(r.Context(), workerID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"worker_id": workerID,
		"job_id":    req.JobID,
		"unread":    unread,
	})
}

// notificationPollInterval is how often the stream re-reads the worker's
// records.
const notificationPollInterval = 5 * time.Second

// handleNotificationStream pushes the worker's notification list over SSE
// whenever it changes
func (s *Server) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	workerID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid worker ID")
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ticker := time.NewTicker(notificationPollInterval)
	defer ticker.Stop()

	var lastUpdated time.Time
	send := func() bool {
		records, err := s.tracker.ListForWorker(r.Context(), workerID)
		if err != nil {
			sse.WriteError(err.Error())
			return false
		}
		newest := lastUpdated
		for i := range records {
			if records[i].UpdatedAt.After(newest) {
				newest = records[i].UpdatedAt
			}
		}
		if !newest.After(lastUpdated) && !lastUpdated.IsZero() {
			return true
		}
		lastUpdated = newest

		unread := 0
		for i := range records {
			if records[i].Unread() {
				unread++
			}
		}
		return sse.WriteNotifications(workerID, notificationViews(records), unread) == nil
	}

	if !send() {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if !send() {
				return
			}
		}
	}
}
