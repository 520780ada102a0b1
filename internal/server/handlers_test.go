package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

// TestCreateWorker tests worker registration
func TestCreateWorker(t *testing.T) {
	s := newTestServer()

	body := map[string]any{
		"name": "Ravi Kumar",
		"skills": []map[string]any{
			{"skill": "masonry", "years_of_experience": 4},
		},
		"wage_range":  map[string]any{"min": 500, "max": 900},
		"coordinates": map[string]any{"latitude": 28.61, "longitude": 77.21},
	}
	w := doJSON(t, s.handleCreateWorker, http.MethodPost, "/workers", body, nil)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created types.WorkerProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Ravi Kumar", created.Name)
	assert.True(t, created.IsAvailable)
}

func TestCreateWorker_MissingSkills(t *testing.T) {
	s := newTestServer()

	body := map[string]any{
		"name":        "No Skills",
		"wage_range":  map[string]any{"min": 500, "max": 900},
		"coordinates": map[string]any{"latitude": 28.61, "longitude": 77.21},
	}
	w := doJSON(t, s.handleCreateWorker, http.MethodPost, "/workers", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWorker_InvalidID(t *testing.T) {
	s := newTestServer()

	w := doJSON(t, s.handleGetWorker, http.MethodGet, "/workers/not-a-uuid", nil, map[string]string{"id": "not-a-uuid"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWorker_NotFound(t *testing.T) {
	s := newTestServer()

	id := uuid.New().String()
	w := doJSON(t, s.handleGetWorker, http.MethodGet, "/workers/"+id, nil, map[string]string{"id": id})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetAvailability(t *testing.T) {
	s := newTestServer()
	worker := s.seedWorker(t, nil)

	body := map[string]any{"available": false}
	w := doJSON(t, s.handleSetAvailability, http.MethodPost, "/workers/"+worker.ID.String()+"/availability", body, map[string]string{"id": worker.ID.String()})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := s.store.GetWorkerProfile(context.Background(), worker.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)
}

func TestListWorkers_FiltersAvailable(t *testing.T) {
	s := newTestServer()
	s.seedWorker(t, nil)
	s.seedWorker(t, func(w *types.WorkerProfile) { w.IsAvailable = false })

	w := doJSON(t, s.handleListWorkers, http.MethodGet, "/workers?available=true", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Workers []types.WorkerProfile `json:"workers"`
		Total   int                   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}

// TestCreateJob tests job posting creation
func TestCreateJob(t *testing.T) {
	s := newTestServer()

	body := map[string]any{
		"employer_id": uuid.New().String(),
		"description": "Need masons for a two-week site",
		"required_skills": []map[string]any{
			{"skill": "masonry", "years_of_experience": 2},
		},
		"wage_amount":   800,
		"duration_days": 14,
		"worker_count":  3,
		"coordinates":   map[string]any{"latitude": 28.60, "longitude": 77.20},
	}
	w := doJSON(t, s.handleCreateJob, http.MethodPost, "/jobs", body, nil)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created jobView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, types.JobOpen, created.State)
	assert.Equal(t, 3, created.WorkerCount)
}

func TestCreateJob_RejectsZeroWage(t *testing.T) {
	s := newTestServer()

	body := map[string]any{
		"employer_id":   uuid.New().String(),
		"description":   "Free labor",
		"wage_amount":   0,
		"duration_days": 1,
		"worker_count":  1,
	}
	w := doJSON(t, s.handleCreateJob, http.MethodPost, "/jobs", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestAssignWorkerFlow walks a posting from open to filled through the API.
func TestAssignWorkerFlow(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, func(j *types.JobPosting) { j.WorkerCount = 2 })
	w1 := s.seedWorker(t, nil)
	w2 := s.seedWorker(t, nil)

	assign := func(workerID uuid.UUID) *json.Decoder {
		w := doJSON(t, s.handleAssignWorker, http.MethodPost, "/jobs/"+job.ID.String()+"/assign",
			map[string]any{"worker_id": workerID.String()}, map[string]string{"id": job.ID.String()})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return json.NewDecoder(w.Body)
	}

	var view jobView
	require.NoError(t, assign(w1.ID).Decode(&view))
	assert.Equal(t, types.JobPartiallyFilled, view.State)

	require.NoError(t, assign(w2.ID).Decode(&view))
	assert.Equal(t, types.JobFilled, view.State)
}

func TestAssignWorker_DuplicateConflicts(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, nil)
	worker := s.seedWorker(t, nil)

	body := map[string]any{"worker_id": worker.ID.String()}
	pv := map[string]string{"id": job.ID.String()}

	w := doJSON(t, s.handleAssignWorker, http.MethodPost, "/jobs/"+job.ID.String()+"/assign", body, pv)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s.handleAssignWorker, http.MethodPost, "/jobs/"+job.ID.String()+"/assign", body, pv)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAssignWorker_CapacityConflicts(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, func(j *types.JobPosting) { j.WorkerCount = 1 })
	w1 := s.seedWorker(t, nil)
	w2 := s.seedWorker(t, nil)

	pv := map[string]string{"id": job.ID.String()}
	w := doJSON(t, s.handleAssignWorker, http.MethodPost, "/jobs/"+job.ID.String()+"/assign",
		map[string]any{"worker_id": w1.ID.String()}, pv)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s.handleAssignWorker, http.MethodPost, "/jobs/"+job.ID.String()+"/assign",
		map[string]any{"worker_id": w2.ID.String()}, pv)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelJob_ThenAssignFails(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, nil)
	worker := s.seedWorker(t, nil)
	pv := map[string]string{"id": job.ID.String()}

	w := doJSON(t, s.handleCancelJob, http.MethodPost, "/jobs/"+job.ID.String()+"/cancel", nil, pv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, s.handleAssignWorker, http.MethodPost, "/jobs/"+job.ID.String()+"/assign",
		map[string]any{"worker_id": worker.ID.String()}, pv)
	assert.Equal(t, http.StatusConflict, w.Code)
}

// TestListCandidates verifies ranking order over the API.
func TestListCandidates(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, func(j *types.JobPosting) {
		j.Coordinates = types.Coordinates{Latitude: 28.60, Longitude: 77.20}
	})

	near := s.seedWorker(t, func(w *types.WorkerProfile) {
		w.Name = "Near Expert"
		w.Coordinates = types.Coordinates{Latitude: 28.601, Longitude: 77.201}
		w.Skills = []types.SkillRecord{{Skill: types.SkillMasonry, YearsOfExperience: 5}}
		w.ReliabilityScore = 0.9
	})
	s.seedWorker(t, func(w *types.WorkerProfile) {
		w.Name = "Far Novice"
		w.Coordinates = types.Coordinates{Latitude: 28.90, Longitude: 77.60}
		w.Skills = []types.SkillRecord{{Skill: types.SkillMasonry, YearsOfExperience: 1}}
		w.ReliabilityScore = 0.2
	})
	s.seedWorker(t, func(w *types.WorkerProfile) {
		w.Name = "Unavailable"
		w.IsAvailable = false
	})

	w := doJSON(t, s.handleListCandidates, http.MethodGet, "/jobs/"+job.ID.String()+"/candidates", nil, map[string]string{"id": job.ID.String()})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Candidates []types.CandidateMatch `json:"candidates"`
		Total      int                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, near.ID, resp.Candidates[0].WorkerID)
	assert.Greater(t, resp.Candidates[0].MatchScore, resp.Candidates[1].MatchScore)
}

func TestListCandidates_LimitParam(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, nil)
	for i := 0; i < 5; i++ {
		s.seedWorker(t, func(w *types.WorkerProfile) {
			w.Name = fmt.Sprintf("Worker %d", i)
		})
	}

	w := doJSON(t, s.handleListCandidates, http.MethodGet, "/jobs/"+job.ID.String()+"/candidates?limit=2", nil, map[string]string{"id": job.ID.String()})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
}

// TestBulkJobs exercises the partial-failure contract end to end.
func TestBulkJobs(t *testing.T) {
	s := newTestServer()
	employerID := uuid.New()

	row := func(desc string, wage float64) map[string]any {
		return map[string]any{
			"description":   desc,
			"skills":        "masonry:2",
			"wage_amount":   wage,
			"duration_days": 3,
			"worker_count":  2,
			"latitude":      28.61,
			"longitude":     77.21,
		}
	}
	body := map[string]any{
		"jobs": []map[string]any{
			row("Site one", 800),
			row("", 800),       // missing description
			row("Site two", 0), // invalid wage
			row("Site three", 650),
		},
	}

	w := doJSON(t, s.handleBulkJobs, http.MethodPost, "/jobs/bulk?employer_id="+employerID.String(), body, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		ValidJobs      []types.JobPosting `json:"valid_jobs"`
		InvalidEntries []string           `json:"invalid_entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.ValidJobs, 2)
	assert.Len(t, resp.InvalidEntries, 2)
	for _, job := range resp.ValidJobs {
		assert.Equal(t, employerID, job.EmployerID)
	}
}

func TestBulkJobs_InvalidEmployerID(t *testing.T) {
	s := newTestServer()

	w := doJSON(t, s.handleBulkJobs, http.MethodPost, "/jobs/bulk?employer_id=nope", map[string]any{"jobs": []any{}}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkJobs_SchemaViolation(t *testing.T) {
	s := newTestServer()
	employerID := uuid.New()

	// "jobs" must be an array.
	w := doJSON(t, s.handleBulkJobs, http.MethodPost, "/jobs/bulk?employer_id="+employerID.String(),
		map[string]any{"jobs": "not-an-array"}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestScanPassTogglesDay covers the kiosk scan endpoint: first scan opens
// the day, second closes it.
func TestScanPassTogglesDay(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, nil)
	worker := s.seedWorker(t, nil)

	pv := map[string]string{"id": job.ID.String()}
	w := doJSON(t, s.handleAssignWorker, http.MethodPost, "/jobs/"+job.ID.String()+"/assign",
		map[string]any{"worker_id": worker.ID.String()}, pv)
	require.Equal(t, http.StatusOK, w.Code)

	payload := s.signer.Encode(job.ID, worker.ID)

	w = doJSON(t, s.handleScanPass, http.MethodPost, "/attendance/scan", map[string]any{"payload": payload}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "checked_in", resp["status"])

	w = doJSON(t, s.handleScanPass, http.MethodPost, "/attendance/scan", map[string]any{"payload": payload}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "checked_out", resp["status"])
}

func TestScanPass_TamperedPayload(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, nil)
	worker := s.seedWorker(t, nil)

	payload := s.signer.Encode(job.ID, worker.ID) + "x"
	w := doJSON(t, s.handleScanPass, http.MethodPost, "/attendance/scan", map[string]any{"payload": payload}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendancePass_UnassignedWorker(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, nil)
	worker := s.seedWorker(t, nil)

	target := "/jobs/" + job.ID.String() + "/pass?worker_id=" + worker.ID.String()
	w := doJSON(t, s.handleAttendancePass, http.MethodGet, target, nil, map[string]string{"id": job.ID.String()})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// TestRateWorkerFlow runs complete-then-rate and checks the score updates.
func TestRateWorkerFlow(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, func(j *types.JobPosting) { j.WorkerCount = 1 })
	worker := s.seedWorker(t, func(w *types.WorkerProfile) { w.ReliabilityScore = 0.5 })
	pv := map[string]string{"id": job.ID.String()}

	w := doJSON(t, s.handleAssignWorker, http.MethodPost, "/jobs/"+job.ID.String()+"/assign",
		map[string]any{"worker_id": worker.ID.String()}, pv)
	require.Equal(t, http.StatusOK, w.Code)

	workerBody := map[string]any{"worker_id": worker.ID.String()}
	w = doJSON(t, s.handleCheckIn, http.MethodPost, "/jobs/"+job.ID.String()+"/checkin", workerBody, pv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = doJSON(t, s.handleCheckOut, http.MethodPost, "/jobs/"+job.ID.String()+"/checkout", workerBody, pv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, s.handleCompleteJob, http.MethodPost, "/jobs/"+job.ID.String()+"/complete", nil, pv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, s.handleRateWorker, http.MethodPost, "/jobs/"+job.ID.String()+"/rate",
		map[string]any{"worker_id": worker.ID.String(), "rating": 5, "remarks": "solid work"}, pv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Rating        float64 `json:"rating"`
		RatingCount   int     `json:"rating_count"`
		CompletedJobs int     `json:"completed_jobs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5.0, resp.Rating)
	assert.Equal(t, 1, resp.RatingCount)
	assert.Equal(t, 1, resp.CompletedJobs)
}

func TestRateWorker_OutOfRange(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, nil)
	worker := s.seedWorker(t, nil)
	pv := map[string]string{"id": job.ID.String()}

	w := doJSON(t, s.handleRateWorker, http.MethodPost, "/jobs/"+job.ID.String()+"/rate",
		map[string]any{"worker_id": worker.ID.String(), "rating": 9}, pv)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestRecordPayment checks the running balance threads across entries.
func TestRecordPayment(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, nil)
	worker := s.seedWorker(t, nil)
	pv := map[string]string{"id": job.ID.String()}

	pay := func(amount float64) types.PaymentRecord {
		w := doJSON(t, s.handleRecordPayment, http.MethodPost, "/jobs/"+job.ID.String()+"/payments",
			map[string]any{"worker_id": worker.ID.String(), "amount": amount, "payment_method": "cash"}, pv)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var rec types.PaymentRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
		return rec
	}

	first := pay(500)
	assert.Equal(t, 500.0, first.RunningBalance)

	second := pay(250)
	assert.Equal(t, 750.0, second.RunningBalance)
}

func TestSetPaymentStatus(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, nil)
	worker := s.seedWorker(t, nil)
	pv := map[string]string{"id": job.ID.String()}

	w := doJSON(t, s.handleRecordPayment, http.MethodPost, "/jobs/"+job.ID.String()+"/payments",
		map[string]any{"worker_id": worker.ID.String(), "amount": 400, "payment_method": "cash"}, pv)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var rec types.PaymentRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))

	w = doJSON(t, s.handleSetPaymentStatus, http.MethodPut, "/payments/"+rec.ID.String()+"/status",
		map[string]any{"status": "completed"}, map[string]string{"id": rec.ID.String()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	payments, err := s.store.ListJobPayments(context.Background(), job.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, types.PaymentCompleted, payments[0].Status)
}

func TestSetPaymentStatus_UnknownStatus(t *testing.T) {
	s := newTestServer()
	id := uuid.New().String()

	w := doJSON(t, s.handleSetPaymentStatus, http.MethodPut, "/payments/"+id+"/status",
		map[string]any{"status": "refunded"}, map[string]string{"id": id})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestNotificationFlow drives assignment notifications through the API.
func TestNotificationFlow(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, nil)
	worker := s.seedWorker(t, nil)
	jobPV := map[string]string{"id": job.ID.String()}
	workerPV := map[string]string{"id": worker.ID.String()}

	w := doJSON(t, s.handleAssignWorker, http.MethodPost, "/jobs/"+job.ID.String()+"/assign",
		map[string]any{"worker_id": worker.ID.String()}, jobPV)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s.handleListNotifications, http.MethodGet, "/workers/"+worker.ID.String()+"/notifications", nil, workerPV)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Notifications []notificationView `json:"notifications"`
		Unread        int                `json:"unread"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Notifications, 1)
	assert.True(t, resp.Notifications[0].Unread)
	assert.Equal(t, 1, resp.Unread)

	w = doJSON(t, s.handleMarkNotificationRead, http.MethodPost, "/workers/"+worker.ID.String()+"/notifications/read",
		map[string]any{"job_id": job.ID.String()}, workerPV)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, s.handleListNotifications, http.MethodGet, "/workers/"+worker.ID.String()+"/notifications", nil, workerPV)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Unread)
}

func TestRemindEndpoint(t *testing.T) {
	s := newTestServer()
	job := s.seedJob(t, nil)
	worker := s.seedWorker(t, nil)
	pv := map[string]string{"id": job.ID.String()}

	w := doJSON(t, s.handleAssignWorker, http.MethodPost, "/jobs/"+job.ID.String()+"/assign",
		map[string]any{"worker_id": worker.ID.String()}, pv)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s.handleRemind, http.MethodPost, "/jobs/"+job.ID.String()+"/remind", nil, pv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		RemindersSent int `json:"reminders_sent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.RemindersSent)

	// Second reminder pass is a no-op.
	w = doJSON(t, s.handleRemind, http.MethodPost, "/jobs/"+job.ID.String()+"/remind", nil, pv)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.RemindersSent)
}

// TestTemplateLifecycle covers save, list, post-from, and delete.
func TestTemplateLifecycle(t *testing.T) {
	s := newTestServer()
	employerID := uuid.New()

	body := map[string]any{
		"employer_id": employerID.String(),
		"name":        "weekday-masons",
		"description": "Standing crew for weekday sites",
		"required_skills": []map[string]any{
			{"skill": "masonry", "years_of_experience": 2},
		},
		"wage_amount":   750,
		"duration_days": 5,
		"worker_count":  4,
		"coordinates":   map[string]any{"latitude": 28.61, "longitude": 77.21},
	}
	w := doJSON(t, s.handleCreateTemplate, http.MethodPost, "/templates", body, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var tmpl types.JobTemplate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tmpl))
	require.NotEqual(t, uuid.Nil, tmpl.ID)

	pv := map[string]string{"id": tmpl.ID.String()}
	w = doJSON(t, s.handlePostFromTemplate, http.MethodPost, "/templates/"+tmpl.ID.String()+"/post", nil, pv)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var posted jobView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posted))
	assert.Equal(t, employerID, posted.EmployerID)
	assert.Equal(t, types.JobOpen, posted.State)

	w = doJSON(t, s.handleDeleteTemplate, http.MethodDelete, "/templates/"+tmpl.ID.String(), nil, pv)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s.handleGetTemplate, http.MethodGet, "/templates/"+tmpl.ID.String(), nil, pv)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestEmployerUpsert covers the employer profile round trip.
func TestEmployerUpsert(t *testing.T) {
	s := newTestServer()
	accountID := uuid.New()
	pv := map[string]string{"id": accountID.String()}

	body := map[string]any{
		"company_name":   "Sharma Constructions",
		"company_type":   "contractor",
		"contact_person": "A. Sharma",
		"coordinates":    map[string]any{"latitude": 28.61, "longitude": 77.21},
	}
	w := doJSON(t, s.handleUpsertEmployer, http.MethodPut, "/employers/"+accountID.String(), body, pv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, s.handleGetEmployer, http.MethodGet, "/employers/"+accountID.String(), nil, pv)
	require.Equal(t, http.StatusOK, w.Code)

	var profile types.EmployerProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, accountID, profile.AccountID)
	assert.Equal(t, "Sharma Constructions", profile.CompanyName)
}

// TestMetricsEndpoint checks the snapshot over seeded data.
func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer()
	worker := s.seedWorker(t, nil)
	job := s.seedJob(t, func(j *types.JobPosting) { j.WorkerCount = 1 })
	s.seedJob(t, nil)
	pv := map[string]string{"id": job.ID.String()}

	w := doJSON(t, s.handleAssignWorker, http.MethodPost, "/jobs/"+job.ID.String()+"/assign",
		map[string]any{"worker_id": worker.ID.String()}, pv)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s.handleMetrics, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var m types.SystemMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, 2, m.TotalJobsPosted)
	assert.Equal(t, 1, m.TotalWorkersRegistered)
	assert.InDelta(t, 0.5, m.JobFillRate, 1e-9)
}
