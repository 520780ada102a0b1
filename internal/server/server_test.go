package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaamsetu/kaamsetu/internal/db"
	"github.com/kaamsetu/kaamsetu/internal/qr"
	"github.com/kaamsetu/kaamsetu/internal/types"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	mu            sync.Mutex
	workers       map[uuid.UUID]*types.WorkerProfile
	jobs          map[uuid.UUID]*types.JobPosting
	templates     map[uuid.UUID]*types.JobTemplate
	employers     map[uuid.UUID]*types.EmployerProfile
	attendance    map[uuid.UUID]*types.AttendanceRecord
	payments      []types.PaymentRecord
	ratings       []db.WorkerRating
	notifications map[[2]uuid.UUID]types.JobNotification
}

func newMemStore() *memStore {
	return &memStore{
		workers:       make(map[uuid.UUID]*types.WorkerProfile),
		jobs:          make(map[uuid.UUID]*types.JobPosting),
		templates:     make(map[uuid.UUID]*types.JobTemplate),
		employers:     make(map[uuid.UUID]*types.EmployerProfile),
		attendance:    make(map[uuid.UUID]*types.AttendanceRecord),
		notifications: make(map[[2]uuid.UUID]types.JobNotification),
	}
}

func (m *memStore) CreateWorkerProfile(_ context.Context, w *types.WorkerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	w.CreatedAt = time.Now()
	w.UpdatedAt = w.CreatedAt
	cp := *w
	m.workers[w.ID] = &cp
	return nil
}

func (m *memStore) GetWorkerProfile(_ context.Context, id uuid.UUID) (*types.WorkerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workers[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (m *memStore) ListWorkerProfiles(_ context.Context, onlyAvailable bool) ([]types.WorkerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.WorkerProfile
	for _, w := range m.workers {
		if onlyAvailable && !w.IsAvailable {
			continue
		}
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) UpdateWorkerProfile(_ context.Context, w *types.WorkerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workers[w.ID]; !ok {
		return fmt.Errorf("worker %s not found", w.ID)
	}
	cp := *w
	m.workers[w.ID] = &cp
	return nil
}

func (m *memStore) SetWorkerAvailability(_ context.Context, workerID uuid.UUID, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workers[workerID]
	if !ok {
		return fmt.Errorf("worker %s not found", workerID)
	}
	w.IsAvailable = available
	return nil
}

func (m *memStore) UpdateWorkerScores(_ context.Context, workerID uuid.UUID, rating float64, ratingCount int, reliability float64, completedJobs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workers[workerID]
	if !ok {
		return fmt.Errorf("worker %s not found", workerID)
	}
	w.Rating = rating
	w.RatingCount = ratingCount
	w.ReliabilityScore = reliability
	w.CompletedJobs = completedJobs
	return nil
}

func (m *memStore) CountWorkers(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workers), nil
}

func (m *memStore) CountRepeatWorkers(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, w := range m.workers {
		if w.CompletedJobs > 1 {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateJobPosting(_ context.Context, j *types.JobPosting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	j.CreatedAt = time.Now()
	j.UpdatedAt = j.CreatedAt
	cp := *j
	m.jobs[j.ID] = &cp
	return nil
}

func (m *memStore) GetJobPosting(_ context.Context, id uuid.UUID) (*types.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	cp.AssignedWorkers = append([]uuid.UUID(nil), j.AssignedWorkers...)
	return &cp, nil
}

func (m *memStore) ListJobPostings(_ context.Context) ([]types.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.JobPosting
	for _, j := range m.jobs {
		out = append(out, *j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) ListEmployerJobPostings(_ context.Context, employerID uuid.UUID) ([]types.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.JobPosting
	for _, j := range m.jobs {
		if j.EmployerID == employerID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (m *memStore) SetJobAssignments(_ context.Context, jobID uuid.UUID, workers []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobID]
	if !ok {
		return fmt.Errorf("job %s not found", jobID)
	}
	j.AssignedWorkers = append([]uuid.UUID(nil), workers...)
	j.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) SetJobCompleted(_ context.Context, jobID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobID]
	if !ok {
		return fmt.Errorf("job %s not found", jobID)
	}
	j.IsCompleted = true
	return nil
}

func (m *memStore) SetJobCancelled(_ context.Context, jobID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobID]
	if !ok {
		return fmt.Errorf("job %s not found", jobID)
	}
	j.IsCancelled = true
	return nil
}

func (m *memStore) ListJobWorkers(_ context.Context, jobID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobID]
	if !ok {
		return nil, nil
	}
	return append([]uuid.UUID(nil), j.AssignedWorkers...), nil
}

func (m *memStore) ListJobWorkerAttendance(_ context.Context, jobID, workerID uuid.UUID) ([]types.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.AttendanceRecord
	for _, rec := range m.attendance {
		if rec.JobID == jobID && rec.WorkerID == workerID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memStore) ListJobAttendance(_ context.Context, jobID uuid.UUID) ([]types.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.AttendanceRecord
	for _, rec := range m.attendance {
		if rec.JobID == jobID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *memStore) CreateAttendance(_ context.Context, rec *types.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	cp := *rec
	m.attendance[rec.ID] = &cp
	return nil
}

func (m *memStore) CloseAttendance(_ context.Context, recordID uuid.UUID, checkOut time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.attendance[recordID]
	if !ok {
		return fmt.Errorf("attendance record %s not found", recordID)
	}
	out := checkOut
	rec.CheckOutTime = &out
	return nil
}

func (m *memStore) SaveRating(_ context.Context, jobID, workerID uuid.UUID, rating int, remarks string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings = append(m.ratings, db.WorkerRating{
		ID: uuid.New(), JobID: jobID, WorkerID: workerID,
		Rating: rating, Remarks: remarks, CreatedAt: time.Now(),
	})
	return nil
}

func (m *memStore) ListWorkerRatings(_ context.Context, workerID uuid.UUID) ([]db.WorkerRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.WorkerRating
	for _, r := range m.ratings {
		if r.WorkerID == workerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) LastRunningBalance(_ context.Context, workerID uuid.UUID) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.payments) - 1; i >= 0; i-- {
		if m.payments[i].WorkerID == workerID {
			return m.payments[i].RunningBalance, nil
		}
	}
	return 0, nil
}

func (m *memStore) AppendPayment(_ context.Context, rec *types.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.PaymentDate.IsZero() {
		rec.PaymentDate = time.Now()
	}
	m.payments = append(m.payments, *rec)
	return nil
}

func (m *memStore) SetPaymentStatus(_ context.Context, paymentID uuid.UUID, status types.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.payments {
		if m.payments[i].ID == paymentID {
			m.payments[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("payment %s not found", paymentID)
}

func (m *memStore) ListWorkerPayments(_ context.Context, workerID uuid.UUID) ([]types.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.PaymentRecord
	for _, p := range m.payments {
		if p.WorkerID == workerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) ListJobPayments(_ context.Context, jobID uuid.UUID) ([]types.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.PaymentRecord
	for _, p := range m.payments {
		if p.JobID == jobID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) GetNotification(_ context.Context, jobID, workerID uuid.UUID) (*types.JobNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.notifications[[2]uuid.UUID{jobID, workerID}]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (m *memStore) UpsertNotification(_ context.Context, rec *types.JobNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications[[2]uuid.UUID{rec.JobID, rec.WorkerID}] = *rec
	return nil
}

func (m *memStore) ListWorkerNotifications(_ context.Context, workerID uuid.UUID) ([]types.JobNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.JobNotification
	for key, rec := range m.notifications {
		if key[1] == workerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memStore) CreateJobTemplate(_ context.Context, t *types.JobTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	cp := *t
	m.templates[t.ID] = &cp
	return nil
}

func (m *memStore) GetJobTemplate(_ context.Context, id uuid.UUID) (*types.JobTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) ListEmployerTemplates(_ context.Context, employerID uuid.UUID) ([]types.JobTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.JobTemplate
	for _, t := range m.templates {
		if t.EmployerID == employerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) DeleteJobTemplate(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[id]; !ok {
		return fmt.Errorf("template %s not found", id)
	}
	delete(m.templates, id)
	return nil
}

func (m *memStore) UpsertEmployerProfile(_ context.Context, e *types.EmployerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.UpdatedAt = time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = e.UpdatedAt
	}
	cp := *e
	m.employers[e.AccountID] = &cp
	return nil
}

func (m *memStore) GetEmployerProfile(_ context.Context, accountID uuid.UUID) (*types.EmployerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employers[accountID]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) CountActiveEmployers(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	for _, j := range m.jobs {
		seen[j.EmployerID] = true
	}
	return len(seen), nil
}

func (m *memStore) CountRepeatEmployers(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[uuid.UUID]int)
	for _, j := range m.jobs {
		counts[j.EmployerID]++
	}
	n := 0
	for _, c := range counts {
		if c > 1 {
			n++
		}
	}
	return n, nil
}

// testServer bundles a server over a memStore.
type testServer struct {
	*Server
	store *memStore
}

func newTestServer() *testServer {
	store := newMemStore()
	signer, _ := qr.NewSigner("test-pass-secret")
	return &testServer{
		Server: newServer(store, signer, 0, nil),
		store:  store,
	}
}

func (ts *testServer) seedWorker(t *testing.T, mutate func(*types.WorkerProfile)) *types.WorkerProfile {
	t.Helper()
	w := &types.WorkerProfile{
		AccountID:   uuid.New(),
		Name:        "Seeded Worker",
		Skills:      []types.SkillRecord{{Skill: types.SkillMasonry, YearsOfExperience: 3}},
		WageRange:   types.WageRange{Min: 500, Max: 900},
		Coordinates: types.Coordinates{Latitude: 28.61, Longitude: 77.21},
		IsAvailable: true,
	}
	if mutate != nil {
		mutate(w)
	}
	require.NoError(t, ts.store.CreateWorkerProfile(context.Background(), w))
	return w
}

func (ts *testServer) seedJob(t *testing.T, mutate func(*types.JobPosting)) *types.JobPosting {
	t.Helper()
	j := &types.JobPosting{
		EmployerID:     uuid.New(),
		Description:    "Seeded job",
		RequiredSkills: []types.SkillRecord{{Skill: types.SkillMasonry, YearsOfExperience: 2}},
		WageAmount:     800,
		DurationDays:   3,
		WorkerCount:    2,
		Coordinates:    types.Coordinates{Latitude: 28.60, Longitude: 77.20},
	}
	if mutate != nil {
		mutate(j)
	}
	require.NoError(t, ts.store.CreateJobPosting(context.Background(), j))
	return j
}

// doJSON runs a request with a JSON body through a handler.
func doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body any, pathValues map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

// TestHealthEndpoint tests the /health endpoint
func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	s.handleHealth(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}
