// Package server provides the HTTP REST API for the marketplace.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kaamsetu/kaamsetu/internal/config"
	"github.com/kaamsetu/kaamsetu/internal/db"
	"github.com/kaamsetu/kaamsetu/internal/ingest"
	"github.com/kaamsetu/kaamsetu/internal/lifecycle"
	"github.com/kaamsetu/kaamsetu/internal/metrics"
	"github.com/kaamsetu/kaamsetu/internal/notify"
	"github.com/kaamsetu/kaamsetu/internal/qr"
	"github.com/kaamsetu/kaamsetu/internal/server/middleware"
	"github.com/kaamsetu/kaamsetu/internal/server/ratelimit"
	"github.com/kaamsetu/kaamsetu/internal/types"
)

// Store is the persistence surface the handlers drive. *db.DB satisfies
// it; tests substitute an in-memory implementation.
type Store interface {
	lifecycle.Store
	notify.Store
	metrics.Source

	CreateWorkerProfile(ctx context.Context, w *types.WorkerProfile) error
	ListWorkerProfiles(ctx context.Context, onlyAvailable bool) ([]types.WorkerProfile, error)
	UpdateWorkerProfile(ctx context.Context, w *types.WorkerProfile) error
	SetWorkerAvailability(ctx context.Context, workerID uuid.UUID, available bool) error
	CountRepeatWorkers(ctx context.Context) (int, error)

	CreateJobPosting(ctx context.Context, j *types.JobPosting) error
	ListEmployerJobPostings(ctx context.Context, employerID uuid.UUID) ([]types.JobPosting, error)

	ListJobAttendance(ctx context.Context, jobID uuid.UUID) ([]types.AttendanceRecord, error)

	ListWorkerPayments(ctx context.Context, workerID uuid.UUID) ([]types.PaymentRecord, error)
	ListJobPayments(ctx context.Context, jobID uuid.UUID) ([]types.PaymentRecord, error)
	SetPaymentStatus(ctx context.Context, paymentID uuid.UUID, status types.PaymentStatus) error

	ListWorkerRatings(ctx context.Context, workerID uuid.UUID) ([]db.WorkerRating, error)

	CreateJobTemplate(ctx context.Context, t *types.JobTemplate) error
	GetJobTemplate(ctx context.Context, id uuid.UUID) (*types.JobTemplate, error)
	ListEmployerTemplates(ctx context.Context, employerID uuid.UUID) ([]types.JobTemplate, error)
	DeleteJobTemplate(ctx context.Context, id uuid.UUID) error

	UpsertEmployerProfile(ctx context.Context, e *types.EmployerProfile) error
	GetEmployerProfile(ctx context.Context, accountID uuid.UUID) (*types.EmployerProfile, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	engine      *lifecycle.Engine
	tracker     *notify.Tracker
	ingestor    *ingest.Ingestor
	collector   *metrics.Collector
	signer      *qr.Signer
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	validate    *validator.Validate

	closers []func()
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := cache.Ping(ctx).Err(); err != nil {
			log.Printf("Redis unavailable at %s, unread counters fall back to the database: %v", cfg.RedisAddr, err)
			cache = nil
		}
	}

	var signer *qr.Signer
	if cfg.PassSecret != "" {
		signer, err = qr.NewSigner(cfg.PassSecret)
		if err != nil {
			database.Close()
			return nil, err
		}
	}

	var jwtService *JWTService
	if os.Getenv("JWT_SECRET") != "" {
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		jwtService = NewJWTService(jwtConfig)
	}

	s := newServer(database, signer, cfg.ReliabilityStep, cache)
	s.jwtService = jwtService
	s.closers = append(s.closers, database.Close)
	if cache != nil {
		s.closers = append(s.closers, func() { _ = cache.Close() })
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.withAuth(s.routes())))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newServer wires the domain services over a store. Tests call it with an
// in-memory store and no Redis.
func newServer(store Store, signer *qr.Signer, reliabilityStep float64, cache *redis.Client) *Server {
	tracker := notify.New(store, cache)
	engineCfg := lifecycle.DefaultConfig()
	if reliabilityStep > 0 {
		engineCfg.ReliabilityStep = reliabilityStep
	}

	return &Server{
		store:       store,
		engine:      lifecycle.New(store, tracker, engineCfg),
		tracker:     tracker,
		ingestor:    ingest.New(store),
		collector:   metrics.NewCollector(store),
		signer:      signer,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		validate:    validator.New(),
	}
}

// routes builds the request mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Worker endpoints
	mux.HandleFunc("POST /workers", s.handleCreateWorker)
	mux.HandleFunc("GET /workers", s.handleListWorkers)
	mux.HandleFunc("GET /workers/{id}", s.handleGetWorker)
	mux.HandleFunc("PUT /workers/{id}", s.handleUpdateWorker)
	mux.HandleFunc("PUT /workers/{id}/availability", s.handleSetAvailability)
	mux.HandleFunc("GET /workers/{id}/payments", s.handleListWorkerPayments)
	mux.HandleFunc("GET /workers/{id}/ratings", s.handleListWorkerRatings)

	// Notification endpoints
	mux.HandleFunc("GET /workers/{id}/notifications", s.handleListNotifications)
	mux.HandleFunc("POST /workers/{id}/notifications/read", s.handleMarkNotificationRead)
	mux.HandleFunc("GET /workers/{id}/notifications/stream", s.handleNotificationStream)

	// Job endpoints
	mux.HandleFunc("POST /jobs", s.handleCreateJob)
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.HandleFunc("POST /jobs/{id}/cancel", s.handleCancelJob)
	mux.HandleFunc("POST /jobs/{id}/complete", s.handleCompleteJob)
	mux.HandleFunc("POST /jobs/{id}/remind", s.handleRemind)
	mux.HandleFunc("GET /jobs/{id}/candidates", s.handleListCandidates)
	mux.HandleFunc("POST /jobs/{id}/assign", s.handleAssignWorker)

	// Attendance endpoints
	mux.HandleFunc("POST /jobs/{id}/checkin", s.handleCheckIn)
	mux.HandleFunc("POST /jobs/{id}/checkout", s.handleCheckOut)
	mux.HandleFunc("GET /jobs/{id}/attendance", s.handleListAttendance)
	mux.HandleFunc("GET /jobs/{id}/pass", s.handleAttendancePass)
	mux.HandleFunc("POST /attendance/scan", s.handleScanPass)

	// Rating and payment endpoints
	mux.HandleFunc("POST /jobs/{id}/rate", s.handleRateWorker)
	mux.HandleFunc("POST /jobs/{id}/payments", s.handleRecordPayment)
	mux.HandleFunc("GET /jobs/{id}/payments", s.handleListJobPayments)
	mux.HandleFunc("PUT /payments/{id}/status", s.handleSetPaymentStatus)

	// Bulk ingestion
	mux.HandleFunc("POST /jobs/bulk", s.handleBulkJobs)

	// Template endpoints
	mux.HandleFunc("POST /templates", s.handleCreateTemplate)
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("GET /templates/{id}", s.handleGetTemplate)
	mux.HandleFunc("DELETE /templates/{id}", s.handleDeleteTemplate)
	mux.HandleFunc("POST /templates/{id}/post", s.handlePostFromTemplate)

	// Employer endpoints
	mux.HandleFunc("PUT /employers/{id}", s.handleUpsertEmployer)
	mux.HandleFunc("GET /employers/{id}", s.handleGetEmployer)
	mux.HandleFunc("GET /employers/{id}/jobs", s.handleListEmployerJobs)

	// Marketplace metrics
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for _, closer := range s.closers {
		closer()
	}
	log.Println("Server stopped")
	return nil
}

// withAuth requires a bearer token on every route except the health check.
// When no JWT secret is configured the API runs open, which suits local
// development and kiosk deployments behind their own gateway.
func (s *Server) withAuth(next http.Handler) http.Handler {
	if s.jwtService == nil {
		return next
	}
	authed := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		authed.ServeHTTP(w, r)
	})
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For now this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
