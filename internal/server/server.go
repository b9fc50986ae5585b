package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/candidate-screener/internal/config"
	"github.com/jonathan/candidate-screener/internal/convai"
	"github.com/jonathan/candidate-screener/internal/enrichment"
	"github.com/jonathan/candidate-screener/internal/llm"
	"github.com/jonathan/candidate-screener/internal/screening"
	"github.com/jonathan/candidate-screener/internal/server/ratelimit"
	"github.com/jonathan/candidate-screener/internal/store"
)

// Server is the HTTP server for the screening API.
type Server struct {
	httpServer        *http.Server
	svc               *screening.Service
	jwtService        *JWTService
	adminPasswordHash string
	rateLimiter       *ratelimit.Limiter
	closers           []func()
}

// New wires the full server from configuration: store backend, judge model,
// agent provider and enrichment collaborators.
func New(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	var kv store.KV
	var closers []func()
	switch cfg.Storage {
	case config.StoragePostgres:
		pg, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		closers = append(closers, pg.Close)
		kv = pg
	default:
		kv = store.NewFileKV(cfg.SnapshotPath)
	}

	judge, err := llm.NewClient(ctx, &llm.Config{
		Provider: llm.Provider(cfg.JudgeProvider),
		Model:    cfg.JudgeModel,
		APIKey:   cfg.JudgeAPIKey(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create judge client: %w", err)
	}
	closers = append(closers, func() { _ = judge.Close() })

	var agents convai.Provider
	if cfg.AgentBaseURL != "" {
		agents = convai.NewClient(cfg.AgentBaseURL, cfg.AgentAPIKey)
	}

	svc := screening.NewService(store.New(kv), judge, agents, screening.Options{
		GitHub:     enrichment.NewGitHubClient(cfg.GitHubToken),
		UseBrowser: cfg.UseBrowser,
	})

	s := newServer(svc, NewJWTService(cfg.JWTSecret, cfg.JWTExpirationHrs), cfg.AdminPasswordHash, ratelimit.NewLimiter(nil))
	s.closers = closers
	s.httpServer.Addr = ":" + cfg.Port
	return s, nil
}

// newServer builds the routing table over already-wired dependencies. Tests
// use this directly with fake collaborators.
func newServer(svc *screening.Service, jwtService *JWTService, adminPasswordHash string, limiter *ratelimit.Limiter) *Server {
	s := &Server{
		svc:               svc,
		jwtService:        jwtService,
		adminPasswordHash: adminPasswordHash,
		rateLimiter:       limiter,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /admin/login", s.handleAdminLogin)

	// Role templates (admin).
	mux.HandleFunc("POST /roles", s.withAdminAuth(s.handleCreateRole))
	mux.HandleFunc("GET /roles", s.withAdminAuth(s.handleListRoles))
	mux.HandleFunc("PATCH /roles/{id}/status", s.withAdminAuth(s.handleSetRoleStatus))
	mux.HandleFunc("DELETE /roles/{id}", s.withAdminAuth(s.handleDeleteRole))
	mux.HandleFunc("POST /roles/autofill", s.withAdminAuth(s.handleAutofillRole))
	mux.HandleFunc("POST /extract", s.withAdminAuth(s.handleExtract))

	// Candidates apply against a role, so reading one is public.
	mux.HandleFunc("GET /roles/{id}", s.handleGetRole)

	// Candidate sessions.
	mux.HandleFunc("POST /roles/{id}/sessions", s.handleSubmitCandidate)
	mux.HandleFunc("GET /sessions", s.withAdminAuth(s.handleListSessions))
	mux.HandleFunc("GET /sessions/{id}", s.withAdminAuth(s.handleGetSession))
	mux.HandleFunc("POST /sessions/{id}/agent", s.handleProvisionAgent)
	mux.HandleFunc("GET /sessions/{id}/token", s.handleConnectionToken)
	mux.HandleFunc("POST /sessions/{id}/start", s.handleStartSession)
	mux.HandleFunc("POST /sessions/{id}/sync", s.handleSyncSession)
	mux.HandleFunc("POST /sessions/{id}/complete", s.handleCompleteSession)
	mux.HandleFunc("POST /sessions/{id}/feedback", s.handleSubmitFeedback)

	// Admin decisioning.
	mux.HandleFunc("PATCH /sessions/{id}/status", s.withAdminAuth(s.handleDecide))
	mux.HandleFunc("POST /sessions/status", s.withAdminAuth(s.handleBulkDecide))

	s.httpServer = &http.Server{
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // judge calls run inside complete
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening and blocks until an interrupt, then shuts down
// gracefully.
func (s *Server) Start() error {
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

// withCORS adds CORS headers for the admin console and candidate UI.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit applies per-client token-bucket limits.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientIP(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		}
		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
			}
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps a service error to its response shape. Field-validation
// failures carry the per-field error map.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	var invalid *screening.InvalidInputError
	if errors.As(err, &invalid) {
		s.jsonResponse(w, http.StatusUnprocessableEntity, map[string]any{"errors": invalid.Fields})
		return
	}
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		s.errorResponse(w, status, "Internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
