// Package server provides the HTTP API for assembling and drafting campaign decks.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/campaign-deck/internal/assembly"
	"github.com/jonathan/campaign-deck/internal/delivery"
	"github.com/jonathan/campaign-deck/internal/drafting"
	"github.com/jonathan/campaign-deck/internal/llm"
	"github.com/jonathan/campaign-deck/internal/logging"
	"github.com/jonathan/campaign-deck/internal/server/ratelimit"
)

// DefaultMaxBodyBytes bounds request bodies, images included
const DefaultMaxBodyBytes = 32 << 20

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	log         logging.Logger
	assembler   *assembly.Assembler
	drafter     *drafting.Drafter
	llmClient   llm.Client
	store       delivery.Deliverer
	rateLimiter *ratelimit.Limiter
	maxBody     int64
}

// Config holds server configuration
type Config struct {
	Port        int
	APIKey      string // Gemini key; drafting is disabled without it
	Concurrency int
	MaxBodySize int64

	// ObjectStore enables ?delivery=link uploads when configured
	ObjectStore delivery.ObjectStoreConfig
	// RateLimit defaults to ratelimit.LoadConfig from the environment
	RateLimit *ratelimit.Config

	Logger logging.Logger

	// LLM and Store replace the clients built from APIKey and ObjectStore
	LLM   llm.Client
	Store delivery.Deliverer
}

// New creates a new server instance
func New(ctx context.Context, cfg Config) (*Server, error) {
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}

	s := &Server{
		log:       log,
		assembler: assembly.New(log, assembly.WithConcurrency(cfg.Concurrency)),
		llmClient: cfg.LLM,
		store:     cfg.Store,
		maxBody:   cfg.MaxBodySize,
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}

	if s.store == nil && cfg.ObjectStore.Enabled() {
		store, err := delivery.NewObjectStore(cfg.ObjectStore)
		if err != nil {
			return nil, fmt.Errorf("failed to configure object store: %w", err)
		}
		s.store = store
	}

	if s.llmClient == nil && cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		s.llmClient = client
	}
	if s.llmClient != nil {
		s.drafter = drafting.New(s.llmClient, log)
	} else {
		log.Warnf(ctx, "No API key configured, POST /drafts is disabled")
	}

	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig(nil)
	}
	s.rateLimiter = ratelimit.NewLimiter(rl)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // drafting waits on the model
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /decks", s.handleDecks)
	mux.HandleFunc("POST /decks/stream", s.handleDeckStream)
	mux.HandleFunc("POST /decks/validate", s.handleValidate)
	mux.HandleFunc("POST /drafts", s.handleDrafts)
	mux.HandleFunc("GET /schemes", s.handleSchemes)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withRequestID(s.withRateLimit(s.withLogging(s.withCORS(mux))))
}

// Start listens until ctx is cancelled or the process is interrupted, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof(ctx, "Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.Close()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	s.log.Infof(context.Background(), "Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	s.log.Infof(context.Background(), "Server stopped")
	return nil
}

// Close releases the rate limiter and the LLM client
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			s.log.Warnf(context.Background(), "Failed to close LLM client: %v", err)
		}
	}
}

// withRequestID tags every request with an id, reusing the caller's when given
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, "+RequestIDHeader+", X-Deck-Id, X-Slide-Count, X-Skipped-Slides")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their token bucket allowance
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for the request log
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps SSE streaming working through the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		s.log.Debugf(r.Context(), "[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(rec, r)
		s.log.Infof(r.Context(), "[%s] %s %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"drafting": s.drafter != nil,
		"storage":  s.store != nil,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf(context.Background(), "Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail logs err and answers with the status HTTPStatus assigns to it
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Errorf(r.Context(), "[%s] %s failed: %v", r.Method, r.URL.Path, err)
	} else {
		s.log.Warnf(r.Context(), "[%s] %s rejected: %v", r.Method, r.URL.Path, err)
	}

	if fields := FieldErrors(err); len(fields) > 0 {
		s.jsonResponse(w, status, map[string]any{"error": PublicMessage(err), "fields": fields})
		return
	}
	s.errorResponse(w, status, PublicMessage(err))
}

// extractClientID identifies the caller by remote IP
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
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.log.Warnf(r.Context(), "[rate-limit] %s %s from %s: limit=%d", r.Method, r.URL.Path, s.extractClientID(r), info.Limit)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
