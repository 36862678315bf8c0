// Package http exposes the JSON API: roster and payment mutations, the
// aggregation reports, and the model-backed insight endpoints.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"edupay/internal/cache"
	"edupay/internal/insights"
	applog "edupay/internal/log"
	"edupay/internal/services"
)

type Server struct {
	http.Server
	ledger      *services.LedgerService
	ai          *insights.Client
	logger      *applog.Logger
	rateLimiter *rateLimiter

	// Insight responses are the one thing not recomputed per request;
	// model calls are slow and billed, so they sit behind an LRU.
	insightCache *cache.Cache[string]

	shutdownOnce sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// The insights client may be nil; its endpoints then answer 503.
func NewServer(addr string, ledger *services.LedgerService, ai *insights.Client, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		ledger:       ledger,
		ai:           ai,
		logger:       logger.WithComponent(applog.ComponentHTTP),
		rateLimiter:  newRateLimiter(),
		insightCache: cache.New[string](50, 10*time.Minute),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/data", s.handleGetData)

	mux.HandleFunc("GET /api/students", s.handleListStudents)
	mux.HandleFunc("POST /api/students", s.handleAddStudent)
	mux.HandleFunc("PUT /api/students/{id}", s.handleUpdateStudent)
	mux.HandleFunc("DELETE /api/students/{id}", s.handleDeleteStudent)
	mux.HandleFunc("POST /api/students/extract", s.handleExtractStudents)

	mux.HandleFunc("GET /api/payments", s.handleListPayments)
	mux.HandleFunc("POST /api/payments", s.handleRecordPayment)
	mux.HandleFunc("DELETE /api/payments/{id}", s.handleDeletePayment)
	mux.HandleFunc("DELETE /api/payments", s.handleClearPayments)

	mux.HandleFunc("GET /api/sheet-no", s.handleGetSheetNo)
	mux.HandleFunc("PUT /api/sheet-no", s.handleSetSheetNo)
	mux.HandleFunc("POST /api/sheet-no/advance", s.handleAdvanceSheetNo)

	mux.HandleFunc("GET /api/reports/unpaid", s.handleUnpaid)
	mux.HandleFunc("GET /api/reports/daily-cash", s.handleDailyCash)
	mux.HandleFunc("GET /api/reports/daily-kpay", s.handleDailyKPay)
	mux.HandleFunc("GET /api/reports/history", s.handleHistory)
	mux.HandleFunc("GET /api/reports/summary", s.handleSummary)
	mux.HandleFunc("GET /api/reports/sheet-matrix", s.handleSheetMatrix)
	mux.HandleFunc("GET /api/reports/dashboard", s.handleDashboard)

	mux.HandleFunc("GET /api/insights", s.handleInsights)

	handler := applog.Middleware(s.logger)(
		applog.RequestIDMiddleware(generateRequestID)(
			s.withSecurityHeaders(mux)))

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting on mutations,
// and request completion logging.
func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		// Rate limit the mutation verbs only; report reads stay cheap.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		applog.LogHTTPEnd(r.Context(), applog.FromContext(r.Context()), r,
			rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID(_ *http.Request) string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleGetData returns the whole document, the shape the SPA boots from.
func (s *Server) handleGetData(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.ledger.Data())
}
