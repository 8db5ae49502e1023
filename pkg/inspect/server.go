// Package inspect serves the local HTTP inspection API for the audit
// trail: recent change-lifecycle entries, aggregate statistics, and
// Prometheus metrics.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aegisworld/warden/pkg/audit"
)

// defaultEntryLimit is how many entries /changes returns when the caller
// does not specify a limit.
const defaultEntryLimit = 20

// AuditSource provides the read paths the inspection API exposes.
// *guard.Guard satisfies it.
type AuditSource interface {
	RecentEntries(limit int) []audit.Entry
	AuditSummary() map[string]int
}

// Config contains configuration for the inspection server.
type Config struct {
	// ListenAddress is the host:port to bind to.
	// Default: 127.0.0.1:8089
	ListenAddress string

	// ReadTimeout bounds request reads. Default: 10 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds response writes. Default: 10 seconds.
	WriteTimeout time.Duration
}

// DefaultConfig returns the default inspection server configuration.
func DefaultConfig() *Config {
	return &Config{
		ListenAddress: "127.0.0.1:8089",
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  10 * time.Second,
	}
}

// Server is the HTTP inspection server.
type Server struct {
	source AuditSource
	server *http.Server
	logger *slog.Logger
}

// NewServer creates an inspection server over the given audit source.
func NewServer(source AuditSource, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Server{
		source: source,
		logger: slog.Default().With("component", "inspect"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /changes", s.handleChanges)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:         config.ListenAddress,
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
	return s
}

// Start serves the inspection API until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspection server listening", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("inspection server shutting down")
		return s.server.Shutdown(shutdownCtx)
	}
}

// handleChanges serves the last N audit entries in file order.
func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	limit := defaultEntryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	entries := s.source.RecentEntries(limit)
	if entries == nil {
		entries = []audit.Entry{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// handleStats serves aggregate per-action counts.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"summary": s.source.AuditSummary()})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}
