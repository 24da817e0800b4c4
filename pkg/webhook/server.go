package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type Server struct {
	server    *http.Server
	handler   *Handler
	startedAt time.Time
}

// NewServer mounts h at path next to /health and /ready. writeTimeout should
// exceed the per-update timeout so a slow backend still gets its reply out.
func NewServer(addr, path string, h *Handler, writeTimeout time.Duration) *Server {
	s := &Server{handler: h, startedAt: time.Now()}

	mux := http.NewServeMux()
	mux.Handle(path, h)
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/ready", s.readyHandler)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Addr() string {
	return s.server.Addr
}

// Start blocks until the server stops. It returns http.ErrServerClosed after
// Stop.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) readyHandler(w http.ResponseWriter, _ *http.Request) {
	if !s.handler.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
