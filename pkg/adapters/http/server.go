package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/waypoint"
	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/session"
)

// Sessions is the read/delete view of persisted navigation state.
// *session.Manager satisfies it.
type Sessions interface {
	List(ctx context.Context) ([]string, error)
	Load(ctx context.Context, sessionID string) (*domain.StackSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

// Server exposes stored sessions, live navigation events and metrics.
type Server struct {
	Sessions Sessions
	Streams  *StreamManager

	engine   *waypoint.Engine
	manager  *session.Manager
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithGatherer serves /metrics from g (default: prometheus.DefaultGatherer).
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithStreams shares a StreamManager whose Hooks feed live navigators.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithNavigation enables POST /sessions/{sessionID}/navigate. Destinations are
// built and restored by eng; sessions are updated through mgr.
func WithNavigation(eng *waypoint.Engine, mgr *session.Manager) Option {
	return func(s *Server) {
		s.engine = eng
		s.manager = mgr
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server over sessions.
func NewServer(sessions Sessions, opts ...Option) *Server {
	s := &Server{
		Sessions: sessions,
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}
	return s
}

// NewHandler builds the router for sessions.
func NewHandler(sessions Sessions, opts ...Option) http.Handler {
	return NewServer(sessions, opts...).Handler()
}

// Handler returns the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Get("/{sessionID}", s.GetSession)
		r.Delete("/{sessionID}", s.DeleteSession)
		if s.engine != nil && s.manager != nil {
			r.Post("/{sessionID}/navigate", s.Navigate)
		}
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionSummary is one row of GET /sessions.
type SessionSummary struct {
	ID      string `json:"id"`
	Size    int    `json:"size"`
	Current string `json:"current,omitempty"`
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, "list sessions", err)
		return
	}

	out := make([]SessionSummary, 0, len(ids))
	for _, id := range ids {
		snap, err := s.Sessions.Load(r.Context(), id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			// Expired between List and Load.
			continue
		}
		if err != nil {
			s.fail(w, "load session", err)
			return
		}
		sum := SessionSummary{ID: id, Size: len(snap.Entries)}
		if cur, ok := snap.Current(); ok {
			sum.Current = cur.Kind
		}
		out = append(out, sum)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetSession handles GET /sessions/{sessionID}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	snap, err := s.Sessions.Load(r.Context(), id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, fmt.Sprintf("session %q not found", id), http.StatusNotFound)
		return
	}
	if err != nil {
		s.fail(w, "load session", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles DELETE /sessions/{sessionID}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "waypoint-inspector",
		"version": strings.TrimSpace(waypoint.Version),
	})
}

// SubscribeEvents handles GET /events?session_id=... as a server-sent event
// stream of navigation and lifecycle events for that session.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()
	s.logger.Info("SSE client subscribed", "session_id", sessionID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op+" failed", "error", err)
	http.Error(w, fmt.Sprintf("%s: %v", op, err), http.StatusInternalServerError)
}
