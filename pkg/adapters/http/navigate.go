package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/navigator"
)

// Navigation operations accepted by POST /sessions/{sessionID}/navigate.
const (
	OpPush    = "push"
	OpReplace = "replace"
	OpClear   = "clear"
	OpBack    = "back"
)

// NavigateRequest is the body of POST /sessions/{sessionID}/navigate.
type NavigateRequest struct {
	Op   string         `json:"op"`
	Kind string         `json:"kind,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// NavigateResponse reports the session state after the operation.
type NavigateResponse struct {
	Moved     bool   `json:"moved"`
	ScreenKey string `json:"screen_key"`
	Kind      string `json:"kind"`
	Size      int    `json:"size"`
}

// errBadRequest marks client errors found while applying a request.
var errBadRequest = errors.New("bad request")

// Navigate handles POST /sessions/{sessionID}/navigate. Unknown sessions start
// at the definition's home screen. Events of the applied operation are
// broadcast to /events subscribers of the session.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	home, ok := s.engine.Home()
	if !ok {
		s.fail(w, "navigate", errors.New("definition has no home screen"))
		return
	}

	// Resuming replays the stored stack; only the requested step is streamed.
	var live bool
	stream := s.Streams.Hooks(id)
	nav := s.engine.NewStack(navigator.Hooks{
		OnNavigate: func(e *domain.NavigationEvent) {
			if live {
				stream.OnNavigate(e)
			}
		},
		OnLifecycle: func(e *domain.NavigationEvent) {
			if live {
				stream.OnLifecycle(e)
			}
		},
	})

	var resp NavigateResponse
	err := s.manager.Navigate(r.Context(), id, nav, s.engine.Routes(), home, func(nav *navigator.Stack) error {
		live = true
		moved, err := s.apply(nav, req)
		if err != nil {
			return err
		}
		resp.Moved = moved
		if cur, ok := nav.Current(); ok {
			resp.ScreenKey = cur.ScreenKey
			resp.Kind = cur.Destination.Kind()
		}
		resp.Size = nav.Size()
		return nil
	})

	switch {
	case errors.Is(err, errBadRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		s.fail(w, "navigate", err)
	default:
		s.logger.Debug("remote navigation", "session_id", id, "op", req.Op, "kind", resp.Kind)
		s.writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) apply(nav *navigator.Stack, req NavigateRequest) (bool, error) {
	if req.Op == OpBack {
		return nav.NavigateBack(), nil
	}

	var step func(domain.Destination) domain.BackStackEntry
	switch req.Op {
	case OpPush:
		step = nav.Navigate
	case OpReplace:
		step = nav.NavigateAndReplace
	case OpClear:
		step = nav.NavigateAndClearAll
	default:
		return false, fmt.Errorf("%w: unknown op %q", errBadRequest, req.Op)
	}

	dest, err := s.engine.Destination(req.Kind, req.Data)
	if err != nil {
		return false, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	step(dest)
	return true, nil
}
