package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"leadflow/internal/common/errors"
	"leadflow/internal/leadcapture"
)

const (
	eventMessage        = "message"
	eventHash           = "hash"
	eventResize         = "resize"
	eventSchedulerReady = "scheduler_ready"
)

// sessionView is a snapshot plus the init directive the page should run.
type sessionView struct {
	leadcapture.Snapshot
	InitDirective *leadcapture.InitDirective `json:"initDirective,omitempty"`
}

type readyRequest struct {
	EntryURL string `json:"entryUrl"`
}

type sessionEvent struct {
	Kind   string          `json:"kind"`
	Data   json.RawMessage `json:"data,omitempty"`
	Hash   string          `json:"hash,omitempty"`
	Height *float64        `json:"height,omitempty"`
}

type eventResponse struct {
	Accepted bool        `json:"accepted"`
	Session  sessionView `json:"session"`
}

// directiveSource is implemented by widgets whose init runs in the browser.
type directiveSource interface {
	Latest() (leadcapture.InitDirective, bool)
}

// readyMarker is implemented by widgets whose readiness the page reports.
type readyMarker interface {
	MarkReady()
}

func (s *Server) view(session *leadcapture.Session) sessionView {
	v := sessionView{Snapshot: session.Snapshot()}
	widget, err := s.sessions.Widget(session.ID())
	if err != nil {
		return v
	}
	// Directives from an entry before a Back stay hidden until the current
	// entry has initialized.
	if src, ok := widget.(directiveSource); ok && v.State == leadcapture.StateScheduling && v.SchedulerInitialized {
		if d, ok := src.Latest(); ok {
			v.InitDirective = &d
		}
	}
	return v
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*leadcapture.Session, bool) {
	id := chi.URLParam(r, "id")
	session, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, r, errors.NewSessionNotFoundError(id))
		return nil, false
	}
	return session, true
}

// handleCreateSession starts a session. An entryUrl in the body reports the
// page as ready in the same call.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req readyRequest
	if err := decodeJSON(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}

	session := s.sessions.Create()
	if req.EntryURL != "" {
		session.ClientReady(req.EntryURL)
	}
	w.Header().Set("Location", "/api/v1/lead-sessions/"+session.ID())
	writeJSON(w, http.StatusCreated, s.view(session))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.view(session))
}

func (s *Server) handleSessionReady(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req readyRequest
	if err := decodeJSON(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !session.ClientReady(req.EntryURL) {
		s.writeError(w, r, errors.NewInvalidTransitionError("ready", session.Snapshot().State.String()))
		return
	}
	writeJSON(w, http.StatusOK, s.view(session))
}

// handleSessionEvent feeds a browser observation to the session. Late or
// repeated signals come back with accepted=false, not as errors.
func (s *Server) handleSessionEvent(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var ev sessionEvent
	if err := decodeJSON(r, &ev, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	var accepted bool
	switch ev.Kind {
	case eventMessage:
		if len(ev.Data) == 0 {
			s.writeError(w, r, errors.NewInputValidationError("message event requires data"))
			return
		}
		accepted = session.HandleMessage(ev.Data)
	case eventHash:
		accepted = session.HandleHash(ev.Hash)
	case eventResize:
		if ev.Height == nil {
			s.writeError(w, r, errors.NewInputValidationError("resize event requires height"))
			return
		}
		accepted = session.HandleResize(*ev.Height)
	case eventSchedulerReady:
		widget, err := s.sessions.Widget(session.ID())
		if err != nil {
			s.writeError(w, r, errors.NewSessionNotFoundError(session.ID()))
			return
		}
		marker, ok := widget.(readyMarker)
		if !ok {
			s.writeError(w, r, errors.NewInvalidTransitionError(eventSchedulerReady, session.Snapshot().State.String()))
			return
		}
		marker.MarkReady()
		accepted = true
	default:
		s.writeError(w, r, errors.NewInputValidationError(fmt.Sprintf("unknown event kind %q", ev.Kind)))
		return
	}

	writeJSON(w, http.StatusOK, eventResponse{Accepted: accepted, Session: s.view(session)})
}

func (s *Server) handleSessionSkip(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	if !session.Skip() {
		s.writeError(w, r, errors.NewInvalidTransitionError("skip", session.Snapshot().State.String()))
		return
	}
	writeJSON(w, http.StatusOK, s.view(session))
}

func (s *Server) handleSessionBack(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	if !session.Back() {
		s.writeError(w, r, errors.NewInvalidTransitionError("back", session.Snapshot().State.String()))
		return
	}
	writeJSON(w, http.StatusOK, s.view(session))
}
