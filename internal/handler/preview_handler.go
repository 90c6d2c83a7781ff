package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/ClareAI/astra-sales-console/internal/session"
	"github.com/ClareAI/astra-sales-console/pkg/logger"
)

// PreviewHandler exposes preview chat sessions to the console UI. One session
// per browser tab, addressed by a server-minted id.
type PreviewHandler struct {
	sessions *session.Manager
}

// NewPreviewHandler creates a new preview handler
func NewPreviewHandler(sessions *session.Manager) *PreviewHandler {
	return &PreviewHandler{sessions: sessions}
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

type sessionStateResponse struct {
	SessionID  string            `json:"session_id"`
	Transcript []session.Message `json:"transcript"`
	InFlight   bool              `json:"in_flight"`
	LastError  string            `json:"last_error,omitempty"`
}

// CreateSession mints a new empty preview session.
func (h *PreviewHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, _ := h.sessions.Create()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createSessionResponse{SessionID: id})
}

// GetSession returns the session's transcript and flags.
func (h *PreviewHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sess, err := h.sessions.Get(id)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessionStateResponse{
		SessionID:  id,
		Transcript: sess.Transcript(),
		InFlight:   sess.InFlight(),
		LastError:  sess.LastError(),
	})
}

// SendMessage performs one exchange on the session. Empty and duplicate
// in-flight sends are accepted and ignored, mirroring the session's no-op
// semantics; a failed exchange reports the rolled-back transcript along with
// the error.
func (h *PreviewHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sess, err := h.sessions.Get(id)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := sess.Send(r.Context(), req.Message); err != nil {
		logger.L().Warnw("preview send failed", "session_id", id, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessionStateResponse{
		SessionID:  id,
		Transcript: sess.Transcript(),
		InFlight:   sess.InFlight(),
		LastError:  sess.LastError(),
	})
}

// ResetSession clears the session's transcript and continuity token.
func (h *PreviewHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sess, err := h.sessions.Get(id)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	sess.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// GetSuggestions returns conversation starters, falling back to the built-in
// set when the agent backend is unreachable.
func (h *PreviewHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	// Suggestions are session-scoped (fetched once per session lifetime), so
	// serve them through a throwaway session when the UI asks before creating
	// one.
	id := r.URL.Query().Get("session_id")

	sess, err := h.sessions.Get(id)
	if err != nil {
		// The throwaway session is dropped by the idle sweep.
		_, sess = h.sessions.Create()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess.Suggestions(r.Context()))
}

// SetupPreviewRoutes sets up preview session routes
func (h *PreviewHandler) SetupPreviewRoutes(router *mux.Router) {
	router.HandleFunc("/preview/sessions", h.CreateSession).Methods("POST")
	router.HandleFunc("/preview/sessions/{id}", h.GetSession).Methods("GET")
	router.HandleFunc("/preview/sessions/{id}", h.ResetSession).Methods("DELETE")
	router.HandleFunc("/preview/suggestions", h.GetSuggestions).Methods("GET")

	// One exchange call per second per client, with a small burst for quick
	// back-and-forth typing.
	limited := RateLimitMiddleware(rate.Limit(1), 5)
	router.Handle("/preview/sessions/{id}/messages",
		limited(http.HandlerFunc(h.SendMessage))).Methods("POST")

	logger.Base().Info("preview routes registered")
}
