package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"party-lab/domain"
	"party-lab/observability"
	"party-lab/services"
)

type handlers struct {
	log     *slog.Logger
	svc     services.IGameService
	monitor *observability.Manager
}

type contextKey string

const userIDKey contextKey = "userID"

type registerRequest struct {
	Name string `json:"name"`
}

type registerResponse struct {
	User  domain.UserSnapshot `json:"user"`
	Token string              `json:"token"`
}

type readyRequest struct {
	Ready bool `json:"ready"`
}

type answerRequest struct {
	Index int `json:"index"`
}

// authenticate resolves the bearer token into a user id. Websocket
// clients cannot set headers, so a token query parameter is accepted
// as well.
func (h *handlers) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			token = r.URL.Query().Get("token")
		}

		userID, ok := h.svc.ResolveIdentity(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func userIDFrom(r *http.Request) domain.UserID {
	id, _ := r.Context().Value(userIDKey).(domain.UserID)
	return id
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, token, err := h.svc.Register(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{User: user, Token: token})
}

func (h *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.svc.CreateSession(userIDFrom(r))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown user")
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.svc.Session(domain.SessionID(chi.URLParam(r, "sessionID")))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
	session, ok := h.svc.Join(userIDFrom(r), domain.SessionID(chi.URLParam(r, "sessionID")))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *handlers) leave(w http.ResponseWriter, r *http.Request) {
	h.svc.Leave(userIDFrom(r))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) setReady(w http.ResponseWriter, r *http.Request) {
	var req readyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	h.svc.SetReady(userIDFrom(r), req.Ready)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	h.svc.SubmitAnswer(userIDFrom(r), req.Index)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	h.svc.Logout(userIDFrom(r))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) debugStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.monitor.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
