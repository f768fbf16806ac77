package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/middleware"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// ActorResponse is the session actor as returned to the frontend.
// The password digest never leaves the server.
type ActorResponse struct {
	ID          uuid.UUID `json:"id"`
	Login       string    `json:"login"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Sector      string    `json:"sector,omitempty"`
}

// Login handles POST /api/auth/login.
// Bad credentials return 401 with a deliberately unspecific message.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("request body is required"))
		return
	}

	actor, err := s.auth.Login(r.Context(), body.Login, body.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			writeJSON(w, http.StatusUnauthorized, errorBody("invalid_credentials", "login or password incorrect"))
			return
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, actorToResponse(actor))
}

// Logout handles POST /api/auth/logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me, returning the freshly resolved session actor.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, actorToResponse(actor))
}

func actorToResponse(a domain.Actor) ActorResponse {
	return ActorResponse{
		ID:          a.ID,
		Login:       a.Login,
		DisplayName: a.DisplayName,
		Role:        string(a.Role),
		Sector:      a.Sector,
	}
}
