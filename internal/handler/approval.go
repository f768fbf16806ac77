package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/middleware"
)

// VehicleSummary is the display join shown next to a pending request when a
// vehicle has already been assigned.
type VehicleSummary struct {
	ID    uuid.UUID `json:"id"`
	Plate string    `json:"plate"`
	Model string    `json:"model"`
}

// ApprovalItem is one entry in the approval queue.
type ApprovalItem struct {
	Request RequestResponse `json:"request"`
	Vehicle *VehicleSummary `json:"vehicle,omitempty"`
}

// DecisionRequest is the body of the approve and reject endpoints.
// Justification is optional on approve and required on reject.
type DecisionRequest struct {
	Justification string `json:"justification"`
}

// ListApprovals handles GET /api/approvals: all pending requests, newest
// first, with assigned vehicles resolved for display.
func (s *Server) ListApprovals(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	pending, err := s.requests.ListPending(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	vehicles, err := s.vehicles.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	byID := make(map[uuid.UUID]domain.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
	}

	items := make([]ApprovalItem, len(pending))
	for i, req := range pending {
		items[i] = ApprovalItem{Request: requestToResponse(req)}
		if req.VehicleID != nil {
			if v, ok := byID[*req.VehicleID]; ok {
				items[i].Vehicle = &VehicleSummary{ID: v.ID, Plate: v.Plate, Model: v.Model}
			}
		}
	}
	writeJSON(w, http.StatusOK, items)
}

// ApproveRequest handles POST /api/approvals/{id}/approve.
func (s *Server) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	id, body, ok := s.decodeDecision(w, r)
	if !ok {
		return
	}

	approved, err := s.requests.Approve(r.Context(), actor, id, body.Justification)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requestToResponse(approved))
}

// RejectRequest handles POST /api/approvals/{id}/reject.
// The empty-justification check here mirrors the engine's own validation —
// defense in depth, not a substitute for it.
func (s *Server) RejectRequest(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	id, body, ok := s.decodeDecision(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(body.Justification) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("justification is required to reject"))
		return
	}

	rejected, err := s.requests.Reject(r.Context(), actor, id, body.Justification)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requestToResponse(rejected))
}

// decodeDecision parses the request id from the path and the optional
// decision body. A missing body is tolerated — approve needs none.
func (s *Server) decodeDecision(w http.ResponseWriter, r *http.Request) (uuid.UUID, DecisionRequest, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "request not found"))
		return uuid.Nil, DecisionRequest{}, false
	}

	var body DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid request body: "+err.Error()))
		return uuid.Nil, DecisionRequest{}, false
	}
	return id, body, true
}
