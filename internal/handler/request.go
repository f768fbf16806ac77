package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/middleware"
)

// CreateRequestRequest is the body of POST /api/requests.
// Dates are calendar dates ("2006-01-02"); the JSON decoding here is the type
// coercion boundary — the engine applies no further field validation.
type CreateRequestRequest struct {
	DateStart      openapi_types.Date `json:"date_start"`
	DateEnd        openapi_types.Date `json:"date_end"`
	DepartureTime  string             `json:"departure_time"`
	Origin         string             `json:"origin"`
	Destination    string             `json:"destination"`
	Reason         string             `json:"reason"`
	PassengerCount int                `json:"passenger_count"`
	LuggageLiters  float64            `json:"luggage_liters"`
}

// HistoryEntryResponse is one audit-trail event on the wire.
type HistoryEntryResponse struct {
	Timestamp     time.Time `json:"timestamp"`
	Status        string    `json:"status"`
	Actor         string    `json:"actor"`
	ActorID       uuid.UUID `json:"actor_id"`
	Justification string    `json:"justification,omitempty"`
}

// RequestResponse is a vehicle-use request on the wire.
type RequestResponse struct {
	ID                     uuid.UUID              `json:"id"`
	RequesterID            uuid.UUID              `json:"requester_id"`
	Requester              string                 `json:"requester"`
	VehicleID              *uuid.UUID             `json:"vehicle_id,omitempty"`
	DateStart              openapi_types.Date     `json:"date_start"`
	DateEnd                openapi_types.Date     `json:"date_end"`
	DepartureTime          string                 `json:"departure_time"`
	Origin                 string                 `json:"origin"`
	Destination            string                 `json:"destination"`
	Reason                 string                 `json:"reason"`
	PassengerCount         int                    `json:"passenger_count"`
	LuggageLiters          float64                `json:"luggage_liters"`
	ResponsibleSector      string                 `json:"responsible_sector"`
	Status                 string                 `json:"status"`
	RejectionJustification string                 `json:"rejection_justification,omitempty"`
	History                []HistoryEntryResponse `json:"history"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
}

// CreateRequest handles POST /api/requests.
// Any authenticated actor may submit; the vehicle stays unassigned.
func (s *Server) CreateRequest(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	var body CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid request body: "+err.Error()))
		return
	}

	created, err := s.requests.Create(r.Context(), actor, domain.RequestInput{
		DateStart:      body.DateStart.Time,
		DateEnd:        body.DateEnd.Time,
		DepartureTime:  body.DepartureTime,
		Origin:         body.Origin,
		Destination:    body.Destination,
		Reason:         body.Reason,
		PassengerCount: body.PassengerCount,
		LuggageLiters:  body.LuggageLiters,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, requestToResponse(created))
}

// ListRequests handles GET /api/requests.
// Supports ?requester=, ?date= and ?status= filters; results are already
// visibility-filtered for the acting actor.
func (s *Server) ListRequests(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	filter := domain.RequestFilter{
		Requester:  r.URL.Query().Get("requester"),
		DatePrefix: r.URL.Query().Get("date"),
		Status:     domain.RequestStatus(r.URL.Query().Get("status")),
	}

	requests, err := s.requests.ListVisible(r.Context(), actor, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := make([]RequestResponse, len(requests))
	for i, req := range requests {
		data[i] = requestToResponse(req)
	}
	writeJSON(w, http.StatusOK, data)
}

// GetRequest handles GET /api/requests/{id}.
func (s *Server) GetRequest(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "request not found"))
		return
	}

	req, err := s.requests.GetByID(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requestToResponse(req))
}

func requestToResponse(req domain.Request) RequestResponse {
	history := make([]HistoryEntryResponse, len(req.History))
	for i, h := range req.History {
		history[i] = HistoryEntryResponse{
			Timestamp:     h.Timestamp,
			Status:        string(h.Status),
			Actor:         h.Actor,
			ActorID:       h.ActorID,
			Justification: h.Justification,
		}
	}
	return RequestResponse{
		ID:                     req.ID,
		RequesterID:            req.RequesterID,
		Requester:              req.Requester,
		VehicleID:              req.VehicleID,
		DateStart:              openapi_types.Date{Time: req.DateStart},
		DateEnd:                openapi_types.Date{Time: req.DateEnd},
		DepartureTime:          req.DepartureTime,
		Origin:                 req.Origin,
		Destination:            req.Destination,
		Reason:                 req.Reason,
		PassengerCount:         req.PassengerCount,
		LuggageLiters:          req.LuggageLiters,
		ResponsibleSector:      req.ResponsibleSector,
		Status:                 string(req.Status),
		RejectionJustification: req.RejectionJustification,
		History:                history,
		CreatedAt:              req.CreatedAt,
		UpdatedAt:              req.UpdatedAt,
	}
}
