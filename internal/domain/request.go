// Package domain contains the core data types for the FleetDesk console.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (store, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a vehicle-use request.
type RequestStatus string

// Valid request statuses. The only sanctioned transitions are
// pending → approved and pending → rejected.
const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Valid reports whether s is one of the three known statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// HistoryEntry is one event in a request's audit trail.
// Actor is a display-name snapshot taken when the event happened; ActorID is
// the stable reference used for ownership checks.
type HistoryEntry struct {
	Timestamp     time.Time     `json:"timestamp"`
	Status        RequestStatus `json:"status"`
	Actor         string        `json:"actor"`
	ActorID       uuid.UUID     `json:"actor_id"`
	Justification string        `json:"justification,omitempty"`
}

// Request is a vehicle-use request progressing through the
// pending/approved/rejected state machine.
//
// Requester is a snapshot of the actor's display name at creation time, not a
// live reference — renaming a user later does not rewrite past requests.
// RequesterID is the stable identity used for visibility filtering.
type Request struct {
	ID          uuid.UUID  `json:"id"`
	RequesterID uuid.UUID  `json:"requester_id"`
	Requester   string     `json:"requester"`
	VehicleID   *uuid.UUID `json:"vehicle_id,omitempty"` // nil until a vehicle is assigned

	DateStart      time.Time `json:"date_start"`
	DateEnd        time.Time `json:"date_end"`
	DepartureTime  string    `json:"departure_time"` // "HH:MM"
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	Reason         string    `json:"reason"`
	PassengerCount int       `json:"passenger_count"`
	LuggageLiters  float64   `json:"luggage_liters"`

	ResponsibleSector string `json:"responsible_sector"`

	Status                 RequestStatus  `json:"status"`
	RejectionJustification string         `json:"rejection_justification,omitempty"`
	History                []HistoryEntry `json:"history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Version is maintained by the record store and used for
	// compare-and-swap updates across concurrent sessions.
	Version int64 `json:"-"`
}

// RequestInput carries the requester-supplied fields of a new request.
// The requester identity comes from the acting actor, never from the input;
// the vehicle is always unassigned at submission.
type RequestInput struct {
	DateStart      time.Time
	DateEnd        time.Time
	DepartureTime  string
	Origin         string
	Destination    string
	Reason         string
	PassengerCount int
	LuggageLiters  float64
}

// RequestFilter narrows a request listing. Zero values mean "no constraint".
type RequestFilter struct {
	// Requester matches case-insensitively on a substring of the
	// requester display name.
	Requester string
	// DatePrefix matches requests whose start date begins with the given
	// "2006", "2006-01" or "2006-01-02" prefix.
	DatePrefix string
	// Status restricts to a single lifecycle state when non-empty.
	Status RequestStatus
}

// StatusCounts aggregates requests per lifecycle state for the dashboard.
type StatusCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}
