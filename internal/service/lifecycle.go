// Package service contains the business logic of the FleetDesk console.
// Services validate inputs, enforce the request state machine and
// authorization rules, and orchestrate repo calls. No SQL and no HTTP live
// here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/metrics"
	"github.com/dmaia/fleetdesk/backend/internal/repo"
)

// defaultResponsibleSector is the single sector every request is routed to.
// The creation form offers no sector selection.
const defaultResponsibleSector = "Gestão de Transporte"

// RequestService is the request lifecycle engine: the single place that knows
// which status transitions are valid, how the audit trail accumulates, and
// who may see which requests.
//
// Every operation takes the acting Actor explicitly. Authorization is
// re-validated here even though the HTTP layer also guards the routes; the
// engine never trusts the caller's layer alone.
type RequestService struct {
	requests         repo.RequestRepo
	privilegedSector string
	metrics          *metrics.Metrics
}

// NewRequestService constructs the lifecycle engine.
func NewRequestService(requests repo.RequestRepo, privilegedSector string, m *metrics.Metrics) *RequestService {
	return &RequestService{
		requests:         requests,
		privilegedSector: privilegedSector,
		metrics:          m,
	}
}

// Create persists a new pending request on behalf of actor.
//
// Beyond the type coercion the transport layer already performed, no field is
// validated: overlapping date ranges, duplicates, and even an end date before
// the start date are all accepted, preserving the legacy console behavior.
// The history is seeded with exactly one pending entry naming the requester.
func (s *RequestService) Create(ctx context.Context, actor domain.Actor, input domain.RequestInput) (domain.Request, error) {
	if actor.ID == uuid.Nil {
		return domain.Request{}, fmt.Errorf("service.RequestService.Create: %w", domain.ErrUnauthenticated)
	}

	now := time.Now().UTC()
	req := domain.Request{
		ID:                uuid.New(),
		RequesterID:       actor.ID,
		Requester:         actor.DisplayName,
		DateStart:         input.DateStart,
		DateEnd:           input.DateEnd,
		DepartureTime:     input.DepartureTime,
		Origin:            input.Origin,
		Destination:       input.Destination,
		Reason:            input.Reason,
		PassengerCount:    input.PassengerCount,
		LuggageLiters:     input.LuggageLiters,
		ResponsibleSector: defaultResponsibleSector,
		Status:            domain.StatusPending,
		History: []domain.HistoryEntry{{
			Timestamp: now,
			Status:    domain.StatusPending,
			Actor:     actor.DisplayName,
			ActorID:   actor.ID,
		}},
	}

	created, err := s.requests.Create(ctx, req)
	if err != nil {
		return domain.Request{}, fmt.Errorf("service.RequestService.Create: %w", err)
	}

	s.metrics.RequestsCreated.Inc()
	return created, nil
}

// ListPending returns all pending requests, newest first.
// Only the approver group (administrators and the privileged sector) may
// list the approval queue.
func (s *RequestService) ListPending(ctx context.Context, actor domain.Actor) ([]domain.Request, error) {
	if !actor.CanApprove(s.privilegedSector) {
		return nil, fmt.Errorf("service.RequestService.ListPending: %w", domain.ErrForbidden)
	}

	all, err := s.requests.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RequestService.ListPending: %w", err)
	}

	pending := make([]domain.Request, 0, len(all))
	for _, r := range all {
		if r.Status == domain.StatusPending {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// Approve transitions a pending request to approved and appends the approving
// actor to the history. The justification is optional on approval and kept
// when supplied.
//
// Returns ErrForbidden when the actor is not in the approver group,
// ErrNotFound when the id no longer resolves (a normal outcome when another
// window acted first), and ErrInvalidTransition when the request has already
// been resolved — repeated clicks never grow the history.
func (s *RequestService) Approve(ctx context.Context, actor domain.Actor, id uuid.UUID, justification string) (domain.Request, error) {
	req, err := s.transition(ctx, actor, id, domain.StatusApproved, justification)
	if err != nil {
		return domain.Request{}, fmt.Errorf("service.RequestService.Approve: %w", err)
	}
	s.metrics.Transitions.WithLabelValues(string(domain.StatusApproved)).Inc()
	return req, nil
}

// Reject transitions a pending request to rejected. The justification must be
// non-empty after trimming; it is stored on the request and carried in the
// appended history entry.
func (s *RequestService) Reject(ctx context.Context, actor domain.Actor, id uuid.UUID, justification string) (domain.Request, error) {
	if strings.TrimSpace(justification) == "" {
		return domain.Request{}, fmt.Errorf("service.RequestService.Reject: %w: justification is required to reject", domain.ErrValidation)
	}

	req, err := s.transition(ctx, actor, id, domain.StatusRejected, justification)
	if err != nil {
		return domain.Request{}, fmt.Errorf("service.RequestService.Reject: %w", err)
	}
	s.metrics.Transitions.WithLabelValues(string(domain.StatusRejected)).Inc()
	return req, nil
}

// transition applies the single sanctioned state change pending → target.
// It re-checks authorization, guards the state machine, appends exactly one
// history entry, and writes through the store's compare-and-swap so a racing
// window surfaces as ErrVersionConflict instead of silently losing an entry.
func (s *RequestService) transition(ctx context.Context, actor domain.Actor, id uuid.UUID, target domain.RequestStatus, justification string) (domain.Request, error) {
	if !actor.CanApprove(s.privilegedSector) {
		return domain.Request{}, domain.ErrForbidden
	}

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return domain.Request{}, err
	}
	if req.Status != domain.StatusPending {
		return domain.Request{}, fmt.Errorf("%w: request is already %s", domain.ErrInvalidTransition, req.Status)
	}

	req.Status = target
	if target == domain.StatusRejected {
		req.RejectionJustification = justification
	}
	req.History = append(req.History, domain.HistoryEntry{
		Timestamp:     time.Now().UTC(),
		Status:        target,
		Actor:         actor.DisplayName,
		ActorID:       actor.ID,
		Justification: justification,
	})

	return s.requests.Update(ctx, req)
}

// ListVisible returns the requests the actor is permitted to see, narrowed by
// filter. The approver group sees everything; everyone else sees only their
// own requests, matched by requester id, not by display name.
func (s *RequestService) ListVisible(ctx context.Context, actor domain.Actor, filter domain.RequestFilter) ([]domain.Request, error) {
	if actor.ID == uuid.Nil {
		return nil, fmt.Errorf("service.RequestService.ListVisible: %w", domain.ErrUnauthenticated)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("service.RequestService.ListVisible: %w: unknown status %q", domain.ErrValidation, filter.Status)
	}

	all, err := s.requests.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RequestService.ListVisible: %w", err)
	}

	seeAll := actor.CanApprove(s.privilegedSector)
	visible := make([]domain.Request, 0, len(all))
	for _, r := range all {
		if !seeAll && r.RequesterID != actor.ID {
			continue
		}
		if matchesFilter(r, filter) {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

// GetByID returns a single request under the same visibility rule as
// ListVisible. A request the actor may not see reports ErrNotFound rather
// than ErrForbidden, so its existence is not leaked.
func (s *RequestService) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Request, error) {
	if actor.ID == uuid.Nil {
		return domain.Request{}, fmt.Errorf("service.RequestService.GetByID: %w", domain.ErrUnauthenticated)
	}

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return domain.Request{}, fmt.Errorf("service.RequestService.GetByID: %w", err)
	}
	if !actor.CanApprove(s.privilegedSector) && req.RequesterID != actor.ID {
		return domain.Request{}, fmt.Errorf("service.RequestService.GetByID: %w", domain.ErrNotFound)
	}
	return req, nil
}

// GetByStatus returns the actor's visible requests in a single lifecycle
// state. A plain filter, no special semantics.
func (s *RequestService) GetByStatus(ctx context.Context, actor domain.Actor, status domain.RequestStatus) ([]domain.Request, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("service.RequestService.GetByStatus: %w: unknown status %q", domain.ErrValidation, status)
	}
	return s.ListVisible(ctx, actor, domain.RequestFilter{Status: status})
}

// StatusCounts aggregates all requests per lifecycle state for the dashboard.
// Counts are global; the dashboard shows fleet-wide numbers to every
// authenticated user.
func (s *RequestService) StatusCounts(ctx context.Context) (domain.StatusCounts, error) {
	all, err := s.requests.List(ctx)
	if err != nil {
		return domain.StatusCounts{}, fmt.Errorf("service.RequestService.StatusCounts: %w", err)
	}

	var counts domain.StatusCounts
	for _, r := range all {
		switch r.Status {
		case domain.StatusPending:
			counts.Pending++
		case domain.StatusApproved:
			counts.Approved++
		case domain.StatusRejected:
			counts.Rejected++
		}
	}
	counts.Total = counts.Pending + counts.Approved + counts.Rejected
	return counts, nil
}

// matchesFilter applies the requests-screen filters: requester-name
// substring (case-insensitive), start-date prefix, and status.
func matchesFilter(r domain.Request, f domain.RequestFilter) bool {
	if f.Requester != "" && !strings.Contains(strings.ToLower(r.Requester), strings.ToLower(f.Requester)) {
		return false
	}
	if f.DatePrefix != "" && !strings.HasPrefix(r.DateStart.Format("2006-01-02"), f.DatePrefix) {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}

// IsNormalOutcome reports whether err is one of the engine's expected,
// discriminable outcomes rather than an unexpected storage failure.
// Handlers use it to decide between a mapped status code and a logged 500.
func IsNormalOutcome(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrVersionConflict) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrUnauthenticated)
}
