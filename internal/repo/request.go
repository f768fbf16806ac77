// Package repo contains typed access to the record store collections.
// Each resource has its own file with an interface and a store-backed
// implementation. No business logic lives here — only envelope mapping
// between domain types and stored JSON documents.
package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/store"
)

// Collection keys. One logical collection per entity kind, mirroring the
// storage layout of the legacy console.
const (
	colRequests     = "requests"
	colUsers        = "users"
	colEmployees    = "employees"
	colVehicles     = "vehicles"
	colSectors      = "sectors"
	colDrivers      = "drivers"
	colMaintenances = "maintenances"
	colAlerts       = "alerts"
	colAuth         = "auth"
)

// RequestRepo defines the persistence operations for vehicle-use requests.
// The service layer depends on this interface, not the store-backed
// implementation, which allows the lifecycle engine to be unit-tested with
// a mock.
type RequestRepo interface {
	// Create persists a new request and returns the stored record with the
	// store-maintained envelope fields populated.
	Create(ctx context.Context, req domain.Request) (domain.Request, error)

	// GetByID retrieves a single request.
	// Returns domain.ErrNotFound if no request with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Request, error)

	// List returns all requests, newest first.
	List(ctx context.Context) ([]domain.Request, error)

	// Update overwrites a request using the version carried on it as an
	// optimistic compare-and-swap. Returns domain.ErrNotFound when the
	// request no longer exists and domain.ErrVersionConflict when another
	// session modified it since it was read.
	Update(ctx context.Context, req domain.Request) (domain.Request, error)
}

type storeRequestRepo struct {
	store *store.Store
}

// NewRequestRepo constructs a RequestRepo backed by the record store.
func NewRequestRepo(s *store.Store) RequestRepo {
	return &storeRequestRepo{store: s}
}

func (r *storeRequestRepo) Create(ctx context.Context, req domain.Request) (domain.Request, error) {
	rec, err := r.store.Create(ctx, colRequests, req.ID.String(), req)
	if err != nil {
		return domain.Request{}, fmt.Errorf("repo.RequestRepo.Create: %w", err)
	}
	result, err := decodeRequest(rec)
	if err != nil {
		return domain.Request{}, fmt.Errorf("repo.RequestRepo.Create: %w", err)
	}
	return result, nil
}

func (r *storeRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Request, error) {
	rec, err := r.store.Get(ctx, colRequests, id.String())
	if err != nil {
		return domain.Request{}, fmt.Errorf("repo.RequestRepo.GetByID: %w", err)
	}
	result, err := decodeRequest(rec)
	if err != nil {
		return domain.Request{}, fmt.Errorf("repo.RequestRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *storeRequestRepo) List(ctx context.Context) ([]domain.Request, error) {
	recs, err := r.store.List(ctx, colRequests)
	if err != nil {
		return nil, fmt.Errorf("repo.RequestRepo.List: %w", err)
	}

	requests := make([]domain.Request, 0, len(recs))
	for _, rec := range recs {
		req, err := decodeRequest(rec)
		if err != nil {
			return nil, fmt.Errorf("repo.RequestRepo.List: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func (r *storeRequestRepo) Update(ctx context.Context, req domain.Request) (domain.Request, error) {
	rec, err := r.store.Update(ctx, colRequests, req.ID.String(), req, req.Version)
	if err != nil {
		return domain.Request{}, fmt.Errorf("repo.RequestRepo.Update: %w", err)
	}
	result, err := decodeRequest(rec)
	if err != nil {
		return domain.Request{}, fmt.Errorf("repo.RequestRepo.Update: %w", err)
	}
	return result, nil
}

// decodeRequest unmarshals a stored record into a domain.Request and applies
// the envelope fields. The store's timestamps and version are authoritative;
// whatever the document carries is overwritten.
func decodeRequest(rec store.Record) (domain.Request, error) {
	var req domain.Request
	if err := json.Unmarshal(rec.Data, &req); err != nil {
		return domain.Request{}, fmt.Errorf("decode request %s: %w", rec.ID, err)
	}
	req.CreatedAt = rec.CreatedAt
	req.UpdatedAt = rec.UpdatedAt
	req.Version = rec.Version
	return req, nil
}
