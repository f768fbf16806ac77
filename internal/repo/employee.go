package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/store"
)

// EmployeeRepo defines read access to the personnel roster.
// The roster is the authoritative source of an actor's sector affiliation.
type EmployeeRepo interface {
	// GetByID retrieves a roster entry.
	// Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Employee, error)

	// List returns the whole roster, newest first.
	List(ctx context.Context) ([]domain.Employee, error)

	// Create persists a new roster entry (seed bootstrap only).
	Create(ctx context.Context, emp domain.Employee) (domain.Employee, error)
}

type storeEmployeeRepo struct {
	store *store.Store
}

// NewEmployeeRepo constructs an EmployeeRepo backed by the record store.
func NewEmployeeRepo(s *store.Store) EmployeeRepo {
	return &storeEmployeeRepo{store: s}
}

func (r *storeEmployeeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Employee, error) {
	rec, err := r.store.Get(ctx, colEmployees, id.String())
	if err != nil {
		return domain.Employee{}, fmt.Errorf("repo.EmployeeRepo.GetByID: %w", err)
	}
	result, err := decodeEmployee(rec)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("repo.EmployeeRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *storeEmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	recs, err := r.store.List(ctx, colEmployees)
	if err != nil {
		return nil, fmt.Errorf("repo.EmployeeRepo.List: %w", err)
	}

	employees := make([]domain.Employee, 0, len(recs))
	for _, rec := range recs {
		e, err := decodeEmployee(rec)
		if err != nil {
			return nil, fmt.Errorf("repo.EmployeeRepo.List: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, nil
}

func (r *storeEmployeeRepo) Create(ctx context.Context, emp domain.Employee) (domain.Employee, error) {
	rec, err := r.store.Create(ctx, colEmployees, emp.ID.String(), emp)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("repo.EmployeeRepo.Create: %w", err)
	}
	result, err := decodeEmployee(rec)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("repo.EmployeeRepo.Create: %w", err)
	}
	return result, nil
}

func decodeEmployee(rec store.Record) (domain.Employee, error) {
	var e domain.Employee
	if err := json.Unmarshal(rec.Data, &e); err != nil {
		return domain.Employee{}, fmt.Errorf("decode employee %s: %w", rec.ID, err)
	}
	e.CreatedAt = rec.CreatedAt
	e.UpdatedAt = rec.UpdatedAt
	e.Version = rec.Version
	return e, nil
}
