package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/store"
)

// VehicleRepo defines read access to the vehicle roster, used by the approval
// surface for the display join and by the dashboard for status counts.
type VehicleRepo interface {
	// GetByID retrieves a vehicle.
	// Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)

	// List returns all vehicles, newest first.
	List(ctx context.Context) ([]domain.Vehicle, error)

	// Create persists a new vehicle (seed bootstrap only).
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
}

type storeVehicleRepo struct {
	store *store.Store
}

// NewVehicleRepo constructs a VehicleRepo backed by the record store.
func NewVehicleRepo(s *store.Store) VehicleRepo {
	return &storeVehicleRepo{store: s}
}

func (r *storeVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	rec, err := r.store.Get(ctx, colVehicles, id.String())
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetByID: %w", err)
	}
	result, err := decodeVehicle(rec)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *storeVehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	recs, err := r.store.List(ctx, colVehicles)
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.List: %w", err)
	}

	vehicles := make([]domain.Vehicle, 0, len(recs))
	for _, rec := range recs {
		v, err := decodeVehicle(rec)
		if err != nil {
			return nil, fmt.Errorf("repo.VehicleRepo.List: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

func (r *storeVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	rec, err := r.store.Create(ctx, colVehicles, v.ID.String(), v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: %w", err)
	}
	result, err := decodeVehicle(rec)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: %w", err)
	}
	return result, nil
}

func decodeVehicle(rec store.Record) (domain.Vehicle, error) {
	var v domain.Vehicle
	if err := json.Unmarshal(rec.Data, &v); err != nil {
		return domain.Vehicle{}, fmt.Errorf("decode vehicle %s: %w", rec.ID, err)
	}
	v.CreatedAt = rec.CreatedAt
	v.UpdatedAt = rec.UpdatedAt
	v.Version = rec.Version
	return v, nil
}
