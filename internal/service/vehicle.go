package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/repo"
)

// VehicleService reads the vehicle roster for the approval surface's display
// join and the dashboard's status breakdown.
type VehicleService struct {
	vehicles repo.VehicleRepo
}

// NewVehicleService constructs a VehicleService backed by the provided repo.
func NewVehicleService(vehicles repo.VehicleRepo) *VehicleService {
	return &VehicleService{vehicles: vehicles}
}

// List returns all vehicles, newest first.
func (s *VehicleService) List(ctx context.Context) ([]domain.Vehicle, error) {
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.VehicleService.List: %w", err)
	}
	return vehicles, nil
}

// GetByID returns a single vehicle.
func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.GetByID: %w", err)
	}
	return v, nil
}

// StatusCounts aggregates vehicles per operational state for the dashboard.
func (s *VehicleService) StatusCounts(ctx context.Context) (domain.VehicleCounts, error) {
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return domain.VehicleCounts{}, fmt.Errorf("service.VehicleService.StatusCounts: %w", err)
	}

	var counts domain.VehicleCounts
	for _, v := range vehicles {
		switch v.Status {
		case domain.VehicleAvailable:
			counts.Available++
		case domain.VehicleMaintenance:
			counts.Maintenance++
		case domain.VehicleReserved:
			counts.Reserved++
		}
	}
	counts.Total = counts.Available + counts.Maintenance + counts.Reserved
	return counts, nil
}
