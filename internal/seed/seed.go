// Package seed bootstraps a fresh database with the minimum records the
// console needs on first run: an administrator account, the transport
// oversight staff, and a couple of example vehicles.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/repo"
	"github.com/dmaia/fleetdesk/backend/internal/service"
	"github.com/dmaia/fleetdesk/backend/internal/store"
)

// Run seeds each collection that is still empty. Collections that already
// hold data are left untouched, so running seed repeatedly is safe.
func Run(ctx context.Context, st *store.Store, privilegedSector string) error {
	users := repo.NewUserRepo(st)
	employees := repo.NewEmployeeRepo(st)
	vehicles := repo.NewVehicleRepo(st)

	supervisorEmployeeID, err := seedEmployees(ctx, st, employees, privilegedSector)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := seedUsers(ctx, st, users, supervisorEmployeeID); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := seedSectors(ctx, st, privilegedSector); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := seedVehicles(ctx, st, vehicles); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

// seedEmployees creates the transport supervisor roster entry, returning its
// id so the matching user account can reference it.
func seedEmployees(ctx context.Context, st *store.Store, employees repo.EmployeeRepo, privilegedSector string) (*uuid.UUID, error) {
	n, err := st.Count(ctx, "employees")
	if err != nil {
		return nil, err
	}
	if n > 0 {
		slog.Debug("seed: employees collection not empty, skipping")
		return nil, nil
	}

	supervisor := domain.Employee{
		ID:           uuid.New(),
		Name:         "Gestor Transporte",
		Registration: "0001",
		Sector:       privilegedSector,
		Position:     "Supervisor de Transporte",
	}
	if _, err := employees.Create(ctx, supervisor); err != nil {
		return nil, err
	}
	return &supervisor.ID, nil
}

func seedUsers(ctx context.Context, st *store.Store, users repo.UserRepo, supervisorEmployeeID *uuid.UUID) error {
	n, err := st.Count(ctx, "users")
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Debug("seed: users collection not empty, skipping")
		return nil
	}

	accounts := []struct {
		user     domain.User
		password string
	}{
		{
			user: domain.User{
				ID:     uuid.New(),
				Login:  "admin",
				Name:   "Administrador",
				Role:   domain.RoleAdministrator,
				Status: domain.UserActive,
			},
			password: "admin123",
		},
		{
			user: domain.User{
				ID:         uuid.New(),
				Login:      "gestor",
				Name:       "Gestor Transporte",
				Role:       domain.RoleUser,
				Status:     domain.UserActive,
				EmployeeID: supervisorEmployeeID,
			},
			password: "gestor123",
		},
	}

	for _, a := range accounts {
		a.user.PasswordHash = service.HashPassword(a.password)
		if _, err := users.Create(ctx, a.user); err != nil {
			return err
		}
	}
	return nil
}

func seedSectors(ctx context.Context, st *store.Store, privilegedSector string) error {
	n, err := st.Count(ctx, "sectors")
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Debug("seed: sectors collection not empty, skipping")
		return nil
	}

	sectors := []domain.Sector{
		{
			ID:          uuid.New(),
			Name:        "Gestão de Transporte",
			Responsible: "Gestor Transporte",
			Description: "Setor responsável por autorizações",
		},
		{
			ID:          uuid.New(),
			Name:        privilegedSector,
			Responsible: "Gestor Transporte",
			Description: "Supervisão com visibilidade total das solicitações",
		},
	}
	for _, sec := range sectors {
		if _, err := st.Create(ctx, "sectors", sec.ID.String(), sec); err != nil {
			return err
		}
	}
	return nil
}

func seedVehicles(ctx context.Context, st *store.Store, vehicles repo.VehicleRepo) error {
	n, err := st.Count(ctx, "vehicles")
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Debug("seed: vehicles collection not empty, skipping")
		return nil
	}

	today := time.Now().UTC().Format("2006-01-02")
	examples := []domain.Vehicle{
		{
			ID:                  uuid.New(),
			Plate:               "ABC1D23",
			Model:               "Ônibus Escolar",
			Year:                2020,
			Capacity:            44,
			Status:              domain.VehicleAvailable,
			Odometer:            45000,
			LastMaintenanceDate: today,
		},
		{
			ID:                  uuid.New(),
			Plate:               "XYZ4E56",
			Model:               "Van Escolar",
			Year:                2019,
			Capacity:            15,
			Status:              domain.VehicleMaintenance,
			Odometer:            78000,
			LastMaintenanceDate: today,
		},
	}
	for _, v := range examples {
		if _, err := vehicles.Create(ctx, v); err != nil {
			return err
		}
	}
	return nil
}
