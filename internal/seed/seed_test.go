package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/repo"
	"github.com/dmaia/fleetdesk/backend/internal/seed"
	"github.com/dmaia/fleetdesk/backend/internal/service"
	"github.com/dmaia/fleetdesk/backend/testutil"
)

const privilegedSector = "STA - SUPERVISÃO DE TRANSPORTE ADMINISTRATIVO"

func TestRun_BootstrapsAccounts(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()

	require.NoError(t, seed.Run(ctx, st, privilegedSector))

	users := repo.NewUserRepo(st)
	admin, err := users.GetByLogin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdministrator, admin.Role)
	assert.Equal(t, domain.UserActive, admin.Status)
	assert.Equal(t, service.HashPassword("admin123"), admin.PasswordHash)

	// The supervisor account resolves to the privileged sector through the
	// roster reference.
	gestor, err := users.GetByLogin(ctx, "gestor")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, gestor.Role)
	require.NotNil(t, gestor.EmployeeID)

	employees := repo.NewEmployeeRepo(st)
	emp, err := employees.GetByID(ctx, *gestor.EmployeeID)
	require.NoError(t, err)
	assert.Equal(t, privilegedSector, emp.Sector)
}

func TestRun_SeedsFleet(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()

	require.NoError(t, seed.Run(ctx, st, privilegedSector))

	vehicles, err := repo.NewVehicleRepo(st).List(ctx)
	require.NoError(t, err)
	require.Len(t, vehicles, 2)

	sectors, err := st.Count(ctx, "sectors")
	require.NoError(t, err)
	assert.Equal(t, 2, sectors)
}

func TestRun_Idempotent(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()

	require.NoError(t, seed.Run(ctx, st, privilegedSector))
	require.NoError(t, seed.Run(ctx, st, privilegedSector))

	for collection, want := range map[string]int{
		"users":     2,
		"employees": 1,
		"vehicles":  2,
		"sectors":   2,
	} {
		n, err := st.Count(ctx, collection)
		require.NoError(t, err)
		assert.Equal(t, want, n, "collection %s", collection)
	}
}

func TestRun_SkipsNonEmptyCollections(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()

	// A database that already has users keeps them untouched.
	users := repo.NewUserRepo(st)
	_, err := users.Create(ctx, domain.User{Login: "existing", Status: domain.UserActive})
	require.NoError(t, err)

	require.NoError(t, seed.Run(ctx, st, privilegedSector))

	n, err := st.Count(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
