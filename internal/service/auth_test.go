package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/repo"
	"github.com/dmaia/fleetdesk/backend/internal/service"
)

type mockUserRepo struct {
	create     func(ctx context.Context, user domain.User) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByLogin func(ctx context.Context, login string) (domain.User, error)
	list       func(ctx context.Context) ([]domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	return m.getByLogin(ctx, login)
}
func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	return m.list(ctx)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

type mockEmployeeRepo struct {
	getByID func(ctx context.Context, id uuid.UUID) (domain.Employee, error)
	list    func(ctx context.Context) ([]domain.Employee, error)
	create  func(ctx context.Context, emp domain.Employee) (domain.Employee, error)
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Employee, error) {
	return m.getByID(ctx, id)
}
func (m *mockEmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	return m.list(ctx)
}
func (m *mockEmployeeRepo) Create(ctx context.Context, emp domain.Employee) (domain.Employee, error) {
	return m.create(ctx, emp)
}

var _ repo.EmployeeRepo = (*mockEmployeeRepo)(nil)

// memSessionRepo is an in-memory SessionRepo: the session lifecycle itself is
// part of what these tests exercise, so a stateful fake beats function fields.
type memSessionRepo struct {
	actor *domain.Actor
}

func (m *memSessionRepo) Save(_ context.Context, actor domain.Actor) error {
	m.actor = &actor
	return nil
}
func (m *memSessionRepo) Current(_ context.Context) (domain.Actor, error) {
	if m.actor == nil {
		return domain.Actor{}, domain.ErrNotFound
	}
	return *m.actor, nil
}
func (m *memSessionRepo) Clear(_ context.Context) error {
	m.actor = nil
	return nil
}

var _ repo.SessionRepo = (*memSessionRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func activeUser(login, password string) domain.User {
	return domain.User{
		ID:           uuid.New(),
		Login:        login,
		Name:         "Ana Souza",
		Role:         domain.RoleUser,
		Status:       domain.UserActive,
		PasswordHash: service.HashPassword(password),
	}
}

func usersWith(user domain.User) *mockUserRepo {
	return &mockUserRepo{
		getByLogin: func(_ context.Context, login string) (domain.User, error) {
			if login == user.Login {
				return user, nil
			}
			return domain.User{}, domain.ErrNotFound
		},
		getByID: func(_ context.Context, id uuid.UUID) (domain.User, error) {
			if id == user.ID {
				return user, nil
			}
			return domain.User{}, domain.ErrNotFound
		},
	}
}

func noEmployees() *mockEmployeeRepo {
	return &mockEmployeeRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Employee, error) {
			return domain.Employee{}, domain.ErrNotFound
		},
	}
}

// ---- Login tests -----------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	user := activeUser("ana", "secret123")
	sessions := &memSessionRepo{}
	svc := service.NewAuthService(usersWith(user), noEmployees(), sessions, privilegedSector)

	actor, err := svc.Login(context.Background(), "ana", "secret123")

	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.ID)
	assert.Equal(t, "Ana Souza", actor.DisplayName)
	assert.Equal(t, domain.RoleUser, actor.Role)
	// The session snapshot was persisted.
	require.NotNil(t, sessions.actor)
	assert.Equal(t, user.ID, sessions.actor.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	user := activeUser("ana", "secret123")
	svc := service.NewAuthService(usersWith(user), noEmployees(), &memSessionRepo{}, privilegedSector)

	_, err := svc.Login(context.Background(), "ana", "wrong")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthService_Login_UnknownLogin(t *testing.T) {
	user := activeUser("ana", "secret123")
	svc := service.NewAuthService(usersWith(user), noEmployees(), &memSessionRepo{}, privilegedSector)

	_, err := svc.Login(context.Background(), "nobody", "secret123")

	// Same generic failure as a wrong password: no account enumeration.
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	user := activeUser("ana", "secret123")
	user.Status = domain.UserInactive
	svc := service.NewAuthService(usersWith(user), noEmployees(), &memSessionRepo{}, privilegedSector)

	_, err := svc.Login(context.Background(), "ana", "secret123")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc := service.NewAuthService(&mockUserRepo{}, noEmployees(), &memSessionRepo{}, privilegedSector)

	_, err := svc.Login(context.Background(), "  ", "secret123")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Login(context.Background(), "ana", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_Login_ResolvesSectorFromRoster(t *testing.T) {
	empID := uuid.New()
	user := activeUser("gestor", "gestor123")
	user.EmployeeID = &empID
	employees := &mockEmployeeRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Employee, error) {
			require.Equal(t, empID, id)
			return domain.Employee{ID: empID, Name: "Ana Souza", Sector: privilegedSector}, nil
		},
	}
	svc := service.NewAuthService(usersWith(user), employees, &memSessionRepo{}, privilegedSector)

	actor, err := svc.Login(context.Background(), "gestor", "gestor123")

	require.NoError(t, err)
	assert.Equal(t, privilegedSector, actor.Sector)
	assert.True(t, actor.CanApprove(privilegedSector))
}

func TestAuthService_Login_DanglingEmployeeReference(t *testing.T) {
	// A roster entry deleted after the account was created must not lock the
	// user out; they simply carry no sector.
	empID := uuid.New()
	user := activeUser("ana", "secret123")
	user.EmployeeID = &empID
	svc := service.NewAuthService(usersWith(user), noEmployees(), &memSessionRepo{}, privilegedSector)

	actor, err := svc.Login(context.Background(), "ana", "secret123")

	require.NoError(t, err)
	assert.Empty(t, actor.Sector)
}

// ---- CurrentActor tests ----------------------------------------------------

func TestAuthService_CurrentActor_NoSession(t *testing.T) {
	svc := service.NewAuthService(&mockUserRepo{}, noEmployees(), &memSessionRepo{}, privilegedSector)

	_, err := svc.CurrentActor(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthService_CurrentActor_ReResolvesRole(t *testing.T) {
	// Role changes between login and the next request must take effect
	// immediately: the session stores identity, not authority.
	user := activeUser("ana", "secret123")
	current := user
	users := &mockUserRepo{
		getByLogin: func(_ context.Context, _ string) (domain.User, error) { return current, nil },
		getByID:    func(_ context.Context, _ uuid.UUID) (domain.User, error) { return current, nil },
	}
	sessions := &memSessionRepo{}
	svc := service.NewAuthService(users, noEmployees(), sessions, privilegedSector)

	_, err := svc.Login(context.Background(), "ana", "secret123")
	require.NoError(t, err)

	current.Role = domain.RoleAdministrator
	actor, err := svc.CurrentActor(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdministrator, actor.Role)
}

func TestAuthService_CurrentActor_DeactivatedSinceLogin(t *testing.T) {
	user := activeUser("ana", "secret123")
	sessions := &memSessionRepo{actor: &domain.Actor{ID: user.ID, Login: user.Login}}
	user.Status = domain.UserInactive
	svc := service.NewAuthService(usersWith(user), noEmployees(), sessions, privilegedSector)

	_, err := svc.CurrentActor(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthService_CurrentActor_AccountRemoved(t *testing.T) {
	gone := domain.Actor{ID: uuid.New(), Login: "ghost"}
	users := &mockUserRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}
	svc := service.NewAuthService(users, noEmployees(), &memSessionRepo{actor: &gone}, privilegedSector)

	_, err := svc.CurrentActor(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

// ---- Logout tests ----------------------------------------------------------

func TestAuthService_Logout_ClearsSession(t *testing.T) {
	user := activeUser("ana", "secret123")
	sessions := &memSessionRepo{}
	svc := service.NewAuthService(usersWith(user), noEmployees(), sessions, privilegedSector)

	_, err := svc.Login(context.Background(), "ana", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background()))
	assert.Nil(t, sessions.actor)

	// Logging out twice is fine.
	require.NoError(t, svc.Logout(context.Background()))

	_, err = svc.CurrentActor(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

// ---- HashPassword tests ----------------------------------------------------

func TestHashPassword_Deterministic(t *testing.T) {
	assert.Equal(t, service.HashPassword("admin123"), service.HashPassword("admin123"))
	assert.NotEqual(t, service.HashPassword("admin123"), service.HashPassword("admin124"))
	// Hex-encoded SHA-256: 64 lowercase hex characters.
	assert.Len(t, service.HashPassword("x"), 64)
}
