package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/repo"
)

// AuthService is the identity and role resolver. It answers "who is the
// current actor" and the authorization predicates consumed throughout the
// system, and owns the login/logout session snapshot.
type AuthService struct {
	users            repo.UserRepo
	employees        repo.EmployeeRepo
	sessions         repo.SessionRepo
	privilegedSector string
}

// NewAuthService constructs an AuthService. privilegedSector names the single
// oversight sector whose members get administrator-equivalent visibility.
func NewAuthService(users repo.UserRepo, employees repo.EmployeeRepo, sessions repo.SessionRepo, privilegedSector string) *AuthService {
	return &AuthService{
		users:            users,
		employees:        employees,
		sessions:         sessions,
		privilegedSector: privilegedSector,
	}
}

// HashPassword returns the hex-encoded SHA-256 digest of password.
// The digest is treated as opaque: stored on the user record at creation and
// compared at login, never inverted.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Login authenticates by login and password. Only active accounts may log in.
// On success the resolved actor snapshot is persisted as the session.
// Bad credentials and disabled accounts both surface as ErrUnauthenticated;
// the login form shows one generic failure message either way.
func (s *AuthService) Login(ctx context.Context, login, password string) (domain.Actor, error) {
	if strings.TrimSpace(login) == "" || password == "" {
		return domain.Actor{}, fmt.Errorf("service.AuthService.Login: %w: login and password are required", domain.ErrValidation)
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthenticated)
		}
		return domain.Actor{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if user.Status != domain.UserActive || user.PasswordHash != HashPassword(password) {
		return domain.Actor{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthenticated)
	}

	actor, err := s.resolve(ctx, user)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if err := s.sessions.Save(ctx, actor); err != nil {
		return domain.Actor{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return actor, nil
}

// Logout removes the session snapshot. Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("service.AuthService.Logout: %w", err)
	}
	return nil
}

// CurrentActor resolves the acting identity from the persisted session.
// Role and sector are re-read from the live user and roster records on every
// call — they can change between logins and must not be served stale.
// Returns ErrUnauthenticated when there is no session, or when the account
// behind it has been removed or deactivated since login.
func (s *AuthService) CurrentActor(ctx context.Context) (domain.Actor, error) {
	snapshot, err := s.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, fmt.Errorf("service.AuthService.CurrentActor: %w", domain.ErrUnauthenticated)
		}
		return domain.Actor{}, fmt.Errorf("service.AuthService.CurrentActor: %w", err)
	}

	user, err := s.users.GetByID(ctx, snapshot.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, fmt.Errorf("service.AuthService.CurrentActor: %w", domain.ErrUnauthenticated)
		}
		return domain.Actor{}, fmt.Errorf("service.AuthService.CurrentActor: %w", err)
	}
	if user.Status != domain.UserActive {
		return domain.Actor{}, fmt.Errorf("service.AuthService.CurrentActor: %w", domain.ErrUnauthenticated)
	}

	actor, err := s.resolve(ctx, user)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("service.AuthService.CurrentActor: %w", err)
	}
	return actor, nil
}

// PrivilegedSector returns the configured oversight sector name.
func (s *AuthService) PrivilegedSector() string {
	return s.privilegedSector
}

// resolve builds an Actor from a user record, resolving the sector through
// the stable employee-id reference. A dangling reference leaves the sector
// empty rather than failing; an unaffiliated user is still a valid actor.
func (s *AuthService) resolve(ctx context.Context, user domain.User) (domain.Actor, error) {
	actor := domain.Actor{
		ID:          user.ID,
		Login:       user.Login,
		DisplayName: user.Name,
		Role:        user.Role,
		EmployeeID:  user.EmployeeID,
	}

	if user.EmployeeID != nil {
		emp, err := s.employees.GetByID(ctx, *user.EmployeeID)
		switch {
		case err == nil:
			actor.Sector = emp.Sector
		case errors.Is(err, domain.ErrNotFound):
			// roster entry removed; actor keeps an empty sector
		default:
			return domain.Actor{}, err
		}
	}
	return actor, nil
}
