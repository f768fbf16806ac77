package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/store"
)

// UserRepo defines persistence operations for console accounts.
type UserRepo interface {
	// Create persists a new user account.
	Create(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID retrieves an account by its ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// GetByLogin retrieves an account by its login name.
	// Returns domain.ErrNotFound when no account uses that login.
	GetByLogin(ctx context.Context, login string) (domain.User, error)

	// List returns all accounts, newest first.
	List(ctx context.Context) ([]domain.User, error)
}

type storeUserRepo struct {
	store *store.Store
}

// NewUserRepo constructs a UserRepo backed by the record store.
func NewUserRepo(s *store.Store) UserRepo {
	return &storeUserRepo{store: s}
}

func (r *storeUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	rec, err := r.store.Create(ctx, colUsers, user.ID.String(), user)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	result, err := decodeUser(rec)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return result, nil
}

func (r *storeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	rec, err := r.store.Get(ctx, colUsers, id.String())
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	result, err := decodeUser(rec)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByLogin scans the collection for a matching login. Logins are unique by
// convention; the first match wins, consistent with the legacy console.
func (r *storeUserRepo) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByLogin: %w", err)
	}
	for _, u := range users {
		if u.Login == login {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("repo.UserRepo.GetByLogin: %w", domain.ErrNotFound)
}

func (r *storeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	recs, err := r.store.List(ctx, colUsers)
	if err != nil {
		return nil, fmt.Errorf("repo.UserRepo.List: %w", err)
	}

	users := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		u, err := decodeUser(rec)
		if err != nil {
			return nil, fmt.Errorf("repo.UserRepo.List: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}

func decodeUser(rec store.Record) (domain.User, error) {
	var u domain.User
	if err := json.Unmarshal(rec.Data, &u); err != nil {
		return domain.User{}, fmt.Errorf("decode user %s: %w", rec.ID, err)
	}
	u.CreatedAt = rec.CreatedAt
	u.UpdatedAt = rec.UpdatedAt
	u.Version = rec.Version
	return u, nil
}
