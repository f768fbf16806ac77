package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/store"
)

// sessionKey is the fixed record id for the single-session actor snapshot,
// carried over from the legacy console's "auth.user" storage key.
const sessionKey = "user"

// SessionRepo persists the current-session actor snapshot.
// There is at most one session at a time — this is a single-user console.
type SessionRepo interface {
	// Save writes the session snapshot, replacing any previous one.
	Save(ctx context.Context, actor domain.Actor) error

	// Current returns the saved snapshot.
	// Returns domain.ErrNotFound when nobody is logged in.
	Current(ctx context.Context) (domain.Actor, error)

	// Clear removes the session. Clearing an absent session is not an error.
	Clear(ctx context.Context) error
}

type storeSessionRepo struct {
	store *store.Store
}

// NewSessionRepo constructs a SessionRepo backed by the record store.
func NewSessionRepo(s *store.Store) SessionRepo {
	return &storeSessionRepo{store: s}
}

func (r *storeSessionRepo) Save(ctx context.Context, actor domain.Actor) error {
	// Replace rather than update: the snapshot has no meaningful version
	// history and login must succeed whether or not a session exists.
	if err := r.Clear(ctx); err != nil {
		return err
	}
	if _, err := r.store.Create(ctx, colAuth, sessionKey, actor); err != nil {
		return fmt.Errorf("repo.SessionRepo.Save: %w", err)
	}
	return nil
}

func (r *storeSessionRepo) Current(ctx context.Context) (domain.Actor, error) {
	rec, err := r.store.Get(ctx, colAuth, sessionKey)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("repo.SessionRepo.Current: %w", err)
	}

	var actor domain.Actor
	if err := json.Unmarshal(rec.Data, &actor); err != nil {
		return domain.Actor{}, fmt.Errorf("repo.SessionRepo.Current: decode: %w", err)
	}
	return actor, nil
}

func (r *storeSessionRepo) Clear(ctx context.Context) error {
	err := r.store.Delete(ctx, colAuth, sessionKey)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("repo.SessionRepo.Clear: %w", err)
	}
	return nil
}
