package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/middleware"
)

// resolverFunc adapts a function to middleware.ActorResolver.
type resolverFunc func(ctx context.Context) (domain.Actor, error)

func (f resolverFunc) CurrentActor(ctx context.Context) (domain.Actor, error) {
	return f(ctx)
}

// echoActorHandler answers 200 when an actor is present in the context and
// 500 when it is not — asserting the injection happened.
var echoActorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.ActorFromContext(r.Context()); !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
})

func TestAuthenticator_InjectsActor(t *testing.T) {
	actor := domain.Actor{ID: uuid.New(), Login: "ana", Role: domain.RoleUser}
	resolver := resolverFunc(func(_ context.Context) (domain.Actor, error) { return actor, nil })
	h := middleware.Authenticator(resolver)(echoActorHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/requests", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticator_NoSession_Returns401(t *testing.T) {
	resolver := resolverFunc(func(_ context.Context) (domain.Actor, error) {
		return domain.Actor{}, domain.ErrUnauthenticated
	})
	h := middleware.Authenticator(resolver)(echoActorHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/requests", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthenticated")
}

func TestRequireApprover(t *testing.T) {
	const sector = "STA - SUPERVISÃO DE TRANSPORTE ADMINISTRATIVO"
	guard := middleware.RequireApprover(sector)(trivialHandler)

	cases := []struct {
		name  string
		actor domain.Actor
		want  int
	}{
		{"administrator", domain.Actor{ID: uuid.New(), Role: domain.RoleAdministrator}, http.StatusOK},
		{"privileged sector member", domain.Actor{ID: uuid.New(), Role: domain.RoleUser, Sector: sector}, http.StatusOK},
		{"regular user", domain.Actor{ID: uuid.New(), Role: domain.RoleUser, Sector: "Almoxarifado"}, http.StatusForbidden},
		{"driver", domain.Actor{ID: uuid.New(), Role: domain.RoleDriver}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/approvals", nil)
			req = req.WithContext(middleware.WithActor(req.Context(), tc.actor))
			rec := httptest.NewRecorder()
			guard.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireApprover_NoActor_Returns401(t *testing.T) {
	guard := middleware.RequireApprover("STA")(trivialHandler)

	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/approvals", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	guard := middleware.RequireRole(domain.RoleAdministrator)(trivialHandler)

	admin := httptest.NewRequest(http.MethodGet, "/api/entities/users", nil)
	admin = admin.WithContext(middleware.WithActor(admin.Context(),
		domain.Actor{ID: uuid.New(), Role: domain.RoleAdministrator}))
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	user := httptest.NewRequest(http.MethodGet, "/api/entities/users", nil)
	user = user.WithContext(middleware.WithActor(user.Context(),
		domain.Actor{ID: uuid.New(), Role: domain.RoleUser}))
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
