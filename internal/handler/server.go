// Package handler implements the HTTP surface of the FleetDesk console.
// All handlers are methods on Server. Methods are split into surface-specific
// files (auth.go, request.go, approval.go, ...) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/middleware"
	"github.com/dmaia/fleetdesk/backend/internal/store"
)

// AuthServicer defines the identity operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the store.
type AuthServicer interface {
	Login(ctx context.Context, login, password string) (domain.Actor, error)
	Logout(ctx context.Context) error
	CurrentActor(ctx context.Context) (domain.Actor, error)
	PrivilegedSector() string
}

// RequestServicer defines the lifecycle-engine operations the two request
// surfaces depend on.
type RequestServicer interface {
	Create(ctx context.Context, actor domain.Actor, input domain.RequestInput) (domain.Request, error)
	ListPending(ctx context.Context, actor domain.Actor) ([]domain.Request, error)
	Approve(ctx context.Context, actor domain.Actor, id uuid.UUID, justification string) (domain.Request, error)
	Reject(ctx context.Context, actor domain.Actor, id uuid.UUID, justification string) (domain.Request, error)
	ListVisible(ctx context.Context, actor domain.Actor, filter domain.RequestFilter) ([]domain.Request, error)
	GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Request, error)
	StatusCounts(ctx context.Context) (domain.StatusCounts, error)
}

// VehicleServicer defines the vehicle reads used by the approval join and the
// dashboard.
type VehicleServicer interface {
	List(ctx context.Context) ([]domain.Vehicle, error)
	StatusCounts(ctx context.Context) (domain.VehicleCounts, error)
}

// Server holds the dependencies shared by every handler method.
type Server struct {
	auth     AuthServicer
	requests RequestServicer
	vehicles VehicleServicer
	store    *store.Store // generic entity escape hatch only
}

// NewServer constructs the Server with all its dependencies.
func NewServer(auth AuthServicer, requests RequestServicer, vehicles VehicleServicer, st *store.Store) *Server {
	return &Server{auth: auth, requests: requests, vehicles: vehicles, store: st}
}

// Routes mounts every endpoint on a fresh chi router.
//
// The route guards mirror the legacy console's navigation rules: approvals
// are restricted to administrators and the privileged sector, the entity
// escape hatch to administrators, everything else to any authenticated actor.
// The lifecycle engine re-validates authorization on top of these guards.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/api/auth/login", s.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(s.auth))

		r.Post("/api/auth/logout", s.Logout)
		r.Get("/api/auth/me", s.Me)

		r.Get("/api/dashboard", s.GetDashboard)

		r.Post("/api/requests", s.CreateRequest)
		r.Get("/api/requests", s.ListRequests)
		r.Get("/api/requests/{id}", s.GetRequest)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireApprover(s.auth.PrivilegedSector()))
			r.Get("/api/approvals", s.ListApprovals)
			r.Post("/api/approvals/{id}/approve", s.ApproveRequest)
			r.Post("/api/approvals/{id}/reject", s.RejectRequest)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdministrator))
			r.Route("/api/entities/{collection}", func(r chi.Router) {
				r.Get("/", s.ListEntities)
				r.Post("/", s.CreateEntity)
				r.Get("/{id}", s.GetEntity)
				r.Put("/{id}", s.UpdateEntity)
				r.Delete("/{id}", s.DeleteEntity)
			})
		})
	})

	return r
}
