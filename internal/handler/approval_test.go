package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaia/fleetdesk/backend/internal/domain"
	"github.com/dmaia/fleetdesk/backend/internal/handler"
)

func TestListApprovals_JoinsAssignedVehicles(t *testing.T) {
	owner := regularActor("Ana Souza")
	bus := domain.Vehicle{ID: uuid.New(), Plate: "ABC1D23", Model: "Ônibus Escolar"}
	withVehicle := storedRequest(owner)
	withVehicle.VehicleID = &bus.ID
	withoutVehicle := storedRequest(owner)

	requests := &mockRequestServicer{
		listPending: func(_ context.Context, _ domain.Actor) ([]domain.Request, error) {
			return []domain.Request{withVehicle, withoutVehicle}, nil
		},
	}
	vehicles := &mockVehicleServicer{
		list: func(_ context.Context) ([]domain.Vehicle, error) {
			return []domain.Vehicle{bus}, nil
		},
	}
	s := newServer(authAs(adminActor()), requests, vehicles, nil)

	rec := serve(t, s, http.MethodGet, "/api/approvals", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body []handler.ApprovalItem
	decodeBody(t, rec, &body)
	require.Len(t, body, 2)
	require.NotNil(t, body[0].Vehicle)
	assert.Equal(t, "ABC1D23", body[0].Vehicle.Plate)
	assert.Nil(t, body[1].Vehicle)
}

func TestListApprovals_ForbiddenForRegularUser(t *testing.T) {
	s := newServer(authAs(regularActor("Ana Souza")), &mockRequestServicer{}, noVehicles(), nil)

	rec := serve(t, s, http.MethodGet, "/api/approvals", nil)

	// Turned away by the route guard before the engine is even consulted.
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListApprovals_PrivilegedSectorAllowed(t *testing.T) {
	requests := &mockRequestServicer{
		listPending: func(_ context.Context, actor domain.Actor) ([]domain.Request, error) {
			require.Equal(t, privilegedSector, actor.Sector)
			return nil, nil
		},
	}
	s := newServer(authAs(supervisorActor()), requests, noVehicles(), nil)

	rec := serve(t, s, http.MethodGet, "/api/approvals", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApproveRequest(t *testing.T) {
	owner := regularActor("Ana Souza")
	stored := storedRequest(owner)
	approver := adminActor()
	requests := &mockRequestServicer{
		approve: func(_ context.Context, actor domain.Actor, id uuid.UUID, justification string) (domain.Request, error) {
			require.Equal(t, approver.ID, actor.ID)
			require.Equal(t, stored.ID, id)
			require.Empty(t, justification)
			stored.Status = domain.StatusApproved
			return stored, nil
		},
	}
	s := newServer(authAs(approver), requests, noVehicles(), nil)

	// No body at all: approve needs none.
	rec := serve(t, s, http.MethodPost, "/api/approvals/"+stored.ID.String()+"/approve", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.RequestResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "approved", body.Status)
}

func TestApproveRequest_AlreadyResolved(t *testing.T) {
	requests := &mockRequestServicer{
		approve: func(_ context.Context, _ domain.Actor, _ uuid.UUID, _ string) (domain.Request, error) {
			return domain.Request{}, domain.ErrInvalidTransition
		},
	}
	s := newServer(authAs(adminActor()), requests, noVehicles(), nil)

	rec := serve(t, s, http.MethodPost, "/api/approvals/"+uuid.NewString()+"/approve", nil)

	require.Equal(t, http.StatusConflict, rec.Code)

	var body handler.ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "invalid_transition", body.Error.Code)
}

func TestApproveRequest_RacingWindow(t *testing.T) {
	requests := &mockRequestServicer{
		approve: func(_ context.Context, _ domain.Actor, _ uuid.UUID, _ string) (domain.Request, error) {
			return domain.Request{}, domain.ErrVersionConflict
		},
	}
	s := newServer(authAs(adminActor()), requests, noVehicles(), nil)

	rec := serve(t, s, http.MethodPost, "/api/approvals/"+uuid.NewString()+"/approve", nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApproveRequest_MalformedID(t *testing.T) {
	s := newServer(authAs(adminActor()), &mockRequestServicer{}, noVehicles(), nil)

	rec := serve(t, s, http.MethodPost, "/api/approvals/not-a-uuid/approve", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRejectRequest(t *testing.T) {
	owner := regularActor("Ana Souza")
	stored := storedRequest(owner)
	requests := &mockRequestServicer{
		reject: func(_ context.Context, _ domain.Actor, id uuid.UUID, justification string) (domain.Request, error) {
			require.Equal(t, stored.ID, id)
			require.Equal(t, "vehicle unavailable", justification)
			stored.Status = domain.StatusRejected
			stored.RejectionJustification = justification
			return stored, nil
		},
	}
	s := newServer(authAs(supervisorActor()), requests, noVehicles(), nil)

	rec := serve(t, s, http.MethodPost, "/api/approvals/"+stored.ID.String()+"/reject",
		handler.DecisionRequest{Justification: "vehicle unavailable"})

	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.RequestResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "rejected", body.Status)
	assert.Equal(t, "vehicle unavailable", body.RejectionJustification)
}

func TestRejectRequest_EmptyJustification(t *testing.T) {
	engineCalled := false
	requests := &mockRequestServicer{
		reject: func(_ context.Context, _ domain.Actor, _ uuid.UUID, _ string) (domain.Request, error) {
			engineCalled = true
			return domain.Request{}, nil
		},
	}
	s := newServer(authAs(adminActor()), requests, noVehicles(), nil)

	rec := serve(t, s, http.MethodPost, "/api/approvals/"+uuid.NewString()+"/reject",
		handler.DecisionRequest{Justification: "   "})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, engineCalled)
}

func TestRejectRequest_ForbiddenForRegularUser(t *testing.T) {
	s := newServer(authAs(regularActor("Ana Souza")), &mockRequestServicer{}, noVehicles(), nil)

	rec := serve(t, s, http.MethodPost, "/api/approvals/"+uuid.NewString()+"/reject",
		handler.DecisionRequest{Justification: "qualquer"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
