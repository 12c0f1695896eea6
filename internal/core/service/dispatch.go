package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/skyward-io/skyward/internal/core/model"
	"github.com/skyward-io/skyward/internal/pkg/metrics"
	"github.com/skyward-io/skyward/pkg/log"
)

// DispatchRequest assigns an aircraft to a new flight leg.
type DispatchRequest struct {
	CompanyID  string          `json:"company_id"`
	AircraftID string          `json:"aircraft_id"`
	Contract   *model.Contract `json:"contract,omitempty"`
}

// DispatchFlight creates a pending session for the request. The session
// repository enforces one non-completed session per aircraft, so
// dispatching a busy aircraft fails with ErrAircraftBusy.
func (s *Service) DispatchFlight(ctx context.Context, req DispatchRequest) (*model.FlightSession, error) {
	if _, err := s.companies.Get(ctx, req.CompanyID); err != nil {
		return nil, err
	}

	sess := model.NewFlightSession(uuid.NewString(), req.CompanyID, req.AircraftID, req.Contract, s.now())

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	metrics.ActiveSessions.Inc()
	log.Info("flight dispatched",
		"session", sess.ID,
		"company", sess.CompanyID,
		"aircraft", sess.AircraftID)

	return sess, nil
}

// Session returns a point-in-time copy of a session.
func (s *Service) Session(ctx context.Context, id string) (*model.FlightSession, error) {
	return s.sessions.Get(ctx, id)
}

// Sessions returns all sessions, newest first.
func (s *Service) Sessions(ctx context.Context) ([]*model.FlightSession, error) {
	return s.sessions.List(ctx)
}

// Connections returns the connectivity states of all known companies.
func (s *Service) Connections(ctx context.Context) ([]*model.ConnectionState, error) {
	return s.connections.List(ctx)
}

// Connection returns one company's connectivity state.
func (s *Service) Connection(ctx context.Context, companyID string) (*model.ConnectionState, error) {
	return s.connections.Get(ctx, companyID)
}
