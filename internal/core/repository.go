package core

import (
	"context"
	"time"

	"github.com/skyward-io/skyward/internal/core/model"
)

// CompanyRepository resolves and reads companies. Account CRUD is
// external; the core only authenticates and looks up.
type CompanyRepository interface {
	// ResolveAPIKey returns the company bound to the given API key, or
	// ErrUnauthorized.
	ResolveAPIKey(ctx context.Context, apiKey string) (*model.Company, error)

	// Get retrieves a company by ID.
	Get(ctx context.Context, id string) (*model.Company, error)
}

// SessionRepository owns flight sessions and serializes their mutation.
type SessionRepository interface {
	// Create registers a dispatched session. It fails with
	// ErrAircraftBusy if the aircraft already has a non-completed session.
	Create(ctx context.Context, session *model.FlightSession) error

	// Get returns a point-in-time copy of a session.
	Get(ctx context.Context, id string) (*model.FlightSession, error)

	// ActiveByCompany returns the ID of the company's current
	// non-completed session, or ErrNoActiveFlight.
	ActiveByCompany(ctx context.Context, companyID string) (string, error)

	// Update runs fn with exclusive access to the session. All sample
	// application and settlement goes through here; different sessions
	// proceed fully in parallel.
	Update(ctx context.Context, id string, fn func(*model.FlightSession) error) error

	// PendingSettlement lists sessions left landed-but-unsettled by a
	// collaborator outage.
	PendingSettlement(ctx context.Context) ([]string, error)

	// List returns copies of all sessions, newest first.
	List(ctx context.Context) ([]*model.FlightSession, error)
}

// ConnectionRepository owns per-company connectivity state. Only the
// ingestor's Touch and the watchdog's SetStatus write here.
type ConnectionRepository interface {
	// Touch records contact from a company and flips its badge to
	// connected.
	Touch(ctx context.Context, companyID string, at time.Time) error

	// Get returns a company's connection state. A company that was
	// never heard from yields a disconnected state with a zero time.
	Get(ctx context.Context, companyID string) (*model.ConnectionState, error)

	// List returns all known connection states.
	List(ctx context.Context) ([]*model.ConnectionState, error)

	// SetStatus updates just the connectivity badge.
	SetStatus(ctx context.Context, companyID string, status model.ConnectionStatus) error
}
