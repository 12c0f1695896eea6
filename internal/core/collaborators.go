package core

import (
	"context"

	"github.com/skyward-io/skyward/internal/core/model"
)

// LedgerEntry is the financial impact of one settled flight. The
// session ID doubles as the idempotency key: applying the same entry
// twice must be a no-op on the ledger side.
type LedgerEntry struct {
	SessionID       string
	CompanyID       string
	Revenue         float64
	MaintenanceCost float64
}

// Ledger applies settlement deltas transactionally.
type Ledger interface {
	ApplySettlement(ctx context.Context, entry LedgerEntry) error
}

// FleetStore owns aircraft economic state and assignment.
type FleetStore interface {
	// ApplyMaintenance adds the accumulated maintenance delta to the
	// aircraft's economic state.
	ApplyMaintenance(ctx context.Context, aircraftID string, delta float64) error

	// Release frees the aircraft for reassignment after settlement.
	Release(ctx context.Context, aircraftID string) error

	// Economic returns the aircraft's current economic state.
	Economic(ctx context.Context, aircraftID string) (*model.AircraftEconomicState, error)
}

// ReputationStore applies a flight's reputation label to the company's
// standing. The exact curve belongs to the collaborator.
type ReputationStore interface {
	Apply(ctx context.Context, companyID string, label model.ReputationLabel) error
}

// RecordArchiver persists settled flight records for later analysis.
// Archiving is best-effort: a failure is logged, never unwound.
type RecordArchiver interface {
	Archive(ctx context.Context, result *model.SettlementResult) error
}

// SettlementNotifier pushes the settlement result back to the
// simulator client, when a push transport is configured.
type SettlementNotifier interface {
	NotifySettled(ctx context.Context, company *model.Company, result *model.SettlementResult) error
}
