package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/skyward-io/skyward/internal/core"
	"github.com/skyward-io/skyward/internal/core/model"
)

// LedgerStore is an in-memory Ledger. The session ID is the
// idempotency key: re-applying a settled entry is a no-op, so a retry
// after a partial failure cannot double-charge.
type LedgerStore struct {
	mu       sync.Mutex
	applied  map[string]core.LedgerEntry
	balances map[string]float64
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		applied:  make(map[string]core.LedgerEntry),
		balances: make(map[string]float64),
	}
}

func (s *LedgerStore) ApplySettlement(ctx context.Context, entry core.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.applied[entry.SessionID]; ok {
		return nil
	}

	s.applied[entry.SessionID] = entry
	s.balances[entry.CompanyID] += entry.Revenue - entry.MaintenanceCost
	return nil
}

// Balance returns a company's running balance.
func (s *LedgerStore) Balance(companyID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[companyID]
}

// Entries returns how many settlements have been applied.
func (s *LedgerStore) Entries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.applied)
}

// FleetMemStore is an in-memory FleetStore.
type FleetMemStore struct {
	mu       sync.Mutex
	aircraft map[string]*model.AircraftEconomicState
}

func NewFleetMemStore() *FleetMemStore {
	return &FleetMemStore{aircraft: make(map[string]*model.AircraftEconomicState)}
}

func (s *FleetMemStore) ApplyMaintenance(ctx context.Context, aircraftID string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.ensure(aircraftID)
	state.AccumulatedMaintenance += delta
	return nil
}

func (s *FleetMemStore) Release(ctx context.Context, aircraftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensure(aircraftID).OperationalStatus = "available"
	return nil
}

func (s *FleetMemStore) Economic(ctx context.Context, aircraftID string) (*model.AircraftEconomicState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.aircraft[aircraftID]
	if !ok {
		return nil, fmt.Errorf("aircraft %s: %w", aircraftID, core.ErrNotFound)
	}
	out := *state
	return &out, nil
}

func (s *FleetMemStore) ensure(aircraftID string) *model.AircraftEconomicState {
	state, ok := s.aircraft[aircraftID]
	if !ok {
		state = &model.AircraftEconomicState{
			AircraftID:        aircraftID,
			OperationalStatus: "in_flight",
		}
		s.aircraft[aircraftID] = state
	}
	return state
}

// ReputationMemStore is an in-memory ReputationStore keeping the label
// counts per company.
type ReputationMemStore struct {
	mu     sync.Mutex
	counts map[string]map[model.ReputationLabel]int
}

func NewReputationMemStore() *ReputationMemStore {
	return &ReputationMemStore{counts: make(map[string]map[model.ReputationLabel]int)}
}

func (s *ReputationMemStore) Apply(ctx context.Context, companyID string, label model.ReputationLabel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.counts[companyID] == nil {
		s.counts[companyID] = make(map[model.ReputationLabel]int)
	}
	s.counts[companyID][label]++
	return nil
}

// Count returns how often a label has been applied to the company.
func (s *ReputationMemStore) Count(companyID string, label model.ReputationLabel) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[companyID][label]
}
