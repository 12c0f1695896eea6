package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/skyward-io/skyward/internal/core/model"
)

// ConnectionStore is an in-memory ConnectionRepository. State here is
// deliberately independent of the session store: the watchdog flipping
// a badge never touches a flight.
type ConnectionStore struct {
	mu     sync.RWMutex
	states map[string]*model.ConnectionState
}

func NewConnectionStore() *ConnectionStore {
	return &ConnectionStore{states: make(map[string]*model.ConnectionState)}
}

func (s *ConnectionStore) Touch(ctx context.Context, companyID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[companyID]
	if !ok {
		state = &model.ConnectionState{CompanyID: companyID}
		s.states[companyID] = state
	}

	// Contact never moves LastSampleAt backwards.
	if at.After(state.LastSampleAt) {
		state.LastSampleAt = at
	}
	state.Status = model.ConnectionConnected
	return nil
}

func (s *ConnectionStore) Get(ctx context.Context, companyID string) (*model.ConnectionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[companyID]
	if !ok {
		// Never heard from: awaiting first contact, not an error.
		return &model.ConnectionState{
			CompanyID: companyID,
			Status:    model.ConnectionConnecting,
		}, nil
	}
	out := *state
	return &out, nil
}

func (s *ConnectionStore) List(ctx context.Context) ([]*model.ConnectionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.ConnectionState, 0, len(s.states))
	for _, state := range s.states {
		cp := *state
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompanyID < out[j].CompanyID })
	return out, nil
}

func (s *ConnectionStore) SetStatus(ctx context.Context, companyID string, status model.ConnectionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[companyID]
	if !ok {
		state = &model.ConnectionState{CompanyID: companyID}
		s.states[companyID] = state
	}
	state.Status = status
	return nil
}
