package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/skyward-io/skyward/internal/core"
	"github.com/skyward-io/skyward/internal/core/model"
)

// sessionEntry pairs a session with its own lock. Update holds the
// entry lock for the duration of the mutation callback, so samples for
// one session apply strictly one at a time while other sessions
// proceed in parallel.
type sessionEntry struct {
	mu   sync.Mutex
	sess *model.FlightSession
}

// SessionStore is an in-memory SessionRepository.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]*sessionEntry

	// activeByCompany and activeByAircraft index non-completed
	// sessions. Maintained by Create and by Update when a session
	// completes.
	activeByCompany  map[string]string
	activeByAircraft map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		entries:          make(map[string]*sessionEntry),
		activeByCompany:  make(map[string]string),
		activeByAircraft: make(map[string]string),
	}
}

func (s *SessionStore) Create(ctx context.Context, session *model.FlightSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[session.ID]; ok {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	if other, ok := s.activeByAircraft[session.AircraftID]; ok {
		return fmt.Errorf("aircraft %s is flying session %s: %w", session.AircraftID, other, core.ErrAircraftBusy)
	}
	if other, ok := s.activeByCompany[session.CompanyID]; ok {
		return fmt.Errorf("company %s is flying session %s: %w", session.CompanyID, other, core.ErrAircraftBusy)
	}

	cp := cloneSession(session)
	s.entries[session.ID] = &sessionEntry{sess: cp}
	s.activeByCompany[session.CompanyID] = session.ID
	s.activeByAircraft[session.AircraftID] = session.ID
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*model.FlightSession, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, core.ErrNotFound)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return cloneSession(entry.sess), nil
}

func (s *SessionStore) ActiveByCompany(ctx context.Context, companyID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.activeByCompany[companyID]
	if !ok {
		return "", core.ErrNoActiveFlight
	}
	return id, nil
}

func (s *SessionStore) Update(ctx context.Context, id string, fn func(*model.FlightSession) error) error {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("session %s: %w", id, core.ErrNotFound)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// fn mutates a copy; a returned error discards the mutation so a
	// failed application cannot leave the session half-updated.
	cp := cloneSession(entry.sess)
	if err := fn(cp); err != nil {
		return err
	}
	wasCompleted := entry.sess.Status == model.SessionCompleted
	entry.sess = cp

	if cp.Status == model.SessionCompleted && !wasCompleted {
		s.mu.Lock()
		if s.activeByCompany[cp.CompanyID] == id {
			delete(s.activeByCompany, cp.CompanyID)
		}
		if s.activeByAircraft[cp.AircraftID] == id {
			delete(s.activeByAircraft, cp.AircraftID)
		}
		s.mu.Unlock()
	}

	return nil
}

func (s *SessionStore) PendingSettlement(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	entries := make([]*sessionEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	var ids []string
	for _, e := range entries {
		e.mu.Lock()
		if e.sess.SettlementPending && !e.sess.Settled {
			ids = append(ids, e.sess.ID)
		}
		e.mu.Unlock()
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *SessionStore) List(ctx context.Context) ([]*model.FlightSession, error) {
	s.mu.RLock()
	entries := make([]*sessionEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]*model.FlightSession, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, cloneSession(e.sess))
		e.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// cloneSession deep-copies a session so callers never share mutable
// state with the store.
func cloneSession(in *model.FlightSession) *model.FlightSession {
	out := *in
	out.Failures = append([]model.FailureEvent(nil), in.Failures...)
	if in.Contract != nil {
		c := *in.Contract
		out.Contract = &c
	}
	if in.Settlement != nil {
		r := *in.Settlement
		r.Events = append([]model.FlightEventType(nil), in.Settlement.Events...)
		r.Failures = append([]model.FailureEvent(nil), in.Settlement.Failures...)
		out.Settlement = &r
	}
	return &out
}
