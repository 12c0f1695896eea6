// Package store provides the in-memory adapters behind the core
// repository and collaborator ports. Everything here is safe for
// concurrent use; the session store additionally serializes mutation
// per session so different flights never block each other.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/skyward-io/skyward/internal/core"
	"github.com/skyward-io/skyward/internal/core/model"
)

// CompanyStore is an in-memory CompanyRepository seeded from config.
type CompanyStore struct {
	mu    sync.RWMutex
	byID  map[string]*model.Company
	byKey map[string]*model.Company
}

func NewCompanyStore() *CompanyStore {
	return &CompanyStore{
		byID:  make(map[string]*model.Company),
		byKey: make(map[string]*model.Company),
	}
}

// Add registers a company. A duplicate API key is a configuration
// error and is rejected.
func (s *CompanyStore) Add(company *model.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[company.APIKey]; ok {
		return fmt.Errorf("api key for company %s already registered", company.ID)
	}

	c := *company
	s.byID[c.ID] = &c
	s.byKey[c.APIKey] = &c
	return nil
}

func (s *CompanyStore) ResolveAPIKey(ctx context.Context, apiKey string) (*model.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byKey[apiKey]
	if !ok {
		return nil, core.ErrUnauthorized
	}
	out := *c
	return &out, nil
}

func (s *CompanyStore) Get(ctx context.Context, id string) (*model.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("company %s: %w", id, core.ErrNotFound)
	}
	out := *c
	return &out, nil
}
