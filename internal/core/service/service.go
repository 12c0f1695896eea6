// Package service implements the core use cases of the Skyward flight
// engine: telemetry ingestion, settlement and the connection watchdog.
// It orchestrates the pure engine against the ports defined in core.
package service

import (
	"time"

	"github.com/skyward-io/skyward/internal/core"
)

// Config carries the tunables the service needs from the option layer.
type Config struct {
	// WriteTimeout bounds each outbound collaborator call during
	// settlement.
	WriteTimeout time.Duration

	// StaleAfter is the silence threshold the watchdog uses to flag a
	// company disconnected.
	StaleAfter time.Duration

	// SweepConcurrency bounds parallel company checks per watchdog sweep.
	SweepConcurrency int
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = 3 * time.Second
	}
	if out.StaleAfter <= 0 {
		out.StaleAfter = 15 * time.Second
	}
	if out.SweepConcurrency < 1 {
		out.SweepConcurrency = 8
	}
	return out
}

// Service wires the engine to its repositories and collaborators.
// Dependency injection happens in New; nothing here is global.
type Service struct {
	companies   core.CompanyRepository
	sessions    core.SessionRepository
	connections core.ConnectionRepository

	ledger     core.Ledger
	fleet      core.FleetStore
	reputation core.ReputationStore

	// archiver and notifier are optional; nil disables them.
	archiver core.RecordArchiver
	notifier core.SettlementNotifier

	cfg Config

	// now is swappable for tests.
	now func() time.Time
}

// Option customizes a Service beyond its required ports.
type Option func(*Service)

// WithArchiver enables flight-record archiving.
func WithArchiver(a core.RecordArchiver) Option {
	return func(s *Service) { s.archiver = a }
}

// WithNotifier enables push notification of settlement results.
func WithNotifier(n core.SettlementNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides the wall clock. Tests use this to drive the
// watchdog deterministically.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates the core service.
func New(
	companies core.CompanyRepository,
	sessions core.SessionRepository,
	connections core.ConnectionRepository,
	ledger core.Ledger,
	fleet core.FleetStore,
	reputation core.ReputationStore,
	cfg Config,
	opts ...Option,
) *Service {
	s := &Service{
		companies:   companies,
		sessions:    sessions,
		connections: connections,
		ledger:      ledger,
		fleet:       fleet,
		reputation:  reputation,
		cfg:         cfg.withDefaults(),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}
