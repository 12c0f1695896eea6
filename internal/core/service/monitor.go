package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skyward-io/skyward/internal/core/model"
	"github.com/skyward-io/skyward/internal/pkg/metrics"
	"github.com/skyward-io/skyward/pkg/log"
)

// SweepConnections runs one watchdog pass over every known company and
// flips stale connectivity badges to disconnected. The sweep reads and
// writes connection state only; flight sessions are never touched, so a
// company whose link drops mid-flight keeps its session intact and
// resumes where it left off when samples return.
func (s *Service) SweepConnections(ctx context.Context) (*model.SweepReport, error) {
	states, err := s.connections.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &model.SweepReport{
		Checked:  len(states),
		Statuses: make(map[string]model.ConnectionStatus, len(states)),
	}

	var mu sync.Mutex
	now := s.now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.SweepConcurrency)

	for _, state := range states {
		g.Go(func() error {
			status, err := s.checkOne(gctx, state, now)
			if err != nil {
				// One company's failed check must not abort the sweep.
				log.Error(err, "connection check failed", "company", state.CompanyID)
				return nil
			}

			mu.Lock()
			report.Statuses[state.CompanyID] = status
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	connected := 0
	for _, status := range report.Statuses {
		if status == model.ConnectionConnected {
			connected++
		}
	}
	metrics.CompaniesConnected.Set(float64(connected))

	return report, nil
}

// checkOne evaluates one company's staleness and updates its badge when
// it changed. A panic inside the check is contained to this company.
func (s *Service) checkOne(ctx context.Context, state *model.ConnectionState, now time.Time) (status model.ConnectionStatus, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during connection check: %v", r)
		}
	}()

	// The sweep only ever demotes; recovery is Touch's job on the
	// next sample.
	status = state.Status
	if status == model.ConnectionDisconnected {
		return status, nil
	}

	if state.LastSampleAt.IsZero() || now.Sub(state.LastSampleAt) > s.cfg.StaleAfter {
		status = model.ConnectionDisconnected
		log.Info("company link went stale",
			"company", state.CompanyID,
			"lastSample", state.LastSampleAt)
		if err := s.connections.SetStatus(ctx, state.CompanyID, status); err != nil {
			return status, err
		}
	}

	return status, nil
}
