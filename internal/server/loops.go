package server

import (
	"context"
	"time"

	"github.com/skyward-io/skyward/internal/core/service"
	"github.com/skyward-io/skyward/pkg/log"
)

// Watchdog periodically sweeps connection states and flags silent
// companies as disconnected.
type Watchdog struct {
	svc      *service.Service
	interval time.Duration
}

func NewWatchdog(svc *service.Service, interval time.Duration) *Watchdog {
	return &Watchdog{svc: svc, interval: interval}
}

func (w *Watchdog) Start(ctx context.Context) error {
	log.Info("Starting connection watchdog", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			report, err := w.svc.SweepConnections(ctx)
			if err != nil {
				log.Error(err, "connection sweep failed")
				continue
			}
			log.Debug("connection sweep done", "checked", report.Checked)
		}
	}
}

// SettlementRetrier periodically re-attempts settlements left pending
// by collaborator outages.
type SettlementRetrier struct {
	svc      *service.Service
	interval time.Duration
}

func NewSettlementRetrier(svc *service.Service, interval time.Duration) *SettlementRetrier {
	return &SettlementRetrier{svc: svc, interval: interval}
}

func (r *SettlementRetrier) Start(ctx context.Context) error {
	log.Info("Starting settlement retrier", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.svc.RetryPendingSettlements(ctx); n > 0 {
				log.Info("recovered pending settlements", "count", n)
			}
		}
	}
}
