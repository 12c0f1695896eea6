package service

import (
	"context"
	"fmt"

	"github.com/skyward-io/skyward/internal/core"
	"github.com/skyward-io/skyward/internal/core/model"
	"github.com/skyward-io/skyward/internal/engine"
	"github.com/skyward-io/skyward/internal/pkg/metrics"
	"github.com/skyward-io/skyward/pkg/log"
)

// Settle finalizes a session by ID. Normally settlement happens inline
// when a parked sample arrives; this entry point serves the retry loop
// and operator tooling. Calling it on an already-settled session
// returns the previously computed result, never re-charges.
func (s *Service) Settle(ctx context.Context, sessionID string) (*model.SettlementResult, error) {
	var result *model.SettlementResult
	var company *model.Company

	err := s.sessions.Update(ctx, sessionID, func(sess *model.FlightSession) error {
		if sess.Settled {
			result = sess.Settlement
			return nil
		}

		if sess.Status != model.SessionLanded {
			return fmt.Errorf("session %s is %s, not ready to settle: %w", sess.ID, sess.Status, core.ErrNotFound)
		}

		c, err := s.companies.Get(ctx, sess.CompanyID)
		if err != nil {
			return err
		}
		company = c

		res, err := s.settleLocked(ctx, sess)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if company != nil && result != nil {
		s.afterSettlement(ctx, company, result)
	}

	return result, nil
}

// RetryPendingSettlements re-attempts every session a collaborator
// outage left in pending settlement. One session's failure does not
// stop the rest.
func (s *Service) RetryPendingSettlements(ctx context.Context) int {
	ids, err := s.sessions.PendingSettlement(ctx)
	if err != nil {
		log.Error(err, "failed to list pending settlements")
		return 0
	}

	settled := 0
	for _, id := range ids {
		if _, err := s.Settle(ctx, id); err != nil {
			log.Error(err, "settlement retry failed", "session", id)
			continue
		}
		settled++
	}

	return settled
}

// settleLocked performs the one-time finalization. The caller holds the
// session lock, so the settled marker check-and-set collapses
// concurrent duplicate completion detections into a single settlement.
func (s *Service) settleLocked(ctx context.Context, sess *model.FlightSession) (*model.SettlementResult, error) {
	if sess.Settled {
		metrics.SettlementsTotal.WithLabelValues("duplicate").Inc()
		return sess.Settlement, nil
	}

	timer := s.now()

	result := s.computeResult(sess)

	// External writes, each bounded by a short timeout. Any failure
	// leaves the session landed-but-pending; the idempotency key for
	// every collaborator is the session ID, so re-attempts cannot
	// double-charge.
	if err := s.applyExternal(ctx, sess, result); err != nil {
		sess.SettlementPending = true
		metrics.SettlementsTotal.WithLabelValues("pending_retry").Inc()
		return nil, fmt.Errorf("%w: %v", core.ErrExternalWrite, err)
	}

	sess.Settled = true
	sess.SettlementPending = false
	sess.Settlement = result
	sess.Status = model.SessionCompleted

	metrics.SettlementsTotal.WithLabelValues("settled").Inc()
	metrics.SettlementDuration.Observe(s.now().Sub(timer).Seconds())
	metrics.ActiveSessions.Dec()

	log.Info("flight settled",
		"session", sess.ID,
		"company", sess.CompanyID,
		"score", result.FinalScore,
		"landing", string(result.LandingGrade),
		"touchdown", string(result.TouchdownGrade),
		"payout", result.TotalPayout,
		"maintenance", result.MaintenanceCost)

	return result, nil
}

// computeResult derives the immutable settlement record from the
// session's final state.
func (s *Service) computeResult(sess *model.FlightSession) *model.SettlementResult {
	fine := engine.ClassifyTouchdown(sess.TouchdownGForce)
	multiplier := engine.RevenueMultiplier(fine)

	var base float64
	if sess.Contract != nil {
		base = sess.Contract.BasePayout
	}
	adjustment := base * multiplier

	return &model.SettlementResult{
		SessionID:  sess.ID,
		CompanyID:  sess.CompanyID,
		AircraftID: sess.AircraftID,

		FinalScore:      sess.FlightScore,
		Reputation:      engine.ReputationFor(sess.FlightScore),
		LandingGrade:    sess.LandingGrade,
		TouchdownGrade:  fine,
		TouchdownVS:     sess.TouchdownVS,
		TouchdownGForce: sess.TouchdownGForce,
		MaxGForce:       sess.MaxGForce,

		Stars: engine.StarRatings(sess),

		Events:   sess.Events.Active(),
		Failures: append([]model.FailureEvent(nil), sess.Failures...),

		ScoreAdjustment:   engine.TouchdownScoreDelta(fine),
		RevenueMultiplier: multiplier,
		BasePayout:        base,
		RevenueAdjustment: adjustment,
		TotalPayout:       base + adjustment,

		MaintenanceCost: sess.MaintenanceCost,

		SettledAt: s.now(),
	}
}

// applyExternal pushes the settlement to the ledger, fleet and
// reputation collaborators. Every call gets its own write timeout.
func (s *Service) applyExternal(ctx context.Context, sess *model.FlightSession, result *model.SettlementResult) error {
	call := func(name string, fn func(context.Context) error) error {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.WriteTimeout)
		defer cancel()
		if err := fn(callCtx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}

	if err := call("ledger", func(ctx context.Context) error {
		return s.ledger.ApplySettlement(ctx, core.LedgerEntry{
			SessionID:       sess.ID,
			CompanyID:       sess.CompanyID,
			Revenue:         result.TotalPayout,
			MaintenanceCost: result.MaintenanceCost,
		})
	}); err != nil {
		return err
	}

	if err := call("fleet maintenance", func(ctx context.Context) error {
		return s.fleet.ApplyMaintenance(ctx, sess.AircraftID, result.MaintenanceCost)
	}); err != nil {
		return err
	}
	if err := call("fleet release", func(ctx context.Context) error {
		return s.fleet.Release(ctx, sess.AircraftID)
	}); err != nil {
		return err
	}

	return call("reputation", func(ctx context.Context) error {
		return s.reputation.Apply(ctx, sess.CompanyID, result.Reputation)
	})
}

// afterSettlement runs the best-effort push paths outside the session
// lock: record archiving and client notification. Failures here are
// logged, never unwound.
func (s *Service) afterSettlement(ctx context.Context, company *model.Company, result *model.SettlementResult) {
	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, result); err != nil {
			log.Error(err, "failed to archive flight record", "session", result.SessionID)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifySettled(ctx, company, result); err != nil {
			log.Error(err, "failed to notify settlement", "session", result.SessionID)
		}
	}
}
