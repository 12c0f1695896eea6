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

// SubmitResult reports what one accepted sample did.
type SubmitResult struct {
	SessionID   string            `json:"session_id"`
	Phase       model.FlightPhase `json:"phase"`
	FlightScore int               `json:"flight_score"`
	TookOff     bool              `json:"took_off,omitempty"`
	TouchedDown bool              `json:"touched_down,omitempty"`

	// NewEvents lists sticky events that fired on this sample.
	NewEvents []model.FlightEventType `json:"new_events,omitempty"`

	// Stale marks a discarded out-of-order sample (idempotent no-op).
	Stale bool `json:"stale,omitempty"`

	// Settlement is present when this sample completed the flight.
	Settlement *model.SettlementResult `json:"settlement,omitempty"`
}

// RecordContact resolves the caller and records connectivity contact
// without applying a sample. The ingress adapters call this when a
// request was minimally parseable but its sample is unusable, so the
// connectivity badge still sees the client.
func (s *Service) RecordContact(ctx context.Context, apiKey string) error {
	company, err := s.companies.ResolveAPIKey(ctx, apiKey)
	if err != nil {
		return err
	}
	return s.connections.Touch(ctx, company.ID, s.now())
}

// SubmitSample is the single entry point for telemetry. It resolves the
// caller to a company, records contact, and applies the sample to the
// company's active flight session under that session's lock. Each
// submission is an independent, short-lived unit of work.
func (s *Service) SubmitSample(ctx context.Context, apiKey string, sample *model.TelemetrySample) (*SubmitResult, error) {
	company, err := s.companies.ResolveAPIKey(ctx, apiKey)
	if err != nil {
		metrics.SamplesTotal.WithLabelValues("unauthorized").Inc()
		return nil, err
	}

	// Contact is recorded unconditionally, even when no active flight
	// exists or the sample turns out to be unusable.
	if err := s.connections.Touch(ctx, company.ID, s.now()); err != nil {
		log.Error(err, "failed to record connectivity contact", "company", company.ID)
	}

	if sample.Timestamp.IsZero() {
		sample.Timestamp = s.now()
	}

	if err := sample.Validate(); err != nil {
		metrics.SamplesTotal.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedSample, err)
	}

	sessionID, err := s.sessions.ActiveByCompany(ctx, company.ID)
	if err != nil {
		metrics.SamplesTotal.WithLabelValues("no_active_flight").Inc()
		return nil, err
	}

	result := &SubmitResult{SessionID: sessionID}

	err = s.sessions.Update(ctx, sessionID, func(sess *model.FlightSession) error {
		out, applyErr := engine.Apply(ctx, sess, sample)
		if applyErr != nil {
			return applyErr
		}

		if !out.Accepted {
			result.Stale = true
			result.Phase = sess.Phase
			result.FlightScore = sess.FlightScore
			return nil
		}

		result.Phase = sess.Phase
		result.FlightScore = sess.FlightScore
		result.TookOff = out.TookOff
		result.TouchedDown = out.TouchedDown
		result.NewEvents = out.NewEvents

		for _, ev := range out.NewEvents {
			metrics.FlightEventsTotal.WithLabelValues(string(ev)).Inc()
			log.Warn("flight event detected",
				"session", sess.ID,
				"company", sess.CompanyID,
				"event", string(ev),
				"score", sess.FlightScore)
		}

		if out.ReadyToSettle || (sess.SettlementPending && out.Accepted && sess.Status == model.SessionLanded) {
			settlement, settleErr := s.settleLocked(ctx, sess)
			if settleErr != nil {
				// The session stays landed and pending; the retry loop
				// or the next parked sample re-attempts.
				log.Error(settleErr, "settlement deferred", "session", sess.ID)
				return nil
			}
			result.Settlement = settlement
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Stale {
		metrics.SamplesTotal.WithLabelValues("stale").Inc()
	} else {
		metrics.SamplesTotal.WithLabelValues("applied").Inc()
	}

	// Push paths run outside the session lock.
	if result.Settlement != nil {
		s.afterSettlement(ctx, company, result.Settlement)
	}

	return result, nil
}
