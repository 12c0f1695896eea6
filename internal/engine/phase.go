// Package engine turns ordered telemetry samples into phase
// transitions, classified events and score updates for one flight
// session. It is pure with respect to I/O: callers own locking,
// persistence and collaborator calls.
package engine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/skyward-io/skyward/internal/core/model"
	fsmutil "github.com/skyward-io/skyward/internal/pkg/util/fsm"
)

const (
	// EventTakeoff moves ground (or landed, for a follow-on leg) to airborne.
	EventTakeoff = "event_takeoff"
	// EventTouchdown moves airborne to landed.
	EventTouchdown = "event_touchdown"
)

// Outcome reports what applying one sample did to the session.
type Outcome struct {
	// Accepted is false when the sample was older than the session's
	// last-applied sample and was discarded as a no-op.
	Accepted bool

	TookOff     bool
	TouchedDown bool

	// NewEvents lists sticky events that fired for the first time on
	// this sample (including a gear-up landing at touchdown).
	NewEvents []model.FlightEventType

	// ReadyToSettle is true when the completion predicate holds:
	// landed, parked, brakes set, engines off.
	ReadyToSettle bool
}

// phaseMachine builds the per-session state machine. The FSM instance
// is rebuilt from the persisted phase on every sample; the session is
// the single source of truth between samples.
type phaseMachine struct {
	*fsm.FSM
}

func newPhaseMachine(initial model.FlightPhase) *phaseMachine {
	m := &phaseMachine{}

	events := fsm.Events{
		{Name: EventTakeoff, Src: []string{string(model.PhaseGround), string(model.PhaseLanded)}, Dst: string(model.PhaseAirborne)},
		{Name: EventTouchdown, Src: []string{string(model.PhaseAirborne)}, Dst: string(model.PhaseLanded)},
	}

	callbacks := fsm.Callbacks{
		// Side-effects (enter_...): mutate the session on entering a state.
		"enter_" + string(model.PhaseAirborne): fsmutil.WrapEvent(m.actionEnterAirborne),
		"enter_" + string(model.PhaseLanded):   fsmutil.WrapEvent(m.actionEnterLanded),
	}

	m.FSM = fsm.NewFSM(string(initial), events, callbacks)
	return m
}

// actionEnterAirborne performs the takeoff reset. This is the only
// place per-leg counters are cleared.
func (m *phaseMachine) actionEnterAirborne(ctx context.Context, e *fsm.Event) error {
	sess := e.Args[0].(*model.FlightSession)
	sess.ResetForFlight()
	sess.Status = model.SessionActive
	return nil
}

// actionEnterLanded captures touchdown exactly once, grades the landing
// and applies the landing penalties. Gear-up is evaluated here and only
// here.
func (m *phaseMachine) actionEnterLanded(ctx context.Context, e *fsm.Event) error {
	sess := e.Args[0].(*model.FlightSession)
	sample := e.Args[1].(*model.TelemetrySample)
	out := e.Args[2].(*Outcome)

	if !sess.TouchdownCaptured {
		sess.TouchdownCaptured = true
		sess.TouchdownVS = sample.VerticalSpeed
		sess.TouchdownGForce = sample.GForce
		sess.LandingGrade = ClassifyLanding(sample.GForce, sample.VerticalSpeed)
		applyLandingPenalty(sess, sess.LandingGrade)
	}

	if !sample.GearDown {
		if applyEvent(sess, model.EventGearUpLanding, sample.Timestamp) {
			out.NewEvents = append(out.NewEvents, model.EventGearUpLanding)
		}
	}

	sess.Status = model.SessionLanded
	return nil
}

// Apply folds one sample into the session. Samples must arrive under
// the session's lock; a sample older than the last applied one is
// discarded without rewinding state.
func Apply(ctx context.Context, sess *model.FlightSession, sample *model.TelemetrySample) (Outcome, error) {
	var out Outcome

	if sess.HasSample && sample.Timestamp.Before(sess.LastSampleAt) {
		return out, nil
	}
	out.Accepted = true

	switch {
	case !sess.HasSample && !sample.OnGround:
		// Mid-air bootstrap: the very first sample already shows the
		// aircraft flying. This is a one-time initialization, not a
		// transition, so no takeoff reset runs.
		sess.Phase = model.PhaseAirborne
		sess.Started = true
		sess.Status = model.SessionActive

	case sess.HasSample && sess.LastOnGround && !sample.OnGround:
		m := newPhaseMachine(sess.Phase)
		if err := m.Event(ctx, EventTakeoff, sess); err != nil {
			return out, fmt.Errorf("takeoff transition: %w", err)
		}
		sess.Phase = model.FlightPhase(m.Current())
		out.TookOff = true

	case sess.HasSample && !sess.LastOnGround && sample.OnGround && sess.Started && sess.Phase == model.PhaseAirborne:
		m := newPhaseMachine(sess.Phase)
		if err := m.Event(ctx, EventTouchdown, sess, sample, &out); err != nil {
			return out, fmt.Errorf("touchdown transition: %w", err)
		}
		sess.Phase = model.FlightPhase(m.Current())
		out.TouchedDown = true
	}

	if sess.Status == model.SessionPending {
		sess.Status = model.SessionActive
	}

	if sess.Started && sample.GForce > sess.MaxGForce {
		sess.MaxGForce = sample.GForce
	}

	out.NewEvents = append(out.NewEvents, classifySample(sess, sample)...)

	if sess.Phase == model.PhaseLanded && completionPredicate(sample) {
		out.ReadyToSettle = true
	}

	sess.HasSample = true
	sess.LastOnGround = sample.OnGround
	sess.LastSampleAt = sample.Timestamp

	return out, nil
}

// completionPredicate holds when the aircraft is parked: on the ground
// with the parking brake set and every engine shut down.
func completionPredicate(sample *model.TelemetrySample) bool {
	return sample.OnGround && sample.ParkingBrake && sample.EnginesOff()
}
