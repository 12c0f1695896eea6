package engine

import (
	"time"

	"github.com/skyward-io/skyward/internal/core/model"
)

// Classification thresholds. Fixed by the scoring rules; tuning them
// changes every pilot's career statistics, so treat as protocol
// constants.
const (
	tailstrikePitchDeg   = 10.0
	stallAirspeedKt      = 80.0
	stallMinAltitudeFt   = 500.0
	overstressPosG       = 2.5
	overstressNegG       = -1.0
	flapsOverspeedKt     = 200.0
	fuelEmergencyQty     = 300.0
	crashG               = 3.5
)

// eventPenalty is the one-time score and maintenance impact of a
// sticky event.
type eventPenalty struct {
	score       int
	maintenance float64
	category    model.FailureCategory
	severity    model.FailureSeverity
}

var eventPenalties = map[model.FlightEventType]eventPenalty{
	model.EventTailstrike:     {score: 25, maintenance: 25000, category: model.FailureAirframe, severity: model.SeveritySevere},
	model.EventStall:          {score: 20, maintenance: 0, category: model.FailureFlightControls, severity: model.SeverityModerate},
	model.EventOverstress:     {score: 20, maintenance: 15000, category: model.FailureAirframe, severity: model.SeverityModerate},
	model.EventFlapsOverspeed: {score: 10, maintenance: 0, category: model.FailureFlightControls, severity: model.SeverityMinor},
	model.EventFuelEmergency:  {score: 15, maintenance: 0, category: model.FailureEngine, severity: model.SeverityMinor},
	model.EventGearUpLanding:  {score: 40, maintenance: 30000, category: model.FailureLandingGear, severity: model.SeveritySevere},
	model.EventCrash:          {score: 80, maintenance: 100000, category: model.FailureAirframe, severity: model.SeveritySevere},
}

// classifySample evaluates the per-sample predicate set. Every
// predicate is sticky: the first sample it holds on applies its
// penalty once, and the flag stays set until the next leg's reset or
// settlement. Gear-up is not here; it belongs to the touchdown
// transition.
func classifySample(sess *model.FlightSession, sample *model.TelemetrySample) []model.FlightEventType {
	var fired []model.FlightEventType

	check := func(cond bool, ev model.FlightEventType) {
		if cond && applyEvent(sess, ev, sample.Timestamp) {
			fired = append(fired, ev)
		}
	}

	check(sample.Pitch > tailstrikePitchDeg && sample.OnGround, model.EventTailstrike)
	check(sample.IndicatedAirspeed < stallAirspeedKt && sample.Altitude > stallMinAltitudeFt && !sample.OnGround, model.EventStall)
	check(sample.GForce > overstressPosG || sample.GForce < overstressNegG, model.EventOverstress)
	check(sample.FlapsRatio > 0 && sample.GroundSpeed > flapsOverspeedKt, model.EventFlapsOverspeed)
	// A non-positive quantity reads as a missing fuel sensor, not an
	// empty tank; clients that only send fuel_percentage stay clean.
	check(sample.FuelQuantity > 0 && sample.FuelQuantity < fuelEmergencyQty, model.EventFuelEmergency)
	check(sample.GForce > crashG, model.EventCrash)

	return fired
}

// applyEvent marks the event and applies its penalty exactly once per
// leg. Returns false when the event had already fired.
func applyEvent(sess *model.FlightSession, ev model.FlightEventType, at time.Time) bool {
	if !sess.Events.Set(ev) {
		return false
	}

	p := eventPenalties[ev]
	sess.FlightScore = clampScore(sess.FlightScore - p.score)
	sess.MaintenanceCost += p.maintenance
	sess.Failures = append(sess.Failures, model.FailureEvent{
		Category:   p.category,
		Severity:   p.severity,
		DetectedAt: at,
	})

	return true
}
