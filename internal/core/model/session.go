package model

import "time"

// SessionStatus is the lifecycle status of a flight session.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionActive    SessionStatus = "active"
	SessionLanded    SessionStatus = "landed"
	SessionCompleted SessionStatus = "completed"
)

// FlightPhase is the phase-detector state of a session.
type FlightPhase string

const (
	PhaseGround   FlightPhase = "ground"
	PhaseAirborne FlightPhase = "airborne"
	PhaseLanded   FlightPhase = "landed"
)

// LandingGrade is the coarse touchdown classification feeding the
// always-on penalty table.
type LandingGrade string

const (
	LandingSoft   LandingGrade = "SOFT"
	LandingMedium LandingGrade = "MEDIUM"
	LandingHard   LandingGrade = "HARD"
)

// TouchdownGrade is the fine-grained touchdown classification feeding
// settlement's financial adjustment. It is computed from touchdown
// g-force alone and coexists with LandingGrade.
type TouchdownGrade string

const (
	TouchdownButter     TouchdownGrade = "BUTTER"
	TouchdownSoft       TouchdownGrade = "SOFT"
	TouchdownAcceptable TouchdownGrade = "ACCEPTABLE"
	TouchdownHard       TouchdownGrade = "HARD"
	TouchdownVeryHard   TouchdownGrade = "VERY_HARD"
)

// ReputationLabel is the display grade derived from the final flight score.
type ReputationLabel string

const (
	ReputationExcellent ReputationLabel = "EXCELLENT"
	ReputationVeryGood  ReputationLabel = "VERY_GOOD"
	ReputationAcceptable ReputationLabel = "ACCEPTABLE"
	ReputationPoor      ReputationLabel = "POOR"
	ReputationUnsafe    ReputationLabel = "UNSAFE"
)

// FlightEventType identifies a sticky classified event.
type FlightEventType string

const (
	EventTailstrike    FlightEventType = "tailstrike"
	EventStall         FlightEventType = "stall"
	EventOverstress    FlightEventType = "overstress"
	EventFlapsOverspeed FlightEventType = "flaps_overspeed"
	EventFuelEmergency FlightEventType = "fuel_emergency"
	EventGearUpLanding FlightEventType = "gear_up_landing"
	EventCrash         FlightEventType = "crash"
)

// EventFlags records which sticky events have fired for the current leg.
// Once set, a flag stays set until the takeoff reset of the next leg or
// settlement, whichever comes first.
type EventFlags struct {
	Tailstrike     bool
	Stall          bool
	Overstress     bool
	FlapsOverspeed bool
	FuelEmergency  bool
	GearUpLanding  bool
	Crash          bool
}

// Set marks the given event and reports whether it was newly set.
func (f *EventFlags) Set(ev FlightEventType) bool {
	var flag *bool
	switch ev {
	case EventTailstrike:
		flag = &f.Tailstrike
	case EventStall:
		flag = &f.Stall
	case EventOverstress:
		flag = &f.Overstress
	case EventFlapsOverspeed:
		flag = &f.FlapsOverspeed
	case EventFuelEmergency:
		flag = &f.FuelEmergency
	case EventGearUpLanding:
		flag = &f.GearUpLanding
	case EventCrash:
		flag = &f.Crash
	default:
		return false
	}

	if *flag {
		return false
	}
	*flag = true
	return true
}

// Active returns the fired events in a stable order.
func (f *EventFlags) Active() []FlightEventType {
	var out []FlightEventType
	add := func(set bool, ev FlightEventType) {
		if set {
			out = append(out, ev)
		}
	}
	add(f.Tailstrike, EventTailstrike)
	add(f.Stall, EventStall)
	add(f.Overstress, EventOverstress)
	add(f.FlapsOverspeed, EventFlapsOverspeed)
	add(f.FuelEmergency, EventFuelEmergency)
	add(f.GearUpLanding, EventGearUpLanding)
	add(f.Crash, EventCrash)
	return out
}

// FlightSession tracks the lifecycle of one simulated flight leg.
// All mutation happens under the session store's per-session lock.
type FlightSession struct {
	ID         string
	CompanyID  string
	AircraftID string

	// Contract is optional; a session without one settles with zero payout.
	Contract *Contract

	Status SessionStatus
	Phase  FlightPhase

	// Started flips true at the takeoff reset (or mid-air bootstrap) and
	// gates max-g tracking.
	Started bool

	// HasSample is false until the first sample is applied. Used to tell
	// a mid-air bootstrap apart from a ground-to-air transition.
	HasSample    bool
	LastOnGround bool
	LastSampleAt time.Time

	MaxGForce float64

	// Touchdown capture. Write-once within a leg; cleared only by the
	// takeoff reset that begins the next leg.
	TouchdownCaptured bool
	TouchdownVS       float64
	TouchdownGForce   float64
	LandingGrade      LandingGrade

	// FlightScore is the running score, clamped to [0,100] after every
	// event application.
	FlightScore int

	// MaintenanceCost is the accumulated maintenance delta for the leg.
	MaintenanceCost float64

	Events   EventFlags
	Failures []FailureEvent

	CreatedAt time.Time

	// Settlement bookkeeping. Settled is the compare-and-set marker; a
	// session left with SettlementPending survives collaborator outages
	// until a retry succeeds.
	Settled           bool
	SettlementPending bool
	Settlement        *SettlementResult
}

// NewFlightSession creates a dispatched, not-yet-flown session.
func NewFlightSession(id, companyID, aircraftID string, contract *Contract, now time.Time) *FlightSession {
	return &FlightSession{
		ID:          id,
		CompanyID:   companyID,
		AircraftID:  aircraftID,
		Contract:    contract,
		Status:      SessionPending,
		Phase:       PhaseGround,
		FlightScore: 100,
		CreatedAt:   now,
	}
}

// ResetForFlight clears all per-leg counters. This is the only reset
// point in the system; it runs on the ground-to-airborne transition so a
// new leg never inherits the previous leg's counters.
func (s *FlightSession) ResetForFlight() {
	s.Started = true
	s.MaxGForce = 0
	s.FlightScore = 100
	s.MaintenanceCost = 0
	s.Events = EventFlags{}
	s.Failures = nil
	s.TouchdownCaptured = false
	s.TouchdownVS = 0
	s.TouchdownGForce = 0
	s.LandingGrade = ""
}

// StarRatings are the per-leg 1-5 ratings surfaced to the career UI.
type StarRatings struct {
	Takeoff int `json:"takeoff"`
	Flight  int `json:"flight"`
	Landing int `json:"landing"`
	Overall int `json:"overall"`
}

// SettlementResult is the one-time finalization of a completed flight.
// It is stored on the session so duplicate completion detections return
// the identical result instead of re-charging.
type SettlementResult struct {
	SessionID  string          `json:"session_id"`
	CompanyID  string          `json:"company_id"`
	AircraftID string          `json:"aircraft_id"`

	FinalScore      int             `json:"final_score"`
	Reputation      ReputationLabel `json:"reputation"`
	LandingGrade    LandingGrade    `json:"landing_grade"`
	TouchdownGrade  TouchdownGrade  `json:"touchdown_grade"`
	TouchdownVS     float64         `json:"touchdown_vspeed"`
	TouchdownGForce float64         `json:"touchdown_g_force"`
	MaxGForce       float64         `json:"max_g_force"`

	Stars StarRatings `json:"stars"`

	Events   []FlightEventType `json:"events"`
	Failures []FailureEvent    `json:"failures"`

	// ScoreAdjustment is the fine-grade score delta. It is recorded for
	// downstream consumers but does not mutate FinalScore, which stays
	// within [0,100].
	ScoreAdjustment int `json:"score_adjustment"`

	// RevenueMultiplier is the fine-grade bonus/malus factor applied to
	// the contract's base payout.
	RevenueMultiplier float64 `json:"revenue_multiplier"`
	BasePayout        float64 `json:"base_payout"`
	RevenueAdjustment float64 `json:"revenue_adjustment"`
	TotalPayout       float64 `json:"total_payout"`

	MaintenanceCost float64 `json:"maintenance_cost"`

	SettledAt time.Time `json:"settled_at"`
}
