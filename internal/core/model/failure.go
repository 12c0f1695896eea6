package model

import "time"

// FailureCategory identifies the aircraft system a failure affects.
type FailureCategory string

const (
	FailureEngine         FailureCategory = "engine"
	FailureHydraulics     FailureCategory = "hydraulics"
	FailureAvionics       FailureCategory = "avionics"
	FailureAirframe       FailureCategory = "airframe"
	FailureLandingGear    FailureCategory = "landing_gear"
	FailureElectrical     FailureCategory = "electrical"
	FailureFlightControls FailureCategory = "flight_controls"
	FailurePressurization FailureCategory = "pressurization"
)

// FailureSeverity grades how serious a failure is.
type FailureSeverity string

const (
	SeverityMinor    FailureSeverity = "minor"
	SeverityModerate FailureSeverity = "moderate"
	SeveritySevere   FailureSeverity = "severe"
)

// FailureEvent is one detected failure. Events are appended to a
// session's active set and persist until settlement; they are never
// removed mid-flight.
type FailureEvent struct {
	Category   FailureCategory `json:"category"`
	Severity   FailureSeverity `json:"severity"`
	DetectedAt time.Time       `json:"detected_at"`
}
