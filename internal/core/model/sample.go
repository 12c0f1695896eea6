package model

import (
	"fmt"
	"math"
	"time"
)

// TelemetrySample is one reading from the simulator at a point in time.
// Samples are ephemeral: the engine folds them into the FlightSession and
// never persists them beyond the most recent one needed for phase and
// connectivity checks.
type TelemetrySample struct {
	// Altitude in feet MSL.
	Altitude float64

	// GroundSpeed in knots.
	GroundSpeed float64

	// IndicatedAirspeed in knots.
	IndicatedAirspeed float64

	// VerticalSpeed in feet per minute. Negative on descent.
	VerticalSpeed float64

	// Heading in degrees.
	Heading float64

	// Pitch attitude in degrees, nose-up positive.
	Pitch float64

	// FuelPercent is the remaining fuel as 0-100.
	FuelPercent float64

	// FuelQuantity is the raw fuel sensor reading (sensor units, not percent).
	FuelQuantity float64

	// GForce is the instantaneous load factor.
	GForce float64

	// FlapsRatio is the flap deployment ratio, 0 (retracted) to 1 (full).
	FlapsRatio float64

	// GearDown reports the gear-handle state.
	GearDown bool

	Latitude  float64
	Longitude float64

	OnGround     bool
	ParkingBrake bool

	Engine1Running bool
	Engine2Running bool

	// Timestamp is the wall-clock arrival time assigned by the ingestor.
	Timestamp time.Time
}

// EnginesOff reports whether no engine is running.
func (s *TelemetrySample) EnginesOff() bool {
	return !s.Engine1Running && !s.Engine2Running
}

// Validate rejects samples whose required numeric fields are unusable.
// Non-finite values would poison the score math and distance helpers,
// so they are refused up front.
func (s *TelemetrySample) Validate() error {
	required := map[string]float64{
		"altitude":        s.Altitude,
		"speed":           s.GroundSpeed,
		"vertical_speed":  s.VerticalSpeed,
		"heading":         s.Heading,
		"fuel_percentage": s.FuelPercent,
		"g_force":         s.GForce,
		"latitude":        s.Latitude,
		"longitude":       s.Longitude,
	}

	for name, v := range required {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("field %s is not a finite number", name)
		}
	}

	if s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", s.Latitude)
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", s.Longitude)
	}

	return nil
}
