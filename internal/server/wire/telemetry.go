// Package wire defines the transport-level request and response bodies
// shared by the HTTP and MQTT ingress adapters.
package wire

import (
	"fmt"
	"strings"
	"time"

	"github.com/skyward-io/skyward/internal/core/model"
	"github.com/skyward-io/skyward/internal/core/service"
)

// TelemetryRequest is one sample as the simulator client sends it.
// Required numeric fields are pointers so a missing key can be told
// apart from a legitimate zero.
type TelemetryRequest struct {
	Altitude      *float64 `json:"altitude"`
	Speed         *float64 `json:"speed"`
	VerticalSpeed *float64 `json:"vertical_speed"`
	Heading       *float64 `json:"heading"`
	FuelPercent   *float64 `json:"fuel_percentage"`
	GForce        *float64 `json:"g_force"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`

	// Raw sensor extras consumed by the event classifier. Optional; a
	// missing value reads as zero.
	IndicatedAirspeed float64 `json:"ias,omitempty"`
	Pitch             float64 `json:"pitch,omitempty"`
	FuelQuantity      float64 `json:"fuel_qty,omitempty"`
	FlapRatio         float64 `json:"flap_ratio,omitempty"`
	GearDown          bool    `json:"gear_down,omitempty"`

	OnGround     bool `json:"on_ground"`
	ParkingBrake bool `json:"park_brake"`

	Engine1Running bool `json:"engine1_running"`
	Engine2Running bool `json:"engine2_running"`

	// Timestamp is optional; the ingestor stamps arrival time when absent.
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// MissingFields lists the required keys the request did not carry.
func (r *TelemetryRequest) MissingFields() []string {
	var missing []string
	requires := []struct {
		name  string
		value *float64
	}{
		{"altitude", r.Altitude},
		{"speed", r.Speed},
		{"vertical_speed", r.VerticalSpeed},
		{"heading", r.Heading},
		{"fuel_percentage", r.FuelPercent},
		{"g_force", r.GForce},
		{"latitude", r.Latitude},
		{"longitude", r.Longitude},
	}
	for _, req := range requires {
		if req.value == nil {
			missing = append(missing, req.name)
		}
	}
	return missing
}

// ToSample converts the request into a domain sample. It fails when a
// required field is absent; finiteness is checked by the core.
func (r *TelemetryRequest) ToSample() (*model.TelemetrySample, error) {
	if missing := r.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	s := &model.TelemetrySample{
		Altitude:          *r.Altitude,
		GroundSpeed:       *r.Speed,
		IndicatedAirspeed: r.IndicatedAirspeed,
		VerticalSpeed:     *r.VerticalSpeed,
		Heading:           *r.Heading,
		Pitch:             r.Pitch,
		FuelPercent:       *r.FuelPercent,
		FuelQuantity:      r.FuelQuantity,
		GForce:            *r.GForce,
		FlapsRatio:        r.FlapRatio,
		GearDown:          r.GearDown,
		Latitude:          *r.Latitude,
		Longitude:         *r.Longitude,
		OnGround:          r.OnGround,
		ParkingBrake:      r.ParkingBrake,
		Engine1Running:    r.Engine1Running,
		Engine2Running:    r.Engine2Running,
	}
	if r.Timestamp != nil {
		s.Timestamp = *r.Timestamp
	}
	return s, nil
}

// TelemetryResponse acknowledges one processed sample.
type TelemetryResponse struct {
	Accepted bool   `json:"accepted"`
	Error    string `json:"error,omitempty"`

	Result *service.SubmitResult `json:"result,omitempty"`
}

// ErrorResponse is the generic error body for the HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}
