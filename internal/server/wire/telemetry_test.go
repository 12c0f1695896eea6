package wire

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

const fullBody = `{
	"altitude": 32000, "speed": 450, "vertical_speed": -120,
	"heading": 270, "fuel_percentage": 63.5, "g_force": 1.02,
	"latitude": 48.35, "longitude": 11.78,
	"ias": 280, "pitch": 2.5, "fuel_qty": 4100, "flap_ratio": 0,
	"gear_down": false, "on_ground": false, "park_brake": false,
	"engine1_running": true, "engine2_running": true
}`

func TestMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		missing []string
	}{
		{
			name:    "complete request",
			body:    fullBody,
			missing: nil,
		},
		{
			name:    "empty object misses everything",
			body:    `{}`,
			missing: []string{"altitude", "speed", "vertical_speed", "heading", "fuel_percentage", "g_force", "latitude", "longitude"},
		},
		{
			name:    "zero values are present",
			body:    `{"altitude": 0, "speed": 0, "vertical_speed": 0, "heading": 0, "fuel_percentage": 0, "g_force": 0, "latitude": 0, "longitude": 0}`,
			missing: nil,
		},
		{
			name:    "single missing key",
			body:    `{"altitude": 100, "speed": 10, "vertical_speed": 0, "heading": 90, "fuel_percentage": 80, "latitude": 1, "longitude": 2}`,
			missing: []string{"g_force"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TelemetryRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got := req.MissingFields()
			if len(got) != len(tt.missing) {
				t.Fatalf("MissingFields() = %v, want %v", got, tt.missing)
			}
			for i := range got {
				if got[i] != tt.missing[i] {
					t.Errorf("MissingFields()[%d] = %q, want %q", i, got[i], tt.missing[i])
				}
			}
		})
	}
}

func TestToSample(t *testing.T) {
	var req TelemetryRequest
	if err := json.Unmarshal([]byte(fullBody), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	sample, err := req.ToSample()
	if err != nil {
		t.Fatalf("ToSample() error: %v", err)
	}
	if sample.Altitude != 32000 {
		t.Errorf("Altitude = %v, want 32000", sample.Altitude)
	}
	if sample.GroundSpeed != 450 {
		t.Errorf("GroundSpeed = %v, want 450", sample.GroundSpeed)
	}
	if sample.IndicatedAirspeed != 280 {
		t.Errorf("IndicatedAirspeed = %v, want 280", sample.IndicatedAirspeed)
	}
	if !sample.Engine1Running || !sample.Engine2Running {
		t.Error("engine flags not carried over")
	}
	if !sample.Timestamp.IsZero() {
		t.Errorf("Timestamp = %v, want zero when absent", sample.Timestamp)
	}
}

// The brake flag travels as "park_brake"; the completion predicate
// depends on it, so a decode miss would strand every flight unsettled.
func TestParkBrakeDecoded(t *testing.T) {
	body := `{
		"altitude": 1200, "speed": 0, "vertical_speed": 0, "heading": 80,
		"fuel_percentage": 60, "g_force": 1.0, "latitude": 48.35,
		"longitude": 11.78, "on_ground": true, "park_brake": true,
		"engine1_running": false, "engine2_running": false
	}`

	var req TelemetryRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	sample, err := req.ToSample()
	if err != nil {
		t.Fatalf("ToSample() error: %v", err)
	}
	if !sample.ParkingBrake {
		t.Error("park_brake=true decoded as ParkingBrake=false")
	}
	if !sample.OnGround || sample.Engine1Running || sample.Engine2Running {
		t.Error("parked-state flags not carried over")
	}
}

func TestToSampleCarriesTimestamp(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var req TelemetryRequest
	if err := json.Unmarshal([]byte(fullBody), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	req.Timestamp = &ts

	sample, err := req.ToSample()
	if err != nil {
		t.Fatalf("ToSample() error: %v", err)
	}
	if !sample.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", sample.Timestamp, ts)
	}
}

func TestToSampleMissingField(t *testing.T) {
	var req TelemetryRequest
	if err := json.Unmarshal([]byte(`{"altitude": 100}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	_, err := req.ToSample()
	if err == nil {
		t.Fatal("ToSample() succeeded with missing fields")
	}
	if !strings.Contains(err.Error(), "g_force") {
		t.Errorf("error %q does not name the missing field", err)
	}
}
