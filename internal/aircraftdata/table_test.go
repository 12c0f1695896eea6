package aircraftdata

import (
	"math"
	"testing"
)

func TestCruiseSpeedResolution(t *testing.T) {
	table := NewTable()

	tests := []struct {
		name     string
		code     string
		category Category
		want     float64
	}{
		{"exact match", "B738", "", 460},
		{"lowercase normalized", "b738", "", 460},
		{"variant suffix stripped", "B738-800", "", 460},
		{"longer variant code", "B737MAX", "", 455},
		{"category fallback", "ZZZZ", CategoryTurboprop, 280},
		{"wide body fallback", "XXXX", CategoryWideBody, 490},
		{"ultimate fallback", "ZZZZ", "", DefaultCruiseSpeedKt},
		{"unknown category", "ZZZZ", Category("blimp"), DefaultCruiseSpeedKt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.CruiseSpeedKt(tt.code, tt.category); got != tt.want {
				t.Errorf("CruiseSpeedKt(%q, %q) = %v, want %v", tt.code, tt.category, got, tt.want)
			}
		})
	}
}

func TestOverridesShadowBuiltins(t *testing.T) {
	table := NewTable()
	table.SetOverrides(map[string]float64{"b738": 420, "BAD": -1})

	if got := table.CruiseSpeedKt("B738", ""); got != 420 {
		t.Errorf("override ignored: got %v, want 420", got)
	}
	// A non-positive override is dropped, not applied.
	if got := table.CruiseSpeedKt("BAD", ""); got != DefaultCruiseSpeedKt {
		t.Errorf("invalid override applied: got %v", got)
	}

	table.SetOverrides(nil)
	if got := table.CruiseSpeedKt("B738", ""); got != 460 {
		t.Errorf("builtin not restored after clearing overrides: got %v", got)
	}
}

func TestDeadlineMinutes(t *testing.T) {
	tests := []struct {
		name string
		nm   float64
		kt   float64
		want float64
	}{
		{"one hour leg", 460, 460, 60 + 20 + 15},
		{"short hop", 115, 460, 15 + 20 + 15},
		{"zero speed guarded", 250, 0, 60 + 20 + 15},
		{"negative speed guarded", 250, -10, 60 + 20 + 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeadlineMinutes(tt.nm, tt.kt)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DeadlineMinutes(%v, %v) = %v, want %v", tt.nm, tt.kt, got, tt.want)
			}
		})
	}
}

func TestDistanceNM(t *testing.T) {
	// KJFK to EGLL is roughly 3000 nm.
	got, err := DistanceNM(40.6413, -73.7781, 51.4700, -0.4543)
	if err != nil {
		t.Fatalf("DistanceNM: %v", err)
	}
	if got < 2950 || got > 3050 {
		t.Errorf("JFK-LHR distance = %v nm, want ~3000", got)
	}

	same, err := DistanceNM(48.3538, 11.7861, 48.3538, 11.7861)
	if err != nil {
		t.Fatalf("DistanceNM: %v", err)
	}
	if same != 0 {
		t.Errorf("zero-length leg = %v, want 0", same)
	}

	if _, err := DistanceNM(math.NaN(), 0, 0, 0); err == nil {
		t.Error("expected an error for non-finite latitude")
	}
	if _, err := DistanceNM(0, 0, math.Inf(1), 0); err == nil {
		t.Error("expected an error for non-finite latitude")
	}
}
