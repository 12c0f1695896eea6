package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/skyward-io/skyward/internal/aircraftdata"
	"github.com/skyward-io/skyward/internal/server/wire"
)

func performanceRequest(t *testing.T, h *handler, code, query string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/aircraft/"+code+query, nil)
	req = mux.SetURLVars(req, map[string]string{"code": code})

	rec := httptest.NewRecorder()
	h.getAircraftPerformance(rec, req)
	return rec
}

func TestGetAircraftPerformance(t *testing.T) {
	h := &handler{table: aircraftdata.NewTable()}

	rec := performanceRequest(t, h, "B738", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp wire.AircraftPerformanceResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CruiseSpeedKt != 460 {
		t.Errorf("cruise speed = %v, want 460", resp.CruiseSpeedKt)
	}
	if resp.DeadlineMinutes != nil {
		t.Error("deadline present without a distance query")
	}
}

func TestGetAircraftPerformanceWithDeadline(t *testing.T) {
	h := &handler{table: aircraftdata.NewTable()}

	rec := performanceRequest(t, h, "B738", "?distance_nm=460")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp wire.AircraftPerformanceResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.DeadlineMinutes == nil {
		t.Fatal("deadline missing")
	}
	// 460 nm at 460 kt: 60 flight minutes plus the fixed 35 of padding.
	if *resp.DeadlineMinutes != 95 {
		t.Errorf("deadline = %v, want 95", *resp.DeadlineMinutes)
	}
}

func TestGetAircraftPerformanceHotReload(t *testing.T) {
	table := aircraftdata.NewTable()
	h := &handler{table: table}

	table.SetOverrides(map[string]float64{"B738": 440})

	rec := performanceRequest(t, h, "B738", "")
	var resp wire.AircraftPerformanceResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CruiseSpeedKt != 440 {
		t.Errorf("cruise speed = %v, want overridden 440", resp.CruiseSpeedKt)
	}
}

func TestGetAircraftPerformanceBadDistance(t *testing.T) {
	h := &handler{table: aircraftdata.NewTable()}

	rec := performanceRequest(t, h, "B738", "?distance_nm=-10")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
