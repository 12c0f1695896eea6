package model

// Company is the owning virtual airline of sessions and telemetry.
// Account management is external; the core only needs identity and the
// API key binding used by the ingestor.
type Company struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	APIKey string `json:"-"`
}

// Contract is the commercial leg a session flies under. Contract
// generation and pricing are external; settlement only consumes the
// base payout.
type Contract struct {
	ID          string  `json:"id"`
	BasePayout  float64 `json:"base_payout"`
	DistanceNM  float64 `json:"distance_nm"`
	DeadlineMin float64 `json:"deadline_minutes"`
}

// AircraftEconomicState mirrors the fleet store's view of an aircraft.
// Settlement writes maintenance deltas here but does not own the entity.
type AircraftEconomicState struct {
	AircraftID             string  `json:"aircraft_id"`
	CurrentValue           float64 `json:"current_value"`
	AccumulatedMaintenance float64 `json:"accumulated_maintenance"`
	OperationalStatus      string  `json:"operational_status"`
}
