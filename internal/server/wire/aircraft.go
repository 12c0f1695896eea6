package wire

// AircraftPerformanceResponse answers a cruise-speed lookup. Deadline
// and distance are present only when the query supplied a leg distance.
type AircraftPerformanceResponse struct {
	TypeCode      string  `json:"type_code"`
	CruiseSpeedKt float64 `json:"cruise_speed_kt"`

	DistanceNM      *float64 `json:"distance_nm,omitempty"`
	DeadlineMinutes *float64 `json:"deadline_minutes,omitempty"`
}
