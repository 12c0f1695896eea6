// Package aircraftdata provides the aircraft cruise-speed lookup and
// the contract deadline and distance helpers built on it. The core
// engine does not consume this data; the performance API and contract
// tooling do.
package aircraftdata

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// Category is the coarse aircraft class used as the last lookup fallback.
type Category string

const (
	CategorySmallProp   Category = "small_prop"
	CategoryTurboprop   Category = "turboprop"
	CategoryRegionalJet Category = "regional_jet"
	CategoryNarrowBody  Category = "narrow_body"
	CategoryWideBody    Category = "wide_body"
	CategoryCargo       Category = "cargo"
)

// categorySpeeds are the fallback cruise speeds in knots per category.
var categorySpeeds = map[Category]float64{
	CategorySmallProp:   140,
	CategoryTurboprop:   280,
	CategoryRegionalJet: 430,
	CategoryNarrowBody:  460,
	CategoryWideBody:    490,
	CategoryCargo:       450,
}

// DefaultCruiseSpeedKt is the ultimate fallback when neither the type
// code nor the category resolves.
const DefaultCruiseSpeedKt = 250.0

// builtinSpeeds maps simulator aircraft type codes to typical cruise
// speeds in knots.
var builtinSpeeds = map[string]float64{
	// Small props
	"C172": 122,
	"C182": 145,
	"C208": 175,
	"SR22": 180,
	"DA40": 150,
	"DA62": 190,
	"PA28": 135,
	"BE58": 195,

	// Turboprops
	"TBM9": 330,
	"PC12": 280,
	"B350": 310,
	"DH8D": 360,
	"AT76": 275,
	"SF34": 250,

	// Regional jets
	"CRJ2": 430,
	"CRJ7": 447,
	"CRJ9": 447,
	"E145": 440,
	"E170": 447,
	"E190": 447,

	// Narrow bodies
	"A319": 450,
	"A320": 450,
	"A321": 450,
	"A20N": 450,
	"A21N": 450,
	"B737": 455,
	"B738": 460,
	"B739": 460,
	"B38M": 460,

	// Wide bodies
	"A332": 470,
	"A333": 470,
	"A359": 488,
	"A35K": 488,
	"A388": 490,
	"B744": 495,
	"B748": 495,
	"B763": 470,
	"B772": 490,
	"B77W": 490,
	"B787": 488,
	"B788": 488,
	"B789": 488,

	// Freighters
	"B74F": 495,
	"B77F": 490,
	"MD11": 470,
	"A306": 450,
}

// Table resolves aircraft type codes to cruise speeds. Overrides loaded
// from a file shadow the builtin entries and can be swapped at runtime.
type Table struct {
	mu        sync.RWMutex
	overrides map[string]float64
}

func NewTable() *Table {
	return &Table{}
}

// SetOverrides atomically replaces the override set.
func (t *Table) SetOverrides(overrides map[string]float64) {
	normalized := make(map[string]float64, len(overrides))
	for code, kt := range overrides {
		if kt > 0 {
			normalized[strings.ToUpper(code)] = kt
		}
	}

	t.mu.Lock()
	t.overrides = normalized
	t.mu.Unlock()
}

// CruiseSpeedKt resolves a type code to knots. Resolution order: exact
// code, 4-character prefix, 3-character prefix, category, default.
func (t *Table) CruiseSpeedKt(typeCode string, category Category) float64 {
	code := strings.ToUpper(strings.TrimSpace(typeCode))

	t.mu.RLock()
	overrides := t.overrides
	t.mu.RUnlock()

	for _, candidate := range prefixCandidates(code) {
		if kt, ok := overrides[candidate]; ok {
			return kt
		}
		if kt, ok := builtinSpeeds[candidate]; ok {
			return kt
		}
	}

	if kt, ok := categorySpeeds[category]; ok {
		return kt
	}
	return DefaultCruiseSpeedKt
}

func prefixCandidates(code string) []string {
	candidates := []string{code}
	if len(code) > 4 {
		candidates = append(candidates, code[:4])
	}
	if len(code) > 3 {
		candidates = append(candidates, code[:3])
	}
	return candidates
}

// Deadline padding in minutes: fixed taxi/climb/descent allowance plus
// a schedule buffer.
const (
	taxiClimbDescentMin = 20.0
	bufferMin           = 15.0
)

// DeadlineMinutes computes the contract deadline for a leg of the given
// great-circle distance at the given cruise speed. A non-positive
// speed falls back to the default so a deadline is always finite.
func DeadlineMinutes(distanceNM, cruiseSpeedKt float64) float64 {
	if cruiseSpeedKt <= 0 {
		cruiseSpeedKt = DefaultCruiseSpeedKt
	}
	return distanceNM/cruiseSpeedKt*60 + taxiClimbDescentMin + bufferMin
}

const earthRadiusNM = 3440.065

// DistanceNM returns the great-circle distance between two coordinates
// in nautical miles. Non-finite input is rejected rather than poisoning
// downstream deadline math.
func DistanceNM(lat1, lon1, lat2, lon2 float64) (float64, error) {
	for _, v := range []float64{lat1, lon1, lat2, lon2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("coordinate %v is not finite", v)
		}
	}

	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusNM * c, nil
}
