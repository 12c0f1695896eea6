package engine

import (
	"math"

	"github.com/skyward-io/skyward/internal/core/model"
)

// Coarse landing thresholds (touchdown g-force and vertical speed).
const (
	softLandingMaxG  = 1.4
	softLandingMinVS = -200.0
	mediumLandingMaxG = 1.8
)

// Coarse landing penalties.
const (
	mediumLandingScorePenalty = 5
	hardLandingScorePenalty   = 15
	hardLandingMaintenance    = 5000.0
)

// ClassifyLanding buckets a touchdown into the coarse grade feeding the
// always-on penalty table. vs is in ft/min and typically negative on
// descent.
func ClassifyLanding(g, vs float64) model.LandingGrade {
	switch {
	case g < softLandingMaxG && vs > softLandingMinVS:
		return model.LandingSoft
	case g < mediumLandingMaxG:
		return model.LandingMedium
	default:
		return model.LandingHard
	}
}

func applyLandingPenalty(sess *model.FlightSession, grade model.LandingGrade) {
	switch grade {
	case model.LandingMedium:
		sess.FlightScore = clampScore(sess.FlightScore - mediumLandingScorePenalty)
	case model.LandingHard:
		sess.FlightScore = clampScore(sess.FlightScore - hardLandingScorePenalty)
		sess.MaintenanceCost += hardLandingMaintenance
	}
}

// ClassifyTouchdown buckets a touchdown into the fine grade feeding
// settlement's financial adjustment. It looks at g-force alone and is
// deliberately finer than ClassifyLanding; both classifications coexist.
func ClassifyTouchdown(g float64) model.TouchdownGrade {
	switch {
	case g < 0.5:
		return model.TouchdownButter
	case g < 1.0:
		return model.TouchdownSoft
	case g < 1.6:
		return model.TouchdownAcceptable
	case g < 2.0:
		return model.TouchdownHard
	default:
		return model.TouchdownVeryHard
	}
}

// TouchdownScoreDelta is the fine-grade score delta recorded on the
// settlement result. It never mutates the session's clamped 0-100
// flight score.
func TouchdownScoreDelta(grade model.TouchdownGrade) int {
	switch grade {
	case model.TouchdownButter:
		return 40
	case model.TouchdownSoft:
		return 20
	case model.TouchdownAcceptable:
		return 5
	case model.TouchdownHard:
		return -30
	case model.TouchdownVeryHard:
		return -50
	default:
		return 0
	}
}

// RevenueMultiplier is the fine-grade bonus/malus factor applied to a
// contract's base payout at settlement.
func RevenueMultiplier(grade model.TouchdownGrade) float64 {
	switch grade {
	case model.TouchdownButter:
		return 4
	case model.TouchdownSoft:
		return 2
	case model.TouchdownAcceptable:
		return 0
	case model.TouchdownHard:
		return -0.25
	case model.TouchdownVeryHard:
		return -0.5
	default:
		return 0
	}
}

// ReputationFor maps the final flight score to its display grade.
func ReputationFor(score int) model.ReputationLabel {
	switch {
	case score >= 95:
		return model.ReputationExcellent
	case score >= 85:
		return model.ReputationVeryGood
	case score >= 70:
		return model.ReputationAcceptable
	case score >= 50:
		return model.ReputationPoor
	default:
		return model.ReputationUnsafe
	}
}

// Stars rescales a 0-100 facet score to a 1-5 rating:
// stars = 1 + round(4 * score / 100). Monotonic and deterministic.
func Stars(score int) int {
	return 1 + int(math.Round(4*float64(clampScore(score))/100))
}

// StarRatings derives the per-leg ratings from the session's final
// state. Each facet starts from a synthetic 100 and subtracts only the
// penalties attributable to it; overall uses the real final score.
func StarRatings(sess *model.FlightSession) model.StarRatings {
	takeoff := 100
	if sess.Events.Tailstrike {
		takeoff -= eventPenalties[model.EventTailstrike].score
	}

	flight := 100
	for _, ev := range []model.FlightEventType{
		model.EventStall,
		model.EventOverstress,
		model.EventFlapsOverspeed,
		model.EventFuelEmergency,
		model.EventCrash,
	} {
		if hasEvent(&sess.Events, ev) {
			flight -= eventPenalties[ev].score
		}
	}

	landing := 100
	switch sess.LandingGrade {
	case model.LandingMedium:
		landing -= mediumLandingScorePenalty
	case model.LandingHard:
		landing -= hardLandingScorePenalty
	}
	if sess.Events.GearUpLanding {
		landing -= eventPenalties[model.EventGearUpLanding].score
	}

	return model.StarRatings{
		Takeoff: Stars(takeoff),
		Flight:  Stars(flight),
		Landing: Stars(landing),
		Overall: Stars(sess.FlightScore),
	}
}

func hasEvent(f *model.EventFlags, ev model.FlightEventType) bool {
	switch ev {
	case model.EventTailstrike:
		return f.Tailstrike
	case model.EventStall:
		return f.Stall
	case model.EventOverstress:
		return f.Overstress
	case model.EventFlapsOverspeed:
		return f.FlapsOverspeed
	case model.EventFuelEmergency:
		return f.FuelEmergency
	case model.EventGearUpLanding:
		return f.GearUpLanding
	case model.EventCrash:
		return f.Crash
	}
	return false
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
