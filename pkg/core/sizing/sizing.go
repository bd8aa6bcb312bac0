// Package sizing derives a battery system specification (power, energy,
// duration, chemistry) from a reconstructed load estimate and the buyer's
// stated goals.
package sizing

import (
	"fmt"
	"math"

	"bessquote/pkg/core/load"
	"bessquote/pkg/core/reference"
)

// Goal is a buyer-selected objective that raises sizing floors.
type Goal string

const (
	GoalBackupPower      Goal = "backup_power"
	GoalPeakShaving      Goal = "peak_shaving"
	GoalGridIndependence Goal = "grid_independence"
)

// BessSpec is the sized system. EnergyKWh equals PowerKW x DurationHours
// within rounding tolerance; DurationHours is recomputed from the rounded
// figures so the reported duration matches the hardware, not the nominal ask.
type BessSpec struct {
	PowerKW       float64             `json:"power_kw"`
	EnergyKWh     float64             `json:"energy_kwh"`
	DurationHours float64             `json:"duration_hours"`
	Chemistry     reference.Chemistry `json:"chemistry"`
	Efficiency    float64             `json:"efficiency"`
	WarrantyYears int                 `json:"warranty_years"`
}

// Size derives the system spec. Goal floors combine via max and never lower a
// value the industry default already sets higher; precedence of application is
// fixed (backup power, grid independence, peak shaving) though max-combination
// makes the result order-independent.
func Size(t *reference.Tables, est load.LoadEstimate, industry reference.Industry, goals []Goal) BessSpec {
	profile := t.ProfileFor(industry)
	duration := profile.DurationHours
	fraction := profile.CriticalLoadFraction

	has := func(g Goal) bool {
		for _, goal := range goals {
			if goal == g {
				return true
			}
		}
		return false
	}
	if has(GoalBackupPower) {
		duration = math.Max(duration, 4)
		fraction = math.Max(fraction, 0.70)
	}
	if has(GoalGridIndependence) {
		duration = math.Max(duration, 6)
		fraction = math.Max(fraction, 0.80)
	}
	if has(GoalPeakShaving) {
		fraction = math.Max(fraction, 0.50)
	}

	b := t.Bounds
	powerKW := roundTo(est.PeakDemandKW*fraction, b.PowerRoundingKW)
	powerKW = clamp(powerKW, b.MinPowerKW, b.MaxPowerKW)

	energyKWh := roundTo(powerKW*duration, b.EnergyRoundingKWh)
	if energyKWh < b.EnergyRoundingKWh {
		energyKWh = b.EnergyRoundingKWh
	}

	chemistry := profile.Chemistry

	return BessSpec{
		PowerKW:       powerKW,
		EnergyKWh:     energyKWh,
		DurationHours: energyKWh / powerKW,
		Chemistry:     chemistry,
		Efficiency:    t.Efficiency(chemistry),
		WarrantyYears: t.WarrantyYears[chemistry],
	}
}

// =============================================================================
// ADVISORY VALIDATION
// =============================================================================

// IssueSeverity distinguishes hard bounds violations from advisories.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue is one validation finding. The validation pass never blocks sizing;
// callers decide what to do with errors.
type Issue struct {
	Severity IssueSeverity `json:"severity"`
	Field    string        `json:"field"`
	Message  string        `json:"message"`
}

// Validate checks a spec against the documented bounds: power or duration
// outside bounds are errors, sub-floor efficiency or atypically long duration
// are warnings.
func Validate(t *reference.Tables, spec BessSpec) []Issue {
	b := t.Bounds
	var issues []Issue

	if spec.PowerKW < b.MinPowerKW || spec.PowerKW > b.MaxPowerKW {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Field:    "power_kw",
			Message:  fmt.Sprintf("power %.0f kW outside supported range [%.0f, %.0f]", spec.PowerKW, b.MinPowerKW, b.MaxPowerKW),
		})
	}
	if spec.DurationHours < b.MinDurationHours || spec.DurationHours > b.MaxDurationHours {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Field:    "duration_hours",
			Message:  fmt.Sprintf("duration %.1f h outside supported range [%.1f, %.1f]", spec.DurationHours, b.MinDurationHours, b.MaxDurationHours),
		})
	} else if spec.DurationHours > b.TypicalDurationH {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Field:    "duration_hours",
			Message:  fmt.Sprintf("duration %.1f h exceeds the typical %.0f h ceiling for this class of system", spec.DurationHours, b.TypicalDurationH),
		})
	}
	if spec.Efficiency < b.EfficiencyFloor {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Field:    "efficiency",
			Message:  fmt.Sprintf("round-trip efficiency %.2f below the %.2f floor typical for commercial projects", spec.Efficiency, b.EfficiencyFloor),
		})
	}
	return issues
}

func roundTo(v, unit float64) float64 {
	if unit <= 0 {
		return v
	}
	return math.Round(v/unit) * unit
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
