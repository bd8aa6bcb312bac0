// Package load reconstructs a facility's electrical load profile from
// questionnaire answers. One calculator per supported industry, all sharing
// the same bottom-up shape: topology baseline, equipment summation, nameplate
// peak, concurrency factor, scale multiplier, service-capacity clamp, duty
// cycle, confidence scoring.
package load

import (
	"fmt"
	"math"

	"bessquote/pkg/core/answers"
	"bessquote/pkg/core/reference"
)

// ConfidenceLabel classifies how trustworthy a reconstruction is.
type ConfidenceLabel string

const (
	ConfidenceEstimate ConfidenceLabel = "estimate"
	ConfidenceVerified ConfidenceLabel = "verified"
)

// LoadEstimate is the immutable output of a reconstruction. Downstream stages
// read it; nothing mutates it after creation.
type LoadEstimate struct {
	PeakDemandKW        float64         `json:"peak_demand_kw"`
	BaseLoadKW          float64         `json:"base_load_kw"`
	DailyEnergyKWh      float64         `json:"daily_energy_kwh"`
	DutyCycle           float64         `json:"duty_cycle"`
	Confidence          float64         `json:"confidence"`
	ConfidenceLabel     ConfidenceLabel `json:"confidence_label"`
	UncertaintyCount    int             `json:"uncertainty_count"`
	ServiceLimitReached bool            `json:"service_limit_reached"`
	ServiceUtilization  float64         `json:"service_utilization"`
	NeedsBackupGen      bool            `json:"needs_backup_gen"`
	Warnings            []string        `json:"warnings,omitempty"`
}

// Calculator reconstructs a load estimate for one industry.
type Calculator interface {
	Industry() reference.Industry
	// Medians returns the documented per-question defaults used to build the
	// answer resolver.
	Medians() map[string]any
	Reconstruct(r *answers.Resolver) LoadEstimate
}

// ForIndustry selects the calculator for an industry. Unsupported industries
// get the generic commercial calculator, mirroring the reference-table
// fallback, so a quote is always producible.
func ForIndustry(tables *reference.Tables, industry reference.Industry) Calculator {
	switch industry {
	case reference.IndustryCarWash:
		return &CarWashCalculator{tables: tables}
	case reference.IndustryOffice:
		return &OfficeCalculator{tables: tables}
	default:
		return &GenericCalculator{tables: tables}
	}
}

// =============================================================================
// SHARED STAGES
// =============================================================================

// concurrencyFactor maps the "how many systems run at once" answer to a
// multiplier on nameplate peak.
func concurrencyFactor(answer string) float64 {
	switch answer {
	case "all":
		return 1.00
	case "most":
		return 0.80
	case "half":
		return 0.55
	case "few":
		return 0.35
	default:
		return 0.80
	}
}

// scaleMultiplier converts a unit count (bays, floors) into an effective
// multiplier. Shared infrastructure means 2-3 units draw less than 2-3x one
// unit; beyond five the increment settles at half a unit each.
func scaleMultiplier(units float64) float64 {
	steps := []float64{1.00, 1.75, 2.45, 3.05, 3.60}
	n := int(math.Round(units))
	if n < 1 {
		n = 1
	}
	if n <= len(steps) {
		return steps[n-1]
	}
	return steps[len(steps)-1] + 0.5*float64(n-len(steps))
}

// serviceCeilingKW converts an electrical-service ampacity to a kW ceiling,
// assuming 480V three-phase at 0.8 power factor.
func serviceCeilingKW(amps float64) float64 {
	return amps * 480 * math.Sqrt(3) * 0.8 / 1000
}

// serviceAmps parses the service-size answer ("200A", "400A", ...).
func serviceAmps(answer string) float64 {
	var amps float64
	if _, err := fmt.Sscanf(answer, "%fA", &amps); err != nil {
		return 0
	}
	return amps
}

// applyServiceClamp clamps peak to 95% of the service ceiling. The clamp is
// terminal: it replaces the computed peak rather than annotating it. Returns
// the (possibly clamped) peak, utilization against the ceiling, whether the
// limit was hit, and a warning when it was.
func applyServiceClamp(peakKW, ceilingKW float64) (float64, float64, bool, string) {
	if ceilingKW <= 0 {
		return peakKW, 0, false, ""
	}
	limit := 0.95 * ceilingKW
	if peakKW > limit {
		warn := fmt.Sprintf("computed peak %.0f kW exceeds electrical service capacity %.0f kW; clamped to %.0f kW; a service upgrade may be required", peakKW, ceilingKW, limit)
		return limit, limit / ceilingKW, true, warn
	}
	return peakKW, peakKW / ceilingKW, false, ""
}

// dutyCycle derives the fraction of operating time the facility runs at peak:
// (events/day x minutes/event) / (operating minutes/day), clamped to [0.05, 1].
func dutyCycle(eventsPerDay, minutesPerEvent, operatingHours float64) float64 {
	if operatingHours <= 0 {
		operatingHours = 12
	}
	d := (eventsPerDay * minutesPerEvent) / (operatingHours * 60)
	if d < 0.05 {
		d = 0.05
	}
	if d > 1 {
		d = 1
	}
	return d
}

// confidenceInput collects the signals the shared confidence scorer weighs.
type confidenceInput struct {
	ServiceKnown      bool
	SpendKnown        bool
	EquipmentItems    int
	RateKnown         bool
	FacilityDefaulted bool
	PeakMeasured      bool // caller supplied an actual peak from a bill
}

// scoreConfidence starts at 0.70 and adjusts by fixed increments per signal.
func scoreConfidence(in confidenceInput) (float64, ConfidenceLabel) {
	score := 0.70
	if in.ServiceKnown {
		score += 0.05
	}
	if in.SpendKnown {
		score += 0.05
	}
	if in.EquipmentItems >= 4 {
		score += 0.05
	}
	if in.RateKnown {
		score += 0.05
	}
	if in.FacilityDefaulted {
		score -= 0.10
	}
	if in.PeakMeasured {
		score += 0.15
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	label := ConfidenceEstimate
	if score >= 0.85 {
		label = ConfidenceVerified
	}
	return score, label
}

// equipmentSum totals the kW ratings for the selected equipment categories.
// Unknown categories are skipped silently; the wizard's option list and this
// table are maintained together.
func equipmentSum(selected []string, ratings map[string]float64) (float64, int) {
	var sum float64
	count := 0
	for _, item := range selected {
		if kw, ok := ratings[item]; ok {
			sum += kw
			count++
		}
	}
	return sum, count
}
