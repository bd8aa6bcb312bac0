package load

import (
	"math"

	"bessquote/pkg/core/answers"
	"bessquote/pkg/core/reference"
)

// genericWattsPerSqFt is the all-in commercial power density used to derive a
// topology baseline from floor area alone.
const genericWattsPerSqFt = 8.0

var genericEquipment = map[string]float64{
	"hvac":          40,
	"refrigeration": 30,
	"machinery":     60,
	"compressors":   35,
	"kitchen":       20,
	"it_equipment":  25,
	"ev_charging":   50,
	"lighting":      15,
}

// genericMedians cover the universal questionnaire fields every template
// carries: facility size, operating hours, optional metered peak, grid
// connection quality, and grid capacity where the connection is limited.
var genericMedians = map[string]any{
	"facilitySize":          10000.0,
	"operatingHours":        12.0,
	"gridConnection":        "reliable",
	"simultaneousEquipment": "most",
	"eventsPerDay":          60.0,
	"minutesPerEvent":       10.0,
	"rateStructure":         "flat",
}

const genericBaseLoadFraction = 0.20

// GenericCalculator is the fallback for industries without a dedicated
// calculator. It derives the baseline from floor area and honors a metered
// peak from the utility bill when the buyer supplies one.
type GenericCalculator struct {
	tables *reference.Tables
}

func (c *GenericCalculator) Industry() reference.Industry { return reference.IndustryGeneric }

// Medians exposes the defaulting table for resolver construction.
func (c *GenericCalculator) Medians() map[string]any { return genericMedians }

func (c *GenericCalculator) Reconstruct(r *answers.Resolver) LoadEstimate {
	var warnings []string

	sizeKnown := r.Known("facilitySize")
	sqft := r.Number("facilitySize")
	baseline := sqft * genericWattsPerSqFt / 1000 // kW

	equipKW, equipCount := equipmentSum(r.Set("equipment"), genericEquipment)

	nameplate := math.Max(baseline, equipKW)

	peak := nameplate * concurrencyFactor(r.Enum("simultaneousEquipment", "all", "most", "half", "few"))

	// Area already scales the baseline; no separate unit-count multiplier.

	// A metered peak from the utility bill overrides the reconstruction
	// entirely. 0 means "derive it for me".
	peakMeasured := false
	if measured, ok := r.NumberIfKnown("peakLoad"); ok && measured > 0 {
		peak = measured
		peakMeasured = true
	}

	// Grid connection quality: a limited connection with a stated capacity
	// acts as the service ceiling; unreliable or islanded sites need backup
	// generation alongside storage.
	grid := r.Enum("gridConnection", "reliable", "unreliable", "limited", "off_grid", "microgrid")
	needsBackup := grid == "unreliable" || grid == "off_grid"
	if needsBackup {
		warnings = append(warnings, "grid connection is "+grid+": pair the battery with backup generation")
	}

	var ceiling float64
	if grid == "limited" {
		if gridCap, ok := r.NumberIfKnown("gridCapacity"); ok && gridCap > 0 {
			ceiling = gridCap
		}
	}
	peak, utilization, limitHit, warn := applyServiceClamp(peak, ceiling)
	if warn != "" {
		warnings = append(warnings, warn)
	}

	duty := dutyCycle(r.Number("eventsPerDay"), r.Number("minutesPerEvent"), r.Number("operatingHours"))
	dailyEnergy := peak * duty * 24

	_, spendKnown := r.NumberIfKnown("monthlySpend")
	score, label := scoreConfidence(confidenceInput{
		ServiceKnown:      grid == "limited" && ceiling > 0,
		SpendKnown:        spendKnown,
		EquipmentItems:    equipCount,
		RateKnown:         r.Known("rateStructure"),
		FacilityDefaulted: !sizeKnown && !peakMeasured,
		PeakMeasured:      peakMeasured,
	})

	return LoadEstimate{
		PeakDemandKW:        peak,
		BaseLoadKW:          peak * genericBaseLoadFraction,
		DailyEnergyKWh:      dailyEnergy,
		DutyCycle:           duty,
		Confidence:          score,
		ConfidenceLabel:     label,
		UncertaintyCount:    r.Uncertainty(),
		ServiceLimitReached: limitHit,
		ServiceUtilization:  utilization,
		NeedsBackupGen:      needsBackup,
		Warnings:            warnings,
	}
}
