package load

import (
	"math"

	"bessquote/pkg/core/answers"
	"bessquote/pkg/core/reference"
)

// officeBaselines map a building class to the peak kW of a single floor of
// roughly 50k sq ft at typical office power density.
var officeBaselines = map[string]float64{
	"small_office": 90,
	"mid_rise":     240,
	"high_rise":    600,
	"campus":       900,
}

var officeEquipment = map[string]float64{
	"hvac_central":     80,
	"hvac_rooftop":     40,
	"server_room":      50,
	"elevators":        30,
	"lighting":         25,
	"office_equipment": 20,
	"kitchen":          15,
	"ev_charging":      50,
}

var officeMedians = map[string]any{
	"buildingClass":       "mid_rise",
	"floors":              4.0,
	"simultaneousSystems": "most",
	"electricalService":   "800A",
	"hvacCyclesPerDay":    20.0,
	"minutesPerCycle":     25.0,
	"occupancyHours":      10.0,
	"rateStructure":       "tou",
}

// Offices carry a large always-on share (ventilation, servers, emergency
// lighting) relative to their peak.
const officeBaseLoadFraction = 0.35

// OfficeCalculator reconstructs load for commercial office buildings.
type OfficeCalculator struct {
	tables *reference.Tables
}

func (c *OfficeCalculator) Industry() reference.Industry { return reference.IndustryOffice }

// Medians exposes the defaulting table for resolver construction.
func (c *OfficeCalculator) Medians() map[string]any { return officeMedians }

func (c *OfficeCalculator) Reconstruct(r *answers.Resolver) LoadEstimate {
	var warnings []string

	classKnown := r.Known("buildingClass")
	class := r.Enum("buildingClass", "small_office", "mid_rise", "high_rise", "campus")
	baseline := officeBaselines[class]

	equipKW, equipCount := equipmentSum(r.Set("equipment"), officeEquipment)

	nameplate := math.Max(baseline, equipKW)

	peak := nameplate * concurrencyFactor(r.Enum("simultaneousSystems", "all", "most", "half", "few"))

	// Floor count scales the single-floor baseline classes; campus figures
	// already describe the whole site.
	if class != "campus" {
		peak *= scaleMultiplier(r.Number("floors"))
	}

	serviceKnown := r.Known("electricalService")
	service := r.Enum("electricalService", "200A", "400A", "600A", "800A", "1200A", "2000A", "3000A")
	ceiling := serviceCeilingKW(serviceAmps(service))
	peak, utilization, limited, warn := applyServiceClamp(peak, ceiling)
	if warn != "" {
		warnings = append(warnings, warn)
	}

	// HVAC cycling drives the duty profile; occupancy hours bound it.
	duty := dutyCycle(r.Number("hvacCyclesPerDay"), r.Number("minutesPerCycle"), r.Number("occupancyHours"))
	dailyEnergy := peak * duty * 24

	_, spendKnown := r.NumberIfKnown("monthlySpend")
	score, label := scoreConfidence(confidenceInput{
		ServiceKnown:      serviceKnown,
		SpendKnown:        spendKnown,
		EquipmentItems:    equipCount,
		RateKnown:         r.Known("rateStructure"),
		FacilityDefaulted: !classKnown,
	})

	return LoadEstimate{
		PeakDemandKW:        peak,
		BaseLoadKW:          peak * officeBaseLoadFraction,
		DailyEnergyKWh:      dailyEnergy,
		DutyCycle:           duty,
		Confidence:          score,
		ConfidenceLabel:     label,
		UncertaintyCount:    r.Uncertainty(),
		ServiceLimitReached: limited,
		ServiceUtilization:  utilization,
		Warnings:            warnings,
	}
}
