package load

import (
	"math"

	"bessquote/pkg/core/answers"
	"bessquote/pkg/core/reference"
)

// carWashBaselines maps a wash format to the peak kW of a single bay/tunnel
// of that format, including its share of common equipment.
var carWashBaselines = map[string]float64{
	"self_serve":       45,
	"in_bay_automatic": 75,
	"tunnel":           250,
	"full_service":     300,
}

// carWashEquipment is the per-category kW rating table.
var carWashEquipment = map[string]float64{
	"high_pressure_pumps": 20,
	"conveyor_motor":      40,
	"blowers_dryers":      60,
	"water_heating":       25,
	"vacuum_stations":     12,
	"reclaim_system":      10,
	"ro_system":           6,
	"hvac":                15,
	"lighting":            8,
	"pos":                 2,
}

// carWashMedians are the documented defaults substituted for missing or
// "not sure" answers.
var carWashMedians = map[string]any{
	"washType":          "in_bay_automatic",
	"bayCount":          2.0,
	"simultaneousBays":  "most",
	"electricalService": "400A",
	"carsPerDay":        80.0,
	"minutesPerWash":    8.0,
	"operatingHours":    14.0,
	"rateStructure":     "flat",
}

// baseLoadFraction of peak that runs continuously (lighting, controls,
// reclaim circulation) while the facility is open.
const carWashBaseLoadFraction = 0.12

// CarWashCalculator reconstructs load for car-wash facilities.
type CarWashCalculator struct {
	tables *reference.Tables
}

func (c *CarWashCalculator) Industry() reference.Industry { return reference.IndustryCarWash }

// Medians exposes the defaulting table for resolver construction.
func (c *CarWashCalculator) Medians() map[string]any { return carWashMedians }

func (c *CarWashCalculator) Reconstruct(r *answers.Resolver) LoadEstimate {
	var warnings []string

	// 1. Topology baseline: one unit of the selected wash format.
	washTypeKnown := r.Known("washType")
	washType := r.Enum("washType", "self_serve", "in_bay_automatic", "tunnel", "full_service")
	baseline := carWashBaselines[washType]

	// 2. Equipment inventory.
	equipKW, equipCount := equipmentSum(r.Set("equipment"), carWashEquipment)

	// 3. Nameplate peak guards against sparse equipment answers.
	nameplate := math.Max(baseline, equipKW)

	// 4. Concurrency.
	peak := nameplate * concurrencyFactor(r.Enum("simultaneousBays", "all", "most", "half", "few"))

	// 5. Scale for bay count. Tunnels are single-line facilities; the bay
	// count scales the discrete-bay formats only.
	bays := r.Number("bayCount")
	if washType == "self_serve" || washType == "in_bay_automatic" {
		peak *= scaleMultiplier(bays)
	}

	// 6. Service-capacity clamp.
	serviceKnown := r.Known("electricalService")
	service := r.Enum("electricalService", "100A", "200A", "400A", "600A", "800A", "1200A", "2000A")
	ceiling := serviceCeilingKW(serviceAmps(service))
	peak, utilization, limited, warn := applyServiceClamp(peak, ceiling)
	if warn != "" {
		warnings = append(warnings, warn)
	}

	// 7. Duty cycle and daily energy.
	duty := dutyCycle(r.Number("carsPerDay"), r.Number("minutesPerWash"), r.Number("operatingHours"))
	dailyEnergy := peak * duty * 24

	// 8. Confidence.
	_, spendKnown := r.NumberIfKnown("monthlySpend")
	score, label := scoreConfidence(confidenceInput{
		ServiceKnown:      serviceKnown,
		SpendKnown:        spendKnown,
		EquipmentItems:    equipCount,
		RateKnown:         r.Known("rateStructure"),
		FacilityDefaulted: !washTypeKnown,
	})

	return LoadEstimate{
		PeakDemandKW:        peak,
		BaseLoadKW:          peak * carWashBaseLoadFraction,
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
