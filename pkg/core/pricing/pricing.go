// Package pricing turns a sized battery system into an itemized equipment and
// installation cost breakdown using tiered unit prices, chemistry and
// duration multipliers, regional installation factors, and percent overheads.
package pricing

import (
	"bessquote/pkg/core/reference"
	"bessquote/pkg/core/sizing"
)

// transformerKVAFactor oversizes the transformer relative to the PCS rating
// to cover inrush and power factor.
const transformerKVAFactor = 1.1

// Extras are optional additions priced alongside the battery system.
type Extras struct {
	SolarKW     float64 `json:"solar_kw"`
	GeneratorKW float64 `json:"generator_kw"`
}

// CostBreakdown is the full itemized result. Multiplier order is fixed:
// chemistry and duration multipliers apply to the battery line only; BOS
// percent applies to the equipment subtotal; EMS is fixed-plus-per-kW;
// installation and EPC carry the regional multiplier; logistics, duty, and
// contingency are flat percentages of total equipment cost.
type CostBreakdown struct {
	BatteryCost     float64 `json:"battery_cost"`
	PCSCost         float64 `json:"pcs_cost"`
	TransformerCost float64 `json:"transformer_cost"`
	SwitchgearCost  float64 `json:"switchgear_cost"`
	SolarCost       float64 `json:"solar_cost"`
	GeneratorCost   float64 `json:"generator_cost"`

	EquipmentSubtotal  float64 `json:"equipment_subtotal"`
	BOSCost            float64 `json:"bos_cost"`
	EMSCost            float64 `json:"ems_cost"`
	TotalEquipmentCost float64 `json:"total_equipment_cost"`

	InstallationCost float64 `json:"installation_cost"`
	EPCCost          float64 `json:"epc_cost"`
	LogisticsCost    float64 `json:"logistics_cost"`
	DutyCost         float64 `json:"duty_cost"`
	ContingencyCost  float64 `json:"contingency_cost"`

	TotalInstalledCost float64 `json:"total_installed_cost"`
	PricingTier        reference.PricingTier `json:"pricing_tier"`
	RegionalMultiplier float64               `json:"regional_multiplier"`
}

// Price computes the breakdown for a spec, optional extras, and a region
// (two-letter state code). Unknown regions and chemistries fall back to a
// 1.0 multiplier rather than erroring.
func Price(t *reference.Tables, spec sizing.BessSpec, extras Extras, region string) CostBreakdown {
	tier := reference.TierFor(spec.PowerKW)
	unit := t.UnitCosts[tier]

	battery := spec.EnergyKWh * unit.BatteryPerKWh *
		t.ChemistryMult(spec.Chemistry) *
		t.DurationDiscount(spec.DurationHours)
	pcs := spec.PowerKW * unit.PCSPerKW
	transformer := spec.PowerKW * transformerKVAFactor * unit.TransformerPerKVA
	switchgear := spec.PowerKW * unit.SwitchgearPerKW
	solar := extras.SolarKW * t.SolarCostPerKW
	generator := extras.GeneratorKW * t.GeneratorCostPerKW

	subtotal := battery + pcs + transformer + switchgear + solar + generator
	bos := subtotal * t.BOSPercent[tier]
	ems := t.EMSBaseCost + t.EMSPerKW*spec.PowerKW
	totalEquipment := subtotal + bos + ems

	regional := t.RegionOrDefault(region).InstallMultiplier
	installation := totalEquipment * t.InstallPercent * regional
	epc := totalEquipment * t.EPCPercent * regional
	logistics := totalEquipment * t.LogisticsPercent
	duty := totalEquipment * t.DutyPercent
	// Contingency is computed on equipment cost only, never regionalized.
	contingency := totalEquipment * t.ContingencyPercent

	return CostBreakdown{
		BatteryCost:        battery,
		PCSCost:            pcs,
		TransformerCost:    transformer,
		SwitchgearCost:     switchgear,
		SolarCost:          solar,
		GeneratorCost:      generator,
		EquipmentSubtotal:  subtotal,
		BOSCost:            bos,
		EMSCost:            ems,
		TotalEquipmentCost: totalEquipment,
		InstallationCost:   installation,
		EPCCost:            epc,
		LogisticsCost:      logistics,
		DutyCost:           duty,
		ContingencyCost:    contingency,
		TotalInstalledCost: totalEquipment + installation + epc + logistics + duty + contingency,
		PricingTier:        tier,
		RegionalMultiplier: regional,
	}
}
