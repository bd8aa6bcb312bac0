// Package reference holds the static lookup tables the quote engine reads:
// equipment unit costs, industry load baselines and sizing defaults, regional
// utility rates, emissions factors, tax-credit rules, and source citations.
// A Tables value is an immutable snapshot built once at process start and
// passed into every calculation, so concurrent quotes need no coordination.
package reference

// =============================================================================
// INDUSTRIES & CHEMISTRIES
// =============================================================================

// Industry is the closed set of supported facility types. Unknown values fall
// back to IndustryGeneric rather than erroring.
type Industry string

const (
	IndustryCarWash Industry = "car_wash"
	IndustryOffice  Industry = "office"
	IndustryGeneric Industry = "generic_commercial"
)

// Chemistry identifies a battery cell chemistry.
type Chemistry string

const (
	ChemLFP    Chemistry = "LFP"
	ChemNMC    Chemistry = "NMC"
	ChemNCA    Chemistry = "NCA"
	ChemFlow   Chemistry = "Flow-Vanadium"
	ChemSodium Chemistry = "Sodium-Ion"
)

// PricingTier buckets a system by power rating for unit-price lookup.
type PricingTier string

const (
	TierResidential PricingTier = "residential"
	TierCommercial  PricingTier = "commercial"
	TierUtility     PricingTier = "utility"
)

// =============================================================================
// TABLE STRUCTURES
// =============================================================================

// UnitCosts are tier-indexed equipment unit prices.
type UnitCosts struct {
	BatteryPerKWh     float64 `json:"battery_per_kwh"`
	PCSPerKW          float64 `json:"pcs_per_kw"`
	TransformerPerKVA float64 `json:"transformer_per_kva"`
	SwitchgearPerKW   float64 `json:"switchgear_per_kw"`
}

// RegionalData carries per-state rate, installation, and emissions figures.
type RegionalData struct {
	InstallMultiplier float64 `json:"install_multiplier"`
	PeakRatePerKWh    float64 `json:"peak_rate_per_kwh"`
	OffPeakRatePerKWh float64 `json:"off_peak_rate_per_kwh"`
	DemandChargePerKW float64 `json:"demand_charge_per_kw"` // $/kW-month
	SolarIrradiance   float64 `json:"solar_irradiance"`     // kWh/m2/day
	EmissionsKgPerKWh float64 `json:"emissions_kg_per_kwh"` // grid CO2 intensity
}

// IndustryProfile is the per-industry sizing default set.
type IndustryProfile struct {
	DurationHours        float64   `json:"duration_hours"`
	CriticalLoadFraction float64   `json:"critical_load_fraction"`
	Chemistry            Chemistry `json:"chemistry"`
	RequiresBackupGen    bool      `json:"requires_backup_gen"`
	AnnualCycles         float64   `json:"annual_cycles"` // expected full discharge cycles/year
}

// TaxCreditRules defines the federal ITC base rate and qualification adders.
type TaxCreditRules struct {
	BaseRate float64            `json:"base_rate"`
	Adders   map[string]float64 `json:"adders"`
	MaxTotal float64            `json:"max_total"`
}

// Bounds are the physically/commercially sane system limits the sizing and
// validation passes enforce.
type Bounds struct {
	MinPowerKW        float64
	MaxPowerKW        float64
	MinDurationHours  float64
	MaxDurationHours  float64
	TypicalDurationH  float64 // above this is a warning, not an error
	EfficiencyFloor   float64
	PowerRoundingKW   float64
	EnergyRoundingKWh float64
}

// DurationDiscountStep maps a minimum duration to a battery $/kWh multiplier.
// Longer duration dilutes the duration-independent power-electronics share of
// the pack price.
type DurationDiscountStep struct {
	MinHours   float64
	Multiplier float64
}

// Citation is a provenance entry attached to every quote result.
type Citation struct {
	ID           string   `json:"id"`
	Organization string   `json:"organization"`
	Year         int      `json:"year"`
	UsedFor      []string `json:"used_for"`
}

// Tables is the full reference-data snapshot.
type Tables struct {
	UnitCosts           map[PricingTier]UnitCosts
	BOSPercent          map[PricingTier]float64
	EMSBaseCost         float64
	EMSPerKW            float64
	InstallPercent      float64
	EPCPercent          float64
	LogisticsPercent    float64
	DutyPercent         float64
	ContingencyPercent  float64
	SolarCostPerKW      float64
	GeneratorCostPerKW  float64
	ChemistryMultiplier map[Chemistry]float64
	RoundTripEfficiency map[Chemistry]float64
	WarrantyYears       map[Chemistry]int
	DurationDiscounts   []DurationDiscountStep // descending MinHours, first match wins
	Regional            map[string]RegionalData
	Industry            map[Industry]IndustryProfile
	TaxCredit           TaxCreditRules
	Bounds              Bounds
	DiscountRate        float64
	Citations           []Citation
}

// =============================================================================
// DEFAULT SNAPSHOT
// =============================================================================

// Default returns the compiled-in reference snapshot.
// Cost figures track NREL's utility/commercial storage cost benchmarks; rates
// track EIA state averages.
func Default() *Tables {
	return &Tables{
		UnitCosts: map[PricingTier]UnitCosts{
			TierResidential: {BatteryPerKWh: 450, PCSPerKW: 300, TransformerPerKVA: 120, SwitchgearPerKW: 80},
			TierCommercial:  {BatteryPerKWh: 320, PCSPerKW: 220, TransformerPerKVA: 95, SwitchgearPerKW: 60},
			TierUtility:     {BatteryPerKWh: 220, PCSPerKW: 150, TransformerPerKVA: 70, SwitchgearPerKW: 40},
		},
		BOSPercent: map[PricingTier]float64{
			TierResidential: 0.18,
			TierCommercial:  0.15,
			TierUtility:     0.12,
		},
		EMSBaseCost:        15000,
		EMSPerKW:           25,
		InstallPercent:     0.10,
		EPCPercent:         0.12,
		LogisticsPercent:   0.04,
		DutyPercent:        0.03,
		ContingencyPercent: 0.05,
		SolarCostPerKW:     2800,
		GeneratorCostPerKW: 800,
		ChemistryMultiplier: map[Chemistry]float64{
			ChemLFP:    1.00,
			ChemNMC:    1.12,
			ChemNCA:    1.18,
			ChemFlow:   1.45,
			ChemSodium: 0.90,
		},
		RoundTripEfficiency: map[Chemistry]float64{
			ChemLFP:    0.92,
			ChemNMC:    0.93,
			ChemNCA:    0.93,
			ChemFlow:   0.75,
			ChemSodium: 0.88,
		},
		WarrantyYears: map[Chemistry]int{
			ChemLFP:    10,
			ChemNMC:    10,
			ChemNCA:    10,
			ChemFlow:   20,
			ChemSodium: 8,
		},
		DurationDiscounts: []DurationDiscountStep{
			{MinHours: 6, Multiplier: 0.85},
			{MinHours: 4, Multiplier: 0.90},
			{MinHours: 2, Multiplier: 0.95},
			{MinHours: 0, Multiplier: 1.00},
		},
		Regional: map[string]RegionalData{
			"CA": {InstallMultiplier: 1.25, PeakRatePerKWh: 0.38, OffPeakRatePerKWh: 0.16, DemandChargePerKW: 22, SolarIrradiance: 5.8, EmissionsKgPerKWh: 0.23},
			"NY": {InstallMultiplier: 1.20, PeakRatePerKWh: 0.24, OffPeakRatePerKWh: 0.11, DemandChargePerKW: 18, SolarIrradiance: 4.1, EmissionsKgPerKWh: 0.21},
			"TX": {InstallMultiplier: 0.95, PeakRatePerKWh: 0.15, OffPeakRatePerKWh: 0.07, DemandChargePerKW: 11, SolarIrradiance: 5.3, EmissionsKgPerKWh: 0.38},
			"FL": {InstallMultiplier: 1.00, PeakRatePerKWh: 0.14, OffPeakRatePerKWh: 0.08, DemandChargePerKW: 10, SolarIrradiance: 5.4, EmissionsKgPerKWh: 0.39},
			"MA": {InstallMultiplier: 1.18, PeakRatePerKWh: 0.28, OffPeakRatePerKWh: 0.13, DemandChargePerKW: 19, SolarIrradiance: 4.2, EmissionsKgPerKWh: 0.29},
			"IL": {InstallMultiplier: 1.05, PeakRatePerKWh: 0.16, OffPeakRatePerKWh: 0.08, DemandChargePerKW: 13, SolarIrradiance: 4.4, EmissionsKgPerKWh: 0.30},
			"AZ": {InstallMultiplier: 0.98, PeakRatePerKWh: 0.17, OffPeakRatePerKWh: 0.08, DemandChargePerKW: 14, SolarIrradiance: 6.5, EmissionsKgPerKWh: 0.35},
			"WA": {InstallMultiplier: 1.08, PeakRatePerKWh: 0.12, OffPeakRatePerKWh: 0.06, DemandChargePerKW: 9, SolarIrradiance: 3.6, EmissionsKgPerKWh: 0.09},
		},
		Industry: map[Industry]IndustryProfile{
			IndustryCarWash: {DurationHours: 2, CriticalLoadFraction: 0.60, Chemistry: ChemLFP, AnnualCycles: 350},
			IndustryOffice:  {DurationHours: 3, CriticalLoadFraction: 0.50, Chemistry: ChemLFP, AnnualCycles: 280},
			IndustryGeneric: {DurationHours: 2, CriticalLoadFraction: 0.50, Chemistry: ChemLFP, AnnualCycles: 300},
		},
		TaxCredit: TaxCreditRules{
			BaseRate: 0.30,
			Adders: map[string]float64{
				"domestic_content": 0.10,
				"energy_community": 0.10,
				"low_income":       0.10,
			},
			MaxTotal: 0.50,
		},
		Bounds: Bounds{
			MinPowerKW:        50,
			MaxPowerKW:        20000,
			MinDurationHours:  1,
			MaxDurationHours:  10,
			TypicalDurationH:  6,
			EfficiencyFloor:   0.85,
			PowerRoundingKW:   50,
			EnergyRoundingKWh: 100,
		},
		DiscountRate: 0.07,
		Citations: []Citation{
			{ID: "nrel-cost-benchmark", Organization: "NREL", Year: 2024, UsedFor: []string{"equipment_costs", "bos_percent"}},
			{ID: "eia-electric-power", Organization: "EIA", Year: 2024, UsedFor: []string{"utility_rates", "demand_charges"}},
			{ID: "irs-itc-guidance", Organization: "IRS", Year: 2023, UsedFor: []string{"tax_credit"}},
			{ID: "lbnl-storage-survey", Organization: "LBNL", Year: 2024, UsedFor: []string{"sizing_defaults", "duration_discounts"}},
			{ID: "doe-load-profiles", Organization: "DOE", Year: 2023, UsedFor: []string{"load_reconstruction", "industry_baselines"}},
			{ID: "epa-egrid", Organization: "EPA", Year: 2023, UsedFor: []string{"emissions_factors"}},
		},
	}
}

// =============================================================================
// LOOKUPS WITH DOCUMENTED FALLBACKS
// =============================================================================

// RegionOrDefault returns the regional data for a state code, or neutral
// 1.0-multiplier national-average data when the state is unknown.
func (t *Tables) RegionOrDefault(state string) RegionalData {
	if r, ok := t.Regional[state]; ok {
		return r
	}
	return RegionalData{
		InstallMultiplier: 1.00,
		PeakRatePerKWh:    0.18,
		OffPeakRatePerKWh: 0.09,
		DemandChargePerKW: 14,
		SolarIrradiance:   4.5,
		EmissionsKgPerKWh: 0.37,
	}
}

// ProfileFor returns the sizing profile for an industry, falling back to the
// generic commercial profile for industries without their own entry.
func (t *Tables) ProfileFor(industry Industry) IndustryProfile {
	if p, ok := t.Industry[industry]; ok {
		return p
	}
	return t.Industry[IndustryGeneric]
}

// ChemistryMult returns the battery price multiplier for a chemistry,
// defaulting to the LFP baseline of 1.0 for unknown keys.
func (t *Tables) ChemistryMult(c Chemistry) float64 {
	if m, ok := t.ChemistryMultiplier[c]; ok {
		return m
	}
	return 1.0
}

// Efficiency returns the round-trip efficiency for a chemistry, defaulting to
// the LFP figure for unknown keys.
func (t *Tables) Efficiency(c Chemistry) float64 {
	if e, ok := t.RoundTripEfficiency[c]; ok {
		return e
	}
	return t.RoundTripEfficiency[ChemLFP]
}

// DurationDiscount returns the battery $/kWh multiplier for a duration.
func (t *Tables) DurationDiscount(hours float64) float64 {
	for _, step := range t.DurationDiscounts {
		if hours >= step.MinHours {
			return step.Multiplier
		}
	}
	return 1.0
}

// TierFor buckets a power rating into a pricing tier.
func TierFor(powerKW float64) PricingTier {
	switch {
	case powerKW < 50:
		return TierResidential
	case powerKW < 1000:
		return TierCommercial
	default:
		return TierUtility
	}
}

// CitationsFor returns the citations whose UsedFor list intersects the given
// keys, preserving table order.
func (t *Tables) CitationsFor(keys ...string) []Citation {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	var out []Citation
	for _, c := range t.Citations {
		for _, u := range c.UsedFor {
			if want[u] {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
