// Package finance evaluates the economics of a priced battery system: annual
// savings from demand-charge reduction and energy arbitrage, simple payback,
// and discounted-cash-flow figures over the project horizon.
package finance

import (
	"math"

	"bessquote/pkg/core/pricing"
	"bessquote/pkg/core/reference"
)

// SavingsInputs are the canonical figures the savings model consumes.
type SavingsInputs struct {
	AvoidedPeakKW      float64                // demand shaved off monthly billing peaks
	DischargeKWhPerDay float64                // usable energy shifted per full cycle
	AnnualCycles       float64                // expected full cycles per year
	Efficiency         float64                // round-trip, applied to arbitrage
	Rates              reference.RegionalData // peak/off-peak rates, demand charge, emissions
}

// FinancialResult is the evaluated outcome. When annual savings are zero or
// negative the project is flagged NonViable and payback/NPV/IRR are left
// unset; callers must check the flag before displaying ratio figures.
type FinancialResult struct {
	AnnualSavingsUSD   float64  `json:"annual_savings_usd"`
	DemandSavingsUSD   float64  `json:"demand_savings_usd"`
	ArbitrageUSD       float64  `json:"arbitrage_usd"`
	NetCostUSD         float64  `json:"net_cost_usd"`
	PaybackYears       float64  `json:"payback_years"`
	NonViable          bool     `json:"non_viable"`
	NPV                *float64 `json:"npv,omitempty"`
	IRR                *float64 `json:"irr,omitempty"`
	ProjectYears       int      `json:"project_years"`
	CO2AvoidedTonsYear float64  `json:"co2_avoided_tons_year"`
}

// Evaluate computes savings and payback for a priced system. projectYears <= 0
// skips the NPV/IRR pass; the simple figures are always produced.
func Evaluate(breakdown pricing.CostBreakdown, credit pricing.TaxCreditResult, in SavingsInputs, projectYears int, discountRate float64) FinancialResult {
	demand := in.AvoidedPeakKW * in.Rates.DemandChargePerKW * 12
	rateSpread := in.Rates.PeakRatePerKWh - in.Rates.OffPeakRatePerKWh
	if rateSpread < 0 {
		rateSpread = 0
	}
	// DischargeKWhPerDay is per cycle; AnnualCycles counts the days the
	// system cycles, so annual arbitrage is per-cycle savings x cycles.
	arbitrage := in.DischargeKWhPerDay * in.Efficiency * rateSpread * in.AnnualCycles

	annual := demand + arbitrage
	netCost := breakdown.TotalInstalledCost - credit.CreditAmount
	if netCost < 0 {
		netCost = 0
	}

	result := FinancialResult{
		AnnualSavingsUSD:   annual,
		DemandSavingsUSD:   demand,
		ArbitrageUSD:       arbitrage,
		NetCostUSD:         netCost,
		ProjectYears:       projectYears,
		CO2AvoidedTonsYear: in.DischargeKWhPerDay * in.AnnualCycles * in.Rates.EmissionsKgPerKWh / 1000,
	}

	if annual <= 0 || math.IsNaN(annual) {
		result.NonViable = true
		return result
	}

	result.PaybackYears = netCost / annual

	if projectYears > 0 {
		npv := NPVConstantCashFlow(netCost, annual, projectYears, discountRate)
		result.NPV = &npv
		if irr, ok := IRRConstantCashFlow(netCost, annual, projectYears); ok {
			result.IRR = &irr
		}
	}
	return result
}

// NPVConstantCashFlow discounts a constant annual net cash flow over the
// project horizon against the upfront net cost.
func NPVConstantCashFlow(netCost, annualCashFlow float64, years int, rate float64) float64 {
	npv := -netCost
	discount := 1.0
	for y := 0; y < years; y++ {
		discount /= 1 + rate
		npv += annualCashFlow * discount
	}
	return npv
}

// IRRConstantCashFlow returns the internal rate of return using the
// closed-form shortcut valid ONLY for constant annual cash flows: the
// perpetuity approximation annualCashFlow / netCost, zeroed when the project
// does not recoup its cost within the horizon. This is an approximation, not
// a root-finding IRR solver; if year-over-year degradation or escalating
// rates are ever introduced upstream, replace this with an iterative solver.
func IRRConstantCashFlow(netCost, annualCashFlow float64, years int) (float64, bool) {
	if netCost <= 0 || annualCashFlow <= 0 {
		return 0, false
	}
	if annualCashFlow*float64(years) < netCost {
		// Never pays back inside the horizon; IRR is negative and the
		// shortcut is not meaningful there.
		return 0, false
	}
	return annualCashFlow / netCost, true
}
