package finance

import (
	"math"
	"testing"

	"bessquote/pkg/core/pricing"
	"bessquote/pkg/core/reference"
)

func fixedInputs() (pricing.CostBreakdown, pricing.TaxCreditResult, SavingsInputs) {
	breakdown := pricing.CostBreakdown{TotalInstalledCost: 100_000}
	credit := pricing.TaxCreditResult{TotalRate: 0.30, CreditAmount: 30_000}
	in := SavingsInputs{
		AvoidedPeakKW:      50,
		DischargeKWhPerDay: 100,
		AnnualCycles:       300,
		Efficiency:         0.90,
		Rates: reference.RegionalData{
			PeakRatePerKWh:    0.30,
			OffPeakRatePerKWh: 0.10,
			DemandChargePerKW: 20,
			EmissionsKgPerKWh: 0.35,
		},
	}
	return breakdown, credit, in
}

func TestEvaluate_SavingsAndPayback(t *testing.T) {
	breakdown, credit, in := fixedInputs()
	res := Evaluate(breakdown, credit, in, 10, 0.07)

	// Demand: 50 kW x $20 x 12 = 12,000. Arbitrage: 100 x 0.9 x 0.20 x 300 = 5,400.
	if math.Abs(res.DemandSavingsUSD-12_000) > 0.01 {
		t.Errorf("demand savings = %.2f, want 12000", res.DemandSavingsUSD)
	}
	if math.Abs(res.ArbitrageUSD-5_400) > 0.01 {
		t.Errorf("arbitrage = %.2f, want 5400", res.ArbitrageUSD)
	}
	if math.Abs(res.AnnualSavingsUSD-17_400) > 0.01 {
		t.Errorf("annual savings = %.2f, want 17400", res.AnnualSavingsUSD)
	}

	// Net cost 70,000 / 17,400.
	if res.NonViable {
		t.Fatal("viable project flagged non-viable")
	}
	wantPayback := 70_000.0 / 17_400.0
	if math.Abs(res.PaybackYears-wantPayback) > 1e-9 {
		t.Errorf("payback = %.3f, want %.3f", res.PaybackYears, wantPayback)
	}
}

func TestEvaluate_NPVAndIRR(t *testing.T) {
	breakdown, credit, in := fixedInputs()
	res := Evaluate(breakdown, credit, in, 10, 0.07)

	if res.NPV == nil {
		t.Fatal("NPV not computed despite a project horizon")
	}
	// 17,400/yr for 10y at 7% comfortably beats a 70,000 outlay.
	if *res.NPV <= 0 {
		t.Errorf("NPV = %.0f, want positive", *res.NPV)
	}

	if res.IRR == nil {
		t.Fatal("IRR not computed for a project that recoups within the horizon")
	}
	if math.Abs(*res.IRR-17_400.0/70_000.0) > 1e-9 {
		t.Errorf("IRR = %.4f, want the constant-cash-flow shortcut %.4f", *res.IRR, 17_400.0/70_000.0)
	}
}

func TestEvaluate_NonViableNeverProducesInfinity(t *testing.T) {
	breakdown, credit, in := fixedInputs()
	in.Rates.DemandChargePerKW = 0
	in.Rates.OffPeakRatePerKWh = in.Rates.PeakRatePerKWh // no spread

	res := Evaluate(breakdown, credit, in, 10, 0.07)

	if !res.NonViable {
		t.Fatal("zero-savings project not flagged non-viable")
	}
	if res.PaybackYears != 0 {
		t.Errorf("payback = %v for non-viable project, want unset zero", res.PaybackYears)
	}
	if res.NPV != nil || res.IRR != nil {
		t.Error("NPV/IRR computed for a non-viable project")
	}
	if math.IsInf(res.PaybackYears, 0) || math.IsNaN(res.AnnualSavingsUSD) {
		t.Error("non-viable path produced Inf/NaN")
	}
}

func TestEvaluate_InvertedRateSpreadClampsToZero(t *testing.T) {
	breakdown, credit, in := fixedInputs()
	in.Rates.OffPeakRatePerKWh = 0.40 // off-peak above peak

	res := Evaluate(breakdown, credit, in, 0, 0.07)
	if res.ArbitrageUSD != 0 {
		t.Errorf("arbitrage = %.2f with inverted spread, want 0", res.ArbitrageUSD)
	}
	if res.NonViable {
		t.Error("demand savings alone should keep the project viable")
	}
}

func TestEvaluate_CO2Avoided(t *testing.T) {
	breakdown, credit, in := fixedInputs()
	res := Evaluate(breakdown, credit, in, 0, 0.07)

	// 100 kWh x 300 cycles x 0.35 kg / 1000 = 10.5 t.
	if math.Abs(res.CO2AvoidedTonsYear-10.5) > 1e-9 {
		t.Errorf("CO2 avoided = %.2f t, want 10.5", res.CO2AvoidedTonsYear)
	}
}

func TestNPVConstantCashFlow(t *testing.T) {
	// 1,000/yr for 3 years at 10%: 909.09 + 826.45 + 751.31 = 2486.85
	npv := NPVConstantCashFlow(2_000, 1_000, 3, 0.10)
	if math.Abs(npv-486.85) > 0.01 {
		t.Errorf("NPV = %.2f, want 486.85", npv)
	}
}

func TestIRRConstantCashFlow_Shortcut(t *testing.T) {
	if _, ok := IRRConstantCashFlow(100_000, 5_000, 10); ok {
		t.Error("IRR reported for a project that never recoups within the horizon")
	}
	if _, ok := IRRConstantCashFlow(0, 5_000, 10); ok {
		t.Error("IRR reported for zero net cost")
	}
	irr, ok := IRRConstantCashFlow(50_000, 10_000, 10)
	if !ok || math.Abs(irr-0.20) > 1e-9 {
		t.Errorf("IRR = %v (%v), want 0.20", irr, ok)
	}
}
