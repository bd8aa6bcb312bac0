// Package quote orchestrates the end-to-end estimate: load reconstruction,
// system sizing, pricing, tax credit, financial analysis, and the self-check
// verification pass, composed over an immutable reference-data snapshot.
package quote

import (
	"math"
	"time"

	"github.com/google/uuid"

	"bessquote/pkg/core/answers"
	"bessquote/pkg/core/finance"
	"bessquote/pkg/core/load"
	"bessquote/pkg/core/pricing"
	"bessquote/pkg/core/reference"
	"bessquote/pkg/core/sizing"
	"bessquote/pkg/core/verify"
)

// Engine binds the reference snapshot and configuration. Build one at process
// start and share it freely: every method is a pure function of its inputs
// and the snapshot, so concurrent quotes need no coordination.
type Engine struct {
	Tables *reference.Tables
	Config Config
}

// NewEngine wires an engine over a reference snapshot.
func NewEngine(tables *reference.Tables, cfg Config) *Engine {
	return &Engine{Tables: tables, Config: cfg}
}

// Request is one quote calculation's inputs as delivered by the wizard.
type Request struct {
	Industry       string          `json:"industry"`
	State          string          `json:"state"`
	Goals          []sizing.Goal   `json:"goals"`
	Answers        answers.Answers `json:"answers"`
	Extras         pricing.Extras  `json:"extras"`
	Qualifications []string        `json:"tax_qualifications"`
}

// Result is the composed quote the rendering collaborators consume. Every
// field is already validated; consumers must not re-derive figures.
type Result struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`

	Industry reference.Industry `json:"industry"`
	State    string             `json:"state"`

	Load         load.LoadEstimate       `json:"load"`
	Spec         sizing.BessSpec         `json:"spec"`
	SizingIssues []sizing.Issue          `json:"sizing_issues,omitempty"`
	Costs        pricing.CostBreakdown   `json:"costs"`
	TaxCredit    pricing.TaxCreditResult `json:"tax_credit"`
	Financials   finance.FinancialResult `json:"financials"`

	Deviations verify.DeviationReport `json:"deviations,omitempty"`
	Confidence float64                `json:"confidence"`
	Citations  []reference.Citation   `json:"citations"`
}

// computed is one full pass through the calculation chain.
type computed struct {
	industry   reference.Industry
	est        load.LoadEstimate
	spec       sizing.BessSpec
	issues     []sizing.Issue
	costs      pricing.CostBreakdown
	credit     pricing.TaxCreditResult
	financials finance.FinancialResult
	needsGen   bool
}

func (e *Engine) compute(req Request) computed {
	industry := reference.Industry(req.Industry)
	calc := load.ForIndustry(e.Tables, industry)
	resolver := answers.NewResolver(req.Answers, calc.Medians())
	est := calc.Reconstruct(resolver)

	spec := sizing.Size(e.Tables, est, industry, req.Goals)
	issues := sizing.Validate(e.Tables, spec)

	costs := pricing.Price(e.Tables, spec, req.Extras, req.State)
	credit := pricing.ComputeTaxCredit(e.Tables, costs.TotalInstalledCost, req.Qualifications)

	profile := e.Tables.ProfileFor(industry)
	region := e.Tables.RegionOrDefault(req.State)
	financials := finance.Evaluate(costs, credit, finance.SavingsInputs{
		AvoidedPeakKW:      math.Min(spec.PowerKW, est.PeakDemandKW),
		DischargeKWhPerDay: spec.EnergyKWh,
		AnnualCycles:       profile.AnnualCycles,
		Efficiency:         spec.Efficiency,
		Rates:              region,
	}, e.Config.ProjectYears, e.Config.DiscountRate)

	return computed{
		industry:   industry,
		est:        est,
		spec:       spec,
		issues:     issues,
		costs:      costs,
		credit:     credit,
		financials: financials,
		needsGen:   profile.RequiresBackupGen || est.NeedsBackupGen,
	}
}

// snapshot reduces a computed pass to the verifiable headline fields.
func (c computed) snapshot(generatorKW float64) *verify.Snapshot {
	return &verify.Snapshot{
		PeakDemandKW:       c.est.PeakDemandKW,
		PowerKW:            c.spec.PowerKW,
		EnergyKWh:          c.spec.EnergyKWh,
		TotalInstalledCost: c.costs.TotalInstalledCost,
		AnnualSavingsUSD:   c.financials.AnnualSavingsUSD,
		PaybackYears:       c.financials.PaybackYears,
		FinancialsViable:   !c.financials.NonViable,
		RequiresBackupGen:  c.needsGen,
		GeneratorKW:        generatorKW,
	}
}

// Generate runs the full pipeline and the self-check verification pass,
// returning the composed quote. The error return is reserved for future
// request-level rejections; low-information input degrades confidence
// instead of failing.
func (e *Engine) Generate(req Request) (*Result, error) {
	c := e.compute(req)

	displayed := verify.Displayed{
		PeakDemandKW:       &c.est.PeakDemandKW,
		PowerKW:            &c.spec.PowerKW,
		EnergyKWh:          &c.spec.EnergyKWh,
		TotalInstalledCost: &c.costs.TotalInstalledCost,
		AnnualSavingsUSD:   &c.financials.AnnualSavingsUSD,
		GeneratorKW:        &req.Extras.GeneratorKW,
	}
	if !c.financials.NonViable {
		displayed.PaybackYears = &c.financials.PaybackYears
	}
	report := verify.Run(func() (*verify.Snapshot, error) {
		return e.compute(req).snapshot(req.Extras.GeneratorKW), nil
	}, displayed, e.Config.Thresholds)

	return &Result{
		ID:           uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		Industry:     c.industry,
		State:        req.State,
		Load:         c.est,
		Spec:         c.spec,
		SizingIssues: c.issues,
		Costs:        c.costs,
		TaxCredit:    c.credit,
		Financials:   c.financials,
		Deviations:   report,
		Confidence:   verify.CompositeConfidence(c.est.Confidence, report, e.Config.Confidence),
		Citations: e.Tables.CitationsFor(
			"load_reconstruction", "industry_baselines", "sizing_defaults",
			"equipment_costs", "bos_percent", "duration_discounts",
			"utility_rates", "demand_charges", "tax_credit", "emissions_factors",
		),
	}, nil
}

// Verify cross-checks externally displayed figures against a fresh
// recalculation from the canonical request. Internal failures surface as a
// single critical deviation, never as an error or panic.
func (e *Engine) Verify(displayed verify.Displayed, canonical Request) verify.DeviationReport {
	return verify.Run(func() (*verify.Snapshot, error) {
		return e.compute(canonical).snapshot(canonical.Extras.GeneratorKW), nil
	}, displayed, e.Config.Thresholds)
}
