// Package verify cross-checks a quote a caller intends to display against an
// independently recalculated one, classifies divergences by severity, and
// produces the composite confidence score. It never propagates an internal
// failure: a recalculation error or panic becomes a single critical entry
// with user-facing guidance.
package verify

import (
	"fmt"
	"math"
)

// Severity classifies a deviation.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Thresholds are the deviation-percent cutoffs. They are configuration, not
// per-call constants.
type Thresholds struct {
	WarnPercent     float64 `yaml:"warn_percent" json:"warn_percent"`
	CriticalPercent float64 `yaml:"critical_percent" json:"critical_percent"`
}

// DefaultThresholds warn at 5% divergence and escalate at 15%.
func DefaultThresholds() Thresholds {
	return Thresholds{WarnPercent: 5, CriticalPercent: 15}
}

// Deviation is one finding in the report.
type Deviation struct {
	Field             string   `json:"field"`
	DisplayedValue    float64  `json:"displayed_value"`
	RecalculatedValue float64  `json:"recalculated_value"`
	DeviationPercent  float64  `json:"deviation_percent"`
	Severity          Severity `json:"severity"`
	Explanation       string   `json:"explanation"`
	Recommendation    string   `json:"recommendation"`
}

// DeviationReport is the ordered finding list. It is regenerated on every
// check and never persisted.
type DeviationReport []Deviation

// HasCritical reports whether any entry is critical.
func (r DeviationReport) HasCritical() bool {
	for _, d := range r {
		if d.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// Displayed carries the headline figures the caller is about to show. Nil
// fields are absent and skipped; only fields present on both sides are
// compared.
type Displayed struct {
	PeakDemandKW       *float64 `json:"peak_demand_kw,omitempty"`
	PowerKW            *float64 `json:"power_kw,omitempty"`
	EnergyKWh          *float64 `json:"energy_kwh,omitempty"`
	TotalInstalledCost *float64 `json:"total_installed_cost,omitempty"`
	AnnualSavingsUSD   *float64 `json:"annual_savings_usd,omitempty"`
	PaybackYears       *float64 `json:"payback_years,omitempty"`
	GeneratorKW        *float64 `json:"generator_kw,omitempty"`
}

// Snapshot is the recalculated canonical result reduced to the comparable
// headline fields plus the rule-check facts.
type Snapshot struct {
	PeakDemandKW       float64
	PowerKW            float64
	EnergyKWh          float64
	TotalInstalledCost float64
	AnnualSavingsUSD   float64
	PaybackYears       float64
	FinancialsViable   bool
	RequiresBackupGen  bool
	GeneratorKW        float64
}

// Recalculator independently re-derives the canonical result. The closure
// captures the canonical inputs so this package stays decoupled from the
// pipeline that builds them.
type Recalculator func() (*Snapshot, error)

// Run executes the verification pass: recalculate, compare field by field in
// a fixed order, then apply the numeric-independent rule checks. Identical
// inputs always yield an identical report.
func Run(recalc Recalculator, displayed Displayed, th Thresholds) (report DeviationReport) {
	defer func() {
		if r := recover(); r != nil {
			report = DeviationReport{internalFailure(fmt.Sprintf("recalculation panic: %v", r))}
		}
	}()

	snap, err := recalc()
	if err != nil {
		return DeviationReport{internalFailure(err.Error())}
	}

	fields := []struct {
		name      string
		displayed *float64
		recalc    float64
	}{
		{"peak_demand_kw", displayed.PeakDemandKW, snap.PeakDemandKW},
		{"power_kw", displayed.PowerKW, snap.PowerKW},
		{"energy_kwh", displayed.EnergyKWh, snap.EnergyKWh},
		{"total_installed_cost", displayed.TotalInstalledCost, snap.TotalInstalledCost},
		{"annual_savings_usd", displayed.AnnualSavingsUSD, snap.AnnualSavingsUSD},
		{"payback_years", displayed.PaybackYears, snap.PaybackYears},
	}

	for _, f := range fields {
		if f.displayed == nil {
			continue
		}
		if d, ok := classify(f.name, *f.displayed, f.recalc, th); ok {
			report = append(report, d)
		}
	}

	// Rule checks independent of numeric deviation.
	if displayed.PaybackYears != nil && !snap.FinancialsViable {
		report = append(report, Deviation{
			Field:             "payback_years",
			DisplayedValue:    *displayed.PaybackYears,
			RecalculatedValue: 0,
			Severity:          SeverityCritical,
			Explanation:       "a payback figure is displayed but the recalculated project is not financially viable",
			Recommendation:    "remove the payback figure and surface the non-viable flag instead",
		})
	}
	if snap.RequiresBackupGen {
		displayedGen := 0.0
		if displayed.GeneratorKW != nil {
			displayedGen = *displayed.GeneratorKW
		}
		if displayedGen <= 0 {
			report = append(report, Deviation{
				Field:             "generator_kw",
				DisplayedValue:    displayedGen,
				RecalculatedValue: snap.GeneratorKW,
				Severity:          SeverityCritical,
				Explanation:       "this facility profile requires backup generation but the displayed quote includes none",
				Recommendation:    "add a backup generator to the configuration before presenting the quote",
			})
		}
	}

	return report
}

func classify(field string, displayedVal, recalcVal float64, th Thresholds) (Deviation, bool) {
	if math.IsNaN(displayedVal) || math.IsNaN(recalcVal) {
		return Deviation{}, false
	}
	var pct float64
	switch {
	case recalcVal != 0:
		pct = math.Abs(displayedVal-recalcVal) / math.Abs(recalcVal) * 100
	case displayedVal != 0:
		pct = 100
	default:
		return Deviation{}, false
	}
	if pct < th.WarnPercent {
		return Deviation{}, false
	}
	sev := SeverityWarning
	recommendation := "review the displayed figure against the recalculated value"
	if pct >= th.CriticalPercent {
		sev = SeverityCritical
		recommendation = "recompute the quote from the stored facility inputs before presenting it"
	}
	return Deviation{
		Field:             field,
		DisplayedValue:    displayedVal,
		RecalculatedValue: recalcVal,
		DeviationPercent:  pct,
		Severity:          sev,
		Explanation:       fmt.Sprintf("displayed %s diverges %.1f%% from the independently recalculated value", field, pct),
		Recommendation:    recommendation,
	}, true
}

func internalFailure(detail string) Deviation {
	return Deviation{
		Field:          "internal",
		Severity:       SeverityCritical,
		Explanation:    "verification could not recalculate the quote: " + detail,
		Recommendation: "please re-enter the facility details and generate a fresh quote",
	}
}

// =============================================================================
// COMPOSITE CONFIDENCE
// =============================================================================

// ConfidenceWeights control how deviations erode the load-reconstruction
// confidence when composing the quote-level score.
type ConfidenceWeights struct {
	WarningPenalty  float64 `yaml:"warning_penalty" json:"warning_penalty"`
	CriticalPenalty float64 `yaml:"critical_penalty" json:"critical_penalty"`
}

// DefaultConfidenceWeights dock 0.05 per warning and 0.15 per critical.
func DefaultConfidenceWeights() ConfidenceWeights {
	return ConfidenceWeights{WarningPenalty: 0.05, CriticalPenalty: 0.15}
}

// CompositeConfidence folds the deviation report into the base confidence
// from load reconstruction, clamped to [0,1].
func CompositeConfidence(base float64, report DeviationReport, w ConfidenceWeights) float64 {
	score := base
	for _, d := range report {
		switch d.Severity {
		case SeverityCritical:
			score -= w.CriticalPenalty
		default:
			score -= w.WarningPenalty
		}
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
