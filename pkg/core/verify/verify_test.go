package verify

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func f(v float64) *float64 { return &v }

func healthySnapshot() *Snapshot {
	return &Snapshot{
		PeakDemandKW:       100,
		PowerKW:            50,
		EnergyKWh:          100,
		TotalInstalledCost: 200_000,
		AnnualSavingsUSD:   25_000,
		PaybackYears:       5.6,
		FinancialsViable:   true,
	}
}

func recalcOK() (*Snapshot, error) { return healthySnapshot(), nil }

func TestRun_NoDeviationBelowWarnThreshold(t *testing.T) {
	displayed := Displayed{
		PeakDemandKW:       f(101), // 1% off
		PowerKW:            f(50),
		TotalInstalledCost: f(202_000),
	}

	report := Run(recalcOK, displayed, DefaultThresholds())
	if len(report) != 0 {
		t.Errorf("report = %v, want empty below the warn threshold", report)
	}
}

func TestRun_ClassifiesBySeverity(t *testing.T) {
	tests := []struct {
		name      string
		displayed Displayed
		wantSev   Severity
		wantField string
	}{
		{"warning band", Displayed{PowerKW: f(54)}, SeverityWarning, "power_kw"},              // 8%
		{"critical band", Displayed{TotalInstalledCost: f(260_000)}, SeverityCritical, "total_installed_cost"}, // 30%
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Run(recalcOK, tt.displayed, DefaultThresholds())
			if len(report) != 1 {
				t.Fatalf("report = %v, want exactly one entry", report)
			}
			d := report[0]
			if d.Severity != tt.wantSev || d.Field != tt.wantField {
				t.Errorf("got %s on %s, want %s on %s", d.Severity, d.Field, tt.wantSev, tt.wantField)
			}
			if d.DeviationPercent <= 0 {
				t.Error("deviation percent not populated")
			}
			if d.Explanation == "" || d.Recommendation == "" {
				t.Error("explanation/recommendation missing")
			}
		})
	}
}

func TestRun_AbsentFieldsSkipped(t *testing.T) {
	report := Run(recalcOK, Displayed{}, DefaultThresholds())
	if len(report) != 0 {
		t.Errorf("report = %v, want empty when nothing is displayed", report)
	}
}

func TestRun_PaybackShownForNonViableProject(t *testing.T) {
	recalc := func() (*Snapshot, error) {
		s := healthySnapshot()
		s.FinancialsViable = false
		s.PaybackYears = 0
		return s, nil
	}

	report := Run(recalc, Displayed{PaybackYears: f(4.2)}, DefaultThresholds())
	if !report.HasCritical() {
		t.Fatal("displaying payback for a non-viable project must be critical")
	}
}

func TestRun_BackupGenerationRule(t *testing.T) {
	recalc := func() (*Snapshot, error) {
		s := healthySnapshot()
		s.RequiresBackupGen = true
		return s, nil
	}

	// Missing generator: critical regardless of numeric agreement.
	report := Run(recalc, Displayed{PowerKW: f(50)}, DefaultThresholds())
	if !report.HasCritical() {
		t.Fatal("missing backup generation must raise a critical deviation")
	}
	found := false
	for _, d := range report {
		if d.Field == "generator_kw" && d.Severity == SeverityCritical {
			found = true
		}
	}
	if !found {
		t.Errorf("no generator_kw critical entry in %v", report)
	}

	// Present generator: rule satisfied.
	report = Run(recalc, Displayed{PowerKW: f(50), GeneratorKW: f(125)}, DefaultThresholds())
	for _, d := range report {
		if d.Field == "generator_kw" {
			t.Errorf("generator rule fired despite a generator being displayed: %v", d)
		}
	}
}

func TestRun_RecalculationErrorBecomesSingleCritical(t *testing.T) {
	recalc := func() (*Snapshot, error) { return nil, errors.New("reference snapshot unavailable") }

	report := Run(recalc, Displayed{PowerKW: f(50)}, DefaultThresholds())
	if len(report) != 1 {
		t.Fatalf("report = %v, want exactly one internal-failure entry", report)
	}
	if report[0].Severity != SeverityCritical || report[0].Field != "internal" {
		t.Errorf("entry = %+v, want critical internal", report[0])
	}
	if report[0].Recommendation == "" {
		t.Error("internal failure carries no user guidance")
	}
}

func TestRun_PanicIsContained(t *testing.T) {
	recalc := func() (*Snapshot, error) { panic("industry table corrupted") }

	report := Run(recalc, Displayed{PowerKW: f(50)}, DefaultThresholds())
	if len(report) != 1 || report[0].Severity != SeverityCritical {
		t.Fatalf("panic not converted to a single critical deviation: %v", report)
	}
}

func TestRun_Deterministic(t *testing.T) {
	displayed := Displayed{
		PeakDemandKW:       f(120),
		PowerKW:            f(54),
		EnergyKWh:          f(130),
		TotalInstalledCost: f(260_000),
		AnnualSavingsUSD:   f(25_000),
		PaybackYears:       f(5.6),
	}

	a := Run(recalcOK, displayed, DefaultThresholds())
	b := Run(recalcOK, displayed, DefaultThresholds())
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs produced different reports:\n%v\n%v", a, b)
	}
}

func TestRun_ZeroRecalculatedValue(t *testing.T) {
	recalc := func() (*Snapshot, error) {
		s := healthySnapshot()
		s.AnnualSavingsUSD = 0
		return s, nil
	}

	report := Run(recalc, Displayed{AnnualSavingsUSD: f(10_000)}, DefaultThresholds())
	if len(report) != 1 {
		t.Fatalf("report = %v, want one entry for displayed-vs-zero", report)
	}
	if report[0].DeviationPercent != 100 || math.IsNaN(report[0].DeviationPercent) {
		t.Errorf("deviation percent = %v, want 100 for a zero recalculated value", report[0].DeviationPercent)
	}
}

func TestCompositeConfidence(t *testing.T) {
	w := DefaultConfidenceWeights()
	report := DeviationReport{
		{Severity: SeverityWarning},
		{Severity: SeverityCritical},
	}

	got := CompositeConfidence(0.80, report, w)
	if math.Abs(got-0.60) > 1e-9 {
		t.Errorf("composite = %.2f, want 0.60 (0.80 - 0.05 - 0.15)", got)
	}

	if got := CompositeConfidence(0.10, report, w); got != 0 {
		t.Errorf("composite = %.2f, want clamp at 0", got)
	}
	if got := CompositeConfidence(1.5, nil, w); got != 1 {
		t.Errorf("composite = %.2f, want clamp at 1", got)
	}
}
