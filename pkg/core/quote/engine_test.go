package quote

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"bessquote/pkg/core/answers"
	"bessquote/pkg/core/reference"
	"bessquote/pkg/core/verify"
)

func testEngine() *Engine {
	return NewEngine(reference.Default(), DefaultConfig())
}

// smallCarWash is a fully answered single-bay self-serve facility in
// California on a 200A service.
func smallCarWash() Request {
	return Request{
		Industry: "car_wash",
		State:    "CA",
		Answers: answers.Answers{
			"washType":          "self_serve",
			"bayCount":          1.0,
			"simultaneousBays":  "all",
			"electricalService": "200A",
			"carsPerDay":        60.0,
			"minutesPerWash":    8.0,
			"operatingHours":    12.0,
			"rateStructure":     "tou",
			"monthlySpend":      2400.0,
			"equipment":         []any{"high_pressure_pumps", "water_heating", "vacuum_stations", "lighting"},
		},
		Qualifications: []string{"domestic_content"},
	}
}

func TestGenerate_CarWashEndToEnd(t *testing.T) {
	res, err := testEngine().Generate(smallCarWash())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if res.ID == "" || res.GeneratedAt.IsZero() {
		t.Error("result missing identity fields")
	}
	if res.Industry != reference.IndustryCarWash {
		t.Errorf("industry = %s, want car_wash", res.Industry)
	}

	// The 65 kW equipment inventory exceeds the 45 kW self-serve baseline,
	// so nameplate follows the inventory at full concurrency.
	if res.Load.PeakDemandKW != 65 {
		t.Errorf("peak = %.1f kW, want 65", res.Load.PeakDemandKW)
	}
	if res.Load.ServiceLimitReached {
		t.Error("200A service should not clamp a 65 kW peak")
	}

	// 65 kW at the 0.60 car-wash fraction rounds down to the 50 kW floor.
	if res.Spec.PowerKW != 50 || res.Spec.EnergyKWh != 100 || res.Spec.DurationHours != 2 {
		t.Errorf("spec = %.0f kW / %.0f kWh / %.1f h, want 50 / 100 / 2",
			res.Spec.PowerKW, res.Spec.EnergyKWh, res.Spec.DurationHours)
	}

	if res.Costs.TotalInstalledCost <= 0 {
		t.Error("total installed cost not populated")
	}
	if res.TaxCredit.TotalRate != 0.40 {
		t.Errorf("tax credit rate = %.2f, want 0.40 with domestic content", res.TaxCredit.TotalRate)
	}

	// The self-check re-runs the same deterministic pipeline, so a healthy
	// request produces no deviations and confidence passes through intact.
	if len(res.Deviations) != 0 {
		t.Errorf("self-check deviations = %v, want none", res.Deviations)
	}
	if res.Confidence != res.Load.Confidence {
		t.Errorf("confidence = %.2f, want load confidence %.2f unchanged", res.Confidence, res.Load.Confidence)
	}
	if len(res.Citations) == 0 {
		t.Error("citations missing")
	}
}

func TestGenerate_OffGridWithoutGeneratorIsCritical(t *testing.T) {
	req := Request{
		Industry: "data_center",
		State:    "TX",
		Answers: answers.Answers{
			"facilitySize":   20000.0,
			"operatingHours": 24.0,
			"gridConnection": "off_grid",
		},
	}

	res, err := testEngine().Generate(req)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if !res.Deviations.HasCritical() {
		t.Fatal("off-grid facility without a generator must carry a critical deviation")
	}
	found := false
	for _, d := range res.Deviations {
		if d.Field == "generator_kw" && d.Severity == verify.SeverityCritical {
			found = true
		}
	}
	if !found {
		t.Errorf("no generator_kw deviation in %v", res.Deviations)
	}
	if res.Confidence >= res.Load.Confidence {
		t.Errorf("confidence = %.2f not docked below load confidence %.2f", res.Confidence, res.Load.Confidence)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	e := testEngine()
	req := smallCarWash()

	a, err := e.Generate(req)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Generate(req)
	if err != nil {
		t.Fatal(err)
	}

	// ID and timestamp differ per quote; everything derived must not.
	a.ID, b.ID = "", ""
	a.GeneratedAt = b.GeneratedAt
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical requests produced different quotes:\n%+v\n%+v", a, b)
	}
}

func TestVerify_DriftedFiguresFlagged(t *testing.T) {
	e := testEngine()
	req := smallCarWash()

	inflated := 80.0 // canonical spec is 50 kW
	report := e.Verify(verify.Displayed{PowerKW: &inflated}, req)
	if !report.HasCritical() {
		t.Errorf("60%% power drift not critical: %v", report)
	}

	canonical := 50.0
	if report := e.Verify(verify.Displayed{PowerKW: &canonical}, req); len(report) != 0 {
		t.Errorf("matching figure flagged: %v", report)
	}
}

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfig_PartialFileBackfilled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte("project_years: 15\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ProjectYears != 15 {
		t.Errorf("project_years = %d, want 15", cfg.ProjectYears)
	}
	if cfg.DiscountRate != 0.07 || cfg.Thresholds.CriticalPercent != 15 {
		t.Errorf("unset fields not backfilled: %+v", cfg)
	}
}
