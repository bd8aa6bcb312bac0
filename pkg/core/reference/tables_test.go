package reference

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRegionOrDefault(t *testing.T) {
	tables := Default()

	ca := tables.RegionOrDefault("CA")
	if ca.DemandChargePerKW != 22 || ca.InstallMultiplier != 1.25 {
		t.Errorf("CA = %+v, want the compiled-in entry", ca)
	}

	// Unknown state falls back to neutral national-average data.
	nv := tables.RegionOrDefault("NV")
	if nv.InstallMultiplier != 1.0 {
		t.Errorf("unknown-state install multiplier = %.2f, want neutral 1.0", nv.InstallMultiplier)
	}
	if nv.PeakRatePerKWh <= nv.OffPeakRatePerKWh {
		t.Error("fallback rates have no peak/off-peak spread")
	}
}

func TestProfileFor_UnknownIndustryFallsBackToGeneric(t *testing.T) {
	tables := Default()
	got := tables.ProfileFor(Industry("laundromat"))
	if got != tables.Industry[IndustryGeneric] {
		t.Errorf("unknown industry profile = %+v, want the generic profile", got)
	}
}

func TestChemistryLookups(t *testing.T) {
	tables := Default()

	if m := tables.ChemistryMult(ChemFlow); m != 1.45 {
		t.Errorf("flow multiplier = %.2f, want 1.45", m)
	}
	if m := tables.ChemistryMult(Chemistry("solid_state")); m != 1.0 {
		t.Errorf("unknown chemistry multiplier = %.2f, want LFP baseline 1.0", m)
	}
	if e := tables.Efficiency(Chemistry("solid_state")); e != tables.RoundTripEfficiency[ChemLFP] {
		t.Errorf("unknown chemistry efficiency = %.2f, want the LFP figure", e)
	}
}

func TestDurationDiscount(t *testing.T) {
	tables := Default()
	tests := []struct {
		hours float64
		want  float64
	}{
		{1, 1.00},
		{2, 0.95},
		{3.9, 0.95},
		{4, 0.90},
		{6, 0.85},
		{10, 0.85},
	}
	for _, tt := range tests {
		if got := tables.DurationDiscount(tt.hours); got != tt.want {
			t.Errorf("DurationDiscount(%.1f) = %.2f, want %.2f", tt.hours, got, tt.want)
		}
	}
}

func TestCitationsFor(t *testing.T) {
	tables := Default()

	got := tables.CitationsFor("tax_credit", "emissions_factors")
	if len(got) != 2 {
		t.Fatalf("citations = %v, want IRS and EPA entries", got)
	}
	if got[0].Organization != "IRS" || got[1].Organization != "EPA" {
		t.Errorf("citation order = %s, %s, want table order IRS, EPA", got[0].Organization, got[1].Organization)
	}

	if got := tables.CitationsFor("unknown_key"); len(got) != 0 {
		t.Errorf("citations for unknown key = %v, want none", got)
	}
}

func TestLoadRateOverrides(t *testing.T) {
	tables := Default()
	path := filepath.Join(t.TempDir(), "rates.hjson")
	src := `{
  // state additions and replacements
  regional: {
    NV: {
      peak_rate_per_kwh: 0.13
      off_peak_rate_per_kwh: 0.06
      demand_charge_per_kw: 10
      solar_irradiance: 6.1
      emissions_kg_per_kwh: 0.33
    }
  }
}`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := tables.LoadRateOverrides(path); err != nil {
		t.Fatalf("LoadRateOverrides: %v", err)
	}

	nv, ok := tables.Regional["NV"]
	if !ok {
		t.Fatal("NV entry not merged")
	}
	if nv.DemandChargePerKW != 10 {
		t.Errorf("NV demand charge = %.1f, want 10", nv.DemandChargePerKW)
	}
	// Omitted install multiplier defaults to neutral rather than zero.
	if nv.InstallMultiplier != 1.0 {
		t.Errorf("NV install multiplier = %.2f, want defaulted 1.0", nv.InstallMultiplier)
	}
	// Compiled-in states survive the merge untouched.
	if tables.Regional["CA"].DemandChargePerKW != 22 {
		t.Error("CA entry mutated by override merge")
	}
}

func TestLoadRateOverrides_MissingFile(t *testing.T) {
	tables := Default()
	if err := tables.LoadRateOverrides(filepath.Join(t.TempDir(), "absent.hjson")); err != nil {
		t.Errorf("missing override file should not error: %v", err)
	}
	if len(tables.Regional) != 8 {
		t.Errorf("regional table size = %d, want the 8 compiled-in states", len(tables.Regional))
	}
}
