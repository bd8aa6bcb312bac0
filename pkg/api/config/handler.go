package config

import (
	"encoding/json"
	"net/http"
	"sort"

	core "bessquote/pkg/core/quote"
)

// Handler exposes the engine configuration and the option lists the wizard
// needs to build its selectors.
type Handler struct {
	engine *core.Engine
}

func NewHandler(e *core.Engine) *Handler {
	return &Handler{engine: e}
}

// HandleConfig serves GET /api/config.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	industries := make([]string, 0, len(h.engine.Tables.Industry))
	for ind := range h.engine.Tables.Industry {
		industries = append(industries, string(ind))
	}
	chemistries := make([]string, 0, len(h.engine.Tables.ChemistryMultiplier))
	for c := range h.engine.Tables.ChemistryMultiplier {
		chemistries = append(chemistries, string(c))
	}
	states := make([]string, 0, len(h.engine.Tables.Regional))
	for s := range h.engine.Tables.Regional {
		states = append(states, s)
	}
	sort.Strings(industries)
	sort.Strings(chemistries)
	sort.Strings(states)

	goals := []string{"backup_power", "peak_shaving", "grid_independence"}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"project_years":        h.engine.Config.ProjectYears,
		"discount_rate":        h.engine.Config.DiscountRate,
		"deviation_thresholds": h.engine.Config.Thresholds,
		"industries":           industries,
		"chemistries":          chemistries,
		"states":               states,
		"goals":                goals,
		"tax_credit":           h.engine.Tables.TaxCredit,
	})
}
