package quote

import (
	"encoding/json"
	"fmt"
	"net/http"

	core "bessquote/pkg/core/quote"
	"bessquote/pkg/core/report"
	"bessquote/pkg/core/verify"
)

var engine *core.Engine

// InitHandler injects the shared engine. Call once at startup before
// registering routes.
func InitHandler(e *core.Engine) {
	engine = e
}

func cors(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// HandleEstimate serves POST /api/quote/estimate: full quote generation.
func HandleEstimate(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}

	var req core.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fmt.Printf("[QUOTE] Estimate request: industry=%s state=%s goals=%v\n", req.Industry, req.State, req.Goals)

	result, err := engine.Generate(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	fmt.Printf("[QUOTE] %s: peak %.0f kW -> %.0f kW / %.0f kWh, total $%.0f, confidence %.2f\n",
		result.ID, result.Load.PeakDemandKW, result.Spec.PowerKW, result.Spec.EnergyKWh, result.Costs.TotalInstalledCost, result.Confidence)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// VerifyRequest pairs displayed figures with the canonical inputs they were
// derived from.
type VerifyRequest struct {
	Displayed verify.Displayed `json:"displayed"`
	Canonical core.Request     `json:"canonical"`
}

// HandleVerify serves POST /api/quote/verify: cross-check displayed figures.
func HandleVerify(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deviations := engine.Verify(req.Displayed, req.Canonical)
	fmt.Printf("[VERIFY] %d deviation(s), critical=%v\n", len(deviations), deviations.HasCritical())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"deviations":   deviations,
		"has_critical": deviations.HasCritical(),
	})
}

// HandleReport serves POST /api/quote/report: quote summary as markdown+HTML.
func HandleReport(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}

	var req core.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := engine.Generate(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	md := report.Markdown(result)
	html, err := report.HTML(result)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"quote_id": result.ID,
		"markdown": md,
		"html":     html,
	})
}
