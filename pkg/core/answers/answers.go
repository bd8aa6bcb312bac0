// Package answers turns the wizard's loosely-typed questionnaire payload into
// validated, defaulted values for the load calculators. Missing or "not sure"
// answers never error: they resolve to the industry's documented median and
// bump an uncertainty counter that feeds the confidence score downstream.
package answers

import (
	"strconv"
	"strings"
)

// NotSure is the sentinel option every select question offers.
const NotSure = "not_sure"

// Answers is the raw question-id -> answer mapping as decoded from JSON.
// Values may be strings, numbers, bools, or []any for multi-selects.
type Answers map[string]any

// Resolver extracts typed answers against a set of per-industry medians,
// tracking which questions had to fall back to a default.
type Resolver struct {
	raw      Answers
	medians  map[string]any
	uncerta  int
	defaults []string
}

// NewResolver builds a resolver over a raw answer map. medians supplies the
// documented default per question id; questions without a median entry default
// to the zero value of the requested type.
func NewResolver(raw Answers, medians map[string]any) *Resolver {
	if raw == nil {
		raw = Answers{}
	}
	if medians == nil {
		medians = map[string]any{}
	}
	return &Resolver{raw: raw, medians: medians}
}

// Uncertainty reports how many answers resolved via a default.
func (r *Resolver) Uncertainty() int { return r.uncerta }

// DefaultedQuestions lists the question ids that fell back to their median.
func (r *Resolver) DefaultedQuestions() []string { return r.defaults }

// Known reports whether the question was answered with a specific value
// (present, non-empty, and not "not_sure"). Used by confidence scoring.
func (r *Resolver) Known(id string) bool {
	v, ok := r.raw[id]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		s = strings.TrimSpace(s)
		return s != "" && s != NotSure
	}
	return true
}

// Enum resolves a select-type answer. Any value outside the allowed set,
// including "not_sure" or a missing answer, resolves to the median default.
func (r *Resolver) Enum(id string, allowed ...string) string {
	if s, ok := r.raw[id].(string); ok {
		s = strings.TrimSpace(s)
		for _, a := range allowed {
			if s == a {
				return s
			}
		}
	}
	return r.fallbackString(id, allowed)
}

// Number resolves a numeric answer. Non-numeric, missing, or negative values
// resolve to the median default.
func (r *Resolver) Number(id string) float64 {
	if f, ok := coerceNumber(r.raw[id]); ok && f >= 0 {
		return f
	}
	return r.fallbackNumber(id)
}

// NumberIfKnown returns the numeric answer without defaulting. The second
// return is false when the answer is absent or not a valid number; callers use
// this for optional questions (e.g. a known peak load) where silence is not
// uncertainty.
func (r *Resolver) NumberIfKnown(id string) (float64, bool) {
	f, ok := coerceNumber(r.raw[id])
	if !ok || f < 0 {
		return 0, false
	}
	return f, true
}

// Set resolves a multi-select answer to its string members. An absent answer
// yields an empty set without counting as uncertainty: an empty equipment list
// is a legitimate sparse answer, guarded downstream by the topology baseline.
func (r *Resolver) Set(id string) []string {
	switch v := r.raw[id].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		if v == "" || v == NotSure {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

func (r *Resolver) fallbackString(id string, allowed []string) string {
	r.markDefault(id)
	if d, ok := r.medians[id].(string); ok {
		return d
	}
	if len(allowed) > 0 {
		return allowed[0]
	}
	return ""
}

func (r *Resolver) fallbackNumber(id string) float64 {
	r.markDefault(id)
	if f, ok := coerceNumber(r.medians[id]); ok {
		return f
	}
	return 0
}

func (r *Resolver) markDefault(id string) {
	r.uncerta++
	r.defaults = append(r.defaults, id)
}

func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" || s == NotSure {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
