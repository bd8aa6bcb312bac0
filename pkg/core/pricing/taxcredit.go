package pricing

import (
	"sort"

	"bessquote/pkg/core/reference"
)

// TaxCreditAdder is one qualification-based rate increment.
type TaxCreditAdder struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// TaxCreditResult is the computed investment tax credit.
type TaxCreditResult struct {
	BaseRate     float64          `json:"base_rate"`
	Adders       []TaxCreditAdder `json:"adders,omitempty"`
	TotalRate    float64          `json:"total_rate"`
	CreditAmount float64          `json:"credit_amount"`
}

// ComputeTaxCredit stacks the federal base rate with each qualifying adder
// found in the qualifications set, capping the total rate at the documented
// maximum. Unknown qualification keys are ignored.
func ComputeTaxCredit(t *reference.Tables, grossCost float64, qualifications []string) TaxCreditResult {
	rules := t.TaxCredit
	result := TaxCreditResult{BaseRate: rules.BaseRate, TotalRate: rules.BaseRate}

	// Deterministic adder order regardless of caller ordering.
	quals := append([]string(nil), qualifications...)
	sort.Strings(quals)
	seen := map[string]bool{}
	for _, q := range quals {
		rate, ok := rules.Adders[q]
		if !ok || seen[q] {
			continue
		}
		seen[q] = true
		result.Adders = append(result.Adders, TaxCreditAdder{Name: q, Rate: rate})
		result.TotalRate += rate
	}

	if result.TotalRate > rules.MaxTotal {
		result.TotalRate = rules.MaxTotal
	}
	if grossCost < 0 {
		grossCost = 0
	}
	result.CreditAmount = result.TotalRate * grossCost
	return result
}
