// Package report renders a quote result as a markdown summary and as HTML
// for the on-screen summary view.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"bessquote/pkg/core/quote"
	"bessquote/pkg/core/verify"
)

// md renders with GFM enabled so the cost and system tables convert.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders the headline summary, cost table, and any warnings as a
// markdown document.
func Markdown(r *quote.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Battery Storage Estimate\n\n")
	fmt.Fprintf(&b, "Quote `%s`: industry **%s**, state **%s**, confidence **%.0f%%** (%s)\n\n",
		r.ID, r.Industry, orDash(r.State), r.Confidence*100, r.Load.ConfidenceLabel)

	fmt.Fprintf(&b, "## System\n\n")
	fmt.Fprintf(&b, "| Figure | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Peak demand | %.0f kW |\n", r.Load.PeakDemandKW)
	fmt.Fprintf(&b, "| Recommended power | %.0f kW |\n", r.Spec.PowerKW)
	fmt.Fprintf(&b, "| Energy capacity | %.0f kWh |\n", r.Spec.EnergyKWh)
	fmt.Fprintf(&b, "| Duration | %.1f h |\n", r.Spec.DurationHours)
	fmt.Fprintf(&b, "| Chemistry | %s |\n", r.Spec.Chemistry)

	fmt.Fprintf(&b, "\n## Costs\n\n")
	fmt.Fprintf(&b, "| Line item | USD |\n|---|---|\n")
	fmt.Fprintf(&b, "| Battery | %s |\n", usd(r.Costs.BatteryCost))
	fmt.Fprintf(&b, "| Power conversion | %s |\n", usd(r.Costs.PCSCost))
	fmt.Fprintf(&b, "| Transformer | %s |\n", usd(r.Costs.TransformerCost))
	fmt.Fprintf(&b, "| Switchgear | %s |\n", usd(r.Costs.SwitchgearCost))
	if r.Costs.SolarCost > 0 {
		fmt.Fprintf(&b, "| Solar | %s |\n", usd(r.Costs.SolarCost))
	}
	if r.Costs.GeneratorCost > 0 {
		fmt.Fprintf(&b, "| Generator | %s |\n", usd(r.Costs.GeneratorCost))
	}
	fmt.Fprintf(&b, "| Balance of system | %s |\n", usd(r.Costs.BOSCost))
	fmt.Fprintf(&b, "| EMS / controls | %s |\n", usd(r.Costs.EMSCost))
	fmt.Fprintf(&b, "| Installation & EPC | %s |\n", usd(r.Costs.InstallationCost+r.Costs.EPCCost))
	fmt.Fprintf(&b, "| **Total installed** | **%s** |\n", usd(r.Costs.TotalInstalledCost))
	fmt.Fprintf(&b, "| Tax credit (%.0f%%) | -%s |\n", r.TaxCredit.TotalRate*100, usd(r.TaxCredit.CreditAmount))

	fmt.Fprintf(&b, "\n## Financials\n\n")
	if r.Financials.NonViable {
		fmt.Fprintf(&b, "At current rates this project does not generate positive annual savings; payback is not shown.\n")
	} else {
		fmt.Fprintf(&b, "Annual savings %s, simple payback %.1f years.\n", usd(r.Financials.AnnualSavingsUSD), r.Financials.PaybackYears)
		if r.Financials.NPV != nil {
			fmt.Fprintf(&b, "NPV over %d years: %s.\n", r.Financials.ProjectYears, usd(*r.Financials.NPV))
		}
	}
	if r.Financials.CO2AvoidedTonsYear > 0 {
		fmt.Fprintf(&b, "Estimated CO2 avoided: %.1f t/year.\n", r.Financials.CO2AvoidedTonsYear)
	}

	warnings := append([]string(nil), r.Load.Warnings...)
	for _, d := range r.Deviations {
		if d.Severity == verify.SeverityCritical {
			warnings = append(warnings, d.Explanation+": "+d.Recommendation)
		}
	}
	if len(warnings) > 0 {
		fmt.Fprintf(&b, "\n## Warnings\n\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	if len(r.Citations) > 0 {
		fmt.Fprintf(&b, "\n## Sources\n\n")
		for _, c := range r.Citations {
			fmt.Fprintf(&b, "- %s (%d)\n", c.Organization, c.Year)
		}
	}

	return b.String()
}

// HTML converts the markdown summary to HTML.
func HTML(r *quote.Result) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(r)), &buf); err != nil {
		return "", fmt.Errorf("render quote summary: %w", err)
	}
	return buf.String(), nil
}

func usd(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)
	var out strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(ch)
	}
	if neg {
		return "-$" + out.String()
	}
	return "$" + out.String()
}

func orDash(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
