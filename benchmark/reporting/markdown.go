// Package reporting provides report generation for policy benchmark
// results.
package reporting

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hoardlabs/hoard/benchmark/analysis"
	"github.com/hoardlabs/hoard/benchmark/simulation"
)

// MarkdownReport generates benchmark reports in Markdown format.
type MarkdownReport struct {
	w io.Writer
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w}
}

// WriteHeader writes the report header.
func (r *MarkdownReport) WriteHeader(title string) {
	fmt.Fprintf(r.w, "# %s\n\n", title)
	fmt.Fprintf(r.w, "Generated: %s\n\n", time.Now().Format(time.RFC3339))
}

// WriteMethodology writes the methodology section.
func (r *MarkdownReport) WriteMethodology(arms, trials, rounds int) {
	fmt.Fprintln(r.w, "## Methodology")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Arms:** %d synthetic candidates with gaussian rewards\n", arms)
	fmt.Fprintf(r.w, "- **Trials:** %d independent runs per policy\n", trials)
	fmt.Fprintf(r.w, "- **Rounds per trial:** %d\n", rounds)
	fmt.Fprintln(r.w, "- **Metric:** Cumulative regret against the best arm (lower is better)")
	fmt.Fprintln(r.w, "- **Statistical tests:** Mann-Whitney U (non-parametric), Cohen's d effect size")
	fmt.Fprintln(r.w)
}

// WriteSummaryTable writes the summary comparison table.
func (r *MarkdownReport) WriteSummaryTable(results map[string]*simulation.AggregateResult) {
	fmt.Fprintln(r.w, "## Summary")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Policy | Mean Final Regret | Median | P90 | Best-Arm Rate |")
	fmt.Fprintln(r.w, "|--------|-------------------|--------|-----|---------------|")

	for name, res := range results {
		metrics := simulation.ComputeMetrics(res)
		fmt.Fprintf(r.w, "| %s | %.2f | %.2f | %.2f | %.1f%% |\n",
			name, metrics.MeanFinalRegret, metrics.MedianFinalRegret,
			metrics.P90FinalRegret, metrics.BestArmRate)
	}
	fmt.Fprintln(r.w)
}

// WriteComparison writes a detailed comparison section.
func (r *MarkdownReport) WriteComparison(comp *analysis.PolicyComparison) {
	fmt.Fprintf(r.w, "## %s vs %s\n\n", comp.Policy1, comp.Policy2)

	fmt.Fprintln(r.w, "### Descriptive Statistics")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Metric | "+comp.Policy1+" | "+comp.Policy2+" |")
	fmt.Fprintln(r.w, "|--------|"+strings.Repeat("-", len(comp.Policy1)+2)+"|"+strings.Repeat("-", len(comp.Policy2)+2)+"|")
	fmt.Fprintf(r.w, "| Mean | %.2f | %.2f |\n", comp.Stats1.Mean, comp.Stats2.Mean)
	fmt.Fprintf(r.w, "| Median | %.2f | %.2f |\n", comp.Stats1.Median, comp.Stats2.Median)
	fmt.Fprintf(r.w, "| Std Dev | %.2f | %.2f |\n", comp.Stats1.StdDev, comp.Stats2.StdDev)
	fmt.Fprintf(r.w, "| Min | %.2f | %.2f |\n", comp.Stats1.Min, comp.Stats2.Min)
	fmt.Fprintf(r.w, "| Max | %.2f | %.2f |\n", comp.Stats1.Max, comp.Stats2.Max)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Statistical Analysis")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Mann-Whitney U:** %.2f (z=%.2f, p=%.4f)\n",
		comp.MannWhitney.U, comp.MannWhitney.Z, comp.MannWhitney.PValue)
	fmt.Fprintf(r.w, "- **Effect size (Cohen's d):** %.2f (%s)\n",
		comp.EffectSize.CohensD, comp.EffectSize.Interpretation)
	fmt.Fprintf(r.w, "- **%.0f%% CI for mean difference:** [%.2f, %.2f]\n",
		comp.BootstrapCI.Confidence*100, comp.BootstrapCI.LowerBound, comp.BootstrapCI.UpperBound)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Conclusion")
	fmt.Fprintln(r.w)
	if comp.WinnerConfident {
		fmt.Fprintf(r.w, "**%s** shows statistically significant improvement over %s ",
			comp.Winner, otherPolicy(comp.Winner, comp.Policy1, comp.Policy2))
		fmt.Fprintf(r.w, "(p < 0.05, effect size: %s).\n", comp.EffectSize.Interpretation)
	} else {
		fmt.Fprintln(r.w, "No statistically significant difference detected between policies (p >= 0.05).")
	}
	fmt.Fprintln(r.w)
}

func otherPolicy(winner, p1, p2 string) string {
	if winner == p1 {
		return p2
	}
	return p1
}

// WriteDistributionChart writes an ASCII histogram of final regrets.
func (r *MarkdownReport) WriteDistributionChart(name string, data []float64) {
	fmt.Fprintf(r.w, "### %s Final Regret Distribution\n\n", name)
	fmt.Fprintln(r.w, "```")

	buckets := 10
	hist, lo, hi := makeHistogram(data, buckets)
	maxCount := 0
	for _, count := range hist {
		if count > maxCount {
			maxCount = count
		}
	}

	width := 40
	bucketSize := (hi - lo) / float64(buckets)
	for i, count := range hist {
		barLen := 0
		if maxCount > 0 {
			barLen = count * width / maxCount
		}
		bar := strings.Repeat("█", barLen)
		fmt.Fprintf(r.w, "%7.2f-%7.2f │ %s %d\n",
			lo+float64(i)*bucketSize, lo+float64(i+1)*bucketSize, bar, count)
	}

	fmt.Fprintln(r.w, "```")
	fmt.Fprintln(r.w)
}

func makeHistogram(data []float64, buckets int) ([]int, float64, float64) {
	hist := make([]int, buckets)
	if len(data) == 0 {
		return hist, 0, 0
	}

	lo, hi := data[0], data[0]
	for _, v := range data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	bucketSize := (hi - lo) / float64(buckets)
	for _, v := range data {
		bucket := int((v - lo) / bucketSize)
		if bucket >= buckets {
			bucket = buckets - 1
		}
		hist[bucket]++
	}

	return hist, lo, hi
}

// WriteFooter writes the report footer.
func (r *MarkdownReport) WriteFooter() {
	fmt.Fprintln(r.w, "---")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "*Report generated by hoard-bench*")
}
