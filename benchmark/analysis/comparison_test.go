package analysis

import (
	"strings"
	"testing"

	"github.com/hoardlabs/hoard/benchmark/simulation"
)

func aggregate(name string, regrets []float64) *simulation.AggregateResult {
	var mean float64
	for _, r := range regrets {
		mean += r
	}
	if len(regrets) > 0 {
		mean /= float64(len(regrets))
	}
	return &simulation.AggregateResult{
		PolicyName:      name,
		Trials:          len(regrets),
		FinalRegrets:    regrets,
		MeanFinalRegret: mean,
	}
}

func TestComparePolicies(t *testing.T) {
	good := aggregate("adaptive", []float64{1, 2, 1.5, 2.5, 2})
	bad := aggregate("random", []float64{20, 22, 19, 21, 23})

	comp := ComparePolicies(good, bad, 1000, 0.95)

	if comp.Winner != "adaptive" {
		t.Errorf("Winner = %q, want adaptive (lower regret)", comp.Winner)
	}
	if !comp.WinnerConfident {
		t.Error("WinnerConfident = false, want true for well-separated samples")
	}
	if comp.Stats1.Mean >= comp.Stats2.Mean {
		t.Errorf("Stats1.Mean = %v, Stats2.Mean = %v, want first lower", comp.Stats1.Mean, comp.Stats2.Mean)
	}

	summary := comp.Summary()
	for _, want := range []string{"adaptive", "random", "Effect size"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary() missing %q:\n%s", want, summary)
		}
	}
}

func TestComparePoliciesTie(t *testing.T) {
	a := aggregate("a", []float64{5, 5, 5})
	b := aggregate("b", []float64{5, 5, 5})

	comp := ComparePolicies(a, b, 100, 0.95)
	if comp.Winner != "tie" {
		t.Errorf("Winner = %q, want tie", comp.Winner)
	}
	if comp.WinnerConfident {
		t.Error("WinnerConfident = true for identical samples")
	}
}

func TestCompareAll(t *testing.T) {
	results := map[string]*simulation.AggregateResult{
		"baseline": aggregate("baseline", []float64{10, 11, 12}),
		"fast":     aggregate("fast", []float64{1, 2, 3}),
		"slow":     aggregate("slow", []float64{30, 31, 32}),
	}

	multi := CompareAll(results, "baseline", 100, 0.95)
	if multi == nil {
		t.Fatal("CompareAll returned nil for present baseline")
	}
	if len(multi.Comparisons) != 2 {
		t.Errorf("Comparisons = %d, want 2", len(multi.Comparisons))
	}

	if got := CompareAll(results, "missing", 100, 0.95); got != nil {
		t.Errorf("CompareAll with missing baseline = %v, want nil", got)
	}
}
