package simulation

import (
	"sort"
)

// Metrics contains computed metrics from simulation results.
type Metrics struct {
	// Core metrics.
	Trials          int
	Rounds          int
	MeanFinalRegret float64
	BestArmRate     float64

	// Distribution of final regret across trials.
	MedianFinalRegret float64
	P90FinalRegret    float64
	MinFinalRegret    float64
	MaxFinalRegret    float64

	// Play distribution.
	PickConcentration float64 // Gini coefficient of per-arm play counts.
	TopArmPct         float64 // Percentage of plays on the single most-played arm.
}

// ComputeMetrics computes detailed metrics from aggregate results.
func ComputeMetrics(result *AggregateResult) *Metrics {
	m := &Metrics{
		Trials:          result.Trials,
		Rounds:          result.Rounds,
		MeanFinalRegret: result.MeanFinalRegret,
		BestArmRate:     result.BestArmRate,
	}

	if len(result.FinalRegrets) > 0 {
		sorted := make([]float64, len(result.FinalRegrets))
		copy(sorted, result.FinalRegrets)
		sort.Float64s(sorted)

		m.MinFinalRegret = sorted[0]
		m.MaxFinalRegret = sorted[len(sorted)-1]
		m.MedianFinalRegret = percentile(sorted, 50)
		m.P90FinalRegret = percentile(sorted, 90)
	}

	if len(result.ArmPicks) > 0 {
		m.PickConcentration = computeGini(result.ArmPicks)
		m.TopArmPct = computeTopArmPct(result.ArmPicks, result.Trials*result.Rounds)
	}

	return m
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * p / 100)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// computeGini measures how unevenly plays are spread over the arms.
// 0 is an even spread; values near 1 mean one arm dominates.
func computeGini(picks map[string]int) float64 {
	if len(picks) == 0 {
		return 0
	}

	values := make([]int, 0, len(picks))
	for _, v := range picks {
		values = append(values, v)
	}
	sort.Ints(values)

	n := float64(len(values))
	var sum, cumulativeSum float64
	for i, v := range values {
		sum += float64(v)
		cumulativeSum += float64(i+1) * float64(v)
	}

	if sum == 0 {
		return 0
	}

	return (2*cumulativeSum)/(n*sum) - (n+1)/n
}

func computeTopArmPct(picks map[string]int, totalPlays int) float64 {
	if totalPlays == 0 {
		return 0
	}

	top := 0
	for _, v := range picks {
		if v > top {
			top = v
		}
	}
	return float64(top) / float64(totalPlays) * 100
}

// MetricsComparison contains differences between two policies.
type MetricsComparison struct {
	Policy1 string
	Policy2 string

	RegretDiff        float64 // Positive means Policy1 accumulates more regret.
	RegretDiffPct     float64
	BestArmRateDiff   float64
	ConcentrationDiff float64
}

// Compare compares two metrics and returns the differences.
func Compare(m1, m2 *Metrics, name1, name2 string) *MetricsComparison {
	return &MetricsComparison{
		Policy1:           name1,
		Policy2:           name2,
		RegretDiff:        m1.MeanFinalRegret - m2.MeanFinalRegret,
		RegretDiffPct:     safeDiffPct(m1.MeanFinalRegret, m2.MeanFinalRegret),
		BestArmRateDiff:   m1.BestArmRate - m2.BestArmRate,
		ConcentrationDiff: m1.PickConcentration - m2.PickConcentration,
	}
}

func safeDiffPct(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return (a - b) / b * 100
}
