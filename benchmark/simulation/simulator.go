// Package simulation provides tools for simulating selection policies
// against synthetic candidate reward distributions.
package simulation

import (
	"math/rand"
)

// Arm is a synthetic candidate with a gaussian reward distribution.
// Drawn rewards are clamped to [0, 1].
type Arm struct {
	ID     string
	Mean   float64
	StdDev float64
}

// Policy is a selection policy under test. A fresh instance is built for
// every trial so trials stay independent.
type Policy interface {
	// Name identifies the policy in results and reports.
	Name() string

	// Pick returns the arm to play next.
	Pick() string

	// Observe feeds the reward for a played arm back into the policy.
	Observe(id string, reward float64)
}

// PolicyFactory builds a fresh Policy per trial.
type PolicyFactory struct {
	Name string
	New  func(armIDs []string, rng *rand.Rand) Policy
}

// Simulator runs selection policies over a fixed set of arms.
type Simulator struct {
	arms   []Arm
	rounds int
	seed   int64
}

// NewSimulator creates a Simulator. Each trial plays the given number of
// rounds; the seed makes whole runs reproducible.
func NewSimulator(arms []Arm, rounds int, seed int64) *Simulator {
	return &Simulator{
		arms:   arms,
		rounds: rounds,
		seed:   seed,
	}
}

// TrialResult contains the play sequence for a single trial.
type TrialResult struct {
	PolicyName       string
	Picks            []string  // Arm IDs in play order.
	Rewards          []float64 // Observed reward per round.
	CumulativeRegret []float64 // Regret against the best arm, per round.
	BestArmPicks     int       // Rounds where the best arm was played.
}

// RunTrial plays one trial of a fresh policy instance.
func (s *Simulator) RunTrial(factory PolicyFactory, trial int) *TrialResult {
	rng := rand.New(rand.NewSource(s.seed + int64(trial)))
	policy := factory.New(s.armIDs(), rng)

	byID := make(map[string]Arm, len(s.arms))
	bestMean := 0.0
	bestID := ""
	for _, arm := range s.arms {
		byID[arm.ID] = arm
		if arm.Mean > bestMean || bestID == "" {
			bestMean = arm.Mean
			bestID = arm.ID
		}
	}

	result := &TrialResult{
		PolicyName:       policy.Name(),
		Picks:            make([]string, 0, s.rounds),
		Rewards:          make([]float64, 0, s.rounds),
		CumulativeRegret: make([]float64, 0, s.rounds),
	}

	var regret float64
	for round := 0; round < s.rounds; round++ {
		id := policy.Pick()
		arm := byID[id]

		reward := clamp01(arm.Mean + rng.NormFloat64()*arm.StdDev)
		policy.Observe(id, reward)

		regret += bestMean - arm.Mean
		result.Picks = append(result.Picks, id)
		result.Rewards = append(result.Rewards, reward)
		result.CumulativeRegret = append(result.CumulativeRegret, regret)
		if id == bestID {
			result.BestArmPicks++
		}
	}

	return result
}

// RunTrials plays several independent trials and aggregates results.
func (s *Simulator) RunTrials(factory PolicyFactory, trials int) *AggregateResult {
	agg := &AggregateResult{
		PolicyName:   factory.Name,
		Rounds:       s.rounds,
		Trials:       trials,
		ArmPicks:     make(map[string]int),
		FinalRegrets: make([]float64, 0, trials),
	}

	var bestArmPicks int
	for trial := 0; trial < trials; trial++ {
		tr := s.RunTrial(factory, trial)
		var final float64
		if n := len(tr.CumulativeRegret); n > 0 {
			final = tr.CumulativeRegret[n-1]
		}
		agg.FinalRegrets = append(agg.FinalRegrets, final)
		bestArmPicks += tr.BestArmPicks
		for _, id := range tr.Picks {
			agg.ArmPicks[id]++
		}
	}

	totalPlays := trials * s.rounds
	if totalPlays > 0 {
		agg.BestArmRate = float64(bestArmPicks) / float64(totalPlays) * 100
	}
	for _, regret := range agg.FinalRegrets {
		agg.MeanFinalRegret += regret
	}
	if trials > 0 {
		agg.MeanFinalRegret /= float64(trials)
	}

	return agg
}

func (s *Simulator) armIDs() []string {
	ids := make([]string, len(s.arms))
	for i, arm := range s.arms {
		ids[i] = arm.ID
	}
	return ids
}

// AggregateResult contains results aggregated across trials.
type AggregateResult struct {
	PolicyName      string
	Rounds          int
	Trials          int
	MeanFinalRegret float64
	BestArmRate     float64        // Percentage of plays on the best arm.
	ArmPicks        map[string]int // Arm ID -> total plays across trials.
	FinalRegrets    []float64      // Final regret per trial, for statistics.
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
