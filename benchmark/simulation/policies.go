package simulation

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/hoardlabs/hoard"
)

// UCB1 builds a policy backed by the production router with the given
// exploration coefficient.
func UCB1(exploration float64) PolicyFactory {
	name := fmt.Sprintf("ucb1(c=%.2g)", exploration)
	return PolicyFactory{
		Name: name,
		New: func(armIDs []string, rng *rand.Rand) Policy {
			candidates := make([]hoard.Candidate, len(armIDs))
			for i, id := range armIDs {
				candidates[i] = hoard.Candidate{ID: id}
			}
			router, err := hoard.New(context.Background(), candidates,
				hoard.WithExploration(exploration),
			)
			if err != nil {
				// Arms are non-empty by construction.
				panic(err)
			}
			return &ucb1Policy{name: name, router: router}
		},
	}
}

type ucb1Policy struct {
	name   string
	router *hoard.Router
}

func (p *ucb1Policy) Name() string { return p.name }

func (p *ucb1Policy) Pick() string {
	return p.router.Select().ID
}

func (p *ucb1Policy) Observe(id string, reward float64) {
	// No checkpoint store is configured, so this cannot fail.
	_ = p.router.RecordReward(context.Background(), id, reward)
}

// EpsilonGreedy builds a policy that plays the best-known arm except for
// an epsilon fraction of uniformly random exploration plays.
func EpsilonGreedy(epsilon float64) PolicyFactory {
	name := fmt.Sprintf("epsilon-greedy(e=%.2g)", epsilon)
	return PolicyFactory{
		Name: name,
		New: func(armIDs []string, rng *rand.Rand) Policy {
			return &epsilonGreedyPolicy{
				name:    name,
				epsilon: epsilon,
				rng:     rng,
				arms:    armIDs,
				state:   make(map[string]hoard.Stats, len(armIDs)),
			}
		},
	}
}

type epsilonGreedyPolicy struct {
	name    string
	epsilon float64
	rng     *rand.Rand
	arms    []string
	state   map[string]hoard.Stats
}

func (p *epsilonGreedyPolicy) Name() string { return p.name }

func (p *epsilonGreedyPolicy) Pick() string {
	if p.rng.Float64() < p.epsilon {
		return p.arms[p.rng.Intn(len(p.arms))]
	}

	best := p.arms[0]
	bestMean := p.state[best].MeanReward()
	for _, id := range p.arms[1:] {
		if mean := p.state[id].MeanReward(); mean > bestMean {
			best = id
			bestMean = mean
		}
	}
	return best
}

func (p *epsilonGreedyPolicy) Observe(id string, reward float64) {
	s := p.state[id]
	s.Pulls++
	s.RewardSum += reward
	p.state[id] = s
}

// UniformRandom builds a baseline policy that ignores rewards entirely.
func UniformRandom() PolicyFactory {
	return PolicyFactory{
		Name: "uniform-random",
		New: func(armIDs []string, rng *rand.Rand) Policy {
			return &uniformPolicy{arms: armIDs, rng: rng}
		},
	}
}

type uniformPolicy struct {
	arms []string
	rng  *rand.Rand
}

func (p *uniformPolicy) Name() string { return "uniform-random" }

func (p *uniformPolicy) Pick() string {
	return p.arms[p.rng.Intn(len(p.arms))]
}

func (p *uniformPolicy) Observe(string, float64) {}
