package simulation

import (
	"errors"
	"math/rand"
)

// RewardFunc supplies the observed reward for pulling an arm in a
// context. In production this is real performance feedback; in tests
// and offline simulation it is a deterministic stand-in.
type RewardFunc func(arm, context string) float64

// ArmPosterior holds the Beta-distribution parameters for one arm.
type ArmPosterior struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// BanditConfig parameterises one Thompson-sampling simulation run.
type BanditConfig struct {
	Arms     []string
	Contexts []string
	Rounds   int
	Seed     int64
	Reward   RewardFunc
}

// BanditSelection records one round of the simulation.
type BanditSelection struct {
	Round   int     `json:"round"`
	Context string  `json:"context"`
	Arm     string  `json:"arm"`
	Reward  float64 `json:"reward"`
}

// BanditReport is the full output of a simulation run.
type BanditReport struct {
	Selections   []BanditSelection       `json:"selections"`
	RewardsByArm map[string][]float64    `json:"rewardsByArm"`
	Posteriors   map[string]ArmPosterior `json:"posteriors"`
	TotalReward  float64                 `json:"totalReward"`
}

// RunBandit simulates a Thompson-sampling contextual bandit over a
// discrete arm set against a cyclic context sequence. Each arm starts
// at Beta(1,1); per round every arm is sampled in declaration order,
// the largest sample wins (first-encountered on a tie), the reward is
// observed, and alpha or beta is bumped depending on reward sign.
// Output is bit-identical for a given seed.
func RunBandit(cfg BanditConfig) (BanditReport, error) {
	if len(cfg.Arms) == 0 {
		return BanditReport{}, errors.New("simulation: at least one arm required")
	}
	if cfg.Reward == nil {
		return BanditReport{}, errors.New("simulation: reward function required")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	posteriors := make(map[string]ArmPosterior, len(cfg.Arms))
	rewards := make(map[string][]float64, len(cfg.Arms))
	for _, arm := range cfg.Arms {
		posteriors[arm] = ArmPosterior{Alpha: 1, Beta: 1}
		rewards[arm] = []float64{}
	}

	report := BanditReport{
		Selections:   make([]BanditSelection, 0, cfg.Rounds),
		RewardsByArm: rewards,
		Posteriors:   posteriors,
	}

	for round := 0; round < cfg.Rounds; round++ {
		context := ""
		if len(cfg.Contexts) > 0 {
			context = cfg.Contexts[round%len(cfg.Contexts)]
		}

		chosen := cfg.Arms[0]
		bestSample := -1.0
		for _, arm := range cfg.Arms {
			p := posteriors[arm]
			sample := sampleBeta(rng, p.Alpha, p.Beta)
			if sample > bestSample {
				bestSample = sample
				chosen = arm
			}
		}

		reward := cfg.Reward(chosen, context)
		p := posteriors[chosen]
		if reward > 0 {
			p.Alpha++
		} else {
			p.Beta++
		}
		posteriors[chosen] = p

		rewards[chosen] = append(rewards[chosen], reward)
		report.TotalReward += reward
		report.Selections = append(report.Selections, BanditSelection{
			Round:   round,
			Context: context,
			Arm:     chosen,
			Reward:  reward,
		})
	}

	return report, nil
}
