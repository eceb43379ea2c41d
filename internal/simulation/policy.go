package simulation

import (
	"errors"
	"math/rand"
)

// Fixed Q-learning hyperparameters. Design constants, not configuration.
const (
	epsilon      = 0.1
	learningRate = 0.1
)

// PolicyConfig parameterises one tabular Q-learning simulation run.
type PolicyConfig struct {
	States   []string
	Actions  []string
	Episodes int
	Seed     int64
	Reward   RewardFunc
}

// PolicyReport is the full output of a Q-learning run.
type PolicyReport struct {
	QTable     map[string]map[string]float64 `json:"qTable"`
	Rewards    []float64                     `json:"rewards"`
	MeanReward float64                       `json:"meanReward"`
}

// RunPolicy simulates an epsilon-greedy tabular Q-learning policy over
// a finite state/action space. States are visited by cycling through
// the state list; actions are epsilon-greedy with first-encountered
// argmax tie-breaking; updates use Q += alpha*(reward - Q). Zero
// episodes yields an empty reward sequence and an all-zero table.
func RunPolicy(cfg PolicyConfig) (PolicyReport, error) {
	if len(cfg.States) == 0 || len(cfg.Actions) == 0 {
		return PolicyReport{}, errors.New("simulation: states and actions required")
	}
	if cfg.Reward == nil {
		return PolicyReport{}, errors.New("simulation: reward function required")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	qtable := make(map[string]map[string]float64, len(cfg.States))
	for _, state := range cfg.States {
		row := make(map[string]float64, len(cfg.Actions))
		for _, action := range cfg.Actions {
			row[action] = 0
		}
		qtable[state] = row
	}

	report := PolicyReport{
		QTable:  qtable,
		Rewards: make([]float64, 0, cfg.Episodes),
	}

	for episode := 0; episode < cfg.Episodes; episode++ {
		state := cfg.States[episode%len(cfg.States)]

		var action string
		if rng.Float64() < epsilon {
			action = cfg.Actions[rng.Intn(len(cfg.Actions))]
		} else {
			action = greedyAction(qtable[state], cfg.Actions)
		}

		reward := cfg.Reward(state, action)
		qtable[state][action] += learningRate * (reward - qtable[state][action])
		report.Rewards = append(report.Rewards, reward)
		report.MeanReward += reward
	}

	if len(report.Rewards) > 0 {
		report.MeanReward /= float64(len(report.Rewards))
	}
	return report, nil
}

// greedyAction picks the argmax action, first-encountered on ties.
func greedyAction(row map[string]float64, actions []string) string {
	best := actions[0]
	bestValue := row[best]
	for _, action := range actions[1:] {
		if row[action] > bestValue {
			best = action
			bestValue = row[action]
		}
	}
	return best
}
