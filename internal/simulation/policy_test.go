package simulation

import (
	"reflect"
	"testing"
)

func TestRunPolicyZeroEpisodes(t *testing.T) {
	report, err := RunPolicy(PolicyConfig{
		States:   []string{"s0", "s1"},
		Actions:  []string{"a0", "a1"},
		Episodes: 0,
		Seed:     1,
		Reward:   func(state, action string) float64 { return 1.0 },
	})
	if err != nil {
		t.Fatalf("zero episodes must not fail: %v", err)
	}

	if len(report.Rewards) != 0 {
		t.Fatalf("expected empty reward sequence, got %d", len(report.Rewards))
	}
	if report.MeanReward != 0 {
		t.Fatalf("expected zero mean reward, got %v", report.MeanReward)
	}
	for state, row := range report.QTable {
		for action, q := range row {
			if q != 0 {
				t.Fatalf("Q[%s][%s] should be zero, got %v", state, action, q)
			}
		}
	}
}

func TestRunPolicyLearnsBetterAction(t *testing.T) {
	report, err := RunPolicy(PolicyConfig{
		States:   []string{"young", "mature"},
		Actions:  []string{"control", "boosted"},
		Episodes: 500,
		Seed:     9,
		Reward: func(state, action string) float64 {
			if action == "boosted" {
				return 1.0
			}
			return 0.0
		},
	})
	if err != nil {
		t.Fatalf("policy failed: %v", err)
	}

	for _, state := range []string{"young", "mature"} {
		if report.QTable[state]["boosted"] <= report.QTable[state]["control"] {
			t.Fatalf("state %q: rewarding action should dominate: %#v", state, report.QTable[state])
		}
	}
	if report.MeanReward <= 0.5 {
		t.Fatalf("mean reward should exceed 0.5 once learned, got %v", report.MeanReward)
	}
}

func TestRunPolicyMeanReward(t *testing.T) {
	report, err := RunPolicy(PolicyConfig{
		States:   []string{"s"},
		Actions:  []string{"a"},
		Episodes: 10,
		Seed:     1,
		Reward:   func(state, action string) float64 { return 2.0 },
	})
	if err != nil {
		t.Fatalf("policy failed: %v", err)
	}
	if report.MeanReward != 2.0 {
		t.Fatalf("expected mean reward 2.0, got %v", report.MeanReward)
	}
	if len(report.Rewards) != 10 {
		t.Fatalf("expected 10 rewards, got %d", len(report.Rewards))
	}
}

func TestRunPolicyDeterministic(t *testing.T) {
	cfg := PolicyConfig{
		States:   []string{"s0", "s1", "s2"},
		Actions:  []string{"a0", "a1"},
		Episodes: 200,
		Seed:     77,
		Reward: func(state, action string) float64 {
			if state == "s1" && action == "a1" {
				return 1.0
			}
			return 0.2
		},
	}

	first, err := RunPolicy(cfg)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := RunPolicy(cfg)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical seeds must produce bit-identical reports")
	}
}

func TestRunPolicyRequiresSpaces(t *testing.T) {
	if _, err := RunPolicy(PolicyConfig{Actions: []string{"a"}, Reward: func(s, a string) float64 { return 0 }}); err == nil {
		t.Fatal("expected error for empty state space")
	}
	if _, err := RunPolicy(PolicyConfig{States: []string{"s"}, Reward: func(s, a string) float64 { return 0 }}); err == nil {
		t.Fatal("expected error for empty action space")
	}
}
