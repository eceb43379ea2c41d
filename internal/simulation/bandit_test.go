package simulation

import (
	"reflect"
	"testing"
)

func TestRunBanditSingleArm(t *testing.T) {
	report, err := RunBandit(BanditConfig{
		Arms:   []string{"only"},
		Rounds: 50,
		Seed:   7,
		Reward: func(arm, context string) float64 { return 1.0 },
	})
	if err != nil {
		t.Fatalf("bandit failed: %v", err)
	}

	if len(report.Selections) != 50 {
		t.Fatalf("expected 50 selections, got %d", len(report.Selections))
	}
	for _, sel := range report.Selections {
		if sel.Arm != "only" {
			t.Fatalf("single arm must always be selected, got %q", sel.Arm)
		}
	}

	var sum float64
	for _, r := range report.RewardsByArm["only"] {
		sum += r
	}
	if sum != report.TotalReward {
		t.Fatalf("total reward %v != sum of arm rewards %v", report.TotalReward, sum)
	}
	if report.TotalReward != 50 {
		t.Fatalf("expected total reward 50, got %v", report.TotalReward)
	}
}

func TestRunBanditZeroRounds(t *testing.T) {
	report, err := RunBandit(BanditConfig{
		Arms:   []string{"a", "b"},
		Rounds: 0,
		Seed:   1,
		Reward: func(arm, context string) float64 { return 1.0 },
	})
	if err != nil {
		t.Fatalf("zero rounds must not fail: %v", err)
	}
	if len(report.Selections) != 0 || report.TotalReward != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
	for arm, p := range report.Posteriors {
		if p.Alpha != 1 || p.Beta != 1 {
			t.Fatalf("arm %q posterior should stay at the uniform prior: %+v", arm, p)
		}
	}
}

func TestRunBanditUpdatesPosteriors(t *testing.T) {
	report, err := RunBandit(BanditConfig{
		Arms:   []string{"good", "bad"},
		Rounds: 300,
		Seed:   11,
		Reward: func(arm, context string) float64 {
			if arm == "good" {
				return 1.0
			}
			return 0.0
		},
	})
	if err != nil {
		t.Fatalf("bandit failed: %v", err)
	}

	good := report.Posteriors["good"]
	bad := report.Posteriors["bad"]
	if good.Alpha <= bad.Alpha {
		t.Fatalf("rewarding arm should accumulate alpha: good=%+v bad=%+v", good, bad)
	}
	if bad.Alpha != 1 {
		t.Fatalf("zero-reward arm must only accumulate beta: %+v", bad)
	}
}

func TestRunBanditContextCycling(t *testing.T) {
	contexts := []string{"c0", "c1", "c2"}
	report, err := RunBandit(BanditConfig{
		Arms:     []string{"a"},
		Contexts: contexts,
		Rounds:   7,
		Seed:     3,
		Reward:   func(arm, context string) float64 { return 1.0 },
	})
	if err != nil {
		t.Fatalf("bandit failed: %v", err)
	}

	for i, sel := range report.Selections {
		if sel.Context != contexts[i%len(contexts)] {
			t.Fatalf("round %d: expected context %q, got %q", i, contexts[i%len(contexts)], sel.Context)
		}
	}
}

func TestRunBanditDeterministic(t *testing.T) {
	cfg := BanditConfig{
		Arms:   []string{"x", "y", "z"},
		Rounds: 100,
		Seed:   42,
		Reward: func(arm, context string) float64 {
			if arm == "y" {
				return 1.0
			}
			return 0.0
		},
	}

	first, err := RunBandit(cfg)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := RunBandit(cfg)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical seeds must produce bit-identical reports")
	}
}

func TestRunBanditRequiresArms(t *testing.T) {
	if _, err := RunBandit(BanditConfig{Rounds: 1, Reward: func(a, c string) float64 { return 0 }}); err == nil {
		t.Fatal("expected error for empty arm set")
	}
}
