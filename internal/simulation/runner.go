package simulation

import (
	"errors"
	"hash/fnv"
	"math/rand"

	"github.com/rs/zerolog"
)

// Baseline noise model constants. ROAS is drawn as 2.0 + N(0,0.3),
// engagement as 0.5 + N(0,0.1), CTR as 0.02 + N(0,0.005); fixed
// additive bonuses apply when the corresponding config flag is set.
const (
	baseROAS       = 2.0
	roasNoise      = 0.3
	optimizeBonus  = 0.4
	baseEngagement = 0.5
	engageNoise    = 0.1
	personalBonus  = 0.1
	baseCTR        = 0.02
	ctrNoise       = 0.005
	noveltyBonus   = 0.005
)

// Runner assembles synthetic performance series and feeds the derived
// arm/state/action spaces into the two simulators. Pure composition;
// no business logic beyond data assembly.
type Runner struct {
	logger zerolog.Logger
}

// NewRunner constructs a simulation runner.
func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{logger: logger.With().Str("component", "simulation").Logger()}
}

// CampaignConfig describes a synthetic campaign simulation.
type CampaignConfig struct {
	Name         string   `json:"name"`
	Budget       float64  `json:"budget"`
	Days         int      `json:"days"`
	Channels     []string `json:"channels"`
	Seed         int64    `json:"seed"`
	AutoOptimize bool     `json:"autoOptimize"`
}

// CampaignDay is one synthetic daily observation.
type CampaignDay struct {
	Day     int     `json:"day"`
	Channel string  `json:"channel"`
	Spend   float64 `json:"spend"`
	ROAS    float64 `json:"roas"`
	Revenue float64 `json:"revenue"`
}

// CampaignSummary rolls the daily series up.
type CampaignSummary struct {
	TotalSpend   float64 `json:"totalSpend"`
	TotalRevenue float64 `json:"totalRevenue"`
	MeanROAS     float64 `json:"meanRoas"`
	BestChannel  string  `json:"bestChannel"`
}

// CampaignReport is the raw series plus rollups and the bandit run
// over the channel space.
type CampaignReport struct {
	Series  []CampaignDay   `json:"series"`
	Summary CampaignSummary `json:"summary"`
	Bandit  BanditReport    `json:"bandit"`
}

// Campaign builds a daily ROAS series per channel and runs a Thompson
// bandit with channels as arms and weekdays as contexts.
func (r *Runner) Campaign(cfg CampaignConfig) (CampaignReport, error) {
	if cfg.Budget <= 0 || cfg.Days <= 0 || len(cfg.Channels) == 0 {
		return CampaignReport{}, errors.New("simulation: budget, days, and channels required")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	dailySpend := cfg.Budget / float64(cfg.Days)

	report := CampaignReport{Series: make([]CampaignDay, 0, cfg.Days*len(cfg.Channels))}
	roasTotal := 0.0
	revenueByChannel := make(map[string]float64, len(cfg.Channels))
	for day := 0; day < cfg.Days; day++ {
		for _, channel := range cfg.Channels {
			roas := baseROAS + rng.NormFloat64()*roasNoise + affinity(channel, 0.5)
			if cfg.AutoOptimize {
				roas += optimizeBonus
			}
			spend := dailySpend / float64(len(cfg.Channels))
			revenue := spend * roas

			report.Series = append(report.Series, CampaignDay{
				Day:     day + 1,
				Channel: channel,
				Spend:   spend,
				ROAS:    roas,
				Revenue: revenue,
			})
			report.Summary.TotalSpend += spend
			report.Summary.TotalRevenue += revenue
			roasTotal += roas
			revenueByChannel[channel] += revenue
		}
	}
	report.Summary.MeanROAS = roasTotal / float64(len(report.Series))
	for _, channel := range cfg.Channels {
		if report.Summary.BestChannel == "" || revenueByChannel[channel] > revenueByChannel[report.Summary.BestChannel] {
			report.Summary.BestChannel = channel
		}
	}

	// Separate generator for the bandit's reward draws keeps the series
	// and the bandit independently reproducible.
	rewardRng := rand.New(rand.NewSource(cfg.Seed + 1))
	reward := func(arm, _ string) float64 {
		roas := baseROAS + rewardRng.NormFloat64()*roasNoise + affinity(arm, 0.5)
		if cfg.AutoOptimize {
			roas += optimizeBonus
		}
		return roas - baseROAS
	}

	bandit, err := RunBandit(BanditConfig{
		Arms:     cfg.Channels,
		Contexts: weekdays(),
		Rounds:   cfg.Days * len(cfg.Channels),
		Seed:     cfg.Seed,
		Reward:   reward,
	})
	if err != nil {
		return CampaignReport{}, err
	}
	report.Bandit = bandit

	r.logger.Debug().Str("campaign", cfg.Name).Float64("revenue", report.Summary.TotalRevenue).Msg("campaign simulated")
	return report, nil
}

// AudienceConfig describes a synthetic audience-targeting simulation.
type AudienceConfig struct {
	Segments    []string `json:"segments"`
	Messages    []string `json:"messages"`
	Episodes    int      `json:"episodes"`
	Seed        int64    `json:"seed"`
	Personalize bool     `json:"personalize"`
}

// AudienceSummary rolls the Q-learning run up.
type AudienceSummary struct {
	Episodes       int               `json:"episodes"`
	MeanEngagement float64           `json:"meanEngagement"`
	BestMessage    map[string]string `json:"bestMessageBySegment"`
}

// AudienceReport is the Q-learning output plus rollups.
type AudienceReport struct {
	Policy  PolicyReport    `json:"policy"`
	Summary AudienceSummary `json:"summary"`
}

// Audience runs epsilon-greedy Q-learning with segments as states and
// messages as actions, rewarding simulated engagement.
func (r *Runner) Audience(cfg AudienceConfig) (AudienceReport, error) {
	if len(cfg.Segments) == 0 || len(cfg.Messages) == 0 {
		return AudienceReport{}, errors.New("simulation: segments and messages required")
	}

	rewardRng := rand.New(rand.NewSource(cfg.Seed + 1))
	reward := func(state, action string) float64 {
		engagement := baseEngagement + rewardRng.NormFloat64()*engageNoise + affinity(state+"|"+action, 0.25)
		if cfg.Personalize {
			engagement += personalBonus
		}
		return engagement
	}

	policy, err := RunPolicy(PolicyConfig{
		States:   cfg.Segments,
		Actions:  cfg.Messages,
		Episodes: cfg.Episodes,
		Seed:     cfg.Seed,
		Reward:   reward,
	})
	if err != nil {
		return AudienceReport{}, err
	}

	summary := AudienceSummary{
		Episodes:       cfg.Episodes,
		MeanEngagement: policy.MeanReward,
		BestMessage:    make(map[string]string, len(cfg.Segments)),
	}
	for _, segment := range cfg.Segments {
		summary.BestMessage[segment] = greedyAction(policy.QTable[segment], cfg.Messages)
	}

	r.logger.Debug().Int("episodes", cfg.Episodes).Float64("mean_engagement", summary.MeanEngagement).Msg("audience simulated")
	return AudienceReport{Policy: policy, Summary: summary}, nil
}

// CreativeConfig describes a synthetic creative-variant simulation.
type CreativeConfig struct {
	Variants   []string `json:"variants"`
	Rounds     int      `json:"rounds"`
	Seed       int64    `json:"seed"`
	BoostNovel bool     `json:"boostNovel"`
}

// CreativeSummary rolls the bandit run up.
type CreativeSummary struct {
	Rounds      int     `json:"rounds"`
	TotalReward float64 `json:"totalReward"`
	BestVariant string  `json:"bestVariant"`
}

// CreativeReport is the bandit output plus rollups.
type CreativeReport struct {
	Bandit  BanditReport    `json:"bandit"`
	Summary CreativeSummary `json:"summary"`
}

// Creative runs a Thompson bandit with creative variants as arms,
// rewarding CTR lift over the baseline.
func (r *Runner) Creative(cfg CreativeConfig) (CreativeReport, error) {
	if len(cfg.Variants) == 0 {
		return CreativeReport{}, errors.New("simulation: at least one variant required")
	}

	rewardRng := rand.New(rand.NewSource(cfg.Seed + 1))
	reward := func(arm, _ string) float64 {
		ctr := baseCTR + rewardRng.NormFloat64()*ctrNoise + affinity(arm, 0.03)
		if cfg.BoostNovel {
			ctr += noveltyBonus
		}
		return ctr - baseCTR
	}

	bandit, err := RunBandit(BanditConfig{
		Arms:   cfg.Variants,
		Rounds: cfg.Rounds,
		Seed:   cfg.Seed,
		Reward: reward,
	})
	if err != nil {
		return CreativeReport{}, err
	}

	summary := CreativeSummary{
		Rounds:      cfg.Rounds,
		TotalReward: bandit.TotalReward,
	}
	bestAlpha := -1.0
	for _, variant := range cfg.Variants {
		if p := bandit.Posteriors[variant]; p.Alpha > bestAlpha {
			bestAlpha = p.Alpha
			summary.BestVariant = variant
		}
	}

	r.logger.Debug().Int("rounds", cfg.Rounds).Str("best_variant", summary.BestVariant).Msg("creative simulated")
	return CreativeReport{Bandit: bandit, Summary: summary}, nil
}

// affinity maps a name to a stable pseudo-random offset in [0, span).
// Hash-derived so the same name always carries the same bias.
func affinity(name string, span float64) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return span * float64(h.Sum32()%1000) / 1000.0
}

func weekdays() []string {
	return []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}
}
