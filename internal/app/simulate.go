package app

import (
	"encoding/json"
	"os"

	"content-feedback/internal/simulation"
)

// SimulateCampaign runs a synthetic campaign simulation and prints the report.
func (a *App) SimulateCampaign(cfg simulation.CampaignConfig) error {
	if cfg.Seed == 0 {
		cfg.Seed = a.Config.Simulation.Seed
	}

	report, err := simulation.NewRunner(a.Logger).Campaign(cfg)
	if err != nil {
		return err
	}
	return printJSON(report)
}

// SimulateAudience runs a synthetic audience simulation and prints the report.
func (a *App) SimulateAudience(cfg simulation.AudienceConfig) error {
	if cfg.Seed == 0 {
		cfg.Seed = a.Config.Simulation.Seed
	}
	if cfg.Episodes == 0 {
		cfg.Episodes = a.Config.Simulation.DefaultEpisodes
	}

	report, err := simulation.NewRunner(a.Logger).Audience(cfg)
	if err != nil {
		return err
	}
	return printJSON(report)
}

// SimulateCreative runs a synthetic creative simulation and prints the report.
func (a *App) SimulateCreative(cfg simulation.CreativeConfig) error {
	if cfg.Seed == 0 {
		cfg.Seed = a.Config.Simulation.Seed
	}
	if cfg.Rounds == 0 {
		cfg.Rounds = a.Config.Simulation.DefaultRounds
	}

	report, err := simulation.NewRunner(a.Logger).Creative(cfg)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
