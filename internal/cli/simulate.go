package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"content-feedback/internal/simulation"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run offline optimization simulations",
}

var (
	campaignName     string
	campaignBudget   float64
	campaignDays     int
	campaignChannels []string
	campaignOptimize bool
	simSeed          int64

	audienceSegments    []string
	audienceMessages    []string
	audienceEpisodes    int
	audiencePersonalize bool

	creativeVariants []string
	creativeRounds   int
	creativeBoost    bool
)

var simulateCampaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Simulate channel allocation for a campaign budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		if campaignBudget <= 0 || campaignDays <= 0 {
			return errors.New("--budget and --days must be greater than zero")
		}
		if len(campaignChannels) == 0 {
			return errors.New("--channels must name at least one channel")
		}

		return getApp().SimulateCampaign(simulation.CampaignConfig{
			Name:         campaignName,
			Budget:       campaignBudget,
			Days:         campaignDays,
			Channels:     campaignChannels,
			Seed:         simSeed,
			AutoOptimize: campaignOptimize,
		})
	},
}

var simulateAudienceCmd = &cobra.Command{
	Use:   "audience",
	Short: "Simulate message targeting across audience segments",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(audienceSegments) == 0 || len(audienceMessages) == 0 {
			return errors.New("--segments and --messages must be non-empty")
		}

		return getApp().SimulateAudience(simulation.AudienceConfig{
			Segments:    audienceSegments,
			Messages:    audienceMessages,
			Episodes:    audienceEpisodes,
			Seed:        simSeed,
			Personalize: audiencePersonalize,
		})
	},
}

var simulateCreativeCmd = &cobra.Command{
	Use:   "creative",
	Short: "Simulate creative variant selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(creativeVariants) == 0 {
			return errors.New("--variants must name at least one variant")
		}

		return getApp().SimulateCreative(simulation.CreativeConfig{
			Variants:   creativeVariants,
			Rounds:     creativeRounds,
			Seed:       simSeed,
			BoostNovel: creativeBoost,
		})
	},
}

func init() {
	simulateCmd.PersistentFlags().Int64Var(&simSeed, "seed", 0, "Random seed (defaults to config)")

	simulateCampaignCmd.Flags().StringVar(&campaignName, "name", "campaign", "Campaign name")
	simulateCampaignCmd.Flags().Float64Var(&campaignBudget, "budget", 0, "Total campaign budget")
	simulateCampaignCmd.Flags().IntVar(&campaignDays, "days", 0, "Campaign duration in days")
	simulateCampaignCmd.Flags().StringSliceVar(&campaignChannels, "channels", nil, "Comma-separated channel names")
	simulateCampaignCmd.Flags().BoolVar(&campaignOptimize, "auto-optimize", false, "Apply the daily optimization bonus")

	simulateAudienceCmd.Flags().StringSliceVar(&audienceSegments, "segments", nil, "Comma-separated audience segments")
	simulateAudienceCmd.Flags().StringSliceVar(&audienceMessages, "messages", nil, "Comma-separated message identifiers")
	simulateAudienceCmd.Flags().IntVar(&audienceEpisodes, "episodes", 0, "Episodes to run (defaults to config)")
	simulateAudienceCmd.Flags().BoolVar(&audiencePersonalize, "personalize", false, "Apply the personalization bonus")

	simulateCreativeCmd.Flags().StringSliceVar(&creativeVariants, "variants", nil, "Comma-separated creative variant identifiers")
	simulateCreativeCmd.Flags().IntVar(&creativeRounds, "rounds", 0, "Rounds to run (defaults to config)")
	simulateCreativeCmd.Flags().BoolVar(&creativeBoost, "boost-novel", false, "Apply the novelty bonus")

	simulateCmd.AddCommand(simulateCampaignCmd)
	simulateCmd.AddCommand(simulateAudienceCmd)
	simulateCmd.AddCommand(simulateCreativeCmd)
}
