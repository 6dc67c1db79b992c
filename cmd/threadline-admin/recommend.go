package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raushankrgupta/threadline/config"
	"github.com/raushankrgupta/threadline/models"
	"github.com/raushankrgupta/threadline/recommender"
)

var (
	recommendUsername string
	recommendSeason   string
	recommendPrecip   string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print outfit recommendations for a user as JSON",
	Long: `Run the recommender against the configured store and print the outfits.

Examples:
  threadline-admin recommend --username alice
  threadline-admin recommend --username bob --season winter --precip snow`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendUsername, "username", "u", "", "User to recommend for")
	recommendCmd.Flags().StringVar(&recommendSeason, "season", string(models.SeasonSummer), "Season: winter, spring, summer or fall")
	recommendCmd.Flags().StringVar(&recommendPrecip, "precip", "", "Precipitation: rain, snow or empty")
	_ = recommendCmd.MarkFlagRequired("username")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	season, err := models.ParseSeason(recommendSeason)
	if err != nil {
		return err
	}
	precip, err := models.ParsePrecip(recommendPrecip)
	if err != nil {
		return err
	}

	cfg, err := config.LoadRecommenderConfig(config.RecommenderConfig)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	svc := recommender.NewService(store, cfg, logger)
	outfits, err := svc.Recommend(ctx, recommendUsername, recommender.WeatherContext{Season: season, Precip: precip})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(outfits, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
