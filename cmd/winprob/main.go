// Package main provides a command-line client for win-probability estimates.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/directory"
	"github.com/yourusername/gridiron-edge/internal/finals"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/market"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/prob"
	"github.com/yourusername/gridiron-edge/internal/ratings"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	httpClient *datasource.RateLimitedHTTPClient
	blender    *prob.Blender
	model      *ratings.Model
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", os.Getenv("GRIDIRON_EDGE_CONFIG"), "Path to configuration file")
	estimateCmd.Flags().String("date", time.Now().Format("2006-01-02"), "Game date (YYYY-MM-DD)")
	estimateCmd.Flags().String("home", "", "Home team abbreviation")
	estimateCmd.Flags().String("away", "", "Away team abbreviation")
	estimateCmd.MarkFlagRequired("home")
	estimateCmd.MarkFlagRequired("away")
	ratingsCmd.Flags().Int("season", time.Now().Year(), "Season year")
	ratingsCmd.Flags().Bool("refresh", false, "Force a refit, bypassing the cache")
	rootCmd.AddCommand(estimateCmd, ratingsCmd)
}

var rootCmd = &cobra.Command{
	Use:     "winprob",
	Short:   "NFL win-probability estimates from the command line",
	Long:    `Computes win probabilities for NFL matchups by blending de-vigged market moneylines with a season rating model.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if httpClient != nil {
			httpClient.Close()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger("warn")

	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.ProviderTimeout()
	httpCfg.MaxRetries = cfg.Provider.MaxRetries
	httpCfg.RateLimit = cfg.Provider.RateLimit
	httpClient = datasource.NewRateLimitedHTTPClient(httpCfg, appLog)

	provider := datasource.NewProviderClient(cfg, httpClient, appLog)
	teamDir := directory.NewTeamDirectory(provider, appLog)
	finalsRepo := finals.NewRepository(provider, teamDir, cfg.RatingsCacheTTL(), appLog)

	params := ratings.Hyperparameters{
		Epochs:       cfg.Model.Epochs,
		LearningRate: cfg.Model.LearningRate,
		RecencyBase:  cfg.Model.RecencyBase,
		SigmaMin:     cfg.Model.SigmaMin,
		SigmaMax:     cfg.Model.SigmaMax,
		DefaultHFA:   cfg.Model.DefaultHFA,
		DefaultSigma: cfg.Model.DefaultSigma,
	}
	model = ratings.NewModel(finalsRepo, params, cfg.RatingsCacheTTL(), appLog)
	oddsAdapter := market.NewAdapter(provider, appLog)
	blender = prob.NewBlender(model, oddsAdapter, cfg.Model.MarketBlendWeight,
		cfg.Model.DefaultHFA, cfg.Model.DefaultSigma, appLog)

	return nil
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the win probability for one matchup",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		home, _ := cmd.Flags().GetString("home")
		away, _ := cmd.Flags().GetString("away")

		kickoff, err := time.Parse("2006-01-02", date)
		if err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
		}

		game := models.Game{
			Home:    models.CanonicalAbbr(home),
			Away:    models.CanonicalAbbr(away),
			Kickoff: kickoff,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		est := blender.Estimate(ctx, game)

		fmt.Printf("%s @ %s  (%s)\n", game.Away, game.Home, date)
		fmt.Printf("  %-4s %6.1f%%\n", game.Home, est.Home*100)
		fmt.Printf("  %-4s %6.1f%%\n", game.Away, est.Away*100)
		fmt.Printf("  basis: %s\n", est.Basis)
		fmt.Printf("  %s\n", est.Note)
		return nil
	},
}

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Show the fitted season rating set",
	RunE: func(cmd *cobra.Command, args []string) error {
		season, _ := cmd.Flags().GetInt("season")
		refresh, _ := cmd.Flags().GetBool("refresh")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		set, err := model.SeasonRatings(ctx, season, refresh)
		if err != nil {
			return fmt.Errorf("failed to fit ratings: %w", err)
		}

		fmt.Println(set.Provenance())
		fmt.Println()

		type row struct {
			abbr    string
			off     float64
			def     float64
			overall float64
		}
		rows := make([]row, 0, len(set.Offense))
		for abbr, off := range set.Offense {
			def := set.Defense[abbr]
			rows = append(rows, row{abbr, off, def, off - def})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].overall > rows[j].overall })

		fmt.Printf("%-5s %8s %8s %8s\n", "TEAM", "OFF", "DEF", "NET")
		for _, r := range rows {
			fmt.Printf("%-5s %+8.2f %+8.2f %+8.2f\n", r.abbr, r.off, r.def, r.overall)
		}
		return nil
	},
}
