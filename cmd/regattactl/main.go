// Package main provides regattactl, the operator CLI for the regatta service.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/regatta-hub/internal/clock"
	"github.com/yourusername/regatta-hub/internal/config"
	"github.com/yourusername/regatta-hub/internal/database"
	"github.com/yourusername/regatta-hub/internal/eligibility"
	"github.com/yourusername/regatta-hub/internal/identity"
	"github.com/yourusername/regatta-hub/internal/logger"
	"github.com/yourusername/regatta-hub/internal/repository"
	"github.com/yourusername/regatta-hub/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	store      *repository.Store
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	assignBowsCmd.Flags().StringSlice("priority", nil, "Category labels to number first, in order")
	closeCmd.Flags().StringSlice("priority", nil, "Category labels to number first, in order")

	rootCmd.AddCommand(assignBowsCmd)
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(finalizeCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(eligibleCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "regattactl",
	Short: "Operate regatta events: bow numbers, registration windows and results",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setupDependencies(ctx context.Context) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	store, err = repository.NewPostgresStore(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}

func parseEventID(args []string) (uuid.UUID, error) {
	eventID, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid event id %q: %w", args[0], err)
	}
	return eventID, nil
}

var assignBowsCmd = &cobra.Command{
	Use:   "assign-bows <event-id>",
	Short: "Recompute bow numbers for an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := parseEventID(args)
		if err != nil {
			return err
		}
		priority, _ := cmd.Flags().GetStringSlice("priority")

		allocator := service.NewBowAllocator(store, appLog)
		if err := allocator.AssignBowNumbers(cmd.Context(), eventID, priority); err != nil {
			return err
		}

		boats, err := store.Boats.ListByEvent(cmd.Context(), eventID)
		if err != nil {
			return err
		}
		for _, boat := range boats {
			if boat.BowNumber != nil {
				fmt.Printf("%3d  %-30s %s\n", *boat.BowNumber, boat.CategoryLabel(), boat.ClubName)
			}
		}
		return nil
	},
}

var closeCmd = &cobra.Command{
	Use:   "close <event-id>",
	Short: "Close registration for an event and assign bow numbers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := parseEventID(args)
		if err != nil {
			return err
		}
		priority, _ := cmd.Flags().GetStringSlice("priority")

		allocator := service.NewBowAllocator(store, appLog)
		lifecycle := service.NewLifecycle(store, allocator, appLog)
		if err := lifecycle.CloseRegistration(cmd.Context(), eventID, priority); err != nil {
			return err
		}

		fmt.Printf("Registration closed for event %s\n", eventID)
		return nil
	},
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize <event-id>",
	Short: "Mark a running event as finished",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := parseEventID(args)
		if err != nil {
			return err
		}

		allocator := service.NewBowAllocator(store, appLog)
		lifecycle := service.NewLifecycle(store, allocator, appLog)
		if err := lifecycle.FinalizeResults(cmd.Context(), eventID); err != nil {
			return err
		}

		fmt.Printf("Event %s finalized\n", eventID)
		return nil
	},
}

var resultsCmd = &cobra.Command{
	Use:   "results <event-id>",
	Short: "Print the leaderboard for an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := parseEventID(args)
		if err != nil {
			return err
		}

		results := service.NewResults(store, appLog)
		board, err := results.Leaderboard(cmd.Context(), eventID)
		if err != nil {
			return err
		}

		for _, block := range board {
			fmt.Printf("\n%s\n%s\n", block.Category, strings.Repeat("-", len(block.Category)))
			for _, res := range block.Results {
				bow := "-"
				if res.BowNumber != nil {
					bow = fmt.Sprintf("%d", *res.BowNumber)
				}
				fmt.Printf("%-5s bow %-4s %-30s %s\n",
					service.FormatPlace(res.Place),
					bow,
					res.CrewLabel,
					service.FormatElapsed(res.ElapsedMs),
				)
			}
		}
		return nil
	},
}

var eligibleCmd = &cobra.Command{
	Use:   "eligible <event-id> <participant-id>",
	Short: "List the event categories a participant is eligible for",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := parseEventID(args)
		if err != nil {
			return err
		}
		participantID, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid participant id %q: %w", args[1], err)
		}

		identityClient := identity.NewClient(identity.Config{
			BaseURL:  cfg.Identity.BaseURL,
			APIKey:   cfg.Identity.APIKey,
			CacheTTL: cfg.IdentityCacheTTL(),
			HTTP:     identity.DefaultHTTPClientConfig(),
		}, appLog)
		defer identityClient.Close()

		participant, err := identityClient.GetProfile(cmd.Context(), participantID)
		if err != nil {
			return fmt.Errorf("failed to fetch profile: %w", err)
		}

		event, err := store.Events.GetByID(cmd.Context(), eventID)
		if err != nil {
			return err
		}

		checker := eligibility.NewChecker(clock.System{}, appLog)
		categories := checker.ListEligibleCategories(event, participant)
		if len(categories) == 0 {
			fmt.Printf("%s is not eligible for any category of %s\n", participant.DisplayName, event.Name)
			return nil
		}

		fmt.Printf("%s is eligible for:\n", participant.DisplayName)
		for _, category := range categories {
			fmt.Printf("  %s\n", category.Label())
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("regattactl %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}
