// household derives power from cumulative household energy feeds and collects
// live meter standings into the meter database.
package main

import (
	"os"

	"github.com/NotCoffee418/household_power/pkg/config"
	"github.com/NotCoffee418/household_power/pkg/logging"
	"github.com/NotCoffee418/household_power/pkg/pathing"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	logger := logging.New(os.Stderr, "household")
	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCmd(logger zerolog.Logger) *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	root := &cobra.Command{
		Use:   "household",
		Short: "Household energy feed tools",
		Long: `household turns cumulative energy feeds (kWh meter standings) into power
series and keeps a local meter database of live smart meter standings.

Examples:
  household derive --csv household_data_60min.csv --out power.csv
  household derive --from-db --store
  household collect --source serial`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetVerbose(verbose)
			if cmd.Name() == "init-config" {
				return nil
			}
			cfg, err := config.LoadHouseholdConfigFrom(configPath)
			if err != nil {
				return err
			}
			config.ActiveHouseholdConfig = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", pathing.GetConfigPath(), "path to the TOML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newDeriveCmd(logger),
		newCollectCmd(logger),
		newInitConfigCmd(&configPath, logger),
	)
	return root
}

func newInitConfigCmd(configPath *string, logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Write the default config file if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.LoadHouseholdConfigFrom(*configPath); err != nil {
				return err
			}
			logger.Info().Str("path", *configPath).Msg("config ready")
			return nil
		},
	}
}
