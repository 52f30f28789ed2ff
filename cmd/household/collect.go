package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NotCoffee418/household_power/pkg/config"
	"github.com/NotCoffee418/household_power/pkg/interpreter"
	"github.com/NotCoffee418/household_power/pkg/meterdb"
	"github.com/NotCoffee418/household_power/pkg/port_reader"
	"github.com/NotCoffee418/household_power/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newCollectCmd(logger zerolog.Logger) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Store live meter standings in the meter database",
		Long: `collect subscribes to the interpreter API websocket (--source ws) or reads
the P1 port directly (--source serial) and stores every cumulative register as
its own feed until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *config.ActiveHouseholdConfig
			if cmd.Flags().Changed("source") {
				cfg.CollectSource = source
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runCollect(ctx, &cfg, logger)
		},
	}

	cmd.Flags().StringVar(&source, "source", config.SourceWebsocket, "where standings come from: ws or serial")
	return cmd
}

func runCollect(ctx context.Context, cfg *config.HouseholdConfig, logger zerolog.Logger) error {
	db, err := meterdb.Open(cfg.MeterDbPath, logger)
	if err != nil {
		return fmt.Errorf("open meter db: %w", err)
	}
	defer db.Close()

	store := func(standing *types.MeterStanding) {
		if err := db.InsertMeterStanding(standing); err != nil {
			logger.Error().Err(err).Time("timestamp", standing.Timestamp).Msg("failed to store standing")
			return
		}
		logger.Debug().
			Time("timestamp", standing.Timestamp).
			Float64("consumption_day_kwh", standing.ConsumptionDayKWH).
			Msg("stored standing")
	}

	switch cfg.CollectSource {
	case config.SourceSerial:
		reader := port_reader.NewP1Reader(cfg.SerialDevice, cfg.Baudrate, logger.With().Str("source", "p1").Logger())
		return reader.Run(ctx, store)
	default:
		return interpreter.StartListener(ctx, cfg.InterpreterAPIHost, logger.With().Str("source", "ws").Logger(),
			func(reading *interpreter.RawMeterReading) {
				standing, err := reading.Standing()
				if err != nil {
					logger.Warn().Err(err).Str("timestamp", reading.Timestamp).Msg("skipping reading")
					return
				}
				store(standing)
			})
	}
}
