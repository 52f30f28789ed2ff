package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/NotCoffee418/household_power/pkg/config"
	"github.com/NotCoffee418/household_power/pkg/esmutils"
	"github.com/NotCoffee418/household_power/pkg/feed"
	"github.com/NotCoffee418/household_power/pkg/meterdb"
	"github.com/NotCoffee418/household_power/pkg/power"
	"github.com/NotCoffee418/household_power/pkg/progress"
	"github.com/NotCoffee418/household_power/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var errNoFeeds = errors.New("no feeds to derive")

type deriveOptions struct {
	csvPath         string
	outPath         string
	dbPath          string
	fromDB          bool
	store           bool
	timestampColumn string
	timestampLayout string
	columns         []string
	ignore          []string
}

func newDeriveCmd(logger zerolog.Logger) *cobra.Command {
	var o deriveOptions

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive power series from cumulative energy feeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.ActiveHouseholdConfig
			flags := cmd.Flags()
			if !flags.Changed("csv") {
				o.csvPath = cfg.FeedsCSV
			}
			if !flags.Changed("out") {
				o.outPath = cfg.OutputCSV
			}
			if !flags.Changed("db") {
				o.dbPath = cfg.MeterDbPath
			}
			if !flags.Changed("store") {
				o.store = cfg.StorePower
			}
			o.timestampColumn = cfg.TimestampColumn
			o.timestampLayout = cfg.TimestampLayout

			return runDerive(o, progress.NewReporter(cmd.OutOrStdout()), logger)
		},
	}

	cmd.Flags().StringVar(&o.csvPath, "csv", "", "wide CSV of cumulative kWh feeds")
	cmd.Flags().StringVar(&o.outPath, "out", "", "power CSV to write")
	cmd.Flags().StringVar(&o.dbPath, "db", "", "meter database path")
	cmd.Flags().BoolVar(&o.fromDB, "from-db", false, "read feeds from the meter database instead of the CSV")
	cmd.Flags().BoolVar(&o.store, "store", false, "store derived power in the meter database")
	cmd.Flags().StringSliceVar(&o.columns, "feeds", nil, "only derive these feed columns")
	cmd.Flags().StringSliceVar(&o.ignore, "ignore", []string{"cet_cest_timestamp", "interpolated"}, "CSV columns that are not feeds")
	return cmd
}

// runDerive is the feed loop: every feed is derived on its own, a failing feed is
// logged and skipped, and progress is reported after each one.
func runDerive(o deriveOptions, reporter *progress.Reporter, logger zerolog.Logger) error {
	var db *meterdb.MeterDB
	if o.fromDB || o.store {
		var err error
		db, err = meterdb.Open(o.dbPath, logger)
		if err != nil {
			return fmt.Errorf("open meter db: %w", err)
		}
		defer db.Close()
	}

	feeds, err := loadFeeds(o, db)
	if err != nil {
		return err
	}
	if len(feeds) == 0 {
		return errNoFeeds
	}
	logger.Info().Int("feeds", len(feeds)).Msg("deriving power")

	var (
		names   []string
		derived []types.PowerSeries
	)
	for i, f := range feeds {
		series, err := deriveFeed(f)
		if err != nil {
			logger.Warn().Err(err).Str("feed", f.Name).Msg("skipping feed")
		} else {
			names = append(names, f.Name)
			derived = append(derived, series)
			logger.Debug().
				Str("feed", f.Name).
				Int("readings", len(f.Energy)).
				Int("power_points", series.Len()).
				Uint32("peak_w", esmutils.KwToW(peakKW(series))).
				Msg("derived feed")

			if o.store {
				if err := db.InsertPowerSeries(f.Name, series); err != nil {
					return fmt.Errorf("store %s: %w", f.Name, err)
				}
			}
		}

		if err := reporter.Report(i+1, len(feeds)); err != nil {
			return err
		}
	}

	if o.outPath != "" {
		if err := writePowerFile(o.outPath, names, derived); err != nil {
			return err
		}
		logger.Info().Str("path", o.outPath).Int("feeds", len(names)).Msg("wrote power series")
	}
	if skipped := len(feeds) - len(names); skipped > 0 {
		logger.Warn().Int("skipped", skipped).Msg("some feeds could not be derived")
	}
	return nil
}

// deriveFeed sorts a copy of the feed chronologically before deriving.
func deriveFeed(f types.Feed) (types.PowerSeries, error) {
	energy := slices.Clone(f.Energy)
	slices.SortStableFunc(energy, func(a, b types.EnergyReading) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return power.Derive(energy)
}

func loadFeeds(o deriveOptions, db *meterdb.MeterDB) ([]types.Feed, error) {
	if o.fromDB {
		names := o.columns
		if len(names) == 0 {
			var err error
			if names, err = db.ListFeeds(); err != nil {
				return nil, err
			}
		}
		feeds := make([]types.Feed, 0, len(names))
		for _, name := range names {
			energy, err := db.LoadEnergySeries(name)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", name, err)
			}
			feeds = append(feeds, types.Feed{Name: name, Energy: energy})
		}
		return feeds, nil
	}

	f, err := os.Open(o.csvPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return feed.ReadCSV(f, feed.ReadOptions{
		TimestampColumn: o.timestampColumn,
		TimestampLayout: o.timestampLayout,
		Columns:         o.columns,
		Ignore:          o.ignore,
	})
}

func writePowerFile(path string, names []string, derived []types.PowerSeries) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := feed.WritePowerCSV(out, names, derived); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

func peakKW(series types.PowerSeries) float64 {
	peak := 0.0
	for _, p := range series.Defined() {
		peak = max(peak, p.KW)
	}
	return peak
}
