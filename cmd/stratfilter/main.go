package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/synaptecltd/stratfilter"
	"github.com/synaptecltd/stratfilter/internal/logging"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stratfilter",
		Short: "Stratigraphic filter toy model",
		Long: `stratfilter simulates a one-dimensional sedimentary column.

A random walk with drift generates the elevation of a surface through time.
The stratigraphic filter keeps only the elevations that are never cut below
later, giving the preserved rock record. Summary statistics can be averaged
over a Monte Carlo batch of independent runs.`,
		SilenceUsage: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "YAML configuration file")
	pf.String("preset", "", "base configuration when no file is given: "+strings.Join(stratfilter.PresetNames(), " or "))
	pf.String("log-level", "info", "log verbosity: warn, info, debug or trace")
	pf.Bool("json", false, "Output as JSON")
	pf.Uint64("seed", 0, "seed for reproducible runs, 0 for a random seed")
	pf.Float64("mean", 0, "mean of elevation change per step")
	pf.Float64("spread", 1, "standard deviation of elevation change per step")
	pf.Float64("horizon", 50, "length of the record")
	pf.Float64("step", stratfilter.DefaultStep, "time step")
	pf.Int("runs", stratfilter.DefaultRunCount, "runs per Monte Carlo batch")
	pf.Int("workers", 1, "goroutines used for a batch")
	pf.StringArray("set", nil, "configuration override in key=value form (repeatable)")

	rootCmd.AddCommand(
		newRunCmd(),
		newSeriesCmd(),
		newSweepCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig builds the configuration from the config file or preset, then
// applies explicitly set flags and finally --set overrides.
func loadConfig(cmd *cobra.Command) (stratfilter.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	preset, _ := flags.GetString("preset")

	var cfg stratfilter.Config
	var err error
	if path != "" {
		cfg, err = stratfilter.LoadConfig(path)
	} else {
		cfg, err = stratfilter.Preset(preset)
	}
	if err != nil {
		return stratfilter.Config{}, err
	}

	floatFlags := map[string]*float64{
		"mean":    &cfg.Mean,
		"spread":  &cfg.Spread,
		"horizon": &cfg.Horizon,
		"step":    &cfg.Step,
	}
	for name, dst := range floatFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetFloat64(name)
		}
	}
	if flags.Changed("runs") {
		cfg.RunCount, _ = flags.GetInt("runs")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}

	overrides, _ := flags.GetStringArray("set")
	if len(overrides) > 0 {
		m := make(map[string]interface{}, len(overrides))
		for _, kv := range overrides {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				return stratfilter.Config{}, fmt.Errorf("override %q is not in key=value form", kv)
			}
			m[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
		if err := stratfilter.DecodeConfig(m, &cfg); err != nil {
			return stratfilter.Config{}, err
		}
	}
	return cfg, nil
}

// newSimulator loads the configuration and builds a Simulator logging to stderr.
func newSimulator(cmd *cobra.Command) (*stratfilter.Simulator, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	level, _ := cmd.Flags().GetString("log-level")
	logger := logging.NewLogger(level, cmd.ErrOrStderr())

	sim, err := stratfilter.NewSimulator(cfg, stratfilter.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Debug("simulator ready", "seed", sim.Seed(), "horizon", cfg.Horizon, "step", cfg.Step,
		"points", sim.Axis().Len(), "forcings", len(cfg.Forcing))
	return sim, nil
}
