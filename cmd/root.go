package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coldstart/prewarm/predict"
	"github.com/coldstart/prewarm/predict/store"
)

var (
	// CLI flags shared across subcommands
	recordsPath string // Path to the YAML execution record file
	configPath  string // Optional YAML config overriding engine defaults
	logLevel    string // Log verbosity level
	nowOverride string // RFC3339 reference time; empty means the current UTC time
	asJSON      bool   // Emit JSON instead of tables
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "prewarm",
	Short: "Cold-start prediction engine for recurring job telemetry",
	Long: "prewarm classifies each recurring job's execution history as cron, bursty, or\n" +
		"on-demand and recommends whether to pre-warm an execution container for jobs\n" +
		"likely to run within the prediction horizon.",
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up shared CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&recordsPath, "records", "records.yaml", "Path to the YAML execution record file")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional YAML config overriding engine defaults")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&nowOverride, "now", "", "Reference time, RFC3339 (defaults to the current UTC time)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Emit JSON instead of tables")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(seedCmd)
}

// setupLogging applies the --log flag process-wide.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// referenceTime resolves the evaluation's "now". Pinning it with --now makes
// every command fully reproducible over the same record file.
func referenceTime() time.Time {
	if nowOverride == "" {
		return time.Now().UTC()
	}
	t, err := time.Parse(time.RFC3339, nowOverride)
	if err != nil {
		logrus.Fatalf("Invalid --now value %q: %v", nowOverride, err)
	}
	return t.UTC()
}

// engineConfig merges the optional --config overlay over the defaults.
// Configuration errors abort before any prediction runs.
func engineConfig() predict.Config {
	if configPath == "" {
		return predict.DefaultConfig()
	}
	cfg, err := predict.LoadConfig(configPath)
	if err != nil {
		logrus.Fatalf("Loading config: %v", err)
	}
	return cfg
}

// loadRecords reads the record file into a store and takes a snapshot up to
// now, the same consistent read any external record store would serve.
func loadRecords(now time.Time) []predict.ExecutionRecord {
	records, err := store.LoadFile(recordsPath)
	if err != nil {
		logrus.Fatalf("Loading records: %v", err)
	}
	snapshot, err := store.NewMemory(records...).Records(now)
	if err != nil {
		logrus.Fatalf("Reading records: %v", err)
	}
	return snapshot
}
