package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coldstart/prewarm/predict/store"
	"github.com/coldstart/prewarm/predict/workload"
)

var seedSpecPath string // Optional YAML scenario spec; empty uses the stock demo mix

// seedCmd generates a synthetic record file to experiment against
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a synthetic execution record file",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		spec := workload.DefaultSpec()
		if seedSpecPath != "" {
			loaded, err := workload.LoadSpec(seedSpecPath)
			if err != nil {
				logrus.Fatalf("Loading scenario spec: %v", err)
			}
			spec = loaded
		}

		records, err := workload.Generate(spec, referenceTime())
		if err != nil {
			logrus.Fatalf("Generating records: %v", err)
		}
		if err := store.SaveFile(recordsPath, records); err != nil {
			logrus.Fatalf("Writing records: %v", err)
		}
		logrus.Infof("Wrote %d records for %d jobs to %s", len(records), len(spec.Jobs), recordsPath)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedSpecPath, "spec", "", "YAML scenario spec (defaults to the built-in demo mix)")
}
