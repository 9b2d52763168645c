package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coldstart/prewarm/predict"
)

// predictCmd scores the record file and prints the prediction batch
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict which jobs are likely to run within the horizon",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		engine, err := predict.NewEngine(engineConfig())
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		now := referenceTime()
		predictions := engine.Predict(loadRecords(now), now)

		if asJSON {
			printJSON(predictions)
			return
		}
		renderPredictions(os.Stdout, predictions, now)
	},
}

// renderPredictions prints the batch as a table with windows shown as
// offsets from the reference time.
func renderPredictions(w io.Writer, predictions []predict.Prediction, now time.Time) {
	if len(predictions) == 0 {
		fmt.Fprintln(w, "No jobs predicted to run within the horizon.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetHeader([]string{"Job", "Pattern", "Window", "Confidence", "Action", "Reasoning"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, p := range predictions {
		table.Append([]string{
			p.JobID,
			string(p.Pattern),
			p.Window.Offset(now),
			fmt.Sprintf("%.2f", p.Confidence),
			string(p.Action),
			p.Reasoning,
		})
	}
	table.Render()
}

// printJSON writes any result as indented JSON to stdout.
func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logrus.Fatalf("Encoding output: %v", err)
	}
	fmt.Println(string(data))
}
