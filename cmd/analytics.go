package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coldstart/prewarm/predict"
)

// analyticsCmd runs prediction and aggregation over the record file and
// prints both
var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Aggregate record statistics alongside the current prediction batch",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		engine, err := predict.NewEngine(engineConfig())
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		now := referenceTime()
		predictions, snapshot := engine.Evaluate(loadRecords(now), now)

		if asJSON {
			printJSON(struct {
				Predictions []predict.Prediction `json:"predictions"`
				Snapshot    predict.Snapshot     `json:"snapshot"`
			}{predictions, snapshot})
			return
		}
		renderSnapshot(os.Stdout, snapshot)
		fmt.Fprintln(os.Stdout)
		renderPredictions(os.Stdout, predictions, now)
	},
}

func renderSnapshot(w io.Writer, s predict.Snapshot) {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Append([]string{"Total records", fmt.Sprintf("%d", s.TotalJobs)})
	table.Append([]string{"Unique jobs", fmt.Sprintf("%d", s.UniqueJobs)})
	table.Append([]string{"Success rate", fmt.Sprintf("%.2f", s.SuccessRate)})
	table.Append([]string{"Avg prediction confidence", fmt.Sprintf("%.2f", s.AverageConfidence)})
	table.Append([]string{"Recommended prewarms", fmt.Sprintf("%d", s.PrewarmCount)})

	kinds := make([]string, 0, len(s.JobTypeDistribution))
	for kind := range s.JobTypeDistribution {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		table.Append([]string{"Trigger " + kind, fmt.Sprintf("%d", s.JobTypeDistribution[predict.TriggerKind(kind)])})
	}
	table.Render()
}
