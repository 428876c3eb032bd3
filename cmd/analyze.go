package cmd

import (
	"encoding/json"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidtrack/vidtrack/analytics"
	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/sink"
	"github.com/vidtrack/vidtrack/tui"
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolP("json", "j", false, "Print the summaries as JSON")
	analyzeCmd.SetOut(os.Stdout)

	rootCmd.AddCommand(inspectCmd)
}

// bySession groups a stream by session id, keeping first-seen order.
func bySession(events []event.VideoEvent) ([]string, map[string][]event.VideoEvent) {
	grouped := lo.GroupBy(events, func(ev event.VideoEvent) string { return ev.Data.SessionID })
	order := lo.Uniq(lo.Map(events, func(ev event.VideoEvent, _ int) string { return ev.Data.SessionID }))
	return order, grouped
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <events.jsonl>...",
	Short: "Summarize recorded event streams, one summary per session",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var events []event.VideoEvent
		for _, path := range args {
			read, err := sink.OpenJSONL(path)
			handleErr(err)
			events = append(events, read...)
		}

		order, grouped := bySession(events)
		summaries := make(map[string]analytics.Summary, len(order))

		for _, id := range order {
			aggregator := analytics.New()
			for _, ev := range grouped[id] {
				aggregator.AddEvent(ev)
			}
			summaries[id] = aggregator.Summary()
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(summaries))
			return
		}

		for _, id := range order {
			printSummary(cmd, id, len(grouped[id]), summaries[id])
		}
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <events.jsonl>",
	Short: "Browse a recorded event stream in the terminal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		events, err := sink.OpenJSONL(args[0])
		handleErr(err)

		handleErr(tui.Run(&tui.Options{
			Title:  args[0],
			Events: events,
		}))
	},
}
