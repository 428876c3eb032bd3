package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidtrack/vidtrack/color"
	"github.com/vidtrack/vidtrack/history"
	"github.com/vidtrack/vidtrack/icon"
	"github.com/vidtrack/vidtrack/style"
	"github.com/vidtrack/vidtrack/util"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringP("filter", "f", "", "Fuzzy filter on script, player and session id")
	historyCmd.Flags().BoolP("json", "j", false, "Print the records as JSON")
	historyCmd.SetOut(os.Stdout)

	historyCmd.AddCommand(historyRemoveCmd)

	historyCmd.AddCommand(historyClearCmd)
	historyClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

// matches reports whether filter fuzzily matches any searchable field of r.
func matches(filter string, r *history.Record) bool {
	return lo.SomeBy([]string{r.Script, string(r.Player), r.SessionID}, func(s string) bool {
		return fuzzy.MatchFold(filter, s)
	})
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the summaries of past sessions",
	Run: func(cmd *cobra.Command, args []string) {
		records, err := history.List()
		handleErr(err)

		if filter := lo.Must(cmd.Flags().GetString("filter")); filter != "" {
			records = lo.Filter(records, func(r *history.Record, _ int) bool { return matches(filter, r) })
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("no sessions saved"))
			return
		}

		for _, r := range records {
			cmd.Printf("%s %s\n", style.Fg(color.Purple)(r.SessionID), style.Faint(r.String()))
			cmd.Printf("  %s\n", r.Describe())
		}
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:     "remove <session>...",
	Aliases: []string{"rm"},
	Short:   "Remove saved sessions",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		saved, err := history.Get()
		handleErr(err)

		for _, id := range args {
			if _, ok := saved[id]; !ok {
				handleErr(fmt.Errorf("no saved session %s", style.Fg(color.Red)(id)))
			}
			handleErr(history.Remove(id))
		}

		fmt.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), strings.Join(args, ", "))
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every saved session",
	Run: func(cmd *cobra.Command, args []string) {
		saved, err := history.Get()
		handleErr(err)

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			confirm := survey.Confirm{
				Message: fmt.Sprintf("Remove %s?", util.Quantify(len(saved), "saved session", "saved sessions")),
				Default: false,
			}
			var response bool
			handleErr(survey.AskOne(&confirm, &response))

			if !response {
				return
			}
		}

		handleErr(history.Clear())
		fmt.Printf("%s history cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
