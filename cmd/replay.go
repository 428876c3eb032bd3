package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidtrack/vidtrack/key"
	"github.com/vidtrack/vidtrack/player"
	"github.com/vidtrack/vidtrack/scenario"
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringP("player", "p", "", "Player to simulate (see `vidtrack players`)")
	lo.Must0(replayCmd.RegisterFlagCompletionFunc("player", completionBrowserPlayers))
	replayCmd.Flags().String("start", "", "Simulated wall time the script starts at (RFC 3339)")
	replayCmd.Flags().Duration("step", scenario.DefaultStep, "Simulated time between two timeupdate ticks")
	addSessionFlags(replayCmd)

	replayCmd.SetOut(os.Stdout)
}

func completionBrowserPlayers(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	kinds := lo.Without(player.Kinds(), player.KindMPV)
	return lo.Map(kinds, func(k player.Kind, _ int) string { return string(k) }), cobra.ShellCompDirectiveNoFileComp
}

var replayCmd = &cobra.Command{
	Use:   "replay <script.lua>",
	Short: "Run a Lua scenario against a simulated player and track it",
	Example: "  vidtrack replay buffering.lua --player youtube\n" +
		"  vidtrack replay seek.lua -o events.jsonl --metadata userId=42",
	Args:   cobra.ExactArgs(1),
	PreRun: bindSessionFlags,
	Run: func(cmd *cobra.Command, args []string) {
		name := lo.Must(cmd.Flags().GetString("player"))
		if name == "" {
			name = viper.GetString(key.PlayerDefault)
		}
		kind, err := player.ParseKind(name)
		handleErr(err)

		start := mo.None[time.Time]()
		if raw := lo.Must(cmd.Flags().GetString("start")); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			handleErr(err)
			start = mo.Some(t)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		s, err := newSession(cmd, kind)
		handleErr(err)
		defer s.close()

		cfg, err := s.trackerConfig()
		handleErr(err)

		runner, err := scenario.New(scenario.Options{
			Kind:    kind,
			Tracker: cfg,
			Start:   start.OrElse(time.Now()),
			Step:    lo.Must(cmd.Flags().GetDuration("step")),
		})
		handleErr(err)

		runErr := runner.Run(args[0])
		runner.Close()

		if runErr != nil {
			s.close()
			handleErr(runErr)
		}

		handleErr(s.finish(ctx, cmd, runner.Tracker().SessionID(), args[0]))
	},
}
