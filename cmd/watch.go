package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidtrack/vidtrack/icon"
	"github.com/vidtrack/vidtrack/player"
	"github.com/vidtrack/vidtrack/tracker"
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("attach", "", "Track an mpv already listening on this IPC socket instead of starting one")
	addSessionFlags(watchCmd)

	watchCmd.SetOut(os.Stdout)
}

var watchCmd = &cobra.Command{
	Use:   "watch [file or url]",
	Short: "Play media in mpv and track the real playback",
	Example: "  vidtrack watch ~/Videos/talk.mkv -o talk.jsonl\n" +
		"  vidtrack watch --attach /tmp/mpv.sock",
	Args:   cobra.MaximumNArgs(1),
	PreRun: bindSessionFlags,
	Run: func(cmd *cobra.Command, args []string) {
		socket := lo.Must(cmd.Flags().GetString("attach"))
		if socket == "" && len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		s, err := newSession(cmd, player.KindMPV)
		handleErr(err)
		defer s.close()

		cfg, err := s.trackerConfig()
		handleErr(err)

		var mpv *player.MPV
		if socket != "" {
			mpv = player.AttachMPV(socket)
		} else {
			mpv = player.NewMPV()
		}

		t := tracker.New(mpv, cfg)

		if socket != "" {
			err = mpv.Observe()
		} else {
			err = mpv.Play(args[0])
		}
		if err != nil {
			t.Destroy()
			s.close()
			handleErr(err)
		}

		select {
		case <-mpv.Wait():
		case <-ctx.Done():
			cmd.PrintErrln(icon.Get(icon.Warn) + " interrupted")
		}

		t.Destroy()
		_ = mpv.Close()

		script := socket
		if len(args) > 0 {
			script = args[0]
		}

		// a fresh context so metrics keep serving after the first interrupt
		ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		handleErr(s.finish(ctx, cmd, t.SessionID(), script))
	},
}
