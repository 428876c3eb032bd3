package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidtrack/vidtrack/color"
	"github.com/vidtrack/vidtrack/player"
	"github.com/vidtrack/vidtrack/style"
)

var playerNotes = map[player.Kind]string{
	player.KindHTML5:    "raw <video> element, buffered ranges, document fullscreen",
	player.KindVideoJS:  "Video.js, quality levels plugin, buffered ranges of its tech",
	player.KindJWPlayer: "JW Player, state machine and quality levels",
	player.KindPlyr:     "Plyr, vertical resolution quality",
	player.KindVimeo:    "Vimeo embed, asynchronous getters served from a cache",
	player.KindYouTube:  "YouTube IFrame API, playback quality buckets",
	player.KindMPV:      "mpv over JSON IPC, used by `vidtrack watch`",
}

func init() {
	rootCmd.AddCommand(playersCmd)
	playersCmd.Flags().BoolP("simulated", "s", false, "Only list players `vidtrack replay` can simulate")
	playersCmd.SetOut(os.Stdout)
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the supported players",
	Run: func(cmd *cobra.Command, args []string) {
		kinds := player.Kinds()
		if lo.Must(cmd.Flags().GetBool("simulated")) {
			kinds = lo.Without(kinds, player.KindMPV)
		}

		name := style.New().Bold(true).Foreground(color.Purple).Width(10).Render
		for _, kind := range kinds {
			cmd.Printf("%s %s\n", name(string(kind)), style.Faint(playerNotes[kind]))
		}
	},
}
