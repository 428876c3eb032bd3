package cmd

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidtrack/vidtrack/icon"
	"github.com/vidtrack/vidtrack/internal/cache"
	"github.com/vidtrack/vidtrack/util"
	"github.com/vidtrack/vidtrack/where"
)

var clearTargets = []struct {
	name  string
	flag  string
	short string
	path  func() string
}{
	{"cache", "cache", "c", where.Cache},
	{"recordings", "recordings", "r", where.Recordings},
	{"logs", "logs", "l", where.Logs},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		clearCmd.Flags().BoolP(target.flag, target.short, false, "Clear "+target.name)
	}
	clearCmd.Flags().BoolP("all", "a", false, "Clear everything above")
	clearCmd.Flags().Int("older-than", 0, "Only remove files older than this many days")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached files, recordings or logs",
	Long:  "Delete cached files, recordings or logs. Use `vidtrack history clear` for saved sessions.",
	Example: "  vidtrack clear --recordings --older-than 7\n" +
		"  vidtrack clear --all",
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		days := lo.Must(cmd.Flags().GetInt("older-than"))

		var cleared bool
		for _, target := range clearTargets {
			if !all && !lo.Must(cmd.Flags().GetBool(target.flag)) {
				continue
			}
			cleared = true

			if days > 0 {
				removed, err := cache.Prune(target.path(), time.Duration(days)*24*time.Hour, time.Now())
				handleErr(err)
				fmt.Printf("%s %s: removed %s\n", icon.Get(icon.Success), util.Capitalize(target.name), util.Quantify(removed, "file", "files"))
				continue
			}

			handleErr(util.Delete(target.path()))
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !cleared {
			handleErr(cmd.Help())
		}
	},
}
