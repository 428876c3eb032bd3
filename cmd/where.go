package cmd

import (
	"io/fs"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidtrack/vidtrack/color"
	"github.com/vidtrack/vidtrack/filesystem"
	"github.com/vidtrack/vidtrack/style"
	"github.com/vidtrack/vidtrack/util"
	"github.com/vidtrack/vidtrack/where"
)

// location is a directory or file vidtrack owns. Hidden ones can still be
// printed with their flag.
type location struct {
	name   string
	flag   string
	short  string
	path   func() string
	hidden bool
}

var locations = []location{
	{"Config", "config", "c", where.Config, false},
	{"Scenarios", "scenarios", "s", where.Scenarios, false},
	{"Recordings", "recordings", "r", where.Recordings, false},
	{"Logs", "logs", "l", where.Logs, false},
	{"Cache", "cache", "", where.Cache, true},
	{"Temp", "temp", "", where.Temp, true},
	{"History", "history", "", where.History, true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		whereCmd.Flags().BoolP(l.flag, l.short, false, l.name+" path")
		if l.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string {
		return l.flag
	})...)
	whereCmd.Flags().BoolP("usage", "u", false, "Show how many files each location holds and their size")

	whereCmd.SetOut(os.Stdout)
}

// usage counts the regular files under path and their total size.
func usage(path string) (files int, size int64) {
	_ = filesystem.API().Walk(path, func(_ string, info fs.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files++
			size += info.Size()
		}
		return nil
	})
	return
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print the paths vidtrack reads and writes",
	Example: "  vidtrack where --recordings\n" +
		"  vidtrack where --usage",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range locations {
			if lo.Must(cmd.Flags().GetBool(l.flag)) {
				cmd.Println(l.path())
				return
			}
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		showUsage := lo.Must(cmd.Flags().GetBool("usage"))

		visible := lo.Reject(locations, func(l location, _ int) bool { return l.hidden })
		for i, l := range visible {
			cmd.Printf("%s %s\n", header(l.name+"?"), style.Fg(color.Yellow)("--"+l.flag))
			cmd.Println(l.path())

			if showUsage {
				files, size := usage(l.path())
				cmd.Println(style.Faint(util.Quantify(files, "file", "files") + ", " + humanize.Bytes(uint64(size))))
			}

			if i < len(visible)-1 {
				cmd.Println()
			}
		}
	},
}
