package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidtrack/vidtrack/color"
	"github.com/vidtrack/vidtrack/constant"
	"github.com/vidtrack/vidtrack/filesystem"
	"github.com/vidtrack/vidtrack/icon"
	"github.com/vidtrack/vidtrack/player"
	"github.com/vidtrack/vidtrack/style"
	"github.com/vidtrack/vidtrack/util"
	"github.com/vidtrack/vidtrack/where"
)

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringSliceP("player", "p", []string{string(player.KindHTML5)}, "Players the scenario is meant for")
	lo.Must0(newCmd.RegisterFlagCompletionFunc("player", completionBrowserPlayers))
	newCmd.Flags().StringP("dir", "D", "", "Directory to create the script in instead of the scenarios directory")
	newCmd.Flags().BoolP("force", "f", false, "Overwrite an existing script")
}

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a scenario script from the template",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := strings.TrimSpace(args[0])
		filename := util.SanitizeFilename(name)
		if filename == "" {
			handleErr(fmt.Errorf("invalid scenario name %q", name))
		}

		players := lo.Must(cmd.Flags().GetStringSlice("player"))
		if len(players) == 0 {
			players = []string{string(player.KindHTML5)}
		}
		for i, p := range players {
			kind, err := player.ParseKind(p)
			handleErr(err)
			players[i] = string(kind)
		}

		dir := lo.Must(cmd.Flags().GetString("dir"))
		if dir == "" {
			dir = where.Scenarios()
		}
		path := filepath.Join(dir, filename+".lua")

		exists, err := filesystem.API().Exists(path)
		handleErr(err)
		if exists && !lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(fmt.Errorf("%s already exists, use --force to overwrite", path))
		}

		tmpl, err := template.New("scenario").Funcs(template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"join":   strings.Join,
		}).Parse(constant.ScenarioTemplate)
		handleErr(err)

		handleErr(filesystem.API().MkdirAll(dir, os.ModePerm))
		file, err := filesystem.API().Create(path)
		handleErr(err)
		defer file.Close()

		handleErr(tmpl.Execute(file, struct {
			Name    string
			Players []string
		}{name, players}))

		fmt.Printf(
			"%s created %s\n%s vidtrack replay %s --player %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(path),
			icon.Get(icon.Lua),
			path,
			players[0],
		)
	},
}
