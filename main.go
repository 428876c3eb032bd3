// Package main is the entry point of the vidtrack command.
package main

import (
	"github.com/samber/lo"
	"github.com/vidtrack/vidtrack/cmd"
	"github.com/vidtrack/vidtrack/config"
	"github.com/vidtrack/vidtrack/internal/cache"
	"github.com/vidtrack/vidtrack/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
