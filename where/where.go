// Package where resolves the directories vidtrack keeps its files in.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/vidtrack/vidtrack/constant"
	"github.com/vidtrack/vidtrack/filesystem"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "VIDTRACK_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the configuration directory. It follows os.UserConfigDir unless
// VIDTRACK_CONFIG_PATH is set.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Vidtrack))
}

// Cache is the cache directory, falling back to ./cache when the platform
// has none.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Vidtrack))
}

func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Scenarios holds the Lua scripts created by `vidtrack new`.
func Scenarios() string {
	return ensureDir(filepath.Join(Config(), "scenarios"))
}

// Recordings is where replays write their event streams by default.
func Recordings() string {
	return ensureDir(filepath.Join(Cache(), "recordings"))
}

// History is the file replay summaries are kept in.
func History() string {
	return filepath.Join(Config(), "history.json")
}

func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Vidtrack))
}
