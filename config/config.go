// Package config registers every setting with its default and wires viper to
// the config file and the environment.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
	"github.com/vidtrack/vidtrack/constant"
	"github.com/vidtrack/vidtrack/filesystem"
	"github.com/vidtrack/vidtrack/where"
)

// EnvKeyReplacer turns config keys into environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads defaults, binds VIDTRACK_* environment variables and reads
// the TOML config file if there is one.
func Setup() error {
	viper.SetConfigName(constant.Vidtrack)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Vidtrack)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return nil
}
