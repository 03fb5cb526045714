/*
 * cobad: continuous local-file backup daemon
 * Copyright (C) 2026 cobad contributors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program. If not, see <https://www.gnu.org/licenses/>.
 */

// Package config loads cobad's settings from the environment, a TOML
// file, and built-in defaults, in that precedence order, the same way
// the teacher's cmd/root.go wires up viper.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config is the fully resolved set of settings cobad runs with.
type Config struct {
	StorePath   string
	MaxFileSize int64
	Ignores     []string
}

// Load builds a Config from v. If cfgFile is non-empty it must parse
// successfully; otherwise the XDG default config file is read if it
// exists, and its absence is not an error.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	storeDefault, err := xdg.DataFile("cobad/store")
	if err != nil {
		return Config{}, fmt.Errorf("config: resolve default store path: %w", err)
	}
	v.SetDefault("store_path", storeDefault)
	v.SetDefault("max_file_size", "")
	v.SetDefault("ignores", []string{})

	v.SetEnvPrefix("COBAD")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", cfgFile, err)
		}
	} else {
		defaultPath, err := xdg.ConfigFile("cobad/config.toml")
		if err != nil {
			return Config{}, fmt.Errorf("config: resolve default config path: %w", err)
		}

		if _, statErr := os.Stat(defaultPath); statErr == nil {
			v.SetConfigFile(defaultPath)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return Config{}, fmt.Errorf("config: read %s: %w", defaultPath, err)
				}
			}
		}
	}

	maxSize, err := ParseSize(v.GetString("max_file_size"))
	if err != nil {
		return Config{}, fmt.Errorf("config: max_file_size: %w", err)
	}

	return Config{
		StorePath:   v.GetString("store_path"),
		MaxFileSize: maxSize,
		Ignores:     v.GetStringSlice("ignores"),
	}, nil
}
