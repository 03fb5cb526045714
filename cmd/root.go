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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cobad/cobad/internal/config"
)

var (
	cfgFile   string
	verbose   bool
	storeFlag string
	resolved  config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cobad",
	Short: "cobad: continuous local-file backup daemon",
	Long: `cobad watches one or more directories and keeps every past revision
of every file within them, addressed by content so identical bytes are
only ever stored once.

cobad  Copyright (C) 2026  cobad contributors
This program comes with ABSOLUTELY NO WARRANTY; This program is free
software, and you are welcome to redistribute it under certain conditions;
You should have received a copy of the GNU General Public License (version
3) along with this program. If not, see https://www.gnu.org/licenses/.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is $XDG_CONFIG_HOME/cobad/config.toml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"enable verbose output",
	)

	rootCmd.PersistentFlags().StringVar(
		&storeFlag,
		"store",
		"",
		"path to the cobad store (default is store_path from config, or $XDG_DATA_HOME/cobad/store)",
	)
}

// initConfig loads configuration via viper: flags take precedence over
// an explicit --config file, which takes precedence over the XDG
// default config file, which takes precedence over built-in defaults.
func initConfig() {
	v := viper.GetViper()

	cfg, err := config.Load(v, cfgFile)
	cobra.CheckErr(err)

	if storeFlag != "" {
		cfg.StorePath = storeFlag
	}
	resolved = cfg

	if verbose && v.ConfigFileUsed() != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
}
