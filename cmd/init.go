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
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cobad/cobad/internal/store"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "initializes the cobad store",
	Long: `Initialize cobad's local state.

Creates the store directory (content pool and tmp staging area) and
initializes or upgrades the internal database. This command is safe to
run multiple times and will not overwrite existing data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := store.Open(context.Background(), resolved.StorePath)
		if err != nil {
			return fmt.Errorf("error initializing store: %w", err)
		}
		defer h.Close()

		fmt.Println("Initialized cobad store at", h.Root)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
