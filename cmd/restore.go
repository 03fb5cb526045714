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
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cobad/cobad/internal/restore"
	"github.com/cobad/cobad/internal/store"
	"github.com/cobad/cobad/internal/timeparse"
)

var (
	restoreTo    string
	restoreForce bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore <when> <path>",
	Short: "restore the version of a file active at a given time",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		at, err := timeparse.Parse(args[0], time.Now())
		if err != nil {
			return fmt.Errorf("error parsing timestamp: %w", err)
		}

		h, err := store.Open(ctx, resolved.StorePath)
		if err != nil {
			return fmt.Errorf("error opening store: %w", err)
		}
		defer h.Close()

		v, err := restore.FindVersionAt(ctx, h.Index, args[1], at)
		if err != nil {
			if errors.Is(err, restore.ErrNoSuchVersion) {
				return fmt.Errorf("no version of %s exists at %s", args[1], args[0])
			}
			return fmt.Errorf("error finding version: %w", err)
		}

		resolvedPath, err := restore.Restore(ctx, h.Blobs, v, restoreTo, restoreForce)
		if err != nil {
			if errors.Is(err, restore.ErrTargetExists) {
				return fmt.Errorf("%w (use --force to overwrite)", err)
			}
			if errors.Is(err, restore.ErrCorruptStore) {
				return fmt.Errorf("error restoring: %w (the store's index and content pool have diverged)", err)
			}
			return fmt.Errorf("error restoring: %w", err)
		}

		successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
		fmt.Println(successStyle.Render("restored to " + resolvedPath))
		return nil
	},
}

func init() {
	restoreCmd.Flags().StringVar(&restoreTo, "to", "", "restore target (default: original path)")
	restoreCmd.Flags().BoolVarP(&restoreForce, "force", "f", false, "overwrite the target if it already exists")
	rootCmd.AddCommand(restoreCmd)
}
