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

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cobad/cobad/internal/pathutil"
	"github.com/cobad/cobad/internal/store"
)

var versionsCmd = &cobra.Command{
	Use:   "versions <path>",
	Short: "list the stored versions of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		path, err := pathutil.Normalize(args[0])
		if err != nil {
			return fmt.Errorf("error resolving path: %w", err)
		}

		h, err := store.Open(ctx, resolved.StorePath)
		if err != nil {
			return fmt.Errorf("error opening store: %w", err)
		}
		defer h.Close()

		versions, err := h.Index.VersionsOf(ctx, path)
		if err != nil {
			return fmt.Errorf("error listing versions: %w", err)
		}

		if len(versions) == 0 {
			warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
			fmt.Println(warnStyle.Render("no versions recorded for " + path))
			return nil
		}

		subtleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
		for _, v := range versions {
			local := v.StoredAt.Local().Format("2006-01-02 15:04:05")
			fmt.Printf("%s  %s\n", local, subtleStyle.Render(v.Hash))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}
