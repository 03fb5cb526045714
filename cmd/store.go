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
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cobad/cobad/internal/store"
)

// storeCmd groups store-introspection subcommands.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "inspect the cobad store",
}

var storeInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "print store location and summary statistics",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		h, err := store.Open(ctx, resolved.StorePath)
		if err != nil {
			return fmt.Errorf("error opening store: %w", err)
		}
		defer h.Close()

		versionCount, err := h.Index.CountVersions(ctx)
		if err != nil {
			return fmt.Errorf("error counting versions: %w", err)
		}

		blobCount, blobBytes, err := countBlobs(filepath.Join(h.Root, "content"))
		if err != nil {
			return fmt.Errorf("error counting blobs: %w", err)
		}

		rows := [][]string{
			{" store root ", " " + h.Root + " "},
			{" database ", " " + filepath.Join(h.Root, "cobad.sqlite") + " "},
			{" versions recorded ", fmt.Sprintf(" %d ", versionCount)},
			{" blobs ", fmt.Sprintf(" %d ", blobCount)},
			{" approximate blob size ", " " + humanBytes(blobBytes) + " "},
		}

		t := table.New().
			Headers(" Field ", " Value ").
			Rows(rows...)

		fmt.Println(t)
		return nil
	},
}

var gcCheckCmd = &cobra.Command{
	Use:   "gc-check",
	Short: "reconcile the version index against the blob pool",
	Long: `Check the store for two kinds of drift between the version index
and the content pool:

  - missing blobs: a version references a hash no longer present in the
    content pool, which means that version cannot be restored.
  - orphaned blobs: a blob exists in the content pool but is no longer
    referenced by any recorded version, and could be reclaimed.

This command never deletes anything; it only reports.`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		h, err := store.Open(ctx, resolved.StorePath)
		if err != nil {
			return fmt.Errorf("error opening store: %w", err)
		}
		defer h.Close()

		referenced, err := h.Index.AllHashes(ctx)
		if err != nil {
			return fmt.Errorf("error reading version index: %w", err)
		}

		present := make(map[string]bool, len(referenced))
		if err := h.Blobs.Walk(func(hash string) error {
			present[hash] = true
			return nil
		}); err != nil {
			return fmt.Errorf("error walking content pool: %w", err)
		}

		var missing, orphaned []string
		for hash := range referenced {
			if !present[hash] {
				missing = append(missing, hash)
			}
		}
		for hash := range present {
			if !referenced[hash] {
				orphaned = append(orphaned, hash)
			}
		}
		sort.Strings(missing)
		sort.Strings(orphaned)

		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
		okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

		if len(missing) == 0 && len(orphaned) == 0 {
			fmt.Println(okStyle.Render("store is consistent: no missing or orphaned blobs"))
			return nil
		}

		for _, hash := range missing {
			fmt.Println(errStyle.Render("missing blob: " + hash))
		}
		for _, hash := range orphaned {
			fmt.Println(warnStyle.Render("orphaned blob: " + hash))
		}

		if len(missing) > 0 {
			return fmt.Errorf("store is inconsistent: %d missing blob(s)", len(missing))
		}
		return nil
	},
}

func countBlobs(contentDir string) (int, int64, error) {
	var count int
	var size int64

	err := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, ierr := d.Info()
		if ierr != nil {
			return ierr
		}
		count++
		size += info.Size()
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return count, size, nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func init() {
	storeCmd.AddCommand(storeInfoCmd)
	storeCmd.AddCommand(gcCheckCmd)
	rootCmd.AddCommand(storeCmd)
}
