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
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cobad/cobad/internal/debounce"
	"github.com/cobad/cobad/internal/ignore"
	"github.com/cobad/cobad/internal/store"
	"github.com/cobad/cobad/internal/watcher"
	"github.com/cobad/cobad/internal/worker"
)

const idleWait = 5 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "watch a directory and continuously back up its files",
	Long: `Watch a directory (recursively) and back up every file within it
whenever it's modified, once it's been idle for a few seconds.

Runs in the foreground until interrupted (Ctrl-C), at which point it
finishes any in-flight work and exits cleanly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		dir := args[0]
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("error accessing %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}

		h, err := store.Open(ctx, resolved.StorePath)
		if err != nil {
			return fmt.Errorf("error opening store: %w", err)
		}
		defer h.Close()

		ig := ignore.NewFilter(resolved.Ignores, resolved.MaxFileSize, h.Root)
		queue := debounce.NewQueue(idleWait)

		adapter, err := watcher.NewAdapter(queue, ig, []string{dir})
		if err != nil {
			return fmt.Errorf("error starting watcher: %w", err)
		}
		adapter.Verbose = verbose

		w := &worker.Worker{
			Queue:     queue,
			Blobs:     h.Blobs,
			Index:     h.Index,
			StoreRoot: h.Root,
			Verbose:   verbose,
		}

		subtleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
		fmt.Println(subtleStyle.Render(fmt.Sprintf("watching %s", dir)))

		// The worker keeps draining the queue after the watcher stops, so
		// that a burst registered just before shutdown still gets stored.
		workerDone := make(chan struct{})
		go func() {
			w.Run(context.Background())
			close(workerDone)
		}()

		err = adapter.Run(ctx)

		queue.Shutdown()
		<-workerDone

		if err != nil && err != context.Canceled {
			return fmt.Errorf("watcher error: %w", err)
		}

		fmt.Println(subtleStyle.Render("stopped"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
