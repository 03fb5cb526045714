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

// Package watcher translates raw filesystem notifications into
// debounce.Queue registrations, emulating recursive directory watching
// on top of fsnotify's non-recursive primitive.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/cobad/cobad/internal/debounce"
	"github.com/cobad/cobad/internal/ignore"
	"github.com/cobad/cobad/internal/pathutil"
)

// Adapter watches one or more root directories and feeds file-level
// modification events into Queue, after normalizing paths and applying
// Ignore.
type Adapter struct {
	Queue   *debounce.Queue
	Ignore  *ignore.Filter
	Verbose bool

	watcher *fsnotify.Watcher
}

// NewAdapter creates an Adapter and begins watching every root, walking
// each tree to register all existing subdirectories up front.
func NewAdapter(queue *debounce.Queue, ig *ignore.Filter, roots []string) (*Adapter, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: create fsnotify watcher: %w", err)
	}

	a := &Adapter{Queue: queue, Ignore: ig, watcher: w}

	for _, root := range roots {
		if err := a.watchTree(root); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	return a, nil
}

// watchTree registers root and every directory beneath it with the
// underlying fsnotify watcher. fsnotify only watches the exact
// directory it's told about, so recursive watching has to be emulated
// by walking the tree once at startup; newly created subdirectories are
// picked up as they're observed (see Run).
func (a *Adapter) watchTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if werr := a.watcher.Add(path); werr != nil {
				return fmt.Errorf("watcher: watch %s: %w", path, werr)
			}
		}
		return nil
	})
}

// Run consumes fsnotify events until ctx is canceled or the watcher's
// error channel closes.
func (a *Adapter) Run(ctx context.Context) error {
	defer a.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-a.watcher.Events:
			if !ok {
				return nil
			}
			a.handle(event)

		case err, ok := <-a.watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "cobad: watcher error: %v\n", err)
			}
		}
	}
}

func (a *Adapter) handle(event fsnotify.Event) {
	switch {
	case event.Op&fsnotify.Create != 0:
		a.handleCreate(event.Name)

	case event.Op&fsnotify.Write != 0:
		a.registerFile(event.Name)

	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		a.handleRemoveOrRename(event.Name)
	}
}

// handleCreate dispatches on whether the new path is a directory (start
// watching it, emulating recursion) or a file (register it).
// Moves within a watched tree surface as a Remove/Rename on the source
// followed by a Create at the destination; only the destination Create
// registers the file, matching the original's "moves only register the
// destination" rule.
func (a *Adapter) handleCreate(path string) {
	info, err := os.Lstat(path)
	if err != nil {
		return
	}

	if info.IsDir() {
		if err := a.watcher.Add(path); err != nil {
			fmt.Fprintf(os.Stderr, "cobad: watch %s: %v\n", path, err)
			return
		}
		_ = a.watchTree(path)
		return
	}

	if info.Mode().IsRegular() {
		a.registerFile(path)
	}
}

func (a *Adapter) registerFile(path string) {
	norm, err := pathutil.Normalize(path)
	if err != nil {
		return
	}
	if a.Ignore != nil && a.Ignore.IsIgnored(norm) {
		return
	}
	if a.Verbose {
		fmt.Println("registered", norm)
	}
	a.Queue.Register(norm)
}

// handleRemoveOrRename stops watching the path if it was a watched
// directory. Plain file deletions are dropped: this daemon keeps no
// deletion records. Paths already enqueued under a removed directory
// are not proactively evicted; the storage worker's "file disappeared"
// step handles that when it gets to them.
func (a *Adapter) handleRemoveOrRename(path string) {
	_ = a.watcher.Remove(path)
}
