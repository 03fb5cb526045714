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

// Package store owns the lifecycle of a cobad store directory: creating
// it, migrating its database, and composing the blob store and version
// index that every other package works through.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cobad/cobad/internal/blobstore"
	"github.com/cobad/cobad/internal/pathutil"
	"github.com/cobad/cobad/internal/versionindex"
)

// ErrCorruptStore is returned by Open when root exists but is not a
// directory.
var ErrCorruptStore = errors.New("store: root exists and is not a directory")

// Handle is an opened store: its blob pool, its version index, and the
// normalized root path they live under.
type Handle struct {
	Root  string
	Blobs *blobstore.Store
	Index *versionindex.Index
}

// Open creates root (and its content/tmp subdirectories) if missing,
// opens and migrates its database, and returns a ready-to-use Handle.
func Open(ctx context.Context, root string) (*Handle, error) {
	if info, err := os.Stat(root); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrCorruptStore, root)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("store: stat root: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(root, "content"), 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir content: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "tmp", "incoming"), 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir tmp/incoming: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "tmp", "snapshot"), 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir tmp/snapshot: %w", err)
	}

	normRoot, err := pathutil.Normalize(root)
	if err != nil {
		return nil, fmt.Errorf("store: normalize root: %w", err)
	}

	idx, err := versionindex.Open(ctx, filepath.Join(normRoot, "cobad.sqlite"))
	if err != nil {
		return nil, err
	}

	return &Handle{
		Root:  normRoot,
		Blobs: &blobstore.Store{Root: normRoot},
		Index: idx,
	}, nil
}

// Close closes the database connection and makes a best-effort sweep of
// stale temp files left behind by a crashed ingest, both blobstore's own
// staging directory and the worker's pre-hash snapshot staging
// directory. Sweep failures are not fatal: an orphaned temp file is
// wasted disk space, not corruption.
func (h *Handle) Close() error {
	sweepTempDir(filepath.Join(h.Root, "tmp", "incoming"))
	sweepTempDir(filepath.Join(h.Root, "tmp", "snapshot"))
	return h.Index.Close()
}

func sweepTempDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		_ = os.Remove(filepath.Join(dir, e.Name()))
	}
}
