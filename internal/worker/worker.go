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

// Package worker drains the debounce queue and turns each due path into
// a stored version: snapshot the bytes, put them in the blob store,
// append a version row.
package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cobad/cobad/internal/blobstore"
	"github.com/cobad/cobad/internal/debounce"
	"github.com/cobad/cobad/internal/versionindex"
)

// Worker consumes Queue and stores each dispatched path's current
// contents as a new version.
type Worker struct {
	Queue     *debounce.Queue
	Blobs     *blobstore.Store
	Index     *versionindex.Index
	StoreRoot string
	Verbose   bool
}

// Run processes paths until Queue.Next reports the queue is drained or
// ctx is canceled. A single path's failure is logged and absorbed; it
// never stops the worker.
func (w *Worker) Run(ctx context.Context) {
	for {
		path, ok := w.Queue.Next(ctx)
		if !ok {
			return
		}
		w.store(ctx, path)
	}
}

func (w *Worker) store(ctx context.Context, path string) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "cobad: %s disappeared before backup, skipping\n", path)
		} else {
			fmt.Fprintf(os.Stderr, "cobad: stat %s: %v\n", path, err)
		}
		return
	}

	if !info.Mode().IsRegular() {
		fmt.Fprintf(os.Stderr, "cobad: %s is not a regular file, skipping\n", path)
		return
	}

	tempCopy, err := w.snapshot(path, info)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cobad: snapshot %s: %v\n", path, err)
		return
	}
	defer os.Remove(tempCopy)

	result, err := w.Blobs.Put(ctx, tempCopy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cobad: store blob for %s: %v\n", path, err)
		return
	}

	if _, err := w.Index.Append(ctx, path, result.Hash); err != nil {
		fmt.Fprintf(os.Stderr, "cobad: record version for %s: %v\n", path, err)
		return
	}

	if w.Verbose {
		fmt.Println("backed up", path, "->", result.Hash)
	}
}

// snapshot copies path into a temp file under the store's tmp directory,
// preserving mode and mtime, so that further writes to the original
// file during the blob put don't alter what gets hashed. This mirrors
// the Python reference's copy-before-hash discipline (shutil.copy2
// before the CAS put) and the teacher's temp-then-rename ingestion.
func (w *Worker) snapshot(path string, info os.FileInfo) (string, error) {
	tmpDir := filepath.Join(w.StoreRoot, "tmp", "snapshot")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir tmp: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open src: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(tmpDir, ".snapshot-*")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	tmpName := dst.Name()

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("copy: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp: %w", err)
	}

	if err := os.Chmod(tmpName, info.Mode()); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("chmod temp: %w", err)
	}

	mtime := info.ModTime()
	if err := os.Chtimes(tmpName, mtime, mtime); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("chtimes temp: %w", err)
	}

	return tmpName, nil
}
