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

package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobad/cobad/internal/blobstore"
	"github.com/cobad/cobad/internal/debounce"
	"github.com/cobad/cobad/internal/versionindex"
)

func newTestWorker(t *testing.T) (*Worker, string) {
	t.Helper()

	storeRoot := t.TempDir()
	idx, err := versionindex.Open(context.Background(), filepath.Join(storeRoot, "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	q := debounce.NewQueue(5 * time.Millisecond)

	w := &Worker{
		Queue:     q,
		Blobs:     &blobstore.Store{Root: storeRoot},
		Index:     idx,
		StoreRoot: storeRoot,
	}
	return w, storeRoot
}

func TestWorkerStoresDispatchedFile(t *testing.T) {
	t.Parallel()

	w, _ := newTestWorker(t)

	watchedDir := t.TempDir()
	target := filepath.Join(watchedDir, "note.txt")
	require.NoError(t, os.WriteFile(target, []byte("version one"), 0o644))

	w.Queue.Register(target)
	w.Queue.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	w.Run(ctx)

	versions, err := w.Index.VersionsOf(context.Background(), target)
	require.NoError(t, err)
	require.Len(t, versions, 1)

	rc, err := w.Blobs.Open(versions[0].Hash)
	require.NoError(t, err)
	defer rc.Close()
}

func TestWorkerSkipsMissingFile(t *testing.T) {
	t.Parallel()

	w, _ := newTestWorker(t)

	missing := filepath.Join(t.TempDir(), "gone.txt")
	w.Queue.Register(missing)
	w.Queue.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	w.Run(ctx)

	versions, err := w.Index.VersionsOf(context.Background(), missing)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestWorkerStoresMultipleVersionsOnRepeatDispatch(t *testing.T) {
	t.Parallel()

	w, _ := newTestWorker(t)

	watchedDir := t.TempDir()
	target := filepath.Join(watchedDir, "note.txt")
	require.NoError(t, os.WriteFile(target, []byte("v1"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	w.Queue.Register(target)
	path, ok := w.Queue.Next(ctx)
	require.True(t, ok)
	w.store(ctx, path)

	require.NoError(t, os.WriteFile(target, []byte("v2"), 0o644))
	w.Queue.Register(target)
	path, ok = w.Queue.Next(ctx)
	require.True(t, ok)
	w.store(ctx, path)

	versions, err := w.Index.VersionsOf(context.Background(), target)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.NotEqual(t, versions[0].Hash, versions[1].Hash)
}
