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

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesLayout(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "store")
	h, err := Open(context.Background(), root)
	require.NoError(t, err)
	defer h.Close()

	assert.DirExists(t, filepath.Join(h.Root, "content"))
	assert.DirExists(t, filepath.Join(h.Root, "tmp", "incoming"))
	assert.DirExists(t, filepath.Join(h.Root, "tmp", "snapshot"))
	assert.FileExists(t, filepath.Join(h.Root, "cobad.sqlite"))
}

func TestOpenRejectsNonDirectory(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o644))

	_, err := Open(context.Background(), root)
	assert.True(t, errors.Is(err, ErrCorruptStore))
}

func TestCloseSweepsStaleTempFiles(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "store")
	h, err := Open(context.Background(), root)
	require.NoError(t, err)

	staleIncoming := filepath.Join(h.Root, "tmp", "incoming", ".put-stale")
	require.NoError(t, os.WriteFile(staleIncoming, []byte("x"), 0o644))

	staleSnapshot := filepath.Join(h.Root, "tmp", "snapshot", ".snapshot-stale")
	require.NoError(t, os.WriteFile(staleSnapshot, []byte("x"), 0o644))

	require.NoError(t, h.Close())
	assert.NoFileExists(t, staleIncoming)
	assert.NoFileExists(t, staleSnapshot)
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "store")
	h1, err := Open(context.Background(), root)
	require.NoError(t, err)
	require.NoError(t, h1.Close())

	h2, err := Open(context.Background(), root)
	require.NoError(t, err)
	defer h2.Close()
}
