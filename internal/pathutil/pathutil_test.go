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

package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeExistingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	got, err := Normalize(f)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(f)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNormalizeNonexistentLeaf(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	missing := filepath.Join(dir, "does-not-exist.txt")

	got, err := Normalize(missing)
	require.NoError(t, err)
	assert.Equal(t, missing, got)
}

func TestNormalizeRelativePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))

	got, err := Normalize("rel.txt")
	require.NoError(t, err)

	resolvedDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolvedDir, "rel.txt"), got)
}

func TestNormalizeSymlink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink(target, link))

	got, err := Normalize(link)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIsUnderDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		dir  string
		want bool
	}{
		{"direct child", "/foo/bar/baz", "/foo/bar", true},
		{"nested child", "/foo/bar/baz/qux", "/foo/bar", true},
		{"same dir", "/foo/bar", "/foo/bar", true},
		{"sibling with shared prefix", "/foo/bar-baz", "/foo/bar", false},
		{"outside", "/foo/qux", "/foo/bar", false},
		{"parent of dir", "/foo", "/foo/bar", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := IsUnderDir(tt.path, tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
