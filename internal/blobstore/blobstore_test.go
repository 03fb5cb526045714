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

package blobstore

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathForLayout(t *testing.T) {
	t.Parallel()

	s := Store{Root: "/data/store"}
	hash := "da39a3ee5e6b4b0d3255bfef95601890afd80709"

	path, err := s.PathFor(hash)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data/store", "content", "d", "a", "3", "9", "a3ee5e6b4b0d3255bfef95601890afd80709"), path)
}

func TestPathForInvalidLength(t *testing.T) {
	t.Parallel()

	s := Store{Root: "/data/store"}
	_, err := s.PathFor("deadbeef")
	assert.Error(t, err)
}

func TestPutAndOpenRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Root: dir}

	srcPath := filepath.Join(dir, "source.txt")
	content := []byte("hello, cobad")
	require.NoError(t, os.WriteFile(srcPath, content, 0o644))

	res, err := s.Put(context.Background(), srcPath)
	require.NoError(t, err)
	assert.False(t, res.Existed)
	assert.Equal(t, int64(len(content)), res.SizeBytes)

	sum := sha1.Sum(content)
	assert.Equal(t, hex.EncodeToString(sum[:]), res.Hash)

	rc, err := s.Open(res.Hash)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestPutDedup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Root: dir}

	srcPath := filepath.Join(dir, "source.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("same bytes"), 0o644))

	first, err := s.Put(context.Background(), srcPath)
	require.NoError(t, err)
	assert.False(t, first.Existed)

	second, err := s.Put(context.Background(), srcPath)
	require.NoError(t, err)
	assert.True(t, second.Existed)
	assert.Equal(t, first.Hash, second.Hash)
}

func TestOpenNotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Root: dir}

	_, err := s.Open("da39a3ee5e6b4b0d3255bfef95601890afd80709")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWalkVisitsEveryBlob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Root: dir}

	var hashes []string
	for _, content := range []string{"one", "two", "three"} {
		srcPath := filepath.Join(dir, content+".txt")
		require.NoError(t, os.WriteFile(srcPath, []byte(content), 0o644))

		res, err := s.Put(context.Background(), srcPath)
		require.NoError(t, err)
		hashes = append(hashes, res.Hash)
	}

	var seen []string
	require.NoError(t, s.Walk(func(hash string) error {
		seen = append(seen, hash)
		return nil
	}))

	assert.ElementsMatch(t, hashes, seen)
}

func TestWalkEmptyStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Root: dir}

	var seen []string
	require.NoError(t, s.Walk(func(hash string) error {
		seen = append(seen, hash)
		return nil
	}))

	assert.Empty(t, seen)
}
