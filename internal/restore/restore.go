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

// Package restore reconstructs a tracked file's bytes from a recorded
// version, writing them back to disk.
package restore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cobad/cobad/internal/blobstore"
	"github.com/cobad/cobad/internal/pathutil"
	"github.com/cobad/cobad/internal/versionindex"
)

// ErrTargetExists is returned by Restore when the resolved target
// already exists and force was not set.
var ErrTargetExists = errors.New("restore: target already exists")

// ErrCorruptStore is returned when a version's blob is missing from the
// blob store, i.e. the index and the content pool have diverged.
var ErrCorruptStore = errors.New("restore: blob missing from store")

// ErrNoSuchVersion is returned by FindVersionAt when no version of path
// exists at or before the requested time.
var ErrNoSuchVersion = errors.New("restore: no version at requested time")

// Restore writes the blob for version v to target, returning the
// resolved path it was written to.
//
// target resolution: an empty target restores to v's original path; an
// existing directory gets v's basename joined onto it; anything else is
// used verbatim. If the resolved path already exists and force is
// false, ErrTargetExists is returned without touching anything. Missing
// ancestor directories of any depth are created before the blob is
// written; resolveTarget deliberately avoids pathutil.Normalize (which
// tolerates only a missing leaf) so a target whose whole directory
// chain is gone can still be reconstructed.
func Restore(ctx context.Context, blobs *blobstore.Store, v versionindex.Version, target string, force bool) (string, error) {
	raw, err := resolveTarget(v.Path, target)
	if err != nil {
		return "", err
	}

	if _, err := os.Lstat(raw); err == nil {
		if !force {
			return "", fmt.Errorf("%w: %s", ErrTargetExists, raw)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("restore: stat target: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(raw), 0o755); err != nil {
		return "", fmt.Errorf("restore: mkdir parent: %w", err)
	}

	// The ancestor chain now exists, so it's safe to resolve symlinks
	// and get the canonical form of the final path.
	resolved, err := pathutil.Normalize(raw)
	if err != nil {
		return "", fmt.Errorf("restore: normalize target: %w", err)
	}
	parent := filepath.Dir(resolved)

	src, err := blobs.Open(v.Hash)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrCorruptStore, v.Hash)
		}
		return "", fmt.Errorf("restore: open blob: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(parent, ".restore-*")
	if err != nil {
		return "", fmt.Errorf("restore: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op if rename succeeded

	if _, err := copyCtx(ctx, tmp, src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("restore: copy: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("restore: fsync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("restore: close temp: %w", err)
	}

	if err := os.Rename(tmpName, resolved); err != nil {
		return "", fmt.Errorf("restore: rename into place: %w", err)
	}

	return resolved, nil
}

// FindVersionAt looks up the most recent version of path at or before
// at, normalizing path first. Returns ErrNoSuchVersion if none exists.
func FindVersionAt(ctx context.Context, idx *versionindex.Index, path string, at time.Time) (versionindex.Version, error) {
	norm, err := pathutil.Normalize(path)
	if err != nil {
		return versionindex.Version{}, fmt.Errorf("restore: normalize path: %w", err)
	}

	v, ok, err := idx.VersionAt(ctx, norm, at)
	if err != nil {
		return versionindex.Version{}, err
	}
	if !ok {
		return versionindex.Version{}, fmt.Errorf("%w: %s at %s", ErrNoSuchVersion, norm, at)
	}

	return v, nil
}

// resolveTarget computes the raw (not symlink-resolved) absolute target
// path. It deliberately stays string-only: pathutil.Normalize touches
// the filesystem via EvalSymlinks and only tolerates a missing leaf,
// which would fail here whenever the whole target directory chain is
// gone. Restore resolves symlinks itself once the tree has been
// recreated.
func resolveTarget(originalPath, target string) (string, error) {
	if target == "" {
		return rawAbs(originalPath)
	}

	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return rawAbs(filepath.Join(target, filepath.Base(originalPath)))
	}

	return rawAbs(target)
}

func rawAbs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

func copyCtx(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, 1024*1024)
	var total int64

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		nr, er := src.Read(buf)
		if nr > 0 {
			nw, ew := dst.Write(buf[:nr])
			if nw > 0 {
				total += int64(nw)
			}
			if ew != nil {
				return total, ew
			}
			if nw != nr {
				return total, io.ErrShortWrite
			}
		}
		if er != nil {
			if errors.Is(er, io.EOF) {
				return total, nil
			}
			return total, er
		}
	}
}
