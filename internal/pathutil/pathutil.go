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

// Package pathutil canonicalizes filesystem paths into the absolute,
// symlink-resolved form used as the identity of every tracked file.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Normalize resolves path to an absolute, symlink-resolved, cleaned form.
//
// Relative paths are resolved against the current working directory.
// Symlinks are resolved to their targets. The function tolerates a
// nonexistent leaf: if only the final path component is missing, the
// parent is resolved and the original leaf name is reattached.
func Normalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)

	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return normalizeCase(resolved), nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	// Leaf doesn't exist (or doesn't exist yet): resolve the parent and
	// reattach the leaf's own name.
	parent, leaf := filepath.Split(abs)
	parent = filepath.Clean(parent)
	resolvedParent, perr := filepath.EvalSymlinks(parent)
	if perr != nil {
		// Parent doesn't exist either; nothing left to resolve.
		return "", err
	}

	return normalizeCase(filepath.Join(resolvedParent, leaf)), nil
}

// IsUnderDir reports whether path resides within dir.
//
// Both are converted to absolute paths first and compared via
// filepath.Rel, avoiding the false positives of a plain string-prefix
// check (e.g. "/foo/bar-baz" looking like it's under "/foo/bar").
func IsUnderDir(path, dir string) (bool, error) {
	ap, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}

	ad, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}

	rel, err := filepath.Rel(ad, ap)
	if err != nil {
		return false, err
	}

	if rel == "." {
		return true, nil
	}

	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return false, nil
	}

	if filepath.IsAbs(rel) {
		return false, nil
	}

	return true, nil
}
