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

// Package ignore decides whether a tracked path should be skipped: by
// pattern, by size, or because it falls inside the store's own root.
package ignore

import (
	"os"
	"regexp"

	"github.com/cobad/cobad/internal/pathutil"
)

// Filter holds the compiled ignore patterns, the size ceiling, and the
// store root a Filter always excludes.
type Filter struct {
	patterns  []*regexp.Regexp
	maxSize   int64
	storeRoot string
}

// NewFilter compiles patterns (git-wildmatch syntax) and returns a Filter
// that also rejects anything above maxSize bytes or inside storeRoot.
// A maxSize of 0 disables the size check. Invalid patterns are skipped;
// they can't reject anything, so a typo in one pattern doesn't take down
// the rest.
func NewFilter(patterns []string, maxSize int64, storeRoot string) *Filter {
	f := &Filter{maxSize: maxSize, storeRoot: storeRoot}
	for _, p := range patterns {
		re, err := compilePattern(p)
		if err != nil {
			continue
		}
		f.patterns = append(f.patterns, re)
	}
	return f
}

// IsIgnored reports whether path should be excluded from tracking. path
// is expected to already be normalized (see pathutil.Normalize).
func (f *Filter) IsIgnored(path string) bool {
	if f.storeRoot != "" {
		if under, err := pathutil.IsUnderDir(path, f.storeRoot); err == nil && under {
			return true
		}
	}

	for _, re := range f.patterns {
		if re.MatchString(path) {
			return true
		}
	}

	if f.maxSize > 0 {
		info, err := os.Stat(path)
		size := int64(0)
		if err == nil {
			size = info.Size()
		}
		if size > f.maxSize {
			return true
		}
	}

	return false
}
