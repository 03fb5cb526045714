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

// normalizeCase applies OS case normalization to an already-absolute,
// symlink-resolved path. On case-sensitive filesystems (Linux, most of
// BSD) two differently-cased paths are different files, so this is a
// no-op; it exists as a seam for platforms where it isn't.
func normalizeCase(path string) string {
	return path
}
