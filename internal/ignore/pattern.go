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

package ignore

import (
	"fmt"
	"regexp"
	"strings"
)

// compilePattern translates a git-wildmatch-style pattern into a Go
// regular expression anchored to match the whole path.
//
//   - "*" matches zero or more characters other than "/".
//   - "?" matches exactly one character other than "/".
//   - A leading "**/" matches in all directories, including none.
//   - A trailing "/**" matches everything under the preceding directory.
//   - An internal "/**/" matches zero or more intervening directories.
//   - "\x" escapes x; any other use of "**" is an error.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	suffix := ""

	if strings.HasPrefix(pattern, "**/") {
		b.WriteString("(.*/)?")
		pattern = pattern[3:]
	}

	for strings.HasSuffix(pattern, "/**") {
		suffix = "(/.*)?"
		pattern = pattern[:len(pattern)-3]
	}

	i := 0
	for i < len(pattern) {
		switch {
		case strings.HasPrefix(pattern[i:], "/**/"):
			b.WriteString("/(.*/)?")
			i += 4
		case pattern[i] == '*':
			if strings.HasPrefix(pattern[i:], "**") {
				return nil, fmt.Errorf("ignore: invalid pattern %q: illegal use of \"**\" at position %d", pattern, i+1)
			}
			b.WriteString("[^/]*")
			i++
		case pattern[i] == '?':
			b.WriteString("[^/]")
			i++
		case pattern[i] == '\\':
			if i == len(pattern)-1 {
				return nil, fmt.Errorf("ignore: invalid pattern %q: illegal use of \"\\\" at position %d", pattern, i+1)
			}
			b.WriteString(regexp.QuoteMeta(string(pattern[i+1])))
			i += 2
		default:
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
			i++
		}
	}

	return regexp.Compile("^" + b.String() + suffix + "$")
}
