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

// Package timeparse turns the timestamps a user types on the command
// line (which omit whatever's "obvious" — today's date, the seconds)
// into a single UTC instant.
package timeparse

import (
	"errors"
	"fmt"
	"time"
)

// ErrBadTimestamp is returned when input matches none of the accepted
// layouts.
var ErrBadTimestamp = errors.New("timeparse: unrecognized timestamp")

// layouts are tried in order. Every layout but the first lacks part of
// the instant (the seconds, the time of day, or the date), which
// fillDefaults supplies.
var layouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"15:04:05",
	"15:04",
}

// Parse interprets input as a local-time timestamp using one of a fixed
// set of layouts, tried in order, and returns the equivalent UTC time.
//
// A bare date defaults to the end of that day (23:59:59). A bare
// time-of-day defaults to today's date. A time given without seconds
// defaults its seconds to 59.
func Parse(input string, now time.Time) (time.Time, error) {
	now = now.In(time.Local)

	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, input, time.Local)
		if err != nil {
			continue
		}
		return fillDefaults(layout, t, now).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, input)
}

func fillDefaults(layout string, t, now time.Time) time.Time {
	switch layout {
	case "2006-01-02 15:04:05":
		return t

	case "2006-01-02 15:04":
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 59, 0, time.Local)

	case "2006-01-02":
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.Local)

	case "15:04:05":
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local)

	case "15:04":
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 59, 0, time.Local)

	default:
		return t
	}
}
