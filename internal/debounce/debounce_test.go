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

package debounce

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextBlocksUntilDue(t *testing.T) {
	t.Parallel()

	q := NewQueue(20 * time.Millisecond)
	q.Register("/a")

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	path, ok := q.Next(ctx)
	require.True(t, ok)
	assert.Equal(t, "/a", path)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestRegisterTwiceCoalesces(t *testing.T) {
	t.Parallel()

	q := NewQueue(30 * time.Millisecond)
	q.Register("/a")
	time.Sleep(15 * time.Millisecond)
	q.Register("/a") // pushes the deadline back

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	path, ok := q.Next(ctx)
	require.True(t, ok)
	assert.Equal(t, "/a", path)
	// Had coalescing not happened, this would have fired ~15ms after start.
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestOldestBurstDispatchedFirst(t *testing.T) {
	t.Parallel()

	q := NewQueue(20 * time.Millisecond)
	q.Register("/a")
	time.Sleep(5 * time.Millisecond)
	q.Register("/b")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	first, ok := q.Next(ctx)
	require.True(t, ok)
	second, ok := q.Next(ctx)
	require.True(t, ok)

	assert.Equal(t, "/a", first)
	assert.Equal(t, "/b", second)
}

func TestShutdownDrainsThenReturnsFalse(t *testing.T) {
	t.Parallel()

	q := NewQueue(5 * time.Millisecond)
	q.Register("/a")
	q.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	path, ok := q.Next(ctx)
	require.True(t, ok)
	assert.Equal(t, "/a", path)

	_, ok = q.Next(ctx)
	assert.False(t, ok)
}

func TestNextRespectsContextCancellation(t *testing.T) {
	t.Parallel()

	q := NewQueue(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, ok := q.Next(ctx)
	assert.False(t, ok)
}
