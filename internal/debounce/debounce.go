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

// Package debounce coalesces repeated filesystem events for the same
// path into a single, delayed unit of work. A path registered while
// it's still waiting just has its deadline pushed back, so a file under
// continuous modification is never dispatched mid-write.
package debounce

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Queue holds the set of paths with a pending, not-yet-due dispatch.
// Registering a path schedules (or reschedules) it idleWait in the
// future; Next blocks until the earliest-scheduled path's deadline has
// passed, then returns it.
type Queue struct {
	idleWait time.Duration

	mu       sync.Mutex
	cond     *sync.Cond
	order    *list.List // of *entry, oldest deadline at Front
	byPath   map[string]*list.Element
	shutdown bool
}

type entry struct {
	path     string
	deadline time.Time
}

// NewQueue returns a Queue whose entries become due idleWait after their
// most recent registration.
func NewQueue(idleWait time.Duration) *Queue {
	q := &Queue{
		idleWait: idleWait,
		order:    list.New(),
		byPath:   make(map[string]*list.Element),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Register schedules path for dispatch idleWait from now. If path is
// already pending, its deadline is pushed back and it moves to the back
// of the queue, behind every other pending path.
func (q *Queue) Register(path string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	deadline := time.Now().Add(q.idleWait)

	if el, ok := q.byPath[path]; ok {
		q.order.Remove(el)
	}
	el := q.order.PushBack(&entry{path: path, deadline: deadline})
	q.byPath[path] = el

	q.cond.Broadcast()
}

// Next blocks until the earliest-scheduled pending path becomes due and
// returns it. It returns false if ctx is canceled or the queue has been
// shut down and drained.
func (q *Queue) Next(ctx context.Context) (string, bool) {
	for {
		q.mu.Lock()
		for q.order.Len() == 0 {
			if q.shutdown {
				q.mu.Unlock()
				return "", false
			}
			if !q.waitLocked(ctx) {
				q.mu.Unlock()
				return "", false
			}
		}

		front := q.order.Front().Value.(*entry)
		pause := time.Until(front.deadline)
		if pause <= 0 {
			q.order.Remove(q.order.Front())
			delete(q.byPath, front.path)
			q.cond.Broadcast()
			q.mu.Unlock()
			return front.path, true
		}
		q.mu.Unlock()

		timer := time.NewTimer(pause)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", false
		}
	}
}

// waitLocked waits on the condition variable, honoring ctx cancellation.
// Caller must hold q.mu; it is released while waiting and reacquired
// before returning.
func (q *Queue) waitLocked(ctx context.Context) bool {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.cond.Wait()

	select {
	case <-ctx.Done():
		return false
	default:
		return true
	}
}

// Shutdown marks the queue as closed. Next returns false, rather than
// blocking, once every already-pending path has been returned.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.shutdown = true
	q.cond.Broadcast()
}

// Len reports the number of pending, not-yet-dispatched paths.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.order.Len()
}
