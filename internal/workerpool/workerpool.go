// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package workerpool runs short tasks on reusable goroutines while bounding
// the number of tasks making progress at the same time.
//
// A task that must wait on something outside the pool calls Block: its
// parallelism slot is handed back for the duration of the wait so that a
// pool full of waiting tasks never starves the tasks they are waiting for.
package workerpool

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrNotStarted is returned when work is submitted before Start.
	ErrNotStarted = errors.New("worker pool has not started")
	// ErrStopped is returned when work is submitted after Stop.
	ErrStopped = errors.New("worker pool is stopped")
)

type worker struct {
	tasks chan func()
}

// WorkerPool is a pool of goroutines executing submitted tasks.
type WorkerPool struct {
	parallelism int64
	idleTimeout time.Duration
	slots       *semaphore.Weighted

	mu      sync.Mutex
	idle    []*worker
	started bool
	stopped bool

	wg      sync.WaitGroup
	spawned atomic.Int64
	blocked atomic.Int64
}

// New creates a new worker pool with the given options.
// Parallelism defaults to runtime.GOMAXPROCS(0).
func New(opts ...Option) *WorkerPool {
	pool := &WorkerPool{
		parallelism: int64(runtime.GOMAXPROCS(0)),
		idleTimeout: time.Second,
	}

	for _, opt := range opts {
		opt.Apply(pool)
	}

	pool.slots = semaphore.NewWeighted(pool.parallelism)
	return pool
}

// Start makes the pool accept work. It is safe to call Start multiple times.
func (pool *WorkerPool) Start() {
	pool.mu.Lock()
	pool.started = true
	pool.mu.Unlock()
}

// Submit hands task to an idle worker or spawns a new one. It never waits
// for a parallelism slot; the worker does.
func (pool *WorkerPool) Submit(task func()) error {
	pool.mu.Lock()
	switch {
	case !pool.started:
		pool.mu.Unlock()
		return ErrNotStarted
	case pool.stopped:
		pool.mu.Unlock()
		return ErrStopped
	}

	if n := len(pool.idle); n > 0 {
		w := pool.idle[n-1]
		pool.idle[n-1] = nil
		pool.idle = pool.idle[:n-1]
		pool.mu.Unlock()
		w.tasks <- task
		return nil
	}

	pool.wg.Add(1)
	pool.mu.Unlock()

	pool.spawned.Add(1)
	go pool.run(&worker{tasks: make(chan func(), 1)}, task)
	return nil
}

// Block runs fn without holding a parallelism slot. It must only be called
// from a task running on this pool. The slot is reacquired before Block
// returns, even when fn panics.
func (pool *WorkerPool) Block(fn func()) {
	pool.slots.Release(1)
	pool.blocked.Add(1)
	defer func() {
		pool.blocked.Add(-1)
		_ = pool.slots.Acquire(context.Background(), 1)
	}()
	fn()
}

// Stop prevents new submissions, releases idle workers and waits for the
// running tasks to return or for ctx to be done.
func (pool *WorkerPool) Stop(ctx context.Context) error {
	pool.mu.Lock()
	if !pool.started || pool.stopped {
		pool.mu.Unlock()
		return nil
	}

	pool.stopped = true
	for i, w := range pool.idle {
		close(w.tasks)
		pool.idle[i] = nil
	}
	pool.idle = pool.idle[:0]
	pool.mu.Unlock()

	done := make(chan struct{})
	go func() {
		pool.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Parallelism returns the maximum number of tasks running at once.
func (pool *WorkerPool) Parallelism() int {
	return int(pool.parallelism)
}

// Spawned returns the number of live worker goroutines.
func (pool *WorkerPool) Spawned() int {
	return int(pool.spawned.Load())
}

// Blocked returns the number of tasks currently inside Block.
func (pool *WorkerPool) Blocked() int {
	return int(pool.blocked.Load())
}

func (pool *WorkerPool) run(w *worker, task func()) {
	defer func() {
		pool.spawned.Add(-1)
		pool.wg.Done()
	}()

	for {
		pool.execute(task)

		var ok bool
		if task, ok = pool.park(w); !ok {
			return
		}
	}
}

func (pool *WorkerPool) execute(task func()) {
	_ = pool.slots.Acquire(context.Background(), 1)
	defer pool.slots.Release(1)
	task()
}

// park puts w back on the idle stack and waits for the next task. It returns
// false when the worker should exit.
func (pool *WorkerPool) park(w *worker) (func(), bool) {
	pool.mu.Lock()
	if pool.stopped {
		pool.mu.Unlock()
		return nil, false
	}
	pool.idle = append(pool.idle, w)
	pool.mu.Unlock()

	timer := time.NewTimer(pool.idleTimeout)
	defer timer.Stop()

	select {
	case task, ok := <-w.tasks:
		return task, ok
	case <-timer.C:
	}

	pool.mu.Lock()
	for i, candidate := range pool.idle {
		if candidate == w {
			pool.idle = append(pool.idle[:i], pool.idle[i+1:]...)
			pool.mu.Unlock()
			return nil, false
		}
	}
	pool.mu.Unlock()

	// a submitter popped w before the timeout was handled
	task, ok := <-w.tasks
	return task, ok
}
