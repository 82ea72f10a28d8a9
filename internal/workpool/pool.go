// Package workpool runs jobs on a bounded number of goroutines.
//
// Submit never blocks: every task gets its own goroutine, which waits for one
// of width slots before running. Wait is the single drain barrier.
package workpool

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/colhub/hubsync/pkg/constants"
)

// Task is one unit of work. Run receives the pool context. Skip, if set, is
// called instead of Run when the context ends before a slot frees up.
type Task struct {
	Run  func(ctx context.Context)
	Skip func(err error)
}

// Pool is a bounded worker pool. Task failures are the task's business: the
// pool never stops on one and never cancels siblings.
type Pool struct {
	ctx   context.Context
	sem   *semaphore.Weighted
	group errgroup.Group
	width int

	submitted atomic.Int64
	running   atomic.Int64
	skipped   atomic.Int64
}

// New creates a pool of the given width bound to ctx. Non-positive widths use the default.
func New(ctx context.Context, width int) *Pool {
	if width <= 0 {
		width = constants.DefaultWorkers
	}
	return &Pool{
		ctx:   ctx,
		sem:   semaphore.NewWeighted(int64(width)),
		width: width,
	}
}

// Width returns the maximum number of concurrently running tasks.
func (p *Pool) Width() int {
	return p.width
}

// Submit schedules t and returns immediately.
func (p *Pool) Submit(t Task) {
	p.submitted.Add(1)
	p.group.Go(func() error {
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			p.skipped.Add(1)
			if t.Skip != nil {
				t.Skip(err)
			}
			return nil
		}
		defer p.sem.Release(1)

		if err := p.ctx.Err(); err != nil {
			p.skipped.Add(1)
			if t.Skip != nil {
				t.Skip(err)
			}
			return nil
		}

		p.running.Add(1)
		defer p.running.Add(-1)
		if t.Run != nil {
			t.Run(p.ctx)
		}
		return nil
	})
}

// Go is shorthand for submitting a task without a skip hook.
func (p *Pool) Go(run func(ctx context.Context)) {
	p.Submit(Task{Run: run})
}

// Wait blocks until every submitted task has run or been skipped.
func (p *Pool) Wait() {
	_ = p.group.Wait()
}

// Stats returns submitted, currently running and skipped task counts.
func (p *Pool) Stats() (submitted, running, skipped int) {
	return int(p.submitted.Load()), int(p.running.Load()), int(p.skipped.Load())
}
