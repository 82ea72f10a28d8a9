package workpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestPool_RunsAllTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New(context.Background(), 3)
	var done atomic.Int32
	for i := 0; i < 20; i++ {
		p.Go(func(context.Context) { done.Add(1) })
	}
	p.Wait()

	assert.Equal(t, int32(20), done.Load())
	submitted, running, skipped := p.Stats()
	assert.Equal(t, 20, submitted)
	assert.Equal(t, 0, running)
	assert.Equal(t, 0, skipped)
}

func TestPool_BoundsConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t)

	const width = 2
	p := New(context.Background(), width)

	var cur, peak atomic.Int32
	for i := 0; i < 10; i++ {
		p.Go(func(context.Context) {
			n := cur.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			cur.Add(-1)
		})
	}
	p.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(width))
	assert.Equal(t, width, p.Width())
}

func TestPool_SubmitDoesNotBlock(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New(context.Background(), 1)
	release := make(chan struct{})

	submitted := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			p.Go(func(context.Context) { <-release })
		}
		close(submitted)
	}()

	select {
	case <-submitted:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked while the pool was busy")
	}
	close(release)
	p.Wait()
}

func TestPool_FailureIsolation(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New(context.Background(), 2)
	var mu sync.Mutex
	var results []string
	for _, name := range []string{"ok-1", "failing", "ok-2"} {
		p.Go(func(context.Context) {
			if name == "failing" {
				// a failing task reports its own error and returns
				return
			}
			mu.Lock()
			results = append(results, name)
			mu.Unlock()
		})
	}
	p.Wait()

	assert.ElementsMatch(t, []string{"ok-1", "ok-2"}, results)
}

func TestPool_CancelSkipsPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	p := New(ctx, 1)

	started := make(chan struct{})
	p.Go(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	})
	<-started

	var skipped atomic.Int32
	var ran atomic.Int32
	for i := 0; i < 4; i++ {
		p.Submit(Task{
			Run:  func(context.Context) { ran.Add(1) },
			Skip: func(err error) { skipped.Add(1); assert.ErrorIs(t, err, context.Canceled) },
		})
	}
	cancel()
	p.Wait()

	assert.Equal(t, int32(0), ran.Load())
	assert.Equal(t, int32(4), skipped.Load())
	_, _, n := p.Stats()
	assert.Equal(t, 4, n)
}

func TestPool_DefaultWidth(t *testing.T) {
	p := New(context.Background(), 0)
	assert.Equal(t, 4, p.Width())
	p.Wait()
}
