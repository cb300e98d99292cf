package build

import (
	"context"
	"errors"
	"sync"

	"git.home.luguber.info/inful/gallerybuilder/internal/config"
)

// task is one independent unit of output work.
type task struct {
	name string
	fn   func(ctx context.Context) error
}

// workerGroup tracks pool goroutines so Wait is never raced by Go.
type workerGroup struct {
	mu       sync.Mutex
	wg       sync.WaitGroup
	stopping bool
}

// Go starts fn unless the group is stopping.
func (g *workerGroup) Go(fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopping {
		return false
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn()
	}()
	return true
}

// StopAndWait prevents new workers and waits for running ones.
func (g *workerGroup) StopAndWait() {
	g.mu.Lock()
	g.stopping = true
	g.mu.Unlock()
	g.wg.Wait()
}

// runPool executes tasks on at most workers goroutines.
//
// Under fail_fast the first failure cancels every task not yet started and is
// returned. Under best_effort all tasks run and the failures are joined.
func runPool(ctx context.Context, workers int, policy config.BuildPolicy, tasks []task) error {
	if len(tasks) == 0 {
		return ctx.Err()
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu   sync.Mutex
		errs []error
	)
	queue := make(chan task)
	var group workerGroup
	for range workers {
		group.Go(func() {
			for t := range queue {
				if ctx.Err() != nil {
					continue
				}
				if err := t.fn(ctx); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					if policy != config.PolicyBestEffort {
						cancel()
					}
				}
			}
		})
	}

feed:
	for _, t := range tasks {
		select {
		case queue <- t:
		case <-ctx.Done():
			break feed
		}
	}
	close(queue)
	group.StopAndWait()

	if len(errs) == 0 {
		// Canceled by the caller before any task failed.
		return context.Cause(ctx)
	}
	if policy != config.PolicyBestEffort {
		return errs[0]
	}
	return errors.Join(append(errs, context.Cause(ctx))...)
}
