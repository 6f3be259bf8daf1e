package task

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// A Group runs several executors in parallel, one per OS thread, which is the
// thread-per-core arrangement executors are meant for. Executors in a Group
// share nothing: tasks of one executor must never touch the tasks, wakers or
// primitives of another.
//
// A zero Group is ready to use.
type Group struct {
	executors []*Executor
}

// Add registers an executor with the group. It must not be called while the
// group is running.
func (g *Group) Add(e *Executor) {
	g.executors = append(g.executors, e)
}

// Len returns the number of executors in the group.
func (g *Group) Len() int {
	return len(g.executors)
}

// Run runs every executor on its own locked OS thread and waits for all of them
// to return. It returns the first error reported by an executor.
//
// An executor that stalls is shut down before its goroutine exits, so its
// suspended tasks are cancelled rather than leaked. Executors that have not
// started by the time ctx is done, or another executor failed, are not run at
// all.
func (g *Group) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, e := range g.executors {
		eg.Go(func() error {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.Run(); err != nil {
				e.log.Warningf("%s: shutting down: %v", e.name, err)
				e.Shutdown()
				return err
			}
			return nil
		})
	}
	return eg.Wait()
}
