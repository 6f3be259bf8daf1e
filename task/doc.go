// Package task provides a single-threaded cooperative scheduler: an Executor
// runs many tasks, but only ever one at a time, and a task only gives up control
// at explicit suspension points.
//
// # Why This Package Exists
//
// Goroutines are preemptively scheduled across threads, so anything they share
// must be guarded by locks or atomics. A thread-per-core runtime takes the
// opposite approach: all work belonging to one core is funnelled through one
// logical worker, and state owned by that worker needs no synchronization at
// all. Primitives built for such a runtime (see the semaphore package of this
// module) rely on exactly two guarantees, which this package provides:
//
//   - Mutual exclusion by construction: between two suspension points, a task
//     is the only code touching the executor's state.
//   - Explicit resumption: a suspended task stays suspended until the Waker it
//     parked on is fired, or until the task is cancelled.
//
// # Execution Model
//
// Each task is backed by a goroutine, but the executor hands a baton between
// them: a task runs only while it holds the baton, and returns it when it
// suspends, yields, or finishes. The ready queue is strictly FIFO, so the
// interleaving of tasks is fully deterministic for a given program.
//
//	ex := task.NewExecutor("core-0")
//	ex.Spawn("worker", func(t *task.Task) error {
//	    w := t.NewWaker()
//	    register(w)         // hand the waker to whoever will resume us
//	    return t.Suspend(w) // park until w.Wake() is called
//	})
//	err := ex.Run()
//
// Run returns once no task is runnable. If some tasks are still suspended at
// that point, nothing on this executor can ever wake them again, so Run
// reports ErrStalled. Shutdown cancels all such tasks and drains the executor.
//
// # Cancellation
//
// Cancelling a task (Handle.Cancel) is cooperative: the task is resumed, and
// its current or next Suspend call returns ErrCanceled. The task function is
// expected to unwind, letting deferred clean-up run, and return.
//
// # Thread-per-core
//
// An Executor, its tasks and every Waker they create must only be used from the
// goroutine driving Run. To use several cores, create one executor per core and
// run them with a Group, which pins each executor to its own OS thread.
package task
