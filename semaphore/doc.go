// Package semaphore provides a weighted counting semaphore for tasks running
// on a single cooperative executor (see the task package of this module).
//
// # Why This Package Exists
//
// Semaphores from the standard ecosystem (golang.org/x/sync/semaphore, buffered
// channels) block goroutines and synchronize with locks or atomics. Tasks of a
// thread-per-core executor never run in parallel, so that cost buys nothing;
// worse, blocking a goroutine behind the executor's back would stall every
// other task on the same core. This semaphore instead suspends the calling task
// through the executor and keeps its state in plain fields.
//
// # When NOT to Use This Package
//
// A Semaphore, every Permit it issues and every task acquiring from it must
// belong to one executor. It is not safe for use by goroutines or by tasks of
// different executors. It has no timeouts and no priorities; the only way to
// abandon a wait is to cancel the waiting task.
//
// # Admission Order
//
// Requests are admitted first-come-first-served. A request is granted
// immediately only if no other request is queued and enough units are
// available; otherwise it joins the tail of the queue, even if the pool could
// cover it right away. That precondition is what prevents small late requests
// from overtaking large early ones.
//
// Releasing units (Signal, or Permit.Release) wakes at most one waiter: the head
// of the queue, and only if the pool now covers its request. A woken task does
// not receive units directly. It re-runs the grant check when it resumes, and
// since nothing is queued ahead of it, it is granted unless a request that
// arrived in the meantime took the units first. In that case it goes back to
// the tail of the queue, behind requests that arrived after it:
//
//	sem := semaphore.New(0)         // A waits for 5 units.
//	sem.Signal(5)                   // A is woken, but has not resumed yet.
//	                                // B arrives, finds the queue empty and takes 3.
//	                                // A resumes, finds 2 units and re-queues.
//
// # Usage
//
// Prefer AcquirePermit, which ties the release to a Permit:
//
//	p, err := sem.AcquirePermit(t, 4)
//	if err != nil {
//	    return err // the semaphore was closed
//	}
//	defer p.Release()
//
// Acquire and Signal are the manual pair; the caller must Signal exactly the
// units it acquired.
//
// # Closing
//
// Close is terminal. Every queued task is resumed and fails with ErrBroken, and
// every later acquisition fails with ErrBroken without suspending. Releasing
// units after Close is allowed: the count is updated, but nothing can use it.
package semaphore
