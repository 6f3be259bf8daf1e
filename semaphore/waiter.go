package semaphore

import (
	"github.com/notorious-go/coop/task"
)

// A waiter is a queued request that could not be granted immediately. It is
// owned by the Acquire call of the suspended task; the queue only refers to
// it, and the task unlinks it through state.abandon if it stops waiting.
type waiter struct {
	units uint64

	// queued is true while the waiter is in the state's queue.
	queued bool

	// woken is set once, by the first wake; later wakes are ignored.
	woken bool

	// waker resumes the suspended task. It may be nil for a waiter that no
	// task is parked on.
	waker *task.Waker
}

func (w *waiter) wake() {
	if w == nil || w.woken {
		return
	}
	w.woken = true
	w.waker.Wake()
}
