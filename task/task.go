package task

import (
	"fmt"
)

type taskState int

const (
	runnable taskState = iota
	running
	suspended
	finished
)

// A Task is one cooperatively scheduled unit of work. The *Task passed to a
// task function is only valid inside that function, and its methods must only
// be called by the task itself.
type Task struct {
	name   string
	exec   *Executor
	fn     func(*Task) error
	handle *Handle

	state   taskState
	queued  bool
	started bool

	// canceled is sticky: once set, every Suspend returns ErrCanceled.
	canceled bool

	// waker is the Waker the task is parked on while suspended.
	waker *Waker

	// resume passes the baton from the executor to this task.
	resume chan struct{}

	err      error
	panicked any
}

// Name returns the name the task was spawned with.
func (t *Task) Name() string {
	return t.name
}

// Executor returns the executor running the task.
func (t *Task) Executor() *Executor {
	return t.exec
}

// Spawn adds a sibling task to the executor running t. See Executor.Spawn.
func (t *Task) Spawn(name string, fn func(*Task) error) *Handle {
	return t.exec.Spawn(name, fn)
}

// Canceled reports whether cancellation of the task was requested.
func (t *Task) Canceled() bool {
	return t.canceled
}

// NewWaker returns a fresh one-shot resumption handle for the task.
func (t *Task) NewWaker() *Waker {
	return &Waker{task: t}
}

// Suspend parks the task until w is woken and returns nil, or returns
// ErrCanceled if the task was cancelled before or during the suspension.
//
// If w was already woken, Suspend returns immediately without giving up
// control. A Waker serves a single suspension: after Suspend returns, waking it
// has no effect.
func (t *Task) Suspend(w *Waker) error {
	t.mustBeCurrent("Suspend")
	if w.task != t {
		panic(fmt.Sprintf("task: %s suspended on a waker of %s", t.name, w.task.name))
	}
	defer func() { w.spent = true }()

	if t.canceled {
		return ErrCanceled
	}
	if w.fired {
		return nil
	}

	t.state = suspended
	t.waker = w
	t.exec.log.Debugf("%s: %s suspended", t.exec.name, t.name)
	t.park()
	t.waker = nil
	t.exec.log.Debugf("%s: %s resumed", t.exec.name, t.name)

	if t.canceled {
		return ErrCanceled
	}
	return nil
}

// Yield moves the task to the tail of the ready queue, letting every task that
// is currently runnable run first.
func (t *Task) Yield() {
	t.mustBeCurrent("Yield")
	t.exec.schedule(t)
	t.park()
}

// park returns the baton to the executor and blocks until it is handed back.
func (t *Task) park() {
	t.exec.yield <- struct{}{}
	<-t.resume
}

func (t *Task) main() {
	defer func() {
		if r := recover(); r != nil {
			t.panicked = r
			t.err = fmt.Errorf("task %s: %w: %v", t.name, ErrTaskPanicked, r)
		}
		t.state = finished
		t.exec.yield <- struct{}{}
	}()
	t.err = t.fn(t)
}

func (t *Task) cancel() {
	if t.state == finished || t.canceled {
		return
	}
	t.canceled = true
	t.exec.log.Debugf("%s: cancel %s", t.exec.name, t.name)
	if t.state == suspended {
		t.exec.schedule(t)
	}
}

func (t *Task) mustBeCurrent(op string) {
	if t.exec.current != t {
		panic(fmt.Sprintf("task: %s called on %s outside of its own execution", op, t.name))
	}
}

// A Waker is a one-shot resumption handle: waking it resumes the task that is
// suspended on it. Waking a Waker more than once, or after the suspension it
// was created for has ended, does nothing.
type Waker struct {
	task *Task

	fired bool
	spent bool
}

// Wake makes the task suspended on w runnable again. Calling Wake on a nil
// Waker is a no-op.
func (w *Waker) Wake() {
	if w == nil || w.fired || w.spent {
		return
	}
	w.fired = true
	if t := w.task; t.state == suspended && t.waker == w {
		t.exec.schedule(t)
	}
}

// Woken reports whether Wake was called.
func (w *Waker) Woken() bool {
	return w.fired
}
