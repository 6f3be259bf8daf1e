package task

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gammazero/deque"
	"github.com/op/go-logging"

	"github.com/notorious-go/coop/internal/xlog"
)

var (
	// ErrCanceled is returned by Suspend once the suspended task was cancelled.
	ErrCanceled = errors.New("task: canceled")

	// ErrStalled is returned by Run when tasks remain suspended but none is
	// runnable, so nothing on the executor can resume them.
	ErrStalled = errors.New("task: executor stalled")

	// ErrTaskPanicked is wrapped into the Handle error of a task whose function
	// panicked.
	ErrTaskPanicked = errors.New("task: panicked")
)

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for scheduling events. Executors log nothing
// by default.
func WithLogger(l *logging.Logger) Option {
	return func(e *Executor) {
		e.log = l
	}
}

// An Executor is a single logical worker that runs tasks one at a time.
//
// The zero Executor is not usable; create executors with NewExecutor. An
// Executor is not safe for concurrent use: Spawn, Run and Shutdown must be
// called from one goroutine, or from inside the executor's own tasks.
type Executor struct {
	name string
	log  *logging.Logger

	// ready holds runnable tasks in the order they became runnable.
	ready deque.Deque[*Task]

	// live holds every task that has not finished, in spawn order.
	live []*Task

	// current is the task holding the baton, nil while the executor itself
	// runs.
	current *Task

	// yield receives the baton back from the current task.
	yield chan struct{}

	running bool
}

// NewExecutor returns an idle executor. The name only appears in logs and
// errors.
func NewExecutor(name string, opts ...Option) *Executor {
	e := &Executor{
		name:  name,
		yield: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = xlog.Discard("task")
	}
	return e
}

// Name returns the name the executor was created with.
func (e *Executor) Name() string {
	return e.name
}

// Spawn adds a task running fn to the executor and returns its handle. The task
// becomes runnable immediately but only starts once the executor runs and
// reaches it in the ready queue.
//
// The error returned by fn becomes the Handle's error.
func (e *Executor) Spawn(name string, fn func(*Task) error) *Handle {
	t := &Task{
		name:   name,
		exec:   e,
		fn:     fn,
		resume: make(chan struct{}),
	}
	t.handle = &Handle{task: t, done: make(chan struct{})}
	e.live = append(e.live, t)
	e.schedule(t)
	e.log.Debugf("%s: spawn %s", e.name, name)
	return t.handle
}

// Run runs runnable tasks in FIFO order until none is left.
//
// Run returns nil if every spawned task has finished. If some tasks are still
// suspended, it returns an error wrapping ErrStalled; more tasks may be spawned
// or woken from the calling goroutine and Run called again.
//
// A panic inside a task is re-raised by Run with the original value, after the
// task's deferred calls have run.
func (e *Executor) Run() error {
	if e.running {
		panic(fmt.Sprintf("task: executor %s: Run called while running", e.name))
	}
	e.running = true
	defer func() { e.running = false }()

	for e.ready.Len() > 0 {
		e.step(e.ready.PopFront())
	}
	if n := len(e.live); n > 0 {
		e.log.Debugf("%s: stalled with %d suspended task(s)", e.name, n)
		return fmt.Errorf("executor %s: %d task(s) suspended: %w", e.name, n, ErrStalled)
	}
	return nil
}

// Shutdown cancels every unfinished task and runs the executor until all of
// them have returned. It returns ErrStalled only if tasks keep suspending after
// cancellation, which a well-behaved task never does.
func (e *Executor) Shutdown() error {
	for len(e.live) > 0 {
		n := len(e.live)
		for _, t := range slices.Clone(e.live) {
			t.cancel()
		}
		err := e.Run()
		if err == nil {
			return nil
		}
		if len(e.live) >= n {
			return err
		}
	}
	return nil
}

// Pending returns the number of spawned tasks that have not finished.
func (e *Executor) Pending() int {
	return len(e.live)
}

// step hands the baton to t and waits until it comes back.
func (e *Executor) step(t *Task) {
	t.queued = false
	if !t.started && t.canceled {
		// Cancelled before it ever ran: the function is skipped entirely.
		t.state = finished
		t.err = ErrCanceled
		e.finish(t)
		return
	}

	e.current = t
	t.state = running
	if !t.started {
		t.started = true
		go t.main()
	} else {
		t.resume <- struct{}{}
	}
	<-e.yield
	e.current = nil

	if t.state == finished {
		e.finish(t)
		if t.panicked != nil {
			panic(t.panicked)
		}
	}
}

func (e *Executor) finish(t *Task) {
	if i := slices.Index(e.live, t); i >= 0 {
		e.live = slices.Delete(e.live, i, i+1)
	}
	e.log.Debugf("%s: %s finished: %v", e.name, t.name, t.err)
	t.handle.finish(t.err)
}

// schedule appends t to the ready queue unless it is already there.
func (e *Executor) schedule(t *Task) {
	if t.state == runnable && t.queued {
		return
	}
	t.state = runnable
	t.queued = true
	e.ready.PushBack(t)
}
