package semaphore

import (
	"errors"
	"fmt"

	"github.com/op/go-logging"

	"github.com/notorious-go/coop/internal/xlog"
	"github.com/notorious-go/coop/task"
)

var (
	// ErrBroken is returned by acquisitions on a closed semaphore, including
	// those that were waiting when it was closed.
	ErrBroken = errors.New("semaphore: broken")

	// ErrCounterOverflow is returned when releasing units would push the
	// available count past the largest uint64. The count is left unchanged.
	ErrCounterOverflow = errors.New("semaphore: counter overflow")
)

// Option configures a Semaphore.
type Option func(*state)

// WithLogger sets the logger for lifecycle events (close, overflow, cancelled
// waits). Semaphores log nothing by default.
func WithLogger(l *logging.Logger) Option {
	return func(s *state) {
		s.log = l
	}
}

// WithName names the semaphore in log records and panics.
func WithName(name string) Option {
	return func(s *state) {
		s.name = name
	}
}

// Semaphore is a weighted counting semaphore for tasks of a single cooperative
// executor. Its methods must only be called from that executor's tasks, or
// from the goroutine driving the executor while it is not running.
type Semaphore struct {
	state *state
}

// New returns an open semaphore holding avail units.
func New(avail uint64, opts ...Option) *Semaphore {
	s := &state{avail: avail, name: "semaphore"}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = xlog.Discard("semaphore")
	}
	return &Semaphore{state: s}
}

// String returns a human-readable representation of the semaphore's state,
// such as "Semaphore(3 available, 1 waiting)" or "Semaphore(closed)".
func (s *Semaphore) String() string {
	if s.state.closed {
		return "Semaphore(closed)"
	}
	return fmt.Sprintf("Semaphore(%v available, %v waiting)", s.state.avail, s.state.queue.Len())
}

// Available returns the number of units that are not reserved. Units released
// to a woken task that has not resumed yet are still counted as available.
func (s *Semaphore) Available() uint64 {
	defer s.state.borrow()()
	return s.state.avail
}

// Waiters returns the number of queued requests.
func (s *Semaphore) Waiters() int {
	defer s.state.borrow()()
	return s.state.queue.Len()
}

// Closed reports whether Close was called.
func (s *Semaphore) Closed() bool {
	defer s.state.borrow()()
	return s.state.closed
}

// Acquire reserves units, suspending t until they can be granted. The caller
// must later return exactly the same number of units with Signal.
//
// Acquire returns ErrBroken if the semaphore is closed, or becomes closed while
// t waits. If t is cancelled while waiting, its request is withdrawn and
// Acquire returns task.ErrCanceled. In both cases no units are reserved.
func (s *Semaphore) Acquire(t *task.Task, units uint64) error {
	var w *waiter
	for {
		ok, err := s.tryAcquire(units, w)
		if err != nil || ok {
			return err
		}
		if w != nil {
			s.state.log.Debugf("%s: woken request for %d units lost its turn", s.state.name, units)
		}

		w = &waiter{units: units, waker: t.NewWaker()}
		s.enqueue(w)
		if err := t.Suspend(w.waker); err != nil {
			s.abandon(w)
			return err
		}
	}
}

// AcquirePermit is like Acquire, but returns the reservation as a Permit that
// gives the units back when released.
func (s *Semaphore) AcquirePermit(t *task.Task, units uint64) (*Permit, error) {
	if err := s.Acquire(t, units); err != nil {
		return nil, err
	}
	return newPermit(s.state, units), nil
}

// TryAcquire makes a single grant attempt without suspending. It reports
// whether units were reserved, and fails with ErrBroken once the semaphore is
// closed. Like Acquire, it never takes units while requests are queued.
func (s *Semaphore) TryAcquire(units uint64) (bool, error) {
	return s.tryAcquire(units, nil)
}

// TryAcquirePermit is like TryAcquire, but returns the reservation as a
// Permit. The Permit is nil if nothing was reserved.
func (s *Semaphore) TryAcquirePermit(units uint64) (*Permit, bool, error) {
	ok, err := s.tryAcquire(units, nil)
	if !ok {
		return nil, false, err
	}
	return newPermit(s.state, units), true, nil
}

// Signal returns units to the semaphore and wakes the first queued task if its
// request is now covered. At most one task is woken per call, however many
// requests the new total could cover; the woken task takes its units when it
// resumes.
//
// Signal fails with ErrCounterOverflow, changing nothing, if the available
// count would overflow. After Close, Signal still updates the count, which no
// acquisition can use any more.
func (s *Semaphore) Signal(units uint64) error {
	return s.state.release(units)
}

// Close closes the semaphore. Every queued task is woken and its acquisition
// fails with ErrBroken, as does every acquisition after Close. Closing a closed
// semaphore has no further effect.
func (s *Semaphore) Close() {
	woken := s.close()
	for _, w := range woken {
		w.wake()
	}
}

func (s *Semaphore) tryAcquire(units uint64, w *waiter) (bool, error) {
	defer s.state.borrow()()
	return s.state.tryAcquire(units, w)
}

func (s *Semaphore) enqueue(w *waiter) {
	defer s.state.borrow()()
	s.state.enqueue(w)
}

func (s *Semaphore) abandon(w *waiter) {
	next := func() *waiter {
		defer s.state.borrow()()
		return s.state.abandon(w)
	}()
	next.wake()
}

func (s *Semaphore) close() []*waiter {
	defer s.state.borrow()()
	if !s.state.closed {
		s.state.log.Debugf("%s: closed with %d waiter(s)", s.state.name, s.state.queue.Len())
	}
	return s.state.close()
}

// release is shared by Signal and Permit.Release. The head waiter is woken
// after the borrow ends.
func (s *state) release(units uint64) error {
	w, err := func() (*waiter, error) {
		defer s.borrow()()
		return s.signal(units)
	}()
	w.wake()
	return err
}
