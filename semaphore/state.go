package semaphore

import (
	"math"

	"github.com/gammazero/deque"
	"github.com/op/go-logging"
)

// state is the mutable core shared by a Semaphore and all of its Permits.
//
// Every access goes through borrow, which enforces exclusive use at run time.
// On a cooperative executor nothing can interleave with a method of state, so
// an outstanding borrow means the semaphore was re-entered from within itself.
type state struct {
	avail  uint64
	queue  deque.Deque[*waiter]
	closed bool

	borrowed bool

	name string
	log  *logging.Logger
}

// borrow marks the state as in use and returns the function ending the borrow.
//
//	defer s.borrow()()
func (s *state) borrow() func() {
	if s.borrowed {
		panic("semaphore: " + s.name + ": state re-entered while borrowed")
	}
	s.borrowed = true
	return func() { s.borrowed = false }
}

// tryAcquire grants units if the semaphore is open, enough units are available
// and no request is queued ahead of this one. A fresh request (w == nil) has
// the whole queue ahead of it; a waiter popped by signal has none.
func (s *state) tryAcquire(units uint64, w *waiter) (bool, error) {
	if s.closed {
		return false, ErrBroken
	}
	ahead := s.queue.Len() > 0
	if w != nil && w.woken && !w.queued {
		ahead = false
	}
	if !ahead && s.avail >= units {
		s.avail -= units
		return true, nil
	}
	return false, nil
}

func (s *state) enqueue(w *waiter) {
	w.queued = true
	s.queue.PushBack(w)
}

// signal returns units to the pool and pops the head waiter if the pool now
// covers it. The caller wakes the returned waiter once the borrow has ended.
func (s *state) signal(units uint64) (*waiter, error) {
	if units > math.MaxUint64-s.avail {
		s.log.Warningf("%s: signal of %d units overflows %d available", s.name, units, s.avail)
		return nil, ErrCounterOverflow
	}
	s.avail += units
	return s.popHead(), nil
}

func (s *state) popHead() *waiter {
	if s.queue.Len() == 0 || s.queue.Front().units > s.avail {
		return nil
	}
	w := s.queue.PopFront()
	w.queued = false
	return w
}

// close marks the state closed and drains the queue, returning every waiter
// that must be woken.
func (s *state) close() []*waiter {
	s.closed = true
	woken := make([]*waiter, 0, s.queue.Len())
	for s.queue.Len() > 0 {
		w := s.queue.PopFront()
		w.queued = false
		woken = append(woken, w)
	}
	return woken
}

// abandon is the cancellation hook of a waiter whose task stopped waiting. A
// queued waiter is unlinked. A waiter that was already popped and woken by
// signal would have consumed that wake-up, so it is passed on to the new head.
func (s *state) abandon(w *waiter) *waiter {
	if w.queued {
		if i := s.queue.Index(func(q *waiter) bool { return q == w }); i >= 0 {
			s.queue.Remove(i)
		}
		w.queued = false
		s.log.Debugf("%s: unlinked cancelled request for %d units", s.name, w.units)
		return nil
	}
	if w.woken && !s.closed {
		return s.popHead()
	}
	return nil
}
