package semaphore

// A Permit is a reservation of units obtained from AcquirePermit or
// TryAcquirePermit. Release gives the units back; it fires once, and every
// later call does nothing. Pair it with defer right after the acquisition so
// that the units are returned on every exit path, including cancellation of
// the task and panics:
//
//	p, err := sem.AcquirePermit(t, 1)
//	if err != nil {
//	    return err
//	}
//	defer p.Release()
//
// A Permit must not be copied. Handing the *Permit to another function or task
// transfers ownership without releasing anything.
type Permit struct {
	noCopy noCopy

	units uint64
	state *state
}

func newPermit(s *state, units uint64) *Permit {
	return &Permit{units: units, state: s}
}

// Units returns the number of units the permit reserves.
func (p *Permit) Units() uint64 {
	return p.units
}

// Released reports whether Release was called.
func (p *Permit) Released() bool {
	return p.state == nil
}

// Release returns the permit's units to its semaphore, waking the first queued
// task if its request is now covered. Only the first call has an effect; it is
// safe to call on a nil Permit.
//
// The error is ErrCounterOverflow if the semaphore was signalled with units it
// never handed out; the permit counts as released regardless.
func (p *Permit) Release() error {
	if p == nil || p.state == nil {
		return nil
	}
	s := p.state
	p.state = nil
	return s.release(p.units)
}

// noCopy may be embedded into structs which must not be copied after first use.
// See https://golang.org/issues/8005#issuecomment-190753527 for details.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
