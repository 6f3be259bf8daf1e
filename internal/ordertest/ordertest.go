// Package ordertest provides utilities for testing the order in which
// cooperative tasks pass a synchronization point, such as being granted units
// by a semaphore.
//
// # Overview
//
// Tasks call [Recorder.Record] with their token at the point under test. Once
// the executor has run, [Verify] checks the recorded order against a list of
// [Event]s, each declaring which tokens must have been recorded before it.
//
// # Example Usage
//
//	var grants ordertest.Recorder
//	for _, name := range []string{"first", "second"} {
//		ex.Spawn(name, func(t *task.Task) error {
//			if err := sem.Acquire(t, 1); err != nil {
//				return err
//			}
//			grants.Record(t.Name())
//			return nil
//		})
//	}
//	// ... run the executor, releasing units ...
//	ordertest.Verify(t, &grants, ordertest.Sequence("first", "second"))
package ordertest

import (
	"slices"
	"testing"
)

// A Recorder collects tokens in the order they are recorded. It is meant for
// tasks of a single executor and is not safe for concurrent use by goroutines.
//
// The zero Recorder is ready to use.
type Recorder struct {
	tokens []string
}

// Record appends token to the recorded order.
func (r *Recorder) Record(token string) {
	r.tokens = append(r.tokens, token)
}

// Tokens returns a copy of the recorded tokens.
func (r *Recorder) Tokens() []string {
	return slices.Clone(r.tokens)
}

// Verify checks that every event was recorded exactly once and after all of its
// dependencies, and that nothing else was recorded.
func Verify(t testing.TB, r *Recorder, events []Event) {
	t.Helper()

	tokens := r.Tokens()
	t.Logf("recorded order: %v", tokens)
	if len(tokens) != len(events) {
		t.Errorf("recorded %d tokens, want %d", len(tokens), len(events))
	}
	for _, event := range events {
		event.Check(t, tokens)
	}
}

// Sequence returns events forming a total order: each token must be recorded
// after the one before it.
func Sequence(tokens ...string) []Event {
	events := make([]Event, len(tokens))
	for i, token := range tokens {
		events[i].Token = token
		if i > 0 {
			events[i].HappensAfter = []string{tokens[i-1]}
		}
	}
	return events
}

// Event is a token expected in the recorded order, together with the tokens
// that must precede it.
type Event struct {
	// Token identifies the event in the recorded order.
	Token string

	// HappensAfter lists the tokens that must be recorded before Token.
	HappensAfter []string
}

// Check verifies that all of this event's dependencies were recorded before
// this event in the given order.
//
// This method will verify that:
//   - This event's token appears in the recorded list of tokens exactly once.
//   - All dependencies listed in HappensAfter appear before Token in the list.
//
// Any violations of the dependency constraints will be reported as test errors.
func (e Event) Check(t testing.TB, tokens []string) {
	t.Helper()

	eventIndex, ok := e.index(tokens)
	if !ok {
		t.Errorf("event %v was not recorded", e.Token)
		return
	}
	if n := e.count(tokens); n > 1 {
		t.Errorf("event %v was recorded %d times", e.Token, n)
	}

	for _, dep := range e.HappensAfter {
		if !slices.Contains(tokens[:eventIndex], dep) {
			t.Errorf("event %v: dependency %v was not recorded before it", e.Token, dep)
		}
	}
}

func (e Event) index(tokens []string) (index int, found bool) {
	index = slices.Index(tokens, e.Token)
	return index, index >= 0
}

func (e Event) count(tokens []string) (n int) {
	for _, token := range tokens {
		if token == e.Token {
			n++
		}
	}
	return n
}
