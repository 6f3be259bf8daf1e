package task

// A Handle refers to a spawned task from outside of it. Completion is
// observable with a channel: Done is closed exactly once, when the task has
// finished, and remains closed thereafter.
type Handle struct {
	task *Task
	done chan struct{}
	err  error
}

// Name returns the name of the task.
func (h *Handle) Name() string {
	return h.task.name
}

// Done returns a channel that is closed when the task has finished.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the error the task function returned, ErrCanceled if the task
// was cancelled before it started, or nil if it has not finished yet.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Finished reports whether the task has finished.
func (h *Handle) Finished() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Cancel requests cancellation of the task. A suspended task is resumed with
// ErrCanceled; a task that has not started yet will never run. Cancelling a
// finished task does nothing.
//
// Cancel follows the executor's threading rules: call it from the goroutine
// driving the executor or from one of its tasks.
func (h *Handle) Cancel() {
	h.task.cancel()
}

func (h *Handle) finish(err error) {
	h.err = err
	close(h.done)
}
