package cotask

import (
	"runtime/trace"

	"github.com/webriots/coro"
)

// coroutine is the saved execution context of a task. The coroutine
// library keeps the real call stack; only the scheduler loop resumes it
// and only the task's own body yields it.
type coroutine struct {
	resume   func(struct{}) (State, bool)
	yield    func(State) struct{}
	stopping bool
	done     bool
}

// exitSignal unwinds a task body from Exit (or from a suspension point
// while the task is being discarded) up to initContext's recover.
type exitSignal struct{}

// initContext prepares a never-run task so that the first switch into
// it starts the entry func, and a normal return reports StateExit.
func (s *Scheduler) initContext(t *Task) {
	resume, _ := coro.New(
		func(yield func(State) struct{}, _ func() struct{}) (st State) {
			t.co.yield = yield
			if t.co.stopping {
				return StateExit
			}
			if t.ctx == nil {
				t.ctx = withTaskContext(s.ctx, t)
			}

			region := trace.StartRegion(t.ctx, taskTraceRegionType)
			defer region.End()

			defer func() {
				if p := recover(); p != nil {
					if _, ok := p.(exitSignal); !ok {
						panic(p)
					}
					t.state = StateExit
					st = StateExit
				}
			}()

			t.fn(t.ctx, t)

			t.state = StateExit
			return StateExit
		},
	)

	t.co.resume = resume
}

// switchIn transfers control to t and returns the state it suspended
// with once control comes back. A panic leaving the task is re-raised
// here; when it is a scheduler fault the original *FatalError is
// re-raised rather than the coroutine library's wrapping of it.
func (s *Scheduler) switchIn(t *Task) State {
	if t.co.done {
		s.fatal("switch", ErrSwitchFault)
	}

	s.fault = nil
	defer func() {
		if p := recover(); p != nil {
			t.co.done = true
			if fe := s.fault; fe != nil {
				s.fault = nil
				panic(fe)
			}
			panic(p)
		}
	}()

	st, ok := t.co.resume(struct{}{})
	if ok {
		return st
	}

	t.co.done = true
	if st != StateExit {
		s.fatal("switch", ErrSwitchFault)
	}
	return StateExit
}

// switchOut records st and hands control back to the scheduler loop.
// It returns when the loop next switches into t.
func (t *Task) switchOut(st State) {
	if t.co.stopping {
		panic(exitSignal{})
	}
	t.state = st
	t.co.yield(st)
	if t.co.stopping {
		panic(exitSignal{})
	}
}

// discard unwinds a context that will never be scheduled again. A
// suspended body resumes only to unwind through its deferred calls; a
// body that never started is not started.
func (s *Scheduler) discard(t *Task) {
	if t.co.done {
		return
	}
	t.co.stopping = true
	if s.switchIn(t) != StateExit || !t.co.done {
		s.fatal("discard", ErrSwitchFault)
	}
}
