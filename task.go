package cotask

import (
	"context"
	"strconv"
)

// TaskID identifies a task within its scheduler. IDs are assigned in
// preparation order and never reused.
type TaskID uint64

// TaskFunc is the entry point of a task. Returning from it exits the
// task. Any argument the task needs is carried by the closure.
type TaskFunc func(ctx context.Context, t *Task)

// State is the lifecycle state of a task.
type State int

const (
	StateReady  State = iota // queued, eligible to run
	StateRun                 // currently executing
	StateYield               // suspended by an explicit yield
	StateWaitIO              // suspended until an I/O retry
	StateExit                // terminated, never queued again
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "READY"
	case StateRun:
		return "RUN"
	case StateYield:
		return "YIELD"
	case StateWaitIO:
		return "WAITIO"
	case StateExit:
		return "EXIT"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Task is the control block of one coroutine.
type Task struct {
	id     TaskID
	name   string
	state  State
	last   State
	system bool
	fn     TaskFunc
	stack  *Stack
	sched  *Scheduler
	ctx    context.Context
	co     coroutine
}

// ID returns the task's identity.
func (t *Task) ID() TaskID {
	return t.id
}

// Name returns the task name. A task that was never named gets
// "task-<id>" on first use.
func (t *Task) Name() string {
	if t.name == "" {
		t.name = "task-" + strconv.FormatUint(uint64(t.id), 10)
	}
	return t.name
}

func (t *Task) SetName(name string) {
	t.name = name
}

// State returns the lifecycle state. Queued tasks are always READY; the
// reason they last gave up the CPU is reported by LastSuspend.
func (t *Task) State() State {
	return t.state
}

// LastSuspend returns StateYield or StateWaitIO for a task that has been
// suspended at least once, StateReady otherwise.
func (t *Task) LastSuspend() State {
	return t.last
}

// System reports whether the task is excluded from the count that
// keeps Run going.
func (t *Task) System() bool {
	return t.system
}

// SetSystem moves the task between the system and non-system counts.
// The change applies immediately; a non-system task that marks itself
// system may let Run return at its next suspension.
func (t *Task) SetSystem(system bool) {
	if t.system == system {
		return
	}
	t.system = system
	if t.state == StateExit {
		return
	}
	s := t.sched
	if system {
		s.user--
		s.system++
	} else {
		s.system--
		s.user++
	}
}

// Context returns the context the task body was started with. It is nil
// until the task is first dispatched.
func (t *Task) Context() context.Context {
	return t.ctx
}

// Scheduler returns the scheduler that owns the task.
func (t *Task) Scheduler() *Scheduler {
	return t.sched
}

// Stack returns the task's owned memory region. It must not be retained
// past the task's exit.
func (t *Task) Stack() []byte {
	return t.stack.Bytes()
}

// Yield suspends the task and queues it behind every task that is
// currently ready. It must be called by the task itself.
func (t *Task) Yield() {
	t.suspend("yield", StateYield)
}

// Exit terminates the task. It does not return: the task body unwinds
// like a panic, running its deferred calls once, and the scheduler then
// retires it. Deferred calls must not suspend, and a body that recovers
// every panic indiscriminately swallows the exit.
func (t *Task) Exit() {
	t.checkCurrent("exit")
	panic(exitSignal{})
}

// wait suspends the task until its next turn for an I/O retry.
func (t *Task) wait(op string) {
	t.suspend(op, StateWaitIO)
}

func (t *Task) suspend(op string, st State) {
	t.checkCurrent(op)
	t.switchOut(st)
}

func (t *Task) checkCurrent(op string) {
	s := t.sched
	switch s.current {
	case nil:
		s.fatal(op, ErrNoCurrentTask)
	case t:
	default:
		s.fatal(op, ErrNotCurrent)
	}
}
