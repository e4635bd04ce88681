package cotask

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTasks is raised when Run is called on a scheduler that never
	// had a task prepared.
	ErrNoTasks = errors.New("no tasks prepared")

	// ErrNoCurrentTask is raised when a task-only operation is called
	// while no task is running.
	ErrNoCurrentTask = errors.New("no task is running")

	// ErrNotCurrent is raised when Yield or Exit is invoked through the
	// handle of a task that is not the one currently running.
	ErrNotCurrent = errors.New("task is not the running task")

	// ErrStackExhausted is raised when the allocator cannot supply stack
	// memory for a new task.
	ErrStackExhausted = errors.New("stack memory exhausted")

	// ErrSwitchFault is raised when a context switch leaves the
	// scheduler without a well-defined owner, including an empty run
	// queue while non-system tasks are still counted.
	ErrSwitchFault = errors.New("context switch fault")

	// ErrNestedRun is raised when Run (or Close) is called while the
	// scheduler loop is already running.
	ErrNestedRun = errors.New("scheduler is already running")

	// ErrNilTaskFunc is raised when Prepare is given a nil entry.
	ErrNilTaskFunc = errors.New("nil task func")

	// ErrStackReleased is returned by an allocator asked to release a
	// stack it already released.
	ErrStackReleased = errors.New("stack already released")

	// ErrWouldBlock is the I/O status meaning "not ready yet". Readers
	// and writers used with YieldRead and YieldWrite may return it (or
	// EAGAIN) to have the calling task retried on its next turn.
	ErrWouldBlock = errors.New("operation would block")
)

// FatalError is the panic value for conditions the scheduler cannot
// continue past. Left unrecovered it aborts the process.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("cotask: fatal: %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsWouldBlock reports whether err means the operation should be
// retried later rather than surfaced to the caller.
func IsWouldBlock(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrWouldBlock) || isErrnoWouldBlock(err)
}
