// Package cotask runs single-threaded, cooperatively scheduled tasks
// and lets them perform blocking-style I/O on non-blocking descriptors.
//
// Key components:
//
//   - Scheduler: owns the FIFO run queue, the task counts and the
//     currently running task. Run drives every prepared task until no
//     non-system task remains.
//
//   - Task: a coroutine with its own stack region, name and system
//     flag. A task gives up the CPU only by yielding, exiting (or
//     returning), or waiting on I/O; nothing is preempted.
//
//   - StackAllocator: page-rounded, zeroed stack regions, from
//     anonymous mappings (MmapAllocator) or the Go heap
//     (HeapAllocator). A stack is released by the scheduler exactly
//     once, after its task has exited.
//
//   - YieldRead/YieldWrite, IO and FD: the cooperative I/O adapter. A
//     "would block" result suspends the task in WAITIO and the same
//     operation is retried from the same offset on its next turn.
//     Waiting is round-robin polling, not readiness notification.
//
//   - Synchronization primitives: Mutex, Sema, WaitGroup and Group,
//     all built on yielding so they never leave the run queue.
//
// Misuse that breaks scheduler invariants (running with no tasks,
// calling a task-only operation outside a task, running out of stack
// memory) panics with a *FatalError.
package cotask
