package cotask

import "time"

// EventKind identifies a scheduler transition.
type EventKind int

const (
	EventPrepare EventKind = iota
	EventDispatch
	EventYield
	EventWaitIO
	EventExit
	EventRetire
)

func (k EventKind) String() string {
	switch k {
	case EventPrepare:
		return "Prepare"
	case EventDispatch:
		return "Dispatch"
	case EventYield:
		return "Yield"
	case EventWaitIO:
		return "WaitIO"
	case EventExit:
		return "Exit"
	case EventRetire:
		return "Retire"
	default:
		return "Unknown"
	}
}

// Event is delivered to the scheduler's Observer on every transition.
// Observers run on the scheduler loop and must not call back into it.
type Event struct {
	Time time.Time
	Kind EventKind
	Task TaskID
}

// Observer receives scheduler events.
type Observer func(Event)

// Stats is a snapshot of scheduler counters.
type Stats struct {
	Prepared   uint64 // tasks ever prepared
	Retired    uint64 // tasks whose stacks have been released
	Switches   uint64 // switches into a task
	Yields     uint64 // explicit yields
	WaitIO     uint64 // would-block suspensions
	StackBytes int    // bytes currently held by live task stacks
	User       int    // live non-system tasks
	System     int    // live system tasks
}

func (s *Scheduler) emit(kind EventKind, t *Task) {
	if s.observe == nil {
		return
	}
	s.observe(Event{Time: time.Now(), Kind: kind, Task: t.id})
}
