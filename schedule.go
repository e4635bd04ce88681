package cotask

import (
	"context"
	"fmt"
	"runtime/trace"

	"github.com/rs/zerolog"
)

// noCopy flags copies of a Scheduler to go vet's copylocks check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Scheduler runs cooperative tasks on the caller's thread. All of its
// methods must be called either from the goroutine that calls Run or
// from inside a task it is running.
type Scheduler struct {
	noCopy noCopy

	cfg     Config
	alloc   StackAllocator
	log     zerolog.Logger
	observe Observer

	runq    runQueue
	live    *registry
	current *Task
	fault   *FatalError
	ctx     context.Context
	running bool

	nextID TaskID
	user   int
	system int
	stats  Stats
}

// New creates a scheduler with no tasks.
func New(opts ...Option) (*Scheduler, error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("cotask: %w", err)
	}
	return &Scheduler{
		cfg:     o.cfg,
		alloc:   o.alloc,
		log:     o.log,
		observe: o.observe,
		live:    newRegistry(),
		ctx:     context.Background(),
	}, nil
}

// Prepare registers a new READY task at the tail of the run queue.
// stackSize is rounded up to whole pages; 0 selects Config.DefaultStackSize,
// which itself defaults to the minimum of one page. It may
// be called before Run or from inside a running task.
func (s *Scheduler) Prepare(fn TaskFunc, stackSize int) *Task {
	if fn == nil {
		s.fatal("prepare", ErrNilTaskFunc)
	}
	stack, err := s.alloc.Alloc(s.cfg.stackSize(stackSize))
	if err != nil {
		s.fatal("prepare", fmt.Errorf("%w: %w", ErrStackExhausted, err))
	}

	s.nextID++
	t := &Task{
		id:    s.nextID,
		state: StateReady,
		last:  StateReady,
		fn:    fn,
		stack: stack,
		sched: s,
	}
	s.initContext(t)

	s.user++
	s.stats.Prepared++
	s.stats.StackBytes += stack.Len()
	s.live.put(t)
	s.runq.push(t)

	s.debug(t, "prepare")
	s.emit(EventPrepare, t)
	return t
}

// Run drives the queued tasks until no non-system task remains. System
// tasks still queued at that point are left there, neither run nor
// released; see Close. Run panics if no task was ever prepared.
func (s *Scheduler) Run(ctx context.Context) {
	if s.running {
		s.fatal("run", ErrNestedRun)
	}
	if s.stats.Prepared == 0 {
		s.fatal("run", ErrNoTasks)
	}

	var tracer *trace.Task
	ctx, tracer = trace.NewTask(ctx, taskTraceTaskType)
	defer tracer.End()

	s.ctx = ctx
	s.running = true
	defer func() {
		s.running = false
		// only set here when a panic is leaving a task
		if t := s.current; t != nil {
			t.co.done = true
			s.retire(t)
		}
	}()

	trace.Logf(ctx, taskTraceCategory, "RUN user=%d system=%d", s.user, s.system)

	for s.user > 0 {
		t, ok := s.runq.pop()
		if !ok {
			s.fatal("run", ErrSwitchFault)
		}
		s.dispatch(t)
	}

	trace.Log(ctx, taskTraceCategory, "RUN DONE")
	s.log.Debug().
		Int("stranded", s.runq.len()).
		Int("live", s.live.len()).
		Uint64("retired", s.stats.Retired).
		Msg("run done")
}

func (s *Scheduler) dispatch(t *Task) {
	t.state = StateRun
	s.current = t
	s.stats.Switches++
	s.emit(EventDispatch, t)

	st := s.switchIn(t)
	s.current = nil

	switch st {
	case StateYield:
		s.stats.Yields++
		s.requeue(t, st, EventYield)
	case StateWaitIO:
		s.stats.WaitIO++
		s.requeue(t, st, EventWaitIO)
	case StateExit:
		s.emit(EventExit, t)
		s.retire(t)
	default:
		s.fatal("run", ErrSwitchFault)
	}
}

func (s *Scheduler) requeue(t *Task, st State, kind EventKind) {
	t.last = st
	t.state = StateReady
	s.runq.push(t)
	s.debug(t, "suspend")
	s.emit(kind, t)
}

// retire releases everything an exited task owns. It only ever runs on
// the scheduler side of a switch, never on the task's own stack. A task
// that has not finished yet is unwound first.
func (s *Scheduler) retire(t *Task) {
	t.state = StateExit

	s.current = t
	s.discard(t)
	s.current = nil

	s.freeStack(t)
	s.live.remove(t.id)
	if t.system {
		s.system--
	} else {
		s.user--
	}
	s.stats.Retired++

	s.debug(t, "retire")
	s.emit(EventRetire, t)
}

func (s *Scheduler) freeStack(t *Task) {
	stack := t.stack
	if stack == nil {
		return
	}
	t.stack = nil
	s.stats.StackBytes -= stack.Len()
	if err := s.alloc.Free(stack); err != nil {
		s.warn(t, err, "stack release failed, leaking")
	}
}

// Close retires every task still queued. Suspended tasks are unwound
// (their deferred calls run, nothing else); tasks that never ran are
// dropped without starting. It is meant for system tasks stranded after
// Run returned.
func (s *Scheduler) Close() {
	if s.running {
		s.fatal("close", ErrNestedRun)
	}
	for {
		t, ok := s.runq.pop()
		if !ok {
			return
		}
		s.retire(t)
	}
}

// Current returns the running task. It panics outside a task.
func (s *Scheduler) Current() *Task {
	return s.mustCurrent("current")
}

// Yield suspends the running task; see Task.Yield.
func (s *Scheduler) Yield() {
	s.mustCurrent("yield").Yield()
}

// Exit terminates the running task; see Task.Exit.
func (s *Scheduler) Exit() {
	s.mustCurrent("exit").Exit()
}

func (s *Scheduler) mustCurrent(op string) *Task {
	if s.current == nil {
		s.fatal(op, ErrNoCurrentTask)
	}
	return s.current
}

// Pending returns the queued tasks, head first.
func (s *Scheduler) Pending() []*Task {
	return s.runq.snapshot()
}

// Tasks returns every task that still owns a stack, ordered by ID.
func (s *Scheduler) Tasks() []*Task {
	return s.live.tasks()
}

// Stats returns a snapshot of the scheduler counters.
func (s *Scheduler) Stats() Stats {
	st := s.stats
	st.User = s.user
	st.System = s.system
	return st
}
