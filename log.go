package cotask

import (
	"fmt"
	"runtime/trace"
)

const (
	taskTraceTaskType   = "cotask-run"
	taskTraceRegionType = "cotask-task"
	taskTraceCategory   = "cotask"
)

// fatal logs err and panics with a *FatalError. It never returns.
func (s *Scheduler) fatal(op string, err error) {
	ev := s.log.Error().Str("op", op).Err(err)
	if s.current != nil {
		ev = ev.Uint64("task", uint64(s.current.id))
	}
	ev.Msg("fatal scheduler error")

	fe := &FatalError{Op: op, Err: err}
	s.fault = fe
	panic(fe)
}

func (s *Scheduler) debug(t *Task, msg string) {
	if e := s.log.Debug(); e.Enabled() {
		e.Uint64("task", uint64(t.id)).
			Str("name", t.Name()).
			Stringer("state", t.state).
			Bool("system", t.system).
			Msg(msg)
	}
}

func (s *Scheduler) warn(t *Task, err error, msg string) {
	s.log.Warn().
		Uint64("task", uint64(t.id)).
		Err(err).
		Msg(msg)
}

// Log writes msg to the execution trace, prefixed with the task name.
func (t *Task) Log(msg string) {
	if trace.IsEnabled() && t.ctx != nil {
		trace.Log(t.ctx, taskTraceCategory, t.Name()+" "+msg)
	}
}

// Logf is Log with formatting.
func (t *Task) Logf(format string, args ...any) {
	if trace.IsEnabled() && t.ctx != nil {
		trace.Log(t.ctx, taskTraceCategory, t.Name()+" "+fmt.Sprintf(format, args...))
	}
}
