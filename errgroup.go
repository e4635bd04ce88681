package cotask

import "context"

// Group runs functions as sibling tasks and collects the first error.
// The first failure cancels the group's context with that error.
type Group struct {
	sched  *Scheduler
	ctx    context.Context
	cancel context.CancelCauseFunc
	wg     WaitGroup
	err    error
}

// Group returns a new group whose context derives from the task's.
func (t *Task) Group() *Group {
	ctx, cancel := context.WithCancelCause(t.ctx)
	return &Group{sched: t.sched, ctx: ctx, cancel: cancel}
}

// Go prepares a task running f. The context handed to f carries the new
// task and is cancelled when any function of the group fails.
func (g *Group) Go(f func(context.Context) error) *Task {
	g.wg.Add(1)
	return g.sched.Prepare(func(_ context.Context, t *Task) {
		defer g.wg.Done()
		if err := f(withTaskContext(g.ctx, t)); err != nil && g.err == nil {
			g.err = err
			g.cancel(err)
		}
	}, 0)
}

// Wait suspends task until every function has returned and reports the
// first error.
func (g *Group) Wait(task *Task) error {
	g.wg.Wait(task)
	g.cancel(g.err)
	return g.err
}
