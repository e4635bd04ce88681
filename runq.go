package cotask

import "github.com/gammazero/deque"

// runQueue is the FIFO of READY tasks. It does not own the tasks; their
// stacks are released by the scheduler, never by removal from here.
type runQueue struct {
	q deque.Deque[*Task]
}

func (rq *runQueue) push(t *Task) {
	rq.q.PushBack(t)
}

func (rq *runQueue) pop() (*Task, bool) {
	if rq.q.Len() == 0 {
		return nil, false
	}
	return rq.q.PopFront(), true
}

func (rq *runQueue) len() int {
	return rq.q.Len()
}

// snapshot returns the queued tasks head first.
func (rq *runQueue) snapshot() []*Task {
	tasks := make([]*Task, rq.q.Len())
	for i := range tasks {
		tasks[i] = rq.q.At(i)
	}
	return tasks
}
