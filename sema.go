package cotask

import "github.com/gammazero/deque"

// sema is a counting semaphore for tasks of one scheduler. Waiters line
// up in arrival order and poll by yielding until they reach the front
// and a unit is free, so they stay in the scheduler's single run queue.
type sema struct {
	noCopy noCopy             // Prevents copying of the semaphore
	v      int                // Value (available units)
	w      deque.Deque[*Task] // Waiting tasks queue
}

// acquire takes a unit for t, yielding until one is available and no
// earlier waiter is ahead of it.
func (s *sema) acquire(t *Task) {
	if s.v > 0 && s.w.Len() == 0 {
		s.v--
		return
	}

	s.w.PushBack(t)
	for s.v == 0 || s.w.Front() != t {
		t.Yield()
	}
	s.w.PopFront()
	s.v--
}

// release returns a unit. The front waiter picks it up on its next turn.
func (s *sema) release() {
	s.v++
}

// Sema limits how many tasks hold a resource at once.
type Sema struct {
	s sema
}

// NewSema returns a semaphore with n units.
func NewSema(n int) *Sema {
	sm := new(Sema)
	sm.s.v = n
	return sm
}

// Acquire takes one unit for the running task t.
func (sm *Sema) Acquire(t *Task) {
	sm.s.acquire(t)
}

func (sm *Sema) Release() {
	sm.s.release()
}

// WaitCount returns the number of tasks waiting for a unit.
func (sm *Sema) WaitCount() int {
	return sm.s.w.Len()
}
