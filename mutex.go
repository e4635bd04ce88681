package cotask

// Mutex provides mutual exclusion for tasks. Tasks that find it held
// wait in arrival order, yielding until their turn comes.
type Mutex struct {
	noCopy noCopy // Prevents copying of the mutex
	r      *Task  // Task that holds the lock
	sema   sema   // Queue of waiting tasks
}

// Lock acquires the mutex for the running task.
func (m *Mutex) Lock(task *Task) {
	if m.r == nil && m.sema.w.Len() == 0 {
		m.r = task
		return
	}

	m.sema.acquire(task)
	m.r = task
}

// Unlock releases the mutex, handing it to the first waiter if any.
func (m *Mutex) Unlock() {
	if m.r == nil {
		panic("cotask: unlock of unlocked Mutex")
	}
	m.r = nil
	if m.sema.w.Len() > 0 {
		m.sema.release()
	}
}

// Owner returns the task holding the lock, or nil.
func (m *Mutex) Owner() *Task {
	return m.r
}

// WaitCount returns the number of tasks waiting to acquire the mutex.
func (m *Mutex) WaitCount() int {
	return m.sema.w.Len()
}
