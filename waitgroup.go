package cotask

// WaitGroup waits for a collection of tasks to finish. Waiters yield
// until the counter drops to zero.
type WaitGroup struct {
	noCopy noCopy // Prevents copying of the WaitGroup
	v      int    // Counter for the number of tasks
}

// Add adds delta to the counter. It panics if the counter goes negative.
func (wg *WaitGroup) Add(delta int) {
	wg.v += delta
	if wg.v < 0 {
		panic("cotask: negative WaitGroup counter")
	}
}

func (wg *WaitGroup) Done() {
	wg.Add(-1)
}

// Wait suspends the running task until the counter is zero.
func (wg *WaitGroup) Wait(task *Task) {
	for wg.v > 0 {
		task.Yield()
	}
}
