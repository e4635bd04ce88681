package cotask

// Stack is the memory region owned by one task. It is allocated when
// the task is prepared and released by the scheduler exactly once,
// after the task has exited and control is back in the scheduler loop.
//
// The task does not execute on this region: its call frames live on the
// goroutine stack managed by the Go runtime. The region is the task's
// own arena (see Task.Stack), sized and accounted like a stack.
type Stack struct {
	mem      []byte
	released bool
}

// Bytes returns the region, or nil once it has been released.
func (s *Stack) Bytes() []byte {
	if s == nil || s.released {
		return nil
	}
	return s.mem
}

// Len returns the size of the region in bytes.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.mem)
}

// Released reports whether the region has been handed back.
func (s *Stack) Released() bool {
	return s != nil && s.released
}

// StackAllocator obtains and releases task stack regions. Alloc rounds
// size up to a whole number of pages (at least one) and returns a
// zeroed read/write region.
type StackAllocator interface {
	Alloc(size int) (*Stack, error)
	Free(*Stack) error
}

// HeapAllocator serves stacks from the Go heap. It is available on
// every platform and is the fallback where anonymous mappings are not.
type HeapAllocator struct{}

func (HeapAllocator) Alloc(size int) (*Stack, error) {
	return &Stack{mem: make([]byte, roundStack(size))}, nil
}

func (HeapAllocator) Free(s *Stack) error {
	if s.released {
		return ErrStackReleased
	}
	s.released = true
	s.mem = nil
	return nil
}

// PageSize returns the size of a memory page on this host.
func PageSize() int {
	return pageSize()
}

func roundStack(size int) int {
	page := pageSize()
	if size < page {
		return page
	}
	return (size + page - 1) / page * page
}
