//go:build !(linux || darwin)

package cotask

import (
	"fmt"
	"os"
)

const defaultAllocator = AllocatorHeap

func pageSize() int {
	return os.Getpagesize()
}

// mmap is not offered here; asking for it falls back to the heap.
func newAllocator(name string) (StackAllocator, error) {
	switch name {
	case "", AllocatorHeap, AllocatorMmap:
		return HeapAllocator{}, nil
	}
	return nil, fmt.Errorf("cotask: unknown allocator %q", name)
}
