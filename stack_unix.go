//go:build linux || darwin

package cotask

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const defaultAllocator = AllocatorMmap

// MmapAllocator maps each stack as a private anonymous region. The
// kernel hands the pages back zeroed and page aligned.
type MmapAllocator struct{}

func (MmapAllocator) Alloc(size int) (*Stack, error) {
	mem, err := unix.Mmap(
		-1,
		0,
		roundStack(size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", roundStack(size), err)
	}
	return &Stack{mem: mem}, nil
}

// Free unmaps the region. The stack is marked released even when
// munmap fails so that it is never handed to the kernel twice.
func (MmapAllocator) Free(s *Stack) error {
	if s.released {
		return ErrStackReleased
	}
	s.released = true
	mem := s.mem
	s.mem = nil
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("munmap %d bytes: %w", len(mem), err)
	}
	return nil
}

func pageSize() int {
	return unix.Getpagesize()
}

func newAllocator(name string) (StackAllocator, error) {
	switch name {
	case "", AllocatorMmap:
		return MmapAllocator{}, nil
	case AllocatorHeap:
		return HeapAllocator{}, nil
	}
	return nil, fmt.Errorf("cotask: unknown allocator %q", name)
}
