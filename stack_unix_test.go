//go:build linux || darwin

package cotask

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMmapAllocator(t *testing.T) {
	r := require.New(t)

	var alloc MmapAllocator
	st, err := alloc.Alloc(3*PageSize() - 1)
	r.NoError(err)
	r.Equal(3*PageSize(), st.Len())

	mem := st.Bytes()
	for _, b := range mem {
		r.Zero(b)
	}
	mem[0], mem[len(mem)-1] = 0xAA, 0x55
	r.Equal(byte(0xAA), mem[0])

	r.NoError(alloc.Free(st))
	r.True(st.Released())
	r.ErrorIs(alloc.Free(st), ErrStackReleased)
}

func TestDefaultAllocatorIsMmap(t *testing.T) {
	r := require.New(t)

	s := newScheduler(t)
	r.IsType(MmapAllocator{}, s.alloc)

	s.Prepare(func(_ context.Context, task *Task) {
		buf := task.Stack()
		r.Len(buf, PageSize())
		buf[0] = 1
		task.Yield()
		r.Equal(byte(1), task.Stack()[0])
	}, 0)
	s.Run(context.Background())
	r.Zero(s.Stats().StackBytes)
}
