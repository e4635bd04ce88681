package cotask

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// step is one scripted result of a mock descriptor.
type step struct {
	data string // bytes transferred
	err  error
}

// scriptedRW replays steps for Read and Write. Once the script is
// exhausted reads report EOF and writes accept everything.
type scriptedRW struct {
	steps   []step
	written bytes.Buffer
	calls   int
	onCall  func()
}

func (m *scriptedRW) next() (step, bool) {
	m.calls++
	if m.onCall != nil {
		m.onCall()
	}
	if len(m.steps) == 0 {
		return step{}, false
	}
	st := m.steps[0]
	m.steps = m.steps[1:]
	return st, true
}

func (m *scriptedRW) Read(p []byte) (int, error) {
	st, ok := m.next()
	if !ok {
		return 0, io.EOF
	}
	n := copy(p, st.data)
	return n, st.err
}

func (m *scriptedRW) Write(p []byte) (int, error) {
	st, ok := m.next()
	if !ok {
		m.written.Write(p)
		return len(p), nil
	}
	n := min(len(st.data), len(p))
	m.written.Write(p[:n])
	return n, st.err
}

func TestYieldReadPartial(t *testing.T) {
	r := require.New(t)

	s := newScheduler(t)
	mock := &scriptedRW{steps: []step{
		{err: ErrWouldBlock},
		{err: ErrWouldBlock},
		{data: "abc"},
		{data: "defgh"},
	}}

	var (
		n    int
		err  error
		buf  = make([]byte, 8)
		task *Task
	)
	task = s.Prepare(func(context.Context, *Task) {
		n, err = s.YieldRead(mock, buf)
	}, 0)

	s.Run(context.Background())

	r.NoError(err)
	r.Equal(8, n)
	r.Equal("abcdefgh", string(buf))
	r.Equal(4, mock.calls)
	r.Equal(uint64(2), s.Stats().WaitIO)
	r.Equal(StateWaitIO, task.LastSuspend())
}

func TestYieldWritePartial(t *testing.T) {
	r := require.New(t)

	s := newScheduler(t)
	mock := &scriptedRW{steps: []step{
		{err: ErrWouldBlock},
		{data: "abc"},
		{err: ErrWouldBlock},
		{data: "defgh"},
	}}

	var n int
	var err error
	s.Prepare(func(context.Context, *Task) {
		n, err = s.YieldWrite(mock, []byte("abcdefgh"))
	}, 0)

	s.Run(context.Background())

	r.NoError(err)
	r.Equal(8, n)
	r.Equal("abcdefgh", mock.written.String())
	r.Equal(uint64(2), s.Stats().WaitIO)
}

func TestYieldReadEOFScenario(t *testing.T) {
	r := require.New(t)

	s := newScheduler(t)

	var log []string
	mock := &scriptedRW{
		steps: []step{
			{err: ErrWouldBlock},
			{err: ErrWouldBlock},
			{data: "hello"},
		},
		onCall: func() { log = append(log, "read") },
	}

	done := false
	var n int
	var err error
	buf := make([]byte, 16)
	s.Prepare(func(context.Context, *Task) {
		defer func() { done = true }()
		n, err = s.YieldRead(mock, buf)
	}, 0)

	for _, name := range []string{"B", "C"} {
		other := s.Prepare(func(_ context.Context, task *Task) {
			for !done {
				log = append(log, task.Name())
				task.Yield()
			}
		}, 0)
		other.SetName(name)
	}

	s.Run(context.Background())

	r.ErrorIs(err, io.EOF)
	r.Equal(5, n)
	r.Equal("hello", string(buf[:n]))
	r.Equal([]string{"read", "B", "C", "read", "B", "C", "read", "read"}, log)
	r.Equal(uint64(2), s.Stats().WaitIO)
}

func TestYieldReadErrorKeepsCount(t *testing.T) {
	r := require.New(t)

	s := newScheduler(t)
	boom := errors.New("boom")
	mock := &scriptedRW{steps: []step{
		{data: "ab"},
		{err: ErrWouldBlock},
		{data: "c", err: boom},
	}}

	var n int
	var err error
	s.Prepare(func(context.Context, *Task) {
		n, err = s.YieldRead(mock, make([]byte, 10))
	}, 0)

	s.Run(context.Background())

	r.ErrorIs(err, boom)
	r.Equal(3, n)
	r.Equal(uint64(1), s.Stats().WaitIO)
}

func TestYieldReadNoProgressWaits(t *testing.T) {
	r := require.New(t)

	s := newScheduler(t)
	mock := &scriptedRW{steps: []step{
		{},
		{data: "xy"},
	}}

	var n int
	s.Prepare(func(context.Context, *Task) {
		n, _ = s.YieldRead(mock, make([]byte, 2))
	}, 0)

	s.Run(context.Background())

	r.Equal(2, n)
	r.Equal(uint64(1), s.Stats().WaitIO)
}

func TestIOWrapper(t *testing.T) {
	r := require.New(t)

	s := newScheduler(t)
	mock := &scriptedRW{steps: []step{
		{data: "he", err: ErrWouldBlock},
		{data: "llo"},
	}}

	var got []byte
	var readErr error
	s.Prepare(func(context.Context, *Task) {
		x := NewIO(s, mock)
		got, readErr = io.ReadAll(io.LimitReader(x, 5))
		_, err := io.WriteString(x, "world")
		r.NoError(err)
		r.NoError(x.Close())
	}, 0)

	s.Run(context.Background())

	r.NoError(readErr)
	r.Equal("hello", string(got))
	r.Equal("world", mock.written.String())
	r.Equal(uint64(1), s.Stats().WaitIO)
}

func TestIsWouldBlock(t *testing.T) {
	r := require.New(t)

	r.True(IsWouldBlock(ErrWouldBlock))
	r.True(IsWouldBlock(&wrapped{ErrWouldBlock}))
	r.False(IsWouldBlock(nil))
	r.False(IsWouldBlock(io.EOF))
}

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }
