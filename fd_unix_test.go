//go:build linux || darwin

package cotask

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestFDWouldBlock(t *testing.T) {
	r := require.New(t)

	rd, wr, err := Pipe()
	r.NoError(err)
	defer rd.Close()
	defer wr.Close()

	_, err = rd.Read(make([]byte, 1))
	r.ErrorIs(err, unix.EAGAIN)
	r.True(IsWouldBlock(err))
}

func TestFDPipeBetweenTasks(t *testing.T) {
	r := require.New(t)

	rd, wr, err := Pipe()
	r.NoError(err)
	defer rd.Close()

	// larger than any default pipe buffer, so both sides must wait
	payload := make([]byte, 512<<10)
	_, err = rand.Read(payload)
	r.NoError(err)

	s := newScheduler(t)

	var writeErr error
	s.Prepare(func(context.Context, *Task) {
		defer wr.Close()
		_, writeErr = s.YieldWrite(wr, payload)
	}, 0)

	got := make([]byte, len(payload))
	var n int
	var eofErr error
	s.Prepare(func(context.Context, *Task) {
		n, _ = s.YieldRead(rd, got)
		_, eofErr = s.YieldRead(rd, make([]byte, 1))
	}, 0)

	s.Run(context.Background())

	r.NoError(writeErr)
	r.Equal(len(payload), n)
	r.True(bytes.Equal(payload, got))
	r.ErrorIs(eofErr, io.EOF)
	r.Positive(s.Stats().WaitIO)
}

func TestRetryEINTR(t *testing.T) {
	r := require.New(t)

	calls := 0
	n, err := retryEINTR(func() (int, error) {
		calls++
		if calls < 3 {
			return -1, unix.EINTR
		}
		return 4, nil
	})
	r.NoError(err)
	r.Equal(4, n)
	r.Equal(3, calls)

	calls = 0
	_, err = retryEINTR(func() (int, error) {
		calls++
		return -1, unix.EAGAIN
	})
	r.ErrorIs(err, unix.EAGAIN)
	r.Equal(1, calls)
}
