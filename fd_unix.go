//go:build linux || darwin

package cotask

import (
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// FD is a file descriptor switched to non-blocking mode. Its Read and
// Write return EAGAIN instead of blocking, so it is meant to be driven
// through YieldRead, YieldWrite or IO.
type FD struct {
	fd int
}

// NewFD takes ownership of fd and makes it non-blocking.
func NewFD(fd int) (*FD, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, fmt.Errorf("cotask: set nonblock fd %d: %w", fd, err)
	}
	return &FD{fd: fd}, nil
}

// Pipe returns the read and write ends of a new non-blocking pipe.
func Pipe() (r, w *FD, err error) {
	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		return nil, nil, fmt.Errorf("cotask: pipe: %w", err)
	}
	if r, err = NewFD(p[0]); err == nil {
		w, err = NewFD(p[1])
	}
	if err != nil {
		_ = unix.Close(p[0])
		_ = unix.Close(p[1])
		return nil, nil, err
	}
	return r, w, nil
}

func (f *FD) Fd() int {
	return f.fd
}

// Read reports a zero-byte read as io.EOF.
func (f *FD) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := retryEINTR(func() (int, error) { return unix.Read(f.fd, p) })
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (f *FD) Write(p []byte) (int, error) {
	n, err := retryEINTR(func() (int, error) { return unix.Write(f.fd, p) })
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (f *FD) Close() error {
	return unix.Close(f.fd)
}

// retryEINTR repeats op while it is interrupted by a signal before
// transferring anything.
func retryEINTR(op func() (int, error)) (int, error) {
	for {
		n, err := op()
		if err != unix.EINTR {
			return n, err
		}
	}
}
