package cotask

import "io"

// YieldRead fills buf from r as if r were blocking. Partial reads
// advance the offset; a would-block error (or a read that makes no
// progress) suspends the running task in WAITIO, and the read is retried
// from the same offset on its next turn. It returns when buf is full, or
// with the count read so far and the first error that is not
// would-block, io.EOF included.
func (s *Scheduler) YieldRead(r io.Reader, buf []byte) (int, error) {
	t := s.mustCurrent("yield read")

	var off int
	for off < len(buf) {
		n, err := r.Read(buf[off:])
		if n > 0 {
			off += n
		}
		switch {
		case err == nil:
			if n <= 0 {
				t.wait("yield read")
			}
		case IsWouldBlock(err):
			t.Logf("READ WAIT %d/%d", off, len(buf))
			t.wait("yield read")
		default:
			return off, err
		}
	}
	return off, nil
}

// YieldWrite writes all of buf to w, suspending the running task on
// would-block exactly as YieldRead does.
func (s *Scheduler) YieldWrite(w io.Writer, buf []byte) (int, error) {
	t := s.mustCurrent("yield write")

	var off int
	for off < len(buf) {
		n, err := w.Write(buf[off:])
		if n > 0 {
			off += n
		}
		switch {
		case err == nil:
			if n <= 0 {
				t.wait("yield write")
			}
		case IsWouldBlock(err):
			t.Logf("WRITE WAIT %d/%d", off, len(buf))
			t.wait("yield write")
		default:
			return off, err
		}
	}
	return off, nil
}

// IO wraps a reader/writer so that every Read and Write goes through
// YieldRead and YieldWrite of its scheduler. Code running inside a task
// can use it wherever an io.ReadWriter is expected.
type IO struct {
	sched *Scheduler
	rw    io.ReadWriter
}

func NewIO(s *Scheduler, rw io.ReadWriter) *IO {
	return &IO{sched: s, rw: rw}
}

// Read fills p completely unless EOF or an error comes first.
func (x *IO) Read(p []byte) (int, error) {
	return x.sched.YieldRead(x.rw, p)
}

func (x *IO) Write(p []byte) (int, error) {
	return x.sched.YieldWrite(x.rw, p)
}

// Close closes the wrapped value if it is an io.Closer.
func (x *IO) Close() error {
	if c, ok := x.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
