package xzstream

import (
	"bytes"
	"io"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/discochess/xzstream/internal/liblzma"
)

// compressXZ encodes data as a single xz stream.
func compressXZ(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return buf.Bytes()
}

// readAllSized reads r to EOF with reads of exactly size bytes.
func readAllSized(t *testing.T, r io.Reader, size int) []byte {
	t.Helper()
	var out []byte
	buf := make([]byte, size)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}
}

// fakeSession is a session whose codec copies input to output unchanged,
// or fails with a fixed status once failAfter steps have run.
type fakeSession struct {
	in, out   []byte
	inCap     int
	outCap    int
	totalIn   uint64
	totalOut  uint64
	steps     int
	failAfter int // fail on this step when status is set
	status    liblzma.Status
	closes    int
}

func newFakeSession(bufSize int) *fakeSession {
	return &fakeSession{inCap: bufSize, outCap: bufSize}
}

func (s *fakeSession) InputCap() int { return s.inCap }
func (s *fakeSession) AvailIn() int  { return len(s.in) }
func (s *fakeSession) AvailOut() int { return s.outCap - len(s.out) }

func (s *fakeSession) SetInput(p []byte) {
	s.in = append([]byte(nil), p...)
}

func (s *fakeSession) Code(action liblzma.Action) liblzma.Status {
	s.steps++
	if s.status != liblzma.StatusOK && s.steps > s.failAfter {
		return s.status
	}
	n := min(len(s.in), s.AvailOut())
	s.out = append(s.out, s.in[:n]...)
	s.in = s.in[n:]
	s.totalIn += uint64(n)
	s.totalOut += uint64(n)
	if action == liblzma.ActionFinish && len(s.in) == 0 {
		return liblzma.StatusStreamEnd
	}
	return liblzma.StatusOK
}

func (s *fakeSession) TakeOutput() []byte {
	out := s.out
	s.out = nil
	return out
}

func (s *fakeSession) TotalIn() uint64  { return s.totalIn }
func (s *fakeSession) TotalOut() uint64 { return s.totalOut }
func (s *fakeSession) Close()           { s.closes++ }

// withSession makes the reader use sess instead of liblzma.
func withSession(sess *fakeSession) Option {
	return optionFunc(func(o *options) {
		o.newSession = func(int, uint64, liblzma.DecoderFlags) (session, error) {
			return sess, nil
		}
	})
}

// closeRecorder is an upstream source that records Close calls.
type closeRecorder struct {
	*bytes.Reader
	closes int
	err    error
}

func newCloseRecorder(data []byte) *closeRecorder {
	return &closeRecorder{Reader: bytes.NewReader(data)}
}

func (c *closeRecorder) Close() error {
	c.closes++
	return c.err
}

// countingSeeker counts Seek calls on a seekable source.
type countingSeeker struct {
	*bytes.Reader
	seeks int
}

func (c *countingSeeker) Seek(offset int64, whence int) (int64, error) {
	c.seeks++
	return c.Reader.Seek(offset, whence)
}

// emptyReader returns 0, nil forever and counts calls.
type emptyReader struct {
	calls int
}

func (e *emptyReader) Read([]byte) (int, error) {
	e.calls++
	return 0, nil
}
