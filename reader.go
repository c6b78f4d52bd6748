// Package xzstream decodes xz containers as a plain sequential byte stream.
//
// A Reader drives liblzma's step-based decoder over fixed-size native
// buffers and hands out exactly as many bytes as the caller asks for,
// buffering any excess. It can also report the total uncompressed size of a
// seekable container from its footers and indexes, without decoding.
//
// Example usage:
//
//	f, err := os.Open("data.xz")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r, err := xzstream.NewReader(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close() // also closes f
//
//	size, err := r.Length()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d bytes uncompressed\n", size)
//	io.Copy(os.Stdout, r)
package xzstream

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/discochess/xzstream/internal/liblzma"
	"github.com/discochess/xzstream/internal/pending"
	"github.com/discochess/xzstream/internal/stats"
)

// maxConsecutiveEmptyReads bounds how many 0, nil reads from the upstream
// source are tolerated before giving up with io.ErrNoProgress.
const maxConsecutiveEmptyReads = 100

// session is the step-based codec the read loop drives.
type session interface {
	InputCap() int
	AvailIn() int
	AvailOut() int
	SetInput(p []byte)
	Code(action liblzma.Action) liblzma.Status
	TakeOutput() []byte
	TotalIn() uint64
	TotalOut() uint64
	Close()
}

// Compile-time check that the liblzma stream is a session.
var _ session = (*liblzma.Stream)(nil)

func newLiblzmaSession(bufSize int, memlimit uint64, flags liblzma.DecoderFlags) (session, error) {
	s, err := liblzma.NewStreamDecoder(bufSize, memlimit, flags)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Reader is a read-only, forward-only stream of the bytes decoded from an
// xz container.
//
// Read fills p completely unless the stream ends first. A Reader is not safe
// for concurrent use. Close must be called to release the native decoder.
type Reader struct {
	src     io.Reader
	sess    session
	pending *pending.Queue
	scratch []byte

	action liblzma.Action
	srcEOF bool  // upstream returned io.EOF
	ended  bool  // decoder reported stream end
	err    error // sticky failure
	closed bool

	leaveOpen bool
	memlimit  uint64

	info   Info
	probed bool

	stats  stats.Collector
	logger *zap.Logger
}

// NewReader returns a Reader decoding the xz data read from src.
// The Reader owns src: Close closes it when it implements io.Closer, unless
// WithLeaveOpen(true) is given. If NewReader fails, src is left untouched.
func NewReader(src io.Reader, opts ...Option) (*Reader, error) {
	return newReader(src, buildOptions(opts))
}

func newReader(src io.Reader, cfg options) (*Reader, error) {
	if src == nil {
		return nil, invalidOption("nil source")
	}
	if cfg.bufferSize <= 0 {
		return nil, invalidOption("buffer size must be positive, got %d", cfg.bufferSize)
	}

	var flags liblzma.DecoderFlags
	if cfg.concatenated {
		flags |= liblzma.Concatenated
	}

	sess, err := cfg.newSession(cfg.bufferSize, cfg.memlimit, flags)
	if err != nil {
		return nil, openError(err)
	}

	r := &Reader{
		src:       src,
		sess:      sess,
		pending:   pending.New(),
		scratch:   make([]byte, sess.InputCap()),
		action:    liblzma.ActionRun,
		leaveOpen: cfg.leaveOpen,
		memlimit:  cfg.memlimit,
		stats:     cfg.stats,
		logger:    cfg.logger,
	}

	r.stats.IncCounter(stats.MetricOpens, 1)
	r.logger.Debug("reader opened",
		zap.Int("bufferSize", cfg.bufferSize),
		zap.Bool("concatenated", cfg.concatenated),
	)

	return r, nil
}

// Read decodes up to len(p) bytes into p. It returns fewer than len(p) bytes
// only when the stream has ended; once everything has been delivered it
// returns 0, io.EOF on every call.
func (r *Reader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, ErrClosed
	}
	if r.err != nil {
		return 0, r.err
	}
	if len(p) == 0 {
		return 0, nil
	}

	r.stats.IncCounter(stats.MetricReads, 1)

	for r.pending.Len() < len(p) && !r.ended {
		if err := r.step(); err != nil {
			r.fail(err)
			return 0, err
		}
	}

	n := r.pending.Read(p)
	r.stats.IncCounter(stats.MetricDecompressedOut, int64(n))
	r.stats.SetGauge(stats.MetricPendingBytes, int64(r.pending.Len()))

	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// step performs one round of the read loop: refill the codec input if it is
// empty, run one decode step and move finished output to the pending queue.
func (r *Reader) step() error {
	if r.sess.AvailIn() == 0 && r.action == liblzma.ActionRun {
		if err := r.refill(); err != nil {
			return err
		}
	}

	status := r.sess.Code(r.action)
	r.stats.IncCounter(stats.MetricCodecSteps, 1)

	if r.sess.AvailOut() == 0 || status == liblzma.StatusStreamEnd {
		r.pending.Push(r.sess.TakeOutput())
	}

	switch status {
	case liblzma.StatusOK:
		return nil
	case liblzma.StatusStreamEnd:
		r.ended = true
		r.logger.Debug("stream end",
			zap.Uint64("compressedBytes", r.sess.TotalIn()),
			zap.Uint64("decompressedBytes", r.sess.TotalOut()),
		)
		return nil
	default:
		return codecError("read", status)
	}
}

// refill loads the next chunk of upstream bytes into the codec input. When
// the upstream is exhausted it switches the decoder to ActionFinish, which is
// never undone.
func (r *Reader) refill() error {
	if r.srcEOF {
		r.action = liblzma.ActionFinish
		return nil
	}

	for range maxConsecutiveEmptyReads {
		n, err := r.src.Read(r.scratch)
		if n > 0 {
			r.sess.SetInput(r.scratch[:n])
			r.stats.IncCounter(stats.MetricCompressedIn, int64(n))
		}

		if errors.Is(err, io.EOF) {
			r.srcEOF = true
			if n == 0 {
				r.action = liblzma.ActionFinish
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("xzstream: reading source: %w", err)
		}
		if n > 0 {
			return nil
		}
	}

	return fmt.Errorf("xzstream: reading source: %w", io.ErrNoProgress)
}

// fail records a fatal error and releases the decoder straight away.
func (r *Reader) fail(err error) {
	r.err = err
	r.stats.IncCounter(stats.MetricDecodeErrors, 1)
	r.logger.Warn("decode failed", zap.Error(err))
	r.release()
	r.pending.Reset()
}

// release tears down the codec session exactly once.
func (r *Reader) release() {
	if r.sess == nil {
		return
	}
	r.sess.Close()
	r.sess = nil
}

// Close releases the native decoder and closes the upstream source unless
// the Reader was opened with WithLeaveOpen(true). Close is idempotent.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.release()
	r.pending.Reset()

	r.logger.Debug("reader closed", zap.Bool("leaveOpen", r.leaveOpen))

	if r.leaveOpen {
		return nil
	}
	if c, ok := r.src.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("xzstream: closing source: %w", err)
		}
	}
	return nil
}

// Seek always fails: a Reader cannot seek.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	return 0, unsupported("seek")
}

// Write always fails: a Reader is read-only.
func (r *Reader) Write(p []byte) (int, error) {
	return 0, unsupported("write")
}

// Flush always fails: a Reader has nothing to flush.
func (r *Reader) Flush() error {
	return unsupported("flush")
}

// Position always fails: a Reader does not track its position.
func (r *Reader) Position() (int64, error) {
	return 0, unsupported("position")
}

// SetPosition always fails: a Reader cannot be repositioned.
func (r *Reader) SetPosition(pos int64) error {
	return unsupported("set position")
}
