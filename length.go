package xzstream

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/xzstream/internal/liblzma"
	"github.com/discochess/xzstream/internal/stats"
)

// streamPaddingSize is the granularity of the zero padding allowed between
// and after xz streams.
const streamPaddingSize = 4

// Info summarizes an xz container as read from its stream footers and
// indexes.
type Info struct {
	// Streams is the number of xz streams in the container.
	Streams int

	// Blocks is the total number of blocks across all streams.
	Blocks uint64

	// CompressedSize is the size of the whole container in bytes,
	// including stream padding.
	CompressedSize int64

	// UncompressedSize is the total decoded size in bytes.
	UncompressedSize int64

	// Padding is the number of stream padding bytes.
	Padding int64

	// Check is the integrity check of the last stream, e.g. "CRC64".
	Check string
}

// Ratio returns the compressed size divided by the uncompressed size, or 0
// for an empty payload.
func (i Info) Ratio() float64 {
	if i.UncompressedSize == 0 {
		return 0
	}
	return float64(i.CompressedSize) / float64(i.UncompressedSize)
}

// Length returns the total uncompressed size of the container without
// decoding it. The upstream source must implement io.Seeker; its offset is
// restored before Length returns. The result is computed once and cached.
func (r *Reader) Length() (int64, error) {
	info, err := r.Info()
	if err != nil {
		return 0, err
	}
	return info.UncompressedSize, nil
}

// Info returns the container summary Length is derived from. Like Length it
// requires a seekable source and is computed at most once.
func (r *Reader) Info() (Info, error) {
	if r.closed {
		return Info{}, ErrClosed
	}
	if r.probed {
		return r.info, nil
	}

	rs, ok := r.src.(io.ReadSeeker)
	if !ok {
		return Info{}, &Error{Op: "length", Kind: ErrUnsupportedOperation, Err: errors.New("source is not seekable")}
	}

	start := time.Now()
	info, err := probe(rs, r.memlimit)
	r.stats.IncCounter(stats.MetricLengthProbes, 1)
	r.stats.ObserveHistogram(stats.MetricLengthProbeSeconds, time.Since(start).Seconds())
	if err != nil {
		r.logger.Warn("length probe failed", zap.Error(err))
		return Info{}, err
	}

	r.info, r.probed = info, true
	r.logger.Debug("length probed",
		zap.Int("streams", info.Streams),
		zap.Uint64("blocks", info.Blocks),
		zap.Int64("uncompressedSize", info.UncompressedSize),
		zap.Duration("elapsed", time.Since(start)),
	)
	return info, nil
}

// probe walks the container backwards from its end, one stream at a time:
// stream footer, then index, then the stream size recorded in the index.
// Zero padding between streams is skipped in 4-byte steps.
func probe(rs io.ReadSeeker, memlimit uint64) (info Info, err error) {
	origin, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return Info{}, fmt.Errorf("xzstream: length: %w", err)
	}
	defer func() {
		if _, serr := rs.Seek(origin, io.SeekStart); serr != nil && err == nil {
			info, err = Info{}, fmt.Errorf("xzstream: length: restoring source offset: %w", serr)
		}
	}()

	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return Info{}, fmt.Errorf("xzstream: length: %w", err)
	}

	footer := make([]byte, liblzma.StreamHeaderSize)
	pos := end
	for pos > 0 {
		if pos < liblzma.StreamHeaderSize {
			return Info{}, malformed("truncated stream footer")
		}
		if err := readAt(rs, footer, pos-liblzma.StreamHeaderSize); err != nil {
			return Info{}, err
		}

		if isZero(footer[liblzma.StreamHeaderSize-streamPaddingSize:]) {
			pos -= streamPaddingSize
			info.Padding += streamPaddingSize
			continue
		}

		f, err := liblzma.DecodeFooter(footer)
		if err != nil {
			return Info{}, probeError(err)
		}

		indexStart := pos - liblzma.StreamHeaderSize - f.BackwardSize
		if indexStart < 0 {
			return Info{}, malformed("index extends before start of input")
		}

		raw := make([]byte, f.BackwardSize)
		if err := readAt(rs, raw, indexStart); err != nil {
			return Info{}, err
		}

		idx, err := liblzma.DecodeIndex(raw, memlimit)
		if err != nil {
			return Info{}, probeError(err)
		}
		streamSize := idx.FileSize()
		uncompressed := idx.UncompressedSize()
		blocks := idx.BlockCount()
		idx.Close()

		if streamSize > uint64(pos) {
			return Info{}, malformed("stream extends before start of input")
		}
		if uncompressed > math.MaxInt64-uint64(info.UncompressedSize) {
			return Info{}, malformed("uncompressed size overflows")
		}

		pos -= int64(streamSize)
		info.Streams++
		info.Blocks += blocks
		info.UncompressedSize += int64(uncompressed)
		if info.Streams == 1 {
			info.Check = f.Check.String()
		}
	}

	if info.Streams == 0 {
		return Info{}, malformed("no xz stream found")
	}
	info.CompressedSize = end
	return info, nil
}

// readAt fills p from offset off. Running out of input is a container error;
// anything else is passed through as an I/O error.
func readAt(rs io.ReadSeeker, p []byte, off int64) error {
	if _, err := rs.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("xzstream: length: %w", err)
	}
	if _, err := io.ReadFull(rs, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &Error{Op: "length", Kind: ErrMalformedContainer, Err: err}
		}
		return fmt.Errorf("xzstream: length: %w", err)
	}
	return nil
}

func malformed(msg string) *Error {
	return &Error{Op: "length", Kind: ErrMalformedContainer, Err: errors.New(msg)}
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
