// Package source defines where compressed objects are read from.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNotFound is returned when an object does not exist in the source.
var ErrNotFound = errors.New("source: object not found")

// Source opens named objects for random-access reading.
// Implementations handle path formats and storage details internally.
type Source interface {
	// Open returns a reader over the named object. The caller must close it.
	Open(ctx context.Context, name string) (io.ReadSeekCloser, error)

	// Close releases any resources held by the source.
	Close() error
}

// RangeFunc opens a reader over an object's bytes from off to its end.
type RangeFunc func(ctx context.Context, off int64) (io.ReadCloser, error)

// NewRangeObject returns an io.ReadSeekCloser over a remote object of the
// given size. A ranged request is issued lazily on the first Read after
// each Seek that moves the offset, so a footer probe costs a couple of small
// requests rather than a full download.
func NewRangeObject(ctx context.Context, size int64, fetch RangeFunc) io.ReadSeekCloser {
	return &rangeObject{ctx: ctx, size: size, fetch: fetch}
}

type rangeObject struct {
	ctx    context.Context
	size   int64
	off    int64
	fetch  RangeFunc
	body   io.ReadCloser
	closed bool
}

func (o *rangeObject) Read(p []byte) (int, error) {
	if o.closed {
		return 0, errors.New("source: read on closed object")
	}
	if o.off >= o.size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	if o.body == nil {
		body, err := o.fetch(o.ctx, o.off)
		if err != nil {
			return 0, fmt.Errorf("fetching range at %d: %w", o.off, err)
		}
		o.body = body
	}

	if rest := o.size - o.off; int64(len(p)) > rest {
		p = p[:rest]
	}
	n, err := o.body.Read(p)
	o.off += int64(n)

	if errors.Is(err, io.EOF) {
		o.dropBody()
		if o.off < o.size {
			return n, io.ErrUnexpectedEOF
		}
	}
	if o.off >= o.size && err == nil {
		o.dropBody()
	}
	return n, err
}

func (o *rangeObject) Seek(offset int64, whence int) (int64, error) {
	if o.closed {
		return 0, errors.New("source: seek on closed object")
	}

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = o.off + offset
	case io.SeekEnd:
		abs = o.size + offset
	default:
		return 0, fmt.Errorf("source: invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("source: negative position %d", abs)
	}

	if abs != o.off {
		o.dropBody()
		o.off = abs
	}
	return abs, nil
}

func (o *rangeObject) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	if o.body == nil {
		return nil
	}
	err := o.body.Close()
	o.body = nil
	return err
}

func (o *rangeObject) dropBody() {
	if o.body != nil {
		o.body.Close()
		o.body = nil
	}
}
