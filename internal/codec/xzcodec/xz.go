// Package xzcodec provides an xz codec: decoding through liblzma via
// xzstream.Reader, encoding through github.com/ulikunitz/xz.
package xzcodec

import (
	"io"

	"github.com/ulikunitz/xz"

	"github.com/discochess/xzstream"
	"github.com/discochess/xzstream/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements xz compression.
type Codec struct {
	opts []xzstream.Option
}

// New returns a new xz codec. The options configure decoding.
func New(opts ...xzstream.Option) *Codec {
	return &Codec{opts: opts}
}

// Reader wraps r to decompress xz data.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	opts := append([]xzstream.Option{}, c.opts...)
	opts = append(opts, xzstream.WithLeaveOpen(true))
	return xzstream.NewReader(r, opts...)
}

// Writer wraps w to compress data with xz.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return xz.NewWriter(w)
}

// Extension returns "xz".
func (c *Codec) Extension() string {
	return "xz"
}
