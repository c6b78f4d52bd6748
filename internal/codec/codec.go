// Package codec provides compression and decompression for object data.
package codec

import "io"

// Codec provides compression and decompression functionality.
// Closing a Reader or Writer never closes the stream it wraps.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "xz", "zst").
	// Returns empty string for no compression.
	Extension() string
}
