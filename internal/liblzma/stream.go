package liblzma

/*
#cgo LDFLAGS: -llzma
#include <stdlib.h>
#include <lzma.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Stream is a liblzma stream decoder together with the native input and
// output buffers it reads from and writes into.
//
// A Stream is not safe for concurrent use. Close must be called to release
// the native memory; Close is idempotent.
type Stream struct {
	strm *C.lzma_stream
	in   *buffer
	out  *buffer
}

// NewStreamDecoder allocates a decoder whose input and output buffers hold
// bufSize bytes each. memlimit bounds the decoder's own memory usage.
func NewStreamDecoder(bufSize int, memlimit uint64, flags DecoderFlags) (*Stream, error) {
	if bufSize <= 0 {
		panic(fmt.Sprintf("liblzma: invalid buffer size %d", bufSize))
	}

	// calloc leaves the stream in the LZMA_STREAM_INIT state.
	strm := (*C.lzma_stream)(C.calloc(1, C.sizeof_lzma_stream))
	if strm == nil {
		return nil, &StatusError{Func: "calloc", Status: StatusMemError}
	}
	s := &Stream{strm: strm}

	s.in = newBuffer(bufSize)
	s.out = newBuffer(bufSize)
	if s.in == nil || s.out == nil {
		s.Close()
		return nil, &StatusError{Func: "malloc", Status: StatusMemError}
	}

	ret := Status(C.lzma_stream_decoder(strm, C.uint64_t(memlimit), C.uint32_t(flags)))
	if ret != StatusOK {
		s.Close()
		return nil, &StatusError{Func: "lzma_stream_decoder", Status: ret}
	}

	s.ResetOutput()
	return s, nil
}

// InputCap returns the capacity of the native input buffer.
func (s *Stream) InputCap() int { return s.in.cap }

// OutputCap returns the capacity of the native output buffer.
func (s *Stream) OutputCap() int { return s.out.cap }

// AvailIn returns the number of unconsumed input bytes.
func (s *Stream) AvailIn() int { return int(s.strm.avail_in) }

// AvailOut returns the free space left in the output buffer.
func (s *Stream) AvailOut() int { return int(s.strm.avail_out) }

// TotalIn returns the number of compressed bytes consumed so far.
func (s *Stream) TotalIn() uint64 { return uint64(s.strm.total_in) }

// TotalOut returns the number of bytes decoded so far.
func (s *Stream) TotalOut() uint64 { return uint64(s.strm.total_out) }

// SetInput copies p into the native input buffer and points the decoder at
// it. p must fit the buffer; a larger p is a programming error.
func (s *Stream) SetInput(p []byte) {
	if len(p) > s.in.cap {
		panic(fmt.Sprintf("liblzma: input of %d bytes exceeds buffer capacity %d", len(p), s.in.cap))
	}
	copy(s.in.bytes(), p)
	s.strm.next_in = (*C.uint8_t)(s.in.ptr)
	s.strm.avail_in = C.size_t(len(p))
}

// Code runs one lzma_code step.
func (s *Stream) Code(action Action) Status {
	return Status(C.lzma_code(s.strm, C.lzma_action(action)))
}

// TakeOutput returns a copy of the bytes decoded since the last reset and
// makes the whole output buffer available again.
func (s *Stream) TakeOutput() []byte {
	n := s.out.cap - s.AvailOut()
	p := make([]byte, n)
	copy(p, s.out.bytes()[:n])
	s.ResetOutput()
	return p
}

// ResetOutput discards decoded bytes and rewinds the output window.
func (s *Stream) ResetOutput() {
	s.strm.next_out = (*C.uint8_t)(s.out.ptr)
	s.strm.avail_out = C.size_t(s.out.cap)
}

// Closed reports whether Close has run.
func (s *Stream) Closed() bool {
	return s.strm == nil
}

// Close ends the decoder and frees the stream and both buffers.
func (s *Stream) Close() {
	if s.strm != nil {
		C.lzma_end(s.strm)
		C.free(unsafe.Pointer(s.strm))
		s.strm = nil
	}
	s.in.free()
	s.out.free()
}

// Version returns the runtime liblzma version string.
func Version() string {
	return C.GoString(C.lzma_version_string())
}
