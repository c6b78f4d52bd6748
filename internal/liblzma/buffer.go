package liblzma

/*
#include <stdlib.h>
*/
import "C"

import "unsafe"

// buffer is a fixed-capacity block of C memory. It is released exactly once
// by free; later calls are no-ops.
type buffer struct {
	ptr unsafe.Pointer
	cap int
}

func newBuffer(n int) *buffer {
	ptr := C.malloc(C.size_t(n))
	if ptr == nil {
		return nil
	}
	return &buffer{ptr: ptr, cap: n}
}

// bytes views the whole buffer. The view is invalid after free.
func (b *buffer) bytes() []byte {
	return unsafe.Slice((*byte)(b.ptr), b.cap)
}

func (b *buffer) free() {
	if b == nil || b.ptr == nil {
		return
	}
	C.free(b.ptr)
	b.ptr = nil
}
