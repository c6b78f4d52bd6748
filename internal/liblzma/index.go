package liblzma

/*
#include <lzma.h>
*/
import "C"

import "unsafe"

// StreamHeaderSize is the size of an xz stream header and of a stream footer.
const StreamHeaderSize = 12

// Footer holds the decoded fields of an xz stream footer.
type Footer struct {
	// BackwardSize is the size of the index that precedes the footer.
	BackwardSize int64
	Check        Check
}

// DecodeFooter decodes a StreamHeaderSize-byte stream footer.
func DecodeFooter(b []byte) (Footer, error) {
	if len(b) != StreamHeaderSize {
		return Footer{}, &StatusError{Func: "lzma_stream_footer_decode", Status: StatusProgError}
	}

	var flags C.lzma_stream_flags
	ret := Status(C.lzma_stream_footer_decode(&flags, (*C.uint8_t)(unsafe.Pointer(&b[0]))))
	if ret != StatusOK {
		return Footer{}, &StatusError{Func: "lzma_stream_footer_decode", Status: ret}
	}

	return Footer{
		BackwardSize: int64(flags.backward_size),
		Check:        Check(flags.check),
	}, nil
}

// Index is a decoded xz index. Close must be called to release it.
type Index struct {
	idx *C.lzma_index
}

// DecodeIndex decodes an index block occupying exactly b.
// memlimit bounds the memory the decoded index may use.
func DecodeIndex(b []byte, memlimit uint64) (*Index, error) {
	if len(b) == 0 {
		return nil, &StatusError{Func: "lzma_index_buffer_decode", Status: StatusDataError}
	}

	var (
		idx   *C.lzma_index
		limit = C.uint64_t(memlimit)
		pos   C.size_t
	)
	ret := Status(C.lzma_index_buffer_decode(&idx, &limit, nil,
		(*C.uint8_t)(unsafe.Pointer(&b[0])), &pos, C.size_t(len(b))))
	if ret != StatusOK {
		return nil, &StatusError{Func: "lzma_index_buffer_decode", Status: ret}
	}

	index := &Index{idx: idx}
	if int(pos) != len(b) {
		index.Close()
		return nil, &StatusError{Func: "lzma_index_buffer_decode", Status: StatusDataError}
	}
	return index, nil
}

// UncompressedSize returns the total uncompressed size of the indexed blocks.
func (i *Index) UncompressedSize() uint64 {
	return uint64(C.lzma_index_uncompressed_size(i.idx))
}

// FileSize returns the size of the whole stream the index describes:
// header, blocks, index and footer.
func (i *Index) FileSize() uint64 {
	return uint64(C.lzma_index_file_size(i.idx))
}

// BlockCount returns the number of blocks in the index.
func (i *Index) BlockCount() uint64 {
	return uint64(C.lzma_index_block_count(i.idx))
}

// Close frees the index. It is safe to call more than once.
func (i *Index) Close() {
	if i.idx == nil {
		return
	}
	C.lzma_index_end(i.idx, nil)
	i.idx = nil
}
