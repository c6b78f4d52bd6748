// Package pending provides the FIFO byte queue that holds decoded output
// until a reader asks for it.
package pending

import (
	"github.com/eapache/queue"
)

// Queue is a FIFO of bytes stored as a ring of chunks. Bytes are read back in
// exactly the order they were pushed. A Queue is not safe for concurrent use.
type Queue struct {
	chunks *queue.Queue
	head   int // bytes already consumed from the front chunk
	size   int
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{chunks: queue.New()}
}

// Len returns the number of queued bytes.
func (q *Queue) Len() int {
	return q.size
}

// Push appends b to the tail. The queue takes ownership of b.
func (q *Queue) Push(b []byte) {
	if len(b) == 0 {
		return
	}
	q.chunks.Add(b)
	q.size += len(b)
}

// Read moves up to len(p) bytes from the head into p and returns the count.
func (q *Queue) Read(p []byte) int {
	n := 0
	for n < len(p) && q.chunks.Length() > 0 {
		chunk := q.chunks.Peek().([]byte)
		c := copy(p[n:], chunk[q.head:])
		n += c
		q.head += c
		if q.head == len(chunk) {
			q.chunks.Remove()
			q.head = 0
		}
	}
	q.size -= n
	return n
}

// Reset drops every queued byte.
func (q *Queue) Reset() {
	q.chunks = queue.New()
	q.head = 0
	q.size = 0
}
