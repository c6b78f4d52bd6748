// Package memsource provides an in-memory source implementation for testing.
package memsource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/discochess/xzstream/internal/source"
)

// Compile-time check that Source implements source.Source.
var _ source.Source = (*Source)(nil)

// Source is an in-memory source for testing.
type Source struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory source.
func New() *Source {
	return &Source{
		objects: make(map[string][]byte),
	}
}

// Put stores data under name (for test setup).
// The data is copied to prevent caller mutations from affecting the source.
func (s *Source) Put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.objects[name] = copied
}

// Names returns the stored object names, sorted.
func (s *Source) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open returns a reader over the named object.
func (s *Source) Open(ctx context.Context, name string) (io.ReadSeekCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", source.ErrNotFound, name)
	}
	return object{bytes.NewReader(data)}, nil
}

// Close is a no-op for the memory source.
func (s *Source) Close() error {
	return nil
}

type object struct {
	*bytes.Reader
}

func (object) Close() error { return nil }
