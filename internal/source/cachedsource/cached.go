package cachedsource

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"

	"github.com/discochess/xzstream/internal/source"
)

// DefaultMaxObjectBytes is the largest object cached by default.
const DefaultMaxObjectBytes = 8 << 20

// Compile-time check that Source implements source.Source.
var _ source.Source = (*Source)(nil)

// Source wraps another Source and keeps small objects in memory.
// Objects larger than the size cap are passed through uncached.
type Source struct {
	underlying     source.Source
	backend        Backend
	maxObjectBytes int64
}

// Option configures a Source.
type Option func(*Source)

// WithMaxObjectBytes sets the largest object size that is cached.
func WithMaxObjectBytes(n int64) Option {
	return func(s *Source) {
		s.maxObjectBytes = n
	}
}

// New creates a new cached source wrapping the given source.
func New(underlying source.Source, backend Backend, opts ...Option) *Source {
	s := &Source{
		underlying:     underlying,
		backend:        backend,
		maxObjectBytes: DefaultMaxObjectBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns the named object, from the cache when possible.
func (s *Source) Open(ctx context.Context, name string) (io.ReadSeekCloser, error) {
	// Check cache first.
	if data, ok := s.backend.Get(name); ok {
		return newObject(data), nil
	}

	// Cache miss - open from underlying source.
	obj, err := s.underlying.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	size, err := obj.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("sizing %s: %w", name, err), obj.Close())
	}
	if _, err := obj.Seek(0, io.SeekStart); err != nil {
		return nil, multierr.Append(fmt.Errorf("rewinding %s: %w", name, err), obj.Close())
	}

	if size > s.maxObjectBytes {
		return obj, nil
	}

	data, err := io.ReadAll(obj)
	if cerr := obj.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	// Cache the result.
	s.backend.Set(name, data)

	return newObject(data), nil
}

// Close closes the underlying source.
func (s *Source) Close() error {
	return s.underlying.Close()
}

// Stats returns cache statistics.
func (s *Source) Stats() Stats {
	return s.backend.Stats()
}

type object struct {
	*bytes.Reader
}

func newObject(data []byte) object {
	return object{bytes.NewReader(data)}
}

func (object) Close() error { return nil }
