// Package gcssource implements a Google Cloud Storage source.
package gcssource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/discochess/xzstream/internal/source"
)

// Compile-time check that Source implements source.Source.
var _ source.Source = (*Source)(nil)

// bucket is the subset of bucket operations the source uses.
type bucket interface {
	size(ctx context.Context, key string) (int64, error)
	rangeReader(ctx context.Context, key string, off int64) (io.ReadCloser, error)
}

// Source is a Google Cloud Storage source.
type Source struct {
	client *storage.Client
	bucket bucket
	name   string
	prefix string
}

// New creates a new GCS source.
// The bucket must already exist.
func New(ctx context.Context, bucketName string, opts ...Option) (*Source, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	s := &Source{
		client: client,
		bucket: handle{client.Bucket(bucketName)},
		name:   bucketName,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Option configures a Source.
type Option func(*Source)

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// Open reads the object attributes for its size and returns a reader that
// opens range readers on demand.
func (s *Source) Open(ctx context.Context, name string) (io.ReadSeekCloser, error) {
	// Check for cancellation before starting.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	key := s.key(name)
	size, err := s.bucket.size(ctx, key)
	if err != nil {
		return nil, s.mapError(key, err)
	}

	return source.NewRangeObject(ctx, size, func(ctx context.Context, off int64) (io.ReadCloser, error) {
		r, err := s.bucket.rangeReader(ctx, key, off)
		if err != nil {
			return nil, s.mapError(key, err)
		}
		return r, nil
	}), nil
}

// Close releases resources.
func (s *Source) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// key returns the full object key for a name.
func (s *Source) key(name string) string {
	return s.prefix + strings.TrimPrefix(name, "/")
}

func (s *Source) mapError(key string, err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("%w: gs://%s/%s", source.ErrNotFound, s.name, key)
	}
	return fmt.Errorf("reading gs://%s/%s: %w", s.name, key, err)
}

// handle adapts a storage.BucketHandle to bucket.
type handle struct {
	b *storage.BucketHandle
}

func (h handle) size(ctx context.Context, key string) (int64, error) {
	attrs, err := h.b.Object(key).Attrs(ctx)
	if err != nil {
		return 0, err
	}
	return attrs.Size, nil
}

func (h handle) rangeReader(ctx context.Context, key string, off int64) (io.ReadCloser, error) {
	return h.b.Object(key).NewRangeReader(ctx, off, -1)
}
