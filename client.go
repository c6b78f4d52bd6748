package xzstream

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/discochess/xzstream/internal/source"
)

// Client opens xz objects from a source and decodes them.
// A Client is safe for concurrent use by multiple goroutines; the Readers it
// returns are not.
//
//	client, err := xzstream.New(
//	    xzstream.WithSource(disksource.New("/data")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	r, err := client.Open(ctx, "dump.xz")
type Client struct {
	source source.Source
	cfg    options
	logger *zap.Logger
	closed atomic.Bool
}

// New creates a new Client with the given options. WithSource is required.
func New(opts ...Option) (*Client, error) {
	cfg := buildOptions(opts)

	if cfg.source == nil {
		return nil, ErrNoSource
	}
	if cfg.bufferSize <= 0 {
		return nil, invalidOption("buffer size must be positive, got %d", cfg.bufferSize)
	}

	c := &Client{
		source: cfg.source,
		cfg:    cfg,
		logger: cfg.logger,
	}

	c.logger.Debug("client initialized",
		zap.Int("bufferSize", cfg.bufferSize),
		zap.Bool("concatenated", cfg.concatenated),
	)

	return c, nil
}

// Open returns a Reader over the named object. The Reader owns the object
// and closes it on Close.
func (c *Client) Open(ctx context.Context, name string) (*Reader, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	obj, err := c.source.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}

	cfg := c.cfg
	cfg.leaveOpen = false
	cfg.logger = c.logger.With(zap.String("object", name))

	r, err := newReader(obj, cfg)
	if err != nil {
		return nil, multierr.Append(err, obj.Close())
	}
	return r, nil
}

// Length returns the uncompressed size of the named object without
// decoding it.
func (c *Client) Length(ctx context.Context, name string) (int64, error) {
	info, err := c.Info(ctx, name)
	if err != nil {
		return 0, err
	}
	return info.UncompressedSize, nil
}

// Info returns the container summary of the named object.
func (c *Client) Info(ctx context.Context, name string) (info Info, err error) {
	r, err := c.Open(ctx, name)
	if err != nil {
		return Info{}, err
	}
	defer func() {
		err = multierr.Append(err, r.Close())
	}()

	info, err = r.Info()
	if err != nil {
		return Info{}, fmt.Errorf("probing %s: %w", name, err)
	}
	return info, nil
}

// Close releases the source. Calling Close more than once returns ErrClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	if err := c.source.Close(); err != nil {
		return fmt.Errorf("closing source: %w", err)
	}
	return nil
}

// Source returns the object source used by this client.
func (c *Client) Source() source.Source {
	return c.source
}
