package xzstream

import (
	"math"

	"go.uber.org/zap"

	"github.com/discochess/xzstream/internal/liblzma"
	"github.com/discochess/xzstream/internal/source"
	"github.com/discochess/xzstream/internal/stats"
)

// DefaultBufferSize is the default capacity of each native codec buffer.
//
// Smaller buffers mean more upstream reads and more cgo calls per decoded
// byte; larger buffers cost twice their size in native memory per Reader.
const DefaultBufferSize = 512

// Option configures a Reader or a Client.
type Option interface {
	apply(*options)
}

// options holds reader and client configuration.
type options struct {
	bufferSize   int
	memlimit     uint64
	concatenated bool
	leaveOpen    bool
	source       source.Source
	stats        stats.Collector
	logger       *zap.Logger

	// newSession creates the codec session; replaced in tests.
	newSession func(bufSize int, memlimit uint64, flags liblzma.DecoderFlags) (session, error)
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		bufferSize:   DefaultBufferSize,
		memlimit:     math.MaxUint64,
		concatenated: true,
		stats:        stats.NewNoop(),
		logger:       zap.NewNop(),
		newSession:   newLiblzmaSession,
	}
}

func buildOptions(opts []Option) options {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	return cfg
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithBufferSize sets the capacity in bytes of each of the two native codec
// buffers. Default is DefaultBufferSize.
func WithBufferSize(n int) Option {
	return optionFunc(func(o *options) {
		o.bufferSize = n
	})
}

// WithMemlimit caps the memory the decoder and the length probe may use.
// Default is unlimited.
func WithMemlimit(limit uint64) Option {
	return optionFunc(func(o *options) {
		o.memlimit = limit
	})
}

// WithConcatenated controls whether back-to-back xz streams decode as one
// logical stream. Default is true. When false, decoding stops after the
// first stream.
func WithConcatenated(enabled bool) Option {
	return optionFunc(func(o *options) {
		o.concatenated = enabled
	})
}

// WithLeaveOpen keeps the upstream source open when the Reader is closed.
func WithLeaveOpen(leaveOpen bool) Option {
	return optionFunc(func(o *options) {
		o.leaveOpen = leaveOpen
	})
}

// WithSource sets the object source a Client opens readers from.
func WithSource(s source.Source) Option {
	return optionFunc(func(o *options) {
		o.source = s
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}
