// Package diskxzstreamfx provides an fx module for a disk-backed xzstream client.
package diskxzstreamfx

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/xzstream"
	"github.com/discochess/xzstream/internal/source/cachedsource"
	"github.com/discochess/xzstream/internal/source/cachedsource/cachestrategy/lru"
	"github.com/discochess/xzstream/internal/source/cachedsource/memory"
	"github.com/discochess/xzstream/internal/source/disksource"
	"github.com/discochess/xzstream/internal/stats"
	"github.com/discochess/xzstream/internal/stats/logger"
	promstats "github.com/discochess/xzstream/internal/stats/prometheus"
)

// DefaultCacheSize is the number of objects cached when Config.CacheSize is
// not set.
const DefaultCacheSize = 16

// Config holds configuration for the disk-backed client.
type Config struct {
	// Dir is the directory containing the xz objects.
	Dir string

	// CacheSize is the number of whole objects to cache in memory.
	// Default is DefaultCacheSize.
	CacheSize int

	// MaxCachedObjectBytes is the largest object the cache will hold.
	// Default is cachedsource.DefaultMaxObjectBytes.
	MaxCachedObjectBytes int64

	// BufferSize is the native codec buffer size.
	// Default is xzstream.DefaultBufferSize.
	BufferSize int

	// Registerer, if set, receives the client's metrics. Otherwise metrics
	// are logged at debug level.
	Registerer prometheus.Registerer
}

// Module provides a disk-backed xzstream client.
// Requires a Config and a *zap.Logger to be provided.
var Module = fx.Module("diskxzstream",
	fx.Provide(
		newStatsCollector,
		newClient,
	),
)

func newStatsCollector(cfg Config, log *zap.Logger) stats.Collector {
	if cfg.Registerer != nil {
		return promstats.New(cfg.Registerer)
	}
	return logger.New(log.Named("xzstream.stats"))
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided client.
type Result struct {
	fx.Out

	Client *xzstream.Client
}

func newClient(p Params) (Result, error) {
	cacheSize := p.Config.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	maxObject := p.Config.MaxCachedObjectBytes
	if maxObject <= 0 {
		maxObject = cachedsource.DefaultMaxObjectBytes
	}
	bufferSize := p.Config.BufferSize
	if bufferSize <= 0 {
		bufferSize = xzstream.DefaultBufferSize
	}

	base, err := disksource.New(p.Config.Dir)
	if err != nil {
		return Result{}, err
	}

	lruStrategy, err := lru.New(cacheSize)
	if err != nil {
		return Result{}, err
	}

	src := cachedsource.New(base, memory.New(lruStrategy, p.Collector),
		cachedsource.WithMaxObjectBytes(maxObject),
	)

	client, err := xzstream.New(
		xzstream.WithSource(src),
		xzstream.WithBufferSize(bufferSize),
		xzstream.WithStats(p.Collector),
		xzstream.WithLogger(p.Logger.Named("xzstream")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return Result{Client: client}, nil
}
