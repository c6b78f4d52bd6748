// Package memoryxzstreamfx provides an fx module for an in-memory xzstream client.
// Useful for testing.
package memoryxzstreamfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/xzstream"
	"github.com/discochess/xzstream/internal/source/memsource"
	"github.com/discochess/xzstream/internal/stats"
	"github.com/discochess/xzstream/internal/stats/logger"
)

// Module provides an in-memory xzstream client for testing.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memoryxzstream",
	fx.Provide(
		newStatsCollector,
		newMemSource,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("xzstream.stats"))
}

func newMemSource() *memsource.Source {
	return memsource.New()
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Source    *memsource.Source
	Lifecycle fx.Lifecycle
}

// Result holds the provided client.
type Result struct {
	fx.Out

	Client *xzstream.Client
}

func newClient(p Params) (Result, error) {
	client, err := xzstream.New(
		xzstream.WithSource(p.Source),
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
