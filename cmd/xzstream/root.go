package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/xzstream"
	"github.com/discochess/xzstream/internal/source"
	"github.com/discochess/xzstream/internal/source/disksource"
	"github.com/discochess/xzstream/internal/source/gcssource"
	"github.com/discochess/xzstream/internal/source/httpsource"
	"github.com/discochess/xzstream/internal/source/s3source"
	"github.com/discochess/xzstream/internal/stats"
	statslogger "github.com/discochess/xzstream/internal/stats/logger"
)

var (
	// Global flags.
	sourceURL  string
	bufferSize int
	memlimit   uint64
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "xzstream",
	Short: "Stream-decode xz containers through liblzma",
	Long: `xzstream decodes xz containers as plain byte streams and reports their
uncompressed size from the stream footers and indexes without decoding.

Objects are read from --source, which is a local directory (default),
s3://bucket/prefix, gs://bucket/prefix or an http(s):// base URL.

Examples:
  # Decode to stdout
  xzstream cat dump.xz

  # Uncompressed size without decoding
  xzstream length dump.xz

  # Per-file summary from an S3 bucket
  xzstream --source s3://my-bucket/dumps list 2024-01.xz`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&sourceURL, "source", "s", ".", "directory or URL objects are read from")
	rootCmd.PersistentFlags().IntVar(&bufferSize, "buffer-size", xzstream.DefaultBufferSize, "native codec buffer size in bytes")
	rootCmd.PersistentFlags().Uint64Var(&memlimit, "memlimit", 0, "decoder memory limit in bytes (0 = unlimited)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// openSource resolves the --source flag.
func openSource(ctx context.Context) (source.Source, error) {
	switch {
	case strings.HasPrefix(sourceURL, "s3://"):
		bucket, prefix, err := splitBucketURL(sourceURL)
		if err != nil {
			return nil, err
		}
		return s3source.New(ctx, bucket, s3source.WithPrefix(prefix))
	case strings.HasPrefix(sourceURL, "gs://"):
		bucket, prefix, err := splitBucketURL(sourceURL)
		if err != nil {
			return nil, err
		}
		return gcssource.New(ctx, bucket, gcssource.WithPrefix(prefix))
	case strings.HasPrefix(sourceURL, "http://"), strings.HasPrefix(sourceURL, "https://"):
		return httpsource.New(sourceURL)
	default:
		return disksource.New(sourceURL)
	}
}

func splitBucketURL(raw string) (bucket, prefix string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parsing source URL: %w", err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("source URL %q has no bucket", raw)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// readerOptions returns the decoding options set by the global flags.
func readerOptions(logger *zap.Logger, collector stats.Collector) []xzstream.Option {
	opts := []xzstream.Option{
		xzstream.WithBufferSize(bufferSize),
		xzstream.WithLogger(logger),
	}
	if memlimit > 0 {
		opts = append(opts, xzstream.WithMemlimit(memlimit))
	}
	if collector == nil && verbose {
		collector = statslogger.New(logger)
	}
	if collector != nil {
		opts = append(opts, xzstream.WithStats(collector))
	}
	return opts
}

// newClient opens the source and wraps it in a client. collector may be nil.
func newClient(ctx context.Context, collector stats.Collector) (*xzstream.Client, error) {
	src, err := openSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}

	opts := append(readerOptions(newLogger(), collector), xzstream.WithSource(src))
	client, err := xzstream.New(opts...)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}

// resolveNames returns args, or every .xz file when args is empty and the
// source is a directory.
func resolveNames(ctx context.Context, client *xzstream.Client, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	disk, ok := client.Source().(*disksource.Source)
	if !ok {
		return nil, fmt.Errorf("object names are required for remote sources")
	}
	return disk.List(ctx, ".xz")
}
