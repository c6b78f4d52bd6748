// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Reader metrics.
	MetricOpens           = "xzstream_opens_total"
	MetricReads           = "xzstream_reads_total"
	MetricCompressedIn    = "xzstream_compressed_bytes_total"
	MetricDecompressedOut = "xzstream_decompressed_bytes_total"
	MetricCodecSteps      = "xzstream_codec_steps_total"
	MetricDecodeErrors    = "xzstream_decode_errors_total"
	MetricPendingBytes    = "xzstream_pending_bytes"

	// Length probe metrics.
	MetricLengthProbes       = "xzstream_length_probes_total"
	MetricLengthProbeSeconds = "xzstream_length_probe_seconds"

	// Source cache metrics.
	MetricCacheHits   = "xzstream_cache_hits_total"
	MetricCacheMisses = "xzstream_cache_misses_total"
	MetricCacheSize   = "xzstream_cache_size"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}

var descriptions = map[string]string{
	MetricOpens:              "Readers opened.",
	MetricReads:              "Read calls served.",
	MetricCompressedIn:       "Compressed bytes pulled from upstream sources.",
	MetricDecompressedOut:    "Decompressed bytes delivered to callers.",
	MetricCodecSteps:         "liblzma decode steps executed.",
	MetricDecodeErrors:       "Reads that failed with a codec or source error.",
	MetricPendingBytes:       "Decoded bytes buffered after the last read.",
	MetricLengthProbes:       "Footer and index probes run to compute uncompressed length.",
	MetricLengthProbeSeconds: "Latency of footer and index probes.",
	MetricCacheHits:          "Source cache hits.",
	MetricCacheMisses:        "Source cache misses.",
	MetricCacheSize:          "Objects held by the source cache.",
}

// Describe returns the help text for a metric, or the name itself when the
// metric is not one of the library's own.
func Describe(name string) string {
	if d, ok := descriptions[name]; ok {
		return d
	}
	return name
}
