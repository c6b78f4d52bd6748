// Package registry maps codec names and file extensions to codecs.
package registry

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/discochess/xzstream"
	"github.com/discochess/xzstream/internal/codec"
	"github.com/discochess/xzstream/internal/codec/gzipcodec"
	"github.com/discochess/xzstream/internal/codec/noopcodec"
	"github.com/discochess/xzstream/internal/codec/xzcodec"
	"github.com/discochess/xzstream/internal/codec/zstdcodec"
)

var aliases = map[string]string{
	"xz":   "xz",
	"zst":  "zst",
	"zstd": "zst",
	"gz":   "gz",
	"gzip": "gz",
	"none": "none",
	"":     "none",
}

// Lookup returns the codec for a name or extension: "xz", "zst" or "zstd",
// "gz" or "gzip", "none". The options configure xz decoding.
func Lookup(name string, opts ...xzstream.Option) (codec.Codec, error) {
	switch aliases[strings.ToLower(strings.TrimPrefix(name, "."))] {
	case "xz":
		return xzcodec.New(opts...), nil
	case "zst":
		return zstdcodec.New(), nil
	case "gz":
		return gzipcodec.New(), nil
	case "none":
		return noopcodec.New(), nil
	default:
		return nil, fmt.Errorf("unknown codec %q (known: %s)", name, strings.Join(Names(), ", "))
	}
}

// ForFile returns the codec matching a file name's extension, falling back
// to the no-op codec for unknown extensions.
func ForFile(name string, opts ...xzstream.Option) codec.Codec {
	c, err := Lookup(path.Ext(name), opts...)
	if err != nil {
		return noopcodec.New()
	}
	return c
}

// Names returns the accepted codec names, sorted.
func Names() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
