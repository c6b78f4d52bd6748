package zstdcodec

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestCodec_Extension(t *testing.T) {
	if got := New().Extension(); got != "zst" {
		t.Errorf("Extension() = %q, want %q", got, "zst")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	for _, c := range []*Codec{New(), NewWithLevel(zstd.SpeedBestCompression)} {
		original := bytes.Repeat([]byte("zstd round trip "), 1000)

		var compressed bytes.Buffer
		writer, err := c.Writer(&compressed)
		if err != nil {
			t.Fatalf("Writer() error = %v", err)
		}
		if _, err := writer.Write(original); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		reader, err := c.Reader(&compressed)
		if err != nil {
			t.Fatalf("Reader() error = %v", err)
		}
		decompressed, err := io.ReadAll(reader)
		reader.Close()
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}

		if !bytes.Equal(decompressed, original) {
			t.Errorf("level %v: round-trip mismatch", c.level)
		}
	}
}
