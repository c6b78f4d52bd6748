package xzcodec

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/discochess/xzstream"
)

func TestCodec_Extension(t *testing.T) {
	if got := New().Extension(); got != "xz" {
		t.Errorf("Extension() = %q, want %q", got, "xz")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := New(xzstream.WithBufferSize(64))
	original := bytes.Repeat([]byte("xz codec round trip "), 500)

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
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if !bytes.Equal(decompressed, original) {
		t.Error("round-trip mismatch")
	}
}

func TestCodec_Reader_InvalidData(t *testing.T) {
	reader, err := New().Reader(bytes.NewReader([]byte("not xz data at all")))
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	defer reader.Close()

	_, err = io.ReadAll(reader)
	if !errors.Is(err, xzstream.ErrMalformedContainer) {
		t.Errorf("ReadAll() error = %v, want ErrMalformedContainer", err)
	}
}
