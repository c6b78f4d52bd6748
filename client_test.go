package xzstream

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/discochess/xzstream/internal/source"
	"github.com/discochess/xzstream/internal/source/memsource"
)

func TestNew_RequiresSource(t *testing.T) {
	_, err := New()
	if !errors.Is(err, ErrNoSource) {
		t.Errorf("New() error = %v, want ErrNoSource", err)
	}
}

func TestNew_WithSource(t *testing.T) {
	mem := memsource.New()
	client, err := New(WithSource(mem))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	if client.Source() != mem {
		t.Error("Source() returned unexpected source")
	}
}

func TestNew_InvalidBufferSize(t *testing.T) {
	_, err := New(WithSource(memsource.New()), WithBufferSize(0))
	if !errors.Is(err, ErrUnsupportedConfiguration) {
		t.Errorf("New() error = %v, want ErrUnsupportedConfiguration", err)
	}
}

func TestClient_Open(t *testing.T) {
	payload := strings.Repeat("client payload ", 300)
	mem := memsource.New()
	mem.Put("a.xz", compressXZ(t, []byte(payload)))

	client, err := New(WithSource(mem), WithBufferSize(128))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	r, err := client.Open(context.Background(), "a.xz")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != payload {
		t.Errorf("ReadAll() returned %d bytes, want %d", len(got), len(payload))
	}
}

func TestClient_Open_NotFound(t *testing.T) {
	client, err := New(WithSource(memsource.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	if _, err := client.Open(context.Background(), "missing.xz"); !errors.Is(err, source.ErrNotFound) {
		t.Errorf("Open() error = %v, want source.ErrNotFound", err)
	}
}

func TestClient_LengthAndInfo(t *testing.T) {
	mem := memsource.New()
	mem.Put("a.xz", compressXZ(t, []byte(strings.Repeat("z", 12345))))
	mem.Put("bad.xz", []byte("not an xz container at all"))

	client, err := New(WithSource(mem))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	n, err := client.Length(context.Background(), "a.xz")
	if err != nil {
		t.Fatalf("Length() error = %v", err)
	}
	if n != 12345 {
		t.Errorf("Length() = %d, want 12345", n)
	}

	info, err := client.Info(context.Background(), "a.xz")
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.Streams != 1 || info.UncompressedSize != 12345 {
		t.Errorf("Info() = %+v", info)
	}

	if _, err := client.Length(context.Background(), "bad.xz"); !errors.Is(err, ErrMalformedContainer) {
		t.Errorf("Length(bad.xz) error = %v, want ErrMalformedContainer", err)
	}
}

func TestClient_Close(t *testing.T) {
	client, err := New(WithSource(memsource.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// First close should succeed.
	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// Second close should return ErrClosed.
	if err := client.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("Close() second call error = %v, want ErrClosed", err)
	}
}

func TestClient_Open_AfterClose(t *testing.T) {
	client, err := New(WithSource(memsource.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	client.Close()

	if _, err := client.Open(context.Background(), "a.xz"); !errors.Is(err, ErrClosed) {
		t.Errorf("Open() after close error = %v, want ErrClosed", err)
	}
	if _, err := client.Length(context.Background(), "a.xz"); !errors.Is(err, ErrClosed) {
		t.Errorf("Length() after close error = %v, want ErrClosed", err)
	}
}
