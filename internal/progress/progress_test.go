package progress

import (
	"bytes"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"testing/iotest"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		dur  time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m 30s"},
		{3661 * time.Second, "1h 1m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatDuration(tt.dur)
			if got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.dur, got, tt.want)
			}
		})
	}
}

func TestCounters(t *testing.T) {
	var in, out atomic.Int64
	var dst bytes.Buffer

	r := NewReader(strings.NewReader("counted"), &in)
	w := NewWriter(&dst, &out)
	if _, err := Copy(w, r, "copy", 0, nil); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	if in.Load() != 7 || out.Load() != 7 {
		t.Errorf("counted in=%d out=%d, want 7 and 7", in.Load(), out.Load())
	}
}

func TestCopy_Reports(t *testing.T) {
	var reports []Progress
	var dst bytes.Buffer

	n, err := Copy(&dst, iotest.HalfReader(strings.NewReader("0123456789")), "copy", 10, func(p Progress) {
		reports = append(reports, p)
	})
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if n != 10 || dst.String() != "0123456789" {
		t.Errorf("Copy() = %d, %q", n, dst.String())
	}
	if len(reports) < 2 {
		t.Fatalf("got %d reports, want at least 2", len(reports))
	}
	if last := reports[len(reports)-1]; last.BytesOut != 10 || last.BytesTotal != 10 {
		t.Errorf("last report = %+v", last)
	}
}

func TestCopy_ReadError(t *testing.T) {
	errBoom := errors.New("boom")
	var got error

	_, err := Copy(&bytes.Buffer{}, iotest.ErrReader(errBoom), "copy", 0, func(p Progress) {
		got = p.Error
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("Copy() error = %v, want %v", err, errBoom)
	}
	if !errors.Is(got, errBoom) {
		t.Errorf("reported error = %v, want %v", got, errBoom)
	}
}

func TestPrinter(t *testing.T) {
	var out bytes.Buffer
	p := Printer(&out)

	p(Progress{Phase: "decode", BytesOut: 512, BytesTotal: 1024})
	if !strings.Contains(out.String(), "[decode] 512 B / 1.0 KB (50.0%)") {
		t.Errorf("Printer wrote %q", out.String())
	}
}
