// Package progress reports byte counts and throughput for long-running
// copies.
package progress

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// Progress is a snapshot of a copy in flight.
type Progress struct {
	Phase      string
	BytesOut   int64
	BytesTotal int64 // expected BytesOut, 0 if unknown
	StartTime  time.Time
	Error      error
}

// Func is called periodically with progress updates.
type Func func(Progress)

// Writer wraps an io.Writer to count bytes written.
type Writer struct {
	w       io.Writer
	written *atomic.Int64
}

// NewWriter returns a Writer that adds every written byte to counter.
func NewWriter(w io.Writer, counter *atomic.Int64) *Writer {
	return &Writer{w: w, written: counter}
}

func (pw *Writer) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.written.Add(int64(n))
	return n, err
}

// Reader wraps an io.Reader to count bytes read.
type Reader struct {
	r    io.Reader
	read *atomic.Int64
}

// NewReader returns a Reader that adds every read byte to counter.
func NewReader(r io.Reader, counter *atomic.Int64) *Reader {
	return &Reader{r: r, read: counter}
}

func (pr *Reader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.read.Add(int64(n))
	return n, err
}

// Copy copies src to dst, calling fn with the bytes copied so far after
// every chunk and once more when done. fn may be nil.
func Copy(dst io.Writer, src io.Reader, phase string, total int64, fn Func) (int64, error) {
	start := time.Now()
	buf := make([]byte, 32*1024)
	var copied int64

	report := func(err error) {
		if fn != nil {
			fn(Progress{Phase: phase, BytesOut: copied, BytesTotal: total, StartTime: start, Error: err})
		}
	}

	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				report(werr)
				return copied, fmt.Errorf("writing output: %w", werr)
			}
			copied += int64(n)
			report(nil)
		}
		if err == io.EOF {
			report(nil)
			return copied, nil
		}
		if err != nil {
			report(err)
			return copied, err
		}
	}
}

// FormatBytes formats bytes as human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration formats duration as human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// Printer returns a Func that rewrites a single status line on w.
func Printer(w io.Writer) Func {
	return func(p Progress) {
		switch {
		case p.Error != nil:
			fmt.Fprintf(w, "\n[%s] error: %v\n", p.Phase, p.Error)
		case p.BytesTotal > 0:
			pct := float64(p.BytesOut) / float64(p.BytesTotal) * 100
			fmt.Fprintf(w, "\r[%s] %s / %s (%.1f%%)",
				p.Phase, FormatBytes(p.BytesOut), FormatBytes(p.BytesTotal), pct)
		default:
			fmt.Fprintf(w, "\r[%s] %s in %s",
				p.Phase, FormatBytes(p.BytesOut), FormatDuration(time.Since(p.StartTime)))
		}
	}
}
