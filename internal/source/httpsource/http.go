// Package httpsource implements a source over plain HTTP(S) using ranged
// GET requests.
package httpsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/discochess/xzstream/internal/source"
)

// DefaultResponseHeaderTimeout is the default timeout for receiving response headers.
const DefaultResponseHeaderTimeout = 30 * time.Second

// Compile-time check that Source implements source.Source.
var _ source.Source = (*Source)(nil)

// Source reads objects relative to a base URL. The server must report
// Content-Length on HEAD and honor Range requests.
type Source struct {
	base   *url.URL
	client *http.Client
}

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) {
		s.client = client
	}
}

// WithTimeout sets the timeout for each HTTP request.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Source) {
		s.client = &http.Client{
			Timeout: timeout,
		}
	}
}

// New creates a new HTTP source rooted at baseURL.
func New(baseURL string, opts ...Option) (*Source, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q", base.Scheme)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	s := &Source{
		base: base,
		client: &http.Client{
			Timeout: 0, // Bodies stream for as long as the reader is open.
			Transport: &http.Transport{
				ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Open issues a HEAD request for the object size and returns a reader that
// fetches ranges on demand.
func (s *Source) Open(ctx context.Context, name string) (io.ReadSeekCloser, error) {
	u := s.objectURL(name)

	size, err := s.contentLength(ctx, u)
	if err != nil {
		return nil, err
	}

	return source.NewRangeObject(ctx, size, func(ctx context.Context, off int64) (io.ReadCloser, error) {
		return s.get(ctx, u, off)
	}), nil
}

// Close releases idle connections.
func (s *Source) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *Source) objectURL(name string) string {
	rel := &url.URL{Path: strings.TrimPrefix(name, "/")}
	return s.base.ResolveReference(rel).String()
}

// contentLength gets the size of an object without downloading it.
func (s *Source) contentLength(ctx context.Context, u string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("requesting %s: %w", u, err)
	}
	resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, fmt.Errorf("%w: %s", source.ErrNotFound, u)
	case resp.StatusCode != http.StatusOK:
		return 0, fmt.Errorf("unexpected status: %s", resp.Status)
	case resp.ContentLength < 0:
		return 0, fmt.Errorf("%s: server did not report a content length", u)
	}
	return resp.ContentLength, nil
}

// get requests the object from off to its end.
func (s *Source) get(ctx context.Context, u string, off int64) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if off > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", off))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", u, err)
	}

	switch {
	case resp.StatusCode == http.StatusPartialContent:
	case resp.StatusCode == http.StatusOK && off == 0:
	default:
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return nil, fmt.Errorf("%s: server ignored range request", u)
		}
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return resp.Body, nil
}
