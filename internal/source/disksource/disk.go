// Package disksource implements a source backed by a local directory.
package disksource

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/discochess/xzstream/internal/source"
)

// Compile-time check that Source implements source.Source.
var _ source.Source = (*Source)(nil)

// Source reads objects from files under a root directory.
type Source struct {
	root string
}

// New creates a new disk source rooted at the given directory.
// The directory must exist.
func New(root string) (*Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	return &Source{root: root}, nil
}

// Open opens the named file. Names use forward slashes and are resolved
// relative to the root; they cannot escape it.
func (s *Source) Open(ctx context.Context, name string) (io.ReadSeekCloser, error) {
	// Check for cancellation before starting I/O.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	p, err := s.path(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", source.ErrNotFound, name)
		}
		return nil, fmt.Errorf("opening object: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat object: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", source.ErrNotFound, name)
	}

	return f, nil
}

// List returns the names of all regular files under the root whose name ends
// in ext, sorted. An empty ext matches every file.
func (s *Source) List(ctx context.Context, ext string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.root, err)
	}

	sort.Strings(names)
	return names, nil
}

// Root returns the root directory.
func (s *Source) Root() string {
	return s.root
}

// Close releases any resources held by the source.
func (s *Source) Close() error {
	return nil
}

// path maps an object name to a filesystem path under the root.
func (s *Source) path(name string) (string, error) {
	clean := path.Clean("/" + name)
	if clean == "/" {
		return "", fmt.Errorf("%w: empty name", source.ErrNotFound)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean[1:])), nil
}
