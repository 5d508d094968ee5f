// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local is a filesystem data source that opens one file from the local disk.
type Local struct{ path string }

// NewLocal returns a new Local data source bound to the provided filesystem
// path.
func NewLocal(path string) *Local { return &Local{path: path} }

// In returns a Local for name inside dir. Absolute names are used as-is so a
// config can point a single input elsewhere.
func In(dir, name string) *Local {
	if filepath.IsAbs(name) || dir == "" {
		return NewLocal(name)
	}
	return NewLocal(filepath.Join(dir, name))
}

// Name returns the configured path.
func (l *Local) Name() string { return l.path }

// Open opens the configured path for reading and returns an io.ReadCloser.
//
// Behavior:
//   - If the context is already canceled or its deadline exceeded at the time
//     of the call, Open returns the context error without touching the
//     filesystem.
//   - Filesystem errors are wrapped with the path while still permitting
//     errors.Is(err, os.ErrNotExist) checks by callers.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
