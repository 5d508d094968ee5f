// Package storage contains the backend-agnostic sink contract, a factory
// registry that backends join at init time, and WriteDataset which loads
// the CLDF tables through any registered backend.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"phonotactics/internal/ddl"
)

// Repository is the minimal surface every sink implements. Rows passed to
// CopyFrom are aligned to t.Columns and hold typed cells (nil, string,
// bool, int64, float64).
type Repository interface {
	CreateTable(ctx context.Context, t ddl.TableDef) error
	CopyFrom(ctx context.Context, t ddl.TableDef, rows [][]any) (int64, error)
	Close()
}

// Committer is implemented by sinks that finalize output once every table
// is loaded (the CSV directory writes its metadata and checksums then).
type Committer interface {
	Commit(ctx context.Context) error
}

// Config selects and parameterizes a backend.
type Config struct {
	// Kind is the registered backend name, e.g. "cldf", "sqlite".
	Kind string
	// DSN is the connection string of SQL backends.
	DSN string
	// Dir is the output directory of file backends.
	Dir string
	// TablePrefix is prepended to SQL table names.
	TablePrefix string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
