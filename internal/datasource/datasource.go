// Package datasource defines where pipeline inputs come from. The transform
// never touches the filesystem directly; every raw, etc and catalog file is
// opened through a Source so tests can substitute in-memory inputs.
package datasource

import (
	"context"
	"io"
	"strings"
)

// Source opens one input stream.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	// Name identifies the input in logs and error messages.
	Name() string
}

// String is an in-memory Source, mostly useful in tests.
type String struct {
	Label string
	Data  string
}

// Open returns a reader over the literal data.
func (s String) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(s.Data)), nil
}

// Name returns the label of the literal source.
func (s String) Name() string { return s.Label }
