package csvdir

import (
	"context"

	"phonotactics/internal/storage"
)

// Kind is the storage kind the directory sink registers under.
const Kind = "cldf"

var (
	_ storage.Repository = (*Repository)(nil)
	_ storage.Committer  = (*Repository)(nil)
)

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, Config{Dir: cfg.Dir})
	})
}
