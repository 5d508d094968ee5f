package s3

import (
	"context"

	"phonotactics/internal/storage"
)

// Kind is the storage kind the bucket sink registers under.
const Kind = "s3"

var (
	_ storage.Repository = (*Repository)(nil)
	_ storage.Committer  = (*Repository)(nil)
)

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		c, err := ParseDSN(cfg.DSN)
		if err != nil {
			return nil, err
		}
		c.Staging = cfg.Dir
		return NewRepository(ctx, c)
	})
}
