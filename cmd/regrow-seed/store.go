package main

import (
	"context"

	"github.com/okian/regrow/internal/adapters/repository"
	"github.com/okian/regrow/internal/config"
	"github.com/okian/regrow/pkg/logger"
)

// openRepository resolves the store from config, lets flags override it
// and returns the state repository with a cleanup func.
func openRepository(ctx context.Context, flags *globalFlags) (*repository.StateRepository, *config.Config, func(), error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if flags.driver != "" {
		cfg.StoreDriver = flags.driver
	}
	if flags.path != "" {
		cfg.StorePath = flags.path
	}
	if flags.key != "" {
		cfg.StateKey = flags.key
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return nil, nil, nil, err
	}
	repo := repository.NewStateRepository(store,
		repository.WithKey(cfg.StateKey),
		repository.WithLogger(logger.Get().Named("repository")),
	)
	cleanup := func() {
		_ = store.Close()
	}
	return repo, cfg, cleanup, nil
}
