package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/finsight/advisor-cli/internal/advice"
	"github.com/finsight/advisor-cli/internal/store"
	"github.com/finsight/advisor-cli/pkg/anthropic"
)

// openStore opens the configured backend and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL, &store.PoolConfig{
		MaxConns: cfg.Store.MaxConns,
		MinConns: cfg.Store.MinConns,
	})
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initStore validates store config, opens the backend, and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	return openStore(ctx)
}

// initEngine opens the store and builds an advice engine around a live
// Anthropic client. Commands that only assemble context use initStore and a
// clientless engine instead.
func initEngine(ctx context.Context) (*advice.Engine, store.Store, error) {
	if err := cfg.Validate("advise"); err != nil {
		return nil, nil, err
	}

	st, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	engine := advice.NewEngine(st, anthropic.NewClient(cfg.Anthropic.Key), advice.EngineOpts{
		Model:             cfg.Anthropic.Model,
		MaxTokens:         cfg.Advice.MaxTokens,
		RequestsPerMinute: cfg.Advice.RequestsPerMinute,
		MaxRetries:        cfg.Advice.MaxRetries,
	})
	return engine, st, nil
}
