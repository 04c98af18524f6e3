package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/powderlines/resort-cli/internal/assets"
	"github.com/powderlines/resort-cli/internal/fetcher"
	"github.com/powderlines/resort-cli/internal/store"
)

// initStore opens the configured store, wrapped read-only under --dry-run.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "resorts.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if flagDryRun {
		return store.NewDryRun(st), nil
	}
	return st, nil
}

// initAssets opens the object store. Under --dry-run writes land in memory
// so the run still reports what it would have written.
func initAssets(ctx context.Context) (assets.Store, error) {
	if cfg.Assets.Bucket == "" {
		if flagDryRun {
			return assets.NewMem(), nil
		}
		return nil, eris.New("assets.bucket is required (RESORT_ASSETS_BUCKET)")
	}

	st, err := assets.NewGCS(ctx, cfg.Assets.Bucket)
	if err != nil {
		return nil, err
	}
	if flagDryRun {
		return assets.NewReadOnly(st), nil
	}
	return st, nil
}

// initOptionalAssets returns the object store when a bucket is configured
// and nil otherwise, for pipelines where the mirror is a nice-to-have.
func initOptionalAssets(ctx context.Context) assets.Store {
	if cfg.Assets.Bucket == "" && !flagDryRun {
		return nil
	}
	st, err := initAssets(ctx)
	if err != nil {
		return nil
	}
	return st
}

// initFetcher builds the shared HTTP fetcher with per-host rate limits.
func initFetcher() fetcher.Fetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		RateLimiters: fetcher.DefaultRateLimiters(),
	})
}
