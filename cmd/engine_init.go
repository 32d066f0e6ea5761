package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/batiprix/pricing-engine/internal/benchmark"
	"github.com/batiprix/pricing-engine/internal/feedback"
	"github.com/batiprix/pricing-engine/internal/pricer"
	"github.com/batiprix/pricing-engine/pkg/catalog"
)

// engineEnv bundles the wired components shared by the commands.
type engineEnv struct {
	Store    feedback.Store
	Adjuster *feedback.Engine
	Calc     *pricer.Calculator
	Pricer   *pricer.Engine
	Catalog  catalog.Client
}

func initStore(ctx context.Context) (feedback.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "pricing.db"
		}
		return feedback.NewSQLite(dsn)
	case "postgres":
		return feedback.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initEngine(ctx context.Context) (*engineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}

	table := benchmark.DefaultTable()
	if cfg.Benchmarks.Path != "" {
		table, err = benchmark.LoadFile(cfg.Benchmarks.Path)
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	adjuster := feedback.NewEngine(st, feedback.EngineConfig{
		FuzzyThreshold: cfg.Pricing.FuzzyThreshold,
		HalfLifeDays:   cfg.Pricing.DecayHalfLifeDays,
	})
	calc := pricer.NewCalculator(table, adjuster)

	cat := catalog.NewClient(cfg.Catalog.BaseURL,
		catalog.WithTimeout(time.Duration(cfg.Catalog.TimeoutSecs)*time.Second),
		catalog.WithRateLimit(cfg.Catalog.RatePerSec, cfg.Catalog.Burst),
	)

	eng := pricer.NewEngine(calc, pricer.NewCatalogSearcher(cat),
		pricer.WithCurrency(cfg.Pricing.Currency),
	)

	return &engineEnv{
		Store:    st,
		Adjuster: adjuster,
		Calc:     calc,
		Pricer:   eng,
		Catalog:  cat,
	}, nil
}

func (e *engineEnv) Close() {
	_ = e.Store.Close()
}
