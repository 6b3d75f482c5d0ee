package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/lingonews/internal/cache"
	"horse.fit/lingonews/internal/cli"
	"horse.fit/lingonews/internal/config"
	"horse.fit/lingonews/internal/db"
	"horse.fit/lingonews/internal/logging"
	"horse.fit/lingonews/internal/provider"
	"horse.fit/lingonews/internal/translation"
)

const dbConnectTimeout = 10 * time.Second

// runtime holds the wired dependencies shared by every command.
type runtime struct {
	cfg        *config.Config
	logger     zerolog.Logger
	registry   *provider.Registry
	generator  provider.Generator
	pool       *db.Pool
	store      cache.Store
	translator *translation.Translator
}

func loadConfig(envLoader *cli.EnvLoader) (*config.Config, zerolog.Logger, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

// bootstrap loads configuration and wires provider, cache backend and translator.
// providerName overrides TRANSLATION_PROVIDER when set.
func bootstrap(ctx context.Context, envLoader *cli.EnvLoader, providerName string) (*runtime, error) {
	cfg, logger, err := loadConfig(envLoader)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, logger: logger}
	if err := rt.wire(ctx, providerName); err != nil {
		rt.close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) wire(ctx context.Context, providerName string) error {
	registry, err := provider.NewRegistryFromConfig(rt.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize providers: %w", err)
	}
	rt.registry = registry

	generator, err := registry.Generator(providerName)
	if err != nil {
		return fmt.Errorf("failed to resolve provider: %w", err)
	}
	rt.generator = generator

	store, err := rt.openCache(ctx)
	if err != nil {
		return err
	}
	rt.store = store

	translator, err := translation.NewTranslator(translation.Options{
		Generator:     generator,
		Cache:         store,
		Logger:        rt.logger.With().Str("component", "translator").Logger(),
		RetryAttempts: rt.cfg.RetryAttempts,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize translator: %w", err)
	}
	rt.translator = translator

	rt.logger.Debug().
		Str("provider", generator.Name()).
		Str("model", generator.ModelName()).
		Str("cache_backend", rt.cfg.NormalizedCacheBackend()).
		Dur("cache_ttl", rt.cfg.CacheTTL()).
		Msg("translation runtime ready")
	return nil
}

func (rt *runtime) openCache(ctx context.Context) (cache.Store, error) {
	if rt.cfg.NormalizedCacheBackend() != config.CacheBackendPostgres {
		return cache.NewMemoryStore(rt.cfg.CacheTTL()), nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbConnectTimeout)
	defer cancel()

	pool, err := db.NewPool(dbCtx, rt.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	rt.pool = pool

	store, err := cache.NewPostgresStore(pool.GORM(), rt.cfg.CacheTTL(), rt.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize translation cache: %w", err)
	}
	return store, nil
}

func (rt *runtime) close() {
	if rt == nil {
		return
	}
	if rt.registry != nil {
		if err := rt.registry.Close(); err != nil {
			rt.logger.Warn().Err(err).Msg("close providers failed")
		}
	}
	if rt.pool != nil {
		if err := rt.pool.Close(); err != nil {
			rt.logger.Warn().Err(err).Msg("close database pool failed")
		}
	}
}
