package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/ppgi-advisor/internal/domain/food"
	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
	"github.com/yanqian/ppgi-advisor/internal/infra/config"
	"github.com/yanqian/ppgi-advisor/internal/infra/foodcatalog"
	"github.com/yanqian/ppgi-advisor/internal/infra/historyrepo"
	"github.com/yanqian/ppgi-advisor/internal/infra/predictioncache"
	"github.com/yanqian/ppgi-advisor/internal/infra/predictor/remote"
)

func providePredictionConfig(cfg *config.Config) prediction.Config {
	return prediction.Config{
		CacheTTL:    cfg.Cache.TTL,
		RecentLimit: cfg.History.RecentLimit,
	}
}

func provideFoodCatalog(cfg *config.Config, logger *slog.Logger) (*food.Catalog, error) {
	path := strings.TrimSpace(cfg.Food.CatalogPath)
	if path == "" {
		return food.DefaultCatalog(), nil
	}
	catalog, err := foodcatalog.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Info("food catalog loaded", "path", path, "items", catalog.Len())
	return catalog, nil
}

func providePredictor(cfg *config.Config) *remote.Client {
	return remote.NewClient(cfg.Predictor.BaseURL, cfg.Predictor.Timeout)
}

func providePredictionCache(cfg *config.Config, logger *slog.Logger) prediction.Cache {
	if !cfg.Cache.Enabled {
		return predictioncache.NewMemoryCache()
	}
	opt, err := buildValkeyOptions(cfg.Cache.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return predictioncache.NewMemoryCache()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return predictioncache.NewMemoryCache()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return predictioncache.NewMemoryCache()
	}
	logger.Info("prediction valkey cache enabled", "addr", cfg.Cache.Addr)
	return predictioncache.NewValkeyCache(client, cfg.Cache.Prefix)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

// provideHistoryRepository prefers Postgres, then SQLite, then memory.
func provideHistoryRepository(cfg *config.Config, logger *slog.Logger) prediction.HistoryRepository {
	if repo := openPostgresHistory(cfg.History.Postgres, logger); repo != nil {
		return repo
	}
	if path := strings.TrimSpace(cfg.History.SQLitePath); path != "" {
		repo, err := historyrepo.NewSQLiteRepository(path)
		if err != nil {
			logger.Error("failed to open sqlite history, using memory repository", "path", path, "error", err)
			return historyrepo.NewMemoryRepository()
		}
		logger.Info("sqlite history repository enabled", "path", path)
		return repo
	}
	logger.Info("history storage not configured, using memory repository")
	return historyrepo.NewMemoryRepository()
}

func openPostgresHistory(pg config.PostgresConfig, logger *slog.Logger) prediction.HistoryRepository {
	dsn := strings.TrimSpace(pg.DSN)
	if dsn == "" {
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, skipping postgres history", "error", err)
		return nil
	}
	if pg.MaxConns > 0 {
		poolConfig.MaxConns = pg.MaxConns
	}
	if pg.MinConns > 0 {
		poolConfig.MinConns = pg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, skipping postgres history", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, skipping postgres history", "error", err)
		pool.Close()
		return nil
	}
	repo := historyrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("postgres schema setup failed, skipping postgres history", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres history repository enabled")
	return repo
}
