// Command load runs the second pipeline stage: it reads the cleaned
// partition files, derives the remaining record fields, and batch-loads
// everything into Postgres, finishing with a summary of what landed.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/cyberspyde/multi-frame-streaming/internal/config"
	"github.com/cyberspyde/multi-frame-streaming/internal/derive"
	"github.com/cyberspyde/multi-frame-streaming/internal/loader"
	"github.com/cyberspyde/multi-frame-streaming/internal/logging"
	"github.com/cyberspyde/multi-frame-streaming/internal/partition"
	"github.com/cyberspyde/multi-frame-streaming/internal/store"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.RequireDatabase(); err != nil {
		slog.Error("database configuration incomplete", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger, _ := logging.NewRunLogger("load")

	logger.Info("configuration loaded",
		"partition_dir", cfg.Partition.Dir,
		"table", cfg.Load.Table,
		"batch_size", cfg.Load.BatchSize,
	)

	pool, err := connectPool(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	videos := store.NewVideoStore(pool, cfg.Load.Table)
	deriver := derive.NewCatalogDeriver(cfg.Load.EmbedBaseURL)
	delimiter := rune(cfg.Source.Delimiter[0])
	batches := loader.NewBatchLoader(videos, deriver, cfg.Load.BatchSize, delimiter, logger)

	paths, err := partition.Discover(cfg.Partition.Dir, cfg.Partition.Prefix)
	if err != nil {
		logger.Error("no partitions to load", "dir", cfg.Partition.Dir, "error", err)
		os.Exit(1)
	}
	logger.Info("partitions discovered", "count", len(paths))

	start := time.Now()
	var totals loader.Result
	for _, path := range paths {
		res, err := loadOne(batches, cfg.Load.Timeout, path)
		if err != nil {
			logger.Error("partition load failed", "partition", path, "error", err)
			os.Exit(1)
		}
		totals.RowsRead += res.RowsRead
		totals.Imported += res.Imported
		totals.Skipped += res.Skipped
		totals.BatchFailures += res.BatchFailures
		totals.FailedRows += res.FailedRows
	}

	logger.Info("load complete",
		"partitions", len(paths),
		"rows_read", totals.RowsRead,
		"imported", totals.Imported,
		"skipped", totals.Skipped,
		"batch_failures", totals.BatchFailures,
		"failed_rows", totals.FailedRows,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)

	reportSummary(context.Background(), logger, videos)
}

func connectPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	poolCfg.MinConns = int32(cfg.Database.MinConns)
	poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func loadOne(batches *loader.BatchLoader, timeout time.Duration, path string) (*loader.Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return batches.LoadPartition(ctx, path)
}

// reportSummary queries the destination table after the load so the run log
// ends with what actually landed. Failures here are logged but do not fail
// the run; the data is already committed.
func reportSummary(ctx context.Context, logger *slog.Logger, videos *store.VideoStore) {
	total, err := videos.CountRecords(ctx)
	if err != nil {
		logger.Warn("summary count failed", "error", err)
		return
	}
	logger.Info("table summary", "total_records", total)

	categories, err := videos.CountByCategory(ctx, 10)
	if err != nil {
		logger.Warn("summary category query failed", "error", err)
		return
	}
	for _, c := range categories {
		logger.Info("top category", "category", c.Category, "count", c.Count)
	}

	top, err := videos.TopByViews(ctx, 5)
	if err != nil {
		logger.Warn("summary views query failed", "error", err)
		return
	}
	for _, v := range top {
		attrs := []any{"title", v.Title, "category", v.Category, "views", v.Views}
		if v.Duration != nil {
			attrs = append(attrs, "duration_sec", *v.Duration)
		}
		logger.Info("most viewed", attrs...)
	}
}
