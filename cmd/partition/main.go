// Command partition runs the first pipeline stage: it streams the raw media
// catalog dump and rewrites it as numbered, row-capped partition files.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/cyberspyde/multi-frame-streaming/internal/config"
	"github.com/cyberspyde/multi-frame-streaming/internal/logging"
	"github.com/cyberspyde/multi-frame-streaming/internal/partition"
	"github.com/cyberspyde/multi-frame-streaming/internal/progress"
	"github.com/cyberspyde/multi-frame-streaming/internal/schema"
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

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger, _ := logging.NewRunLogger("partition")

	logger.Info("configuration loaded",
		"source", cfg.Source.Path,
		"partition_dir", cfg.Partition.Dir,
		"rows_per_partition", cfg.Partition.RowsPerPartition,
	)

	source, err := os.Open(cfg.Source.Path)
	if err != nil {
		logger.Error("failed to open source", "path", cfg.Source.Path, "error", err)
		os.Exit(1)
	}
	defer source.Close()

	columns := schema.Catalog()
	delimiter := rune(cfg.Source.Delimiter[0])

	p := partition.NewStreamPartitioner(
		partition.NewRowSanitizer(columns),
		partition.NewPartitionWriter(cfg.Partition.Dir, cfg.Partition.Prefix, delimiter, columns.Header()),
		progress.NewTracker(logger, "partitioning", cfg.Source.TotalRowEstimate, cfg.Partition.ProgressInterval),
		delimiter,
		cfg.Partition.RowsPerPartition,
	)

	res, err := p.Run(source)
	if err != nil {
		logger.Error("partitioning failed", "error", err)
		os.Exit(1)
	}

	logger.Info("partitioning complete",
		"rows_processed", res.RowsProcessed,
		"rows_written", res.RowsWritten,
		"malformed", res.Malformed,
		"partitions", res.Partitions,
		"elapsed", res.Elapsed.Round(time.Millisecond).String(),
	)
}
