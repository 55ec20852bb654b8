// Package config provides centralized configuration management for the pipeline.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all pipeline configuration.
// All settings can be configured via environment variables.
type Config struct {
	Source    SourceConfig
	Partition PartitionConfig
	Load      LoadConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
}

// SourceConfig describes the raw catalog dump consumed by the partition stage.
type SourceConfig struct {
	// Path is the location of the raw delimited dump (default: data.csv)
	Path string `env:"SOURCE_PATH" default:"data.csv"`

	// Delimiter is the single field separator character (default: ";")
	Delimiter string `env:"SOURCE_DELIMITER" default:";"`

	// TotalRowEstimate is the expected row count, used only for progress
	// percentages (default: 6185391, the known size of the full dump)
	TotalRowEstimate int64 `env:"SOURCE_TOTAL_ROW_ESTIMATE" default:"6185391"`
}

// PartitionConfig holds partition-stage settings.
type PartitionConfig struct {
	// Dir is the directory partition files are written to and read from (default: ".")
	Dir string `env:"PARTITION_DIR" default:"."`

	// Prefix names partition files as <prefix>_<index>.csv (default: data_clean_part)
	Prefix string `env:"PARTITION_PREFIX" default:"data_clean_part"`

	// RowsPerPartition is the row cap per partition file (default: 1000000)
	RowsPerPartition int `env:"PARTITION_ROWS_PER_FILE" default:"1000000"`

	// ProgressInterval is how many processed rows between progress reports (default: 100000)
	ProgressInterval int64 `env:"PARTITION_PROGRESS_INTERVAL" default:"100000"`
}

// LoadConfig holds load-stage settings.
type LoadConfig struct {
	// Table is the destination table name (default: videos)
	Table string `env:"LOAD_TABLE" default:"videos"`

	// BatchSize is the number of records committed per atomic batch (default: 5000)
	BatchSize int `env:"LOAD_BATCH_SIZE" default:"5000"`

	// EmbedBaseURL is the player base used when synthesizing iframe markup
	EmbedBaseURL string `env:"LOAD_EMBED_BASE_URL" default:"https://www.xvideos.com/embedframe"`

	// Timeout is the maximum duration for loading a single partition (default: 30m)
	Timeout time.Duration `env:"LOAD_TIMEOUT" default:"30m"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string, required by the load stage.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility.
	// The partition stage runs without a database, so this is validated by
	// RequireDatabase rather than at load time.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
