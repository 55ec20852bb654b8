// Package loader implements the second pipeline stage: reading cleaned
// partitions, deriving and validating media records, and committing them to
// the sink in fixed-size atomic batches.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cyberspyde/multi-frame-streaming/internal/derive"
	"github.com/cyberspyde/multi-frame-streaming/internal/schema"
)

// contextCheckInterval is how often (in rows) cancellation is checked.
// Checking every row costs more than it buys on multi-million-row partitions.
const contextCheckInterval = 1000

// Sink accepts ordered batches of records. A batch commits as one unit: on
// error none of its rows were persisted.
type Sink interface {
	SubmitBatch(ctx context.Context, records []MediaRecord) error
}

// Result summarizes the load of one partition.
type Result struct {
	Partition     string
	RowsRead      int64
	Imported      int64
	Skipped       int64
	BatchFailures int64
	FailedRows    int64 // rows lost to rejected batches, distinct from Skipped
	Elapsed       time.Duration
}

// BatchLoader reads cleaned partitions and feeds the sink. Counters are local
// to each LoadPartition call; the loader itself is reusable across files.
type BatchLoader struct {
	sink      Sink
	deriver   derive.Deriver
	batchSize int
	delimiter rune
	logger    *slog.Logger
}

// NewBatchLoader assembles the load stage.
func NewBatchLoader(sink Sink, deriver derive.Deriver, batchSize int, delimiter rune, logger *slog.Logger) *BatchLoader {
	return &BatchLoader{
		sink:      sink,
		deriver:   deriver,
		batchSize: batchSize,
		delimiter: delimiter,
		logger:    logger,
	}
}

// LoadPartition opens one partition file and loads it. Failure to open or
// read the file is fatal; everything row-level is absorbed into the counters.
func (l *BatchLoader) LoadPartition(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open partition %s: %w", path, err)
	}
	defer f.Close()

	return l.Load(ctx, filepath.Base(path), f)
}

// Load consumes one partition stream. The first row must be the header
// written by the partition stage; its column positions drive all field
// lookups so partitions remain self-describing.
func (l *BatchLoader) Load(ctx context.Context, name string, r io.Reader) (*Result, error) {
	start := time.Now()
	logger := l.logger.With("partition", name)

	reader := csv.NewReader(r)
	reader.Comma = l.delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("partition %s is empty", name)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", name, err)
	}

	columns, err := headerIndex(header)
	if err != nil {
		return nil, fmt.Errorf("partition %s: %w", name, err)
	}

	res := &Result{Partition: name}
	batch := make([]MediaRecord, 0, l.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := l.sink.SubmitBatch(ctx, batch); err != nil {
			// The batch was rejected as a whole. Its rows are lost, the
			// run continues with the next batch.
			res.BatchFailures++
			res.FailedRows += int64(len(batch))
			logger.Error("batch rejected", "rows", len(batch), "error", err)
		} else {
			res.Imported += int64(len(batch))
			logger.Debug("batch committed", "rows", len(batch), "imported", res.Imported)
		}
		batch = batch[:0]
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s at row %d: %w", name, res.RowsRead+1, err)
		}

		res.RowsRead++

		if res.RowsRead%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("load cancelled at row %d: %w", res.RowsRead, err)
			}
		}

		outcome := BuildRecord(row, columns, l.deriver)
		if outcome.Skipped {
			res.Skipped++
			logger.Debug("row skipped", "row", res.RowsRead, "reason", outcome.Reason)
			continue
		}

		batch = append(batch, *outcome.Record)
		if len(batch) >= l.batchSize {
			flush()
		}
	}

	flush()

	res.Elapsed = time.Since(start)
	logger.Info("partition loaded",
		"rows", res.RowsRead,
		"imported", res.Imported,
		"skipped", res.Skipped,
		"batch_failures", res.BatchFailures,
		"elapsed", res.Elapsed.Round(time.Millisecond).String(),
	)
	return res, nil
}

// headerIndex maps partition column names to positions and verifies every
// column the record builder reads is present.
func headerIndex(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	required := []string{
		schema.ColVideoURL, schema.ColTitle, schema.ColDuration,
		schema.ColThumbnailURL, schema.ColTags, schema.ColActors,
		schema.ColViews, schema.ColCategory, schema.ColQuality,
		schema.ColUploader, schema.ColPublishDate, schema.ColThumbnail2,
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("header missing column %q", name)
		}
	}
	return columns, nil
}
