// Package partition implements the first pipeline stage: streaming an
// unbounded delimited dump into numbered, row-capped partition files.
package partition

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/cyberspyde/multi-frame-streaming/internal/progress"
)

// Result summarizes one partitioning run.
type Result struct {
	RowsProcessed int64
	RowsWritten   int64
	Malformed     int64
	Partitions    int
	Elapsed       time.Duration
}

// StreamPartitioner drives the sanitizer and writer over the whole input
// stream. All counters live here for the duration of one Run call; the type
// holds no cross-run state.
type StreamPartitioner struct {
	sanitizer *RowSanitizer
	writer    *PartitionWriter
	tracker   *progress.Tracker

	delimiter        rune
	rowsPerPartition int
}

// NewStreamPartitioner assembles the stage. rowsPerPartition is the hard cap
// on records per partition file.
func NewStreamPartitioner(sanitizer *RowSanitizer, writer *PartitionWriter, tracker *progress.Tracker, delimiter rune, rowsPerPartition int) *StreamPartitioner {
	return &StreamPartitioner{
		sanitizer:        sanitizer,
		writer:           writer,
		tracker:          tracker,
		delimiter:        delimiter,
		rowsPerPartition: rowsPerPartition,
	}
}

// Run consumes the source stream until EOF, writing cleaned records into
// size-capped partitions. Read and write failures are fatal and abort the
// run after the open partition is released; a row with too few fields is the
// only non-fatal failure and is dropped.
func (p *StreamPartitioner) Run(source io.Reader) (*Result, error) {
	start := time.Now()

	reader := csv.NewReader(WrapSource(source))
	reader.Comma = p.delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if err := p.writer.Open(1); err != nil {
		return nil, err
	}
	// Releases the partition on the fatal-error path; the success path has
	// already closed it by then.
	defer p.writer.Close()

	res := &Result{}

	for {
		raw, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read source at row %d: %w", res.RowsProcessed+1, err)
		}

		res.RowsProcessed++

		// Rotation happens before the write attempt so a partition can
		// never exceed its cap.
		if p.writer.Rows() >= p.rowsPerPartition {
			if err := p.writer.Rotate(); err != nil {
				return nil, err
			}
		}

		if cleaned, ok := p.sanitizer.Clean(raw); ok {
			if err := p.writer.Write(cleaned); err != nil {
				return nil, err
			}
			res.RowsWritten++
		} else {
			res.Malformed++
		}

		p.tracker.Observe(res.RowsProcessed)
	}

	res.Partitions = p.writer.Index()
	if err := p.writer.Close(); err != nil {
		return nil, err
	}

	res.Elapsed = time.Since(start)
	return res, nil
}
