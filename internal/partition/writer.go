package partition

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// PartitionWriter owns the currently open partition file. Every partition
// starts with the schema header row; the file name is derived from the
// configured prefix and the 1-based partition index.
type PartitionWriter struct {
	dir       string
	prefix    string
	delimiter rune
	header    []string

	file  *os.File
	w     *csv.Writer
	index int
	rows  int
}

// NewPartitionWriter prepares a writer; no file is created until Open.
func NewPartitionWriter(dir, prefix string, delimiter rune, header []string) *PartitionWriter {
	return &PartitionWriter{
		dir:       dir,
		prefix:    prefix,
		delimiter: delimiter,
		header:    header,
	}
}

// Path returns the file name a partition index maps to.
func Path(dir, prefix string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%d.csv", prefix, index))
}

// Open creates the partition file for index and writes the header row.
// Failure to create or write is fatal to the run; no retry happens here.
func (pw *PartitionWriter) Open(index int) error {
	if pw.file != nil {
		return fmt.Errorf("partition %d still open", pw.index)
	}

	path := Path(pw.dir, pw.prefix, index)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create partition %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	w.Comma = pw.delimiter

	if err := w.Write(pw.header); err != nil {
		f.Close()
		return fmt.Errorf("write header to %s: %w", path, err)
	}

	pw.file = f
	pw.w = w
	pw.index = index
	pw.rows = 0
	return nil
}

// Write appends one cleaned record to the current partition.
func (pw *PartitionWriter) Write(record []string) error {
	if pw.file == nil {
		return fmt.Errorf("no partition open")
	}
	if err := pw.w.Write(record); err != nil {
		return fmt.Errorf("write row to partition %d: %w", pw.index, err)
	}
	pw.rows++
	return nil
}

// Rotate closes the current partition and opens the next one.
func (pw *PartitionWriter) Rotate() error {
	next := pw.index + 1
	if err := pw.Close(); err != nil {
		return err
	}
	return pw.Open(next)
}

// Close flushes and releases the current partition file. Safe to call when
// nothing is open.
func (pw *PartitionWriter) Close() error {
	if pw.file == nil {
		return nil
	}

	pw.w.Flush()
	flushErr := pw.w.Error()
	closeErr := pw.file.Close()
	pw.file = nil
	pw.w = nil

	if flushErr != nil {
		return fmt.Errorf("flush partition %d: %w", pw.index, flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close partition %d: %w", pw.index, closeErr)
	}
	return nil
}

// Index returns the index of the current (or last opened) partition.
func (pw *PartitionWriter) Index() int { return pw.index }

// Rows returns how many records the current partition holds, excluding the
// header row.
func (pw *PartitionWriter) Rows() int { return pw.rows }
