package partition

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/cyberspyde/multi-frame-streaming/internal/progress"
	"github.com/cyberspyde/multi-frame-streaming/internal/schema"
)

var testColumns = schema.ColumnSchema{
	{Index: 0, Name: "url"},
	{Index: 1, Name: "title"},
}

func newTestPartitioner(t *testing.T, dir string, rowsPerPartition int) *StreamPartitioner {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStreamPartitioner(
		NewRowSanitizer(testColumns),
		NewPartitionWriter(dir, "part", ';', testColumns.Header()),
		progress.NewTracker(logger, "progress", 0, 1000000),
		';',
		rowsPerPartition,
	)
}

func sourceOf(rows int) string {
	var b strings.Builder
	for i := 1; i <= rows; i++ {
		fmt.Fprintf(&b, "https://site/video.v%d;Title %d\n", i, i)
	}
	return b.String()
}

func countDataRows(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	lines := strings.Count(string(data), "\n")
	return lines - 1 // header
}

func TestRun_SplitsAtCap(t *testing.T) {
	dir := t.TempDir()
	p := newTestPartitioner(t, dir, 1000)

	// 2500 rows with cap 1000 must yield exactly [1000, 1000, 500].
	res, err := p.Run(strings.NewReader(sourceOf(2500)))
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}

	if res.Partitions != 3 {
		t.Fatalf("Partitions = %d, want 3", res.Partitions)
	}
	if res.RowsProcessed != 2500 || res.RowsWritten != 2500 || res.Malformed != 0 {
		t.Errorf("counts = %+v, want 2500 processed/written, 0 malformed", res)
	}

	for i, want := range []int{1000, 1000, 500} {
		got := countDataRows(t, Path(dir, "part", i+1))
		if got != want {
			t.Errorf("partition %d rows = %d, want %d", i+1, got, want)
		}
	}

	if _, err := os.Stat(Path(dir, "part", 4)); !os.IsNotExist(err) {
		t.Error("a 4th partition must not exist")
	}
}

func TestRun_MalformedRowsShrinkPartitionsOnly(t *testing.T) {
	dir := t.TempDir()
	p := newTestPartitioner(t, dir, 4)

	// 10 rows, 3 of them single-field (malformed). Cap 4: written rows are 7,
	// so partitions must be [4, 3] regardless of where the bad rows fell.
	input := strings.Join([]string{
		"u1;t1", "bad", "u2;t2", "u3;t3", "bad", "u4;t4",
		"u5;t5", "u6;t6", "bad", "u7;t7",
	}, "\n") + "\n"

	res, err := p.Run(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}

	if res.RowsProcessed != 10 || res.RowsWritten != 7 || res.Malformed != 3 {
		t.Fatalf("counts = %+v, want 10/7/3", res)
	}
	if res.Partitions != 2 {
		t.Fatalf("Partitions = %d, want 2", res.Partitions)
	}

	// sum(partition rows) + malformed == rows processed
	total := countDataRows(t, Path(dir, "part", 1)) + countDataRows(t, Path(dir, "part", 2))
	if int64(total)+res.Malformed != res.RowsProcessed {
		t.Errorf("partition rows (%d) + malformed (%d) != processed (%d)", total, res.Malformed, res.RowsProcessed)
	}
}

func TestRun_CapNeverExceeded(t *testing.T) {
	dir := t.TempDir()
	const rowCap = 7
	p := newTestPartitioner(t, dir, rowCap)

	res, err := p.Run(strings.NewReader(sourceOf(53)))
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}

	for i := 1; i <= res.Partitions; i++ {
		if got := countDataRows(t, Path(dir, "part", i)); got > rowCap {
			t.Errorf("partition %d holds %d rows, cap is %d", i, got, rowCap)
		}
	}

	// Every partition except the last must be exactly full.
	for i := 1; i < res.Partitions; i++ {
		if got := countDataRows(t, Path(dir, "part", i)); got != rowCap {
			t.Errorf("partition %d holds %d rows, want %d", i, got, rowCap)
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	input := sourceOf(25)

	read := func() map[string][]byte {
		dir := t.TempDir()
		p := newTestPartitioner(t, dir, 10)
		res, err := p.Run(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		out := make(map[string][]byte)
		for i := 1; i <= res.Partitions; i++ {
			data, err := os.ReadFile(Path(dir, "part", i))
			if err != nil {
				t.Fatalf("read partition %d: %v", i, err)
			}
			out[fmt.Sprintf("part_%d", i)] = data
		}
		return out
	}

	first := read()
	second := read()

	if len(first) != len(second) {
		t.Fatalf("partition counts differ: %d vs %d", len(first), len(second))
	}
	for name, data := range first {
		if !bytes.Equal(data, second[name]) {
			t.Errorf("partition %s differs between runs", name)
		}
	}
}

func TestRun_EmptySource(t *testing.T) {
	dir := t.TempDir()
	p := newTestPartitioner(t, dir, 10)

	res, err := p.Run(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if res.RowsProcessed != 0 || res.Partitions != 1 {
		t.Errorf("empty source: %+v, want 0 rows and the initial partition", res)
	}

	// The sole partition holds just the header.
	if got := countDataRows(t, Path(dir, "part", 1)); got != 0 {
		t.Errorf("partition 1 rows = %d, want 0", got)
	}
}

func TestRun_SourceToleranceApplied(t *testing.T) {
	dir := t.TempDir()
	p := newTestPartitioner(t, dir, 10)

	// BOM plus an undecodable byte inside the title.
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("u1;ti\x80le\n")...)
	res, err := p.Run(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if res.RowsWritten != 1 {
		t.Fatalf("RowsWritten = %d, want 1", res.RowsWritten)
	}

	data, err := os.ReadFile(Path(dir, "part", 1))
	if err != nil {
		t.Fatalf("read partition: %v", err)
	}
	if !strings.Contains(string(data), "ti?le") {
		t.Errorf("expected repaired title in partition, got %q", string(data))
	}
	if strings.Contains(string(data), "\uFEFF") {
		t.Error("BOM leaked into partition output")
	}
}
