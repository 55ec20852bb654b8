// Package progress implements the periodic throughput reporting both stages
// share: every N processed rows a structured log line carries the cumulative
// count, percent of the estimated total, elapsed wall time, and rows/second.
package progress

import (
	"log/slog"
	"time"
)

// Tracker accumulates wall-clock state for one stage run. The estimated total
// feeds only the percentage display; correctness never depends on it.
type Tracker struct {
	logger   *slog.Logger
	label    string
	total    int64
	interval int64
	start    time.Time

	// now is swapped out by tests to make elapsed time deterministic.
	now func() time.Time
}

// NewTracker starts a tracker. total may be 0 when the input size is unknown;
// interval must be positive.
func NewTracker(logger *slog.Logger, label string, total, interval int64) *Tracker {
	t := &Tracker{
		logger:   logger,
		label:    label,
		total:    total,
		interval: interval,
		now:      time.Now,
	}
	t.start = t.now()
	return t
}

// Observe reports progress if processed has crossed a reporting interval.
// Call it once per processed row with the cumulative count.
func (t *Tracker) Observe(processed int64) {
	if processed == 0 || processed%t.interval != 0 {
		return
	}

	attrs := []any{
		"processed", processed,
		"elapsed", t.Elapsed().Round(time.Millisecond).String(),
		"rows_per_sec", int64(t.Rate(processed)),
	}
	if t.total > 0 {
		attrs = append(attrs, "total", t.total, "percent", percentOf(processed, t.total))
	}
	t.logger.Info(t.label, attrs...)
}

// Elapsed returns wall time since the tracker started.
func (t *Tracker) Elapsed() time.Duration {
	return t.now().Sub(t.start)
}

// Rate returns cumulative rows per second since start.
func (t *Tracker) Rate(processed int64) float64 {
	secs := t.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(processed) / secs
}

func percentOf(n, total int64) float64 {
	return float64(n) / float64(total) * 100
}
