package progress

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestTracker(buf *bytes.Buffer, total, interval int64) *Tracker {
	logger := slog.New(slog.NewTextHandler(buf, nil))
	t := NewTracker(logger, "progress", total, interval)

	// Freeze time 10s after start so rates are deterministic.
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t.start = start
	t.now = func() time.Time { return start.Add(10 * time.Second) }
	return t
}

func TestObserve_ReportsOnInterval(t *testing.T) {
	var buf bytes.Buffer
	tr := newTestTracker(&buf, 1000, 100)

	for i := int64(1); i <= 250; i++ {
		tr.Observe(i)
	}

	lines := strings.Count(buf.String(), "\n")
	if lines != 2 {
		t.Fatalf("got %d report lines, want 2 (at 100 and 200)\n%s", lines, buf.String())
	}
	if !strings.Contains(buf.String(), "processed=100") {
		t.Errorf("missing processed=100 report:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "percent=10") {
		t.Errorf("missing percent in report:\n%s", buf.String())
	}
}

func TestObserve_ZeroNeverReports(t *testing.T) {
	var buf bytes.Buffer
	tr := newTestTracker(&buf, 1000, 100)

	tr.Observe(0)
	if buf.Len() != 0 {
		t.Errorf("Observe(0) should not report, got: %s", buf.String())
	}
}

func TestObserve_UnknownTotalOmitsPercent(t *testing.T) {
	var buf bytes.Buffer
	tr := newTestTracker(&buf, 0, 50)

	tr.Observe(50)
	out := buf.String()
	if strings.Contains(out, "percent") {
		t.Errorf("report should omit percent when total unknown: %s", out)
	}
	if !strings.Contains(out, "processed=50") {
		t.Errorf("missing processed count: %s", out)
	}
}

func TestRate(t *testing.T) {
	var buf bytes.Buffer
	tr := newTestTracker(&buf, 0, 1)

	// 500 rows over the frozen 10 seconds
	if got := tr.Rate(500); got != 50 {
		t.Errorf("Rate(500) = %v, want 50", got)
	}
}
