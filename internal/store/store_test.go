package store

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/cyberspyde/multi-frame-streaming/internal/loader"
)

func TestVideoRow_Order(t *testing.T) {
	rec := loader.MediaRecord{
		Title:        "T",
		SourceURL:    "https://site/video.a",
		ThumbnailURL: "https://t/a.jpg",
		Duration:     pgtype.Int4{Int32: 90, Valid: true},
		Category:     "music",
		Embed:        pgtype.Text{String: "<iframe></iframe>", Valid: true},
		Tags:         "a,b",
		Performers:   "x",
		Quality:      "720p",
		Uploader:     "up",
		PublishDate:  "2024-01-01",
		Views:        7,
	}

	row := videoRow(rec)
	if len(row) != len(videoColumns) {
		t.Fatalf("row width = %d, want %d", len(row), len(videoColumns))
	}

	if row[0] != "T" {
		t.Errorf("row[0] = %v, want title", row[0])
	}
	if row[1] != "https://site/video.a" {
		t.Errorf("row[1] = %v, want source url", row[1])
	}
	if row[5] != rec.Embed {
		t.Errorf("row[5] = %v, want iframe markup", row[5])
	}
	if row[11] != int32(7) {
		t.Errorf("row[11] = %v, want views", row[11])
	}
}

func TestVideoRow_AbsentDerivationsStayNull(t *testing.T) {
	rec := loader.MediaRecord{
		Title:        "T",
		SourceURL:    "u",
		ThumbnailURL: "th",
	}

	row := videoRow(rec)
	dur, ok := row[3].(pgtype.Int4)
	if !ok || dur.Valid {
		t.Errorf("row[3] = %v, want invalid Int4 (NULL duration)", row[3])
	}
	embed, ok := row[5].(pgtype.Text)
	if !ok || embed.Valid {
		t.Errorf("row[5] = %v, want invalid Text (NULL iframe)", row[5])
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"videos", `"videos"`},
		{`odd"name`, `"odd""name"`},
	}
	for _, tt := range tests {
		if got := quoteIdentifier(tt.in); got != tt.want {
			t.Errorf("quoteIdentifier(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
