package loader

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/cyberspyde/multi-frame-streaming/internal/derive"
	"github.com/cyberspyde/multi-frame-streaming/internal/schema"
)

// MediaRecord is the fully derived, validated entity ready for persistence.
// Duration and Embed are pgtype values so an absent derivation lands in the
// store as NULL rather than a sentinel.
type MediaRecord struct {
	Title        string
	SourceURL    string
	ThumbnailURL string
	Duration     pgtype.Int4
	Category     string
	Embed        pgtype.Text
	Tags         string
	Performers   string
	Quality      string
	Uploader     string
	PublishDate  string
	Views        int32
}

// RowOutcome is the tagged result of processing one cleaned record: either an
// accepted MediaRecord or a skip with an inspectable reason. Row-level
// problems are values, never errors, so one bad row cannot abort a partition.
type RowOutcome struct {
	Record  *MediaRecord
	Skipped bool
	Reason  string
}

func accepted(rec MediaRecord) RowOutcome {
	return RowOutcome{Record: &rec}
}

func skipped(reason string) RowOutcome {
	return RowOutcome{Skipped: true, Reason: reason}
}

// rowView gives name-based access to one partition row through the header
// index computed once per file. Positions beyond the row's width read as "".
type rowView struct {
	row     []string
	columns map[string]int
}

func (v rowView) get(name string) string {
	pos, ok := v.columns[name]
	if !ok || pos < 0 || pos >= len(v.row) {
		return ""
	}
	return v.row[pos]
}

// BuildRecord derives and validates one cleaned record. The validation gate
// is exactly: non-empty title, non-empty source URL, and a usable thumbnail
// (secondary preferred, primary as fallback). Everything else is best-effort
// derivation that degrades to NULL or zero.
func BuildRecord(row []string, columns map[string]int, d derive.Deriver) RowOutcome {
	v := rowView{row: row, columns: columns}
	title := v.get(schema.ColTitle)
	url := v.get(schema.ColVideoURL)
	if title == "" || url == "" {
		return skipped("missing title or source url")
	}

	thumbnail := v.get(schema.ColThumbnail2)
	if thumbnail == "" {
		thumbnail = v.get(schema.ColThumbnailURL)
	}
	if thumbnail == "" {
		return skipped("no usable thumbnail")
	}

	rec := MediaRecord{
		Title:        title,
		SourceURL:    url,
		ThumbnailURL: thumbnail,
		Category:     v.get(schema.ColCategory),
		Tags:         v.get(schema.ColTags),
		Performers:   v.get(schema.ColActors),
		Quality:      v.get(schema.ColQuality),
		Uploader:     v.get(schema.ColUploader),
		PublishDate:  v.get(schema.ColPublishDate),
		Views:        int32(d.ParseViews(v.get(schema.ColViews))),
	}

	if seconds, ok := d.ParseDuration(v.get(schema.ColDuration)); ok {
		rec.Duration = pgtype.Int4{Int32: int32(seconds), Valid: true}
	}

	if id, ok := d.ExtractIdentifier(url); ok {
		if markup, ok := d.SynthesizeMarkup(id); ok {
			rec.Embed = pgtype.Text{String: markup, Valid: true}
		}
	}

	return accepted(rec)
}
