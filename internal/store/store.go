// Package store is the PostgreSQL sink for the load stage. Batches commit
// through the COPY protocol, which makes each batch a single atomic unit:
// either every row of the batch lands or none do.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cyberspyde/multi-frame-streaming/internal/loader"
)

// DB is the subset of pgxpool.Pool the store uses. Narrowing the dependency
// keeps the store testable without a live pool.
type DB interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// videoColumns is the fixed insert column order of the sink contract.
var videoColumns = []string{
	"title", "source_url", "thumbnail_url", "duration", "category", "iframe",
	"tags", "performers", "quality", "uploader", "publish_date", "views",
}

// VideoStore persists media records into one destination table.
type VideoStore struct {
	db    DB
	table string
}

// NewVideoStore binds a store to its destination table.
func NewVideoStore(db DB, table string) *VideoStore {
	return &VideoStore{db: db, table: table}
}

// SubmitBatch commits one batch of records atomically via COPY.
// On error nothing from the batch was persisted.
func (s *VideoStore) SubmitBatch(ctx context.Context, records []loader.MediaRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = videoRow(rec)
	}

	n, err := s.db.CopyFrom(ctx, pgx.Identifier{s.table}, videoColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy batch into %s: %w", s.table, err)
	}
	if n != int64(len(records)) {
		return fmt.Errorf("copy into %s wrote %d of %d rows", s.table, n, len(records))
	}
	return nil
}

// videoRow lays a record out in videoColumns order.
func videoRow(rec loader.MediaRecord) []any {
	return []any{
		rec.Title,
		rec.SourceURL,
		rec.ThumbnailURL,
		rec.Duration,
		rec.Category,
		rec.Embed,
		rec.Tags,
		rec.Performers,
		rec.Quality,
		rec.Uploader,
		rec.PublishDate,
		rec.Views,
	}
}

// quoteIdentifier makes a table name safe to interpolate into reporting SQL.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CountRecords returns the total number of rows in the destination table.
func (s *VideoStore) CountRecords(ctx context.Context) (int64, error) {
	var count int64
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdentifier(s.table))
	if err := s.db.QueryRow(ctx, q).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, err)
	}
	return count, nil
}

// CategoryCount is one row of the category breakdown report.
type CategoryCount struct {
	Category string
	Count    int64
}

// CountByCategory returns the most populated categories, largest first.
// Rows with no category are excluded.
func (s *VideoStore) CountByCategory(ctx context.Context, limit int) ([]CategoryCount, error) {
	q := fmt.Sprintf(`
		SELECT category, COUNT(*) AS count
		FROM %s
		WHERE category IS NOT NULL AND category != ''
		GROUP BY category
		ORDER BY count DESC
		LIMIT $1`, quoteIdentifier(s.table))

	rows, err := s.db.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("category breakdown for %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		out = append(out, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category rows: %w", err)
	}
	return out, nil
}

// TopVideo is one row of the most-viewed report.
type TopVideo struct {
	Title    string
	Category string
	Duration *int32
	Views    int32
}

// TopByViews returns the n most viewed records.
func (s *VideoStore) TopByViews(ctx context.Context, n int) ([]TopVideo, error) {
	q := fmt.Sprintf(`
		SELECT title, COALESCE(category, ''), duration, views
		FROM %s
		ORDER BY views DESC
		LIMIT $1`, quoteIdentifier(s.table))

	rows, err := s.db.Query(ctx, q, n)
	if err != nil {
		return nil, fmt.Errorf("top by views for %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []TopVideo
	for rows.Next() {
		var tv TopVideo
		if err := rows.Scan(&tv.Title, &tv.Category, &tv.Duration, &tv.Views); err != nil {
			return nil, fmt.Errorf("scan top row: %w", err)
		}
		out = append(out, tv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top rows: %w", err)
	}
	return out, nil
}
