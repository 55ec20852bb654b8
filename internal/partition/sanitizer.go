package partition

import (
	"strings"

	"github.com/cyberspyde/multi-frame-streaming/internal/schema"
)

// RowSanitizer selects and trims the schema's columns out of raw input rows.
// It is the only row-level gate in the partition stage: a row either becomes
// a cleaned record or is dropped as malformed, never an error.
type RowSanitizer struct {
	columns   schema.ColumnSchema
	minFields int
}

// NewRowSanitizer builds a sanitizer for the given column schema.
func NewRowSanitizer(columns schema.ColumnSchema) *RowSanitizer {
	return &RowSanitizer{
		columns:   columns,
		minFields: columns.MinFields(),
	}
}

// Clean returns the cleaned record for a raw row, or ok=false when the row
// carries fewer fields than the schema's highest index requires.
// Each retained value is whitespace-trimmed; no other validation happens here.
func (s *RowSanitizer) Clean(raw []string) ([]string, bool) {
	if len(raw) < s.minFields {
		return nil, false
	}

	cleaned := make([]string, len(s.columns))
	for i, col := range s.columns {
		cleaned[i] = strings.TrimSpace(raw[col.Index])
	}
	return cleaned, true
}
