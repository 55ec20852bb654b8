package partition

import (
	"bytes"
	"io"
	"testing"
)

func TestBOMSkipReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "input with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("url;title")...),
			expected: "url;title",
		},
		{
			name:     "input without BOM",
			input:    []byte("url;title"),
			expected: "url;title",
		},
		{
			name:     "empty input",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "partial BOM preserved",
			input:    []byte{0xEF, 0xBB, 'a'},
			expected: string([]byte{0xEF, 0xBB, 'a'}),
		},
		{
			name:     "shorter than BOM",
			input:    []byte{'x'},
			expected: "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(NewBOMSkipReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", string(got), tt.expected)
			}
		})
	}
}

func TestUTF8RepairReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "valid ASCII",
			input:    []byte("url;title"),
			expected: "url;title",
		},
		{
			name:     "valid multibyte",
			input:    []byte("titée"),
			expected: "titée",
		},
		{
			name:     "invalid byte replaced",
			input:    []byte{'h', 'e', 0x80, 'l', 'o'},
			expected: "he?lo",
		},
		{
			name:     "truncated rune at EOF replaced",
			input:    []byte{'a', 0xC3},
			expected: "a?",
		},
		{
			name:     "empty input",
			input:    []byte{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(NewUTF8RepairReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", string(got), tt.expected)
			}
		})
	}
}

// oneByteReader forces runes to be split across Read calls.
type oneByteReader struct{ data []byte }

func (r *oneByteReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	p[0] = r.data[0]
	r.data = r.data[1:]
	return 1, nil
}

func TestUTF8RepairReader_RuneSplitAcrossReads(t *testing.T) {
	input := []byte("aéb") // 0xC3 0xA9 arrives one byte at a time
	got, err := io.ReadAll(NewUTF8RepairReader(&oneByteReader{data: input}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "aéb" {
		t.Errorf("got %q, want %q", string(got), "aéb")
	}
}

func TestWrapSource(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte{'h', 'e', 0x80, 'l', 'o'}...)
	got, err := io.ReadAll(WrapSource(bytes.NewReader(input)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "he?lo" {
		t.Errorf("got %q, want %q", string(got), "he?lo")
	}
}
