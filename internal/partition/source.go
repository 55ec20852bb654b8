package partition

// source.go wraps the raw dump with the tolerance the rest of the stage
// relies on: a UTF-8 BOM is skipped if present and undecodable byte
// sequences are replaced with '?' on the fly, so downstream parsing only
// ever sees valid text. Both wrappers work in constant memory.

import (
	"io"
	"unicode/utf8"
)

// utf8RepairReader replaces invalid UTF-8 bytes from the underlying reader
// with '?'. A one-byte replacement keeps the output no longer than the input,
// which lets the repair happen in place in the caller's buffer.
type utf8RepairReader struct {
	r io.Reader

	// tail holds bytes that may be the start of a multi-byte rune split
	// across two reads.
	tail []byte
}

// NewUTF8RepairReader wraps r so every read returns valid UTF-8.
func NewUTF8RepairReader(r io.Reader) io.Reader {
	return &utf8RepairReader{r: r, tail: make([]byte, 0, utf8.UTFMax)}
}

func (u *utf8RepairReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	off := copy(p, u.tail)
	u.tail = u.tail[:0]

	n, err := u.r.Read(p[off:])
	n += off
	if n == 0 {
		return 0, err
	}

	atEOF := err == io.EOF
	return u.repair(p[:n], atEOF), err
}

// repair rewrites data in place, replacing invalid bytes and stashing an
// incomplete trailing rune for the next read. Returns the usable length.
func (u *utf8RepairReader) repair(data []byte, atEOF bool) int {
	write := 0
	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			rest := data[read:]
			if !atEOF && runeStartLen(rest[0]) > len(rest) {
				// Possibly a rune split across reads, not garbage yet.
				u.tail = append(u.tail, rest...)
				return write
			}
			data[write] = '?'
			write++
			read++
			continue
		}
		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write
}

// runeStartLen returns the sequence length implied by a leading byte,
// or 1 for bytes that can never start a multi-byte rune.
func runeStartLen(b byte) int {
	switch {
	case b < 0xC0:
		return 1
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// bomSkipReader drops a leading UTF-8 BOM (0xEF 0xBB 0xBF), commonly added
// by Windows tooling, and passes everything else through untouched.
type bomSkipReader struct {
	r       io.Reader
	checked bool
	held    []byte
}

// NewBOMSkipReader wraps r so a leading BOM never reaches the consumer.
func NewBOMSkipReader(r io.Reader) io.Reader {
	return &bomSkipReader{r: r}
}

func (b *bomSkipReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true

		var head [3]byte
		n, err := io.ReadFull(b.r, head[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if n > 0 && !(n == 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF) {
			b.held = append(b.held, head[:n]...)
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
	}

	if len(b.held) > 0 {
		n := copy(p, b.held)
		b.held = b.held[n:]
		return n, nil
	}

	return b.r.Read(p)
}

// WrapSource applies the source-boundary tolerance stack in order: BOM
// skipping first, then UTF-8 repair.
func WrapSource(r io.Reader) io.Reader {
	return NewUTF8RepairReader(NewBOMSkipReader(r))
}
