// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package source implements immutable source buffers and the translation
// between byte offsets and line/column positions within them.
//
// A Position and a byte offset are two spellings of the same point in a
// particular buffer, and Offset and Position are exact inverses for every
// point the buffer can address:
//
//	off, err := buf.Offset(source.Position{Line: 3, Column: 7})
//	pos, err := buf.Position(off) // == {3, 7}
package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
)

// ErrPositionOutOfRange is reported for a line/column position or offset
// that does not address a point within a buffer.
var ErrPositionOutOfRange = errors.New("position out of range")

// A Position is a line and column within a buffer. Both are 1-based, and the
// column is counted in bytes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Before reports whether p precedes q.
func (p Position) Before(q Position) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Column < q.Column)
}

// A Buffer is an immutable sequence of bytes with a stable identifier.
type Buffer struct {
	id    string
	data  []byte
	lines []int // offsets of the first byte of each line
}

// New constructs a Buffer with the given id over data. The buffer takes
// ownership of data, which the caller must not modify afterward.
func New(id string, data []byte) *Buffer {
	lines := []int{0}
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &Buffer{id: id, data: data, lines: lines}
}

// Load reads the contents of the named file into a Buffer whose id is the
// path.
func Load(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(path, data), nil
}

// ID returns the identifier of b.
func (b *Buffer) ID() string { return b.id }

// Bytes returns the contents of b. The caller must not modify the result.
func (b *Buffer) Bytes() []byte { return b.data }

// Len reports the length of b in bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Lines reports the number of lines in b. A buffer with n line breaks has
// n+1 lines, the last of which may be empty.
func (b *Buffer) Lines() int { return len(b.lines) }

// Equal reports whether b and c have identical contents.
func (b *Buffer) Equal(c *Buffer) bool { return bytes.Equal(b.data, c.data) }

// Offset returns the byte offset of p in b. The columns of a line range from
// 1 up to one past its last byte (excluding the line break), so the end of
// every line is addressable. It reports ErrPositionOutOfRange if p does not
// address a point in b.
func (b *Buffer) Offset(p Position) (int, error) {
	if p.Line < 1 || p.Line > len(b.lines) {
		return 0, b.rangeErrorf("line %d of %d", p.Line, len(b.lines))
	}
	start, end := b.lineBounds(p.Line)
	if p.Column < 1 || p.Column > end-start+1 {
		return 0, b.rangeErrorf("column %d of line %d (length %d)", p.Column, p.Line, end-start)
	}
	return start + p.Column - 1, nil
}

// Position returns the line/column position of offset in b. Offsets from 0
// to b.Len() inclusive are valid; it reports ErrPositionOutOfRange otherwise.
func (b *Buffer) Position(offset int) (Position, error) {
	if offset < 0 || offset > len(b.data) {
		return Position{}, b.rangeErrorf("offset %d of %d", offset, len(b.data))
	}
	i := sort.Search(len(b.lines), func(i int) bool { return b.lines[i] > offset }) - 1
	return Position{Line: i + 1, Column: offset - b.lines[i] + 1}, nil
}

// Slice returns the contents of b in the half-open range [start, end).
// It panics if the range is not within b.
func (b *Buffer) Slice(start, end int) []byte { return b.data[start:end:end] }

// lineBounds returns the offset of the first byte of the given 1-based line,
// and the offset of its line break or the end of input.
func (b *Buffer) lineBounds(line int) (start, end int) {
	start = b.lines[line-1]
	if line < len(b.lines) {
		return start, b.lines[line] - 1
	}
	return start, len(b.data)
}

func (b *Buffer) rangeErrorf(msg string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", b.id, fmt.Sprintf(msg, args...), ErrPositionOutOfRange)
}
