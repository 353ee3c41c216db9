// Package source provides the immutable text buffer compilation runs
// against, along with byte-offset to line/column mapping for
// diagnostics.
package source

import "fmt"

// Location identifies a single point in a source file.
type Location struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Buffer is an immutable view of a compiled file's contents. It owns
// the byte-offset to line/column table used to turn lexer/parser
// positions into diagnostics.
type Buffer struct {
	name string
	text string

	// lineStarts[i] is the byte offset of the first byte of line i+1
	// (lines are 1-indexed).
	lineStarts []int
}

// New builds a Buffer over text, precomputing the line table.
func New(name, text string) *Buffer {
	b := &Buffer{name: name, text: text, lineStarts: []int{0}}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
	return b
}

// Name is the file name this buffer was built from.
func (b *Buffer) Name() string { return b.name }

// Text is the full source text.
func (b *Buffer) Text() string { return b.text }

// Byte returns the byte at offset, or 0 past the end.
func (b *Buffer) Byte(offset int) byte {
	if offset < 0 || offset >= len(b.text) {
		return 0
	}
	return b.text[offset]
}

// Slice returns text[start:end], clamped to the buffer's bounds.
func (b *Buffer) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(b.text) {
		end = len(b.text)
	}
	if start > end {
		return ""
	}
	return b.text[start:end]
}

// Len is the length of the source text in bytes.
func (b *Buffer) Len() int { return len(b.text) }

// Location converts a byte offset into a line/column Location.
func (b *Buffer) Location(offset int) Location {
	line := search(b.lineStarts, offset)
	col := offset - b.lineStarts[line-1] + 1
	return Location{File: b.name, Offset: offset, Line: line, Column: col}
}

// search returns the 1-indexed line number whose start is the
// greatest lineStarts entry <= offset.
func search(lineStarts []int, offset int) int {
	lo, hi := 0, len(lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}
