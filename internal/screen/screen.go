// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package screen is a small terminal line buffer. It understands the control
// characters a CV session writes (\r, \n, \b), wraps at a fixed width and
// keeps a bounded scrollback.
package screen

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultScrollback is the number of lines kept when none is configured.
const DefaultScrollback = 2000

// Buffer implements session.Surface for hosts that render the text
// themselves. The zero value is not usable; call New.
type Buffer struct {
	lines      [][]rune
	row, col   int // col counts cells, not runes
	width      int
	scrollback int
}

// New returns a buffer that wraps at width cells. A width of 0 disables wrapping.
func New(width, scrollback int) *Buffer {
	if scrollback <= 0 {
		scrollback = DefaultScrollback
	}
	return &Buffer{
		lines:      [][]rune{nil},
		width:      width,
		scrollback: scrollback,
	}
}

// Resize changes the wrap width for text written from now on.
func (b *Buffer) Resize(width int) {
	if width < 0 {
		width = 0
	}
	b.width = width
}

func (b *Buffer) Write(text string) {
	for _, r := range text {
		b.put(r)
	}
}

func (b *Buffer) WriteLine(text string) {
	b.Write(text + "\r\n")
}

func (b *Buffer) put(r rune) {
	switch r {
	case '\r':
		b.col = 0
	case '\n':
		b.lineFeed()
	case '\b':
		if b.col > 0 {
			b.col--
		}
	default:
		w := runewidth.RuneWidth(r)
		if w == 0 {
			return
		}
		if b.width > 0 && b.col+w > b.width {
			b.col = 0
			b.lineFeed()
		}
		b.setCell(r, w)
		b.col += w
	}
}

func (b *Buffer) lineFeed() {
	b.row++
	if b.row == len(b.lines) {
		b.lines = append(b.lines, nil)
	}
	if over := len(b.lines) - b.scrollback; over > 0 {
		b.lines = b.lines[over:]
		b.row -= over
	}
}

// setCell writes r at the cursor. Lines hold one rune per cell; a wide rune
// is followed by a zero placeholder cell.
func (b *Buffer) setCell(r rune, w int) {
	line := b.lines[b.row]
	for len(line) < b.col+w {
		line = append(line, ' ')
	}
	line[b.col] = r
	for i := 1; i < w; i++ {
		line[b.col+i] = 0
	}
	b.lines[b.row] = line
}

// Lines returns the buffer content, one string per line, trailing blanks kept.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, line := range b.lines {
		out[i] = cellsToString(line)
	}
	return out
}

// String is the whole buffer joined with newlines.
func (b *Buffer) String() string {
	return strings.Join(b.Lines(), "\n")
}

// Cursor returns the cursor row (index into Lines) and cell column.
func (b *Buffer) Cursor() (row, col int) {
	return b.row, b.col
}

// SplitAtCursor splits the cursor line into the text before the cursor, the
// cell under it (empty when past the end) and the rest.
func (b *Buffer) SplitAtCursor() (before, at, after string) {
	line := b.lines[b.row]
	if b.col >= len(line) {
		return cellsToString(line), "", ""
	}
	end := b.col + 1
	for end < len(line) && line[end] == 0 {
		end++
	}
	return cellsToString(line[:b.col]), cellsToString(line[b.col:end]), cellsToString(line[end:])
}

func cellsToString(cells []rune) string {
	var sb strings.Builder
	for _, r := range cells {
		if r != 0 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
