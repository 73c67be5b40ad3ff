package model

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	ansiClear      = "\x1b[2J\x1b[H"
	ansiEraseLine  = "\x1b[K"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
)

// String renders the board inside a box, two columns per cell
func (b *Board) String() string {
	var sb strings.Builder
	border := strings.Repeat("─", 2*b.width)

	sb.WriteString("┌" + border + "┐\n")
	for _, row := range b.cells {
		sb.WriteString("│")
		for _, cell := range row {
			if cell == Alive {
				sb.WriteString(gridPosBlock)
			} else {
				sb.WriteString(gridPosEmpty)
			}
		}
		sb.WriteString("│\n")
	}
	sb.WriteString("└" + border + "┘\n")
	return sb.String()
}

// SizeFunc reports the visible rows and columns of the output, ok is false when unknown
type SizeFunc func() (rows, cols int, ok bool)

// TerminalRenderer paints frames to a terminal, rewriting only the lines that changed
type TerminalRenderer struct {
	out  io.Writer
	size SizeFunc
	prev []string
}

// RendererOption configures a TerminalRenderer
type RendererOption func(*TerminalRenderer)

// WithSize overrides how the renderer learns the terminal dimensions
func WithSize(size SizeFunc) RendererOption {
	return func(r *TerminalRenderer) { r.size = size }
}

// NewTerminalRenderer returns a renderer writing to out
func NewTerminalRenderer(out io.Writer, opts ...RendererOption) *TerminalRenderer {
	r := &TerminalRenderer{
		out:  out,
		size: terminalSize(out),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Draw paints frame, skipping lines identical to the previous frame
func (r *TerminalRenderer) Draw(frame string) error {
	lines := strings.Split(strings.TrimSuffix(frame, "\n"), "\n")

	rows, cols, ok := r.size()
	if ok && rows > 0 && len(lines) > rows {
		lines = lines[:rows]
	}

	var sb strings.Builder
	for i, line := range lines {
		if ok && cols > 0 {
			line = truncate(line, cols)
		}
		if i < len(r.prev) && r.prev[i] == line {
			continue
		}
		fmt.Fprintf(&sb, "\x1b[%d;1H%s%s", i+1, line, ansiEraseLine)
	}
	if sb.Len() > 0 {
		if _, err := io.WriteString(r.out, sb.String()); err != nil {
			return errors.Wrap(err, "[Draw] failed to write frame")
		}
	}

	r.prev = lines
	return nil
}

// Clear clears the terminal screen and forgets the previous frame
func (r *TerminalRenderer) Clear() error {
	r.prev = nil
	_, err := io.WriteString(r.out, ansiClear)
	return errors.Wrap(err, "[Clear] failed to clear terminal")
}

// HideCursor hides the terminal cursor while frames are painted
func (r *TerminalRenderer) HideCursor() error {
	_, err := io.WriteString(r.out, ansiHideCursor)
	return errors.Wrap(err, "[HideCursor] failed to write")
}

// ShowCursor restores the terminal cursor
func (r *TerminalRenderer) ShowCursor() error {
	_, err := io.WriteString(r.out, ansiShowCursor)
	return errors.Wrap(err, "[ShowCursor] failed to write")
}

// truncate cuts line to at most cols runes
func truncate(line string, cols int) string {
	n := 0
	for i := range line {
		if n == cols {
			return line[:i]
		}
		n++
	}
	return line
}

func unknownSize() (int, int, bool) {
	return 0, 0, false
}
