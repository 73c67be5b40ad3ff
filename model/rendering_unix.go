//go:build unix

package model

import (
	"io"

	"golang.org/x/sys/unix"
)

type fdWriter interface {
	Fd() uintptr
}

// terminalSize queries the window size of out when it is a terminal
func terminalSize(out io.Writer) SizeFunc {
	f, ok := out.(fdWriter)
	if !ok {
		return unknownSize
	}
	fd := int(f.Fd())
	return func() (int, int, bool) {
		ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
		if err != nil {
			return 0, 0, false
		}
		return int(ws.Row), int(ws.Col), true
	}
}
