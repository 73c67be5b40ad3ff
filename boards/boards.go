// Package boards ships the starting patterns that can be selected by name.
package boards

import (
	"embed"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const ext = ".txt"

//go:embed presets/*.txt
var presets embed.FS

// ErrUnknownBoard is returned when no preset has the requested name
var ErrUnknownBoard = errors.New("unknown board")

// Names lists the available presets in sorted order
func Names() []string {
	entries, err := fs.ReadDir(presets, "presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names
}

// Open returns the board definition for name
func Open(name string) (io.ReadCloser, error) {
	f, err := presets.Open(path.Join("presets", name+ext))
	if err != nil {
		return nil, errors.Wrapf(ErrUnknownBoard, "[Open] %q", name)
	}
	return f, nil
}
