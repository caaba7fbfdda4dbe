//go:build linux

package clipboard

import (
	"fmt"
	"os"
	"strings"

	"golang.design/x/clipboard"

	"github.com/lajidonggua/ClipBox/internal/datauri"
)

// linuxPort uses golang.design/x/clipboard, which talks to X11/Wayland
// in-process, so no shell utilities or probe files are involved.
type linuxPort struct{}

// New returns the Linux clipboard port, or ErrUnavailable when no display
// environment can be reached (headless servers, containers).
func New() (Port, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &linuxPort{}, nil
}

func (p *linuxPort) Read() (Sample, error) {
	if text := clipboard.Read(clipboard.FmtText); strings.TrimSpace(string(text)) != "" {
		return Sample{Kind: KindText, Content: string(text)}, nil
	}
	if img := clipboard.Read(clipboard.FmtImage); len(img) > 0 {
		return Sample{Kind: KindImage, Content: datauri.FromBytes(img)}, nil
	}
	return Sample{Kind: KindNone}, nil
}

func (p *linuxPort) WriteText(content string) error {
	clipboard.Write(clipboard.FmtText, []byte(content))
	return nil
}

func (p *linuxPort) WriteImageFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("clipboard: read %s: %w", path, err)
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

func (p *linuxPort) Close() error { return nil }
