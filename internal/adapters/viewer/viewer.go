// Package viewer opens rendered diagrams with the desktop's default handler.
package viewer

import (
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"

	"schemer/internal/ports"
)

// Viewer implements ports.FileViewer
type Viewer struct {
	goos string
	run  func(*exec.Cmd) error
}

var _ ports.FileViewer = (*Viewer)(nil)

// New creates a viewer for the running operating system
func New() *Viewer {
	return &Viewer{goos: runtime.GOOS, run: (*exec.Cmd).Run}
}

// Open shows the file at path in the default application for its type
func (v *Viewer) Open(path string) error {
	uri, err := BuildURI(path)
	if err != nil {
		return err
	}
	cmd, err := v.command(uri)
	if err != nil {
		return err
	}
	return v.run(cmd)
}

// BuildURI constructs the file:// URI for a path
func BuildURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

func (v *Viewer) command(uri string) (*exec.Cmd, error) {
	switch v.goos {
	case "darwin":
		return exec.Command("open", uri), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", uri), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", uri), nil
	}
	return nil, fmt.Errorf("unsupported operating system: %s", v.goos)
}
