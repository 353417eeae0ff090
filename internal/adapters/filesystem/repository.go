package filesystem

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"schemer/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Repository implements ports.DiagramStore as a single JSON file
type Repository struct {
	mu   sync.Mutex
	path string
}

// NewRepository creates a new filesystem repository
func NewRepository(path string) *Repository {
	// Expand ~ to home directory
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}
	return &Repository{path: path}
}

// Path returns the file backing the repository
func (r *Repository) Path() string {
	return r.path
}

// Load reads the diagram. A missing file means nothing has been saved yet.
func (r *Repository) Load(_ context.Context) (*domain.Diagram, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read diagram: %w", err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return domain.DecodeDiagram(data)
}

// Save writes the diagram through a temp file so readers never see a
// partial document.
func (r *Repository) Save(_ context.Context, d *domain.Diagram) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode diagram: %w", err)
	}
	data = append(data, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".scheme-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write diagram: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write diagram: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace diagram: %w", err)
	}
	return nil
}
