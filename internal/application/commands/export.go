package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"schemer/internal/application"
	"schemer/internal/domain"
	"schemer/internal/graph"
	"schemer/internal/ports"
)

// Export formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ExportCommand serializes the stored diagram
type ExportCommand struct {
	repo   ports.DiagramStore
	Format string
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(repo ports.DiagramStore, format string) *ExportCommand {
	return &ExportCommand{repo: repo, Format: format}
}

// Validate checks the output format
func (c *ExportCommand) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", FormatJSON, FormatYAML, "yml":
		return nil
	}
	return &application.ValidationError{
		Field:   "format",
		Message: fmt.Sprintf("unknown format %q (expected json or yaml)", c.Format),
	}
}

// Execute runs the export command
func (c *ExportCommand) Execute(ctx context.Context) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s, err := application.Open(ctx, c.repo)
	if err != nil {
		return nil, err
	}
	return Encode(s.Snapshot(), c.Format)
}

// Encode renders d as indented JSON or YAML.
func Encode(d *domain.Diagram, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return json.MarshalIndent(d, "", "  ")
	}
}

// Decode parses a diagram from JSON or YAML. YAML is converted to JSON first
// so both pass the same shape validation.
func Decode(data []byte, format string) (*domain.Diagram, error) {
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDiagram, err)
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDiagram, err)
		}
		return domain.DecodeDiagram(raw)
	default:
		return domain.DecodeDiagram(data)
	}
}

// ImportCommand replaces the stored diagram with a JSON or YAML document
type ImportCommand struct {
	repo   ports.DiagramStore
	Data   []byte
	Format string
}

// NewImportCommand creates a new ImportCommand
func NewImportCommand(repo ports.DiagramStore, data []byte, format string) *ImportCommand {
	return &ImportCommand{repo: repo, Data: data, Format: format}
}

// Execute runs the import command
func (c *ImportCommand) Execute(ctx context.Context) (*RestoreResult, error) {
	d, err := Decode(c.Data, c.Format)
	if err != nil {
		return nil, err
	}
	s := graph.NewStore()
	s.Replace(d)
	s.EnsureEntityIDs()
	s.EnsureLinkNumbers()
	if err := application.Commit(ctx, c.repo, s); err != nil {
		return nil, fmt.Errorf("failed to import: %w", err)
	}
	return &RestoreResult{
		Entities: len(d.Nodes),
		Links:    len(d.Links),
		Message:  fmt.Sprintf("Imported %d entities and %d links", len(d.Nodes), len(d.Links)),
	}, nil
}
