package application

import "schemer/internal/domain"

// Re-export domain types for use by adapters
type (
	Node         = domain.Node
	Link         = domain.Link
	Field        = domain.Field
	Diagram      = domain.Diagram
	Cardinality  = domain.Cardinality
	SnapshotInfo = domain.SnapshotInfo
)

const (
	CardinalityOne     = domain.CardinalityOne
	CardinalityMany    = domain.CardinalityMany
	CardinalityZeroOne = domain.CardinalityZeroOne
)

// ParseFields parses field text in the `name:type [meta]` line grammar
func ParseFields(text string) ([]Field, error) {
	return domain.ParseFields(text)
}

// FormatFields renders fields in the line grammar
func FormatFields(fields []Field) string {
	return domain.FormatFields(fields)
}
