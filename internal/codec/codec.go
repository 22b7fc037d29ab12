// Package codec provides import and export of Graphol diagrams in the
// .graphol XML interchange format, JSON, and a CSV predicate summary.
package codec

import (
	"io"

	"grapholite/internal/domain"
)

// Importer interface for importing diagrams from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Diagram, error)
	Format() string
}

// Exporter interface for exporting diagrams to various formats
type Exporter interface {
	Export(diagram *domain.Diagram, w io.Writer) error
	Format() string
}
