package codec

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"grapholite/internal/domain"
)

// CSV column headers for the predicate table
const (
	csvKeyName     = "NAME"
	csvKeyType     = "TYPE"
	csvKeyIdentity = "IDENTITY"
	csvKeyDiagrams = "DIAGRAMS"
)

// predicateKinds are the node kinds that name ontology predicates and
// therefore appear in the CSV summary.
var predicateKinds = map[domain.NodeKind]struct{}{
	domain.NodeConcept:    {},
	domain.NodeRole:       {},
	domain.NodeAttribute:  {},
	domain.NodeIndividual: {},
}

// CSVExporter writes the predicate summary table: one row per distinct
// predicate name and kind, with the list of diagrams it occurs in.
type CSVExporter struct{}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Format returns the codec format identifier
func (c *CSVExporter) Format() string {
	return "csv"
}

// Export writes the predicate table for a single diagram
func (c *CSVExporter) Export(diagram *domain.Diagram, w io.Writer) error {
	return c.ExportAll([]*domain.Diagram{diagram}, w)
}

// ExportAll writes the predicate table across all given diagrams. Rows
// are sorted by predicate name, then kind, for stable output.
func (c *CSVExporter) ExportAll(diagrams []*domain.Diagram, w io.Writer) error {
	type predicate struct {
		name     string
		kind     domain.NodeKind
		identity domain.Identity
		diagrams map[string]struct{}
	}

	collection := make(map[string]*predicate)
	for _, diagram := range diagrams {
		for _, node := range diagram.Nodes() {
			if _, ok := predicateKinds[node.Kind]; !ok {
				continue
			}
			if node.Label == "" {
				continue
			}
			key := string(node.Kind) + "\x00" + node.Label
			p, ok := collection[key]
			if !ok {
				p = &predicate{
					name:     node.Label,
					kind:     node.Kind,
					identity: node.Identity,
					diagrams: make(map[string]struct{}),
				}
				collection[key] = p
			}
			p.diagrams[diagram.Name] = struct{}{}
		}
	}

	rows := make([]*predicate, 0, len(collection))
	for _, p := range collection {
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].name != rows[j].name {
			return rows[i].name < rows[j].name
		}
		return rows[i].kind < rows[j].kind
	})

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{csvKeyName, csvKeyType, csvKeyIdentity, csvKeyDiagrams}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range rows {
		names := make([]string, 0, len(p.diagrams))
		for name := range p.diagrams {
			names = append(names, name)
		}
		sort.Strings(names)
		record := []string{p.name, string(p.kind), string(p.identity), strings.Join(names, ", ")}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
