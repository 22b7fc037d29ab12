package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"grapholite/internal/domain"
)

// DiagramDocument is the serializable form of a diagram, shared by the
// JSON codec and the HTTP layer. Unlike the graphol format it carries
// resolved identities, so parsing does not re-run identification.
type DiagramDocument struct {
	ID     string         `json:"id,omitempty"`
	Name   string         `json:"name,omitempty"`
	Width  int            `json:"width,omitempty"`
	Height int            `json:"height,omitempty"`
	Nodes  []*domain.Node `json:"nodes"`
	Edges  []*domain.Edge `json:"edges"`
}

// NewDiagramDocument snapshots a diagram into its serializable form
func NewDiagramDocument(diagram *domain.Diagram) *DiagramDocument {
	return &DiagramDocument{
		ID:     diagram.ID,
		Name:   diagram.Name,
		Width:  diagram.Width,
		Height: diagram.Height,
		Nodes:  diagram.Nodes(),
		Edges:  diagram.Edges(),
	}
}

// Diagram rebuilds the domain diagram from the document
func (doc *DiagramDocument) Diagram() (*domain.Diagram, error) {
	diagram := domain.NewDiagram(doc.ID, doc.Name)
	diagram.Width = doc.Width
	diagram.Height = doc.Height

	for _, n := range doc.Nodes {
		node := domain.NewNode(n.ID, n.Kind, n.Label)
		node.Geometry = n.Geometry
		if n.Identity != "" {
			node.SetIdentity(n.Identity)
		}
		if err := diagram.AddNode(node); err != nil {
			return nil, fmt.Errorf("failed to add node: %w", err)
		}
	}
	for _, e := range doc.Edges {
		edge := domain.NewEdge(e.ID, e.Kind, e.SourceID, e.TargetID)
		edge.Breakpoints = append(edge.Breakpoints, e.Breakpoints...)
		if err := diagram.AddEdge(edge); err != nil {
			return nil, fmt.Errorf("failed to add edge: %w", err)
		}
	}
	// Stored input order is authoritative over edge insertion order.
	for _, n := range doc.Nodes {
		if len(n.Inputs) > 0 {
			diagram.Node(n.ID).Inputs = append([]string(nil), n.Inputs...)
		}
	}
	return diagram, nil
}

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a diagram from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Diagram, error) {
	var doc DiagramDocument
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return doc.Diagram()
}

// Export exports a diagram to JSON
func (c *JSONCodec) Export(diagram *domain.Diagram, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(NewDiagramDocument(diagram)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
