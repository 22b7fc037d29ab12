package codec

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"grapholite/internal/domain"
)

// GrapholCodec handles the .graphol XML interchange format used by the
// original desktop editor. The format carries no identity information, so
// Parse runs identification for every neutral-capable node after loading.
type GrapholCodec struct{}

// NewGrapholCodec creates a new graphol codec
func NewGrapholCodec() *GrapholCodec {
	return &GrapholCodec{}
}

// Format returns the codec format identifier
func (c *GrapholCodec) Format() string {
	return "graphol"
}

// XML document structure

type grapholDocument struct {
	XMLName xml.Name     `xml:"graphol"`
	Version string       `xml:"version,attr,omitempty"`
	Graph   grapholGraph `xml:"graph"`
}

type grapholGraph struct {
	Width  int            `xml:"width,attr"`
	Height int            `xml:"height,attr"`
	Nodes  []grapholNode  `xml:"node"`
	Edges  []grapholEdge  `xml:"edge"`
}

type grapholNode struct {
	ID       string           `xml:"id,attr"`
	Type     string           `xml:"type,attr"`
	Inputs   string           `xml:"inputs,attr,omitempty"`
	Geometry grapholGeometry  `xml:"geometry"`
	Label    *grapholLabel    `xml:"label"`
}

type grapholGeometry struct {
	X      int `xml:"x,attr"`
	Y      int `xml:"y,attr"`
	Width  int `xml:"width,attr"`
	Height int `xml:"height,attr"`
}

type grapholLabel struct {
	X    int    `xml:"x,attr"`
	Y    int    `xml:"y,attr"`
	Text string `xml:",chardata"`
}

type grapholEdge struct {
	ID          string         `xml:"id,attr"`
	Type        string         `xml:"type,attr"`
	Source      string         `xml:"source,attr"`
	Target      string         `xml:"target,attr"`
	Equivalence string         `xml:"equivalence,attr,omitempty"`
	Complete    string         `xml:"complete,attr,omitempty"`
	Points      []grapholPoint `xml:"point"`
}

type grapholPoint struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

// edgeKindFromXML maps edge type attributes to edge kinds. The legacy
// "instance-of" spelling is accepted as an alias of membership, and an
// inclusion flagged equivalence/complete becomes an equivalence edge.
func edgeKindFromXML(e grapholEdge) (domain.EdgeKind, error) {
	switch strings.ToLower(strings.TrimSpace(e.Type)) {
	case "input":
		return domain.EdgeInput, nil
	case "inclusion":
		if e.Equivalence == "1" || e.Complete == "1" {
			return domain.EdgeEquivalence, nil
		}
		return domain.EdgeInclusion, nil
	case "equivalence":
		return domain.EdgeEquivalence, nil
	case "membership", "instance-of":
		return domain.EdgeMembership, nil
	}
	return "", fmt.Errorf("unknown edge type %q", e.Type)
}

// nodeKindFromXML maps node type attributes to node kinds. The legacy
// "value-restriction" spelling is accepted as an alias of facet.
func nodeKindFromXML(nodeType string) (domain.NodeKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(nodeType))
	if normalized == "value-restriction" {
		normalized = string(domain.NodeFacet)
	}
	kind := domain.NodeKind(normalized)
	if !kind.Valid() {
		return "", fmt.Errorf("unknown node type %q", nodeType)
	}
	return kind, nil
}

// Parse imports a diagram from .graphol XML
func (c *GrapholCodec) Parse(r io.Reader) (*domain.Diagram, error) {
	var doc grapholDocument
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse graphol document: %w", err)
	}

	diagram := domain.NewDiagram("", "")
	diagram.Width = doc.Graph.Width
	diagram.Height = doc.Graph.Height

	for _, xn := range doc.Graph.Nodes {
		kind, err := nodeKindFromXML(xn.Type)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", xn.ID, err)
		}
		label := ""
		if xn.Label != nil {
			label = xn.Label.Text
		}
		node := domain.NewNode(xn.ID, kind, label)
		node.Geometry = domain.Geometry(xn.Geometry)
		// A quoted label marks an individual as a literal value.
		if kind == domain.NodeIndividual && strings.HasPrefix(label, "\"") {
			node.SetIdentity(domain.IdentityValue)
		}
		if err := diagram.AddNode(node); err != nil {
			return nil, fmt.Errorf("failed to add node: %w", err)
		}
	}

	for _, xe := range doc.Graph.Edges {
		kind, err := edgeKindFromXML(xe)
		if err != nil {
			return nil, fmt.Errorf("edge %s: %w", xe.ID, err)
		}
		edge := domain.NewEdge(xe.ID, kind, xe.Source, xe.Target)
		for _, p := range xe.Points {
			edge.Breakpoints = append(edge.Breakpoints, domain.Point(p))
		}
		if err := diagram.AddEdge(edge); err != nil {
			return nil, fmt.Errorf("failed to add edge: %w", err)
		}
	}

	// The inputs attribute carries the authoritative operand order for
	// nodes with ordered inputs; it overrides edge insertion order.
	for _, xn := range doc.Graph.Nodes {
		inputs := strings.TrimSpace(xn.Inputs)
		if inputs == "" {
			continue
		}
		if node := diagram.Node(xn.ID); node != nil {
			node.Inputs = strings.Split(inputs, ",")
		}
	}

	for _, node := range diagram.Nodes() {
		if node.NeutralCapable() {
			diagram.Identify(node)
		}
	}

	return diagram, nil
}

// Export writes a diagram as .graphol XML
func (c *GrapholCodec) Export(diagram *domain.Diagram, w io.Writer) error {
	doc := grapholDocument{
		Version: "2",
		Graph: grapholGraph{
			Width:  diagram.Width,
			Height: diagram.Height,
		},
	}

	for _, node := range diagram.Nodes() {
		xn := grapholNode{
			ID:       node.ID,
			Type:     string(node.Kind),
			Inputs:   strings.Join(node.Inputs, ","),
			Geometry: grapholGeometry(node.Geometry),
		}
		if node.Label != "" {
			xn.Label = &grapholLabel{
				X:    node.Geometry.X,
				Y:    node.Geometry.Y,
				Text: node.Label,
			}
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, xn)
	}

	for _, edge := range diagram.Edges() {
		xe := grapholEdge{
			ID:     edge.ID,
			Type:   string(edge.Kind),
			Source: edge.SourceID,
			Target: edge.TargetID,
		}
		for _, p := range edge.Breakpoints {
			xe.Points = append(xe.Points, grapholPoint(p))
		}
		doc.Graph.Edges = append(doc.Graph.Edges, xe)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode graphol document: %w", err)
	}
	return encoder.Close()
}
