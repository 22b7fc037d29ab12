package codec

import (
	"bytes"
	"strings"
	"testing"

	"grapholite/internal/domain"
)

func buildTestDiagram(t *testing.T) *domain.Diagram {
	t.Helper()
	diagram := domain.NewDiagram("d1", "family")
	diagram.Width = 5000
	diagram.Height = 5000

	nodes := []*domain.Node{
		domain.NewNode("n0", domain.NodeConcept, "Person"),
		domain.NewNode("n1", domain.NodeUnion, ""),
		domain.NewNode("n2", domain.NodeIndividual, "bob"),
	}
	for _, n := range nodes {
		if err := diagram.AddNode(n); err != nil {
			t.Fatalf("failed to add node: %v", err)
		}
	}
	if err := diagram.AddEdge(domain.NewEdge("e0", domain.EdgeInclusion, "n0", "n1")); err != nil {
		t.Fatalf("failed to add edge: %v", err)
	}
	return diagram
}

func TestJSONRoundTrip(t *testing.T) {
	codec := NewJSONCodec()
	diagram := buildTestDiagram(t)
	diagram.Node("n1").SetIdentity(domain.IdentityConcept)

	var buf bytes.Buffer
	if err := codec.Export(diagram, &buf); err != nil {
		t.Fatalf("failed to export: %v", err)
	}

	reparsed, err := codec.Parse(&buf)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	if reparsed.ID != "d1" || reparsed.Name != "family" {
		t.Errorf("expected diagram metadata preserved, got %s/%s", reparsed.ID, reparsed.Name)
	}
	if reparsed.NodeCount() != 3 || reparsed.EdgeCount() != 1 {
		t.Errorf("expected 3 nodes and 1 edge, got %d and %d", reparsed.NodeCount(), reparsed.EdgeCount())
	}
	// Identities are carried by the document, not recomputed.
	if got := reparsed.Node("n1").Identity; got != domain.IdentityConcept {
		t.Errorf("expected stored identity concept, got %s", got)
	}
}

func TestJSONParseErrors(t *testing.T) {
	codec := NewJSONCodec()
	if _, err := codec.Parse(strings.NewReader("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := codec.Parse(strings.NewReader(`{"nodes":[{"id":"a","kind":"concept"},{"id":"a","kind":"role"}],"edges":[]}`)); err == nil {
		t.Error("expected error for duplicate node IDs")
	}
}
