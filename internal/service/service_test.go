package service

import (
	"bytes"
	"context"
	"testing"

	"grapholite/internal/domain"
	"grapholite/internal/repository"
)

// memoryRepo is a minimal in-memory Repository for service tests
type memoryRepo struct {
	diagrams map[string]*domain.Diagram
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{diagrams: make(map[string]*domain.Diagram)}
}

func (r *memoryRepo) ListDiagrams(ctx context.Context) ([]repository.DiagramInfo, error) {
	infos := make([]repository.DiagramInfo, 0, len(r.diagrams))
	for _, d := range r.diagrams {
		infos = append(infos, repository.DiagramInfo{ID: d.ID, Name: d.Name, Nodes: d.NodeCount(), Edges: d.EdgeCount()})
	}
	return infos, nil
}

func (r *memoryRepo) GetDiagram(ctx context.Context, id string) (*domain.Diagram, error) {
	return r.diagrams[id], nil
}

func (r *memoryRepo) SaveDiagram(ctx context.Context, diagram *domain.Diagram) error {
	r.diagrams[diagram.ID] = diagram
	return nil
}

func (r *memoryRepo) DeleteDiagram(ctx context.Context, id string) error {
	delete(r.diagrams, id)
	return nil
}

func (r *memoryRepo) UpsertNode(ctx context.Context, diagramID string, node *domain.Node) error {
	return nil
}

func (r *memoryRepo) DeleteNode(ctx context.Context, diagramID, nodeID string) error {
	return nil
}

func (r *memoryRepo) UpsertEdge(ctx context.Context, diagramID string, edge *domain.Edge) error {
	return nil
}

func (r *memoryRepo) DeleteEdge(ctx context.Context, diagramID, edgeID string) error {
	return nil
}

func (r *memoryRepo) UpdateNodeIdentity(ctx context.Context, diagramID, nodeID string, identity domain.Identity) error {
	return nil
}

func (r *memoryRepo) Close() error { return nil }

func newTestService(t *testing.T) (*DiagramService, *memoryRepo, chan Event) {
	t.Helper()
	repo := newMemoryRepo()
	bus := NewEventBus()
	events := make(chan Event, 64)
	bus.Subscribe(events)
	return NewDiagramService(repo, bus), repo, events
}

func drainEvents(events chan Event) []Event {
	var out []Event
	for {
		select {
		case e := <-events:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestDiagramServiceValidateNode(t *testing.T) {
	svc := &DiagramService{}

	t.Run("valid node passes validation", func(t *testing.T) {
		node := domain.NewNode("test", domain.NodeConcept, "Person")
		if err := svc.validateNode(node); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty kind fails validation", func(t *testing.T) {
		node := &domain.Node{ID: "test"}
		if err := svc.validateNode(node); err == nil {
			t.Error("expected error for empty kind")
		}
	})

	t.Run("unknown kind fails validation", func(t *testing.T) {
		node := &domain.Node{ID: "test", Kind: domain.NodeKind("teapot")}
		if err := svc.validateNode(node); err == nil {
			t.Error("expected error for unknown kind")
		}
	})
}

func TestDiagramServiceValidateEdge(t *testing.T) {
	svc := &DiagramService{}

	t.Run("valid edge passes validation", func(t *testing.T) {
		edge := domain.NewEdge("e0", domain.EdgeInput, "n0", "n1")
		if err := svc.validateEdge(edge); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty source fails validation", func(t *testing.T) {
		edge := &domain.Edge{Kind: domain.EdgeInput, TargetID: "n1"}
		if err := svc.validateEdge(edge); err == nil {
			t.Error("expected error for empty source")
		}
	})

	t.Run("empty target fails validation", func(t *testing.T) {
		edge := &domain.Edge{Kind: domain.EdgeInput, SourceID: "n0"}
		if err := svc.validateEdge(edge); err == nil {
			t.Error("expected error for empty target")
		}
	})

	t.Run("unknown kind fails validation", func(t *testing.T) {
		edge := &domain.Edge{Kind: domain.EdgeKind("wormhole"), SourceID: "n0", TargetID: "n1"}
		if err := svc.validateEdge(edge); err == nil {
			t.Error("expected error for unknown kind")
		}
	})

	t.Run("self loop fails validation", func(t *testing.T) {
		edge := &domain.Edge{Kind: domain.EdgeInclusion, SourceID: "n0", TargetID: "n0"}
		if err := svc.validateEdge(edge); err == nil {
			t.Error("expected error for self loop")
		}
	})
}

func TestDiagramServiceLifecycle(t *testing.T) {
	svc, _, events := newTestService(t)
	ctx := context.Background()

	diagram, err := svc.CreateDiagram(ctx, "", "family")
	if err != nil {
		t.Fatalf("CreateDiagram failed: %v", err)
	}
	if diagram.ID == "" {
		t.Error("expected generated diagram ID")
	}

	t.Run("duplicate creation fails", func(t *testing.T) {
		if _, err := svc.CreateDiagram(ctx, diagram.ID, "family"); err == nil {
			t.Error("expected error for duplicate diagram")
		}
	})

	t.Run("missing name fails", func(t *testing.T) {
		if _, err := svc.CreateDiagram(ctx, "", ""); err == nil {
			t.Error("expected error for missing name")
		}
	})

	t.Run("get missing diagram fails", func(t *testing.T) {
		if _, err := svc.GetDiagram(ctx, "ghost"); err == nil {
			t.Error("expected error for missing diagram")
		}
	})

	if got := drainEvents(events); len(got) != 1 || got[0].Type != EventDiagramCreated {
		t.Errorf("expected single diagram_created event, got %+v", got)
	}
}

func TestDiagramServiceEdgeTriggersIdentification(t *testing.T) {
	svc, _, events := newTestService(t)
	ctx := context.Background()

	diagram, err := svc.CreateDiagram(ctx, "d1", "test")
	if err != nil {
		t.Fatalf("CreateDiagram failed: %v", err)
	}

	individual := domain.NewNode("n0", domain.NodeIndividual, "alice")
	enum := domain.NewNode("n1", domain.NodeEnumeration, "")
	for _, n := range []*domain.Node{individual, enum} {
		if _, err := svc.CreateNode(ctx, "d1", n); err != nil {
			t.Fatalf("CreateNode failed: %v", err)
		}
	}
	drainEvents(events)

	edge, err := svc.CreateEdge(ctx, "d1", domain.NewEdge("", domain.EdgeInput, "n0", "n1"))
	if err != nil {
		t.Fatalf("CreateEdge failed: %v", err)
	}
	if edge.ID == "" {
		t.Error("expected generated edge ID")
	}

	t.Run("endpoint identity inferred on connection", func(t *testing.T) {
		if got := diagram.Node("n1").Identity; got != domain.IdentityConcept {
			t.Errorf("expected concept, got %s", got)
		}
	})

	t.Run("identity change published", func(t *testing.T) {
		var seen bool
		for _, e := range drainEvents(events) {
			if e.Type == EventIdentityChanged {
				seen = true
			}
		}
		if !seen {
			t.Error("expected identity_changed event")
		}
	})

	t.Run("disconnection reverts to neutral", func(t *testing.T) {
		if err := svc.DeleteEdge(ctx, "d1", edge.ID); err != nil {
			t.Fatalf("DeleteEdge failed: %v", err)
		}
		if got := diagram.Node("n1").Identity; got != domain.IdentityNeutral {
			t.Errorf("expected neutral, got %s", got)
		}
	})
}

func TestDiagramServiceDeleteNodeReidentifies(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateDiagram(ctx, "d1", "test"); err != nil {
		t.Fatalf("CreateDiagram failed: %v", err)
	}
	for _, n := range []*domain.Node{
		domain.NewNode("n0", domain.NodeIndividual, "alice"),
		domain.NewNode("n1", domain.NodeEnumeration, ""),
	} {
		if _, err := svc.CreateNode(ctx, "d1", n); err != nil {
			t.Fatalf("CreateNode failed: %v", err)
		}
	}
	if _, err := svc.CreateEdge(ctx, "d1", domain.NewEdge("e0", domain.EdgeInput, "n0", "n1")); err != nil {
		t.Fatalf("CreateEdge failed: %v", err)
	}

	diagram, err := svc.GetDiagram(ctx, "d1")
	if err != nil {
		t.Fatalf("GetDiagram failed: %v", err)
	}
	if got := diagram.Node("n1").Identity; got != domain.IdentityConcept {
		t.Fatalf("expected concept before deletion, got %s", got)
	}

	if err := svc.DeleteNode(ctx, "d1", "n0"); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}
	if got := diagram.Node("n1").Identity; got != domain.IdentityNeutral {
		t.Errorf("expected neutral after deletion, got %s", got)
	}
}

func TestDiagramServiceImportExport(t *testing.T) {
	svc, _, events := newTestService(t)
	ctx := context.Background()

	doc := `<?xml version="1.0" encoding="UTF-8"?>
<graphol version="2">
  <graph width="5000" height="5000">
    <node id="n0" type="individual"><geometry x="0" y="0" width="60" height="60"/><label>alice</label></node>
    <node id="n1" type="enumeration" inputs="e0"><geometry x="100" y="0" width="50" height="30"/></node>
    <edge id="e0" type="input" source="n0" target="n1"/>
  </graph>
</graphol>`

	diagram, err := svc.ImportGraphol(ctx, "family", []byte(doc))
	if err != nil {
		t.Fatalf("ImportGraphol failed: %v", err)
	}
	if diagram.ID == "" {
		t.Error("expected generated diagram ID")
	}
	if got := diagram.Node("n1").Identity; got != domain.IdentityConcept {
		t.Errorf("expected concept after import, got %s", got)
	}

	var seen bool
	for _, e := range drainEvents(events) {
		if e.Type == EventDiagramImported {
			seen = true
		}
	}
	if !seen {
		t.Error("expected diagram_imported event")
	}

	t.Run("export round trip", func(t *testing.T) {
		var buf bytes.Buffer
		if err := svc.ExportDiagram(ctx, diagram.ID, "graphol", &buf); err != nil {
			t.Fatalf("ExportDiagram failed: %v", err)
		}
		if buf.Len() == 0 {
			t.Error("expected non-empty export")
		}
	})

	t.Run("unknown format fails", func(t *testing.T) {
		var buf bytes.Buffer
		if err := svc.ExportDiagram(ctx, diagram.ID, "dot", &buf); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
