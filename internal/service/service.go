package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"grapholite/internal/codec"
	"grapholite/internal/domain"
	"grapholite/internal/repository"
)

// DiagramService provides business logic for diagram operations
type DiagramService struct {
	repo     repository.Repository
	eventBus *EventBus
}

// NewDiagramService creates a new diagram service
func NewDiagramService(repo repository.Repository, eventBus *EventBus) *DiagramService {
	return &DiagramService{
		repo:     repo,
		eventBus: eventBus,
	}
}

// ListDiagrams returns summaries of all stored diagrams
func (s *DiagramService) ListDiagrams(ctx context.Context) ([]repository.DiagramInfo, error) {
	return s.repo.ListDiagrams(ctx)
}

// GetDiagram retrieves a single diagram by ID
func (s *DiagramService) GetDiagram(ctx context.Context, id string) (*domain.Diagram, error) {
	diagram, err := s.repo.GetDiagram(ctx, id)
	if err != nil {
		return nil, err
	}
	if diagram == nil {
		return nil, fmt.Errorf("diagram %s not found", id)
	}
	return diagram, nil
}

// CreateDiagram creates a new empty diagram
func (s *DiagramService) CreateDiagram(ctx context.Context, id, name string) (*domain.Diagram, error) {
	if name == "" {
		return nil, fmt.Errorf("diagram name required")
	}
	if id == "" {
		id = uuid.NewString()
	}

	existing, err := s.repo.GetDiagram(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("diagram %s already exists", id)
	}

	diagram := domain.NewDiagram(id, name)
	if err := s.repo.SaveDiagram(ctx, diagram); err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventDiagramCreated,
		Payload: map[string]string{"diagram_id": diagram.ID, "name": diagram.Name},
	})

	return diagram, nil
}

// DeleteDiagram removes a diagram and all its contents
func (s *DiagramService) DeleteDiagram(ctx context.Context, id string) error {
	if err := s.repo.DeleteDiagram(ctx, id); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventDiagramDeleted,
		Payload: map[string]string{"diagram_id": id},
	})

	return nil
}

// CreateNode adds a node to a diagram. A missing ID is generated.
func (s *DiagramService) CreateNode(ctx context.Context, diagramID string, node *domain.Node) (*domain.Node, error) {
	if err := s.validateNode(node); err != nil {
		return nil, err
	}
	if node.ID == "" {
		node.ID = uuid.NewString()
	}

	diagram, err := s.GetDiagram(ctx, diagramID)
	if err != nil {
		return nil, err
	}
	if err := diagram.AddNode(node); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertNode(ctx, diagramID, node); err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventNodeCreated,
		Payload: map[string]string{"diagram_id": diagramID, "node_id": node.ID, "kind": string(node.Kind)},
	})

	return node, nil
}

// UpdateNode updates the label and geometry of an existing node.
// Kind, identity, and inputs are not editable through this path.
func (s *DiagramService) UpdateNode(ctx context.Context, diagramID, nodeID, label string, geometry domain.Geometry) (*domain.Node, error) {
	diagram, err := s.GetDiagram(ctx, diagramID)
	if err != nil {
		return nil, err
	}
	node := diagram.Node(nodeID)
	if node == nil {
		return nil, fmt.Errorf("node %s not found in diagram %s", nodeID, diagramID)
	}

	node.Label = label
	node.Geometry = geometry
	if err := s.repo.UpsertNode(ctx, diagramID, node); err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventNodeUpdated,
		Payload: map[string]string{"diagram_id": diagramID, "node_id": nodeID},
	})

	return node, nil
}

// DeleteNode removes a node and its incident edges, then re-identifies the
// surviving endpoints of each removed edge.
func (s *DiagramService) DeleteNode(ctx context.Context, diagramID, nodeID string) error {
	diagram, err := s.GetDiagram(ctx, diagramID)
	if err != nil {
		return err
	}
	if diagram.Node(nodeID) == nil {
		return fmt.Errorf("node %s not found in diagram %s", nodeID, diagramID)
	}

	removed := diagram.RemoveNode(nodeID)
	for _, edge := range removed {
		if err := s.repo.DeleteEdge(ctx, diagramID, edge.ID); err != nil {
			return err
		}
	}
	if err := s.repo.DeleteNode(ctx, diagramID, nodeID); err != nil {
		return err
	}

	for _, edge := range removed {
		survivor := diagram.Node(edge.Other(nodeID))
		if survivor == nil {
			continue
		}
		if err := s.identify(ctx, diagramID, diagram, survivor); err != nil {
			return err
		}
	}

	s.eventBus.Publish(Event{
		Type:    EventNodeDeleted,
		Payload: map[string]string{"diagram_id": diagramID, "node_id": nodeID},
	})

	return nil
}

// CreateEdge adds an edge to a diagram and re-identifies both endpoints.
// A missing ID is generated.
func (s *DiagramService) CreateEdge(ctx context.Context, diagramID string, edge *domain.Edge) (*domain.Edge, error) {
	if err := s.validateEdge(edge); err != nil {
		return nil, err
	}
	if edge.ID == "" {
		edge.ID = uuid.NewString()
	}

	diagram, err := s.GetDiagram(ctx, diagramID)
	if err != nil {
		return nil, err
	}
	if err := diagram.AddEdge(edge); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertEdge(ctx, diagramID, edge); err != nil {
		return nil, err
	}
	if edge.Kind == domain.EdgeInput {
		// AddEdge appended the edge to the target's input order.
		if err := s.repo.UpsertNode(ctx, diagramID, diagram.Node(edge.TargetID)); err != nil {
			return nil, err
		}
	}

	if err := s.identifyEndpoints(ctx, diagramID, diagram, edge); err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventEdgeCreated,
		Payload: map[string]string{"diagram_id": diagramID, "edge_id": edge.ID, "kind": string(edge.Kind)},
	})

	return edge, nil
}

// DeleteEdge removes an edge and re-identifies both former endpoints
func (s *DiagramService) DeleteEdge(ctx context.Context, diagramID, edgeID string) error {
	diagram, err := s.GetDiagram(ctx, diagramID)
	if err != nil {
		return err
	}

	edge := diagram.RemoveEdge(edgeID)
	if edge == nil {
		return fmt.Errorf("edge %s not found in diagram %s", edgeID, diagramID)
	}
	if err := s.repo.DeleteEdge(ctx, diagramID, edgeID); err != nil {
		return err
	}
	if edge.Kind == domain.EdgeInput {
		if target := diagram.Node(edge.TargetID); target != nil {
			if err := s.repo.UpsertNode(ctx, diagramID, target); err != nil {
				return err
			}
		}
	}

	if err := s.identifyEndpoints(ctx, diagramID, diagram, edge); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventEdgeDeleted,
		Payload: map[string]string{"diagram_id": diagramID, "edge_id": edgeID},
	})

	return nil
}

// identifyEndpoints re-runs identity inference for both endpoints of an edge
func (s *DiagramService) identifyEndpoints(ctx context.Context, diagramID string, diagram *domain.Diagram, edge *domain.Edge) error {
	for _, id := range []string{edge.SourceID, edge.TargetID} {
		node := diagram.Node(id)
		if node == nil {
			continue
		}
		if err := s.identify(ctx, diagramID, diagram, node); err != nil {
			return err
		}
	}
	return nil
}

// identify runs inference from start and persists every identity change
func (s *DiagramService) identify(ctx context.Context, diagramID string, diagram *domain.Diagram, start *domain.Node) error {
	for _, change := range diagram.Identify(start) {
		if err := s.repo.UpdateNodeIdentity(ctx, diagramID, change.Node.ID, change.New); err != nil {
			return err
		}
		s.eventBus.Publish(Event{
			Type: EventIdentityChanged,
			Payload: map[string]string{
				"diagram_id": diagramID,
				"node_id":    change.Node.ID,
				"old":        string(change.Old),
				"new":        string(change.New),
			},
		})
	}
	return nil
}

// ImportGraphol imports a .graphol document as a new diagram.
// Identities are inferred during parsing.
func (s *DiagramService) ImportGraphol(ctx context.Context, name string, data []byte) (*domain.Diagram, error) {
	grapholCodec := codec.NewGrapholCodec()
	diagram, err := grapholCodec.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse graphol: %w", err)
	}
	return s.storeImported(ctx, name, diagram)
}

// ImportJSON imports a diagram document from JSON
func (s *DiagramService) ImportJSON(ctx context.Context, name string, data []byte) (*domain.Diagram, error) {
	jsonCodec := codec.NewJSONCodec()
	diagram, err := jsonCodec.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return s.storeImported(ctx, name, diagram)
}

func (s *DiagramService) storeImported(ctx context.Context, name string, diagram *domain.Diagram) (*domain.Diagram, error) {
	if name == "" {
		name = "imported"
	}
	if diagram.ID == "" {
		// Re-importing under an existing name replaces that diagram.
		infos, err := s.repo.ListDiagrams(ctx)
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			if info.Name == name {
				diagram.ID = info.ID
				break
			}
		}
	}
	if diagram.ID == "" {
		diagram.ID = uuid.NewString()
	}
	diagram.Name = name

	if err := s.repo.SaveDiagram(ctx, diagram); err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type: EventDiagramImported,
		Payload: map[string]interface{}{
			"diagram_id": diagram.ID,
			"name":       diagram.Name,
			"nodes":      diagram.NodeCount(),
			"edges":      diagram.EdgeCount(),
		},
	})

	return diagram, nil
}

// ExportDiagram writes a diagram in the requested format
func (s *DiagramService) ExportDiagram(ctx context.Context, id, format string, w io.Writer) error {
	diagram, err := s.GetDiagram(ctx, id)
	if err != nil {
		return err
	}

	switch format {
	case "graphol", "":
		return codec.NewGrapholCodec().Export(diagram, w)
	case "json":
		return codec.NewJSONCodec().Export(diagram, w)
	case "csv":
		return codec.NewCSVExporter().Export(diagram, w)
	default:
		return fmt.Errorf("unknown export format %s", format)
	}
}

// ExportPredicates writes the predicate inventory of all diagrams as CSV
func (s *DiagramService) ExportPredicates(ctx context.Context, w io.Writer) error {
	infos, err := s.repo.ListDiagrams(ctx)
	if err != nil {
		return err
	}

	diagrams := make([]*domain.Diagram, 0, len(infos))
	for _, info := range infos {
		diagram, err := s.repo.GetDiagram(ctx, info.ID)
		if err != nil {
			return err
		}
		if diagram != nil {
			diagrams = append(diagrams, diagram)
		}
	}

	return codec.NewCSVExporter().ExportAll(diagrams, w)
}

// Validation helpers

func (s *DiagramService) validateNode(node *domain.Node) error {
	if node.Kind == "" {
		return fmt.Errorf("node kind required")
	}
	if !node.Kind.Valid() {
		return fmt.Errorf("unknown node kind %s", node.Kind)
	}
	return nil
}

func (s *DiagramService) validateEdge(edge *domain.Edge) error {
	if edge.SourceID == "" {
		return fmt.Errorf("edge source required")
	}
	if edge.TargetID == "" {
		return fmt.Errorf("edge target required")
	}
	if edge.Kind == "" {
		return fmt.Errorf("edge kind required")
	}
	if !edge.Kind.Valid() {
		return fmt.Errorf("unknown edge kind %s", edge.Kind)
	}
	if edge.SourceID == edge.TargetID {
		return fmt.Errorf("edge source and target cannot be the same")
	}
	return nil
}
