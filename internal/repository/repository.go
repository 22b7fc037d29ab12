package repository

import (
	"context"

	"grapholite/internal/domain"
)

// DiagramInfo is a listing summary for a stored diagram
type DiagramInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

// Repository defines the interface for diagram data access
type Repository interface {
	// Read operations
	ListDiagrams(ctx context.Context) ([]DiagramInfo, error)
	GetDiagram(ctx context.Context, id string) (*domain.Diagram, error)

	// Diagram lifecycle
	SaveDiagram(ctx context.Context, diagram *domain.Diagram) error
	DeleteDiagram(ctx context.Context, id string) error

	// Incremental editing operations
	UpsertNode(ctx context.Context, diagramID string, node *domain.Node) error
	DeleteNode(ctx context.Context, diagramID, nodeID string) error
	UpsertEdge(ctx context.Context, diagramID string, edge *domain.Edge) error
	DeleteEdge(ctx context.Context, diagramID, edgeID string) error

	// UpdateNodeIdentity is the fast path for identification writes
	UpdateNodeIdentity(ctx context.Context, diagramID, nodeID string, identity domain.Identity) error

	// Close releases resources
	Close() error
}
