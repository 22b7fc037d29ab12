package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"grapholite/internal/domain"
)

// execer covers both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertNode(ctx context.Context, db execer, diagramID string, node *domain.Node) error {
	geometry, err := json.Marshal(node.Geometry)
	if err != nil {
		return fmt.Errorf("failed to marshal geometry: %w", err)
	}
	inputs, err := json.Marshal(node.Inputs)
	if err != nil {
		return fmt.Errorf("failed to marshal inputs: %w", err)
	}

	// ON CONFLICT keeps the rowid, so insertion order survives updates.
	_, err = db.ExecContext(ctx, `
		INSERT INTO nodes (diagram_id, id, kind, label, identity, geometry, inputs)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(diagram_id, id) DO UPDATE SET
			kind = excluded.kind,
			label = excluded.label,
			identity = excluded.identity,
			geometry = excluded.geometry,
			inputs = excluded.inputs
	`, diagramID, node.ID, string(node.Kind), node.Label, string(node.Identity), geometry, inputs)
	if err != nil {
		return fmt.Errorf("failed to upsert node %s: %w", node.ID, err)
	}
	return nil
}

func insertEdge(ctx context.Context, db execer, diagramID string, edge *domain.Edge) error {
	breakpoints, err := json.Marshal(edge.Breakpoints)
	if err != nil {
		return fmt.Errorf("failed to marshal breakpoints: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO edges (diagram_id, id, kind, source_id, target_id, breakpoints)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(diagram_id, id) DO UPDATE SET
			kind = excluded.kind,
			source_id = excluded.source_id,
			target_id = excluded.target_id,
			breakpoints = excluded.breakpoints
	`, diagramID, edge.ID, string(edge.Kind), edge.SourceID, edge.TargetID, breakpoints)
	if err != nil {
		return fmt.Errorf("failed to upsert edge %s: %w", edge.ID, err)
	}
	return nil
}

func scanNode(rows *sql.Rows) (*domain.Node, []string, error) {
	var (
		id, kind, label, identity string
		geometryRaw, inputsRaw    []byte
	)
	if err := rows.Scan(&id, &kind, &label, &identity, &geometryRaw, &inputsRaw); err != nil {
		return nil, nil, fmt.Errorf("failed to scan node: %w", err)
	}

	node := domain.NewNode(id, domain.NodeKind(kind), label)
	if err := json.Unmarshal(geometryRaw, &node.Geometry); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal geometry: %w", err)
	}
	var inputs []string
	if err := json.Unmarshal(inputsRaw, &inputs); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal inputs: %w", err)
	}
	node.SetIdentity(domain.Identity(identity))
	return node, inputs, nil
}

func scanEdge(rows *sql.Rows) (*domain.Edge, error) {
	var (
		id, kind, sourceID, targetID string
		breakpointsRaw               []byte
	)
	if err := rows.Scan(&id, &kind, &sourceID, &targetID, &breakpointsRaw); err != nil {
		return nil, fmt.Errorf("failed to scan edge: %w", err)
	}

	edge := domain.NewEdge(id, domain.EdgeKind(kind), sourceID, targetID)
	if err := json.Unmarshal(breakpointsRaw, &edge.Breakpoints); err != nil {
		return nil, fmt.Errorf("failed to unmarshal breakpoints: %w", err)
	}
	return edge, nil
}
