package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"grapholite/internal/domain"
	"grapholite/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS diagrams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		width INTEGER NOT NULL DEFAULT 0,
		height INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS nodes (
		diagram_id TEXT NOT NULL,
		id TEXT NOT NULL,
		kind TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		identity TEXT NOT NULL,
		geometry JSON NOT NULL DEFAULT '{}',
		inputs JSON NOT NULL DEFAULT '[]',
		PRIMARY KEY (diagram_id, id),
		FOREIGN KEY (diagram_id) REFERENCES diagrams(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS edges (
		diagram_id TEXT NOT NULL,
		id TEXT NOT NULL,
		kind TEXT NOT NULL,
		source_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		breakpoints JSON NOT NULL DEFAULT '[]',
		PRIMARY KEY (diagram_id, id),
		FOREIGN KEY (diagram_id) REFERENCES diagrams(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(kind);
	CREATE INDEX IF NOT EXISTS idx_nodes_identity ON nodes(identity);
	CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(diagram_id, source_id);
	CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(diagram_id, target_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// ListDiagrams returns a summary row for every stored diagram
func (r *Repository) ListDiagrams(ctx context.Context) ([]repository.DiagramInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.id, d.name,
			(SELECT COUNT(*) FROM nodes n WHERE n.diagram_id = d.id),
			(SELECT COUNT(*) FROM edges e WHERE e.diagram_id = d.id)
		FROM diagrams d
		ORDER BY d.name, d.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query diagrams: %w", err)
	}
	defer rows.Close()

	var infos []repository.DiagramInfo
	for rows.Next() {
		var info repository.DiagramInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.Nodes, &info.Edges); err != nil {
			return nil, fmt.Errorf("failed to scan diagram: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// GetDiagram loads a complete diagram. It returns nil when no diagram
// with the given ID exists.
func (r *Repository) GetDiagram(ctx context.Context, id string) (*domain.Diagram, error) {
	var name string
	var width, height int
	err := r.db.QueryRowContext(ctx,
		`SELECT name, width, height FROM diagrams WHERE id = ?`, id,
	).Scan(&name, &width, &height)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query diagram: %w", err)
	}

	diagram := domain.NewDiagram(id, name)
	diagram.Width = width
	diagram.Height = height

	// rowid order preserves insertion order, which keeps traversal
	// deterministic across reloads.
	nodeRows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, label, identity, geometry, inputs
		FROM nodes WHERE diagram_id = ? ORDER BY rowid
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer nodeRows.Close()

	type storedInputs struct {
		node   *domain.Node
		inputs []string
	}
	var pending []storedInputs
	for nodeRows.Next() {
		node, inputs, err := scanNode(nodeRows)
		if err != nil {
			return nil, err
		}
		if err := diagram.AddNode(node); err != nil {
			return nil, fmt.Errorf("failed to add node: %w", err)
		}
		if len(inputs) > 0 {
			pending = append(pending, storedInputs{node: node, inputs: inputs})
		}
	}
	if err := nodeRows.Err(); err != nil {
		return nil, err
	}

	edgeRows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, source_id, target_id, breakpoints
		FROM edges WHERE diagram_id = ? ORDER BY rowid
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		edge, err := scanEdge(edgeRows)
		if err != nil {
			return nil, err
		}
		if err := diagram.AddEdge(edge); err != nil {
			return nil, fmt.Errorf("failed to add edge: %w", err)
		}
	}
	if err := edgeRows.Err(); err != nil {
		return nil, err
	}

	// Stored input order is authoritative over edge insertion order.
	for _, p := range pending {
		p.node.Inputs = p.inputs
	}

	return diagram, nil
}

// SaveDiagram stores a complete diagram, replacing any previous content
// with the same ID in a single transaction.
func (r *Repository) SaveDiagram(ctx context.Context, diagram *domain.Diagram) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO diagrams (id, name, width, height)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			width = excluded.width,
			height = excluded.height,
			updated_at = CURRENT_TIMESTAMP
	`, diagram.ID, diagram.Name, diagram.Width, diagram.Height)
	if err != nil {
		return fmt.Errorf("failed to upsert diagram: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE diagram_id = ?`, diagram.ID); err != nil {
		return fmt.Errorf("failed to clear nodes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM edges WHERE diagram_id = ?`, diagram.ID); err != nil {
		return fmt.Errorf("failed to clear edges: %w", err)
	}

	for _, node := range diagram.Nodes() {
		if err := insertNode(ctx, tx, diagram.ID, node); err != nil {
			return err
		}
	}
	for _, edge := range diagram.Edges() {
		if err := insertEdge(ctx, tx, diagram.ID, edge); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteDiagram removes a diagram and its contents
func (r *Repository) DeleteDiagram(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM diagrams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete diagram: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("diagram %s not found", id)
	}
	return nil
}

// UpsertNode stores a single node
func (r *Repository) UpsertNode(ctx context.Context, diagramID string, node *domain.Node) error {
	return insertNode(ctx, r.db, diagramID, node)
}

// DeleteNode removes a single node
func (r *Repository) DeleteNode(ctx context.Context, diagramID, nodeID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM nodes WHERE diagram_id = ? AND id = ?`, diagramID, nodeID)
	if err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}
	return nil
}

// UpsertEdge stores a single edge
func (r *Repository) UpsertEdge(ctx context.Context, diagramID string, edge *domain.Edge) error {
	return insertEdge(ctx, r.db, diagramID, edge)
}

// DeleteEdge removes a single edge
func (r *Repository) DeleteEdge(ctx context.Context, diagramID, edgeID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM edges WHERE diagram_id = ? AND id = ?`, diagramID, edgeID)
	if err != nil {
		return fmt.Errorf("failed to delete edge: %w", err)
	}
	return nil
}

// UpdateNodeIdentity updates only the identity column of a node. This is
// the write path used after every identification pass.
func (r *Repository) UpdateNodeIdentity(ctx context.Context, diagramID, nodeID string, identity domain.Identity) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE nodes SET identity = ? WHERE diagram_id = ? AND id = ?`,
		string(identity), diagramID, nodeID)
	if err != nil {
		return fmt.Errorf("failed to update node identity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("node %s not found in diagram %s", nodeID, diagramID)
	}
	return nil
}

// Close closes the underlying database
func (r *Repository) Close() error {
	return r.db.Close()
}
