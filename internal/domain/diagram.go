package domain

import "fmt"

// Diagram is the graph container for a single Graphol diagram. Nodes and
// edges are kept in insertion order so that traversal is deterministic;
// incident edge lists are back-references maintained by AddEdge/RemoveEdge.
type Diagram struct {
	ID     string
	Name   string
	Width  int
	Height int

	nodes     map[string]*Node
	edges     map[string]*Edge
	nodeOrder []string
	edgeOrder []string
	incident  map[string][]string // node ID -> incident edge IDs, insertion order
}

// NewDiagram creates an empty diagram
func NewDiagram(id, name string) *Diagram {
	return &Diagram{
		ID:       id,
		Name:     name,
		nodes:    make(map[string]*Node),
		edges:    make(map[string]*Edge),
		incident: make(map[string][]string),
	}
}

// Node returns the node with the given ID, or nil
func (d *Diagram) Node(id string) *Node {
	return d.nodes[id]
}

// Edge returns the edge with the given ID, or nil
func (d *Diagram) Edge(id string) *Edge {
	return d.edges[id]
}

// Nodes returns all nodes in insertion order
func (d *Diagram) Nodes() []*Node {
	out := make([]*Node, 0, len(d.nodeOrder))
	for _, id := range d.nodeOrder {
		out = append(out, d.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order
func (d *Diagram) Edges() []*Edge {
	out := make([]*Edge, 0, len(d.edgeOrder))
	for _, id := range d.edgeOrder {
		out = append(out, d.edges[id])
	}
	return out
}

// NodeCount returns the number of nodes
func (d *Diagram) NodeCount() int {
	return len(d.nodes)
}

// EdgeCount returns the number of edges
func (d *Diagram) EdgeCount() int {
	return len(d.edges)
}

// AddNode adds a node to the diagram
func (d *Diagram) AddNode(n *Node) error {
	if n.ID == "" {
		return fmt.Errorf("node ID required")
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("unknown node kind %q", n.Kind)
	}
	if _, exists := d.nodes[n.ID]; exists {
		return fmt.Errorf("node %s already exists", n.ID)
	}
	d.nodes[n.ID] = n
	d.nodeOrder = append(d.nodeOrder, n.ID)
	return nil
}

// AddEdge adds an edge to the diagram. Both endpoints must already exist.
func (d *Diagram) AddEdge(e *Edge) error {
	if e.ID == "" {
		return fmt.Errorf("edge ID required")
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("unknown edge kind %q", e.Kind)
	}
	if _, exists := d.edges[e.ID]; exists {
		return fmt.Errorf("edge %s already exists", e.ID)
	}
	source := d.nodes[e.SourceID]
	target := d.nodes[e.TargetID]
	if source == nil {
		return fmt.Errorf("edge %s source node %s not found", e.ID, e.SourceID)
	}
	if target == nil {
		return fmt.Errorf("edge %s target node %s not found", e.ID, e.TargetID)
	}
	d.edges[e.ID] = e
	d.edgeOrder = append(d.edgeOrder, e.ID)
	d.incident[e.SourceID] = append(d.incident[e.SourceID], e.ID)
	if e.TargetID != e.SourceID {
		d.incident[e.TargetID] = append(d.incident[e.TargetID], e.ID)
	}
	if e.Kind == EdgeInput {
		target.AddInput(e.ID)
	}
	return nil
}

// RemoveEdge removes an edge and its back-references. It returns the
// removed edge, or nil if no such edge exists.
func (d *Diagram) RemoveEdge(id string) *Edge {
	e, ok := d.edges[id]
	if !ok {
		return nil
	}
	delete(d.edges, id)
	d.edgeOrder = removeID(d.edgeOrder, id)
	d.incident[e.SourceID] = removeID(d.incident[e.SourceID], id)
	d.incident[e.TargetID] = removeID(d.incident[e.TargetID], id)
	if target := d.nodes[e.TargetID]; target != nil && e.Kind == EdgeInput {
		target.RemoveInput(id)
	}
	return e
}

// RemoveNode removes a node together with its incident edges. It returns
// the removed incident edges so callers can reprocess the touched
// endpoints.
func (d *Diagram) RemoveNode(id string) []*Edge {
	n, ok := d.nodes[id]
	if !ok {
		return nil
	}
	var removed []*Edge
	for _, eid := range append([]string(nil), d.incident[id]...) {
		if e := d.RemoveEdge(eid); e != nil {
			removed = append(removed, e)
		}
	}
	delete(d.nodes, n.ID)
	delete(d.incident, n.ID)
	d.nodeOrder = removeID(d.nodeOrder, n.ID)
	return removed
}

// IncidentEdges returns the edges touching the given node, in insertion order
func (d *Diagram) IncidentEdges(nodeID string) []*Edge {
	ids := d.incident[nodeID]
	out := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.edges[id])
	}
	return out
}

// EdgeFilter selects edges during adjacency traversal
type EdgeFilter func(*Edge) bool

// NodeFilter selects nodes during adjacency traversal
type NodeFilter func(*Node) bool

// EdgeKindIs returns a filter matching edges of the given kind
func EdgeKindIs(kind EdgeKind) EdgeFilter {
	return func(e *Edge) bool { return e.Kind == kind }
}

// NodeKindIs returns a filter matching nodes of the given kind
func NodeKindIs(kind NodeKind) NodeFilter {
	return func(n *Node) bool { return n.Kind == kind }
}

// IncomingNodes returns the source endpoints of edges targeting the given
// node, filtered by the optional edge and node filters, in insertion order.
func (d *Diagram) IncomingNodes(n *Node, edgeFilter EdgeFilter, nodeFilter NodeFilter) []*Node {
	var out []*Node
	for _, e := range d.IncidentEdges(n.ID) {
		if e.TargetID != n.ID {
			continue
		}
		if edgeFilter != nil && !edgeFilter(e) {
			continue
		}
		source := d.nodes[e.SourceID]
		if source == nil {
			continue
		}
		if nodeFilter != nil && !nodeFilter(source) {
			continue
		}
		out = append(out, source)
	}
	return out
}

// OutgoingNodes returns the target endpoints of edges sourced at the given
// node, filtered by the optional edge and node filters, in insertion order.
func (d *Diagram) OutgoingNodes(n *Node, edgeFilter EdgeFilter, nodeFilter NodeFilter) []*Node {
	var out []*Node
	for _, e := range d.IncidentEdges(n.ID) {
		if e.SourceID != n.ID {
			continue
		}
		if edgeFilter != nil && !edgeFilter(e) {
			continue
		}
		target := d.nodes[e.TargetID]
		if target == nil {
			continue
		}
		if nodeFilter != nil && !nodeFilter(target) {
			continue
		}
		out = append(out, target)
	}
	return out
}

// AdjacentNodes returns the opposite endpoint of every incident edge,
// regardless of direction, in insertion order. A neighbor connected by
// several edges appears once per edge; visited-set traversal dedups.
func (d *Diagram) AdjacentNodes(n *Node) []*Node {
	var out []*Node
	for _, e := range d.IncidentEdges(n.ID) {
		other := d.nodes[e.Other(n.ID)]
		if other != nil {
			out = append(out, other)
		}
	}
	return out
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
