package domain

// EdgeKind represents the kind of diagram edge. The string values match
// the type attribute used by the .graphol interchange format.
type EdgeKind string

const (
	EdgeInput       EdgeKind = "input"
	EdgeInclusion   EdgeKind = "inclusion"
	EdgeEquivalence EdgeKind = "equivalence"
	EdgeMembership  EdgeKind = "membership"
)

// Valid reports whether the kind is a known edge kind
func (k EdgeKind) Valid() bool {
	switch k {
	case EdgeInput, EdgeInclusion, EdgeEquivalence, EdgeMembership:
		return true
	}
	return false
}

// Point is a breakpoint on an edge path
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Edge represents a typed connection between two nodes. Edges reference
// their endpoints by ID and do not own them.
type Edge struct {
	ID          string   `json:"id"`
	Kind        EdgeKind `json:"kind"`
	SourceID    string   `json:"source_id"`
	TargetID    string   `json:"target_id"`
	Breakpoints []Point  `json:"breakpoints,omitempty"`
}

// NewEdge creates a new edge between the given endpoints
func NewEdge(id string, kind EdgeKind, sourceID, targetID string) *Edge {
	return &Edge{
		ID:       id,
		Kind:     kind,
		SourceID: sourceID,
		TargetID: targetID,
	}
}

// Other returns the endpoint opposite to the given node ID. It returns
// the source for the target and vice versa; an unrelated ID yields "".
func (e *Edge) Other(nodeID string) string {
	switch nodeID {
	case e.SourceID:
		return e.TargetID
	case e.TargetID:
		return e.SourceID
	}
	return ""
}
