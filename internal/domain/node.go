package domain

// NodeKind represents the kind of diagram node. The string values match
// the type attribute used by the .graphol interchange format.
type NodeKind string

const (
	NodeConcept             NodeKind = "concept"
	NodeRole                NodeKind = "role"
	NodeAttribute           NodeKind = "attribute"
	NodeValueDomain         NodeKind = "value-domain"
	NodeIndividual          NodeKind = "individual"
	NodeFacet               NodeKind = "facet"
	NodeEnumeration         NodeKind = "enumeration"
	NodeIntersection        NodeKind = "intersection"
	NodeUnion               NodeKind = "union"
	NodeDisjointUnion       NodeKind = "disjoint-union"
	NodeComplement          NodeKind = "complement"
	NodeDatatypeRestriction NodeKind = "datatype-restriction"
	NodeDomainRestriction   NodeKind = "domain-restriction"
	NodeRangeRestriction    NodeKind = "range-restriction"
	NodePropertyAssertion   NodeKind = "property-assertion"
	NodeRoleChain           NodeKind = "role-chain"
	NodeRoleInverse         NodeKind = "role-inverse"
)

// Valid reports whether the kind is a known node kind
func (k NodeKind) Valid() bool {
	_, ok := nodeIdentities[k]
	return ok
}

// Identities returns the capability set for this node kind
func (k NodeKind) Identities() IdentitySet {
	return nodeIdentities[k]
}

// Geometry holds the position and size of a node on the diagram sheet
type Geometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Node represents a vertex in a Graphol diagram
type Node struct {
	ID       string   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Label    string   `json:"label,omitempty"`
	Identity Identity `json:"identity"`
	Geometry Geometry `json:"geometry"`

	// Inputs is the ordered list of input edge IDs for kinds with ordered
	// operands (property assertion, role chain). Maintained by the host,
	// read-only for identification.
	Inputs []string `json:"inputs,omitempty"`
}

// NewNode creates a node with the initial identity for its kind:
// the fixed identity for single-capability kinds, Neutral otherwise.
func NewNode(id string, kind NodeKind, label string) *Node {
	identity := IdentityNeutral
	if fixed, ok := initialIdentity[kind]; ok {
		identity = fixed
	}
	return &Node{
		ID:       id,
		Kind:     kind,
		Label:    label,
		Identity: identity,
	}
}

// Identities returns the set of identities this node is capable of holding
func (n *Node) Identities() IdentitySet {
	return n.Kind.Identities()
}

// NeutralCapable reports whether Neutral is a possible identity for this
// node, i.e. whether the node participates in identification.
func (n *Node) NeutralCapable() bool {
	return n.Kind.Identities().Contains(IdentityNeutral)
}

// SetIdentity assigns an identity to the node. An identity outside the
// node's capability set collapses to Unknown, so the node never holds a
// value its kind cannot represent.
func (n *Node) SetIdentity(identity Identity) {
	if identity != IdentityUnknown && !n.Identities().Contains(identity) {
		identity = IdentityUnknown
	}
	n.Identity = identity
}

// AddInput appends an edge ID to the ordered input list, ignoring duplicates
func (n *Node) AddInput(edgeID string) {
	for _, id := range n.Inputs {
		if id == edgeID {
			return
		}
	}
	n.Inputs = append(n.Inputs, edgeID)
}

// RemoveInput removes an edge ID from the ordered input list
func (n *Node) RemoveInput(edgeID string) {
	for i, id := range n.Inputs {
		if id == edgeID {
			n.Inputs = append(n.Inputs[:i], n.Inputs[i+1:]...)
			return
		}
	}
}
