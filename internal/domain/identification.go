package domain

// IdentityChange records a node whose identity was reassigned by Identify
type IdentityChange struct {
	Node *Node
	Old  Identity
	New  Identity
}

// Identify recomputes the identity of every neutral-capable node reachable
// from start and returns the resulting changes in assignment order.
//
// The pass runs in four steps:
//
//  1. Breadth-first traversal from start over undirected adjacency,
//     collecting only neutral-capable nodes. Nodes with a fixed identity
//     are traversal boundaries and are never visited or altered. The
//     collection is partitioned into strong (currently concrete) and weak
//     (currently Neutral) sets.
//
//  2. Kind-specific rules settle enumeration, range restriction, and
//     property assertion nodes from their local operands. Settled nodes
//     join the strong set (or the excluded set for property assertions,
//     which operate at ABox level) and their consumed operands stop voting.
//
//  3. The distinct identities of the strong set collapse into one
//     aggregate: Neutral when empty, the single value when unanimous,
//     Unknown when contradictory.
//
//  4. Every remaining weak node receives the aggregate.
//
// Identify is a no-op when start cannot be Neutral. It mutates only node
// identities; ambiguity degrades to Unknown rather than an error.
func (d *Diagram) Identify(start *Node) []IdentityChange {
	if start == nil || !start.NeutralCapable() {
		return nil
	}

	collection := d.collectNeutralCapable(start)

	strong := newNodeSet()
	weak := newNodeSet()
	excluded := newNodeSet()
	for _, n := range collection {
		if n.Identity == IdentityNeutral {
			weak.add(n)
		} else {
			strong.add(n)
		}
	}

	var changes []IdentityChange
	assign := func(n *Node, identity Identity) {
		old := n.Identity
		n.SetIdentity(identity)
		if n.Identity != old {
			changes = append(changes, IdentityChange{Node: n, Old: old, New: n.Identity})
		}
	}

	weakNodes := weak.values()
	for _, n := range weakNodes {
		switch n.Kind {
		case NodeEnumeration:
			// Individual inputs identify the enumeration as a concept,
			// value inputs as a value domain. Consumed operands no longer
			// vote; the settled enumeration votes in their place.
			operands := d.IncomingNodes(n, EdgeKindIs(EdgeInput), NodeKindIs(NodeIndividual))
			computed := mappedIdentity(operands, func(op *Node) Identity {
				if op.Identity == IdentityIndividual {
					return IdentityConcept
				}
				return IdentityValueDomain
			})
			assign(n, computed)
			if n.Identity != IdentityNeutral {
				strong.add(n)
			}
			for _, op := range operands {
				strong.discard(op)
			}

		case NodeRangeRestriction:
			// An attribute input makes the range restriction a value
			// domain; role or concept inputs make it a concept. Only
			// operands with a fixed Role/Attribute/Concept identity count.
			operands := d.IncomingNodes(n, EdgeKindIs(EdgeInput), func(op *Node) bool {
				switch op.Identity {
				case IdentityRole, IdentityAttribute, IdentityConcept:
					return !op.NeutralCapable()
				}
				return false
			})
			computed := mappedIdentity(operands, func(op *Node) Identity {
				if op.Identity == IdentityRole || op.Identity == IdentityConcept {
					return IdentityConcept
				}
				return IdentityValueDomain
			})
			assign(n, computed)
			if n.Identity != IdentityNeutral {
				strong.add(n)
			}
			for _, op := range operands {
				strong.discard(op)
			}

		case NodePropertyAssertion:
			// A membership edge to a role or attribute decides the
			// assertion kind. Failing that, two or more individual inputs
			// mark a role instance, demoted to attribute instance when a
			// literal value is among them. The assertion operates at ABox
			// level, so it never votes nor receives the aggregate, and
			// its individual operands stop voting as well.
			outgoing := d.OutgoingNodes(n, EdgeKindIs(EdgeMembership), func(op *Node) bool {
				switch op.Kind {
				case NodeRole, NodeRoleInverse, NodeAttribute:
					return true
				}
				return false
			})
			incoming := d.IncomingNodes(n, EdgeKindIs(EdgeInput), NodeKindIs(NodeIndividual))

			computed := mappedIdentity(outgoing, func(op *Node) Identity {
				if op.Identity == IdentityRole {
					return IdentityRoleInstance
				}
				return IdentityAttributeInstance
			})
			if computed == IdentityNeutral && len(incoming) >= 2 {
				computed = IdentityRoleInstance
				for _, op := range incoming {
					if op.Identity == IdentityValue {
						computed = IdentityAttributeInstance
						break
					}
				}
			}

			assign(n, computed)
			excluded.add(n)
			for _, op := range incoming {
				strong.discard(op)
			}
		}
	}

	aggregate := mappedIdentity(strong.values(), func(n *Node) Identity {
		return n.Identity
	})

	for _, n := range weakNodes {
		if strong.contains(n) || excluded.contains(n) {
			continue
		}
		assign(n, aggregate)
	}

	return changes
}

// collectNeutralCapable performs the breadth-first reachability pass,
// returning neutral-capable nodes in discovery order. Nodes that cannot
// be Neutral bound the traversal and are not collected.
func (d *Diagram) collectNeutralCapable(start *Node) []*Node {
	visited := map[string]struct{}{start.ID: {}}
	queue := []*Node{start}
	var collection []*Node
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		collection = append(collection, n)
		for _, adjacent := range d.AdjacentNodes(n) {
			if _, seen := visited[adjacent.ID]; seen {
				continue
			}
			if !adjacent.NeutralCapable() {
				continue
			}
			visited[adjacent.ID] = struct{}{}
			queue = append(queue, adjacent)
		}
	}
	return collection
}

// mappedIdentity maps every node through convert and collapses the
// distinct results: Neutral when there are none, the value itself when
// unanimous, Unknown when contradictory.
func mappedIdentity(nodes []*Node, convert func(*Node) Identity) Identity {
	computed := IdentityNeutral
	seen := make(map[Identity]struct{}, 2)
	for _, n := range nodes {
		identity := convert(n)
		if _, ok := seen[identity]; ok {
			continue
		}
		seen[identity] = struct{}{}
		if len(seen) == 1 {
			computed = identity
		} else {
			computed = IdentityUnknown
		}
	}
	return computed
}

// nodeSet is an insertion-ordered node set used by the identification
// working sets. Iteration order is the order of first insertion, which
// keeps the pass deterministic.
type nodeSet struct {
	members map[string]struct{}
	order   []*Node
}

func newNodeSet() *nodeSet {
	return &nodeSet{members: make(map[string]struct{})}
}

func (s *nodeSet) add(n *Node) {
	if _, ok := s.members[n.ID]; ok {
		return
	}
	s.members[n.ID] = struct{}{}
	s.order = append(s.order, n)
}

func (s *nodeSet) discard(n *Node) {
	delete(s.members, n.ID)
}

func (s *nodeSet) contains(n *Node) bool {
	_, ok := s.members[n.ID]
	return ok
}

// values returns the current members in first-insertion order. Nodes that
// were discarded and re-added keep their original position.
func (s *nodeSet) values() []*Node {
	out := make([]*Node, 0, len(s.members))
	emitted := make(map[string]struct{}, len(s.members))
	for _, n := range s.order {
		if _, ok := s.members[n.ID]; !ok {
			continue
		}
		if _, dup := emitted[n.ID]; dup {
			continue
		}
		emitted[n.ID] = struct{}{}
		out = append(out, n)
	}
	return out
}
