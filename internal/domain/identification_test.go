package domain

import (
	"testing"
)

// Test fixture helpers

func addNode(t *testing.T, d *Diagram, id string, kind NodeKind) *Node {
	t.Helper()
	n := NewNode(id, kind, id)
	if err := d.AddNode(n); err != nil {
		t.Fatalf("failed to add node %s: %v", id, err)
	}
	return n
}

func addEdge(t *testing.T, d *Diagram, id string, kind EdgeKind, sourceID, targetID string) *Edge {
	t.Helper()
	e := NewEdge(id, kind, sourceID, targetID)
	if err := d.AddEdge(e); err != nil {
		t.Fatalf("failed to add edge %s: %v", id, err)
	}
	return e
}

func assertIdentity(t *testing.T, n *Node, want Identity) {
	t.Helper()
	if n.Identity != want {
		t.Errorf("node %s: expected identity %s, got %s", n.ID, want, n.Identity)
	}
}

func TestIdentifyNoOp(t *testing.T) {
	t.Run("start node with fixed identity is a no-op", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		concept := addNode(t, d, "c1", NodeConcept)

		changes := d.Identify(concept)
		if changes != nil {
			t.Errorf("expected no changes, got %d", len(changes))
		}
		assertIdentity(t, concept, IdentityConcept)
	})

	t.Run("nil start node is a no-op", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		if changes := d.Identify(nil); changes != nil {
			t.Errorf("expected no changes, got %d", len(changes))
		}
	})

	t.Run("isolated neutral node stays neutral", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		union := addNode(t, d, "u1", NodeUnion)

		d.Identify(union)
		assertIdentity(t, union, IdentityNeutral)
	})
}

func TestIdentifyAggregate(t *testing.T) {
	t.Run("empty strong set leaves weak nodes neutral", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		u1 := addNode(t, d, "u1", NodeUnion)
		u2 := addNode(t, d, "u2", NodeUnion)
		comp := addNode(t, d, "c1", NodeComplement)
		addEdge(t, d, "e1", EdgeInput, "u1", "u2")
		addEdge(t, d, "e2", EdgeInput, "u2", "c1")

		d.Identify(u2)
		assertIdentity(t, u1, IdentityNeutral)
		assertIdentity(t, u2, IdentityNeutral)
		assertIdentity(t, comp, IdentityNeutral)
	})

	t.Run("single strong identity propagates to all weak nodes", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		u1 := addNode(t, d, "u1", NodeUnion)
		u2 := addNode(t, d, "u2", NodeUnion)
		comp := addNode(t, d, "c1", NodeComplement)
		addEdge(t, d, "e1", EdgeInclusion, "u1", "u2")
		addEdge(t, d, "e2", EdgeInput, "u2", "c1")

		// u1 settled concretely by a previous pass.
		u1.SetIdentity(IdentityConcept)

		d.Identify(u2)
		assertIdentity(t, u2, IdentityConcept)
		assertIdentity(t, comp, IdentityConcept)
		assertIdentity(t, u1, IdentityConcept)
	})

	t.Run("contradictory strong identities yield unknown", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		u1 := addNode(t, d, "u1", NodeUnion)
		u2 := addNode(t, d, "u2", NodeUnion)
		u3 := addNode(t, d, "u3", NodeUnion)
		addEdge(t, d, "e1", EdgeInclusion, "u1", "u2")
		addEdge(t, d, "e2", EdgeInclusion, "u3", "u2")

		u1.SetIdentity(IdentityConcept)
		u3.SetIdentity(IdentityRole)

		d.Identify(u2)
		assertIdentity(t, u2, IdentityUnknown)
	})

	t.Run("changes are reported with old and new identity", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		u1 := addNode(t, d, "u1", NodeUnion)
		u2 := addNode(t, d, "u2", NodeUnion)
		addEdge(t, d, "e1", EdgeInclusion, "u1", "u2")
		u1.SetIdentity(IdentityRole)

		changes := d.Identify(u2)
		if len(changes) != 1 {
			t.Fatalf("expected 1 change, got %d", len(changes))
		}
		if changes[0].Node != u2 || changes[0].Old != IdentityNeutral || changes[0].New != IdentityRole {
			t.Errorf("unexpected change: %+v", changes[0])
		}
	})
}

func TestIdentifyEnumeration(t *testing.T) {
	t.Run("individual operands yield concept", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		enum := addNode(t, d, "en1", NodeEnumeration)
		addNode(t, d, "i1", NodeIndividual)
		addEdge(t, d, "e1", EdgeInput, "i1", "en1")

		d.Identify(enum)
		assertIdentity(t, enum, IdentityConcept)
	})

	t.Run("value operands yield value domain", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		enum := addNode(t, d, "en1", NodeEnumeration)
		i1 := addNode(t, d, "i1", NodeIndividual)
		i2 := addNode(t, d, "i2", NodeIndividual)
		i1.SetIdentity(IdentityValue)
		i2.SetIdentity(IdentityValue)
		addEdge(t, d, "e1", EdgeInput, "i1", "en1")
		addEdge(t, d, "e2", EdgeInput, "i2", "en1")

		d.Identify(enum)
		assertIdentity(t, enum, IdentityValueDomain)
	})

	t.Run("mixed operands yield unknown", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		enum := addNode(t, d, "en1", NodeEnumeration)
		addNode(t, d, "i1", NodeIndividual)
		addNode(t, d, "i2", NodeIndividual)
		i3 := addNode(t, d, "i3", NodeIndividual)
		i3.SetIdentity(IdentityValue)
		addEdge(t, d, "e1", EdgeInput, "i1", "en1")
		addEdge(t, d, "e2", EdgeInput, "i2", "en1")
		addEdge(t, d, "e3", EdgeInput, "i3", "en1")

		d.Identify(enum)
		assertIdentity(t, enum, IdentityUnknown)
	})

	t.Run("no operands leave the enumeration neutral", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		enum := addNode(t, d, "en1", NodeEnumeration)

		d.Identify(enum)
		assertIdentity(t, enum, IdentityNeutral)
	})

	t.Run("settled enumeration votes for its neighbors", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		enum := addNode(t, d, "en1", NodeEnumeration)
		union := addNode(t, d, "u1", NodeUnion)
		addNode(t, d, "i1", NodeIndividual)
		addEdge(t, d, "e1", EdgeInput, "i1", "en1")
		addEdge(t, d, "e2", EdgeInput, "en1", "u1")

		d.Identify(union)
		assertIdentity(t, enum, IdentityConcept)
		assertIdentity(t, union, IdentityConcept)
	})
}

func TestIdentifyRangeRestriction(t *testing.T) {
	t.Run("role operand yields concept", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		rr := addNode(t, d, "rr1", NodeRangeRestriction)
		addNode(t, d, "r1", NodeRole)
		addEdge(t, d, "e1", EdgeInput, "r1", "rr1")

		d.Identify(rr)
		assertIdentity(t, rr, IdentityConcept)
	})

	t.Run("attribute operand falls through to value domain", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		rr := addNode(t, d, "rr1", NodeRangeRestriction)
		addNode(t, d, "a1", NodeAttribute)
		addEdge(t, d, "e1", EdgeInput, "a1", "rr1")

		d.Identify(rr)
		assertIdentity(t, rr, IdentityValueDomain)
	})

	t.Run("role and attribute operands yield unknown", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		rr := addNode(t, d, "rr1", NodeRangeRestriction)
		addNode(t, d, "r1", NodeRole)
		addNode(t, d, "a1", NodeAttribute)
		addEdge(t, d, "e1", EdgeInput, "r1", "rr1")
		addEdge(t, d, "e2", EdgeInput, "a1", "rr1")

		d.Identify(rr)
		assertIdentity(t, rr, IdentityUnknown)
	})

	t.Run("neutral-capable operands are ignored", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		rr := addNode(t, d, "rr1", NodeRangeRestriction)
		u1 := addNode(t, d, "u1", NodeUnion)
		u1.SetIdentity(IdentityRole)
		addEdge(t, d, "e1", EdgeInput, "u1", "rr1")

		d.Identify(rr)
		// The union is not consumed locally; it votes through the
		// aggregate instead, and Role is outside the range restriction's
		// capability set, so the assignment collapses to Unknown.
		assertIdentity(t, rr, IdentityUnknown)
	})

	t.Run("settled range restriction votes for its neighbors", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		rr := addNode(t, d, "rr1", NodeRangeRestriction)
		inter := addNode(t, d, "in1", NodeIntersection)
		addNode(t, d, "r1", NodeRole)
		addEdge(t, d, "e1", EdgeInput, "r1", "rr1")
		addEdge(t, d, "e2", EdgeInput, "rr1", "in1")

		d.Identify(inter)
		assertIdentity(t, rr, IdentityConcept)
		assertIdentity(t, inter, IdentityConcept)
	})
}

func TestIdentifyPropertyAssertion(t *testing.T) {
	t.Run("two individual operands yield role instance", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		pa := addNode(t, d, "pa1", NodePropertyAssertion)
		addNode(t, d, "i1", NodeIndividual)
		addNode(t, d, "i2", NodeIndividual)
		addEdge(t, d, "e1", EdgeInput, "i1", "pa1")
		addEdge(t, d, "e2", EdgeInput, "i2", "pa1")

		d.Identify(pa)
		assertIdentity(t, pa, IdentityRoleInstance)
	})

	t.Run("value operand demotes to attribute instance", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		pa := addNode(t, d, "pa1", NodePropertyAssertion)
		addNode(t, d, "i1", NodeIndividual)
		i2 := addNode(t, d, "i2", NodeIndividual)
		i2.SetIdentity(IdentityValue)
		addEdge(t, d, "e1", EdgeInput, "i1", "pa1")
		addEdge(t, d, "e2", EdgeInput, "i2", "pa1")

		d.Identify(pa)
		assertIdentity(t, pa, IdentityAttributeInstance)
	})

	t.Run("single operand is not enough", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		pa := addNode(t, d, "pa1", NodePropertyAssertion)
		addNode(t, d, "i1", NodeIndividual)
		addEdge(t, d, "e1", EdgeInput, "i1", "pa1")

		d.Identify(pa)
		assertIdentity(t, pa, IdentityNeutral)
	})

	t.Run("membership edge to a role wins over inputs", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		pa := addNode(t, d, "pa1", NodePropertyAssertion)
		addNode(t, d, "r1", NodeRole)
		addEdge(t, d, "e1", EdgeMembership, "pa1", "r1")

		d.Identify(pa)
		assertIdentity(t, pa, IdentityRoleInstance)
	})

	t.Run("membership edge to an attribute yields attribute instance", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		pa := addNode(t, d, "pa1", NodePropertyAssertion)
		addNode(t, d, "a1", NodeAttribute)
		addEdge(t, d, "e1", EdgeMembership, "pa1", "a1")

		d.Identify(pa)
		assertIdentity(t, pa, IdentityAttributeInstance)
	})

	t.Run("membership edge to a role inverse yields role instance", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		pa := addNode(t, d, "pa1", NodePropertyAssertion)
		addNode(t, d, "ri1", NodeRoleInverse)
		addEdge(t, d, "e1", EdgeMembership, "pa1", "ri1")

		d.Identify(pa)
		assertIdentity(t, pa, IdentityRoleInstance)
	})

	t.Run("assertion is excluded from the aggregate", func(t *testing.T) {
		d := NewDiagram("d1", "test")
		pa := addNode(t, d, "pa1", NodePropertyAssertion)
		union := addNode(t, d, "u1", NodeUnion)
		addNode(t, d, "i1", NodeIndividual)
		addNode(t, d, "i2", NodeIndividual)
		addEdge(t, d, "e1", EdgeInput, "i1", "pa1")
		addEdge(t, d, "e2", EdgeInput, "i2", "pa1")
		addEdge(t, d, "e3", EdgeInclusion, "pa1", "u1")

		d.Identify(pa)
		// The assertion settles as a role instance but neither votes for
		// nor receives the aggregate: the union stays neutral.
		assertIdentity(t, pa, IdentityRoleInstance)
		assertIdentity(t, union, IdentityNeutral)
	})
}

func TestIdentifyTraversalBoundary(t *testing.T) {
	d := NewDiagram("d1", "test")
	union := addNode(t, d, "u1", NodeUnion)
	concept := addNode(t, d, "c1", NodeConcept)
	u2 := addNode(t, d, "u2", NodeUnion)
	addEdge(t, d, "e1", EdgeInclusion, "c1", "u1")
	addEdge(t, d, "e2", EdgeInclusion, "c1", "u2")

	changes := d.Identify(union)

	// The concept node bounds the traversal: it is never altered and it
	// never votes, and nodes behind it are not reached.
	assertIdentity(t, concept, IdentityConcept)
	assertIdentity(t, union, IdentityNeutral)
	for _, c := range changes {
		if c.Node == concept {
			t.Error("expected concept node to be untouched")
		}
		if c.Node == u2 {
			t.Error("expected traversal not to cross the concept boundary")
		}
	}
}

func TestIdentifyIdempotence(t *testing.T) {
	d := NewDiagram("d1", "test")
	enum := addNode(t, d, "en1", NodeEnumeration)
	addNode(t, d, "u1", NodeUnion)
	addNode(t, d, "i1", NodeIndividual)
	i2 := addNode(t, d, "i2", NodeIndividual)
	i2.SetIdentity(IdentityValue)
	pa := addNode(t, d, "pa1", NodePropertyAssertion)
	addEdge(t, d, "e1", EdgeInput, "i1", "en1")
	addEdge(t, d, "e2", EdgeInput, "en1", "u1")
	addEdge(t, d, "e3", EdgeInput, "i1", "pa1")
	addEdge(t, d, "e4", EdgeInput, "i2", "pa1")
	addEdge(t, d, "e5", EdgeInclusion, "pa1", "u1")

	d.Identify(enum)
	d.Identify(pa)
	first := snapshotIdentities(d)

	changes := d.Identify(enum)
	if len(changes) != 0 {
		t.Errorf("expected no changes on second pass, got %d", len(changes))
	}
	second := snapshotIdentities(d)

	for id, identity := range first {
		if second[id] != identity {
			t.Errorf("node %s: identity changed from %s to %s between passes", id, identity, second[id])
		}
	}
}

func TestIdentifyDeterminism(t *testing.T) {
	build := func() *Diagram {
		d := NewDiagram("d1", "test")
		addNode(t, d, "en1", NodeEnumeration)
		addNode(t, d, "u1", NodeUnion)
		addNode(t, d, "u2", NodeUnion)
		addNode(t, d, "rr1", NodeRangeRestriction)
		addNode(t, d, "i1", NodeIndividual)
		addNode(t, d, "r1", NodeRole)
		addEdge(t, d, "e1", EdgeInput, "i1", "en1")
		addEdge(t, d, "e2", EdgeInput, "en1", "u1")
		addEdge(t, d, "e3", EdgeInclusion, "u1", "u2")
		addEdge(t, d, "e4", EdgeInput, "r1", "rr1")
		addEdge(t, d, "e5", EdgeInput, "rr1", "u2")
		return d
	}

	d1 := build()
	d2 := build()
	d1.Identify(d1.Node("u1"))
	d2.Identify(d2.Node("u1"))

	first := snapshotIdentities(d1)
	second := snapshotIdentities(d2)
	for id, identity := range first {
		if second[id] != identity {
			t.Errorf("node %s: expected %s on both runs, got %s", id, identity, second[id])
		}
	}
}

func TestIdentifyCapabilityInvariant(t *testing.T) {
	d := NewDiagram("d1", "test")
	addNode(t, d, "en1", NodeEnumeration)
	addNode(t, d, "u1", NodeUnion)
	addNode(t, d, "comp1", NodeComplement)
	addNode(t, d, "rr1", NodeRangeRestriction)
	addNode(t, d, "pa1", NodePropertyAssertion)
	addNode(t, d, "i1", NodeIndividual)
	addNode(t, d, "a1", NodeAttribute)
	addNode(t, d, "r1", NodeRole)
	addEdge(t, d, "e1", EdgeInput, "i1", "en1")
	addEdge(t, d, "e2", EdgeInput, "en1", "u1")
	addEdge(t, d, "e3", EdgeInclusion, "u1", "comp1")
	addEdge(t, d, "e4", EdgeInput, "a1", "rr1")
	addEdge(t, d, "e5", EdgeInput, "r1", "rr1")
	addEdge(t, d, "e6", EdgeInput, "rr1", "comp1")
	addEdge(t, d, "e7", EdgeInput, "i1", "pa1")
	addEdge(t, d, "e8", EdgeInclusion, "pa1", "u1")

	for _, start := range d.Nodes() {
		d.Identify(start)
	}

	for _, n := range d.Nodes() {
		if n.Identity == IdentityUnknown {
			continue
		}
		if !n.Identities().Contains(n.Identity) {
			t.Errorf("node %s: identity %s outside capability set", n.ID, n.Identity)
		}
	}
}

func snapshotIdentities(d *Diagram) map[string]Identity {
	out := make(map[string]Identity, d.NodeCount())
	for _, n := range d.Nodes() {
		out[n.ID] = n.Identity
	}
	return out
}
