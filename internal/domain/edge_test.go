package domain

import "testing"

func TestEdgeOther(t *testing.T) {
	e := NewEdge("e1", EdgeInclusion, "a", "b")

	if got := e.Other("a"); got != "b" {
		t.Errorf("expected b, got %s", got)
	}
	if got := e.Other("b"); got != "a" {
		t.Errorf("expected a, got %s", got)
	}
	if got := e.Other("c"); got != "" {
		t.Errorf("expected empty string for unrelated node, got %s", got)
	}
}

func TestEdgeKindValid(t *testing.T) {
	for _, kind := range []EdgeKind{EdgeInput, EdgeInclusion, EdgeEquivalence, EdgeMembership} {
		if !kind.Valid() {
			t.Errorf("expected %s to be valid", kind)
		}
	}
	if EdgeKind("dashed").Valid() {
		t.Error("expected unknown edge kind to be invalid")
	}
}
