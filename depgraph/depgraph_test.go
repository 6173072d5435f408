package depgraph

import (
	"testing"

	"github.com/electrolean/electrolean/frontend"
)

func TestToposortRespectsDependencies(t *testing.T) {
	g := New()
	const a, b, c frontend.DefID = 1, 2, 3
	// c depends on b, b depends on a.
	g.AddDep(a, b)
	g.AddDep(b, c)

	cond := g.Condense()
	order := cond.Toposort()

	pos := map[frontend.DefID]int{}
	for i, comp := range order {
		for _, d := range cond.Members(comp) {
			pos[d] = i
		}
	}
	if !(pos[a] < pos[b] && pos[b] < pos[c]) {
		t.Fatalf("expected order a < b < c, got positions %v", pos)
	}
}

func TestCondenseMergesCycle(t *testing.T) {
	g := New()
	const a, b frontend.DefID = 1, 2
	g.AddDep(a, b)
	g.AddDep(b, a)

	cond := g.Condense()
	if cond.NumComponents() != 1 {
		t.Fatalf("expected 1 component for a<->b cycle, got %d", cond.NumComponents())
	}
	members := cond.Members(0)
	if len(members) != 2 {
		t.Fatalf("expected 2 members in the merged component, got %d", len(members))
	}
}

func TestHasSelfEdge(t *testing.T) {
	g := New()
	const f frontend.DefID = 1
	if g.HasSelfEdge(f) {
		t.Fatal("fresh graph should have no self edge")
	}
	g.AddDep(f, f)
	if !g.HasSelfEdge(f) {
		t.Fatal("expected self edge after AddDep(f, f)")
	}
}

func TestReverseReachableClosure(t *testing.T) {
	g := New()
	const a, b, c, d frontend.DefID = 1, 2, 3, 4
	// b depends on a; c depends on b; d is unrelated.
	g.AddDep(a, b)
	g.AddDep(b, c)
	g.NodeOf(d)

	closure := g.ReverseReachable([]frontend.DefID{c})
	for _, want := range []frontend.DefID{a, b, c} {
		if !closure[want] {
			t.Errorf("expected %v in closure of {c}, got %v", want, closure)
		}
	}
	if closure[d] {
		t.Errorf("did not expect unrelated def %v in closure", d)
	}
}
