package item

import (
	"strings"
	"testing"

	"github.com/electrolean/electrolean/frontend"
)

// Scenario: struct A has a field naming struct B, so B must be emitted
// before A (spec §4.6, "Emission": "condensation-ordered body emission").
func TestEmitterOrdersByDependency(t *testing.T) {
	fc := frontend.NewTestContext()
	const aID, bID frontend.DefID = 1, 2
	fc.Def(aID, "pkg::A", frontend.KindStruct)
	fc.Def(bID, "pkg::B", frontend.KindStruct)

	reg := NewRegistry()
	a := &frontend.StructItem{
		ID:   aID,
		Name: "A",
		Kind: frontend.RecordStruct,
		Fields: []frontend.FieldDecl{
			{Name: "b", Type: frontend.Named{Def: bID}},
		},
	}
	b := &frontend.StructItem{ID: bID, Name: "B", Kind: frontend.RecordStruct}
	reg.VisitItem(a)
	reg.VisitItem(b)

	types := newTypes(fc)
	tr := NewTranslator(fc, types, reg, frontend.FakeMIRTable{})
	tr.VisitItem(a)
	tr.VisitItem(b)

	var buf strings.Builder
	em := NewEmitter("pkg", false, tr.Results, types.Resolver.Graph, nil)
	if err := em.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()

	posA := strings.Index(out, "pkg.A")
	posB := strings.Index(out, "pkg.B")
	if posA == -1 || posB == -1 {
		t.Fatalf("expected both pkg.A and pkg.B in output:\n%s", out)
	}
	if posB > posA {
		t.Errorf("expected pkg.B before pkg.A (B is a dependency), got:\n%s", out)
	}
}

// Scenario: two enums referencing each other form a single-node
// condensation component; since both translate to `inductive`, the
// emitter merges them with `with` (spec §4.6, "Emission").
func TestEmitterMergesMutuallyRecursiveInductives(t *testing.T) {
	fc := frontend.NewTestContext()
	const aID, bID frontend.DefID = 1, 2
	fc.Def(aID, "pkg::A", frontend.KindEnum)
	fc.Def(bID, "pkg::B", frontend.KindEnum)

	reg := NewRegistry()
	a := &frontend.EnumItem{
		ID:   aID,
		Name: "A",
		Variants: []frontend.VariantDecl{
			{ID: 11, Name: "Wrap", Kind: frontend.TupleVariant, Fields: []frontend.Type{frontend.Named{Def: bID}}},
		},
	}
	b := &frontend.EnumItem{
		ID:   bID,
		Name: "B",
		Variants: []frontend.VariantDecl{
			{ID: 21, Name: "Leaf", Kind: frontend.UnitVariant},
			{ID: 22, Name: "Wrap", Kind: frontend.TupleVariant, Fields: []frontend.Type{frontend.Named{Def: aID}}},
		},
	}
	reg.VisitItem(a)
	reg.VisitItem(b)

	types := newTypes(fc)
	tr := NewTranslator(fc, types, reg, frontend.FakeMIRTable{})
	tr.VisitItem(a)
	tr.VisitItem(b)

	var buf strings.Builder
	em := NewEmitter("pkg", false, tr.Results, types.Resolver.Graph, nil)
	if err := em.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "\n\nwith") {
		t.Errorf("expected a merged `inductive ... with ...` block, got:\n%s", out)
	}
	if !strings.Contains(out, "pkg.A") || !strings.Contains(out, "pkg.B") {
		t.Errorf("expected both pkg.A and pkg.B in merged output, got:\n%s", out)
	}
}

// Scenario: --only filters to the requested item plus its dependency
// closure, dropping unrelated items entirely (spec §6, "--only <CSV>").
func TestEmitterOnlyFilterClosure(t *testing.T) {
	fc := frontend.NewTestContext()
	const aID, bID, cID frontend.DefID = 1, 2, 3
	fc.Def(aID, "pkg::A", frontend.KindStruct)
	fc.Def(bID, "pkg::B", frontend.KindStruct)
	fc.Def(cID, "pkg::C", frontend.KindStruct)

	reg := NewRegistry()
	a := &frontend.StructItem{
		ID:   aID,
		Name: "A",
		Kind: frontend.RecordStruct,
		Fields: []frontend.FieldDecl{
			{Name: "b", Type: frontend.Named{Def: bID}},
		},
	}
	b := &frontend.StructItem{ID: bID, Name: "B", Kind: frontend.RecordStruct}
	c := &frontend.StructItem{ID: cID, Name: "C", Kind: frontend.RecordStruct}
	reg.VisitItem(a)
	reg.VisitItem(b)
	reg.VisitItem(c)

	types := newTypes(fc)
	tr := NewTranslator(fc, types, reg, frontend.FakeMIRTable{})
	tr.VisitItem(a)
	tr.VisitItem(b)
	tr.VisitItem(c)

	var buf strings.Builder
	em := NewEmitter("pkg", false, tr.Results, types.Resolver.Graph, []string{"pkg.A"})
	if err := em.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "pkg.A") {
		t.Errorf("expected the requested item pkg.A in output, got:\n%s", out)
	}
	if !strings.Contains(out, "pkg.B") {
		t.Errorf("expected pkg.B (a dependency of pkg.A) in output, got:\n%s", out)
	}
	if strings.Contains(out, "pkg.C") {
		t.Errorf("did not expect unrelated pkg.C in output, got:\n%s", out)
	}
}
