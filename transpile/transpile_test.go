package transpile

import (
	"strings"
	"testing"

	"github.com/electrolean/electrolean/depgraph"
	"github.com/electrolean/electrolean/frontend"
	"github.com/electrolean/electrolean/region"
	"github.com/electrolean/electrolean/typetr"
)

// fakeRegistry is a minimal in-memory Registry, the transpile-package
// analogue of frontend.FakeContext.
type fakeRegistry struct {
	structs map[frontend.DefID]*frontend.StructItem
	enums   map[frontend.DefID]*frontend.EnumItem
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		structs: map[frontend.DefID]*frontend.StructItem{},
		enums:   map[frontend.DefID]*frontend.EnumItem{},
	}
}

func (r *fakeRegistry) Struct(def frontend.DefID) (*frontend.StructItem, bool) {
	s, ok := r.structs[def]
	return s, ok
}

func (r *fakeRegistry) Enum(def frontend.DefID) (*frontend.EnumItem, bool) {
	e, ok := r.enums[def]
	return e, ok
}

func newSession(fc *frontend.FakeContext, reg Registry, def frontend.DefID, mir *frontend.MIR) *Session {
	r := depgraph.NewResolver(fc)
	return NewSession(fc, typetr.NewContext(r), reg, def, mir)
}

// Scenario 1 (spec §8): a function whose body is nothing but "return its
// unit-typed argument" collapses the return encoding to the literal
// `some ()`, not `some (())`.
func TestScenarioIdentityOnUnit(t *testing.T) {
	fc := frontend.NewTestContext()
	const fn frontend.DefID = 1
	fc.Def(fn, "pkg::identity", frontend.KindFn)

	unit := frontend.Unit()
	mir := &frontend.MIR{
		NumNamedLocals: 1,
		LocalTypes:     []frontend.Type{unit, unit},
		LocalNames:     []string{"x", ""},
		ArgLocals:      []frontend.LocalIndex{0},
		Entry:          0,
		Blocks: []frontend.BasicBlock{
			{
				ID: 0,
				Statements: []frontend.Statement{
					{Lvalue: frontend.LocalLvalue{Index: 1}, Rvalue: frontend.UseRvalue{
						Operand: frontend.ConsumeOperand{Lvalue: frontend.LocalLvalue{Index: 0}},
					}},
				},
				Terminator: frontend.ReturnTerm{},
			},
		},
	}

	s := newSession(fc, newFakeRegistry(), fn, mir)
	decl := frontend.FnDecl{Params: []frontend.Param{{Pattern: "x", Type: unit}}, Output: unit}
	got, err := s.TranslateFunc("identity", decl, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	want := "noncomputable definition identity (x : unit) :=\nlet ret := x in\nsome ()\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

// Scenario 2 (spec §8): a checked/saturating binary primitive lowers to a
// partial (do-bound) value; the ordinary numeric return wraps in a single-
// element tuple rather than collapsing.
func TestScenarioCheckedSubtract(t *testing.T) {
	fc := frontend.NewTestContext()
	const fn frontend.DefID = 1
	fc.Def(fn, "pkg::sub", frontend.KindFn)

	u32 := frontend.UnsignedInt{Name: "u32"}
	mir := &frontend.MIR{
		NumNamedLocals: 2,
		NumTemps:       1,
		LocalTypes:     []frontend.Type{u32, u32, u32, u32},
		LocalNames:     []string{"a", "b", "", ""},
		ArgLocals:      []frontend.LocalIndex{0, 1},
		Entry:          0,
		Blocks: []frontend.BasicBlock{
			{
				ID: 0,
				Statements: []frontend.Statement{
					{Lvalue: frontend.LocalLvalue{Index: 2}, Rvalue: frontend.BinaryRvalue{
						Op:  frontend.OpSub,
						LHS: frontend.ConsumeOperand{Lvalue: frontend.LocalLvalue{Index: 0}},
						RHS: frontend.ConsumeOperand{Lvalue: frontend.LocalLvalue{Index: 1}},
					}},
					{Lvalue: frontend.LocalLvalue{Index: 3}, Rvalue: frontend.UseRvalue{
						Operand: frontend.ConsumeOperand{Lvalue: frontend.LocalLvalue{Index: 2}},
					}},
				},
				Terminator: frontend.ReturnTerm{},
			},
		},
	}

	s := newSession(fc, newFakeRegistry(), fn, mir)
	decl := frontend.FnDecl{
		Params: []frontend.Param{{Pattern: "a", Type: u32}, {Pattern: "b", Type: u32}},
		Output: u32,
	}
	got, err := s.TranslateFunc("sub", decl, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	want := "noncomputable definition sub (a : u32) (b : u32) :=\n" +
		"do do_tmp ← checked.sub a b;\nlet t0 := do_tmp in\nlet ret := t0 in\nsome (ret)\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

// Scenario 3a (spec §8): writing through a `&mut` parameter's own local
// (reference erasure means the parameter name IS the aliased value at the
// target level) and the return encoding appending the mutated parameter.
func TestScenarioMutableReferenceParam(t *testing.T) {
	fc := frontend.NewTestContext()
	const fn frontend.DefID = 1
	fc.Def(fn, "pkg::set", frontend.KindFn)

	u32 := frontend.UnsignedInt{Name: "u32"}
	mutU32 := frontend.Ref{Mutable: true, Elem: u32}
	unit := frontend.Unit()
	mir := &frontend.MIR{
		NumNamedLocals: 2,
		LocalTypes:     []frontend.Type{mutU32, u32, unit},
		LocalNames:     []string{"p", "v", ""},
		ArgLocals:      []frontend.LocalIndex{0, 1},
		Entry:          0,
		Blocks: []frontend.BasicBlock{
			{
				ID: 0,
				Statements: []frontend.Statement{
					{
						Lvalue: frontend.ProjDeref{Base: frontend.LocalLvalue{Index: 0}},
						Rvalue: frontend.UseRvalue{Operand: frontend.ConsumeOperand{Lvalue: frontend.LocalLvalue{Index: 1}}},
					},
				},
				Terminator: frontend.ReturnTerm{},
			},
		},
	}

	s := newSession(fc, newFakeRegistry(), fn, mir)
	decl := frontend.FnDecl{
		Params: []frontend.Param{{Pattern: "p", Type: mutU32}, {Pattern: "v", Type: u32}},
		Output: unit,
	}
	got, err := s.TranslateFunc("set", decl, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	want := "noncomputable definition set (p : u32) (v : u32) :=\nlet p := v in\nsome ((), p)\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

// Scenario 3b: a local reference installed by `&mut some_struct.field`
// aliases assignment through the deref to a record-update on the struct,
// exercising derefMut's recursive resolution through a ProjDeref chain
// rather than just a direct LocalLvalue.
func TestMutableReferenceAliasesStructField(t *testing.T) {
	fc := frontend.NewTestContext()
	const fn frontend.DefID = 1
	const structDef frontend.DefID = 20
	fc.Def(fn, "pkg::bump", frontend.KindFn)
	fc.Def(structDef, "pkg::S", frontend.KindStruct)

	u32 := frontend.UnsignedInt{Name: "u32"}
	namedS := frontend.Named{Def: structDef}
	mutU32 := frontend.Ref{Mutable: true, Elem: u32}

	reg := newFakeRegistry()
	reg.structs[structDef] = &frontend.StructItem{
		ID: structDef, Name: "S", Kind: frontend.RecordStruct,
		Fields: []frontend.FieldDecl{{Name: "field", Type: u32}},
	}

	mir := &frontend.MIR{
		NumNamedLocals: 3,
		LocalTypes:     []frontend.Type{namedS, mutU32, u32},
		LocalNames:     []string{"s", "p", "v"},
		Entry:          0,
		Blocks:         []frontend.BasicBlock{{ID: 0}},
	}
	s := newSession(fc, reg, fn, mir)

	live := map[frontend.LocalIndex]bool{}
	install := frontend.Statement{
		Lvalue: frontend.LocalLvalue{Index: 1},
		Rvalue: frontend.RefRvalue{Mutable: true, Lvalue: frontend.ProjField{
			Base: frontend.LocalLvalue{Index: 0}, FieldIndex: 0,
		}},
	}
	if out, err := s.translateStatement(install, live); err != nil || out != "" {
		t.Fatalf("install statement: got (%q, %v), want (\"\", nil)", out, err)
	}

	write := frontend.Statement{
		Lvalue: frontend.ProjDeref{Base: frontend.LocalLvalue{Index: 1}},
		Rvalue: frontend.UseRvalue{Operand: frontend.ConsumeOperand{Lvalue: frontend.LocalLvalue{Index: 2}}},
	}
	got, err := s.translateStatement(write, live)
	if err != nil {
		t.Fatal(err)
	}
	want := "let s := ⦃ pkg.S, field := v, s ⦄ in\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

// Scenario 4 (spec §8): an enum match lowers to a `match` with each
// variant's fields bound positionally as `<discr>_<index>`.
func TestScenarioEnumMatch(t *testing.T) {
	fc := frontend.NewTestContext()
	const enumDef, someDef, noneDef frontend.DefID = 30, 31, 32
	fc.Def(enumDef, "pkg::Option", frontend.KindEnum)
	fc.Def(someDef, "pkg::Option::Some", frontend.KindStruct)
	fc.Def(noneDef, "pkg::Option::None", frontend.KindStruct)

	u32 := frontend.UnsignedInt{Name: "u32"}
	reg := newFakeRegistry()
	reg.enums[enumDef] = &frontend.EnumItem{
		ID: enumDef, Name: "Option",
		Variants: []frontend.VariantDecl{
			{ID: someDef, Name: "Some", Kind: frontend.TupleVariant, Fields: []frontend.Type{u32}},
			{ID: noneDef, Name: "None", Kind: frontend.UnitVariant},
		},
	}

	namedOption := frontend.Named{Def: enumDef}
	mir := &frontend.MIR{
		NumNamedLocals: 1,
		LocalTypes:     []frontend.Type{namedOption, u32},
		LocalNames:     []string{"v", ""},
		Entry:          0,
		Blocks: []frontend.BasicBlock{
			{
				ID: 0,
				Terminator: frontend.SwitchTerm{
					Discr: frontend.LocalLvalue{Index: 0}, EnumDef: enumDef, Targets: []frontend.BlockID{1, 2},
				},
			},
			{
				ID: 1,
				Statements: []frontend.Statement{
					{Lvalue: frontend.LocalLvalue{Index: 1}, Rvalue: frontend.UseRvalue{
						Operand: frontend.ConsumeOperand{Lvalue: frontend.ProjField{
							Base:       frontend.ProjDowncast{Base: frontend.LocalLvalue{Index: 0}, VariantDef: someDef},
							FieldIndex: 0,
						}},
					}},
				},
				Terminator: frontend.ReturnTerm{},
			},
			{
				ID: 2,
				Statements: []frontend.Statement{
					{Lvalue: frontend.LocalLvalue{Index: 1}, Rvalue: frontend.UseRvalue{
						Operand: frontend.ConstOperand{Value: frontend.ConstVal{Kind: frontend.ConstUint, Uint: 0}},
					}},
				},
				Terminator: frontend.ReturnTerm{},
			},
		},
	}

	s := newSession(fc, reg, frontend.DefID(1), mir)
	root := region.BuildForest(mir)
	got, err := s.translateBlock(0, root)
	if err != nil {
		t.Fatal(err)
	}
	want := "match v with\n" +
		"| pkg.Option.Some v_0 :=\nlet ret := v_0 in\nsome (ret)\n" +
		"\n" +
		"| pkg.Option.None :=\nlet ret := 0 in\nsome (ret)\n" +
		"end\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

// Scenario 5 (spec §8): a while loop extracts into an `f.loop_h` auxiliary
// definition, carrying the enclosing function's static (type/trait)
// parameters, called through `fix_opt` with the moving-state tuple.
func TestScenarioWhileLoopExtraction(t *testing.T) {
	fc := frontend.NewTestContext()
	const fn frontend.DefID = 1
	fc.Def(fn, "pkg::count_up", frontend.KindFn)

	u32 := frontend.UnsignedInt{Name: "u32"}
	boolTy := frontend.Bool{}
	// Locals: i=0, n=1 (named); t0=2 (temp, loop condition); ret=3.
	mir := &frontend.MIR{
		NumNamedLocals: 2,
		NumTemps:       1,
		LocalTypes:     []frontend.Type{u32, u32, boolTy, u32},
		LocalNames:     []string{"i", "n", "", ""},
		ArgLocals:      []frontend.LocalIndex{0, 1},
		Entry:          0,
		Blocks: []frontend.BasicBlock{
			{
				ID: 0,
				// Self-assignments purely to mark i and n live at loop
				// entry, mirroring a real frontend's own initializing
				// assignments for its parameters.
				Statements: []frontend.Statement{
					{Lvalue: frontend.LocalLvalue{Index: 0}, Rvalue: frontend.UseRvalue{Operand: frontend.ConsumeOperand{Lvalue: frontend.LocalLvalue{Index: 0}}}},
					{Lvalue: frontend.LocalLvalue{Index: 1}, Rvalue: frontend.UseRvalue{Operand: frontend.ConsumeOperand{Lvalue: frontend.LocalLvalue{Index: 1}}}},
				},
				Terminator: frontend.GotoTerm{Target: 1},
			},
			{
				ID: 1,
				Statements: []frontend.Statement{
					{Lvalue: frontend.LocalLvalue{Index: 2}, Rvalue: frontend.BinaryRvalue{
						Op:  frontend.OpLt,
						LHS: frontend.ConsumeOperand{Lvalue: frontend.LocalLvalue{Index: 0}},
						RHS: frontend.ConsumeOperand{Lvalue: frontend.LocalLvalue{Index: 1}},
					}},
				},
				Terminator: frontend.IfTerm{
					Cond: frontend.ConsumeOperand{Lvalue: frontend.LocalLvalue{Index: 2}}, Then: 2, Else: 3,
				},
			},
			{
				ID: 2,
				Statements: []frontend.Statement{
					{Lvalue: frontend.LocalLvalue{Index: 0}, Rvalue: frontend.BinaryRvalue{
						Op:  frontend.OpAdd,
						LHS: frontend.ConsumeOperand{Lvalue: frontend.LocalLvalue{Index: 0}},
						RHS: frontend.ConstOperand{Value: frontend.ConstVal{Kind: frontend.ConstUint, Uint: 1}},
					}},
				},
				Terminator: frontend.GotoTerm{Target: 1},
			},
			{
				ID: 3,
				Statements: []frontend.Statement{
					{Lvalue: frontend.LocalLvalue{Index: 3}, Rvalue: frontend.UseRvalue{
						Operand: frontend.ConsumeOperand{Lvalue: frontend.LocalLvalue{Index: 0}},
					}},
				},
				Terminator: frontend.ReturnTerm{},
			},
		},
	}
	linkSuccsPreds(mir)

	s := newSession(fc, newFakeRegistry(), fn, mir)
	decl := frontend.FnDecl{
		Params: []frontend.Param{{Pattern: "i", Type: u32}, {Pattern: "n", Type: u32}},
		Output: u32,
	}
	got, err := s.TranslateFunc("count_up", decl, []frontend.TypeParam{{Name: "T"}}, false)
	if err != nil {
		t.Fatal(err)
	}

	wantPreludeHead := "noncomputable definition count_up.loop_1 {T : Type} n (i) :=\n"
	if !strings.HasPrefix(got, wantPreludeHead) {
		t.Errorf("expected prelude definition to lead the output with static params and moving state, got:\n%q", got)
	}
	if !strings.Contains(got, "fix_opt (count_up.loop_1 {T : Type} n) (i)") {
		t.Errorf("expected a fix_opt call-site threading the function's static params through, got:\n%q", got)
	}
	if !strings.Contains(got, "match do_tmp with (i) :=\nlet ret := i in\nsome (ret)\nend\n") {
		t.Errorf("expected the loop's continuation to bind the moving state and return, got:\n%q", got)
	}
	if strings.Contains(got, "fix_opt (λcount_up,") {
		t.Errorf("a loop-only function must not also be wrapped as whole-function self-recursive, got:\n%q", got)
	}
	if !strings.Contains(got, "noncomputable definition count_up {T : Type} (i : u32) (n : u32) :=\n") {
		t.Errorf("expected the main definition header to carry the function's own static params, got:\n%q", got)
	}
}

func linkSuccsPreds(mir *frontend.MIR) {
	byID := make(map[frontend.BlockID]*frontend.BasicBlock, len(mir.Blocks))
	for i := range mir.Blocks {
		byID[mir.Blocks[i].ID] = &mir.Blocks[i]
	}
	for i := range mir.Blocks {
		for _, s := range frontend.Successors(mir.Blocks[i].Terminator) {
			mir.Blocks[i].Succs = append(mir.Blocks[i].Succs, s)
			byID[s].Preds = append(byID[s].Preds, mir.Blocks[i].ID)
		}
	}
}

// Scenario 6 (spec §8): translating a trait method (suppressTypePredicates)
// prepends a `{Self : Type}` binder and uses the item's own predicates
// unfiltered, rather than the marker-filtered set used elsewhere.
func TestScenarioTraitMethodPredicates(t *testing.T) {
	fc := frontend.NewTestContext()
	const method, eqTrait frontend.DefID = 40, 41
	fc.Def(method, "pkg::Eq::eq_method", frontend.KindFn)
	fc.Def(eqTrait, "pkg::Eq", frontend.KindTrait)
	fc.WithTraitItems(eqTrait, 42) // non-empty items: not a marker trait.
	fc.WithPredicates(method, frontend.TraitPredicate{TraitRef: frontend.TraitRef{Def: eqTrait}})

	selfTy := frontend.TypeParamRef{Name: "Self"}
	unit := frontend.Unit()
	mir := &frontend.MIR{
		NumNamedLocals: 1,
		LocalTypes:     []frontend.Type{selfTy, unit},
		LocalNames:     []string{"self", ""},
		ArgLocals:      []frontend.LocalIndex{0},
		Entry:          0,
		Blocks: []frontend.BasicBlock{
			{
				ID: 0,
				Statements: []frontend.Statement{
					{Lvalue: frontend.LocalLvalue{Index: 1}, Rvalue: frontend.UseRvalue{
						Operand: frontend.ConsumeOperand{Lvalue: frontend.LocalLvalue{Index: 0}},
					}},
				},
				Terminator: frontend.ReturnTerm{},
			},
		},
	}

	s := newSession(fc, newFakeRegistry(), method, mir)
	decl := frontend.FnDecl{Params: []frontend.Param{{Pattern: "self", Type: selfTy}}, Output: unit}
	got, err := s.TranslateFunc("eq_method", decl, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	want := "noncomputable definition eq_method {Self : Type} [pkg.Eq] (self : Self) :=\n" +
		"let ret := self in\nsome ()\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

// TestSwitchIntRejectsMismatchedTargetCount exercises a malformed
// SwitchIntTerm (one target per value, missing the fallback target):
// translateSwitchInt must report an error rather than index out of range.
func TestSwitchIntRejectsMismatchedTargetCount(t *testing.T) {
	fc := frontend.NewTestContext()
	u32 := frontend.UnsignedInt{Name: "u32"}
	mir := &frontend.MIR{
		NumNamedLocals: 1,
		LocalTypes:     []frontend.Type{u32},
		LocalNames:     []string{"v"},
		Entry:          0,
		Blocks: []frontend.BasicBlock{
			{
				ID: 0,
				Terminator: frontend.SwitchIntTerm{
					Discr:   frontend.LocalLvalue{Index: 0},
					Values:  []frontend.ConstVal{{Kind: frontend.ConstUint, Uint: 1}},
					Targets: []frontend.BlockID{0},
				},
			},
		},
	}

	s := newSession(fc, newFakeRegistry(), frontend.DefID(1), mir)
	root := region.BuildForest(mir)
	if _, err := s.translateBlock(0, root); err == nil {
		t.Fatal("expected an error for a switch-int with targets != values+1")
	}
}
