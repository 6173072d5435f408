package frontend

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeSimpleFn(t *testing.T) {
	doc := `{
		"crate": "example",
		"defs": [
			{"id": 1, "path": "example::add", "kind": "fn"}
		],
		"items": [
			{
				"kind": "fn",
				"id": 1,
				"name": "add",
				"decl": {
					"params": [
						{"pattern": "a", "type": {"kind": "uint", "name": "u32"}},
						{"pattern": "b", "type": {"kind": "uint", "name": "u32"}}
					],
					"output": {"kind": "uint", "name": "u32"}
				}
			}
		],
		"mir": {
			"1": {
				"numNamedLocals": 2,
				"numTemps": 0,
				"localTypes": [
					{"kind": "uint", "name": "u32"},
					{"kind": "uint", "name": "u32"},
					{"kind": "uint", "name": "u32"}
				],
				"localNames": ["a", "b", ""],
				"argLocals": [0, 1],
				"entry": 0,
				"blocks": [
					{
						"id": 0,
						"statements": [
							{
								"lvalue": {"kind": "local", "index": 2},
								"rvalue": {
									"kind": "binary",
									"op": "add",
									"lhs": {"kind": "consume", "lvalue": {"kind": "local", "index": 0}},
									"rhs": {"kind": "consume", "lvalue": {"kind": "local", "index": 1}}
								}
							}
						],
						"terminator": {"kind": "return"}
					}
				]
			}
		}
	}`

	crate, ctx, mirTable, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if crate.Name != "example" {
		t.Fatalf("crate name = %q, want %q", crate.Name, "example")
	}
	if len(crate.Items) != 1 {
		t.Fatalf("len(crate.Items) = %d, want 1", len(crate.Items))
	}
	fn, ok := crate.Items[0].(*FnItem)
	if !ok {
		t.Fatalf("item 0 is %T, want *FnItem", crate.Items[0])
	}
	if fn.Name != "add" || len(fn.Decl.Params) != 2 {
		t.Fatalf("unexpected fn decl: %+v", fn.Decl)
	}

	if kind := ctx.Kind(1); kind != KindFn {
		t.Errorf("Kind(1) = %v, want KindFn", kind)
	}

	m, ok := mirTable.MIR(1)
	if !ok {
		t.Fatalf("expected MIR for def 1")
	}
	if m.NumLocals() != 3 {
		t.Fatalf("NumLocals() = %d, want 3", m.NumLocals())
	}
	if _, ok := m.Block(0).Terminator.(ReturnTerm); !ok {
		t.Fatalf("block 0 terminator is %T, want ReturnTerm", m.Block(0).Terminator)
	}
}

// TestDecodeMIRBlockOrderIndependence exercises blocks arriving out of wire
// order: decodeMIR must lay the decoded slice out by BlockID (MIR.Block
// indexes Blocks directly by id), not by array position.
func TestDecodeMIRBlockOrderIndependence(t *testing.T) {
	doc := `{
		"crate": "example",
		"items": [{"kind": "fn", "id": 1, "name": "f", "decl": {"output": {"kind": "bool"}}}],
		"mir": {
			"1": {
				"numNamedLocals": 0,
				"numTemps": 0,
				"localTypes": [{"kind": "bool"}],
				"localNames": [""],
				"entry": 0,
				"blocks": [
					{"id": 1, "terminator": {"kind": "return"}},
					{"id": 0, "terminator": {"kind": "goto", "target": 1}}
				]
			}
		}
	}`

	_, _, mirTable, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m, ok := mirTable.MIR(1)
	if !ok {
		t.Fatalf("expected MIR for def 1")
	}
	if _, ok := m.Block(0).Terminator.(GotoTerm); !ok {
		t.Fatalf("block 0 terminator is %T, want GotoTerm", m.Block(0).Terminator)
	}
	if _, ok := m.Block(1).Terminator.(ReturnTerm); !ok {
		t.Fatalf("block 1 terminator is %T, want ReturnTerm", m.Block(1).Terminator)
	}
	// Preds must be backfilled from Succs regardless of wire order.
	if len(m.Block(1).Preds) != 1 || m.Block(1).Preds[0] != 0 {
		t.Fatalf("block 1 preds = %v, want [0]", m.Block(1).Preds)
	}
}

func TestDecodeMIRBlockIDOutOfRange(t *testing.T) {
	doc := `{
		"crate": "example",
		"items": [{"kind": "fn", "id": 1, "name": "f", "decl": {"output": {"kind": "bool"}}}],
		"mir": {
			"1": {
				"numNamedLocals": 0,
				"numTemps": 0,
				"localTypes": [{"kind": "bool"}],
				"localNames": [""],
				"entry": 0,
				"blocks": [
					{"id": 5, "terminator": {"kind": "return"}}
				]
			}
		}
	}`
	_, _, _, err := Decode([]byte(doc))
	if err == nil {
		t.Fatal("expected an error for an out-of-range block id")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("error = %v, want it to mention out of range", err)
	}
}

func TestDecodeMIREntryOutOfRange(t *testing.T) {
	doc := `{
		"crate": "example",
		"items": [{"kind": "fn", "id": 1, "name": "f", "decl": {"output": {"kind": "bool"}}}],
		"mir": {
			"1": {
				"numNamedLocals": 0,
				"numTemps": 0,
				"localTypes": [{"kind": "bool"}],
				"localNames": [""],
				"entry": 3,
				"blocks": [
					{"id": 0, "terminator": {"kind": "return"}}
				]
			}
		}
	}`
	_, _, _, err := Decode([]byte(doc))
	if err == nil {
		t.Fatal("expected an error for an out-of-range entry block id")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("error = %v, want it to mention out of range", err)
	}
}

func TestDecodeStructAndEnum(t *testing.T) {
	doc := `{
		"crate": "example",
		"items": [
			{
				"kind": "struct",
				"id": 1,
				"name": "Point",
				"structKind": "record",
				"fields": [
					{"name": "x", "type": {"kind": "uint", "name": "u32"}},
					{"name": "y", "type": {"kind": "uint", "name": "u32"}}
				]
			},
			{
				"kind": "enum",
				"id": 2,
				"name": "Option",
				"generics": ["T"],
				"variants": [
					{"id": 3, "name": "None", "kind": "unit"},
					{"id": 4, "name": "Some", "kind": "tuple", "fields": [{"kind": "type-param", "name": "T"}]}
				]
			}
		]
	}`

	crate, _, _, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	s, ok := crate.Items[0].(*StructItem)
	if !ok {
		t.Fatalf("item 0 is %T, want *StructItem", crate.Items[0])
	}
	wantStruct := &StructItem{
		ID:       1,
		Name:     "Point",
		Generics: []TypeParam{},
		Kind:     RecordStruct,
		Fields: []FieldDecl{
			{Name: "x", Type: UnsignedInt{Name: "u32"}},
			{Name: "y", Type: UnsignedInt{Name: "u32"}},
		},
	}
	if diff := cmp.Diff(wantStruct, s); diff != "" {
		t.Errorf("decoded struct item mismatch (-want +got):\n%s", diff)
	}

	e, ok := crate.Items[1].(*EnumItem)
	if !ok {
		t.Fatalf("item 1 is %T, want *EnumItem", crate.Items[1])
	}
	wantEnum := &EnumItem{
		ID:       2,
		Name:     "Option",
		Generics: []TypeParam{{Name: "T"}},
		Variants: []VariantDecl{
			{ID: 3, Name: "None", Kind: UnitVariant, Fields: []Type{}},
			{ID: 4, Name: "Some", Kind: TupleVariant, Fields: []Type{TypeParamRef{Name: "T"}}},
		},
	}
	if diff := cmp.Diff(wantEnum, e); diff != "" {
		t.Errorf("decoded enum item mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTraitAndImpl(t *testing.T) {
	doc := `{
		"crate": "example",
		"defs": [
			{"id": 10, "path": "example::Shape", "kind": "trait", "traitItems": [11]},
			{"id": 20, "path": "<Circle as Shape>", "kind": "impl-item", "implTraitRef": {"def": 10, "args": []}}
		],
		"items": [
			{
				"kind": "trait",
				"id": 10,
				"name": "Shape",
				"items": [
					{"id": 11, "name": "area", "kind": "method", "sig": {"output": {"kind": "float", "name": "f64"}}}
				]
			},
			{
				"kind": "impl",
				"id": 20,
				"baseTrait": {"def": 10, "args": []},
				"items": [
					{"id": 21, "name": "area", "kind": "method", "sig": {"output": {"kind": "float", "name": "f64"}}}
				]
			}
		]
	}`

	crate, ctx, _, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	tr, ok := crate.Items[0].(*TraitItem)
	if !ok || len(tr.Items) != 1 || tr.Items[0].Name != "area" {
		t.Fatalf("unexpected trait item: %+v", crate.Items[0])
	}
	im, ok := crate.Items[1].(*ImplItem)
	if !ok || im.BaseTrait == nil || im.BaseTrait.Def != 10 {
		t.Fatalf("unexpected impl item: %+v", crate.Items[1])
	}
	ref, ok := ctx.ImplTraitRef(20)
	if !ok || ref.Def != 10 {
		t.Fatalf("ImplTraitRef(20) = %v, %v, want {Def:10}, true", ref, ok)
	}
}

func TestDecodeRejectsUnknownTypeKind(t *testing.T) {
	doc := `{"crate": "example", "items": [
		{"kind": "struct", "id": 1, "name": "Bad", "fields": [{"name": "f", "type": {"kind": "nonsense"}}]}
	]}`
	_, _, _, err := Decode([]byte(doc))
	if err == nil {
		t.Fatal("expected an error for an unknown type kind")
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	_, _, _, err := Decode([]byte(`not json`))
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}
