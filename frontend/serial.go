package frontend

import (
	"encoding/json"
	"fmt"

	"golang.org/x/xerrors"
)

// This file is the one concrete seam where a real frontend plugs in: it
// decodes a JSON document — the serialized typing facts, HIR tree and MIR
// bodies a real source-language frontend would have already computed — into
// the in-memory FakeContext/Crate/FakeMIRTable this package otherwise only
// builds by hand in tests. cmd/electrolean's positional input file is one
// such document (spec §6, "Frontend contract").
//
// No third-party IR/AST serialization library appears anywhere in the
// reference corpus this repository was built against, so this decoder is
// built on encoding/json alone: a deliberate stdlib choice, not an
// oversight (see DESIGN.md).

// wireDef is one definition's typing-context facts.
type wireDef struct {
	ID              DefID            `json:"id"`
	Path            string           `json:"path"`
	Crate           string           `json:"crate,omitempty"` // non-empty => external
	Kind            string           `json:"kind"`
	Generics        []string         `json:"generics,omitempty"`
	Predicates      []wireTraitRef   `json:"predicates,omitempty"`
	TraitItems      []DefID          `json:"traitItems,omitempty"`
	ImplTraitRef    *wireTraitRef    `json:"implTraitRef,omitempty"`
	ProvidedMethods []DefID          `json:"providedMethods,omitempty"`
	Receiver        string           `json:"receiver,omitempty"`
	OwningTrait     *DefID           `json:"owningTrait,omitempty"`
	AssocTypeNames  []string         `json:"assocTypeNames,omitempty"`
}

type wireTraitRef struct {
	Def  DefID       `json:"def"`
	Args []wireType  `json:"args,omitempty"`
}

type wireType struct {
	Kind      string       `json:"kind"`
	Name      string       `json:"name,omitempty"`      // UnsignedInt/SignedInt/Float width
	Elems     []wireType   `json:"elems,omitempty"`      // Tuple
	Elem      *wireType    `json:"elem,omitempty"`       // Slice, Ref
	Mutable   bool         `json:"mutable,omitempty"`    // Ref
	Inputs    []wireType   `json:"inputs,omitempty"`     // FuncType
	Output    *wireType    `json:"output,omitempty"`     // FuncType
	Diverging bool         `json:"diverging,omitempty"`  // FuncType
	Trait     *wireTraitRef `json:"trait,omitempty"`     // Projection, DynTraitObject
	Item      string       `json:"item,omitempty"`       // Projection
	Def       DefID        `json:"def,omitempty"`        // Named
	Args      []wireType   `json:"args,omitempty"`       // Named
}

func decodeType(w *wireType) (Type, error) {
	if w == nil {
		return nil, xerrors.New("missing type")
	}
	switch w.Kind {
	case "bool":
		return Bool{}, nil
	case "uint":
		return UnsignedInt{Name: w.Name}, nil
	case "int":
		return SignedInt{Name: w.Name}, nil
	case "float":
		return Float{Name: w.Name}, nil
	case "tuple":
		elems := make([]Type, len(w.Elems))
		for i, e := range w.Elems {
			t, err := decodeType(&e)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return Tuple{Elems: elems}, nil
	case "slice":
		elem, err := decodeType(w.Elem)
		if err != nil {
			return nil, err
		}
		return Slice{Elem: elem}, nil
	case "ref":
		elem, err := decodeType(w.Elem)
		if err != nil {
			return nil, err
		}
		return Ref{Mutable: w.Mutable, Elem: elem}, nil
	case "fn":
		inputs := make([]Type, len(w.Inputs))
		for i, e := range w.Inputs {
			t, err := decodeType(&e)
			if err != nil {
				return nil, err
			}
			inputs[i] = t
		}
		output, err := decodeType(w.Output)
		if err != nil {
			return nil, err
		}
		return FuncType{Inputs: inputs, Output: output, Diverging: w.Diverging}, nil
	case "type-param":
		return TypeParamRef{Name: w.Name}, nil
	case "projection":
		tr, err := decodeTraitRef(w.Trait)
		if err != nil {
			return nil, err
		}
		return Projection{Trait: tr, Item: w.Item}, nil
	case "named":
		args := make([]Type, len(w.Args))
		for i, a := range w.Args {
			t, err := decodeType(&a)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		return Named{Def: w.Def, Args: args}, nil
	case "dyn":
		tr, err := decodeTraitRef(w.Trait)
		if err != nil {
			return nil, err
		}
		return DynTraitObject{Trait: tr}, nil
	default:
		return nil, xerrors.Errorf("unknown type kind %q", w.Kind)
	}
}

func decodeTraitRef(w *wireTraitRef) (TraitRef, error) {
	if w == nil {
		return TraitRef{}, xerrors.New("missing trait ref")
	}
	args := make([]Type, len(w.Args))
	for i, a := range w.Args {
		t, err := decodeType(&a)
		if err != nil {
			return TraitRef{}, err
		}
		args[i] = t
	}
	return TraitRef{Def: w.Def, Args: args}, nil
}

func receiverCategory(s string) ReceiverCategory {
	switch s {
	case "by-ref":
		return ReceiverByRef
	case "by-mut-ref":
		return ReceiverByMutRef
	case "by-value":
		return ReceiverByValue
	default:
		return ReceiverStatic
	}
}

func defKind(s string) DefKind {
	switch s {
	case "struct":
		return KindStruct
	case "enum":
		return KindEnum
	case "trait":
		return KindTrait
	case "impl-item":
		return KindImplItem
	case "static":
		return KindStatic
	default:
		return KindFn
	}
}

// decodeContext builds a FakeContext from wire definitions.
func decodeContext(defs []wireDef) (*FakeContext, error) {
	ctx := NewTestContext()
	for _, d := range defs {
		if d.Crate != "" {
			ctx.External(d.ID, d.Path, d.Crate)
		} else {
			ctx.Def(d.ID, d.Path, defKind(d.Kind))
		}
		generics := make([]TypeParam, len(d.Generics))
		for i, g := range d.Generics {
			generics[i] = TypeParam{Name: g}
		}
		ctx.WithGenerics(d.ID, generics...)

		preds := make([]TraitPredicate, len(d.Predicates))
		for i, p := range d.Predicates {
			tr, err := decodeTraitRef(&p)
			if err != nil {
				return nil, xerrors.Errorf("def %d predicates: %w", d.ID, err)
			}
			preds[i] = TraitPredicate{TraitRef: tr}
		}
		ctx.WithPredicates(d.ID, preds...)

		if len(d.TraitItems) > 0 {
			ctx.WithTraitItems(d.ID, d.TraitItems...)
		}
		if d.ImplTraitRef != nil {
			tr, err := decodeTraitRef(d.ImplTraitRef)
			if err != nil {
				return nil, xerrors.Errorf("def %d implTraitRef: %w", d.ID, err)
			}
			ctx.WithImplTraitRef(d.ID, tr)
		}
		if len(d.ProvidedMethods) > 0 {
			ctx.WithProvidedMethods(d.ID, d.ProvidedMethods...)
		}
		if d.Receiver != "" {
			ctx.WithReceiver(d.ID, receiverCategory(d.Receiver))
		}
		if d.OwningTrait != nil {
			ctx.WithOwningTrait(d.ID, *d.OwningTrait)
		}
		if len(d.AssocTypeNames) > 0 {
			ctx.WithAssocTypeNames(d.ID, d.AssocTypeNames...)
		}
	}
	return ctx, nil
}

// wireLvalue, wireOperand, wireRvalue, wireTerminator mirror the MIR sum
// types with a "kind" discriminator, decoded with encoding/json's
// json.RawMessage-based two-pass pattern (see e.g.
// golang.org/x/tools/internal/lsp/protocol's use of json.RawMessage for
// LSP's similarly open-ended message shapes).
type wireLvalue struct {
	Kind       string          `json:"kind"`
	Index      LocalIndex      `json:"index,omitempty"`
	Def        DefID           `json:"def,omitempty"`
	Base       json.RawMessage `json:"base,omitempty"`
	VariantDef DefID           `json:"variantDef,omitempty"`
	FieldIndex int             `json:"fieldIndex,omitempty"`
}

func decodeLvalue(raw json.RawMessage) (Lvalue, error) {
	if len(raw) == 0 {
		return nil, xerrors.New("missing lvalue")
	}
	var w wireLvalue
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	switch w.Kind {
	case "local":
		return LocalLvalue{Index: w.Index}, nil
	case "static":
		return StaticLvalue{Def: w.Def}, nil
	case "deref":
		base, err := decodeLvalue(w.Base)
		if err != nil {
			return nil, err
		}
		return ProjDeref{Base: base}, nil
	case "downcast":
		base, err := decodeLvalue(w.Base)
		if err != nil {
			return nil, err
		}
		return ProjDowncast{Base: base, VariantDef: w.VariantDef}, nil
	case "field":
		base, err := decodeLvalue(w.Base)
		if err != nil {
			return nil, err
		}
		return ProjField{Base: base, FieldIndex: w.FieldIndex}, nil
	default:
		return nil, xerrors.Errorf("unknown lvalue kind %q", w.Kind)
	}
}

type wireConst struct {
	Kind        string `json:"kind"`
	Bool        bool   `json:"bool,omitempty"`
	Uint        uint64 `json:"uint,omitempty"`
	Description string `json:"description,omitempty"`
}

func decodeConst(w wireConst) ConstVal {
	switch w.Kind {
	case "bool":
		return ConstVal{Kind: ConstBool, Bool: w.Bool}
	case "uint":
		return ConstVal{Kind: ConstUint, Uint: w.Uint}
	default:
		return ConstVal{Kind: ConstUnsupported, Description: w.Description}
	}
}

type wireOperand struct {
	Kind   string          `json:"kind"`
	Lvalue json.RawMessage `json:"lvalue,omitempty"`
	Value  wireConst       `json:"value,omitempty"`
}

func decodeOperand(raw json.RawMessage) (Operand, error) {
	if len(raw) == 0 {
		return nil, xerrors.New("missing operand")
	}
	var w wireOperand
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	switch w.Kind {
	case "consume":
		lv, err := decodeLvalue(w.Lvalue)
		if err != nil {
			return nil, err
		}
		return ConsumeOperand{Lvalue: lv}, nil
	case "const":
		return ConstOperand{Value: decodeConst(w.Value)}, nil
	default:
		return nil, xerrors.Errorf("unknown operand kind %q", w.Kind)
	}
}

var binOps = map[string]BinOp{
	"add": OpAdd, "sub": OpSub, "mul": OpMul, "div": OpDiv, "rem": OpRem,
	"shl": OpShl, "shr": OpShr, "bitxor": OpBitXor, "bitand": OpBitAnd, "bitor": OpBitOr,
	"eq": OpEq, "lt": OpLt, "le": OpLe, "ne": OpNe, "ge": OpGe, "gt": OpGt,
}

var unOps = map[string]UnOp{"not": OpNot, "neg": OpNeg}

type wireRvalue struct {
	Kind      string          `json:"kind"`
	Operand   json.RawMessage `json:"operand,omitempty"`
	Op        string          `json:"op,omitempty"`
	IsBool    bool            `json:"isBool,omitempty"`
	LHS       json.RawMessage `json:"lhs,omitempty"`
	RHS       json.RawMessage `json:"rhs,omitempty"`
	Mutable   bool            `json:"mutable,omitempty"`
	Lvalue    json.RawMessage `json:"lvalue,omitempty"`
	Operands  []json.RawMessage `json:"operands,omitempty"`
	Def       DefID           `json:"def,omitempty"`
	VariantDef DefID          `json:"variantDef,omitempty"`
	IsEnum    bool            `json:"isEnum,omitempty"`
	IsTupleStruct bool        `json:"isTupleStruct,omitempty"`
}

func decodeRvalue(raw json.RawMessage) (Rvalue, error) {
	var w wireRvalue
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	switch w.Kind {
	case "use":
		op, err := decodeOperand(w.Operand)
		if err != nil {
			return nil, err
		}
		return UseRvalue{Operand: op}, nil
	case "unary":
		op, err := decodeOperand(w.Operand)
		if err != nil {
			return nil, err
		}
		uop, ok := unOps[w.Op]
		if !ok {
			return nil, xerrors.Errorf("unknown unary op %q", w.Op)
		}
		return UnaryRvalue{Op: uop, Operand: op, IsBool: w.IsBool}, nil
	case "binary":
		lhs, err := decodeOperand(w.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeOperand(w.RHS)
		if err != nil {
			return nil, err
		}
		bop, ok := binOps[w.Op]
		if !ok {
			return nil, xerrors.Errorf("unknown binary op %q", w.Op)
		}
		return BinaryRvalue{Op: bop, LHS: lhs, RHS: rhs}, nil
	case "cast":
		op, err := decodeOperand(w.Operand)
		if err != nil {
			return nil, err
		}
		return CastRvalue{Operand: op}, nil
	case "ref":
		lv, err := decodeLvalue(w.Lvalue)
		if err != nil {
			return nil, err
		}
		return RefRvalue{Mutable: w.Mutable, Lvalue: lv}, nil
	case "aggregate-tuple":
		ops, err := decodeOperands(w.Operands)
		if err != nil {
			return nil, err
		}
		return AggregateTuple{Operands: ops}, nil
	case "aggregate-adt":
		ops, err := decodeOperands(w.Operands)
		if err != nil {
			return nil, err
		}
		return AggregateAdt{Def: w.Def, VariantDef: w.VariantDef, IsEnum: w.IsEnum, IsTupleStruct: w.IsTupleStruct, Operands: ops}, nil
	default:
		return nil, xerrors.Errorf("unknown rvalue kind %q", w.Kind)
	}
}

func decodeOperands(raws []json.RawMessage) ([]Operand, error) {
	out := make([]Operand, len(raws))
	for i, r := range raws {
		op, err := decodeOperand(r)
		if err != nil {
			return nil, err
		}
		out[i] = op
	}
	return out, nil
}

type wireCallDest struct {
	Lvalue       json.RawMessage `json:"lvalue"`
	Continuation BlockID         `json:"continuation"`
}

type wireTerminator struct {
	Kind    string            `json:"kind"`
	Target  BlockID           `json:"target,omitempty"`
	Cond    json.RawMessage   `json:"cond,omitempty"`
	Then    BlockID           `json:"then,omitempty"`
	Else    BlockID           `json:"else,omitempty"`
	Discr   json.RawMessage   `json:"discr,omitempty"`
	EnumDef DefID             `json:"enumDef,omitempty"`
	Targets []BlockID         `json:"targets,omitempty"`
	Values  []wireConst       `json:"values,omitempty"`
	Callee  DefID             `json:"callee,omitempty"`
	CalleeSelfType *wireType  `json:"calleeSelfType,omitempty"`
	Args    []json.RawMessage `json:"args,omitempty"`
	Dest    *wireCallDest     `json:"dest,omitempty"`
}

func decodeTerminator(w wireTerminator) (Terminator, error) {
	switch w.Kind {
	case "goto":
		return GotoTerm{Target: w.Target}, nil
	case "if":
		cond, err := decodeOperand(w.Cond)
		if err != nil {
			return nil, err
		}
		return IfTerm{Cond: cond, Then: w.Then, Else: w.Else}, nil
	case "switch":
		discr, err := decodeLvalue(w.Discr)
		if err != nil {
			return nil, err
		}
		return SwitchTerm{Discr: discr, EnumDef: w.EnumDef, Targets: w.Targets}, nil
	case "switch-int":
		discr, err := decodeLvalue(w.Discr)
		if err != nil {
			return nil, err
		}
		values := make([]ConstVal, len(w.Values))
		for i, v := range w.Values {
			values[i] = decodeConst(v)
		}
		return SwitchIntTerm{Discr: discr, Values: values, Targets: w.Targets}, nil
	case "call":
		args, err := decodeOperands(w.Args)
		if err != nil {
			return nil, err
		}
		var selfTy Type
		if w.CalleeSelfType != nil {
			selfTy, err = decodeType(w.CalleeSelfType)
			if err != nil {
				return nil, err
			}
		}
		var dest *CallDest
		if w.Dest != nil {
			lv, err := decodeLvalue(w.Dest.Lvalue)
			if err != nil {
				return nil, err
			}
			dest = &CallDest{Lvalue: lv, Continuation: w.Dest.Continuation}
		}
		return CallTerm{Callee: w.Callee, CalleeSelfType: selfTy, Args: args, Dest: dest}, nil
	case "return":
		return ReturnTerm{}, nil
	case "drop":
		return DropTerm{Target: w.Target}, nil
	case "resume":
		return ResumeTerm{}, nil
	default:
		return nil, xerrors.Errorf("unknown terminator kind %q", w.Kind)
	}
}

type wireStatement struct {
	Lvalue json.RawMessage `json:"lvalue"`
	Rvalue json.RawMessage `json:"rvalue"`
}

type wireBlock struct {
	ID         BlockID         `json:"id"`
	Statements []wireStatement `json:"statements,omitempty"`
	Terminator wireTerminator  `json:"terminator"`
}

type wireMIR struct {
	NumNamedLocals int         `json:"numNamedLocals"`
	NumTemps       int         `json:"numTemps"`
	LocalTypes     []wireType  `json:"localTypes"`
	LocalNames     []string    `json:"localNames"`
	ArgLocals      []LocalIndex `json:"argLocals,omitempty"`
	Blocks         []wireBlock `json:"blocks"`
	Entry          BlockID     `json:"entry"`
}

func decodeMIR(w wireMIR) (*MIR, error) {
	localTypes := make([]Type, len(w.LocalTypes))
	for i, t := range w.LocalTypes {
		ty, err := decodeType(&t)
		if err != nil {
			return nil, xerrors.Errorf("local %d: %w", i, err)
		}
		localTypes[i] = ty
	}
	// Block.(*MIR) indexes Blocks directly by BlockID, so the decoded slice
	// must be laid out by id regardless of the wire array's order.
	blocks := make([]BasicBlock, len(w.Blocks))
	for _, b := range w.Blocks {
		stmts := make([]Statement, len(b.Statements))
		for j, s := range b.Statements {
			lv, err := decodeLvalue(s.Lvalue)
			if err != nil {
				return nil, xerrors.Errorf("block %d stmt %d: %w", b.ID, j, err)
			}
			rv, err := decodeRvalue(s.Rvalue)
			if err != nil {
				return nil, xerrors.Errorf("block %d stmt %d: %w", b.ID, j, err)
			}
			stmts[j] = Statement{Lvalue: lv, Rvalue: rv}
		}
		term, err := decodeTerminator(b.Terminator)
		if err != nil {
			return nil, xerrors.Errorf("block %d: %w", b.ID, err)
		}
		if int(b.ID) < 0 || int(b.ID) >= len(blocks) {
			return nil, xerrors.Errorf("block id %d out of range (have %d blocks)", b.ID, len(blocks))
		}
		blocks[b.ID] = BasicBlock{ID: b.ID, Statements: stmts, Terminator: term, Succs: Successors(term)}
	}
	for i := range blocks {
		for _, s := range blocks[i].Succs {
			blocks[s].Preds = append(blocks[s].Preds, blocks[i].ID)
		}
	}
	if int(w.Entry) < 0 || int(w.Entry) >= len(blocks) {
		return nil, xerrors.Errorf("entry block id %d out of range (have %d blocks)", w.Entry, len(blocks))
	}
	return &MIR{
		NumNamedLocals: w.NumNamedLocals,
		NumTemps:       w.NumTemps,
		LocalTypes:     localTypes,
		LocalNames:     w.LocalNames,
		ArgLocals:      w.ArgLocals,
		Blocks:         blocks,
		Entry:          w.Entry,
	}, nil
}

type wireParam struct {
	Pattern string   `json:"pattern"`
	Type    wireType `json:"type"`
}

type wireFnDecl struct {
	Params []wireParam `json:"params,omitempty"`
	Output wireType    `json:"output"`
}

func decodeFnDecl(w wireFnDecl) (FnDecl, error) {
	params := make([]Param, len(w.Params))
	for i, p := range w.Params {
		ty, err := decodeType(&p.Type)
		if err != nil {
			return FnDecl{}, xerrors.Errorf("param %d: %w", i, err)
		}
		params[i] = Param{Pattern: p.Pattern, Type: ty}
	}
	output, err := decodeType(&w.Output)
	if err != nil {
		return FnDecl{}, xerrors.Errorf("output: %w", err)
	}
	return FnDecl{Params: params, Output: output}, nil
}

func decodeTypeParams(names []string) []TypeParam {
	out := make([]TypeParam, len(names))
	for i, n := range names {
		out[i] = TypeParam{Name: n}
	}
	return out
}

type wireFieldDecl struct {
	Name string   `json:"name,omitempty"`
	Type wireType `json:"type"`
}

type wireVariantDecl struct {
	ID     DefID      `json:"id"`
	Name   string     `json:"name"`
	Kind   string     `json:"kind"` // "unit" | "tuple"
	Fields []wireType `json:"fields,omitempty"`
}

type wireTraitMember struct {
	ID             DefID      `json:"id"`
	Name           string     `json:"name"`
	Kind           string     `json:"kind"` // "method" | "assoc-type"
	Sig            wireFnDecl `json:"sig"`
	HasDefaultBody bool       `json:"hasDefaultBody,omitempty"`
}

type wireImplMember struct {
	ID             DefID      `json:"id"`
	Name           string     `json:"name"`
	Kind           string     `json:"kind"`
	Sig            wireFnDecl `json:"sig"`
	AssocTypeValue *wireType  `json:"assocTypeValue,omitempty"`
}

// wireItem is one item of the crate, discriminated by "kind".
type wireItem struct {
	Kind      string            `json:"kind"` // "fn" | "struct" | "enum" | "trait" | "impl"
	ID        DefID             `json:"id"`
	Name      string            `json:"name,omitempty"`
	Generics  []string          `json:"generics,omitempty"`
	Decl      *wireFnDecl       `json:"decl,omitempty"`
	StructKind string           `json:"structKind,omitempty"` // "record" | "tuple"
	Fields     []wireFieldDecl  `json:"fields,omitempty"`
	Variants   []wireVariantDecl `json:"variants,omitempty"`
	Items      []json.RawMessage `json:"items,omitempty"` // trait/impl members, re-decoded by context
	BaseTrait  *wireTraitRef     `json:"baseTrait,omitempty"`
}

func memberKind(s string) MemberKind {
	if s == "assoc-type" {
		return AssocTypeMember
	}
	return MethodMember
}

func decodeItem(w wireItem) (Item, error) {
	switch w.Kind {
	case "fn":
		decl, err := decodeFnDecl(*w.Decl)
		if err != nil {
			return nil, xerrors.Errorf("fn %s: %w", w.Name, err)
		}
		return &FnItem{ID: w.ID, Name: w.Name, Generics: decodeTypeParams(w.Generics), Decl: decl}, nil
	case "struct":
		fields := make([]FieldDecl, len(w.Fields))
		for i, f := range w.Fields {
			ty, err := decodeType(&f.Type)
			if err != nil {
				return nil, xerrors.Errorf("struct %s field %d: %w", w.Name, i, err)
			}
			fields[i] = FieldDecl{Name: f.Name, Type: ty}
		}
		kind := RecordStruct
		if w.StructKind == "tuple" {
			kind = TupleStruct
		}
		return &StructItem{ID: w.ID, Name: w.Name, Generics: decodeTypeParams(w.Generics), Kind: kind, Fields: fields}, nil
	case "enum":
		variants := make([]VariantDecl, len(w.Variants))
		for i, v := range w.Variants {
			vk := UnitVariant
			if v.Kind == "tuple" {
				vk = TupleVariant
			}
			fields := make([]Type, len(v.Fields))
			for j, f := range v.Fields {
				ty, err := decodeType(&f)
				if err != nil {
					return nil, xerrors.Errorf("enum %s variant %s field %d: %w", w.Name, v.Name, j, err)
				}
				fields[j] = ty
			}
			variants[i] = VariantDecl{ID: v.ID, Name: v.Name, Kind: vk, Fields: fields}
		}
		return &EnumItem{ID: w.ID, Name: w.Name, Generics: decodeTypeParams(w.Generics), Variants: variants}, nil
	case "trait":
		members := make([]TraitMember, len(w.Items))
		for i, raw := range w.Items {
			var wm wireTraitMember
			if err := json.Unmarshal(raw, &wm); err != nil {
				return nil, xerrors.Errorf("trait %s member %d: %w", w.Name, i, err)
			}
			sig, err := decodeFnDecl(wm.Sig)
			if err != nil {
				return nil, xerrors.Errorf("trait %s member %s: %w", w.Name, wm.Name, err)
			}
			members[i] = TraitMember{ID: wm.ID, Name: wm.Name, Kind: memberKind(wm.Kind), Sig: sig, HasDefaultBody: wm.HasDefaultBody}
		}
		return &TraitItem{ID: w.ID, Name: w.Name, Generics: decodeTypeParams(w.Generics), Items: members}, nil
	case "impl":
		members := make([]ImplMember, len(w.Items))
		for i, raw := range w.Items {
			var wm wireImplMember
			if err := json.Unmarshal(raw, &wm); err != nil {
				return nil, xerrors.Errorf("impl member %d: %w", i, err)
			}
			sig, err := decodeFnDecl(wm.Sig)
			if err != nil {
				return nil, xerrors.Errorf("impl member %s: %w", wm.Name, err)
			}
			var assocVal Type
			if wm.AssocTypeValue != nil {
				assocVal, err = decodeType(wm.AssocTypeValue)
				if err != nil {
					return nil, xerrors.Errorf("impl member %s assoc type: %w", wm.Name, err)
				}
			}
			members[i] = ImplMember{ID: wm.ID, Name: wm.Name, Kind: memberKind(wm.Kind), Sig: sig, AssocTypeValue: assocVal}
		}
		var baseTrait *TraitRef
		if w.BaseTrait != nil {
			tr, err := decodeTraitRef(w.BaseTrait)
			if err != nil {
				return nil, xerrors.Errorf("impl %d base trait: %w", w.ID, err)
			}
			baseTrait = &tr
		}
		return &ImplItem{ID: w.ID, BaseTrait: baseTrait, Generics: decodeTypeParams(w.Generics), Items: members}, nil
	default:
		return nil, xerrors.Errorf("unknown item kind %q", w.Kind)
	}
}

// wireDocument is the whole input file's shape.
type wireDocument struct {
	Crate string             `json:"crate"`
	Defs  []wireDef          `json:"defs,omitempty"`
	Items []wireItem         `json:"items"`
	MIR   map[string]wireMIR `json:"mir,omitempty"`
}

// Decode parses a JSON frontend document (spec §6, "Frontend contract") into
// a Crate, a TypeContext, and a MIRProvider ready for the translator.
func Decode(data []byte) (*Crate, TypeContext, MIRProvider, error) {
	var doc wireDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, nil, xerrors.Errorf("parsing frontend document: %w", err)
	}

	ctx, err := decodeContext(doc.Defs)
	if err != nil {
		return nil, nil, nil, xerrors.Errorf("decoding typing context: %w", err)
	}

	items := make([]Item, len(doc.Items))
	for i, wi := range doc.Items {
		it, err := decodeItem(wi)
		if err != nil {
			return nil, nil, nil, xerrors.Errorf("decoding item %d: %w", i, err)
		}
		items[i] = it
	}
	crate := &Crate{Name: doc.Crate, Items: items}

	mirTable := FakeMIRTable{}
	for k, wm := range doc.MIR {
		var id DefID
		if _, err := fmt.Sscanf(k, "%d", &id); err != nil {
			return nil, nil, nil, xerrors.Errorf("mir table key %q: %w", k, err)
		}
		m, err := decodeMIR(wm)
		if err != nil {
			return nil, nil, nil, xerrors.Errorf("mir for def %s: %w", k, err)
		}
		mirTable[id] = m
	}

	return crate, ctx, mirTable, nil
}
