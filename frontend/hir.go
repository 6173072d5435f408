package frontend

// StructKind distinguishes record structs from tuple structs.
type StructKind int

const (
	RecordStruct StructKind = iota
	TupleStruct
)

// VariantKind distinguishes unit enum variants from tuple-like ones.
type VariantKind int

const (
	UnitVariant VariantKind = iota
	TupleVariant
)

// MemberKind distinguishes a trait/impl member that is a method from one
// that is an associated type.
type MemberKind int

const (
	MethodMember MemberKind = iota
	AssocTypeMember
)

// Param is one function parameter.
type Param struct {
	// Pattern is the parameter's plain identifier name, or "" if the
	// source pattern is not a plain identifier (spec §4.5, "Signature
	// construction": "p{i} if the pattern is not a plain identifier").
	Pattern string
	Type    Type
}

// FnDecl is a function or method signature as seen at the HIR level.
type FnDecl struct {
	Params []Param
	Output Type
}

// Item is one top-level (or impl/trait-member) declaration.
type Item interface {
	DefID() DefID
	isItem()
}

type FnItem struct {
	ID       DefID
	Name     string
	Generics []TypeParam
	Decl     FnDecl
}

type FieldDecl struct {
	Name string
	Type Type
}

type StructItem struct {
	ID       DefID
	Name     string
	Generics []TypeParam
	Kind     StructKind
	Fields   []FieldDecl
}

type VariantDecl struct {
	ID     DefID
	Name   string
	Kind   VariantKind
	Fields []Type
}

type EnumItem struct {
	ID       DefID
	Name     string
	Generics []TypeParam
	Variants []VariantDecl
}

// TraitMember is one item inside a trait declaration: a method signature
// (with or without a default body) or an associated-type binder.
type TraitMember struct {
	ID              DefID
	Name            string
	Kind            MemberKind
	Sig             FnDecl
	HasDefaultBody  bool
}

type TraitItem struct {
	ID       DefID
	Name     string
	Generics []TypeParam
	Items    []TraitMember
}

// ImplMember is one item inside an impl block.
type ImplMember struct {
	ID   DefID
	Name string
	Kind MemberKind
	Sig  FnDecl
	// AssocTypeValue holds the concrete type when Kind == AssocTypeMember.
	AssocTypeValue Type
}

type ImplItem struct {
	ID DefID
	// BaseTrait is nil for an inherent impl.
	BaseTrait *TraitRef
	Generics  []TypeParam
	Items     []ImplMember
}

func (*FnItem) isItem()     {}
func (*StructItem) isItem() {}
func (*EnumItem) isItem()   {}
func (*TraitItem) isItem()  {}
func (*ImplItem) isItem()   {}

func (f *FnItem) DefID() DefID     { return f.ID }
func (s *StructItem) DefID() DefID { return s.ID }
func (e *EnumItem) DefID() DefID   { return e.ID }
func (t *TraitItem) DefID() DefID  { return t.ID }
func (i *ImplItem) DefID() DefID   { return i.ID }

// Crate is the whole HIR tree for one compilation unit.
type Crate struct {
	Name  string
	Items []Item
}

// ItemVisitor is implemented by consumers that walk a Crate (spec §6, "the
// HIR tree, walkable by an item visitor").
type ItemVisitor interface {
	VisitItem(Item)
}

// Walk visits every top-level item in declaration order.
func (c *Crate) Walk(v ItemVisitor) {
	for _, item := range c.Items {
		v.VisitItem(item)
	}
}
