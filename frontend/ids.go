// Package frontend defines the data model and interfaces that electrolean's
// translation engine consumes from an external frontend: a typing context,
// a MIR table, and a HIR tree (spec §6, "Frontend contract"). Parsing, type
// checking, monomorphization and MIR lowering are out of scope for this
// repository; this package only describes their output shape.
package frontend

// DefID is an opaque handle identifying one source-level definition: a
// function, struct, enum, trait, or impl item. Two DefIDs are equal iff
// they name the same definition.
type DefID int32

// NoDefID is the zero value, used where a definition reference is optional
// (e.g. an inherent impl has no base trait).
const NoDefID DefID = 0

// DefKind classifies what a DefID names.
type DefKind int

const (
	KindFn DefKind = iota
	KindStruct
	KindEnum
	KindTrait
	KindImplItem
	KindStatic
)

func (k DefKind) String() string {
	switch k {
	case KindFn:
		return "fn"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindTrait:
		return "trait"
	case KindImplItem:
		return "impl-item"
	case KindStatic:
		return "static"
	default:
		return "unknown"
	}
}

// ReceiverCategory classifies how a method takes self.
type ReceiverCategory int

const (
	ReceiverStatic ReceiverCategory = iota // no self parameter (associated function)
	ReceiverByRef                          // &self
	ReceiverByMutRef                       // &mut self
	ReceiverByValue                        // self
)

// TypeParam is a single generic type-parameter binder.
type TypeParam struct {
	Name string
}

// TraitRef is a trait applied to a list of type arguments, e.g. `Eq<T>`.
type TraitRef struct {
	Def  DefID
	Args []Type
}

// TraitPredicate is a trait bound (`T: SomeTrait<U>`). In this model a
// predicate's defining trait is simply its TraitRef's Def.
type TraitPredicate struct {
	TraitRef TraitRef
}

func (p TraitPredicate) DefID() DefID { return p.TraitRef.Def }
