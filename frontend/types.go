package frontend

// Type is the source type-system's type expression, as handed to the
// translator by the frontend. It mirrors the shape of go/types.Type in the
// teacher corpus: a closed interface implemented by a fixed set of concrete
// structs, one per structural form enumerated in spec §3 ("Target type
// expression").
type Type interface {
	isType()
}

// Bool is the source boolean type; translates to the target's proposition
// type.
type Bool struct{}

// UnsignedInt is an unsigned integer of a given bit width (8/16/32/64/size).
type UnsignedInt struct {
	// Name is the width-qualified spelling the frontend already uses,
	// e.g. "u32", "u64", "usize". The translator passes it through.
	Name string
}

// SignedInt is a signed integer. Unimplemented: translating it is always
// an error (spec §4.2).
type SignedInt struct {
	Name string
}

// Float is a floating-point type. Unimplemented: translating it is always
// an error (spec §4.2).
type Float struct {
	Name string
}

// Tuple is a tuple of n types; n == 0 is the unit type.
type Tuple struct {
	Elems []Type
}

// Slice is a source slice type `[T]`. Not mentioned as unsupported by the
// spec's enumerated error cases, and present in the retained original
// source (`(slice T)`), so it is carried through rather than rejected.
type Slice struct {
	Elem Type
}

// Ref is a shared or mutable reference. References are erased in the
// target: TranslateType(Ref{...}) recurses on Elem regardless of Mutable.
type Ref struct {
	Mutable bool
	Elem    Type
}

// FuncType is a function type. Diverging is true for a function that never
// returns (`-> !`); translating such a type is always an error.
type FuncType struct {
	Inputs    []Type
	Output    Type
	Diverging bool
}

// TypeParamRef refers to a generic type parameter by name.
type TypeParamRef struct {
	Name string
}

// Projection is an associated-type projection `<TraitRef as Trait>::Item`.
type Projection struct {
	Trait TraitRef
	Item  string
}

// Named is a user-defined aggregate type (struct or enum) applied to type
// arguments.
type Named struct {
	Def  DefID
	Args []Type
}

// DynTraitObject is a dynamic-dispatch trait object `dyn Trait`.
// Unimplemented: translating it is always an error (spec §4.2).
type DynTraitObject struct {
	Trait TraitRef
}

func (Bool) isType()           {}
func (UnsignedInt) isType()    {}
func (SignedInt) isType()      {}
func (Float) isType()          {}
func (Tuple) isType()          {}
func (Slice) isType()          {}
func (Ref) isType()            {}
func (FuncType) isType()       {}
func (TypeParamRef) isType()   {}
func (Projection) isType()     {}
func (Named) isType()          {}
func (DynTraitObject) isType() {}

// Unit is shorthand for the empty tuple.
func Unit() Type { return Tuple{} }
