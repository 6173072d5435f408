package frontend

// TypeContext is the typing-context half of the frontend contract (spec §6):
// it answers structural and nominal questions about DefIDs that the
// translator cannot infer from the MIR/HIR alone.
type TypeContext interface {
	// QualifiedPath returns the definition's fully-qualified source path
	// (e.g. "core::option::Option::Some"), unmangled. The translator
	// applies mangle.Name to it; see spec §3 "Definition identifier".
	QualifiedPath(id DefID) string

	// IsLocal reports whether id names a definition in the crate being
	// translated, as opposed to an external (already-compiled) crate.
	IsLocal(id DefID) bool

	// ExternalCrate returns the crate name that owns a non-local
	// definition. Only meaningful when IsLocal(id) is false.
	ExternalCrate(id DefID) string

	Kind(id DefID) DefKind

	// Generics returns id's own generic type-parameter list (not
	// including an enclosing impl's or trait's parameters).
	Generics(id DefID) []TypeParam

	// Predicates returns id's trait bounds, filtered to trait predicates
	// (spec §6: "predicate list of a definition id (filtered to trait
	// predicates)").
	Predicates(id DefID) []TraitPredicate

	// TraitItems returns a trait's member item ids (spec §6: "trait item
	// list").
	TraitItems(id DefID) []DefID

	// ImplTraitRef returns the trait an impl implements, or ok=false for
	// an inherent impl (spec §6: "impl-trait-ref for an impl").
	ImplTraitRef(id DefID) (ref TraitRef, ok bool)

	// ProvidedTraitMethods returns the def ids of a trait's methods that
	// carry a default body (spec §6: "provided_trait_methods for a
	// trait").
	ProvidedTraitMethods(traitID DefID) []DefID

	// ReceiverCategory returns a method's self-parameter category (spec
	// §6: "receiver category of a method").
	ReceiverCategory(methodID DefID) ReceiverCategory

	// OwningTrait returns the trait a method item belongs to (as a
	// provided-method declaration, not an impl), or ok=false.
	OwningTrait(methodID DefID) (traitID DefID, ok bool)

	// AssociatedTypeNames returns a trait's associated-type item names,
	// in a stable order.
	AssociatedTypeNames(traitID DefID) []string
}
