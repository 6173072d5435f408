// Package item is the item translator and emitter (spec §4.6): it
// dispatches over a crate's top-level (and impl/trait-member) items,
// storing each one's translation (or failure) against its definition id,
// then assembles the single output document the condensation walk
// produces.
package item

import "github.com/electrolean/electrolean/frontend"

// Registry is the HIR-derived lookup transpile.Session needs for lvalue
// field projection (transpile.Registry), extended with a trait lookup the
// item package itself needs when building an impl's instance literal. It
// is populated by a first walk of the crate, before any item is
// translated, since a function may project through a struct or enum
// declared later in source order.
type Registry struct {
	structs map[frontend.DefID]*frontend.StructItem
	enums   map[frontend.DefID]*frontend.EnumItem
	traits  map[frontend.DefID]*frontend.TraitItem
}

// NewRegistry returns an empty Registry ready to Walk a Crate.
func NewRegistry() *Registry {
	return &Registry{
		structs: map[frontend.DefID]*frontend.StructItem{},
		enums:   map[frontend.DefID]*frontend.EnumItem{},
		traits:  map[frontend.DefID]*frontend.TraitItem{},
	}
}

// VisitItem implements frontend.ItemVisitor, recording every struct, enum,
// and trait declaration (impls and functions have nothing a Registry
// lookup needs).
func (r *Registry) VisitItem(it frontend.Item) {
	switch v := it.(type) {
	case *frontend.StructItem:
		r.structs[v.ID] = v
	case *frontend.EnumItem:
		r.enums[v.ID] = v
	case *frontend.TraitItem:
		r.traits[v.ID] = v
	}
}

func (r *Registry) Struct(def frontend.DefID) (*frontend.StructItem, bool) {
	s, ok := r.structs[def]
	return s, ok
}

func (r *Registry) Enum(def frontend.DefID) (*frontend.EnumItem, bool) {
	e, ok := r.enums[def]
	return e, ok
}

func (r *Registry) Trait(def frontend.DefID) (*frontend.TraitItem, bool) {
	t, ok := r.traits[def]
	return t, ok
}
