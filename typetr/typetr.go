// Package typetr lowers a source type to a target type expression (spec
// §4.2, "Type Translator").
package typetr

import (
	"strings"

	"github.com/electrolean/electrolean/depgraph"
	"github.com/electrolean/electrolean/frontend"
	"github.com/electrolean/electrolean/leansyntax"
	"github.com/electrolean/electrolean/mangle"
	"github.com/electrolean/electrolean/xlerr"
)

// Context bundles the dependency resolver every name lookup must go
// through, plus a small memoized marker-trait cache: marker-ness is
// re-queried for every trait-ref translation (every predicate on every
// generic), so without memoization a deeply-bounded generic function
// re-walks the same supertrait chains repeatedly. Modeled on go/ssa's own
// identity-keyed caches (e.g. Program.methodSets).
type Context struct {
	Resolver *depgraph.Resolver

	markerCache map[frontend.DefID]bool
}

// NewContext builds a type-translation context over a dependency resolver.
func NewContext(r *depgraph.Resolver) *Context {
	return &Context{Resolver: r, markerCache: map[frontend.DefID]bool{}}
}

// UnwrapRefs peels shared and mutable references down to the referent.
func UnwrapRefs(t frontend.Type) frontend.Type {
	for {
		r, ok := t.(frontend.Ref)
		if !ok {
			return t
		}
		t = r.Elem
	}
}

// TryUnwrapMutRef returns the referent and true iff t is a mutable
// reference; otherwise it returns (nil, false).
func TryUnwrapMutRef(t frontend.Type) (frontend.Type, bool) {
	if r, ok := t.(frontend.Ref); ok && r.Mutable {
		return r.Elem, true
	}
	return nil, false
}

// IsMarkerTrait reports whether a trait has no items and every
// super-predicate is itself marker (spec §4.2). Self-referential
// supertrait lists (a trait listing itself, which the frontend may do to
// represent the trivial bound) terminate via the memoization cache rather
// than infinite recursion.
func (c *Context) IsMarkerTrait(ctx frontend.TypeContext, traitID frontend.DefID) bool {
	if v, ok := c.markerCache[traitID]; ok {
		return v
	}
	// Break cycles conservatively: assume marker while computing, fixed
	// up below if that assumption was wrong. A trait cannot depend on its
	// own non-markerness to prove non-markerness, so this is safe.
	c.markerCache[traitID] = true

	if len(ctx.TraitItems(traitID)) > 0 {
		c.markerCache[traitID] = false
		return false
	}
	for _, pred := range ctx.Predicates(traitID) {
		if pred.DefID() == traitID {
			continue
		}
		if !c.IsMarkerTrait(ctx, pred.DefID()) {
			c.markerCache[traitID] = false
			return false
		}
	}
	return c.markerCache[traitID]
}

// PredicatesWithoutMarkers returns id's trait predicates with marker
// traits filtered out.
func (c *Context) PredicatesWithoutMarkers(ctx frontend.TypeContext, id frontend.DefID) []frontend.TraitPredicate {
	all := ctx.Predicates(id)
	out := make([]frontend.TraitPredicate, 0, len(all))
	for _, p := range all {
		if !c.IsMarkerTrait(ctx, p.DefID()) {
			out = append(out, p)
		}
	}
	return out
}

// TranslateTraitRef emits the mangled trait name, then space-separated
// translated type arguments, then one "_" per associated type of each
// non-marker super-predicate (spec §4.2, "translateTraitRef").
func (c *Context) TranslateTraitRef(ctx frontend.TypeContext, user frontend.DefID, tr frontend.TraitRef) (string, error) {
	parts := []string{c.Resolver.Resolve(user, tr.Def)}
	for _, arg := range tr.Args {
		s, err := c.TranslateType(ctx, user, arg)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	for _, pred := range c.PredicatesWithoutMarkers(ctx, tr.Def) {
		for range ctx.AssociatedTypeNames(pred.DefID()) {
			parts = append(parts, "_")
		}
	}
	return strings.Join(parts, " "), nil
}

// AssocTypeBinderNames lists the mangled associated-type binder names owed
// by id's own non-marker predicates (spec §4.6, "Trait": "Associated-type
// items are represented purely as added binders"). Because a trait's own
// associated types surface as a (non-marker) self-predicate in its
// predicate list, calling this with id itself picks those up too, exactly
// as it picks up a supertrait's — there is no separate "own associated
// types" query.
func (c *Context) AssocTypeBinderNames(ctx frontend.TypeContext, user, id frontend.DefID) ([]string, error) {
	var names []string
	for _, pred := range c.PredicatesWithoutMarkers(ctx, id) {
		trName, err := c.TranslateTraitRef(ctx, user, pred.TraitRef)
		if err != nil {
			return nil, err
		}
		prefix := strings.ReplaceAll(mangle.Name(trName), ".", "_")
		for _, an := range ctx.AssociatedTypeNames(pred.DefID()) {
			names = append(names, prefix+"_"+an)
		}
	}
	return names, nil
}

// translateAssociatedType mangles a projection `<TraitRef as Trait>::Item`
// into a single flat identifier (spec §3, "associated type projection").
func (c *Context) translateAssociatedType(ctx frontend.TypeContext, user frontend.DefID, proj frontend.Projection) (string, error) {
	traitRef, err := c.TranslateTraitRef(ctx, user, proj.Trait)
	if err != nil {
		return "", err
	}
	return mangle.Name(traitRef) + "_" + proj.Item, nil
}

// TranslateType lowers a source type to a target type expression (spec §3,
// §4.2).
func (c *Context) TranslateType(ctx frontend.TypeContext, user frontend.DefID, t frontend.Type) (string, error) {
	switch t := t.(type) {
	case frontend.Bool:
		return "Prop", nil
	case frontend.UnsignedInt:
		return t.Name, nil
	case frontend.SignedInt:
		return "", xlerr.Newf("unimplemented: signed integers (%s)", t.Name)
	case frontend.Float:
		return "", xlerr.Newf("unimplemented: floating-point types (%s)", t.Name)
	case frontend.Tuple:
		elems := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			s, err := c.TranslateType(ctx, user, e)
			if err != nil {
				return "", err
			}
			elems[i] = s
		}
		return leansyntax.TupleType(elems), nil
	case frontend.Slice:
		elem, err := c.TranslateType(ctx, user, t.Elem)
		if err != nil {
			return "", err
		}
		return leansyntax.Paren("slice " + elem), nil
	case frontend.FuncType:
		if t.Diverging {
			return "", xlerr.Newf("unimplemented: diverging function")
		}
		inputs := make([]string, len(t.Inputs))
		for i, in := range t.Inputs {
			s, err := c.TranslateType(ctx, user, in)
			if err != nil {
				return "", err
			}
			inputs[i] = s
		}
		retTy, err := c.TranslateType(ctx, user, t.Output)
		if err != nil {
			return "", err
		}
		outs := []string{retTy}
		for _, in := range t.Inputs {
			if m, ok := TryUnwrapMutRef(in); ok {
				s, err := c.TranslateType(ctx, user, m)
				if err != nil {
					return "", err
				}
				outs = append(outs, s)
			}
		}
		return leansyntax.ArrowChain(inputs, "option "+leansyntax.TupleType(outs)), nil
	case frontend.Named:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			s, err := c.TranslateType(ctx, user, a)
			if err != nil {
				return "", err
			}
			args[i] = s
		}
		for _, pred := range c.PredicatesWithoutMarkers(ctx, t.Def) {
			for range ctx.AssociatedTypeNames(pred.DefID()) {
				args = append(args, "_")
			}
		}
		return leansyntax.Apply(c.Resolver.Resolve(user, t.Def), args...), nil
	case frontend.Ref:
		return c.TranslateType(ctx, user, t.Elem)
	case frontend.TypeParamRef:
		return t.Name, nil
	case frontend.Projection:
		return c.translateAssociatedType(ctx, user, t)
	case frontend.DynTraitObject:
		return "", xlerr.Newf("unimplemented: trait objects")
	default:
		return "", xlerr.Newf("unimplemented: type %T lacks a structural translation", t)
	}
}
