package item

import (
	"fmt"
	"strings"

	"github.com/electrolean/electrolean/frontend"
	"github.com/electrolean/electrolean/leansyntax"
	"github.com/electrolean/electrolean/mangle"
	"github.com/electrolean/electrolean/transpile"
	"github.com/electrolean/electrolean/xlerr"
)

// translateTrait lowers a trait declaration (spec §4.6, "Trait"). Every
// provided (default-bodied) method is translated as its own free function
// first and stored under its own id, whether or not the trait itself turns
// out to be a marker — grounded on the retained original's transpile_item,
// which runs that loop unconditionally before checking is_marker_trait.
func (t *Translator) translateTrait(tr *frontend.TraitItem) {
	for _, m := range tr.Items {
		if m.Kind == frontend.MethodMember && m.HasDefaultBody {
			t.translateTraitMethod(tr, m)
		}
	}

	name := t.ownName(tr.ID)
	if t.Types.IsMarkerTrait(t.Ctx, tr.ID) {
		t.store(tr.ID, name, "", nil)
		return
	}
	text, err := t.traitText(tr, name)
	t.store(tr.ID, name, text, err)
}

// translateTraitMethod lowers one provided-default method body as a free
// function (spec §4.5 via §4.6's "Default method implementations"),
// suppressing type predicates so a Self binder is prepended (spec §4.5,
// "Signature construction").
func (t *Translator) translateTraitMethod(tr *frontend.TraitItem, m frontend.TraitMember) {
	name := t.ownName(m.ID)
	mir, ok := t.MIR.MIR(m.ID)
	if !ok {
		t.store(m.ID, name, "", xlerr.Newf("missing MIR body for %s", name))
		return
	}
	generics := make([]frontend.TypeParam, 0, len(tr.Generics)+len(t.Ctx.Generics(m.ID)))
	generics = append(generics, tr.Generics...)
	generics = append(generics, t.Ctx.Generics(m.ID)...)

	s := transpile.NewSession(t.Ctx, t.Types, t.Registry, m.ID, mir)
	text, err := s.TranslateFunc(name, m.Sig, generics, true)
	t.store(m.ID, name, text, err)
}

// traitText builds the trait's structure declaration: a `[class]` binder
// group, a `Self` binder, associated-type binders, an `extends` clause for
// non-marker supertraits, and one field per non-default method (spec §4.6,
// "Trait").
func (t *Translator) traitText(tr *frontend.TraitItem, name string) (string, error) {
	var supertraits []string
	for _, p := range t.Types.PredicatesWithoutMarkers(t.Ctx, tr.ID) {
		if p.TraitRef.Def == tr.ID {
			continue
		}
		s, err := t.Types.TranslateTraitRef(t.Ctx, tr.ID, p.TraitRef)
		if err != nil {
			return "", err
		}
		supertraits = append(supertraits, s)
	}
	extends := ""
	if len(supertraits) > 0 {
		extends = " extends " + strings.Join(supertraits, ", ")
	}

	binderNames, err := t.Types.AssocTypeBinderNames(t.Ctx, tr.ID, tr.ID)
	if err != nil {
		return "", err
	}
	binders := make([]string, len(binderNames))
	for i, bn := range binderNames {
		binders[i] = leansyntax.Paren(bn + " : Type")
	}

	var fields []string
	for _, m := range tr.Items {
		if m.Kind != frontend.MethodMember || m.HasDefaultBody {
			continue
		}
		fnTy := frontend.FuncType{Inputs: paramTypes(m.Sig.Params), Output: m.Sig.Output}
		s, err := t.Types.TranslateType(t.Ctx, tr.ID, fnTy)
		if err != nil {
			return "", err
		}
		fields = append(fields, leansyntax.Paren(mangle.Name(m.Name)+" : "+s))
	}

	headParts := append([]string{genericTypeDef(name+" [class]", tr.Generics), "(Self : Type)"}, binders...)
	return "structure " + strings.Join(headParts, " ") + extends + " :=\n" + strings.Join(fields, "\n"), nil
}

func paramTypes(params []frontend.Param) []frontend.Type {
	out := make([]frontend.Type, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

// translateImpl lowers an impl block (spec §4.6, "Impl"): every method
// item is translated as a free function and stored under its own id;
// associated-type impl items are folded directly into the instance
// literal (no separate stored item — the retained original never
// registers a dependency-graph node for them either); a non-marker base
// trait additionally gets an instance definition.
func (t *Translator) translateImpl(im *frontend.ImplItem) {
	for _, m := range im.Items {
		if m.Kind == frontend.MethodMember {
			t.translateImplMethod(im, m)
		}
	}

	name := t.ownName(im.ID)
	if im.BaseTrait == nil || t.Types.IsMarkerTrait(t.Ctx, im.BaseTrait.Def) {
		t.store(im.ID, name, "", nil)
		return
	}
	text, err := t.implInstanceText(im, name)
	t.store(im.ID, name, text, err)
}

func (t *Translator) translateImplMethod(im *frontend.ImplItem, m frontend.ImplMember) {
	name := t.ownName(m.ID)
	mir, ok := t.MIR.MIR(m.ID)
	if !ok {
		t.store(m.ID, name, "", xlerr.Newf("missing MIR body for %s", name))
		return
	}
	generics := make([]frontend.TypeParam, 0, len(im.Generics)+len(t.Ctx.Generics(m.ID)))
	generics = append(generics, im.Generics...)
	generics = append(generics, t.Ctx.Generics(m.ID)...)

	s := transpile.NewSession(t.Ctx, t.Types, t.Registry, m.ID, mir)
	text, err := s.TranslateFunc(name, m.Sig, generics, false)
	t.store(m.ID, name, text, err)
}

// providedMethodNames returns the source (unmangled) names of traitID's
// provided (default-bodied) methods, looked up by crossing
// ProvidedTraitMethods' def ids against the trait's own member list (spec
// §9, "Default method bodies that impls override are ignored"): an impl
// method sharing a provided method's name is skipped in the instance
// literal below, exactly as the retained original filters by name rather
// than definition id.
func (t *Translator) providedMethodNames(traitID frontend.DefID) map[string]bool {
	out := map[string]bool{}
	trItem, ok := t.Registry.Trait(traitID)
	if !ok {
		return out
	}
	provided := map[frontend.DefID]bool{}
	for _, pid := range t.Ctx.ProvidedTraitMethods(traitID) {
		provided[pid] = true
	}
	for _, m := range trItem.Items {
		if provided[m.ID] {
			out[m.Name] = true
		}
	}
	return out
}

// implInstanceText builds the `[instance]` definition for a non-marker
// trait impl (spec §4.6, "Impl"). Method fields reference their
// already-stored standalone definitions by resolving through the shared
// Resolver (recording a dependency edge), not by the retained original's
// edge-free transpile_node_id: without that edge, the condensation's
// topological walk has no guarantee the method definition is emitted
// before the instance that names it, which the original tolerates because
// Lean's own top-level order doesn't enforce forward-reference soundness
// the way its own model does — this translator does enforce edge-derived
// order, so the edge is added deliberately here.
func (t *Translator) implInstanceText(im *frontend.ImplItem, implName string) (string, error) {
	trRef, err := t.Types.TranslateTraitRef(t.Ctx, im.ID, *im.BaseTrait)
	if err != nil {
		return "", err
	}

	var traitParams []string
	for _, p := range t.Types.PredicatesWithoutMarkers(t.Ctx, im.ID) {
		s, err := t.Types.TranslateTraitRef(t.Ctx, im.ID, p.TraitRef)
		if err != nil {
			return "", err
		}
		traitParams = append(traitParams, "["+s+"]")
	}

	provided := t.providedMethodNames(im.BaseTrait.Def)

	var fields []string
	for _, m := range im.Items {
		switch m.Kind {
		case frontend.AssocTypeMember:
			ty, err := t.Types.TranslateType(t.Ctx, im.ID, m.AssocTypeValue)
			if err != nil {
				return "", err
			}
			fields = append(fields, fmt.Sprintf("  %s := %s", mangle.Name(m.Name), ty))
		case frontend.MethodMember:
			if provided[m.Name] {
				continue
			}
			methodName := t.Types.Resolver.Resolve(im.ID, m.ID)
			fields = append(fields, fmt.Sprintf("  %s := %s", mangle.Name(m.Name), methodName))
		}
	}

	headParts := append([]string{genericTypeDef(implName+" [instance]", im.Generics)}, traitParams...)
	return fmt.Sprintf("noncomputable definition %s :=\n⦃\n  %s,\n%s\n⦄", strings.Join(headParts, " "), trRef, strings.Join(fields, ",\n")), nil
}
