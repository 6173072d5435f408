package item

import (
	"fmt"
	"strings"

	"github.com/electrolean/electrolean/frontend"
	"github.com/electrolean/electrolean/leansyntax"
	"github.com/electrolean/electrolean/mangle"
	"github.com/electrolean/electrolean/transpile"
	"github.com/electrolean/electrolean/typetr"
	"github.com/electrolean/electrolean/xlerr"
)

// Result is one item's (or impl/trait-member's) stored translation: either
// Text (possibly empty, e.g. a marker trait or inherent impl, per spec
// §4.6 "Impl") or Err, never both (spec §7, "Propagation": "stored as an
// error value against that item's definition id").
type Result struct {
	Name string
	Text string
	Err  error
}

// Translator dispatches over a crate's items (spec §4.6) and stores one
// Result per definition id. Construct one Registry-walk ahead of
// translation (see Registry's doc comment), then Crate.Walk a Translator.
type Translator struct {
	Ctx      frontend.TypeContext
	Types    *typetr.Context
	Registry *Registry
	MIR      frontend.MIRProvider

	Results map[frontend.DefID]*Result
}

// NewTranslator builds an item translator over an already-populated
// Registry.
func NewTranslator(ctx frontend.TypeContext, types *typetr.Context, reg *Registry, mir frontend.MIRProvider) *Translator {
	return &Translator{Ctx: ctx, Types: types, Registry: reg, MIR: mir, Results: map[frontend.DefID]*Result{}}
}

// VisitItem implements frontend.ItemVisitor, dispatching by item kind (spec
// §4.6).
func (t *Translator) VisitItem(it frontend.Item) {
	switch v := it.(type) {
	case *frontend.FnItem:
		t.translateFn(v)
	case *frontend.StructItem:
		t.translateStruct(v)
	case *frontend.EnumItem:
		t.translateEnum(v)
	case *frontend.TraitItem:
		t.translateTrait(v)
	case *frontend.ImplItem:
		t.translateImpl(v)
	}
}

// store registers id as a dependency-graph node (even if nothing ever
// references it — spec §4.3's "every visited item becomes a node",
// grounded on the retained original's get_def_idx call in visit_item) and
// records its translation or failure.
func (t *Translator) store(id frontend.DefID, name, text string, err error) {
	t.Types.Resolver.Graph.NodeOf(id)
	if err != nil {
		t.Results[id] = &Result{Name: name, Err: xlerr.WithDef(err, int32(id))}
		return
	}
	t.Results[id] = &Result{Name: name, Text: text}
}

// ownName mangles id's own declaration name, without recording a
// dependency edge (it isn't a reference to another definition).
func (t *Translator) ownName(id frontend.DefID) string {
	return mangle.Name(t.Ctx.QualifiedPath(id))
}

func (t *Translator) translateFn(f *frontend.FnItem) {
	name := t.ownName(f.ID)
	mir, ok := t.MIR.MIR(f.ID)
	if !ok {
		t.store(f.ID, name, "", xlerr.Newf("missing MIR body for %s", name))
		return
	}
	s := transpile.NewSession(t.Ctx, t.Types, t.Registry, f.ID, mir)
	text, err := s.TranslateFunc(name, f.Decl, f.Generics, false)
	t.store(f.ID, name, text, err)
}

// genericTypeDef renders an item-level generic binder list (spec §4.6:
// "structure Name (T₁ : Type) …"), the parenthesized-binder counterpart to
// TranslateFunc's implicit-brace function type parameters — item
// declarations bind their own type parameters explicitly, matching the
// retained original's transpile_generic_ty_def.
func genericTypeDef(head string, generics []frontend.TypeParam) string {
	parts := make([]string, 0, len(generics)+1)
	parts = append(parts, head)
	for _, g := range generics {
		parts = append(parts, leansyntax.Paren(g.Name+" : Type"))
	}
	return strings.Join(parts, " ")
}

func (t *Translator) translateStruct(st *frontend.StructItem) {
	name := t.ownName(st.ID)
	text, err := t.structText(st, name)
	t.store(st.ID, name, text, err)
}

// structText lowers a record or tuple struct (spec §4.6, "Struct (record)"
// / "Struct (tuple)").
func (t *Translator) structText(st *frontend.StructItem, name string) (string, error) {
	head := genericTypeDef(name, st.Generics)
	switch st.Kind {
	case frontend.RecordStruct:
		fields := make([]string, len(st.Fields))
		for i, f := range st.Fields {
			ty, err := t.Types.TranslateType(t.Ctx, st.ID, f.Type)
			if err != nil {
				return "", err
			}
			fields[i] = leansyntax.Paren(mangle.Name(f.Name) + " : " + ty)
		}
		return fmt.Sprintf("structure %s :=\n%s", head, strings.Join(fields, "\n")), nil
	case frontend.TupleStruct:
		elems := make([]string, len(st.Fields))
		for i, f := range st.Fields {
			ty, err := t.Types.TranslateType(t.Ctx, st.ID, f.Type)
			if err != nil {
				return "", err
			}
			elems[i] = ty
		}
		return fmt.Sprintf("inductive %s :=\nmk %s", head, strings.Join(elems, " × ")), nil
	default:
		return "", xlerr.Newf("unimplemented: struct kind %d", st.Kind)
	}
}

func (t *Translator) translateEnum(en *frontend.EnumItem) {
	name := t.ownName(en.ID)
	text, err := t.enumText(en, name)
	t.store(en.ID, name, text, err)
}

// enumText lowers an enum's variants into one inductive constructor each
// (spec §4.6, "Enum"). Variant constructor names are emitted bare (not
// mangled), matching the retained original's transpile_enum — a use site
// always names a variant through the resolver's fully mangled path
// instead (transpile.translateSwitch), so the bare declaration name only
// has to be valid as a trailing dot-notation component.
func (t *Translator) enumText(en *frontend.EnumItem, name string) (string, error) {
	appliedParts := make([]string, 0, len(en.Generics)+1)
	appliedParts = append(appliedParts, name)
	for _, g := range en.Generics {
		appliedParts = append(appliedParts, g.Name)
	}
	applied := strings.Join(appliedParts, " ")

	arms := make([]string, len(en.Variants))
	for i, v := range en.Variants {
		switch v.Kind {
		case frontend.UnitVariant:
			arms[i] = fmt.Sprintf("| %s {} : %s", v.Name, applied)
		case frontend.TupleVariant:
			fieldTys := make([]string, len(v.Fields))
			for j, fty := range v.Fields {
				s, err := t.Types.TranslateType(t.Ctx, en.ID, fty)
				if err != nil {
					return "", err
				}
				fieldTys[j] = s
			}
			chain := append(fieldTys, applied)
			arms[i] = fmt.Sprintf("| %s : %s", v.Name, strings.Join(chain, " → "))
		default:
			return "", xlerr.Newf("unimplemented: enum variant kind %d", v.Kind)
		}
	}
	head := genericTypeDef(name, en.Generics)
	return fmt.Sprintf("inductive %s :=\n%s", head, strings.Join(arms, "\n")), nil
}
