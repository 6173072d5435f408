package transpile

import (
	"fmt"

	"github.com/electrolean/electrolean/frontend"
	"github.com/electrolean/electrolean/mangle"
	"github.com/electrolean/electrolean/typetr"
	"github.com/electrolean/electrolean/xlerr"
)

// lvalueIndex returns the local a mutable-reference install should key on:
// lv itself if it names a local directly, or (recursively) the local behind
// a deref projection. Anything else cannot be the target of `&mut` storage
// (spec §4.5, "Mutable-reference map").
func lvalueIndex(lv frontend.Lvalue) (frontend.LocalIndex, bool) {
	switch v := lv.(type) {
	case frontend.LocalLvalue:
		return v.Index, true
	case frontend.ProjDeref:
		return lvalueIndex(v.Base)
	default:
		return 0, false
	}
}

// derefMut looks up lv in the mutable-reference map: lv resolves to an
// installed alias if it (or, through a chain of deref projections, the
// local it ultimately projects from) was the destination of a `&mut`
// assignment.
func (s *Session) derefMut(lv frontend.Lvalue) (frontend.Lvalue, bool) {
	idx, ok := lvalueIndex(lv)
	if !ok {
		return nil, false
	}
	src, ok := s.refMap[idx]
	return src, ok
}

// rawLocalName names lv's own local, bypassing the mutable-reference map —
// used only to synthesize the bound variable in a call/assignment's
// indirect-destination pass (spec §4.5, "set_lvalues_option").
func (s *Session) rawLocalName(lv frontend.Lvalue) (string, bool) {
	if v, ok := lv.(frontend.LocalLvalue); ok {
		return s.localName(v.Index), true
	}
	return "", false
}

func (s *Session) localName(idx frontend.LocalIndex) string {
	switch {
	case idx == s.mir.ReturnLocal():
		return "ret"
	case int(idx) >= s.mir.NumNamedLocals:
		return fmt.Sprintf("t%d", int(idx)-s.mir.NumNamedLocals)
	default:
		return mangle.Name(s.mir.LocalNames[idx])
	}
}

// lvalueName names lv directly, without projecting through a field or
// index — the case where no read/write rewriting is needed beyond a plain
// identifier (or, for a static, its resolved name). Resolves through the
// mutable-reference map first.
func (s *Session) lvalueName(lv frontend.Lvalue) (string, bool) {
	if src, ok := s.derefMut(lv); ok {
		return s.lvalueName(src)
	}
	switch v := lv.(type) {
	case frontend.LocalLvalue:
		return s.localName(v.Index), true
	case frontend.StaticLvalue:
		return s.resolve(v.Def), true
	case frontend.ProjDeref:
		return s.lvalueName(v.Base)
	default:
		return "", false
	}
}

// lvalueType derives an lvalue's type by walking from its owning local's
// declared type through the same projections get/setLvalue peel.
func (s *Session) lvalueType(lv frontend.Lvalue) (frontend.Type, error) {
	switch v := lv.(type) {
	case frontend.LocalLvalue:
		return s.mir.LocalTypes[v.Index], nil
	case frontend.ProjDeref:
		base, err := s.lvalueType(v.Base)
		if err != nil {
			return nil, err
		}
		return typetr.UnwrapRefs(base), nil
	case frontend.ProjField:
		base, err := s.lvalueType(v.Base)
		if err != nil {
			return nil, err
		}
		return s.fieldType(typetr.UnwrapRefs(base), v.FieldIndex)
	default:
		return nil, xlerr.Newf("unimplemented: type of lvalue %T", lv)
	}
}

func (s *Session) fieldType(baseTy frontend.Type, idx int) (frontend.Type, error) {
	switch t := baseTy.(type) {
	case frontend.Tuple:
		if idx < 0 || idx >= len(t.Elems) {
			return nil, xlerr.Newf("field index %d out of range", idx)
		}
		return t.Elems[idx], nil
	case frontend.Named:
		if st, ok := s.Registry.Struct(t.Def); ok {
			if idx < 0 || idx >= len(st.Fields) {
				return nil, xlerr.Newf("field index %d out of range for %s", idx, st.Name)
			}
			return st.Fields[idx].Type, nil
		}
		return nil, xlerr.Newf("unimplemented: accessing field of non-struct named type")
	default:
		return nil, xlerr.Newf("unimplemented: accessing field of %T", baseTy)
	}
}

// tupleElem folds a tuple projection the way the retained original source's
// get_tuple_elem does: one ".2" per index below idx, plus a trailing ".1"
// unless idx is the last field (spec §4.5, "Lvalue read/write": tuple
// field).
func tupleElem(value string, idx, length int) string {
	out := value
	for i := 0; i < idx; i++ {
		out += ".2"
	}
	if idx != length-1 {
		out += ".1"
	}
	return out
}

// getLvalue reads an lvalue (spec §4.5, "Lvalue read/write").
func (s *Session) getLvalue(lv frontend.Lvalue) (string, error) {
	if src, ok := s.derefMut(lv); ok {
		return s.getLvalue(src)
	}
	if name, ok := s.lvalueName(lv); ok {
		return name, nil
	}
	switch v := lv.(type) {
	case frontend.ProjDeref:
		return s.getLvalue(v.Base)
	case frontend.ProjField:
		if dc, ok := v.Base.(frontend.ProjDowncast); ok {
			base, err := s.getLvalue(dc.Base)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s_%d", base, v.FieldIndex), nil
		}
		return s.getFieldProjection(v)
	default:
		return "", xlerr.Newf("unimplemented: loading %T", lv)
	}
}

func (s *Session) getFieldProjection(v frontend.ProjField) (string, error) {
	baseTy, err := s.lvalueType(v.Base)
	if err != nil {
		return "", err
	}
	baseStr, err := s.getLvalue(v.Base)
	if err != nil {
		return "", err
	}
	switch t := typetr.UnwrapRefs(baseTy).(type) {
	case frontend.Tuple:
		return tupleElem(baseStr, v.FieldIndex, len(t.Elems)), nil
	case frontend.Named:
		st, ok := s.Registry.Struct(t.Def)
		if !ok {
			return "", xlerr.Newf("unimplemented: accessing field of non-struct type")
		}
		if st.Kind == frontend.TupleStruct {
			elem := tupleElem(baseStr, v.FieldIndex, len(st.Fields))
			return fmt.Sprintf("match %s with %s x := x end", elem, s.resolve(st.ID)), nil
		}
		return fmt.Sprintf("(%s.%s %s)", s.resolve(st.ID), mangle.Name(st.Fields[v.FieldIndex].Name), baseStr), nil
	default:
		return "", xlerr.Newf("unimplemented: accessing field of %T", baseTy)
	}
}

// setLvalue writes val into an lvalue (spec §4.5, "Lvalue read/write").
func (s *Session) setLvalue(lv frontend.Lvalue, val string) (string, error) {
	if src, ok := s.derefMut(lv); ok {
		return s.setLvalue(src, val)
	}
	if name, ok := s.lvalueName(lv); ok {
		return fmt.Sprintf("let %s := %s in\n", name, val), nil
	}
	switch v := lv.(type) {
	case frontend.ProjDeref:
		return s.setLvalue(v.Base, val)
	case frontend.ProjField:
		baseName, ok := s.lvalueName(v.Base)
		if !ok {
			return "", xlerr.Newf("unimplemented: nested field assignment")
		}
		baseTy, err := s.lvalueType(v.Base)
		if err != nil {
			return "", err
		}
		t, ok := typetr.UnwrapRefs(baseTy).(frontend.Named)
		if !ok {
			return "", xlerr.Newf("unimplemented: setting field of %T", baseTy)
		}
		st, ok := s.Registry.Struct(t.Def)
		if !ok {
			return "", xlerr.Newf("unimplemented: setting field of non-struct type")
		}
		if st.Kind == frontend.TupleStruct {
			return "", xlerr.Newf("unimplemented: assigning through a tuple-struct field")
		}
		fieldName := mangle.Name(st.Fields[v.FieldIndex].Name)
		return fmt.Sprintf("let %s := ⦃ %s, %s := %s, %s ⦄ in\n", baseName, s.resolve(st.ID), fieldName, val, baseName), nil
	default:
		return "", xlerr.Newf("unimplemented: setting lvalue %T", lv)
	}
}
