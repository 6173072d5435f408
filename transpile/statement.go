package transpile

import (
	"fmt"

	"github.com/electrolean/electrolean/frontend"
	"github.com/electrolean/electrolean/typetr"
	"github.com/electrolean/electrolean/xlerr"
)

func isUnitType(t frontend.Type) bool {
	tup, ok := t.(frontend.Tuple)
	return ok && len(tup.Elems) == 0
}

// translateStatement lowers one MIR statement (spec §4.5, "Statement
// translation"): a `&mut` assignment installs the mutable-reference map
// entry and emits nothing; an assignment to a unit-typed, non-return-slot
// lvalue is elided; otherwise the lvalue is recorded live and the rvalue is
// bound with `let` (total) or a `do`-bind (partial).
func (s *Session) translateStatement(st frontend.Statement, liveDefs map[frontend.LocalIndex]bool) (string, error) {
	if ref, ok := st.Rvalue.(frontend.RefRvalue); ok && ref.Mutable {
		idx, ok := lvalueIndex(st.Lvalue)
		if !ok {
			return "", xlerr.Newf("unimplemented: storing through %T", st.Lvalue)
		}
		s.refMap[idx] = ref.Lvalue
		return "", nil
	}

	isReturnSlot := false
	if lv, ok := st.Lvalue.(frontend.LocalLvalue); ok && lv.Index == s.mir.ReturnLocal() {
		isReturnSlot = true
	}
	if !isReturnSlot {
		ty, err := s.lvalueType(st.Lvalue)
		if err != nil {
			return "", err
		}
		if isUnitType(typetr.UnwrapRefs(ty)) {
			return "", nil
		}
	}

	if lv, ok := st.Lvalue.(frontend.LocalLvalue); ok {
		liveDefs[lv.Index] = true
	}

	val, err := s.getRvalue(st.Rvalue)
	if err != nil {
		return "", err
	}
	if val.Total {
		return s.setLvalue(st.Lvalue, val.Text)
	}
	write, err := s.setLvalue(st.Lvalue, "do_tmp")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("do do_tmp ← %s;\n%s", val.Text, write), nil
}
