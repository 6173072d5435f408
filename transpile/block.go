package transpile

import (
	"fmt"
	"strings"

	"github.com/electrolean/electrolean/frontend"
	"github.com/electrolean/electrolean/leansyntax"
	"github.com/electrolean/electrolean/region"
	"github.com/electrolean/electrolean/typetr"
	"github.com/electrolean/electrolean/xlerr"
)

// translateBlockRec is the jump-target entry point: a self-call at the
// region's own header, otherwise a straight-line descent (spec §4.5,
// "Basic-block translation").
func (s *Session) translateBlockRec(id frontend.BlockID, comp *region.Region) (string, error) {
	if comp.Header != nil && *comp.Header == id {
		return "rec " + comp.RetVal, nil
	}
	return s.translateBlock(id, comp)
}

// translateBlock forces translation of one block, even if it is comp's own
// header (used for the initial descent into a region and for the header of
// a freshly extracted loop).
func (s *Session) translateBlock(id frontend.BlockID, comp *region.Region) (string, error) {
	if !comp.Blocks[id] {
		comp.Exits[id] = true
		return "some " + comp.RetVal, nil
	}

	for _, l := range comp.Loops {
		if l.Blocks[id] {
			return s.extractLoop(l, comp)
		}
	}

	b := s.mir.Block(id)
	var out strings.Builder
	for _, st := range b.Statements {
		text, err := s.translateStatement(st, comp.LiveDefs)
		if err != nil {
			return "", err
		}
		out.WriteString(text)
	}
	term, err := s.translateTerminator(b.Terminator, comp)
	if err != nil {
		return "", err
	}
	out.WriteString(term)
	return out.String(), nil
}

// extractLoop lifts loop region l (found while translating comp, l's
// parent) into an auxiliary `f.loop_h` definition and returns the call-site
// text that replaces l's header in comp's body (spec §4.4 "Loop
// extraction", §4.5 "Basic-block translation").
func (s *Session) extractLoop(l, parent *region.Region) (string, error) {
	definedInL, usedInL := region.DefsUses(s.mir, l.Blocks)

	var d, u []frontend.LocalIndex
	for idx := 0; idx < s.mir.NumLocals(); idx++ {
		li := frontend.LocalIndex(idx)
		if parent.LiveDefs[li] && definedInL[li] {
			d = append(d, li)
		}
	}
	for idx := 0; idx < s.mir.NumLocals(); idx++ {
		li := frontend.LocalIndex(idx)
		if parent.LiveDefs[li] && usedInL[li] && !definedInL[li] {
			u = append(u, li)
		}
	}

	dNames := make([]string, len(d))
	for i, li := range d {
		dNames[i] = s.localName(li)
	}
	uNames := make([]string, len(u))
	for i, li := range u {
		uNames[i] = s.localName(li)
	}

	defsText := leansyntax.TupleValue(dNames)
	l.RetVal = defsText

	params := append(append([]string(nil), s.staticParams...), uNames...)
	name := fmt.Sprintf("%s.loop_%d", s.funcName, int(*l.Header))

	body, err := s.translateBlock(*l.Header, l)
	if err != nil {
		return "", err
	}

	if len(l.Exits) != 1 {
		panic(fmt.Sprintf("Oops, multiple loop exits: %v", l.Exits))
	}
	var exit frontend.BlockID
	for e := range l.Exits {
		exit = e
	}

	header := joinSpace(append(append([]string{name}, params...), defsText))
	s.prelude = append(s.prelude, fmt.Sprintf("noncomputable definition %s :=\n%s", header, body))

	cont, err := s.translateBlockRec(exit, parent)
	if err != nil {
		return "", err
	}
	call := leansyntax.Paren(leansyntax.Apply(name, params...))
	return fmt.Sprintf("do do_tmp ← fix_opt %s %s;\nmatch do_tmp with %s :=\n%send\n", call, defsText, defsText, cont), nil
}

// translateTerminator lowers the single control-flow instruction ending a
// block (spec §4.5, "Basic-block translation").
func (s *Session) translateTerminator(t frontend.Terminator, comp *region.Region) (string, error) {
	switch term := t.(type) {
	case frontend.GotoTerm:
		return s.translateBlockRec(term.Target, comp)

	case frontend.IfTerm:
		cond, err := s.getOperand(term.Cond)
		if err != nil {
			return "", err
		}
		thenText, err := s.translateBlockRec(term.Then, comp)
		if err != nil {
			return "", err
		}
		elseText, err := s.translateBlockRec(term.Else, comp)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("if %s then\n%selse\n%s", cond, thenText, elseText), nil

	case frontend.ReturnTerm:
		return s.returnExpr()

	case frontend.CallTerm:
		return s.translateCall(term, comp)

	case frontend.SwitchTerm:
		return s.translateSwitch(term, comp)

	case frontend.SwitchIntTerm:
		return s.translateSwitchInt(term, comp)

	case frontend.DropTerm:
		return s.translateBlockRec(term.Target, comp)

	case frontend.ResumeTerm:
		return "", nil

	default:
		return "", xlerr.Newf("unimplemented: terminator %T", t)
	}
}

// returnExpr builds the function's return encoding (spec §4.5, "Return
// encoding"): `some (r, m1, ..., mk)`, collapsing to `some ()` when there
// is nothing but a unit source return and no mutable-reference outputs.
func (s *Session) returnExpr() (string, error) {
	ret := "ret"
	if isUnitType(typetr.UnwrapRefs(s.mir.LocalTypes[s.mir.ReturnLocal()])) {
		ret = "()"
	}
	names := []string{ret}
	for i, ty := range s.paramTypes {
		if _, ok := typetr.TryUnwrapMutRef(ty); ok {
			names = append(names, s.paramNames[i])
		}
	}
	if len(names) == 1 && names[0] == "()" {
		return "some ()\n", nil
	}
	return "some " + leansyntax.TupleValue(names) + "\n", nil
}

// translateCall lowers a Call terminator (spec §4.5, "Call"): an
// intrinsics allowlist check, an explicit Self-type argument for
// static-receiver trait calls, and a two-pass destination bind.
func (s *Session) translateCall(t frontend.CallTerm, comp *region.Region) (string, error) {
	mangled := s.resolve(t.Callee)
	if strings.HasPrefix(mangled, "intrinsics.") {
		switch mangled {
		case "intrinsics.add_with_overflow", "intrinsics.sub_with_overflow", "intrinsics.mul_with_overflow":
		default:
			return "", xlerr.Newf("unimplemented intrinsic: %s", mangled)
		}
	}

	var args []string
	if t.CalleeSelfType != nil {
		selfTy, err := s.translateType(t.CalleeSelfType)
		if err != nil {
			return "", err
		}
		args = append(args, selfTy)
	}
	operandArgs, err := s.getOperands(t.Args)
	if err != nil {
		return "", err
	}
	args = append(args, operandArgs...)
	callExpr := leansyntax.Apply(mangled, args...)

	if t.Dest == nil {
		return "", xlerr.Newf("unimplemented: call with no destination")
	}

	dests, err := s.callReturnDests(t)
	if err != nil {
		return "", err
	}
	cont, err := s.translateBlockRec(t.Dest.Continuation, comp)
	if err != nil {
		return "", err
	}
	return s.bindLvaluesOption(dests, callExpr, cont)
}

// callReturnDests lists a call's bound destinations in order: the primary
// destination, then every `&mut`-typed argument (spec §4.5, "Call":
// call_return_dests).
func (s *Session) callReturnDests(t frontend.CallTerm) ([]frontend.Lvalue, error) {
	dests := []frontend.Lvalue{t.Dest.Lvalue}
	for _, a := range t.Args {
		c, ok := a.(frontend.ConsumeOperand)
		if !ok {
			continue
		}
		ty, err := s.lvalueType(c.Lvalue)
		if err != nil {
			return nil, err
		}
		if _, ok := typetr.TryUnwrapMutRef(ty); ok {
			dests = append(dests, c.Lvalue)
		}
	}
	return dests, nil
}

// bindLvaluesOption unpacks a total value bound into one or more
// destinations, in two passes: destinations nameable directly bind in the
// match pattern; destinations reached only through the mutable-reference
// map get a synthesized temp name bound in the pattern and then written
// through to their aliased target (spec §4.5, "set_lvalues_option").
func (s *Session) bindLvaluesOption(dests []frontend.Lvalue, val, cont string) (string, error) {
	names := make([]string, len(dests))
	var writes strings.Builder
	for i, lv := range dests {
		if name, ok := s.lvalueName(lv); ok {
			names[i] = name
			continue
		}
		src, ok := s.derefMut(lv)
		if !ok {
			return "", xlerr.Newf("unimplemented: call destination is not nameable")
		}
		tmp, ok := s.rawLocalName(lv)
		if !ok {
			return "", xlerr.Newf("unimplemented: call destination is not nameable")
		}
		write, err := s.setLvalue(src, tmp)
		if err != nil {
			return "", err
		}
		names[i] = tmp
		writes.WriteString(write)
	}
	pattern := leansyntax.TupleValue(names)
	return fmt.Sprintf("do do_tmp ← %s;\nmatch do_tmp with %s :=\n%s%send\n", val, pattern, writes.String(), cont), nil
}

// translateSwitch lowers an enum-match terminator, binding each variant's
// fields positionally as `<discr>_<i>` (spec §4.5, scenario 4).
func (s *Session) translateSwitch(t frontend.SwitchTerm, comp *region.Region) (string, error) {
	discr, err := s.getLvalue(t.Discr)
	if err != nil {
		return "", err
	}
	variants, err := s.enumVariants(t.EnumDef)
	if err != nil {
		return "", err
	}
	if len(variants) != len(t.Targets) {
		return "", xlerr.Newf("unimplemented: switch targets do not match variant count")
	}

	arms := make([]string, len(variants))
	for i, v := range variants {
		names := make([]string, len(v.Fields)+1)
		names[0] = s.resolve(v.ID)
		for j := range v.Fields {
			names[j+1] = fmt.Sprintf("%s_%d", discr, j)
		}
		body, err := s.translateBlockRec(t.Targets[i], comp)
		if err != nil {
			return "", err
		}
		arms[i] = fmt.Sprintf("| %s :=\n%s", strings.Join(names, " "), body)
	}
	return fmt.Sprintf("match %s with\n%send\n", discr, strings.Join(arms, "\n")), nil
}

func (s *Session) enumVariants(enumDef frontend.DefID) ([]frontend.VariantDecl, error) {
	en, ok := s.Registry.Enum(enumDef)
	if !ok {
		return nil, xlerr.Newf("unimplemented: switch over unknown enum")
	}
	return en.Variants, nil
}

// translateSwitchInt lowers an integer-literal match plus fallback (spec
// §4.5, "Basic-block translation").
func (s *Session) translateSwitchInt(t frontend.SwitchIntTerm, comp *region.Region) (string, error) {
	discr, err := s.getLvalue(t.Discr)
	if err != nil {
		return "", err
	}
	if len(t.Targets) != len(t.Values)+1 {
		return "", xlerr.Newf("switch-int has %d targets for %d values, want %d", len(t.Targets), len(t.Values), len(t.Values)+1)
	}
	arms := make([]string, len(t.Values))
	for i, v := range t.Values {
		lit, err := s.constValue(v)
		if err != nil {
			return "", err
		}
		body, err := s.translateBlockRec(t.Targets[i], comp)
		if err != nil {
			return "", err
		}
		arms[i] = fmt.Sprintf("| %s := %s", lit, body)
	}
	fallback, err := s.translateBlockRec(t.Targets[len(t.Targets)-1], comp)
	if err != nil {
		return "", err
	}
	arms = append(arms, "| _ := "+fallback)
	return fmt.Sprintf("match %s with\n%s\nend\n", discr, strings.Join(arms, "\n")), nil
}
