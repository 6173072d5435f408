package transpile

import (
	"strconv"

	"github.com/electrolean/electrolean/frontend"
	"github.com/electrolean/electrolean/leansyntax"
	"github.com/electrolean/electrolean/xlerr"
)

// MaybeValue is a translated rvalue: Total is false for a partial
// (option-monad-bound) computation such as checked subtraction (spec §4.5,
// "Rvalue translation").
type MaybeValue struct {
	Text  string
	Total bool
}

func totalValue(s string) MaybeValue   { return MaybeValue{Text: s, Total: true} }
func partialValue(s string) MaybeValue { return MaybeValue{Text: s, Total: false} }

func (s *Session) getOperand(op frontend.Operand) (string, error) {
	switch o := op.(type) {
	case frontend.ConsumeOperand:
		return s.getLvalue(o.Lvalue)
	case frontend.ConstOperand:
		return s.constValue(o.Value)
	default:
		return "", xlerr.Newf("unimplemented: operand %T", op)
	}
}

func (s *Session) constValue(v frontend.ConstVal) (string, error) {
	switch v.Kind {
	case frontend.ConstBool:
		return strconv.FormatBool(v.Bool), nil
	case frontend.ConstUint:
		return strconv.FormatUint(v.Uint, 10), nil
	default:
		return "", xlerr.Newf("unimplemented: literal %s", v.Description)
	}
}

// checkedBinOps are the binary operators whose target primitive is partial
// (option-valued): unsigned subtraction, division, remainder, and shifts
// (spec §4.5, "Rvalue translation").
var checkedBinOps = map[frontend.BinOp]string{
	frontend.OpSub: "checked.sub",
	frontend.OpDiv: "checked.div",
	frontend.OpRem: "checked.mod",
	frontend.OpShl: "checked.shl",
	frontend.OpShr: "checked.shr",
}

var totalBinOps = map[frontend.BinOp]string{
	frontend.OpAdd:    "+",
	frontend.OpMul:    "*",
	frontend.OpBitXor: "XOR",
	frontend.OpBitAnd: "AND",
	frontend.OpBitOr:  "OR",
	frontend.OpEq:     "=",
	frontend.OpLt:     "<",
	frontend.OpLe:     "<=",
	frontend.OpNe:     "≠",
	frontend.OpGe:     ">=",
	frontend.OpGt:     ">",
}

// getRvalue lowers an rvalue to its MaybeValue translation (spec §4.5,
// "Rvalue translation").
func (s *Session) getRvalue(rv frontend.Rvalue) (MaybeValue, error) {
	switch r := rv.(type) {
	case frontend.UseRvalue:
		v, err := s.getOperand(r.Operand)
		if err != nil {
			return MaybeValue{}, err
		}
		return totalValue(v), nil

	case frontend.UnaryRvalue:
		v, err := s.getOperand(r.Operand)
		if err != nil {
			return MaybeValue{}, err
		}
		op := "-"
		if r.Op == frontend.OpNot {
			if r.IsBool {
				op = "bool.bnot"
			} else {
				op = "NOT"
			}
		}
		return totalValue(op + " " + v), nil

	case frontend.BinaryRvalue:
		lhs, err := s.getOperand(r.LHS)
		if err != nil {
			return MaybeValue{}, err
		}
		rhs, err := s.getOperand(r.RHS)
		if err != nil {
			return MaybeValue{}, err
		}
		if fn, ok := checkedBinOps[r.Op]; ok {
			return partialValue(fn + " " + lhs + " " + rhs), nil
		}
		sym, ok := totalBinOps[r.Op]
		if !ok {
			return MaybeValue{}, xlerr.Newf("unimplemented: binary operator %d", r.Op)
		}
		return totalValue(lhs + " " + sym + " " + rhs), nil

	case frontend.CastRvalue:
		v, err := s.getOperand(r.Operand)
		if err != nil {
			return MaybeValue{}, err
		}
		return totalValue(v), nil

	case frontend.RefRvalue:
		if r.Mutable {
			return MaybeValue{}, xlerr.Newf("unimplemented: mutable borrow outside of a statement")
		}
		v, err := s.getLvalue(r.Lvalue)
		if err != nil {
			return MaybeValue{}, err
		}
		return totalValue(v), nil

	case frontend.AggregateTuple:
		parts, err := s.getOperands(r.Operands)
		if err != nil {
			return MaybeValue{}, err
		}
		return totalValue(leansyntax.TupleValue(parts)), nil

	case frontend.AggregateAdt:
		s.resolve(r.Def)
		parts, err := s.getOperands(r.Operands)
		if err != nil {
			return MaybeValue{}, err
		}
		name := s.resolve(r.VariantDef)
		if !r.IsEnum && !r.IsTupleStruct {
			name += ".mk"
		}
		return totalValue(leansyntax.Apply(name, parts...)), nil

	default:
		return MaybeValue{}, xlerr.Newf("unimplemented: rvalue %T", rv)
	}
}

func (s *Session) getOperands(ops []frontend.Operand) ([]string, error) {
	out := make([]string, len(ops))
	for i, op := range ops {
		v, err := s.getOperand(op)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
