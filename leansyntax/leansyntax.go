// Package leansyntax holds small, shared formatting helpers for the target
// surface syntax. It has no knowledge of the source language; it only knows
// how to glue strings together the way the target's pretty-printer expects,
// the same role ssa/print.go plays for go/ssa's textual dump (plain
// fmt.Fprintf composition, no templating engine).
package leansyntax

import "strings"

// Paren wraps s in parentheses.
func Paren(s string) string { return "(" + s + ")" }

// Apply joins a head with its space-separated arguments, eliding the space
// entirely when there are no arguments.
func Apply(head string, args ...string) string {
	if len(args) == 0 {
		return head
	}
	return head + " " + strings.Join(args, " ")
}

// TupleType renders a (possibly empty) list of element type strings as the
// target's tuple-type syntax: "unit" for zero elements, the bare element
// for one, and a parenthesized "×"-separated list for two or more (spec §3,
// "Target type expression").
func TupleType(elems []string) string {
	switch len(elems) {
	case 0:
		return "unit"
	case 1:
		return elems[0]
	default:
		return Paren(strings.Join(elems, " × "))
	}
}

// TupleValue renders a tuple literal the same way TupleType renders a
// tuple type, but using "," as the separator and never eliding parens
// around a single-element "tuple" (callers needing that should not invoke
// TupleValue with len==1).
func TupleValue(elems []string) string {
	if len(elems) == 0 {
		return "()"
	}
	return Paren(strings.Join(elems, ", "))
}

// ArrowChain renders a curried function type: input1 → input2 → ... → out.
func ArrowChain(inputs []string, out string) string {
	all := append(append([]string(nil), inputs...), out)
	return strings.Join(all, " → ")
}

// EscapeComment makes s safe to place inside a "/- ... -/" block comment by
// neutralizing any "/-" sequence that would otherwise open a nested comment
// inside it. A "-/" sequence in s is left as is.
func EscapeComment(s string) string {
	return strings.ReplaceAll(s, "/-", "/ -")
}

// BlockComment wraps body as a "/- ... -/" comment, escaping it first.
func BlockComment(body string) string {
	return "/- " + EscapeComment(body) + " -/"
}
