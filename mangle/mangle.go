// Package mangle maps fully-qualified source identifiers to identifiers
// valid in the target surface syntax (spec §4.1, "Name Mangler").
package mangle

import "strings"

// reserved is the set of target-language keywords a mangled name must not
// end in. The spec requires at least "end" and "by"; this set also
// includes the other reserved words the translator's own output syntax
// relies on (binders, declaration keywords, the option-monad do-notation),
// generalizing the spec's stated minimum without changing its behavior on
// any name ending in "end" or "by".
var reserved = map[string]bool{
	"end": true, "by": true,
	"fun": true, "let": true, "in": true, "do": true,
	"match": true, "with": true,
	"structure": true, "inductive": true, "definition": true, "theorem": true,
	"import": true, "namespace": true, "open": true,
	"class": true, "extends": true, "instance": true, "noncomputable": true,
}

func isWordChar(r rune) bool {
	return r == '.' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func sanitizeSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isWordChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Name maps a fully-qualified source path to a mangled target identifier.
// Path segments (split on "::") that are exactly "_" — the source
// language's placeholder for an anonymous path component — are dropped
// along with their separator; every remaining character that is neither
// alphanumeric nor "." is replaced with "_"; leading underscores are
// stripped; and a trailing "_" is appended if the final dot-segment
// collides with a reserved target keyword. Name is total, pure, and
// idempotent: re-mangling an already-mangled name (which contains no "::")
// only ever re-sanitizes a single segment, which is a no-op.
func Name(qualifiedPath string) string {
	parts := strings.Split(qualifiedPath, "::")
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "_" {
			continue
		}
		kept = append(kept, sanitizeSegment(p))
	}

	joined := strings.TrimLeft(strings.Join(kept, "."), "_")

	last := joined
	if i := strings.LastIndexByte(joined, '.'); i >= 0 {
		last = joined[i+1:]
	}
	if reserved[last] {
		joined += "_"
	}
	return joined
}
