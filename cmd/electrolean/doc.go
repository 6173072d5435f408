/*
The electrolean command lowers a typed, CFG-based MIR program into a
dependently-typed functional target language.

	Usage: electrolean [flags] input-file [-- frontend-args...]

The input file is a JSON document describing one compilation unit: the
typing context, HIR item tree, and MIR function bodies a real
source-language frontend would already have computed (see
github.com/electrolean/electrolean/frontend's Decode). Arguments after a
bare "--" are not parsed as flags; they are reserved for a real frontend
that needs its own configuration (extra search paths, feature flags) and
are otherwise unused by the reference JSON decoder shipped in this
repository.

The -only flag restricts the emitted document to item names (after
mangling) matching any of the given comma-separated prefixes, plus
everything those items depend on.

The output is written to thys/<crate>.lean, where <crate> is the crate
name named in the input document. If thys/<crate>/pre.lean already
exists on disk, the output imports it and opens its namespace.

Every item that fails to translate is still emitted, as a block comment
explaining the failure, so a partially-translatable program still
produces a file other tooling can consume; the command's own exit code
is 0 in that case. A non-zero exit code means the run could not produce
any output at all: a malformed input document, a write failure, or an
internal invariant violation.
*/
package main
