package depgraph

import (
	"github.com/electrolean/electrolean/frontend"
	"github.com/electrolean/electrolean/mangle"
)

// Resolver is the sole path by which the translator turns a definition id
// into a mangled name. Every other package (typetr, transpile, item) must
// route name resolution through it, since the dependency edges that drive
// emission order and self-recursion detection only exist if every lookup
// goes through here (spec §9, "Recursion detection": "This relies on ...
// transpile_def_id being the sole path for name resolution").
type Resolver struct {
	Graph *Graph
	Ctx   frontend.TypeContext
}

// NewResolver builds a Resolver over a fresh Graph.
func NewResolver(ctx frontend.TypeContext) *Resolver {
	return &Resolver{Graph: New(), Ctx: ctx}
}

// Resolve returns id's mangled name and records the dependency edge (if id
// is local to the crate being translated) or the external crate name (if
// not), attributing the reference to "user" — the definition currently
// being translated (spec §4.3).
func (r *Resolver) Resolve(user, id frontend.DefID) string {
	name := mangle.Name(r.Ctx.QualifiedPath(id))
	if r.Ctx.IsLocal(id) {
		r.Graph.AddDep(id, user)
	} else {
		r.Graph.RecordExternalCrate(r.Ctx.ExternalCrate(id))
	}
	return name
}
